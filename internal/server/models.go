package server

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code"`
	Details string `json:"details,omitempty"`
}

type matchRequest struct {
	StudentProfile map[string]any `json:"student_profile" binding:"required"`
	Internship     map[string]any `json:"internship" binding:"required"`
}

type batchRequest struct {
	StudentProfile   map[string]any `json:"student_profile" binding:"required"`
	Internships      []any          `json:"internships" binding:"required"`
	MinScore         float64        `json:"min_score" binding:"gte=0,lte=100"`
	Limit            int            `json:"limit" binding:"gte=0"`
	ExcludeCompanies []string       `json:"exclude_companies"`
}

const (
	codeInvalidInput  = "INVALID_INPUT"
	codeMatchingError = "MATCHING_ERROR"
	codeInternal      = "INTERNAL_ERROR"
)
