package matching

import (
	"github.com/google/uuid"

	"github.com/spigell/internhub/internal/ai"
	"github.com/spigell/internhub/internal/ats"
	"github.com/spigell/internhub/internal/profile"
)

// MatchResult is the complete analysis of one candidate/internship pair.
type MatchResult struct {
	ID                 string        `json:"id"`
	InternshipTitle    string        `json:"internship_title"`
	Company            string        `json:"company"`
	MatchSummary       string        `json:"match_summary"`
	MatchScore         float64       `json:"match_score"`
	SkillGaps          []ai.SkillGap `json:"skill_gaps"`
	Strengths          []string      `json:"strengths"`
	Recommendations    string        `json:"recommendations"`
	TailoredResume     string        `json:"tailored_resume"`
	ATSConfidenceScore float64       `json:"ats_confidence_score"`
	KeywordAnalysis    *ats.Result   `json:"keyword_analysis"`
	NarrativeError     string        `json:"narrative_error,omitempty"`
}

// BatchResult lists the matches that passed the filters, best first.
// Filtered counts min-score and excluded-company drops, Limited the matches cut by the limit.
type BatchResult struct {
	Matches   []*MatchResult `json:"matches"`
	Evaluated int            `json:"evaluated"`
	Filtered  int            `json:"filtered"`
	Limited   int            `json:"limited"`
}

// BatchOptions filter and cut a batch.
type BatchOptions struct {
	// MinScore drops matches scoring below it.
	MinScore float64
	// Limit keeps only the best N matches when positive.
	Limit int
	// ExcludeCompanies drops internships of these companies.
	ExcludeCompanies []string
}

func newResult(o *profile.Opportunity, score *ats.Result) *MatchResult {
	return &MatchResult{
		ID:                 uuid.NewString(),
		InternshipTitle:    o.Title,
		Company:            o.Company,
		MatchScore:         score.OverallScore,
		SkillGaps:          []ai.SkillGap{},
		Strengths:          []string{},
		ATSConfidenceScore: score.OverallScore,
		KeywordAnalysis:    score,
	}
}

// HasNarrative reports whether any narrative section was produced.
func (r *MatchResult) HasNarrative() bool {
	return r.MatchSummary != "" || r.Recommendations != "" || r.TailoredResume != "" ||
		len(r.SkillGaps) > 0 || len(r.Strengths) > 0
}
