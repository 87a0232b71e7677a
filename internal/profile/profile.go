package profile

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Candidate is the student side of a match.
type Candidate struct {
	Name           string   `json:"name" mapstructure:"name"`
	Email          string   `json:"email,omitempty" mapstructure:"email" validate:"omitempty,email"`
	Education      string   `json:"education" mapstructure:"education"`
	Skills         []string `json:"skills" mapstructure:"skills"`
	Interests      []string `json:"interests,omitempty" mapstructure:"interests"`
	Experience     string   `json:"experience,omitempty" mapstructure:"experience"`
	Projects       []string `json:"projects,omitempty" mapstructure:"projects"`
	Certifications []string `json:"certifications,omitempty" mapstructure:"certifications"`
}

// Opportunity is the internship the candidate is matched against.
type Opportunity struct {
	Title                   string   `json:"title" mapstructure:"title"`
	Company                 string   `json:"company,omitempty" mapstructure:"company"`
	Description             string   `json:"description" mapstructure:"description"`
	Requirements            []string `json:"requirements" mapstructure:"requirements"`
	Responsibilities        []string `json:"responsibilities" mapstructure:"responsibilities"`
	PreferredQualifications []string `json:"preferred_qualifications,omitempty" mapstructure:"preferred_qualifications"`
	Duration                string   `json:"duration,omitempty" mapstructure:"duration"`
	Location                string   `json:"location,omitempty" mapstructure:"location"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field formats. Empty text and empty lists are valid.
func (c *Candidate) Validate() error {
	if c == nil {
		return &InputError{Field: "student_profile", Reason: "is required"}
	}
	return validationError(validate.Struct(c))
}

// Validate checks field formats. Empty text and empty lists are valid.
func (o *Opportunity) Validate() error {
	if o == nil {
		return &InputError{Field: "internship", Reason: "is required"}
	}
	return validationError(validate.Struct(o))
}

// DisplayName is used in logs and rendered reports.
func (o *Opportunity) DisplayName() string {
	title := strings.TrimSpace(o.Title)
	company := strings.TrimSpace(o.Company)
	switch {
	case title == "" && company == "":
		return "untitled internship"
	case company == "":
		return title
	case title == "":
		return company
	default:
		return fmt.Sprintf("%s at %s", title, company)
	}
}

func validationError(err error) error {
	if err == nil {
		return nil
	}

	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		first := errs[0]
		return &InputError{
			Field:  strings.ToLower(first.Field()),
			Reason: fmt.Sprintf("failed %q validation", first.Tag()),
			Cause:  err,
		}
	}

	return &InputError{Reason: "validation failed", Cause: err}
}
