package cmd

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/spigell/internhub/internal/profile"
)

const (
	PromptYes         = "Yes"
	PromptNo          = "No"
	defaultResumeFile = "tailored_resume.md"
)

// promptCandidate asks for the student profile field by field. List fields are comma separated.
func promptCandidate() (*profile.Candidate, error) {
	var (
		c   profile.Candidate
		err error
	)

	steps := []func() error{
		func() error { c.Name, err = promptText("Full name", "", nil); return err },
		func() error { c.Email, err = promptText("Email (optional)", "", validateEmail); return err },
		func() error { c.Education, err = promptText("Education", "", nil); return err },
		func() error { c.Skills, err = promptList("Skills (comma separated)"); return err },
		func() error { c.Interests, err = promptList("Interests (comma separated)"); return err },
		func() error { c.Experience, err = promptText("Experience (optional)", "", nil); return err },
		func() error { c.Projects, err = promptList("Projects (comma separated)"); return err },
		func() error { c.Certifications, err = promptList("Certifications (comma separated)"); return err },
	}
	if err := runSteps(steps); err != nil {
		return nil, err
	}

	return &c, c.Validate()
}

// promptOpportunity asks for the internship description.
func promptOpportunity() (*profile.Opportunity, error) {
	var (
		o   profile.Opportunity
		err error
	)

	steps := []func() error{
		func() error { o.Title, err = promptText("Internship title", "", nil); return err },
		func() error { o.Company, err = promptText("Company", "", nil); return err },
		func() error { o.Description, err = promptText("Description", "", nil); return err },
		func() error { o.Requirements, err = promptList("Requirements (comma separated)"); return err },
		func() error { o.Responsibilities, err = promptList("Responsibilities (comma separated)"); return err },
		func() error {
			o.PreferredQualifications, err = promptList("Preferred qualifications (comma separated)")
			return err
		},
		func() error { o.Duration, err = promptText("Duration (optional)", "", nil); return err },
		func() error { o.Location, err = promptText("Location (optional)", "", nil); return err },
	}
	if err := runSteps(steps); err != nil {
		return nil, err
	}

	return &o, o.Validate()
}

func runSteps(steps []func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func promptText(label, defaultValue string, validate promptui.ValidateFunc) (string, error) {
	p := promptui.Prompt{
		Label:    label,
		Default:  defaultValue,
		Validate: validate,
	}

	value, err := p.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(value), nil
}

func promptList(label string) ([]string, error) {
	value, err := promptText(label, "", nil)
	if err != nil {
		return nil, err
	}
	return splitList(value), nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

func validateEmail(value string) error {
	c := profile.Candidate{Email: strings.TrimSpace(value)}
	if err := c.Validate(); err != nil {
		return errors.New("not a valid email address")
	}
	return nil
}

func confirm(label string) (bool, error) {
	p := promptui.Select{
		Label: label,
		Items: []string{PromptYes, PromptNo},
	}

	_, answer, err := p.Run()
	if err != nil {
		return false, err
	}
	return answer == PromptYes, nil
}
