package ats

import (
	"fmt"
	"unicode/utf8"

	"github.com/spigell/internhub/internal/profile"
)

type textField struct {
	name   string
	values []string
	list   bool
}

func checkText(c *profile.Candidate, o *profile.Opportunity) error {
	fields := []textField{
		{"student_profile.name", []string{c.Name}, false},
		{"student_profile.education", []string{c.Education}, false},
		{"student_profile.experience", []string{c.Experience}, false},
		{"student_profile.skills", c.Skills, true},
		{"student_profile.projects", c.Projects, true},
		{"student_profile.certifications", c.Certifications, true},
		{"internship.title", []string{o.Title}, false},
		{"internship.description", []string{o.Description}, false},
		{"internship.requirements", o.Requirements, true},
		{"internship.responsibilities", o.Responsibilities, true},
		{"internship.preferred_qualifications", o.PreferredQualifications, true},
	}

	for _, field := range fields {
		for idx, value := range field.values {
			if utf8.ValidString(value) {
				continue
			}
			name := field.name
			if field.list {
				name = fmt.Sprintf("%s[%d]", field.name, idx)
			}
			return &profile.InputError{Field: name, Reason: "is not valid UTF-8 text"}
		}
	}
	return nil
}
