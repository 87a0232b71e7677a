// Package ai defines the contract of the external narrative service.
package ai

import (
	"context"

	"github.com/spigell/internhub/internal/profile"
)

// Task names one kind of narrative request.
type Task string

const (
	TaskSummary         Task = "match_summary"
	TaskSkillGaps       Task = "skill_gaps"
	TaskStrengths       Task = "strengths"
	TaskRecommendations Task = "recommendations"
	TaskResume          Task = "tailored_resume"
)

// SkillGap is a requirement the candidate lacks, with study suggestions.
type SkillGap struct {
	Skill             string   `json:"skill" mapstructure:"skill"`
	Importance        string   `json:"importance" mapstructure:"importance"`
	LearningResources []string `json:"learning_resources" mapstructure:"learning_resources"`
}

// Narrator produces free-form analysis of a candidate/internship pair.
// Implementations are network bound and may fail or return malformed output.
type Narrator interface {
	Summary(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) (string, error)
	SkillGaps(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) ([]SkillGap, error)
	Strengths(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) ([]string, error)
	Recommendations(ctx context.Context, c *profile.Candidate, o *profile.Opportunity, gaps []SkillGap) (string, error)
	Resume(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) (string, error)
	Model() string
}

// TaskError reports which narrative task failed.
type TaskError struct {
	Task Task
	Err  error
}

func (e *TaskError) Error() string {
	return string(e.Task) + ": " + e.Err.Error()
}

func (e *TaskError) Unwrap() error {
	return e.Err
}
