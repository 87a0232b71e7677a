package matching

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/internhub/internal/ai"
	"github.com/spigell/internhub/internal/profile"
)

type stubNarrator struct {
	calls     atomic.Int32
	resumeErr error
	gaps      []ai.SkillGap
	strengths []string

	mu       sync.Mutex
	gapsSeen []ai.SkillGap
	narrated []string
}

func (s *stubNarrator) record(o *profile.Opportunity) {
	s.calls.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.narrated = append(s.narrated, o.Title)
}

func (s *stubNarrator) Summary(_ context.Context, _ *profile.Candidate, o *profile.Opportunity) (string, error) {
	s.record(o)
	return "summary for " + o.Title, nil
}

func (s *stubNarrator) SkillGaps(_ context.Context, _ *profile.Candidate, o *profile.Opportunity) ([]ai.SkillGap, error) {
	s.record(o)
	return s.gaps, nil
}

func (s *stubNarrator) Strengths(_ context.Context, _ *profile.Candidate, o *profile.Opportunity) ([]string, error) {
	s.record(o)
	return s.strengths, nil
}

func (s *stubNarrator) Recommendations(_ context.Context, _ *profile.Candidate, o *profile.Opportunity, gaps []ai.SkillGap) (string, error) {
	s.record(o)
	s.mu.Lock()
	s.gapsSeen = gaps
	s.mu.Unlock()
	return "recommendations", nil
}

func (s *stubNarrator) Resume(_ context.Context, _ *profile.Candidate, o *profile.Opportunity) (string, error) {
	s.record(o)
	if s.resumeErr != nil {
		return "", s.resumeErr
	}
	return "resume", nil
}

func (s *stubNarrator) Model() string { return "stub" }

func candidate() *profile.Candidate {
	return &profile.Candidate{
		Name:      "Ada",
		Education: "Computer Science",
		Skills:    []string{"Python", "JavaScript"},
	}
}

func internship(title string, requirements ...string) *profile.Opportunity {
	return &profile.Opportunity{Title: title, Company: "Acme", Requirements: requirements}
}

func TestMatchATSOnly(t *testing.T) {
	svc := NewService(nil, zap.NewNop(), 0)
	assert.False(t, svc.Narrative())

	result, err := svc.Match(context.Background(), candidate(), internship("Web", "Python", "JavaScript", "Docker"))
	require.NoError(t, err)

	_, err = uuid.Parse(result.ID)
	require.NoError(t, err)
	assert.Equal(t, "Web", result.InternshipTitle)
	assert.Equal(t, result.KeywordAnalysis.OverallScore, result.MatchScore)
	assert.Equal(t, result.MatchScore, result.ATSConfidenceScore)
	assert.InDelta(t, 66.7, result.KeywordAnalysis.Breakdown.SkillMatch, 0.05)
	assert.Empty(t, result.NarrativeError)
	assert.NotNil(t, result.SkillGaps)
	assert.NotNil(t, result.Strengths)
	assert.False(t, result.HasNarrative())
}

func TestMatchWithNarrative(t *testing.T) {
	narrator := &stubNarrator{
		gaps:      []ai.SkillGap{{Skill: "Docker", Importance: "high"}},
		strengths: []string{"Python"},
	}
	svc := NewService(narrator, zap.NewNop(), 2)

	result, err := svc.Match(context.Background(), candidate(), internship("Web", "Python", "Docker"))
	require.NoError(t, err)

	assert.Equal(t, "summary for Web", result.MatchSummary)
	assert.Equal(t, narrator.gaps, result.SkillGaps)
	assert.Equal(t, narrator.gaps, narrator.gapsSeen)
	assert.Equal(t, []string{"Python"}, result.Strengths)
	assert.Equal(t, "recommendations", result.Recommendations)
	assert.Equal(t, "resume", result.TailoredResume)
	assert.Empty(t, result.NarrativeError)
	assert.True(t, result.HasNarrative())
	assert.EqualValues(t, 5, narrator.calls.Load())
}

func TestMatchKeepsATSResultWhenNarrativeFails(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)
	narrator := &stubNarrator{resumeErr: &ai.TaskError{Task: ai.TaskResume, Err: errors.New("quota")}}
	svc := NewService(narrator, zap.New(core), 0)

	result, err := svc.Match(context.Background(), candidate(), internship("Web", "Python"))
	require.NoError(t, err)

	assert.Equal(t, 100.0, result.KeywordAnalysis.Breakdown.SkillMatch)
	assert.Contains(t, result.NarrativeError, "tailored_resume: quota")
	assert.Empty(t, result.TailoredResume)
	assert.Equal(t, 1, observed.FilterMessage("narrative analysis failed, keeping ats result").Len())
}

func TestMatchRejectsInvalidInput(t *testing.T) {
	svc := NewService(nil, nil, 0)

	_, err := svc.Match(context.Background(), nil, internship("Web"))
	assert.ErrorIs(t, err, profile.ErrInvalidInput)

	bad := candidate()
	bad.Skills = []string{"\xff"}
	_, err = svc.Match(context.Background(), bad, internship("Web"))
	assert.ErrorIs(t, err, profile.ErrInvalidInput)
}

func TestBatchSortsFiltersAndLimits(t *testing.T) {
	narrator := &stubNarrator{}
	svc := NewService(narrator, zap.NewNop(), 2)

	opportunities := []*profile.Opportunity{
		internship("Ops", "Kubernetes", "Terraform"),
		internship("Full stack", "Python", "JavaScript"),
		internship("Data", "Python", "Spark"),
		internship("Frontend", "JavaScript", "React"),
	}

	all, err := NewService(nil, nil, 0).Batch(context.Background(), candidate(), opportunities, BatchOptions{})
	require.NoError(t, err)
	require.Len(t, all.Matches, 4)
	for i := 1; i < len(all.Matches); i++ {
		assert.GreaterOrEqual(t, all.Matches[i-1].MatchScore, all.Matches[i].MatchScore)
	}
	assert.Equal(t, "Full stack", all.Matches[0].InternshipTitle)
	assert.Equal(t, "Ops", all.Matches[3].InternshipTitle)

	minScore := all.Matches[3].MatchScore + 0.1
	result, err := svc.Batch(context.Background(), candidate(), opportunities, BatchOptions{MinScore: minScore, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 4, result.Evaluated)
	assert.Equal(t, 1, result.Filtered)
	assert.Equal(t, 1, result.Limited)
	require.Len(t, result.Matches, 2)
	assert.Equal(t, "Full stack", result.Matches[0].InternshipTitle)
	for _, m := range result.Matches {
		assert.GreaterOrEqual(t, m.MatchScore, minScore)
		assert.Equal(t, "summary for "+m.InternshipTitle, m.MatchSummary)
	}

	assert.EqualValues(t, 10, narrator.calls.Load(), "narrative only for kept matches")
	assert.NotContains(t, narrator.narrated, "Ops")
}

func TestBatchReportsInvalidIndex(t *testing.T) {
	svc := NewService(nil, nil, 0)
	bad := internship("Broken")
	bad.Description = "\xfe"

	_, err := svc.Batch(context.Background(), candidate(), []*profile.Opportunity{internship("Ok"), bad}, BatchOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, profile.ErrInvalidInput)
	assert.Contains(t, err.Error(), "internships[1]")
}

func TestBatchEmpty(t *testing.T) {
	result, err := NewService(nil, nil, 0).Batch(context.Background(), candidate(), nil, BatchOptions{Limit: 3})
	require.NoError(t, err)
	assert.NotNil(t, result.Matches)
	assert.Empty(t, result.Matches)
	assert.Zero(t, result.Limited)
}
