// Package matching combines the deterministic ATS score with the narrative
// analysis into one result per internship.
package matching

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/internhub/internal/ai"
	"github.com/spigell/internhub/internal/ats"
	"github.com/spigell/internhub/internal/logger"
	"github.com/spigell/internhub/internal/profile"
)

const defaultConcurrency = 4

// Service runs matches. A nil narrator yields ATS-only results.
type Service struct {
	narrator    ai.Narrator
	logger      *zap.Logger
	concurrency int
}

func NewService(narrator ai.Narrator, log *zap.Logger, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if log == nil {
		log = zap.NewNop()
	}
	if narrator != nil {
		log = logger.WithCommonFields(log, "gemini", narrator.Model())
	}

	return &Service{
		narrator:    narrator,
		logger:      log,
		concurrency: concurrency,
	}
}

// Narrative reports whether the service asks the narrator for analysis.
func (s *Service) Narrative() bool {
	return s.narrator != nil
}

// Match scores c against o and, with a narrator configured, adds the narrative sections.
// Narrative failures are recorded on the result; only invalid input returns an error.
func (s *Service) Match(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) (*MatchResult, error) {
	result, err := s.score(c, o)
	if err != nil {
		return nil, err
	}

	s.narrate(ctx, c, o, result)
	return result, nil
}

// Batch matches c against every opportunity. Filters and the limit run on the
// ATS-scored matches, so narrative calls are only made for the matches that are kept.
func (s *Service) Batch(ctx context.Context, c *profile.Candidate, opportunities []*profile.Opportunity, opts BatchOptions) (*BatchResult, error) {
	matches := make([]*MatchResult, 0, len(opportunities))
	pairs := make(map[*MatchResult]*profile.Opportunity, len(opportunities))

	for i, o := range opportunities {
		result, err := s.score(c, o)
		if err != nil {
			return nil, fmt.Errorf("internships[%d]: %w", i, err)
		}
		matches = append(matches, result)
		pairs[result] = o
	}

	matches = runFilters(s.logger, []Filter{
		NewMinScore(opts.MinScore),
		NewExcludedCompanies(opts.ExcludeCompanies),
	}, matches)
	filtered := len(opportunities) - len(matches)

	slices.SortStableFunc(matches, func(a, b *MatchResult) int {
		return cmp.Compare(b.MatchScore, a.MatchScore)
	})
	scored := len(matches)
	matches = runFilters(s.logger, []Filter{NewLimit(opts.Limit)}, matches)

	s.logger.Info("batch scored",
		zap.Int("evaluated", len(opportunities)),
		zap.Int("kept", len(matches)),
		zap.Float64("min_score", opts.MinScore),
	)

	if s.narrator != nil {
		var g errgroup.Group
		g.SetLimit(s.concurrency)
		for _, result := range matches {
			g.Go(func() error {
				s.narrate(ctx, c, pairs[result], result)
				return nil
			})
		}
		_ = g.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return &BatchResult{
		Matches:   matches,
		Evaluated: len(opportunities),
		Filtered:  filtered,
		Limited:   scored - len(matches),
	}, nil
}

func (s *Service) score(c *profile.Candidate, o *profile.Opportunity) (*MatchResult, error) {
	if c == nil {
		return nil, &profile.InputError{Field: "student_profile", Reason: "is required"}
	}
	if o == nil {
		return nil, &profile.InputError{Field: "internship", Reason: "is required"}
	}

	score, err := ats.Score(c, o)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("ats score computed",
		append(logger.MatchFields(c.Name, o.DisplayName()),
			zap.Float64("score", score.OverallScore),
			zap.Int("matched_skills", len(score.MatchedSkills)),
			zap.Int("missing_skills", len(score.MissingSkills)),
		)...,
	)

	return newResult(o, score), nil
}

// narrate fills the narrative sections. Recommendations depend on the skill gaps,
// the other tasks are independent.
func (s *Service) narrate(ctx context.Context, c *profile.Candidate, o *profile.Opportunity, result *MatchResult) {
	if s.narrator == nil {
		return
	}

	log := s.logger.With(logger.MatchFields(c.Name, o.DisplayName())...)
	log.Info("requesting narrative analysis")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary, err := s.narrator.Summary(gctx, c, o)
		if err != nil {
			return err
		}
		result.MatchSummary = summary
		return nil
	})

	g.Go(func() error {
		gaps, err := s.narrator.SkillGaps(gctx, c, o)
		if err != nil {
			return err
		}
		if gaps != nil {
			result.SkillGaps = gaps
		}

		recommendations, err := s.narrator.Recommendations(gctx, c, o, result.SkillGaps)
		if err != nil {
			return err
		}
		result.Recommendations = recommendations
		return nil
	})

	g.Go(func() error {
		strengths, err := s.narrator.Strengths(gctx, c, o)
		if err != nil {
			return err
		}
		if strengths != nil {
			result.Strengths = strengths
		}
		return nil
	})

	g.Go(func() error {
		resume, err := s.narrator.Resume(gctx, c, o)
		if err != nil {
			return err
		}
		result.TailoredResume = resume
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("narrative analysis failed, keeping ats result", zap.Error(err))
		result.NarrativeError = err.Error()
		return
	}

	log.Info("narrative analysis completed")
}
