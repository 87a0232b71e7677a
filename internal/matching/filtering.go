package matching

import (
	"strings"

	"go.uber.org/zap"
)

// Filter is one step of the batch pipeline. Filters see ATS-scored matches
// before any narrative request is made.
type Filter interface {
	Name() string
	IsEnabled() bool
	Apply(matches []*MatchResult) ([]*MatchResult, Step)
}

// Step describes the result of executing a filtering step.
type Step struct {
	Initial int
	Dropped int
	Left    int
}

// runFilters executes the enabled filters in order.
func runFilters(log *zap.Logger, steps []Filter, matches []*MatchResult) []*MatchResult {
	for _, step := range steps {
		if !step.IsEnabled() {
			log.Debug("filter disabled", zap.String("name", step.Name()))
			continue
		}

		var info Step
		matches, info = step.Apply(matches)

		log.Debug("filter step",
			zap.String("name", step.Name()),
			zap.Int("initial", info.Initial),
			zap.Int("dropped", info.Dropped),
			zap.Int("left", info.Left),
		)
	}
	return matches
}

type minScoreFilter struct {
	threshold float64
}

// NewMinScore drops matches scoring below threshold.
func NewMinScore(threshold float64) Filter {
	return &minScoreFilter{threshold: threshold}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) IsEnabled() bool { return f.threshold > 0 }

func (f *minScoreFilter) Apply(matches []*MatchResult) ([]*MatchResult, Step) {
	return keep(matches, func(m *MatchResult) bool { return m.MatchScore >= f.threshold })
}

type excludedCompaniesFilter struct {
	companies map[string]struct{}
}

// NewExcludedCompanies drops internships offered by the listed companies, ignoring case.
func NewExcludedCompanies(companies []string) Filter {
	set := make(map[string]struct{}, len(companies))
	for _, company := range companies {
		if key := normalizeCompany(company); key != "" {
			set[key] = struct{}{}
		}
	}
	return &excludedCompaniesFilter{companies: set}
}

func (f *excludedCompaniesFilter) Name() string { return "excluded_companies" }

func (f *excludedCompaniesFilter) IsEnabled() bool { return len(f.companies) > 0 }

func (f *excludedCompaniesFilter) Apply(matches []*MatchResult) ([]*MatchResult, Step) {
	return keep(matches, func(m *MatchResult) bool {
		_, excluded := f.companies[normalizeCompany(m.Company)]
		return !excluded
	})
}

type limitFilter struct {
	limit int
}

// NewLimit keeps the first n matches. It expects matches sorted best first.
func NewLimit(n int) Filter {
	return &limitFilter{limit: n}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) IsEnabled() bool { return f.limit > 0 }

func (f *limitFilter) Apply(matches []*MatchResult) ([]*MatchResult, Step) {
	initial := len(matches)
	if initial > f.limit {
		matches = matches[:f.limit]
	}
	return matches, Step{Initial: initial, Dropped: initial - len(matches), Left: len(matches)}
}

func keep(matches []*MatchResult, ok func(*MatchResult) bool) ([]*MatchResult, Step) {
	initial := len(matches)
	kept := matches[:0]
	for _, m := range matches {
		if ok(m) {
			kept = append(kept, m)
		}
	}
	return kept, Step{Initial: initial, Dropped: initial - len(kept), Left: len(kept)}
}

func normalizeCompany(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
