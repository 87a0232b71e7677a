package matching

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/internhub/internal/profile"
)

func scored(entries ...any) []*MatchResult {
	results := make([]*MatchResult, 0, len(entries)/2)
	for i := 0; i+1 < len(entries); i += 2 {
		results = append(results, &MatchResult{Company: entries[i].(string), MatchScore: entries[i+1].(float64)})
	}
	return results
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name    string
		filter  Filter
		enabled bool
		input   []*MatchResult
		left    []string
	}{
		{
			name:    "min score keeps equal",
			filter:  NewMinScore(50),
			enabled: true,
			input:   scored("a", 49.9, "b", 50.0, "c", 80.0),
			left:    []string{"b", "c"},
		},
		{
			name:   "zero min score disabled",
			filter: NewMinScore(0),
			input:  scored("a", 0.0),
			left:   []string{"a"},
		},
		{
			name:    "excluded companies ignore case and spacing",
			filter:  NewExcludedCompanies([]string{" ACME  corp ", ""}),
			enabled: true,
			input:   scored("Acme Corp", 90.0, "Globex", 10.0),
			left:    []string{"Globex"},
		},
		{
			name:   "no excluded companies",
			filter: NewExcludedCompanies([]string{"  "}),
			input:  scored("Acme", 1.0),
			left:   []string{"Acme"},
		},
		{
			name:    "limit",
			filter:  NewLimit(2),
			enabled: true,
			input:   scored("a", 3.0, "b", 2.0, "c", 1.0),
			left:    []string{"a", "b"},
		},
		{
			name:    "limit above length",
			filter:  NewLimit(5),
			enabled: true,
			input:   scored("a", 3.0),
			left:    []string{"a"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.enabled, tt.filter.IsEnabled())

			got := runFilters(zap.NewNop(), []Filter{tt.filter}, tt.input)
			companies := make([]string, 0, len(got))
			for _, m := range got {
				companies = append(companies, m.Company)
			}
			assert.Equal(t, tt.left, companies)
		})
	}
}

func TestRunFiltersLogsSteps(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	left := runFilters(zap.New(core), []Filter{NewMinScore(10), NewLimit(0)}, scored("a", 5.0, "b", 15.0))
	require.Len(t, left, 1)

	steps := observed.FilterMessage("filter step").All()
	require.Len(t, steps, 1)
	ctx := steps[0].ContextMap()
	assert.Equal(t, "min_score", ctx["name"])
	assert.EqualValues(t, 2, ctx["initial"])
	assert.EqualValues(t, 1, ctx["dropped"])
	assert.Equal(t, 1, observed.FilterMessage("filter disabled").Len())
}

func TestBatchExcludesCompanies(t *testing.T) {
	svc := NewService(nil, nil, 0)
	web := internship("Web", "Python")
	data := internship("Data", "Python")
	data.Company = "Globex"

	result, err := svc.Batch(context.Background(), candidate(), []*profile.Opportunity{web, data}, BatchOptions{ExcludeCompanies: []string{"acme"}})
	require.NoError(t, err)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "Data", result.Matches[0].InternshipTitle)
	assert.Equal(t, 1, result.Filtered)
}
