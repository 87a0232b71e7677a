package profile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCandidate(t *testing.T) {
	raw := map[string]any{
		"name":       "Ada Lovelace",
		"email":      "ada@example.com",
		"education":  "BS Computer Science",
		"skills":     []any{"Python", "Go"},
		"experience": "Built a web scraper in Python",
		"projects":   nil,
	}

	c, err := DecodeCandidate(raw)
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, []string{"Python", "Go"}, c.Skills)
	assert.Empty(t, c.Projects)
	assert.Empty(t, c.Certifications)
}

func TestDecodeCandidateRejectsWrongShapes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  map[string]any
	}{
		{name: "nil object", raw: nil},
		{name: "number as text", raw: map[string]any{"name": 42.0}},
		{name: "text as list", raw: map[string]any{"skills": "Python, Go"}},
		{name: "list with non text", raw: map[string]any{"skills": []any{"Python", 3.0}}},
		{name: "object as text", raw: map[string]any{"education": map[string]any{"degree": "BS"}}},
		{name: "bad email", raw: map[string]any{"email": "not-an-email"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeCandidate(tc.raw)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput), "expected invalid input, got %v", err)

			var inputErr *InputError
			assert.True(t, errors.As(err, &inputErr))
		})
	}
}

func TestDecodeOpportunity(t *testing.T) {
	raw := map[string]any{
		"title":            "Backend Intern",
		"company":          "Acme",
		"description":      "Build APIs",
		"requirements":     []any{"Go", "SQL"},
		"responsibilities": []any{},
	}

	o, err := DecodeOpportunity(raw)
	require.NoError(t, err)

	assert.Equal(t, "Backend Intern at Acme", o.DisplayName())
	assert.Equal(t, []string{"Go", "SQL"}, o.Requirements)
	assert.Empty(t, o.Responsibilities)
}

func TestDecodeOpportunitiesReportsIndex(t *testing.T) {
	_, err := DecodeOpportunities([]any{
		map[string]any{"title": "ok"},
		"not an object",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "internships[1]")

	_, err = DecodeOpportunities([]any{
		map[string]any{"title": "ok"},
		map[string]any{"requirements": "Go"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "internships[1]")
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()

	profilePath := filepath.Join(dir, "profile.json")
	require.NoError(t, os.WriteFile(profilePath, []byte(`{"name":"Ada","skills":["Go"]}`), 0o600))

	listPath := filepath.Join(dir, "internships.json")
	require.NoError(t, os.WriteFile(listPath, []byte(`[{"title":"A"},{"title":"B"}]`), 0o600))

	badPath := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(badPath, []byte(`["not", "an", "object"]`), 0o600))

	c, err := LoadCandidate(profilePath)
	require.NoError(t, err)
	assert.Equal(t, "Ada", c.Name)

	list, err := LoadOpportunities(listPath)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = LoadOpportunity(badPath)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = LoadCandidate(filepath.Join(dir, "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "untitled internship", (&Opportunity{}).DisplayName())
	assert.Equal(t, "Intern", (&Opportunity{Title: " Intern "}).DisplayName())
	assert.Equal(t, "Acme", (&Opportunity{Company: "Acme"}).DisplayName())
}
