// Package ats computes the deterministic keyword-overlap score of a candidate against an internship.
//
// Scoring is a pure function of its inputs: there is no shared state, so Score may be called
// concurrently without locking.
package ats

import (
	"math"
	"sort"
	"strings"

	"github.com/spigell/internhub/internal/profile"
)

// Breakdown holds the four sub-scores, each in [0,100].
type Breakdown struct {
	SkillMatch      float64 `json:"skill_match"`
	ExperienceMatch float64 `json:"experience_match"`
	EducationMatch  float64 `json:"education_match"`
	KeywordDensity  float64 `json:"keyword_density"`
}

// Weights has the same shape as Breakdown. The weights sum to 1.
type Weights struct {
	SkillMatch      float64
	ExperienceMatch float64
	EducationMatch  float64
	KeywordDensity  float64
}

// DefaultWeights are the fixed weights of the ATS score.
var DefaultWeights = Weights{
	SkillMatch:      0.40,
	ExperienceMatch: 0.25,
	EducationMatch:  0.15,
	KeywordDensity:  0.20,
}

// Sum returns the total weight.
func (w Weights) Sum() float64 {
	return w.SkillMatch + w.ExperienceMatch + w.EducationMatch + w.KeywordDensity
}

// Apply combines a breakdown into a single unrounded score.
func (w Weights) Apply(b Breakdown) float64 {
	return w.SkillMatch*b.SkillMatch +
		w.ExperienceMatch*b.ExperienceMatch +
		w.EducationMatch*b.EducationMatch +
		w.KeywordDensity*b.KeywordDensity
}

// Result is the outcome of a scoring call.
type Result struct {
	OverallScore  float64   `json:"overall_score"`
	Breakdown     Breakdown `json:"breakdown"`
	MatchedSkills []string  `json:"matched_skills"`
	MissingSkills []string  `json:"missing_skills"`
}

const maxScore = 100.0

// Score rates how well the candidate matches the opportunity.
// The only error is profile.ErrInvalidInput for text that is not valid UTF-8.
func Score(c *profile.Candidate, o *profile.Opportunity) (*Result, error) {
	if c == nil {
		return nil, &profile.InputError{Field: "student_profile", Reason: "is required"}
	}
	if o == nil {
		return nil, &profile.InputError{Field: "internship", Reason: "is required"}
	}
	if err := checkText(c, o); err != nil {
		return nil, err
	}

	skills := skillMatch(c, o)
	breakdown := Breakdown{
		SkillMatch:      skills.score,
		ExperienceMatch: experienceMatch(c, o),
		EducationMatch:  educationMatch(c, o),
		KeywordDensity:  keywordDensity(c, o),
	}

	return &Result{
		OverallScore:  round1(clamp(DefaultWeights.Apply(breakdown))),
		Breakdown:     breakdown,
		MatchedSkills: skills.matched,
		MissingSkills: skills.missing,
	}, nil
}

type skillOutcome struct {
	score   float64
	matched []string
	missing []string
}

type requirement struct {
	key    string
	name   string
	tokens []string
}

// skillMatch counts a requirement as matched when every token of it appears in the
// candidate's skills, experience or projects. "JS" does not match "JavaScript".
func skillMatch(c *profile.Candidate, o *profile.Opportunity) skillOutcome {
	reqs := normalizeRequirements(o.Requirements)
	outcome := skillOutcome{matched: []string{}, missing: []string{}}
	if len(reqs) == 0 {
		outcome.score = maxScore
		return outcome
	}

	evidence := Words(c.Skills...).
		Union(Words(c.Experience)).
		Union(Words(c.Projects...))

	for _, req := range reqs {
		if evidence.HasAll(req.tokens) {
			outcome.matched = append(outcome.matched, req.name)
		} else {
			outcome.missing = append(outcome.missing, req.name)
		}
	}

	outcome.score = ratio(len(outcome.matched), len(reqs))
	return outcome
}

func normalizeRequirements(raw []string) []requirement {
	seen := make(map[string]struct{}, len(raw))
	reqs := make([]requirement, 0, len(raw))
	for _, r := range raw {
		tokens := Phrase(r)
		if len(tokens) == 0 {
			continue
		}
		key := strings.Join(tokens, " ")
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		reqs = append(reqs, requirement{key: key, name: strings.TrimSpace(r), tokens: tokens})
	}

	sort.Slice(reqs, func(i, j int) bool { return reqs[i].key < reqs[j].key })
	return reqs
}

func experienceMatch(c *profile.Candidate, o *profile.Opportunity) float64 {
	responsibilities := Tokenize(o.Responsibilities...)
	if responsibilities.Len() == 0 {
		return maxScore
	}

	experience := Tokenize(c.Experience).Union(Tokenize(c.Projects...))
	if experience.Len() == 0 {
		return 0
	}

	return ratio(experience.IntersectionLen(responsibilities), responsibilities.Len())
}

// educationMatch is the share of the candidate's education words that the
// opportunity mentions in its description or requirements.
func educationMatch(c *profile.Candidate, o *profile.Opportunity) float64 {
	education := Tokenize(c.Education)
	if education.Len() == 0 {
		return 0
	}

	opportunity := Tokenize(o.Description).Union(Tokenize(o.Requirements...))
	return ratio(education.IntersectionLen(opportunity), education.Len())
}

func keywordDensity(c *profile.Candidate, o *profile.Opportunity) float64 {
	opportunity := opportunityTokens(o)
	if opportunity.Len() == 0 {
		return maxScore
	}

	return ratio(candidateTokens(c).IntersectionLen(opportunity), opportunity.Len())
}

// candidateTokens covers every field that a screening system would read. Name,
// email and interests are not screening keywords.
func candidateTokens(c *profile.Candidate) TokenSet {
	texts := make([]string, 0, len(c.Skills)+len(c.Projects)+len(c.Certifications)+2)
	texts = append(texts, c.Skills...)
	texts = append(texts, c.Education, c.Experience)
	texts = append(texts, c.Projects...)
	texts = append(texts, c.Certifications...)
	return Tokenize(texts...)
}

// opportunityTokens leaves out title, company, duration and location.
func opportunityTokens(o *profile.Opportunity) TokenSet {
	texts := make([]string, 0, len(o.Requirements)+len(o.Responsibilities)+len(o.PreferredQualifications)+1)
	texts = append(texts, o.Description)
	texts = append(texts, o.Requirements...)
	texts = append(texts, o.Responsibilities...)
	texts = append(texts, o.PreferredQualifications...)
	return Tokenize(texts...)
}

func ratio(part, total int) float64 {
	if total <= 0 {
		return 0
	}
	return clamp(float64(part) / float64(total) * maxScore)
}

func clamp(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
