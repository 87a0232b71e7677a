package gemini

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/internhub/internal/ai"
	"github.com/spigell/internhub/internal/logger"
	"github.com/spigell/internhub/internal/profile"
	"github.com/spigell/internhub/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
)

//go:embed prompts/*.md
var promptFS embed.FS

// DefaultStrengths is used when the strengths answer cannot be parsed.
var DefaultStrengths = []string{"Relevant technical skills", "Strong educational background"}

var systemInstructions = map[ai.Task]string{
	ai.TaskSummary:         "You are a career advisor who evaluates students for internships. Be honest and specific.",
	ai.TaskSkillGaps:       "You are a career advisor. You answer with strict JSON and no commentary.",
	ai.TaskStrengths:       "You are a career advisor. You answer with strict JSON and no commentary.",
	ai.TaskRecommendations: "You are a mentor helping students prepare for internship applications.",
	ai.TaskResume:          "You are a professional resume writer for students and early career engineers.",
}

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Narrator implements ai.Narrator on top of a Gemini generator.
type Narrator struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Narrator = (*Narrator)(nil)

func NewNarrator(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Narrator {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Narrator{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (n *Narrator) Model() string {
	if n == nil || n.generator == nil {
		return ""
	}
	return n.generator.Model()
}

func (n *Narrator) Summary(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) (string, error) {
	return n.text(ctx, ai.TaskSummary, c, o, nil)
}

// SkillGaps returns an empty list, not an error, when the answer is not a JSON array.
func (n *Narrator) SkillGaps(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) ([]ai.SkillGap, error) {
	raw, err := n.generate(ctx, ai.TaskSkillGaps, c, o, nil)
	if err != nil {
		return nil, err
	}

	gaps, err := parseSkillGaps(raw)
	if err != nil {
		n.logger.Warn("unparseable skill gaps response", zap.Error(err))
		return []ai.SkillGap{}, nil
	}
	return gaps, nil
}

// Strengths falls back to DefaultStrengths when the answer is not a JSON array.
func (n *Narrator) Strengths(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) ([]string, error) {
	raw, err := n.generate(ctx, ai.TaskStrengths, c, o, nil)
	if err != nil {
		return nil, err
	}

	strengths, err := parseStrings(raw)
	if err != nil || len(strengths) == 0 {
		n.logger.Warn("unparseable strengths response, using defaults", zap.Error(err))
		return append([]string(nil), DefaultStrengths...), nil
	}
	return strengths, nil
}

func (n *Narrator) Recommendations(ctx context.Context, c *profile.Candidate, o *profile.Opportunity, gaps []ai.SkillGap) (string, error) {
	return n.text(ctx, ai.TaskRecommendations, c, o, gaps)
}

func (n *Narrator) Resume(ctx context.Context, c *profile.Candidate, o *profile.Opportunity) (string, error) {
	return n.text(ctx, ai.TaskResume, c, o, nil)
}

func (n *Narrator) text(ctx context.Context, task ai.Task, c *profile.Candidate, o *profile.Opportunity, gaps []ai.SkillGap) (string, error) {
	raw, err := n.generate(ctx, task, c, o, gaps)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(raw), nil
}

func (n *Narrator) generate(ctx context.Context, task ai.Task, c *profile.Candidate, o *profile.Opportunity, gaps []ai.SkillGap) (string, error) {
	if n == nil || n.generator == nil {
		return "", &ai.TaskError{Task: task, Err: fmt.Errorf("gemini narrator is not initialized")}
	}
	if c == nil || o == nil {
		return "", &ai.TaskError{Task: task, Err: fmt.Errorf("candidate and internship are required")}
	}

	prompt, err := buildPrompt(task, c, o, gaps)
	if err != nil {
		return "", &ai.TaskError{Task: task, Err: err}
	}

	log := logger.WithFields(n.logger, logger.CommonFields(providerName, n.generator.Model())...).
		With(logger.MatchFields(c.Name, o.DisplayName())...).
		With(zap.String("task", string(task)))

	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, n.maxLogLen)),
	)

	raw, err := n.generator.GenerateContent(ctx, systemInstructions[task], prompt)
	if err != nil {
		return "", &ai.TaskError{Task: task, Err: err}
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, n.maxLogLen)),
	)

	return raw, nil
}

func buildPrompt(task ai.Task, c *profile.Candidate, o *profile.Opportunity, gaps []ai.SkillGap) (string, error) {
	template, err := promptFS.ReadFile("prompts/" + string(task) + ".md")
	if err != nil {
		return "", fmt.Errorf("load prompt template: %w", err)
	}

	replacer := strings.NewReplacer(
		"{{CANDIDATE}}", describeCandidate(c),
		"{{INTERNSHIP}}", describeOpportunity(o),
		"{{GAPS}}", describeGaps(gaps),
	)
	return replacer.Replace(string(template)), nil
}

func describeCandidate(c *profile.Candidate) string {
	var b strings.Builder
	writeLine(&b, "Name", c.Name, "not provided")
	writeLine(&b, "Education", c.Education, "not provided")
	writeList(&b, "Skills", c.Skills, "none listed")
	writeList(&b, "Interests", c.Interests, "none listed")
	writeLine(&b, "Experience", c.Experience, "no prior experience")
	writeList(&b, "Projects", c.Projects, "none listed")
	writeList(&b, "Certifications", c.Certifications, "none listed")
	return strings.TrimRight(b.String(), "\n")
}

func describeOpportunity(o *profile.Opportunity) string {
	var b strings.Builder
	writeLine(&b, "Title", o.Title, "not provided")
	writeLine(&b, "Company", o.Company, "not provided")
	writeLine(&b, "Location", o.Location, "not provided")
	writeLine(&b, "Duration", o.Duration, "not provided")
	writeLine(&b, "Description", o.Description, "not provided")
	writeList(&b, "Requirements", o.Requirements, "none listed")
	writeList(&b, "Responsibilities", o.Responsibilities, "none listed")
	writeList(&b, "Preferred qualifications", o.PreferredQualifications, "none listed")
	return strings.TrimRight(b.String(), "\n")
}

func describeGaps(gaps []ai.SkillGap) string {
	if len(gaps) == 0 {
		return "- none identified"
	}

	var b strings.Builder
	for _, gap := range gaps {
		b.WriteString("- ")
		b.WriteString(gap.Skill)
		if importance := strings.TrimSpace(gap.Importance); importance != "" {
			fmt.Fprintf(&b, " (%s priority)", importance)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func writeLine(b *strings.Builder, label, value, fallback string) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	fmt.Fprintf(b, "%s: %s\n", label, value)
}

func writeList(b *strings.Builder, label string, values []string, fallback string) {
	items := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			items = append(items, v)
		}
	}
	if len(items) == 0 {
		fmt.Fprintf(b, "%s: %s\n", label, fallback)
		return
	}

	fmt.Fprintf(b, "%s:\n", label)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func parseSkillGaps(raw string) ([]ai.SkillGap, error) {
	var items []any
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse skill gaps: %w", err)
	}

	gaps := make([]ai.SkillGap, 0, len(items))
	for i, item := range items {
		var gap ai.SkillGap
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "mapstructure",
			WeaklyTypedInput: true,
			Result:           &gap,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(item); err != nil {
			return nil, fmt.Errorf("decode skill gap %d: %w", i, err)
		}

		gap.Skill = strings.TrimSpace(gap.Skill)
		if gap.Skill == "" {
			continue
		}
		gap.Importance = strings.ToLower(strings.TrimSpace(gap.Importance))
		if gap.LearningResources == nil {
			gap.LearningResources = []string{}
		}
		gaps = append(gaps, gap)
	}
	return gaps, nil
}

func parseStrings(raw string) ([]string, error) {
	var items []any
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &items); err != nil {
		return nil, fmt.Errorf("parse strengths: %w", err)
	}

	result := make([]string, 0, len(items))
	for _, item := range items {
		if s := coerceString(item); s != "" {
			result = append(result, s)
		}
	}
	return result, nil
}

// extractJSONArray strips code fences and any prose around the outermost array.
func extractJSONArray(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return strings.TrimSpace(raw)
	}
	return raw[start : end+1]
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}
