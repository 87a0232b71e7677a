// Package report renders match results for the terminal.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spigell/internhub/internal/matching"
	"github.com/spigell/internhub/internal/profile"
)

// Format selects how results are written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat accepts "text" or "json", case-insensitively. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text or json)", s)
	}
}

// WriteMatch renders one match result.
func WriteMatch(w io.Writer, r *matching.MatchResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, r)
	}
	return writeMatchText(w, r)
}

// WriteBatch renders a ranked batch.
func WriteBatch(w io.Writer, b *matching.BatchResult, format Format) error {
	if format == FormatJSON {
		return writeJSON(w, b)
	}
	return writeBatchText(w, b)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeMatchText(w io.Writer, r *matching.MatchResult) error {
	p := &printer{w: w}

	p.heading("Match analysis: " + title(r.InternshipTitle, r.Company))

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	rows := [][2]string{
		{"Overall match score:", percent(r.MatchScore)},
		{"ATS confidence score:", percent(r.ATSConfidenceScore)},
	}
	if a := r.KeywordAnalysis; a != nil {
		rows = append(rows,
			[2]string{"  Skill match:", percent(a.Breakdown.SkillMatch)},
			[2]string{"  Experience match:", percent(a.Breakdown.ExperienceMatch)},
			[2]string{"  Education match:", percent(a.Breakdown.EducationMatch)},
			[2]string{"  Keyword density:", percent(a.Breakdown.KeywordDensity)},
		)
	}
	for _, row := range rows {
		p.printf(tw, "%s\t%s\n", row[0], row[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if a := r.KeywordAnalysis; a != nil {
		p.section("Matched skills")
		p.list(a.MatchedSkills, "none")
		p.section("Missing skills")
		p.list(a.MissingSkills, "none")
	}

	if r.MatchSummary != "" {
		p.section("Summary")
		p.block(r.MatchSummary)
	}

	if len(r.Strengths) > 0 {
		p.section("Strengths")
		p.list(r.Strengths, "")
	}

	if len(r.SkillGaps) > 0 {
		p.section("Skill gaps")
		tw = tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		p.printf(tw, "SKILL\tIMPORTANCE\tLEARNING RESOURCES\n")
		for _, gap := range r.SkillGaps {
			importance := gap.Importance
			if importance == "" {
				importance = "-"
			}
			resources := strings.Join(gap.LearningResources, "; ")
			if resources == "" {
				resources = "-"
			}
			p.printf(tw, "%s\t%s\t%s\n", gap.Skill, importance, resources)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if r.Recommendations != "" {
		p.section("Recommendations")
		p.block(r.Recommendations)
	}

	if r.TailoredResume != "" {
		p.section("Tailored resume")
		p.block(r.TailoredResume)
	}

	if r.NarrativeError != "" {
		p.section("Narrative analysis unavailable")
		p.block(r.NarrativeError)
	}

	return p.err
}

func writeBatchText(w io.Writer, b *matching.BatchResult) error {
	p := &printer{w: w}

	p.heading(fmt.Sprintf("Batch results: %d of %d internships", len(b.Matches), b.Evaluated))
	if len(b.Matches) == 0 {
		p.block("No internships passed the filters.")
		return p.err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	p.printf(tw, "#\tINTERNSHIP\tCOMPANY\tMATCH\tMISSING SKILLS\n")
	for i, m := range b.Matches {
		missing := "-"
		if m.KeywordAnalysis != nil && len(m.KeywordAnalysis.MissingSkills) > 0 {
			missing = strings.Join(m.KeywordAnalysis.MissingSkills, ", ")
		}
		p.printf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, orDash(m.InternshipTitle), orDash(m.Company), percent(m.MatchScore), missing)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	for i, m := range b.Matches {
		if m.MatchSummary == "" && m.NarrativeError == "" {
			continue
		}
		p.section(fmt.Sprintf("%d. %s", i+1, title(m.InternshipTitle, m.Company)))
		if m.MatchSummary != "" {
			p.block(m.MatchSummary)
		} else {
			p.block("narrative analysis unavailable: " + m.NarrativeError)
		}
	}

	return p.err
}

// printer remembers the first write error so rendering code stays linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(w io.Writer, format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(w, format, args...)
}

func (p *printer) heading(text string) {
	p.printf(p.w, "%s\n%s\n", text, strings.Repeat("=", len([]rune(text))))
}

func (p *printer) section(text string) {
	p.printf(p.w, "\n%s\n%s\n", text, strings.Repeat("-", len([]rune(text))))
}

func (p *printer) block(text string) {
	p.printf(p.w, "%s\n", strings.TrimSpace(text))
}

func (p *printer) list(items []string, empty string) {
	if len(items) == 0 {
		p.printf(p.w, "%s\n", empty)
		return
	}
	for _, item := range items {
		p.printf(p.w, "  * %s\n", item)
	}
}

func title(name, company string) string {
	return (&profile.Opportunity{Title: name, Company: company}).DisplayName()
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
