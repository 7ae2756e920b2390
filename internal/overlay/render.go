package overlay

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// Render produces the canonical editable text for an artifact payload.
// Exactly one rendering per kind: markdown for analysis and suggestions,
// structured-document text for the tailored resume, plain paragraphs for the
// cover letter. Rendering is total: a payload of an unexpected shape degrades
// to a best-effort textual dump instead of failing the overlay update.
func Render(kind types.ArtifactKind, payload any) string {
	switch kind {
	case types.KindAnalysis:
		if a, ok := asAnalysis(payload); ok {
			return renderAnalysis(a)
		}
	case types.KindTailoredResume:
		if r, ok := asResume(payload); ok {
			return renderResume(r)
		}
	case types.KindCoverLetter, types.KindSuggestions:
		if s, ok := asString(payload); ok {
			return strings.TrimSpace(s)
		}
	}
	return dump(payload)
}

func asAnalysis(payload any) (*types.JobAnalysis, bool) {
	switch v := payload.(type) {
	case *types.JobAnalysis:
		return v, v != nil
	case types.JobAnalysis:
		return &v, true
	}
	return nil, false
}

func asResume(payload any) (*types.ResumeData, bool) {
	switch v := payload.(type) {
	case *types.ResumeData:
		return v, v != nil
	case types.ResumeData:
		return &v, true
	}
	return nil, false
}

func asString(payload any) (string, bool) {
	switch v := payload.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func renderAnalysis(a *types.JobAnalysis) string {
	var b strings.Builder
	b.WriteString("# Job Fit Analysis\n\n")
	fmt.Fprintf(&b, "**Match score:** %.0f/100\n\n", a.MatchScore)
	if a.MatchSummary != "" {
		fmt.Fprintf(&b, "%s\n", a.MatchSummary)
	}
	if a.CompanyName != "" || a.RoleTitle != "" {
		fmt.Fprintf(&b, "\n**Role:** %s", a.RoleTitle)
		if a.CompanyName != "" {
			fmt.Fprintf(&b, " at %s", a.CompanyName)
		}
		b.WriteString("\n")
	}
	if a.JobURL != "" {
		fmt.Fprintf(&b, "\n**Posting:** %s\n", a.JobURL)
	}
	writeList(&b, "Key requirements", a.KeyRequirements)
	writeList(&b, "Strengths", a.Strengths)
	writeList(&b, "Gaps", a.Gaps)
	writeList(&b, "Keywords", a.Keywords)
	return strings.TrimSpace(b.String())
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func renderResume(r *types.ResumeData) string {
	var b strings.Builder
	if r.PersonalInfo.FullName != "" {
		fmt.Fprintf(&b, "%s\n", r.PersonalInfo.FullName)
	}
	contact := contactLine(r.PersonalInfo)
	if contact != "" {
		fmt.Fprintf(&b, "%s\n", contact)
	}
	if r.Summary != "" {
		fmt.Fprintf(&b, "\nSUMMARY\n%s\n", r.Summary)
	}
	if len(r.Experience) > 0 {
		b.WriteString("\nEXPERIENCE\n")
		for _, e := range r.Experience {
			fmt.Fprintf(&b, "%s - %s", e.Title, e.Company)
			if e.StartDate != "" || e.EndDate != "" {
				fmt.Fprintf(&b, " (%s - %s)", e.StartDate, e.EndDate)
			}
			b.WriteString("\n")
			for _, h := range e.Highlights {
				fmt.Fprintf(&b, "  * %s\n", h)
			}
		}
	}
	if len(r.Education) > 0 {
		b.WriteString("\nEDUCATION\n")
		for _, e := range r.Education {
			fmt.Fprintf(&b, "%s", e.Institution)
			if e.Degree != "" {
				fmt.Fprintf(&b, " - %s", e.Degree)
				if e.Field != "" {
					fmt.Fprintf(&b, ", %s", e.Field)
				}
			}
			b.WriteString("\n")
		}
	}
	if len(r.Skills) > 0 {
		fmt.Fprintf(&b, "\nSKILLS\n%s\n", strings.Join(r.Skills, ", "))
	}
	if len(r.Projects) > 0 {
		b.WriteString("\nPROJECTS\n")
		for _, p := range r.Projects {
			fmt.Fprintf(&b, "%s", p.Name)
			if p.Description != "" {
				fmt.Fprintf(&b, " - %s", p.Description)
			}
			b.WriteString("\n")
			for _, h := range p.Highlights {
				fmt.Fprintf(&b, "  * %s\n", h)
			}
		}
	}
	if len(r.Certifications) > 0 {
		b.WriteString("\nCERTIFICATIONS\n")
		for _, c := range r.Certifications {
			fmt.Fprintf(&b, "%s", c.Name)
			if c.Issuer != "" {
				fmt.Fprintf(&b, " (%s)", c.Issuer)
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimSpace(b.String())
}

func contactLine(p types.PersonalInfo) string {
	var parts []string
	for _, f := range []string{p.Email, p.Phone, p.Location, p.LinkedIn, p.Website} {
		if f != "" {
			parts = append(parts, f)
		}
	}
	return strings.Join(parts, " | ")
}

// dump is the fallback rendering for malformed or partial payloads.
func dump(payload any) string {
	if payload == nil {
		return ""
	}
	if raw, err := json.MarshalIndent(payload, "", "  "); err == nil {
		return string(raw)
	}
	return fmt.Sprintf("%v", payload)
}
