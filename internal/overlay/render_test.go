package overlay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/resume-studio/internal/types"
)

func TestRenderAnalysisMarkdown(t *testing.T) {
	a := &types.JobAnalysis{
		MatchScore:      72,
		MatchSummary:    "Strong fit",
		RoleTitle:       "Backend Engineer",
		CompanyName:     "Acme",
		KeyRequirements: []string{"Go", "Postgres"},
		Gaps:            []string{"Kubernetes"},
	}

	out := Render(types.KindAnalysis, a)

	assert.True(t, strings.HasPrefix(out, "# Job Fit Analysis"))
	assert.Contains(t, out, "**Match score:** 72/100")
	assert.Contains(t, out, "Strong fit")
	assert.Contains(t, out, "**Role:** Backend Engineer at Acme")
	assert.Contains(t, out, "## Key requirements")
	assert.Contains(t, out, "- Postgres")
	assert.Contains(t, out, "## Gaps")
	assert.NotContains(t, out, "## Strengths", "empty sections are omitted")
}

func TestRenderResumeStructuredText(t *testing.T) {
	r := types.ResumeData{
		PersonalInfo: types.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "jane@example.com",
			Location: "Toronto",
		},
		Summary: "Engineer with ten years of backend experience.",
		Experience: []types.Experience{
			{Title: "Staff Engineer", Company: "Acme", StartDate: "2019", EndDate: "Present", Highlights: []string{"Led migration"}},
		},
		Skills: []string{"Go", "SQL"},
	}

	out := Render(types.KindTailoredResume, r)

	assert.True(t, strings.HasPrefix(out, "Jane Doe\n"))
	assert.Contains(t, out, "jane@example.com | Toronto")
	assert.Contains(t, out, "SUMMARY\nEngineer with ten years of backend experience.")
	assert.Contains(t, out, "EXPERIENCE\nStaff Engineer - Acme (2019 - Present)")
	assert.Contains(t, out, "  * Led migration")
	assert.Contains(t, out, "SKILLS\nGo, SQL")
}

func TestRenderCoverLetterPassthrough(t *testing.T) {
	out := Render(types.KindCoverLetter, "  Dear team,\n\nI am writing.\n ")
	assert.Equal(t, "Dear team,\n\nI am writing.", out)
}

func TestRenderSuggestionsPassthrough(t *testing.T) {
	out := Render(types.KindSuggestions, "- Quantify outcomes\n- Trim the summary")
	assert.Equal(t, "- Quantify outcomes\n- Trim the summary", out)
}

func TestRenderIsTotalOnUnexpectedPayloads(t *testing.T) {
	assert.Equal(t, "", Render(types.KindAnalysis, nil))

	out := Render(types.KindTailoredResume, map[string]any{"summary": "partial"})
	assert.Contains(t, out, "partial", "malformed payloads degrade to a dump, not a panic")

	out = Render(types.KindCoverLetter, 42)
	assert.NotEmpty(t, out)
}
