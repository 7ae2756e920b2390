package types

// JobAnalysis is the job-fit analysis produced by the analyze stage.
// It doubles as the enrichment context for the downstream stages.
type JobAnalysis struct {
	MatchScore      float64  `json:"match_score"`
	MatchSummary    string   `json:"match_summary"`
	JobURL          string   `json:"job_url,omitempty"`
	CompanyName     string   `json:"company_name,omitempty"`
	RoleTitle       string   `json:"role_title,omitempty"`
	KeyRequirements []string `json:"key_requirements,omitempty"`
	Strengths       []string `json:"strengths,omitempty"`
	Gaps            []string `json:"gaps,omitempty"`
	Keywords        []string `json:"keywords,omitempty"`
}
