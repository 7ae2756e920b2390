package backend

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/resume-studio/internal/types"
)

// prompt builders for the direct Gemini client. The resume payload travels as
// JSON; the analysis context, when present, is appended as enrichment.

func analyzePrompt(req AnalyzeRequest) (string, error) {
	resumeJSON, err := json.Marshal(req.Resume)
	if err != nil {
		return "", fmt.Errorf("encoding resume: %w", err)
	}

	var b strings.Builder
	b.WriteString("You evaluate how well a candidate fits a job posting.\n")
	b.WriteString("Respond with a single JSON object with keys: match_score (0-100 number), ")
	b.WriteString("match_summary (string), company_name, role_title, key_requirements (string array), ")
	b.WriteString("strengths (string array), gaps (string array), keywords (string array).\n\n")
	fmt.Fprintf(&b, "Job description:\n%s\n\nCandidate resume (JSON):\n%s\n", req.JobDescription, resumeJSON)
	return b.String(), nil
}

func tailorPrompt(req TailorRequest) (string, error) {
	resumeJSON, err := json.Marshal(req.Resume)
	if err != nil {
		return "", fmt.Errorf("encoding resume: %w", err)
	}

	var b strings.Builder
	b.WriteString("You tailor a resume to a job posting without inventing experience.\n")
	b.WriteString("Respond with a single JSON object using the same schema as the input resume.\n\n")
	fmt.Fprintf(&b, "Job description:\n%s\n\nResume (JSON):\n%s\n", req.JobDescription, resumeJSON)
	appendContext(&b, req.AnalysisContext)
	if req.UserPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the candidate:\n%s\n", req.UserPrompt)
	}
	return b.String(), nil
}

func coverLetterPrompt(req CoverLetterRequest) (string, error) {
	resumeJSON, err := json.Marshal(req.Resume)
	if err != nil {
		return "", fmt.Errorf("encoding resume: %w", err)
	}

	var b strings.Builder
	b.WriteString("Write the body of a concise cover letter for the job below. ")
	b.WriteString("Plain paragraphs only, no salutation or signature placeholders.\n\n")
	fmt.Fprintf(&b, "Job description:\n%s\n\nCandidate resume (JSON):\n%s\n", req.JobDescription, resumeJSON)
	appendContext(&b, req.AnalysisContext)
	if req.UserPrompt != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the candidate:\n%s\n", req.UserPrompt)
	}
	return b.String(), nil
}

func suggestionsPrompt(req SuggestionsRequest) (string, error) {
	resumeJSON, err := json.Marshal(req.Resume)
	if err != nil {
		return "", fmt.Errorf("encoding resume: %w", err)
	}

	var b strings.Builder
	b.WriteString("Suggest concrete improvements to the resume below for the given job. ")
	b.WriteString("Respond in markdown with one section per resume area.\n\n")
	fmt.Fprintf(&b, "Job description:\n%s\n\nCandidate resume (JSON):\n%s\n", req.JobDescription, resumeJSON)
	appendContext(&b, req.AnalysisContext)
	return b.String(), nil
}

func appendContext(b *strings.Builder, analysis *types.JobAnalysis) {
	if analysis == nil {
		return
	}
	ctxJSON, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	fmt.Fprintf(b, "\nPrior job-fit analysis for context (JSON):\n%s\n", ctxJSON)
}
