// Package types provides type definitions for structured data used throughout the resume-studio system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// ResumeData is the structured resume payload consumed by every generation stage.
// The orchestrator never mutates it; section mutation happens through the
// ordered-list helpers below before a pipeline call is issued.
type ResumeData struct {
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
}

// PersonalInfo holds candidate contact details.
type PersonalInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
}

// Experience represents one work-history entry.
type Experience struct {
	Company    string   `json:"company"`
	Title      string   `json:"title"`
	Location   string   `json:"location,omitempty"`
	StartDate  string   `json:"start_date,omitempty"`
	EndDate    string   `json:"end_date,omitempty"`
	Highlights []string `json:"highlights,omitempty"`
}

// Education represents one education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Project represents one project entry.
type Project struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	URL         string   `json:"url,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Certification represents one certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issuer string `json:"issuer,omitempty"`
	Date   string `json:"date,omitempty"`
}

// HasPersonalInfo reports whether the personal-info section carries any content.
// Generation stages refuse to run against a resume with an empty section.
func (r *ResumeData) HasPersonalInfo() bool {
	p := r.PersonalInfo
	fields := []string{p.FullName, p.Email, p.Phone, p.Location, p.LinkedIn, p.Website}
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			return true
		}
	}
	return false
}

// InsertExperience inserts an entry at index i, clamping i into range.
func (r *ResumeData) InsertExperience(i int, e Experience) {
	r.Experience = insertAt(r.Experience, i, e)
}

// RemoveExperience removes the entry at index i. Out-of-range indexes are a no-op.
func (r *ResumeData) RemoveExperience(i int) {
	r.Experience = removeAt(r.Experience, i)
}

// MoveExperience moves the entry at index from to index to.
func (r *ResumeData) MoveExperience(from, to int) {
	r.Experience = move(r.Experience, from, to)
}

// InsertEducation inserts an entry at index i, clamping i into range.
func (r *ResumeData) InsertEducation(i int, e Education) {
	r.Education = insertAt(r.Education, i, e)
}

// RemoveEducation removes the entry at index i. Out-of-range indexes are a no-op.
func (r *ResumeData) RemoveEducation(i int) {
	r.Education = removeAt(r.Education, i)
}

// MoveEducation moves the entry at index from to index to.
func (r *ResumeData) MoveEducation(from, to int) {
	r.Education = move(r.Education, from, to)
}

// InsertProject inserts an entry at index i, clamping i into range.
func (r *ResumeData) InsertProject(i int, p Project) {
	r.Projects = insertAt(r.Projects, i, p)
}

// RemoveProject removes the entry at index i. Out-of-range indexes are a no-op.
func (r *ResumeData) RemoveProject(i int) {
	r.Projects = removeAt(r.Projects, i)
}

// MoveProject moves the entry at index from to index to.
func (r *ResumeData) MoveProject(from, to int) {
	r.Projects = move(r.Projects, from, to)
}

func insertAt[T any](s []T, i int, v T) []T {
	if i < 0 {
		i = 0
	}
	if i > len(s) {
		i = len(s)
	}
	s = append(s, v)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}

func removeAt[T any](s []T, i int) []T {
	if i < 0 || i >= len(s) {
		return s
	}
	return append(s[:i], s[i+1:]...)
}

func move[T any](s []T, from, to int) []T {
	if from < 0 || from >= len(s) || to < 0 || to >= len(s) || from == to {
		return s
	}
	v := s[from]
	s = append(s[:from], s[from+1:]...)
	s = append(s, v)
	copy(s[to+1:], s[to:])
	s[to] = v
	return s
}
