// Package types provides type definitions for structured data used throughout the interview-coach system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// ResumeProfile represents the structured extraction of a resume.
// It is produced once per resume upload and is immutable after creation.
type ResumeProfile struct {
	PersonalInfo    PersonalInfo      `json:"personal_info"`
	Projects        []ProjectEntry    `json:"projects"`
	Experience      []ExperienceEntry `json:"experience"`
	Skills          Skills            `json:"skills"`
	Education       []EducationEntry  `json:"education"`
	Certifications  []string          `json:"certifications"`
	Overall         string            `json:"overall"`
	KeyHighlights   []string          `json:"key_highlights"`
	InterviewTopics []string          `json:"interview_topics"`
}

// PersonalInfo holds contact details extracted from the resume header
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// ProjectEntry represents one project described in the resume
type ProjectEntry struct {
	ProjectName      string   `json:"project_name"`
	Description      string   `json:"description"`
	Technologies     []string `json:"technologies"`
	Role             string   `json:"role"`
	Responsibilities []string `json:"responsibilities"`
	Challenges       []string `json:"challenges"`
	Achievements     []string `json:"achievements"`
	TeamSize         string   `json:"team_size,omitempty"`
	Duration         string   `json:"duration,omitempty"`
	Year             string   `json:"year,omitempty"`
}

// ExperienceEntry represents one work-history entry
type ExperienceEntry struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Duration         string   `json:"duration"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// Skills groups technical and soft skills
type Skills struct {
	Technical TechnicalSkills `json:"technical"`
	Soft      []string        `json:"soft"`
}

// TechnicalSkills categorizes technical skills. Downstream prompt building
// assumes every sub-array is non-nil; see ResumeProfile.Normalize.
type TechnicalSkills struct {
	Languages  []string `json:"languages"`
	Frameworks []string `json:"frameworks"`
	Tools      []string `json:"tools"`
	Databases  []string `json:"databases"`
	Cloud      []string `json:"cloud"`
	Other      []string `json:"other"`
}

// EducationEntry represents one education record
type EducationEntry struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field,omitempty"`
	Year        string `json:"year,omitempty"`
	GPA         string `json:"gpa,omitempty"`
}

// Normalize replaces nil slices with empty ones so downstream consumers
// never need nil-checks on profile collections.
func (p *ResumeProfile) Normalize() {
	if p.Projects == nil {
		p.Projects = []ProjectEntry{}
	}
	if p.Experience == nil {
		p.Experience = []ExperienceEntry{}
	}
	if p.Education == nil {
		p.Education = []EducationEntry{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.KeyHighlights == nil {
		p.KeyHighlights = []string{}
	}
	if p.InterviewTopics == nil {
		p.InterviewTopics = []string{}
	}
	if p.Skills.Soft == nil {
		p.Skills.Soft = []string{}
	}
	p.Skills.Technical.normalize()
}

func (t *TechnicalSkills) normalize() {
	if t.Languages == nil {
		t.Languages = []string{}
	}
	if t.Frameworks == nil {
		t.Frameworks = []string{}
	}
	if t.Tools == nil {
		t.Tools = []string{}
	}
	if t.Databases == nil {
		t.Databases = []string{}
	}
	if t.Cloud == nil {
		t.Cloud = []string{}
	}
	if t.Other == nil {
		t.Other = []string{}
	}
}
