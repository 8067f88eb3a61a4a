// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared configuration and the normalized records
// that flow from spreadsheet rows into rendered resume sections.
package types

// SectionKind names one subdivision of the output document.
type SectionKind string

const (
	SectionPublications SectionKind = "publications"
	SectionAchievements SectionKind = "achievements"
	SectionEducation    SectionKind = "education"
	SectionResearch     SectionKind = "research"
	SectionExperience   SectionKind = "experience"
	SectionSkills       SectionKind = "skills"
)

// Publication is one row of the publications or patents sheet.
type Publication struct {
	Title   string `json:"title" yaml:"title"`
	Authors string `json:"authors" yaml:"authors"`
	Venue   string `json:"venue" yaml:"venue"`
	Link    string `json:"link" yaml:"link"`
	Tag     string `json:"tag" yaml:"tag"`
}

// Achievement carries a ready-to-typeset line of text.
type Achievement struct {
	Text string `json:"text" yaml:"text"`
	Tag  string `json:"tag" yaml:"tag"`
}

// Education is one degree or program.
type Education struct {
	Institution  string `json:"institution" yaml:"institution"`
	Program      string `json:"program" yaml:"program"`
	Affiliations string `json:"affiliations" yaml:"affiliations"`
	Courses      string `json:"courses" yaml:"courses"`
	Dates        string `json:"dates" yaml:"dates"`
	Location     string `json:"location" yaml:"location"`

	// Tag is empty when the sheet has no tag column.
	Tag string `json:"tag" yaml:"tag"`
}

// ResearchInterest is one paragraph of research-interest prose.
type ResearchInterest struct {
	Text string `json:"text" yaml:"text"`
	Tag  string `json:"tag" yaml:"tag"`
}

// ExperienceLinks holds the optional external references of an experience
// entry, rendered in field order.
type ExperienceLinks struct {
	Paper   string `json:"paper,omitempty" yaml:"paper,omitempty"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
	Website string `json:"website,omitempty" yaml:"website,omitempty"`
	Video   string `json:"video,omitempty" yaml:"video,omitempty"`
	Image   string `json:"image,omitempty" yaml:"image,omitempty"`
}

// Experience is one role or project line under a company heading.
type Experience struct {
	Company     string          `json:"company" yaml:"company"`
	Position    string          `json:"position" yaml:"position"`
	Date        string          `json:"date" yaml:"date"`
	Team        string          `json:"team" yaml:"team"`
	Role        string          `json:"role" yaml:"role"`
	Advisors    string          `json:"advisors" yaml:"advisors"`
	Description string          `json:"description" yaml:"description"`
	Links       ExperienceLinks `json:"links" yaml:"links"`
	Tag         string          `json:"tag" yaml:"tag"`
}

// BlockKey identifies the heading an experience entry belongs to.
type BlockKey struct {
	Company  string
	Position string
	Date     string
}

// Key returns the exact (company, position, date) triple of e.
func (e Experience) Key() BlockKey {
	return BlockKey{Company: e.Company, Position: e.Position, Date: e.Date}
}

// SkillCategory is one column of the skills sheet.
type SkillCategory struct {
	Label  string   `json:"label" yaml:"label"`
	Values []string `json:"values" yaml:"values"`
}
