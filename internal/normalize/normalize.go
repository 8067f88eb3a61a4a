// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package normalize maps raw spreadsheet rows onto fixed-shape section
// records and decides which records are selected for the resume.
package normalize

import (
	"regexp"
	"strings"

	"github.com/pdiddy/resume-sync/internal/tabular"
	"github.com/pdiddy/resume-sync/pkg/types"
)

// selectionLabel is the tag token that puts a row on the resume.
const selectionLabel = "resume"

// Column aliases in priority order.
var (
	tagAliases = []string{"tag", "Tag"}

	pubTitle   = []string{"title", "Title"}
	pubAuthors = []string{"authors", "Authors"}
	pubVenue   = []string{"venue", "Venue"}
	pubLink    = []string{"link", "URL", "Link"}

	achievementText = []string{"latex update", "latex_update", "Latex update", "Latex Update"}

	eduInstitution  = []string{"Institution", "institution"}
	eduProgram      = []string{"Program", "program"}
	eduAffiliations = []string{"Affiliations", "affiliations"}
	eduCourses      = []string{"Courses", "courses"}
	eduDates        = []string{"Dates", "dates"}
	eduLocation     = []string{"Location", "location"}

	researchText = []string{"Research Interest", "Research Interests", "research interest", "research interests"}

	expCompany     = []string{"Company"}
	expTeam        = []string{"Team"}
	expRole        = []string{"Experience", "Role", "Project"}
	expAdvisors    = []string{"Advisors", "Advisor"}
	expDescription = []string{"Description", "Bullets"}
	expPosition    = []string{"Position", "Title"}
	expDate        = []string{"Company Date", "Date"}
	expPaper       = []string{"Paper", "paper"}
	expCode        = []string{"Code", "code"}
	expWebsite     = []string{"Website", "website"}
	expVideo       = []string{"Video", "video"}
	expImage       = []string{"Image", "image"}
)

// lineBreaks matches a line break together with the whitespace around it.
var lineBreaks = regexp.MustCompile(`\s*\n\s*`)

// Selected reports whether tag, split on ';' or ',', contains the label
// "resume" once each part is trimmed and lower-cased. Partial matches such
// as "resumes" do not count.
func Selected(tag string) bool {
	parts := strings.FieldsFunc(tag, func(r rune) bool { return r == ';' || r == ',' })
	for _, p := range parts {
		if strings.ToLower(strings.TrimSpace(p)) == selectionLabel {
			return true
		}
	}
	return false
}

// CollapseLines joins multi-line prose into a single line.
func CollapseLines(s string) string {
	return strings.TrimSpace(lineBreaks.ReplaceAllString(s, " "))
}

// Publication normalizes a publications or patents row.
func Publication(row tabular.Row) types.Publication {
	return types.Publication{
		Title:   row.Lookup(pubTitle...),
		Authors: row.Lookup(pubAuthors...),
		Venue:   row.Lookup(pubVenue...),
		Link:    row.Lookup(pubLink...),
		Tag:     row.Lookup(tagAliases...),
	}
}

// Achievement normalizes an achievements row.
func Achievement(row tabular.Row) types.Achievement {
	return types.Achievement{
		Text: row.Lookup(achievementText...),
		Tag:  row.Lookup(tagAliases...),
	}
}

// Education normalizes an education row.
func Education(row tabular.Row) types.Education {
	return types.Education{
		Institution:  row.Lookup(eduInstitution...),
		Program:      row.Lookup(eduProgram...),
		Affiliations: row.Lookup(eduAffiliations...),
		Courses:      row.Lookup(eduCourses...),
		Dates:        row.Lookup(eduDates...),
		Location:     row.Lookup(eduLocation...),
		Tag:          row.Lookup(tagAliases...),
	}
}

// Research normalizes a research-interest row, collapsing line breaks.
func Research(row tabular.Row) types.ResearchInterest {
	return types.ResearchInterest{
		Text: CollapseLines(row.Lookup(researchText...)),
		Tag:  row.Lookup(tagAliases...),
	}
}

// Experience normalizes an experience row.
func Experience(row tabular.Row) types.Experience {
	return types.Experience{
		Company:     row.Lookup(expCompany...),
		Position:    row.Lookup(expPosition...),
		Date:        row.Lookup(expDate...),
		Team:        row.Lookup(expTeam...),
		Role:        row.Lookup(expRole...),
		Advisors:    row.Lookup(expAdvisors...),
		Description: row.Lookup(expDescription...),
		Links: types.ExperienceLinks{
			Paper:   row.Lookup(expPaper...),
			Code:    row.Lookup(expCode...),
			Website: row.Lookup(expWebsite...),
			Video:   row.Lookup(expVideo...),
			Image:   row.Lookup(expImage...),
		},
		Tag: row.Lookup(tagAliases...),
	}
}

// Skills turns a column-oriented skills table into one category per column,
// in header order. Blank cells are skipped; a column with no values still
// yields a category.
func Skills(table *tabular.Table) []types.SkillCategory {
	cols := table.Columns()
	out := make([]types.SkillCategory, 0, len(cols))
	for _, c := range cols {
		cat := types.SkillCategory{Label: strings.TrimSpace(c.Header)}
		for _, cell := range c.Cells {
			if v := strings.TrimSpace(cell); v != "" {
				cat.Values = append(cat.Values, v)
			}
		}
		out = append(out, cat)
	}
	return out
}

// Publications normalizes every row and keeps the selected ones in order.
func Publications(rows []tabular.Row) []types.Publication {
	var out []types.Publication
	for _, r := range rows {
		p := Publication(r)
		if Selected(p.Tag) {
			out = append(out, p)
		}
	}
	return out
}

// Achievements keeps selected achievements with non-empty text.
func Achievements(rows []tabular.Row) []types.Achievement {
	var out []types.Achievement
	for _, r := range rows {
		a := Achievement(r)
		if a.Text != "" && Selected(a.Tag) {
			out = append(out, a)
		}
	}
	return out
}

// Educations normalizes every row of t. Rows are filtered by tag only when
// the sheet header carries a tag column; a short row in such a sheet has no
// tag and is dropped.
func Educations(t *tabular.Table) []types.Education {
	filter := t.HasColumn(tagAliases...)
	var out []types.Education
	for _, r := range t.Rows {
		e := Education(r)
		if filter && !Selected(e.Tag) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// ResearchInterests keeps selected, non-empty paragraphs.
func ResearchInterests(rows []tabular.Row) []types.ResearchInterest {
	var out []types.ResearchInterest
	for _, r := range rows {
		ri := Research(r)
		if ri.Text != "" && Selected(ri.Tag) {
			out = append(out, ri)
		}
	}
	return out
}

// Experiences keeps selected experience rows in sheet order.
func Experiences(rows []tabular.Row) []types.Experience {
	var out []types.Experience
	for _, r := range rows {
		e := Experience(r)
		if Selected(e.Tag) {
			out = append(out, e)
		}
	}
	return out
}
