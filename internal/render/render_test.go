// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/resume-sync/pkg/types"
)

func TestPublications(t *testing.T) {
	pubs := []types.Publication{
		{Title: "Fast & Safe", Authors: "Jane Doe, John Roe", Venue: "ICRA 2024", Link: "https://x.org/p"},
	}
	pats := []types.Publication{
		{Title: "A Patent", Authors: "John Roe", Venue: "US 123"},
	}
	opts := Options{AuthorNames: []string{"Jane Doe"}, IncludeLinks: true}

	got := Publications(pubs, pats, opts)

	assert.True(t, strings.HasPrefix(got, GeneratedMarker+"\n"))
	assert.Contains(t, got, `\item \textbf{Fast \& Safe} \\`)
	assert.Contains(t, got, `\textbf{Jane Doe}, John Roe,`)
	assert.Contains(t, got, `{\\ \textit{ICRA 2024}} \quad \href{https://x.org/p}{link}`)
	assert.Contains(t, got, `{\\ \textit{US 123}}`+"\n")
	assert.Less(t, strings.Index(got, "Fast"), strings.Index(got, "A Patent"))
	assert.True(t, strings.HasSuffix(got, "\\end{enumerate}\n"))
}

func TestPublicationsWithoutLinks(t *testing.T) {
	pubs := []types.Publication{{Title: "T", Link: "https://x.org"}}
	got := Publications(pubs, nil, Options{IncludeLinks: false})
	assert.NotContains(t, got, `\href`)
}

func TestAchievements(t *testing.T) {
	got := Achievements([]types.Achievement{{Text: `Top 1% in \textbf{X}`}})
	assert.Contains(t, got, `    \item Top 1\% in \textbf{X}`)
	assert.Contains(t, got, `\begin{enumerate}`)
}

func TestProgramLines(t *testing.T) {
	assert.Equal(t, `MS in CS\\ Thesis on X`, ProgramLines("MS in CS; Thesis on X"))
	assert.Equal(t, "MS in CS", ProgramLines("MS in CS"))
	assert.Equal(t, `A\\ B; C`, ProgramLines("A; B; C"))
}

func TestEducation(t *testing.T) {
	rows := []types.Education{{
		Institution: "CMU", Location: "Pittsburgh", Program: "MS in CS; Thesis on X",
		Dates: "2020 - 2022", Affiliations: "RI", Courses: "ML, CV",
	}, {
		Institution: "IIT", Program: "BTech",
	}}
	got := Education(rows)

	assert.Contains(t, got, "{\\bf CMU}{  \\hfill \\textit{Pittsburgh} \\\\[0pt]\n")
	assert.Contains(t, got, "\\small{MS in CS\\\\ Thesis on X\\hfill \\textit{2020 - 2022} \\\\\n")
	assert.Contains(t, got, "RI \\\\\n\\textbf{Relevant coursework}: ML, CV}}\n")
	assert.Equal(t, 1, strings.Count(got, "Relevant coursework"))
}

func TestResearch(t *testing.T) {
	got := Research([]types.ResearchInterest{{Text: "First"}, {Text: "Second & more"}})
	assert.Contains(t, got, "First\n\\par\\medskip\nSecond \\& more\n")
	assert.True(t, strings.HasSuffix(got, "\\par\\medskip\n"))
}

func TestSkills(t *testing.T) {
	got := Skills([]types.SkillCategory{
		{Label: "Languages", Values: []string{"Go", "C#"}},
		{Label: "Empty"},
	})
	assert.Contains(t, got, `  \item \textbf{Languages}: Go, C\#`)
	assert.Contains(t, got, `  \item \textbf{Empty}: `)
	assert.Less(t, strings.Index(got, "Languages"), strings.Index(got, "Empty"))
}

func TestBlocksAdjacency(t *testing.T) {
	e := func(c, p, d string) types.Experience {
		return types.Experience{Company: c, Position: p, Date: d}
	}
	entries := []types.Experience{
		e("A", "X", "D1"),
		e("A", "X", "D1"),
		e("B", "Y", "D2"),
		e("A", "X", "D1"),
	}

	blocks := Blocks(entries)
	require.Len(t, blocks, 3)
	assert.Equal(t, "A", blocks[0].Key.Company)
	assert.Len(t, blocks[0].Entries, 2)
	assert.Equal(t, "B", blocks[1].Key.Company)
	assert.Equal(t, "A", blocks[2].Key.Company)
	assert.Len(t, blocks[2].Entries, 1)
}

func TestBlocksCaseSensitiveKey(t *testing.T) {
	blocks := Blocks([]types.Experience{
		{Company: "Acme", Position: "Intern"},
		{Company: "acme", Position: "Intern"},
		{Company: "Acme", Position: "Intern"},
	})
	assert.Len(t, blocks, 3)
}

func TestBlocksEmpty(t *testing.T) {
	assert.Empty(t, Blocks(nil))
}

func TestSubHeading(t *testing.T) {
	tests := []struct {
		name string
		in   types.Experience
		want string
	}{
		{
			name: "role and team",
			in:   types.Experience{Role: "Perception", Team: "Autopilot"},
			want: `\textit{Perception} --- Autopilot\\`,
		},
		{
			name: "links in fixed order",
			in: types.Experience{Role: "R", Links: types.ExperienceLinks{
				Image: "https://i", Paper: "https://p", Video: "https://v",
			}},
			want: `\textit{R} [\href{https://p}{paper}] [\href{https://v}{video}] [\href{https://i}{image}]\\`,
		},
		{
			name: "advisors",
			in:   types.Experience{Role: "R", Advisors: "Prof. Z"},
			want: `\textit{R} \hfill Prof. Z\\`,
		},
		{
			name: "nothing to show",
			in:   types.Experience{Description: "only bullets"},
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubHeading(tt.in))
		})
	}
}

func TestExperience(t *testing.T) {
	entries := []types.Experience{
		{Company: "A", Position: "X", Date: "D1", Role: "First", Description: "Built X; Shipped Y;  "},
		{Company: "A", Position: "X", Date: "D1", Role: "Second"},
		{Company: "B", Position: "Y", Date: "D2"},
		{Company: "A", Position: "X", Date: "D1", Description: `\item passthrough`},
	}
	got := Experience(entries)

	assert.Equal(t, 2, strings.Count(got, `{\bf A}, \textit{X} \hfill \textit{D1}\\`))
	assert.Equal(t, 1, strings.Count(got, `{\bf B}, \textit{Y} \hfill \textit{D2}\\`))
	assert.Equal(t, 2, strings.Count(got, `\vspace{4pt}`))
	assert.Contains(t, got, `  \item Built X \item Shipped Y`+"\n")
	assert.Contains(t, got, `  \item passthrough`+"\n")
	assert.Less(t, strings.Index(got, "First"), strings.Index(got, "Second"))
	assert.True(t, strings.HasSuffix(got, "\n}\n"))
}

func TestHeadingOmitsEmptyParts(t *testing.T) {
	got := Experience([]types.Experience{{Company: "Solo"}})
	assert.Contains(t, got, "{\\bf Solo}\\\\\n")
	assert.NotContains(t, got, `\vspace{4pt}`)
}

func TestEmptySectionsRenderContainers(t *testing.T) {
	assert.Contains(t, Publications(nil, nil, Options{}), "\\begin{enumerate}\n    \\itemsep-0.3em\n\\end{enumerate}\n")
	assert.Contains(t, Achievements(nil), "\\begin{enumerate}\n    \\itemsep-0.3em\n\\end{enumerate}\n")
	assert.Contains(t, Experience(nil), "{\\setlength{\\parskip}{0pt}\\setlength{\\parsep}{0pt}\n}\n")
	assert.Contains(t, Skills(nil), "\\begin{itemize}\n  \\setlength{\\itemsep}{0pt}\n\\end{itemize}\n")
	assert.Contains(t, Education(nil), `\rule{\textwidth}{1.5pt}`)
	assert.Contains(t, Research(nil), `\rule{\textwidth}{1.5pt}`)
}
