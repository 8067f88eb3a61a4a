// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render turns normalized section records into LaTeX fragments.
// Every renderer is a pure function of its input; missing fields render as
// empty text or omitted lines.
package render

import (
	"fmt"
	"strings"

	"github.com/pdiddy/resume-sync/internal/latex"
	"github.com/pdiddy/resume-sync/pkg/types"
)

// GeneratedMarker is the first line of every fragment.
const GeneratedMarker = `% AUTO-GENERATED -- do not edit manually`

// Options carries the formatting choices shared by renderers.
type Options struct {
	// AuthorNames are set in bold inside author lists.
	AuthorNames []string

	// IncludeLinks appends the publication link when present.
	IncludeLinks bool
}

func publicationItem(p types.Publication, opts Options) string {
	title := latex.EscapeStrict(p.Title)
	authors := latex.Emphasize(latex.EscapeStrict(p.Authors), opts.AuthorNames)
	venue := latex.EscapeStrict(p.Venue)

	var link string
	if opts.IncludeLinks && p.Link != "" {
		link = ` \quad ` + latex.Href(p.Link, "link")
	}
	return fmt.Sprintf("    \\item \\textbf{%s} \\\\\n        %s,\n        {\\\\ \\textit{%s}}%s",
		title, authors, venue, link)
}

// Publications renders publications followed by patents into one numbered
// list. Callers choose the order by swapping the arguments.
func Publications(first, second []types.Publication, opts Options) string {
	lines := []string{
		GeneratedMarker,
		`\noindent {\large \bf PUBLICATIONS \& PATENTS} \\ [-5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		`\vspace{-10pt}`,
		`\begin{enumerate}`,
		`    \itemsep-0.3em`,
	}
	for _, p := range first {
		lines = append(lines, publicationItem(p, opts))
	}
	for _, p := range second {
		lines = append(lines, publicationItem(p, opts))
	}
	lines = append(lines, `\end{enumerate}`, "")
	return strings.Join(lines, "\n")
}

// Achievements renders one numbered item per achievement.
func Achievements(items []types.Achievement) string {
	lines := []string{
		GeneratedMarker,
		`\noindent {\large \bf ACHIEVEMENTS} \\[-5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		`\vspace{-18pt}`,
		``,
		`\begin{enumerate}`,
		`    \itemsep-0.3em`,
	}
	for _, a := range items {
		lines = append(lines, `    \item `+latex.EscapeBody(a.Text))
	}
	lines = append(lines, `\end{enumerate}`, "")
	return strings.Join(lines, "\n")
}

// ProgramLines renders a program name. Text before the first ';' is the
// primary line and the rest follows after a forced line break.
func ProgramLines(program string) string {
	first, rest, ok := strings.Cut(program, ";")
	if !ok {
		return latex.EscapeBody(program)
	}
	return latex.EscapeBody(first) + `\\ ` + latex.EscapeBody(rest)
}

// Education renders one block per degree.
func Education(rows []types.Education) string {
	lines := []string{
		GeneratedMarker,
		`\noindent {\bf EDUCATION} \\[-7.5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		``,
	}
	for _, r := range rows {
		var b strings.Builder
		fmt.Fprintf(&b, "{\\bf %s}{  \\hfill \\textit{%s} \\\\[0pt]\n",
			latex.EscapeBody(r.Institution), latex.EscapeBody(r.Location))
		fmt.Fprintf(&b, "\\small{%s\\hfill \\textit{%s} \\\\\n",
			ProgramLines(r.Program), latex.EscapeBody(r.Dates))
		b.WriteString(latex.EscapeBody(r.Affiliations))
		if r.Courses != "" {
			fmt.Fprintf(&b, " \\\\\n\\textbf{Relevant coursework}: %s", latex.EscapeBody(r.Courses))
		}
		b.WriteString("}}\n")
		lines = append(lines, b.String())
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

// Research renders the interest paragraphs separated by a medium skip and
// closed by one.
func Research(items []types.ResearchInterest) string {
	lines := []string{
		GeneratedMarker,
		`\noindent {\bf RESEARCH INTERESTS} \\[-7.5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		`\vspace{-6pt}`,
		``,
	}
	for i, r := range items {
		if i > 0 {
			lines = append(lines, `\par\medskip`)
		}
		lines = append(lines, latex.EscapeBody(r.Text))
	}
	lines = append(lines, "")
	return strings.Join(lines, "\n") + `\par\medskip` + "\n"
}

// Skills renders one line per category in column order. A category with no
// values still gets its (empty) line.
func Skills(categories []types.SkillCategory) string {
	lines := []string{
		GeneratedMarker,
		`\noindent {\bf SKILLS} \\[-7.5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		`\vspace{-10pt}`,
		`\begin{itemize}`,
		`  \setlength{\itemsep}{0pt}`,
	}
	for _, c := range categories {
		values := make([]string, len(c.Values))
		for i, v := range c.Values {
			values[i] = latex.EscapeBody(v)
		}
		lines = append(lines, fmt.Sprintf(`  \item \textbf{%s}: %s`,
			latex.EscapeStrict(c.Label), strings.Join(values, ", ")))
	}
	lines = append(lines, `\end{itemize}`, "")
	return strings.Join(lines, "\n")
}
