// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"strings"

	"github.com/pdiddy/resume-sync/internal/latex"
	"github.com/pdiddy/resume-sync/pkg/types"
)

// Block is a maximal run of adjacent experience entries sharing one
// (company, position, date) key.
type Block struct {
	Key     types.BlockKey
	Entries []types.Experience
}

// Blocks groups entries by adjacency in a single pass. A key that reappears
// after a different key starts a new block. Keys compare exactly; values
// arrive trimmed from normalization, so in practice only case differences
// split otherwise matching rows.
func Blocks(entries []types.Experience) []Block {
	var blocks []Block
	for _, e := range entries {
		k := e.Key()
		if n := len(blocks); n > 0 && blocks[n-1].Key == k {
			blocks[n-1].Entries = append(blocks[n-1].Entries, e)
			continue
		}
		blocks = append(blocks, Block{Key: k, Entries: []types.Experience{e}})
	}
	return blocks
}

// linkLabels fixes the order in which experience links are rendered.
var linkLabels = []string{"paper", "code", "website", "video", "image"}

func linkURLs(l types.ExperienceLinks) []string {
	return []string{l.Paper, l.Code, l.Website, l.Video, l.Image}
}

// blockHeading renders "{\bf company}, \textit{position} \hfill \textit{date}\\".
func blockHeading(k types.BlockKey) string {
	var b strings.Builder
	b.WriteString(`{\bf ` + latex.EscapeBody(k.Company) + `}`)
	if k.Position != "" {
		b.WriteString(`, \textit{` + latex.EscapeBody(k.Position) + `}`)
	}
	if k.Date != "" {
		b.WriteString(` \hfill \textit{` + latex.EscapeBody(k.Date) + `}`)
	}
	b.WriteString(`\\`)
	return b.String()
}

// SubHeading renders the role line of one entry: italic role, team, the
// bracketed links in fixed order, and advisors flushed right. It returns ""
// when the entry has none of these.
func SubHeading(e types.Experience) string {
	var parts []string
	if e.Role != "" {
		parts = append(parts, `\textit{`+latex.EscapeBody(e.Role)+`}`)
	}
	if e.Team != "" {
		if len(parts) > 0 {
			parts = append(parts, "---")
		}
		parts = append(parts, latex.EscapeBody(e.Team))
	}
	for i, u := range linkURLs(e.Links) {
		if u != "" {
			parts = append(parts, "["+latex.Href(u, linkLabels[i])+"]")
		}
	}

	line := strings.Join(parts, " ")
	if e.Advisors != "" {
		line += ` \hfill ` + latex.EscapeBody(e.Advisors)
	}
	if strings.TrimSpace(line) == "" {
		return ""
	}
	return line + `\\`
}

// Experience renders entries in sheet order, emitting a heading whenever the
// block key changes from the previous entry. Only blocks after the first are
// preceded by a small gap.
func Experience(entries []types.Experience) string {
	out := []string{
		GeneratedMarker,
		`\noindent {\bf EXPERIENCE} \\[-7.5pt]`,
		`\rule{\textwidth}{1.5pt}`,
		`{\setlength{\parskip}{0pt}\setlength{\parsep}{0pt}`,
	}
	for i, blk := range Blocks(entries) {
		if i > 0 {
			out = append(out, `\vspace{4pt}`)
		}
		out = append(out, blockHeading(blk.Key))
		for _, e := range blk.Entries {
			if sub := SubHeading(e); sub != "" {
				out = append(out, sub)
			}
			if list := latex.Itemize(e.Description); list != "" {
				out = append(out, list)
			}
		}
	}
	out = append(out, "}", "")
	return strings.Join(out, "\n")
}
