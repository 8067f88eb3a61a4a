// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex holds the text transforms applied to spreadsheet values
// before they are placed into LaTeX fragments.
package latex

import (
	"regexp"
	"slices"
	"strings"
)

// strict escapes every LaTeX special character. It is used for titles,
// author lists and venues, which never carry markup.
var strict = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// body leaves backslash and braces alone so prose cells may embed commands
// such as \textbf{...}.
var body = strings.NewReplacer(
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeStrict trims s and escapes all ten LaTeX special characters in a
// single pass.
func EscapeStrict(s string) string {
	return strict.Replace(strings.TrimSpace(s))
}

// EscapeBody trims s and escapes the special characters other than
// backslash and braces.
func EscapeBody(s string) string {
	return body.Replace(strings.TrimSpace(s))
}

// Emphasize wraps every verbatim occurrence of any of names in \textbf{}.
// Apply it to already-escaped text. Longer names are tried first so that
// "Jane Q. Doe" is not split by a shorter "Jane".
func Emphasize(text string, names []string) string {
	re := namePattern(names)
	if re == nil {
		return text
	}
	return re.ReplaceAllString(text, `\textbf{$1}`)
}

func namePattern(names []string) *regexp.Regexp {
	var quoted []string
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			quoted = append(quoted, regexp.QuoteMeta(n))
		}
	}
	if len(quoted) == 0 {
		return nil
	}
	slices.SortStableFunc(quoted, func(a, b string) int { return len(b) - len(a) })
	return regexp.MustCompile(`(` + strings.Join(quoted, "|") + `)`)
}

// itemMarker is the list-item command; descriptions that already contain it
// are passed through untouched.
const itemMarker = `\item`

// bulletSplit separates free-text bullets.
var bulletSplit = regexp.MustCompile(`;|\n`)

// Bullets returns the list-item body for a description: the text unchanged
// when it already contains \item, otherwise one body-escaped "\item ..." per
// non-empty fragment after splitting on ';' or newline. An empty
// description yields "".
func Bullets(desc string) string {
	d := strings.TrimSpace(desc)
	if d == "" {
		return ""
	}
	if strings.Contains(d, itemMarker) {
		return d
	}
	var items []string
	for _, part := range bulletSplit.Split(d, -1) {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, itemMarker+" "+EscapeBody(p))
		}
	}
	return strings.Join(items, " ")
}

// Itemize wraps the bullets of desc in an itemize environment with all
// vertical spacing removed. It returns "" when desc has no bullets.
func Itemize(desc string) string {
	items := Bullets(desc)
	if items == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("% tight list\n")
	b.WriteString("\\vspace{-10pt}\n")
	b.WriteString("\\begin{itemize}\n")
	b.WriteString("  \\setlength{\\itemsep}{0pt}\n")
	b.WriteString("  \\setlength{\\parskip}{0pt}\n")
	b.WriteString("  \\setlength{\\parsep}{0pt}\n")
	b.WriteString("  \\setlength{\\topsep}{0pt}\n")
	b.WriteString("  \\setlength{\\partopsep}{0pt}\n")
	b.WriteString("  " + items + "\n")
	b.WriteString("\\end{itemize}\n")
	return b.String()
}

// Href renders an inline hyperlink. Characters that break the URL argument
// (%, #) are escaped; the label is strict-escaped.
func Href(url, label string) string {
	u := strings.NewReplacer(`%`, `\%`, `#`, `\#`).Replace(strings.TrimSpace(url))
	return `\href{` + u + `}{` + EscapeStrict(label) + `}`
}
