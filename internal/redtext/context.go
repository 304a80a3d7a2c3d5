// Package redtext finds the red placeholder values in an audit report
// template and groups them under the table schema each belongs to.
package redtext

import (
	"regexp"
	"strings"

	"github.com/transportops/auditfill/internal/docx"
)

var wsRe = regexp.MustCompile(`\s+`)

// normalizeText collapses runs of whitespace.
func normalizeText(s string) string {
	return wsRe.ReplaceAllString(strings.TrimSpace(s), " ")
}

// TableContext captures everything the scorer looks at for one table. It is
// computed fresh per table and never cached across documents.
type TableContext struct {
	Heading   string
	Headers   []string
	Col0      []string
	FirstCell string
	AllCells  []string
	NumRows   int
	NumCols   int
}

// buildContext assembles the match context for a table. heading is the text
// of the nearest preceding non-empty paragraph.
func buildContext(tbl *docx.Table, heading string) TableContext {
	ctx := TableContext{Heading: normalizeText(heading)}
	rows := tbl.Rows()
	ctx.NumRows = len(rows)
	if len(rows) == 0 {
		return ctx
	}
	for _, c := range rows[0].Cells() {
		ctx.NumCols++
		if t := normalizeText(c.Text()); t != "" {
			ctx.Headers = append(ctx.Headers, t)
		}
	}
	for _, r := range rows {
		cells := r.Cells()
		if len(cells) == 0 {
			continue
		}
		if t := normalizeText(cells[0].Text()); t != "" {
			ctx.Col0 = append(ctx.Col0, t)
		}
		for _, c := range cells {
			if t := normalizeText(c.Text()); t != "" {
				ctx.AllCells = append(ctx.AllCells, t)
			}
		}
	}
	if cells := rows[0].Cells(); len(cells) > 0 {
		ctx.FirstCell = normalizeText(cells[0].Text())
	}
	return ctx
}

// headerBlob joins headers and heading lowercased for keyword scans.
func (c TableContext) headerBlob() string {
	return strings.ToLower(strings.Join(c.Headers, " ") + " " + c.Heading)
}

func (c TableContext) headersJoined() string {
	return strings.ToLower(strings.Join(c.Headers, " "))
}

// looksLikeOperatorDeclaration is the hard pre-check that keeps the operator
// sign-off table from being scored against the auditor variant.
func looksLikeOperatorDeclaration(c TableContext) bool {
	heading := strings.ToLower(c.Heading)
	headers := c.headersJoined()
	return strings.Contains(heading, "operator declaration") &&
		strings.Contains(headers, "print name") &&
		strings.Contains(headers, "position") &&
		strings.Contains(headers, "title")
}

func looksLikeAuditorDeclaration(c TableContext) bool {
	heading := strings.ToLower(c.Heading)
	headers := c.headersJoined()
	return strings.Contains(heading, "auditor declaration") &&
		strings.Contains(headers, "print name") &&
		(strings.Contains(headers, "nhvr") || strings.Contains(headers, "auditor registration number"))
}
