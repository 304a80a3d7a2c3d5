// Package docxwriter writes merged values back into the audit report
// template, replacing red placeholder text with black values while leaving
// the rest of the document untouched.
package docxwriter

import (
	"regexp"
	"strings"

	"github.com/transportops/auditfill/internal/docx"
)

var (
	wsRe        = regexp.MustCompile(`\s+`)
	nonCanonRe  = regexp.MustCompile(`[^a-z0-9/#()+,.\- ]+`)
	nonLabelRe  = regexp.MustCompile(`[^a-z0-9 ]+`)
	rowNumberRe = regexp.MustCompile(`^\d+\.?$`)
	stdKeyRe    = regexp.MustCompile(`^(std\s+\d+)`)
	digitRe     = regexp.MustCompile(`\d`)
)

// canon normalises free text for containment checks, keeping punctuation
// that distinguishes headings.
func canon(s string) string {
	s = strings.ToLower(strings.TrimSpace(wsRe.ReplaceAllString(s, " ")))
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	return nonCanonRe.ReplaceAllString(s, "")
}

// canonLabel normalises a label for equality, dropping all punctuation.
func canonLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(wsRe.ReplaceAllString(s, " ")))
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	s = nonLabelRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// joinValue flattens a value array to the text written into the document.
func joinValue(vals []string) string {
	var kept []string
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, "\n")
}

func splitDigits(s string) []string {
	return digitRe.FindAllString(s, -1)
}

// stdKey reduces a standards label to its "std N" key.
func stdKey(s string) string {
	t := canonLabel(s)
	if m := stdKeyRe.FindStringSubmatch(t); m != nil {
		return m[1]
	}
	return t
}

// allParagraphs returns every paragraph in body order, including those
// nested in table cells.
func allParagraphs(doc *docx.Document) []*docx.Paragraph {
	var out []*docx.Paragraph
	for _, b := range doc.Blocks() {
		switch {
		case b.Paragraph != nil:
			out = append(out, b.Paragraph)
		case b.Table != nil:
			for _, row := range b.Table.Rows() {
				for _, cell := range row.Cells() {
					out = append(out, cell.Paragraphs()...)
				}
			}
		}
	}
	return out
}

func redRuns(p *docx.Paragraph) []*docx.Run {
	var out []*docx.Run
	for _, r := range p.Runs() {
		if r.IsPlaceholder() {
			out = append(out, r)
		}
	}
	return out
}

func hasRedRun(p *docx.Paragraph) bool { return len(redRuns(p)) > 0 }

func cellHasRed(c *docx.Cell) bool {
	for _, p := range c.Paragraphs() {
		if hasRedRun(p) {
			return true
		}
	}
	return false
}

// replaceRedInParagraph collapses the paragraph's red runs into the first
// one, writing the value in black. Reports whether anything was replaced.
func replaceRedInParagraph(p *docx.Paragraph, text string) bool {
	reds := redRuns(p)
	if len(reds) == 0 {
		return false
	}
	reds[0].SetText(text)
	reds[0].SetColorBlack()
	for _, r := range reds[1:] {
		r.SetText("")
	}
	return true
}

// replaceRedInCell replaces red runs in the cell, or overwrites the whole
// cell in black when no red placeholder is present.
func replaceRedInCell(c *docx.Cell, text string) bool {
	any := false
	for _, p := range c.Paragraphs() {
		if replaceRedInParagraph(p, text) {
			any = true
		}
	}
	if any {
		return true
	}
	setCellTextBlack(c, text)
	return true
}

// clearParagraphWriteBlack wipes a paragraph's runs and writes fresh black
// text, cloning the first run's formatting when one exists.
func clearParagraphWriteBlack(p *docx.Paragraph, text string) {
	runs := p.Runs()
	var tmpl *docx.Run
	if len(runs) > 0 {
		tmpl = runs[0]
	}
	for _, r := range runs {
		r.SetText("")
	}
	r := p.AddRun(text, tmpl)
	r.SetColorBlack()
}

// setCellTextBlack clears a cell and writes a single black value.
func setCellTextBlack(c *docx.Cell, text string) {
	paras := c.Paragraphs()
	if len(paras) == 0 {
		p := c.AddParagraph(nil)
		r := p.AddRun(text, nil)
		r.SetColorBlack()
		return
	}
	for _, p := range paras {
		for _, r := range p.Runs() {
			r.SetText("")
		}
	}
	clearParagraphWriteBlack(paras[0], text)
}

// nukeCellParagraphs removes every paragraph from a cell.
func nukeCellParagraphs(c *docx.Cell) {
	for _, p := range c.Paragraphs() {
		c.RemoveParagraph(p)
	}
}

// findLabelCell locates a cell whose text equals (then, failing that,
// contains) the label.
func findLabelCell(doc *docx.Document, label string) (*docx.Table, int, int, bool) {
	target := canonLabel(label)
	if target == "" {
		return nil, 0, 0, false
	}
	type hit struct {
		t    *docx.Table
		r, c int
	}
	var contains *hit
	for _, t := range doc.Tables() {
		for ri, row := range t.Rows() {
			for ci, cell := range row.Cells() {
				got := canonLabel(cell.Text())
				if got == target {
					return t, ri, ci, true
				}
				if contains == nil && strings.Contains(got, target) {
					contains = &hit{t, ri, ci}
				}
			}
		}
	}
	if contains != nil {
		return contains.t, contains.r, contains.c, true
	}
	return nil, 0, 0, false
}

// adjacentValueCell picks the value cell for a label: right neighbour first,
// then the cell below, then the label cell itself.
func adjacentValueCell(t *docx.Table, r, c int) *docx.Cell {
	rows := t.Rows()
	cells := rows[r].Cells()
	if c+1 < len(cells) {
		return cells[c+1]
	}
	if r+1 < len(rows) {
		below := rows[r+1].Cells()
		if c < len(below) {
			return below[c]
		}
	}
	return cells[c]
}

// findHeadingParagraph finds the first paragraph starting with (then merely
// containing) the heading.
func findHeadingParagraph(doc *docx.Document, heading string) (int, []*docx.Paragraph, bool) {
	key := canon(heading)
	paras := allParagraphs(doc)
	for i, p := range paras {
		if strings.HasPrefix(canon(p.Text()), key) {
			return i, paras, true
		}
	}
	for i, p := range paras {
		if strings.Contains(canon(p.Text()), key) {
			return i, paras, true
		}
	}
	return 0, paras, false
}

// lastParagraphContaining scans from the end for the last paragraph whose
// text contains key.
func lastParagraphContaining(paras []*docx.Paragraph, key string) (int, bool) {
	k := canon(key)
	for i := len(paras) - 1; i >= 0; i-- {
		if strings.Contains(canon(paras[i].Text()), k) {
			return i, true
		}
	}
	return 0, false
}

// tableHeaderText joins the first up-to-N rows of a table for sniffing.
func tableHeaderText(t *docx.Table, upToRows int) string {
	var parts []string
	for i, row := range t.Rows() {
		if i >= upToRows {
			break
		}
		for _, c := range row.Cells() {
			parts = append(parts, c.Text())
		}
	}
	return canon(strings.Join(parts, " "))
}

// headerColTexts merges the first scanRows rows per column so split headers
// compare whole.
func headerColTexts(t *docx.Table, scanRows int) []string {
	rows := t.Rows()
	if len(rows) == 0 {
		return nil
	}
	if scanRows > len(rows) {
		scanRows = len(rows)
	}
	baseCols := 0
	for i := 0; i < scanRows; i++ {
		if n := len(rows[i].Cells()); n > baseCols {
			baseCols = n
		}
	}
	out := make([]string, baseCols)
	for j := 0; j < baseCols; j++ {
		var parts []string
		for i := 0; i < scanRows; i++ {
			cells := rows[i].Cells()
			if j < len(cells) {
				parts = append(parts, cells[j].Text())
			}
		}
		out[j] = canon(strings.Join(parts, " "))
	}
	return out
}

// countHeaderRows finds where data rows start: the first row whose leading
// cell is a bare row number.
func countHeaderRows(t *docx.Table, scanUpTo int) int {
	rows := t.Rows()
	if scanUpTo > len(rows) {
		scanUpTo = len(rows)
	}
	for i := 0; i < scanUpTo; i++ {
		cells := rows[i].Cells()
		if len(cells) == 0 {
			continue
		}
		if rowNumberRe.MatchString(strings.TrimSpace(cells[0].Text())) {
			return i
		}
	}
	return 1
}

func firstColWith(cols []string, needles ...string) (int, bool) {
	for j, t := range cols {
		ok := true
		for _, n := range needles {
			if !strings.Contains(t, n) {
				ok = false
				break
			}
		}
		if ok {
			return j, true
		}
	}
	return 0, false
}
