package docxwriter

import (
	"regexp"
	"strings"

	"github.com/transportops/auditfill/internal/docx"
)

// updateLabelValue writes a value next to its label cell, replacing the red
// placeholder there.
func updateLabelValue(doc *docx.Document, label, value string) bool {
	t, r, c, ok := findLabelCell(doc, label)
	if !ok {
		return false
	}
	return replaceRedInCell(adjacentValueCell(t, r, c), value)
}

// updateHeadingFollowedRed finds a heading and replaces the first red run in
// the paragraphs that follow it.
func updateHeadingFollowedRed(doc *docx.Document, heading, value string, maxScan int) bool {
	idx, paras, ok := findHeadingParagraph(doc, heading)
	if !ok {
		return false
	}
	end := idx + 1 + maxScan
	if end > len(paras) {
		end = len(paras)
	}
	for _, p := range paras[idx+1 : end] {
		if replaceRedInParagraph(p, value) {
			return true
		}
	}
	return false
}

// setDateAfterLastMatch replaces the first red run after the LAST paragraph
// containing key. Declaration dates sit on the closing pages, so scanning
// from the end avoids earlier mentions of the same heading.
func setDateAfterLastMatch(doc *docx.Document, key, date string, maxScan int) bool {
	if date == "" {
		return false
	}
	paras := allParagraphs(doc)
	idx, ok := lastParagraphContaining(paras, key)
	if !ok {
		return false
	}
	end := idx + 1 + maxScan
	if end > len(paras) {
		end = len(paras)
	}
	for _, p := range paras[idx+1 : end] {
		if replaceRedInParagraph(p, date) {
			return true
		}
	}
	return false
}

var attendancePairRe = regexp.MustCompile(
	`([A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+){0,3})\s*-\s*([^-\n]+?)(?:\s+[A-Z][A-Za-z.'-]+(?:\s+[A-Z][A-Za-z.'-]+){0,3}\s*-\s*|$)`)

// parseAttendanceLines splits glued "Name - Title Name - Title" strings into
// one line per person.
func parseAttendanceLines(vals []string) []string {
	s := strings.TrimSpace(wsRe.ReplaceAllString(strings.Join(vals, " "), " "))
	if s == "" {
		return nil
	}
	var items []string
	for _, chunk := range regexp.MustCompile(`\s*[\n;|]\s*`).Split(s, -1) {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		found := false
		rest := chunk
		for rest != "" {
			m := attendancePairRe.FindStringSubmatchIndex(rest)
			if m == nil {
				break
			}
			name := strings.TrimSpace(rest[m[2]:m[3]])
			title := strings.TrimSpace(rest[m[4]:m[5]])
			items = append(items, name+" - "+title)
			found = true
			if m[5] >= len(rest) {
				break
			}
			rest = rest[m[5]:]
		}
		if !found {
			if i := strings.Index(chunk, " - "); i >= 0 {
				items = append(items, strings.TrimSpace(chunk[:i])+" - "+strings.TrimSpace(chunk[i+3:]))
			} else {
				items = append(items, chunk)
			}
		}
	}
	return items
}

// fillAttendanceBlock rewrites the attendance value cell: merged names
// replace the red placeholder lines, existing black lines are kept, and
// leftovers are appended without duplicates.
func fillAttendanceBlock(doc *docx.Document, vals []string) bool {
	items := parseAttendanceLines(vals)
	if len(items) == 0 {
		return false
	}
	t, r, c, ok := findLabelCell(doc, "Attendance List (Names and Position Titles)")
	if !ok {
		return false
	}
	rows := t.Rows()
	var target *docx.Cell
	if r+1 < len(rows) && c < len(rows[r+1].Cells()) {
		target = rows[r+1].Cells()[c]
	} else {
		target = adjacentValueCell(t, r, c)
	}

	looksLikePair := func(s string) bool {
		i := strings.Index(s, " - ")
		return i > 0 && strings.TrimSpace(s[i+3:]) != ""
	}
	redCount := 0
	var existingBlack []string
	for _, p := range target.Paragraphs() {
		if hasRedRun(p) {
			redCount++
		} else if txt := strings.TrimSpace(p.Text()); looksLikePair(txt) {
			existingBlack = append(existingBlack, txt)
		}
	}

	var out []string
	if redCount > len(items) {
		redCount = len(items)
	}
	out = append(out, items[:redCount]...)
	out = append(out, existingBlack...)
	seen := map[string]bool{}
	for _, s := range out {
		seen[canonLabel(s)] = true
	}
	for _, extra := range items[redCount:] {
		if k := canonLabel(extra); !seen[k] {
			out = append(out, extra)
			seen[k] = true
		}
	}

	nukeCellParagraphs(target)
	for _, line := range out {
		p := target.AddParagraph(nil)
		r := p.AddRun(line, nil)
		r.SetColorBlack()
	}
	if len(out) == 0 {
		target.AddParagraph(nil)
	}
	return true
}

// updateBusinessSummary writes the summary into the first red paragraph of
// the value cell and blanks any extra red placeholders, keeping the
// accreditation and expiry lines intact.
func updateBusinessSummary(doc *docx.Document, value string) bool {
	t, r, c, ok := findLabelCell(doc, "Nature of the Operators Business (Summary)")
	if !ok {
		return false
	}
	cell := adjacentValueCell(t, r, c)
	paras := cell.Paragraphs()
	if len(paras) == 0 {
		p := cell.AddParagraph(nil)
		run := p.AddRun(value, nil)
		run.SetColorBlack()
		return true
	}
	var redParas []*docx.Paragraph
	for _, p := range paras {
		if hasRedRun(p) {
			redParas = append(redParas, p)
		}
	}
	if len(redParas) > 0 {
		clearParagraphWriteBlack(redParas[0], value)
		for _, p := range redParas[1:] {
			clearParagraphWriteBlack(p, "")
		}
	} else {
		clearParagraphWriteBlack(paras[0], value)
	}
	return true
}

// fillACNDigits spreads the company number across the one-digit-per-cell
// boxes to the right of its label.
func fillACNDigits(doc *docx.Document, acn string) bool {
	digits := splitDigits(acn)
	if len(digits) == 0 {
		return false
	}
	t, r, c, ok := findLabelCell(doc, "Australian Company Number")
	if !ok {
		return false
	}
	rows := t.Rows()
	var targets []*docx.Cell
	cells := rows[r].Cells()
	for j := c + 1; j < len(cells); j++ {
		targets = append(targets, cells[j])
	}
	for rr := r + 1; len(targets) < len(digits) && rr < len(rows); rr++ {
		targets = append(targets, rows[rr].Cells()...)
	}
	if len(targets) == 0 {
		return false
	}
	if len(targets) > len(digits) {
		targets = targets[:len(digits)]
	}
	for i, cell := range targets {
		setCellTextBlack(cell, digits[i])
	}
	return true
}

// fillOperatorDeclaration writes into the bottom row of the last-page
// declaration table, only where a red placeholder sits.
func fillOperatorDeclaration(doc *docx.Document, printName, positionTitle string) bool {
	t := findTableWithHeaders(doc, "Print Name", "Position Title")
	if t == nil {
		return false
	}
	rows := t.Rows()
	if len(rows) < 2 {
		return false
	}
	cells := rows[1].Cells()
	if len(cells) < 2 {
		return false
	}
	if cellHasRed(cells[0]) {
		setCellTextBlack(cells[0], printName)
	}
	if cellHasRed(cells[1]) {
		setCellTextBlack(cells[1], positionTitle)
	}
	return true
}

func findTableWithHeaders(doc *docx.Document, mustHave ...string) *docx.Table {
	for _, t := range doc.Tables() {
		rows := t.Rows()
		if len(rows) == 0 {
			continue
		}
		var parts []string
		for _, c := range rows[0].Cells() {
			parts = append(parts, c.Text())
		}
		head := canonLabel(strings.Join(parts, " "))
		ok := true
		for _, want := range mustHave {
			if !strings.Contains(head, canonLabel(want)) {
				ok = false
				break
			}
		}
		if ok {
			return t
		}
	}
	return nil
}

// updateOperatorDeclaration tries the label-cell route first and falls back
// to the first two red runs under the Operator Declaration heading.
func updateOperatorDeclaration(doc *docx.Document, printName, positionTitle string) bool {
	changed := false
	for _, lv := range []struct{ label, val string }{
		{"Print Name", printName},
		{"Position Title", positionTitle},
	} {
		if lv.val == "" {
			continue
		}
		if t, r, c, ok := findLabelCell(doc, lv.label); ok {
			cell := adjacentValueCell(t, r, c)
			replaceRedInCell(cell, lv.val)
			changed = true
		}
	}
	if changed {
		return true
	}

	idx, paras, ok := findHeadingParagraph(doc, "OPERATOR DECLARATION")
	if !ok {
		return false
	}
	var targets []*docx.Run
	end := idx + 1 + 20
	if end > len(paras) {
		end = len(paras)
	}
	for _, p := range paras[idx+1 : end] {
		targets = append(targets, redRuns(p)...)
		if len(targets) >= 2 {
			break
		}
	}
	wrote := false
	if printName != "" && len(targets) >= 1 {
		targets[0].SetText(printName)
		targets[0].SetColorBlack()
		wrote = true
	}
	if positionTitle != "" && len(targets) >= 2 {
		targets[1].SetText(positionTitle)
		targets[1].SetColorBlack()
		wrote = true
	}
	return wrote
}

const auditorRightHeader = "NHVR or Exemplar Global Auditor Registration Number"

// ensureAuditorDeclHeaders repairs the auditor declaration header row, where
// extraction sometimes leaves a red name sitting in the header cell. Values
// in the bottom row are never touched.
func ensureAuditorDeclHeaders(doc *docx.Document) bool {
	for _, t := range doc.Tables() {
		rows := t.Rows()
		if len(rows) < 2 {
			continue
		}
		head := rows[0].Cells()
		if len(head) < 2 {
			continue
		}
		if canonLabel(head[0].Text()) != "print name" {
			continue
		}
		changed := false
		if cellHasRed(head[0]) {
			setCellTextBlack(head[0], "Print Name")
			changed = true
		}
		if canonLabel(head[1].Text()) != canonLabel(auditorRightHeader) || cellHasRed(head[1]) {
			setCellTextBlack(head[1], auditorRightHeader)
			changed = true
		}
		return changed
	}
	return false
}

// setNameAfterManagementHeading overwrites the line after a mid-page
// management heading with the operator name, sized like the heading. The
// previous non-empty paragraph must be the expected page title so summary
// table headers with the same words are not rewritten.
func setNameAfterManagementHeading(doc *docx.Document, midHeading string, allowedPrevTitles []string, name string) bool {
	if name == "" {
		return false
	}
	paras := allParagraphs(doc)
	mid := canon(midHeading)
	allowed := map[string]bool{}
	for _, t := range allowedPrevTitles {
		allowed[canon(t)] = true
	}
	wrote := false
	for i, p := range paras {
		if canon(p.Text()) != mid {
			continue
		}
		j := i - 1
		for j >= 0 && strings.TrimSpace(paras[j].Text()) == "" {
			j--
		}
		if j < 0 || !allowed[canon(paras[j].Text())] {
			continue
		}
		k := i + 1
		for k < len(paras) && strings.TrimSpace(paras[k].Text()) == "" {
			k++
		}
		if k >= len(paras) {
			continue
		}
		size := effectiveFontSize(p)
		clearParagraphWriteBlack(paras[k], name)
		for _, r := range paras[k].Runs() {
			r.SetFontSize(size)
		}
		wrote = true
	}
	return wrote
}

// effectiveFontSize returns the heading's run size in half points, with a
// 16pt default when nothing is explicit.
func effectiveFontSize(p *docx.Paragraph) int {
	for _, r := range p.Runs() {
		if sz, ok := r.FontSize(); ok {
			return sz
		}
	}
	return 32
}
