package redtext

import (
	"log"
	"strings"

	"github.com/transportops/auditfill/internal/docx"
	"github.com/transportops/auditfill/internal/schema"
)

// Result maps schema name -> label -> red values in document order. The
// special key "paragraphs" holds red text found outside tables, bucketed by
// its nearest preceding heading.
type Result map[string]map[string][]string

// ParagraphsKey is the Result bucket for red text outside tables.
const ParagraphsKey = "paragraphs"

// Extractor walks a document and collects placeholder text per schema.
type Extractor struct {
	registry []schema.Schema
}

// NewExtractor returns an extractor over the default schema registry.
func NewExtractor() *Extractor {
	return &Extractor{registry: schema.Registry()}
}

// coalesceNumericRuns glues consecutive single-digit runs back into one
// number. Word splits digits typed one by one into separate runs.
func coalesceNumericRuns(texts []string) []string {
	var out []string
	var buf strings.Builder
	flush := func() {
		if buf.Len() > 0 {
			out = append(out, buf.String())
			buf.Reset()
		}
	}
	for _, t := range texts {
		if len(t) == 1 && t[0] >= '0' && t[0] <= '9' {
			buf.WriteString(t)
			continue
		}
		flush()
		out = append(out, t)
	}
	flush()
	return out
}

// cellRedText joins a cell's red runs with spaces after digit coalescing.
func cellRedText(c *docx.Cell) string {
	var reds []string
	for _, r := range c.Runs() {
		if r.IsPlaceholder() && r.Text() != "" {
			reds = append(reds, r.Text())
		}
	}
	if len(reds) == 0 {
		return ""
	}
	return normalizeText(strings.Join(coalesceNumericRuns(reds), " "))
}

// cellRedTextJoined concatenates red runs without separators; used by the
// dual-schema operator table where values span runs mid-word.
func cellRedTextJoined(c *docx.Cell) string {
	var sb strings.Builder
	for _, r := range c.Runs() {
		if r.IsPlaceholder() {
			sb.WriteString(r.Text())
		}
	}
	return strings.TrimSpace(sb.String())
}

// Extract walks the document and returns all placeholder text grouped by
// schema. It never fails: unmatched tables are skipped.
func (e *Extractor) Extract(doc *docx.Document) Result {
	out := Result{}

	lastHeading := ""
	for _, b := range doc.Blocks() {
		if b.Paragraph != nil {
			if t := normalizeText(b.Paragraph.Text()); t != "" {
				lastHeading = t
			}
			continue
		}
		tbl := b.Table
		ctx := buildContext(tbl, lastHeading)

		if names := checkMultiSchemaTable(ctx); names != nil {
			for name, data := range e.extractMultiSchemaTable(tbl, names) {
				mergeSchemaData(out, name, data)
			}
			continue
		}

		sc := matchTableSchema(ctx, e.registry)
		if sc == nil {
			continue
		}
		data := e.extractTableData(tbl, sc)
		if len(data) > 0 {
			mergeSchemaData(out, sc.Name, data)
		}
	}

	if paras := e.extractParagraphs(doc); len(paras) > 0 {
		out[ParagraphsKey] = paras
	}

	if _, ok := out["Operator Declaration"]; !ok {
		if opDec := extractOperatorDeclarationFromEnd(doc); opDec != nil {
			out["Operator Declaration"] = opDec
		}
	}

	return out
}

func mergeSchemaData(out Result, name string, data map[string][]string) {
	existing, ok := out[name]
	if !ok {
		out[name] = data
		return
	}
	for k, v := range data {
		existing[k] = append(existing[k], v...)
	}
}

// checkMultiSchemaTable detects the combined operator details table that
// stacks identity labels above contact labels in one grid.
func checkMultiSchemaTable(ctx TableContext) []string {
	operatorLabels := []string{
		"Operator name (Legal entity)", "NHVAS Accreditation No.",
		"Registered trading name/s", "Australian Company Number", "NHVAS Manual",
	}
	contactLabels := []string{
		"Operator business address", "Operator Postal address",
		"Email address", "Operator Telephone Number",
	}
	hasOperator := col0HasAny(ctx.Col0, operatorLabels)
	hasContact := col0HasAny(ctx.Col0, contactLabels)
	if hasOperator && hasContact {
		return []string{"Operator Information", "Operator contact details"}
	}
	return nil
}

func col0HasAny(col0, labels []string) bool {
	for _, cell := range col0 {
		cellUp := strings.ToUpper(cell)
		for _, lbl := range labels {
			if strings.Contains(cellUp, strings.ToUpper(lbl)) {
				return true
			}
		}
	}
	return false
}

func (e *Extractor) extractMultiSchemaTable(tbl *docx.Table, names []string) map[string]map[string][]string {
	result := make(map[string]map[string][]string)
	rows := tbl.Rows()
	for _, name := range names {
		sc := schema.ByName(name)
		if sc == nil {
			continue
		}
		data := make(map[string][]string)
		for ri, row := range rows {
			if ri == 0 {
				continue
			}
			cells := row.Cells()
			if len(cells) == 0 {
				continue
			}
			rowLabel := strings.ToUpper(normalizeText(cells[0].Text()))
			matched := ""
			for _, specLabel := range sc.Labels {
				specUp := strings.ToUpper(normalizeText(specLabel))
				if specUp == rowLabel || strings.Contains(rowLabel, specUp) || strings.Contains(specUp, rowLabel) {
					matched = specLabel
					break
				}
			}
			if matched == "" {
				continue
			}
			for _, cell := range cells {
				red := cellRedTextJoined(cell)
				if red == "" {
					continue
				}
				if !contains(data[matched], red) {
					data[matched] = append(data[matched], red)
				}
			}
		}
		if len(data) > 0 {
			result[name] = data
		}
	}
	return result
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}

// extractTableData pulls red values from a matched table. Repeating-record
// tables keep every row value; generic tables dedupe per label.
func (e *Extractor) extractTableData(tbl *docx.Table, sc *schema.Schema) map[string][]string {
	switch {
	case sc.Name == "Operator Declaration":
		return extractByHeaderColumns(tbl, sc, false)
	case strings.Contains(sc.Name, "Vehicle Registration"),
		strings.Contains(sc.Name, "Driver / Scheduler"):
		return extractByHeaderColumns(tbl, sc, true)
	case sc.Orientation == schema.OrientationSingle:
		return extractSingle(tbl, sc)
	}
	return extractGeneric(tbl, sc)
}

// extractSingle pools the table's red runs under the schema's primary label.
// Cells carrying one of the split labels keep their values separate, for
// blocks that glue extra fields onto a free-text section.
func extractSingle(tbl *docx.Table, sc *schema.Schema) map[string][]string {
	primary := sc.Name
	if len(sc.Labels) > 0 {
		primary = sc.Labels[0]
	}
	collected := make(map[string][]string)
	for _, row := range tbl.Rows() {
		for _, cell := range row.Cells() {
			red := cellRedText(cell)
			if red == "" {
				continue
			}
			lbl := primary
			full := strings.ToLower(cell.Text())
			for _, split := range sc.SplitLabels {
				if strings.Contains(full, strings.ToLower(schema.NormalizeLabel(split))) {
					lbl = split
					break
				}
			}
			collected[lbl] = append(collected[lbl], red)
		}
	}
	return collected
}

// extractByHeaderColumns maps header cells to labels and accumulates every
// row's red values without dedupe. keepUnmapped routes values under columns
// no label claimed into UNMAPPED pseudo-labels.
func extractByHeaderColumns(tbl *docx.Table, sc *schema.Schema, keepUnmapped bool) map[string][]string {
	rows := tbl.Rows()
	if len(rows) < 2 {
		return nil
	}

	headerCells := rows[0].Cells()
	headerTexts := make([]string, len(headerCells))
	columnLabel := make(map[int]string)
	for ci, cell := range headerCells {
		raw := normalizeText(cell.Text())
		headerTexts[ci] = raw
		headerText := schema.NormalizeLabel(raw)
		if headerText == "" {
			continue
		}
		mapped := sc.MapHeader(headerText)
		if !strings.HasPrefix(mapped, schema.UnmappedPrefix) {
			columnLabel[ci] = mapped
		}
	}

	collected := make(map[string][]string)
	unmapped := make(map[string][]string)
	for _, row := range rows[1:] {
		for ci, cell := range row.Cells() {
			red := cellRedText(cell)
			if red == "" {
				continue
			}
			if lbl, ok := columnLabel[ci]; ok {
				collected[lbl] = append(collected[lbl], red)
			} else if keepUnmapped {
				name := "(unmapped column)"
				if ci < len(headerTexts) && headerTexts[ci] != "" {
					name = headerTexts[ci]
				}
				unmapped[name] = append(unmapped[name], red)
			}
		}
	}

	for k, v := range unmapped {
		if len(v) > 0 {
			collected[schema.UnmappedPrefix+k] = v
		}
	}
	return collected
}

// extractGeneric handles left and row1 tables with per-label dedupe. Values
// that match no label land under the schema's own name.
func extractGeneric(tbl *docx.Table, sc *schema.Schema) map[string][]string {
	collected := make(map[string][]string)
	seen := make(map[string]map[string]struct{})
	note := func(lbl, val string) {
		if seen[lbl] == nil {
			seen[lbl] = make(map[string]struct{})
		}
		if _, dup := seen[lbl][val]; dup {
			return
		}
		seen[lbl][val] = struct{}{}
		collected[lbl] = append(collected[lbl], val)
	}

	byCol := sc.Orientation == schema.OrientationRow1
	rows := tbl.Rows()
	start := 0
	if byCol {
		start = 1
	}
	if len(rows) < start {
		return collected
	}
	for _, row := range rows[start:] {
		cells := row.Cells()
		for ci, cell := range cells {
			red := cellRedText(cell)
			if red == "" {
				continue
			}
			var lbl string
			if byCol {
				if ci < len(sc.Labels) {
					lbl = sc.Labels[ci]
				} else {
					lbl = sc.Name
				}
			} else {
				lbl = matchRowLabel(cells, sc)
			}
			note(lbl, red)
		}
	}
	return collected
}

func matchRowLabel(cells []*docx.Cell, sc *schema.Schema) string {
	if len(cells) == 0 {
		return sc.Name
	}
	raw := normalizeText(cells[0].Text())
	for _, specLabel := range sc.Labels {
		if strings.EqualFold(normalizeText(specLabel), raw) {
			return specLabel
		}
	}
	rawNorm := strings.ToUpper(schema.NormalizeLabel(raw))
	for _, specLabel := range sc.Labels {
		specNorm := strings.ToUpper(schema.NormalizeLabel(specLabel))
		if specNorm != "" && rawNorm != "" &&
			(strings.Contains(rawNorm, specNorm) || strings.Contains(specNorm, rawNorm)) {
			return specLabel
		}
	}
	return sc.Name
}

// extractParagraphs collects red text outside tables, keyed by the nearest
// preceding heading or declaration sentence. Red date lines with no anchor
// land under "Date".
func (e *Extractor) extractParagraphs(doc *docx.Document) map[string][]string {
	paras := make(map[string][]string)
	paragraphs := doc.Paragraphs()
	for idx, para := range paragraphs {
		var sb strings.Builder
		for _, r := range para.Runs() {
			if r.IsPlaceholder() {
				sb.WriteString(r.Text())
			}
		}
		red := strings.TrimSpace(sb.String())
		if red == "" {
			continue
		}
		context := ""
		for j := idx - 1; j >= 0; j-- {
			txt := normalizeText(paragraphs[j].Text())
			if txt == "" {
				continue
			}
			// the sign-off sentence embeds the report title, so test it
			// before the heading patterns and key it canonically
			if schema.DeclarationTextPattern.MatchString(txt) {
				context = schema.AcknowledgementText
				break
			}
			if schema.IsHeadingText(txt) {
				context = txt
				break
			}
		}
		if context == "" && schema.DateLinePattern.MatchString(red) {
			context = "Date"
		}
		if context == "" {
			context = "(para)"
		}
		paras[context] = append(paras[context], red)
	}
	return paras
}

// extractOperatorDeclarationFromEnd scans tables from the back for a header
// row carrying both Print Name and Position Title, ignoring headings. Some
// templates put the sign-off table after its heading's page break, which
// breaks the normal context walk.
func extractOperatorDeclarationFromEnd(doc *docx.Document) map[string][]string {
	tables := doc.Tables()
	for i := len(tables) - 1; i >= 0; i-- {
		rows := tables[i].Rows()
		if len(rows) < 2 {
			continue
		}
		headers := rows[0].Cells()
		idxPrint, idxPos := -1, -1
		for ci, c := range headers {
			h := strings.ToLower(schema.NormalizeLabel(c.Text()))
			if idxPrint < 0 && strings.Contains(h, "print name") {
				idxPrint = ci
			}
			if idxPos < 0 && (strings.Contains(h, "position title") ||
				(strings.Contains(h, "position") && strings.Contains(h, "title"))) {
				idxPos = ci
			}
		}
		if idxPrint < 0 || idxPos < 0 {
			continue
		}

		result := make(map[string][]string)
		for _, row := range rows[1:] {
			cells := row.Cells()
			if idxPrint < len(cells) {
				if txt := cellRedText(cells[idxPrint]); txt != "" {
					result["Print Name"] = append(result["Print Name"], txt)
				}
			}
			if idxPos < len(cells) {
				if txt := cellRedText(cells[idxPos]); txt != "" {
					result["Position Title"] = append(result["Position Title"], txt)
				}
			}
		}
		if len(result) > 0 {
			log.Printf("operator declaration recovered from trailing table %d", i)
			return result
		}
	}
	return nil
}
