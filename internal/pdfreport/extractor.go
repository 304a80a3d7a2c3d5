package pdfreport

import (
	"fmt"
	"log"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// Extractor turns an audit report PDF into a Report artifact.
type Extractor struct {
	maxFileSize int64
	gapTol      float64
	now         func() time.Time
}

// NewExtractor creates an extractor with the given file size cap and table
// cell gap tolerance in points.
func NewExtractor(maxFileSize int64, gapTol float64) *Extractor {
	return &Extractor{
		maxFileSize: maxFileSize,
		gapTol:      gapTol,
		now:         time.Now,
	}
}

var (
	tabsRe       = regexp.MustCompile(`[ \t]+`)
	blankLinesRe = regexp.MustCompile(`\n\s*\n`)
	controlRe    = regexp.MustCompile(`[\x00-\x1f\x7f-\x9f]`)
	cellSpaceRe  = regexp.MustCompile(`\s+`)
)

// Extract reads the PDF and builds the full artifact. Per-page extraction
// problems are logged and skipped; the report reflects what was readable.
func (e *Extractor) Extract(path string) (*Report, error) {
	backend, err := OpenBackend(path, e.maxFileSize, e.gapTol)
	if err != nil {
		return nil, fmt.Errorf("open pdf backend: %w", err)
	}
	defer backend.Close()

	report := &Report{
		DocumentInfo: DocumentInfo{
			Filename:            filepath.Base(path),
			TotalPages:          backend.PageCount(),
			ExtractionTimestamp: e.now().Format(time.RFC3339),
		},
	}

	var blocks []TextBlock
	var tables []Table
	for pageNum := 1; pageNum <= backend.PageCount(); pageNum++ {
		text, err := backend.PageText(pageNum)
		if err != nil {
			log.Printf("page %d: text extraction failed: %v", pageNum, err)
		} else if cleaned := cleanPageText(text); cleaned != "" {
			blocks = append(blocks, TextBlock{
				Page:      pageNum,
				Text:      cleaned,
				WordCount: len(strings.Fields(cleaned)),
			})
		}

		raw, err := backend.PageTables(pageNum)
		if err != nil {
			log.Printf("page %d: table extraction failed: %v", pageNum, err)
			continue
		}
		for idx, tbl := range raw {
			cleaned := cleanTable(tbl)
			if len(cleaned) == 0 {
				continue
			}
			t := Table{
				Page:        pageNum,
				TableIndex:  idx + 1,
				Headers:     cleaned[0],
				RawData:     cleaned,
				ColumnCount: len(cleaned[0]),
			}
			if len(cleaned) > 1 {
				t.Data = cleaned[1:]
				t.RowCount = len(cleaned) - 1
			}
			tables = append(tables, t)
		}
	}

	combined := combineText(blocks)

	report.Extracted = ExtractedData{
		AllTextContent:       blocks,
		AllTables:            tables,
		KeyValuePairs:        extractKeyValuePairs(combined),
		AuditInformation:     extractAuditInfo(combined, tables),
		OperatorInformation:  extractOperatorInfo(combined, tables),
		VehicleRegistrations: extractVehicleRegistrations(tables),
		DriverRecords:        extractDriverRecords(tables),
		ComplianceSummary:    extractComplianceSummary(combined, tables),
		DatesAndNumbers:      extractDatesAndNumbers(combined),
	}
	report.Summary = Summary{
		TextBlocksFound:           len(blocks),
		TablesFound:               len(tables),
		KeyValuePairsFound:        len(report.Extracted.KeyValuePairs),
		VehicleRegistrationsFound: len(report.Extracted.VehicleRegistrations),
		DriverRecordsFound:        len(report.Extracted.DriverRecords),
		TotalCharacters:           len(combined),
		ProcessingTimestamp:       e.now().Format(time.RFC3339),
	}
	return report, nil
}

func combineText(blocks []TextBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}

func cleanPageText(text string) string {
	text = tabsRe.ReplaceAllString(strings.TrimSpace(text), " ")
	return blankLinesRe.ReplaceAllString(text, "\n")
}

// cleanTable collapses whitespace and strips control characters per cell,
// dropping rows with no content at all.
func cleanTable(table [][]string) [][]string {
	var cleaned [][]string
	for _, row := range table {
		outRow := make([]string, len(row))
		hasContent := false
		for i, cell := range row {
			c := cellSpaceRe.ReplaceAllString(strings.TrimSpace(cell), " ")
			c = controlRe.ReplaceAllString(c, "")
			outRow[i] = c
			if strings.TrimSpace(c) != "" {
				hasContent = true
			}
		}
		if hasContent {
			cleaned = append(cleaned, outRow)
		}
	}
	return cleaned
}
