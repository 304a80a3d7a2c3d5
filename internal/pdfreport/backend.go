package pdfreport

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Backend provides page-level access to a PDF. Per-page failures are
// returned to the caller, which logs and moves on; only opening is fatal.
type Backend interface {
	PageCount() int
	PageText(pageNum int) (string, error)
	PageTables(pageNum int) ([][][]string, error)
	Close() error
}

// ledongthucBackend reads pages with ledongthuc/pdf after pdfcpu has
// validated the file structure.
type ledongthucBackend struct {
	file   *os.File
	reader *pdf.Reader
	gapTol float64
}

// OpenBackend validates and opens a PDF for extraction. gapTol is the
// horizontal gap, in points, that separates two table cells.
func OpenBackend(path string, maxFileSize int64, gapTol float64) (Backend, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)", fileInfo.Size(), maxFileSize)
	}

	if err := validateStructure(path); err != nil {
		return nil, err
	}

	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	return &ledongthucBackend{file: f, reader: reader, gapTol: gapTol}, nil
}

// validateStructure runs a relaxed pdfcpu pass so malformed files fail fast
// with a structural error instead of a mid-extraction panic.
func validateStructure(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("failed to ensure page count: %w", err)
	}
	return nil
}

func (b *ledongthucBackend) PageCount() int {
	return b.reader.NumPage()
}

func (b *ledongthucBackend) PageText(pageNum int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d text extraction panicked: %v", pageNum, r)
		}
	}()
	page := b.reader.Page(pageNum)
	if page.V.IsNull() {
		return "", fmt.Errorf("page %d is null", pageNum)
	}
	return page.GetPlainText(nil)
}

// PageTables reconstructs tables from positioned text. Rows come from the
// library's row grouping; cells are split wherever the horizontal gap
// between glyphs exceeds the tolerance. Consecutive multi-cell rows form
// one table.
func (b *ledongthucBackend) PageTables(pageNum int) (tables [][][]string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("page %d table extraction panicked: %v", pageNum, r)
		}
	}()
	page := b.reader.Page(pageNum)
	if page.V.IsNull() {
		return nil, fmt.Errorf("page %d is null", pageNum)
	}
	rows, err := page.GetTextByRow()
	if err != nil {
		return nil, fmt.Errorf("page %d rows: %w", pageNum, err)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Position > rows[j].Position })

	var current [][]string
	flush := func() {
		if len(current) >= 2 {
			tables = append(tables, padColumns(current))
		}
		current = nil
	}
	for _, row := range rows {
		cells := b.splitCells(row.Content)
		if len(cells) >= 2 {
			current = append(current, cells)
			continue
		}
		flush()
	}
	flush()
	return tables, nil
}

// splitCells walks a row's glyphs left to right, starting a new cell at
// every gap wider than the tolerance and a new word at smaller gaps still
// wider than the glyph advance.
func (b *ledongthucBackend) splitCells(texts pdf.TextHorizontal) []string {
	if len(texts) == 0 {
		return nil
	}
	sort.Sort(texts)

	var cells []string
	var cell strings.Builder
	prevEnd := math.Inf(-1)
	for _, t := range texts {
		if t.S == "" {
			continue
		}
		gap := t.X - prevEnd
		if cell.Len() > 0 {
			switch {
			case gap > b.gapTol:
				cells = append(cells, strings.TrimSpace(cell.String()))
				cell.Reset()
			case gap > wordGap(t.FontSize):
				cell.WriteByte(' ')
			}
		}
		cell.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	if cell.Len() > 0 {
		cells = append(cells, strings.TrimSpace(cell.String()))
	}
	return cells
}

func wordGap(fontSize float64) float64 {
	if fontSize <= 0 {
		return 1.0
	}
	return fontSize * 0.25
}

func padColumns(rows [][]string) [][]string {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	for i, r := range rows {
		for len(r) < width {
			r = append(r, "")
		}
		rows[i] = r
	}
	return rows
}

func (b *ledongthucBackend) Close() error {
	return b.file.Close()
}
