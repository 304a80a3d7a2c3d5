// Package docx reads and rewrites Word documents at the OOXML level. Only
// word/document.xml is parsed; every other part of the package is carried
// through byte for byte so styles, numbering, and media survive a rewrite.
package docx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const documentPart = "word/document.xml"

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n"

type part struct {
	name string
	data []byte
}

// Document is an open DOCX package with a parsed body.
type Document struct {
	parts    []part
	root     *Node
	body     *Node
	prefixes map[string]string
}

// Open reads a DOCX file and parses its main document part.
func Open(path string) (*Document, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx %s: %w", path, err)
	}
	defer zr.Close()

	doc := &Document{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("open docx part %s: %w", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("read docx part %s: %w", f.Name, err)
		}
		doc.parts = append(doc.parts, part{name: f.Name, data: data})
	}

	var docXML []byte
	for _, p := range doc.parts {
		if p.name == documentPart {
			docXML = p.data
			break
		}
	}
	if docXML == nil {
		return nil, fmt.Errorf("open docx %s: no %s part", path, documentPart)
	}

	root, prefixes, err := parseTree(bytes.NewReader(docXML))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", documentPart, err)
	}
	body := root.child("body")
	if body == nil {
		return nil, fmt.Errorf("parse %s: missing body", documentPart)
	}
	doc.root = root
	doc.body = body
	doc.prefixes = prefixes
	return doc, nil
}

// SaveAs writes the package to path, serializing the possibly modified
// document part and copying all others unchanged.
func (d *Document) SaveAs(path string) error {
	var buf bytes.Buffer
	buf.WriteString(xmlHeader)
	if err := writeTree(&buf, d.root, d.prefixes); err != nil {
		return fmt.Errorf("serialize %s: %w", documentPart, err)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	zw := zip.NewWriter(out)
	for _, p := range d.parts {
		w, err := zw.Create(p.name)
		if err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
		data := p.data
		if p.name == documentPart {
			data = buf.Bytes()
		}
		if _, err := w.Write(data); err != nil {
			zw.Close()
			out.Close()
			return fmt.Errorf("write part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		out.Close()
		return fmt.Errorf("finish %s: %w", path, err)
	}
	return out.Close()
}

// Block is one body-level item, a paragraph or a table, in document order.
type Block struct {
	Paragraph *Paragraph
	Table     *Table
}

// Blocks returns the body's paragraphs and tables in document order.
func (d *Document) Blocks() []Block {
	var blocks []Block
	for _, k := range d.body.Kids {
		switch k.Local {
		case "p":
			blocks = append(blocks, Block{Paragraph: &Paragraph{n: k}})
		case "tbl":
			blocks = append(blocks, Block{Table: &Table{n: k}})
		}
	}
	return blocks
}

// Paragraphs returns the body-level paragraphs in order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, b := range d.Blocks() {
		if b.Paragraph != nil {
			out = append(out, b.Paragraph)
		}
	}
	return out
}

// Tables returns the body-level tables in order.
func (d *Document) Tables() []*Table {
	var out []*Table
	for _, b := range d.Blocks() {
		if b.Table != nil {
			out = append(out, b.Table)
		}
	}
	return out
}

// Paragraph wraps one w:p element.
type Paragraph struct {
	n *Node
}

// Runs returns the paragraph's direct text runs.
func (p *Paragraph) Runs() []*Run {
	var out []*Run
	for _, k := range p.n.children("r") {
		out = append(out, &Run{n: k})
	}
	return out
}

// Text returns the concatenated text of the paragraph.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	p.n.collectText(&sb)
	return sb.String()
}

// AddRun appends a run. When template is non-nil its formatting is cloned,
// so the new text renders like its neighbours.
func (p *Paragraph) AddRun(text string, template *Run) *Run {
	var rn *Node
	if template != nil {
		rn = template.n.clone()
		rn.stripTexts()
	} else {
		rn = &Node{Space: wordNS, Local: "r"}
	}
	t := &Node{Space: wordNS, Local: "t"}
	t.Kids = append(t.Kids, &Node{Text: text})
	if strings.TrimSpace(text) != text {
		t.setAttr("http://www.w3.org/XML/1998/namespace", "space", "preserve")
	}
	rn.Kids = append(rn.Kids, t)
	p.n.Kids = append(p.n.Kids, rn)
	return &Run{n: rn}
}

// RemoveRun deletes a run from the paragraph.
func (p *Paragraph) RemoveRun(r *Run) {
	p.n.removeKid(r.n)
}

func (n *Node) stripTexts() {
	kept := n.Kids[:0]
	for _, k := range n.Kids {
		if k.Local != "t" {
			kept = append(kept, k)
		}
	}
	n.Kids = kept
}

// Run wraps one w:r element.
type Run struct {
	n *Node
}

// Text returns the run's text content.
func (r *Run) Text() string {
	var sb strings.Builder
	r.n.collectText(&sb)
	return sb.String()
}

// SetText replaces the run's text, collapsing multiple w:t children into one.
func (r *Run) SetText(text string) {
	r.n.stripTexts()
	t := &Node{Space: wordNS, Local: "t"}
	if strings.TrimSpace(text) != text {
		t.setAttr("http://www.w3.org/XML/1998/namespace", "space", "preserve")
	}
	t.Kids = append(t.Kids, &Node{Text: text})
	r.n.Kids = append(r.n.Kids, t)
}

// ResolvedColor resolves the run's explicit foreground color. Theme colors
// without a concrete hex value and "auto" resolve to nothing.
func (r *Run) ResolvedColor() (RGB, bool) {
	rPr := r.n.child("rPr")
	if rPr == nil {
		return RGB{}, false
	}
	color := rPr.child("color")
	if color == nil {
		return RGB{}, false
	}
	val, ok := color.attr("val")
	if !ok {
		return RGB{}, false
	}
	return parseHexColor(val)
}

// IsPlaceholder reports whether the run is colored placeholder red.
func (r *Run) IsPlaceholder() bool {
	c, ok := r.ResolvedColor()
	return ok && c.IsPlaceholderRed()
}

// SetColorBlack sets the run color to plain black, clearing any theme color
// so Word does not re-tint it.
func (r *Run) SetColorBlack() {
	rPr := r.n.child("rPr")
	if rPr == nil {
		rPr = &Node{Space: wordNS, Local: "rPr"}
		r.n.Kids = append([]*Node{rPr}, r.n.Kids...)
	}
	color := rPr.child("color")
	if color == nil {
		color = &Node{Space: wordNS, Local: "color"}
		rPr.Kids = append(rPr.Kids, color)
	}
	color.setAttr(wordNS, "val", "000000")
	color.removeAttr("themeColor")
	color.removeAttr("themeTint")
	color.removeAttr("themeShade")
}

// FontSize returns the run's explicit font size in half points, if set.
func (r *Run) FontSize() (int, bool) {
	rPr := r.n.child("rPr")
	if rPr == nil {
		return 0, false
	}
	sz := rPr.child("sz")
	if sz == nil {
		return 0, false
	}
	val, ok := sz.attr("val")
	if !ok {
		return 0, false
	}
	n := 0
	for _, c := range val {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	if n == 0 {
		return 0, false
	}
	return n, true
}

// SetFontSize sets the run's font size in half points.
func (r *Run) SetFontSize(halfPoints int) {
	rPr := r.n.child("rPr")
	if rPr == nil {
		rPr = &Node{Space: wordNS, Local: "rPr"}
		r.n.Kids = append([]*Node{rPr}, r.n.Kids...)
	}
	for _, name := range []string{"sz", "szCs"} {
		el := rPr.child(name)
		if el == nil {
			el = &Node{Space: wordNS, Local: name}
			rPr.Kids = append(rPr.Kids, el)
		}
		el.setAttr(wordNS, "val", fmt.Sprintf("%d", halfPoints))
	}
}

// Table wraps one w:tbl element.
type Table struct {
	n *Node
}

// Rows returns the table's rows.
func (t *Table) Rows() []*Row {
	var out []*Row
	for _, k := range t.n.children("tr") {
		out = append(out, &Row{n: k})
	}
	return out
}

// RemoveRow deletes the given row.
func (t *Table) RemoveRow(r *Row) {
	t.n.removeKid(r.n)
}

// AppendRowFrom clones src, clears all its run text, and appends it, giving
// a formatting-matched empty row.
func (t *Table) AppendRowFrom(src *Row) *Row {
	rn := src.n.clone()
	clearRowText(rn)
	t.n.Kids = append(t.n.Kids, rn)
	return &Row{n: rn}
}

func clearRowText(n *Node) {
	if n.Local == "t" {
		n.Kids = []*Node{{Text: ""}}
		return
	}
	for _, k := range n.Kids {
		if !k.IsText() {
			clearRowText(k)
		}
	}
}

// Row wraps one w:tr element.
type Row struct {
	n *Node
}

// Cells returns the row's cells.
func (r *Row) Cells() []*Cell {
	var out []*Cell
	for _, k := range r.n.children("tc") {
		out = append(out, &Cell{n: k})
	}
	return out
}

// Cell wraps one w:tc element.
type Cell struct {
	n *Node
}

// Paragraphs returns the cell's paragraphs.
func (c *Cell) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, k := range c.n.children("p") {
		out = append(out, &Paragraph{n: k})
	}
	return out
}

// Text returns the cell text with paragraphs joined by newlines.
func (c *Cell) Text() string {
	var lines []string
	for _, p := range c.Paragraphs() {
		lines = append(lines, p.Text())
	}
	return strings.Join(lines, "\n")
}

// Runs returns every run in the cell across its paragraphs.
func (c *Cell) Runs() []*Run {
	var out []*Run
	for _, p := range c.Paragraphs() {
		out = append(out, p.Runs()...)
	}
	return out
}

// AddParagraph appends an empty paragraph to the cell. When template is
// non-nil its paragraph properties are cloned.
func (c *Cell) AddParagraph(template *Paragraph) *Paragraph {
	pn := &Node{Space: wordNS, Local: "p"}
	if template != nil {
		if pPr := template.n.child("pPr"); pPr != nil {
			pn.Kids = append(pn.Kids, pPr.clone())
		}
	}
	c.n.Kids = append(c.n.Kids, pn)
	return &Paragraph{n: pn}
}

// RemoveParagraph deletes a paragraph from the cell.
func (c *Cell) RemoveParagraph(p *Paragraph) {
	c.n.removeKid(p.n)
}
