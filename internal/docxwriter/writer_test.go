package docxwriter

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transportops/auditfill/internal/docx"
	"github.com/transportops/auditfill/internal/redtext"
)

func xmlRun(text string) string {
	return `<w:r><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func xmlRedRun(text string) string {
	return `<w:r><w:rPr><w:color w:val="FF0000"/></w:rPr><w:t xml:space="preserve">` + text + `</w:t></w:r>`
}

func xmlPara(runs ...string) string {
	return `<w:p>` + strings.Join(runs, "") + `</w:p>`
}

func xmlCell(runs ...string) string {
	return `<w:tc>` + xmlPara(runs...) + `</w:tc>`
}

func xmlRow(cells ...string) string {
	return `<w:tr>` + strings.Join(cells, "") + `</w:tr>`
}

func xmlTable(rows ...string) string {
	return `<w:tbl><w:tblPr/>` + strings.Join(rows, "") + `</w:tbl>`
}

func buildDocx(t *testing.T, body string) *docx.Document {
	t.Helper()
	documentXML := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body + `</w:body></w:document>`

	path := filepath.Join(t.TempDir(), "template.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	for name, data := range map[string]string{
		"[Content_Types].xml": `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":   documentXML,
		"word/styles.xml":     `<?xml version="1.0"?><w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"/>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(data))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	doc, err := docx.Open(path)
	require.NoError(t, err)
	return doc
}

func TestFillLabelAndMaintenanceTable(t *testing.T) {
	body := xmlPara(xmlRun("Audit Information")) +
		xmlTable(
			xmlRow(xmlCell(xmlRun("Date of Audit")), xmlCell(xmlRedRun("(date)"))),
		) +
		xmlPara(xmlRun("Vehicle Registration Numbers of Records Examined")) +
		xmlTable(
			xmlRow(
				xmlCell(xmlRun("No.")),
				xmlCell(xmlRun("Registration Number")),
				xmlCell(xmlRun("Roadworthiness Certificates")),
				xmlCell(xmlRun("Maintenance Records")),
				xmlCell(xmlRun("Daily Checks")),
				xmlCell(xmlRun("Fault Recording/ Reporting")),
				xmlCell(xmlRun("Fault Repair")),
			),
			xmlRow(
				xmlCell(xmlRun("1")),
				xmlCell(xmlRedRun("(reg)")),
				xmlCell(xmlRedRun("(rw)")),
				xmlCell(xmlRedRun("(mr)")),
				xmlCell(xmlRedRun("(dc)")),
				xmlCell(xmlRedRun("(frr)")),
				xmlCell(xmlRedRun("(rep)")),
			),
		)
	doc := buildDocx(t, body)

	data := redtext.Result{
		"Audit Information": {
			"Date of Audit": {"15/03/2023"},
		},
		"Vehicle Registration Numbers Maintenance": {
			"Registration Number": {"XY12AB", "CD34EF"},
			"Daily Checks":        {"Yes", "Yes"},
		},
	}
	st := Fill(doc, data)
	assert.GreaterOrEqual(t, st.LabelsFilled, 1)
	assert.Equal(t, 1, st.TablesFilled)
	assert.Empty(t, st.Unplaced)

	labelTable := doc.Tables()[0]
	assert.Equal(t, "15/03/2023", labelTable.Rows()[0].Cells()[1].Text())

	veh := doc.Tables()[1]
	rows := veh.Rows()
	require.Len(t, rows, 3, "one data row grows to fit two vehicles")
	assert.Equal(t, "XY12AB", rows[1].Cells()[1].Text())
	assert.Equal(t, "CD34EF", rows[2].Cells()[1].Text())
	assert.Equal(t, "Yes", rows[1].Cells()[4].Text())
	assert.Equal(t, "Yes", rows[2].Cells()[4].Text())
}

func TestFillMaintenanceTableShortRow(t *testing.T) {
	// a gridSpan-merged data row exposes fewer cells than the header maps
	body := xmlTable(
		xmlRow(
			xmlCell(xmlRun("No.")),
			xmlCell(xmlRun("Registration Number")),
			xmlCell(xmlRun("Roadworthiness Certificates")),
			xmlCell(xmlRun("Maintenance Records")),
			xmlCell(xmlRun("Daily Checks")),
			xmlCell(xmlRun("Fault Recording/ Reporting")),
			xmlCell(xmlRun("Fault Repair")),
		),
		xmlRow(xmlCell(xmlRedRun("merged row"))),
	)
	doc := buildDocx(t, body)
	tbl := doc.Tables()[0]

	ok := fillMaintenanceVehicleTable(tbl, map[string][]string{
		"Registration Number": {"XY12AB"},
	})
	assert.True(t, ok)
}

func TestSetDateAfterLastMatch(t *testing.T) {
	ack := "I hereby acknowledge and agree with the findings"
	body := xmlPara(xmlRun(ack)) +
		xmlPara(xmlRedRun("(date1)")) +
		xmlPara(xmlRun(ack)) +
		xmlPara(xmlRedRun("(date2)"))
	doc := buildDocx(t, body)

	ok := setDateAfterLastMatch(doc, "acknowledge", "21st March 2023", 5)
	require.True(t, ok)

	paras := doc.Paragraphs()
	assert.Equal(t, "(date1)", paras[1].Text(), "earlier mention stays untouched")
	assert.Equal(t, "21st March 2023", paras[3].Text())
}

func TestOverwriteSummaryDetails(t *testing.T) {
	body := xmlPara(xmlRun("MAINTENANCE MANAGEMENT SUMMARY OF AUDIT FINDINGS")) +
		xmlTable(
			xmlRow(xmlCell(xmlRun("MAINTENANCE MANAGEMENT")), xmlCell(xmlRun("DETAILS"))),
			xmlRow(xmlCell(xmlRun("Std 1. Daily Check")), xmlCell(xmlRun("old text"))),
			xmlRow(xmlCell(xmlRun("Std 2. Fault Recording and Reporting")), xmlCell(xmlRun("keep me"))),
		) +
		xmlTable(
			xmlRow(xmlCell(xmlRun("MASS MANAGEMENT")), xmlCell(xmlRun("DETAILS"))),
			xmlRow(xmlCell(xmlRun("Std 1. Responsibilities")), xmlCell(xmlRun("mass text"))),
		)
	doc := buildDocx(t, body)

	updated := overwriteSummaryDetails(doc, "Maintenance Management Summary", map[string][]string{
		"Std 1. Daily Check": {"Daily checks sighted for all vehicles."},
	})
	assert.Equal(t, 1, updated)

	maint := doc.Tables()[0]
	assert.Equal(t, "Daily checks sighted for all vehicles.", maint.Rows()[1].Cells()[1].Text())
	assert.Equal(t, "keep me", maint.Rows()[2].Cells()[1].Text())

	mass := doc.Tables()[1]
	assert.Equal(t, "mass text", mass.Rows()[1].Cells()[1].Text(),
		"other sections' findings tables stay untouched")
}
