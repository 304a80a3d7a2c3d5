package docxwriter

import (
	"fmt"
	"log"

	"github.com/transportops/auditfill/internal/docx"
	"github.com/transportops/auditfill/internal/redtext"
	"github.com/transportops/auditfill/internal/schema"
)

// Stats counts what a fill pass managed to place.
type Stats struct {
	LabelsFilled   int      `json:"labels_filled"`
	TablesFilled   int      `json:"tables_filled"`
	DetailsUpdated int      `json:"details_updated"`
	Unplaced       []string `json:"unplaced,omitempty"`
}

// sections handled by dedicated fills rather than the generic label walk
var specialSections = map[string]bool{
	"Vehicle Registration Numbers Maintenance":    true,
	"Vehicle Registration Numbers Mass":           true,
	"Driver / Scheduler Records Examined":         true,
	"Attendance List (Names and Position Titles)": true,
	"Nature of the Operators Business (Summary)":  true,
	"Maintenance Management Summary":              true,
	"Mass Management Summary":                     true,
	"Fatigue Management Summary":                  true,
	redtext.ParagraphsKey:                         true,
}

// acknowledgementText keys the paragraph bucket the extraction stage builds
// for the sign-off sentence, so both stages must agree on it.
const acknowledgementText = schema.AcknowledgementText

// WriteFile fills the template at templatePath with the merged values and
// saves the result to outputPath.
func WriteFile(templatePath, outputPath string, data redtext.Result) (Stats, error) {
	doc, err := docx.Open(templatePath)
	if err != nil {
		return Stats{}, fmt.Errorf("open template: %w", err)
	}
	stats := Fill(doc, data)
	if err := doc.SaveAs(outputPath); err != nil {
		return stats, fmt.Errorf("save filled document: %w", err)
	}
	return stats, nil
}

// Fill writes every merged value into the document. Values that cannot be
// placed are reported rather than dropped silently.
func Fill(doc *docx.Document, data redtext.Result) Stats {
	var st Stats

	fillSimpleLabels(doc, data, &st)
	fillParagraphBlocks(doc, data, &st)

	if acn := joinValue(data["Operator Information"]["Australian Company Number"]); acn != "" {
		if fillACNDigits(doc, acn) {
			st.LabelsFilled++
		} else {
			st.Unplaced = append(st.Unplaced, "Operator Information::Australian Company Number")
		}
	}

	if maint := data["Vehicle Registration Numbers Maintenance"]; len(maint) > 0 {
		if t := findMaintenanceVehicleTable(doc); t != nil && fillMaintenanceVehicleTable(t, maint) {
			st.TablesFilled++
		}
	}
	if mass := data["Vehicle Registration Numbers Mass"]; len(mass) > 0 {
		if t := findMassVehicleTable(doc); t != nil && fillMassVehicleTable(t, mass) {
			st.TablesFilled++
		}
	}
	if drivers := data["Driver / Scheduler Records Examined"]; len(drivers) > 0 {
		if t := findDriverTable(doc); t != nil && fillDriverTable(t, drivers) {
			st.TablesFilled++
		}
	}

	if date := joinValue(data["Audit Declaration dates"]["Audit was conducted on"]); date != "" {
		updateHeadingFollowedRed(doc, "Audit was conducted on", date, 12)
	}

	opDecl := data["Operator Declaration"]
	if len(opDecl) > 0 {
		name := joinValue(opDecl["Print Name"])
		title := joinValue(opDecl["Position Title"])
		if !fillOperatorDeclaration(doc, name, title) {
			updateOperatorDeclaration(doc, name, title)
		}
	}
	ensureAuditorDeclHeaders(doc)

	if att := data["Attendance List (Names and Position Titles)"]["Attendance List (Names and Position Titles)"]; len(att) > 0 {
		if fillAttendanceBlock(doc, att) {
			st.TablesFilled++
		}
	}

	if biz := data["Nature of the Operators Business (Summary)"]; len(biz) > 0 {
		val := joinValue(biz["Nature of the Operators Business (Summary):"])
		if val == "" {
			for _, vs := range biz {
				if val = joinValue(vs); val != "" {
					break
				}
			}
		}
		if val != "" && updateBusinessSummary(doc, val) {
			st.LabelsFilled++
		}
	}

	for _, sec := range []string{"Maintenance Management Summary", "Mass Management Summary", "Fatigue Management Summary"} {
		if sd := data[sec]; len(sd) > 0 {
			st.DetailsUpdated += overwriteSummaryDetails(doc, sec, sd)
		}
	}

	log.Printf("docxwriter: %d labels, %d tables, %d findings cells filled, %d unplaced",
		st.LabelsFilled, st.TablesFilled, st.DetailsUpdated, len(st.Unplaced))
	return st
}

// fillSimpleLabels walks every plain label/value section: find the label
// cell and write next to it, falling back to the first red run under the
// section heading.
func fillSimpleLabels(doc *docx.Document, data redtext.Result, st *Stats) {
	for sec, kv := range data {
		if specialSections[sec] {
			continue
		}
		for label, vals := range kv {
			if canonLabel(label) == "australian company number" {
				continue // digit boxes, handled separately
			}
			val := joinValue(vals)
			if val == "" {
				continue
			}
			if updateLabelValue(doc, label, val) {
				st.LabelsFilled++
				continue
			}
			if updateHeadingFollowedRed(doc, sec, val, 12) {
				st.LabelsFilled++
				continue
			}
			st.Unplaced = append(st.Unplaced, sec+"::"+label)
		}
	}
}

// fillParagraphBlocks handles the red paragraphs outside label tables: the
// operator name under each management page heading and the declaration
// dates on the closing pages.
func fillParagraphBlocks(doc *docx.Document, data redtext.Result, st *Stats) {
	paras := data[redtext.ParagraphsKey]
	if len(paras) == 0 {
		return
	}

	managementPages := []struct {
		heading    string
		prevTitles []string
	}{
		{"MAINTENANCE MANAGEMENT", []string{"Vehicle Registration Numbers of Records Examined"}},
		{"MASS MANAGEMENT", []string{"Vehicle Registration Numbers of Records Examined"}},
		{"FATIGUE MANAGEMENT", []string{"Driver / Scheduler Records Examined"}},
	}
	for _, page := range managementPages {
		name := joinValue(paras[page.heading])
		if name == "" {
			continue
		}
		if updateHeadingFollowedRed(doc, page.heading, name, 6) {
			st.LabelsFilled++
		}
		if setNameAfterManagementHeading(doc, page.heading, page.prevTitles, name) {
			st.LabelsFilled++
		}
	}

	if date := joinValue(paras["NHVAS APPROVED AUDITOR DECLARATION"]); date != "" {
		if setDateAfterLastMatch(doc, "NHVAS APPROVED AUDITOR DECLARATION", date, 40) {
			st.LabelsFilled++
		}
	}
	if date := joinValue(paras[acknowledgementText]); date != "" {
		if setDateAfterLastMatch(doc, acknowledgementText, date, 40) {
			st.LabelsFilled++
		}
	}

	// any remaining paragraph values fall back to heading-scoped replacement
	for key, vals := range paras {
		switch key {
		case "MAINTENANCE MANAGEMENT", "MASS MANAGEMENT", "FATIGUE MANAGEMENT",
			"NHVAS APPROVED AUDITOR DECLARATION", acknowledgementText:
			continue
		}
		val := joinValue(vals)
		if val == "" {
			continue
		}
		if updateHeadingFollowedRed(doc, key, val, 12) {
			st.LabelsFilled++
		}
	}
}
