package docxwriter

import (
	"strings"

	"github.com/transportops/auditfill/internal/docx"
)

// column keys for the examined-records tables
const (
	colReg    = "reg"
	colRoadw  = "rw"
	colMaintR = "mr"
	colDaily  = "daily"
	colFaultR = "fr"
	colRepair = "rep"
	colWeight = "wv"
	colRFS    = "rfs"
	colSusp   = "susp"
	colTrip   = "trip"
	colFaultS = "frs"
)

// findMaintenanceVehicleTable picks the maintenance records table by header
// keywords, rejecting anything that mentions suspension.
func findMaintenanceVehicleTable(doc *docx.Document) *docx.Table {
	var best *docx.Table
	bestRows := -1
	for _, t := range doc.Tables() {
		h := tableHeaderText(t, 3)
		if strings.Contains(h, "registration") && strings.Contains(h, "maintenance") &&
			strings.Contains(h, "fault") && !strings.Contains(h, "suspension") {
			if n := len(t.Rows()); n > bestRows {
				best, bestRows = t, n
			}
		}
	}
	return best
}

// findMassVehicleTable scores candidate tables by how many mass record
// columns they carry, skipping findings tables with a DETAILS column.
func findMassVehicleTable(doc *docx.Document) *docx.Table {
	var best *docx.Table
	bestScore := -1.0
	for _, t := range doc.Tables() {
		cols := headerColTexts(t, 5)
		all := strings.Join(cols, " ")
		if strings.Contains(all, "details") {
			continue
		}
		hits := 0
		for _, needles := range [][]string{
			{"registration", "number"},
			{"weight", "verification"},
			{"rfs", "cert"},
			{"suspension", "maintenance"},
			{"trip", "record"},
			{"fault", "suspension"},
		} {
			if _, ok := firstColWith(cols, needles...); ok {
				hits++
			}
		}
		if hits < 4 {
			continue
		}
		score := float64(hits) + float64(len(t.Rows()))/100.0
		for _, c := range cols {
			if c == "no" || strings.HasPrefix(c, "no ") {
				score += 0.5
				break
			}
		}
		if score > bestScore {
			best, bestScore = t, score
		}
	}
	return best
}

func mapMaintenanceCols(t *docx.Table) map[string]int {
	cols := headerColTexts(t, 2)
	out := map[string]int{}
	put := func(key string, needles ...string) {
		if j, ok := firstColWith(cols, needles...); ok {
			out[key] = j
		}
	}
	put(colReg, "registration")
	put(colRoadw, "roadworthiness")
	put(colMaintR, "maintenance", "records")
	put(colDaily, "daily", "check")
	put(colFaultR, "fault", "recording")
	put(colRepair, "fault", "repair")
	return out
}

func mapMassCols(t *docx.Table) map[string]int {
	cols := headerColTexts(t, 5)
	out := map[string]int{}
	put := func(key string, needles ...string) {
		if _, done := out[key]; done {
			return
		}
		if j, ok := firstColWith(cols, needles...); ok {
			out[key] = j
		}
	}
	put(colReg, "registration", "number")
	put(colReg, "registration")
	put(colWeight, "weight", "verification")
	put(colRFS, "rfs", "cert")
	put(colSusp, "suspension", "maintenance")
	put(colTrip, "trip", "record")
	put(colFaultS, "fault", "suspension")
	return out
}

// resizeDataRows trims or grows the table so exactly n data rows follow the
// header rows, cloning the last remaining row's formatting for new ones.
func resizeDataRows(t *docx.Table, headerRows, n int) {
	rows := t.Rows()
	for len(rows) > headerRows && len(rows) > headerRows+n {
		t.RemoveRow(rows[len(rows)-1])
		rows = t.Rows()
	}
	for len(rows) < headerRows+n {
		t.AppendRowFrom(rows[len(rows)-1])
		rows = t.Rows()
	}
}

func at(vals []string, i int) string {
	if i < 0 || i >= len(vals) {
		return ""
	}
	return strings.TrimSpace(vals[i])
}

// fillMaintenanceVehicleTable rewrites the data region of the maintenance
// records table from the section's parallel arrays.
func fillMaintenanceVehicleTable(t *docx.Table, arrays map[string][]string) bool {
	colmap := mapMaintenanceCols(t)
	if _, ok := colmap[colReg]; !ok {
		return false
	}
	regs := arrays["Registration Number"]
	n := len(regs)
	if n == 0 {
		return false
	}
	resizeDataRows(t, 1, n)
	rows := t.Rows()
	fields := []struct {
		key   string
		label string
	}{
		{colRoadw, "Roadworthiness Certificates"},
		{colMaintR, "Maintenance Records"},
		{colDaily, "Daily Checks"},
		{colFaultR, "Fault Recording/ Reporting"},
		{colRepair, "Fault Repair"},
	}
	for i := 0; i < n; i++ {
		cells := rows[1+i].Cells()
		if j := colmap[colReg]; j < len(cells) {
			replaceRedInCell(cells[j], at(regs, i))
		}
		for _, f := range fields {
			j, ok := colmap[f.key]
			if !ok || j >= len(cells) {
				continue
			}
			replaceRedInCell(cells[j], at(arrays[f.label], i))
		}
	}
	return true
}

// fillMassVehicleTable rewrites the mass records table, keeping however many
// header rows the template uses.
func fillMassVehicleTable(t *docx.Table, arrays map[string][]string) bool {
	colmap := mapMassCols(t)
	if _, ok := colmap[colReg]; !ok {
		return false
	}
	regs := arrays["Registration Number"]
	n := len(regs)
	if n == 0 {
		return false
	}
	headerRows := countHeaderRows(t, 6)
	resizeDataRows(t, headerRows, n)
	rows := t.Rows()
	fields := []struct {
		key   string
		label string
	}{
		{colWeight, "Weight Verification Records"},
		{colRFS, "RFS Suspension Certification #"},
		{colSusp, "Suspension System Maintenance"},
		{colTrip, "Trip Records"},
		{colFaultS, "Fault Recording/ Reporting on Suspension System"},
	}
	for i := 0; i < n; i++ {
		cells := rows[headerRows+i].Cells()
		if j := colmap[colReg]; j < len(cells) {
			replaceRedInCell(cells[j], at(regs, i))
		}
		for _, f := range fields {
			j, ok := colmap[f.key]
			if !ok || j >= len(cells) {
				continue
			}
			replaceRedInCell(cells[j], at(arrays[f.label], i))
		}
	}
	return true
}

func findDriverTable(doc *docx.Document) *docx.Table {
	for _, t := range doc.Tables() {
		h := tableHeaderText(t, 3)
		if strings.Contains(h, "driver / scheduler") &&
			(strings.Contains(h, "fit for duty") || strings.Contains(h, "work diary")) {
			return t
		}
	}
	return nil
}

func fillDriverTable(t *docx.Table, arrays map[string][]string) bool {
	cols := headerColTexts(t, 2)
	colmap := map[string]int{}
	put := func(key string, needles ...string) {
		if _, done := colmap[key]; done {
			return
		}
		if j, ok := firstColWith(cols, needles...); ok {
			colmap[key] = j
		}
	}
	put("name", "driver", "name")
	put("roster", "roster", "safe")
	put("fit", "fit for duty")
	put("wd", "work diary")
	put("wd", "electronic work diary")
	if len(colmap) == 0 {
		return false
	}

	names := arrays["Driver / Scheduler Name"]
	rosters := arrays["Roster / Schedule / Safe Driving Plan (Date Range)"]
	fits := arrays["Fit for Duty Statement Completed (Yes/No)"]
	diaries := arrays["Work Diary Pages (Page Numbers) Electronic Work Diary Records (Date Range)"]
	n := len(names)
	for _, a := range [][]string{rosters, fits, diaries} {
		if len(a) > n {
			n = len(a)
		}
	}
	if n == 0 {
		return false
	}
	resizeDataRows(t, 1, n)
	rows := t.Rows()

	hasAnyName := false
	for _, s := range names {
		if strings.TrimSpace(s) != "" {
			hasAnyName = true
			break
		}
	}
	for i := 0; i < n; i++ {
		cells := rows[1+i].Cells()
		set := func(key string, vals []string) {
			if j, ok := colmap[key]; ok && j < len(cells) {
				replaceRedInCell(cells[j], at(vals, i))
			}
		}
		if hasAnyName {
			set("name", names)
		}
		set("roster", rosters)
		set("fit", fits)
		set("wd", diaries)
	}
	return true
}

// summaryTableCols recognises a management findings table and returns its
// label and DETAILS column indices.
func summaryTableCols(t *docx.Table) (labelCol, detailsCol int, ok bool) {
	rows := t.Rows()
	if len(rows) == 0 {
		return 0, 0, false
	}
	head := rows[0].Cells()
	if len(head) < 2 {
		return 0, 0, false
	}
	detailsCol = -1
	for j, c := range head {
		if strings.Contains(canon(c.Text()), "detail") {
			detailsCol = j
			break
		}
	}
	if detailsCol < 0 {
		return 0, 0, false
	}
	labelCol = -1
	for j, c := range head {
		h := canon(c.Text())
		if strings.Contains(h, "maintenance management") ||
			strings.Contains(h, "mass management") ||
			strings.Contains(h, "fatigue management") {
			labelCol = j
			break
		}
	}
	if labelCol < 0 {
		if detailsCol != 0 {
			labelCol = 0
		} else {
			labelCol = 1
		}
	}
	return labelCol, detailsCol, true
}

// overwriteSummaryDetails replaces whole DETAILS cells for each standard of
// the named section, matching rows by their "Std N" key.
func overwriteSummaryDetails(doc *docx.Document, sectionName string, section map[string][]string) int {
	desired := make(map[string]string, len(section))
	for label, vals := range section {
		desired[stdKey(label)] = joinValue(vals)
	}
	wantedPrefix := canonLabel(strings.Fields(sectionName)[0])

	updated := 0
	for _, t := range doc.Tables() {
		labelCol, detailsCol, ok := summaryTableCols(t)
		if !ok {
			continue
		}
		if !strings.Contains(tableHeaderText(t, 2), wantedPrefix) {
			continue
		}
		rows := t.Rows()
		for i := 1; i < len(rows); i++ {
			cells := rows[i].Cells()
			if labelCol >= len(cells) || detailsCol >= len(cells) {
				continue
			}
			key := stdKey(cells[labelCol].Text())
			text, ok := desired[key]
			if !ok {
				if m := stdKeyRe.FindStringSubmatch(key); m != nil {
					for k, v := range desired {
						if strings.HasPrefix(k, m[1]) {
							text, ok = v, true
							break
						}
					}
				}
			}
			if !ok || text == "" {
				continue
			}
			setCellTextBlack(cells[detailsCol], text)
			updated++
		}
	}
	return updated
}
