package merge

import (
	"log"
	"regexp"
	"strings"

	"github.com/transportops/auditfill/internal/pdfreport"
)

// tableRule pairs a predicate with its handler. Rules run in declaration
// order and the first matching rule consumes the table.
type tableRule struct {
	name  string
	match func(t *factTable) bool
	apply func(f *Facts, t *factTable, rep *Report)
}

// factTable is a PDF table prepared for fact extraction. headers/data are
// the raw first row and remainder; the vehicle view additionally collapses
// multiline headers, which only the vehicle rule should use.
type factTable struct {
	src       *pdfreport.Table
	headers   []string
	data      [][]string
	rawBlob   string
	fieldByIx map[int]string
	vehData   [][]string
}

func prepareTable(t *pdfreport.Table) *factTable {
	rows := t.RawData
	if len(rows) == 0 {
		if len(t.Headers) > 0 {
			rows = append([][]string{t.Headers}, t.Data...)
		} else {
			rows = t.Data
		}
	}
	if len(rows) == 0 {
		return &factTable{src: t}
	}
	var blob strings.Builder
	for _, row := range rows {
		for _, c := range row {
			blob.WriteString(strings.ToLower(c))
			blob.WriteByte(' ')
		}
	}
	ft := &factTable{src: t, headers: rows[0], data: rows[1:], rawBlob: blob.String()}

	// vehicle view: row 0 alone first, then the collapsed multiline header
	ft.fieldByIx = mapHeaderIndices(ft.headers)
	ft.vehData = ft.data
	if _, ok := ft.fieldIndex(fieldRegistration); !ok {
		headers, data := collapseMultilineHeaders(rows)
		alt := mapHeaderIndices(headers)
		if _, ok := fieldIndexIn(alt, fieldRegistration); ok {
			ft.fieldByIx, ft.vehData = alt, data
		}
	}
	return ft
}

func (t *factTable) fieldIndex(field string) (int, bool) {
	return fieldIndexIn(t.fieldByIx, field)
}

func fieldIndexIn(m map[int]string, field string) (int, bool) {
	for ix, f := range m {
		if f == field {
			return ix, true
		}
	}
	return 0, false
}

func (t *factTable) contains(subs ...string) bool {
	for _, s := range subs {
		if !strings.Contains(t.rawBlob, s) {
			return false
		}
	}
	return true
}

// ExtractFacts distils the merge fact base from a PDF extraction artifact.
func ExtractFacts(report *pdfreport.Report, rep *Report) *Facts {
	f := &Facts{
		AuditInfo:      map[string]string{},
		OperatorInfo:   map[string]string{},
		VehicleSummary: map[string]string{},
		Ledger:         NewVehicleLedger(),
		SummaryMaps:    map[string]map[string]string{},
	}

	rules := factRules()
	for i := range report.Extracted.AllTables {
		t := prepareTable(&report.Extracted.AllTables[i])
		for _, r := range rules {
			if r.match(t) {
				r.apply(f, t, rep)
				break
			}
		}
		// summary DETAILS tables also feed the findings maps, whatever
		// the dispatch above decided
		collectSummaryDetails(f, t)
	}

	fullText := combinedText(report)
	applyTextFallbacks(f, fullText)
	accumulateVehiclesFromText(f, fullText)

	rep.VehicleCount = f.Ledger.Len()
	rep.DriverCount = len(f.Drivers)
	return f
}

func combinedText(report *pdfreport.Report) string {
	var b strings.Builder
	for _, blk := range report.Extracted.AllTextContent {
		b.WriteString(blk.Text)
		b.WriteByte('\n')
	}
	return b.String()
}

func factRules() []tableRule {
	return []tableRule{
		{
			// vehicle registration tables come first: their headers also
			// contain words the looser rules below would claim
			name: "vehicle-registrations",
			match: func(t *factTable) bool {
				_, ok := t.fieldIndex(fieldRegistration)
				return ok
			},
			apply: applyVehicleTable,
		},
		{
			name: "audit-information",
			match: func(t *factTable) bool {
				return t.contains("date of audit") || t.contains("audit matrix")
			},
			apply: applyAuditInfoTable,
		},
		{
			name: "operator-information",
			match: func(t *factTable) bool {
				return t.contains("operator name") || t.contains("nhvas accreditation") ||
					t.contains("australian company number")
			},
			apply: applyOperatorInfoTable,
		},
		{
			name: "attendance-list",
			match: func(t *factTable) bool {
				return t.contains("attendance list")
			},
			apply: applyAttendanceTable,
		},
		{
			name: "vehicle-summary",
			match: func(t *factTable) bool {
				return t.contains("number of powered vehicles") || t.contains("number of trailing vehicles")
			},
			apply: applyVehicleSummaryTable,
		},
		{
			name: "driver-records",
			match: func(t *factTable) bool {
				return t.contains("driver") && (t.contains("roster") || t.contains("fit for duty") || t.contains("work diary"))
			},
			apply: applyDriverTable,
		},
	}
}

func applyVehicleTable(f *Facts, t *factTable, rep *Report) {
	regIx, _ := t.fieldIndex(fieldRegistration)
	isMaint := false
	isMass := false
	for _, field := range t.fieldByIx {
		switch field {
		case fieldDailyChecks, fieldFaultRecord, fieldFaultRepair, fieldMaintRecords, fieldRoadworthy:
			isMaint = true
		case fieldWeightVerif, fieldRFSCert, fieldSuspension, fieldTripRecords, fieldFaultRepSusp:
			isMass = true
		}
	}

	for _, row := range t.vehData {
		plate, tolerant := pickNearby(row, regIx, looksLikePlate, func(c string) string {
			return strings.ToUpper(strings.TrimSpace(c))
		})
		if plate == "" {
			continue
		}
		if tolerant {
			rep.flag("vehicles", fieldRegistration, plate, "registration found outside its column")
		}
		v := f.Ledger.Get(plate)
		v.SeenInMaintenance = v.SeenInMaintenance || isMaint
		v.SeenInMass = v.SeenInMass || isMass

		for ix, field := range t.fieldByIx {
			if field == fieldRegistration || ix >= len(row) {
				continue
			}
			cell := strings.TrimSpace(row[ix])
			if cell == "" {
				continue
			}
			switch field {
			case fieldSubContract, fieldSubComp:
				if yn := titleYesNo(cell); yn != "" {
					v.Set(field, yn)
				}
			case fieldRFSCert:
				if m := rfNumberRe.FindString(cell); m != "" {
					v.Set(field, strings.ToUpper(wsRe.ReplaceAllString(m, " ")))
				}
			case fieldRowNo:
				// positional, not worth keeping
			default:
				if isDateish(cell) || looksLikeManualValue(cell) {
					v.Set(field, cell)
				}
			}
		}
		if isMaint {
			f.MaintRows = append(f.MaintRows, MaintRow{
				Registration: plate,
				Roadworthy:   v.Field(fieldRoadworthy),
				Records:      v.Field(fieldMaintRecords),
				DailyChecks:  v.Field(fieldDailyChecks),
				FaultRecord:  v.Field(fieldFaultRecord),
				FaultRepair:  v.Field(fieldFaultRepair),
			})
		}
	}
}

var auditInfoLabels = map[string]string{
	"date of audit":           "date_of_audit",
	"location of audit":       "location",
	"auditor name":            "auditor_name",
	"audit matrix identifier": "matrix_id",
}

func applyAuditInfoTable(f *Facts, t *factTable, _ *Report) {
	forEachLabelRow(t, func(label, value string) {
		c := canon(label)
		for want, key := range auditInfoLabels {
			if strings.HasPrefix(c, want) {
				setIfEmpty(f.AuditInfo, key, smartSpace(value))
			}
		}
	})
}

var operatorInfoLabels = []struct{ prefix, key string }{
	{"operator name", "name"},
	{"registered trading name", "trading_name"},
	{"australian company number", "acn"},
	{"nhvas accreditation", "accreditation_no"},
	{"nhvas manual", "manual"},
	{"operator business address", "business_address"},
	{"registered business address", "business_address"},
	{"operator postal address", "postal_address"},
	{"postal address", "postal_address"},
	{"email address", "email"},
	{"operator telephone", "phone"},
	{"telephone", "phone"},
}

func applyOperatorInfoTable(f *Facts, t *factTable, _ *Report) {
	forEachLabelRow(t, func(label, value string) {
		c := canon(label)
		for _, li := range operatorInfoLabels {
			if strings.HasPrefix(c, li.prefix) {
				v := smartSpace(value)
				if li.key == "acn" {
					v = strings.ReplaceAll(v, " ", "")
				}
				setIfEmpty(f.OperatorInfo, li.key, v)
				break
			}
		}
	})
}

func applyAttendanceTable(f *Facts, t *factTable, _ *Report) {
	rows := t.data
	if len(rows) == 0 {
		rows = [][]string{t.headers}
	}
	for _, row := range rows {
		var cells []string
		for _, c := range row {
			c = smartSpace(c)
			if c != "" && !strings.Contains(strings.ToLower(c), "attendance list") {
				cells = append(cells, c)
			}
		}
		if len(cells) == 0 {
			continue
		}
		f.Attendance = append(f.Attendance, strings.Join(cells, " - "))
	}
}

func applyVehicleSummaryTable(f *Facts, t *factTable, _ *Report) {
	forEachLabelRow(t, func(label, value string) {
		c := canon(label)
		if strings.Contains(c, "powered vehicles") {
			setIfEmpty(f.VehicleSummary, "powered", smartSpace(value))
		}
		if strings.Contains(c, "trailing vehicles") {
			setIfEmpty(f.VehicleSummary, "trailing", smartSpace(value))
		}
	})
}

func applyDriverTable(f *Facts, t *factTable, _ *Report) {
	nameIx, rosterIx, fitIx, diaryIx := -1, -1, -1, -1
	for i, h := range t.headers {
		c := canonHeader(h)
		switch {
		case strings.Contains(c, "name"):
			if nameIx < 0 {
				nameIx = i
			}
		case strings.Contains(c, "roster") || strings.Contains(c, "schedule"):
			if rosterIx < 0 {
				rosterIx = i
			}
		case strings.Contains(c, "fit for duty"):
			fitIx = i
		case strings.Contains(c, "work diary"):
			diaryIx = i
		}
	}
	if nameIx < 0 {
		return
	}
	at := func(row []string, i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		return smartSpace(row[i])
	}
	for _, row := range t.data {
		name := at(row, nameIx)
		if name == "" || len(strings.Fields(name)) < 2 || !hasLetterRe.MatchString(name) {
			continue
		}
		f.Drivers = append(f.Drivers, DriverDetail{
			Name:      name,
			Roster:    at(row, rosterIx),
			Fitness:   at(row, fitIx),
			WorkDiary: at(row, diaryIx),
		})
	}
}

// summarySections maps the section heading found in a DETAILS table to the
// placeholder section it fills.
var summarySections = map[string]string{
	"MAINTENANCE MANAGEMENT": "Maintenance Management Summary",
	"MASS MANAGEMENT":        "Mass Management Summary",
	"FATIGUE MANAGEMENT":     "Fatigue Management Summary",
}

func collectSummaryDetails(f *Facts, t *factTable) {
	joined := strings.ToUpper(strings.Join(t.headers, " "))
	if !strings.Contains(joined, "DETAILS") {
		return
	}
	target := ""
	for sec, name := range summarySections {
		if strings.Contains(joined, sec) {
			target = name
			break
		}
	}
	if target == "" {
		return
	}
	m := f.SummaryMaps[target]
	if m == nil {
		m = map[string]string{}
		f.SummaryMaps[target] = m
	}
	for _, row := range t.data {
		if len(row) < 2 {
			continue
		}
		label := normalizeStdLabel(strings.TrimSpace(row[0]))
		if label == "" || stdNumber(label) == "" {
			continue
		}
		var vals []string
		for _, c := range row[1:] {
			if c = strings.TrimSpace(c); c != "" {
				vals = append(vals, c)
			}
		}
		if len(vals) == 0 {
			continue
		}
		v := smartSpace(strings.Join(vals, " "))
		if prev, ok := m[label]; ok {
			m[label] = prev + " " + v
		} else {
			m[label] = v
		}
	}
	if len(m) > 0 {
		log.Printf("merge: %s findings collected (%d standards)", target, len(m))
	}
}

func forEachLabelRow(t *factTable, fn func(label, value string)) {
	emit := func(row []string) {
		if len(row) < 2 {
			return
		}
		label := strings.TrimSpace(row[0])
		if label == "" {
			return
		}
		var vals []string
		for _, c := range row[1:] {
			if c = strings.TrimSpace(c); c != "" {
				vals = append(vals, c)
			}
		}
		if len(vals) > 0 {
			fn(label, strings.Join(vals, " "))
		}
	}
	emit(t.headers)
	for _, row := range t.data {
		emit(row)
	}
}

func setIfEmpty(m map[string]string, key, val string) {
	if val == "" {
		return
	}
	if _, ok := m[key]; !ok {
		m[key] = val
	}
}

var (
	businessSummaryRe = regexp.MustCompile(
		`(?is)Nature of the Operators Business\s*\(Summary\)\s*:?\s*(.*?)(?:Accreditation Number|Expiry Date|Attendance List|$)`)
	auditConductedRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)Audit was conducted on\s*:?\s*([0-9]{1,2}(?:st|nd|rd|th)?[./ -][A-Za-z0-9]{1,9}[./ -][0-9]{2,4})`),
		regexp.MustCompile(`(?i)Date of Audit\s*:?\s*([0-9]{1,2}[./-][0-9]{1,2}[./-][0-9]{2,4})`),
		regexp.MustCompile(`(?i)conducted on\s+(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+\s+\d{4})`),
	}
	printAccreditationRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)print accreditation name\s*[:\)]*\s*\n?\s*([A-Z][A-Za-z&.,' ]{4,80})`),
		regexp.MustCompile(`(?i)\n([A-Z][A-Z&., ]{6,80}(?:PTY|LTD|P/L)[A-Z&., ]*)\n`),
	}
	poweredCountRe = regexp.MustCompile(`(?i)Number of powered vehicles\s*:?\s*(\d{1,4})`)
	trailingCountRe = regexp.MustCompile(`(?i)Number of trailing vehicles\s*:?\s*(\d{1,4})`)
)

func applyTextFallbacks(f *Facts, text string) {
	if f.BusinessSummary == "" {
		if m := businessSummaryRe.FindStringSubmatch(text); m != nil {
			s := smartSpace(m[1])
			if len(s) >= 50 {
				f.BusinessSummary = s
			}
		}
	}
	if f.AuditConductedDate == "" {
		for _, re := range auditConductedRes {
			if m := re.FindStringSubmatch(text); m != nil {
				f.AuditConductedDate = smartSpace(m[1])
				break
			}
		}
	}
	if f.PrintAccreditationName == "" {
		for _, re := range printAccreditationRes {
			if m := re.FindStringSubmatch(text); m != nil {
				f.PrintAccreditationName = smartSpace(m[1])
				break
			}
		}
	}
	if f.VehicleSummary["powered"] == "" {
		if m := poweredCountRe.FindStringSubmatch(text); m != nil {
			f.VehicleSummary["powered"] = m[1]
		}
	}
	if f.VehicleSummary["trailing"] == "" {
		if m := trailingCountRe.FindStringSubmatch(text); m != nil {
			f.VehicleSummary["trailing"] = m[1]
		}
	}
}

// accumulateVehiclesFromText sweeps loose text lines for rows that escaped
// table reconstruction: a plate token plus date tokens means a maintenance
// row, a plate plus an RF number or suspension wording means a mass row.
func accumulateVehiclesFromText(f *Facts, text string) {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var plate string
		for _, tok := range strings.Fields(line) {
			if looksLikePlate(tok) {
				plate = strings.ToUpper(tok)
				break
			}
		}
		if plate == "" {
			continue
		}
		dates := extractDateTokens(line)
		rf := rfNumberRe.FindString(line)
		lower := strings.ToLower(line)
		isMassLine := rf != "" || strings.Contains(lower, "suspension")
		if !isMassLine && len(dates) == 0 {
			continue
		}
		v := f.Ledger.Get(plate)
		if isMassLine {
			v.SeenInMass = true
			if rf != "" {
				v.Set(fieldRFSCert, strings.ToUpper(wsRe.ReplaceAllString(rf, " ")))
			}
			if strings.Contains(lower, "yes") {
				v.Set(fieldSubContract, "Yes")
			} else if strings.Contains(lower, " no ") || strings.HasSuffix(lower, " no") {
				v.Set(fieldSubContract, "No")
			}
			for i, field := range []string{fieldWeightVerif, fieldSuspension, fieldTripRecords, fieldFaultRepSusp} {
				if i < len(dates) {
					v.Set(field, dates[i])
				}
			}
		} else {
			v.SeenInMaintenance = true
			for i, field := range []string{fieldRoadworthy, fieldMaintRecords, fieldDailyChecks, fieldFaultRecord, fieldFaultRepair} {
				if i < len(dates) {
					v.Set(field, dates[i])
				}
			}
		}
	}
}
