package merge

import (
	"log"
	"strings"

	"github.com/transportops/auditfill/internal/pdfreport"
	"github.com/transportops/auditfill/internal/redtext"
)

// DOCX section and label names as they appear in the placeholder artifact.
const (
	secAuditInfo       = "Audit Information"
	secOperatorInfo    = "Operator Information"
	secContactDetails  = "Operator contact details"
	secAttendance      = "Attendance List (Names and Position Titles)"
	secBusinessNature  = "Nature of the Operators Business (Summary)"
	secVehicleSummary  = "Accreditation Vehicle Summary"
	secMaintVehicles   = "Vehicle Registration Numbers Maintenance"
	secMassVehicles    = "Vehicle Registration Numbers Mass"
	secDrivers         = "Driver / Scheduler Records Examined"
	secPrintAccredName = "Print accreditation name"
	secAuditDates      = "Audit Declaration dates"
	secOperatorDecl    = "Operator Declaration"
	secOperatorLegal   = "Operator's Name (legal entity)"
)

// Merge overlays the facts extracted from the PDF report onto the DOCX
// placeholder structure. The input map is not modified.
func Merge(docxData redtext.Result, report *pdfreport.Report) (redtext.Result, *Report) {
	rep := &Report{}
	facts := ExtractFacts(report, rep)
	merged := copyResult(docxData)

	applyAuditInfo(merged, facts, rep)
	applyOperatorInfo(merged, facts, rep)
	applyContactDetails(merged, facts)
	applyAttendance(merged, facts)
	applyBusinessSummary(merged, facts)
	applyVehicleCounts(merged, facts)
	applySummaryFindings(merged, facts)
	applyVehicleSections(merged, facts)
	applyDriverSection(merged, facts)
	applyPrintAccreditation(merged, facts)
	applyDeclarations(merged, facts, rep)
	applyParagraphs(merged, facts)
	forceFillMaintenance(merged, facts)

	rep.SectionsFilled = countFilled(merged) - countFilled(docxData)
	if rep.SectionsFilled < 0 {
		rep.SectionsFilled = 0
	}
	for _, fl := range rep.Flags {
		log.Printf("merge: low confidence %s / %s: %q (%s)", fl.Section, fl.Label, fl.Value, fl.Reason)
	}
	return merged, rep
}

func copyResult(in redtext.Result) redtext.Result {
	out := make(redtext.Result, len(in))
	for sec, labels := range in {
		m := make(map[string][]string, len(labels))
		for k, vs := range labels {
			m[k] = append([]string(nil), vs...)
		}
		out[sec] = m
	}
	return out
}

func section(m redtext.Result, name string) map[string][]string {
	s, ok := m[name]
	if !ok {
		s = map[string][]string{}
		m[name] = s
	}
	return s
}

func setValue(m redtext.Result, sec, label, val string) {
	if strings.TrimSpace(val) == "" {
		return
	}
	section(m, sec)[label] = []string{val}
}

func setValues(m redtext.Result, sec, label string, vals []string) {
	if len(vals) == 0 {
		return
	}
	section(m, sec)[label] = vals
}

func applyAuditInfo(m redtext.Result, f *Facts, _ *Report) {
	setValue(m, secAuditInfo, "Date of Audit", f.AuditInfo["date_of_audit"])
	setValue(m, secAuditInfo, "Location of audit", f.AuditInfo["location"])
	setValue(m, secAuditInfo, "Auditor name", f.AuditInfo["auditor_name"])
	setValue(m, secAuditInfo, "Audit Matrix Identifier (Name or Number)", f.AuditInfo["matrix_id"])
}

func applyOperatorInfo(m redtext.Result, f *Facts, rep *Report) {
	if name := f.OperatorInfo["name"]; name != "" {
		if looksLikeCompany(name) {
			setValue(m, secOperatorInfo, "Operator name (Legal entity)", name)
			setValue(m, secOperatorLegal, "Operator's Name (legal entity)", name)
		} else {
			rep.flag(secOperatorInfo, "Operator name (Legal entity)", name, "value does not look like a company name")
		}
	}
	setValue(m, secOperatorInfo, "NHVAS Accreditation No. (If applicable)", f.OperatorInfo["accreditation_no"])
	setValue(m, secOperatorInfo, "Registered trading name/s", f.OperatorInfo["trading_name"])
	setValue(m, secOperatorInfo, "Australian Company Number", f.OperatorInfo["acn"])
	if manual := f.OperatorInfo["manual"]; manual != "" {
		if looksLikeManualValue(manual) {
			setValue(m, secOperatorInfo, "NHVAS Manual (Policies and Procedures) developed by", manual)
		} else {
			rep.flag(secOperatorInfo, "NHVAS Manual (Policies and Procedures) developed by", manual, "bare number rejected")
		}
	}
}

func applyContactDetails(m redtext.Result, f *Facts) {
	setValue(m, secContactDetails, "Operator business address", f.OperatorInfo["business_address"])
	setValue(m, secContactDetails, "Operator Postal address", f.OperatorInfo["postal_address"])
	setValue(m, secContactDetails, "Email address", f.OperatorInfo["email"])
	setValue(m, secContactDetails, "Operator Telephone Number", f.OperatorInfo["phone"])
}

func applyAttendance(m redtext.Result, f *Facts) {
	setValues(m, secAttendance, secAttendance, cleanList(f.Attendance))
}

func applyBusinessSummary(m redtext.Result, f *Facts) {
	setValue(m, secBusinessNature, "Nature of the Operators Business (Summary):", f.BusinessSummary)
}

func applyVehicleCounts(m redtext.Result, f *Facts) {
	setValue(m, secVehicleSummary, "Number of powered vehicles", f.VehicleSummary["powered"])
	setValue(m, secVehicleSummary, "Number of trailing vehicles", f.VehicleSummary["trailing"])
}

// applySummaryFindings matches DETAILS text to placeholder labels by standard
// number, so wording drift between the PDF and the template does not matter.
func applySummaryFindings(m redtext.Result, f *Facts) {
	for secName, pdfLabels := range f.SummaryMaps {
		target, ok := m[secName]
		if !ok {
			target = section(m, secName)
		}
		byNum := make(map[string]string, len(pdfLabels))
		for label, detail := range pdfLabels {
			if n := stdNumber(label); n != "" {
				byNum[n] = detail
			}
		}
		if len(target) == 0 {
			// template had no red cells here; keep the findings anyway
			for label, detail := range pdfLabels {
				target[label] = []string{detail}
			}
			continue
		}
		for docxLabel := range target {
			n := stdNumber(docxLabel)
			if n == "" {
				continue
			}
			if detail, ok := byNum[n]; ok {
				target[docxLabel] = []string{detail}
			}
		}
	}
}

var maintFieldOrder = []string{
	fieldRoadworthy, fieldMaintRecords, fieldDailyChecks, fieldFaultRecord, fieldFaultRepair,
}

var maintLabelOrder = []string{
	"Roadworthiness Certificates", "Maintenance Records", "Daily Checks",
	"Fault Recording/ Reporting", "Fault Repair",
}

var massFieldOrder = []string{
	fieldSubContract, fieldSubComp, fieldWeightVerif, fieldRFSCert,
	fieldSuspension, fieldTripRecords, fieldFaultRepSusp,
}

var massLabelOrder = []string{
	"Sub contractor", "Sub-contracted Vehicles Statement of Compliance",
	"Weight Verification Records", "RFS Suspension Certification #",
	"Suspension System Maintenance", "Trip Records",
	"Fault Recording/ Reporting on Suspension System",
}

func applyVehicleSections(m redtext.Result, f *Facts) {
	maint := ledgerSubset(f.Ledger, func(v *Vehicle) bool { return v.SeenInMaintenance })
	mass := ledgerSubset(f.Ledger, func(v *Vehicle) bool { return v.SeenInMass })
	if len(maint) == 0 && len(mass) == 0 {
		maint = f.Ledger.All()
	}

	if len(maint) > 0 {
		regs := make([]string, 0, len(maint))
		cols := make(map[string][]string, len(maintFieldOrder))
		for _, v := range maint {
			regs = append(regs, v.Registration)
			for _, field := range maintFieldOrder {
				val := v.Field(field)
				// gap-fill pairs the way audit tables usually mirror them
				if val == "" {
					switch field {
					case fieldMaintRecords:
						val = v.Field(fieldDailyChecks)
					case fieldFaultRepair:
						val = v.Field(fieldFaultRecord)
					case fieldFaultRecord:
						val = v.Field(fieldFaultRepair)
					}
				}
				cols[field] = append(cols[field], val)
			}
		}
		setValues(m, secMaintVehicles, "Registration Number", regs)
		for i, field := range maintFieldOrder {
			setValues(m, secMaintVehicles, maintLabelOrder[i], trimTrailingEmpty(cols[field]))
		}
	}

	if len(mass) > 0 {
		regs := make([]string, 0, len(mass))
		cols := make(map[string][]string, len(massFieldOrder))
		for _, v := range mass {
			regs = append(regs, v.Registration)
			for _, field := range massFieldOrder {
				cols[field] = append(cols[field], v.Field(field))
			}
		}
		setValues(m, secMassVehicles, "Registration Number", regs)
		for i, field := range massFieldOrder {
			setValues(m, secMassVehicles, massLabelOrder[i], trimTrailingEmpty(cols[field]))
		}
	}
}

func ledgerSubset(l *VehicleLedger, keep func(*Vehicle) bool) []*Vehicle {
	var out []*Vehicle
	for _, v := range l.All() {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func trimTrailingEmpty(vals []string) []string {
	n := len(vals)
	for n > 0 && strings.TrimSpace(vals[n-1]) == "" {
		n--
	}
	if n == 0 {
		return nil
	}
	return vals[:n]
}

func applyDriverSection(m redtext.Result, f *Facts) {
	if len(f.Drivers) == 0 {
		return
	}
	var rosters, fits, diaries []string
	for _, d := range f.Drivers {
		rosters = append(rosters, d.Roster)
		fits = append(fits, d.Fitness)
		diaries = append(diaries, d.WorkDiary)
	}
	setValues(m, secDrivers, "Roster / Schedule / Safe Driving Plan (Date Range)", trimTrailingEmpty(rosters))
	setValues(m, secDrivers, "Fit for Duty Statement Completed (Yes/No)", trimTrailingEmpty(fits))
	setValues(m, secDrivers,
		"Work Diary Pages (Page Numbers) Electronic Work Diary Records (Date Range)", trimTrailingEmpty(diaries))
}

func applyPrintAccreditation(m redtext.Result, f *Facts) {
	name := f.PrintAccreditationName
	if name == "" {
		name = f.OperatorInfo["name"]
	}
	if name == "" {
		name = f.OperatorInfo["trading_name"]
	}
	setValue(m, secPrintAccredName, "(print accreditation name)", name)
}

func applyDeclarations(m redtext.Result, f *Facts, rep *Report) {
	if isRealDate(f.AuditConductedDate) {
		setValue(m, secAuditDates, "Audit was conducted on", f.AuditConductedDate)
	}
	if name, title, ok := firstAttendanceNameTitle(f.Attendance); ok {
		setValue(m, secOperatorDecl, "Print Name", name)
		setValue(m, secOperatorDecl, "Position Title", title)
		rep.flag(secOperatorDecl, "Print Name", name, "taken from the attendance list")
	}
}

// applyParagraphs fills red paragraph placeholders: the operator name under
// each management findings heading, and the audit date in the auditor
// declaration block.
func applyParagraphs(m redtext.Result, f *Facts) {
	paras, ok := m[redtext.ParagraphsKey]
	if !ok {
		return
	}
	name := f.OperatorInfo["name"]
	date := f.AuditConductedDate
	for key := range paras {
		up := strings.ToUpper(key)
		switch {
		case name != "" && strings.Contains(up, "MANAGEMENT") && strings.Contains(up, "SUMMARY OF AUDIT FINDINGS"):
			paras[key] = []string{name}
		case date != "" && strings.Contains(up, "APPROVED AUDITOR DECLARATION"):
			paras[key] = []string{date}
		case date != "" && strings.Contains(strings.ToLower(key), "acknowledge"):
			paras[key] = []string{date}
		case date != "" && key == "Date":
			paras[key] = []string{date}
		}
	}
}

// forceFillMaintenance rebuilds the maintenance vehicle section from the
// authoritative table rows when any were captured, overriding whatever the
// per-vehicle accumulation produced.
func forceFillMaintenance(m redtext.Result, f *Facts) {
	if len(f.MaintRows) == 0 {
		return
	}
	seen := map[string]bool{}
	var regs, rw, rec, dc, fr, rp []string
	for _, row := range f.MaintRows {
		if seen[row.Registration] {
			continue
		}
		seen[row.Registration] = true
		regs = append(regs, row.Registration)
		records := row.Records
		if records == "" {
			records = row.DailyChecks
		}
		faultRec := row.FaultRecord
		if faultRec == "" {
			faultRec = row.FaultRepair
		}
		faultRep := row.FaultRepair
		if faultRep == "" {
			faultRep = row.FaultRecord
		}
		rw = append(rw, row.Roadworthy)
		rec = append(rec, records)
		dc = append(dc, row.DailyChecks)
		fr = append(fr, faultRec)
		rp = append(rp, faultRep)
	}
	sec := section(m, secMaintVehicles)
	sec["Registration Number"] = regs
	sec["Roadworthiness Certificates"] = rw
	sec["Maintenance Records"] = rec
	sec["Daily Checks"] = dc
	sec["Fault Recording/ Reporting"] = fr
	sec["Fault Repair"] = rp
}

func countFilled(m redtext.Result) int {
	n := 0
	for _, labels := range m {
		for _, vals := range labels {
			for _, v := range vals {
				if strings.TrimSpace(v) != "" {
					n++
				}
			}
		}
	}
	return n
}
