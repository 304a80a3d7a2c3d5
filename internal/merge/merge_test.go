package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transportops/auditfill/internal/pdfreport"
	"github.com/transportops/auditfill/internal/redtext"
	"github.com/transportops/auditfill/internal/schema"
)

func tableOf(rows ...[]string) pdfreport.Table {
	return pdfreport.Table{RawData: rows, RowCount: len(rows)}
}

func sampleReport() *pdfreport.Report {
	return &pdfreport.Report{
		Extracted: pdfreport.ExtractedData{
			AllTables: []pdfreport.Table{
				tableOf(
					[]string{"Date of Audit", "14/03/2023"},
					[]string{"Location of audit", "Depot Road, Dubbo NSW"},
					[]string{"Auditor name", "Greg Dyer"},
					[]string{"Audit Matrix Identifier (Name or Number)", "AM-2023-014"},
				),
				tableOf(
					[]string{"Operator name (Legal entity)", "Sheppard Transport Pty Ltd"},
					[]string{"Australian Company Number", "1 2 3 4 5 6 7 8 9"},
					[]string{"NHVAS Manual (Policies and Procedures) developed by", "Version 3 Manual"},
					[]string{"Operator business address", "14 Depot Road Dubbo NSW"},
				),
				tableOf(
					[]string{"No.", "Registration Number", "Roadworthiness Certificates", "Maintenance Records", "Daily Checks", "Fault Recording/ Reporting", "Fault Repair"},
					[]string{"1.", "XY12AB", "12/01/2023", "13/01/2023", "14/01/2023", "15/01/2023", "16/01/2023"},
					[]string{"2.", "CD34EF", "20/01/2023", "", "21/01/2023", "22/01/2023", ""},
				),
				tableOf(
					[]string{"No.", "Registration Number", "Sub contractor", "Weight Verification Records", "RFS Suspension Certification #", "Suspension System Maintenance", "Trip Records"},
					[]string{"1.", "GH56JK", "Yes", "10/02/2023", "RF 12345", "11/02/2023", "12/02/2023"},
				),
				tableOf(
					[]string{"MAINTENANCE MANAGEMENT", "DETAILS"},
					[]string{"Std 1. Daily Check", "All vehicles checked daily, sheets sighted."},
					[]string{"Std 7. Internal Review", "Review completed 1/3/2023."},
				),
			},
			AllTextContent: []pdfreport.TextBlock{
				{Page: 1, Text: "Nature of the Operators Business (Summary): General freight cartage across regional NSW including grain, fertiliser and machinery transport. Accreditation Number: 51234"},
				{Page: 14, Text: "Audit was conducted on 14 March 2023"},
			},
		},
	}
}

func TestExtractFactsTables(t *testing.T) {
	rep := &Report{}
	facts := ExtractFacts(sampleReport(), rep)

	assert.Equal(t, "14/03/2023", facts.AuditInfo["date_of_audit"])
	assert.Equal(t, "Greg Dyer", facts.AuditInfo["auditor_name"])
	assert.Equal(t, "Sheppard Transport Pty Ltd", facts.OperatorInfo["name"])
	assert.Equal(t, "123456789", facts.OperatorInfo["acn"])
	assert.Equal(t, "Version 3 Manual", facts.OperatorInfo["manual"])

	require.Equal(t, 3, facts.Ledger.Len())
	v := facts.Ledger.Get("XY12AB")
	assert.True(t, v.SeenInMaintenance)
	assert.False(t, v.SeenInMass)
	assert.Equal(t, "12/01/2023", v.Field(fieldRoadworthy))
	assert.Equal(t, "14/01/2023", v.Field(fieldDailyChecks))

	mass := facts.Ledger.Get("GH56JK")
	assert.True(t, mass.SeenInMass)
	assert.Equal(t, "Yes", mass.Field(fieldSubContract))
	assert.Equal(t, "RF 12345", mass.Field(fieldRFSCert))

	require.Len(t, facts.MaintRows, 2)
	assert.Equal(t, "CD34EF", facts.MaintRows[1].Registration)

	details := facts.SummaryMaps["Maintenance Management Summary"]
	require.NotNil(t, details)
	assert.Contains(t, details["Std 1. Daily Check"], "checked daily")

	assert.Equal(t, "14 March 2023", facts.AuditConductedDate)
	assert.Contains(t, facts.BusinessSummary, "General freight cartage")
}

func TestVehicleLedgerFirstWriteWins(t *testing.T) {
	l := NewVehicleLedger()
	v := l.Get("XY12AB")
	v.Set(fieldDailyChecks, "1/1/2023")
	v.Set(fieldDailyChecks, "2/2/2023")
	assert.Equal(t, "1/1/2023", v.Field(fieldDailyChecks))
	assert.Equal(t, 1, l.Len())

	l.Get("CD34EF")
	l.Get("XY12AB")
	regs := []string{}
	for _, v := range l.All() {
		regs = append(regs, v.Registration)
	}
	assert.Equal(t, []string{"XY12AB", "CD34EF"}, regs)
}

func TestMergeFillsDocxStructure(t *testing.T) {
	docxData := redtext.Result{
		"Audit Information": {
			"Date of Audit":      {"(date)"},
			"Location of audit":  {"(location)"},
			"Auditor name":       {"(auditor)"},
		},
		"Vehicle Registration Numbers Maintenance": {
			"Registration Number": {"(rego)"},
		},
		"Maintenance Management Summary": {
			"Std 1. Daily Check":      {"(details)"},
			"Std 7. Internal Review":  {"(details)"},
		},
		redtext.ParagraphsKey: {
			"Maintenance Management Summary of Audit findings": {"(name)"},
			"NHVAS APPROVED AUDITOR DECLARATION":               {"(date)"},
		},
	}

	merged, rep := Merge(docxData, sampleReport())
	require.NotNil(t, rep)

	assert.Equal(t, []string{"14/03/2023"}, merged["Audit Information"]["Date of Audit"])

	// the input is not modified
	assert.Equal(t, []string{"(date)"}, docxData["Audit Information"]["Date of Audit"])

	regs := merged["Vehicle Registration Numbers Maintenance"]["Registration Number"]
	assert.Equal(t, []string{"XY12AB", "CD34EF"}, regs)

	// the authoritative rows win, with gap-filled pairs
	records := merged["Vehicle Registration Numbers Maintenance"]["Maintenance Records"]
	require.Len(t, records, 2)
	assert.Equal(t, "21/01/2023", records[1]) // filled from daily checks

	assert.Contains(t, merged["Maintenance Management Summary"]["Std 7. Internal Review"][0], "Review completed")

	paras := merged[redtext.ParagraphsKey]
	assert.Equal(t, []string{"Sheppard Transport Pty Ltd"}, paras["Maintenance Management Summary of Audit findings"])
	assert.Equal(t, []string{"14 March 2023"}, paras["NHVAS APPROVED AUDITOR DECLARATION"])

	massRegs := merged["Vehicle Registration Numbers Mass"]["Registration Number"]
	assert.Equal(t, []string{"GH56JK"}, massRegs)
}

func TestAuditConductedDateAcceptsOrdinals(t *testing.T) {
	report := &pdfreport.Report{
		Extracted: pdfreport.ExtractedData{
			AllTextContent: []pdfreport.TextBlock{
				{Page: 12, Text: "Audit was conducted on 13th November 2024"},
			},
		},
	}
	docxData := redtext.Result{
		"Audit Declaration dates": {"Audit was conducted on": {"(date)"}},
		redtext.ParagraphsKey: {
			schema.AcknowledgementText: {"(date)"},
		},
	}

	merged, _ := Merge(docxData, report)
	assert.Equal(t, []string{"13th November 2024"},
		merged["Audit Declaration dates"]["Audit was conducted on"])
	assert.Equal(t, []string{"13th November 2024"},
		merged[redtext.ParagraphsKey][schema.AcknowledgementText])
}

func TestCollapseMultilineHeaders(t *testing.T) {
	headers, data := collapseMultilineHeaders([][]string{
		{"No.", "Registration", "Fault Recording/ Reporting"},
		{"", "Number", "on Suspension System"},
		{"1.", "GH56JK", "12/02/2023"},
	})
	require.Len(t, data, 1)
	assert.Equal(t, "Registration Number", headers[1])
	assert.Equal(t, "Fault Recording/ Reporting on Suspension System", headers[2])
}

func TestPickNearbyTolerance(t *testing.T) {
	row := []string{"1.", "", "XY12AB", "12/01/2023"}
	val, tolerant := pickNearby(row, 1, looksLikePlate, nil)
	assert.Equal(t, "XY12AB", val)
	assert.True(t, tolerant)

	val, tolerant = pickNearby(row, 2, looksLikePlate, nil)
	assert.Equal(t, "XY12AB", val)
	assert.False(t, tolerant)

	val, _ = pickNearby([]string{"1.", "nothing"}, 1, looksLikePlate, nil)
	assert.Equal(t, "", val)
}

func TestMapHeaderIndicesFuzzy(t *testing.T) {
	idx := mapHeaderIndices([]string{
		"Registration Number",
		"Fault Recording / Reporting",
		"Fault Repair",
		"Fault Recording/ Reporting on Suspension System",
	})
	assert.Equal(t, fieldRegistration, idx[0])
	assert.Equal(t, fieldFaultRecord, idx[1])
	assert.Equal(t, fieldFaultRepair, idx[2])
	assert.Equal(t, fieldFaultRepSusp, idx[3])
}
