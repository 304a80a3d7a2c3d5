package redtext

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/transportops/auditfill/internal/schema"
)

func mustSchema(t *testing.T, name string) *schema.Schema {
	t.Helper()
	sc := schema.ByName(name)
	require.NotNil(t, sc, "schema %q not in registry", name)
	return sc
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "Date of Audit", normalizeText("  Date \t of\n Audit "))
	assert.Equal(t, "", normalizeText("   "))
}

func TestSummaryOutscoresPlainCompliance(t *testing.T) {
	ctx := TableContext{
		Heading:   "MAINTENANCE MANAGEMENT SUMMARY OF AUDIT FINDINGS",
		Headers:   []string{"MAINTENANCE MANAGEMENT", "DETAILS"},
		Col0:      []string{"MAINTENANCE MANAGEMENT", "Std 1. Daily Check", "Std 4. Maintenance Schedules and Methods"},
		FirstCell: "MAINTENANCE MANAGEMENT",
		NumRows:   3,
		NumCols:   2,
	}

	summaryScore, _ := matchScore(mustSchema(t, "Maintenance Management Summary"), ctx)
	plainScore, _ := matchScore(mustSchema(t, "Maintenance Management"), ctx)
	assert.Greater(t, summaryScore, plainScore,
		"DETAILS column must push the findings table to the Summary schema")

	got := matchTableSchema(ctx, schema.Registry())
	require.NotNil(t, got)
	assert.Equal(t, "Maintenance Management Summary", got.Name)
}

func TestVehicleTableDisambiguation(t *testing.T) {
	maint := TableContext{
		Heading: "Vehicle Registration Numbers of Records Examined",
		Headers: []string{
			"No.", "Registration Number", "Roadworthiness Certificates",
			"Maintenance Records", "Daily Checks",
			"Fault Recording/ Reporting", "Fault Repair",
		},
		FirstCell: "No.",
		NumRows:   3,
		NumCols:   7,
	}
	got := matchTableSchema(maint, schema.Registry())
	require.NotNil(t, got)
	assert.Equal(t, "Vehicle Registration Numbers Maintenance", got.Name)

	mass := TableContext{
		Heading: "Vehicle Registration Numbers of Records Examined",
		Headers: []string{
			"No.", "Registration Number", "Sub contractor",
			"Weight Verification Records", "RFS Suspension Certification #",
			"Suspension System Maintenance", "Trip Records",
			"Fault Recording/ Reporting on Suspension System",
		},
		FirstCell: "No.",
		NumRows:   3,
		NumCols:   8,
	}
	got = matchTableSchema(mass, schema.Registry())
	require.NotNil(t, got)
	assert.Equal(t, "Vehicle Registration Numbers Mass", got.Name)
}

func TestDeclarationPreChecks(t *testing.T) {
	auditor := TableContext{
		Heading:   "NHVAS APPROVED AUDITOR DECLARATION",
		Headers:   []string{"Print Name", "NHVR or Exemplar Global Auditor Registration Number"},
		FirstCell: "Print Name",
	}
	got := matchTableSchema(auditor, schema.Registry())
	require.NotNil(t, got)
	assert.Equal(t, "NHVAS Approved Auditor Declaration", got.Name)

	operator := TableContext{
		Heading:   "Operator Declaration",
		Headers:   []string{"Print Name", "Position Title"},
		FirstCell: "Print Name",
		AllCells:  []string{"Print Name", "Position Title", "J Smith", "Transport Manager"},
	}
	got = matchTableSchema(operator, schema.Registry())
	require.NotNil(t, got)
	assert.Equal(t, "Operator Declaration", got.Name)
}

func TestNoMatchBelowThreshold(t *testing.T) {
	ctx := TableContext{
		Heading:   "Notes",
		Headers:   []string{"Foo", "Bar"},
		Col0:      []string{"Foo"},
		FirstCell: "Foo",
	}
	assert.Nil(t, matchTableSchema(ctx, schema.Registry()))
}

func TestCheckMultiSchemaTable(t *testing.T) {
	combined := TableContext{Col0: []string{
		"Operator name (Legal entity)", "NHVAS Accreditation No.",
		"Operator business address", "Email address",
	}}
	assert.Equal(t,
		[]string{"Operator Information", "Operator contact details"},
		checkMultiSchemaTable(combined))

	identityOnly := TableContext{Col0: []string{"Operator name (Legal entity)", "NHVAS Accreditation No."}}
	assert.Nil(t, checkMultiSchemaTable(identityOnly))
}
