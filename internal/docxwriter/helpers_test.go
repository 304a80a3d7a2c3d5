package docxwriter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanon(t *testing.T) {
	assert.Equal(t, "vehicle registration numbers of records examined",
		canon("  Vehicle   Registration Numbers of Records Examined "))
	assert.Equal(t, "fault recording/ reporting", canon("Fault Recording/ Reporting"))
	assert.Equal(t, "roster - schedule", canon("Roster – Schedule"))
}

func TestCanonLabel(t *testing.T) {
	assert.Equal(t, "date of audit", canonLabel("Date of Audit:"))
	assert.Equal(t, "fault recording reporting", canonLabel("Fault Recording/ Reporting"))
	assert.Equal(t, "attendance list names and position titles",
		canonLabel("Attendance List (Names and Position Titles)"))
}

func TestStdKey(t *testing.T) {
	assert.Equal(t, "std 1", stdKey("Std 1. Daily Check"))
	assert.Equal(t, "std 10", stdKey("Std 10. Something"))
	assert.Equal(t, "details", stdKey("DETAILS"))
}

func TestJoinValue(t *testing.T) {
	assert.Equal(t, "a\nb", joinValue([]string{"a", " ", "b", ""}))
	assert.Equal(t, "", joinValue(nil))
}

func TestSplitDigits(t *testing.T) {
	assert.Equal(t, []string{"1", "2", "3", "4", "5"}, splitDigits("1 2 345"))
	assert.Empty(t, splitDigits("none"))
}

func TestParseAttendanceLines(t *testing.T) {
	t.Run("glued pairs", func(t *testing.T) {
		got := parseAttendanceLines([]string{"John Smith - Manager Jane Doe - Auditor"})
		assert.Equal(t, []string{"John Smith - Manager", "Jane Doe - Auditor"}, got)
	})
	t.Run("semicolon separated", func(t *testing.T) {
		got := parseAttendanceLines([]string{"John Smith - Manager; Jane Doe - Auditor"})
		assert.Equal(t, []string{"John Smith - Manager", "Jane Doe - Auditor"}, got)
	})
	t.Run("plain dash fallback", func(t *testing.T) {
		got := parseAttendanceLines([]string{"the whole crew - various roles"})
		assert.Equal(t, []string{"the whole crew - various roles"}, got)
	})
	t.Run("no pair shape", func(t *testing.T) {
		got := parseAttendanceLines([]string{"Solo"})
		assert.Equal(t, []string{"Solo"}, got)
	})
	t.Run("empty", func(t *testing.T) {
		assert.Nil(t, parseAttendanceLines([]string{" ", ""}))
	})
}
