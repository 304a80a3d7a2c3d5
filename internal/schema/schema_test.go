package schema

import "testing"

func TestNormalizeLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Audit Matrix Identifier (Name or Number)", "Audit Matrix Identifier"},
		{"Fault Recording/ Reporting", "Fault Recording / Reporting"},
		{"  Daily   Checks  ", "Daily Checks"},
		{"Roster – Schedule", "Roster - Schedule"},
		{"Work Diary [electronic]", "Work Diary"},
	}
	for _, tt := range tests {
		if got := NormalizeLabel(tt.in); got != tt.want {
			t.Errorf("NormalizeLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCanonicalLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"roadworthiness certificates", "Roadworthiness Certificates"},
		{"Maintenance Records (sighted)", "Maintenance Records"},
		{"Sub-contractor", "Sub contractor"},
		{"no.", "No."},
		{"Something Else", "Something Else"},
	}
	for _, tt := range tests {
		if got := CanonicalLabel(tt.in); got != tt.want {
			t.Errorf("CanonicalLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBagSimilarity(t *testing.T) {
	if got := BagSimilarity("Daily Checks", "Daily Checks"); got != 1.0 {
		t.Errorf("identical labels: got %v, want 1.0", got)
	}
	if got := BagSimilarity("Trip Records", "Weight Verification"); got != 0.0 {
		t.Errorf("disjoint labels: got %v, want 0.0", got)
	}
	got := BagSimilarity("Fault Recording and Reporting", "Fault Recording/ Reporting")
	if got < SimilarityAccept {
		t.Errorf("near-identical labels scored %v, below acceptance floor %v", got, SimilarityAccept)
	}
}

func TestMapHeader(t *testing.T) {
	sc := ByName("Vehicle Registration Numbers Maintenance")
	if sc == nil {
		t.Fatal("maintenance vehicle schema missing from registry")
	}
	tests := []struct {
		header string
		want   string
	}{
		{"Registration Number", "Registration Number"},
		{"Maintenance Records (sighted)", "Maintenance Records"},
		{"Fault Recording and Reporting", "Fault Recording/ Reporting"},
		{"Operator Comments", UnmappedPrefix + "Operator Comments"},
	}
	for _, tt := range tests {
		if got := sc.MapHeader(tt.header); got != tt.want {
			t.Errorf("MapHeader(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestIsHeadingText(t *testing.T) {
	headings := []string{
		"NHVAS Audit Summary Report",
		"MAINTENANCE MANAGEMENT",
		"Vehicle Registration Numbers of Records Examined",
		"Operator Information",
	}
	for _, h := range headings {
		if !IsHeadingText(h) {
			t.Errorf("IsHeadingText(%q) = false, want true", h)
		}
	}
	nonHeadings := []string{"Some notes about the depot", "", "Registration Number"}
	for _, h := range nonHeadings {
		if IsHeadingText(h) {
			t.Errorf("IsHeadingText(%q) = true, want false", h)
		}
	}
}

func TestDateLinePattern(t *testing.T) {
	matches := []string{"14th March 2023", " 3 May 2024 ", "1st January 2026", "Date"}
	for _, s := range matches {
		if !DateLinePattern.MatchString(s) {
			t.Errorf("DateLinePattern should match %q", s)
		}
	}
	nonMatches := []string{"14/03/2023", "the 14th March 2023", "March 2023"}
	for _, s := range nonMatches {
		if DateLinePattern.MatchString(s) {
			t.Errorf("DateLinePattern should not match %q", s)
		}
	}
}
