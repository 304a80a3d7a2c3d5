// Package merge reconciles the values extracted from an audit report PDF
// with the placeholder structure extracted from the DOCX template, producing
// the merged artifact the writer fills in.
package merge

import (
	"regexp"
	"strings"
)

var (
	wsRe            = regexp.MustCompile(`\s+`)
	slashRe         = regexp.MustCompile(`/+`)
	nonHeaderRe     = regexp.MustCompile(`[^a-z0-9#/ ]+`)
	nonCanonRe      = regexp.MustCompile(`[^a-z0-9#]+`)
	lowerUpperRe    = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigitRe   = regexp.MustCompile(`([A-Za-z])(\d)`)
	digitLetterRe   = regexp.MustCompile(`(\d)([A-Za-z])`)
	ordinalRe       = regexp.MustCompile(`\b(\d+)\s*(st|nd|rd|th)\b`)
	dateTokenRe     = regexp.MustCompile(`\b\d{1,4}(?:[./-]\d{1,2}){1,2}\b`)
	plateCharsRe    = regexp.MustCompile(`^[A-Z0-9]+$`)
	pureDigitsRe    = regexp.MustCompile(`^\d{3,}$`)
	hasLetterRe     = regexp.MustCompile(`[A-Za-z]`)
	companyShapeRe  = regexp.MustCompile(`[A-Za-z]{2,}\s+[A-Za-z&]{2,}`)
	parentheticalRe = regexp.MustCompile(`\([^)]*\)`)
	stdLabelRe      = regexp.MustCompile(`(?i)^(Std\s*\d+\.\s*[^:]+?)\s*$`)
	stdNumberRe     = regexp.MustCompile(`Std\s+(\d+)`)
	rfNumberRe      = regexp.MustCompile(`(?i)\bRF\s*\d+\b`)
	attendancePairRe = regexp.MustCompile(
		`([A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3})\s*-\s*(.*?)(?:\s+[A-Z][a-z]+(?:\s+[A-Z][a-z]+){0,3}\s*-\s*|$)`)
)

// canonHeader lowercases a header and strips everything but word characters,
// '#' and '/', normalising dashes so alias lookups hit.
func canonHeader(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(wsRe.ReplaceAllString(strings.TrimSpace(s), " "))
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	s = slashRe.ReplaceAllString(s, " / ")
	s = nonHeaderRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// canon is the stricter form used for label lookups.
func canon(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToLower(wsRe.ReplaceAllString(strings.TrimSpace(s), " "))
	s = nonCanonRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// smartSpace repairs the glue points PDF text extraction leaves behind:
// caseChanges, letter-digit joins, and glued ordinals.
func smartSpace(s string) string {
	if s == "" {
		return s
	}
	s = lowerUpperRe.ReplaceAllString(s, "$1 $2")
	s = letterDigitRe.ReplaceAllString(s, "$1 $2")
	s = digitLetterRe.ReplaceAllString(s, "$1 $2")
	s = strings.ReplaceAll(s, "POBox", "PO Box")
	s = ordinalRe.ReplaceAllString(s, "$1$2")
	return strings.TrimSpace(wsRe.ReplaceAllString(s, " "))
}

// looksLikePlate validates a vehicle registration: 5 to 8 alphanumerics with
// at least two letters and two digits, and not a known non-plate word.
func looksLikePlate(s string) bool {
	if s == "" {
		return false
	}
	t := strings.ToUpper(s)
	t = strings.NewReplacer(" ", "", "-", "", "\t", "").Replace(t)
	if len(t) < 5 || len(t) > 8 {
		return false
	}
	if !plateCharsRe.MatchString(t) {
		return false
	}
	letters, digits := 0, 0
	for _, c := range t {
		switch {
		case c >= 'A' && c <= 'Z':
			letters++
		case c >= '0' && c <= '9':
			digits++
		}
	}
	if letters < 2 || digits < 2 {
		return false
	}
	switch t {
	case "ENTRY", "YES", "NO", "N/A", "NA":
		return false
	}
	return true
}

func isDateish(s string) bool {
	if s == "" {
		return false
	}
	return dateTokenRe.MatchString(smartSpace(s))
}

func extractDateTokens(s string) []string {
	if s == "" {
		return nil
	}
	return dateTokenRe.FindAllString(smartSpace(s), -1)
}

func cleanList(vals []string) []string {
	var out []string
	for _, v := range vals {
		if v = smartSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// looksLikeManualValue rejects bare numbers; manual references carry words.
func looksLikeManualValue(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || pureDigitsRe.MatchString(s) {
		return false
	}
	return hasLetterRe.MatchString(s)
}

// looksLikeCompany wants at least two lettered words so labels are not
// mistaken for values.
func looksLikeCompany(s string) bool {
	if s == "" {
		return false
	}
	return companyShapeRe.MatchString(smartSpace(s))
}

// normalizeStdLabel strips parentheticals from a "Std N. ..." key so the PDF
// and DOCX variants of the same standard compare equal.
func normalizeStdLabel(label string) string {
	if label == "" {
		return ""
	}
	base := parentheticalRe.ReplaceAllString(label, "")
	base = strings.TrimSpace(wsRe.ReplaceAllString(base, " "))
	if m := stdLabelRe.FindStringSubmatch(base); m != nil {
		return strings.TrimSpace(m[1])
	}
	return base
}

func stdNumber(label string) string {
	if m := stdNumberRe.FindStringSubmatch(label); m != nil {
		return m[1]
	}
	return ""
}

// firstAttendanceNameTitle pulls the first "Name - Title" pair from the
// attendance list.
func firstAttendanceNameTitle(attendance []string) (name, title string, ok bool) {
	for _, item := range attendance {
		s := smartSpace(item)
		m := attendancePairRe.FindStringSubmatch(s)
		if m != nil {
			return smartSpace(m[1]), smartSpace(m[2]), true
		}
	}
	return "", "", false
}

func isRealDate(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.EqualFold(s, "date") {
		return false
	}
	return strings.ContainsAny(s, "0123456789")
}

func titleYesNo(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes":
		return "Yes"
	case "no":
		return "No"
	}
	return ""
}
