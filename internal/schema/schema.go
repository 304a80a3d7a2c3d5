// Package schema defines the NHVAS audit table schemas and the label
// normalisation rules shared by the extraction, merge, and writing stages.
package schema

import (
	"regexp"
	"strings"
)

// Orientation describes how a table carries its labels.
type Orientation string

const (
	// OrientationLeft means labels run down column 0 with values to the right.
	OrientationLeft Orientation = "left"
	// OrientationRow1 means labels run across the first row with values below.
	OrientationRow1 Orientation = "row1"
	// OrientationSingle means the whole table is one labelled block.
	OrientationSingle Orientation = "single"
)

// Heading is an expected heading near a table, by level.
type Heading struct {
	Level int
	Text  string
}

// Schema describes one known table shape in the audit report.
type Schema struct {
	Name              string
	Orientation       Orientation
	Headings          []Heading
	Labels            []string
	SplitLabels       []string
	Columns           []string
	Priority          int
	ContextKeywords   []string
	ContextExclusions []string
}

// MatchThreshold is the minimum score for a table to be assigned a schema.
const MatchThreshold = 20.0

var (
	parenRe   = regexp.MustCompile(`\([^)]*\)`)
	bracketRe = regexp.MustCompile(`\[[^]]*\]`)
	spaceRe   = regexp.MustCompile(`\s+`)
	wordSplit = regexp.MustCompile(`[^A-Za-z0-9#]+`)
)

// NormalizeLabel strips parentheticals and bracketed text, unifies dashes and
// slashes, and collapses whitespace. Used before any label comparison.
func NormalizeLabel(s string) string {
	s = spaceRe.ReplaceAllString(strings.TrimSpace(s), " ")
	s = parenRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "–", "-")
	s = strings.ReplaceAll(s, "—", "-")
	s = strings.ReplaceAll(s, "/", " / ")
	s = strings.ReplaceAll(s, "  ", " ")
	return strings.TrimSpace(s)
}

// labelAliases maps normalised lowercase header text to its canonical label.
var labelAliases = map[string]string{
	// vehicle registration, maintenance module
	"roadworthiness certificates": "Roadworthiness Certificates",
	"maintenance records":         "Maintenance Records",
	"daily checks":                "Daily Checks",
	"fault recording / reporting": "Fault Recording/ Reporting",
	"fault repair":                "Fault Repair",

	// vehicle registration, mass module
	"sub contracted vehicles statement of compliance":  "Sub-contracted Vehicles Statement of Compliance",
	"weight verification records":                      "Weight Verification Records",
	"rfs suspension certification #":                   "RFS Suspension Certification #",
	"suspension system maintenance":                    "Suspension System Maintenance",
	"trip records":                                     "Trip Records",
	"fault recording/ reporting on suspension system":  "Fault Recording/ Reporting on Suspension System",
	"fault recording / reporting on suspension system": "Fault Recording/ Reporting on Suspension System",

	// shared
	"registration number": "Registration Number",
	"no.":                 "No.",
	"sub contractor":      "Sub contractor",
	"sub-contractor":      "Sub contractor",
}

// CanonicalLabel resolves header text to its canonical schema label via the
// alias table, returning the input unchanged when no alias exists.
func CanonicalLabel(s string) string {
	key := strings.ToLower(NormalizeLabel(s))
	key = spaceRe.ReplaceAllString(key, " ")
	if canon, ok := labelAliases[key]; ok {
		return canon
	}
	return s
}

// tokenBag splits a label into comparison tokens. Short words are dropped
// except "#" and "no", which carry meaning in column headers.
func tokenBag(s string) map[string]struct{} {
	bag := make(map[string]struct{})
	for _, w := range wordSplit.Split(strings.ToLower(NormalizeLabel(s)), -1) {
		if len(w) > 2 || w == "#" || w == "no" {
			bag[w] = struct{}{}
		}
	}
	delete(bag, "")
	return bag
}

// BagSimilarity is a loose bag-of-words similarity between a header and a
// label: intersection size over the larger bag.
func BagSimilarity(a, b string) float64 {
	aw := tokenBag(a)
	bw := tokenBag(b)
	if len(aw) == 0 || len(bw) == 0 {
		return 0.0
	}
	inter := 0
	for w := range aw {
		if _, ok := bw[w]; ok {
			inter++
		}
	}
	maxLen := len(aw)
	if len(bw) > maxLen {
		maxLen = len(bw)
	}
	return float64(inter) / float64(maxLen)
}

// SimilarityAccept is the minimum bag similarity for header-to-label mapping.
const SimilarityAccept = 0.40

// UnmappedPrefix marks pseudo-labels for headers no schema label claimed.
const UnmappedPrefix = "UNMAPPED::"

// MapHeader resolves raw header text against a schema's labels: alias first,
// then best bag similarity at or above the acceptance floor. Headers that
// resolve to nothing come back as an UNMAPPED pseudo-label so their column
// values are preserved.
func (s *Schema) MapHeader(header string) string {
	canon := CanonicalLabel(header)
	for _, l := range s.Labels {
		if l == canon {
			return l
		}
	}
	best := ""
	bestScore := 0.0
	for _, l := range s.Labels {
		if sim := BagSimilarity(header, l); sim > bestScore {
			best, bestScore = l, sim
		}
	}
	if bestScore >= SimilarityAccept {
		return best
	}
	return UnmappedPrefix + NormalizeLabel(header)
}
