package redtext

import (
	"regexp"
	"strings"

	"github.com/transportops/auditfill/internal/schema"
)

// matchScore computes the evidence score for assigning sc to a table with
// the given context. reasons carries a human-readable trail for debugging.
func matchScore(sc *schema.Schema, ctx TableContext) (score float64, reasons []string) {
	blob := ctx.headerBlob()

	// vehicle registration tables score on their distinctive column names
	if strings.Contains(sc.Name, "Vehicle Registration") {
		keywords := []string{"registration", "vehicle", "sub-contractor", "weight verification", "rfs suspension"}
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(blob, kw) {
				hits++
			}
		}
		switch {
		case hits >= 2:
			score += 150
			reasons = append(reasons, "vehicle registration keywords (strong)")
		case hits == 1:
			score += 75
			reasons = append(reasons, "vehicle registration keywords (weak)")
		}
	}

	// DETAILS column separates findings tables from their blank twins
	hasDetails := strings.Contains(ctx.headersJoined(), "details")
	if strings.Contains(sc.Name, "Summary") && hasDetails {
		score += 100
		reasons = append(reasons, "summary schema with DETAILS column")
	}
	if !strings.Contains(sc.Name, "Summary") && hasDetails {
		score -= 75
		reasons = append(reasons, "DETAILS column on non-summary schema")
	}

	for _, excl := range sc.ContextExclusions {
		if strings.Contains(blob, strings.ToLower(excl)) {
			score -= 50
			reasons = append(reasons, "exclusion hit: "+excl)
		}
	}

	kwHits := 0
	for _, kw := range sc.ContextKeywords {
		if strings.Contains(blob, strings.ToLower(kw)) {
			kwHits++
		}
	}
	if kwHits > 0 {
		score += float64(kwHits) * 15
		reasons = append(reasons, "context keywords")
	}

	if ctx.FirstCell != "" && strings.EqualFold(ctx.FirstCell, sc.Name) {
		score += 100
		reasons = append(reasons, "first cell names the schema")
	}

	for _, h := range sc.Headings {
		if fuzzyMatchHeading(ctx.Heading, h.Text) {
			score += 50
			reasons = append(reasons, "heading match")
			break
		}
	}

	if len(sc.Columns) > 0 {
		matches := 0
		for _, col := range sc.Columns {
			colNorm := strings.ToUpper(normalizeText(col))
			for _, h := range ctx.Headers {
				if strings.Contains(strings.ToUpper(h), colNorm) {
					matches++
					break
				}
			}
		}
		if matches == len(sc.Columns) {
			score += 60
			reasons = append(reasons, "all column headers match")
		} else if matches > 0 {
			score += float64(matches) * 20
			reasons = append(reasons, "partial column headers match")
		}
	}

	switch sc.Orientation {
	case schema.OrientationLeft:
		matches := 0
		for _, lbl := range sc.Labels {
			lblUp := strings.ToUpper(normalizeText(lbl))
			for _, c := range ctx.Col0 {
				cUp := strings.ToUpper(c)
				if strings.Contains(cUp, lblUp) || strings.Contains(lblUp, cUp) {
					matches++
					break
				}
			}
		}
		if matches > 0 {
			score += float64(matches) / float64(len(sc.Labels)) * 30
			reasons = append(reasons, "left labels match")
		}
	case schema.OrientationRow1:
		headerBlobUp := strings.ToUpper(strings.Join(ctx.Headers, " "))
		matches := 0.0
		for _, lbl := range sc.Labels {
			lblUp := strings.ToUpper(normalizeText(lbl))
			hit := false
			for _, h := range ctx.Headers {
				hUp := strings.ToUpper(h)
				if strings.Contains(hUp, lblUp) || strings.Contains(lblUp, hUp) {
					hit = true
					break
				}
			}
			if hit {
				matches++
				continue
			}
			for _, word := range strings.Fields(lbl) {
				if len(word) > 3 && strings.Contains(headerBlobUp, strings.ToUpper(word)) {
					matches += 0.5
					break
				}
			}
		}
		if matches > 0 {
			score += matches / float64(len(sc.Labels)) * 40
			reasons = append(reasons, "row1 headers match")
		}
	case schema.OrientationSingle:
		matches := 0
		for _, lbl := range sc.Labels {
			lblUp := strings.ToUpper(normalizeText(lbl))
			if anyCellContains(ctx.AllCells, lblUp) {
				matches++
			}
		}
		if matches > 0 {
			score += float64(matches) / float64(len(sc.Labels)) * 40
			reasons = append(reasons, "block labels match")
		}
	}

	// the two sign-off tables share a Print Name column, so tip the balance
	// by who signs them
	if strings.EqualFold(ctx.FirstCell, "PRINT NAME") {
		switch sc.Name {
		case "Operator Declaration":
			if strings.Contains(strings.ToUpper(ctx.Heading), "OPERATOR DECLARATION") {
				score += 80
				reasons = append(reasons, "operator declaration heading")
			} else if anyCellContains(ctx.AllCells, "MANAGER") {
				score += 60
				reasons = append(reasons, "manager in cells")
			}
		case "NHVAS Approved Auditor Declaration":
			if anyCellContains(ctx.AllCells, "MANAGER") {
				score -= 50
				reasons = append(reasons, "manager in cells, not an auditor table")
			}
		}
	}

	return score, reasons
}

func anyCellContains(cells []string, needle string) bool {
	for _, c := range cells {
		if strings.Contains(strings.ToUpper(c), needle) {
			return true
		}
	}
	return false
}

func fuzzyMatchHeading(heading, pattern string) bool {
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(normalizeText(pattern)))
	if err != nil {
		return false
	}
	return re.MatchString(normalizeText(strings.ToUpper(heading)))
}

// matchTableSchema picks the best schema for a table, or nil when nothing
// reaches the evidence threshold.
func matchTableSchema(ctx TableContext, registry []schema.Schema) *schema.Schema {
	// declaration tables are disambiguated up front
	if strings.Contains(ctx.headersJoined(), "print name") && strings.Contains(ctx.headersJoined(), "auditor") {
		return schema.ByName("NHVAS Approved Auditor Declaration")
	}
	if looksLikeAuditorDeclaration(ctx) {
		return schema.ByName("NHVAS Approved Auditor Declaration")
	}
	if looksLikeOperatorDeclaration(ctx) {
		return schema.ByName("Operator Declaration")
	}

	var best *schema.Schema
	bestScore := 0.0
	for i := range registry {
		s, _ := matchScore(&registry[i], ctx)
		if s > bestScore {
			bestScore = s
			best = &registry[i]
		}
	}
	if bestScore >= schema.MatchThreshold {
		return best
	}
	return nil
}
