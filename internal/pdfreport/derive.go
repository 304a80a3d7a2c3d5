package pdfreport

import (
	"regexp"
	"sort"
	"strings"
)

var (
	colonPairRe    = regexp.MustCompile(`([A-Za-z][\w\s()/\-.]{2,80}?):\s*([^\n\r:][^\n\r]*)`)
	dashPairRe     = regexp.MustCompile(`([A-Za-z][\w\s()/\-.]{2,80}?)\s*[\x{2013}\x{2014}-]\s*([^\n\r]+)`)
	separatorRe    = regexp.MustCompile(`^[-_/.]+$`)
	longDigitsRe   = regexp.MustCompile(`^\d{6,}$`)
	trailingKeyRe  = regexp.MustCompile(`\s+[A-Z][\w()/\-.]*(?:\s+[a-z][\w()/\-.]*)*:$`)
	numberedRowRe  = regexp.MustCompile(`^\s*\d+\s*[.)]\s*$`)
	stdHeaderRe    = regexp.MustCompile(`\bstd\b`)
	plateShapeRe   = regexp.MustCompile(`^[A-Z]{1,3}\s*\d{1,3}\s*[A-Z]{0,3}$`)
	driverNameRe   = regexp.MustCompile(`^[A-Za-z\s]{2,}$`)
	whitespaceOnly = regexp.MustCompile(`\s+`)
)

// extractKeyValuePairs pulls loose key/value pairs from the combined text.
// Colon pairs win over dash pairs; dash pairs only fill gaps.
func extractKeyValuePairs(text string) map[string]string {
	pairs := make(map[string]string)
	t := strings.ReplaceAll(text, "\r", "\n")

	for _, m := range colonPairRe.FindAllStringSubmatch(t, -1) {
		k := strings.TrimSpace(m[1])
		v := strings.TrimSpace(m[2])
		if v == "" || len(v) > 200 {
			continue
		}
		if separatorRe.MatchString(v) {
			continue
		}
		// a line can run into the next label; cut the trailing key-like tail
		v = strings.TrimSpace(trailingKeyRe.ReplaceAllString(v, ""))
		if longDigitsRe.MatchString(v) {
			continue
		}
		pairs[k] = v
	}

	for _, m := range dashPairRe.FindAllStringSubmatch(t, -1) {
		k := strings.TrimSpace(m[1])
		v := strings.TrimSpace(m[2])
		if v == "" || len(v) > 200 || longDigitsRe.MatchString(v) {
			continue
		}
		if _, exists := pairs[k]; !exists {
			pairs[k] = v
		}
	}

	return pairs
}

var auditTextPatterns = []struct {
	key     string
	pattern *regexp.Regexp
}{
	{"Date of Audit", regexp.MustCompile(`(?i)Date\s+of\s+Audit[:\s]*([^\n\r]+)`)},
	{"Location of audit", regexp.MustCompile(`(?i)Location\s+of\s+audit[:\s]*([^\n\r]+)`)},
	{"Auditor name", regexp.MustCompile(`(?i)Auditor\s+name[:\s]*([^\n\r]+)`)},
	{"Audit Matrix Identifier (Name or Number)", regexp.MustCompile(`(?i)Audit\s+Matrix\s+Identifier.*?[:\s]*([^\n\r]+)`)},
}

// extractAuditInfo reads the audit information table when one exists and
// falls back to text patterns for anything missing.
func extractAuditInfo(text string, tables []Table) map[string]string {
	info := make(map[string]string)
	for _, table := range tables {
		joined := strings.ToLower(strings.Join(table.Headers, " "))
		if !strings.Contains(joined, "audit information") && !strings.Contains(joined, "auditinformation") {
			continue
		}
		for _, row := range table.Data {
			if len(row) < 2 {
				continue
			}
			key := strings.TrimSpace(row[0])
			value := strings.TrimSpace(row[1])
			if key == "" || value == "" || numberedRowRe.MatchString(key) {
				continue
			}
			info[key] = value
		}
	}
	for _, cand := range auditTextPatterns {
		if _, ok := info[cand.key]; ok {
			continue
		}
		if m := cand.pattern.FindStringSubmatch(text); m != nil {
			info[cand.key] = strings.TrimSpace(m[1])
		}
	}
	return info
}

var operatorTextPatterns = []struct {
	key     string
	pattern *regexp.Regexp
}{
	{"operator_name", regexp.MustCompile(`(?i)Operator\s*name[:\s(]*([^\n\r)]+?)(?:\s*NHVAS|\s*Registered|$)`)},
	{"trading_name", regexp.MustCompile(`(?i)Registered\s*trading\s*name[:\s/]*([^\n\r]+?)(?:\s*Australian|$)`)},
	{"company_number", regexp.MustCompile(`(?i)Australian\s*Company\s*Number[:\s]*([0-9\s]+?)(?:\s*NHVAS|$)`)},
	{"business_address", regexp.MustCompile(`(?i)Operator\s*business\s*address[:\s]*([^\n\r]+?)(?:\s*Operator\s*Postal|$)`)},
	{"postal_address", regexp.MustCompile(`(?i)Operator\s*Postal\s*address[:\s]*([^\n\r]+?)(?:\s*Email|$)`)},
	{"email", regexp.MustCompile(`(?i)Email\s*address[:\s]*([^\s\n\r]+)`)},
	{"phone", regexp.MustCompile(`(?i)Operator\s*Telephone\s*Number[:\s]*([^\s\n\r]+)`)},
	{"nhvas_accreditation", regexp.MustCompile(`(?i)NHVAS\s*Accreditation\s*No\.[:\s(]*([^\n\r)]+)`)},
}

// extractOperatorInfo canonicalises the operator identity fields. The ACN
// may be spread one digit per cell, so number rows concatenate their tail.
func extractOperatorInfo(text string, tables []Table) map[string]string {
	info := make(map[string]string)
	for _, table := range tables {
		joined := strings.ToLower(strings.Join(table.Headers, " "))
		if !strings.Contains(joined, "operator information") &&
			!strings.Contains(joined, "operatorinformation") &&
			!strings.Contains(joined, "operatorcontactdetails") {
			continue
		}
		for _, row := range table.Data {
			if len(row) < 2 {
				continue
			}
			key := strings.TrimSpace(row[0])
			value := strings.TrimSpace(row[1])
			if key == "" || value == "" {
				continue
			}
			kl := strings.ToLower(key)
			switch {
			case strings.Contains(kl, "operator name"):
				info["operator_name"] = value
			case strings.Contains(kl, "trading name"):
				info["trading_name"] = value
			case strings.Contains(kl, "company number"):
				if len(row) > 2 {
					var parts []string
					for _, cell := range row[1:] {
						if s := strings.TrimSpace(cell); s != "" {
							parts = append(parts, s)
						}
					}
					info["company_number"] = strings.Join(parts, "")
				} else {
					info["company_number"] = value
				}
			case strings.Contains(kl, "business address"):
				info["business_address"] = value
			case strings.Contains(kl, "postal address"):
				info["postal_address"] = value
			case strings.Contains(kl, "email"):
				info["email"] = value
			case strings.Contains(kl, "telephone"), strings.Contains(kl, "phone"):
				info["phone"] = value
			case strings.Contains(kl, "nhvas accreditation"):
				info["nhvas_accreditation"] = value
			case strings.Contains(kl, "nhvas manual"):
				info["nhvas_manual"] = value
			}
		}
	}

	for _, cand := range operatorTextPatterns {
		if _, ok := info[cand.key]; ok {
			continue
		}
		m := cand.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[1])
		if value == "" || len(value) >= 200 {
			continue
		}
		if cand.key == "company_number" {
			value = whitespaceOnly.ReplaceAllString(value, "")
		}
		info[cand.key] = value
	}
	return info
}

// extractVehicleRegistrations collects plate-shaped values from any table
// with a Registration Number column and keeps the sibling columns as record
// attributes.
func extractVehicleRegistrations(tables []Table) []VehicleRecord {
	var vehicles []VehicleRecord
	for _, table := range tables {
		joined := strings.ToLower(strings.Join(table.Headers, " "))
		if !strings.Contains(joined, "registration") &&
			!strings.Contains(joined, "vehicle") &&
			!strings.Contains(joined, "number") {
			continue
		}
		regCol := -1
		for i, header := range table.Headers {
			h := strings.ToLower(header)
			if strings.Contains(h, "registration") && strings.Contains(h, "number") {
				regCol = i
				break
			}
		}
		if regCol < 0 {
			continue
		}
		for _, row := range table.Data {
			if regCol >= len(row) {
				continue
			}
			regNum := strings.TrimSpace(row[regCol])
			if !plateShapeRe.MatchString(regNum) {
				continue
			}
			rec := VehicleRecord{RegistrationKey: regNum}
			for i, header := range table.Headers {
				if i < len(row) && i != regCol {
					rec[header] = strings.TrimSpace(row[i])
				}
			}
			vehicles = append(vehicles, rec)
		}
	}
	return vehicles
}

// extractDriverRecords collects names from driver/scheduler tables. A name
// needs at least two words of letters only.
func extractDriverRecords(tables []Table) []DriverRecord {
	var drivers []DriverRecord
	for _, table := range tables {
		joined := strings.ToLower(strings.Join(table.Headers, " "))
		if !strings.Contains(joined, "driver") &&
			!strings.Contains(joined, "scheduler") &&
			!strings.Contains(joined, "name") {
			continue
		}
		nameCol := -1
		for i, header := range table.Headers {
			if strings.Contains(strings.ToLower(header), "name") {
				nameCol = i
				break
			}
		}
		if nameCol < 0 {
			continue
		}
		for _, row := range table.Data {
			if nameCol >= len(row) {
				continue
			}
			name := strings.TrimSpace(row[nameCol])
			if !driverNameRe.MatchString(name) || len(strings.Fields(name)) < 2 {
				continue
			}
			rec := DriverRecord{DriverNameKey: name}
			for i, header := range table.Headers {
				if i < len(row) && i != nameCol {
					rec[header] = strings.TrimSpace(row[i])
				}
			}
			drivers = append(drivers, rec)
		}
	}
	return drivers
}

// complianceCodes is the closed set of verdict codes a standard can carry.
var complianceCodes = map[string]struct{}{
	"V": {}, "NC": {}, "SFI": {}, "NAP": {}, "NA": {},
}

var codeLegendPatterns = []struct {
	code    string
	pattern *regexp.Regexp
}{
	{"V", regexp.MustCompile(`(?i)\bV\b\s+([^\n\r]+)`)},
	{"NC", regexp.MustCompile(`(?i)\bNC\b\s+([^\n\r]+)`)},
	{"SFI", regexp.MustCompile(`(?i)\bSFI\b\s+([^\n\r]+)`)},
	{"NAP", regexp.MustCompile(`(?i)\bNAP\b\s+([^\n\r]+)`)},
	{"NA", regexp.MustCompile(`(?i)\bNA\b\s+([^\n\r]+)`)},
}

func extractComplianceSummary(text string, tables []Table) ComplianceSummary {
	compliance := ComplianceSummary{
		StandardsCompliance: make(map[string]string),
		ComplianceCodes:     make(map[string]string),
		AuditResults:        []string{},
	}
	for _, table := range tables {
		joined := strings.ToLower(strings.Join(table.Headers, " "))
		if !strings.Contains(joined, "compliance") &&
			!strings.Contains(joined, "standard") &&
			!strings.Contains(joined, "requirement") &&
			!stdHeaderRe.MatchString(joined) {
			continue
		}
		for _, row := range table.Data {
			if len(row) < 2 {
				continue
			}
			standard := strings.TrimSpace(row[0])
			code := strings.TrimSpace(row[1])
			if !strings.HasPrefix(standard, "Std") {
				continue
			}
			if _, ok := complianceCodes[code]; ok {
				compliance.StandardsCompliance[standard] = code
			}
		}
	}
	for _, legend := range codeLegendPatterns {
		if m := legend.pattern.FindStringSubmatch(text); m != nil {
			compliance.ComplianceCodes[legend.code] = strings.TrimSpace(m[1])
		}
	}
	return compliance
}

var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+\s+\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`),
	regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{4})\b`),
}

var (
	loosePlateRe = regexp.MustCompile(`\b([A-Z]{1,3}\s*\d{1,3}\s*[A-Z]{0,3})\b`)
	phoneRe      = regexp.MustCompile(`\b((?:\+61|0)[2-9]\s?\d{4}\s?\d{4})\b`)
	emailRe      = regexp.MustCompile(`\b([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})\b`)
)

var referencePatterns = []struct {
	label   string
	pattern *regexp.Regexp
}{
	{"RFS_Certifications", regexp.MustCompile(`(?i)RF(?:S)?\s*#?\s*(\d+)`)},
	{"NHVAS_Numbers", regexp.MustCompile(`(?i)NHVAS\s+Accreditation\s+No\.?\s*(\d+)`)},
	{"Registration_Numbers", regexp.MustCompile(`(?i)Registration\s+Number\s*#?\s*(\d+)`)},
}

func extractDatesAndNumbers(text string) DatesAndNumbers {
	out := DatesAndNumbers{
		Dates:               []string{},
		RegistrationNumbers: []string{},
		PhoneNumbers:        []string{},
		EmailAddresses:      []string{},
		ReferenceNumbers:    []string{},
	}
	for _, re := range datePatterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			out.Dates = append(out.Dates, m[1])
		}
	}
	out.RegistrationNumbers = uniqueSorted(allMatches(loosePlateRe, text))
	out.PhoneNumbers = uniqueSorted(allMatches(phoneRe, text))
	out.EmailAddresses = uniqueSorted(allMatches(emailRe, text))
	for _, ref := range referencePatterns {
		for _, m := range ref.pattern.FindAllStringSubmatch(text, -1) {
			out.ReferenceNumbers = append(out.ReferenceNumbers, ref.label+": "+m[1])
		}
	}
	return out
}

func allMatches(re *regexp.Regexp, text string) []string {
	var out []string
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	return out
}

// uniqueSorted dedupes with a stable order so repeated runs produce
// identical artifacts.
func uniqueSorted(xs []string) []string {
	seen := make(map[string]struct{}, len(xs))
	out := make([]string, 0, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Strings(out)
	return out
}
