package merge

import (
	"regexp"
	"strings"
)

// Internal field keys for vehicle rows.
const (
	fieldRegistration = "registration"
	fieldRowNo        = "no"
	fieldRoadworthy   = "roadworthiness"
	fieldMaintRecords = "maintenance_records"
	fieldDailyChecks  = "daily_checks"
	fieldFaultRecord  = "fault_recording"
	fieldFaultRepair  = "fault_repair"
	fieldSubContract  = "sub_contractor"
	fieldSubComp      = "sub_comp"
	fieldWeightVerif  = "weight_verification"
	fieldRFSCert      = "rfs_certification"
	fieldSuspension   = "suspension_maintenance"
	fieldTripRecords  = "trip_records"
	fieldFaultRepSusp = "fault_reporting_suspension"
)

// vehicleHeaderAliases maps canonicalised table headers onto internal field
// keys. Covers both the maintenance and the mass vehicle tables.
var vehicleHeaderAliases = map[string]string{
	"registration number":                   fieldRegistration,
	"registration":                          fieldRegistration,
	"rego":                                  fieldRegistration,
	"no":                                    fieldRowNo,
	"#":                                     fieldRowNo,
	"roadworthiness certificates":           fieldRoadworthy,
	"roadworthiness":                        fieldRoadworthy,
	"maintenance records":                   fieldMaintRecords,
	"daily checks":                          fieldDailyChecks,
	"fault recording / reporting":           fieldFaultRecord,
	"fault recording reporting":             fieldFaultRecord,
	"fault repair":                          fieldFaultRepair,
	"sub contractor":                        fieldSubContract,
	"sub contractors":                       fieldSubContract,
	"sub contractor sub comp":               fieldSubComp,
	"weight verification records":           fieldWeightVerif,
	"weight verification":                   fieldWeightVerif,
	"rfs suspension certification #":        fieldRFSCert,
	"rfs suspension certification":          fieldRFSCert,
	"suspension system maintenance":         fieldSuspension,
	"trip records":                          fieldTripRecords,
	"fault recording / reporting on suspension system": fieldFaultRepSusp,
	"fault recording reporting on suspension system":   fieldFaultRepSusp,
}

var numberedFirstCellRe = regexp.MustCompile(`^\d+\.?$`)

// mapHeaderIndices resolves each header cell to an internal field key,
// falling back to keyword rules when no alias hits.
func mapHeaderIndices(headers []string) map[int]string {
	out := make(map[int]string, len(headers))
	for i, h := range headers {
		c := canonHeader(h)
		if c == "" {
			continue
		}
		if key, ok := vehicleHeaderAliases[c]; ok {
			out[i] = key
			continue
		}
		if key := fuzzyHeaderField(c); key != "" {
			out[i] = key
		}
	}
	return out
}

func fuzzyHeaderField(c string) string {
	has := func(subs ...string) bool {
		for _, s := range subs {
			if !strings.Contains(c, s) {
				return false
			}
		}
		return true
	}
	switch {
	case has("registration"):
		return fieldRegistration
	case has("roadworth"):
		return fieldRoadworthy
	case has("fault", "suspension") && has("report"):
		return fieldFaultRepSusp
	case has("fault", "record") && !strings.Contains(c, "suspension"):
		if strings.Contains(c, "repair") {
			return fieldFaultRepair
		}
		return fieldFaultRecord
	case has("fault", "repair"):
		return fieldFaultRepair
	case has("maintenance", "record"):
		return fieldMaintRecords
	case has("daily", "check"):
		return fieldDailyChecks
	case has("weight", "verification"):
		return fieldWeightVerif
	case has("rfs"):
		return fieldRFSCert
	case has("suspension", "maintenance"):
		return fieldSuspension
	case has("trip", "record"):
		return fieldTripRecords
	case has("sub", "contractor"):
		return fieldSubContract
	}
	return ""
}

// collapseMultilineHeaders merges leading rows that are continuation lines of
// the header into a single header row. A row starts the data region once its
// first cell looks like a row number.
func collapseMultilineHeaders(rows [][]string) (headers []string, data [][]string) {
	if len(rows) == 0 {
		return nil, nil
	}
	headers = append([]string(nil), rows[0]...)
	i := 1
	for i < len(rows) && i <= 5 {
		row := rows[i]
		first := strings.TrimSpace(firstCell(row))
		if first != "" && numberedFirstCellRe.MatchString(first) {
			break
		}
		if looksLikePlate(first) {
			break
		}
		for j, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell == "" {
				continue
			}
			for j >= len(headers) {
				headers = append(headers, "")
			}
			if headers[j] == "" {
				headers[j] = cell
			} else {
				headers[j] = headers[j] + " " + cell
			}
		}
		i++
	}
	return headers, rows[i:]
}

func firstCell(row []string) string {
	if len(row) == 0 {
		return ""
	}
	return row[0]
}

// pickNearby finds a value around an anchor column: the anchor cell itself,
// then a small window of neighbouring cells, then the whole row. The tolerant
// return reports whether the anchor cell alone did not satisfy the predicate,
// which downstream marks as a low-confidence pick.
func pickNearby(row []string, anchor int, accept func(string) bool, extract func(string) string) (val string, tolerant bool) {
	try := func(i int) string {
		if i < 0 || i >= len(row) {
			return ""
		}
		cell := strings.TrimSpace(row[i])
		if cell == "" || !accept(cell) {
			return ""
		}
		if extract != nil {
			return extract(cell)
		}
		return cell
	}
	if v := try(anchor); v != "" {
		return v, false
	}
	for _, off := range []int{1, -1, 2, -2, 3} {
		if v := try(anchor + off); v != "" {
			return v, true
		}
	}
	for i := range row {
		if v := try(i); v != "" {
			return v, true
		}
	}
	return "", false
}
