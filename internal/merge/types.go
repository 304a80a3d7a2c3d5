package merge

// Facts is the intermediate fact base distilled from a PDF report before it
// is projected onto the DOCX placeholder structure.
type Facts struct {
	AuditInfo              map[string]string
	OperatorInfo           map[string]string
	Attendance             []string
	BusinessSummary        string
	AuditConductedDate     string
	PrintAccreditationName string
	VehicleSummary         map[string]string
	Drivers                []DriverDetail
	Ledger                 *VehicleLedger
	MaintRows              []MaintRow
	// SummaryMaps holds, per management summary section, the normalised
	// "Std N. ..." label to its DETAILS text.
	SummaryMaps map[string]map[string]string
}

// DriverDetail is one row of the driver / scheduler records table.
type DriverDetail struct {
	Name        string
	Roster      string
	Fitness     string
	WorkDiary   string
}

// MaintRow is an authoritative maintenance-table row kept verbatim so the
// maintenance vehicle section can be rebuilt even when the per-vehicle ledger
// is sparse.
type MaintRow struct {
	Registration string
	Roadworthy   string
	Records      string
	DailyChecks  string
	FaultRecord  string
	FaultRepair  string
}

// Vehicle accumulates fields for one registration across every table and
// text fragment that mentions it. First write per field wins.
type Vehicle struct {
	Registration      string
	Fields            map[string]string
	SeenInMaintenance bool
	SeenInMass        bool
}

// VehicleLedger is an insertion-ordered accumulator keyed by registration.
type VehicleLedger struct {
	order []string
	byReg map[string]*Vehicle
}

func NewVehicleLedger() *VehicleLedger {
	return &VehicleLedger{byReg: make(map[string]*Vehicle)}
}

// Get returns the entry for reg, creating it on first sight.
func (l *VehicleLedger) Get(reg string) *Vehicle {
	if v, ok := l.byReg[reg]; ok {
		return v
	}
	v := &Vehicle{Registration: reg, Fields: make(map[string]string)}
	l.byReg[reg] = v
	l.order = append(l.order, reg)
	return v
}

// Set records a field value unless one is already present.
func (v *Vehicle) Set(field, val string) {
	val = smartSpace(val)
	if val == "" {
		return
	}
	if _, ok := v.Fields[field]; !ok {
		v.Fields[field] = val
	}
}

func (v *Vehicle) Field(field string) string { return v.Fields[field] }

// All returns vehicles in first-seen order.
func (l *VehicleLedger) All() []*Vehicle {
	out := make([]*Vehicle, 0, len(l.order))
	for _, reg := range l.order {
		out = append(out, l.byReg[reg])
	}
	return out
}

func (l *VehicleLedger) Len() int { return len(l.order) }

// Flag records a value that was accepted through a tolerant fallback and
// should be eyeballed in the output.
type Flag struct {
	Section string `json:"section"`
	Label   string `json:"label"`
	Value   string `json:"value"`
	Reason  string `json:"reason"`
}

// Report summarises a merge run.
type Report struct {
	VehicleCount   int    `json:"vehicle_count"`
	DriverCount    int    `json:"driver_count"`
	SectionsFilled int    `json:"sections_filled"`
	Flags          []Flag `json:"low_confidence,omitempty"`
}

func (r *Report) flag(section, label, value, reason string) {
	r.Flags = append(r.Flags, Flag{Section: section, Label: label, Value: value, Reason: reason})
}
