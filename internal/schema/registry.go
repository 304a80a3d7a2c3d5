package schema

// Registry returns the known audit report table schemas in declaration
// order. Order matters only for tie-breaks; matching is score based.
func Registry() []Schema {
	return []Schema{
		{
			Name:        "Tick as appropriate",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "NHVAS Audit Summary Report"}},
			Labels: []string{
				"Mass",
				"Entry Audit",
				"Maintenance",
				"Initial Compliance Audit",
				"Basic Fatigue",
				"Compliance Audit",
				"Advanced Fatigue",
				"Spot Check",
				"Triggered Audit",
			},
			Priority: 90,
		},
		{
			Name:        "Audit Information",
			Orientation: OrientationLeft,
			Labels: []string{
				"Date of Audit",
				"Location of audit",
				"Auditor name",
				"Audit Matrix Identifier (Name or Number)",
				"Auditor Exemplar Global Reg No.",
				"expiry Date:",
				"NHVR Auditor Registration Number",
				"expiry Date:",
			},
			Priority: 80,
		},
		{
			Name:        "Operator Information",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "Operator Information"}},
			Labels: []string{
				"Operator name (Legal entity)",
				"NHVAS Accreditation No. (If applicable)",
				"Registered trading name/s",
				"Australian Company Number",
				"NHVAS Manual (Policies and Procedures) developed by",
			},
			Priority: 85,
		},
		{
			Name:        "Operator contact details",
			Orientation: OrientationLeft,
			Labels: []string{
				"Operator business address",
				"Operator Postal address",
				"Email address",
				"Operator Telephone Number",
			},
			Priority:        75,
			ContextKeywords: []string{"contact", "address", "email", "telephone"},
		},
		{
			Name:        "Attendance List (Names and Position Titles)",
			Orientation: OrientationRow1,
			Headings:    []Heading{{Level: 1, Text: "NHVAS Audit Summary Report"}},
			Labels:      []string{"Attendance List (Names and Position Titles)"},
			Priority:    90,
		},
		{
			Name:        "Nature of the Operators Business (Summary)",
			Orientation: OrientationSingle,
			Labels:      []string{"Nature of the Operators Business (Summary):"},
			SplitLabels: []string{"Accreditation Number:", "Expiry Date:"},
			Priority:    85,
		},
		{
			Name:        "Accreditation Vehicle Summary",
			Orientation: OrientationLeft,
			Labels:      []string{"Number of powered vehicles", "Number of trailing vehicles"},
			Priority:    80,
		},
		{
			Name:        "Accreditation Driver Summary",
			Orientation: OrientationLeft,
			Labels:      []string{"Number of drivers in BFM", "Number of drivers in AFM"},
			Priority:    80,
		},
		{
			Name:              "Compliance Codes",
			Orientation:       OrientationLeft,
			Labels:            []string{"V", "NC", "TNC", "SFI", "NAP", "NA"},
			Priority:          70,
			ContextExclusions: []string{"MASS MANAGEMENT", "MAINTENANCE MANAGEMENT", "FATIGUE MANAGEMENT"},
		},
		{
			Name:        "Corrective Action Request Identification",
			Orientation: OrientationRow1,
			Labels:      []string{"Title", "Abbreviation", "Description"},
			Priority:    80,
		},

		// plain compliance tables, out-scored by their Summary variants
		{
			Name:        "Maintenance Management",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "NHVAS AUDIT SUMMARY REPORT"}},
			Labels: []string{
				"Std 1. Daily Check",
				"Std 2. Fault Recording and Reporting",
				"Std 3. Fault Repair",
				"Std 4. Maintenance Schedules and Methods",
				"Std 5. Records and Documentation",
				"Std 6. Responsibilities",
				"Std 7. Internal Review",
				"Std 8. Training and Education",
			},
			Priority:          60,
			ContextKeywords:   []string{"maintenance"},
			ContextExclusions: []string{"summary", "details", "audit findings"},
		},
		{
			Name:        "Mass Management",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "NHVAS AUDIT SUMMARY REPORT"}},
			Labels: []string{
				"Std 1. Responsibilities",
				"Std 2. Vehicle Control",
				"Std 3. Vehicle Use",
				"Std 4. Records and Documentation",
				"Std 5. Verification",
				"Std 6. Internal Review",
				"Std 7. Training and Education",
				"Std 8. Maintenance of Suspension",
			},
			Priority:          60,
			ContextKeywords:   []string{"mass"},
			ContextExclusions: []string{"summary", "details", "audit findings"},
		},
		{
			Name:        "Fatigue Management",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "NHVAS AUDIT SUMMARY REPORT"}},
			Labels: []string{
				"Std 1. Scheduling and Rostering",
				"Std 2. Health and wellbeing for performed duty",
				"Std 3. Training and Education",
				"Std 4. Responsibilities and management practices",
				"Std 5. Internal Review",
				"Std 6. Records and Documentation",
				"Std 7. Workplace conditions",
			},
			Priority:          60,
			ContextKeywords:   []string{"fatigue"},
			ContextExclusions: []string{"summary", "details", "audit findings"},
		},

		// DETAILS tables carry the audit findings and win over the plain forms
		{
			Name:        "Maintenance Management Summary",
			Orientation: OrientationLeft,
			Headings: []Heading{
				{Level: 1, Text: "Audit Observations and Comments"},
				{Level: 2, Text: "Maintenance Management Summary of Audit findings"},
			},
			Columns: []string{"MAINTENANCE MANAGEMENT", "DETAILS"},
			Labels: []string{
				"Std 1. Daily Check",
				"Std 2. Fault Recording and Reporting",
				"Std 3. Fault Repair",
				"Std 4. Maintenance Schedules and Methods",
				"Std 5. Records and Documentation",
				"Std 6. Responsibilities",
				"Std 7. Internal Review",
				"Std 8. Training and Education",
			},
			Priority:        85,
			ContextKeywords: []string{"maintenance", "summary", "details", "audit findings"},
		},
		{
			Name:        "Mass Management Summary",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "Mass Management Summary of Audit findings"}},
			Columns:     []string{"MASS MANAGEMENT", "DETAILS"},
			Labels: []string{
				"Std 1. Responsibilities",
				"Std 2. Vehicle Control",
				"Std 3. Vehicle Use",
				"Std 4. Records and Documentation",
				"Std 5. Verification",
				"Std 6. Internal Review",
				"Std 7. Training and Education",
				"Std 8. Maintenance of Suspension",
			},
			Priority:        85,
			ContextKeywords: []string{"mass", "summary", "details", "audit findings"},
		},
		{
			Name:        "Fatigue Management Summary",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "Fatigue Management Summary of Audit findings"}},
			Columns:     []string{"FATIGUE MANAGEMENT", "DETAILS"},
			Labels: []string{
				"Std 1. Scheduling and Rostering",
				"Std 2. Health and wellbeing for performed duty",
				"Std 3. Training and Education",
				"Std 4. Responsibilities and management practices",
				"Std 5. Internal Review",
				"Std 6. Records and Documentation",
				"Std 7. Workplace conditions",
			},
			Priority:        85,
			ContextKeywords: []string{"fatigue", "summary", "details", "audit findings"},
		},

		{
			Name:        "Vehicle Registration Numbers Mass",
			Orientation: OrientationRow1,
			Headings: []Heading{
				{Level: 1, Text: "Vehicle Registration Numbers of Records Examined"},
				{Level: 2, Text: "MASS MANAGEMENT"},
			},
			Labels: []string{
				"No.", "Registration Number", "Sub contractor",
				"Sub-contracted Vehicles Statement of Compliance",
				"Weight Verification Records",
				"RFS Suspension Certification #",
				"Suspension System Maintenance", "Trip Records",
				"Fault Recording/ Reporting on Suspension System",
			},
			Priority:          90,
			ContextKeywords:   []string{"mass", "vehicle registration", "rfs suspension", "weight verification"},
			ContextExclusions: []string{"maintenance", "roadworthiness", "daily checks"},
		},
		{
			Name:        "Vehicle Registration Numbers Maintenance",
			Orientation: OrientationRow1,
			Headings: []Heading{
				{Level: 1, Text: "Vehicle Registration Numbers of Records Examined"},
				{Level: 2, Text: "Maintenance Management"},
			},
			Labels: []string{
				"No.", "Registration Number", "Roadworthiness Certificates",
				"Maintenance Records", "Daily Checks",
				"Fault Recording/ Reporting", "Fault Repair",
			},
			Priority:          85,
			ContextKeywords:   []string{"maintenance", "vehicle registration", "roadworthiness", "daily checks"},
			ContextExclusions: []string{"mass", "rfs suspension", "weight verification"},
		},
		{
			Name:        "Driver / Scheduler Records Examined",
			Orientation: OrientationRow1,
			Headings: []Heading{
				{Level: 1, Text: "Driver / Scheduler Records Examined"},
				{Level: 2, Text: "FATIGUE MANAGEMENT"},
			},
			Labels: []string{
				"No.",
				"Driver / Scheduler Name",
				"Driver TLIF Course # Completed",
				"Scheduler TLIF Course # Completed",
				"Medical Certificates (Current Yes/No) Date of expiry",
				"Roster / Schedule / Safe Driving Plan (Date Range)",
				"Fit for Duty Statement Completed (Yes/No)",
				"Work Diary Pages (Page Numbers) Electronic Work Diary Records (Date Range)",
			},
			Priority:        80,
			ContextKeywords: []string{"driver", "scheduler", "fatigue"},
		},

		{
			Name:        "Operator's Name (legal entity)",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "CORRECTIVE ACTION REQUEST (CAR)"}},
			Labels:      []string{"Operator's Name (legal entity)"},
			Priority:    85,
		},
		{
			Name:        "Non-conformance and CAR details",
			Orientation: OrientationLeft,
			Labels: []string{
				"Non-conformance agreed close out date",
				"Module and Standard",
				"Corrective Action Request (CAR) Number",
				"Observed Non-conformance:",
				"Corrective Action taken or to be taken by operator:",
				"Operator or Representative Signature",
				"Position",
				"Date",
				"Comments:",
				"Auditor signature",
				"Date",
			},
			Priority:        75,
			ContextKeywords: []string{"non-conformance", "corrective action"},
		},
		{
			Name:              "NHVAS Approved Auditor Declaration",
			Orientation:       OrientationRow1,
			Headings:          []Heading{{Level: 1, Text: "NHVAS APPROVED AUDITOR DECLARATION"}},
			Labels:            []string{"Print Name", "NHVR or Exemplar Global Auditor Registration Number"},
			Priority:          90,
			ContextKeywords:   []string{"auditor declaration", "NHVR"},
			ContextExclusions: []string{"manager", "operator declaration"},
		},
		{
			Name:        "Audit Declaration dates",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "Audit Declaration dates"}},
			Labels: []string{
				"Audit was conducted on",
				"Unconditional CARs closed out on:",
				"Conditional CARs to be closed out by:",
			},
			Priority: 80,
		},
		{
			Name:        "Print accreditation name",
			Orientation: OrientationLeft,
			Headings:    []Heading{{Level: 1, Text: "(print accreditation name)"}},
			Labels:      []string{"(print accreditation name)"},
			Priority:    85,
		},
		{
			Name:              "Operator Declaration",
			Orientation:       OrientationRow1,
			Headings:          []Heading{{Level: 1, Text: "Operator Declaration"}},
			Labels:            []string{"Print Name", "Position Title"},
			Priority:          90,
			ContextKeywords:   []string{"operator declaration", "manager"},
			ContextExclusions: []string{"auditor", "nhvas approved"},
		},
	}
}

// ByName returns the named schema from the registry, or nil.
func ByName(name string) *Schema {
	for _, s := range Registry() {
		if s.Name == name {
			c := s
			return &c
		}
	}
	return nil
}
