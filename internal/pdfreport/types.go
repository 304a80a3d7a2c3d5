// Package pdfreport extracts the structured contents of an NHVAS audit
// report PDF into a JSON-ready artifact consumed by the merge stage.
package pdfreport

// DocumentInfo identifies the processed file.
type DocumentInfo struct {
	Filename            string `json:"filename"`
	TotalPages          int    `json:"total_pages"`
	ExtractionTimestamp string `json:"extraction_timestamp"`
}

// TextBlock is the cleaned text of one page.
type TextBlock struct {
	Page      int    `json:"page"`
	Text      string `json:"text"`
	WordCount int    `json:"word_count"`
}

// Table is one reconstructed table with its position in the document.
type Table struct {
	Page        int        `json:"page"`
	TableIndex  int        `json:"table_index"`
	Headers     []string   `json:"headers"`
	Data        [][]string `json:"data"`
	RawData     [][]string `json:"raw_data"`
	RowCount    int        `json:"row_count"`
	ColumnCount int        `json:"column_count"`
}

// VehicleRecord is one examined vehicle with its sibling column values.
type VehicleRecord map[string]string

// DriverRecord is one examined driver or scheduler.
type DriverRecord map[string]string

// ComplianceSummary carries per-standard codes and the code legend.
type ComplianceSummary struct {
	StandardsCompliance map[string]string `json:"standards_compliance"`
	ComplianceCodes     map[string]string `json:"compliance_codes"`
	AuditResults        []string          `json:"audit_results"`
}

// DatesAndNumbers collects loose references found anywhere in the text.
type DatesAndNumbers struct {
	Dates               []string `json:"dates"`
	RegistrationNumbers []string `json:"registration_numbers"`
	PhoneNumbers        []string `json:"phone_numbers"`
	EmailAddresses      []string `json:"email_addresses"`
	ReferenceNumbers    []string `json:"reference_numbers"`
}

// ExtractedData is the payload of the PDF artifact. Each derivation is
// independent; an empty section means that derivation found nothing.
type ExtractedData struct {
	AllTextContent       []TextBlock       `json:"all_text_content"`
	AllTables            []Table           `json:"all_tables"`
	KeyValuePairs        map[string]string `json:"key_value_pairs"`
	AuditInformation     map[string]string `json:"audit_information"`
	OperatorInformation  map[string]string `json:"operator_information"`
	VehicleRegistrations []VehicleRecord   `json:"vehicle_registrations"`
	DriverRecords        []DriverRecord    `json:"driver_records"`
	ComplianceSummary    ComplianceSummary `json:"compliance_summary"`
	DatesAndNumbers      DatesAndNumbers   `json:"dates_and_numbers"`
}

// Summary carries extraction counters for quick sanity checks.
type Summary struct {
	TextBlocksFound           int    `json:"text_blocks_found"`
	TablesFound               int    `json:"tables_found"`
	KeyValuePairsFound        int    `json:"key_value_pairs_found"`
	VehicleRegistrationsFound int    `json:"vehicle_registrations_found"`
	DriverRecordsFound        int    `json:"driver_records_found"`
	TotalCharacters           int    `json:"total_characters"`
	ProcessingTimestamp       string `json:"processing_timestamp"`
}

// Report is the complete PDF extraction artifact.
type Report struct {
	DocumentInfo DocumentInfo  `json:"document_info"`
	Extracted    ExtractedData `json:"extracted_data"`
	Summary      Summary       `json:"extraction_summary"`
}

// RegistrationKey is the canonical vehicle record key for the plate value.
const RegistrationKey = "registration_number"

// DriverNameKey is the canonical driver record key for the name value.
const DriverNameKey = "name"
