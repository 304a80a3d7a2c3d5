package schema

import "regexp"

// MainHeadingPatterns match the report-level headings that reset table
// context during a document walk.
var MainHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`NHVAS\s+Audit\s+Summary\s+Report`),
	regexp.MustCompile(`NATIONAL\s+HEAVY\s+VEHICLE\s+ACCREDITATION\s+AUDIT\s+SUMMARY\s+REPORT`),
	regexp.MustCompile(`NHVAS\s+AUDIT\s+SUMMARY\s+REPORT`),
}

// SubHeadingPatterns match section headings that scope the tables below them.
var SubHeadingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`AUDIT\s+OBSERVATIONS\s+AND\s+COMMENTS`),
	regexp.MustCompile(`MAINTENANCE\s+MANAGEMENT`),
	regexp.MustCompile(`MASS\s+MANAGEMENT`),
	regexp.MustCompile(`FATIGUE\s+MANAGEMENT`),
	regexp.MustCompile(`Fatigue\s+Management\s+Summary\s+of\s+Audit\s+findings`),
	regexp.MustCompile(`MAINTENANCE\s+MANAGEMENT\s+SUMMARY\s+OF\s+AUDIT\s+FINDINGS`),
	regexp.MustCompile(`MASS\s+MANAGEMENT\s+SUMMARY\s+OF\s+AUDIT\s+FINDINGS`),
	regexp.MustCompile(`Vehicle\s+Registration\s+Numbers\s+of\s+Records\s+Examined`),
	regexp.MustCompile(`CORRECTIVE\s+ACTION\s+REQUEST\s+\(CAR\)`),
	regexp.MustCompile(`NHVAS\s+APPROVED\s+AUDITOR\s+DECLARATION`),
	regexp.MustCompile(`Operator\s+Declaration`),
	regexp.MustCompile(`Operator\s+Information`),
}

// AcknowledgementText is the declaration sentence that precedes the signed
// date in both the auditor and operator sign-off blocks.
const AcknowledgementText = "I hereby acknowledge and agree with the findings detailed in this NHVAS Audit Summary Report. " +
	"I have read and understand the conditions applicable to the Scheme, including the NHVAS Business Rules and Standards."

// Narrative paragraph anchors.
var (
	FindingsSummaryPattern = regexp.MustCompile(`Provide a summary of findings based on the evidence gathered during the audit\.`)
	DeclarationTextPattern = regexp.MustCompile(`I hereby acknowledge and agree with the findings.*`)
	IntroductoryPattern    = regexp.MustCompile(`This audit assesses the.*`)
	DateLinePattern        = regexp.MustCompile(`^\s*\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]+\s+\d{4}\s*$|^Date$`)
)

// IsHeadingText reports whether a paragraph reads as a main or sub heading.
func IsHeadingText(text string) bool {
	for _, re := range MainHeadingPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	for _, re := range SubHeadingPatterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
