package prompt

import (
	"fmt"
	"strings"
)

// DefaultReportLimit is how many characters of a report reach the model.
const DefaultReportLimit = 2000

const medicalSystem = "You are a medical assistant skilled in analyzing medical reports, patient records, and clinical studies."

// Focus selects which question is asked about a report.
type Focus int

const (
	// FocusQuery answers the user's own question.
	FocusQuery Focus = iota + 1
	FocusKeyFindings
	FocusHealthRisks
)

// Focuses lists the per-report analyses in the order they run.
func Focuses() []Focus {
	return []Focus{FocusQuery, FocusKeyFindings, FocusHealthRisks}
}

// Valid reports whether f is one of the per-report analyses.
func (f Focus) Valid() bool {
	return f >= FocusQuery && f <= FocusHealthRisks
}

func (f Focus) String() string {
	switch f {
	case FocusQuery:
		return "Main Analysis"
	case FocusKeyFindings:
		return "Key Findings"
	case FocusHealthRisks:
		return "Health Risks"
	}
	return fmt.Sprintf("Focus(%d)", int(f))
}

// Slug is the stable identifier used in transcripts and events.
func (f Focus) Slug() string {
	switch f {
	case FocusQuery:
		return "main"
	case FocusKeyFindings:
		return "key-findings"
	case FocusHealthRisks:
		return "health-risks"
	}
	return ""
}

// question resolves the query sent for f; only FocusQuery uses the caller's text.
func (f Focus) question(query string) string {
	switch f {
	case FocusKeyFindings:
		return "Extract and summarize key medical findings"
	case FocusHealthRisks:
		return "Identify potential health risks"
	}
	return query
}

// Report is one extracted document handed to the cross-report builder.
type Report struct {
	Name string
	Text string
}

// Medical builds the pair analyzing a single report. Only the first limit
// characters of text are included.
func Medical(text string, focus Focus, query string, limit int) (Pair, error) {
	if !focus.Valid() {
		return Pair{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(focus))
	}
	var b strings.Builder
	b.WriteString("Analyze this medical report and answer the following query:\n")
	fmt.Fprintf(&b, "Report Text: %s...\n", Truncate(text, limit))
	fmt.Fprintf(&b, "Query: %s\n\n", focus.question(query))
	b.WriteString(provideList)
	return Pair{System: medicalSystem, User: b.String()}, nil
}

// CrossReport builds the pair comparing several reports against one query.
func CrossReport(reports []Report, query string, limit int) Pair {
	var b strings.Builder
	b.WriteString("Compare the findings across these medical reports and answer the following query:\n\n")
	for i, r := range reports {
		fmt.Fprintf(&b, "Report %d (%s): %s...\n\n", i+1, r.Name, Truncate(r.Text, limit))
	}
	if strings.TrimSpace(query) == "" {
		query = "Summarize how the findings differ or agree across reports"
	}
	fmt.Fprintf(&b, "Query: %s\n\n", query)
	b.WriteString(provideList)
	return Pair{System: medicalSystem, User: b.String()}
}

const provideList = "Provide:\n" +
	"1. Direct answer to the query\n" +
	"2. Key medical findings or observations\n" +
	"3. Potential health risks or concerns\n" +
	"4. Recommendations for further action or follow-up\n"
