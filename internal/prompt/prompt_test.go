package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		limit int
		want  string
	}{
		{"shorter than limit", "abc", 5, "abc"},
		{"exact limit", "abcde", 5, "abcde"},
		{"longer than limit", "abcdefgh", 5, "abcde"},
		{"multibyte runes counted as characters", "혈압혈당검사", 2, "혈압"},
		{"zero limit keeps everything", "abc", 0, "abc"},
		{"empty input", "", 3, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.limit))
		})
	}
}

func TestMedicalTruncatesReport(t *testing.T) {
	text := strings.Repeat("a", 2000) + "OVERFLOW"

	pair, err := Medical(text, FocusQuery, "Any risks?", DefaultReportLimit)
	require.NoError(t, err)

	assert.Contains(t, pair.User, strings.Repeat("a", 2000)+"...")
	assert.NotContains(t, pair.User, "OVERFLOW")
	assert.NotContains(t, pair.User, strings.Repeat("a", 2001))
	assert.Contains(t, pair.User, "Query: Any risks?")
	assert.Equal(t, medicalSystem, pair.System)
}

func TestMedicalFocusQuestions(t *testing.T) {
	tests := []struct {
		focus Focus
		want  string
	}{
		{FocusQuery, "Query: What about cholesterol?"},
		{FocusKeyFindings, "Query: Extract and summarize key medical findings"},
		{FocusHealthRisks, "Query: Identify potential health risks"},
	}

	for _, tt := range tests {
		t.Run(tt.focus.String(), func(t *testing.T) {
			pair, err := Medical("LDL 190 mg/dL", tt.focus, "What about cholesterol?", 100)
			require.NoError(t, err)
			assert.Contains(t, pair.User, tt.want)
			assert.Contains(t, pair.User, "Report Text: LDL 190 mg/dL...")
		})
	}
}

func TestMedicalIsIdempotent(t *testing.T) {
	a, err := Medical("report", FocusKeyFindings, "q", 10)
	require.NoError(t, err)
	b, err := Medical("report", FocusKeyFindings, "q", 10)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestMedicalRejectsUnknownFocus(t *testing.T) {
	_, err := Medical("report", Focus(42), "q", 10)
	assert.True(t, errors.Is(err, ErrUnknownMode))
}

func TestCrossReport(t *testing.T) {
	pair := CrossReport([]Report{
		{Name: "march.pdf", Text: "glucose 110"},
		{Name: "june.pdf", Text: strings.Repeat("b", 20)},
	}, "", 10)

	assert.Contains(t, pair.User, "Report 1 (march.pdf): glucose 11...")
	assert.Contains(t, pair.User, "Report 2 (june.pdf): "+strings.Repeat("b", 10)+"...")
	assert.Contains(t, pair.User, "Query: Summarize how the findings differ or agree across reports")
}

func TestTravel(t *testing.T) {
	for _, m := range Modes() {
		t.Run(m.Slug(), func(t *testing.T) {
			pair, err := Travel(m, "Plan a trip")
			require.NoError(t, err)
			assert.Equal(t, m.Instruction(), pair.System)
			assert.Equal(t, "Plan a trip", pair.User)
			assert.NotEmpty(t, m.Placeholder())
			assert.NotEmpty(t, m.DefaultRequest())

			again, err := Travel(m, "Plan a trip")
			require.NoError(t, err)
			assert.Equal(t, pair, again)
		})
	}
}

func TestTravelRejectsUnknownMode(t *testing.T) {
	_, err := Travel(Mode(0), "anything")
	assert.ErrorIs(t, err, ErrUnknownMode)

	_, err = Travel(Mode(99), "anything")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		slug    string
		want    Mode
		wantErr bool
	}{
		{"itinerary", ModeItinerary, false},
		{"tips", ModeTips, false},
		{"destinations", ModeDestinations, false},
		{"Trip Itinerary", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := ParseMode(tt.slug)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
