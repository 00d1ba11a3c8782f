package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBasicPrescription(t *testing.T) {
	text := "warfarin 5mg daily\naspirin 100mg daily"

	mentions := Parse(text)
	require.Len(t, mentions, 2)

	assert.Equal(t, "warfarin", mentions[0].Name)
	assert.Equal(t, "5mg", mentions[0].DosageText)
	assert.Equal(t, "daily", mentions[0].FrequencyText)
	assert.Equal(t, 1, mentions[0].SourceLine)

	assert.Equal(t, "aspirin", mentions[1].Name)
	assert.Equal(t, "100mg", mentions[1].DosageText)
	assert.Equal(t, 2, mentions[1].SourceLine)
}

func TestParseSkipsNonMedicationLines(t *testing.T) {
	text := "Dr. Smith Clinic\nPatient: John Doe\nlisinopril 10 mg once daily at 9am\nFollow up in 2 weeks"

	mentions := Parse(text)
	require.Len(t, mentions, 1)
	assert.Equal(t, "lisinopril", mentions[0].Name)
	assert.Equal(t, "10 mg", mentions[0].DosageText)
	assert.Equal(t, "once daily at 9am", mentions[0].FrequencyText)
	assert.Equal(t, 3, mentions[0].SourceLine)
}

func TestParseTabletKeyword(t *testing.T) {
	mentions := Parse("metformin 2 tablets twice daily")
	require.Len(t, mentions, 1)
	assert.Equal(t, "metformin", mentions[0].Name)
	assert.Equal(t, "2 tablets", mentions[0].DosageText)
	assert.Equal(t, "twice daily", mentions[0].FrequencyText)
}

func TestParseEmptyAndMalformedInput(t *testing.T) {
	assert.Empty(t, Parse(""))
	assert.Empty(t, Parse("   \n\n  \n"))
	assert.Empty(t, Parse("no medications here at all"))
	assert.Empty(t, Parse("500mg")) // dosage with no leading name token
}

func TestParseStripsPunctuationFromName(t *testing.T) {
	mentions := Parse("Atorvastatin, 20mg, at bedtime")
	require.Len(t, mentions, 1)
	assert.Equal(t, "atorvastatin", mentions[0].Name)
}

func TestDosage(t *testing.T) {
	tests := []struct {
		input  string
		amount float64
		unit   string
		ok     bool
	}{
		{"5mg", 5, "mg", true},
		{"2.5 mg", 2.5, "mg", true},
		{"100 mcg", 100, "mcg", true},
		{"2 tablets", 0, "", false},
		{"", 0, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			amount, unit, ok := Dosage(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.amount, amount)
				assert.Equal(t, tt.unit, unit)
			}
		})
	}
}

func TestTimeOfDay(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"daily at 9am", "09:00"},
		{"at 12pm", "12:00"},
		{"at 12am", "00:00"},
		{"twice daily 8 pm", "20:00"},
		{"daily", "08:00"},
		{"", "08:00"},
		{"at 99am", "08:00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, TimeOfDay(tt.input, "08:00"))
		})
	}
}
