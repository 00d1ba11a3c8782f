package knowledge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractionSymmetric(t *testing.T) {
	tables := Builtin()

	ab, okAB := tables.Interaction("warfarin", "aspirin")
	ba, okBA := tables.Interaction("aspirin", "warfarin")

	require.True(t, okAB)
	require.True(t, okBA)
	assert.Equal(t, ab.Severity, ba.Severity)
	assert.Equal(t, ab.Description, ba.Description)
	assert.Equal(t, SeverityMajor, ab.Severity)
}

func TestInteractionIrreflexive(t *testing.T) {
	tables := Builtin()

	_, ok := tables.Interaction("warfarin", "warfarin")
	assert.False(t, ok, "a drug should never interact with itself")

	_, ok = tables.Interaction("Warfarin", "  warfarin ")
	assert.False(t, ok, "normalization should not defeat the self check")
}

func TestInteractionCaseInsensitive(t *testing.T) {
	tables := Builtin()

	rule, ok := tables.Interaction("  WARFARIN ", "Aspirin")
	require.True(t, ok)
	assert.Equal(t, SeverityMajor, rule.Severity)
}

func TestInteractionUnknownPair(t *testing.T) {
	tables := Builtin()

	_, ok := tables.Interaction("acetaminophen", "vitamin-d")
	assert.False(t, ok)
}

func TestClassInteraction(t *testing.T) {
	tables := Builtin()

	tests := []struct {
		name     string
		drugA    string
		drugB    string
		severity Severity
	}{
		{"benzo plus opioid", "lorazepam", "oxycodone", SeverityMajor},
		{"ssri plus statin", "fluoxetine", "rosuvastatin", SeverityModerate},
		{"cyp inhibitor plus statin", "ketoconazole", "lovastatin", SeverityMajor},
		{"arb plus diuretic", "valsartan", "hydrochlorothiazide", SeverityMajor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := tables.Interaction(tt.drugA, tt.drugB)
			require.True(t, ok)
			assert.Equal(t, tt.severity, rule.Severity)
			assert.NotEmpty(t, rule.Description)
			assert.NotEmpty(t, rule.Recommendation)
		})
	}
}

func TestExplicitEntryWinsOverClass(t *testing.T) {
	tables := Builtin()

	// lisinopril+spironolactone has an explicit Moderate entry even though
	// the ACE inhibitor + diuretic class pattern would rate it Major.
	rule, ok := tables.Interaction("lisinopril", "spironolactone")
	require.True(t, ok)
	assert.Equal(t, SeverityModerate, rule.Severity)
}

func TestGuidelineLookup(t *testing.T) {
	tables := Builtin()

	g, ok := tables.Guideline("Lisinopril")
	require.True(t, ok)
	assert.Equal(t, 2.5, g.MinDose)
	assert.Equal(t, 40.0, g.MaxDose)
	assert.Equal(t, "mg", g.Unit)

	_, ok = tables.Guideline("unobtainium")
	assert.False(t, ok)
}

func TestAlternativesAndSideEffectsReturnCopies(t *testing.T) {
	tables := Builtin()

	alts := tables.Alternatives("warfarin")
	require.NotEmpty(t, alts)
	alts[0] = "mutated"
	assert.NotEqual(t, "mutated", tables.Alternatives("warfarin")[0])

	effects := tables.SideEffects("lisinopril")
	require.NotEmpty(t, effects)
	effects[0] = "mutated"
	assert.NotEqual(t, "mutated", tables.SideEffects("lisinopril")[0])
}

func TestKnown(t *testing.T) {
	tables := Builtin()

	assert.True(t, tables.Known("metformin"))
	assert.True(t, tables.Known("clonazepam"), "class membership counts as known")
	assert.False(t, tables.Known("unobtainium"))
}

func TestSeverityWeight(t *testing.T) {
	assert.Greater(t, SeverityMajor.Weight(), SeverityModerate.Weight())
	assert.Greater(t, SeverityModerate.Weight(), SeverityMinor.Weight())
	assert.Equal(t, 0, Severity("bogus").Weight())
}

func TestApplyOverlayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "overlay.yaml")

	overlay := `
interactions:
  - drug_a: foodrug
    drug_b: bardrug
    severity: Major
    description: test interaction
guidelines:
  - drug: foodrug
    min_dose: 10
    max_dose: 50
    unit: mg
    frequency: once daily
alternatives:
  foodrug: [bazdrug]
side_effects:
  foodrug: [drowsiness]
`
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o644))

	tables := Builtin()
	require.NoError(t, tables.ApplyOverlayFile(path))

	rule, ok := tables.Interaction("foodrug", "bardrug")
	require.True(t, ok)
	assert.Equal(t, SeverityMajor, rule.Severity)
	assert.NotEmpty(t, rule.Recommendation, "overlay rules get the default recommendation")

	g, ok := tables.Guideline("foodrug")
	require.True(t, ok)
	assert.Equal(t, 10.0, g.MinDose)

	assert.Equal(t, []string{"bazdrug"}, tables.Alternatives("foodrug"))
	assert.Equal(t, []string{"drowsiness"}, tables.SideEffects("foodrug"))
}

func TestApplyOverlayFileMissing(t *testing.T) {
	tables := Builtin()
	err := tables.ApplyOverlayFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
