package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/knowledge"
	"github.com/rxguard/rxguard/internal/parser"
)

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	return New(knowledge.Builtin(), zap.NewNop(), opts...)
}

func mentionsFor(names ...string) []parser.Mention {
	mentions := make([]parser.Mention, 0, len(names))
	for _, n := range names {
		mentions = append(mentions, parser.Mention{Name: n})
	}
	return mentions
}

func TestEvaluateSymmetric(t *testing.T) {
	e := newTestEngine(t)

	ab := e.Evaluate(mentionsFor("warfarin", "aspirin"), "")
	ba := e.Evaluate(mentionsFor("aspirin", "warfarin"), "")

	require.Len(t, ab.Interactions, 1)
	require.Len(t, ba.Interactions, 1)
	assert.Equal(t, ab.Interactions[0], ba.Interactions[0])
	assert.Equal(t, ab.SafetyScore, ba.SafetyScore)
}

func TestEvaluateNoSelfInteraction(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(mentionsFor("warfarin", "warfarin", "Warfarin"), "")

	assert.Empty(t, analysis.Interactions)
	require.Len(t, analysis.Medications, 1, "repeated mentions collapse to one entry")
}

func TestEvaluateScoreDeterministic(t *testing.T) {
	e := newTestEngine(t)
	mentions := mentionsFor("warfarin", "aspirin", "lisinopril", "ibuprofen")
	signals := "patient has high blood pressure"

	first := e.Evaluate(mentions, signals)
	for i := 0; i < 5; i++ {
		again := e.Evaluate(mentions, signals)
		assert.Equal(t, first.SafetyScore, again.SafetyScore)
		assert.Equal(t, first.Interactions, again.Interactions)
	}
	assert.GreaterOrEqual(t, first.SafetyScore, 0)
	assert.LessOrEqual(t, first.SafetyScore, 100)
}

func TestEvaluateFindingsSortedBySeverity(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(mentionsFor("levothyroxine", "omeprazole", "warfarin", "aspirin"), "")

	require.NotEmpty(t, analysis.Interactions)
	for i := 1; i < len(analysis.Interactions); i++ {
		assert.GreaterOrEqual(t,
			analysis.Interactions[i-1].Severity.Weight(),
			analysis.Interactions[i].Severity.Weight())
	}
	assert.Equal(t, knowledge.SeverityMajor, analysis.Interactions[0].Severity)
}

func TestEvaluateScoreClampedAtZero(t *testing.T) {
	e := newTestEngine(t)

	// Pile up enough interacting drugs and signals to exhaust the baseline.
	analysis := e.Evaluate(
		mentionsFor("warfarin", "aspirin", "ibuprofen", "lisinopril", "sertraline", "tramadol", "simvastatin"),
		"elderly patient with kidney disease, liver disease and heart failure",
	)

	assert.GreaterOrEqual(t, analysis.SafetyScore, 0)
	assert.LessOrEqual(t, analysis.SafetyScore, 100)
	assert.Equal(t, RiskCritical, analysis.RiskLevel)
}

func TestVerifyDosageBoundaries(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		drug   string
		amount float64
		want   DosageStatus
	}{
		{"lisinopril", 2.5, DosageNormal},
		{"lisinopril", 2.4, DosageLow},
		{"lisinopril", 40, DosageNormal},
		{"lisinopril", 40.1, DosageHigh},
		{"unobtainium", 10, DosageUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.drug, func(t *testing.T) {
			check := e.VerifyDosage(tt.drug, tt.amount)
			assert.Equal(t, tt.want, check.Status)
			assert.NotEmpty(t, check.Message)
		})
	}
}

func TestEvaluateDosageWarnings(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(parser.Parse("warfarin 50mg daily"), "")

	found := false
	for _, w := range analysis.Warnings {
		if strings.Contains(w, "warfarin") && strings.Contains(w, "above") {
			found = true
		}
	}
	assert.True(t, found, "expected a high-dose warning, got %v", analysis.Warnings)
}

func TestEvaluateAlwaysAppendsFollowUp(t *testing.T) {
	e := newTestEngine(t)

	empty := e.Evaluate(nil, "")
	require.NotEmpty(t, empty.Warnings)
	assert.Equal(t, followUpWarning, empty.Warnings[len(empty.Warnings)-1])
}

func TestEvaluateRiskSignals(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(mentionsFor("metformin"), "elderly patient with hypertension")
	baseline := e.Evaluate(mentionsFor("metformin"), "")

	assert.Less(t, analysis.SafetyScore, baseline.SafetyScore)
	assert.Greater(t, len(analysis.Warnings), len(baseline.Warnings))
}

func TestEvaluateMedicationCountPenalty(t *testing.T) {
	e := newTestEngine(t)

	few := e.Evaluate(mentionsFor("metformin"), "")
	many := e.Evaluate(mentionsFor("metformin", "amlodipine", "gabapentin", "levothyroxine", "acetaminophen", "cetirizine"), "")

	// None of these six drugs interact with each other in the builtin
	// tables, so the only difference is the count penalty.
	require.Empty(t, many.Interactions)
	assert.Equal(t, few.SafetyScore-10, many.SafetyScore)
}

func TestEvaluateEnrichment(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(parser.Parse("warfarin 5mg daily\naspirin 100mg daily"), "")

	require.Len(t, analysis.Medications, 2)
	for _, m := range analysis.Medications {
		assert.Equal(t, RiskHigh, m.RiskLevel, "both sides of a Major finding rate High")
		assert.NotEmpty(t, m.Alternatives)
		assert.NotEmpty(t, m.SideEffects)
	}
}

func TestEvaluateExtractionConfidenceGate(t *testing.T) {
	e := newTestEngine(t, WithConfidenceThreshold(0.6))

	low := e.EvaluateExtraction("metformin 500mg daily", 0.3, "")
	high := e.EvaluateExtraction("metformin 500mg daily", 0.9, "")

	assert.Contains(t, low.Warnings[0], "confidence")
	for _, w := range high.Warnings {
		assert.NotContains(t, w, "confidence")
	}
}

func TestEndToEndScenario(t *testing.T) {
	e := newTestEngine(t)

	analysis := e.Evaluate(parser.Parse("warfarin 5mg daily\naspirin 100mg daily"), "")

	require.Len(t, analysis.Interactions, 1)
	assert.Equal(t, knowledge.SeverityMajor, analysis.Interactions[0].Severity)
	assert.LessOrEqual(t, analysis.SafetyScore, 80)
}
