// Package engine evaluates parsed medication mentions against the drug
// knowledge tables: interaction detection, dosage verification, warning
// generation and safety scoring.
package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/rxguard/rxguard/internal/knowledge"
	"github.com/rxguard/rxguard/internal/metrics"
	"github.com/rxguard/rxguard/internal/parser"
)

const (
	baselineScore = 90

	penaltyMajor    = 20
	penaltyModerate = 10
	penaltyMinor    = 5

	// More than this many concurrent medications costs an extra penalty.
	medicationCountThreshold = 5
	penaltyMedicationCount   = 10

	followUpWarning = "Schedule a follow-up with your healthcare provider to review this prescription."
)

// Engine runs rule evaluation. It is stateless apart from its read-only
// collaborators and safe for concurrent use.
type Engine struct {
	tables              *knowledge.Tables
	logger              *zap.Logger
	confidenceThreshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfidenceThreshold sets the extraction-confidence level below which
// analyses carry an uncertainty warning.
func WithConfidenceThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.confidenceThreshold = threshold
	}
}

// New creates an evaluation engine backed by the given knowledge tables.
func New(tables *knowledge.Tables, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		tables:              tables,
		logger:              logger,
		confidenceThreshold: 0.6,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate turns medication mentions and free-text patient signals into a
// complete analysis. The result is deterministic: the same mentions and
// signals always produce the same findings and score, regardless of input
// order.
func (e *Engine) Evaluate(mentions []parser.Mention, signals string) *PrescriptionAnalysis {
	distinct := distinctMentions(mentions)
	findings := e.detectInteractions(distinct)
	detected := detectSignals(signals)

	analysis := &PrescriptionAnalysis{
		Medications:  e.enrich(distinct, findings),
		Interactions: findings,
		Warnings:     e.buildWarnings(distinct, detected),
		GeneratedAt:  time.Now(),
	}
	analysis.SafetyScore = score(findings, len(distinct), detected)
	analysis.RiskLevel = riskLevelFor(analysis.SafetyScore)

	metrics.RecordAnalysis()
	for _, f := range findings {
		metrics.RecordInteraction(string(f.Severity))
	}

	e.logger.Info("Prescription evaluated",
		zap.Int("medications", len(distinct)),
		zap.Int("interactions", len(findings)),
		zap.Int("safety_score", analysis.SafetyScore))

	return analysis
}

// EvaluateExtraction evaluates text produced by the extraction collaborator.
// A low confidence value appends an uncertainty warning but never blocks the
// analysis.
func (e *Engine) EvaluateExtraction(text string, confidence float64, signals string) *PrescriptionAnalysis {
	analysis := e.Evaluate(parser.Parse(text), signals)
	if confidence < e.confidenceThreshold {
		analysis.Warnings = append([]string{
			fmt.Sprintf("Text extraction confidence is low (%.2f); verify the medication list manually.", confidence),
		}, analysis.Warnings...)
	}
	return analysis
}

// VerifyDosage classifies a dose against the guideline range for the drug.
// Unknown drugs degrade to an advisory Unknown result, never an error.
// Guideline boundaries are inclusive.
func (e *Engine) VerifyDosage(name string, amount float64) DosageCheck {
	g, ok := e.tables.Guideline(name)
	if !ok {
		return DosageCheck{
			Status:  DosageUnknown,
			Message: fmt.Sprintf("No dosage guideline available for %s.", knowledge.Normalize(name)),
		}
	}

	switch {
	case amount < g.MinDose:
		return DosageCheck{
			Status: DosageLow,
			Message: fmt.Sprintf("Dose %s %s is below the usual minimum of %s %s.",
				formatDose(amount), g.Unit, formatDose(g.MinDose), g.Unit),
		}
	case amount > g.MaxDose:
		return DosageCheck{
			Status: DosageHigh,
			Message: fmt.Sprintf("Dose %s %s is above the usual maximum of %s %s.",
				formatDose(amount), g.Unit, formatDose(g.MaxDose), g.Unit),
		}
	default:
		return DosageCheck{
			Status: DosageNormal,
			Message: fmt.Sprintf("Dose %s %s is within the usual range of %s-%s %s.",
				formatDose(amount), g.Unit, formatDose(g.MinDose), formatDose(g.MaxDose), g.Unit),
		}
	}
}

// distinctMentions deduplicates mentions by normalized name, keeping the
// first occurrence of each, and returns them in name order so everything
// downstream is order-independent.
func distinctMentions(mentions []parser.Mention) []parser.Mention {
	seen := make(map[string]parser.Mention, len(mentions))
	for _, m := range mentions {
		name := knowledge.Normalize(m.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; !ok {
			m.Name = name
			seen[name] = m
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]parser.Mention, 0, len(names))
	for _, name := range names {
		out = append(out, seen[name])
	}
	return out
}

// detectInteractions checks every unordered pair of distinct medications.
// Each interacting pair yields exactly one finding.
func (e *Engine) detectInteractions(distinct []parser.Mention) []InteractionFinding {
	var findings []InteractionFinding
	for i := 0; i < len(distinct); i++ {
		for j := i + 1; j < len(distinct); j++ {
			rule, ok := e.tables.Interaction(distinct[i].Name, distinct[j].Name)
			if !ok {
				continue
			}
			findings = append(findings, InteractionFinding{
				DrugA:          distinct[i].Name,
				DrugB:          distinct[j].Name,
				Severity:       rule.Severity,
				Description:    rule.Description,
				Recommendation: rule.Recommendation,
			})
		}
	}

	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].Severity.Weight() != findings[j].Severity.Weight() {
			return findings[i].Severity.Weight() > findings[j].Severity.Weight()
		}
		if findings[i].DrugA != findings[j].DrugA {
			return findings[i].DrugA < findings[j].DrugA
		}
		return findings[i].DrugB < findings[j].DrugB
	})
	return findings
}

// enrich builds the final medication entries: dosage check, per-drug risk
// level from the findings it participates in, alternatives and side effects.
func (e *Engine) enrich(distinct []parser.Mention, findings []InteractionFinding) []MedicationEntry {
	entries := make([]MedicationEntry, 0, len(distinct))
	for _, m := range distinct {
		entry := MedicationEntry{
			Name:         m.Name,
			Dosage:       m.DosageText,
			Frequency:    m.FrequencyText,
			RiskLevel:    RiskLow,
			Alternatives: e.tables.Alternatives(m.Name),
			SideEffects:  e.tables.SideEffects(m.Name),
		}

		if amount, _, ok := parser.Dosage(m.DosageText); ok {
			entry.DosageCheck = e.VerifyDosage(m.Name, amount)
		} else {
			entry.DosageCheck = DosageCheck{
				Status:  DosageUnknown,
				Message: "No numeric dose found to verify.",
			}
		}

		for _, f := range findings {
			if f.DrugA != m.Name && f.DrugB != m.Name {
				continue
			}
			switch f.Severity {
			case knowledge.SeverityMajor:
				entry.RiskLevel = RiskHigh
			case knowledge.SeverityModerate:
				if entry.RiskLevel != RiskHigh {
					entry.RiskLevel = RiskModerate
				}
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

// buildWarnings accumulates advisory strings: dosage range violations,
// detected patient-risk signals, and always the generic follow-up reminder.
func (e *Engine) buildWarnings(distinct []parser.Mention, detected []riskSignal) []string {
	var warnings []string

	for _, m := range distinct {
		amount, _, ok := parser.Dosage(m.DosageText)
		if !ok {
			continue
		}
		check := e.VerifyDosage(m.Name, amount)
		if check.Status == DosageLow || check.Status == DosageHigh {
			warnings = append(warnings, fmt.Sprintf("%s: %s", m.Name, check.Message))
		}
	}

	for _, s := range detected {
		warnings = append(warnings, s.warning)
	}

	return append(warnings, followUpWarning)
}

// score computes the safety score: fixed baseline minus fixed penalties,
// clamped to [0,100]. Pure and order-independent.
func score(findings []InteractionFinding, medicationCount int, detected []riskSignal) int {
	s := baselineScore

	for _, f := range findings {
		switch f.Severity {
		case knowledge.SeverityMajor:
			s -= penaltyMajor
		case knowledge.SeverityModerate:
			s -= penaltyModerate
		default:
			s -= penaltyMinor
		}
	}

	if medicationCount > medicationCountThreshold {
		s -= penaltyMedicationCount
	}

	for _, sig := range detected {
		s -= sig.penalty
	}

	if s < 0 {
		s = 0
	}
	if s > 100 {
		s = 100
	}
	return s
}

func riskLevelFor(score int) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 60:
		return RiskModerate
	case score >= 40:
		return RiskHigh
	default:
		return RiskCritical
	}
}

// riskSignal maps free-text patient keywords to a warning and a score
// penalty.
type riskSignal struct {
	keywords []string
	warning  string
	penalty  int
}

var riskSignals = []riskSignal{
	{
		keywords: []string{"high blood pressure", "hypertension", "elevated blood pressure"},
		warning:  "Elevated blood pressure reported; monitor blood pressure regularly.",
		penalty:  5,
	},
	{
		keywords: []string{"kidney", "renal"},
		warning:  "Renal function monitoring required.",
		penalty:  5,
	},
	{
		keywords: []string{"liver", "hepatic"},
		warning:  "Hepatic function monitoring required.",
		penalty:  5,
	},
	{
		keywords: []string{"heart", "cardiac"},
		warning:  "Cardiac monitoring may be required.",
		penalty:  5,
	},
	{
		keywords: []string{"pregnan"},
		warning:  "Medication review required during pregnancy.",
		penalty:  10,
	},
	{
		keywords: []string{"elderly", "over 65"},
		warning:  "Elderly patients may require dose reduction and closer monitoring.",
		penalty:  5,
	},
	{
		keywords: []string{"diabet"},
		warning:  "Monitor blood glucose; some medications affect glycemic control.",
		penalty:  5,
	},
}

// detectSignals scans free text for known patient-risk keywords. Each
// signal fires at most once.
func detectSignals(text string) []riskSignal {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	lower := strings.ToLower(text)

	var detected []riskSignal
	for _, sig := range riskSignals {
		for _, kw := range sig.keywords {
			if strings.Contains(lower, kw) {
				detected = append(detected, sig)
				break
			}
		}
	}
	return detected
}

func formatDose(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
