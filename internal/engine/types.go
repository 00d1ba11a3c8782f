package engine

import (
	"time"

	"github.com/rxguard/rxguard/internal/knowledge"
)

// DosageStatus classifies a dose against its guideline range.
type DosageStatus string

const (
	DosageUnknown DosageStatus = "Unknown"
	DosageLow     DosageStatus = "Low"
	DosageNormal  DosageStatus = "Normal"
	DosageHigh    DosageStatus = "High"
)

// DosageCheck is the result of verifying a single dose.
type DosageCheck struct {
	Status  DosageStatus `json:"status"`
	Message string       `json:"message"`
}

// RiskLevel is the coarse overall rating derived from the safety score.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
	RiskCritical RiskLevel = "Critical"
)

// InteractionFinding reports one detected interaction between two
// medications in the prescription.
type InteractionFinding struct {
	DrugA          string             `json:"drugA"`
	DrugB          string             `json:"drugB"`
	Severity       knowledge.Severity `json:"severity"`
	Description    string             `json:"description"`
	Recommendation string             `json:"recommendation"`
}

// MedicationEntry is an enriched medication mention.
type MedicationEntry struct {
	Name         string       `json:"name"`
	Dosage       string       `json:"dosage"`
	Frequency    string       `json:"frequency"`
	RiskLevel    RiskLevel    `json:"riskLevel"`
	DosageCheck  DosageCheck  `json:"dosageCheck"`
	Alternatives []string     `json:"alternatives,omitempty"`
	SideEffects  []string     `json:"sideEffects,omitempty"`
}

// PrescriptionAnalysis is the immutable result of one evaluation run.
type PrescriptionAnalysis struct {
	Medications  []MedicationEntry    `json:"medications"`
	Interactions []InteractionFinding `json:"interactions"`
	Warnings     []string             `json:"warnings"`
	SafetyScore  int                  `json:"safetyScore"`
	RiskLevel    RiskLevel            `json:"riskLevel"`
	GeneratedAt  time.Time            `json:"generatedAt"`
}
