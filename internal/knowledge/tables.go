// Package knowledge holds the static drug knowledge tables: interaction
// rules, dosage guidelines, therapeutic alternatives and side-effect lists.
package knowledge

import (
	"sort"
	"strings"
	"sync"
)

// Severity classifies how dangerous an interaction is.
type Severity string

const (
	SeverityMinor    Severity = "Minor"
	SeverityModerate Severity = "Moderate"
	SeverityMajor    Severity = "Major"
)

// Weight returns a numeric weight for severity ordering.
func (s Severity) Weight() int {
	switch s {
	case SeverityMajor:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// InteractionRule describes a known interaction between an unordered pair of
// drugs. DrugA/DrugB are stored normalized (lowercase, trimmed).
type InteractionRule struct {
	DrugA          string   `yaml:"drug_a"`
	DrugB          string   `yaml:"drug_b"`
	Severity       Severity `yaml:"severity"`
	Description    string   `yaml:"description"`
	Recommendation string   `yaml:"recommendation,omitempty"`
}

// DosageGuideline is the acceptable dose range for a single administration
// of a drug. Boundaries are inclusive.
type DosageGuideline struct {
	Drug      string  `yaml:"drug"`
	MinDose   float64 `yaml:"min_dose"`
	MaxDose   float64 `yaml:"max_dose"`
	Unit      string  `yaml:"unit"`
	Frequency string  `yaml:"frequency"`
}

// Tables bundles all static knowledge. Lookups are safe for concurrent use;
// the overlay watcher is the only writer.
type Tables struct {
	mu           sync.RWMutex
	interactions map[pairKey]InteractionRule
	guidelines   map[string]DosageGuideline
	alternatives map[string][]string
	sideEffects  map[string][]string
	classMembers map[string][]string
}

type pairKey struct {
	a, b string
}

// Normalize lowercases and trims a drug name so lookups are
// case-insensitive.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func keyFor(a, b string) pairKey {
	a, b = Normalize(a), Normalize(b)
	if a > b {
		a, b = b, a
	}
	return pairKey{a: a, b: b}
}

// Builtin returns tables populated with the built-in data set.
func Builtin() *Tables {
	t := &Tables{
		interactions: make(map[pairKey]InteractionRule),
		guidelines:   make(map[string]DosageGuideline),
		alternatives: make(map[string][]string),
		sideEffects:  make(map[string][]string),
		classMembers: builtinClasses(),
	}

	for _, rule := range builtinInteractions() {
		t.putInteraction(rule)
	}
	for _, g := range builtinGuidelines() {
		t.guidelines[Normalize(g.Drug)] = g
	}
	for drug, alts := range builtinAlternatives() {
		t.alternatives[Normalize(drug)] = alts
	}
	for drug, effects := range builtinSideEffects() {
		t.sideEffects[Normalize(drug)] = effects
	}

	return t
}

func (t *Tables) putInteraction(rule InteractionRule) {
	rule.DrugA = Normalize(rule.DrugA)
	rule.DrugB = Normalize(rule.DrugB)
	if rule.DrugA == "" || rule.DrugB == "" || rule.DrugA == rule.DrugB {
		return
	}
	if rule.Recommendation == "" {
		rule.Recommendation = RecommendationFor(rule.Severity)
	}
	t.interactions[keyFor(rule.DrugA, rule.DrugB)] = rule
}

// Interaction looks up an interaction rule for an unordered pair of drug
// names. The lookup is symmetric and irreflexive: Interaction(a, a) never
// matches. Explicit pair entries win over class-pattern matches.
func (t *Tables) Interaction(a, b string) (InteractionRule, bool) {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" || na == nb {
		return InteractionRule{}, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	if rule, ok := t.interactions[keyFor(na, nb)]; ok {
		return rule, true
	}
	return t.classInteraction(na, nb)
}

// Guideline returns the dosage guideline for a drug, if known.
func (t *Tables) Guideline(drug string) (DosageGuideline, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g, ok := t.guidelines[Normalize(drug)]
	return g, ok
}

// Alternatives returns therapeutic alternatives for a drug. The returned
// slice is a copy.
func (t *Tables) Alternatives(drug string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	alts := t.alternatives[Normalize(drug)]
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}

// SideEffects returns the common side effects for a drug.
func (t *Tables) SideEffects(drug string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	effects := t.sideEffects[Normalize(drug)]
	out := make([]string, len(effects))
	copy(out, effects)
	return out
}

// Known reports whether the drug appears anywhere in the tables.
func (t *Tables) Known(drug string) bool {
	name := Normalize(drug)
	t.mu.RLock()
	defer t.mu.RUnlock()
	if _, ok := t.guidelines[name]; ok {
		return true
	}
	return len(t.classesOf(name)) > 0
}

// classesOf returns the drug classes a drug belongs to. Caller must hold
// the read lock.
func (t *Tables) classesOf(drug string) []string {
	var classes []string
	for class, members := range t.classMembers {
		for _, m := range members {
			if strings.Contains(drug, m) {
				classes = append(classes, class)
				break
			}
		}
	}
	sort.Strings(classes)
	return classes
}

// classInteraction evaluates class-pattern combinations when no explicit
// pair entry exists. Caller must hold the read lock.
func (t *Tables) classInteraction(a, b string) (InteractionRule, bool) {
	classesA := t.classesOf(a)
	classesB := t.classesOf(b)
	if len(classesA) == 0 || len(classesB) == 0 {
		return InteractionRule{}, false
	}

	for _, combo := range highRiskCombos {
		if combo.matches(classesA, classesB) {
			return combo.rule(a, b, SeverityMajor), true
		}
	}
	for _, combo := range mediumRiskCombos {
		if combo.matches(classesA, classesB) {
			return combo.rule(a, b, SeverityModerate), true
		}
	}
	return InteractionRule{}, false
}

// RecommendationFor returns the standard recommendation text for a severity.
func RecommendationFor(s Severity) string {
	switch s {
	case SeverityMajor:
		return "Avoid combination if possible. If necessary, use with extreme caution and close monitoring."
	case SeverityModerate:
		return "Use caution. Monitor patient closely for adverse effects."
	default:
		return "Monitor patient. Interaction is generally manageable with appropriate precautions."
	}
}

type classCombo struct {
	left        []string
	right       []string
	description string
}

func (c classCombo) matches(classesA, classesB []string) bool {
	return (anyIn(classesA, c.left) && anyIn(classesB, c.right)) ||
		(anyIn(classesA, c.right) && anyIn(classesB, c.left))
}

func (c classCombo) rule(a, b string, severity Severity) InteractionRule {
	return InteractionRule{
		DrugA:          a,
		DrugB:          b,
		Severity:       severity,
		Description:    c.description,
		Recommendation: RecommendationFor(severity),
	}
}

func anyIn(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if h == w {
				return true
			}
		}
	}
	return false
}
