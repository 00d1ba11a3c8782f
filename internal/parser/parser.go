// Package parser extracts structured medication mentions from raw
// prescription text.
package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Mention is a single medication occurrence found in text. Immutable after
// creation.
type Mention struct {
	Name          string
	DosageText    string
	FrequencyText string
	SourceLine    int
}

var (
	dosageRe   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(mg|mcg|g|ml|iu|units?)\b`)
	formRe     = regexp.MustCompile(`(?i)(\d+)?\s*\b(tablet|tab|capsule|cap|pill)s?\b`)
	timeRe     = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(am|pm)\b`)
	nameTrimRe = regexp.MustCompile(`[^a-zA-Z\-]`)
)

// Parse scans text line by line and returns the medication mentions it
// finds. A line qualifies when it carries a dosage-unit token or a
// tablet/capsule keyword. Malformed or empty input yields zero mentions;
// Parse never fails.
func Parse(text string) []Mention {
	var mentions []Mention

	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		dosageLoc := dosageRe.FindStringIndex(line)
		formLoc := formRe.FindStringIndex(line)
		if dosageLoc == nil && formLoc == nil {
			continue
		}

		name := leadingName(line)
		if name == "" {
			continue
		}

		var dosage string
		rest := line
		switch {
		case dosageLoc != nil:
			dosage = strings.TrimSpace(line[dosageLoc[0]:dosageLoc[1]])
			rest = line[dosageLoc[1]:]
		case formLoc != nil:
			dosage = strings.TrimSpace(line[formLoc[0]:formLoc[1]])
			rest = line[formLoc[1]:]
		}

		mentions = append(mentions, Mention{
			Name:          name,
			DosageText:    dosage,
			FrequencyText: frequencyFragment(rest, line),
			SourceLine:    i + 1,
		})
	}

	return mentions
}

// leadingName returns the first word of the line stripped to letters and
// hyphens. Lines that start with a number or a dosage token (e.g.
// "500mg ..." or "2 tablets of ...") have no usable name token.
func leadingName(line string) string {
	fields := strings.Fields(line)
	if len(fields) == 0 || strings.ContainsAny(fields[0], "0123456789") {
		return ""
	}
	name := nameTrimRe.ReplaceAllString(fields[0], "")
	return strings.ToLower(strings.Trim(name, "-"))
}

// frequencyFragment returns the best-effort frequency/time text for a line:
// the remainder after the dosage token, or failing that the time-of-day
// fragment found anywhere in the line.
func frequencyFragment(rest, line string) string {
	rest = strings.TrimSpace(strings.Trim(strings.TrimSpace(rest), ",.;:"))
	if rest != "" {
		return rest
	}
	return strings.TrimSpace(timeRe.FindString(line))
}

// Dosage parses an amount and unit out of a dosage fragment like "5mg" or
// "2.5 mg". The bool is false when no amount is present.
func Dosage(text string) (float64, string, bool) {
	m := dosageRe.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	amount, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, "", false
	}
	return amount, strings.ToLower(m[2]), true
}

// TimeOfDay extracts an "HH:MM" clock time from a frequency fragment using
// the digit+am/pm pattern (e.g. "9am" -> "09:00"). Falls back to defaultTime
// when no fragment is present.
func TimeOfDay(text, defaultTime string) string {
	m := timeRe.FindStringSubmatch(text)
	if m == nil {
		return defaultTime
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil || hour < 1 || hour > 12 {
		return defaultTime
	}
	if strings.EqualFold(m[2], "pm") && hour != 12 {
		hour += 12
	}
	if strings.EqualFold(m[2], "am") && hour == 12 {
		hour = 0
	}
	return twoDigits(hour) + ":00"
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
