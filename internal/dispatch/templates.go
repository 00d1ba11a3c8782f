package dispatch

import "fmt"

// Context carries the recipient-specific fields interpolated into message
// templates.
type Context struct {
	PatientName      string
	Medication       string
	TimeOfDay        string
	Frequency        string
	SafetyScore      int
	MedicationCount  int
	InteractionCount int
}

// Compose builds the message body for an event type. Pure: same type and
// context always produce the same body.
func Compose(messageType MessageType, ctx Context) string {
	switch messageType {
	case MessageWelcome:
		name := ctx.PatientName
		if name == "" {
			name = "there"
		}
		return fmt.Sprintf("Hi %s! Your medication reminders are now active. Reply STOP at any time to opt out.", name)

	case MessageConfirmation:
		return "Your phone number has been verified for medication reminders."

	case MessageReminderTrigger:
		body := fmt.Sprintf("Time to take your %s", ctx.Medication)
		if ctx.TimeOfDay != "" {
			body += fmt.Sprintf(" (scheduled for %s)", ctx.TimeOfDay)
		}
		if ctx.Frequency != "" {
			body += fmt.Sprintf(", %s", ctx.Frequency)
		}
		return body + "."

	case MessageSummaryReport:
		return fmt.Sprintf(
			"Prescription summary: %d medication(s), %d interaction(s) found, safety score %d/100.",
			ctx.MedicationCount, ctx.InteractionCount, ctx.SafetyScore)

	default:
		return ""
	}
}
