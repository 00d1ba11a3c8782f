package errors

import "fmt"

// AppError is a coded error that can wrap an underlying cause.
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code, message string, cause ...error) *AppError {
	var c error
	if len(cause) > 0 {
		c = cause[0]
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   c,
	}
}

var (
	ErrConfigInvalid = &AppError{Code: "CONFIG_001", Message: "invalid configuration"}

	ErrEmptyMedication = &AppError{Code: "VALID_001", Message: "medication name is required"}
	ErrEmptyTime       = &AppError{Code: "VALID_002", Message: "reminder time is required"}
	ErrInvalidTime     = &AppError{Code: "VALID_003", Message: "reminder time must be HH:MM"}
	ErrInvalidPhone    = &AppError{Code: "VALID_004", Message: "invalid phone number"}

	ErrReminderNotFound = &AppError{Code: "SCHED_001", Message: "reminder not found"}
	ErrSchedulerRunning = &AppError{Code: "SCHED_002", Message: "scheduler already running"}

	ErrTransportFailure = &AppError{Code: "DISPATCH_001", Message: "transport send failed"}
	ErrTransportTimeout = &AppError{Code: "DISPATCH_002", Message: "transport send timed out"}
	ErrEventTerminal    = &AppError{Code: "DISPATCH_003", Message: "event already in terminal state"}

	ErrExtractionFailed = &AppError{Code: "EXTRACT_001", Message: "text extraction failed"}

	ErrKnowledgeLoad = &AppError{Code: "KNOW_001", Message: "failed to load knowledge tables"}
)

func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return "UNKNOWN"
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}
