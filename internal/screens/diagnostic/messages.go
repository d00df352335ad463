package diagnostic

import (
	diag "github.com/abhisek/learnai/internal/diagnostic"
)

// stepMsg carries the outcome of a controller call back to the screen
// that made it. The router hands pending messages to whichever screen is
// active, so from tells a screen its own results apart.
type stepMsg struct {
	Step  diag.Step
	Err   error
	Start bool
	from  *DiagnosticScreen
}

// noticeExpiredMsg clears the notice it was scheduled for. A newer notice
// has a higher Seq and survives.
type noticeExpiredMsg struct {
	Seq int
}
