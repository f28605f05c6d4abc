package components

import (
	"fmt"

	"github.com/abhisek/proctor/internal/ui/theme"
)

// LowTimeSeconds is when the countdown switches to its warning style.
const LowTimeSeconds = 60

// FormatClock renders seconds as m:ss.
func FormatClock(seconds int) string {
	seconds = max(seconds, 0)
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

// Countdown renders the remaining time of a timed quiz.
func Countdown(seconds int) string {
	style := theme.TimerNormal
	if seconds <= LowTimeSeconds {
		style = theme.TimerLow
	}
	return style.Render("⏱ " + FormatClock(seconds))
}
