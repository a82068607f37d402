package timing

import "fmt"

// WarningKind classifies a suspicious capture.
type WarningKind string

const (
	// the line was released before it was pressed, relative to the clock
	WarnEndBeforeStart WarningKind = "end_before_start"
	// the line starts before the previous line started
	WarnStartBeforePrevious WarningKind = "start_before_previous"
	// the line starts before the previous line ended
	WarnOverlapsPrevious WarningKind = "overlaps_previous"
	// the clock ran backwards past the session origin
	WarnNegativeTime WarningKind = "negative_time"
)

// OrderWarning flags one line of a capture. Line is 0-based.
type OrderWarning struct {
	Line int
	Kind WarningKind
	Text string
}

func (w OrderWarning) String() string {
	return fmt.Sprintf("line %d: %s", w.Line+1, w.Text)
}

// Audit inspects the captured timestamps without changing them. Mistimed taps are written
// as captured; the caller decides whether to surface or act on these warnings.
func Audit(starts, ends []float64) []OrderWarning {
	var warnings []OrderWarning

	n := len(starts)
	if len(ends) < n {
		n = len(ends)
	}

	for i := 0; i < n; i++ {
		if starts[i] < 0 || ends[i] < 0 {
			warnings = append(warnings, OrderWarning{
				Line: i,
				Kind: WarnNegativeTime,
				Text: fmt.Sprintf("negative timestamp (%.3fs -> %.3fs) will be written as 0", starts[i], ends[i]),
			})
		}
		if ends[i] < starts[i] {
			warnings = append(warnings, OrderWarning{
				Line: i,
				Kind: WarnEndBeforeStart,
				Text: fmt.Sprintf("ends at %.3fs before it starts at %.3fs", ends[i], starts[i]),
			})
		}
		if i == 0 {
			continue
		}
		if starts[i] < starts[i-1] {
			warnings = append(warnings, OrderWarning{
				Line: i,
				Kind: WarnStartBeforePrevious,
				Text: fmt.Sprintf("starts at %.3fs, before the previous line at %.3fs", starts[i], starts[i-1]),
			})
		} else if starts[i] < ends[i-1] {
			warnings = append(warnings, OrderWarning{
				Line: i,
				Kind: WarnOverlapsPrevious,
				Text: fmt.Sprintf("starts at %.3fs while the previous line runs until %.3fs", starts[i], ends[i-1]),
			})
		}
	}

	return warnings
}

// Audit runs Audit over whatever the session has captured so far.
func (s *Session) Audit() []OrderWarning {
	return Audit(s.starts, s.ends)
}
