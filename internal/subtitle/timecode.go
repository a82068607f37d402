package subtitle

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatTimecode renders t seconds as HH:MM:SS,mmm. Negative and NaN values render as zero.
func FormatTimecode(t float64) string {
	return formatTimecode(t, ',')
}

func formatVTTTimecode(t float64) string {
	return formatTimecode(t, '.')
}

func formatTimecode(t float64, sep byte) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}

	whole := math.Floor(t)
	millis := int64(math.Round((t - whole) * 1000))
	// rounding 0.9995+ would otherwise carry into a 4 digit field
	if millis > 999 {
		millis = 999
	}

	total := int64(whole)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, sep, millis)
}

// ParseTimecode converts HH:MM:SS,mmm (or HH:MM:SS.mmm) into seconds.
func ParseTimecode(s string) (float64, error) {
	value := strings.TrimSpace(s)
	if value == "" {
		return 0, &TimecodeError{Value: s, Reason: "empty"}
	}

	sepIdx := strings.LastIndexAny(value, ",.")
	if sepIdx < 0 {
		return 0, &TimecodeError{Value: s, Reason: "missing millisecond separator"}
	}

	hms := strings.Split(value[:sepIdx], ":")
	if len(hms) != 3 {
		return 0, &TimecodeError{Value: s, Reason: fmt.Sprintf("expected 3 clock fields, got %d", len(hms))}
	}

	hours, err := parseDigits(hms[0])
	if err != nil {
		return 0, &TimecodeError{Value: s, Reason: "hours: " + err.Error()}
	}
	minutes, err := parseDigits(hms[1])
	if err != nil {
		return 0, &TimecodeError{Value: s, Reason: "minutes: " + err.Error()}
	}
	seconds, err := parseDigits(hms[2])
	if err != nil {
		return 0, &TimecodeError{Value: s, Reason: "seconds: " + err.Error()}
	}

	frac := value[sepIdx+1:]
	if len(frac) == 0 || len(frac) > 3 {
		return 0, &TimecodeError{Value: s, Reason: "milliseconds must have 1 to 3 digits"}
	}
	// ",5" means half a second, not 5 ms
	frac += strings.Repeat("0", 3-len(frac))
	millis, err := parseDigits(frac)
	if err != nil {
		return 0, &TimecodeError{Value: s, Reason: "milliseconds: " + err.Error()}
	}

	totalMillis := ((hours*60+minutes)*60+seconds)*1000 + millis
	return float64(totalMillis) / 1000, nil
}

func parseDigits(field string) (int64, error) {
	if field == "" {
		return 0, fmt.Errorf("empty field")
	}
	for _, r := range field {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("non-digit %q", r)
		}
	}
	return strconv.ParseInt(field, 10, 64)
}
