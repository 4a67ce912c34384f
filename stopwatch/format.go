package stopwatch

import "fmt"

const (
	hundredthsPerSecond = 100
	hundredthsPerMinute = 60 * hundredthsPerSecond
)

// Format renders elapsed hundredths as "m:ss.hh". Minutes are not padded
// and keep growing past 59.
func Format(elapsedHundredths uint64) string {
	minutes := elapsedHundredths / hundredthsPerMinute
	seconds := (elapsedHundredths / hundredthsPerSecond) % 60
	hundredths := elapsedHundredths % hundredthsPerSecond
	return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, hundredths)
}
