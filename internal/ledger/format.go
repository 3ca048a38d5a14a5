package ledger

import "fmt"

// Breakdown splits a duration in tenths of a second into hour, minute,
// second and tenth components.
func Breakdown(tenths int64) (h, m, s, t int64) {
	if tenths < 0 {
		tenths = 0
	}
	t = tenths % 10
	seconds := tenths / 10
	s = seconds % 60
	m = (seconds / 60) % 60
	h = seconds / 3600
	return h, m, s, t
}

// FormatTenths renders a duration for stats output, e.g. "1h 02m 03.4s".
// Zero-valued leading components are omitted.
func FormatTenths(tenths int64) string {
	h, m, s, t := Breakdown(tenths)
	switch {
	case h > 0:
		return fmt.Sprintf("%dh %02dm %02d.%ds", h, m, s, t)
	case m > 0:
		return fmt.Sprintf("%dm %02d.%ds", m, s, t)
	default:
		return fmt.Sprintf("%d.%ds", s, t)
	}
}

// FormatClock renders a running duration as "h:mm:ss.t" for the live view.
func FormatClock(tenths int64) string {
	h, m, s, t := Breakdown(tenths)
	return fmt.Sprintf("%d:%02d:%02d.%d", h, m, s, t)
}

// Minutes returns the duration in whole minutes.
func Minutes(tenths int64) int {
	return int(tenths / 600)
}

// Hours returns the duration in fractional hours.
func Hours(tenths int64) float64 {
	return float64(tenths) / 36000.0
}
