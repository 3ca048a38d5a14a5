package ledger

import "testing"

func TestFormatTenths(t *testing.T) {
	tests := []struct {
		tenths int64
		want   string
	}{
		{0, "0.0s"},
		{4, "0.4s"},
		{123, "12.3s"},
		{1234, "2m 03.4s"},
		{36000, "1h 00m 00.0s"},
		{37234, "1h 02m 03.4s"},
		{-5, "0.0s"},
	}

	for _, tt := range tests {
		if got := FormatTenths(tt.tenths); got != tt.want {
			t.Errorf("FormatTenths(%d) = %q, want %q", tt.tenths, got, tt.want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		tenths int64
		want   string
	}{
		{0, "0:00:00.0"},
		{123, "0:00:12.3"},
		{37234, "1:02:03.4"},
		{864000, "24:00:00.0"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.tenths); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.tenths, got, tt.want)
		}
	}
}

func TestMinutesAndHours(t *testing.T) {
	if got := Minutes(599); got != 0 {
		t.Errorf("Minutes(599) = %d, want 0", got)
	}
	if got := Minutes(600); got != 1 {
		t.Errorf("Minutes(600) = %d, want 1", got)
	}
	if got := Hours(18000); got != 0.5 {
		t.Errorf("Hours(18000) = %v, want 0.5", got)
	}
}
