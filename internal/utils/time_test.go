package utils

import (
	"testing"
	"time"
)

func TestDateOnly(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*60*60)
	in := time.Date(2024, 6, 10, 23, 59, 59, 0, loc)

	got := DateOnly(in)
	want := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("DateOnly() = %v, want %v", got, want)
	}
}

func TestParseAndFormatDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	if err != nil {
		t.Fatalf("ParseDate() failed: %v", err)
	}
	if got := FormatDate(d); got != "2024-02-29" {
		t.Errorf("FormatDate() = %q, want %q", got, "2024-02-29")
	}

	for _, bad := range []string{"", "2024-13-01", "2024/01/01", "2023-02-29"} {
		if _, err := ParseDate(bad); err == nil {
			t.Errorf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestMondayIndex(t *testing.T) {
	// 2024-06-10 is a Monday.
	start := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		if got := MondayIndex(start.AddDate(0, 0, i)); got != i {
			t.Errorf("MondayIndex(%s) = %d, want %d", FormatDate(start.AddDate(0, 0, i)), got, i)
		}
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone data unavailable: %v", err)
	}
	// DST starts 2024-03-10 in New York.
	d := time.Date(2024, 3, 9, 0, 0, 0, 0, loc)
	if got := FormatDate(AddDays(d, 2)); got != "2024-03-11" {
		t.Errorf("AddDays() = %s, want 2024-03-11", got)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2024, 6, 10, 1, 0, 0, 0, time.UTC)
	b := time.Date(2024, 6, 10, 22, 0, 0, 0, time.UTC)
	if !SameDate(a, b) {
		t.Error("expected same date")
	}
	if SameDate(a, b.AddDate(0, 0, 1)) {
		t.Error("expected different dates")
	}
}

func TestLoadLocation(t *testing.T) {
	for _, tz := range []string{"", "Local"} {
		loc, err := LoadLocation(tz)
		if err != nil {
			t.Fatalf("LoadLocation(%q) failed: %v", tz, err)
		}
		if loc != time.Local {
			t.Errorf("LoadLocation(%q) = %v, want Local", tz, loc)
		}
	}

	if _, err := LoadLocation("Not/AZone"); err == nil {
		t.Error("expected error for invalid timezone")
	}
}

func TestValidateTimezone(t *testing.T) {
	if !ValidateTimezone("UTC") {
		t.Error("UTC should be valid")
	}
	if !ValidateTimezone("Local") {
		t.Error("Local should be valid")
	}
	if ValidateTimezone("Mars/Olympus") {
		t.Error("Mars/Olympus should be invalid")
	}
}

func TestParseDateOrToday(t *testing.T) {
	d, err := ParseDateOrToday("2024-06-10", "UTC")
	if err != nil {
		t.Fatalf("ParseDateOrToday() failed: %v", err)
	}
	if FormatDate(d) != "2024-06-10" {
		t.Errorf("ParseDateOrToday() = %s, want 2024-06-10", FormatDate(d))
	}

	today, err := ParseDateOrToday("", "UTC")
	if err != nil {
		t.Fatalf("ParseDateOrToday(\"\") failed: %v", err)
	}
	if !today.Equal(DateOnly(time.Now().UTC())) {
		t.Errorf("ParseDateOrToday(\"\") = %v, want today", today)
	}
}
