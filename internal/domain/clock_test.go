package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClock_Valid(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"08:30", "08:30"},
		{"8:30", "08:30"},
		{"7:5", "07:05"},
		{"00:00", "00:00"},
		{"23:59", "23:59"},
		{" 12:00 ", "12:00"},
	}
	for _, tc := range cases {
		c, err := ParseClock(tc.in)
		if err != nil {
			t.Fatalf("ParseClock(%q): %v", tc.in, err)
		}
		if got := c.String(); got != tc.want {
			t.Fatalf("ParseClock(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseClock_Invalid(t *testing.T) {
	for _, in := range []string{"", "25:61", "24:00", "12:60", "0830", "12:3a", "a:30", "12:30:00", "noon"} {
		if _, err := ParseClock(in); err == nil {
			t.Fatalf("ParseClock(%q): expected error", in)
		}
	}
}

func TestClock_JSONRoundTrip(t *testing.T) {
	c := Clock{Hour: 8, Minute: 5}
	data, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `"08:05"` {
		t.Fatalf("marshal = %s, want \"08:05\"", data)
	}
	var back Clock
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != c {
		t.Fatalf("round trip = %+v, want %+v", back, c)
	}
}

func TestNextOccurrence_LaterToday(t *testing.T) {
	now := time.Date(2025, time.May, 5, 7, 0, 0, 0, time.UTC)
	next := NextOccurrence(now, Clock{Hour: 8, Minute: 30})
	want := time.Date(2025, time.May, 5, 8, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrence_AlreadyPassedToday(t *testing.T) {
	now := time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)
	next := NextOccurrence(now, Clock{Hour: 8, Minute: 30})
	want := time.Date(2025, time.May, 6, 8, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrence_ExactlyNowRollsToTomorrow(t *testing.T) {
	now := time.Date(2025, time.May, 5, 8, 30, 0, 0, time.UTC)
	next := NextOccurrence(now, Clock{Hour: 8, Minute: 30})
	want := time.Date(2025, time.May, 6, 8, 30, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("next = %v, want %v", next, want)
	}
}

func TestNextOccurrence_KeepsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Taipei")
	if err != nil {
		t.Fatalf("load tz: %v", err)
	}
	now := time.Date(2025, time.May, 5, 23, 50, 0, 0, loc)
	next := NextOccurrence(now, Clock{Hour: 8, Minute: 0})
	if next.Location() != loc {
		t.Fatalf("location = %v, want %v", next.Location(), loc)
	}
	if next.Day() != 6 || next.Hour() != 8 {
		t.Fatalf("next = %v, want May 6 08:00 local", next)
	}
}
