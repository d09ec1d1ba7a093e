package leave

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCalculateDaysInclusive(t *testing.T) {
	cases := []struct {
		name  string
		start time.Time
		end   time.Time
		want  float64
	}{
		{"five day span", date(2024, 3, 1), date(2024, 3, 5), 5},
		{"single day", date(2024, 3, 1), date(2024, 3, 1), 1},
		{"across month boundary", date(2024, 2, 28), date(2024, 3, 2), 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateDays(tc.start, tc.end)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v days, got %v", tc.want, got)
			}
		})
	}
}

func TestCalculateDaysEndBeforeStart(t *testing.T) {
	if _, err := CalculateDays(date(2024, 3, 5), date(2024, 3, 1)); err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestCalculateTotalDaysHalfDays(t *testing.T) {
	cases := []struct {
		name      string
		start     time.Time
		end       time.Time
		startHalf bool
		endHalf   bool
		want      float64
		wantErr   bool
	}{
		{"no half days", date(2024, 3, 1), date(2024, 3, 5), false, false, 5, false},
		{"half start", date(2024, 3, 1), date(2024, 3, 5), true, false, 4.5, false},
		{"half end", date(2024, 3, 1), date(2024, 3, 5), false, true, 4.5, false},
		{"half both", date(2024, 3, 1), date(2024, 3, 5), true, true, 4, false},
		{"single half day", date(2024, 3, 1), date(2024, 3, 1), true, false, 0.5, false},
		{"single day both halves", date(2024, 3, 1), date(2024, 3, 1), true, true, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CalculateTotalDays(tc.start, tc.end, tc.startHalf, tc.endHalf)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %v days, got %v", tc.want, got)
			}
		})
	}
}
