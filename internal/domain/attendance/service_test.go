package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ems/internal/platform/sequence"
)

type fakeCounters struct {
	mu     sync.Mutex
	values map[string]int64
}

func (f *fakeCounters) NextValue(_ context.Context, name string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.values == nil {
		f.values = map[string]int64{}
	}
	f.values[name]++
	return f.values[name], nil
}

type dayKey struct {
	employeeID string
	date       time.Time
}

type fakeStore struct {
	StoreAPI
	byDay map[dayKey]Record
	byID  map[string]dayKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{byDay: map[dayKey]Record{}, byID: map[string]dayKey{}}
}

func (f *fakeStore) Insert(_ context.Context, r Record) (Record, error) {
	key := dayKey{r.EmployeeID, r.Date}
	if _, exists := f.byDay[key]; exists {
		return Record{}, ErrAlreadyCheckedIn
	}
	f.byDay[key] = r
	f.byID[r.AttendanceID] = key
	return r, nil
}

func (f *fakeStore) FindByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (Record, error) {
	r, ok := f.byDay[dayKey{employeeID, date}]
	if !ok {
		return Record{}, ErrNotFound
	}
	return r, nil
}

func (f *fakeStore) SetCheckOut(_ context.Context, attendanceID string, checkOut time.Time, location string, totalHours, overtime float64) (Record, error) {
	key, ok := f.byID[attendanceID]
	if !ok {
		return Record{}, ErrNotFound
	}
	r := f.byDay[key]
	r.CheckOut = &checkOut
	r.CheckOutLocation = location
	r.TotalHours = totalHours
	r.Overtime = overtime
	f.byDay[key] = r
	return r, nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	svc := NewService(store, sequence.New(&fakeCounters{}), 8, 9)
	svc.now = func() time.Time { return now }
	return svc
}

func TestCheckInAllocatesIDAndStatus(t *testing.T) {
	cases := []struct {
		name       string
		clock      time.Time
		wantStatus string
	}{
		{"on time", time.Date(2024, 3, 4, 8, 45, 0, 0, time.UTC), StatusPresent},
		{"exactly nine", time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC), StatusPresent},
		{"late", time.Date(2024, 3, 4, 9, 1, 0, 0, time.UTC), StatusLate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := newTestService(newFakeStore(), tc.clock)
			r, err := svc.CheckIn(context.Background(), "EMP0000001", "office")
			if err != nil {
				t.Fatalf("check-in: %v", err)
			}
			if r.AttendanceID != "ATT0000001" {
				t.Fatalf("expected ATT0000001, got %s", r.AttendanceID)
			}
			if r.Status != tc.wantStatus {
				t.Fatalf("expected status %s, got %s", tc.wantStatus, r.Status)
			}
			if r.TotalHours != 0 || r.Overtime != 0 {
				t.Fatalf("hours must stay 0 before check-out, got %v/%v", r.TotalHours, r.Overtime)
			}
		})
	}
}

func TestCheckInUsesUTCDayForDateAndLateness(t *testing.T) {
	// Local clock reads 09:30 on March 5th, but in UTC it is still
	// 23:30 on March 4th. Both the stored day and the lateness
	// decision must follow the UTC day.
	zone := time.FixedZone("UTC+10", 10*60*60)
	clock := time.Date(2024, 3, 5, 9, 30, 0, 0, zone)

	store := newFakeStore()
	svc := newTestService(store, clock)
	r, err := svc.CheckIn(context.Background(), "EMP0000001", "office")
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}

	wantDay := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if !r.Date.Equal(wantDay) {
		t.Fatalf("expected record day %v, got %v", wantDay, r.Date)
	}
	if r.Status != StatusLate {
		t.Fatalf("expected late at 23:30 UTC, got %s", r.Status)
	}

	// Check-out a little later, still 23:45 UTC on the same day.
	svc.now = func() time.Time { return clock.Add(15 * time.Minute) }
	if _, err := svc.CheckOut(context.Background(), "EMP0000001", "office"); err != nil {
		t.Fatalf("check-out on same UTC day: %v", err)
	}
}

func TestSecondCheckInSameDayRejected(t *testing.T) {
	svc := newTestService(newFakeStore(), time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))

	if _, err := svc.CheckIn(context.Background(), "EMP0000001", "office"); err != nil {
		t.Fatalf("first check-in: %v", err)
	}
	if _, err := svc.CheckIn(context.Background(), "EMP0000001", "office"); !errors.Is(err, ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestCheckOutComputesHours(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC))

	if _, err := svc.CheckIn(context.Background(), "EMP0000001", "office"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	svc.now = func() time.Time { return time.Date(2024, 3, 4, 17, 30, 0, 0, time.UTC) }
	r, err := svc.CheckOut(context.Background(), "EMP0000001", "office")
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if r.TotalHours != 8.5 {
		t.Fatalf("expected 8.5 hours, got %v", r.TotalHours)
	}
	if r.Overtime != 0.5 {
		t.Fatalf("expected 0.5 overtime, got %v", r.Overtime)
	}

	if _, err := svc.CheckOut(context.Background(), "EMP0000001", "office"); !errors.Is(err, ErrAlreadyOut) {
		t.Fatalf("expected ErrAlreadyOut, got %v", err)
	}
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	svc := newTestService(newFakeStore(), time.Date(2024, 3, 4, 17, 0, 0, 0, time.UTC))

	if _, err := svc.CheckOut(context.Background(), "EMP0000001", "office"); !errors.Is(err, ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
}

func TestBulkCreateSkipsExistingDays(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(store, time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC))

	if _, err := svc.CheckIn(context.Background(), "EMP0000001", "office"); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	created, skipped, err := svc.BulkCreate(context.Background(), []BulkEntry{
		{EmployeeID: "EMP0000001", Date: day, Status: StatusPresent},
		{EmployeeID: "EMP0000002", Date: day, Status: StatusAbsent},
	})
	if err != nil {
		t.Fatalf("bulk create: %v", err)
	}
	if len(created) != 1 || created[0].EmployeeID != "EMP0000002" {
		t.Fatalf("expected one created record for EMP0000002, got %v", created)
	}
	if len(skipped) != 1 || skipped[0].EmployeeID != "EMP0000001" {
		t.Fatalf("expected EMP0000001 skipped, got %v", skipped)
	}
}

func TestBulkCreateRejectsUnknownStatus(t *testing.T) {
	svc := newTestService(newFakeStore(), time.Now())

	_, _, err := svc.BulkCreate(context.Background(), []BulkEntry{
		{EmployeeID: "EMP0000001", Date: time.Now(), Status: "vacationing"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
