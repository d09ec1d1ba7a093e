package salary

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

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

type periodKey struct {
	employeeID  string
	month, year int
}

type fakeStore struct {
	StoreAPI
	byPeriod map[periodKey]Salary
	byID     map[string]periodKey
}

func newFakeStore() *fakeStore {
	return &fakeStore{byPeriod: map[periodKey]Salary{}, byID: map[string]periodKey{}}
}

func (f *fakeStore) Insert(_ context.Context, salaryID string, in CreateInput) (Salary, error) {
	key := periodKey{in.EmployeeID, in.Month, in.Year}
	if _, exists := f.byPeriod[key]; exists {
		return Salary{}, ErrDuplicatePeriod
	}
	sal := Salary{
		SalaryID:    salaryID,
		EmployeeID:  in.EmployeeID,
		Month:       in.Month,
		Year:        in.Year,
		BasicSalary: in.BasicSalary,
		Allowances:  in.Allowances,
		Deductions:  in.Deductions,
		Overtime:    in.Overtime,
		Bonus:       in.Bonus,
		Status:      StatusPending,
	}
	f.byPeriod[key] = sal
	f.byID[salaryID] = key
	return sal, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, salaryID, status string) (Salary, error) {
	key, ok := f.byID[salaryID]
	if !ok {
		return Salary{}, ErrNotPending
	}
	sal := f.byPeriod[key]
	if sal.Status != StatusPending {
		return Salary{}, ErrNotPending
	}
	sal.Status = status
	f.byPeriod[key] = sal
	return sal, nil
}

func validInput() CreateInput {
	return CreateInput{
		EmployeeID:  "EMP0000001",
		Month:       3,
		Year:        2024,
		BasicSalary: 1000,
		Allowances:  Allowances{HRA: 100, DA: 50},
		Deductions:  Deductions{Tax: 80},
		Overtime:    Overtime{Hours: 2, Rate: 10, Amount: 20},
		Bonus:       30,
	}
}

func TestCreateAllocatesSALID(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	sal, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if sal.SalaryID != "SAL0000001" {
		t.Fatalf("expected SAL0000001, got %s", sal.SalaryID)
	}
	if sal.Status != StatusPending {
		t.Fatalf("expected pending, got %s", sal.Status)
	}
}

func TestCreateRejectsDuplicatePeriod(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	if _, err := svc.Create(context.Background(), validInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(context.Background(), validInput()); !errors.Is(err, ErrDuplicatePeriod) {
		t.Fatalf("expected ErrDuplicatePeriod, got %v", err)
	}
}

func TestCreateValidatesPeriod(t *testing.T) {
	counters := &fakeCounters{}
	svc := NewService(newFakeStore(), sequence.New(counters))

	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"month zero", func(in *CreateInput) { in.Month = 0 }},
		{"month thirteen", func(in *CreateInput) { in.Month = 13 }},
		{"ancient year", func(in *CreateInput) { in.Year = 1999 }},
		{"negative basic", func(in *CreateInput) { in.BasicSalary = -1 }},
		{"missing employee", func(in *CreateInput) { in.EmployeeID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
	if len(counters.values) != 0 {
		t.Fatal("rejected input must not burn sequence numbers")
	}
}

func TestStatusTransitions(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	sal, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.SetStatus(context.Background(), sal.SalaryID, "refunded"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}

	paid, err := svc.SetStatus(context.Background(), sal.SalaryID, StatusPaid)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != StatusPaid {
		t.Fatalf("expected paid, got %s", paid.Status)
	}

	if _, err := svc.SetStatus(context.Background(), sal.SalaryID, StatusCancelled); !errors.Is(err, ErrNotPending) {
		t.Fatalf("expected ErrNotPending after payment, got %v", err)
	}
}

func TestMarshalAddsDerivedTotals(t *testing.T) {
	sal := Salary{
		SalaryID:    "SAL0000001",
		EmployeeID:  "EMP0000001",
		Month:       3,
		Year:        2024,
		BasicSalary: 1000,
		Allowances:  Allowances{HRA: 100, DA: 50},
		Deductions:  Deductions{Tax: 80},
		Overtime:    Overtime{Amount: 20},
		Bonus:       30,
		Status:      StatusPending,
	}
	data, err := json.Marshal(sal)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out["grossSalary"] != float64(1200) {
		t.Fatalf("expected grossSalary 1200, got %v", out["grossSalary"])
	}
	if out["netSalary"] != float64(1120) {
		t.Fatalf("expected netSalary 1120, got %v", out["netSalary"])
	}
	if out["totalAllowances"] != float64(150) {
		t.Fatalf("expected totalAllowances 150, got %v", out["totalAllowances"])
	}
}

func TestPayslipPDFProducesDocument(t *testing.T) {
	svc := NewService(newFakeStore(), sequence.New(&fakeCounters{}))

	sal := Salary{SalaryID: "SAL0000001", EmployeeID: "EMP0000001", Month: 3, Year: 2024, BasicSalary: 1000}
	data, err := svc.PayslipPDF(context.Background(), sal, "Ada Lovelace")
	if err != nil {
		t.Fatalf("payslip: %v", err)
	}
	if len(data) == 0 || string(data[:5]) != "%PDF-" {
		t.Fatalf("expected a PDF document, got %d bytes", len(data))
	}
}
