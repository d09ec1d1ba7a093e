package employee

import (
	"context"
	"errors"
	"fmt"
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

type fakeStore struct {
	StoreAPI
	employees map[string]Employee
	inserts   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{employees: map[string]Employee{}}
}

func (f *fakeStore) Insert(_ context.Context, employeeID, userID string, in CreateInput) (Employee, error) {
	if _, exists := f.employees[employeeID]; exists {
		return Employee{}, ErrDuplicate
	}
	f.inserts++
	emp := Employee{
		EmployeeID:  employeeID,
		UserID:      userID,
		Name:        in.Name,
		Email:       in.Email,
		Department:  in.Department,
		Position:    in.Position,
		JoiningDate: in.JoiningDate,
		Salary:      in.Salary,
		Status:      StatusActive,
	}
	f.employees[employeeID] = emp
	return emp, nil
}

func (f *fakeStore) LinkUser(_ context.Context, employeeID, userID string) error {
	emp, ok := f.employees[employeeID]
	if !ok {
		return ErrNotFound
	}
	emp.UserID = userID
	f.employees[employeeID] = emp
	return nil
}

func (f *fakeStore) GetByEmployeeID(_ context.Context, employeeID string) (Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return emp, nil
}

func (f *fakeStore) Delete(_ context.Context, employeeID string) error {
	if _, ok := f.employees[employeeID]; !ok {
		return ErrNotFound
	}
	delete(f.employees, employeeID)
	return nil
}

type fakeAccounts struct {
	created int
	emails  map[string]bool
}

func (f *fakeAccounts) CreateEmployeeAccount(_ context.Context, _, email, _ string) (string, error) {
	if f.emails == nil {
		f.emails = map[string]bool{}
	}
	if f.emails[email] {
		return "", ErrDuplicate
	}
	f.emails[email] = true
	f.created++
	return fmt.Sprintf("user-%d", f.created), nil
}

func newTestService(store *fakeStore, counters *fakeCounters) (*Service, *fakeAccounts) {
	accounts := &fakeAccounts{}
	return NewService(store, sequence.New(counters), accounts), accounts
}

func validInput() CreateInput {
	return CreateInput{
		Name:        "Ada Lovelace",
		Email:       "ada@example.com",
		Password:    "correct-horse",
		Department:  "Engineering",
		Position:    "Engineer",
		JoiningDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Salary:      5000,
	}
}

func TestCreateAssignsSequentialIDs(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, &fakeCounters{})

	first, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.EmployeeID != "EMP0000001" {
		t.Fatalf("expected EMP0000001, got %s", first.EmployeeID)
	}

	in := validInput()
	in.Email = "second@example.com"
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.EmployeeID != "EMP0000002" {
		t.Fatalf("expected EMP0000002, got %s", second.EmployeeID)
	}
}

func TestCreateValidatesBeforeAllocating(t *testing.T) {
	counters := &fakeCounters{}
	svc, accounts := newTestService(newFakeStore(), counters)

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing name", CreateInput{Email: "a@b.c", Password: "correct-horse", Department: "Eng", Position: "Dev", JoiningDate: time.Now()}},
		{"missing email", CreateInput{Name: "A", Password: "correct-horse", Department: "Eng", Position: "Dev", JoiningDate: time.Now()}},
		{"missing password", CreateInput{Name: "A", Email: "a@b.c", Department: "Eng", Position: "Dev", JoiningDate: time.Now()}},
		{"short password", CreateInput{Name: "A", Email: "a@b.c", Password: "short", Department: "Eng", Position: "Dev", JoiningDate: time.Now()}},
		{"zero joining date", CreateInput{Name: "A", Email: "a@b.c", Password: "correct-horse", Department: "Eng", Position: "Dev"}},
		{"negative salary", CreateInput{Name: "A", Email: "a@b.c", Password: "correct-horse", Department: "Eng", Position: "Dev", JoiningDate: time.Now(), Salary: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if len(counters.values) != 0 {
		t.Fatalf("rejected input must not burn sequence numbers, counters: %v", counters.values)
	}
	if accounts.created != 0 {
		t.Fatalf("rejected input must not create login accounts, got %d", accounts.created)
	}
}

func TestCreateProvisionsLoginAccount(t *testing.T) {
	store := newFakeStore()
	svc, accounts := newTestService(store, &fakeCounters{})

	emp, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if emp.UserID == "" {
		t.Fatal("created employee must carry the new account's user id")
	}
	if accounts.created != 1 {
		t.Fatalf("expected one account created, got %d", accounts.created)
	}

	in := validInput()
	if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for reused email, got %v", err)
	}
}

func TestProvisionAccountLinksEmployee(t *testing.T) {
	store := newFakeStore()
	store.employees["EMP0000001"] = Employee{
		EmployeeID: "EMP0000001",
		Name:       "Ada Lovelace",
		Email:      "ada@example.com",
		Status:     StatusActive,
	}
	svc, accounts := newTestService(store, &fakeCounters{})

	emp, err := svc.ProvisionAccount(context.Background(), "EMP0000001", "correct-horse")
	if err != nil {
		t.Fatalf("provision account: %v", err)
	}
	if emp.UserID == "" || store.employees["EMP0000001"].UserID != emp.UserID {
		t.Fatalf("account not linked, got %q", emp.UserID)
	}
	if accounts.created != 1 {
		t.Fatalf("expected one account created, got %d", accounts.created)
	}

	if _, err := svc.ProvisionAccount(context.Background(), "EMP0000001", "another-pass"); !errors.Is(err, ErrAccountLinked) {
		t.Fatalf("expected ErrAccountLinked on second provision, got %v", err)
	}
	if _, err := svc.ProvisionAccount(context.Background(), "EMP0000001", "short"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for short password, got %v", err)
	}
}

func TestCreateCapacityExceededNotPersisted(t *testing.T) {
	counters := &fakeCounters{values: map[string]int64{sequence.Employee.Counter: sequence.Employee.Max()}}
	store := newFakeStore()
	svc, _ := newTestService(store, counters)

	_, err := svc.Create(context.Background(), validInput())
	if !errors.Is(err, sequence.ErrCapacityExceeded) {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
	if store.inserts != 0 {
		t.Fatalf("capacity failure must not persist, got %d inserts", store.inserts)
	}
}

func TestDeletedIDIsNeverReused(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, &fakeCounters{})

	first, err := svc.Create(context.Background(), validInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), first.EmployeeID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	in := validInput()
	in.Email = "next@example.com"
	second, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if second.EmployeeID == first.EmployeeID {
		t.Fatalf("deleted id %s was reused", first.EmployeeID)
	}
}

func TestGetRejectsMalformedID(t *testing.T) {
	svc, _ := newTestService(newFakeStore(), &fakeCounters{})

	for _, id := range []string{"EMP001", "LVE0000001", "emp0000001", "EMP000000X"} {
		if _, err := svc.Get(context.Background(), id); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("id %q: expected ErrInvalidInput, got %v", id, err)
		}
	}
}

func TestSetStatusValidatesValue(t *testing.T) {
	store := newFakeStore()
	svc, _ := newTestService(store, &fakeCounters{})

	if err := svc.SetStatus(context.Background(), "EMP0000001", "retired"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
