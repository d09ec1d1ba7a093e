package salary

import "testing"

func TestGrossAndNet(t *testing.T) {
	allowances := Allowances{HRA: 100, DA: 50}
	deductions := Deductions{Tax: 80}
	overtime := Overtime{Hours: 2, Rate: 10, Amount: 20}

	gross := Gross(1000, allowances, overtime, 30)
	if gross != 1200 {
		t.Fatalf("expected gross 1200, got %v", gross)
	}
	net := Net(1000, allowances, deductions, overtime, 30)
	if net != 1120 {
		t.Fatalf("expected net 1120, got %v", net)
	}
}

func TestComponentTotals(t *testing.T) {
	allowances := Allowances{HRA: 1, DA: 2, Transport: 3, Medical: 4}
	if allowances.Total() != 10 {
		t.Fatalf("expected allowances total 10, got %v", allowances.Total())
	}
	deductions := Deductions{Tax: 5, Insurance: 6, Other: 7}
	if deductions.Total() != 18 {
		t.Fatalf("expected deductions total 18, got %v", deductions.Total())
	}
}

func TestZeroComponents(t *testing.T) {
	if gross := Gross(1000, Allowances{}, Overtime{}, 0); gross != 1000 {
		t.Fatalf("expected gross to equal basic, got %v", gross)
	}
	if net := Net(1000, Allowances{}, Deductions{}, Overtime{}, 0); net != 1000 {
		t.Fatalf("expected net to equal basic, got %v", net)
	}
}
