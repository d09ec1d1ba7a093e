package salary

type Allowances struct {
	HRA       float64 `json:"hra"`
	DA        float64 `json:"da"`
	Transport float64 `json:"transport"`
	Medical   float64 `json:"medical"`
}

func (a Allowances) Total() float64 {
	return a.HRA + a.DA + a.Transport + a.Medical
}

type Deductions struct {
	Tax       float64 `json:"tax"`
	Insurance float64 `json:"insurance"`
	Other     float64 `json:"other"`
}

func (d Deductions) Total() float64 {
	return d.Tax + d.Insurance + d.Other
}

type Overtime struct {
	Hours  float64 `json:"hours"`
	Rate   float64 `json:"rate"`
	Amount float64 `json:"amount"`
}

// Gross is basic plus all earnings. Net subtracts the deductions. Both
// are derived on read and never stored.
func Gross(basic float64, allowances Allowances, overtime Overtime, bonus float64) float64 {
	return basic + allowances.Total() + overtime.Amount + bonus
}

func Net(basic float64, allowances Allowances, deductions Deductions, overtime Overtime, bonus float64) float64 {
	return Gross(basic, allowances, overtime, bonus) - deductions.Total()
}
