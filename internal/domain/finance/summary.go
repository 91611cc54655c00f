package finance

import (
	"github.com/shopspring/decimal"
)

// Summary is the balance of a register derived from its movements
type Summary struct {
	OpeningBalance  decimal.Decimal
	TotalsByType    map[MovementType]decimal.Decimal
	TotalIn         decimal.Decimal
	TotalOut        decimal.Decimal
	Net             decimal.Decimal
	ExpectedBalance decimal.Decimal
	// SalesByMethod sums sale movements per payment method
	SalesByMethod map[string]decimal.Decimal
	MovementCount int
}

// Summarize computes the summary from scratch. TotalOut is reported as a positive magnitude.
func Summarize(opening decimal.Decimal, movements []CashMovement) Summary {
	s := Summary{
		OpeningBalance: opening,
		TotalsByType:   make(map[MovementType]decimal.Decimal, len(AllMovementTypes())),
		TotalIn:        decimal.Zero,
		TotalOut:       decimal.Zero,
		Net:            decimal.Zero,
		SalesByMethod:  make(map[string]decimal.Decimal),
		MovementCount:  len(movements),
	}
	for _, t := range AllMovementTypes() {
		s.TotalsByType[t] = decimal.Zero
	}

	for i := range movements {
		m := &movements[i]
		signed := m.Signed()
		s.TotalsByType[m.Type] = s.TotalsByType[m.Type].Add(signed)
		if signed.IsNegative() {
			s.TotalOut = s.TotalOut.Add(signed.Neg())
		} else {
			s.TotalIn = s.TotalIn.Add(signed)
		}
		s.Net = s.Net.Add(signed)
		if m.Type == MovementSale {
			s.SalesByMethod[m.PaymentMethod] = s.SalesByMethod[m.PaymentMethod].Add(m.Amount)
		}
	}
	s.ExpectedBalance = opening.Add(s.Net)
	return s
}
