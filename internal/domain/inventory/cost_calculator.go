package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras una entrada de mercancía:
// (onHand*currentCost + incoming*incomingCost) / (onHand + incoming).
// Sin unidades resultantes el costo es cero.
func WeightedAverageCost(onHand int, currentCost decimal.Decimal, incoming int, incomingCost decimal.Decimal) decimal.Decimal {
	total := onHand + incoming
	if total <= 0 {
		return decimal.Zero
	}
	value := currentCost.Mul(decimal.NewFromInt(int64(onHand))).
		Add(incomingCost.Mul(decimal.NewFromInt(int64(incoming))))
	return value.Div(decimal.NewFromInt(int64(total)))
}
