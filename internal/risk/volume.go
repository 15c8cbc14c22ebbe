package risk

import (
	"github.com/shopspring/decimal"
	"github.com/tathienbao/trading-server/internal/types"
)

// MoneyToRisk returns the fraction of the balance that may be lost on a
// single trade.
func MoneyToRisk(balance types.Money, riskRatio decimal.Decimal) types.Money {
	return types.Money{
		Amount:   balance.Amount.Mul(riskRatio),
		Currency: balance.Currency,
	}
}

// VolumeForTrade calculates the volume, in base units, for which losing
// stopLossDistance of price movement costs exactly moneyToRisk.
//
//	lossPerUnit = pipValue * stopLossDistanceInPipettes
//	volume      = moneyToRisk / lossPerUnit
func VolumeForTrade(pipValue, stopLossDistance decimal.Decimal, moneyToRisk types.Money) int64 {
	distanceInPipettes := stopLossDistance.Div(pipette)
	lossPerUnit := pipValue.Mul(distanceInPipettes)
	if lossPerUnit.LessThanOrEqual(decimal.Zero) {
		return 0
	}
	return moneyToRisk.Amount.Div(lossPerUnit).IntPart()
}

// RoundToStep rounds the volume down to the nearest multiple of stepSize.
// The result never exceeds the input: rounding must not over-risk.
func RoundToStep(volume, stepSize int64) int64 {
	if stepSize <= 0 {
		return volume
	}
	return volume - volume%stepSize
}
