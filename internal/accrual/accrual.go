// Package accrual converts play time into credits.
//
// The accrual rate for a game is a step function of the cumulative hours a
// user has played it: the base rate applies for the first half-life worth of
// hours, half of it for the next, a quarter after that, and so on. A session
// that crosses bracket edges is split and each part earns at its bracket's
// rate. All arithmetic is exact, so splitting a session never changes the
// total it earns.
package accrual

import (
	"github.com/shopspring/decimal"
)

// MaxHalvings bounds the number of brackets walked. Past it the rate is
// treated as zero.
const MaxHalvings = 64

var half = decimal.New(5, -1)

// Credits returns the credits earned by a session of sessionHours, given the
// user's priorHours on the same game and the game's base rate and optional
// half-life. A nil or non-positive half-life means no decay.
func Credits(sessionHours, priorHours, baseRate decimal.Decimal, halfLife *decimal.Decimal) decimal.Decimal {
	if !sessionHours.IsPositive() {
		return decimal.Zero
	}
	if halfLife == nil || !halfLife.IsPositive() {
		return sessionHours.Mul(baseRate)
	}
	if priorHours.IsNegative() {
		priorHours = decimal.Zero
	}

	hl := *halfLife
	pos := priorHours
	end := priorHours.Add(sessionHours)

	k := bracket(pos, hl)
	if k >= MaxHalvings {
		return decimal.Zero
	}
	rate := halved(baseRate, k)

	total := decimal.Zero
	for pos.LessThan(end) && k < MaxHalvings {
		edge := hl.Mul(decimal.NewFromInt(k + 1))
		segEnd := decimal.Min(edge, end)

		total = total.Add(segEnd.Sub(pos).Mul(rate))

		pos = segEnd
		k++
		rate = rate.Mul(half)
	}
	return total
}

// Rate returns the instantaneous accrual rate after cumulative hours of play
func Rate(cumulativeHours, baseRate decimal.Decimal, halfLife *decimal.Decimal) decimal.Decimal {
	if halfLife == nil || !halfLife.IsPositive() {
		return baseRate
	}
	if cumulativeHours.IsNegative() {
		cumulativeHours = decimal.Zero
	}
	k := bracket(cumulativeHours, *halfLife)
	if k >= MaxHalvings {
		return decimal.Zero
	}
	return halved(baseRate, k)
}

// halved returns rate / 2^k, exactly
func halved(rate decimal.Decimal, k int64) decimal.Decimal {
	for i := int64(0); i < k; i++ {
		rate = rate.Mul(half)
	}
	return rate
}

// bracket returns k such that k*hl <= hours < (k+1)*hl, capped at MaxHalvings
func bracket(hours, hl decimal.Decimal) int64 {
	if hl.Mul(decimal.NewFromInt(MaxHalvings)).LessThanOrEqual(hours) {
		return MaxHalvings
	}
	// Division is rounded to DivisionPrecision; correct the estimate exactly
	k := hours.Div(hl).Floor().IntPart()
	if k >= MaxHalvings {
		k = MaxHalvings - 1
	}
	for k > 0 && hl.Mul(decimal.NewFromInt(k)).GreaterThan(hours) {
		k--
	}
	for k < MaxHalvings && hl.Mul(decimal.NewFromInt(k+1)).LessThanOrEqual(hours) {
		k++
	}
	return k
}
