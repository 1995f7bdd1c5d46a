package game

import (
	"math"
	"math/rand"
	"time"

	"matatu_empire/internal/models"
)

// Tuning constants for the per-tick economic model.
const (
	basePassengerRate   = 0.8
	baseFuelConsumption = 0.6
	baseConditionWear   = 0.4
	operatingCostShare  = 0.15
	capacityBaseline    = 14.0
)

// TickResult is the financial and wear outcome of one simulation tick for a
// single vehicle on a single route.
type TickResult struct {
	Profit        float64
	FuelConsumed  float64
	ConditionWear float64
	Passengers    int
}

// CalculateTick computes one tick's outcome. It is pure: the weather modifier
// snapshot and vehicle type are passed in, and the only randomness is the
// wear jitter drawn from the provided rng.
func CalculateTick(v *models.Vehicle, route *models.Route, vt *models.VehicleType, weather models.WeatherEffects, deltaTime float64, rng *rand.Rand) TickResult {
	if v == nil || route == nil || vt == nil || vt.Capacity <= 0 {
		return TickResult{}
	}

	passengerRate := basePassengerRate * weather.PassengerMultiplier
	passengerRate *= v.Condition / 100
	passengerRate *= float64(vt.Capacity) / capacityBaseline

	passengers := int(math.Floor(passengerRate * deltaTime * 10))
	if passengers > vt.Capacity {
		passengers = vt.Capacity
	}
	if passengers < 0 {
		passengers = 0
	}

	revenue := float64(passengers) * float64(route.Fare)
	profit := revenue - revenue*operatingCostShare
	if profit < 0 {
		profit = 0
	}

	fuelConsumed := baseFuelConsumption * weather.FuelMultiplier * deltaTime
	fuelConsumed *= 1 + float64(vt.Capacity)/20
	fuelConsumed *= 1.5 - v.Condition/200
	fuelConsumed = clamp(fuelConsumed, 0, v.Fuel)

	conditionWear := baseConditionWear * weather.BreakdownChance * deltaTime
	conditionWear *= 1 + rng.Float64()*0.5
	conditionWear *= 1 + float64(vt.Capacity)/30
	conditionWear = clamp(conditionWear, 0, v.Condition)

	return TickResult{
		Profit:        profit,
		FuelConsumed:  fuelConsumed,
		ConditionWear: conditionWear,
		Passengers:    passengers,
	}
}

// Economy owns the player ledger. All cash and reputation mutations go
// through it so clamping and accounting happen in exactly one place.
type Economy struct {
	player models.PlayerLedger
}

func NewEconomy(player models.PlayerLedger) *Economy {
	return &Economy{player: player}
}

// NewLedger is the starting ledger for a fresh game.
func NewLedger(startingCash int64) models.PlayerLedger {
	return models.PlayerLedger{
		Cash:              startingCash,
		Reputation:        50,
		BusinessStartDate: time.Now(),
	}
}

// Player returns a copy of the ledger.
func (e *Economy) Player() models.PlayerLedger {
	return e.player
}

// SetPlayer replaces the ledger wholesale, e.g. when restoring a snapshot.
func (e *Economy) SetPlayer(p models.PlayerLedger) {
	e.player = p
	e.player.Reputation = clampInt(e.player.Reputation, 0, 100)
}

// AddCash credits (or, with a negative amount, debits) the ledger. Positive
// amounts also feed the all-time earnings accumulator.
func (e *Economy) AddCash(amount int64) {
	e.player.Cash += amount
	if amount > 0 {
		e.player.TotalEarningsAllTime += amount
	}
}

// SpendCash deducts amount if the balance covers it. On failure nothing is
// mutated and false is returned.
func (e *Economy) SpendCash(amount int64) bool {
	if e.player.Cash < amount {
		return false
	}
	e.player.Cash -= amount
	return true
}

// UpdateDailyProfit adds to the daily accumulator; an external day-boundary
// collaborator resets it.
func (e *Economy) UpdateDailyProfit(delta int64) {
	e.player.DailyProfit += delta
}

// ResetDailyProfit zeroes the daily accumulator at a day boundary.
func (e *Economy) ResetDailyProfit() {
	e.player.DailyProfit = 0
}

// AdjustReputation applies a reputation delta, clamped to [0,100]. This is
// the sole clamp site; callers never clamp independently.
func (e *Economy) AdjustReputation(delta int) {
	e.player.Reputation = clampInt(e.player.Reputation+delta, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
