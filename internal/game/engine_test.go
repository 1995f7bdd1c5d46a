package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matatu_empire/internal/models"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := NewEngine(Options{
		VehicleTypes: testTypes(),
		Routes:       standardRoutes(),
		Seed:         42,
	})
	e.NewGame(50000, "matatu_old")
	return e
}

func starterID(t *testing.T, e *Engine) int {
	t.Helper()
	vehicles := e.Vehicles()
	require.NotEmpty(t, vehicles)
	return vehicles[0].ID
}

func TestNewGameState(t *testing.T) {
	e := newTestEngine(t)

	p := e.Player()
	assert.Equal(t, int64(50000), p.Cash)
	assert.Equal(t, 50, p.Reputation)

	vehicles := e.Vehicles()
	require.Len(t, vehicles, 1)
	assert.Equal(t, "matatu_old", vehicles[0].TypeID)
	assert.Equal(t, 100.0, vehicles[0].Fuel)
	assert.Equal(t, 80.0, vehicles[0].Condition)
	assert.Equal(t, models.VehicleIdle, vehicles[0].Status)

	label, fx := e.Weather()
	assert.Equal(t, models.WeatherSunny, label)
	assert.Equal(t, 1.0, fx.PassengerMultiplier)
}

func TestEconomyTickThrottledToOneSecond(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)
	require.NoError(t, e.AssignVehicle(id, "route1"))
	before := e.Player().Cash

	e.Advance(0.5)
	assert.Equal(t, before, e.Player().Cash, "sub-second accumulation must not tick")

	e.Advance(0.5)
	assert.Greater(t, e.Player().Cash, before, "full second of accumulated time ticks the economy")
}

func TestEconomyTickEarnings(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)
	require.NoError(t, e.AssignVehicle(id, "route1"))

	e.Advance(1.0)

	// Condition 80 on a capacity-14 vehicle in sunny weather:
	// floor(0.8 * 0.8 * 10) = 6 passengers, 6*50 fare less 15% = 255.
	p := e.Player()
	assert.Equal(t, int64(50255), p.Cash)
	assert.Equal(t, int64(255), p.DailyProfit)
	assert.Equal(t, int64(255), p.TotalEarningsAllTime)

	v := e.Vehicles()[0]
	assert.Equal(t, 6, v.Passengers)
	assert.Equal(t, int64(255), v.TotalEarnings)
	assert.Less(t, v.Fuel, 100.0)
	assert.Less(t, v.Condition, 80.0)
}

func TestIdleVehicleEarnsNothing(t *testing.T) {
	e := newTestEngine(t)
	before := e.Player().Cash
	e.Advance(1.0)
	assert.Equal(t, before, e.Player().Cash)
}

func TestAssignUnassignKeepsRouteSetsConsistent(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)

	require.NoError(t, e.AssignVehicle(id, "route1"))
	r1, _ := e.Route("route1")
	assert.Equal(t, []int{id}, r1.AssignedVehicles)

	// Reassigning moves the vehicle between assignment sets.
	require.NoError(t, e.AssignVehicle(id, "route2"))
	r1, _ = e.Route("route1")
	r2, _ := e.Route("route2")
	assert.Empty(t, r1.AssignedVehicles)
	assert.Equal(t, []int{id}, r2.AssignedVehicles)

	require.NoError(t, e.UnassignVehicle(id))
	r2, _ = e.Route("route2")
	assert.Empty(t, r2.AssignedVehicles)
	assert.Equal(t, models.VehicleIdle, e.Vehicles()[0].Status)
}

func TestAssignUnknownRoute(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.AssignVehicle(starterID(t, e), "route99"), ErrUnknownRoute)
}

func TestOutOfFuelForcesUnassignment(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)
	require.NoError(t, e.AssignVehicle(id, "route1"))

	var notes []models.Notification
	e.SetNotifier(NotifierFunc(func(n models.Notification) { notes = append(notes, n) }))

	v, _ := e.fleet.Vehicle(id)
	v.Fuel = 0.1

	e.Advance(1.0)

	got := e.Vehicles()[0]
	assert.Equal(t, models.VehicleOutOfFuel, got.Status)
	assert.Empty(t, got.RouteID)
	r1, _ := e.Route("route1")
	assert.Empty(t, r1.AssignedVehicles, "a stranded vehicle leaves the route's assignment set")

	require.NotEmpty(t, notes)
	assert.Equal(t, models.SeverityError, notes[len(notes)-1].Severity)
}

func TestPausedEngineSkipsEconomyButNotWeather(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)
	require.NoError(t, e.AssignVehicle(id, "route1"))
	e.SetPaused(true)

	before := e.Player().Cash
	e.Advance(1.0)
	assert.Equal(t, before, e.Player().Cash, "paused engine does not run the economy")

	// Weather keeps its own clock even while paused.
	for i := 0; i < 70; i++ {
		e.Advance(1.0)
	}
	label, _ := e.Weather()
	assert.NotEqual(t, models.WeatherSunny, label)
	assert.Equal(t, before, e.Player().Cash)
}

func TestPurchaseAndSellThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	e.eco.AddCash(100000)

	v, err := e.PurchaseVehicle("matatu_sound", "")
	require.NoError(t, err)
	assert.Equal(t, int64(70000), e.Player().Cash)
	assert.Len(t, e.Vehicles(), 2)

	price, err := e.SellVehicle(v.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(48000), price)
	assert.Len(t, e.Vehicles(), 1)
}

func TestSellAssignedVehicleRejected(t *testing.T) {
	e := newTestEngine(t)
	e.eco.AddCash(100000)
	v, err := e.PurchaseVehicle("matatu_sound", "")
	require.NoError(t, err)
	require.NoError(t, e.AssignVehicle(v.ID, "route1"))

	_, err = e.SellVehicle(v.ID)
	assert.ErrorIs(t, err, ErrVehicleRunning)
}

func TestDeleteRouteUnassignsVehicles(t *testing.T) {
	e := newTestEngine(t)
	id := starterID(t, e)

	route := e.CreateCustomRoute(
		models.Point{Name: "A", X: 0, Y: 0},
		models.Point{Name: "B", X: 600, Y: 0},
		nil,
	)
	require.NoError(t, e.AssignVehicle(id, route.ID))

	require.NoError(t, e.DeleteRoute(route.ID))
	_, ok := e.Route(route.ID)
	assert.False(t, ok)
	got := e.Vehicles()[0]
	assert.Empty(t, got.RouteID)
	assert.Equal(t, models.VehicleIdle, got.Status)
}

func TestDeleteStandardRouteRejected(t *testing.T) {
	e := newTestEngine(t)
	assert.ErrorIs(t, e.DeleteRoute("route1"), ErrRouteProtected)
}

func TestResolveEventThroughEngine(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.ResolveEvent("bribe")
	assert.ErrorIs(t, err, ErrNoActiveEvent)

	e.events.current = &models.ActiveEvent{
		InstanceID: "test",
		Choices:    []models.EventChoice{{Action: "accept", Bonus: 1000}},
	}
	outcome, err := e.ResolveEvent("accept")
	require.NoError(t, err)
	assert.Equal(t, models.SeveritySuccess, outcome.Severity)
	assert.Equal(t, int64(51000), e.Player().Cash)
	assert.Nil(t, e.ActiveEvent())
}

func TestViewSnapshot(t *testing.T) {
	e := newTestEngine(t)
	view := e.View()

	assert.Equal(t, int64(50000), view.Player.Cash)
	assert.Len(t, view.Vehicles, 1)
	assert.Len(t, view.Routes, 3)
	assert.Equal(t, models.WeatherSunny, view.Weather)
	assert.Nil(t, view.ActiveEvent)
	assert.False(t, view.Paused)
}

func TestPhasePanicIsIsolated(t *testing.T) {
	e := newTestEngine(t)
	// A running vehicle with a dangling route id exercises the lookup guard
	// rather than panicking the economy phase.
	v, _ := e.fleet.Vehicle(starterID(t, e))
	v.RouteID = "ghost"
	v.Status = models.VehicleRunning

	assert.NotPanics(t, func() { e.Advance(1.0) })
}
