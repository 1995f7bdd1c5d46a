package game

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matatu_empire/internal/models"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")

	e := newTestEngine(t)
	e.eco.AddCash(100000)
	bought, err := e.PurchaseVehicle("matatu_sound", "City Hopper")
	require.NoError(t, err)
	require.NoError(t, e.AssignVehicle(bought.ID, "route2"))
	custom := e.CreateCustomRoute(
		models.Point{Name: "A", X: 0, Y: 0},
		models.Point{Name: "B", X: 700, Y: 0},
		nil,
	)
	e.weather.SetCurrent(models.WeatherFoggy)
	require.NoError(t, e.Save(path))

	// No stale temp file after the atomic rename.
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	loaded := NewEngine(Options{
		VehicleTypes: testTypes(),
		Routes:       standardRoutes(),
		Seed:         7,
	})
	require.NoError(t, loaded.Load(path))

	assert.Equal(t, e.Player().Cash, loaded.Player().Cash)
	assert.Equal(t, e.Player().Reputation, loaded.Player().Reputation)

	vehicles := loaded.Vehicles()
	require.Len(t, vehicles, 2)
	var restored *models.Vehicle
	for i := range vehicles {
		if vehicles[i].ID == bought.ID {
			restored = &vehicles[i]
		}
	}
	require.NotNil(t, restored)
	assert.Equal(t, "City Hopper", restored.Name)
	assert.Equal(t, "route2", restored.RouteID)
	assert.Equal(t, models.VehicleRunning, restored.Status)

	r2, ok := loaded.Route("route2")
	require.True(t, ok)
	assert.Equal(t, []int{bought.ID}, r2.AssignedVehicles, "assignment sets are rebuilt on load")

	restoredCustom, ok := loaded.Route(custom.ID)
	require.True(t, ok)
	assert.True(t, restoredCustom.Custom)
	assert.Equal(t, custom.Distance, restoredCustom.Distance)

	label, _ := loaded.Weather()
	assert.Equal(t, models.WeatherFoggy, label)
}

func TestLoadMissingFile(t *testing.T) {
	e := newTestEngine(t)
	err := e.Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	e := newTestEngine(t)
	assert.Error(t, e.Load(path))
}

func TestLoadOrNewFallsBackToFreshGame(t *testing.T) {
	e := NewEngine(Options{VehicleTypes: testTypes(), Routes: standardRoutes(), Seed: 1})
	loaded, err := e.LoadOrNew(filepath.Join(t.TempDir(), "nope.json"), 50000, "matatu_old")
	require.NoError(t, err)
	assert.False(t, loaded)

	assert.Equal(t, int64(50000), e.Player().Cash)
	assert.Equal(t, 50, e.Player().Reputation)
	require.Len(t, e.Vehicles(), 1)
	assert.Equal(t, 80.0, e.Vehicles()[0].Condition)
}

func TestLoadDropsDanglingRouteReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")

	e := newTestEngine(t)
	id := starterID(t, e)
	require.NoError(t, e.AssignVehicle(id, "route1"))
	require.NoError(t, e.Save(path))

	// Reload into a world whose catalog no longer has route1.
	loaded := NewEngine(Options{
		VehicleTypes: testTypes(),
		Routes:       []models.Route{{ID: "routeX", Name: "X", Fare: 50}},
		Seed:         1,
	})
	require.NoError(t, loaded.Load(path))

	v := loaded.Vehicles()[0]
	assert.Empty(t, v.RouteID, "references to missing routes are dropped")
	assert.Equal(t, models.VehicleIdle, v.Status)
}

func TestLoadDropsStaleAssignmentSetEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")

	// A snapshot whose custom route claims vehicles 1, 2 and 3, while only
	// 1 and 3 actually reference the route. The stale middle entry must not
	// survive reconciliation.
	snap := Snapshot{
		Version: snapshotVersion,
		Player:  NewLedger(50000),
		Vehicles: []models.Vehicle{
			{ID: 1, TypeID: "matatu_old", Name: "Old Reliable", Fuel: 100, Condition: 80, RouteID: "custom_x", Status: models.VehicleRunning},
			{ID: 2, TypeID: "matatu_old", Name: "Old Reliable", Fuel: 100, Condition: 80, Status: models.VehicleIdle},
			{ID: 3, TypeID: "matatu_old", Name: "Old Reliable", Fuel: 100, Condition: 80, RouteID: "custom_x", Status: models.VehicleRunning},
		},
		NextVehicleID: 4,
		CustomRoutes: []models.Route{
			{ID: "custom_x", Name: "A > B", Fare: 60, Distance: 7, Custom: true, AssignedVehicles: []int{1, 2, 3}},
		},
		Weather: models.WeatherSunny,
	}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	e := newTestEngine(t)
	require.NoError(t, e.Load(path))

	route, ok := e.Route("custom_x")
	require.True(t, ok)
	assert.ElementsMatch(t, []int{1, 3}, route.AssignedVehicles,
		"stale unassigned vehicle must not survive reconciliation")
}

func TestSnapshotVersionGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "savegame.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0o644))

	e := newTestEngine(t)
	assert.Error(t, e.Load(path))
}
