package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matatu_empire/internal/models"
)

func standardRoutes() []models.Route {
	return []models.Route{
		{ID: "route1", Name: "CBD - Westlands", Fare: 50},
		{ID: "route2", Name: "CBD - Eastleigh", Fare: 75},
		{ID: "route3", Name: "CBD - Rongai"},
	}
}

func TestNewRouteRegistryDefaults(t *testing.T) {
	r := NewRouteRegistry(standardRoutes())
	for _, route := range r.StandardRoutes() {
		assert.NotNil(t, route.AssignedVehicles)
	}
	r3, ok := r.Route("route3")
	require.True(t, ok)
	assert.Equal(t, int64(50), r3.Fare, "missing fare falls back to the base fare")
}

func TestCreateCustomRouteDerivedFields(t *testing.T) {
	r := NewRouteRegistry(standardRoutes())

	start := models.Point{Name: "Kawangware", X: 0, Y: 0}
	end := models.Point{Name: "Gikambura", X: 500, Y: 0}
	route := r.CreateCustomRoute(start, end, nil)

	assert.True(t, strings.HasPrefix(route.ID, "custom_"))
	assert.True(t, route.Custom)
	assert.Equal(t, "Kawangware > Gikambura", route.Name)
	// 500 map units at 50 units/km = 10 km
	assert.Equal(t, 10, route.Distance)
	assert.Equal(t, int64(10*5+30), route.Fare)
	assert.Equal(t, 6, route.PassengerFlow)
	assert.Equal(t, 4, route.Risk)
	assert.NotNil(t, route.AssignedVehicles)

	found, ok := r.Route(route.ID)
	require.True(t, ok)
	assert.Equal(t, route.ID, found.ID)
}

func TestCreateCustomRouteMinimumDistance(t *testing.T) {
	r := NewRouteRegistry(nil)
	route := r.CreateCustomRoute(models.Point{X: 0, Y: 0}, models.Point{X: 10, Y: 0}, nil)
	assert.Equal(t, 5, route.Distance, "very short chains still cost a minimum distance")
}

func TestCreateCustomRouteWaypointsRaiseFlowAndRisk(t *testing.T) {
	r := NewRouteRegistry(nil)
	waypoints := []models.Point{{X: 500, Y: 500}, {X: 1000, Y: 0}, {X: 1500, Y: 500}}
	route := r.CreateCustomRoute(models.Point{X: 0, Y: 0}, models.Point{X: 2000, Y: 0}, waypoints)

	assert.GreaterOrEqual(t, route.PassengerFlow, 6)
	assert.LessOrEqual(t, route.PassengerFlow, 10)
	assert.GreaterOrEqual(t, route.Risk, 2)
	assert.LessOrEqual(t, route.Risk, 9)
	assert.Len(t, route.Waypoints, 3)
}

func TestDeleteCustomRoute(t *testing.T) {
	r := NewRouteRegistry(standardRoutes())

	_, err := r.DeleteCustomRoute("route1")
	assert.ErrorIs(t, err, ErrRouteProtected)

	_, err = r.DeleteCustomRoute("custom_nope")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	route := r.CreateCustomRoute(models.Point{X: 0, Y: 0}, models.Point{X: 500, Y: 0}, nil)
	r.AttachVehicle(route.ID, 3)
	r.AttachVehicle(route.ID, 9)

	assigned, err := r.DeleteCustomRoute(route.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{3, 9}, assigned)
	_, ok := r.Route(route.ID)
	assert.False(t, ok)
}

func TestAttachDetachVehicle(t *testing.T) {
	r := NewRouteRegistry(standardRoutes())

	require.True(t, r.AttachVehicle("route1", 1))
	require.True(t, r.AttachVehicle("route1", 1), "attach is idempotent")
	route, _ := r.Route("route1")
	assert.Equal(t, []int{1}, route.AssignedVehicles)

	r.DetachVehicle("route1", 1)
	route, _ = r.Route("route1")
	assert.Empty(t, route.AssignedVehicles)

	assert.False(t, r.AttachVehicle("nope", 1))
}
