package game

import (
	"math"

	"github.com/google/uuid"

	"matatu_empire/internal/models"
)

// Geometry scale: map units per simulated kilometre.
const mapUnitsPerKm = 50.0

// RouteRegistry owns the standard route catalog and the player-created
// custom routes, plus the route side of assignment bookkeeping.
type RouteRegistry struct {
	standard []models.Route
	custom   []models.Route
}

func NewRouteRegistry(standard []models.Route) *RouteRegistry {
	routes := append([]models.Route(nil), standard...)
	for i := range routes {
		if routes[i].AssignedVehicles == nil {
			routes[i].AssignedVehicles = []int{}
		}
		if routes[i].Fare <= 0 {
			routes[i].Fare = 50
		}
	}
	return &RouteRegistry{standard: routes}
}

// RestoreCustom replaces the custom routes, e.g. when loading a snapshot.
func (r *RouteRegistry) RestoreCustom(routes []models.Route) {
	r.custom = append([]models.Route(nil), routes...)
	for i := range r.custom {
		r.custom[i].Custom = true
		if r.custom[i].AssignedVehicles == nil {
			r.custom[i].AssignedVehicles = []int{}
		}
	}
}

func (r *RouteRegistry) StandardRoutes() []models.Route {
	return append([]models.Route(nil), r.standard...)
}

func (r *RouteRegistry) CustomRoutes() []models.Route {
	return append([]models.Route(nil), r.custom...)
}

// Routes returns standard routes followed by custom routes.
func (r *RouteRegistry) Routes() []models.Route {
	out := make([]models.Route, 0, len(r.standard)+len(r.custom))
	out = append(out, r.standard...)
	out = append(out, r.custom...)
	return out
}

func (r *RouteRegistry) Route(id string) (*models.Route, bool) {
	for i := range r.standard {
		if r.standard[i].ID == id {
			return &r.standard[i], true
		}
	}
	for i := range r.custom {
		if r.custom[i].ID == id {
			return &r.custom[i], true
		}
	}
	return nil, false
}

// CreateCustomRoute builds a player-authored route from a waypoint chain.
// Distance comes from the Euclidean length of the chain, fare and the flow
// and risk ratings are derived from distance and waypoint count.
func (r *RouteRegistry) CreateCustomRoute(start, end models.Point, waypoints []models.Point) *models.Route {
	chain := make([]models.Point, 0, len(waypoints)+2)
	chain = append(chain, start)
	chain = append(chain, waypoints...)
	chain = append(chain, end)

	length := 0.0
	for i := 1; i < len(chain); i++ {
		dx := chain[i].X - chain[i-1].X
		dy := chain[i].Y - chain[i-1].Y
		length += math.Sqrt(dx*dx + dy*dy)
	}
	distance := int(math.Floor(length / mapUnitsPerKm))
	if distance < 5 {
		distance = 5
	}

	route := models.Route{
		ID:               "custom_" + uuid.NewString(),
		Name:             start.Name + " > " + end.Name,
		Start:            start.Name,
		End:              end.Name,
		StartPoint:       start,
		EndPoint:         end,
		Waypoints:        append([]models.Point(nil), waypoints...),
		Distance:         distance,
		PassengerFlow:    clampInt(5+len(waypoints)+distance/10, 6, 10),
		Fare:             int64(distance*5 + 30),
		Risk:             clampInt(2+distance/5+len(waypoints), 2, 9),
		Custom:           true,
		AssignedVehicles: []int{},
	}
	r.custom = append(r.custom, route)
	return &r.custom[len(r.custom)-1]
}

// DeleteCustomRoute removes a custom route and reports the vehicle ids that
// were assigned to it so the caller can unassign them. Default routes are
// permanently protected.
func (r *RouteRegistry) DeleteCustomRoute(id string) ([]int, error) {
	for i := range r.standard {
		if r.standard[i].ID == id {
			return nil, ErrRouteProtected
		}
	}
	for i := range r.custom {
		if r.custom[i].ID == id {
			assigned := append([]int(nil), r.custom[i].AssignedVehicles...)
			r.custom = append(r.custom[:i], r.custom[i+1:]...)
			return assigned, nil
		}
	}
	return nil, ErrUnknownRoute
}

// ClearAssignments empties every route's assignment set, e.g. before
// rebuilding the sets from restored vehicles.
func (r *RouteRegistry) ClearAssignments() {
	for i := range r.standard {
		r.standard[i].AssignedVehicles = r.standard[i].AssignedVehicles[:0]
	}
	for i := range r.custom {
		r.custom[i].AssignedVehicles = r.custom[i].AssignedVehicles[:0]
	}
}

// AttachVehicle records a vehicle on a route's assignment set (no duplicates).
func (r *RouteRegistry) AttachVehicle(routeID string, vehicleID int) bool {
	route, ok := r.Route(routeID)
	if !ok {
		return false
	}
	for _, id := range route.AssignedVehicles {
		if id == vehicleID {
			return true
		}
	}
	route.AssignedVehicles = append(route.AssignedVehicles, vehicleID)
	return true
}

// DetachVehicle removes a vehicle from a route's assignment set.
func (r *RouteRegistry) DetachVehicle(routeID string, vehicleID int) {
	route, ok := r.Route(routeID)
	if !ok {
		return
	}
	kept := route.AssignedVehicles[:0]
	for _, id := range route.AssignedVehicles {
		if id != vehicleID {
			kept = append(kept, id)
		}
	}
	route.AssignedVehicles = kept
}
