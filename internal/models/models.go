package models

import "time"

// VehicleType is a catalog entry describing a purchasable vehicle model.
type VehicleType struct {
	ID             string  `json:"id" yaml:"id"`
	Name           string  `json:"name" yaml:"name"`
	Description    string  `json:"description,omitempty" yaml:"description"`
	Cost           int64   `json:"cost" yaml:"cost"`
	Capacity       int     `json:"capacity" yaml:"capacity"`
	Speed          int     `json:"speed,omitempty" yaml:"speed"`
	FuelCapacity   float64 `json:"fuel_capacity,omitempty" yaml:"fuelCapacity"`
	Reliability    int     `json:"reliability" yaml:"reliability"`
	FuelEfficiency int     `json:"fuel_efficiency" yaml:"fuelEfficiency"`
	MaxDistance    int     `json:"max_distance_km" yaml:"maxDistance"`
}

type VehicleStatus string

const (
	VehicleIdle        VehicleStatus = "idle"
	VehicleRunning     VehicleStatus = "running"
	VehicleBreakdown   VehicleStatus = "breakdown"
	VehicleOutOfFuel   VehicleStatus = "out_of_fuel"
	VehicleMaintenance VehicleStatus = "maintenance"
)

// Vehicle is a specific matatu in the player's fleet
// (not just the catalog entry).
type Vehicle struct {
	ID            int           `json:"id"`
	TypeID        string        `json:"type_id"`
	Name          string        `json:"name"`
	Nickname      string        `json:"nickname"`
	Fuel          float64       `json:"fuel_pct"`
	Condition     float64       `json:"condition_pct"`
	RouteID       string        `json:"route_id,omitempty"`
	Status        VehicleStatus `json:"status"`
	Passengers    int           `json:"passengers"`
	TotalEarnings int64         `json:"total_earnings"`
	PurchaseDate  time.Time     `json:"purchase_date"`
}

// Assigned reports whether the vehicle currently services a route.
func (v *Vehicle) Assigned() bool {
	return v.RouteID != ""
}

// Point is a map coordinate used for route geometry.
type Point struct {
	Name string  `json:"name,omitempty" yaml:"name"`
	X    float64 `json:"x" yaml:"x"`
	Y    float64 `json:"y" yaml:"y"`
}

type Route struct {
	ID               string  `json:"id" yaml:"id"`
	Name             string  `json:"name" yaml:"name"`
	Start            string  `json:"start" yaml:"start"`
	End              string  `json:"end" yaml:"end"`
	StartPoint       Point   `json:"start_point" yaml:"startPoint"`
	EndPoint         Point   `json:"end_point" yaml:"endPoint"`
	Waypoints        []Point `json:"waypoints,omitempty" yaml:"waypoints"`
	Distance         int     `json:"distance_km" yaml:"distance"`
	PassengerFlow    int     `json:"passenger_flow" yaml:"passengerFlow"`
	Fare             int64   `json:"fare" yaml:"fare"`
	Risk             int     `json:"risk" yaml:"risk"`
	Custom           bool    `json:"custom,omitempty" yaml:"custom"`
	AssignedVehicles []int   `json:"assigned_vehicles"`
}

// PlayerLedger is the player's financial and reputation state. Mutated only
// through the economy's ledger operations.
type PlayerLedger struct {
	Cash                 int64     `json:"cash"`
	Reputation           int       `json:"reputation"`
	DailyProfit          int64     `json:"daily_profit"`
	TotalEarningsAllTime int64     `json:"total_earnings_all_time"`
	BusinessStartDate    time.Time `json:"business_start_date"`
}

type WeatherLabel string

const (
	WeatherSunny  WeatherLabel = "sunny"
	WeatherRainy  WeatherLabel = "rainy"
	WeatherCloudy WeatherLabel = "cloudy"
	WeatherFoggy  WeatherLabel = "foggy"
)

// WeatherEffects is the modifier triple consumed by the economy every tick.
type WeatherEffects struct {
	PassengerMultiplier float64 `json:"passenger_multiplier"`
	FuelMultiplier      float64 `json:"fuel_multiplier"`
	BreakdownChance     float64 `json:"breakdown_chance"`
	Icon                string  `json:"icon"`
}

// EventChoice is one selectable option on a narrative event. The optional
// fields are compiled into an ordered effect pipeline before resolution.
type EventChoice struct {
	Text             string  `json:"text"`
	Action           string  `json:"action"`
	Cost             int64   `json:"cost,omitempty"`
	Bonus            int64   `json:"bonus,omitempty"`
	Penalty          int64   `json:"penalty,omitempty"`
	ReputationChange int     `json:"reputation_change,omitempty"`
	SuccessChance    float64 `json:"success_chance,omitempty"`
	HasChance        bool    `json:"has_chance,omitempty"`
	AlternativeCost  int64   `json:"alternative_cost,omitempty"`
	Description      string  `json:"description,omitempty"`
}

// EventTemplate is a static narrative event definition.
type EventTemplate struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Choices     []EventChoice `json:"choices"`
}

// ActiveEvent is the single in-flight event awaiting a player choice.
type ActiveEvent struct {
	InstanceID  string        `json:"instance_id"`
	TemplateID  string        `json:"template_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Type        string        `json:"type"`
	Choices     []EventChoice `json:"choices"`
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityEvent   Severity = "event"
)

// Notification is a presentation-layer triple pushed to connected clients.
type Notification struct {
	Subject  string   `json:"subject"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}
