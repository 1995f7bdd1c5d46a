package game

import (
	"math"
	"strings"
	"time"

	"matatu_empire/internal/models"
)

// Cost multipliers for fleet upkeep operations.
const (
	refuelCostPerPct = 20
	repairCostPerPct = 100
	sellPriceShare   = 0.6
	maxNicknameLen   = 8
)

// FleetRegistry owns the vehicle entities, their lifecycle state machine and
// the vehicle side of route assignment bookkeeping.
type FleetRegistry struct {
	vehicles []models.Vehicle
	types    map[string]models.VehicleType
	nextID   int
}

func NewFleetRegistry(types []models.VehicleType) *FleetRegistry {
	byID := make(map[string]models.VehicleType, len(types))
	for _, vt := range types {
		byID[vt.ID] = vt
	}
	return &FleetRegistry{types: byID, nextID: 1}
}

// Restore replaces the fleet wholesale, e.g. when loading a snapshot. The id
// counter is bumped past the highest restored id.
func (f *FleetRegistry) Restore(vehicles []models.Vehicle, nextID int) {
	f.vehicles = append([]models.Vehicle(nil), vehicles...)
	for i := range f.vehicles {
		v := &f.vehicles[i]
		v.Fuel = clamp(v.Fuel, 0, 100)
		v.Condition = clamp(v.Condition, 0, 100)
		if v.Nickname == "" {
			v.Nickname = defaultNickname(v.Name)
		}
		if v.ID >= nextID {
			nextID = v.ID + 1
		}
	}
	if nextID < 1 {
		nextID = 1
	}
	f.nextID = nextID
}

func (f *FleetRegistry) Vehicles() []models.Vehicle {
	return append([]models.Vehicle(nil), f.vehicles...)
}

func (f *FleetRegistry) Vehicle(id int) (*models.Vehicle, bool) {
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			return &f.vehicles[i], true
		}
	}
	return nil, false
}

func (f *FleetRegistry) Size() int {
	return len(f.vehicles)
}

func (f *FleetRegistry) NextID() int {
	return f.nextID
}

// VehicleType looks up a catalog entry by id.
func (f *FleetRegistry) VehicleType(typeID string) (models.VehicleType, bool) {
	vt, ok := f.types[typeID]
	return vt, ok
}

func (f *FleetRegistry) VehicleTypes() []models.VehicleType {
	out := make([]models.VehicleType, 0, len(f.types))
	for _, vt := range f.types {
		out = append(out, vt)
	}
	return out
}

// Purchase buys a new vehicle of the given type. The cash is spent first;
// if construction fails afterwards the spend is refunded.
func (f *FleetRegistry) Purchase(eco *Economy, typeID, customName string) (*models.Vehicle, error) {
	vt, ok := f.types[typeID]
	if !ok {
		return nil, ErrUnknownVehicleType
	}
	if !eco.SpendCash(vt.Cost) {
		return nil, ErrInsufficientFunds
	}
	name := customName
	if name == "" {
		name = vt.Name
	}
	v, err := newVehicle(f.nextID, vt, name)
	if err != nil {
		eco.AddCash(vt.Cost) // compensating refund
		return nil, err
	}
	f.nextID++
	f.vehicles = append(f.vehicles, v)
	return &f.vehicles[len(f.vehicles)-1], nil
}

func newVehicle(id int, vt models.VehicleType, name string) (models.Vehicle, error) {
	if vt.Capacity <= 0 {
		return models.Vehicle{}, ErrUnknownVehicleType
	}
	return models.Vehicle{
		ID:           id,
		TypeID:       vt.ID,
		Name:         name,
		Nickname:     defaultNickname(name),
		Fuel:         100,
		Condition:    100,
		Status:       models.VehicleIdle,
		PurchaseDate: time.Now(),
	}, nil
}

// AddStarter places the free starting vehicle of a new game into the fleet.
func (f *FleetRegistry) AddStarter(typeID string) {
	vt, ok := f.types[typeID]
	if !ok {
		return
	}
	v, _ := newVehicle(f.nextID, vt, vt.Name)
	v.Condition = 80
	f.nextID++
	f.vehicles = append(f.vehicles, v)
}

// Sell removes a vehicle and credits 60% of its purchase cost. The fleet
// floor of one vehicle is enforced here, as is the running prohibition.
func (f *FleetRegistry) Sell(eco *Economy, id int) (int64, error) {
	if len(f.vehicles) <= 1 {
		return 0, ErrLastVehicle
	}
	idx := -1
	for i := range f.vehicles {
		if f.vehicles[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return 0, ErrUnknownVehicle
	}
	v := f.vehicles[idx]
	if v.Status == models.VehicleRunning {
		return 0, ErrVehicleRunning
	}
	price := int64(0)
	if vt, ok := f.types[v.TypeID]; ok {
		price = int64(math.Round(float64(vt.Cost) * sellPriceShare))
	}
	eco.AddCash(price)
	f.vehicles = append(f.vehicles[:idx], f.vehicles[idx+1:]...)
	return price, nil
}

// Refuel fills the tank to 100 for round((100-fuel)*20). On a failed spend
// nothing changes.
func (f *FleetRegistry) Refuel(eco *Economy, id int) (int64, error) {
	v, ok := f.Vehicle(id)
	if !ok {
		return 0, ErrUnknownVehicle
	}
	cost := int64(math.Round((100 - v.Fuel) * refuelCostPerPct))
	if !eco.SpendCash(cost) {
		return 0, ErrInsufficientFunds
	}
	v.Fuel = 100
	if v.Status == models.VehicleOutOfFuel {
		v.Status = models.VehicleIdle
	}
	f.applyTransitions(v)
	return cost, nil
}

// Repair restores condition to 100 for round((100-condition)*100) and clears
// a breakdown back to idle.
func (f *FleetRegistry) Repair(eco *Economy, id int) (int64, error) {
	v, ok := f.Vehicle(id)
	if !ok {
		return 0, ErrUnknownVehicle
	}
	cost := int64(math.Round((100 - v.Condition) * repairCostPerPct))
	if !eco.SpendCash(cost) {
		return 0, ErrInsufficientFunds
	}
	v.Condition = 100
	if v.Status == models.VehicleBreakdown || v.Status == models.VehicleMaintenance {
		v.Status = models.VehicleIdle
	}
	f.applyTransitions(v)
	return cost, nil
}

// SetNickname updates the display nickname (8 chars max).
func (f *FleetRegistry) SetNickname(id int, nickname string) error {
	v, ok := f.Vehicle(id)
	if !ok {
		return ErrUnknownVehicle
	}
	nickname = strings.TrimSpace(nickname)
	if len(nickname) > maxNicknameLen {
		return ErrNicknameTooLong
	}
	if nickname == "" {
		nickname = defaultNickname(v.Name)
	}
	v.Nickname = nickname
	return nil
}

// Assign puts the vehicle on a route. Rejected unless the vehicle could
// actually run (fuel > 0, condition > 20).
func (f *FleetRegistry) Assign(id int, routeID string) (*models.Vehicle, error) {
	v, ok := f.Vehicle(id)
	if !ok {
		return nil, ErrUnknownVehicle
	}
	if v.Fuel <= 0 || v.Condition <= 20 {
		return nil, ErrVehicleUnavailable
	}
	v.RouteID = routeID
	v.Status = models.VehicleRunning
	return v, nil
}

// Unassign takes the vehicle off its route. Breakdown and out-of-fuel states
// are preserved; otherwise the vehicle goes idle.
func (f *FleetRegistry) Unassign(id int) (*models.Vehicle, error) {
	v, ok := f.Vehicle(id)
	if !ok {
		return nil, ErrUnknownVehicle
	}
	v.RouteID = ""
	if v.Status != models.VehicleBreakdown && v.Status != models.VehicleOutOfFuel {
		v.Status = models.VehicleIdle
	}
	v.Passengers = 0
	return v, nil
}

// ApplyTickOutcome mutates fuel/condition/earnings for one tick and runs the
// state machine. It returns the vehicle and its status before the update so
// the caller can react to transitions (notifications, route bookkeeping).
func (f *FleetRegistry) ApplyTickOutcome(id int, fuelDelta, conditionDelta float64, earnings int64, passengers int) (*models.Vehicle, models.VehicleStatus, error) {
	v, ok := f.Vehicle(id)
	if !ok {
		return nil, "", ErrUnknownVehicle
	}
	prev := v.Status
	v.Fuel = clamp(v.Fuel+fuelDelta, 0, 100)
	v.Condition = clamp(v.Condition+conditionDelta, 0, 100)
	if earnings > 0 {
		v.TotalEarnings += earnings
	}
	v.Passengers = passengers
	f.applyTransitions(v)
	return v, prev, nil
}

// applyTransitions evaluates the state machine in priority order after every
// fuel/condition mutation.
func (f *FleetRegistry) applyTransitions(v *models.Vehicle) {
	switch {
	case v.Fuel <= 0:
		v.Status = models.VehicleOutOfFuel
		v.RouteID = ""
		v.Passengers = 0
	case v.Condition <= 20:
		v.Status = models.VehicleBreakdown
		v.RouteID = ""
		v.Passengers = 0
	case v.Assigned() && v.Status != models.VehicleRunning:
		v.Status = models.VehicleRunning
	case !v.Assigned() && v.Status == models.VehicleRunning:
		v.Status = models.VehicleIdle
	}
}

// defaultNickname derives a short tag from the vehicle name's initials.
func defaultNickname(name string) string {
	words := strings.Fields(name)
	if len(words) >= 2 {
		var b strings.Builder
		for _, w := range words {
			b.WriteByte(w[0])
		}
		s := strings.ToUpper(b.String())
		if len(s) > 3 {
			s = s[:3]
		}
		return s
	}
	s := strings.ToUpper(name)
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}
