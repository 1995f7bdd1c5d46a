package game

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"matatu_empire/internal/metrics"
	"matatu_empire/internal/models"
)

// economyTickThreshold throttles the per-vehicle economic tick to once per
// simulated second regardless of the scheduler cadence.
const economyTickThreshold = 1.0

// Engine owns the whole simulation: the ledger, the fleet and route
// registries, the weather model and the event engine, advanced together by a
// single scheduler tick. Single writer; all mutation goes through Engine
// methods under one mutex.
type Engine struct {
	mu      sync.Mutex
	eco     *Economy
	fleet   *FleetRegistry
	routes  *RouteRegistry
	weather *WeatherModel
	events  *EventEngine

	rng      *rand.Rand
	log      *zap.Logger
	notifier Notifier

	paused  bool
	tick    uint64
	econAcc float64
	saveAcc float64

	savePath     string
	saveInterval float64

	ctx    context.Context
	cancel context.CancelFunc
	ticker *time.Ticker
	last   time.Time
}

// Options configures a new Engine.
type Options struct {
	VehicleTypes []models.VehicleType
	Routes       []models.Route
	Seed         int64
	SavePath     string
	SaveInterval time.Duration
	Logger       *zap.Logger
	Notifier     Notifier
}

func NewEngine(opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = NopNotifier()
	}
	saveInterval := opts.SaveInterval.Seconds()
	if saveInterval <= 0 {
		saveInterval = 30
	}
	return &Engine{
		eco:          NewEconomy(NewLedger(0)),
		fleet:        NewFleetRegistry(opts.VehicleTypes),
		routes:       NewRouteRegistry(opts.Routes),
		weather:      NewWeatherModel(rng),
		events:       NewEventEngine(rng),
		rng:          rng,
		log:          log,
		notifier:     notifier,
		savePath:     opts.SavePath,
		saveInterval: saveInterval,
	}
}

// SetNotifier swaps the presentation sink, e.g. once the websocket hub is up.
func (e *Engine) SetNotifier(n Notifier) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n == nil {
		n = NopNotifier()
	}
	e.notifier = n
}

// Advance moves the simulation forward by deltaTime seconds of real elapsed
// time. The three phases run in a fixed order (economy, weather, events) so
// outcomes are reproducible under a fixed seed; each phase is isolated so a
// panic in one cannot starve the others.
func (e *Engine) Advance(deltaTime float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.runPhase("economy", func() { e.economyPhase(deltaTime) })
	e.runPhase("weather", func() { e.weatherPhase(deltaTime) })
	e.runPhase("events", func() { e.eventsPhase(deltaTime) })

	metrics.PlayerCash.Set(float64(e.eco.Player().Cash))
	metrics.FleetSize.Set(float64(e.fleet.Size()))

	if e.savePath != "" {
		e.saveAcc += deltaTime
		if e.saveAcc >= e.saveInterval {
			e.saveAcc = 0
			if err := e.saveLocked(e.savePath); err != nil {
				e.log.Warn("autosave failed", zap.Error(err))
			}
		}
	}
}

func (e *Engine) runPhase(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("simulation phase panicked",
				zap.String("phase", name),
				zap.Any("panic", r),
			)
		}
	}()
	fn()
}

func (e *Engine) economyPhase(deltaTime float64) {
	if e.paused {
		return
	}
	e.econAcc += deltaTime
	if e.econAcc < economyTickThreshold {
		return
	}
	e.econAcc = 0
	e.tick++
	metrics.TicksTotal.Inc()

	effects := e.weather.Effects()
	for _, snapshot := range e.fleet.Vehicles() {
		if snapshot.Status != models.VehicleRunning || !snapshot.Assigned() {
			continue
		}
		route, ok := e.routes.Route(snapshot.RouteID)
		if !ok {
			e.log.Warn("running vehicle references unknown route",
				zap.Int("vehicle", snapshot.ID),
				zap.String("route", snapshot.RouteID),
			)
			continue
		}
		vt, ok := e.fleet.VehicleType(snapshot.TypeID)
		if !ok {
			e.log.Warn("vehicle references unknown type",
				zap.Int("vehicle", snapshot.ID),
				zap.String("type", snapshot.TypeID),
			)
			continue
		}

		result := CalculateTick(&snapshot, route, &vt, effects, economyTickThreshold, e.rng)
		profit := int64(math.Round(result.Profit))

		v, _, err := e.fleet.ApplyTickOutcome(snapshot.ID, -result.FuelConsumed, -result.ConditionWear, profit, result.Passengers)
		if err != nil {
			continue
		}
		if v.Status == models.VehicleRunning {
			e.eco.AddCash(profit)
			e.eco.UpdateDailyProfit(profit)
			continue
		}

		// Forced off the route: keep the assignment set consistent and tell
		// the presentation layer.
		e.routes.DetachVehicle(route.ID, v.ID)
		switch v.Status {
		case models.VehicleOutOfFuel:
			metrics.Breakdowns.WithLabelValues("out_of_fuel").Inc()
			e.notify(v.Name, "Vehicle ran out of fuel! Needs immediate attention.", models.SeverityError)
		case models.VehicleBreakdown:
			metrics.Breakdowns.WithLabelValues("breakdown").Inc()
			e.notify(v.Name, "Vehicle broke down! Needs immediate attention.", models.SeverityError)
		}
	}
}

func (e *Engine) weatherPhase(deltaTime float64) {
	changed, _, now := e.weather.Advance(deltaTime)
	if !changed {
		return
	}
	metrics.WeatherChanges.Inc()
	e.log.Info("weather changed", zap.String("weather", string(now)))
	e.notify("weather", fmt.Sprintf("Weather changed to %s", now), models.SeverityInfo)
}

func (e *Engine) eventsPhase(deltaTime float64) {
	if e.paused {
		return
	}
	ev := e.events.Advance(deltaTime, e.eco.Player(), e.fleet.Vehicles())
	if ev == nil {
		return
	}
	metrics.EventsTriggered.WithLabelValues(ev.Type).Inc()
	e.log.Info("event triggered", zap.String("event", ev.TemplateID))
	e.notify(ev.Title, ev.Description, models.SeverityEvent)
}

func (e *Engine) notify(subject, message string, sev models.Severity) {
	e.notifier.Notify(models.Notification{Subject: subject, Message: message, Severity: sev})
}

// ===== player operations =====

// PurchaseVehicle buys a vehicle of the given catalog type.
func (e *Engine) PurchaseVehicle(typeID, customName string) (models.Vehicle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, err := e.fleet.Purchase(e.eco, typeID, customName)
	if err != nil {
		return models.Vehicle{}, err
	}
	e.notify(v.Name, "New vehicle joined the fleet", models.SeveritySuccess)
	return *v, nil
}

// SellVehicle removes a vehicle and credits 60% of its purchase cost.
func (e *Engine) SellVehicle(id int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.fleet.Vehicle(id); ok && v.Assigned() {
		return 0, ErrVehicleRunning
	}
	price, err := e.fleet.Sell(e.eco, id)
	if err != nil {
		return 0, err
	}
	return price, nil
}

// AssignVehicle puts a vehicle on a route and records it in the route's
// assignment set.
func (e *Engine) AssignVehicle(vehicleID int, routeID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	route, ok := e.routes.Route(routeID)
	if !ok {
		return ErrUnknownRoute
	}
	if v, ok := e.fleet.Vehicle(vehicleID); ok && v.Assigned() && v.RouteID != routeID {
		e.routes.DetachVehicle(v.RouteID, vehicleID)
	}
	v, err := e.fleet.Assign(vehicleID, routeID)
	if err != nil {
		return err
	}
	e.routes.AttachVehicle(routeID, vehicleID)
	e.notify(v.Name, fmt.Sprintf("%s assigned to %s", v.Name, route.Name), models.SeveritySuccess)
	return nil
}

// UnassignVehicle takes a vehicle off its current route.
func (e *Engine) UnassignVehicle(vehicleID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	v, ok := e.fleet.Vehicle(vehicleID)
	if !ok {
		return ErrUnknownVehicle
	}
	if v.Assigned() {
		e.routes.DetachVehicle(v.RouteID, vehicleID)
	}
	if _, err := e.fleet.Unassign(vehicleID); err != nil {
		return err
	}
	e.notify(v.Name, fmt.Sprintf("%s unassigned from route", v.Name), models.SeverityInfo)
	return nil
}

// RefuelVehicle fills the tank against the ledger.
func (e *Engine) RefuelVehicle(id int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fleet.Refuel(e.eco, id)
}

// RepairVehicle restores condition against the ledger.
func (e *Engine) RepairVehicle(id int) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fleet.Repair(e.eco, id)
}

// SetVehicleNickname updates a vehicle's display nickname.
func (e *Engine) SetVehicleNickname(id int, nickname string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fleet.SetNickname(id, nickname)
}

// CreateCustomRoute adds a player-authored route.
func (e *Engine) CreateCustomRoute(start, end models.Point, waypoints []models.Point) models.Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	route := e.routes.CreateCustomRoute(start, end, waypoints)
	e.notify(route.Name, fmt.Sprintf("Route %s created", route.Name), models.SeveritySuccess)
	return *route
}

// DeleteRoute removes a custom route, unassigning every vehicle on it first.
func (e *Engine) DeleteRoute(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	assigned, err := e.routes.DeleteCustomRoute(id)
	if err != nil {
		return err
	}
	for _, vehicleID := range assigned {
		if _, err := e.fleet.Unassign(vehicleID); err != nil {
			e.log.Warn("route deletion references unknown vehicle",
				zap.String("route", id),
				zap.Int("vehicle", vehicleID),
			)
		}
	}
	return nil
}

// ResolveEvent applies the player's choice to the pending event.
func (e *Engine) ResolveEvent(action string) (EventOutcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	outcome, err := e.events.Resolve(action, e.eco)
	if err != nil {
		return EventOutcome{}, err
	}
	metrics.EventsResolved.WithLabelValues(action).Inc()
	e.notify("event", outcome.Message, outcome.Severity)
	return outcome, nil
}

// ResetDailyProfit is invoked by the day-boundary collaborator.
func (e *Engine) ResetDailyProfit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eco.ResetDailyProfit()
}

// ===== views =====

// GameView is the read-only composite snapshot served to the presentation
// layer.
type GameView struct {
	Player      models.PlayerLedger   `json:"player"`
	Vehicles    []models.Vehicle      `json:"vehicles"`
	Routes      []models.Route        `json:"routes"`
	Weather     models.WeatherLabel   `json:"weather"`
	Effects     models.WeatherEffects `json:"weather_effects"`
	ActiveEvent *models.ActiveEvent   `json:"active_event,omitempty"`
	Paused      bool                  `json:"paused"`
	Tick        uint64                `json:"tick"`
}

func (e *Engine) View() GameView {
	e.mu.Lock()
	defer e.mu.Unlock()
	var active *models.ActiveEvent
	if cur := e.events.Current(); cur != nil {
		copied := *cur
		active = &copied
	}
	return GameView{
		Player:      e.eco.Player(),
		Vehicles:    e.fleet.Vehicles(),
		Routes:      e.routes.Routes(),
		Weather:     e.weather.Current(),
		Effects:     e.weather.Effects(),
		ActiveEvent: active,
		Paused:      e.paused,
		Tick:        e.tick,
	}
}

func (e *Engine) Player() models.PlayerLedger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.eco.Player()
}

func (e *Engine) Vehicles() []models.Vehicle {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fleet.Vehicles()
}

func (e *Engine) VehicleTypes() []models.VehicleType {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fleet.VehicleTypes()
}

func (e *Engine) Routes() []models.Route {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.routes.Routes()
}

func (e *Engine) Route(id string) (models.Route, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.routes.Route(id)
	if !ok {
		return models.Route{}, false
	}
	return *r, true
}

func (e *Engine) Weather() (models.WeatherLabel, models.WeatherEffects) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.weather.Current(), e.weather.Effects()
}

func (e *Engine) ActiveEvent() *models.ActiveEvent {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cur := e.events.Current(); cur != nil {
		copied := *cur
		return &copied
	}
	return nil
}

// ===== scheduling =====

// Start begins the real-time scheduler loop. The catalog must already be
// loaded; the clock never starts before initialization completes.
func (e *Engine) Start(interval time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	if e.ticker == nil {
		e.ticker = time.NewTicker(interval)
	} else {
		e.ticker.Reset(interval)
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.ctx, e.cancel = context.WithCancel(context.Background())
	e.last = time.Now()
	e.paused = false

	go func(ctx context.Context, ticker *time.Ticker) {
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				e.mu.Lock()
				delta := now.Sub(e.last).Seconds()
				e.last = now
				e.mu.Unlock()
				// Cap the delta so a suspended process does not replay
				// hours of simulated time in one burst.
				if delta > 1 {
					delta = 1
				}
				e.Advance(delta)
			}
		}
	}(e.ctx, e.ticker)
}

// SetPaused halts the economic tick and event firing. Weather and the
// presentation stream keep advancing.
func (e *Engine) SetPaused(paused bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.paused = paused
}

func (e *Engine) Paused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.paused
}

// Stop cancels the scheduler loop.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.ticker != nil {
		e.ticker.Stop()
		e.ticker = nil
	}
}
