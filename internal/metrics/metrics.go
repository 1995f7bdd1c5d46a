package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TicksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_ticks_total",
			Help: "Total number of economic simulation ticks processed",
		},
	)

	EventsTriggered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_events_triggered_total",
			Help: "Total number of narrative events triggered, by category",
		},
		[]string{"category"},
	)

	EventsResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_events_resolved_total",
			Help: "Total number of narrative events resolved, by chosen action",
		},
		[]string{"action"},
	)

	Breakdowns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sim_vehicle_stoppages_total",
			Help: "Vehicles forced off a route, by cause (breakdown, out_of_fuel)",
		},
		[]string{"cause"},
	)

	WeatherChanges = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sim_weather_changes_total",
			Help: "Total number of weather transitions",
		},
	)

	PlayerCash = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sim_player_cash",
			Help: "Current player cash balance",
		},
	)

	FleetSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sim_fleet_size",
			Help: "Current number of vehicles in the fleet",
		},
	)
)
