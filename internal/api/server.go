package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"matatu_empire/internal/game"
	"matatu_empire/internal/models"
)

type Server struct {
	engine   *game.Engine
	hub      *Hub
	savePath string
}

// New constructs the HTTP router wired to the game engine.
func New(engine *game.Engine, hub *Hub, savePath string) http.Handler {
	s := &Server{engine: engine, hub: hub, savePath: savePath}
	r := chi.NewRouter()
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/state", s.handleState)
	r.Get("/catalog/vehicles", s.handleVehicleCatalog)
	r.Get("/routes", s.handleRoutes)
	r.Get("/routes/{id}", s.handleRoute)
	r.Get("/weather", s.handleWeather)
	r.Get("/events/current", s.handleCurrentEvent)
	r.Get("/ws", s.handleWs)

	r.Post("/fleet/purchase", s.handlePurchase)
	r.Post("/fleet/sell", s.handleSell)
	r.Post("/fleet/assign", s.handleAssign)
	r.Post("/fleet/unassign", s.handleUnassign)
	r.Post("/fleet/refuel", s.handleRefuel)
	r.Post("/fleet/repair", s.handleRepair)
	r.Post("/fleet/nickname", s.handleNickname)

	r.Post("/routes", s.handleCreateRoute)
	r.Delete("/routes/{id}", s.handleDeleteRoute)

	r.Post("/events/resolve", s.handleResolveEvent)

	r.Post("/sim/start", s.handleSimStart)
	r.Post("/sim/pause", s.handleSimPause)
	r.Post("/sim/day-reset", s.handleDayReset)
	r.Post("/save", s.handleSave)

	return r
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.View())
}

func (s *Server) handleVehicleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.VehicleTypes())
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.engine.Routes())
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	route, ok := s.engine.Route(chi.URLParam(r, "id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "unknown route")
		return
	}
	writeJSON(w, route)
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	label, effects := s.engine.Weather()
	writeJSON(w, map[string]interface{}{
		"weather": label,
		"effects": effects,
	})
}

func (s *Server) handleCurrentEvent(w http.ResponseWriter, r *http.Request) {
	ev := s.engine.ActiveEvent()
	if ev == nil {
		writeJSONError(w, http.StatusNotFound, "no active event")
		return
	}
	writeJSON(w, ev)
}

func (s *Server) handleWs(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "realtime stream disabled")
		return
	}
	s.hub.ServeWs(w, r)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TypeID string `json:"type_id"`
		Name   string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TypeID == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	v, err := s.engine.PurchaseVehicle(req.TypeID, req.Name)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, v)
}

func (s *Server) handleSell(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	price, err := s.engine.SellVehicle(req.VehicleID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"sale_price": price})
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int    `json:"vehicle_id"`
		RouteID   string `json:"route_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 || req.RouteID == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.AssignVehicle(req.VehicleID, req.RouteID); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, s.engine.View())
}

func (s *Server) handleUnassign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.UnassignVehicle(req.VehicleID); err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, s.engine.View())
}

func (s *Server) handleRefuel(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	cost, err := s.engine.RefuelVehicle(req.VehicleID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"cost": cost})
}

func (s *Server) handleRepair(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int `json:"vehicle_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	cost, err := s.engine.RepairVehicle(req.VehicleID)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, map[string]int64{"cost": cost})
}

func (s *Server) handleNickname(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VehicleID int    `json:"vehicle_id"`
		Nickname  string `json:"nickname"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.VehicleID == 0 {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	if err := s.engine.SetVehicleNickname(req.VehicleID, req.Nickname); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateRoute(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Start     models.Point   `json:"start"`
		End       models.Point   `json:"end"`
		Waypoints []models.Point `json:"waypoints"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	route := s.engine.CreateCustomRoute(req.Start, req.End, req.Waypoints)
	writeJSON(w, route)
}

func (s *Server) handleDeleteRoute(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.DeleteRoute(chi.URLParam(r, "id")); err != nil {
		writeGameError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResolveEvent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Action == "" {
		writeJSONError(w, http.StatusBadRequest, "bad request")
		return
	}
	outcome, err := s.engine.ResolveEvent(req.Action)
	if err != nil {
		writeGameError(w, err)
		return
	}
	writeJSON(w, outcome)
}

func (s *Server) handleSimStart(w http.ResponseWriter, r *http.Request) {
	s.engine.SetPaused(false)
	writeJSON(w, s.engine.View())
}

func (s *Server) handleSimPause(w http.ResponseWriter, r *http.Request) {
	s.engine.SetPaused(true)
	writeJSON(w, s.engine.View())
}

func (s *Server) handleDayReset(w http.ResponseWriter, r *http.Request) {
	s.engine.ResetDailyProfit()
	writeJSON(w, s.engine.View())
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	if s.savePath == "" {
		writeJSONError(w, http.StatusServiceUnavailable, "persistence disabled")
		return
	}
	if err := s.engine.Save(s.savePath); err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ===== helpers =====

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// writeGameError maps the engine's sentinel errors onto HTTP statuses.
func writeGameError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, game.ErrUnknownVehicle),
		errors.Is(err, game.ErrUnknownVehicleType),
		errors.Is(err, game.ErrUnknownRoute),
		errors.Is(err, game.ErrNoActiveEvent):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrInsufficientFunds):
		status = http.StatusPaymentRequired
	case errors.Is(err, game.ErrVehicleRunning),
		errors.Is(err, game.ErrLastVehicle),
		errors.Is(err, game.ErrVehicleUnavailable),
		errors.Is(err, game.ErrRouteProtected):
		status = http.StatusConflict
	}
	writeJSONError(w, status, err.Error())
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS, PUT, DELETE")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
