package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"matatu_empire/internal/models"
)

const snapshotVersion = 1

// Snapshot is the durable form of a game. Standard routes and the vehicle
// catalog come from the data files, not the snapshot; only player-owned
// state is written out.
type Snapshot struct {
	Version       int                 `json:"version"`
	SavedAt       time.Time           `json:"saved_at"`
	Player        models.PlayerLedger `json:"player"`
	Vehicles      []models.Vehicle    `json:"vehicles"`
	NextVehicleID int                 `json:"next_vehicle_id"`
	CustomRoutes  []models.Route      `json:"custom_routes"`
	Weather       models.WeatherLabel `json:"weather"`
}

// NewGame resets the engine to a fresh business: starting cash, neutral
// reputation and a single starter vehicle.
func (e *Engine) NewGame(startingCash int64, starterTypeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.eco.SetPlayer(NewLedger(startingCash))
	e.fleet.Restore(nil, 1)
	e.fleet.AddStarter(starterTypeID)
	e.routes.RestoreCustom(nil)
	e.weather.SetCurrent(models.WeatherSunny)
	e.tick = 0
	e.econAcc = 0
	e.saveAcc = 0
}

// Save writes the current game to path atomically.
func (e *Engine) Save(path string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveLocked(path)
}

func (e *Engine) saveLocked(path string) error {
	snap := Snapshot{
		Version:       snapshotVersion,
		SavedAt:       time.Now(),
		Player:        e.eco.Player(),
		Vehicles:      e.fleet.Vehicles(),
		NextVehicleID: e.fleet.NextID(),
		CustomRoutes:  e.routes.CustomRoutes(),
		Weather:       e.weather.Current(),
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create save dir: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// Load restores a game from path. A missing file is reported via
// os.ErrNotExist so the caller can fall back to NewGame.
func (e *Engine) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.Version > snapshotVersion {
		return fmt.Errorf("snapshot version %d is newer than supported %d", snap.Version, snapshotVersion)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.eco.SetPlayer(snap.Player)
	e.fleet.Restore(snap.Vehicles, snap.NextVehicleID)
	e.routes.RestoreCustom(snap.CustomRoutes)
	e.weather.SetCurrent(snap.Weather)
	e.reconcileAssignments()
	return nil
}

// LoadOrNew restores from path when a save exists, otherwise starts fresh.
func (e *Engine) LoadOrNew(path string, startingCash int64, starterTypeID string) (loaded bool, err error) {
	err = e.Load(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		e.NewGame(startingCash, starterTypeID)
		return false, nil
	default:
		return false, err
	}
}

// reconcileAssignments rebuilds route assignment sets from the restored
// vehicles and drops references to routes that no longer exist.
func (e *Engine) reconcileAssignments() {
	e.routes.ClearAssignments()
	for _, v := range e.fleet.Vehicles() {
		if !v.Assigned() {
			continue
		}
		if _, ok := e.routes.Route(v.RouteID); !ok {
			if _, err := e.fleet.Unassign(v.ID); err == nil {
				e.log.Warn("restored vehicle referenced missing route",
					zap.Int("vehicle", v.ID),
					zap.String("route", v.RouteID),
				)
			}
			continue
		}
		e.routes.AttachVehicle(v.RouteID, v.ID)
	}
}
