// Package catalog loads the vehicle and route data files that seed the
// simulation. Any load failure falls back to the built-in defaults so the
// simulation can always start.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"matatu_empire/internal/models"
)

// StarterVehicleType is the catalog entry every new game begins with.
const StarterVehicleType = "matatu_old"

type vehicleFile struct {
	Vehicles []models.VehicleType `yaml:"vehicles"`
}

type routeFile struct {
	Routes []models.Route `yaml:"routes"`
}

// Catalog holds the static game data.
type Catalog struct {
	VehicleTypes []models.VehicleType
	Routes       []models.Route
}

// Load reads vehicles.yaml and routes.yaml from dir. Either file may be
// absent, malformed or invalid; each catalog that cannot be loaded is
// replaced by its built-in default, so the returned catalog is always
// usable. Problems are logged, never fatal.
func Load(dir string, log *zap.Logger) *Catalog {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Catalog{
		VehicleTypes: DefaultVehicleTypes(),
		Routes:       DefaultRoutes(),
	}
	if dir == "" {
		return c
	}

	var vf vehicleFile
	ok, err := readYAML(filepath.Join(dir, "vehicles.yaml"), &vf)
	switch {
	case err != nil:
		log.Warn("using built-in vehicle catalog", zap.Error(err))
	case ok && len(vf.Vehicles) > 0:
		if err := validateVehicles(vf.Vehicles); err != nil {
			log.Warn("using built-in vehicle catalog", zap.Error(err))
		} else {
			c.VehicleTypes = vf.Vehicles
		}
	}

	var rf routeFile
	ok, err = readYAML(filepath.Join(dir, "routes.yaml"), &rf)
	switch {
	case err != nil:
		log.Warn("using built-in route catalog", zap.Error(err))
	case ok && len(rf.Routes) > 0:
		if err := validateRoutes(rf.Routes); err != nil {
			log.Warn("using built-in route catalog", zap.Error(err))
		} else {
			c.Routes = rf.Routes
		}
	}

	return c
}

func readYAML(path string, out any) (bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

func validateVehicles(types []models.VehicleType) error {
	seen := make(map[string]bool, len(types))
	starter := false
	for _, vt := range types {
		if vt.ID == "" {
			return fmt.Errorf("vehicle type %q has no id", vt.Name)
		}
		if seen[vt.ID] {
			return fmt.Errorf("duplicate vehicle type id %q", vt.ID)
		}
		seen[vt.ID] = true
		if vt.Capacity <= 0 {
			return fmt.Errorf("vehicle type %q has non-positive capacity", vt.ID)
		}
		if vt.Cost < 0 {
			return fmt.Errorf("vehicle type %q has negative cost", vt.ID)
		}
		if vt.ID == StarterVehicleType {
			starter = true
		}
	}
	if !starter {
		return fmt.Errorf("catalog is missing starter vehicle type %q", StarterVehicleType)
	}
	return nil
}

func validateRoutes(routes []models.Route) error {
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if r.ID == "" {
			return fmt.Errorf("route %q has no id", r.Name)
		}
		if seen[r.ID] {
			return fmt.Errorf("duplicate route id %q", r.ID)
		}
		seen[r.ID] = true
	}
	return nil
}

// DefaultVehicleTypes is the built-in vehicle catalog.
func DefaultVehicleTypes() []models.VehicleType {
	return []models.VehicleType{
		{
			ID:             "matatu_old",
			Name:           "Old Reliable",
			Description:    "A weathered 14-seater that has seen every pothole in the city.",
			Cost:           0,
			Capacity:       14,
			Speed:          60,
			FuelCapacity:   50,
			Reliability:    55,
			FuelEfficiency: 8,
			MaxDistance:    40,
		},
		{
			ID:             "matatu_sound",
			Name:           "Sound System Special",
			Description:    "Custom paint, booming speakers. Passengers pay extra for the vibe.",
			Cost:           80000,
			Capacity:       14,
			Speed:          70,
			FuelCapacity:   55,
			Reliability:    70,
			FuelEfficiency: 9,
			MaxDistance:    60,
		},
		{
			ID:             "matatu_modern",
			Name:           "Modern Shuttle",
			Description:    "A 33-seater with working seatbelts and a real timetable.",
			Cost:           150000,
			Capacity:       33,
			Speed:          80,
			FuelCapacity:   70,
			Reliability:    90,
			FuelEfficiency: 11,
			MaxDistance:    100,
		},
	}
}

// DefaultRoutes is the built-in standard route set.
func DefaultRoutes() []models.Route {
	return []models.Route{
		{
			ID:            "route1",
			Name:          "CBD - Westlands",
			Start:         "CBD",
			End:           "Westlands",
			StartPoint:    models.Point{Name: "CBD", X: 100, Y: 300},
			EndPoint:      models.Point{Name: "Westlands", X: 500, Y: 150},
			Waypoints:     []models.Point{{X: 250, Y: 250}, {X: 380, Y: 180}},
			Distance:      8,
			PassengerFlow: 9,
			Fare:          50,
			Risk:          3,
		},
		{
			ID:            "route2",
			Name:          "CBD - Eastleigh",
			Start:         "CBD",
			End:           "Eastleigh",
			StartPoint:    models.Point{Name: "CBD", X: 100, Y: 300},
			EndPoint:      models.Point{Name: "Eastleigh", X: 450, Y: 480},
			Waypoints:     []models.Point{{X: 220, Y: 380}, {X: 340, Y: 440}},
			Distance:      6,
			PassengerFlow: 8,
			Fare:          75,
			Risk:          6,
		},
		{
			ID:            "route3",
			Name:          "CBD - Rongai",
			Start:         "CBD",
			End:           "Rongai",
			StartPoint:    models.Point{Name: "CBD", X: 100, Y: 300},
			EndPoint:      models.Point{Name: "Rongai", X: 80, Y: 620},
			Waypoints:     []models.Point{{X: 60, Y: 420}, {X: 90, Y: 520}},
			Distance:      20,
			PassengerFlow: 7,
			Fare:          60,
			Risk:          5,
		},
	}
}
