package game

import (
	"math/rand"

	"matatu_empire/internal/models"
)

// Fixed modifier triples per weather label.
var weatherEffects = map[models.WeatherLabel]models.WeatherEffects{
	models.WeatherSunny:  {PassengerMultiplier: 1.0, FuelMultiplier: 1.0, BreakdownChance: 0.02, Icon: "sun"},
	models.WeatherRainy:  {PassengerMultiplier: 1.3, FuelMultiplier: 1.1, BreakdownChance: 0.05, Icon: "rain"},
	models.WeatherCloudy: {PassengerMultiplier: 1.1, FuelMultiplier: 1.0, BreakdownChance: 0.03, Icon: "cloud"},
	models.WeatherFoggy:  {PassengerMultiplier: 0.8, FuelMultiplier: 1.2, BreakdownChance: 0.04, Icon: "fog"},
}

var weatherLabels = []models.WeatherLabel{
	models.WeatherSunny,
	models.WeatherRainy,
	models.WeatherCloudy,
	models.WeatherFoggy,
}

const (
	firstWeatherChange = 60.0
	minWeatherDuration = 45.0
	maxWeatherDuration = 120.0
)

// WeatherModel holds the current weather and advances it on its own timer.
// Transitions never repeat the current label.
type WeatherModel struct {
	current    models.WeatherLabel
	elapsed    float64
	nextChange float64
	rng        *rand.Rand
}

func NewWeatherModel(rng *rand.Rand) *WeatherModel {
	return &WeatherModel{
		current:    models.WeatherSunny,
		nextChange: firstWeatherChange,
		rng:        rng,
	}
}

func (w *WeatherModel) Current() models.WeatherLabel {
	return w.current
}

// SetCurrent restores a label from a snapshot. Unknown labels fall back to
// sunny rather than poisoning every later tick.
func (w *WeatherModel) SetCurrent(label models.WeatherLabel) {
	if _, ok := weatherEffects[label]; !ok {
		label = models.WeatherSunny
	}
	w.current = label
	w.elapsed = 0
}

// Effects returns the modifier triple for the active weather.
func (w *WeatherModel) Effects() models.WeatherEffects {
	return weatherEffects[w.current]
}

// Advance accumulates elapsed time and reports whether the weather changed,
// returning the old and new labels when it did.
func (w *WeatherModel) Advance(deltaTime float64) (changed bool, old, now models.WeatherLabel) {
	w.elapsed += deltaTime
	if w.elapsed < w.nextChange {
		return false, w.current, w.current
	}
	old = w.current
	w.current = w.pickNext()
	w.elapsed = 0
	w.nextChange = minWeatherDuration + w.rng.Float64()*(maxWeatherDuration-minWeatherDuration)
	return true, old, w.current
}

// pickNext selects uniformly among the three non-current labels.
func (w *WeatherModel) pickNext() models.WeatherLabel {
	candidates := make([]models.WeatherLabel, 0, len(weatherLabels)-1)
	for _, l := range weatherLabels {
		if l != w.current {
			candidates = append(candidates, l)
		}
	}
	return candidates[w.rng.Intn(len(candidates))]
}
