package game

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"matatu_empire/internal/models"
)

const (
	eventCheckInterval = 15.0
	eventChance        = 0.4
	// Probability that a template of the previous event's category stays in
	// the candidate pool.
	repeatCategoryChance = 0.3
	// Reputation hit for picking a choice the player cannot pay for.
	unpaidCostPenalty = 3
)

// EventEngine triggers narrative events on its own timer and resolves player
// choices against the ledger. At most one event is live at a time.
type EventEngine struct {
	templates []models.EventTemplate
	elapsed   float64
	current   *models.ActiveEvent
	lastType  string
	rng       *rand.Rand
}

func NewEventEngine(rng *rand.Rand) *EventEngine {
	return &EventEngine{
		templates: defaultEventTemplates(),
		rng:       rng,
	}
}

// Current returns the pending event, or nil.
func (e *EventEngine) Current() *models.ActiveEvent {
	return e.current
}

// Advance accumulates simulated time and, every check interval, rolls for a
// new event. Firing is suppressed entirely while one is already pending.
// player and vehicles are read-only snapshots used for pool weighting.
func (e *EventEngine) Advance(deltaTime float64, player models.PlayerLedger, vehicles []models.Vehicle) *models.ActiveEvent {
	e.elapsed += deltaTime
	if e.elapsed < eventCheckInterval {
		return nil
	}
	e.elapsed = 0
	if e.current != nil {
		return nil
	}
	if e.rng.Float64() >= eventChance {
		return nil
	}
	return e.trigger(player, vehicles)
}

func (e *EventEngine) trigger(player models.PlayerLedger, vehicles []models.Vehicle) *models.ActiveEvent {
	pool := e.buildPool(player, vehicles)
	if len(pool) == 0 {
		return nil
	}
	tpl := pool[e.rng.Intn(len(pool))]

	ev := &models.ActiveEvent{
		InstanceID:  uuid.NewString(),
		TemplateID:  tpl.ID,
		Title:       tpl.Title,
		Description: tpl.Description,
		Type:        tpl.Type,
		Choices:     append([]models.EventChoice(nil), tpl.Choices...),
	}
	e.personalize(ev, vehicles)
	e.current = ev
	e.lastType = tpl.Type
	return ev
}

// buildPool assembles the weighted candidate multiset: the previous
// category is deprioritised, then state-dependent rules re-add templates to
// boost their selection weight. The rules are additive, not exclusive.
func (e *EventEngine) buildPool(player models.PlayerLedger, vehicles []models.Vehicle) []models.EventTemplate {
	pool := make([]models.EventTemplate, 0, len(e.templates)*2)
	for _, tpl := range e.templates {
		if tpl.Type != e.lastType || e.rng.Float64() < repeatCategoryChance {
			pool = append(pool, tpl)
		}
	}

	poorCondition := false
	for _, v := range vehicles {
		if v.Condition < 30 {
			poorCondition = true
			break
		}
	}
	if poorCondition {
		pool = append(pool, e.templatesOfType(eventTypeMechanical)...)
	}
	if player.Reputation > 70 {
		pool = append(pool, e.templatesOfType(eventTypePositive)...)
		pool = append(pool, e.templatesOfType(eventTypeOpportunity)...)
	}
	if player.Reputation < 40 {
		pool = append(pool, e.templatesOfType(eventTypePolice)...)
	}
	return pool
}

func (e *EventEngine) templatesOfType(t string) []models.EventTemplate {
	var out []models.EventTemplate
	for _, tpl := range e.templates {
		if tpl.Type == t {
			out = append(out, tpl)
		}
	}
	return out
}

// personalize swaps the generic vehicle phrase for a running vehicle's name
// on mechanical and passenger events.
func (e *EventEngine) personalize(ev *models.ActiveEvent, vehicles []models.Vehicle) {
	if ev.Type != eventTypeMechanical && ev.Type != eventTypePassenger {
		return
	}
	var running []models.Vehicle
	for _, v := range vehicles {
		if v.Status == models.VehicleRunning {
			running = append(running, v)
		}
	}
	if len(running) == 0 {
		return
	}
	picked := running[e.rng.Intn(len(running))]
	ev.Description = strings.Replace(ev.Description, genericVehiclePhrase, fmt.Sprintf("your %q", picked.Name), 1)
}

// EventOutcome summarises a resolution for the presentation layer.
type EventOutcome struct {
	Message  string          `json:"message"`
	Severity models.Severity `json:"severity"`
}

// Choice effects are evaluated as a fixed pipeline rather than ad hoc
// optional-field checks, so the interaction between an unpayable cost and a
// chance roll is unambiguous.
type effectKind int

const (
	effectPayCost effectKind = iota
	effectApplyPenalty
	effectGrantBonus
	effectShiftReputation
	effectRollChance
)

type choiceEffect struct {
	kind       effectKind
	amount     int64
	reputation int
	chance     float64
	altCost    int64
	penalty    int64
}

func compileChoice(c models.EventChoice) []choiceEffect {
	var fx []choiceEffect
	if c.Cost > 0 {
		fx = append(fx, choiceEffect{kind: effectPayCost, amount: c.Cost})
	}
	if c.Penalty > 0 {
		fx = append(fx, choiceEffect{kind: effectApplyPenalty, amount: c.Penalty})
	}
	if c.Bonus > 0 {
		fx = append(fx, choiceEffect{kind: effectGrantBonus, amount: c.Bonus})
	}
	if c.ReputationChange != 0 {
		fx = append(fx, choiceEffect{kind: effectShiftReputation, reputation: c.ReputationChange})
	}
	if c.HasChance {
		fx = append(fx, choiceEffect{kind: effectRollChance, chance: c.SuccessChance, altCost: c.AlternativeCost, penalty: c.Penalty})
	}
	return fx
}

// Resolve applies the chosen option's effect pipeline to the ledger and
// clears the active event. Resolving with no active event is a no-op.
func (e *EventEngine) Resolve(action string, eco *Economy) (EventOutcome, error) {
	if e.current == nil {
		return EventOutcome{}, ErrNoActiveEvent
	}
	var chosen *models.EventChoice
	for i := range e.current.Choices {
		if e.current.Choices[i].Action == action {
			chosen = &e.current.Choices[i]
			break
		}
	}
	if chosen == nil {
		return EventOutcome{}, ErrUnknownChoice
	}

	var parts []string
	severity := models.SeverityEvent
	skipPositive := false

	for _, fx := range compileChoice(*chosen) {
		switch fx.kind {
		case effectPayCost:
			if eco.SpendCash(fx.amount) {
				parts = append(parts, fmt.Sprintf("You paid Ksh %d.", fx.amount))
			} else {
				parts = append(parts, fmt.Sprintf("You couldn't afford Ksh %d!", fx.amount))
				eco.AdjustReputation(-unpaidCostPenalty)
				severity = models.SeverityError
				skipPositive = true
			}
		case effectApplyPenalty:
			eco.AddCash(-fx.amount)
			parts = append(parts, fmt.Sprintf("Lost Ksh %d.", fx.amount))
			severity = models.SeverityError
		case effectGrantBonus:
			if skipPositive {
				continue
			}
			eco.AddCash(fx.amount)
			parts = append(parts, fmt.Sprintf("Earned Ksh %d!", fx.amount))
			severity = models.SeveritySuccess
		case effectShiftReputation:
			eco.AdjustReputation(fx.reputation)
			if fx.reputation > 0 {
				parts = append(parts, "Reputation improved!")
			} else {
				parts = append(parts, "Reputation suffered.")
			}
		case effectRollChance:
			if skipPositive {
				continue
			}
			if e.rng.Float64() < fx.chance {
				if chosen.Description != "" {
					parts = append(parts, chosen.Description)
				} else {
					parts = append(parts, "It worked out!")
				}
				severity = models.SeveritySuccess
			} else {
				switch {
				case fx.altCost > 0:
					eco.AddCash(-fx.altCost)
					parts = append(parts, fmt.Sprintf("Failed! Cost you Ksh %d.", fx.altCost))
				case fx.penalty > 0:
					eco.AddCash(-fx.penalty)
					parts = append(parts, fmt.Sprintf("Failed! Lost Ksh %d.", fx.penalty))
				default:
					parts = append(parts, "It didn't work out as planned.")
				}
				severity = models.SeverityError
			}
		}
	}

	if !chosen.HasChance && chosen.Description != "" {
		parts = append(parts, chosen.Description)
	}

	e.current = nil
	return EventOutcome{Message: strings.Join(parts, " "), Severity: severity}, nil
}
