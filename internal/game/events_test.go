package game

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"matatu_empire/internal/models"
)

func neutralPlayer() models.PlayerLedger {
	return models.PlayerLedger{Cash: 50000, Reputation: 50}
}

func TestEventEngineRespectsCheckInterval(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	assert.Nil(t, e.Advance(14.9, neutralPlayer(), nil))
	assert.Less(t, e.elapsed, eventCheckInterval)
}

func TestEventEngineEventuallyTriggers(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	var got *models.ActiveEvent
	for i := 0; i < 100 && got == nil; i++ {
		got = e.Advance(eventCheckInterval, neutralPlayer(), nil)
	}
	require.NotNil(t, got, "a 40% per-interval chance should fire within 100 intervals")
	assert.NotEmpty(t, got.InstanceID)
	assert.NotEmpty(t, got.Choices)
	assert.Equal(t, got, e.Current())
}

func TestEventEngineSuppressedWhilePending(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{InstanceID: "x", TemplateID: "police_check"}

	for i := 0; i < 50; i++ {
		assert.Nil(t, e.Advance(eventCheckInterval, neutralPlayer(), nil))
	}
	assert.Equal(t, "x", e.current.InstanceID, "pending event untouched")
}

func TestEventOutcomeMarshalsSnakeCase(t *testing.T) {
	out := EventOutcome{Message: "You paid the fine.", Severity: models.SeverityInfo}
	data, err := json.Marshal(out)
	require.NoError(t, err)

	var keys map[string]any
	require.NoError(t, json.Unmarshal(data, &keys))
	assert.Contains(t, keys, "message")
	assert.Contains(t, keys, "severity")
	assert.NotContains(t, keys, "Message")
}

func TestBuildPoolEnrichment(t *testing.T) {
	countType := func(pool []models.EventTemplate, typ string) int {
		n := 0
		for _, tpl := range pool {
			if tpl.Type == typ {
				n++
			}
		}
		return n
	}

	e := NewEventEngine(rand.New(rand.NewSource(1)))
	base := countType(e.buildPool(neutralPlayer(), nil), eventTypePolice)

	lowRep := models.PlayerLedger{Cash: 50000, Reputation: 30}
	boosted := countType(e.buildPool(lowRep, nil), eventTypePolice)
	assert.Greater(t, boosted, base, "low reputation doubles police templates in the pool")

	brokenFleet := []models.Vehicle{{ID: 1, Condition: 10}}
	e2 := NewEventEngine(rand.New(rand.NewSource(1)))
	baseMech := countType(e2.buildPool(neutralPlayer(), nil), eventTypeMechanical)
	boostedMech := countType(e2.buildPool(neutralPlayer(), brokenFleet), eventTypeMechanical)
	assert.Greater(t, boostedMech, baseMech, "poor condition doubles mechanical templates")

	highRep := models.PlayerLedger{Cash: 50000, Reputation: 80}
	e3 := NewEventEngine(rand.New(rand.NewSource(1)))
	basePos := countType(e3.buildPool(neutralPlayer(), nil), eventTypePositive)
	boostedPos := countType(e3.buildPool(highRep, nil), eventTypePositive)
	assert.Greater(t, boostedPos, basePos, "high reputation doubles positive templates")
}

func TestPersonalizeUsesRunningVehicleName(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	ev := &models.ActiveEvent{
		Type:        eventTypeMechanical,
		Description: "Smoke is pouring out of one of your matatus.",
	}
	e.personalize(ev, []models.Vehicle{
		{ID: 1, Name: "Old Reliable", Status: models.VehicleRunning},
	})
	assert.Contains(t, ev.Description, `your "Old Reliable"`)

	generic := &models.ActiveEvent{
		Type:        eventTypeMechanical,
		Description: "Smoke is pouring out of one of your matatus.",
	}
	e.personalize(generic, []models.Vehicle{{ID: 1, Name: "Idle One", Status: models.VehicleIdle}})
	assert.Contains(t, generic.Description, genericVehiclePhrase, "no running vehicle keeps the generic phrase")
}

func TestResolveNoActiveEvent(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	_, err := e.Resolve("bribe", NewEconomy(neutralPlayer()))
	assert.ErrorIs(t, err, ErrNoActiveEvent)
}

func TestResolveUnknownChoice(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{{Action: "wait"}},
	}
	_, err := e.Resolve("sprint", NewEconomy(neutralPlayer()))
	assert.ErrorIs(t, err, ErrUnknownChoice)
	assert.NotNil(t, e.Current(), "a bad choice leaves the event pending")
}

func TestResolveUnaffordableCost(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{
			{Action: "pay", Cost: 2000, Bonus: 500, HasChance: true, SuccessChance: 1.0},
		},
	}
	eco := NewEconomy(models.PlayerLedger{Cash: 100, Reputation: 50})

	outcome, err := e.Resolve("pay", eco)
	require.NoError(t, err)

	p := eco.Player()
	assert.Equal(t, int64(100), p.Cash, "neither cost, bonus nor chance touch the ledger")
	assert.Equal(t, 47, p.Reputation, "unpaid cost costs 3 reputation")
	assert.Equal(t, models.SeverityError, outcome.Severity)
	assert.Nil(t, e.Current(), "resolution clears the event even on failure")
}

func TestResolvePenaltyAndReputation(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{
			{Action: "wait", Penalty: 1000, ReputationChange: 1},
		},
	}
	eco := NewEconomy(models.PlayerLedger{Cash: 5000, Reputation: 50})

	_, err := e.Resolve("wait", eco)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), eco.Player().Cash)
	assert.Equal(t, 51, eco.Player().Reputation)
}

func TestResolveBonus(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{{Action: "accept", Bonus: 8000, ReputationChange: 3}},
	}
	eco := NewEconomy(models.PlayerLedger{Cash: 1000, Reputation: 50})

	outcome, err := e.Resolve("accept", eco)
	require.NoError(t, err)
	assert.Equal(t, int64(9000), eco.Player().Cash)
	assert.Equal(t, int64(8000), eco.Player().TotalEarningsAllTime)
	assert.Equal(t, models.SeveritySuccess, outcome.Severity)
}

func TestResolveChanceAlwaysSucceeds(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{
			{Action: "talk", HasChance: true, SuccessChance: 1.0, AlternativeCost: 500, Description: "Smooth talking worked."},
		},
	}
	eco := NewEconomy(models.PlayerLedger{Cash: 1000, Reputation: 50})

	outcome, err := e.Resolve("talk", eco)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), eco.Player().Cash)
	assert.Equal(t, models.SeveritySuccess, outcome.Severity)
	assert.Contains(t, outcome.Message, "Smooth talking worked.")
}

func TestResolveChanceFailureChargesAlternativeCost(t *testing.T) {
	e := NewEventEngine(rand.New(rand.NewSource(1)))
	e.current = &models.ActiveEvent{
		Choices: []models.EventChoice{
			{Action: "talk", HasChance: true, SuccessChance: 0.0, AlternativeCost: 500},
		},
	}
	eco := NewEconomy(models.PlayerLedger{Cash: 1000, Reputation: 50})

	outcome, err := e.Resolve("talk", eco)
	require.NoError(t, err)
	assert.Equal(t, int64(500), eco.Player().Cash)
	assert.Equal(t, models.SeverityError, outcome.Severity)
}

func TestDefaultTemplatesWellFormed(t *testing.T) {
	templates := defaultEventTemplates()
	assert.Len(t, templates, 13)
	seen := map[string]bool{}
	for _, tpl := range templates {
		assert.False(t, seen[tpl.ID], "duplicate template id %s", tpl.ID)
		seen[tpl.ID] = true
		assert.NotEmpty(t, tpl.Title)
		assert.NotEmpty(t, tpl.Type)
		assert.NotEmpty(t, tpl.Choices, "template %s needs at least one choice", tpl.ID)
		for _, c := range tpl.Choices {
			assert.NotEmpty(t, c.Action, "template %s has a choice without an action", tpl.ID)
			if c.HasChance {
				assert.GreaterOrEqual(t, c.SuccessChance, 0.0)
				assert.LessOrEqual(t, c.SuccessChance, 1.0)
			}
		}
	}
}
