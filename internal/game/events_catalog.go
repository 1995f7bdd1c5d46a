package game

import "matatu_empire/internal/models"

// Event categories used for pool weighting.
const (
	eventTypePolice      = "police"
	eventTypeLegal       = "legal"
	eventTypePassenger   = "passenger"
	eventTypeOperations  = "operations"
	eventTypePositive    = "positive"
	eventTypeEconomic    = "economic"
	eventTypeOpportunity = "opportunity"
	eventTypeMechanical  = "mechanical"
	eventTypeWeather     = "weather"
	eventTypeCompetition = "competition"
	eventTypeSocial      = "social"
	eventTypeSeasonal    = "seasonal"
)

// genericVehiclePhrase is replaced with a running vehicle's name when an
// event is personalised.
const genericVehiclePhrase = "one of your matatus"

// defaultEventTemplates is the built-in narrative event catalog.
func defaultEventTemplates() []models.EventTemplate {
	return []models.EventTemplate{
		{
			ID:          "police_check",
			Title:       "Police Checkpoint!",
			Description: "A police officer has pulled over one of your matatus for a \"routine\" inspection. What do you do?",
			Type:        eventTypePolice,
			Choices: []models.EventChoice{
				{Text: "Bribe Officer (Ksh 2,000)", Action: "bribe", Cost: 2000, SuccessChance: 0.9, HasChance: true, ReputationChange: -2},
				{Text: "Wait it out legally", Action: "wait", Penalty: 1000, ReputationChange: 1, Description: "You lose time and money but maintain integrity."},
				{Text: "Try to negotiate", Action: "negotiate", SuccessChance: 0.6, HasChance: true, AlternativeCost: 500, Description: "Smooth talking might work..."},
			},
		},
		{
			ID:          "license_inspection",
			Title:       "License Inspection",
			Description: "Traffic police want to inspect your vehicle licenses and permits. Your papers are...",
			Type:        eventTypeLegal,
			Choices: []models.EventChoice{
				{Text: "All in order (Ksh 0)", Action: "legal", Description: "Clean papers, no problem!"},
				{Text: "Pay fine (Ksh 3,000)", Action: "fine", Cost: 3000, Description: "Some documents were expired."},
				{Text: "Try to flee", Action: "flee", SuccessChance: 0.3, HasChance: true, Penalty: 5000, ReputationChange: -5, Description: "Risky move!"},
			},
		},
		{
			ID:          "drunk_passenger",
			Title:       "Drunk Passenger Problem",
			Description: "A heavily intoxicated passenger is causing trouble in one of your matatus. Other passengers are complaining.",
			Type:        eventTypePassenger,
			Choices: []models.EventChoice{
				{Text: "Driver kicks them out", Action: "kick_out", Penalty: 200, ReputationChange: 2, Description: "Lost the fare but kept other passengers happy."},
				{Text: "Let them stay", Action: "tolerate", Penalty: 500, ReputationChange: -3, Description: "Other passengers are upset and some got off early."},
				{Text: "Call police", Action: "police", ReputationChange: 1, Description: "Professional handling of the situation."},
			},
		},
		{
			ID:          "driver_sick",
			Title:       "Driver Called in Sick",
			Description: "One of your drivers called in sick this morning. You have a matatu but no driver for the busy route.",
			Type:        eventTypeOperations,
			Choices: []models.EventChoice{
				{Text: "Hire temporary driver (Ksh 1,500)", Action: "temp_driver", Cost: 1500, Description: "Route continues with reduced efficiency."},
				{Text: "Drive it yourself", Action: "self_drive", ReputationChange: 3, Description: "You take the wheel for the day!"},
				{Text: "Park for the day", Action: "park", Penalty: 2000, Description: "Lost a full day of earnings."},
			},
		},
		{
			ID:          "happy_passengers",
			Title:       "Happy Passengers",
			Description: "Passengers are praising your matatu service! Word is spreading about your reliable fleet.",
			Type:        eventTypePositive,
			Choices: []models.EventChoice{
				{Text: "Thank them", Action: "thank", Bonus: 500, ReputationChange: 3, Description: "Your reputation grows!"},
			},
		},
		{
			ID:          "fuel_hike",
			Title:       "Fuel Price Surge!",
			Description: "The government announced a sudden 25% fuel price increase. This affects all your operations.",
			Type:        eventTypeEconomic,
			Choices: []models.EventChoice{
				{Text: "Increase fares temporarily", Action: "raise_fares", ReputationChange: -1, Description: "Passengers grumble but accept it."},
				{Text: "Absorb the cost", Action: "absorb", Penalty: 1000, ReputationChange: 2, Description: "Customers appreciate your stability."},
			},
		},
		{
			ID:          "bonus_route",
			Title:       "Lucrative Event Route",
			Description: "There's a big concert downtown! Demand for transport has skyrocketed. Quick money to be made!",
			Type:        eventTypeOpportunity,
			Choices: []models.EventChoice{
				{Text: "Send your best matatu", Action: "send_best", Bonus: 3000, Description: "Big earnings from the event crowd!"},
				{Text: "Send multiple matatus", Action: "send_multiple", Bonus: 5000, Cost: 1000, Description: "Higher earnings but fuel costs!"},
				{Text: "Stick to regular routes", Action: "ignore", Description: "Play it safe with normal operations."},
			},
		},
		{
			ID:          "breakdown_busy",
			Title:       "Breakdown During Rush Hour",
			Description: "One of your matatus broke down during peak morning rush! Passengers are stranded and frustrated.",
			Type:        eventTypeMechanical,
			Choices: []models.EventChoice{
				{Text: "Emergency repair (Ksh 4,000)", Action: "emergency_fix", Cost: 4000, Description: "Quick but expensive roadside fix."},
				{Text: "Call tow truck (Ksh 2,000)", Action: "tow", Cost: 2000, Penalty: 1500, ReputationChange: -2, Description: "Safer but passengers are very late."},
				{Text: "Try DIY fix", Action: "diy", SuccessChance: 0.5, HasChance: true, Penalty: 3000, Description: "Might work... might make it worse!"},
			},
		},
		{
			ID:          "tire_burst",
			Title:       "Tire Blowout",
			Description: "A tire burst on one of your matatus while carrying passengers. Everyone is safe but shaken.",
			Type:        eventTypeMechanical,
			Choices: []models.EventChoice{
				{Text: "Replace immediately (Ksh 2,500)", Action: "replace", Cost: 2500, Description: "Back on the road quickly."},
				{Text: "Use spare tire", Action: "spare", Description: "Temporary fix, but needs proper replacement soon."},
				{Text: "Offer passengers refund", Action: "refund", Cost: 800, ReputationChange: 4, Description: "Passengers appreciate your honesty."},
			},
		},
		{
			ID:          "heavy_rain",
			Title:       "Heavy Rainfall",
			Description: "Torrential rains have flooded several routes. Some roads are impassable.",
			Type:        eventTypeWeather,
			Choices: []models.EventChoice{
				{Text: "Take alternative routes", Action: "detour", Penalty: 500, Description: "Longer routes mean higher fuel costs."},
				{Text: "Wait for rain to stop", Action: "wait_rain", Penalty: 1200, Description: "Lost hours of operation."},
				{Text: "Risk the flooded road", Action: "risk_flood", SuccessChance: 0.4, HasChance: true, Penalty: 3000, Description: "Dangerous but might pay off..."},
			},
		},
		{
			ID:          "new_competitor",
			Title:       "New Competition",
			Description: "A new matatu company started operating on your most profitable route with shiny new vehicles!",
			Type:        eventTypeCompetition,
			Choices: []models.EventChoice{
				{Text: "Lower your fares", Action: "price_war", Penalty: 800, ReputationChange: 1, Description: "Fight fire with fire!"},
				{Text: "Improve your service", Action: "improve", Cost: 2000, ReputationChange: 3, Description: "Invest in better service quality."},
				{Text: "Ignore them", Action: "ignore_comp", Description: "Focus on your loyal customers."},
			},
		},
		{
			ID:          "student_discount",
			Title:       "Students Need Help",
			Description: "University students are asking for discounted fares during exam period. They promise loyalty.",
			Type:        eventTypeSocial,
			Choices: []models.EventChoice{
				{Text: "Give 30% discount", Action: "big_discount", Penalty: 600, ReputationChange: 5, Description: "Students love you!"},
				{Text: "Give 15% discount", Action: "small_discount", Penalty: 300, ReputationChange: 2, Description: "Reasonable compromise."},
				{Text: "No discounts", Action: "no_discount", ReputationChange: -2, Description: "Business is business."},
			},
		},
		{
			ID:          "holiday_rush",
			Title:       "Holiday Travel Boom",
			Description: "It's holiday season! Everyone is traveling to visit family. Demand is through the roof!",
			Type:        eventTypeSeasonal,
			Choices: []models.EventChoice{
				{Text: "Work overtime hours", Action: "overtime", Bonus: 4000, Description: "Drivers work extra shifts for big profits!"},
				{Text: "Normal operations", Action: "normal", Bonus: 1500, Description: "Steady earnings without overworking."},
				{Text: "Give drivers holiday bonus", Action: "bonus_drivers", Cost: 1000, ReputationChange: 4, Description: "Happy drivers, better service!"},
			},
		},
	}
}
