package advisor

import (
	"fmt"

	"google.golang.org/genai"
)

// recommendationsPrompt asks for the combined travel + health advice the
// backend pipeline produces, constrained to the wire JSON shape.
func recommendationsPrompt(flightJSON string) string {
	return fmt.Sprintf(`You are an expert in travel health, circadian rhythms, and jet lag
management. Analyze the flight below and produce recommendations that help
the traveler adjust to the destination time zone and stay healthy.

Cover:
1. Circadian rhythm adjustment strategy (use the departure time, arrival
   time, flight duration, and destination).
2. Pre-flight preparation.
3. During-flight activities and health tips.
4. Post-arrival adjustment plan.
5. Personalized sleep schedule, exercise plan, meal timing, and hydration
   plan for the destination.

Flight details:
%s

Respond strictly as a single JSON object matching the response schema.`, flightJSON)
}

// summaryPrompt asks for a very short user-facing status line for the
// given internal action description.
func summaryPrompt(action string) string {
	return fmt.Sprintf(`Based on the latest action: %q, provide a very concise,
user-friendly status update (max 10 words) that reflects what the system
is currently doing or has just finished.

Examples:
- Input: "generating travel plan..." Output: "Creating your personalized travel plan..."
- Input: "compiling health recommendations..." Output: "Gathering health tips for your trip..."
- Input: "All analyses completed!" Output: "Finalizing your travel recommendations..."

Latest logged action: %q
Concise status update:`, action, action)
}

func stringList(description string) *genai.Schema {
	return &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
		Description: description,
	}
}

// recommendationsSchema constrains the model output to the
// model.Recommendations wire shape.
func recommendationsSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"circadian_adjustment": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"pre_flight_strategy":    stringList("Strategies before departure"),
					"during_flight_strategy": stringList("Strategies during the flight"),
					"post_arrival_strategy":  stringList("Strategies after arrival"),
				},
				Required: []string{"pre_flight_strategy", "during_flight_strategy", "post_arrival_strategy"},
			},
			"preparation": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"packing_tips":   stringList("Packing suggestions"),
					"wellbeing_prep": stringList("Pre-trip wellbeing tasks"),
				},
				Required: []string{"packing_tips", "wellbeing_prep"},
			},
			"flight_wellbeing": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"in_flight_activities": stringList("Recommended in-flight activities"),
					"in_flight_health_tips": stringList("In-flight health tips"),
				},
				Required: []string{"in_flight_activities", "in_flight_health_tips"},
			},
			"arrival_plan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"first_24_hours":       stringList("First-day recommendations"),
					"long_term_adjustment": stringList("Longer-term adjustment advice"),
				},
				Required: []string{"first_24_hours", "long_term_adjustment"},
			},
			"sleep_schedule": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"adjustment_period_advice":  {Type: genai.TypeString},
					"recommended_bedtime_local": {Type: genai.TypeString, Description: "e.g. '10:00 PM Tokyo Time'"},
					"recommended_wake_time_local": {Type: genai.TypeString, Description: "e.g. '7:00 AM Tokyo Time'"},
					"nap_strategy_advice":       {Type: genai.TypeString},
				},
				Required: []string{"adjustment_period_advice", "recommended_bedtime_local", "recommended_wake_time_local", "nap_strategy_advice"},
			},
			"exercise_plan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"pre_flight_routine":     stringList("Exercises before the flight"),
					"during_flight_movement": stringList("Movement during the flight"),
					"post_flight_activity":   stringList("Activity after arrival"),
				},
				Required: []string{"pre_flight_routine", "during_flight_movement", "post_flight_activity"},
			},
			"meal_plan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"timing_adjustment": {
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"first_day_breakfast": {Type: genai.TypeString},
							"first_day_lunch":     {Type: genai.TypeString},
							"first_day_dinner":    {Type: genai.TypeString},
						},
						Required: []string{"first_day_breakfast", "first_day_lunch", "first_day_dinner"},
					},
					"dietary_recommendations": stringList("Dietary suggestions for travel"),
				},
				Required: []string{"timing_adjustment", "dietary_recommendations"},
			},
			"hydration_plan": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"daily_target_liters":     {Type: genai.TypeString, Description: "e.g. '2-3 liters'"},
					"hydration_schedule_tips": stringList("Hydration reminders and tips"),
				},
				Required: []string{"daily_target_liters", "hydration_schedule_tips"},
			},
		},
		Required: []string{
			"circadian_adjustment", "preparation", "flight_wellbeing",
			"arrival_plan", "sleep_schedule", "exercise_plan",
			"meal_plan", "hydration_plan",
		},
	}
}
