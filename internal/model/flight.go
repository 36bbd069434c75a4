package model

// FlightRequest identifies a single scheduled flight for
// POST /api/flight-recommendations.
type FlightRequest struct {
	CarrierCode            string `json:"carrierCode"`
	FlightNumber           string `json:"flightNumber"`
	ScheduledDepartureDate string `json:"scheduledDepartureDate"`
}

// FlightDesignator echoes the requested flight identity.
type FlightDesignator struct {
	CarrierCode            string `json:"carrierCode"`
	FlightNumber           string `json:"flightNumber"`
	ScheduledDepartureDate string `json:"scheduledDepartureDate"`
}

// FlightEndpoint is one end of a flight (departure or arrival).
type FlightEndpoint struct {
	AirportCode      string `json:"airportCode"`
	ScheduledTimeISO string `json:"scheduledTimeISO"`
}

// FlightSegment is a marketed segment between two points.
type FlightSegment struct {
	BoardPointIataCode       string `json:"boardPointIataCode"`
	OffPointIataCode         string `json:"offPointIataCode"`
	ScheduledSegmentDuration string `json:"scheduledSegmentDuration"`
	OperatingCarrierCode     string `json:"operatingCarrierCode,omitempty"`
	OperatingFlightNumber    string `json:"operatingFlightNumber,omitempty"`
}

// FlightLeg is an operated leg between two points.
type FlightLeg struct {
	BoardPointIataCode string `json:"boardPointIataCode"`
	OffPointIataCode   string `json:"offPointIataCode"`
	AircraftType       string `json:"aircraftType,omitempty"`
	ScheduledLegDuration string `json:"scheduledLegDuration"`
}

// FlightDetails is the normalized flight record the backend derives from
// its flight-data provider.
type FlightDetails struct {
	FlightDesignator FlightDesignator `json:"flightDesignator"`
	Departure        FlightEndpoint   `json:"departure"`
	Arrival          FlightEndpoint   `json:"arrival"`
	Segments         []FlightSegment  `json:"segments"`
	Legs             []FlightLeg      `json:"legs"`
}

// CircadianAdjustment groups strategy lists for shifting the body clock
// around a flight.
type CircadianAdjustment struct {
	PreFlightStrategy    []string `json:"pre_flight_strategy"`
	DuringFlightStrategy []string `json:"during_flight_strategy"`
	PostArrivalStrategy  []string `json:"post_arrival_strategy"`
}

// Preparation lists pre-trip tasks.
type Preparation struct {
	PackingTips   []string `json:"packing_tips"`
	WellbeingPrep []string `json:"wellbeing_prep"`
}

// FlightWellbeing lists in-flight activities and health tips.
type FlightWellbeing struct {
	InFlightActivities []string `json:"in_flight_activities"`
	InFlightHealthTips []string `json:"in_flight_health_tips"`
}

// ArrivalPlan lists post-arrival recommendations.
type ArrivalPlan struct {
	First24Hours       []string `json:"first_24_hours"`
	LongTermAdjustment []string `json:"long_term_adjustment"`
}

// SleepSchedule carries destination-local sleep timing advice.
type SleepSchedule struct {
	AdjustmentPeriodAdvice  string `json:"adjustment_period_advice"`
	RecommendedBedtimeLocal string `json:"recommended_bedtime_local"`
	RecommendedWakeLocal    string `json:"recommended_wake_time_local"`
	NapStrategyAdvice       string `json:"nap_strategy_advice"`
}

// ExercisePlan lists movement advice per trip phase.
type ExercisePlan struct {
	PreFlightRoutine     []string `json:"pre_flight_routine"`
	DuringFlightMovement []string `json:"during_flight_movement"`
	PostFlightActivity   []string `json:"post_flight_activity"`
}

// MealTiming advises first-day meal times at the destination.
type MealTiming struct {
	FirstDayBreakfast string `json:"first_day_breakfast"`
	FirstDayLunch     string `json:"first_day_lunch"`
	FirstDayDinner    string `json:"first_day_dinner"`
}

// MealPlan combines meal timing with dietary advice.
type MealPlan struct {
	TimingAdjustment       MealTiming `json:"timing_adjustment"`
	DietaryRecommendations []string   `json:"dietary_recommendations"`
}

// HydrationPlan carries a daily intake target and reminder tips.
type HydrationPlan struct {
	DailyTargetLiters     string   `json:"daily_target_liters"`
	HydrationScheduleTips []string `json:"hydration_schedule_tips"`
}

// Recommendations is the structured advice produced for one flight,
// either by the backend pipeline or by the local advisor.
type Recommendations struct {
	CircadianAdjustment *CircadianAdjustment `json:"circadian_adjustment,omitempty"`
	Preparation         *Preparation         `json:"preparation,omitempty"`
	FlightWellbeing     *FlightWellbeing     `json:"flight_wellbeing,omitempty"`
	ArrivalPlan         *ArrivalPlan         `json:"arrival_plan,omitempty"`
	SleepSchedule       *SleepSchedule       `json:"sleep_schedule,omitempty"`
	ExercisePlan        *ExercisePlan        `json:"exercise_plan,omitempty"`
	MealPlan            *MealPlan            `json:"meal_plan,omitempty"`
	HydrationPlan       *HydrationPlan       `json:"hydration_plan,omitempty"`
}

// FlightRecommendationsResponse is the combined payload from
// POST /api/flight-recommendations.
type FlightRecommendationsResponse struct {
	Success         bool             `json:"success"`
	FlightDetails   *FlightDetails   `json:"flight_details,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
}
