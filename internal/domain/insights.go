package domain

// LLMInsightsOutput contains the structured output from the LLM.
// @Description LLM-generated sleep insights.
type LLMInsightsOutput struct {
	// Summary of sleep patterns (2-3 sentences)
	Summary string `json:"summary" example:"Your sleep has been fairly consistent this week..."`
	// Observations about patterns (3-6 items)
	Observations []string `json:"observations" example:"[\"Midpoint variability stayed under 45 minutes\"]"`
	// Actionable guidance (3-5 items)
	Guidance []string `json:"guidance" example:"[\"Try to keep your current 11 PM bedtime on weekends too\"]"`
}

// InsightsContext is the context object sent to the LLM: the recent
// nights, the longitudinal metrics over them, and the rule-derived
// recommendations the model should expand on.
// @Description Context data for LLM insights generation.
type InsightsContext struct {
	Nights          []NightResponse  `json:"nights"`
	Metrics         MetricsReport    `json:"metrics"`
	Recommendations []Recommendation `json:"recommendations"`
}

// InsightsResponse is the response for the insights endpoint.
// @Description Complete sleep insights response.
type InsightsResponse struct {
	// Metrics the narrative was generated from
	Metrics MetricsReport `json:"metrics"`
	// Rule-derived recommendations included in the LLM context
	Recommendations []Recommendation `json:"recommendations"`
	// LLM-generated narrative
	Insights LLMInsightsOutput `json:"insights"`
}
