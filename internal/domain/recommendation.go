package domain

// RecommendationPriority orders recommendations; higher sorts first.
// @Description Recommendation priority: HIGH, MEDIUM or LOW.
type RecommendationPriority int

const (
	PriorityLow    RecommendationPriority = 1
	PriorityMedium RecommendationPriority = 2
	PriorityHigh   RecommendationPriority = 3
)

func (p RecommendationPriority) String() string {
	switch p {
	case PriorityHigh:
		return "HIGH"
	case PriorityMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// MarshalJSON renders the priority as its display name.
func (p RecommendationPriority) MarshalJSON() ([]byte, error) {
	return []byte(`"` + p.String() + `"`), nil
}

// UnmarshalJSON accepts the display name form.
func (p *RecommendationPriority) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"HIGH"`:
		*p = PriorityHigh
	case `"MEDIUM"`:
		*p = PriorityMedium
	default:
		*p = PriorityLow
	}
	return nil
}

// RecommendationCategory is a stable tag identifying which rule
// produced a recommendation.
type RecommendationCategory string

const (
	CategoryGeneral     RecommendationCategory = "general"
	CategoryDuration    RecommendationCategory = "duration"
	CategoryConsistency RecommendationCategory = "consistency"
	CategorySchedule    RecommendationCategory = "schedule"
	CategoryEfficiency  RecommendationCategory = "efficiency"
	CategoryJetlag      RecommendationCategory = "jetlag"
	CategoryBedtime     RecommendationCategory = "bedtime"
	CategoryPositive    RecommendationCategory = "positive"
)

// Recommendation is one piece of rule-derived guidance.
// @Description Prioritized, human-readable sleep guidance.
type Recommendation struct {
	// Stable rule tag
	Category RecommendationCategory `json:"category" example:"duration"`
	Priority RecommendationPriority `json:"priority" swaggertype:"string" example:"HIGH"`
	Title    string                 `json:"title" example:"Increase Sleep Duration"`
	// Interpolates the computed figure that triggered the rule
	Description string `json:"description"`
	// True when the user can act on it directly
	Actionable bool `json:"actionable" example:"true"`
	// Optional concrete next step
	SuggestedAction string `json:"suggested_action,omitempty"`
}

// RecommendationListResponse wraps the recommendations endpoint payload.
// @Description Ordered recommendation list, highest priority first.
type RecommendationListResponse struct {
	Data []Recommendation `json:"data"`
}
