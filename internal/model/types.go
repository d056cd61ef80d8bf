package model

import "time"

// ActivityCategory is the closed set of lifestyle activity categories.
type ActivityCategory string

const (
	CategoryTransportation ActivityCategory = "transportation"
	CategoryEnergy         ActivityCategory = "energy"
	CategoryFood           ActivityCategory = "food"
	CategoryShopping       ActivityCategory = "shopping"
	CategoryWaste          ActivityCategory = "waste"
	CategoryTravel         ActivityCategory = "travel"
	CategoryHousing        ActivityCategory = "housing"
)

// Categories lists every known category in display order.
func Categories() []ActivityCategory {
	return []ActivityCategory{
		CategoryTransportation,
		CategoryEnergy,
		CategoryFood,
		CategoryShopping,
		CategoryWaste,
		CategoryTravel,
		CategoryHousing,
	}
}

// Valid reports whether c is one of the known categories.
func (c ActivityCategory) Valid() bool {
	switch c {
	case CategoryTransportation, CategoryEnergy, CategoryFood,
		CategoryShopping, CategoryWaste, CategoryTravel, CategoryHousing:
		return true
	}
	return false
}

// InsightType classifies an insight.
type InsightType string

const (
	InsightTrend      InsightType = "trend"
	InsightComparison InsightType = "comparison"
	InsightMilestone  InsightType = "milestone"
	InsightAlert      InsightType = "alert"
)

// Severity grades an insight.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
)

// RecommendationType classifies a recommendation.
type RecommendationType string

const (
	RecommendationAction  RecommendationType = "action"
	RecommendationProduct RecommendationType = "product"
	RecommendationHabit   RecommendationType = "habit"
	RecommendationGoal    RecommendationType = "goal"
)

// Difficulty grades how hard a recommendation is to adopt.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// RecommendationStatus tracks the lifecycle of a recommendation. New
// recommendations start pending; later transitions are owned by the store.
type RecommendationStatus string

const (
	StatusPending   RecommendationStatus = "pending"
	StatusAccepted  RecommendationStatus = "accepted"
	StatusDeclined  RecommendationStatus = "declined"
	StatusCompleted RecommendationStatus = "completed"
)

// LifestyleType describes a user's consumption profile.
type LifestyleType string

const (
	LifestyleMinimal         LifestyleType = "minimal"
	LifestyleModerate        LifestyleType = "moderate"
	LifestyleHighConsumption LifestyleType = "high-consumption"
)

// GoalStatus tracks a carbon goal's lifecycle.
type GoalStatus string

const (
	GoalActive    GoalStatus = "active"
	GoalCompleted GoalStatus = "completed"
	GoalPaused    GoalStatus = "paused"
)

// CarbonGoal is a user-declared reduction target.
type CarbonGoal struct {
	GoalID          string            `json:"goalId"`
	UserID          string            `json:"userId"`
	Period          string            `json:"period"` // weekly, monthly, yearly
	TargetReduction float64           `json:"targetReduction"`
	CurrentProgress float64           `json:"currentProgress"`
	Deadline        time.Time         `json:"deadline"`
	Category        *ActivityCategory `json:"category,omitempty"`
	Status          GoalStatus        `json:"status"`
}

// UserProfile carries the household context used by the analysis agents.
type UserProfile struct {
	Location      string        `json:"location"`
	HouseholdSize int           `json:"householdSize"`
	Lifestyle     LifestyleType `json:"lifestyle"`
	Goals         []CarbonGoal  `json:"goals,omitempty"`
}

// UserSettings holds display preferences.
type UserSettings struct {
	Notifications bool   `json:"notifications"`
	DataSharing   bool   `json:"dataSharing"`
	Units         string `json:"units"` // metric or imperial
	Currency      string `json:"currency"`
}

// User represents an account in the system.
type User struct {
	UserID       string       `json:"userId"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	Profile      UserProfile  `json:"profile"`
	Settings     UserSettings `json:"settings"`
	CreationTime time.Time    `json:"creationTime"`
	UpdateTime   time.Time    `json:"updateTime"`
}

// ActiveGoals returns the user's goals currently in the active state.
func (u *User) ActiveGoals() []CarbonGoal {
	var out []CarbonGoal
	for _, g := range u.Profile.Goals {
		if g.Status == GoalActive {
			out = append(out, g)
		}
	}
	return out
}

// Activity is an immutable record of one priced lifestyle activity.
// Emission is kg CO2e and may be negative for waste-diversion activities
// that avoid emissions (recycling, composting).
type Activity struct {
	ActivityID string                 `json:"activityId"`
	UserID     string                 `json:"userId"`
	Category   ActivityCategory       `json:"category"`
	Type       string                 `json:"type"`
	Amount     float64                `json:"amount"`
	Unit       string                 `json:"unit"`
	Emission   float64                `json:"emission"`
	Date       time.Time              `json:"date"`
	Location   *string                `json:"location,omitempty"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Source     string                 `json:"source"` // manual, api, ai-detected
}

// ActivityInput describes an activity to price. Date and Location are
// optional; missing values degrade to neutral multipliers, never errors.
type ActivityInput struct {
	Category ActivityCategory       `json:"category"`
	Type     string                 `json:"type"`
	Amount   float64                `json:"amount"`
	Unit     string                 `json:"unit"`
	Date     *time.Time             `json:"date,omitempty"`
	Location *string                `json:"location,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// BreakdownEntry is one ordered contribution inside a CalculationResult.
type BreakdownEntry struct {
	Factor   string  `json:"factor"`
	Amount   float64 `json:"amount"`
	Emission float64 `json:"emission"`
	Unit     string  `json:"unit"`
}

// CalculationResult is the priced, explainable output of the calculation
// engine. Breakdown always holds exactly three entries in fixed order:
// base factor, location adjustment, temporal adjustment; their emissions
// sum to Emission.
type CalculationResult struct {
	Emission        float64          `json:"emission"`
	Confidence      float64          `json:"confidence"`
	Breakdown       []BreakdownEntry `json:"breakdown"`
	Recommendations []string         `json:"recommendations"`
}

// Insight is an analyzer-produced observation about a user's footprint.
type Insight struct {
	InsightID    string                 `json:"insightId"`
	UserID       string                 `json:"userId"`
	Type         InsightType            `json:"type"`
	Title        string                 `json:"title"`
	Message      string                 `json:"message"`
	Data         map[string]interface{} `json:"data,omitempty"`
	Severity     Severity               `json:"severity"`
	CreationTime time.Time              `json:"creationTime"`
	Read         bool                   `json:"read"`
}

// Impact quantifies the effect of adopting a recommendation. CarbonReduction
// is non-negative; Cost may be negative, meaning net savings.
type Impact struct {
	CarbonReduction float64    `json:"carbonReduction"`
	Cost            float64    `json:"cost"`
	Difficulty      Difficulty `json:"difficulty"`
	Timeframe       string     `json:"timeframe"`
}

// Recommendation is a ranked reduction intervention.
type Recommendation struct {
	RecommendationID string               `json:"recommendationId"`
	UserID           string               `json:"userId"`
	Type             RecommendationType   `json:"type"`
	Title            string               `json:"title"`
	Description      string               `json:"description"`
	Category         ActivityCategory     `json:"category"`
	Impact           Impact               `json:"impact"`
	Confidence       float64              `json:"confidence"`
	Reasoning        string               `json:"reasoning"`
	CreationTime     time.Time            `json:"creationTime"`
	Status           RecommendationStatus `json:"status"`
}

// AgentDescriptor is static capability metadata for an analysis agent,
// created at construction and never mutated.
type AgentDescriptor struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Capabilities []string `json:"capabilities"`
}

// ExternalInsight is the generative provider's contribution to an analysis
// pass, or its deterministic substitute when the provider is unconfigured
// or failing.
type ExternalInsight struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
	Insights        string   `json:"insights"`
	Confidence      float64  `json:"confidence,omitempty"`
	Prediction      string   `json:"prediction,omitempty"`
	Source          string   `json:"source,omitempty"`
	Error           string   `json:"error,omitempty"`
}

// ListActivitiesRequest captures filters used when listing activities.
type ListActivitiesRequest struct {
	UserID   string
	Category *ActivityCategory
	Limit    int
}
