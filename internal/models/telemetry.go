package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

const (
	InteractionFormSubmission   = "form_submission"
	InteractionAdviceGeneration = "advice_generation"

	QueryTypeRealEstateAdvice = "real_estate_advice"

	// ErrorTypeGenerationFailure classifies failed generation attempts in
	// the query log; the verbatim upstream message is kept on the
	// interaction row only.
	ErrorTypeGenerationFailure = "generation_failure"
)

// UserInteraction is the append-only interaction log. A form_submission
// row is inserted provisionally before the generation call and finalized
// exactly once afterwards; advice_generation rows are appended already
// complete on the success path.
type UserInteraction struct {
	ID              string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SessionID       string         `gorm:"column:session_id;type:text;index" json:"session_id"`
	UserAgent       string         `gorm:"column:user_agent;type:text" json:"user_agent"`
	IPAddress       string         `gorm:"column:ip_address;type:text" json:"ip_address"`
	InteractionType string         `gorm:"column:interaction_type;type:text;index" json:"interaction_type"`
	Page            string         `gorm:"column:page;type:text" json:"page"`
	FormData        datatypes.JSON `gorm:"column:form_data;type:jsonb" json:"form_data"`

	// Denormalized for fast filtering and group-bys.
	PropertyType *string `gorm:"column:property_type;type:text" json:"property_type"`
	Budget       *string `gorm:"column:budget;type:text" json:"budget"`
	Location     *string `gorm:"column:location;type:text" json:"location"`

	AdviceGenerated bool      `gorm:"column:advice_generated" json:"advice_generated"`
	ResponseTime    *int      `gorm:"column:response_time" json:"response_time"` // ms
	Success         bool      `gorm:"column:success" json:"success"`
	ErrorMessage    *string   `gorm:"column:error_message;type:text" json:"error_message"`
	CreatedAt       time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (UserInteraction) TableName() string { return "user_interactions" }

// QueryLog is the unconditional record of one generation attempt,
// written on both the success and the failure path.
type QueryLog struct {
	ID         string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	QueryType  string         `gorm:"column:query_type;type:text;index" json:"query_type"`
	QueryText  string         `gorm:"column:query_text;type:text" json:"query_text"`
	Parameters datatypes.JSON `gorm:"column:parameters;type:jsonb" json:"parameters"`
	SessionID  string         `gorm:"column:session_id;type:text;index" json:"session_id"`
	UserAgent  string         `gorm:"column:user_agent;type:text" json:"user_agent"`

	ResponseTime *int    `gorm:"column:response_time" json:"response_time"` // ms
	Success      bool    `gorm:"column:success" json:"success"`
	ErrorType    *string `gorm:"column:error_type;type:text" json:"error_type"`

	Category string         `gorm:"column:category;type:text" json:"category"` // profile kind
	Tags     pq.StringArray `gorm:"column:tags;type:text[]" json:"tags"`

	CreatedAt time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (QueryLog) TableName() string { return "query_logs" }

// UserPreference is the aggregated per-session profile, one row per
// session id, upserted on every advice request.
type UserPreference struct {
	SessionID    string         `gorm:"column:session_id;type:text;primaryKey" json:"session_id"`
	PropertyType string         `gorm:"column:property_type;type:text" json:"property_type"`
	Budget       string         `gorm:"column:budget;type:text" json:"budget"`
	Locations    pq.StringArray `gorm:"column:locations;type:text[]" json:"locations"`

	VisitCount int       `gorm:"column:visit_count" json:"visit_count"`
	LastVisit  time.Time `gorm:"column:last_visit;index" json:"last_visit"`

	PreferredFeatures pq.StringArray `gorm:"column:preferred_features;type:text[]" json:"preferred_features"`
	AdviceStyle       string         `gorm:"column:advice_style;type:text" json:"advice_style"` // standard|detailed

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (UserPreference) TableName() string { return "user_preferences" }

// TypeCount is a group-by bucket used by the analytics queries.
type TypeCount struct {
	Type  string `json:"type"`
	Count int64  `json:"count"`
}
