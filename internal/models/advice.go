package models

import "fmt"

type ProfileKind string

const (
	ProfileInvestor     ProfileKind = "investor"
	ProfileExpatriate   ProfileKind = "expatriate"
	ProfileDigitalNomad ProfileKind = "digital_nomad"
	ProfileFamily       ProfileKind = "family"
)

type InvestmentType string

const (
	InvestmentResidential    InvestmentType = "residential"
	InvestmentCommercial     InvestmentType = "commercial"
	InvestmentVacationRental InvestmentType = "vacation_rental"
	InvestmentMixed          InvestmentType = "mixed"
)

type BudgetRange string

const (
	BudgetUnder200k BudgetRange = "under_200k"
	Budget200k500k  BudgetRange = "200k_500k"
	Budget500k1m    BudgetRange = "500k_1m"
	Budget1m2m      BudgetRange = "1m_2m"
	BudgetOver2m    BudgetRange = "over_2m"
)

type Location string

const (
	LocationMadrid    Location = "madrid"
	LocationBarcelona Location = "barcelona"
	LocationValencia  Location = "valencia"
	LocationSeville   Location = "seville"
	LocationMalaga    Location = "malaga"
	LocationCoastal   Location = "coastal"
	LocationOther     Location = "other"
)

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExperienced  ExperienceLevel = "experienced"
)

type Timeline string

const (
	TimelineImmediate  Timeline = "immediate"
	TimelineSixMonths  Timeline = "6_months"
	TimelineOneYear    Timeline = "1_year"
	TimelineTwoYears   Timeline = "2_years_plus"
)

// LivingPreferences covers the general living section of the form.
// All fields are optional; the zero value contributes nothing.
type LivingPreferences struct {
	Setting        string   `json:"setting,omitempty"`         // city_center|suburban|coastal_town|rural
	PropertyStyles []string `json:"property_styles,omitempty"` // apartment|villa|townhouse|penthouse|finca
	NewBuild       *bool    `json:"new_build,omitempty"`
	Furnished      *bool    `json:"furnished,omitempty"`
	PetFriendly    *bool    `json:"pet_friendly,omitempty"`
}

type EducationPreferences struct {
	InternationalSchools bool   `json:"international_schools,omitempty"`
	PublicSchools        bool   `json:"public_schools,omitempty"`
	Universities         bool   `json:"universities,omitempty"`
	Proximity            string `json:"proximity,omitempty"` // walking_distance|short_drive|no_preference
}

type AppreciationExpectations struct {
	Horizon             string `json:"horizon,omitempty"`       // short_term|medium_term|long_term
	AnnualTarget        string `json:"annual_target,omitempty"` // conservative|moderate|aggressive
	RentalYieldPriority bool   `json:"rental_yield_priority,omitempty"`
	ResaleLiquidity     bool   `json:"resale_liquidity,omitempty"`
}

type AmenityPreferences struct {
	Pool            bool `json:"pool,omitempty"`
	Garden          bool `json:"garden,omitempty"`
	Terrace         bool `json:"terrace,omitempty"`
	Parking         bool `json:"parking,omitempty"`
	Gym             bool `json:"gym,omitempty"`
	SeaView         bool `json:"sea_view,omitempty"`
	AirConditioning bool `json:"air_conditioning,omitempty"`
	Elevator        bool `json:"elevator,omitempty"`
}

// AdviceRequest is the full preference document submitted by a client.
// The top-level enums are required; the nested groups are optional and
// a nil group is treated as "section not filled in".
type AdviceRequest struct {
	Profile        ProfileKind     `json:"profile"`
	InvestmentType InvestmentType  `json:"investment_type"`
	Budget         BudgetRange     `json:"budget"`
	Locations      []Location      `json:"locations"`
	Experience     ExperienceLevel `json:"experience"`
	Timeline       Timeline        `json:"timeline"`
	CompareAreas   bool            `json:"compare_areas,omitempty"`

	SpecificQuestions string `json:"specific_questions,omitempty"`

	Living       *LivingPreferences        `json:"living,omitempty"`
	Education    *EducationPreferences     `json:"education,omitempty"`
	Appreciation *AppreciationExpectations `json:"appreciation,omitempty"`
	Amenities    *AmenityPreferences       `json:"amenities,omitempty"`
}

var (
	profileKinds = map[ProfileKind]struct{}{
		ProfileInvestor: {}, ProfileExpatriate: {}, ProfileDigitalNomad: {}, ProfileFamily: {},
	}
	investmentTypes = map[InvestmentType]struct{}{
		InvestmentResidential: {}, InvestmentCommercial: {}, InvestmentVacationRental: {}, InvestmentMixed: {},
	}
	budgetRanges = map[BudgetRange]struct{}{
		BudgetUnder200k: {}, Budget200k500k: {}, Budget500k1m: {}, Budget1m2m: {}, BudgetOver2m: {},
	}
	locations = map[Location]struct{}{
		LocationMadrid: {}, LocationBarcelona: {}, LocationValencia: {}, LocationSeville: {},
		LocationMalaga: {}, LocationCoastal: {}, LocationOther: {},
	}
	experienceLevels = map[ExperienceLevel]struct{}{
		ExperienceBeginner: {}, ExperienceIntermediate: {}, ExperienceExperienced: {},
	}
	timelines = map[Timeline]struct{}{
		TimelineImmediate: {}, TimelineSixMonths: {}, TimelineOneYear: {}, TimelineTwoYears: {},
	}
	livingSettings = map[string]struct{}{
		"city_center": {}, "suburban": {}, "coastal_town": {}, "rural": {},
	}
	propertyStyles = map[string]struct{}{
		"apartment": {}, "villa": {}, "townhouse": {}, "penthouse": {}, "finca": {},
	}
	schoolProximities = map[string]struct{}{
		"walking_distance": {}, "short_drive": {}, "no_preference": {},
	}
	appreciationHorizons = map[string]struct{}{
		"short_term": {}, "medium_term": {}, "long_term": {},
	}
	appreciationTargets = map[string]struct{}{
		"conservative": {}, "moderate": {}, "aggressive": {},
	}
)

// Validate checks enum membership and required fields. It is called
// before any telemetry is written, so a rejected document leaves no trail.
func (r *AdviceRequest) Validate() error {
	if _, ok := profileKinds[r.Profile]; !ok {
		return fmt.Errorf("invalid profile %q", r.Profile)
	}
	if _, ok := investmentTypes[r.InvestmentType]; !ok {
		return fmt.Errorf("invalid investment_type %q", r.InvestmentType)
	}
	if _, ok := budgetRanges[r.Budget]; !ok {
		return fmt.Errorf("invalid budget %q", r.Budget)
	}
	if len(r.Locations) == 0 {
		return fmt.Errorf("at least one location is required")
	}
	for _, loc := range r.Locations {
		if _, ok := locations[loc]; !ok {
			return fmt.Errorf("invalid location %q", loc)
		}
	}
	if _, ok := experienceLevels[r.Experience]; !ok {
		return fmt.Errorf("invalid experience %q", r.Experience)
	}
	if _, ok := timelines[r.Timeline]; !ok {
		return fmt.Errorf("invalid timeline %q", r.Timeline)
	}
	if l := r.Living; l != nil {
		if l.Setting != "" {
			if _, ok := livingSettings[l.Setting]; !ok {
				return fmt.Errorf("invalid living.setting %q", l.Setting)
			}
		}
		for _, st := range l.PropertyStyles {
			if _, ok := propertyStyles[st]; !ok {
				return fmt.Errorf("invalid living.property_styles entry %q", st)
			}
		}
	}
	if e := r.Education; e != nil && e.Proximity != "" {
		if _, ok := schoolProximities[e.Proximity]; !ok {
			return fmt.Errorf("invalid education.proximity %q", e.Proximity)
		}
	}
	if a := r.Appreciation; a != nil {
		if a.Horizon != "" {
			if _, ok := appreciationHorizons[a.Horizon]; !ok {
				return fmt.Errorf("invalid appreciation.horizon %q", a.Horizon)
			}
		}
		if a.AnnualTarget != "" {
			if _, ok := appreciationTargets[a.AnnualTarget]; !ok {
				return fmt.Errorf("invalid appreciation.annual_target %q", a.AnnualTarget)
			}
		}
	}
	return nil
}

// AdviceStyle classifies how detailed the generated advice should be,
// based on whether the client asked free-text questions.
func (r *AdviceRequest) AdviceStyle() string {
	if r.SpecificQuestions != "" {
		return "detailed"
	}
	return "standard"
}
