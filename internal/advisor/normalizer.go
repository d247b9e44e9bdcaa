package advisor

import (
	"fmt"
	"strings"

	"github.com/ibercasa/ibercasa/internal/models"
)

const (
	TagMultiLocationComparison = "multi_location_comparison"
	TagAreaComparison          = "area_comparison"
)

// Block is one labeled prose section derived from a populated
// preference group.
type Block struct {
	Label string
	Body  string
}

// Normalized is the deterministic shape of a preference document:
// prose blocks for the prompt and a flat tag vocabulary for analytics.
type Normalized struct {
	Blocks []Block
	Tags   []string
}

// Normalize renders the optional preference groups into labeled prose
// blocks and derives the tag list. It is pure: the same document always
// produces byte-identical output. Absent or empty groups contribute
// neither a block nor tags.
func Normalize(req *models.AdviceRequest) Normalized {
	var n Normalized

	tags := []string{
		string(req.InvestmentType),
		string(req.Budget),
		string(req.Experience),
	}

	if b, t := livingBlock(req.Living); b != nil {
		n.Blocks = append(n.Blocks, *b)
		tags = append(tags, t...)
	}
	if b, t := educationBlock(req.Education); b != nil {
		n.Blocks = append(n.Blocks, *b)
		tags = append(tags, t...)
	}
	if b, t := appreciationBlock(req.Appreciation); b != nil {
		n.Blocks = append(n.Blocks, *b)
		tags = append(tags, t...)
	}
	if b, t := amenitiesBlock(req.Amenities); b != nil {
		n.Blocks = append(n.Blocks, *b)
		tags = append(tags, t...)
	}

	for _, loc := range req.Locations {
		tags = append(tags, string(loc))
	}
	if len(req.Locations) > 1 {
		tags = append(tags, TagMultiLocationComparison)
	}
	if req.CompareAreas {
		tags = append(tags, TagAreaComparison)
	}

	n.Tags = dedupe(tags)
	return n
}

// Humanize turns a machine token into prose ("vacation_rental" ->
// "vacation rental").
func Humanize(s string) string {
	return strings.ReplaceAll(s, "_", " ")
}

func livingBlock(l *models.LivingPreferences) (*Block, []string) {
	if l == nil {
		return nil, nil
	}
	var lines, tags []string
	if l.Setting != "" {
		lines = append(lines, "- Preferred setting: "+Humanize(l.Setting))
		tags = append(tags, l.Setting)
	}
	if len(l.PropertyStyles) > 0 {
		human := make([]string, len(l.PropertyStyles))
		for i, st := range l.PropertyStyles {
			human[i] = Humanize(st)
			tags = append(tags, st)
		}
		lines = append(lines, "- Property styles: "+strings.Join(human, ", "))
	}
	lines = appendBoolPtr(lines, &tags, "New build preferred", "new_build", l.NewBuild)
	lines = appendBoolPtr(lines, &tags, "Furnished", "furnished", l.Furnished)
	lines = appendBoolPtr(lines, &tags, "Pet friendly", "pet_friendly", l.PetFriendly)
	if len(lines) == 0 {
		return nil, nil
	}
	return &Block{Label: "General Living Preferences", Body: strings.Join(lines, "\n")}, tags
}

func educationBlock(e *models.EducationPreferences) (*Block, []string) {
	if e == nil {
		return nil, nil
	}
	var lines, tags []string
	lines = appendBool(lines, &tags, "International schools nearby", "international_schools", e.InternationalSchools)
	lines = appendBool(lines, &tags, "Public schools nearby", "public_schools", e.PublicSchools)
	lines = appendBool(lines, &tags, "Universities nearby", "universities", e.Universities)
	if e.Proximity != "" {
		lines = append(lines, "- School proximity: "+Humanize(e.Proximity))
		tags = append(tags, e.Proximity)
	}
	if len(lines) == 0 {
		return nil, nil
	}
	return &Block{Label: "Education", Body: strings.Join(lines, "\n")}, tags
}

func appreciationBlock(a *models.AppreciationExpectations) (*Block, []string) {
	if a == nil {
		return nil, nil
	}
	var lines, tags []string
	if a.Horizon != "" {
		lines = append(lines, "- Appreciation horizon: "+Humanize(a.Horizon))
		tags = append(tags, a.Horizon)
	}
	if a.AnnualTarget != "" {
		lines = append(lines, "- Annual appreciation target: "+Humanize(a.AnnualTarget))
		tags = append(tags, a.AnnualTarget)
	}
	lines = appendBool(lines, &tags, "Rental yield is a priority", "rental_yield_priority", a.RentalYieldPriority)
	lines = appendBool(lines, &tags, "Resale liquidity matters", "resale_liquidity", a.ResaleLiquidity)
	if len(lines) == 0 {
		return nil, nil
	}
	return &Block{Label: "Expected Appreciation", Body: strings.Join(lines, "\n")}, tags
}

func amenitiesBlock(a *models.AmenityPreferences) (*Block, []string) {
	if a == nil {
		return nil, nil
	}
	wanted := []struct {
		on  bool
		tag string
	}{
		{a.Pool, "pool"},
		{a.Garden, "garden"},
		{a.Terrace, "terrace"},
		{a.Parking, "parking"},
		{a.Gym, "gym"},
		{a.SeaView, "sea_view"},
		{a.AirConditioning, "air_conditioning"},
		{a.Elevator, "elevator"},
	}
	var names, tags []string
	for _, w := range wanted {
		if w.on {
			names = append(names, Humanize(w.tag))
			tags = append(tags, w.tag)
		}
	}
	if len(names) == 0 {
		return nil, nil
	}
	body := "- Desired amenities: " + strings.Join(names, ", ")
	return &Block{Label: "Desired Amenities", Body: body}, tags
}

func appendBool(lines []string, tags *[]string, label, tag string, on bool) []string {
	if !on {
		return lines
	}
	*tags = append(*tags, tag)
	return append(lines, "- "+label)
}

func appendBoolPtr(lines []string, tags *[]string, label, tag string, v *bool) []string {
	if v == nil {
		return lines
	}
	if *v {
		*tags = append(*tags, tag)
		return append(lines, "- "+label)
	}
	return append(lines, fmt.Sprintf("- %s: no", label))
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
