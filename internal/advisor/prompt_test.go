package advisor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ibercasa/ibercasa/internal/models"
)

func TestBuildPromptsFamilyScenario(t *testing.T) {
	req := baseRequest()
	norm := Normalize(req)

	system, user := BuildPrompts(req, norm)

	assert.Contains(t, system, "School districts and educational opportunities")
	assert.Contains(t, system, "Legal requirements for foreign investors")
	assert.Contains(t, system, "Tax implications and fiscal considerations")

	assert.Contains(t, user, "Madrid")
	assert.Contains(t, user, "Barcelona")
	assert.Contains(t, user, "€200,000 - €500,000")
	assert.Contains(t, user, "Please compare the selected areas")
}

func TestBuildPromptsNoComparisonWithoutSecondLocation(t *testing.T) {
	req := baseRequest()
	req.Locations = []models.Location{models.LocationMadrid}
	req.CompareAreas = true

	_, user := BuildPrompts(req, Normalize(req))
	assert.NotContains(t, user, "Please compare the selected areas")
}

func TestBuildPromptsNoComparisonWithoutFlag(t *testing.T) {
	req := baseRequest()
	req.CompareAreas = false

	_, user := BuildPrompts(req, Normalize(req))
	assert.NotContains(t, user, "Please compare the selected areas")
}

func TestBuildPromptsRendersBlocksAndQuestions(t *testing.T) {
	req := baseRequest()
	req.SpecificQuestions = "Is a golden visa still available?"
	req.Amenities = &models.AmenityPreferences{Terrace: true}

	_, user := BuildPrompts(req, Normalize(req))

	assert.Contains(t, user, "**Desired Amenities:**")
	assert.Contains(t, user, "terrace")
	assert.Contains(t, user, "**Specific Questions:**")
	assert.Contains(t, user, "Is a golden visa still available?")
}

func TestBuildPromptsPersonaPerProfile(t *testing.T) {
	kinds := []models.ProfileKind{
		models.ProfileInvestor,
		models.ProfileExpatriate,
		models.ProfileDigitalNomad,
		models.ProfileFamily,
	}

	seen := map[string]struct{}{}
	for _, kind := range kinds {
		req := baseRequest()
		req.Profile = kind
		system, _ := BuildPrompts(req, Normalize(req))
		assert.True(t, strings.HasPrefix(system, "You are an expert real estate advisor"), "persona opening for %s", kind)
		seen[system] = struct{}{}
	}
	assert.Len(t, seen, len(kinds), "each profile kind gets its own system prompt")
}

func TestBuildPromptsDeterministic(t *testing.T) {
	req := baseRequest()
	req.Education = &models.EducationPreferences{Universities: true}

	s1, u1 := BuildPrompts(req, Normalize(req))
	s2, u2 := BuildPrompts(req, Normalize(req))
	assert.Equal(t, s1, s2)
	assert.Equal(t, u1, u2)
}
