package advisor

import (
	"strings"

	"github.com/ibercasa/ibercasa/internal/models"
)

var personas = map[models.ProfileKind]string{
	models.ProfileInvestor:     "an expert real estate advisor specializing in Spanish property investment for international investors",
	models.ProfileExpatriate:   "an expert real estate advisor specializing in Spanish property for expatriates relocating to Spain",
	models.ProfileDigitalNomad: "an expert real estate advisor specializing in Spanish property for remote workers and digital nomads settling in Spain",
	models.ProfileFamily:       "an expert real estate advisor specializing in Spanish property for families making Spain their home",
}

var profileFocus = map[models.ProfileKind]string{
	models.ProfileInvestor: `Give particular weight to:
- ROI analysis and rental yield calculations
- Market trends and capital appreciation potential
- Tax optimization strategies for international investors
- Property management and exit strategies`,
	models.ProfileExpatriate: `Give particular weight to:
- Residency requirements and visa implications
- Integration into local communities
- Banking and healthcare access
- Long-term settlement planning`,
	models.ProfileDigitalNomad: `Give particular weight to:
- Flexible rental options and short-term arrangements
- Internet connectivity and coworking spaces
- Transportation hub proximity
- Vibrant expat communities`,
	models.ProfileFamily: `Give particular weight to:
- School districts and educational opportunities
- Family-friendly neighborhoods and safety
- Healthcare and pediatric services
- Parks and recreational facilities`,
}

var budgetText = map[models.BudgetRange]string{
	models.BudgetUnder200k: "under €200,000",
	models.Budget200k500k:  "€200,000 - €500,000",
	models.Budget500k1m:    "€500,000 - €1,000,000",
	models.Budget1m2m:      "€1,000,000 - €2,000,000",
	models.BudgetOver2m:    "over €2,000,000",
}

var locationText = map[models.Location]string{
	models.LocationMadrid:    "Madrid",
	models.LocationBarcelona: "Barcelona",
	models.LocationValencia:  "Valencia",
	models.LocationSeville:   "Seville",
	models.LocationMalaga:    "Málaga",
	models.LocationCoastal:   "Spanish coastal areas",
	models.LocationOther:     "other Spanish regions",
}

const expertiseSections = `Focus on:
- Current market conditions and trends in Spain
- Investment potential and expected returns
- Legal requirements for foreign investors
- Tax implications and fiscal considerations
- Practical steps for property acquisition
- Regional market differences
- Risk factors and mitigation strategies`

// BuildPrompts renders the system and user prompt from a validated
// document and its normalized form. Pure; no I/O.
func BuildPrompts(req *models.AdviceRequest, norm Normalized) (system, user string) {
	var sys strings.Builder
	sys.WriteString("You are ")
	sys.WriteString(personas[req.Profile])
	sys.WriteString(". You provide strategic, practical advice covering market trends, investment opportunities, legal considerations, and fiscal implications. Your advice should be informative but not constitute formal financial or legal advice.\n\n")
	sys.WriteString(expertiseSections)
	sys.WriteString("\n\n")
	sys.WriteString(profileFocus[req.Profile])
	sys.WriteString("\n\nKeep responses comprehensive but concise, well-structured with clear sections, and tailored to the client's profile.")

	locs := make([]string, len(req.Locations))
	for i, l := range req.Locations {
		locs[i] = locationText[l]
	}

	var usr strings.Builder
	usr.WriteString("Please provide strategic real estate advice for a client with the following profile:\n\n")
	usr.WriteString("**Investment Details:**\n")
	usr.WriteString("- Property Type: " + Humanize(string(req.InvestmentType)) + "\n")
	usr.WriteString("- Budget Range: " + budgetText[req.Budget] + "\n")
	usr.WriteString("- Preferred Locations: " + strings.Join(locs, ", ") + "\n")
	usr.WriteString("- Experience Level: " + Humanize(string(req.Experience)) + "\n")
	usr.WriteString("- Investment Timeline: " + Humanize(string(req.Timeline)) + "\n")

	for _, b := range norm.Blocks {
		usr.WriteString("\n**" + b.Label + ":**\n")
		usr.WriteString(b.Body)
		usr.WriteString("\n")
	}

	if req.SpecificQuestions != "" {
		usr.WriteString("\n**Specific Questions:**\n")
		usr.WriteString(req.SpecificQuestions)
		usr.WriteString("\n")
	}

	if len(req.Locations) > 1 && req.CompareAreas {
		usr.WriteString("\nPlease compare the selected areas (" + strings.Join(locs, ", ") + ") directly, contrasting prices, rental demand, lifestyle, and growth prospects, and recommend which area best fits this profile.\n")
	}

	usr.WriteString("\nPlease provide comprehensive advice covering market analysis, investment strategy, legal considerations, tax implications, and practical next steps.")

	return sys.String(), usr.String()
}
