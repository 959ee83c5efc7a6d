package services

import "fmt"

// Meal data sources, in the vocabulary of the app's datasets:
// gustar (home recipes), off (Open Food Facts packaged products),
// ciqual (French generic-food nutrition table), llm (generative).
const (
	SourceGustar = "gustar"
	SourceOFF    = "off"
	SourceCiqual = "ciqual"
	SourceLLM    = "llm"
)

// Diets that make the recipe pool too thin to rely on.
var restrictiveDiets = map[string]bool{
	"vegan": true,
	"keto":  true,
}

// MealContext carries everything the router needs to pick a source.
type MealContext struct {
	MealType  string   // breakfast|lunch|dinner|snack
	DietType  string
	Allergens []string

	TargetCalories float64
	// Tolerance around the calorie target in percent. <=5 counts as
	// unusually strict and forces the generative source.
	CalorieTolerancePct float64

	Quick      bool   // user asked for something fast
	Preference string // fresh|recipes|quick|balanced

	Query string // optional free-text from the user
}

// SourceDecision is the routing verdict plus the ordered fallback
// chain tried when the primary yields nothing.
type SourceDecision struct {
	Source     string   `json:"source"`
	Confidence float64  `json:"confidence"`
	Reason     string   `json:"reason"`
	Fallbacks  []string `json:"fallbacks"`
}

// complexRestrictions reports whether the dietary constraints are
// involved enough that curated datasets tend to come back empty.
func complexRestrictions(mc MealContext) bool {
	return len(mc.Allergens) >= 2 || restrictiveDiets[mc.DietType]
}

func strictCalories(mc MealContext) bool {
	return mc.CalorieTolerancePct > 0 && mc.CalorieTolerancePct <= 5
}

// DecideMealSource is a deterministic decision table over meal type
// and constraints, with the user preference layered on afterwards.
func DecideMealSource(mc MealContext) SourceDecision {
	var d SourceDecision

	switch mc.MealType {
	case "snack":
		// Snacks are packaged-product territory, whatever the
		// dietary flags say.
		d = SourceDecision{
			Source:     SourceOFF,
			Confidence: 0.9,
			Reason:     "snacks map to packaged products",
		}
	case "breakfast":
		if mc.Quick {
			d = SourceDecision{
				Source:     SourceOFF,
				Confidence: 0.8,
				Reason:     "quick breakfast requested",
			}
		} else {
			d = SourceDecision{
				Source:     SourceGustar,
				Confidence: 0.85,
				Reason:     "breakfast recipes preferred",
			}
		}
	default: // lunch, dinner
		switch {
		case strictCalories(mc):
			d = SourceDecision{
				Source:     SourceLLM,
				Confidence: 0.75,
				Reason:     fmt.Sprintf("calorie tolerance %.0f%% is too strict for curated datasets", mc.CalorieTolerancePct),
			}
		case complexRestrictions(mc):
			d = SourceDecision{
				Source:     SourceLLM,
				Confidence: 0.7,
				Reason:     "dietary restrictions too complex for the recipe pool",
			}
		default:
			d = SourceDecision{
				Source:     SourceGustar,
				Confidence: 0.85,
				Reason:     "recipe dataset covers standard meals",
			}
		}
	}

	d = applyPreference(mc, d)
	d.Fallbacks = fallbackChain(d.Source)
	return d
}

// applyPreference layers the user's source preference over the base
// decision. Snacks keep their packaged-food primary, and the strict-
// calorie generative route is never overridden — the preference only
// reorders softer cases.
func applyPreference(mc MealContext, d SourceDecision) SourceDecision {
	if mc.MealType == "snack" || (d.Source == SourceLLM && strictCalories(mc)) {
		return d
	}

	var preferred string
	switch mc.Preference {
	case "fresh":
		preferred = SourceCiqual
	case "recipes":
		preferred = SourceGustar
	case "quick":
		preferred = SourceOFF
	default:
		return d
	}

	if preferred == d.Source {
		return d
	}
	return SourceDecision{
		Source:     preferred,
		Confidence: 0.75,
		Reason:     fmt.Sprintf("user preference %q overrides: %s", mc.Preference, d.Reason),
	}
}

// fallbackChain lists the remaining sources in the order they get
// tried. The generative source always comes last unless it is the
// primary.
func fallbackChain(primary string) []string {
	switch primary {
	case SourceGustar:
		return []string{SourceCiqual, SourceOFF, SourceLLM}
	case SourceOFF:
		return []string{SourceCiqual, SourceGustar, SourceLLM}
	case SourceCiqual:
		return []string{SourceGustar, SourceOFF, SourceLLM}
	case SourceLLM:
		return []string{SourceGustar, SourceCiqual, SourceOFF}
	default:
		return nil
	}
}
