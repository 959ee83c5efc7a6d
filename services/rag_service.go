package services

import (
	"context"
	"log"
)

// MealSuggestion is a concrete meal proposal, normalized across
// sources. Calories and macros are for the suggested portion.
type MealSuggestion struct {
	Name     string  `json:"name"`
	Source   string  `json:"source"`
	Grams    float64 `json:"grams,omitempty"`
	Calories float64 `json:"calories"`
	Proteins float64 `json:"proteins"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
	Note     string  `json:"note,omitempty"`
}

// MealSource is one retrieval backend. FindMeal returns (nil, nil)
// when the source has nothing for the context — that is not an error,
// it just moves the router to the next fallback.
type MealSource interface {
	Name() string
	FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error)
}

// RAGMealResult wraps the suggestion with the routing explanation.
type RAGMealResult struct {
	Suggestion *MealSuggestion `json:"suggestion"`
	Decision   SourceDecision  `json:"decision"`
	TriedFrom  string          `json:"served_by,omitempty"`
}

type RAGMealService struct {
	sources map[string]MealSource
}

func NewRAGMealService(sources ...MealSource) *RAGMealService {
	m := make(map[string]MealSource, len(sources))
	for _, s := range sources {
		m[s.Name()] = s
	}
	return &RAGMealService{sources: m}
}

// GetRAGMeal routes the context to its primary source, then walks the
// fallback chain strictly in order until one source yields a match.
// Source failures are logged and treated like empty results; an
// exhausted chain returns a nil suggestion.
func (s *RAGMealService) GetRAGMeal(ctx context.Context, mc MealContext) (*RAGMealResult, error) {
	decision := DecideMealSource(mc)
	result := &RAGMealResult{Decision: decision}

	order := append([]string{decision.Source}, decision.Fallbacks...)
	for _, name := range order {
		src, ok := s.sources[name]
		if !ok {
			continue
		}
		suggestion, err := src.FindMeal(ctx, mc)
		if err != nil {
			log.Printf("meal source %s failed: %v", name, err)
			continue
		}
		if suggestion == nil {
			continue
		}
		suggestion.Source = name
		result.Suggestion = suggestion
		result.TriedFrom = name
		return result, nil
	}

	return result, nil
}
