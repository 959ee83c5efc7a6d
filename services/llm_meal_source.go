package services

import "context"

// LLMMealSource is the generative fallback of the meal router.
type LLMMealSource struct {
	client *LLMClient
}

func NewLLMMealSource(client *LLMClient) *LLMMealSource {
	return &LLMMealSource{client: client}
}

func (s *LLMMealSource) Name() string { return SourceLLM }

func (s *LLMMealSource) FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error) {
	if !s.client.Configured() {
		return nil, nil // feature unavailable, let the chain continue
	}

	messages := []ChatMessage{
		{Role: "system", Content: "You are a dietitian generating realistic single-meal proposals with accurate macros."},
		{Role: "user", Content: BuildMealPrompt(mc)},
	}

	var suggestion MealSuggestion
	if err := s.client.ChatJSON(ctx, messages, 0.7, &suggestion); err != nil {
		return nil, err
	}
	if suggestion.Name == "" || suggestion.Calories <= 0 {
		return nil, nil
	}
	return &suggestion, nil
}
