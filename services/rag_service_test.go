package services

import (
	"context"
	"errors"
	"testing"
)

// stubSource scripts one source of the fallback chain.
type stubSource struct {
	name       string
	suggestion *MealSuggestion
	err        error
	calls      int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

func TestGetRAGMealServesPrimary(t *testing.T) {
	primary := &stubSource{name: SourceGustar, suggestion: &MealSuggestion{Name: "Gratin", Calories: 600}}
	fallback := &stubSource{name: SourceCiqual, suggestion: &MealSuggestion{Name: "Poulet", Calories: 500}}
	svc := NewRAGMealService(primary, fallback)

	result, err := svc.GetRAGMeal(context.Background(), MealContext{MealType: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Suggestion == nil || result.Suggestion.Name != "Gratin" {
		t.Fatalf("suggestion = %+v, want the primary's", result.Suggestion)
	}
	if result.TriedFrom != SourceGustar {
		t.Fatalf("served_by = %s, want %s", result.TriedFrom, SourceGustar)
	}
	if fallback.calls != 0 {
		t.Fatal("fallback must not be queried when the primary matches")
	}
	if result.Suggestion.Source != SourceGustar {
		t.Fatalf("suggestion source stamped as %s", result.Suggestion.Source)
	}
}

func TestGetRAGMealWalksFallbacksOnEmpty(t *testing.T) {
	primary := &stubSource{name: SourceGustar}                                            // no match
	second := &stubSource{name: SourceCiqual, err: errors.New("table unavailable")}        // failure
	third := &stubSource{name: SourceOFF, suggestion: &MealSuggestion{Name: "Muesli", Calories: 380}}
	svc := NewRAGMealService(primary, second, third)

	result, err := svc.GetRAGMeal(context.Background(), MealContext{MealType: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Suggestion == nil || result.Suggestion.Name != "Muesli" {
		t.Fatalf("suggestion = %+v, want the third source's", result.Suggestion)
	}
	if primary.calls != 1 || second.calls != 1 || third.calls != 1 {
		t.Fatalf("call counts = %d/%d/%d, want each tried once in order", primary.calls, second.calls, third.calls)
	}
}

func TestGetRAGMealExhaustedChain(t *testing.T) {
	empty1 := &stubSource{name: SourceGustar}
	empty2 := &stubSource{name: SourceCiqual}
	svc := NewRAGMealService(empty1, empty2)

	result, err := svc.GetRAGMeal(context.Background(), MealContext{MealType: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Suggestion != nil {
		t.Fatal("exhausted chain must yield a nil suggestion, not an error")
	}
	if result.Decision.Source == "" {
		t.Fatal("the routing decision must still be reported")
	}
}

func TestGetRAGMealSkipsUnregisteredSources(t *testing.T) {
	// only the generative source registered; lunch routes to gustar
	llm := &stubSource{name: SourceLLM, suggestion: &MealSuggestion{Name: "Bol complet", Calories: 650}}
	svc := NewRAGMealService(llm)

	result, err := svc.GetRAGMeal(context.Background(), MealContext{MealType: "lunch"})
	if err != nil {
		t.Fatal(err)
	}
	if result.Suggestion == nil || result.TriedFrom != SourceLLM {
		t.Fatalf("expected the only registered source to serve, got %+v", result)
	}
}
