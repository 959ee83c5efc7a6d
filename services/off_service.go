package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"time"
)

// OFFService calls the Open Food Facts API: search by term and lookup
// by barcode. Nutrients come back per 100g and are scaled to a
// serving by the caller.
type OFFService struct {
	baseURL string
	client  *http.Client
}

func NewOFFService() *OFFService {
	base := os.Getenv("OFF_BASE_URL")
	if base == "" {
		base = "https://world.openfoodfacts.org"
	}
	return &OFFService{
		baseURL: base,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *OFFService) Name() string { return SourceOFF }

// OFFProduct is the subset of an Open Food Facts product we use.
type OFFProduct struct {
	Barcode     string  `json:"barcode"`
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	ServingSize string  `json:"serving_size"`
	Calories    float64 `json:"calories_100g"`
	Proteins    float64 `json:"proteins_100g"`
	Carbs       float64 `json:"carbs_100g"`
	Fats        float64 `json:"fats_100g"`
	Sugars      float64 `json:"sugars_100g"`
	Salt        float64 `json:"salt_100g"`
}

type offNutriments struct {
	EnergyKcal float64 `json:"energy-kcal_100g"`
	Proteins   float64 `json:"proteins_100g"`
	Carbs      float64 `json:"carbohydrates_100g"`
	Fat        float64 `json:"fat_100g"`
	Sugars     float64 `json:"sugars_100g"`
	Salt       float64 `json:"salt_100g"`
}

type offProductJSON struct {
	Code        string        `json:"code"`
	ProductName string        `json:"product_name"`
	Brands      string        `json:"brands"`
	ServingSize string        `json:"serving_size"`
	Nutriments  offNutriments `json:"nutriments"`
}

type offSearchResponse struct {
	Products []offProductJSON `json:"products"`
}

type offLookupResponse struct {
	Status  int            `json:"status"`
	Product offProductJSON `json:"product"`
}

func fromOFFJSON(p offProductJSON) OFFProduct {
	return OFFProduct{
		Barcode:     p.Code,
		Name:        p.ProductName,
		Brand:       p.Brands,
		ServingSize: p.ServingSize,
		Calories:    p.Nutriments.EnergyKcal,
		Proteins:    p.Nutriments.Proteins,
		Carbs:       p.Nutriments.Carbs,
		Fats:        p.Nutriments.Fat,
		Sugars:      p.Nutriments.Sugars,
		Salt:        p.Nutriments.Salt,
	}
}

// SearchProducts calls the OFF legacy search endpoint.
func (s *OFFService) SearchProducts(ctx context.Context, query string, limit int) ([]OFFProduct, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	u := fmt.Sprintf(
		"%s/cgi/search.pl?search_terms=%s&search_simple=1&action=process&json=1&page_size=%d",
		s.baseURL, url.QueryEscape(query), limit,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create OFF search request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OFF search: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFF search response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OFF search API error %d: %s", resp.StatusCode, string(body))
	}

	var sr offSearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, fmt.Errorf("failed to parse OFF search JSON: %w", err)
	}

	products := make([]OFFProduct, 0, len(sr.Products))
	for _, p := range sr.Products {
		products = append(products, fromOFFJSON(p))
	}
	return products, nil
}

// LookupBarcode fetches a single product by its barcode.
func (s *OFFService) LookupBarcode(ctx context.Context, code string) (*OFFProduct, error) {
	u := fmt.Sprintf("%s/api/v2/product/%s.json", s.baseURL, url.PathEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create OFF lookup request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call OFF lookup: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFF lookup response: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("OFF lookup API error %d: %s", resp.StatusCode, string(body))
	}

	var lr offLookupResponse
	if err := json.Unmarshal(body, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse OFF lookup JSON: %w", err)
	}
	if lr.Status != 1 {
		return nil, nil
	}
	p := fromOFFJSON(lr.Product)
	return &p, nil
}

// ScaleToServing converts per-100g values onto a portion.
func ScaleToServing(p OFFProduct, grams float64) MealSuggestion {
	factor := grams / 100
	name := p.Name
	if p.Brand != "" {
		name = p.Name + " (" + p.Brand + ")"
	}
	return MealSuggestion{
		Name:     name,
		Grams:    grams,
		Calories: math.Round(p.Calories * factor),
		Proteins: math.Round(p.Proteins*factor*10) / 10,
		Carbs:    math.Round(p.Carbs*factor*10) / 10,
		Fats:     math.Round(p.Fats*factor*10) / 10,
	}
}

// Default query per meal type when the user gave no free text.
var offQueryByMeal = map[string]string{
	"breakfast": "muesli",
	"lunch":     "plat cuisiné",
	"dinner":    "plat cuisiné",
	"snack":     "barre céréales",
}

func (s *OFFService) FindMeal(ctx context.Context, mc MealContext) (*MealSuggestion, error) {
	query := mc.Query
	if query == "" {
		query = offQueryByMeal[mc.MealType]
	}

	products, err := s.SearchProducts(ctx, query, 10)
	if err != nil {
		return nil, err
	}

	target := mealTargetCalories(mc)
	for _, p := range products {
		if p.Calories <= 0 || p.Name == "" {
			continue
		}
		grams := math.Round(target / p.Calories * 100)
		suggestion := ScaleToServing(p, grams)
		suggestion.Note = "packaged product from Open Food Facts"
		return &suggestion, nil
	}
	return nil, nil
}
