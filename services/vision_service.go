package services

import (
	"context"
	"os"
	"strings"

	"github.com/maous26/lvmeal-sub008/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// VisionService identifies a photographed meal: Rekognition labels the
// image, and the best food label drives an Open Food Facts search to
// attach nutrition estimates.
type VisionService struct {
	client *rekognition.Client
	off    *OFFService
}

func NewVisionService(off *OFFService) (*VisionService, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(os.Getenv("AWS_REGION")))
	if err != nil {
		return nil, err
	}
	return &VisionService{client: rekognition.NewFromConfig(cfg), off: off}, nil
}

// Labels Rekognition returns for any food photo, useless as queries.
var genericFoodLabels = map[string]bool{
	"food":      true,
	"meal":      true,
	"dish":      true,
	"plate":     true,
	"cutlery":   true,
	"lunch":     true,
	"dinner":    true,
	"breakfast": true,
}

// DetectFoodLabels returns the labels of a base64 data-URI image,
// most confident first, with the generic ones filtered out.
func (v *VisionService) DetectFoodLabels(ctx context.Context, dataURI string) ([]string, error) {
	raw, _, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	out, err := v.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: raw},
		MaxLabels:     aws.Int32(10),
		MinConfidence: aws.Float32(70),
	})
	if err != nil {
		return nil, err
	}

	var labels []string
	for _, l := range out.Labels {
		name := aws.ToString(l.Name)
		if genericFoodLabels[strings.ToLower(name)] {
			continue
		}
		labels = append(labels, name)
	}
	return labels, nil
}

// PhotoAnalysis is what the photo-logging endpoint returns: labels,
// the stored photo URL, and a nutrition match when one was found.
type PhotoAnalysis struct {
	Labels   []string        `json:"labels"`
	PhotoURL string          `json:"photo_url,omitempty"`
	Match    *MealSuggestion `json:"match,omitempty"`
}

// AnalyzeMealPhoto runs the full photo flow: upload to S3 (best
// effort), detect labels, then look the first label up in Open Food
// Facts to estimate the meal's nutrition.
func (v *VisionService) AnalyzeMealPhoto(ctx context.Context, userID uint, dataURI string) (*PhotoAnalysis, error) {
	labels, err := v.DetectFoodLabels(ctx, dataURI)
	if err != nil {
		return nil, err
	}

	analysis := &PhotoAnalysis{Labels: labels}
	if url, err := utils.UploadMealPhoto(dataURI, userID); err == nil {
		analysis.PhotoURL = url
	}

	for _, label := range labels {
		products, err := v.off.SearchProducts(ctx, label, 5)
		if err != nil {
			break
		}
		for _, p := range products {
			if p.Calories <= 0 || p.Name == "" {
				continue
			}
			match := ScaleToServing(p, 250)
			match.Note = "estimated from photo, adjust the portion"
			analysis.Match = &match
			return analysis, nil
		}
	}
	return analysis, nil
}
