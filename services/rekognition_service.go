package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"mealtracker/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
)

// LabelDetector is the slice of the Rekognition client we call.
type LabelDetector interface {
	DetectLabels(ctx context.Context, params *rekognition.DetectLabelsInput, optFns ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error)
}

// RekognitionDetector labels data-URI photos with Rekognition and defers
// to a fallback detector for URLs, failures and photos with no labels.
type RekognitionDetector struct {
	client   LabelDetector
	fallback PhotoDetector
	log      *slog.Logger
}

func NewRekognitionDetector(client LabelDetector, fallback PhotoDetector, log *slog.Logger) *RekognitionDetector {
	return &RekognitionDetector{client: client, fallback: fallback, log: log}
}

func (r *RekognitionDetector) DetectFoods(ctx context.Context, reference string) ([]string, error) {
	if !utils.IsDataURI(reference) {
		return r.fallback.DetectFoods(ctx, reference)
	}

	labels, err := r.recognizeLabels(ctx, reference)
	if err != nil {
		r.log.Warn("rekognition failed, using fallback detector", "error", err)
		return r.fallback.DetectFoods(ctx, reference)
	}
	if len(labels) == 0 {
		return r.fallback.DetectFoods(ctx, reference)
	}
	return labels, nil
}

func (r *RekognitionDetector) recognizeLabels(ctx context.Context, dataURI string) ([]string, error) {
	_, data, err := utils.DecodeDataURI(dataURI)
	if err != nil {
		return nil, err
	}

	out, err := r.client.DetectLabels(ctx, &rekognition.DetectLabelsInput{
		Image:         &types.Image{Bytes: data},
		MaxLabels:     aws.Int32(5),
		MinConfidence: aws.Float32(75),
	})
	if err != nil {
		return nil, fmt.Errorf("detect labels: %w", err)
	}

	var labels []string
	for _, l := range out.Labels {
		if l.Name == nil {
			continue
		}
		labels = append(labels, strings.ToLower(*l.Name))
	}
	return labels, nil
}
