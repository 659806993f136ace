package services

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rekognition"
	"github.com/aws/aws-sdk-go-v2/service/rekognition/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLabelDetector struct {
	labels []types.Label
	err    error
	input  *rekognition.DetectLabelsInput
}

func (f *fakeLabelDetector) DetectLabels(_ context.Context, params *rekognition.DetectLabelsInput, _ ...func(*rekognition.Options)) (*rekognition.DetectLabelsOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &rekognition.DetectLabelsOutput{Labels: f.labels}, nil
}

const helloJPEG = "data:image/jpeg;base64,aGVsbG8="

func TestRekognitionDetector(t *testing.T) {
	ctx := context.Background()

	t.Run("labels from data uri", func(t *testing.T) {
		client := &fakeLabelDetector{labels: []types.Label{
			{Name: aws.String("Salad")},
			{Name: nil},
			{Name: aws.String("Avocado")},
		}}
		fallback := &fakePhotoDetector{foods: []string{"fallback"}}
		d := NewRekognitionDetector(client, fallback, discardLogger())

		got, err := d.DetectFoods(ctx, helloJPEG)
		require.NoError(t, err)
		assert.Equal(t, []string{"salad", "avocado"}, got)
		assert.Empty(t, fallback.calls)

		require.NotNil(t, client.input)
		assert.Equal(t, []byte("hello"), client.input.Image.Bytes)
		assert.Equal(t, int32(5), *client.input.MaxLabels)
		assert.Equal(t, float32(75), *client.input.MinConfidence)
	})

	t.Run("urls go to the fallback", func(t *testing.T) {
		client := &fakeLabelDetector{}
		fallback := &fakePhotoDetector{foods: []string{"rice"}}
		d := NewRekognitionDetector(client, fallback, discardLogger())

		got, err := d.DetectFoods(ctx, "https://img/plate.jpg")
		require.NoError(t, err)
		assert.Equal(t, []string{"rice"}, got)
		assert.Nil(t, client.input)
	})

	t.Run("client error goes to the fallback", func(t *testing.T) {
		client := &fakeLabelDetector{err: errors.New("access denied")}
		fallback := &fakePhotoDetector{foods: []string{"rice"}}
		d := NewRekognitionDetector(client, fallback, discardLogger())

		got, err := d.DetectFoods(ctx, helloJPEG)
		require.NoError(t, err)
		assert.Equal(t, []string{"rice"}, got)
	})

	t.Run("no labels goes to the fallback", func(t *testing.T) {
		fallback := &fakePhotoDetector{foods: []string{"tofu"}}
		d := NewRekognitionDetector(&fakeLabelDetector{}, fallback, discardLogger())

		got, err := d.DetectFoods(ctx, helloJPEG)
		require.NoError(t, err)
		assert.Equal(t, []string{"tofu"}, got)
		assert.Equal(t, []string{helloJPEG}, fallback.calls)
	})
}
