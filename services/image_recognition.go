package services

import (
	"context"
	"crypto/sha256"
	"math/big"
)

// PhotoDetector guesses which foods appear in a photo reference (a URL or
// data URI).
type PhotoDetector interface {
	DetectFoods(ctx context.Context, reference string) ([]string, error)
}

var sampledFoods = [][]string{
	{"salad", "avocado", "berries"},
	{"grilled chicken", "rice", "veggies"},
	{"tofu", "sweet potato", "greens"},
	{"oatmeal", "yogurt", "berries"},
	{"pasta", "salad"},
}

// HashPhotoDetector is a deterministic placeholder: the SHA-256 of the
// reference picks one of a few sample plates.
type HashPhotoDetector struct{}

func (HashPhotoDetector) DetectFoods(_ context.Context, reference string) ([]string, error) {
	if reference == "" {
		return nil, nil
	}
	sum := sha256.Sum256([]byte(reference))
	n := new(big.Int).SetBytes(sum[:])
	idx := new(big.Int).Mod(n, big.NewInt(int64(len(sampledFoods)))).Int64()

	plate := sampledFoods[idx]
	out := make([]string, len(plate))
	copy(out, plate)
	return out, nil
}
