package models

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

var ErrNotANumber = errors.New("value must be a number")

// Number is a float that also decodes from a numeric JSON string ("120").
// NaN and infinities are rejected in either form.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		var s string
		if json.Unmarshal(data, &s) != nil {
			return ErrNotANumber
		}
		v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return ErrNotANumber
		}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ErrNotANumber
	}
	*n = Number(v)
	return nil
}

// Float64 returns nil for a nil Number.
func (n *Number) Float64() *float64 {
	if n == nil {
		return nil
	}
	v := float64(*n)
	return &v
}
