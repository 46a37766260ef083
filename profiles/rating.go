package profiles

import "math"

// clampRating bounds a rating to the 1–5 scale.
func clampRating(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// ratingFromPercentile maps a 0–100 percentile onto 1–5, linearly. A nil
// raw value yields a nil rating, never a guessed one.
func ratingFromPercentile(v *float64) *int {
	if v == nil {
		return nil
	}
	r := clampRating(int(math.Round(*v/100*4 + 1)))
	return &r
}

// Life-expectancy scale endpoints: 50 years maps to 1, 85 to 5.
const (
	lifeExpectancyMin = 50.0
	lifeExpectancyMax = 85.0
)

// ratingFromLifeExpectancy maps life expectancy in years onto 1–5,
// clamped beyond the scale endpoints.
func ratingFromLifeExpectancy(v *float64) *int {
	if v == nil {
		return nil
	}
	ratio := (*v - lifeExpectancyMin) / (lifeExpectancyMax - lifeExpectancyMin)
	r := clampRating(int(math.Round(ratio*4 + 1)))
	return &r
}

// averageRating is the clamped rounded mean of the present ratings, nil
// when none are present.
func averageRating(values ...*int) *int {
	sum, n := 0, 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	r := clampRating(int(math.Round(float64(sum) / float64(n))))
	return &r
}

// orFallback returns the specific rating when present, the fallback
// otherwise. Absent specific ratings fall back to the overall average,
// never to zero.
func orFallback(specific, fallback *int) *int {
	if specific != nil {
		return specific
	}
	return fallback
}
