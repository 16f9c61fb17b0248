package libio_test

import "math/rand"

func randomFloats(count int, min, max float32) []float32 {
	rnd := rand.New(rand.NewSource(0))
	result := make([]float32, count)
	for i := range result {
		result[i] = rnd.Float32()*(max-min) + min
	}
	return result
}
