package util

import (
	"github.com/aquilax/go-perlin"
)

// Perlin оборачивает генератор шума Перлина и нормирует выход в [0, 1]
type Perlin struct {
	noise *perlin.Perlin
}

// NewPerlin создаёт генератор шума Перлина с указанным сидом
func NewPerlin(seed int64) *Perlin {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав
	return &Perlin{noise: perlin.NewPerlin(alpha, beta, n, seed)}
}

// Noise3D возвращает значение трёхмерного шума в диапазоне от 0 до 1
func (p *Perlin) Noise3D(x, y, z float64) float64 {
	return clamp01((p.noise.Noise3D(x, y, z) + 1.0) / 2.0)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
