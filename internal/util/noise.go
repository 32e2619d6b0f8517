package util

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// NoiseField описывает детерминированное (в пределах процесса) скалярное поле.
// Значение в целочисленной точке решётки генерируется при первом обращении
// и запоминается навсегда: таблица никогда не инвалидируется и фактически
// служит зафиксированным случайным сидом для рельефа.
type NoiseField struct {
	mu     sync.Mutex
	values map[int]float64
	rng    *rand.Rand
}

// NewNoiseField создаёт поле шума. seed == 0 означает сид от текущего времени.
func NewNoiseField(seed int64) *NoiseField {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &NoiseField{
		values: make(map[int]float64),
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// At возвращает значение шума в точке решётки c, диапазон [0, 1).
func (n *NoiseField) At(c int) float64 {
	n.mu.Lock()
	defer n.mu.Unlock()

	if v, ok := n.values[c]; ok {
		return v
	}
	v := n.rng.Float64()
	n.values[c] = v
	return v
}

// Interpolated возвращает сглаженный шум для (x, z).
// По каждой оси отдельно интерполируем между floor и floor+1 с весом
// дробной части, затем усредняем результаты двух осей. Для целых входов
// результат совпадает со значениями решётки.
func (n *NoiseField) Interpolated(x, z float64) float64 {
	return (n.axis(x) + n.axis(z)) / 2
}

func (n *NoiseField) axis(v float64) float64 {
	f := math.Floor(v)
	a := n.At(int(f))
	b := n.At(int(f) + 1)
	return Lerp(a, b, v-f)
}

// Len возвращает количество уже запомненных точек решётки
func (n *NoiseField) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.values)
}
