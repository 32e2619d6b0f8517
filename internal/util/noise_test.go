package util

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseField_Memoized(t *testing.T) {
	n := NewNoiseField(12345)

	for _, c := range []int{0, 1, -1, 42, -1000, 1 << 20} {
		first := n.At(c)
		assert.GreaterOrEqual(t, first, 0.0, "Шум должен быть в [0,1)")
		assert.Less(t, first, 1.0, "Шум должен быть в [0,1)")
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, n.At(c), "Повторный запрос точки %d должен вернуть то же значение", c)
		}
	}
	assert.Equal(t, 6, n.Len())
}

func TestNoiseField_ConcurrentAccess(t *testing.T) {
	n := NewNoiseField(7)

	var wg sync.WaitGroup
	results := make([][]float64, 8)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			vals := make([]float64, 100)
			for i := range vals {
				vals[i] = n.At(i - 50)
			}
			results[g] = vals
		}(g)
	}
	wg.Wait()

	for g := 1; g < len(results); g++ {
		assert.Equal(t, results[0], results[g], "Все горутины должны видеть одну таблицу")
	}
}

func TestInterpolated_IntegerReducesToLattice(t *testing.T) {
	n := NewNoiseField(99)

	for _, p := range [][2]int{{0, 0}, {3, 7}, {-4, 2}, {-11, -11}} {
		want := (n.At(p[0]) + n.At(p[1])) / 2
		got := n.Interpolated(float64(p[0]), float64(p[1]))
		assert.Equal(t, want, got, "Целая точка %v должна совпасть со значением решётки", p)
	}
}

func TestInterpolated_BetweenLatticePoints(t *testing.T) {
	n := NewNoiseField(5)

	a, b := n.At(2), n.At(3)
	c, d := n.At(-3), n.At(-2)

	// x = 2.25 -> вес 0.25 к точке 3; z = -2.5 -> floor -3, вес 0.5
	want := (Lerp(a, b, 0.25) + Lerp(c, d, 0.5)) / 2
	assert.InDelta(t, want, n.Interpolated(2.25, -2.5), 1e-12)
}

func TestInterpolated_Continuous(t *testing.T) {
	n := NewNoiseField(11)

	// Подход к целой точке слева даёт значение решётки
	left := n.Interpolated(4-1e-9, 0)
	exact := n.Interpolated(4, 0)
	assert.InDelta(t, exact, left, 1e-6)
}

func TestModMod(t *testing.T) {
	tests := []struct {
		x, y, want int
	}{
		{0, 16, 0},
		{5, 16, 5},
		{16, 16, 0},
		{17, 16, 1},
		{-1, 16, 15},
		{-16, 16, 0},
		{-17, 16, 15},
		{-32, 16, 0},
		{-5, 3, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ModMod(tt.x, tt.y), "ModMod(%d, %d)", tt.x, tt.y)
	}
}

func TestModMod_RangeAndCongruence(t *testing.T) {
	for y := 1; y <= 17; y++ {
		for x := -200; x <= 200; x++ {
			r := ModMod(x, y)
			require.GreaterOrEqual(t, r, 0)
			require.Less(t, r, y)
			require.Zero(t, (x-r)%y, "ModMod(%d,%d)=%d должен быть сравним с x", x, y, r)
		}
	}
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 0, FloorDiv(0, 16))
	assert.Equal(t, 0, FloorDiv(15, 16))
	assert.Equal(t, 1, FloorDiv(16, 16))
	assert.Equal(t, -1, FloorDiv(-1, 16))
	assert.Equal(t, -1, FloorDiv(-16, 16))
	assert.Equal(t, -2, FloorDiv(-17, 16))

	for x := -100; x <= 100; x++ {
		assert.Equal(t, x, FloorDiv(x, 16)*16+ModMod(x, 16), "Разложение %d должно собираться обратно", x)
	}
}

func TestPerlin_Range(t *testing.T) {
	p := NewPerlin(3)
	for i := 0; i < 100; i++ {
		v := p.Noise3D(float64(i)*0.13, float64(i)*0.07, float64(-i)*0.11)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, p.Noise3D(1.5, 2.5, 0.5), NewPerlin(3).Noise3D(1.5, 2.5, 0.5), "Перлин детерминирован для одного сида")
}
