package vec

import (
	"math"

	"github.com/annel0/voxel-core/internal/util"
)

// Vec3 представляет трехмерный вектор с целочисленными координатами
type Vec3 struct {
	X int
	Y int
	Z int
}

// Vec3Float представляет трехмерный вектор с плавающими координатами
type Vec3Float struct {
	X float64
	Y float64
	Z float64
}

// Add складывает два вектора
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Scale умножает вектор на целое число
func (v Vec3) Scale(k int) Vec3 {
	return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k}
}

// ToChunkCoords преобразует глобальные координаты блока в координаты чанка
// размера size (деление с округлением вниз, корректно для отрицательных)
func (v Vec3) ToChunkCoords(size int) Vec3 {
	return Vec3{
		X: util.FloorDiv(v.X, size),
		Y: util.FloorDiv(v.Y, size),
		Z: util.FloorDiv(v.Z, size),
	}
}

// LocalInChunk возвращает локальные координаты внутри чанка размера size
func (v Vec3) LocalInChunk(size int) Vec3 {
	return Vec3{
		X: util.ModMod(v.X, size),
		Y: util.ModMod(v.Y, size),
		Z: util.ModMod(v.Z, size),
	}
}

// Floor округляет непрерывную позицию вниз до блока
func (v Vec3Float) Floor() Vec3 {
	return Vec3{
		X: int(math.Floor(v.X)),
		Y: int(math.Floor(v.Y)),
		Z: int(math.Floor(v.Z)),
	}
}

// ChunkOf переводит непрерывную позицию наблюдателя в координаты чанка
func ChunkOf(pos Vec3Float, size int) Vec3 {
	return Vec3{
		X: int(math.Floor(pos.X / float64(size))),
		Y: int(math.Floor(pos.Y / float64(size))),
		Z: int(math.Floor(pos.Z / float64(size))),
	}
}
