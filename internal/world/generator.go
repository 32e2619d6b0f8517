package world

import (
	"errors"
	"fmt"

	"github.com/annel0/voxel-core/internal/util"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// ErrLayerLength возвращается, если слой вернул массив не из ChunkVolume блоков
var ErrLayerLength = errors.New("слой генерации вернул массив неверной длины")

// LayerFunc описывает один этап конвейера генерации. Получает координаты чанка и
// массив предыдущего слоя, возвращает новый массив. Входной массив не
// изменяется: каждый слой платит за полную копию.
type LayerFunc func(coords vec.Vec3, blocks []block.Block) []block.Block

// Layer именованный слой генерации
type Layer struct {
	Name  string
	Apply LayerFunc
}

// Generator хранит упорядоченный конвейер слоёв, заполняющий массив блоков чанка
type Generator struct {
	layers []Layer
}

// NewGenerator создаёт генератор из слоёв в порядке применения
func NewGenerator(layers ...Layer) *Generator {
	return &Generator{layers: append([]Layer(nil), layers...)}
}

// NewDefaultGenerator собирает стандартный конвейер: рельеф и, опционально, пещеры
func NewDefaultGenerator(noise *util.NoiseField, seed int64, caves bool) *Generator {
	g := NewGenerator(BaseTerrainLayer(noise))
	if caves {
		g.AddLayer(CaveLayer(util.NewPerlin(seed + 3)))
	}
	return g
}

// AddLayer добавляет слой в конец конвейера.
// Не потокобезопасно: слои настраиваются до запуска мира.
func (g *Generator) AddLayer(layer Layer) {
	g.layers = append(g.layers, layer)
}

// Layers возвращает имена слоёв в порядке применения
func (g *Generator) Layers() []string {
	names := make([]string, len(g.layers))
	for i, l := range g.layers {
		names[i] = l.Name
	}
	return names
}

// Generate последовательно применяет слои, начиная с initial
func (g *Generator) Generate(coords vec.Vec3, initial []block.Block) ([]block.Block, error) {
	if len(initial) != ChunkVolume {
		return nil, fmt.Errorf("%w: начальный массив %d вместо %d", ErrLayerLength, len(initial), ChunkVolume)
	}

	blocks := initial
	for _, layer := range g.layers {
		blocks = layer.Apply(coords, blocks)
		if len(blocks) != ChunkVolume {
			return nil, fmt.Errorf("%w: слой %q вернул %d вместо %d", ErrLayerLength, layer.Name, len(blocks), ChunkVolume)
		}
	}
	return blocks, nil
}

// Параметры базового рельефа: две октавы (мелкая и крупная) и толщина земли
const (
	DetailScale     = 5.0
	DetailAmplitude = 5.0
	ReliefScale     = 12.0
	ReliefAmplitude = 15.0
	DirtDepth       = 5
)

// SurfaceHeight возвращает высоту поверхности в колонке (x, z) чанка,
// уже смещённую в локальный диапазон y этого чанка
func SurfaceHeight(noise *util.NoiseField, coords vec.Vec3, x, z int) float64 {
	wx := float64(coords.X*ChunkSize + x)
	wz := float64(coords.Z*ChunkSize + z)

	return noise.Interpolated(wx/DetailScale, wz/DetailScale)*DetailAmplitude +
		noise.Interpolated(wx/ReliefScale, wz/ReliefScale)*ReliefAmplitude -
		float64(coords.Y*ChunkSize)
}

// BaseTerrainLayer заполняет колонки по высоте: трава на поверхности,
// земля на глубину DirtDepth, ниже камень. Выше поверхности блоки
// остаются такими, какими их передал предыдущий слой.
func BaseTerrainLayer(noise *util.NoiseField) Layer {
	return Layer{
		Name: "terrain",
		Apply: func(coords vec.Vec3, in []block.Block) []block.Block {
			out := make([]block.Block, len(in))
			copy(out, in)

			for x := 0; x < ChunkSize; x++ {
				for z := 0; z < ChunkSize; z++ {
					h := SurfaceHeight(noise, coords, x, z)
					for y := 0; y < ChunkSize; y++ {
						fy := float64(y)
						if h < fy {
							continue
						}
						i := Index(x, y, z)
						switch {
						case h < fy+1:
							out[i] = block.Grass
						case h < fy+DirtDepth:
							out[i] = block.Dirt
						default:
							out[i] = block.Stone
						}
					}
				}
			}
			return out
		},
	}
}

// Параметры пещер
const (
	CaveScale     = 1.0 / 16.0
	CaveThreshold = 0.68
)

// CaveLayer вырезает пещеры по трёхмерному шуму Перлина.
// Трава не трогается, чтобы поверхность не покрывалась дырами.
func CaveLayer(p *util.Perlin) Layer {
	return Layer{
		Name: "caves",
		Apply: func(coords vec.Vec3, in []block.Block) []block.Block {
			out := make([]block.Block, len(in))
			copy(out, in)

			origin := coords.Scale(ChunkSize)
			for x := 0; x < ChunkSize; x++ {
				for y := 0; y < ChunkSize; y++ {
					for z := 0; z < ChunkSize; z++ {
						i := Index(x, y, z)
						if out[i].IsAir() || out[i].ID == block.GrassBlockID {
							continue
						}
						n := p.Noise3D(
							float64(origin.X+x)*CaveScale,
							float64(origin.Y+y)*CaveScale,
							float64(origin.Z+z)*CaveScale,
						)
						if n > CaveThreshold {
							out[i] = block.Air
						}
					}
				}
			}
			return out
		},
	}
}
