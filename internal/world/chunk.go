package world

import (
	"fmt"
	"sync"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

const (
	// ChunkSize длина ребра чанка в блоках
	ChunkSize = 16
	// ChunkVolume количество блоков в чанке
	ChunkVolume = ChunkSize * ChunkSize * ChunkSize
)

// ChunkState отражает, на каком этапе подготовки находится чанк
type ChunkState int32

const (
	StateEmpty     ChunkState = iota // Создан, все блоки воздух
	StateGenerated                   // Блоки сгенерированы, меша ещё нет
	StateReady                       // Меш построен
	StateFailed                      // Генерация завершилась ошибкой
)

// String возвращает строковое представление состояния
func (s ChunkState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateGenerated:
		return "generated"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Index возвращает индекс блока в плоском массиве чанка.
// Координаты вне [0, ChunkSize) считаются ошибкой программиста: паника.
func Index(x, y, z int) int {
	if !InBounds(x, y, z) {
		panic(fmt.Sprintf("локальные координаты (%d,%d,%d) вне чанка", x, y, z))
	}
	return x + y*ChunkSize + z*ChunkSize*ChunkSize
}

// InBounds проверяет, лежат ли локальные координаты внутри чанка
func InBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < ChunkSize && y < ChunkSize && z < ChunkSize
}

// Chunk представляет кубический участок мира ChunkSize^3 блоков.
// Меш является кешем, производным от массива блоков: любое изменение блоков
// делает его недействительным до следующего Build.
type Chunk struct {
	Coords vec.Vec3 // Координаты чанка в пространстве чанков

	mu        sync.RWMutex
	blocks    []block.Block
	mesh      Mesh
	meshValid bool
	state     ChunkState
	version   uint64 // Растёт при каждом изменении блоков
}

// NewChunk создаёт новый чанк, заполненный воздухом
func NewChunk(coords vec.Vec3) *Chunk {
	blocks := make([]block.Block, ChunkVolume)
	for i := range blocks {
		blocks[i] = block.Air
	}
	return &Chunk{
		Coords: coords,
		blocks: blocks,
		state:  StateEmpty,
	}
}

// Origin возвращает позицию чанка в мировых координатах блоков:
// смещение узла сцены для рендера
func (c *Chunk) Origin() vec.Vec3 {
	return c.Coords.Scale(ChunkSize)
}

// Block возвращает блок по локальным координатам
func (c *Chunk) Block(x, y, z int) block.Block {
	i := Index(x, y, z)

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[i]
}

// lookup безопасно читает блок для мировых запросов: вне чанка возвращает false
func (c *Chunk) lookup(local vec.Vec3) (block.Block, bool) {
	if !InBounds(local.X, local.Y, local.Z) {
		return block.Air, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[Index(local.X, local.Y, local.Z)], true
}

// SetBlock устанавливает блок по локальным координатам и инвалидирует меш
func (c *Chunk) SetBlock(x, y, z int, b block.Block) {
	i := Index(x, y, z)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks[i] = b
	c.meshValid = false
	c.version++
}

// Blocks возвращает копию массива блоков
func (c *Chunk) Blocks() []block.Block {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]block.Block, len(c.blocks))
	copy(out, c.blocks)
	return out
}

// Generate прогоняет массив блоков через конвейер слоёв генератора
// и принимает результат последнего слоя
func (c *Chunk) Generate(g *Generator) error {
	blocks, err := g.Generate(c.Coords, c.Blocks())
	if err != nil {
		c.mu.Lock()
		c.state = StateFailed
		c.mu.Unlock()
		return fmt.Errorf("генерация чанка %v: %w", c.Coords, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.blocks = blocks
	c.meshValid = false
	c.version++
	c.state = StateGenerated
	return nil
}

// Build строит меш из текущего массива блоков и кеширует его.
// Если блоки поменялись во время построения, кеш остаётся недействительным.
func (c *Chunk) Build(atlas TextureAtlas) Mesh {
	c.mu.RLock()
	blocks := make([]block.Block, len(c.blocks))
	copy(blocks, c.blocks)
	version := c.version
	c.mu.RUnlock()

	mesh := BuildMesh(blocks, atlas)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.version == version {
		c.mesh = mesh
		c.meshValid = true
	}
	if c.state != StateFailed {
		c.state = StateReady
	}
	return mesh
}

// Setup генерирует блоки и строит меш
func (c *Chunk) Setup(g *Generator, atlas TextureAtlas) (Mesh, error) {
	if err := c.Generate(g); err != nil {
		return Mesh{}, err
	}
	return c.Build(atlas), nil
}

// Mesh возвращает построенный меш. Если блоки менялись после последнего
// Build, меш недействителен и возвращается пустым.
func (c *Chunk) Mesh() Mesh {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.meshValid {
		return Mesh{}
	}
	return c.mesh
}

// MeshValid возвращает true, если меш соответствует текущим блокам
func (c *Chunk) MeshValid() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.meshValid
}

// State возвращает текущее состояние чанка
func (c *Chunk) State() ChunkState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}
