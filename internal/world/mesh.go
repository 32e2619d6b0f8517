package world

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

// Face обозначает одну из шести осевых граней блока
type Face uint8

const (
	FaceUp    Face = iota // +Y
	FaceDown              // -Y
	FaceEast              // +X
	FaceWest              // -X
	FaceNorth             // -Z
	FaceSouth             // +Z
)

// Faces задаёт порядок обхода граней при построении меша
var Faces = [...]Face{FaceUp, FaceDown, FaceEast, FaceWest, FaceNorth, FaceSouth}

// String возвращает имя грани
func (f Face) String() string {
	switch f {
	case FaceUp:
		return "up"
	case FaceDown:
		return "down"
	case FaceEast:
		return "+x"
	case FaceWest:
		return "-x"
	case FaceNorth:
		return "-z"
	case FaceSouth:
		return "+z"
	default:
		return "unknown"
	}
}

// Normal возвращает единичный шаг к соседнему блоку через эту грань
func (f Face) Normal() vec.Vec3 {
	return faceTemplates[f].normal
}

// Texture выбирает тайл атласа для грани: верх, низ или бок
func (f Face) Texture(def block.Definition) int {
	switch f {
	case FaceUp:
		return def.Top
	case FaceDown:
		return def.Bottom
	default:
		return def.Side
	}
}

// VerticesPerFace: два треугольника без индексного буфера
const VerticesPerFace = 6

type faceTemplate struct {
	normal  vec.Vec3
	corners [VerticesPerFace]mgl32.Vec3
	uvs     [VerticesPerFace]mgl32.Vec2
}

var (
	quadUV = [VerticesPerFace]mgl32.Vec2{
		{0, 0}, {1, 0}, {1, 1}, {1, 1}, {0, 1}, {0, 0},
	}
	// Боковые грани по X развёрнуты, чтобы текстура не была зеркальной
	sideXUV = [VerticesPerFace]mgl32.Vec2{
		{1, 0}, {1, 1}, {0, 1}, {0, 1}, {0, 0}, {1, 0},
	}
)

var faceTemplates = [...]faceTemplate{
	FaceUp: {
		normal:  vec.Vec3{Y: 1},
		corners: [VerticesPerFace]mgl32.Vec3{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {1, 1, 1}, {0, 1, 1}, {0, 1, 0}},
		uvs:     quadUV,
	},
	FaceDown: {
		normal:  vec.Vec3{Y: -1},
		corners: [VerticesPerFace]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 1}, {1, 0, 1}, {0, 0, 1}, {0, 0, 0}},
		uvs:     quadUV,
	},
	FaceEast: {
		normal:  vec.Vec3{X: 1},
		corners: [VerticesPerFace]mgl32.Vec3{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}, {1, 1, 1}, {1, 0, 1}, {1, 0, 0}},
		uvs:     sideXUV,
	},
	FaceWest: {
		normal:  vec.Vec3{X: -1},
		corners: [VerticesPerFace]mgl32.Vec3{{0, 0, 0}, {0, 1, 0}, {0, 1, 1}, {0, 1, 1}, {0, 0, 1}, {0, 0, 0}},
		uvs:     sideXUV,
	},
	FaceNorth: {
		normal:  vec.Vec3{Z: -1},
		corners: [VerticesPerFace]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {1, 1, 0}, {0, 1, 0}, {0, 0, 0}},
		uvs:     quadUV,
	},
	FaceSouth: {
		normal:  vec.Vec3{Z: 1},
		corners: [VerticesPerFace]mgl32.Vec3{{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {1, 1, 1}, {0, 1, 1}, {0, 0, 1}},
		uvs:     quadUV,
	},
}

// TextureAtlas описывает горизонтальную полосу тайлов одинаковой ширины
type TextureAtlas struct {
	Tiles int
}

// NewTextureAtlas создаёт атлас из tiles тайлов
func NewTextureAtlas(tiles int) TextureAtlas {
	if tiles < 1 {
		panic(fmt.Sprintf("размер атласа должен быть положительным, получено %d", tiles))
	}
	return TextureAtlas{Tiles: tiles}
}

// MapUV переводит единичные UV грани в координаты тайла tile.
// Масштабируется и сдвигается только U, V остаётся без изменений.
func (a TextureAtlas) MapUV(uv mgl32.Vec2, tile int) mgl32.Vec2 {
	size := 1 / float32(a.Tiles)
	return mgl32.Vec2{uv.X()*size + size*float32(tile), uv.Y()}
}

// Mesh хранит плоские буферы вершин для прямой загрузки в рендер:
// 3 float на позицию и 2 float на UV для каждой вершины.
type Mesh struct {
	Positions []float32
	UVs       []float32
}

// VertexCount возвращает количество вершин
func (m Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// FaceCount возвращает количество граней
func (m Mesh) FaceCount() int {
	return m.VertexCount() / VerticesPerFace
}

// IsEmpty возвращает true, если меш не содержит граней
func (m Mesh) IsEmpty() bool {
	return len(m.Positions) == 0
}

// FaceRef указывает на видимую грань блока внутри чанка
type FaceRef struct {
	Pos   vec.Vec3 // Локальная позиция блока
	Face  Face
	Block block.Block
}

// VisibleFaces возвращает все грани, которые нужно отрисовать, в порядке
// обхода x -> y -> z и Faces. Правила отсечения:
//   - прозрачный блок граней не даёт;
//   - сосед за границей чанка не проверяется, грань всегда рисуется;
//   - сосед внутри чанка скрывает грань, если он непрозрачный.
func VisibleFaces(blocks []block.Block) []FaceRef {
	if len(blocks) != ChunkVolume {
		panic(fmt.Sprintf("ожидалось %d блоков, получено %d", ChunkVolume, len(blocks)))
	}

	var faces []FaceRef
	for x := 0; x < ChunkSize; x++ {
		for y := 0; y < ChunkSize; y++ {
			for z := 0; z < ChunkSize; z++ {
				current := blocks[Index(x, y, z)]
				if current.IsAir() {
					continue
				}
				for _, face := range Faces {
					n := face.Normal()
					nx, ny, nz := x+n.X, y+n.Y, z+n.Z
					if InBounds(nx, ny, nz) && !blocks[Index(nx, ny, nz)].IsAir() {
						continue
					}
					faces = append(faces, FaceRef{Pos: vec.Vec3{X: x, Y: y, Z: z}, Face: face, Block: current})
				}
			}
		}
	}
	return faces
}

// BuildMesh строит меш чанка с нуля. Чистая функция от массива блоков:
// никакого состояния рендера, на каждую грань 6 независимых вершин.
func BuildMesh(blocks []block.Block, atlas TextureAtlas) Mesh {
	faces := VisibleFaces(blocks)

	mesh := Mesh{
		Positions: make([]float32, 0, len(faces)*VerticesPerFace*3),
		UVs:       make([]float32, 0, len(faces)*VerticesPerFace*2),
	}

	for _, ref := range faces {
		tpl := &faceTemplates[ref.Face]
		tile := ref.Face.Texture(ref.Block.Definition())
		offset := mgl32.Vec3{float32(ref.Pos.X), float32(ref.Pos.Y), float32(ref.Pos.Z)}

		for i := 0; i < VerticesPerFace; i++ {
			p := tpl.corners[i].Add(offset)
			uv := atlas.MapUV(tpl.uvs[i], tile)
			mesh.Positions = append(mesh.Positions, p.X(), p.Y(), p.Z())
			mesh.UVs = append(mesh.UVs, uv.X(), uv.Y())
		}
	}

	return mesh
}
