package world

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-core/internal/world/block"
)

func emptyBlocks() []block.Block {
	blocks := make([]block.Block, ChunkVolume)
	for i := range blocks {
		blocks[i] = block.Air
	}
	return blocks
}

func facesOf(refs []FaceRef, x, y, z int) map[Face]bool {
	out := make(map[Face]bool)
	for _, r := range refs {
		if r.Pos.X == x && r.Pos.Y == y && r.Pos.Z == z {
			out[r.Face] = true
		}
	}
	return out
}

func TestVisibleFaces_EmptyChunk(t *testing.T) {
	assert.Empty(t, VisibleFaces(emptyBlocks()))
	assert.True(t, BuildMesh(emptyBlocks(), NewTextureAtlas(4)).IsEmpty())
}

func TestVisibleFaces_FullChunk(t *testing.T) {
	blocks := make([]block.Block, ChunkVolume)
	for i := range blocks {
		blocks[i] = block.Stone
	}

	refs := VisibleFaces(blocks)
	assert.Len(t, refs, 6*ChunkSize*ChunkSize, "Видны только грани, смотрящие за границу чанка")

	// Внутренний блок граней не имеет
	assert.Empty(t, facesOf(refs, 5, 5, 5))
	// Угловой блок видит три грани наружу
	assert.Equal(t, map[Face]bool{FaceDown: true, FaceWest: true, FaceNorth: true}, facesOf(refs, 0, 0, 0))
}

func TestVisibleFaces_Column(t *testing.T) {
	blocks := emptyBlocks()
	blocks[Index(3, 3, 3)] = block.Stone
	blocks[Index(3, 4, 3)] = block.Stone

	refs := VisibleFaces(blocks)
	require.Len(t, refs, 10)

	lower := facesOf(refs, 3, 3, 3)
	upper := facesOf(refs, 3, 4, 3)
	assert.False(t, lower[FaceUp], "Нижний блок закрыт сверху")
	assert.False(t, upper[FaceDown], "Верхний блок закрыт снизу")
	for _, f := range []Face{FaceDown, FaceEast, FaceWest, FaceNorth, FaceSouth} {
		assert.True(t, lower[f], "Нижний блок: грань %s", f)
	}
	for _, f := range []Face{FaceUp, FaceEast, FaceWest, FaceNorth, FaceSouth} {
		assert.True(t, upper[f], "Верхний блок: грань %s", f)
	}
}

func TestVisibleFaces_BoundaryAlwaysRendered(t *testing.T) {
	blocks := emptyBlocks()
	blocks[Index(15, 0, 7)] = block.Dirt

	faces := facesOf(VisibleFaces(blocks), 15, 0, 7)
	assert.Len(t, faces, 6, "Соседи за границей чанка не проверяются")
}

func TestVisibleFaces_Order(t *testing.T) {
	blocks := emptyBlocks()
	blocks[Index(0, 0, 0)] = block.Grass

	refs := VisibleFaces(blocks)
	require.Len(t, refs, 6)
	for i, f := range Faces {
		assert.Equal(t, f, refs[i].Face)
	}
}

func TestVisibleFaces_WrongLengthPanics(t *testing.T) {
	assert.Panics(t, func() { VisibleFaces(make([]block.Block, 10)) })
}

func TestFaceNormals(t *testing.T) {
	assert.Equal(t, 1, FaceUp.Normal().Y)
	assert.Equal(t, -1, FaceDown.Normal().Y)
	assert.Equal(t, 1, FaceEast.Normal().X)
	assert.Equal(t, -1, FaceWest.Normal().X)
	assert.Equal(t, -1, FaceNorth.Normal().Z)
	assert.Equal(t, 1, FaceSouth.Normal().Z)
	assert.Equal(t, "unknown", Face(9).String())
}

func TestTextureAtlas_MapUV(t *testing.T) {
	atlas := NewTextureAtlas(4)

	assert.Equal(t, mgl32.Vec2{0, 0}, atlas.MapUV(mgl32.Vec2{0, 0}, 0))
	assert.Equal(t, mgl32.Vec2{0.25, 1}, atlas.MapUV(mgl32.Vec2{1, 1}, 0))
	assert.Equal(t, mgl32.Vec2{0.75, 0.5}, atlas.MapUV(mgl32.Vec2{0, 0.5}, 3))
	assert.Equal(t, mgl32.Vec2{1, 1}, atlas.MapUV(mgl32.Vec2{1, 1}, 3))

	assert.Panics(t, func() { NewTextureAtlas(0) })
}

func TestBuildMesh_SingleGrass(t *testing.T) {
	blocks := emptyBlocks()
	blocks[Index(2, 1, 0)] = block.Grass

	mesh := BuildMesh(blocks, NewTextureAtlas(4))
	require.Equal(t, 6, mesh.FaceCount())
	require.Len(t, mesh.Positions, 6*VerticesPerFace*3)
	require.Len(t, mesh.UVs, 6*VerticesPerFace*2)

	// Верхняя грань идёт первой: вершина (0,1,0) со смещением блока
	assert.Equal(t, []float32{2, 2, 0}, mesh.Positions[0:3])
	// Верх травы: тайл 0
	assert.Equal(t, []float32{0, 0}, mesh.UVs[0:2])
	assert.Equal(t, []float32{0.25, 0}, mesh.UVs[2:4])

	// Нижняя грань: тайл 2
	down := VerticesPerFace * 2
	assert.Equal(t, []float32{0.5, 0}, mesh.UVs[down:down+2])

	// Грань +x: тайл 1, UV развёрнуты
	east := 2 * VerticesPerFace * 2
	assert.Equal(t, []float32{0.5, 0}, mesh.UVs[east:east+2])
	assert.Equal(t, []float32{3, 1, 0}, mesh.Positions[2*VerticesPerFace*3:2*VerticesPerFace*3+3])

	// Все U в полосе тайлов травы [0, 0.75]
	for i := 0; i < len(mesh.UVs); i += 2 {
		assert.GreaterOrEqual(t, mesh.UVs[i], float32(0))
		assert.LessOrEqual(t, mesh.UVs[i], float32(0.75))
	}
}

func TestBuildMesh_Deterministic(t *testing.T) {
	blocks := emptyBlocks()
	for i := 0; i < ChunkVolume; i += 7 {
		blocks[i] = block.Stone
	}

	a := BuildMesh(blocks, NewTextureAtlas(4))
	b := BuildMesh(blocks, NewTextureAtlas(4))
	assert.Equal(t, a, b)
	assert.Equal(t, len(VisibleFaces(blocks)), a.FaceCount())
}

func BenchmarkBuildMesh(b *testing.B) {
	blocks := emptyBlocks()
	for i := 0; i < ChunkVolume; i += 3 {
		blocks[i] = block.Stone
	}
	atlas := NewTextureAtlas(4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		BuildMesh(blocks, atlas)
	}
}
