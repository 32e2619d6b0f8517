package export

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/voxel-core/internal/config"
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/annel0/voxel-core/internal/world/block"
)

func singleBlockMesh(b block.Block) world.Mesh {
	blocks := make([]block.Block, world.ChunkVolume)
	for i := range blocks {
		blocks[i] = block.Air
	}
	blocks[world.Index(0, 0, 0)] = b
	return world.BuildMesh(blocks, world.NewTextureAtlas(4))
}

func countPrefix(data []byte, prefix string) int {
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.HasPrefix(sc.Text(), prefix) {
			n++
		}
	}
	return n
}

func TestWriteOBJ(t *testing.T) {
	meshes := []ChunkMesh{
		{Coords: vec.Vec3{}, Origin: vec.Vec3{}, Mesh: singleBlockMesh(block.Stone)},
		{Coords: vec.Vec3{X: -1}, Origin: vec.Vec3{X: -16}, Mesh: singleBlockMesh(block.Grass)},
	}

	var buf bytes.Buffer
	st, err := WriteOBJ(&buf, meshes)
	require.NoError(t, err)

	assert.Equal(t, 2, st.Chunks)
	assert.Equal(t, 72, st.Vertices)
	assert.Equal(t, 24, st.Triangles)
	assert.Equal(t, int64(buf.Len()), st.Bytes)

	data := buf.Bytes()
	assert.Equal(t, 2, countPrefix(data, "o "))
	assert.Equal(t, 72, countPrefix(data, "v "))
	assert.Equal(t, 72, countPrefix(data, "vt "))
	assert.Equal(t, 24, countPrefix(data, "f "))

	// Второй объект смещён на origin и продолжает нумерацию вершин
	assert.Contains(t, buf.String(), "o chunk_-1_0_0\nv -16 1 0\n")
	assert.Contains(t, buf.String(), "f 37/37 38/38 39/39\n")
}

func TestWriteOBJ_BadMesh(t *testing.T) {
	_, err := WriteOBJ(io.Discard, []ChunkMesh{{Mesh: world.Mesh{Positions: make([]float32, 18)}}})
	assert.Error(t, err)
}

func TestWriteFile_Zstd(t *testing.T) {
	meshes := []ChunkMesh{{Mesh: singleBlockMesh(block.Dirt)}}
	dir := t.TempDir()

	plainPath := filepath.Join(dir, "world.obj")
	_, err := WriteFile(plainPath, meshes)
	require.NoError(t, err)

	zstPath := filepath.Join(dir, "world.obj.zst")
	st, err := WriteFile(zstPath, meshes)
	require.NoError(t, err)
	assert.Equal(t, 1, st.Chunks)

	plain, err := os.ReadFile(plainPath)
	require.NoError(t, err)
	compressed, err := os.ReadFile(zstPath)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()

	decoded, err := dec.DecodeAll(compressed, nil)
	require.NoError(t, err)
	assert.Equal(t, plain, decoded)
	assert.Less(t, len(compressed), len(plain))
}

func TestSnapshot(t *testing.T) {
	cfg := config.DefaultWorld()
	cfg.Seed = 9
	w, err := world.NewWorld(cfg, world.WithLogger(logging.NewWriterLogger("world", io.Discard, logging.ERROR)))
	require.NoError(t, err)
	defer w.Close()

	w.Tick(0, 0, 0)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, w.WaitIdle(ctx))

	snap := Snapshot(w)
	for i := 1; i < len(snap); i++ {
		prev, cur := snap[i-1].Coords, snap[i].Coords
		assert.True(t, prev.X < cur.X || (prev.X == cur.X && (prev.Y < cur.Y || (prev.Y == cur.Y && prev.Z < cur.Z))))
	}
	for _, cm := range snap {
		assert.Equal(t, cm.Coords.Scale(world.ChunkSize), cm.Origin)
		assert.False(t, cm.Mesh.IsEmpty())
	}
}
