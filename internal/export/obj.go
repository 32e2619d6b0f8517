// Package export выгружает меши загруженных чанков в Wavefront OBJ
// для просмотра в сторонних редакторах.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
)

// ChunkMesh хранит меш чанка вместе с его смещением в мире
type ChunkMesh struct {
	Coords vec.Vec3
	Origin vec.Vec3
	Mesh   world.Mesh
}

// Stats описывает записанный файл
type Stats struct {
	Chunks    int
	Vertices  int
	Triangles int
	Bytes     int64
}

// Snapshot собирает готовые меши мира, отсортированные по координатам чанков
func Snapshot(w *world.World) []ChunkMesh {
	var out []ChunkMesh
	for _, c := range w.Chunks() {
		if c.State() != world.StateReady {
			continue
		}
		mesh := c.Mesh()
		if mesh.IsEmpty() {
			continue
		}
		out = append(out, ChunkMesh{Coords: c.Coords, Origin: c.Origin(), Mesh: mesh})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Coords, out[j].Coords
		if a.X != b.X {
			return a.X < b.X
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.Z < b.Z
	})
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// WriteOBJ пишет меши как отдельные объекты OBJ. Вершины смещаются на
// origin чанка, каждая вершина получает свою текстурную координату.
func WriteOBJ(w io.Writer, meshes []ChunkMesh) (Stats, error) {
	cw := &countingWriter{w: w}
	bw := bufio.NewWriter(cw)

	var st Stats
	fmt.Fprintf(bw, "# voxel-core export: %d chunks\n", len(meshes))

	base := 1 // индексы OBJ начинаются с 1
	for _, cm := range meshes {
		n := cm.Mesh.VertexCount()
		if len(cm.Mesh.UVs) != n*2 {
			return st, fmt.Errorf("чанк %v: %d UV на %d вершин", cm.Coords, len(cm.Mesh.UVs)/2, n)
		}

		fmt.Fprintf(bw, "o chunk_%d_%d_%d\n", cm.Coords.X, cm.Coords.Y, cm.Coords.Z)
		for i := 0; i < n; i++ {
			p := cm.Mesh.Positions[i*3 : i*3+3]
			fmt.Fprintf(bw, "v %g %g %g\n",
				p[0]+float32(cm.Origin.X), p[1]+float32(cm.Origin.Y), p[2]+float32(cm.Origin.Z))
		}
		for i := 0; i < n; i++ {
			fmt.Fprintf(bw, "vt %g %g\n", cm.Mesh.UVs[i*2], cm.Mesh.UVs[i*2+1])
		}
		for i := 0; i+2 < n; i += 3 {
			a, b, c := base+i, base+i+1, base+i+2
			fmt.Fprintf(bw, "f %d/%d %d/%d %d/%d\n", a, a, b, b, c, c)
		}

		base += n
		st.Chunks++
		st.Vertices += n
		st.Triangles += n / 3
	}

	if err := bw.Flush(); err != nil {
		return st, err
	}
	st.Bytes = cw.n
	return st, nil
}

// WriteFile пишет OBJ в файл. Файлы с суффиксом .zst сжимаются zstd.
func WriteFile(path string, meshes []ChunkMesh) (Stats, error) {
	f, err := os.Create(path)
	if err != nil {
		return Stats{}, err
	}
	defer f.Close()

	if !strings.HasSuffix(path, ".zst") {
		st, err := WriteOBJ(f, meshes)
		if err != nil {
			return st, err
		}
		return st, f.Close()
	}

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return Stats{}, err
	}
	st, err := WriteOBJ(enc, meshes)
	if err != nil {
		enc.Close()
		return st, err
	}
	if err := enc.Close(); err != nil {
		return st, err
	}
	return st, f.Close()
}
