package world

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/annel0/voxel-core/internal/config"
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/util"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world/block"
)

const tracerName = "github.com/annel0/voxel-core/internal/world"

// Option настраивает World при создании
type Option func(*World)

// WithGenerator заменяет стандартный конвейер генерации
func WithGenerator(g *Generator) Option {
	return func(w *World) { w.generator = g }
}

// WithMetrics подключает Prometheus-метрики
func WithMetrics(m *Metrics) Option {
	return func(w *World) { w.metrics = m }
}

// WithLogger задаёт логгер мира
func WithLogger(l *logging.Logger) Option {
	return func(w *World) { w.logger = l }
}

// WithTracer задаёт трассировщик OpenTelemetry
func WithTracer(t trace.Tracer) Option {
	return func(w *World) { w.tracer = t }
}

// World владеет разреженным набором загруженных чанков и политикой их
// подгрузки вокруг наблюдателя. Чанки никогда не выгружаются: набор
// только растёт.
type World struct {
	id    uuid.UUID
	cfg   config.WorldConfig
	atlas TextureAtlas
	noise *util.NoiseField

	mu     sync.RWMutex
	chunks map[vec.Vec3]*Chunk

	generator *Generator
	queue     *SetupQueue
	metrics   *Metrics
	logger    *logging.Logger
	tracer    trace.Tracer

	readyMu  sync.Mutex
	ready    []*Chunk
	readySet map[*Chunk]struct{}
}

// NewWorld создаёт мир и запускает воркеры подготовки чанков
func NewWorld(cfg config.WorldConfig, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	noise := util.NewNoiseField(cfg.Seed)
	w := &World{
		id:        uuid.New(),
		cfg:       cfg,
		atlas:     NewTextureAtlas(cfg.AtlasSize),
		noise:     noise,
		chunks:    make(map[vec.Vec3]*Chunk),
		generator: NewDefaultGenerator(noise, cfg.Seed, cfg.Caves),
		logger:    logging.GetWorldLogger(),
		tracer:    otel.Tracer(tracerName),
		readySet:  make(map[*Chunk]struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.queue = NewSetupQueue(cfg.Workers, w.runJob)
	w.queue.Start(context.Background())

	w.logger.Info("Мир %s создан: дальность=%d, бюджет=%d, атлас=%d, слои=%v",
		w.id, cfg.RenderDistance, cfg.ChunkBudget, cfg.AtlasSize, w.generator.Layers())
	return w, nil
}

// ID возвращает идентификатор экземпляра мира
func (w *World) ID() uuid.UUID { return w.id }

// Atlas возвращает атлас, с которым строятся меши
func (w *World) Atlas() TextureAtlas { return w.atlas }

// Noise возвращает поле шума, из которого генерируется рельеф
func (w *World) Noise() *util.NoiseField { return w.noise }

// Generator возвращает конвейер генерации
func (w *World) Generator() *Generator { return w.generator }

// Tick создаёт недостающие чанки в кубе [-R, R)^3 вокруг наблюдателя.
// Обход x -> y -> z, не более ChunkBudget новых чанков за вызов; остальные
// откладываются до следующих тиков. Подготовка чанков идёт асинхронно,
// Tick её не ждёт. Вызывать последовательно, раз в кадр. После Close
// новые чанки не создаются.
// Возвращает количество созданных чанков.
func (w *World) Tick(ox, oy, oz int) int {
	if w.queue.Stopped() {
		return 0
	}

	r := w.cfg.RenderDistance
	budget := w.cfg.ChunkBudget
	created := 0

	defer func() {
		if created > 0 {
			w.metrics.setQueueDepth(w.queue.Pending())
		}
	}()

	for x := -r; x < r; x++ {
		for y := -r; y < r; y++ {
			for z := -r; z < r; z++ {
				coords := vec.Vec3{X: ox + x, Y: oy + y, Z: oz + z}
				if w.IsLoaded(coords) {
					continue
				}
				if budget == 0 {
					w.metrics.budgetSpent()
					w.logger.Trace("Бюджет тика исчерпан у (%d,%d,%d)", ox, oy, oz)
					return created
				}
				budget--

				chunk := w.createChunk(coords)
				if !w.queue.Submit(SetupJob{Chunk: chunk, Kind: JobSetup}) {
					w.logger.Warn("Очередь остановлена, чанк (%d,%d,%d) не будет подготовлен",
						coords.X, coords.Y, coords.Z)
				}
				created++
			}
		}
	}
	return created
}

// TickAt вызывает Tick для непрерывной позиции наблюдателя
func (w *World) TickAt(pos vec.Vec3Float) int {
	c := vec.ChunkOf(pos, ChunkSize)
	return w.Tick(c.X, c.Y, c.Z)
}

// createChunk добавляет пустой чанк в набор. Повторное создание нарушает
// инвариант "один чанк на координату".
func (w *World) createChunk(coords vec.Vec3) *Chunk {
	w.mu.Lock()
	if _, exists := w.chunks[coords]; exists {
		w.mu.Unlock()
		panic(fmt.Sprintf("чанк %v уже существует", coords))
	}
	chunk := NewChunk(coords)
	w.chunks[coords] = chunk
	loaded := len(w.chunks)
	w.mu.Unlock()

	w.metrics.chunkCreated(loaded)
	w.logger.Debug("Создан чанк (%d,%d,%d)", coords.X, coords.Y, coords.Z)
	return chunk
}

// IsLoaded проверяет, есть ли чанк в наборе
func (w *World) IsLoaded(coords vec.Vec3) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, exists := w.chunks[coords]
	return exists
}

// GetChunk возвращает чанк по координатам
func (w *World) GetChunk(coords vec.Vec3) (*Chunk, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	chunk, exists := w.chunks[coords]
	return chunk, exists
}

// LoadedCount возвращает количество чанков в наборе
func (w *World) LoadedCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.chunks)
}

// Chunks возвращает снимок всех загруженных чанков
func (w *World) Chunks() []*Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// GetGlobalBlock возвращает блок по мировым координатам. Никогда не
// завершается ошибкой: незагруженное пространство читается как воздух.
// Ещё не сгенерированный чанк тоже читается как воздух.
func (w *World) GetGlobalBlock(x, y, z int) block.Block {
	pos := vec.Vec3{X: x, Y: y, Z: z}

	chunk, exists := w.GetChunk(pos.ToChunkCoords(ChunkSize))
	if !exists {
		return block.Air
	}

	b, ok := chunk.lookup(pos.LocalInChunk(ChunkSize))
	if !ok {
		return block.Air
	}
	return b
}

// SetGlobalBlock меняет блок по мировым координатам и ставит перестроение
// меша в очередь. Возвращает false, если чанк не загружен или ещё не
// сгенерирован (генерация перезаписала бы изменение), а также после Close.
func (w *World) SetGlobalBlock(x, y, z int, b block.Block) bool {
	pos := vec.Vec3{X: x, Y: y, Z: z}

	chunk, exists := w.GetChunk(pos.ToChunkCoords(ChunkSize))
	if !exists {
		return false
	}

	state := chunk.State()
	if state != StateGenerated && state != StateReady {
		return false
	}
	if w.queue.Stopped() {
		return false
	}

	local := pos.LocalInChunk(ChunkSize)
	chunk.SetBlock(local.X, local.Y, local.Z, b)
	if !w.queue.Submit(SetupJob{Chunk: chunk, Kind: JobRebuild}) {
		w.logger.Warn("Очередь остановлена, меш чанка %v не будет перестроен", chunk.Coords)
	}
	return true
}

// Ready возвращает чанки, меш которых был построен с прошлого вызова.
// Так рендер узнаёт, какие буферы нужно (пере)загрузить.
func (w *World) Ready() []*Chunk {
	w.readyMu.Lock()
	defer w.readyMu.Unlock()

	out := w.ready
	w.ready = nil
	w.readySet = make(map[*Chunk]struct{})
	return out
}

// Pending возвращает количество незавершённых задач подготовки
func (w *World) Pending() int {
	return w.queue.Pending()
}

// WaitIdle ждёт, пока очередь подготовки опустеет
func (w *World) WaitIdle(ctx context.Context) error {
	return w.queue.WaitIdle(ctx)
}

// Close останавливает воркеры. Уже начатая подготовка доводится до конца.
func (w *World) Close() {
	w.queue.Stop()
	w.logger.Info("Мир %s остановлен, загружено чанков: %d", w.id, w.LoadedCount())
}

func (w *World) pushReady(c *Chunk) {
	w.readyMu.Lock()
	defer w.readyMu.Unlock()

	if _, queued := w.readySet[c]; queued {
		return
	}
	w.readySet[c] = struct{}{}
	w.ready = append(w.ready, c)
}

// runJob выполняет задачу очереди: generate -> build или только build
func (w *World) runJob(ctx context.Context, job SetupJob) {
	c := job.Chunk
	attrs := trace.WithAttributes(
		attribute.Int("chunk.x", c.Coords.X),
		attribute.Int("chunk.y", c.Coords.Y),
		attribute.Int("chunk.z", c.Coords.Z),
	)

	if job.Kind == JobSetup {
		_, span := w.tracer.Start(ctx, "chunk.generate", attrs)
		start := time.Now()
		err := c.Generate(w.generator)
		w.metrics.observeGenerate(time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			w.logger.Error("Ошибка подготовки чанка: %v", err)
			return
		}
		span.End()
	}

	if c.State() == StateFailed {
		return
	}

	_, span := w.tracer.Start(ctx, "chunk.build", attrs)
	start := time.Now()
	mesh := c.Build(w.atlas)
	w.metrics.observeBuild(time.Since(start), mesh.FaceCount(), job.Kind == JobRebuild)
	span.SetAttributes(attribute.Int("mesh.faces", mesh.FaceCount()))
	span.End()

	w.pushReady(c)
	w.metrics.setQueueDepth(w.queue.Pending() - 1)
}
