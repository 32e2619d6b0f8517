package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/annel0/voxel-core/internal/config"
	"github.com/annel0/voxel-core/internal/export"
	"github.com/annel0/voxel-core/internal/logging"
	"github.com/annel0/voxel-core/internal/observability"
	"github.com/annel0/voxel-core/internal/stats"
	"github.com/annel0/voxel-core/internal/vec"
	"github.com/annel0/voxel-core/internal/world"
	"github.com/annel0/voxel-core/internal/world/block"
)

func main() {
	var (
		configPath = flag.String("config", "", "Path to YAML config (or VOXEL_CONFIG)")
		frames     = flag.Int("frames", 0, "Number of frames to simulate, 0 = until the cube is loaded")
		frameTime  = flag.Duration("frame", 16*time.Millisecond, "Frame interval")
		observer   = flag.String("observer", "0,0,0", "Observer position in world blocks: x,y,z")
		walk       = flag.Float64("walk", 0, "Observer speed along +x, blocks per frame")
		objPath    = flag.String("obj", "", "Write loaded meshes to OBJ (.zst for zstd)")
		serve      = flag.Bool("serve", false, "Keep serving /metrics after generation")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	logging.SetLogDir(cfg.Logging.Dir)
	if err := logging.InitDefaultLogger("worldgen"); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseDefaultLogger()
	defer logging.GetLoggerManager().CloseAll()

	if err := run(cfg, options{
		frames:    *frames,
		frameTime: *frameTime,
		observer:  *observer,
		walk:      *walk,
		objPath:   *objPath,
		serve:     *serve,
	}); err != nil {
		logging.Error("❌ %v", err)
		os.Exit(1)
	}
}

type options struct {
	frames    int
	frameTime time.Duration
	observer  string
	walk      float64
	objPath   string
	serve     bool
}

func run(cfg *config.Config, opts options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	level := logging.ParseLevel(cfg.Logging.Level)
	logging.SetDefaultLevel(level)
	worldLogger := logging.GetWorldLogger()
	if err := logging.GetLoggerManager().SetLogLevel(worldLogger.Component(), level, logging.TRACE); err != nil {
		logging.Warn("Не удалось задать уровень логов мира: %v", err)
	}

	if cfg.Blocks.Definitions != "" {
		n, err := block.LoadDefinitions(cfg.Blocks.Definitions, cfg.World.AtlasSize)
		if err != nil {
			return fmt.Errorf("описания блоков %s: %w", cfg.Blocks.Definitions, err)
		}
		logging.Info("🧱 Загружено описаний блоков: %d", n)
	}
	for _, def := range block.All() {
		logging.Debug("Блок %d %s: верх=%d бок=%d низ=%d прозрачный=%v",
			def.ID, def.Name, def.Top, def.Side, def.Bottom, def.Transparent)
	}

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("телеметрия: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logging.Warn("Ошибка остановки телеметрии: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metricsSrv := startMetricsServer(reg, cfg.Metrics.GetMetricsPort())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsSrv.Shutdown(shutdownCtx)
	}()

	w, err := world.NewWorld(cfg.World, world.WithMetrics(world.NewMetrics(reg)), world.WithLogger(worldLogger))
	if err != nil {
		return err
	}
	defer w.Close()

	pos, err := parseObserver(opts.observer)
	if err != nil {
		return err
	}

	ps := stats.NewProcessStats()
	ticker := time.NewTicker(opts.frameTime)
	defer ticker.Stop()

	frame := 0
	for opts.frames == 0 || frame < opts.frames {
		created := w.TickAt(pos)
		for _, c := range w.Ready() {
			logging.Debug("Меш чанка (%d,%d,%d) готов: %d граней",
				c.Coords.X, c.Coords.Y, c.Coords.Z, c.Mesh().FaceCount())
		}
		frame++

		if opts.frames == 0 && created == 0 && opts.walk == 0 {
			break
		}
		pos.X += opts.walk

		select {
		case <-ctx.Done():
			logging.Info("📡 Получен сигнал завершения на кадре %d", frame)
			return nil
		case <-ticker.C:
		}
	}

	logging.Info("⏳ Кадров: %d, чанков: %d, ожидаем подготовку (%d задач)...", frame, w.LoadedCount(), w.Pending())
	if err := w.WaitIdle(ctx); err != nil {
		return fmt.Errorf("ожидание подготовки чанков: %w", err)
	}
	ready := w.Ready()
	logging.Info("✅ Мир %s готов за %s: %d чанков, последних мешей %d", w.ID(), ps.Uptime(), w.LoadedCount(), len(ready))
	logging.Info("📊 %s", ps.Snapshot())

	if opts.objPath != "" {
		st, err := export.WriteFile(opts.objPath, export.Snapshot(w))
		if err != nil {
			return fmt.Errorf("экспорт OBJ: %w", err)
		}
		logging.Info("💾 OBJ записан в %s: чанков %d, треугольников %d, %d байт",
			opts.objPath, st.Chunks, st.Triangles, st.Bytes)
	}

	if opts.serve {
		logging.Info("📈 Метрики доступны на :%d/metrics, Ctrl+C для выхода", cfg.Metrics.GetMetricsPort())
		<-ctx.Done()
	}
	return nil
}

func startMetricsServer(reg *prometheus.Registry, port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn("Сервер метрик остановлен: %v", err)
		}
	}()
	return srv
}

func parseObserver(s string) (vec.Vec3Float, error) {
	var p vec.Vec3Float
	if _, err := fmt.Sscanf(s, "%g,%g,%g", &p.X, &p.Y, &p.Z); err != nil {
		return p, fmt.Errorf("позиция наблюдателя %q: ожидается x,y,z: %w", s, err)
	}
	return p, nil
}
