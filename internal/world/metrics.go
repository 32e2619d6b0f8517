package world

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics инкапсулирует Prometheus-метрики подгрузки чанков.
// Nil-указатель допустим: все методы становятся no-op.
type Metrics struct {
	chunksCreated   prometheus.Counter
	chunksLoaded    prometheus.Gauge
	setupCompleted  prometheus.Counter
	setupFailed     prometheus.Counter
	rebuilds        prometheus.Counter
	budgetExhausted prometheus.Counter
	queueDepth      prometheus.Gauge
	facesEmitted    prometheus.Counter
	generateSeconds prometheus.Histogram
	buildSeconds    prometheus.Histogram
}

// NewMetrics создаёт метрики и регистрирует их в reg (nil: без регистрации)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	buckets := []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25}

	m := &Metrics{
		chunksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunks_created_total",
			Help:      "Общее число созданных чанков.",
		}),
		chunksLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "chunks_loaded",
			Help:      "Количество чанков в загруженном наборе.",
		}),
		setupCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunk_setup_completed_total",
			Help:      "Чанки, для которых завершены генерация и построение меша.",
		}),
		setupFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunk_setup_failed_total",
			Help:      "Чанки, генерация которых завершилась ошибкой.",
		}),
		rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "chunk_rebuilds_total",
			Help:      "Перестроения меша после изменения блоков.",
		}),
		budgetExhausted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "tick_budget_exhausted_total",
			Help:      "Тики, в которых закончился бюджет создания чанков.",
		}),
		queueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "voxel",
			Name:      "setup_queue_depth",
			Help:      "Незавершённые задачи в очереди подготовки чанков.",
		}),
		facesEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "voxel",
			Name:      "mesh_faces_emitted_total",
			Help:      "Суммарное число граней в построенных мешах.",
		}),
		generateSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "chunk_generate_seconds",
			Help:      "Длительность генерации блоков чанка.",
			Buckets:   buckets,
		}),
		buildSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voxel",
			Name:      "chunk_build_seconds",
			Help:      "Длительность построения меша чанка.",
			Buckets:   buckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.chunksCreated, m.chunksLoaded, m.setupCompleted, m.setupFailed,
			m.rebuilds, m.budgetExhausted, m.queueDepth, m.facesEmitted,
			m.generateSeconds, m.buildSeconds,
		)
	}
	return m
}

func (m *Metrics) chunkCreated(loaded int) {
	if m == nil {
		return
	}
	m.chunksCreated.Inc()
	m.chunksLoaded.Set(float64(loaded))
}

func (m *Metrics) setQueueDepth(n int) {
	if m == nil {
		return
	}
	m.queueDepth.Set(float64(n))
}

func (m *Metrics) budgetSpent() {
	if m == nil {
		return
	}
	m.budgetExhausted.Inc()
}

func (m *Metrics) observeGenerate(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.generateSeconds.Observe(d.Seconds())
	if err != nil {
		m.setupFailed.Inc()
	}
}

func (m *Metrics) observeBuild(d time.Duration, faces int, rebuild bool) {
	if m == nil {
		return
	}
	m.buildSeconds.Observe(d.Seconds())
	m.facesEmitted.Add(float64(faces))
	if rebuild {
		m.rebuilds.Inc()
	} else {
		m.setupCompleted.Inc()
	}
}
