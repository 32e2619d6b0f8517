package world

import (
	"context"
	"sync"
)

// JobKind определяет, что нужно сделать с чанком
type JobKind int

const (
	JobSetup   JobKind = iota // Генерация и построение меша
	JobRebuild                // Только перестроение меша после изменения блоков
)

// SetupJob задача очереди подготовки чанков
type SetupJob struct {
	Chunk *Chunk
	Kind  JobKind
}

// SetupFunc выполняет задачу. Начатая задача всегда доводится до конца.
type SetupFunc func(ctx context.Context, job SetupJob)

// SetupQueue хранит задачи подготовки чанков, которые разбирает
// ограниченный пул воркеров. Submit никогда не блокирует вызывающего:
// кадр не должен ждать генерации.
type SetupQueue struct {
	run     SetupFunc
	workers int

	mu          sync.Mutex
	pending     []SetupJob
	outstanding int           // В очереди + выполняется
	idle        chan struct{} // Закрыт, когда outstanding == 0
	stopped     bool

	wake   chan struct{}
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSetupQueue создаёт очередь с указанным числом воркеров
func NewSetupQueue(workers int, run SetupFunc) *SetupQueue {
	if workers < 1 {
		workers = 1
	}
	idle := make(chan struct{})
	close(idle)
	return &SetupQueue{
		run:     run,
		workers: workers,
		idle:    idle,
		wake:    make(chan struct{}, 1),
	}
}

// Start запускает воркеры
func (q *SetupQueue) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	q.cancel = cancel

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Submit ставит задачу в очередь. Возвращает false, если очередь остановлена.
func (q *SetupQueue) Submit(job SetupJob) bool {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return false
	}
	if q.outstanding == 0 {
		q.idle = make(chan struct{})
	}
	q.outstanding++
	q.pending = append(q.pending, job)
	q.mu.Unlock()

	q.signal()
	return true
}

// Pending возвращает количество незавершённых задач (в очереди и в работе)
func (q *SetupQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.outstanding
}

// Stopped возвращает true после Stop
func (q *SetupQueue) Stopped() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stopped
}

// WaitIdle блокируется, пока все поставленные задачи не завершатся
func (q *SetupQueue) WaitIdle(ctx context.Context) error {
	q.mu.Lock()
	idle := q.idle
	q.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop останавливает воркеры. Текущие задачи завершаются, ожидающие отбрасываются.
func (q *SetupQueue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()

	q.mu.Lock()
	defer q.mu.Unlock()

	dropped := len(q.pending)
	q.pending = nil
	q.outstanding -= dropped
	if dropped > 0 && q.outstanding == 0 {
		close(q.idle)
	}
}

func (q *SetupQueue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *SetupQueue) pop() (SetupJob, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return SetupJob{}, false
	}
	job := q.pending[0]
	q.pending[0] = SetupJob{}
	q.pending = q.pending[1:]

	// Будим следующего воркера, если работа ещё есть
	if len(q.pending) > 0 {
		q.signal()
	}
	return job, true
}

func (q *SetupQueue) done() {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.outstanding--
	if q.outstanding == 0 {
		close(q.idle)
	}
}

func (q *SetupQueue) worker(ctx context.Context) {
	defer q.wg.Done()

	for {
		if ctx.Err() != nil {
			return
		}

		job, ok := q.pop()
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-q.wake:
			}
			continue
		}

		q.run(ctx, job)
		q.done()
	}
}
