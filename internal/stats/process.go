package stats

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats снимает показатели процесса генератора
type ProcessStats struct {
	StartTime time.Time
	proc      *process.Process
}

// Snapshot содержит один снимок показателей
type Snapshot struct {
	Uptime     time.Duration
	CPUPercent float64
	RSSMB      float64
	HeapMB     float64
	Goroutines int
	NumGC      uint32
}

// NewProcessStats создаёт сборщик для текущего процесса
func NewProcessStats() *ProcessStats {
	ps := &ProcessStats{StartTime: time.Now()}
	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		ps.proc = proc
	}
	return ps
}

// Uptime возвращает время работы в виде "1ч 2м 3с"
func (ps *ProcessStats) Uptime() string {
	return FormatDuration(time.Since(ps.StartTime))
}

// FormatDuration форматирует длительность в днях, часах, минутах и секундах
func FormatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// CPUPercent возвращает использование CPU процессом в процентах
func (ps *ProcessStats) CPUPercent() (float64, error) {
	if ps.proc != nil {
		if pct, err := ps.proc.CPUPercent(); err == nil {
			return pct, nil
		}
	}

	// Если не удалось получить метрику процесса, берём системную
	pcts, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		return 0, err
	}
	if len(pcts) == 0 {
		return 0, fmt.Errorf("нет данных о загрузке CPU")
	}
	return pcts[0], nil
}

// RSSMB возвращает резидентную память процесса в MB
func (ps *ProcessStats) RSSMB() (float64, error) {
	if ps.proc == nil {
		return 0, fmt.Errorf("процесс %d недоступен", os.Getpid())
	}
	info, err := ps.proc.MemoryInfo()
	if err != nil {
		return 0, err
	}
	return float64(info.RSS) / 1024 / 1024, nil
}

// Snapshot собирает все показатели. Ошибки gopsutil не фатальны:
// недоступные значения остаются нулевыми.
func (ps *ProcessStats) Snapshot() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s := Snapshot{
		Uptime:     time.Since(ps.StartTime),
		HeapMB:     float64(m.HeapAlloc) / 1024 / 1024,
		Goroutines: runtime.NumGoroutine(),
		NumGC:      m.NumGC,
	}
	if pct, err := ps.CPUPercent(); err == nil {
		s.CPUPercent = pct
	}
	if rss, err := ps.RSSMB(); err == nil {
		s.RSSMB = rss
	}
	return s
}

// String форматирует снимок для лога
func (s Snapshot) String() string {
	return fmt.Sprintf("uptime=%s cpu=%.1f%% rss=%.1fMB heap=%.1fMB goroutines=%d gc=%d",
		FormatDuration(s.Uptime), s.CPUPercent, s.RSSMB, s.HeapMB, s.Goroutines, s.NumGC)
}
