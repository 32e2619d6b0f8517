package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "5с", FormatDuration(5*time.Second))
	assert.Equal(t, "2м 5с", FormatDuration(2*time.Minute+5*time.Second))
	assert.Equal(t, "1ч 0м 7с", FormatDuration(time.Hour+7*time.Second))
	assert.Equal(t, "2д 3ч 0м 0с", FormatDuration(51*time.Hour))
}

func TestSnapshot(t *testing.T) {
	ps := NewProcessStats()
	s := ps.Snapshot()

	assert.Greater(t, s.Goroutines, 0)
	assert.Greater(t, s.HeapMB, 0.0)
	assert.GreaterOrEqual(t, s.CPUPercent, 0.0)
	assert.Contains(t, s.String(), "goroutines=")
}
