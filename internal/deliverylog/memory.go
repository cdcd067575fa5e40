package deliverylog

import (
	"context"
	"sync"

	"github.com/nerva-logistics/alertdispatch/internal/domain/model"
)

// Memory is a bounded in-process ring buffer.
type Memory struct {
	mu    sync.RWMutex
	buf   []model.DeliveryReport
	start int
	size  int
	total int64
}

var _ Sink = (*Memory)(nil)

// NewMemory creates a ring buffer holding at most capacity reports.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{buf: make([]model.DeliveryReport, capacity)}
}

// Append implements Sink.
func (m *Memory) Append(_ context.Context, report model.DeliveryReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	capacity := len(m.buf)
	idx := (m.start + m.size) % capacity
	m.buf[idx] = report.Clone()
	if m.size < capacity {
		m.size++
	} else {
		m.start = (m.start + 1) % capacity
	}
	m.total++
	return nil
}

// List implements Sink.
func (m *Memory) List(_ context.Context) ([]model.DeliveryReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]model.DeliveryReport, m.size)
	for i := range m.size {
		out[i] = m.buf[(m.start+i)%len(m.buf)].Clone()
	}
	return out, nil
}

// Len implements Sink.
func (m *Memory) Len(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.size, nil
}

// Total implements Sink.
func (m *Memory) Total(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.total, nil
}

// Last implements Sink.
func (m *Memory) Last(_ context.Context) (*model.DeliveryReport, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.size == 0 {
		return nil, nil
	}
	last := m.buf[(m.start+m.size-1)%len(m.buf)].Clone()
	return &last, nil
}
