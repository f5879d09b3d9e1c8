package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dgallion1/steelbid/internal/estimate"
)

// Memory keeps everything in process. Contents are lost on restart.
type Memory struct {
	mu        sync.RWMutex
	settings  estimate.Settings
	estimates map[string]*SavedEstimate
	now       func() time.Time
}

func NewMemory(initial estimate.Settings) *Memory {
	return &Memory{
		settings:  initial.WithDefaults(),
		estimates: make(map[string]*SavedEstimate),
		now:       time.Now,
	}
}

func (m *Memory) GetSettings(context.Context) (estimate.Settings, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings, nil
}

func (m *Memory) PutSettings(_ context.Context, s estimate.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s.WithDefaults()
	return nil
}

func (m *Memory) SaveEstimate(_ context.Context, e *SavedEstimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now().UTC()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if prev, ok := m.estimates[e.ID]; ok {
		e.CreatedAt = prev.CreatedAt
	} else if e.CreatedAt.IsZero() {
		e.CreatedAt = now
	}
	e.UpdatedAt = now
	m.estimates[e.ID] = cloneEstimate(e)
	return nil
}

func (m *Memory) GetEstimate(_ context.Context, id string) (*SavedEstimate, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.estimates[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneEstimate(e), nil
}

func (m *Memory) ListEstimates(context.Context) ([]Summary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Summary, 0, len(m.estimates))
	for _, e := range m.estimates {
		out = append(out, summarize(e))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

func (m *Memory) DeleteEstimate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.estimates[id]; !ok {
		return ErrNotFound
	}
	delete(m.estimates, id)
	return nil
}

func (m *Memory) Close() error { return nil }

func cloneEstimate(e *SavedEstimate) *SavedEstimate {
	c := *e
	c.Members = append([]estimate.Member(nil), e.Members...)
	if c.Members == nil {
		c.Members = []estimate.Member{}
	}
	if e.Settings != nil {
		s := *e.Settings
		c.Settings = &s
	}
	return &c
}
