package server

import (
	"context"
	"sort"
	"sync"
	"time"

	"activityapi/internal/shared"
)

// Store is the persistence port. Implementations own the rows; handlers
// never cache them.
type Store interface {
	ListActiveStatus(ctx context.Context) ([]shared.StatusItem, error)
	CreateStatus(ctx context.Context, item NewStatusItem) error
	UpdateStatus(ctx context.Context, id int64, patch StatusPatch) error
	DeactivateStatus(ctx context.Context, id int64) error
	ReorderStatus(ctx context.Context, section shared.Section, ids []int64) error

	ListLogs(ctx context.Context, limit int) ([]shared.LogEntry, error)
	CreateLog(ctx context.Context, typ, message string) error
}

type NewStatusItem struct {
	Section     shared.Section
	Title       string
	Description string
	Position    int64
	IsActive    bool
}

// StatusPatch holds the columns an update writes. Nil fields are left alone.
type StatusPatch struct {
	Section     *shared.Section
	Title       *string
	Description *string
	Position    *int64
	IsActive    *bool
}

func (p StatusPatch) Empty() bool {
	return p.Section == nil && p.Title == nil && p.Description == nil && p.Position == nil && p.IsActive == nil
}

// memoryStatusRow mirrors a status_items row, including inactive ones.
type memoryStatusRow struct {
	shared.StatusItem
	IsActive bool
}

// MemoryStore is an in-process Store with the same semantics as SQLiteStore.
// Calls counts every method invocation so callers can assert that a request
// never reached storage.
type MemoryStore struct {
	mu sync.Mutex

	status []*memoryStatusRow
	logs   []shared.LogEntry
	nextID int64
	Calls  int

	// Now stamps log rows; defaults to time.Now.
	Now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{Now: time.Now}
}

func (s *MemoryStore) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Calls
}

func (s *MemoryStore) ListActiveStatus(ctx context.Context) ([]shared.StatusItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	var out []shared.StatusItem
	for _, row := range s.status {
		if row.IsActive {
			out = append(out, row.StatusItem)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Section != out[j].Section {
			return out[i].Section < out[j].Section
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *MemoryStore) CreateStatus(ctx context.Context, item NewStatusItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	s.nextID++
	s.status = append(s.status, &memoryStatusRow{
		StatusItem: shared.StatusItem{
			ID:          s.nextID,
			Section:     item.Section,
			Title:       item.Title,
			Description: item.Description,
			Position:    item.Position,
		},
		IsActive: item.IsActive,
	})
	return nil
}

func (s *MemoryStore) UpdateStatus(ctx context.Context, id int64, patch StatusPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	row := s.find(id)
	if row == nil {
		return nil
	}
	if patch.Section != nil {
		row.Section = *patch.Section
	}
	if patch.Title != nil {
		row.Title = *patch.Title
	}
	if patch.Description != nil {
		row.Description = *patch.Description
	}
	if patch.Position != nil {
		row.Position = *patch.Position
	}
	if patch.IsActive != nil {
		row.IsActive = *patch.IsActive
	}
	return nil
}

func (s *MemoryStore) DeactivateStatus(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	if row := s.find(id); row != nil {
		row.IsActive = false
	}
	return nil
}

func (s *MemoryStore) ReorderStatus(ctx context.Context, section shared.Section, ids []int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	for pos, id := range ids {
		if row := s.find(id); row != nil && row.Section == section {
			row.Position = int64(pos)
		}
	}
	return nil
}

// StatusRow returns a copy of the stored row for id, active or not.
func (s *MemoryStore) StatusRow(id int64) (item shared.StatusItem, active bool, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := s.find(id)
	if row == nil {
		return shared.StatusItem{}, false, false
	}
	return row.StatusItem, row.IsActive, true
}

func (s *MemoryStore) ListLogs(ctx context.Context, limit int) ([]shared.LogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	out := make([]shared.LogEntry, 0, max(limit, 0))
	for i := len(s.logs) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.logs[i])
	}
	return out, nil
}

func (s *MemoryStore) CreateLog(ctx context.Context, typ, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls++

	s.nextID++
	s.logs = append(s.logs, shared.LogEntry{
		ID:        s.nextID,
		Type:      typ,
		Message:   message,
		CreatedAt: s.Now().UTC().Format(time.RFC3339),
	})
	return nil
}

func (s *MemoryStore) find(id int64) *memoryStatusRow {
	for _, row := range s.status {
		if row.ID == id {
			return row
		}
	}
	return nil
}
