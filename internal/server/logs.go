package server

import (
	"context"
	"math"
	"strconv"
	"strings"

	"activityapi/internal/shared"
)

const (
	DefaultLogLimit = 10
	MaxLogLimit     = 10
)

// LogManager validates and applies log feed operations.
type LogManager struct {
	Store Store
}

// ResolveLimit turns the raw limit query value into a row count. Missing,
// unparsable, non-finite and non-positive values fall back to the default;
// everything is capped at MaxLogLimit.
func ResolveLimit(raw string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return DefaultLogLimit
	}
	if v >= MaxLogLimit {
		return MaxLogLimit
	}
	return max(int(v), 1)
}

// List returns the newest entries first, at most limit of them.
func (m *LogManager) List(ctx context.Context, limit int) ([]shared.LogEntry, error) {
	if limit <= 0 || limit > MaxLogLimit {
		limit = ResolveLimit(strconv.Itoa(limit))
	}
	entries, err := m.Store.ListLogs(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []shared.LogEntry{}
	}
	return entries, nil
}

// Create appends a log entry. Both fields are required.
func (m *LogManager) Create(ctx context.Context, req shared.CreateLogRequest) error {
	if req.Type == "" || req.Message == "" {
		return invalidInput("Missing fields")
	}
	return m.Store.CreateLog(ctx, req.Type, req.Message)
}
