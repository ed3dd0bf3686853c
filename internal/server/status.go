package server

import (
	"context"

	"activityapi/internal/shared"
)

// StatusManager validates and applies status item operations.
type StatusManager struct {
	Store Store
}

// List groups active items by section. Both known sections are always
// present; rows with any other section are dropped.
func (m *StatusManager) List(ctx context.Context) (shared.StatusList, error) {
	items, err := m.Store.ListActiveStatus(ctx)
	if err != nil {
		return nil, err
	}

	out := make(shared.StatusList, len(shared.Sections))
	for _, sec := range shared.Sections {
		out[sec] = []shared.StatusItem{}
	}
	for _, it := range items {
		if _, ok := out[it.Section]; ok {
			out[it.Section] = append(out[it.Section], it)
		}
	}
	return out, nil
}

// Upsert creates an item when req.ID is absent, null or zero, and otherwise
// patches only the fields present in req. On create a null description,
// position or is_active takes the default; on update any null is rejected.
func (m *StatusManager) Upsert(ctx context.Context, req shared.StatusUpsertRequest) error {
	if req.Section.Present() && !req.Section.Value.Valid() {
		return invalidInput("Invalid section")
	}

	if !req.ID.Present() || req.ID.Value == 0 {
		item, err := newStatusItem(req)
		if err != nil {
			return err
		}
		return m.Store.CreateStatus(ctx, item)
	}

	patch, err := statusPatch(req)
	if err != nil {
		return err
	}
	return m.Store.UpdateStatus(ctx, req.ID.Value, patch)
}

func newStatusItem(req shared.StatusUpsertRequest) (NewStatusItem, error) {
	if !req.Section.Present() || !req.Title.Present() || req.Title.Value == "" {
		return NewStatusItem{}, invalidInput("Missing fields")
	}

	item := NewStatusItem{
		Section:  req.Section.Value,
		Title:    req.Title.Value,
		IsActive: true,
	}
	if req.Description.Present() {
		item.Description = req.Description.Value
	}
	if req.Position.Present() {
		item.Position = req.Position.Value
	}
	if req.IsActive.Present() {
		item.IsActive = bool(req.IsActive.Value)
	}
	return item, nil
}

func statusPatch(req shared.StatusUpsertRequest) (StatusPatch, error) {
	if err := rejectNulls(req); err != nil {
		return StatusPatch{}, err
	}

	var p StatusPatch
	if req.Section.Set {
		p.Section = &req.Section.Value
	}
	if req.Title.Set {
		if req.Title.Value == "" {
			return StatusPatch{}, invalidInput("Title must not be empty")
		}
		p.Title = &req.Title.Value
	}
	if req.Description.Set {
		p.Description = &req.Description.Value
	}
	if req.Position.Set {
		p.Position = &req.Position.Value
	}
	if req.IsActive.Set {
		active := bool(req.IsActive.Value)
		p.IsActive = &active
	}
	if p.Empty() {
		return StatusPatch{}, invalidInput("No fields to update")
	}
	return p, nil
}

// rejectNulls refuses explicit nulls in an update; every status column is
// written as a concrete value.
func rejectNulls(req shared.StatusUpsertRequest) error {
	switch {
	case req.Section.Null:
		return invalidInput("Invalid section")
	case req.Title.Null:
		return invalidInput("title must not be null")
	case req.Description.Null:
		return invalidInput("description must not be null")
	case req.Position.Null:
		return invalidInput("position must not be null")
	case req.IsActive.Null:
		return invalidInput("is_active must not be null")
	}
	return nil
}

// Delete soft-deletes the item with id. Zero is rejected.
func (m *StatusManager) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return invalidInput("Invalid ID")
	}
	return m.Store.DeactivateStatus(ctx, id)
}

// Reorder sets position=index for each id in req.IDs that belongs to
// req.Section. An empty list is accepted and writes nothing.
func (m *StatusManager) Reorder(ctx context.Context, req shared.ReorderRequest) error {
	if req.Section == "" || req.IDs == nil {
		return invalidInput("Invalid payload")
	}
	if !req.Section.Valid() {
		return invalidInput("Invalid section")
	}
	return m.Store.ReorderStatus(ctx, req.Section, *req.IDs)
}
