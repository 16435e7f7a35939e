package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/komi0929/myprompt/internal/export"
)

// BulkResult reports per-item outcomes. Bulk actions run sequentially with
// no transaction, so a failure mid-loop leaves a mixed state; the split here
// is how callers see it.
type BulkResult struct {
	Succeeded []uuid.UUID `json:"succeeded"`
	Failed    []uuid.UUID `json:"failed"`
}

func (r *BulkResult) record(id uuid.UUID, ok bool) {
	if ok {
		r.Succeeded = append(r.Succeeded, id)
	} else {
		r.Failed = append(r.Failed, id)
	}
}

// AddTagToAll appends the tag to each selected prompt that does not already
// carry it. The presence check is per-prompt, so duplicates across the
// selection dedupe naturally.
func (s *Store) AddTagToAll(ctx context.Context, ids []uuid.UUID, tag string) BulkResult {
	var res BulkResult
	for _, id := range ids {
		p, ok := s.Get(id)
		if !ok {
			res.record(id, false)
			continue
		}
		if p.HasTag(tag) {
			res.record(id, true)
			continue
		}
		tags := append(append([]string{}, p.Tags...), tag)
		res.record(id, s.UpdatePrompt(ctx, id, Patch{Tags: &tags}))
	}
	return res
}

// DeleteAll invokes the single-prompt delete once per id, sequentially.
func (s *Store) DeleteAll(ctx context.Context, ids []uuid.UUID) BulkResult {
	var res BulkResult
	for _, id := range ids {
		res.record(id, s.DeletePrompt(ctx, id))
	}
	return res
}

// MoveAllToFolder sets (or clears, with nil) folder membership on every
// selected prompt.
func (s *Store) MoveAllToFolder(ctx context.Context, ids []uuid.UUID, folderID *uuid.UUID) BulkResult {
	var res BulkResult
	for _, id := range ids {
		res.record(id, s.MoveToFolder(ctx, id, folderID))
	}
	return res
}

// ExportSelection renders exactly the selected subset, in selection order,
// through the export formatter. Unknown ids are skipped.
func (s *Store) ExportSelection(ids []uuid.UUID, format export.Format) ([]byte, error) {
	prompts := s.Prompts()
	byID := make(map[uuid.UUID]int, len(prompts))
	for i := range prompts {
		byID[prompts[i].ID] = i
	}
	selection := prompts[:0:0]
	for _, id := range ids {
		if i, ok := byID[id]; ok {
			selection = append(selection, prompts[i])
		}
	}
	return export.Render(selection, format, time.Now().UTC())
}
