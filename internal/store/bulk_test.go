package store_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/komi0929/myprompt/internal/export"
	"github.com/komi0929/myprompt/internal/store"
)

func TestAddTagToAll_DedupesPerPrompt(t *testing.T) {
	st := member()
	tagged := ownPrompt(st, "tagged")
	tagged.Tags = []string{"go"}
	bare := ownPrompt(st, "bare")
	s, f := newHydrated(t, st, tagged, bare)

	res := s.AddTagToAll(context.Background(), []uuid.UUID{tagged.ID, bare.ID}, "go")

	assert.Len(t, res.Succeeded, 2)
	assert.Empty(t, res.Failed)

	got, _ := s.Get(tagged.ID)
	assert.Equal(t, []string{"go"}, got.Tags, "already-present tag not duplicated")
	got, _ = s.Get(bare.ID)
	assert.Equal(t, []string{"go"}, got.Tags)

	row, _ := f.prompts.Row(bare.ID)
	assert.Equal(t, []string{"go"}, row.Tags)
}

func TestDeleteAll_SequentialWithPerItemOutcomes(t *testing.T) {
	st := member()
	a := ownPrompt(st, "a")
	b := ownPrompt(st, "b")
	s, _ := newHydrated(t, st, a, b)
	missing := uuid.New()

	res := s.DeleteAll(context.Background(), []uuid.UUID{a.ID, missing, b.ID})

	// No transaction: the unknown id fails on its own, the rest go through.
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, res.Succeeded)
	assert.Equal(t, []uuid.UUID{missing}, res.Failed)
	assert.Empty(t, s.Prompts())
}

func TestMoveAllToFolder_SetsAndClears(t *testing.T) {
	st := member()
	s, _ := newHydrated(t, st)
	folderID := s.AddFolder(context.Background(), "work", "#fff")
	a := s.AddPrompt(context.Background(), store.AddInput{Title: "a", Content: "c"})
	b := s.AddPrompt(context.Background(), store.AddInput{Title: "b", Content: "c"})

	res := s.MoveAllToFolder(context.Background(), []uuid.UUID{a, b}, &folderID)
	assert.Len(t, res.Succeeded, 2)
	for _, id := range []uuid.UUID{a, b} {
		p, _ := s.Get(id)
		require.NotNil(t, p.FolderID)
		assert.Equal(t, folderID, *p.FolderID)
	}

	res = s.MoveAllToFolder(context.Background(), []uuid.UUID{a, b}, nil)
	assert.Len(t, res.Succeeded, 2)
	for _, id := range []uuid.UUID{a, b} {
		p, _ := s.Get(id)
		assert.Nil(t, p.FolderID)
	}
}

func TestExportSelection_ExactSubsetInSelectionOrder(t *testing.T) {
	st := member()
	a := ownPrompt(st, "a")
	b := ownPrompt(st, "b")
	c := ownPrompt(st, "c")
	s, _ := newHydrated(t, st, a, b, c)

	data, err := s.ExportSelection([]uuid.UUID{c.ID, a.ID, uuid.New()}, export.FormatJSON)
	require.NoError(t, err)

	var doc export.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Prompts, 2, "unknown ids skipped")
	assert.Equal(t, "c", doc.Prompts[0].Title)
	assert.Equal(t, "a", doc.Prompts[1].Title)
}
