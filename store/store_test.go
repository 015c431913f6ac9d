package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lehigh-university-libraries/collabmap/collab"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPapers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	first, err := s.BeginRun(ctx, "paper")
	require.NoError(t, err)
	second, err := s.BeginRun(ctx, "paper")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	a := collab.Paper{
		Title:        "Graph Drawing at Scale",
		Authors:      []string{"Ada Lovelace", "Alan Turing"},
		Institutions: []string{"Lehigh University", "Yerevan State University"},
	}
	b := collab.Paper{Title: "Nothing Found"}
	require.NoError(t, s.SavePaper(ctx, first.ID, a))
	require.NoError(t, s.SavePaper(ctx, second.ID, b))

	got, err := s.Papers(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, []collab.Paper{a}, got)

	all, err := s.Papers(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []collab.Paper{a, b}, all)

	runs, err := s.Runs(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, first.ID, runs[0].ID)
	assert.Equal(t, "paper", runs[0].Command)
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	run, err := s.BeginRun(ctx, "locate")
	require.NoError(t, err)

	insts := []collab.Institution{
		{Name: "Yerevan State University", Coordinates: collab.At(40.1809, 44.5150)},
		{Name: "Nowhere College"},
	}
	require.NoError(t, s.SaveLocations(ctx, run.ID, insts))

	got, err := s.Locations(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, insts, got)

	none, err := s.Locations(ctx, "missing-run")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "archive.db")

	s, err := Open(path)
	require.NoError(t, err)
	run, err := s.BeginRun(ctx, "locate")
	require.NoError(t, err)
	require.NoError(t, s.SaveLocations(ctx, run.ID, []collab.Institution{{Name: "Lehigh University", Coordinates: collab.At(40.6084, -75.378)}}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Locations(ctx, "")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Lehigh University", got[0].Name)
}
