package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kazanTW/pa-telegram-bot/internal/domain"
)

func newTestRepo(t *testing.T) *FileRepo {
	t.Helper()
	r, err := Open(filepath.Join(t.TempDir(), "data", "assistant.json"), zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestLoad_MissingFileInitializesBaseline(t *testing.T) {
	r := newTestRepo(t)
	st, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, st.Notes)
	require.NotNil(t, st.Notes)
	require.Nil(t, st.ReminderTime)
	require.Nil(t, st.ChatID)

	// The baseline was persisted, not just returned.
	_, err = os.Stat(r.path)
	require.NoError(t, err)
}

func TestUpdateThenLoad_RoundTrip(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2025, time.May, 5, 12, 0, 0, 0, time.UTC)
	clock := domain.Clock{Hour: 8, Minute: 30}
	chat := int64(42)

	err := r.Update(ctx, func(st *domain.State) error {
		st.Notes = append(st.Notes,
			domain.Note{Content: "buy milk", Category: domain.CategoryTask, CreatedAt: created},
			domain.Note{Content: "ch. 3", Category: domain.CategoryCourse, Completed: true, CreatedAt: created},
		)
		st.ReminderTime = &clock
		st.ChatID = &chat
		return nil
	})
	require.NoError(t, err)

	st, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Notes, 2)
	require.Equal(t, "buy milk", st.Notes[0].Content)
	require.Equal(t, domain.CategoryTask, st.Notes[0].Category)
	require.False(t, st.Notes[0].Completed)
	require.True(t, st.Notes[0].CreatedAt.Equal(created))
	require.True(t, st.Notes[1].Completed)
	require.NotNil(t, st.ReminderTime)
	require.Equal(t, clock, *st.ReminderTime)
	require.NotNil(t, st.ChatID)
	require.Equal(t, chat, *st.ChatID)
}

func TestLoad_CorruptFileHealsStably(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(r.path, []byte(`{"notes": [{`), 0o644))

	st, err := r.Load(ctx)
	require.NoError(t, err)
	require.Empty(t, st.Notes)

	// A second load finds the healed baseline and leaves it alone.
	again, err := r.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, st, again)
}

func TestLoad_EmptyFileHeals(t *testing.T) {
	r := newTestRepo(t)
	require.NoError(t, os.WriteFile(r.path, nil, 0o644))

	st, err := r.Load(context.Background())
	require.NoError(t, err)
	require.Empty(t, st.Notes)
}

func TestUpdate_FnErrorDoesNotPersist(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Update(ctx, func(st *domain.State) error {
		st.Notes = append(st.Notes, domain.Note{Content: "keep", Category: domain.CategoryMemo})
		return nil
	}))

	boom := os.ErrInvalid
	err := r.Update(ctx, func(st *domain.State) error {
		st.Notes = append(st.Notes, domain.Note{Content: "discard", Category: domain.CategoryMemo})
		return boom
	})
	require.ErrorIs(t, err, boom)

	st, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Notes, 1)
	require.Equal(t, "keep", st.Notes[0].Content)
}

func TestUpdate_ConcurrentAppendsAllSurvive(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	const n = 20
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func() {
			done <- r.Update(ctx, func(st *domain.State) error {
				st.Notes = append(st.Notes, domain.Note{Content: "x", Category: domain.CategoryMemo})
				return nil
			})
		}()
	}
	for i := 0; i < n; i++ {
		require.NoError(t, <-done)
	}

	st, err := r.Load(ctx)
	require.NoError(t, err)
	require.Len(t, st.Notes, n)
}
