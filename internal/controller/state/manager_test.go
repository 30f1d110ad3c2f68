package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func docLoader(blocks ...model.PersistedBlock) Loader {
	return func(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error) {
		return &model.WeeklyAvailabilityDocument{ConsultantID: consultantID, Blocks: blocks}, nil
	}
}

func waitLoaded(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
}

func TestManager_OpenLoadsDocument(t *testing.T) {
	sm := NewManager(docLoader(model.PersistedBlock{Day: "Mon", Start: 9, End: 12}), 20, time.Minute, zap.NewNop())

	s := sm.Open(7)
	waitLoaded(t, s)

	st := s.State()
	assert.False(t, st.Loading)
	require.Len(t, st.Blocks, 1)
	assert.Equal(t, model.Monday, st.Blocks[0].Day)
	assert.Equal(t, 1, st.Blocks[0].ID)
	assert.NotEmpty(t, s.ID)

	got, ok := sm.Get(7)
	require.True(t, ok)
	assert.Same(t, s, got)
}

func TestManager_GesturesRejectedWhileLoading(t *testing.T) {
	release := make(chan struct{})
	sm := NewManager(func(ctx context.Context, id int64) (*model.WeeklyAvailabilityDocument, error) {
		<-release
		return nil, nil
	}, 20, time.Minute, zap.NewNop())

	s := sm.Open(1)
	err := s.Do(time.Now(), func(e *editor.Editor) error {
		_, err := e.AddDefaultBlock()
		return err
	})
	assert.ErrorIs(t, err, editor.ErrLoading)

	close(release)
	waitLoaded(t, s)

	err = s.Do(time.Now(), func(e *editor.Editor) error {
		_, err := e.AddDefaultBlock()
		return err
	})
	assert.NoError(t, err)
}

func TestManager_ReopenClosesPreviousSession(t *testing.T) {
	sm := NewManager(docLoader(), 20, time.Minute, zap.NewNop())

	first := sm.Open(1)
	waitLoaded(t, first)
	second := sm.Open(1)
	waitLoaded(t, second)

	assert.NotEqual(t, first.ID, second.ID)
	assert.True(t, first.Closed())
	assert.False(t, second.Closed())
	err := first.Do(time.Now(), func(e *editor.Editor) error {
		_, err := e.AddDefaultBlock()
		return err
	})
	assert.ErrorIs(t, err, editor.ErrClosed)
	assert.Equal(t, 1, sm.Len())
}

func TestManager_CloseDiscardsLateLoad(t *testing.T) {
	release := make(chan struct{})
	sm := NewManager(func(ctx context.Context, id int64) (*model.WeeklyAvailabilityDocument, error) {
		<-release
		return &model.WeeklyAvailabilityDocument{Blocks: []model.PersistedBlock{{Day: "Sun", Start: 9, End: 10}}}, nil
	}, 20, time.Minute, zap.NewNop())

	s := sm.Open(1)
	assert.True(t, sm.Close(1))
	assert.False(t, sm.Close(1))

	close(release)
	waitLoaded(t, s)

	assert.Empty(t, s.State().Blocks)
	_, ok := sm.Get(1)
	assert.False(t, ok)
}

func TestManager_LoadFailure(t *testing.T) {
	sm := NewManager(func(ctx context.Context, id int64) (*model.WeeklyAvailabilityDocument, error) {
		return nil, errors.New("db down")
	}, 20, time.Minute, zap.NewNop())

	s := sm.Open(1)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := s.Wait(ctx)
	assert.ErrorIs(t, err, model.ErrPersistence)

	err = s.Do(time.Now(), func(e *editor.Editor) error { return nil })
	assert.ErrorIs(t, err, model.ErrPersistence)
}

func TestManager_Sweep(t *testing.T) {
	sm := NewManager(docLoader(), 20, time.Minute, zap.NewNop())
	start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	sm.now = func() time.Time { return start }

	idle := sm.Open(1)
	busy := sm.Open(2)
	waitLoaded(t, idle)
	waitLoaded(t, busy)

	require.NoError(t, busy.Do(start.Add(50*time.Second), func(e *editor.Editor) error { return nil }))

	assert.Equal(t, 1, sm.Sweep(start.Add(90*time.Second)))
	_, ok := sm.Get(1)
	assert.False(t, ok)
	_, ok = sm.Get(2)
	assert.True(t, ok)
	err := idle.Do(start, func(e *editor.Editor) error {
		_, err := e.AddDefaultBlock()
		return err
	})
	assert.ErrorIs(t, err, editor.ErrClosed)
}

func TestManager_SweepDisabled(t *testing.T) {
	sm := NewManager(docLoader(), 20, 0, zap.NewNop())
	sm.Open(1)
	assert.Equal(t, 0, sm.Sweep(time.Now().Add(24*time.Hour)))
}
