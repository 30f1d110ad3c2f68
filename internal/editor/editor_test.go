package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

const pph = 20.0

func offsetOf(t model.TimeOfDay) float64 {
	return float64(t) * pph
}

func loaded(t *testing.T, blocks ...model.PersistedBlock) *Editor {
	t.Helper()
	e := New(pph)
	token := e.BeginLoad()
	require.NoError(t, e.FinishLoad(token, &model.WeeklyAvailabilityDocument{Blocks: blocks}))
	return e
}

func TestCreateGesture_CommitsBlock(t *testing.T) {
	e := New(pph)

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetGrid, Day: model.Tuesday, Offset: offsetOf(9)}))
	assert.Equal(t, ModeCreating, e.Mode())

	draft, ok := e.Draft()
	require.True(t, ok)
	assert.Equal(t, model.TimeOfDay(9), draft.Start)
	assert.Equal(t, model.TimeOfDay(9.5), draft.End)

	require.NoError(t, e.PointerMove(offsetOf(11.6)))
	draft, _ = e.Draft()
	assert.Equal(t, model.TimeOfDay(11.5), draft.End)

	require.NoError(t, e.PointerUp())
	assert.Equal(t, ModeIdle, e.Mode())
	assert.Equal(t, []model.AvailabilityBlock{{ID: 1, Day: model.Tuesday, Start: 9, End: 11.5}}, e.Blocks())
	assert.True(t, e.HasUnsavedChanges())
}

func TestCreateGesture_NeverZeroLength(t *testing.T) {
	for _, downAt := range []model.TimeOfDay{0, 9, 23.5, 24} {
		for _, moveTo := range []model.TimeOfDay{-3, 0, downAt, downAt - 2, 24, 30} {
			e := New(pph)
			require.NoError(t, e.PointerDown(PointerDown{Target: TargetGrid, Day: model.Monday, Offset: offsetOf(downAt)}))
			require.NoError(t, e.PointerMove(offsetOf(moveTo)))
			require.NoError(t, e.PointerUp())

			blocks := e.Blocks()
			require.Len(t, blocks, 1)
			assert.Greater(t, blocks[0].End, blocks[0].Start, "down=%v move=%v", downAt, moveTo)
			assert.LessOrEqual(t, blocks[0].End, model.TimeOfDay(24))
			assert.GreaterOrEqual(t, blocks[0].End-blocks[0].Start, availability.MinBlockDuration)
		}
	}
}

func TestCreateGesture_WithoutMoveCommitsHalfHour(t *testing.T) {
	e := New(pph)
	require.NoError(t, e.PointerDown(PointerDown{Target: TargetGrid, Day: model.Friday, Offset: offsetOf(14)}))
	require.NoError(t, e.PointerLeave())

	assert.Equal(t, []model.AvailabilityBlock{{ID: 1, Day: model.Friday, Start: 14, End: 14.5}}, e.Blocks())
}

func TestMoveGesture_PreservesDuration(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})

	grab := offsetOf(9.4)
	require.NoError(t, e.PointerDown(PointerDown{Target: TargetBlock, BlockID: 1, Offset: grab}))
	assert.Equal(t, ModeMoving, e.Mode())

	require.NoError(t, e.PointerMove(grab+pph))
	require.NoError(t, e.PointerUp())

	assert.Equal(t, []model.AvailabilityBlock{{ID: 1, Day: model.Monday, Start: 10, End: 11}}, e.Blocks())
}

func TestMoveGesture_JitterWithinSnapCellKeepsBlock(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetBlock, BlockID: 1, Offset: offsetOf(9.3)}))
	require.NoError(t, e.PointerMove(offsetOf(9.7)))
	assert.Equal(t, model.AvailabilityBlock{ID: 1, Day: model.Monday, Start: 9, End: 10}, e.Blocks()[0])

	require.NoError(t, e.PointerMove(offsetOf(9.8)))
	assert.Equal(t, model.AvailabilityBlock{ID: 1, Day: model.Monday, Start: 9.5, End: 10.5}, e.Blocks()[0])
	require.NoError(t, e.PointerUp())
}

func TestMoveGesture_ClampedToDay(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 12})

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetBlock, BlockID: 1, Offset: offsetOf(10)}))
	require.NoError(t, e.PointerMove(offsetOf(40)))
	assert.Equal(t, model.AvailabilityBlock{ID: 1, Day: model.Monday, Start: 21, End: 24}, e.Blocks()[0])

	require.NoError(t, e.PointerMove(offsetOf(-15)))
	assert.Equal(t, model.AvailabilityBlock{ID: 1, Day: model.Monday, Start: 0, End: 3}, e.Blocks()[0])
	require.NoError(t, e.PointerUp())
}

func TestResizeGesture_BottomEnforcesMinimum(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetEdge, BlockID: 1, Edge: EdgeBottom, Offset: offsetOf(10)}))
	require.NoError(t, e.PointerMove(offsetOf(9.2)))
	assert.Equal(t, model.TimeOfDay(9.5), e.Blocks()[0].End)

	require.NoError(t, e.PointerMove(offsetOf(5)))
	assert.Equal(t, model.TimeOfDay(9.5), e.Blocks()[0].End)

	require.NoError(t, e.PointerMove(offsetOf(30)))
	assert.Equal(t, model.TimeOfDay(24), e.Blocks()[0].End)
	assert.Equal(t, model.TimeOfDay(9), e.Blocks()[0].Start)
	require.NoError(t, e.PointerUp())
}

func TestResizeGesture_TopCannotCrossBottom(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Wed", Start: 9, End: 10})

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetEdge, BlockID: 1, Edge: EdgeTop, Offset: offsetOf(9)}))
	require.NoError(t, e.PointerMove(offsetOf(12)))
	assert.Equal(t, model.TimeOfDay(9.5), e.Blocks()[0].Start)

	require.NoError(t, e.PointerMove(offsetOf(7.5)))
	assert.Equal(t, model.TimeOfDay(7.5), e.Blocks()[0].Start)
	assert.Equal(t, model.TimeOfDay(10), e.Blocks()[0].End)
	require.NoError(t, e.PointerLeave())
	assert.Equal(t, ModeIdle, e.Mode())
}

func TestPointerDown_Errors(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})

	err := e.PointerDown(PointerDown{Target: TargetBlock, BlockID: 99})
	assert.True(t, errors.Is(err, ErrBlockNotFound))

	err = e.PointerDown(PointerDown{Target: TargetEdge, BlockID: 1, Edge: "left"})
	assert.True(t, errors.Is(err, model.ErrValidation))

	err = e.PointerDown(PointerDown{Target: "nowhere"})
	assert.True(t, errors.Is(err, ErrInvalidTarget))

	err = e.PointerDown(PointerDown{Target: TargetGrid, Day: 9})
	assert.True(t, errors.Is(err, model.ErrValidation))

	require.NoError(t, e.PointerDown(PointerDown{Target: TargetBlock, BlockID: 1}))
	assert.True(t, errors.Is(e.PointerDown(PointerDown{Target: TargetGrid}), ErrGestureActive))
	assert.True(t, errors.Is(e.DeleteBlock(1), ErrGestureActive))
}

func TestPointerMoveAndUp_IdleIsNoop(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})
	rev := e.Revision()

	require.NoError(t, e.PointerMove(100))
	require.NoError(t, e.PointerUp())
	assert.Equal(t, rev, e.Revision())
}

func TestLoad_ReassignsIDsEveryTime(t *testing.T) {
	doc := &model.WeeklyAvailabilityDocument{Blocks: []model.PersistedBlock{
		{Day: "Mon", Start: 9, End: 10},
		{Day: "Thu", Start: 13, End: 15},
	}}

	e := New(pph)
	token := e.BeginLoad()
	require.NoError(t, e.FinishLoad(token, doc))
	_, err := e.AddDefaultBlock()
	require.NoError(t, err)
	require.NoError(t, e.DeleteBlock(1))

	token = e.BeginLoad()
	require.NoError(t, e.FinishLoad(token, doc))

	blocks := e.Blocks()
	assert.Equal(t, 1, blocks[0].ID)
	assert.Equal(t, 2, blocks[1].ID)

	b, err := e.AddDefaultBlock()
	require.NoError(t, err)
	assert.Equal(t, 3, b.ID)
}

func TestLoadingGuard(t *testing.T) {
	e := New(pph)
	token := e.BeginLoad()

	assert.True(t, errors.Is(e.PointerDown(PointerDown{Target: TargetGrid}), ErrLoading))
	assert.True(t, errors.Is(e.PointerMove(10), ErrLoading))
	assert.True(t, errors.Is(e.ClearAll(), ErrLoading))
	_, err := e.AddDefaultBlock()
	assert.True(t, errors.Is(err, ErrLoading))
	_, err = e.Snapshot()
	assert.True(t, errors.Is(err, ErrLoading))

	require.NoError(t, e.FinishLoad(token, nil))
	assert.False(t, e.Loading())
	assert.Empty(t, e.Blocks())
	assert.False(t, e.HasUnsavedChanges())
}

func TestFinishLoad_StaleTokenDiscarded(t *testing.T) {
	e := New(pph)
	first := e.BeginLoad()
	second := e.BeginLoad()

	err := e.FinishLoad(first, &model.WeeklyAvailabilityDocument{Blocks: []model.PersistedBlock{{Day: "Mon", Start: 1, End: 2}}})
	assert.True(t, errors.Is(err, ErrStaleLoad))
	assert.True(t, e.Loading())

	require.NoError(t, e.FinishLoad(second, nil))
	assert.Empty(t, e.Blocks())
}

func TestClose_DiscardsLateLoad(t *testing.T) {
	e := New(pph)
	token := e.BeginLoad()
	e.Close()

	err := e.FinishLoad(token, &model.WeeklyAvailabilityDocument{Blocks: []model.PersistedBlock{{Day: "Mon", Start: 1, End: 2}}})
	assert.True(t, errors.Is(err, ErrStaleLoad))
	assert.Empty(t, e.Blocks())
	assert.True(t, errors.Is(e.PointerDown(PointerDown{Target: TargetGrid}), ErrClosed))
}

func TestFailLoad_UnlocksEditor(t *testing.T) {
	e := New(pph)
	token := e.BeginLoad()
	e.FailLoad(token)

	_, err := e.AddDefaultBlock()
	assert.NoError(t, err)
}

func TestBlockOperations(t *testing.T) {
	e := loaded(t,
		model.PersistedBlock{Day: "Mon", Start: 9, End: 10},
		model.PersistedBlock{Day: "Tue", Start: 9, End: 10},
	)
	assert.False(t, e.HasUnsavedChanges())

	b, err := e.AddDefaultBlock()
	require.NoError(t, err)
	assert.Equal(t, model.AvailabilityBlock{ID: 3, Day: model.Sunday, Start: 9, End: 10}, b)

	require.NoError(t, e.DeleteBlock(1))
	assert.True(t, errors.Is(e.DeleteBlock(1), ErrBlockNotFound))
	assert.Len(t, e.Blocks(), 2)

	require.NoError(t, e.ClearAll())
	assert.Empty(t, e.Blocks())
	assert.True(t, e.HasUnsavedChanges())
}

func TestBlocks_ReturnsCopy(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})
	blocks := e.Blocks()
	blocks[0].Start = 0

	assert.Equal(t, model.TimeOfDay(9), e.Blocks()[0].Start)
}

func TestSnapshotAndMarkSaved(t *testing.T) {
	e := loaded(t)
	_, err := e.AddDefaultBlock()
	require.NoError(t, err)

	older, err := e.Snapshot()
	require.NoError(t, err)

	_, err = e.AddDefaultBlock()
	require.NoError(t, err)
	newer, err := e.Snapshot()
	require.NoError(t, err)
	assert.Greater(t, newer.Revision, older.Revision)

	e.MarkSaved(newer)
	assert.False(t, e.HasUnsavedChanges())

	e.MarkSaved(older)
	assert.False(t, e.HasUnsavedChanges())

	doc, err := newer.Document(7, time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(7), doc.ConsultantID)
	assert.Len(t, doc.Blocks, 2)
	assert.Equal(t, "Sun", doc.Blocks[0].Day)
}

func TestState(t *testing.T) {
	e := loaded(t, model.PersistedBlock{Day: "Mon", Start: 9, End: 10})
	require.NoError(t, e.PointerDown(PointerDown{Target: TargetGrid, Day: model.Sunday, Offset: offsetOf(3)}))

	st := e.State()
	assert.Equal(t, ModeCreating, st.Mode)
	require.NotNil(t, st.Draft)
	assert.Equal(t, model.TimeOfDay(3), st.Draft.Start)
	assert.Len(t, st.Blocks, 1)
	assert.False(t, st.Dirty)
}
