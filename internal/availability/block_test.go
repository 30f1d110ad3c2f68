package availability

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func TestValidateBlock(t *testing.T) {
	tests := []struct {
		name  string
		block model.AvailabilityBlock
		want  bool
	}{
		{"regular", model.AvailabilityBlock{Day: model.Monday, Start: 9, End: 10}, true},
		{"full day", model.AvailabilityBlock{Day: model.Monday, Start: 0, End: 24}, true},
		{"zero length", model.AvailabilityBlock{Day: model.Monday, Start: 9, End: 9}, false},
		{"negative length", model.AvailabilityBlock{Day: model.Monday, Start: 10, End: 9}, false},
		{"before midnight", model.AvailabilityBlock{Day: model.Monday, Start: -0.5, End: 1}, false},
		{"past end of day", model.AvailabilityBlock{Day: model.Monday, Start: 23, End: 24.5}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateBlock(tt.block))
		})
	}
}

func TestCheckBlock(t *testing.T) {
	assert.NoError(t, CheckBlock(model.AvailabilityBlock{Day: model.Saturday, Start: 9.5, End: 10}))

	err := CheckBlock(model.AvailabilityBlock{Day: 7, Start: 9, End: 10})
	assert.True(t, errors.Is(err, model.ErrValidation))

	err = CheckBlock(model.AvailabilityBlock{Day: model.Monday, Start: 9.25, End: 10})
	assert.True(t, errors.Is(err, model.ErrValidation))

	err = CheckBlocks([]model.AvailabilityBlock{
		{Day: model.Monday, Start: 9, End: 10},
		{Day: model.Monday, Start: 11, End: 11},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "block 1")
}

func TestDefaultBlock(t *testing.T) {
	b := DefaultBlock(3)
	assert.Equal(t, model.AvailabilityBlock{ID: 3, Day: model.Sunday, Start: 9, End: 10}, b)
	assert.True(t, ValidateBlock(b))
}

func TestSortBlocks_DoesNotMutateInput(t *testing.T) {
	in := []model.AvailabilityBlock{
		{ID: 1, Day: model.Friday, Start: 9, End: 10},
		{ID: 2, Day: model.Monday, Start: 14, End: 15},
		{ID: 3, Day: model.Monday, Start: 9, End: 10},
	}

	sorted := SortBlocks(in)
	assert.Equal(t, []int{3, 2, 1}, []int{sorted[0].ID, sorted[1].ID, sorted[2].ID})
	assert.Equal(t, 1, in[0].ID)
}

func TestSerializeRoundTrip_PreservesDayStartEnd(t *testing.T) {
	blocks := []model.AvailabilityBlock{
		{ID: 42, Day: model.Sunday, Start: 0, End: 0.5},
		{ID: 7, Day: model.Monday, Start: 9, End: 12},
		{ID: 7, Day: model.Wednesday, Start: 13.5, End: 17},
		{ID: 100, Day: model.Saturday, Start: 22, End: 24},
	}

	persisted, err := Serialize(blocks)
	require.NoError(t, err)
	assert.Equal(t, "Sun", persisted[0].Day)
	assert.Equal(t, "Sat", persisted[3].Day)

	restored, err := Deserialize(persisted, 1)
	require.NoError(t, err)
	assert.True(t, SameBlocks(blocks, restored))
}

func TestDeserialize_ReassignsSequentialIDs(t *testing.T) {
	persisted := []model.PersistedBlock{
		{Day: "Mon", Start: 9, End: 10},
		{Day: "Tue", Start: 9, End: 10},
		{Day: "Mon", Start: 14, End: 16},
	}

	first, err := Deserialize(persisted, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, []int{first[0].ID, first[1].ID, first[2].ID})

	second, err := Deserialize(persisted, 10)
	require.NoError(t, err)
	assert.Equal(t, []int{10, 11, 12}, []int{second[0].ID, second[1].ID, second[2].ID})
	assert.True(t, SameBlocks(first, second))
}

func TestDeserialize_UnknownDay(t *testing.T) {
	_, err := Deserialize([]model.PersistedBlock{{Day: "Funday", Start: 9, End: 10}}, 1)
	assert.True(t, errors.Is(err, model.ErrValidation))
}

func TestNewDocument(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.FixedZone("MSK", 3*3600))
	doc, err := NewDocument(5, []model.AvailabilityBlock{{Day: model.Monday, Start: 9, End: 12}}, now)
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc.ConsultantID)
	assert.Equal(t, []model.PersistedBlock{{Day: "Mon", Start: 9, End: 12}}, doc.Blocks)
	assert.Equal(t, time.UTC, doc.UpdatedAt.Location())

	_, err = NewDocument(5, []model.AvailabilityBlock{{Day: model.Monday, Start: 12, End: 9}}, now)
	assert.True(t, errors.Is(err, model.ErrValidation))
}
