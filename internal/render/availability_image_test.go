package render

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

func TestAvailabilityImage_EncodesPNG(t *testing.T) {
	blocks := []model.AvailabilityBlock{
		{ID: 1, Day: model.Monday, Start: 9, End: 12},
		{ID: 2, Day: model.Friday, Start: 13.5, End: 17},
	}
	draft := &model.AvailabilityBlock{Day: model.Wednesday, Start: 10, End: 10.5}

	data, err := AvailabilityImage(blocks, draft, Options{Title: "Test"})
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, imageWidth, img.Bounds().Dx())
	assert.Equal(t, imageHeight, img.Bounds().Dy())
}

func TestAvailabilityImage_Empty(t *testing.T) {
	data, err := AvailabilityImage(nil, nil, Options{})
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(data))
	assert.NoError(t, err)
}

func TestCalculateHourRange(t *testing.T) {
	tests := []struct {
		name    string
		blocks  []model.AvailabilityBlock
		fullDay bool
		want    hourRange
	}{
		{"empty shows full day", nil, false, hourRange{0, 24, 24}},
		{"full day forced", []model.AvailabilityBlock{{Start: 9, End: 10}}, true, hourRange{0, 24, 24}},
		{"padded around blocks", []model.AvailabilityBlock{{Start: 9, End: 10.5}, {Start: 14, End: 17}}, false, hourRange{8, 18, 10}},
		{"clamped at edges", []model.AvailabilityBlock{{Start: 0, End: 24}}, false, hourRange{0, 24, 24}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, calculateHourRange(tt.blocks, tt.fullDay))
		})
	}
}
