package editor

import (
	"fmt"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Mode режим жеста
type Mode string

const (
	ModeIdle     Mode = "idle"
	ModeCreating Mode = "creating"
	ModeMoving   Mode = "moving"
	ModeResizing Mode = "resizing"
)

// Target то, над чем нажат указатель
type Target string

const (
	TargetGrid  Target = "grid"  // пустое место в колонке дня
	TargetBlock Target = "block" // тело блока
	TargetEdge  Target = "edge"  // верхняя или нижняя ручка блока
)

// Edge ручка изменения размера
type Edge string

const (
	EdgeTop    Edge = "top"
	EdgeBottom Edge = "bottom"
)

// PointerDown нажатие указателя. Offset в пикселях от верха колонки дня.
type PointerDown struct {
	Target  Target
	Day     model.WeekDay
	BlockID int
	Edge    Edge
	Offset  float64
}

type gesture struct {
	mode Mode

	// creating
	draft model.AvailabilityBlock

	// moving / resizing
	blockID    int
	grabOffset float64
	edge       Edge
	original   model.AvailabilityBlock
}

func idleGesture() gesture {
	return gesture{mode: ModeIdle}
}

func (g gesture) active() bool {
	return g.mode != ModeIdle
}

// PointerDown начинает жест: создание, перемещение или изменение размера
func (e *Editor) PointerDown(ev PointerDown) error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.gesture.active() {
		return ErrGestureActive
	}

	switch ev.Target {
	case TargetGrid:
		if _, ok := availability.DayName(ev.Day); !ok {
			return fmt.Errorf("%w: unknown weekday %d", model.ErrValidation, ev.Day)
		}
		anchor := availability.Clamp(e.timeAt(ev.Offset), availability.DayStart, availability.DayEnd-availability.MinBlockDuration)
		e.gesture = gesture{
			mode:  ModeCreating,
			draft: model.AvailabilityBlock{Day: ev.Day, Start: anchor, End: anchor + availability.MinBlockDuration},
		}

	case TargetBlock:
		b, ok := e.block(ev.BlockID)
		if !ok {
			return ErrBlockNotFound
		}
		e.gesture = gesture{mode: ModeMoving, blockID: b.ID, grabOffset: ev.Offset, original: b}

	case TargetEdge:
		if ev.Edge != EdgeTop && ev.Edge != EdgeBottom {
			return fmt.Errorf("%w: unknown edge %q", model.ErrValidation, ev.Edge)
		}
		b, ok := e.block(ev.BlockID)
		if !ok {
			return ErrBlockNotFound
		}
		e.gesture = gesture{mode: ModeResizing, blockID: b.ID, edge: ev.Edge, original: b}

	default:
		return ErrInvalidTarget
	}

	return nil
}

// PointerMove обновляет текущий жест. Без активного жеста ничего не делает.
func (e *Editor) PointerMove(offset float64) error {
	if err := e.ready(); err != nil {
		return err
	}

	g := e.gesture
	switch g.mode {
	case ModeCreating:
		t := e.timeAt(offset)
		minEnd := g.draft.Start + availability.MinBlockDuration
		end := t
		if end > availability.DayEnd {
			end = availability.DayEnd
		}
		if end < minEnd {
			end = minEnd
		}
		e.gesture.draft.End = end

	case ModeMoving:
		duration := g.original.Duration()
		delta := e.timeAt(offset) - e.timeAt(g.grabOffset)
		start := availability.Snap(g.original.Start + delta)
		start = availability.Clamp(start, availability.DayStart, availability.DayEnd-duration)

		moved := g.original
		moved.Start = start
		moved.End = start + duration
		e.replace(moved)

	case ModeResizing:
		current, ok := e.block(g.blockID)
		if !ok {
			e.gesture = idleGesture()
			return ErrBlockNotFound
		}
		t := e.timeAt(offset)

		resized := current
		if g.edge == EdgeBottom {
			resized.End = maxTime(t, current.Start+availability.MinBlockDuration)
			if resized.End > availability.DayEnd {
				resized.End = availability.DayEnd
			}
		} else {
			resized.Start = minTime(t, current.End-availability.MinBlockDuration)
			if resized.Start < availability.DayStart {
				resized.Start = availability.DayStart
			}
		}
		e.replace(resized)
	}

	return nil
}

// PointerUp завершает жест. Созданный блок фиксируется только если он корректен.
func (e *Editor) PointerUp() error {
	if err := e.ready(); err != nil {
		return err
	}

	g := e.gesture
	e.gesture = idleGesture()

	if g.mode == ModeCreating && availability.ValidateBlock(g.draft) {
		b := g.draft
		b.ID = e.nextID
		e.nextID++
		e.commit(append(cloneBlocks(e.blocks), b))
	}
	return nil
}

// PointerLeave указатель покинул сетку: жест завершается так же, как при отпускании
func (e *Editor) PointerLeave() error {
	return e.PointerUp()
}

func (e *Editor) timeAt(offset float64) model.TimeOfDay {
	return availability.TimeFromPointerOffset(offset, e.pixelsPerHour)
}

func minTime(a, b model.TimeOfDay) model.TimeOfDay {
	if a < b {
		return a
	}
	return b
}

func maxTime(a, b model.TimeOfDay) model.TimeOfDay {
	if a > b {
		return a
	}
	return b
}
