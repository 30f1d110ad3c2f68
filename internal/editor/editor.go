package editor

import (
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/consult_scheduler/internal/availability"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
)

// Ошибки редактора
var (
	ErrLoading       = errors.New("availability is still loading")
	ErrClosed        = errors.New("editor is closed")
	ErrGestureActive = errors.New("another gesture is in progress")
	ErrStaleLoad     = errors.New("load result is stale")
	ErrBlockNotFound = fmt.Errorf("%w: availability block", model.ErrNotFound)
	ErrInvalidTarget = fmt.Errorf("%w: unknown pointer target", model.ErrValidation)
)

// Snapshot состояние блоков на определённой ревизии
type Snapshot struct {
	Revision uint64
	Blocks   []model.AvailabilityBlock
}

// State то, что видит интерфейс
type State struct {
	Mode     Mode                      `json:"mode"`
	Blocks   []model.AvailabilityBlock `json:"blocks"`
	Draft    *model.AvailabilityBlock  `json:"draft,omitempty"`
	Loading  bool                      `json:"loading"`
	Dirty    bool                      `json:"dirty"`
	Revision uint64                    `json:"revision"`
}

// Editor держит состояние одной сессии редактирования недельной доступности.
// Не потокобезопасен: вызывающий сериализует доступ.
type Editor struct {
	pixelsPerHour float64

	blocks []model.AvailabilityBlock
	saved  []model.AvailabilityBlock
	nextID int

	gesture gesture

	loading   bool
	loadToken uint64
	closed    bool

	revision      uint64
	savedRevision uint64
}

// New создаёт пустой редактор, готовый к работе
func New(pixelsPerHour float64) *Editor {
	return &Editor{
		pixelsPerHour: pixelsPerHour,
		blocks:        []model.AvailabilityBlock{},
		saved:         []model.AvailabilityBlock{},
		nextID:        1,
		gesture:       idleGesture(),
	}
}

// BeginLoad переводит редактор в режим загрузки и возвращает токен загрузки.
// Пока загрузка не завершена, жесты и операции над блоками отклоняются.
func (e *Editor) BeginLoad() uint64 {
	e.loadToken++
	e.loading = true
	e.gesture = idleGesture()
	return e.loadToken
}

// FinishLoad применяет загруженный документ. nil означает что доступность не задана.
// Результат устаревшей загрузки или загрузки после Close отбрасывается с ErrStaleLoad.
func (e *Editor) FinishLoad(token uint64, doc *model.WeeklyAvailabilityDocument) error {
	if e.closed || !e.loading || token != e.loadToken {
		return ErrStaleLoad
	}

	blocks := []model.AvailabilityBlock{}
	if doc != nil {
		loaded, err := availability.Deserialize(doc.Blocks, 1)
		if err != nil {
			return fmt.Errorf("deserialize availability: %w", err)
		}
		blocks = loaded
	}

	e.blocks = blocks
	e.saved = cloneBlocks(blocks)
	e.nextID = len(blocks) + 1
	e.loading = false
	e.revision++
	e.savedRevision = e.revision
	return nil
}

// FailLoad снимает флаг загрузки после ошибки хранилища, оставляя текущие блоки
func (e *Editor) FailLoad(token uint64) {
	if token == e.loadToken {
		e.loading = false
	}
}

// Close завершает сессию; дальнейшие операции и поздние загрузки отклоняются
func (e *Editor) Close() {
	e.closed = true
	e.loading = false
	e.gesture = idleGesture()
}

func (e *Editor) ready() error {
	if e.closed {
		return ErrClosed
	}
	if e.loading {
		return ErrLoading
	}
	return nil
}

func (e *Editor) readyIdle() error {
	if err := e.ready(); err != nil {
		return err
	}
	if e.gesture.active() {
		return ErrGestureActive
	}
	return nil
}

// AddDefaultBlock добавляет блок по умолчанию (воскресенье 09:00-10:00)
func (e *Editor) AddDefaultBlock() (model.AvailabilityBlock, error) {
	if err := e.readyIdle(); err != nil {
		return model.AvailabilityBlock{}, err
	}

	b := availability.DefaultBlock(e.nextID)
	e.commit(append(cloneBlocks(e.blocks), b))
	e.nextID++
	return b, nil
}

// DeleteBlock удаляет блок по ID
func (e *Editor) DeleteBlock(id int) error {
	if err := e.readyIdle(); err != nil {
		return err
	}

	idx := e.indexOf(id)
	if idx < 0 {
		return ErrBlockNotFound
	}

	next := make([]model.AvailabilityBlock, 0, len(e.blocks)-1)
	next = append(next, e.blocks[:idx]...)
	next = append(next, e.blocks[idx+1:]...)
	e.commit(next)
	return nil
}

// ClearAll удаляет все блоки
func (e *Editor) ClearAll() error {
	if err := e.readyIdle(); err != nil {
		return err
	}
	e.commit([]model.AvailabilityBlock{})
	return nil
}

// Blocks возвращает копию текущего списка блоков
func (e *Editor) Blocks() []model.AvailabilityBlock {
	return cloneBlocks(e.blocks)
}

// Draft возвращает блок, который сейчас рисуется жестом создания
func (e *Editor) Draft() (model.AvailabilityBlock, bool) {
	if e.gesture.mode != ModeCreating {
		return model.AvailabilityBlock{}, false
	}
	return e.gesture.draft, true
}

// Mode текущий жест
func (e *Editor) Mode() Mode {
	return e.gesture.mode
}

// Loading идёт ли начальная загрузка
func (e *Editor) Loading() bool {
	return e.loading
}

// Closed закрыт ли редактор
func (e *Editor) Closed() bool {
	return e.closed
}

// Revision номер последнего изменения блоков
func (e *Editor) Revision() uint64 {
	return e.revision
}

// HasUnsavedChanges сравнивает текущие блоки с последним загруженным или сохранённым состоянием
func (e *Editor) HasUnsavedChanges() bool {
	return !availability.SameBlocks(availability.SortBlocks(e.blocks), availability.SortBlocks(e.saved))
}

// State собирает состояние для отображения
func (e *Editor) State() State {
	st := State{
		Mode:     e.gesture.mode,
		Blocks:   e.Blocks(),
		Loading:  e.loading,
		Dirty:    e.HasUnsavedChanges(),
		Revision: e.revision,
	}
	if d, ok := e.Draft(); ok {
		st.Draft = &d
	}
	return st
}

// Snapshot фиксирует блоки и ревизию для сохранения
func (e *Editor) Snapshot() (Snapshot, error) {
	if err := e.ready(); err != nil {
		return Snapshot{}, err
	}
	return Snapshot{Revision: e.revision, Blocks: e.Blocks()}, nil
}

// Document собирает документ для сохранения из снимка
func (s Snapshot) Document(consultantID int64, now time.Time) (*model.WeeklyAvailabilityDocument, error) {
	return availability.NewDocument(consultantID, s.Blocks, now)
}

// MarkSaved отмечает снимок как сохранённый; снимок старее уже отмеченного игнорируется
func (e *Editor) MarkSaved(s Snapshot) {
	if e.closed || s.Revision < e.savedRevision {
		return
	}
	e.saved = cloneBlocks(s.Blocks)
	e.savedRevision = s.Revision
}

// commit заменяет список блоков новым и увеличивает ревизию
func (e *Editor) commit(next []model.AvailabilityBlock) {
	e.blocks = next
	e.revision++
}

func (e *Editor) indexOf(id int) int {
	for i, b := range e.blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func (e *Editor) block(id int) (model.AvailabilityBlock, bool) {
	idx := e.indexOf(id)
	if idx < 0 {
		return model.AvailabilityBlock{}, false
	}
	return e.blocks[idx], true
}

// replace заменяет блок с тем же ID новой копией списка
func (e *Editor) replace(b model.AvailabilityBlock) {
	idx := e.indexOf(b.ID)
	if idx < 0 {
		return
	}
	if e.blocks[idx] == b {
		return
	}
	next := cloneBlocks(e.blocks)
	next[idx] = b
	e.commit(next)
}

func cloneBlocks(blocks []model.AvailabilityBlock) []model.AvailabilityBlock {
	out := make([]model.AvailabilityBlock, len(blocks))
	copy(out, blocks)
	return out
}
