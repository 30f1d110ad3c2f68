package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consult_scheduler/internal/controller/state"
	"github.com/Freeeeeet/consult_scheduler/internal/editor"
	"github.com/Freeeeeet/consult_scheduler/internal/model"
	"github.com/Freeeeeet/consult_scheduler/internal/render"
	"github.com/Freeeeeet/consult_scheduler/internal/service"
)

// pointerRequest событие указателя от интерфейса редактора
type pointerRequest struct {
	Type    string        `json:"type" binding:"required,oneof=down move up leave"`
	Target  editor.Target `json:"target"`
	Day     model.WeekDay `json:"day"`
	BlockID int           `json:"blockId"`
	Edge    editor.Edge   `json:"edge"`
	Offset  float64       `json:"offset"`
}

type editorResponse struct {
	Session string `json:"session"`
	editor.State
}

// Loader для сессий редактора: отсутствие доступности это пустой редактор
func SessionLoader(svc *service.AvailabilityService) state.Loader {
	return func(ctx context.Context, consultantID int64) (*model.WeeklyAvailabilityDocument, error) {
		doc, err := svc.Load(ctx, consultantID)
		if service.IsNotSet(err) {
			return nil, nil
		}
		return doc, err
	}
}

func (h *Handler) session(c *gin.Context) (*state.Session, bool) {
	s, ok := h.sessions.Get(principal(c).UserID)
	if !ok {
		h.respondError(c, errNoSession)
		return nil, false
	}
	return s, true
}

// withEditor выполняет операцию над редактором и отвечает его состоянием
func (h *Handler) withEditor(c *gin.Context, status int, fn func(e *editor.Editor) error) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var st editor.State
	err := s.Do(h.now(), func(e *editor.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		st = e.State()
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(status, editorResponse{Session: s.ID, State: st})
}

// POST /api/editor
func (h *Handler) openEditor(c *gin.Context) {
	s := h.sessions.Open(principal(c).UserID)
	c.JSON(http.StatusAccepted, editorResponse{Session: s.ID, State: s.State()})
}

// GET /api/editor
func (h *Handler) editorState(c *gin.Context) {
	h.withEditor(c, http.StatusOK, func(*editor.Editor) error { return nil })
}

// DELETE /api/editor
func (h *Handler) closeEditor(c *gin.Context) {
	if !h.sessions.Close(principal(c).UserID) {
		h.respondError(c, errNoSession)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/editor/pointer
func (h *Handler) pointer(c *gin.Context) {
	var req pointerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	h.withEditor(c, http.StatusOK, func(e *editor.Editor) error {
		switch req.Type {
		case "down":
			return e.PointerDown(editor.PointerDown{
				Target:  req.Target,
				Day:     req.Day,
				BlockID: req.BlockID,
				Edge:    req.Edge,
				Offset:  req.Offset,
			})
		case "move":
			return e.PointerMove(req.Offset)
		case "up":
			return e.PointerUp()
		default:
			return e.PointerLeave()
		}
	})
}

// POST /api/editor/blocks
func (h *Handler) addBlock(c *gin.Context) {
	h.withEditor(c, http.StatusCreated, func(e *editor.Editor) error {
		_, err := e.AddDefaultBlock()
		return err
	})
}

// DELETE /api/editor/blocks/:blockId
func (h *Handler) deleteBlock(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("blockId"))
	if err != nil {
		badRequest(c, "invalid block id")
		return
	}
	h.withEditor(c, http.StatusOK, func(e *editor.Editor) error {
		return e.DeleteBlock(id)
	})
}

// DELETE /api/editor/blocks
func (h *Handler) clearBlocks(c *gin.Context) {
	h.withEditor(c, http.StatusOK, func(e *editor.Editor) error {
		return e.ClearAll()
	})
}

// POST /api/editor/save
func (h *Handler) saveEditor(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var snap editor.Snapshot
	err := s.Do(h.now(), func(e *editor.Editor) error {
		var err error
		snap, err = e.Snapshot()
		return err
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	// запись идёт без блокировки сессии
	p := principal(c)
	doc, err := h.availability.Save(c.Request.Context(), p, snap.Blocks, service.SaveVersion{
		Session:  s.ID,
		Revision: snap.Revision,
		Live:     func() bool { return !s.Closed() },
	})
	superseded := errors.Is(err, service.ErrStaleSave)
	if err != nil && !superseded {
		h.respondError(c, err)
		return
	}

	var st editor.State
	_ = s.Do(h.now(), func(e *editor.Editor) error {
		if !superseded {
			e.MarkSaved(snap)
		}
		st = e.State()
		return nil
	})

	if superseded {
		h.logger.Debug("Editor save superseded by a newer one",
			zap.Int64("consultant_id", p.UserID),
			zap.Uint64("revision", snap.Revision),
		)
	}

	c.JSON(http.StatusOK, gin.H{
		"session":    s.ID,
		"state":      st,
		"document":   doc,
		"superseded": superseded,
	})
}

// GET /api/editor/image
func (h *Handler) editorImage(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}

	var (
		blocks []model.AvailabilityBlock
		draft  *model.AvailabilityBlock
	)
	err := s.Do(h.now(), func(e *editor.Editor) error {
		if e.Closed() {
			return editor.ErrClosed
		}
		blocks = e.Blocks()
		if d, ok := e.Draft(); ok {
			draft = &d
		}
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	png, err := render.AvailabilityImage(blocks, draft, render.Options{FullDay: true})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
