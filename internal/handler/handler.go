package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"netdiagram/internal/adapter"
	"netdiagram/internal/domain"
	"netdiagram/internal/repository"
	"netdiagram/internal/service"
)

// EditorHandler serves the editing session over HTTP. Every handler enters
// the session through Loop.Do so requests never race the frame loop.
type EditorHandler struct {
	loop       *service.Loop
	store      repository.SnapshotStore
	discoverer adapter.Discoverer
	logger     *log.Logger

	// background bounds discovery runs that outlive their request
	background context.Context
}

// NewEditorHandler creates a handler for the session owned by loop
func NewEditorHandler(loop *service.Loop, logger *log.Logger) *EditorHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &EditorHandler{
		loop:       loop,
		logger:     logger.WithPrefix("http"),
		background: context.Background(),
	}
}

// SetSnapshotStore enables the /api/snapshots routes
func (h *EditorHandler) SetSnapshotStore(s repository.SnapshotStore) {
	h.store = s
}

// SetDiscoverer enables POST /api/discover
func (h *EditorHandler) SetDiscoverer(d adapter.Discoverer) {
	h.discoverer = d
}

// SetBackground sets the context background discovery runs derive from
func (h *EditorHandler) SetBackground(ctx context.Context) {
	h.background = ctx
}

// Routes builds the router. events serves GET /events and may be nil.
func (h *EditorHandler) Routes(events http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(Recover(h.logger), CORS, Logger(h.logger))

	r.Route("/api", func(r chi.Router) {
		r.Get("/graph", h.GetGraph)
		r.Delete("/graph", h.ClearGraph)

		r.Post("/devices", h.CreateDevice)
		r.Delete("/devices/{id}", h.DeleteDevice)
		r.Put("/devices/{id}/label", h.SetDeviceLabel)
		r.Post("/devices/{id}/link-from", h.StartLinkFrom)

		r.Post("/links", h.CreateLink)
		r.Delete("/links/{id}", h.DeleteLink)
		r.Put("/links/{id}/label", h.SetLinkLabel)

		r.Get("/selection", h.GetSelection)
		r.Post("/selection", h.StartLink)
		r.Post("/selection/devices/{id}", h.SelectDevice)
		r.Delete("/selection", h.CancelSelection)

		r.Get("/menus/{target}", h.GetMenu)
		r.Post("/menus/{target}", h.InvokeMenu)

		r.Put("/rename", h.CommitRename)
		r.Delete("/rename", h.CancelRename)

		r.Put("/viewport", h.Resize)
		r.Put("/physics", h.SetPhysics)

		r.Post("/import", h.Import)
		r.Get("/export/{format}", h.Export)
		r.Post("/discover", h.Discover)

		r.Get("/snapshots", h.ListSnapshots)
		r.Put("/snapshots/{name}", h.SaveSnapshot)
		r.Post("/snapshots/{name}/restore", h.RestoreSnapshot)
		r.Delete("/snapshots/{name}", h.DeleteSnapshot)
	})

	if events != nil {
		r.Method(http.MethodGet, "/events", events)
	}
	return r
}

// do runs fn on the loop and writes the mapped error response if it fails
func (h *EditorHandler) do(w http.ResponseWriter, r *http.Request, action string, fn func(*service.Session) error) bool {
	if err := h.loop.Do(r.Context(), fn); err != nil {
		h.fail(w, action, err)
		return false
	}
	return true
}

func (h *EditorHandler) fail(w http.ResponseWriter, action string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", "action", action, "err", err)
	}
	writeError(w, "Failed to "+action, err.Error(), status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uint64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		writeError(w, "Invalid ID", fmt.Sprintf("%q is not a numeric id", raw), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// GetGraph returns the session view
func (h *EditorHandler) GetGraph(w http.ResponseWriter, r *http.Request) {
	var view service.GraphView
	if !h.do(w, r, "get graph", func(s *service.Session) error {
		view = s.View()
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// ClearGraph removes every device and link
func (h *EditorHandler) ClearGraph(w http.ResponseWriter, r *http.Request) {
	if !h.do(w, r, "clear graph", func(s *service.Session) error {
		s.Clear()
		return nil
	}) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateDeviceRequest is the body of POST /api/devices
type CreateDeviceRequest struct {
	Kind string  `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// CreateDevice adds a host or router
func (h *EditorHandler) CreateDevice(w http.ResponseWriter, r *http.Request) {
	var req CreateDeviceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	kind, err := domain.ParseDeviceKind(req.Kind)
	if err != nil {
		h.fail(w, "create device", err)
		return
	}

	var view service.DeviceView
	if !h.do(w, r, "create device", func(s *service.Session) error {
		var d *domain.Device
		if kind == domain.KindRouter {
			d = s.AddRouter(req.X, req.Y)
		} else {
			d = s.AddHost(req.X, req.Y)
		}
		view, _ = s.DescribeDevice(d.ID)
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusCreated)
}

// DeleteDevice removes a device and its links
func (h *EditorHandler) DeleteDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.do(w, r, "delete device", func(s *service.Session) error {
		return s.RemoveDevice(domain.DeviceID(id))
	}) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LabelRequest is the body of the label routes
type LabelRequest struct {
	Label string `json:"label"`
}

// SetDeviceLabel renames a device
func (h *EditorHandler) SetDeviceLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req LabelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var view service.DeviceView
	if !h.do(w, r, "set device label", func(s *service.Session) error {
		if err := s.SetDeviceLabel(domain.DeviceID(id), req.Label); err != nil {
			return err
		}
		view, _ = s.DescribeDevice(domain.DeviceID(id))
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// CreateLinkRequest is the body of POST /api/links
type CreateLinkRequest struct {
	A domain.DeviceID `json:"a"`
	B domain.DeviceID `json:"b"`
}

// CreateLink connects two devices
func (h *EditorHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	var req CreateLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var view service.LinkView
	if !h.do(w, r, "create link", func(s *service.Session) error {
		l, err := s.AddLink(req.A, req.B)
		if err != nil {
			return err
		}
		view, _ = s.DescribeLink(l.ID)
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusCreated)
}

// DeleteLink removes a link
func (h *EditorHandler) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if !h.do(w, r, "delete link", func(s *service.Session) error {
		return s.RemoveLink(domain.LinkID(id))
	}) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SetLinkLabel renames a link
func (h *EditorHandler) SetLinkLabel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req LabelRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var view service.LinkView
	if !h.do(w, r, "set link label", func(s *service.Session) error {
		if err := s.SetLinkLabel(domain.LinkID(id), req.Label); err != nil {
			return err
		}
		view, _ = s.DescribeLink(domain.LinkID(id))
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}
