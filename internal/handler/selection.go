package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"netdiagram/internal/domain"
	"netdiagram/internal/layout"
	"netdiagram/internal/selection"
	"netdiagram/internal/service"
)

// SelectionResponse reports the gesture state after a selection request
type SelectionResponse struct {
	Selection selection.State   `json:"selection"`
	Link      *service.LinkView `json:"link,omitempty"`
}

// GetSelection returns the gesture state
func (h *EditorHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	var resp SelectionResponse
	if !h.do(w, r, "get selection", func(s *service.Session) error {
		resp.Selection = s.Selection()
		return nil
	}) {
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// StartLink begins a link gesture with no device chosen
func (h *EditorHandler) StartLink(w http.ResponseWriter, r *http.Request) {
	var resp SelectionResponse
	if !h.do(w, r, "start link", func(s *service.Session) error {
		s.StartLink()
		resp.Selection = s.Selection()
		return nil
	}) {
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// StartLinkFrom begins a link gesture from the device in the path
func (h *EditorHandler) StartLinkFrom(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var resp SelectionResponse
	if !h.do(w, r, "start link", func(s *service.Session) error {
		if err := s.StartLinkFrom(domain.DeviceID(id)); err != nil {
			return err
		}
		resp.Selection = s.Selection()
		return nil
	}) {
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// SelectDevice feeds a device click into the gesture. The created link is
// included when the click completes it.
func (h *EditorHandler) SelectDevice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var resp SelectionResponse
	if !h.do(w, r, "select device", func(s *service.Session) error {
		l, err := s.SelectDevice(domain.DeviceID(id))
		if err != nil {
			return err
		}
		if l != nil {
			view, _ := s.DescribeLink(l.ID)
			resp.Link = &view
		}
		resp.Selection = s.Selection()
		return nil
	}) {
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// CancelSelection abandons the gesture
func (h *EditorHandler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	if !h.do(w, r, "cancel selection", func(s *service.Session) error {
		s.CancelSelection()
		return nil
	}) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// MenuResponse describes a context menu
type MenuResponse struct {
	Target  string   `json:"target"`
	Options []string `json:"options"`
}

func pathTarget(w http.ResponseWriter, r *http.Request) (service.Target, bool) {
	t, err := service.ParseTarget(chi.URLParam(r, "target"))
	if err != nil {
		writeError(w, "Invalid target", err.Error(), http.StatusBadRequest)
		return service.Target{}, false
	}
	return t, true
}

// GetMenu lists the options of a context menu
func (h *EditorHandler) GetMenu(w http.ResponseWriter, r *http.Request) {
	t, ok := pathTarget(w, r)
	if !ok {
		return
	}
	resp := MenuResponse{Target: t.String()}
	if !h.do(w, r, "get menu", func(s *service.Session) error {
		m, err := s.Menu(t)
		if err != nil {
			return err
		}
		resp.Options = m.Options()
		return nil
	}) {
		return
	}
	writeJSON(w, resp, http.StatusOK)
}

// InvokeMenuRequest is the body of POST /api/menus/{target}
type InvokeMenuRequest struct {
	Option string  `json:"option"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// InvokeMenu runs a menu option at a canvas position and returns the
// resulting graph
func (h *EditorHandler) InvokeMenu(w http.ResponseWriter, r *http.Request) {
	t, ok := pathTarget(w, r)
	if !ok {
		return
	}
	var req InvokeMenuRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var view service.GraphView
	if !h.do(w, r, "invoke menu", func(s *service.Session) error {
		if err := s.InvokeMenu(t, req.Option, req.X, req.Y); err != nil {
			return err
		}
		view = s.View()
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// RenameRequest is the body of PUT /api/rename
type RenameRequest struct {
	Text string `json:"text"`
}

// CommitRename applies text to the element a menu Rename started on
func (h *EditorHandler) CommitRename(w http.ResponseWriter, r *http.Request) {
	var req RenameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	var view service.GraphView
	if !h.do(w, r, "rename", func(s *service.Session) error {
		s.Editor().SetText(req.Text)
		if err := s.CommitRename(); err != nil {
			return err
		}
		view = s.View()
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// CancelRename closes the label editor
func (h *EditorHandler) CancelRename(w http.ResponseWriter, r *http.Request) {
	if !h.do(w, r, "cancel rename", func(s *service.Session) error {
		s.CancelRename()
		return nil
	}) {
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Resize changes the viewport the layout centers in
func (h *EditorHandler) Resize(w http.ResponseWriter, r *http.Request) {
	var req layout.Viewport
	if !decodeBody(w, r, &req) {
		return
	}
	if !h.do(w, r, "resize", func(s *service.Session) error {
		return s.Resize(req.Width, req.Height)
	}) {
		return
	}
	writeJSON(w, req, http.StatusOK)
}

// PhysicsRequest updates layout constants; absent fields keep their values
type PhysicsRequest struct {
	Repulsion   *float64 `json:"repulsion"`
	Spring      *float64 `json:"spring"`
	RestLength  *float64 `json:"rest_length"`
	Damping     *float64 `json:"damping"`
	MinDistance *float64 `json:"min_distance"`
}

func (req PhysicsRequest) fields() map[string]*float64 {
	return map[string]*float64{
		"repulsion":    req.Repulsion,
		"spring":       req.Spring,
		"rest_length":  req.RestLength,
		"damping":      req.Damping,
		"min_distance": req.MinDistance,
	}
}

// merge applies the fields present in req to p
func (req PhysicsRequest) merge(p layout.Params) layout.Params {
	set := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}
	set(&p.Repulsion, req.Repulsion)
	set(&p.Spring, req.Spring)
	set(&p.RestLength, req.RestLength)
	set(&p.Damping, req.Damping)
	set(&p.MinDistance, req.MinDistance)
	return p
}

// SetPhysics merges the given layout constants into the current ones
func (h *EditorHandler) SetPhysics(w http.ResponseWriter, r *http.Request) {
	var req PhysicsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	for name, v := range req.fields() {
		if v != nil && *v < 0 {
			writeError(w, "Invalid physics", fmt.Sprintf("%s must not be negative", name), http.StatusBadRequest)
			return
		}
	}

	var p layout.Params
	if !h.do(w, r, "set physics", func(s *service.Session) error {
		s.SetParams(req.merge(s.Engine().Params()))
		p = s.Engine().Params()
		return nil
	}) {
		return
	}
	writeJSON(w, p, http.StatusOK)
}
