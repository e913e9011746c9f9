package handler

import (
	"bytes"
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"netdiagram/internal/codec"
	"netdiagram/internal/domain"
	"netdiagram/internal/render"
	"netdiagram/internal/repository"
	"netdiagram/internal/service"
)

// ImportResult summarises the graph built by an import
type ImportResult struct {
	Devices int `json:"devices"`
	Links   int `json:"links"`
}

// requestFormat picks the codec from ?format= or the Content-Type
func requestFormat(r *http.Request) string {
	if f := r.URL.Query().Get("format"); f != "" {
		return f
	}
	if strings.Contains(r.Header.Get("Content-Type"), "yaml") {
		return "yaml"
	}
	return "json"
}

// Import replaces the graph with an import document. The current graph is
// kept if the document does not build.
func (h *EditorHandler) Import(w http.ResponseWriter, r *http.Request) {
	format := requestFormat(r)
	importer, _, ok := codec.ByFormat(format)
	if !ok {
		writeError(w, "Unsupported format", format, http.StatusBadRequest)
		return
	}

	doc, err := importer.Parse(r.Body)
	if err != nil {
		writeError(w, "Invalid import document", err.Error(), http.StatusBadRequest)
		return
	}

	var result ImportResult
	if !h.do(w, r, "import", func(s *service.Session) error {
		if err := s.Import(doc); err != nil {
			return err
		}
		result.Devices = s.Graph().DeviceCount()
		result.Links = s.Graph().LinkCount()
		return nil
	}) {
		return
	}
	h.logger.Info("graph imported", "format", importer.Format(), "devices", result.Devices, "links", result.Links)
	writeJSON(w, result, http.StatusOK)
}

// Export writes the graph as json, yaml, dot or svg
func (h *EditorHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	switch format {
	case "dot", "svg":
		var dot []byte
		if !h.do(w, r, "export "+format, func(s *service.Session) error {
			var err error
			dot, err = render.ToDOT(s.Graph())
			return err
		}) {
			return
		}
		if format == "dot" {
			w.Header().Set("Content-Type", "text/vnd.graphviz")
			w.Header().Set("Content-Disposition", "attachment; filename=graph.dot")
			w.Write(dot)
			return
		}
		svg, err := render.RenderSVG(r.Context(), dot)
		if err != nil {
			h.fail(w, "render svg", err)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write(svg)
		return
	}

	_, exporter, ok := codec.ByFormat(format)
	if !ok {
		writeError(w, "Unsupported format", format, http.StatusBadRequest)
		return
	}

	var doc *codec.ExportDocument
	if !h.do(w, r, "export "+format, func(s *service.Session) error {
		doc = s.Export()
		return nil
	}) {
		return
	}

	// Encode first so a failure can still be reported
	var buf bytes.Buffer
	if err := exporter.Export(doc, &buf); err != nil {
		h.fail(w, "export "+format, err)
		return
	}
	if exporter.Format() == "yaml" {
		w.Header().Set("Content-Type", "application/x-yaml")
		w.Header().Set("Content-Disposition", "attachment; filename=graph.yml")
	} else {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", "attachment; filename=graph.json")
	}
	w.Write(buf.Bytes())
}

// DiscoverRequest is the body of POST /api/discover
type DiscoverRequest struct {
	Targets []string `json:"targets"`
}

// Discover scans the targets in the background and imports the result
func (h *EditorHandler) Discover(w http.ResponseWriter, r *http.Request) {
	if h.discoverer == nil {
		writeError(w, "Discovery not configured", "No discoverer is registered", http.StatusServiceUnavailable)
		return
	}

	var req DiscoverRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Targets) == 0 {
		writeError(w, "Targets required", "Please provide CIDR ranges or hosts to scan (e.g., 192.168.0.0/24)", http.StatusBadRequest)
		return
	}

	// Run discovery in background and return immediately
	go h.discover(h.background, req.Targets)

	writeJSON(w, map[string]any{
		"status":  "discovery_started",
		"scanner": h.discoverer.Name(),
		"targets": req.Targets,
	}, http.StatusAccepted)
}

func (h *EditorHandler) discover(ctx context.Context, targets []string) {
	doc, err := h.discoverer.Discover(ctx, targets)
	if err != nil {
		h.logger.Error("Discovery failed", "targets", targets, "err", err)
		return
	}
	err = h.loop.Do(ctx, func(s *service.Session) error {
		return s.Import(doc)
	})
	if err != nil {
		h.logger.Error("Discovery import failed", "err", err)
		return
	}
	h.logger.Info("Discovery imported", "hosts", len(doc.Hosts), "routers", len(doc.Routers), "links", len(doc.Links))
}

func (h *EditorHandler) requireStore(w http.ResponseWriter) bool {
	if h.store == nil {
		writeError(w, "Snapshots not configured", "No snapshot store is open", http.StatusServiceUnavailable)
		return false
	}
	return true
}

// ListSnapshots lists saved snapshots, newest first
func (h *EditorHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	infos, err := h.store.List(r.Context())
	if err != nil {
		h.fail(w, "list snapshots", err)
		return
	}
	if infos == nil {
		infos = []repository.SnapshotInfo{}
	}
	writeJSON(w, infos, http.StatusOK)
}

// SaveSnapshot saves the current graph under the name in the path
func (h *EditorHandler) SaveSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	name := chi.URLParam(r, "name")

	var snap *domain.Snapshot
	if !h.do(w, r, "snapshot", func(s *service.Session) error {
		snap = s.Snapshot()
		return nil
	}) {
		return
	}
	if err := h.store.Save(r.Context(), name, snap); err != nil {
		h.fail(w, "save snapshot", err)
		return
	}
	writeJSON(w, repository.SnapshotInfo{
		Name:    name,
		Devices: len(snap.Devices),
		Links:   len(snap.Links),
	}, http.StatusOK)
}

// RestoreSnapshot replaces the graph with a saved snapshot
func (h *EditorHandler) RestoreSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	snap, err := h.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		h.fail(w, "load snapshot", err)
		return
	}

	var view service.GraphView
	if !h.do(w, r, "restore snapshot", func(s *service.Session) error {
		if err := s.Restore(snap); err != nil {
			return err
		}
		view = s.View()
		return nil
	}) {
		return
	}
	writeJSON(w, view, http.StatusOK)
}

// DeleteSnapshot removes a saved snapshot
func (h *EditorHandler) DeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if !h.requireStore(w) {
		return
	}
	if err := h.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		h.fail(w, "delete snapshot", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
