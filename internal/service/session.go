package service

import (
	"errors"
	"fmt"
	"maps"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"netdiagram/internal/codec"
	"netdiagram/internal/domain"
	"netdiagram/internal/layout"
	"netdiagram/internal/selection"
	"netdiagram/internal/ui"
)

var (
	// ErrNoRename is returned by CommitRename when no rename is in progress
	ErrNoRename = errors.New("no rename in progress")

	// ErrInvalidViewport is returned for a non-positive viewport size
	ErrInvalidViewport = errors.New("invalid viewport")
)

// Menu option labels
const (
	OptionCreateHost   = "Create Host"
	OptionCreateLink   = "Create Link"
	OptionCreateRouter = "Create Router"
	OptionLinkTo       = "Link To..."
	OptionRename       = "Rename"
	OptionDelete       = "Delete"
)

// SessionConfig holds the tunables of a session
type SessionConfig struct {
	Params   layout.Params
	Viewport layout.Viewport
	Spacing  float64
	// Rand drives import placement; nil uses the global source.
	Rand *rand.Rand
}

// DefaultSessionConfig returns the stock physics and an 800×600 viewport
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Params:   layout.DefaultParams(),
		Viewport: layout.Viewport{Width: 800, Height: 600},
		Spacing:  codec.DefaultSpacing,
	}
}

// Session is one editing session: the graph, the layout engine, the link
// gesture, the context menus and the label editor. It is not safe for
// concurrent use; Loop serialises access.
type Session struct {
	id       string
	graph    *domain.Graph
	engine   *layout.Engine
	protocol *selection.Protocol
	viewport layout.Viewport
	spacing  float64
	rng      *rand.Rand

	highlights  highlights
	canvasMenu  *ui.ContextMenu
	deviceMenus map[domain.DeviceID]*ui.ContextMenu
	linkMenus   map[domain.LinkID]*ui.ContextMenu
	editor      *ui.TextField
	renaming    *Target

	frame  uint64
	bus    *EventBus
	logger *log.Logger
}

// NewSession creates a session with an empty graph
func NewSession(cfg SessionConfig, bus *EventBus, logger *log.Logger) *Session {
	if bus == nil {
		bus = NewEventBus()
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		id:          uuid.NewString(),
		graph:       domain.NewGraph(),
		engine:      layout.NewEngine(cfg.Params),
		viewport:    cfg.Viewport,
		spacing:     cfg.Spacing,
		rng:         cfg.Rand,
		highlights:  highlights{},
		deviceMenus: make(map[domain.DeviceID]*ui.ContextMenu),
		linkMenus:   make(map[domain.LinkID]*ui.ContextMenu),
		editor:      ui.NewTextField(),
		bus:         bus,
		logger:      logger.WithPrefix("session"),
	}
	s.protocol = selection.New(liveGraph{s}, s.highlights)
	s.canvasMenu = s.newCanvasMenu()
	return s
}

// ID returns the session's unique id
func (s *Session) ID() string { return s.id }

// Graph returns the live graph. Callers must not mutate it directly.
func (s *Session) Graph() *domain.Graph { return s.graph }

// Viewport returns the current viewport
func (s *Session) Viewport() layout.Viewport { return s.viewport }

// Engine returns the layout engine
func (s *Session) Engine() *layout.Engine { return s.engine }

// Frame returns the number of steps taken
func (s *Session) Frame() uint64 { return s.frame }

// Editor returns the shared label editor
func (s *Session) Editor() *ui.TextField { return s.editor }

// AddHost creates a host at (x, y)
func (s *Session) AddHost(x, y float64) *domain.Device {
	return s.addDevice(domain.KindHost, x, y)
}

// AddRouter creates a router at (x, y)
func (s *Session) AddRouter(x, y float64) *domain.Device {
	return s.addDevice(domain.KindRouter, x, y)
}

func (s *Session) addDevice(kind domain.DeviceKind, x, y float64) *domain.Device {
	d := s.graph.AddDevice(kind, x, y)
	s.deviceMenus[d.ID] = s.newDeviceMenu(d.ID)
	if s.protocol.Active() {
		s.highlights.SetHighlight(d.ID, selection.Selectable)
	}
	s.logger.Debug("device created", "id", d.ID, "kind", kind)
	s.publish(EventDeviceCreated, deviceView(d, s.highlights))
	return d
}

// RemoveDevice deletes a device together with its links. A link gesture
// that already chose the device is cancelled.
func (s *Session) RemoveDevice(id domain.DeviceID) error {
	if _, ok := s.graph.Device(id); !ok {
		return fmt.Errorf("remove device %d: %w", id, domain.ErrUnknownDevice)
	}
	incident := s.graph.IncidentLinks(id)
	if s.protocol.Forget(id) {
		s.publishSelection()
	}
	if err := s.graph.RemoveDevice(id); err != nil {
		return err
	}

	linkIDs := make([]domain.LinkID, len(incident))
	for i, l := range incident {
		linkIDs[i] = l.ID
		s.dropLink(l.ID)
	}
	delete(s.deviceMenus, id)
	delete(s.highlights, id)
	s.cancelRenameOf(DeviceTarget(uint64(id)))

	s.logger.Debug("device removed", "id", id, "links", len(linkIDs))
	s.publish(EventDeviceDeleted, map[string]any{"id": id, "links": linkIDs})
	return nil
}

// AddLink joins two devices
func (s *Session) AddLink(a, b domain.DeviceID) (*domain.Link, error) {
	l, err := s.graph.AddLink(a, b)
	if err != nil {
		return nil, err
	}
	s.linkCreated(l)
	return l, nil
}

func (s *Session) linkCreated(l *domain.Link) {
	s.linkMenus[l.ID] = s.newLinkMenu(l.ID)
	s.logger.Debug("link created", "id", l.ID, "a", l.A, "b", l.B)
	s.publish(EventLinkCreated, linkView(l))
}

// RemoveLink deletes a link
func (s *Session) RemoveLink(id domain.LinkID) error {
	if err := s.graph.RemoveLink(id); err != nil {
		return err
	}
	s.dropLink(id)
	s.logger.Debug("link removed", "id", id)
	s.publish(EventLinkDeleted, map[string]any{"id": id})
	return nil
}

func (s *Session) dropLink(id domain.LinkID) {
	delete(s.linkMenus, id)
	s.cancelRenameOf(LinkTarget(uint64(id)))
}

// SetDeviceLabel renames a device
func (s *Session) SetDeviceLabel(id domain.DeviceID, label string) error {
	if err := s.graph.SetDeviceLabel(id, label); err != nil {
		return err
	}
	s.publish(EventDeviceRenamed, map[string]any{"id": id, "label": label})
	return nil
}

// SetLinkLabel renames a link
func (s *Session) SetLinkLabel(id domain.LinkID, label string) error {
	if err := s.graph.SetLinkLabel(id, label); err != nil {
		return err
	}
	s.publish(EventLinkRenamed, map[string]any{"id": id, "label": label})
	return nil
}

// BeginRename focuses the emptied label editor on a device or link
func (s *Session) BeginRename(t Target) error {
	if _, err := s.labelOf(t); err != nil {
		return err
	}
	s.editor.Clear()
	s.editor.Focus()
	s.renaming = &t
	return nil
}

// Renaming returns the element being renamed, if any
func (s *Session) Renaming() (Target, bool) {
	if s.renaming == nil {
		return Target{}, false
	}
	return *s.renaming, true
}

// CommitRename applies the editor text to the element being renamed
func (s *Session) CommitRename() error {
	if s.renaming == nil {
		return ErrNoRename
	}
	t, text := *s.renaming, s.editor.GetText()
	s.CancelRename()

	switch t.Kind {
	case TargetDevice:
		return s.SetDeviceLabel(domain.DeviceID(t.ID), text)
	case TargetLink:
		return s.SetLinkLabel(domain.LinkID(t.ID), text)
	}
	return fmt.Errorf("rename %s: %w", t, ErrInvalidTarget)
}

// CancelRename closes the label editor without applying it
func (s *Session) CancelRename() {
	s.renaming = nil
	s.editor.Clear()
	s.editor.Blur()
}

func (s *Session) cancelRenameOf(t Target) {
	if s.renaming != nil && *s.renaming == t {
		s.CancelRename()
	}
}

func (s *Session) labelOf(t Target) (string, error) {
	switch t.Kind {
	case TargetDevice:
		d, ok := s.graph.Device(domain.DeviceID(t.ID))
		if !ok {
			return "", fmt.Errorf("%s: %w", t, domain.ErrUnknownDevice)
		}
		return d.Label, nil
	case TargetLink:
		l, ok := s.graph.Link(domain.LinkID(t.ID))
		if !ok {
			return "", fmt.Errorf("%s: %w", t, domain.ErrUnknownLink)
		}
		return l.Label, nil
	}
	return "", fmt.Errorf("rename %s: %w", t, ErrInvalidTarget)
}

// StartLink begins a link gesture with no device chosen
func (s *Session) StartLink() {
	s.protocol.StartBoth()
	s.publishSelection()
}

// StartLinkFrom begins a link gesture from d
func (s *Session) StartLinkFrom(d domain.DeviceID) error {
	if _, ok := s.graph.Device(d); !ok {
		return fmt.Errorf("link from %d: %w", d, domain.ErrUnknownDevice)
	}
	_, err := s.protocol.StartFrom(d)
	s.publishSelection()
	return err
}

// SelectDevice feeds a click on d into the link gesture. The link is
// returned when d completes the gesture.
func (s *Session) SelectDevice(d domain.DeviceID) (*domain.Link, error) {
	if !s.protocol.Active() {
		return nil, nil
	}
	if _, ok := s.graph.Device(d); !ok {
		return nil, fmt.Errorf("select %d: %w", d, domain.ErrUnknownDevice)
	}
	l, err := s.protocol.Select(d)
	s.publishSelection()
	if err != nil {
		s.logger.Warn("link gesture failed", "err", err)
		return nil, err
	}
	if l != nil {
		s.linkCreated(l)
	}
	return l, nil
}

// CancelSelection abandons the link gesture
func (s *Session) CancelSelection() {
	if !s.protocol.Active() {
		return
	}
	s.protocol.Cancel()
	s.publishSelection()
}

// Selection returns the gesture state
func (s *Session) Selection() selection.State {
	return s.protocol.State()
}

// Highlight returns the highlight of a device
func (s *Session) Highlight(d domain.DeviceID) selection.Highlight {
	return s.highlights[d]
}

// Step advances the layout by one frame
func (s *Session) Step() layout.Stats {
	s.frame++
	return s.engine.Step(s.graph, s.viewport)
}

// Resize changes the viewport the layout centres on
func (s *Session) Resize(w, h float64) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %gx%g", ErrInvalidViewport, w, h)
	}
	s.viewport = layout.Viewport{Width: w, Height: h}
	s.publish(EventViewportResized, s.viewport)
	return nil
}

// SetParams replaces the layout constants
func (s *Session) SetParams(p layout.Params) {
	s.engine.SetParams(p)
}

// Clear removes every device and link
func (s *Session) Clear() {
	s.reset(domain.NewGraph())
	s.logger.Info("graph cleared")
	s.publish(EventGraphCleared, nil)
}

// Import replaces the graph with one built from doc. On error the current
// graph is left untouched.
func (s *Session) Import(doc *codec.Document) error {
	g, err := codec.Build(doc, codec.Placement{
		Spacing:  s.spacing,
		Viewport: s.viewport,
		Rand:     s.rng,
	})
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	s.replace(g, "import")
	return nil
}

// Export describes the graph in the export schema
func (s *Session) Export() *codec.ExportDocument {
	return codec.Export(s.graph)
}

// Snapshot captures the graph for saving
func (s *Session) Snapshot() *domain.Snapshot {
	return s.graph.Snapshot()
}

// Restore replaces the graph with a saved snapshot
func (s *Session) Restore(snap *domain.Snapshot) error {
	g, err := domain.FromSnapshot(snap)
	if err != nil {
		return fmt.Errorf("restore: %w", err)
	}
	s.replace(g, "restore")
	return nil
}

func (s *Session) replace(g *domain.Graph, source string) {
	s.reset(g)
	for _, d := range g.Devices() {
		s.deviceMenus[d.ID] = s.newDeviceMenu(d.ID)
	}
	for _, l := range g.Links() {
		s.linkMenus[l.ID] = s.newLinkMenu(l.ID)
	}
	s.logger.Info("graph replaced", "source", source, "devices", g.DeviceCount(), "links", g.LinkCount())
	s.publish(EventGraphReplaced, s.View())
}

func (s *Session) reset(g *domain.Graph) {
	s.protocol.Cancel()
	s.CancelRename()
	s.graph = g
	s.engine.Reset()
	clear(s.highlights)
	clear(s.deviceMenus)
	clear(s.linkMenus)
}

func (s *Session) publishSelection() {
	s.publish(EventSelectionChanged, SelectionView{
		State:      s.protocol.State(),
		Highlights: maps.Clone(s.highlights),
	})
}

func (s *Session) publish(t EventType, payload any) {
	s.bus.Publish(Event{Type: t, Payload: payload})
}

// highlights stores non-default highlights by device
type highlights map[domain.DeviceID]selection.Highlight

func (h highlights) SetHighlight(id domain.DeviceID, v selection.Highlight) {
	if v == selection.None {
		delete(h, id)
		return
	}
	h[id] = v
}

// liveGraph lets the selection protocol follow graph replacement
type liveGraph struct{ s *Session }

func (g liveGraph) DeviceIDs() []domain.DeviceID { return g.s.graph.DeviceIDs() }
func (g liveGraph) AddLink(a, b domain.DeviceID) (*domain.Link, error) {
	return g.s.graph.AddLink(a, b)
}
