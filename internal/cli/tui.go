package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"netdiagram/internal/codec"
	"netdiagram/internal/domain"
	"netdiagram/internal/render"
	"netdiagram/internal/service"
	"netdiagram/internal/watcher"
)

// Canvas cells are 8×16 viewport units, roughly the aspect of a terminal cell.
const (
	cellWidth  = 8.0
	cellHeight = 16.0

	// chrome is the number of terminal rows not used by the canvas
	chrome = 5
)

// tuiCommand creates the tui command for editing in the terminal.
func (c *CLI) tuiCommand() *cobra.Command {
	var (
		fps   int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "tui [document.json|yaml]",
		Short: "Edit a diagram in the terminal",
		Long: `Edit a diagram in the terminal.

Move the cursor with the arrow keys. H and R create a host or a router at the
cursor, L starts a link, enter picks the device under the cursor, n renames it
and x deletes it. esc cancels a link or a rename; space pauses the layout.
With --watch the document is imported again whenever it changes.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if fps <= 0 {
				fps = cfg.Frames.FPS
			}

			// the log would scribble over the alternate screen
			level := c.Logger.GetLevel()
			c.SetLogLevel(log.FatalLevel)
			defer c.SetLogLevel(level)

			s := service.NewSession(sessionConfig(cfg, nil), nil, c.Logger)
			if len(args) == 1 {
				doc, err := readDocument(args[0])
				if err != nil {
					return err
				}
				if err := s.Import(doc); err != nil {
					return fmt.Errorf("import %s: %w", args[0], err)
				}
			}

			m := newEditorModel(s, 100, 30, fps)
			p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if watch && len(args) == 1 {
				path := args[0]
				w := watcher.New(path, func() {
					doc, err := readDocument(path)
					p.Send(documentMsg{doc: doc, err: err})
				}, c.Logger)
				go w.Watch(cmd.Context())
			}
			_, err = p.Run()
			return err
		},
	}

	cmd.Flags().IntVar(&fps, "fps", 0, "layout frames per second (default: from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "import the document again whenever it changes")

	return cmd
}

type frameMsg time.Time

// documentMsg carries a reloaded import document
type documentMsg struct {
	doc *codec.Document
	err error
}

// editorModel drives a session from bubbletea's single-threaded Update.
type editorModel struct {
	session *service.Session
	canvas  *render.Canvas

	cols, rows int
	cursorCol  int
	cursorRow  int

	fps    int
	paused bool
	status string
	err    error
}

func newEditorModel(s *service.Session, cols, rows, fps int) *editorModel {
	if fps <= 0 {
		fps = 30
	}
	m := &editorModel{session: s, fps: fps}
	m.resize(cols, rows)
	m.cursorCol, m.cursorRow = cols/2, rows/2
	return m
}

func (m *editorModel) resize(cols, rows int) {
	m.cols, m.rows = max(cols, 10), max(rows, 5)
	m.canvas = render.NewCanvas(m.cols, m.rows, cellWidth, cellHeight)
	m.cursorCol = min(m.cursorCol, m.cols-1)
	m.cursorRow = min(m.cursorRow, m.rows-1)
	w, h := m.canvas.Viewport()
	m.report(m.session.Resize(w, h))
}

func (m *editorModel) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m *editorModel) Init() tea.Cmd {
	return m.tick()
}

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		if !m.paused {
			m.session.Step()
		}
		return m, m.tick()

	case documentMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.session.Import(msg.doc); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = "reloaded"

	case tea.WindowSizeMsg:
		// borders take two columns and two rows
		m.resize(msg.Width-2, msg.Height-chrome-2)

	case tea.KeyMsg:
		if _, ok := m.session.Renaming(); ok {
			m.editLabel(msg)
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *editorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	m.err = nil
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "up", "k":
		m.cursorRow = max(m.cursorRow-1, 0)
	case "down", "j":
		m.cursorRow = min(m.cursorRow+1, m.rows-1)
	case "left", "h":
		m.cursorCol = max(m.cursorCol-1, 0)
	case "right", "l":
		m.cursorCol = min(m.cursorCol+1, m.cols-1)
	case "H":
		m.canvasOption(service.OptionCreateHost)
	case "R":
		m.canvasOption(service.OptionCreateRouter)
	case "L":
		m.canvasOption(service.OptionCreateLink)
		m.status = "pick two devices"
	case "enter":
		m.pick()
	case "n":
		m.deviceOption(service.OptionRename)
	case "x", "delete":
		m.deviceOption(service.OptionDelete)
	case "esc":
		m.session.CancelSelection()
		m.status = ""
	case "c":
		m.session.Clear()
		m.status = "cleared"
	case " ", "space":
		m.paused = !m.paused
	}
	return nil
}

func (m *editorModel) editLabel(msg tea.KeyMsg) {
	editor := m.session.Editor()
	switch msg.Type {
	case tea.KeyEnter:
		m.report(m.session.CommitRename())
	case tea.KeyEsc:
		m.session.CancelRename()
	case tea.KeyBackspace:
		text := []rune(editor.GetText())
		if len(text) > 0 {
			editor.SetText(string(text[:len(text)-1]))
		}
	case tea.KeyRunes, tea.KeySpace:
		editor.SetText(editor.GetText() + string(msg.Runes))
	}
}

// cursorPosition returns the viewport position of the cursor cell's centre
func (m *editorModel) cursorPosition() (float64, float64) {
	return (float64(m.cursorCol) + 0.5) * cellWidth, (float64(m.cursorRow) + 0.5) * cellHeight
}

// deviceAtCursor returns the closest device within two cells of the cursor
func (m *editorModel) deviceAtCursor() (domain.DeviceID, bool) {
	x, y := m.cursorPosition()
	var (
		best  domain.DeviceID
		found bool
		dist  = 2.0
	)
	for _, d := range m.session.Graph().Devices() {
		if r := math.Hypot((d.X-x)/cellWidth, (d.Y-y)/cellHeight); r <= dist {
			best, found, dist = d.ID, true, r
		}
	}
	return best, found
}

func (m *editorModel) canvasOption(option string) {
	x, y := m.cursorPosition()
	m.report(m.session.InvokeMenu(service.CanvasTarget, option, x, y))
}

func (m *editorModel) deviceOption(option string) {
	id, ok := m.deviceAtCursor()
	if !ok {
		m.status = "no device under the cursor"
		return
	}
	x, y := m.cursorPosition()
	m.report(m.session.InvokeMenu(service.DeviceTarget(uint64(id)), option, x, y))
}

// pick feeds the device under the cursor into the link gesture, or starts
// one from it
func (m *editorModel) pick() {
	if !m.session.Selection().Active {
		m.deviceOption(service.OptionLinkTo)
		return
	}
	id, ok := m.deviceAtCursor()
	if !ok {
		m.status = "no device under the cursor"
		return
	}
	l, err := m.session.SelectDevice(id)
	m.report(err)
	if l != nil {
		m.status = fmt.Sprintf("linked %d and %d", l.A, l.B)
	}
}

func (m *editorModel) report(err error) {
	if err != nil {
		m.err = err
	}
}

func (m *editorModel) View() string {
	m.canvas.Reset()
	render.Draw(m.canvas, m.session.Graph(), m.session.Highlight)

	lines := strings.Split(m.canvas.String(), "\n")
	if m.cursorRow < len(lines) {
		row := []rune(lines[m.cursorRow])
		if m.cursorCol < len(row) && row[m.cursorCol] == ' ' {
			row[m.cursorCol] = '+'
			lines[m.cursorRow] = string(row)
		}
	}

	g := m.session.Graph()
	var b strings.Builder
	b.WriteString(styleTitle.Render("netdiagram"))
	b.WriteString(styleStatus.Render(fmt.Sprintf("  %d devices  %d links  frame %d", g.DeviceCount(), g.LinkCount(), m.session.Frame())))
	if m.paused {
		b.WriteString(styleActive.Render("  paused"))
	}
	b.WriteString("\n")
	b.WriteString(styleCanvas.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(styleHelp.Render("←↑↓→ move  H host  R router  L link  ⏎ pick  n rename  x delete  esc cancel  space pause  q quit"))
	return b.String()
}

func (m *editorModel) statusLine() string {
	if m.err != nil {
		return styleError.Render(m.err.Error())
	}
	if t, ok := m.session.Renaming(); ok {
		return styleActive.Render(fmt.Sprintf("rename %s: %s_", t, m.session.Editor().GetText()))
	}
	if sel := m.session.Selection(); sel.Active {
		return styleActive.Render(fmt.Sprintf("linking: %d of 2 chosen", len(sel.Chosen)))
	}
	return styleStatus.Render(m.status)
}
