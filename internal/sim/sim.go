// Package sim is an interactive playground for the cursor engine: a column
// of boxes in a scrollable in-memory document, driven with the arrow keys.
// It exercises the same engine the X11 daemon runs, minus the X server.
package sim

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/navkit/navcursor/internal/cursor"
	"github.com/navkit/navcursor/internal/geometry"
	"github.com/navkit/navcursor/internal/memdoc"
)

const (
	boxCount  = 12
	boxTop    = 40  // document y of the first box
	boxHeight = 120 // document units
	boxGap    = 30
	boxLeft   = 60
	boxWidth  = 420

	viewportHeight = 480
	borderWidth    = 4
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Foreground(lipgloss.Color("250")).
			Padding(0, 2)

	focusedBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("39")).
			Foreground(lipgloss.Color("15")).
			Bold(true).
			Padding(0, 2)

	detachedBoxStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				Foreground(lipgloss.Color("240")).
				Faint(true).
				Padding(0, 2)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))
)

// eventLog records focus-updated events for the status bar.
type eventLog struct {
	last string
}

func (l *eventLog) HandleCursorEvent(ev cursor.Event) {
	if ev.Element == nil {
		l.last = fmt.Sprintf("%s: none", ev.Type)
		return
	}
	l.last = fmt.Sprintf("%s: %s", ev.Type, ev.Element.ElementID())
}

// model is the root bubbletea model for the simulator.
type model struct {
	doc     *memdoc.Document
	surface *memdoc.Surface
	engine  *cursor.Engine
	events  *eventLog

	nodes    []*memdoc.Node
	detached map[int]bool
	selected int

	width  int
	height int
}

func newModel(marker string) model {
	doc := memdoc.New(viewportHeight)
	surface := memdoc.NewSurface(borderWidth, borderWidth)

	nodes := make([]*memdoc.Node, 0, boxCount)
	for i := 0; i < boxCount; i++ {
		rect := geometry.Rect{
			Left:   boxLeft,
			Top:    boxTop + i*(boxHeight+boxGap),
			Width:  boxWidth,
			Height: boxHeight,
		}
		nodes = append(nodes, doc.NewNode(fmt.Sprintf("box-%d", i), rect))
	}

	engine := cursor.New(doc, surface, marker)
	events := &eventLog{}
	engine.AddEventListener(cursor.EventFocusUpdated, events)
	engine.Start()

	m := model{
		doc:      doc,
		surface:  surface,
		engine:   engine,
		events:   events,
		nodes:    nodes,
		detached: make(map[int]bool),
		selected: 0,
	}
	doc.AddClass(nodes[0], marker)
	doc.Flush()
	return m
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.engine.Stop()
			return m, tea.Quit
		case "down", "j":
			m.moveSelection(1)
		case "up", "k":
			m.moveSelection(-1)
		case "f":
			m.engine.Freeze()
		case "r":
			m.engine.Resume()
		case "d":
			m.toggleDetach()
		case "p":
			m.engine.Place()
		}
	}
	return m, nil
}

// moveSelection shifts the marker class to the next box and flushes the
// change batch, which is what drives the engine.
func (m *model) moveSelection(delta int) {
	next := m.selected + delta
	if next < 0 || next >= len(m.nodes) {
		return
	}
	marker := m.engine.Marker()
	m.doc.RemoveClass(m.nodes[m.selected], marker)
	m.doc.AddClass(m.nodes[next], marker)
	m.selected = next
	m.doc.Flush()
}

func (m *model) toggleDetach() {
	if m.detached[m.selected] {
		m.doc.Reattach(m.nodes[m.selected])
		delete(m.detached, m.selected)
	} else {
		m.doc.Detach(m.nodes[m.selected])
		m.detached[m.selected] = true
	}
	// Detaching does not queue a change record, so re-place explicitly.
	m.engine.Place()
}

// View implements tea.Model.
func (m model) View() string {
	overlay := m.surface.Bounds()

	var boxes []string
	scroll := m.doc.Offset()
	for i, node := range m.nodes {
		rect := node.Rect()
		visible := rect.Top+rect.Height > scroll.Y && rect.Top < scroll.Y+viewportHeight
		if !visible {
			continue
		}

		label := node.ElementID()
		style := boxStyle
		if m.detached[i] {
			style = detachedBoxStyle
			label += " (detached)"
		}
		if m.surface.Visible() && overlayFrames(overlay, rect) {
			style = focusedBoxStyle
		}
		boxes = append(boxes, style.Render(label))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, boxes...)
	status := statusStyle.Render(m.statusLine())
	help := helpStyle.Render("up/down move focus | f freeze | r resume | d detach | p place | q quit")

	return lipgloss.JoinVertical(lipgloss.Left, content, status, help)
}

func (m model) statusLine() string {
	focused := "none"
	if el := m.engine.FocusedElement(); el != nil {
		focused = el.ElementID()
	}
	frozen := ""
	if m.engine.Frozen() {
		frozen = " FROZEN"
	}
	event := m.events.last
	if event == "" {
		event = "no events yet"
	}
	return fmt.Sprintf("phase=%s%s focus=%s scroll=%d cursor=%s | %s",
		m.engine.Phase(), frozen, focused, m.doc.Offset().Y, m.surface, event)
}

// overlayFrames reports whether the overlay's content area sits on the given
// document rect. The overlay origin is the rect origin pulled back by the
// border widths.
func overlayFrames(overlay geometry.Rect, docRect geometry.Rect) bool {
	content := geometry.Rect{
		Left:   overlay.Left + borderWidth,
		Top:    overlay.Top + borderWidth,
		Width:  overlay.Width,
		Height: overlay.Height,
	}
	return content == docRect
}

// Run starts the simulator. It requires an interactive terminal.
func Run(marker string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("demo requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(marker), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
