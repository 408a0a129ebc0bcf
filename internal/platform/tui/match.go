// Package tui provides the terminal UI for skirmish matches, including SSH
// serving via Wish. It drives the engine exclusively through commands,
// queries, and the event bus.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-skirmish/internal/core"
	"github.com/vovakirdan/tui-skirmish/internal/game"
	"github.com/vovakirdan/tui-skirmish/internal/storage"
	"github.com/vovakirdan/tui-skirmish/internal/turn"
)

// inputMode is the match screen's current input context.
type inputMode int

const (
	modeInspect inputMode = iota // Cursor browsing, unit selection
	modeMove                     // Picking a destination for the selected unit
	modeAttack                   // Picking an attack target
	modeBuild                    // Picking a unit type from the roster
	modePlace                    // Picking a cell for the chosen unit type
)

const logLines = 8

// eventMsg carries one engine event into the Bubble Tea loop.
type eventMsg struct {
	event game.Event
}

// MatchModel is the Bubble Tea model for one hot-seat match.
type MatchModel struct {
	state *game.State
	ctrl  *turn.Controller
	store *storage.Store

	scenario  string
	saveName  string
	startedAt time.Time

	cursor    core.Position
	selected  game.UnitID
	mode      inputMode
	buildType game.UnitType
	targets   map[core.Position]bool

	events chan game.Event
	done   chan struct{}

	log    []string
	status string

	keys   MatchKeyMap
	help   help.Model
	width  int
	height int

	quitting    bool
	resultSaved bool
}

// NewMatchModel creates a model bound to a running match. The store may be
// nil; saving and result recording are then disabled.
func NewMatchModel(state *game.State, ctrl *turn.Controller, store *storage.Store, scenario, saveName string) MatchModel {
	m := MatchModel{
		state:     state,
		ctrl:      ctrl,
		store:     store,
		scenario:  scenario,
		saveName:  saveName,
		startedAt: time.Now(),
		cursor:    core.Pos(state.Grid().Size/2, state.Grid().Size/2),
		events:    make(chan game.Event, 64),
		done:      make(chan struct{}),
		keys:      DefaultMatchKeyMap(),
		help:      help.New(),
	}

	// Timer callbacks mutate state off the Bubble Tea loop; the channel
	// carries their events back in. Drop on overflow rather than block the
	// engine.
	state.Events().SubscribeAll(func(ev game.Event) {
		select {
		case m.events <- ev:
		default:
		}
	})

	return m
}

// Init starts the controller and begins listening for engine events.
func (m MatchModel) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { m.ctrl.Start(); return nil },
		m.waitEvent(),
	)
}

// waitEvent blocks for the next engine event.
func (m MatchModel) waitEvent() tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-m.events:
			return eventMsg{event: ev}
		case <-m.done:
			return nil
		}
	}
}

// Update handles messages.
func (m MatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case eventMsg:
		m.log = append(m.log, formatEvent(msg.event))
		if _, over := msg.event.(game.GameEnded); over {
			m.recordResult()
		}
		return m, m.waitEvent()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m MatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Cancel):
		m.resetMode()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.Select):
		m.confirm()

	case key.Matches(msg, m.keys.Move):
		m.enterMoveMode()
	case key.Matches(msg, m.keys.Attack):
		m.enterAttackMode()
	case key.Matches(msg, m.keys.Gather):
		m.gather()
	case key.Matches(msg, m.keys.Build):
		if m.state.Status() == game.StatusActive {
			m.mode = modeBuild
			m.status = ""
		}

	case key.Matches(msg, m.keys.NextPhase):
		m.ctrl.NextPhase()
		m.resetMode()
	case key.Matches(msg, m.keys.EndTurn):
		m.ctrl.ForceEndTurn()
		m.resetMode()

	case key.Matches(msg, m.keys.Save):
		m.save()
	case key.Matches(msg, m.keys.Surrender):
		m.surrender()

	default:
		if m.mode == modeBuild {
			m.pickBuildType(msg.String())
		}
	}

	return m, nil
}

func (m *MatchModel) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.ctrl.Stop()
	close(m.done)
	return *m, tea.Quit
}

func (m *MatchModel) moveCursor(dx, dy int) {
	size := m.state.Grid().Size
	m.cursor.X = core.Clamp(m.cursor.X+dx, 0, size-1)
	m.cursor.Y = core.Clamp(m.cursor.Y+dy, 0, size-1)
}

func (m *MatchModel) resetMode() {
	m.mode = modeInspect
	m.targets = nil
	m.buildType = ""
	m.status = ""
}

// confirm executes the pending action at the cursor, or selects a unit.
func (m *MatchModel) confirm() {
	switch m.mode {
	case modeInspect:
		m.selectAtCursor()
	case modeMove:
		m.report(m.state.MoveUnit(m.selected, m.cursor))
		m.mode = modeInspect
		m.targets = nil
	case modeAttack:
		_, err := m.state.AttackUnit(m.selected, m.cursor)
		m.report(err)
		m.mode = modeInspect
		m.targets = nil
	case modePlace:
		_, err := m.state.CreateUnit(m.buildType, m.state.Turn().CurrentPlayer, m.cursor)
		m.report(err)
		m.resetMode()
	}
}

// selectAtCursor selects the current player's unit under the cursor.
func (m *MatchModel) selectAtCursor() {
	e, ok := m.state.EntityAt(m.cursor.X, m.cursor.Y)
	if !ok {
		m.selected = 0
		return
	}
	u, isUnit := e.(*game.Unit)
	if !isUnit || u.Owner != m.state.Turn().CurrentPlayer {
		m.selected = 0
		return
	}
	m.selected = u.ID
	m.status = ""
}

func (m *MatchModel) enterMoveMode() {
	if m.selected == 0 {
		m.status = "select a unit first"
		return
	}
	moves, err := m.state.ValidMovePositions(m.selected)
	if err != nil {
		m.report(err)
		return
	}
	m.targets = make(map[core.Position]bool, len(moves))
	for _, mv := range moves {
		m.targets[mv.Pos] = true
	}
	m.mode = modeMove
	m.status = ""
}

func (m *MatchModel) enterAttackMode() {
	if m.selected == 0 {
		m.status = "select a unit first"
		return
	}
	u, ok := m.state.Unit(m.selected)
	if !ok {
		m.selected = 0
		return
	}
	m.targets = make(map[core.Position]bool, 8)
	grid := m.state.Grid()
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			p := core.Pos(u.Position.X+dx, u.Position.Y+dy)
			if core.Adjacent(u.Position, p) && grid.Contains(p) {
				m.targets[p] = true
			}
		}
	}
	m.mode = modeAttack
	m.status = ""
}

func (m *MatchModel) gather() {
	id := m.selected
	if id == 0 {
		// Fall back to the unit under the cursor.
		if e, ok := m.state.EntityAt(m.cursor.X, m.cursor.Y); ok {
			if u, isUnit := e.(*game.Unit); isUnit {
				id = u.ID
			}
		}
	}
	if id == 0 {
		m.status = "select a worker first"
		return
	}
	_, err := m.state.GatherResources(id)
	m.report(err)
}

// pickBuildType maps roster hotkeys 1-4 to unit types.
func (m *MatchModel) pickBuildType(k string) {
	types := game.UnitTypes()
	for i, t := range types {
		if k == fmt.Sprintf("%d", i+1) {
			m.buildType = t
			m.mode = modePlace
			m.status = ""
			// Suggest a legal cell so placement starts near the base.
			if pos, ok := m.state.FindPlacement(m.state.Turn().CurrentPlayer); ok {
				m.cursor = pos
			}
			return
		}
	}
}

func (m *MatchModel) surrender() {
	m.report(m.state.Surrender(m.state.Turn().CurrentPlayer))
	m.resetMode()
}

// save writes the current snapshot into the model's save slot.
func (m *MatchModel) save() {
	if m.store == nil || m.saveName == "" {
		m.status = "saving disabled"
		return
	}
	data, err := m.state.Snapshot().Marshal()
	if err != nil {
		m.report(err)
		return
	}
	t := m.state.Turn()
	if _, err := m.store.SaveGame(m.saveName, data, t.Number, string(m.state.Status())); err != nil {
		m.report(err)
		return
	}
	m.status = fmt.Sprintf("saved %q", m.saveName)
}

// recordResult persists the match outcome once.
func (m *MatchModel) recordResult() {
	if m.store == nil || m.resultSaved {
		return
	}
	winner, reason := m.state.Outcome()
	result := storage.MatchResult{
		Scenario:     m.scenario,
		Winner:       playerKey(winner),
		EndReason:    string(reason),
		Turns:        m.state.Turn().Number,
		DurationSecs: int(time.Since(m.startedAt).Seconds()),
	}
	//nolint:errcheck // Best-effort record, the match outcome stands regardless
	m.store.SaveMatchResult(result)
	m.resultSaved = true
}

// playerKey is the storage identifier for a player, empty for draws.
func playerKey(p game.PlayerID) string {
	if p == game.NoPlayer {
		return ""
	}
	return fmt.Sprintf("player%d", p)
}

// report records a command error on the status line.
func (m *MatchModel) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
}

// View renders the match screen.
func (m MatchModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(renderHUD(m.state, m.scenario))
	b.WriteString("\n")
	b.WriteString(renderGrid(m.state, m.cursor, m.selected, m.targets))
	b.WriteString("\n")

	if m.mode == modeBuild {
		b.WriteString(m.rosterLine())
		b.WriteString("\n")
	}
	if m.status != "" {
		b.WriteString(errorStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(renderLog(m.log, logLines))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// rosterLine lists buildable unit types with their costs and hotkeys.
func (m MatchModel) rosterLine() string {
	cfg := m.state.Config()
	parts := make([]string, 0, 4)
	for i, t := range game.UnitTypes() {
		parts = append(parts, fmt.Sprintf("[%d] %s (%d)", i+1, t, cfg.Units[string(t)].Cost))
	}
	return titleStyle.Render("build: ") + strings.Join(parts, "  ")
}

// Run starts a full-screen Bubble Tea program for the match and blocks
// until the player quits.
func Run(state *game.State, ctrl *turn.Controller, store *storage.Store, scenario, saveName string) error {
	model := NewMatchModel(state, ctrl, store, scenario, saveName)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	ctrl.Stop()
	return err
}
