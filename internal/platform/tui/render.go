package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-skirmish/internal/core"
	"github.com/vovakirdan/tui-skirmish/internal/game"
)

var (
	player1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	player2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	nodeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	drainedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("94"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	cursorStyle  = lipgloss.NewStyle().Background(lipgloss.Color("57"))
	targetStyle  = lipgloss.NewStyle().Background(lipgloss.Color("236"))
	selectStyle  = lipgloss.NewStyle().Background(lipgloss.Color("22"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	activeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// unitGlyphs maps unit types to single-rune board symbols.
var unitGlyphs = map[game.UnitType]rune{
	game.UnitWorker:   'W',
	game.UnitScout:    'S',
	game.UnitInfantry: 'I',
	game.UnitHeavy:    'H',
}

// ownerStyle returns the display style for a player's pieces.
func ownerStyle(p game.PlayerID) lipgloss.Style {
	if p == game.Player1 {
		return player1Style
	}
	return player2Style
}

// renderGrid draws the battlefield. Targets are cells highlighted as legal
// destinations for the pending command; the cursor highlight wins over both
// the target and selection highlights.
func renderGrid(s *game.State, cursor core.Position, selected game.UnitID, targets map[core.Position]bool) string {
	size := s.Grid().Size

	var sb strings.Builder
	sb.Grow(size * size * 4)

	for y := 0; y < size; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < size; x++ {
			glyph, style := cellGlyph(s, x, y, selected)

			pos := core.Pos(x, y)
			switch {
			case pos == cursor:
				style = style.Inherit(cursorStyle)
			case targets[pos]:
				style = style.Inherit(targetStyle)
			}

			sb.WriteString(style.Render(string(glyph) + " "))
		}
	}
	return sb.String()
}

// cellGlyph picks the symbol and base style for one cell.
func cellGlyph(s *game.State, x, y int, selected game.UnitID) (rune, lipgloss.Style) {
	e, ok := s.EntityAt(x, y)
	if !ok {
		return '.', emptyStyle
	}

	switch e := e.(type) {
	case *game.Unit:
		style := ownerStyle(e.Owner)
		if e.ID == selected {
			style = style.Inherit(selectStyle)
		}
		return unitGlyphs[e.Type], style
	case *game.Base:
		return '#', ownerStyle(e.Owner)
	case *game.ResourceNode:
		if e.Value == 0 {
			return '*', drainedStyle
		}
		return '*', nodeStyle
	}
	return '?', emptyStyle
}

// renderHUD draws the two player panels around the turn summary.
func renderHUD(s *game.State, scenario string) string {
	turn := s.Turn()

	renderPlayer := func(id game.PlayerID, label string) string {
		p, _ := s.Player(id)
		b, _ := s.Base(id)

		name := label
		if turn.CurrentPlayer == id && s.Status() == game.StatusActive {
			name = activeStyle.Render("> " + label)
		} else {
			name = dimStyle.Render("  " + label)
		}

		body := fmt.Sprintf("%s\nEnergy   %4d\nActions  %4d\nGathered %4d\nBase HP  %4d",
			name, p.Energy, p.ActionsRemaining, p.ResourcesGathered, b.Health)
		return panelStyle.Render(body)
	}

	center := fmt.Sprintf("%s\nTurn %d\nPhase: %s",
		titleStyle.Render(scenario), turn.Number, turn.Phase)
	if s.Status() == game.StatusEnded {
		winner, reason := s.Outcome()
		center += "\n" + titleStyle.Render(outcomeLine(winner, reason))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderPlayer(game.Player1, "Player 1"),
		panelStyle.Render(center),
		renderPlayer(game.Player2, "Player 2"),
	)
}

// outcomeLine formats the end-of-match banner.
func outcomeLine(winner game.PlayerID, reason game.EndReason) string {
	if winner == game.NoPlayer {
		return "DRAW"
	}
	return fmt.Sprintf("PLAYER %d WINS (%s)", winner, reason)
}

// renderLog draws the last n event log lines.
func renderLog(lines []string, n int) string {
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return dimStyle.Render(strings.Join(lines, "\n"))
}

// formatEvent turns a domain event into one log line.
func formatEvent(ev game.Event) string {
	switch ev := ev.(type) {
	case game.GameStarted:
		return fmt.Sprintf("match started on a %dx%d grid", ev.GridSize, ev.GridSize)
	case game.TurnStarted:
		return fmt.Sprintf("turn %d: player %d", ev.Turn, ev.Player)
	case game.TurnEnded:
		return fmt.Sprintf("player %d ended turn %d", ev.Player, ev.Turn)
	case game.PhaseChanged:
		return fmt.Sprintf("phase: %s", ev.Phase)
	case game.UnitCreated:
		return fmt.Sprintf("player %d built %s #%d at %d,%d", ev.Owner, ev.Type, ev.Unit, ev.At.X, ev.At.Y)
	case game.UnitMoved:
		return fmt.Sprintf("unit #%d moved to %d,%d", ev.Unit, ev.To.X, ev.To.Y)
	case game.UnitAttacked:
		return fmt.Sprintf("unit #%d hit %d,%d for %d (%d hp left)", ev.Attacker, ev.Target.X, ev.Target.Y, ev.Damage, core.Max(ev.TargetHP, 0))
	case game.UnitDestroyed:
		return fmt.Sprintf("player %d's unit #%d destroyed", ev.Owner, ev.Unit)
	case game.UnitRemoved:
		return fmt.Sprintf("unit #%d removed", ev.Unit)
	case game.ResourcesGathered:
		return fmt.Sprintf("player %d gathered %d from node %d (total %d)", ev.Player, ev.Amount, ev.Node, ev.Total)
	case game.NodeRegenerated:
		return fmt.Sprintf("node %d regenerated to %d", ev.Node, ev.Value)
	case game.GameEnded:
		return strings.ToLower(outcomeLine(ev.Winner, ev.Reason))
	}
	return string(ev.Kind())
}
