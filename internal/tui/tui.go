// Package tui is the terminal front end for the dealer table and the duel.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/blackjack/internal/game"
)

// DefaultBet is offered at the bet prompt before any bet has been placed
const DefaultBet = 10

// Model is the Bubble Tea model for one table. Exactly one of game and
// duel is set.
type Model struct {
	game   *game.Game
	duel   *game.Duel
	logger *log.Logger

	betInput    textinput.Model
	historyView viewport.Model
	prompting   bool
	lastBet     int
	notice      string

	width    int
	height   int
	quitting bool
}

// NewGameModel creates a model playing against the dealer
func NewGameModel(g *game.Game, logger *log.Logger) *Model {
	m := newModel(logger)
	m.game = g
	return m
}

// NewDuelModel creates a model for two players sharing the keyboard
func NewDuelModel(d *game.Duel, logger *log.Logger) *Model {
	m := newModel(logger)
	m.duel = d
	return m
}

func newModel(logger *log.Logger) *Model {
	ti := textinput.New()
	ti.Prompt = "Bet: $"
	ti.Placeholder = strconv.Itoa(DefaultBet)
	ti.CharLimit = 9
	ti.Width = 12
	ti.PromptStyle = MoneyStyle
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))

	return &Model{
		logger:      logger.WithPrefix("tui"),
		betInput:    ti,
		historyView: viewport.New(34, game.DefaultHistorySize+2),
	}
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd { return nil }

// History returns the settled rounds of whichever table is in play
func (m *Model) History() []game.HistoryEntry {
	if m.duel != nil {
		return m.duel.History()
	}
	return m.game.History()
}

// Prompting reports whether the bet prompt is open
func (m *Model) Prompting() bool { return m.prompting }

// Notice returns the last error shown to the user
func (m *Model) Notice() string { return m.notice }

// Update handles key presses and window resizes
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if m.prompting {
			return m.updatePrompt(msg)
		}
		return m.handleKey(msg)
	}

	if m.prompting {
		var cmd tea.Cmd
		m.betInput, cmd = m.betInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.notice = ""

	switch msg.String() {
	case "q", "esc":
		return m.quit()
	case "h":
		m.apply(game.ActionHit, 0)
	case "s":
		m.apply(game.ActionStand, 0)
	case "d":
		if m.game != nil {
			m.apply(game.ActionDouble, 0)
		}
	case "r":
		if m.game != nil {
			m.apply(game.ActionResetBalance, 0)
		}
	case "n":
		if m.duel != nil {
			m.apply(game.ActionStart, 0)
			break
		}
		if state := m.game.State(); state == game.PlayerTurn || state == game.DealerTurn {
			m.notice = "Finish the round first."
			break
		}
		m.prompting = true
		m.betInput.SetValue(strconv.Itoa(m.suggestedBet()))
		m.betInput.CursorEnd()
		return m, m.betInput.Focus()
	}
	return m, nil
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		bet, err := strconv.Atoi(strings.TrimSpace(m.betInput.Value()))
		if err != nil {
			m.notice = "Bet must be a whole number."
			return m, nil
		}
		if err := m.apply(game.ActionStart, bet); err != nil {
			return m, nil
		}
		m.lastBet = bet
		m.closePrompt()
		return m, nil
	}

	var cmd tea.Cmd
	m.betInput, cmd = m.betInput.Update(msg)
	return m, cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.betInput.Blur()
	m.betInput.SetValue("")
}

// suggestedBet is the last bet while the balance still covers it
func (m *Model) suggestedBet() int {
	balance := m.game.Balance()
	if m.lastBet > 0 && m.lastBet <= balance {
		return m.lastBet
	}
	return min(DefaultBet, balance)
}

func (m *Model) apply(action game.Action, bet int) error {
	var err error
	if m.duel != nil {
		err = m.duel.Apply(action)
	} else {
		err = m.game.Apply(action, bet)
	}
	if err != nil {
		m.notice = err.Error()
		m.logger.Debug("Action rejected", "action", action, "bet", bet, "error", err)
		return err
	}
	m.notice = ""
	return nil
}

// View renders the table beside the history panel
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	title, table := "Blackjack", ""
	if m.duel != nil {
		title, table = "Blackjack Duel", m.renderDuel()
	} else {
		table = m.renderGame()
	}

	m.historyView.SetContent(m.renderHistory())
	tablePane := TablePaneStyle.Width(44).Render(table)
	historyPane := HistoryPaneStyle.Render(m.historyView.View())

	// Narrow terminals get the history below the table
	body := lipgloss.JoinHorizontal(lipgloss.Top, tablePane, historyPane)
	if m.width > 0 && m.width < lipgloss.Width(body) {
		body = lipgloss.JoinVertical(lipgloss.Left, tablePane, historyPane)
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(body)
	b.WriteString("\n")
	if m.prompting {
		b.WriteString(m.betInput.View())
		b.WriteString(InfoStyle.Render("  enter to deal, esc to cancel"))
		b.WriteString("\n")
	}
	if m.notice != "" {
		b.WriteString(LossStyle.Render(m.notice))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(m.help()))
	return b.String()
}

func (m *Model) help() string {
	if m.duel != nil {
		return "n new round • h hit • s stand • q quit"
	}
	return "n new round • h hit • s stand • d double • r reset • q quit"
}

func (m *Model) renderGame() string {
	v := m.game.View()

	dealer := v.DealerName
	if dealer == "" {
		dealer = "Dealer"
	}

	var b strings.Builder
	b.WriteString(renderHand(dealer, v.Dealer, v.DealerRevealed))
	b.WriteString("\n")
	b.WriteString(renderHand("You", v.Player, true))
	b.WriteString("\n\n")
	b.WriteString(MoneyStyle.Render(fmt.Sprintf("Balance: $%d", v.Balance)))
	if v.Bet > 0 {
		b.WriteString("  ")
		b.WriteString(MoneyStyle.Render(fmt.Sprintf("Bet: $%d", v.Bet)))
	}
	b.WriteString("\n")
	b.WriteString(resultStyle(v.Result).Render(v.Message))
	return b.String()
}

func (m *Model) renderDuel() string {
	v := m.duel.View()

	var b strings.Builder
	for i, seat := range v.Seats {
		marker := "  "
		if v.Turn == i+1 {
			marker = "▶ "
		}
		b.WriteString(marker)
		b.WriteString(renderHand(seat.Name, seat.Hand, true))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(resultStyle(v.Result).Render(v.Message))
	return b.String()
}

func renderHand(label string, h game.HandView, showScore bool) string {
	cards := make([]string, len(h.Cards))
	for i, c := range h.Cards {
		cards[i] = renderCard(c)
	}

	line := HandLabelStyle.Render(label+":") + " " + strings.Join(cards, " ")
	if !showScore || len(h.Cards) == 0 {
		return line
	}

	score := fmt.Sprintf(" = %d", h.Score)
	switch {
	case h.Bust:
		return line + LossStyle.Render(score+" bust")
	case h.Soft:
		return line + score + InfoStyle.Render(" soft")
	default:
		return line + score
	}
}

func renderCard(c string) string {
	switch {
	case c == game.HiddenCard:
		return HiddenCardStyle.Render(c)
	case strings.ContainsAny(c, "♥♦"):
		return RedCardStyle.Render(c)
	default:
		return BlackCardStyle.Render(c)
	}
}

func resultStyle(r game.Result) lipgloss.Style {
	switch r {
	case game.Win:
		return WinStyle
	case game.Loss:
		return LossStyle
	case game.Push:
		return PushStyle
	default:
		return lipgloss.NewStyle()
	}
}

func (m *Model) renderHistory() string {
	history := m.History()

	var b strings.Builder
	if len(history) == 0 {
		b.WriteString(InfoStyle.Render("No rounds yet"))
		return b.String()
	}

	var wins, losses, pushes int
	if m.duel != nil {
		wins, losses, pushes = m.duel.Tally()
	} else {
		wins, losses, pushes = m.game.Tally()
	}
	b.WriteString(fmt.Sprintf("W %d  L %d  P %d\n", wins, losses, pushes))

	for _, e := range history {
		line := fmt.Sprintf("#%-3d %-4s %2d v %2d", e.Round, e.Result, e.PlayerScore, e.DealerScore)
		if m.game != nil {
			line += fmt.Sprintf("  $%d", e.Balance)
		}
		b.WriteString("\n")
		b.WriteString(resultStyle(e.Result).Render(line))
	}
	return b.String()
}
