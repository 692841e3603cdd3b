package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/yamakage/souji/internal/cleaner"
	"github.com/yamakage/souji/internal/engine"
)

// NewConfirmer picks the per-item confirmer for the current terminal:
// single-keystroke on a TTY, line-based otherwise (pipes, tests).
func NewConfirmer() engine.Confirmer {
	if isatty.IsTerminal(os.Stdin.Fd()) {
		return &teaConfirmer{}
	}
	return NewLineConfirmer(os.Stdin, os.Stderr)
}

// ─── Line confirmer ──────────────────────────────────────────────────────────

// LineConfirmer reads one y/n/q answer per item from a reader. End of
// input counts as quit so a drained pipe can't delete anything.
type LineConfirmer struct {
	r *bufio.Reader
	w io.Writer
}

// NewLineConfirmer builds a LineConfirmer over the given streams.
func NewLineConfirmer(r io.Reader, w io.Writer) *LineConfirmer {
	return &LineConfirmer{r: bufio.NewReader(r), w: w}
}

// Confirm implements engine.Confirmer. Anything other than y or q is a no.
func (c *LineConfirmer) Confirm(item cleaner.Item) (engine.Decision, error) {
	fmt.Fprintf(c.w, "%s %s (%s)? [y/n/q] ",
		warnStyle.Render("delete"),
		pathStyle.Render(item.Name),
		sizeStyle.Render(SizeLabel(item)))

	line, err := c.r.ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return engine.DecisionQuit, nil
		}
		return engine.DecisionQuit, err
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return engine.DecisionYes, nil
	case "q", "quit":
		return engine.DecisionQuit, nil
	default:
		return engine.DecisionNo, nil
	}
}

// ─── Keystroke confirmer ─────────────────────────────────────────────────────

// teaConfirmer shows one-keystroke prompts on a real terminal.
type teaConfirmer struct{}

func (teaConfirmer) Confirm(item cleaner.Item) (engine.Decision, error) {
	m, err := tea.NewProgram(confirmModel{item: item}, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return engine.DecisionQuit, err
	}
	return m.(confirmModel).decision, nil
}

type confirmModel struct {
	item     cleaner.Item
	decision engine.Decision
	answered bool
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "y", "Y":
		m.decision = engine.DecisionYes
	case "n", "N":
		m.decision = engine.DecisionNo
	case "q", "Q", "esc", "ctrl+c":
		m.decision = engine.DecisionQuit
	default:
		return m, nil
	}
	m.answered = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	if m.answered {
		return ""
	}
	return fmt.Sprintf("%s %s (%s)?  %s\n",
		warnStyle.Render("delete"),
		pathStyle.Render(m.item.Name),
		sizeStyle.Render(SizeLabel(m.item)),
		dimStyle.Render("[y]es  [n]o  [q]uit"))
}
