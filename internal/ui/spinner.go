package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorIndigo500))

// Spinner shows progress of a blocking operation on stderr. On a non-TTY it
// prints the message once instead of animating.
type Spinner struct {
	mu      sync.Mutex
	output  io.Writer
	isTTY   bool
	program *tea.Program
	quitCh  chan struct{}
}

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
}

type msgUpdate string
type msgQuit struct{}

func newSpinnerModel(message string) spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = spinnerStyle
	return spinnerModel{
		spinner: s,
		message: message,
	}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case msgUpdate:
		m.message = string(msg)
		return m, nil
	case msgQuit:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s %s", m.spinner.View(), DimStyle.Render(m.message))
}

// NewSpinner creates a spinner writing to stderr.
func NewSpinner() *Spinner {
	return NewSpinnerTo(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewSpinnerTo creates a spinner writing to w. Animation is used only when
// isTTY is true.
func NewSpinnerTo(w io.Writer, isTTY bool) *Spinner {
	return &Spinner{output: w, isTTY: isTTY}
}

// Start shows message. Calling Start on a running spinner replaces the message.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.program != nil {
		s.program.Send(msgUpdate(message))
		return
	}

	if !s.isTTY {
		fmt.Fprintln(s.output, DimStyle.Render(message))
		return
	}

	s.quitCh = make(chan struct{})
	s.program = tea.NewProgram(newSpinnerModel(message), tea.WithOutput(s.output), tea.WithInput(nil))

	program, quitCh := s.program, s.quitCh
	go func() {
		_, _ = program.Run()
		close(quitCh)
	}()
}

// Stop ends the animation and waits until the spinner line is cleared.
func (s *Spinner) Stop() {
	s.mu.Lock()
	program, quitCh := s.program, s.quitCh
	s.program = nil
	s.mu.Unlock()

	if program == nil {
		return
	}
	program.Send(msgQuit{})
	<-quitCh
}

