package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tmc/langchaingo/llms"

	"agentic-rag/internal/agent"
)

// Asker is the TUI-facing subset of the agent.
type Asker interface {
	Run(ctx context.Context, in agent.Input) (agent.Result, error)
}

type line struct {
	role string
	text string
}

type answerMsg struct {
	output string
	err    error
}

// Chat is the Bubble Tea model for the interactive session. History lives
// here and only here; it is gone when the session ends.
type Chat struct {
	agent    Asker
	input    textinput.Model
	viewport viewport.Model
	history  []llms.MessageContent
	lines    []line
	status   string
	busy     bool
	ready    bool
}

func New(a Asker) Chat {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	return Chat{
		agent:    a,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

func (m Chat) Init() tea.Cmd { return textinput.Blink }

func (m Chat) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, qh := inputBoxStyle.GetFrameSize()
		_, ch := chatBoxStyle.GetFrameSize()
		vh := msg.Height - qh - ch - 3 // header, status, spacer
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width-chatBoxStyle.GetHorizontalFrameSize())
		m.viewport.Height = vh
		m.viewport.SetContent(m.renderLines())
		return m, nil

	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.lines = append(m.lines, line{role: "assistant", text: msg.output})
			m.history = append(m.history, llms.TextParts(llms.ChatMessageTypeAI, msg.output))
			m.status = "Ready."
		}
		m.viewport.SetContent(m.renderLines())
		m.viewport.GotoBottom()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		if msg.String() == "enter" && !m.busy {
			question := strings.TrimSpace(m.input.Value())
			if question == "" {
				return m, nil
			}
			m.input.Reset()
			m.lines = append(m.lines, line{role: "user", text: question})
			// snapshot before appending the current turn, so the
			// placeholder holds prior turns only
			previous := make([]llms.MessageContent, len(m.history))
			copy(previous, m.history)
			m.history = append(m.history, llms.TextParts(llms.ChatMessageTypeHuman, question))
			m.busy = true
			m.status = "Thinking..."
			m.viewport.SetContent(m.renderLines())
			m.viewport.GotoBottom()
			return m, ask(m.agent, question, previous)
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func ask(a Asker, question string, history []llms.MessageContent) tea.Cmd {
	return func() tea.Msg {
		res, err := a.Run(context.Background(), agent.Input{Input: question, ChatHistory: history})
		return answerMsg{output: res.Output, err: err}
	}
}

func (m Chat) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Agentic RAG Chat")
	chat := chatBoxStyle.Render(m.viewport.View())
	input := inputBoxStyle.Render(m.input.View())
	status := statusStyle.Render(m.status)
	return header + "\n" + chat + "\n" + input + "\n" + status
}

func (m Chat) renderLines() string {
	if len(m.lines) == 0 {
		return "No messages yet."
	}
	parts := make([]string, len(m.lines))
	for i, l := range m.lines {
		if l.role == "user" {
			parts[i] = userStyle.Render("You: ") + l.text
		} else {
			parts[i] = assistantStyle.Render("Assistant: ") + l.text
		}
	}
	return strings.Join(parts, "\n\n")
}

var (
	chatBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	userStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	assistantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
