package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const (
	roleUser   = "user"
	roleAI     = "ai"
	roleNotice = "notice"
)

// returns a new chat view bound to the given connection
func NewChatModel(client *WSClient) *ChatModel {
	ti := textinput.New()
	ti.Placeholder = "say something..."
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 80
	ti.Prompt = "> "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(colorLightGray)
	ti.TextStyle = lipgloss.NewStyle().Foreground(colorWhite)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorPurple)

	return &ChatModel{
		input:   ti,
		spinner: sp,
		client:  client,
	}
}

func (m *ChatModel) Init() tea.Cmd {
	return tea.Batch(m.client.WaitForEvent(), textinput.Blink)
}

func (m *ChatModel) Update(msg tea.Msg) (*ChatModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			prompt := strings.TrimSpace(m.input.Value())
			if prompt == "" || m.isWaiting {
				return m, nil
			}

			m.input.SetValue("")
			m.conversation = append(m.conversation, chatTurn{role: roleUser, text: prompt})
			m.refreshViewport()

			if err := m.client.SendPrompt(prompt); err != nil {
				m.conversation = append(m.conversation, chatTurn{role: roleNotice, text: err.Error()})
				m.refreshViewport()
				return m, nil
			}

			m.isWaiting = true
			return m, m.spinner.Tick

		case "ctrl+l":
			m.conversation = nil
			m.refreshViewport()
			return m, nil
		}

	case AIResponseMsg:
		m.isWaiting = false
		m.conversation = append(m.conversation, chatTurn{role: roleAI, text: msg.text})
		m.refreshViewport()
		m.input.Focus()
		return m, m.client.WaitForEvent()

	case AIErrorMsg:
		m.isWaiting = false
		m.conversation = append(m.conversation, chatTurn{role: roleNotice, text: msg.notice})
		m.refreshViewport()
		m.input.Focus()
		return m, m.client.WaitForEvent()

	case spinner.TickMsg:
		if m.isWaiting {
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 10

		viewportHeight := msg.Height - 8
		if viewportHeight < 3 {
			viewportHeight = 3
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true

			renderer, err := glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(msg.Width-8),
			)
			if err == nil {
				m.glamourRenderer = renderer
			}
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}

		m.refreshViewport()
	}

	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// rebuilds the viewport content from the conversation
func (m *ChatModel) refreshViewport() {
	if !m.ready {
		return
	}

	var b strings.Builder

	if len(m.conversation) == 0 {
		b.WriteString(infoStyle.Render("connected. type a message below and press enter."))
	}

	for _, turn := range m.conversation {
		switch turn.role {
		case roleUser:
			b.WriteString(userLabelStyle.Render("you"))
			b.WriteString("\n")
			b.WriteString(turn.text)

		case roleAI:
			b.WriteString(aiLabelStyle.Render("ai"))
			b.WriteString("\n")
			b.WriteString(m.renderMarkdown(turn.text))

		case roleNotice:
			b.WriteString(noticeStyle.Render("⚠ " + turn.text))
		}

		b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

// renders AI responses as markdown when a renderer is available
func (m *ChatModel) renderMarkdown(text string) string {
	if m.glamourRenderer == nil {
		return text
	}

	rendered, err := m.glamourRenderer.Render(text)
	if err != nil {
		return text
	}

	return strings.TrimSpace(rendered)
}

func (m *ChatModel) View() string {
	if !m.ready {
		return "\n  loading..."
	}

	var b strings.Builder

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorWhite).
		Render("RELAYCHAT")

	help := lipgloss.NewStyle().
		Foreground(colorGray).
		Render("[Enter: Send] [Ctrl+L: Clear] [Ctrl+C: Exit]")

	headerLine := lipgloss.JoinHorizontal(lipgloss.Left,
		header,
		strings.Repeat(" ", max(0, m.width-len("RELAYCHAT")-len(help)-2)),
		help,
	)

	b.WriteString(headerLine)
	b.WriteString("\n\n")

	conversationBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Render(m.viewport.View())

	b.WriteString(conversationBox)
	b.WriteString("\n")

	inputBox := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorGray).
		Width(m.width - 4).
		Padding(0, 1).
		Render(m.input.View())

	b.WriteString(inputBox)
	b.WriteString("\n")

	if m.isWaiting {
		b.WriteString(fmt.Sprintf("%s %s",
			m.spinner.View(),
			infoStyle.Render("waiting for response...")))
	}

	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
