package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/weftlabs/weft/internal/format"
	"github.com/weftlabs/weft/pkg/chats"
)

type ChatTUIModel struct {
	textInput textinput.Model
	viewport  viewport.Model
	messages  []chats.Message
	title     string
	waiting   bool

	getBotResponse func(messages []chats.Message) tea.Cmd
}

const (
	CHAT_INPUT_PLACEHOLDER = "Type a message..."
	CHAT_INIT_LOADING      = "Loading..."
	CHAT_WAITING_RESPONSE  = "> ⏳ Waiting for response..."
	CHAT_TYPING_INDICATOR  = "Bot: typing..."
)

var (
	userStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	botStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	titleStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true)
	inputStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true)
)

type InitialModelOptions struct {
	Title          string
	GetBotResponse func(messages []chats.Message) tea.Cmd
	Messages       []chats.Message
}

func InitialModel(opts InitialModelOptions) ChatTUIModel {
	ti := textinput.New()
	ti.Placeholder = CHAT_INPUT_PLACEHOLDER
	ti.Focus()

	return ChatTUIModel{
		textInput:      ti,
		viewport:       viewport.New(0, 0),
		title:          opts.Title,
		getBotResponse: opts.GetBotResponse,
		messages:       opts.Messages,
		waiting:        awaitingResponse(opts.Messages),
	}
}

// awaitingResponse reports whether the seeded history ends on a user turn,
// in which case the model owes a reply before the input opens.
func awaitingResponse(messages []chats.Message) bool {
	return len(messages) > 0 && messages[len(messages)-1].Role == chats.User
}

func (m ChatTUIModel) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		tea.EnableMouseCellMotion,
	}
	if m.waiting {
		cmds = append(cmds, m.getBotResponse(m.messages))
	}
	return tea.Batch(cmds...)
}

func (m ChatTUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		titleLines := (len(m.title) / msg.Width) + 1
		m.viewport = viewport.New(msg.Width, msg.Height-(3+titleLines))
		m.updateViewport()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelUp:
				m.viewport.ScrollUp(1)
			case tea.MouseButtonWheelDown:
				m.viewport.ScrollDown(1)
			}
		}

	case chats.Message:
		m.waiting = false
		m.messages = append(m.messages, msg)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			cmd = tea.Quit
		case tea.KeyEnter:
			if m.textInput.Value() != "" && !m.waiting {
				m.messages = append(m.messages, chats.NewUserMessage(m.textInput.Value()))
				m.waiting = true
				m.textInput.SetValue("")
				m.updateViewport()

				cmd = m.getBotResponse(m.messages)
			}
		}
	}

	m.textInput, _ = m.textInput.Update(msg)

	if m.waiting {
		m.textInput.Blur()
	} else {
		m.textInput.Focus()
	}

	return m, cmd
}

// updateViewport renders the visible history. System and tool messages
// stay in the history sent to the model but are not displayed.
func (m *ChatTUIModel) updateViewport() {
	displayedMessages := make([]string, 0, len(m.messages))
	for _, msg := range m.messages {
		switch msg.Role {
		case chats.Assistant:
			out, _ := format.FormatMarkdown(msg.Content)
			displayedMessages = append(displayedMessages, botStyle.Render(strings.TrimSpace(out)))
		case chats.User:
			displayedMessages = append(displayedMessages, userStyle.Render(fmt.Sprintf("> %s", msg.Content)))
		}
	}

	content := strings.Join(displayedMessages, "\n\n")
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m ChatTUIModel) View() string {
	input := m.textInput.View()

	if m.waiting {
		input = CHAT_WAITING_RESPONSE
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Width(m.viewport.Width).Render(m.title),
		m.viewport.View(),
		inputStyle.Width(m.viewport.Width).Render(input),
	)
}
