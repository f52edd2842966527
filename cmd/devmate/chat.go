// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	flag "github.com/spf13/pflag"

	"github.com/kraklabs/devmate/internal/errors"
	"github.com/kraklabs/devmate/internal/render"
	"github.com/kraklabs/devmate/internal/ui"
	"github.com/kraklabs/devmate/pkg/llm"
)

// runChat executes the 'chat' CLI command, the interactive session.
//
// A full-screen UI is used when stdin and stdout are terminals. Otherwise,
// or with --plain, input is read line by line, which suits pipes and
// scripted use.
func runChat(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("chat", flag.ExitOnError)
	plain := fs.Bool("plain", false, "Use line-by-line mode instead of the full-screen UI")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: devmate [chat] [options]

Starts an interactive session. Type /help inside the session for commands.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	a, err := newApp(globals)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	client, err := a.newClient(a.settings.Provider)
	if err != nil {
		errors.FatalError(err, globals.JSON)
	}
	sess := newSession(a.newAssistant(client), a.catalog, func(provider string) (llm.ProviderClient, error) {
		c, err := a.newClient(provider)
		if err != nil {
			return nil, err
		}
		return c, nil
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	interactive := isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
	if *plain || !interactive {
		runLineSession(ctx, sess, os.Stdin, os.Stdout, a.renderer, NewProgressConfig(globals))
		return
	}

	model := newChatModel(ctx, sess, a.settings.NoColor || !a.settings.Markdown)
	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		errors.FatalError(errors.NewInternalError("Chat session failed", err.Error(), "Retry with --plain", err), globals.JSON)
	}
}

// userMessage returns the message of a UserError, or the error text.
func userMessage(err error) string {
	var ue *errors.UserError
	if stderrors.As(err, &ue) {
		return ue.Message
	}
	return err.Error()
}

// =============================================================================
// LINE MODE
// =============================================================================

func runLineSession(ctx context.Context, sess *session, in io.Reader, out io.Writer, r *render.Renderer, progress ProgressConfig) {
	fmt.Fprintln(out, ui.Cyan.Sprint(welcomeText))
	fmt.Fprintln(out)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for {
		fmt.Fprint(out, ui.Green.Sprint("> "))
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return
		}

		act := sess.handle(scanner.Text())
		for _, n := range act.notices {
			fmt.Fprintln(out, noticeText(n))
		}
		if act.work != nil {
			fmt.Fprintln(out, ui.Yellow.Sprint(act.pending))
			reply := withSpinner(progress, "Thinking", func() string { return act.work(ctx) })
			fmt.Fprintln(out, r.Markdown(reply))
		}
		if act.quit || ctx.Err() != nil {
			return
		}
		fmt.Fprintln(out)
	}
}

func noticeText(n notice) string {
	switch n.kind {
	case noticeSuccess:
		return ui.Green.Sprint(n.text)
	case noticeWarn:
		return ui.Yellow.Sprint(n.text)
	case noticeError:
		return ui.Red.Sprint(n.text)
	default:
		return ui.Cyan.Sprint(n.text)
	}
}

// =============================================================================
// FULL-SCREEN MODE
// =============================================================================

// Layout constants
const (
	headerHeight = 3
	inputHeight  = 3
)

var (
	primaryColor   = lipgloss.Color("#00D7FF")
	secondaryColor = lipgloss.Color("#00FF87")
	mutedColor     = lipgloss.Color("#666666")
	warnColor      = lipgloss.Color("#FFD75F")
	errorColor     = lipgloss.Color("#FF5555")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	userStyle    = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	modelStyle   = lipgloss.NewStyle().Bold(true).Foreground(secondaryColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(secondaryColor)
	warnStyle    = lipgloss.NewStyle().Foreground(warnColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
)

type entryRole int

const (
	entryUser entryRole = iota
	entryAssistant
	entryNotice
)

type chatEntry struct {
	role   entryRole
	text   string
	notice noticeKind
}

// replyMsg carries the result of background work back to Update.
type replyMsg struct{ text string }

type chatModel struct {
	ctx      context.Context
	sess     *session
	plain    bool
	renderer *render.Renderer
	entries  []chatEntry
	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	width    int
	height   int
	ready    bool
	loading  bool
	pending  string
}

func newChatModel(ctx context.Context, sess *session, plain bool) *chatModel {
	ta := textarea.New()
	ta.Placeholder = "Ask a question or type /help (Enter to send)"
	ta.Focus()
	ta.CharLimit = 8000
	ta.SetHeight(1)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(secondaryColor)

	return &chatModel{
		ctx:      ctx,
		sess:     sess,
		plain:    plain,
		renderer: render.New(render.DefaultWidth, plain),
		textarea: ta,
		spinner:  sp,
		entries:  []chatEntry{{role: entryNotice, text: welcomeText, notice: noticeInfo}},
	}
}

func (m *chatModel) Init() tea.Cmd {
	return textarea.Blink
}

func (m *chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.loading {
				return m, nil
			}
			input := strings.TrimSpace(m.textarea.Value())
			if input == "" {
				return m, nil
			}
			m.textarea.Reset()
			return m, m.apply(input, m.sess.handle(input))

		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case replyMsg:
		m.loading = false
		m.pending = ""
		m.entries = append(m.entries, chatEntry{role: entryAssistant, text: msg.text})
		m.refreshViewport()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		m.refreshViewport()
		return m, cmd
	}

	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// apply records the input and the action's effects, and starts any work.
func (m *chatModel) apply(input string, act action) tea.Cmd {
	if act.cleared {
		m.entries = nil
	} else {
		m.entries = append(m.entries, chatEntry{role: entryUser, text: input})
	}
	for _, n := range act.notices {
		m.entries = append(m.entries, chatEntry{role: entryNotice, text: n.text, notice: n.kind})
	}
	m.refreshViewport()

	if act.quit {
		return tea.Quit
	}
	if act.work == nil {
		return nil
	}

	m.loading = true
	m.pending = act.pending
	m.refreshViewport()
	work, ctx := act.work, m.ctx
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return replyMsg{text: work(ctx)}
	})
}

func (m *chatModel) resize(width, height int) {
	m.width = width
	m.height = height

	vpHeight := height - headerHeight - inputHeight - 2
	if vpHeight < 1 {
		vpHeight = 1
	}
	if !m.ready {
		m.viewport = viewport.New(width, vpHeight)
		m.viewport.MouseWheelEnabled = false
		m.ready = true
	} else {
		m.viewport.Width = width
		m.viewport.Height = vpHeight
	}
	m.textarea.SetWidth(width - 2)
	m.renderer = render.New(width-4, m.plain)
	m.refreshViewport()
}

func (m *chatModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	client := m.sess.asst.Client()
	header := headerStyle.Render("devmate") + mutedStyle.Render(fmt.Sprintf("  %s · %s", m.sess.cat.DisplayName(client.Name()), client.Model())) + "\n"
	header += mutedStyle.Render("Session "+m.sess.asst.SessionID()[:8]) + "\n"
	header += mutedStyle.Render(strings.Repeat("─", m.width))

	inputSep := mutedStyle.Render(strings.Repeat("─", m.width))
	status := mutedStyle.Render("Ctrl+C: exit | /help: commands | PgUp/PgDn: scroll")

	return header + "\n" + m.viewport.View() + "\n" + inputSep + "\n" + m.textarea.View() + "\n" + status
}

func (m *chatModel) refreshViewport() {
	if !m.ready {
		return
	}
	var sb strings.Builder
	modelName := m.sess.asst.Client().Model()

	for _, e := range m.entries {
		switch e.role {
		case entryUser:
			sb.WriteString(userStyle.Render("you >") + "\n")
			sb.WriteString(e.text + "\n\n")
		case entryAssistant:
			sb.WriteString(modelStyle.Render(modelName+" >") + "\n")
			sb.WriteString(m.renderer.Markdown(e.text))
			sb.WriteString("\n\n")
		case entryNotice:
			sb.WriteString(noticeStyle(e.notice).Render(e.text) + "\n\n")
		}
	}

	if m.loading {
		sb.WriteString(m.spinner.View() + " " + mutedStyle.Italic(true).Render(m.pending) + "\n")
	}

	m.viewport.SetContent(sb.String())
	m.viewport.GotoBottom()
}

func noticeStyle(kind noticeKind) lipgloss.Style {
	switch kind {
	case noticeSuccess:
		return successStyle
	case noticeWarn:
		return warnStyle
	case noticeError:
		return errorStyle
	default:
		return mutedStyle
	}
}
