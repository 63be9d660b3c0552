package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kamal-hamza/pixelshare/internal/adapters/preview"
	"github.com/kamal-hamza/pixelshare/internal/core/domain"
	"github.com/kamal-hamza/pixelshare/internal/core/services"
	"github.com/kamal-hamza/pixelshare/pkg/media"
	"github.com/kamal-hamza/pixelshare/pkg/ui"
)

// appCmd represents the app command
var appCmd = &cobra.Command{
	Use:     "app",
	Aliases: []string{"ui"},
	Short:   "Launch the interactive share/retrieve app (alias: ui)",
	Long: `Launch a full-screen app with a Share tab and a Retrieve tab.

Keyboard Shortcuts:
  Tabs:
    Tab         Switch between Share and Retrieve

  Share:
    Enter       Select the typed path / confirm share
    Esc         Cancel the current selection or a pending share
    c           Copy the key
    n           Share another image

  Retrieve:
    Enter       Look up the typed key
    Esc         Cancel a pending lookup
    s           Save the image to the cache
    o           Open the image
    n           Retrieve another image

  General:
    ?           Show help
    q           Quit (outside text fields)
    Ctrl+C      Force quit`,
	RunE: runApp,
}

func runApp(cmd *cobra.Command, args []string) error {
	m := newAppModel(getContext(), viewController, previews)

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running app: %w", err)
	}

	viewController.Share().Reset()
	viewController.Retrieve().Reset()
	return nil
}

// appModel renders whatever the view controller describes and turns key
// presses into flow operations.
type appModel struct {
	ctx      context.Context
	vc       *services.ViewController
	previews *preview.Registry

	// Flow snapshots published by the observers registered in newAppModel
	snapshots chan tea.Msg

	pathInput textinput.Model
	keyInput  textinput.Model
	spinner   spinner.Model
	help      help.Model
	keys      appKeyMap

	width  int
	height int

	message       string
	messageStyle  lipgloss.Style
	messageExpiry time.Time
}

// Messages
type shareSnapshotMsg struct{ state domain.ShareState }
type retrieveSnapshotMsg struct{ state domain.RetrieveState }
type appStatusMsg struct {
	message string
	style   lipgloss.Style
}
type appClearMsg struct{}

type appKeyMap struct {
	Switch  key.Binding
	Submit  key.Binding
	Cancel  key.Binding
	Copy    key.Binding
	Another key.Binding
	Save    key.Binding
	Open    key.Binding
	Help    key.Binding
	Quit    key.Binding
	Force   key.Binding
}

func (k appKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Switch, k.Submit, k.Cancel, k.Help, k.Quit}
}

func (k appKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Switch, k.Submit, k.Cancel},
		{k.Copy, k.Another, k.Save, k.Open},
		{k.Help, k.Quit, k.Force},
	}
}

var appKeys = appKeyMap{
	Switch: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch tab"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "submit"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Copy: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy key"),
	),
	Another: key.NewBinding(
		key.WithKeys("n"),
		key.WithHelp("n", "another"),
	),
	Save: key.NewBinding(
		key.WithKeys("s"),
		key.WithHelp("s", "save image"),
	),
	Open: key.NewBinding(
		key.WithKeys("o"),
		key.WithHelp("o", "open image"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	Force: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "force quit"),
	),
}

func newAppModel(ctx context.Context, vc *services.ViewController, previews *preview.Registry) appModel {
	pi := textinput.New()
	pi.Placeholder = "path/to/image.png"
	pi.CharLimit = 4096
	pi.Width = 50
	pi.Prompt = ui.IconImage + " "
	pi.Focus()

	ki := textinput.New()
	ki.Placeholder = "pixelperfect-..."
	ki.CharLimit = 256
	ki.Width = 50
	ki.Prompt = ui.IconKey + " "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.StylePrimary

	// Snapshots only wake the loop; View always reads the flows directly,
	// so a dropped snapshot loses nothing
	snapshots := make(chan tea.Msg, 32)
	vc.Share().Observe(func(s domain.ShareState) {
		select {
		case snapshots <- shareSnapshotMsg{state: s}:
		default:
		}
	})
	vc.Retrieve().Observe(func(s domain.RetrieveState) {
		select {
		case snapshots <- retrieveSnapshotMsg{state: s}:
		default:
		}
	})

	return appModel{
		ctx:       ctx,
		vc:        vc,
		previews:  previews,
		snapshots: snapshots,
		pathInput: pi,
		keyInput:  ki,
		spinner:   sp,
		help:      help.New(),
		keys:      appKeys,
	}
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, waitForSnapshot(m.snapshots))
}

// waitForSnapshot delivers the next flow snapshot to Update
func waitForSnapshot(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Force) {
			return m, tea.Quit
		}
		if key.Matches(msg, m.keys.Switch) {
			return m.switchMode()
		}
		d := m.vc.Render()
		if d.Busy() {
			return m.updateLoading(msg, d.Mode)
		}
		screen := d.Screen
		typing := screen == services.ScreenUploader || screen == services.ScreenRetriever
		if !typing && key.Matches(msg, m.keys.Help) {
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		switch screen {
		case services.ScreenUploader:
			return m.updateUploader(msg)
		case services.ScreenPreview:
			return m.updatePreview(msg)
		case services.ScreenShareResult:
			return m.updateShareResult(msg)
		case services.ScreenRetriever:
			return m.updateRetriever(msg)
		case services.ScreenImage:
			return m.updateImage(msg)
		}
		return m, nil

	case shareSnapshotMsg:
		next := waitForSnapshot(m.snapshots)
		if msg.state.Phase == domain.ShareShared {
			m.message = "Key generated"
			m.messageStyle = ui.StyleSuccess
			m.messageExpiry = time.Now().Add(3 * time.Second)
			return m, tea.Batch(next, clearStatusAfter(3*time.Second))
		}
		return m, next

	case retrieveSnapshotMsg:
		s := msg.state
		if s.Terminal() && s.Phase != domain.RetrieveFound && m.vc.Mode() == services.ModeRetrieve {
			m.keyInput.Focus()
		}
		return m, waitForSnapshot(m.snapshots)

	case appStatusMsg:
		m.message = msg.message
		m.messageStyle = msg.style
		m.messageExpiry = time.Now().Add(3 * time.Second)
		return m, clearStatusAfter(3 * time.Second)

	case appClearMsg:
		if time.Now().After(m.messageExpiry) {
			m.message = ""
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m appModel) switchMode() (tea.Model, tea.Cmd) {
	if m.vc.Mode() == services.ModeShare {
		m.vc.SetMode(services.ModeRetrieve)
		m.pathInput.Blur()
		m.keyInput.Focus()
	} else {
		m.vc.SetMode(services.ModeShare)
		m.keyInput.Blur()
		m.pathInput.Focus()
	}
	return m, textinput.Blink
}

// updateLoading handles keys while a share or lookup is pending.
// Esc resets the active flow; the pending result is then discarded.
func (m appModel) updateLoading(msg tea.KeyMsg, mode services.Mode) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if mode == services.ModeShare {
			m.vc.Share().Reset()
			m.pathInput.SetValue("")
			m.pathInput.Focus()
		} else {
			m.vc.Retrieve().Reset()
			m.keyInput.Focus()
		}
		return m, tea.Batch(textinput.Blink, m.setStatus("Cancelled", ui.StyleWarning))
	}
	return m, nil
}

func (m appModel) updateUploader(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		path := strings.TrimSpace(m.pathInput.Value())
		if path == "" {
			return m, nil
		}
		candidate, err := loadCandidate(path)
		if err != nil {
			return m, m.setStatus(err.Error(), ui.StyleError)
		}
		state := m.vc.Share().SelectFile(candidate)
		if !state.HasError() {
			m.pathInput.Blur()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m appModel) updatePreview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		m.vc.Share().Reset()
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Submit):
		job, ok := m.vc.Share().BeginShare()
		if !ok {
			return m, nil
		}
		ctx := m.ctx
		return m, func() tea.Msg {
			job.Run(ctx)
			return nil
		}
	}
	return m, nil
}

func (m appModel) updateShareResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.vc.Share().State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Copy):
		if err := copyKey(state.Key); err != nil {
			return m, m.setStatus("Could not copy the key", ui.StyleError)
		}
		return m, m.setStatus("Key copied to clipboard", ui.StyleSuccess)
	case key.Matches(msg, m.keys.Another), key.Matches(msg, m.keys.Cancel):
		m.vc.Share().Reset()
		m.pathInput.SetValue("")
		m.pathInput.Focus()
		return m, textinput.Blink
	}
	return m, nil
}

func (m appModel) updateRetriever(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Submit) {
		job, _ := m.vc.Retrieve().BeginRetrieve(m.keyInput.Value())
		if job == nil {
			return m, nil
		}
		m.keyInput.Blur()
		ctx := m.ctx
		return m, func() tea.Msg {
			job.Run(ctx)
			return nil
		}
	}

	var cmd tea.Cmd
	m.keyInput, cmd = m.keyInput.Update(msg)
	return m, cmd
}

func (m appModel) updateImage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	state := m.vc.Retrieve().State()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Another), key.Matches(msg, m.keys.Cancel):
		m.vc.Retrieve().Reset()
		m.keyInput.SetValue("")
		m.keyInput.Focus()
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Save), key.Matches(msg, m.keys.Open):
		open := key.Matches(msg, m.keys.Open)
		img, k := state.Image, state.Key
		return m, func() tea.Msg {
			path, err := saveDecoded(img, k, "")
			if err != nil {
				return appStatusMsg{message: err.Error(), style: ui.StyleError}
			}
			if open {
				if err := OpenFile(path, appConfig.ImageViewer); err != nil {
					return appStatusMsg{message: err.Error(), style: ui.StyleError}
				}
			}
			return appStatusMsg{message: "Saved to " + path, style: ui.StyleSuccess}
		}
	}
	return m, nil
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return appClearMsg{} })
}

func (m appModel) setStatus(message string, style lipgloss.Style) tea.Cmd {
	return func() tea.Msg {
		return appStatusMsg{message: message, style: style}
	}
}

// loadCandidate reads the whole file so the selection does not hold it open
func loadCandidate(path string) (domain.FileCandidate, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return domain.FileCandidate{}, err
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return domain.FileCandidate{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return domain.FileCandidate{
		Name:        filepath.Base(absPath),
		ContentType: media.ContentTypeFor(absPath),
		Source:      bytes.NewReader(data),
	}, nil
}

func (m appModel) View() string {
	d := m.vc.Render()

	var b strings.Builder
	b.WriteString(m.renderTabs(d.Mode))
	b.WriteString("\n\n")

	var body string
	switch d.Screen {
	case services.ScreenUploader:
		body = m.viewUploader(d)
	case services.ScreenPreview:
		body = m.viewPreview(d)
	case services.ScreenLoading:
		body = m.spinner.View() + " " + d.Loading
		if d.FileName != "" {
			body += "\n" + ui.FormatMuted(d.FileName)
		}
	case services.ScreenShareResult:
		body = m.viewShareResult(d)
	case services.ScreenRetriever:
		body = m.viewRetriever(d)
	case services.ScreenImage:
		body = m.viewImage(d)
	}
	b.WriteString(ui.StyleCard.Render(body))
	b.WriteString("\n\n")

	if m.message != "" {
		b.WriteString(m.messageStyle.Render(m.message))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	b.WriteString(ui.FormatMuted(services.FooterNotice))

	return b.String()
}

func (m appModel) renderTabs(mode services.Mode) string {
	share, retrieve := ui.StyleTabInactive, ui.StyleTabInactive
	if mode == services.ModeShare {
		share = ui.StyleTabActive
	} else {
		retrieve = ui.StyleTabActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		share.Render("Share"),
		retrieve.Render("Retrieve"),
	)
}

func (m appModel) viewUploader(d services.Descriptor) string {
	lines := []string{
		ui.StyleTitle.Render(d.Title),
		ui.FormatMuted(d.Subtitle),
		"",
		m.pathInput.View(),
	}
	if d.Error != "" {
		lines = append(lines, "", ui.FormatError(d.Error))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewPreview(d services.Descriptor) string {
	lines := []string{ui.StyleTitle.Render("Ready to share")}
	if entry, ok := m.previews.Lookup(d.Preview); ok {
		lines = append(lines,
			ui.RenderKeyValue("File", entry.Name),
			ui.RenderKeyValue("Type", entry.ContentType),
		)
	} else {
		lines = append(lines, ui.RenderKeyValue("File", d.FileName))
	}
	if d.Error != "" {
		lines = append(lines, "", ui.FormatError(d.Error))
	}
	lines = append(lines, "", ui.FormatMuted("enter: share  esc: cancel"))
	return strings.Join(lines, "\n")
}

func (m appModel) viewShareResult(d services.Descriptor) string {
	return strings.Join([]string{
		ui.StyleTitle.Render(d.Title),
		ui.FormatMuted(d.Subtitle),
		"",
		ui.FormatKey(d.Key.String()),
		"",
		ui.FormatMuted("c: copy key  n: share another"),
	}, "\n")
}

func (m appModel) viewRetriever(d services.Descriptor) string {
	lines := []string{
		ui.StyleTitle.Render(d.Title),
		ui.FormatMuted(d.Subtitle),
		"",
		m.keyInput.View(),
	}
	if d.Error != "" {
		lines = append(lines, "", ui.FormatError(d.Error))
	}
	return strings.Join(lines, "\n")
}

func (m appModel) viewImage(d services.Descriptor) string {
	return strings.Join([]string{
		ui.StyleTitle.Render(ui.IconImage + " Image loaded"),
		"",
		ui.RenderKeyValue("Key", d.Key.String()),
		ui.RenderKeyValue("Type", d.Image.MimeType),
		ui.RenderKeyValue("Size", ui.FormatBytes(d.Image.Size())),
		"",
		ui.FormatMuted("s: save  o: open  n: retrieve another"),
	}, "\n")
}
