package setup

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"ainews/internal/config"
)

type userConfig struct {
	APIKey       string
	Section      string
	DatabasePath string
}

// Run executes the interactive setup flow:
// 1) greet
// 2) ask for the AI API key
// 3) ask for the default section
// 4) ask for the database location
// 5) write config and offer MCP client integration
func Run(ctx context.Context) error {
	cfgPath, err := config.ConfigPath()
	if err != nil {
		return err
	}
	cfgExists := fileExists(cfgPath)

	wiz := newWizardModel(cfgExists, config.DefaultSections())
	p := tea.NewProgram(wiz, tea.WithContext(ctx))
	res, err := p.Run()
	if err != nil {
		return err
	}
	wm, ok := res.(*wizardModel)
	if !ok || wm.cancelled {
		return errors.New("setup cancelled")
	}

	if wm.override {
		uc := userConfig{
			APIKey:       wm.apiKey,
			Section:      wm.section,
			DatabasePath: wm.dbPath,
		}
		if err := writeConfig(cfgPath, uc); err != nil {
			return err
		}
		fmt.Printf("\nConfig written to %s\n", cfgPath)
	}

	maybeConfigureMCP()

	fmt.Println("\nSetup complete!")
	fmt.Printf("- Edit your config at %s to refine settings\n", cfgPath)
	fmt.Println("- Run 'ainews run' to fetch and classify yesterday's articles")
	fmt.Println("- Run 'ainews server' to expose the stored articles to your LLM via MCP")
	return nil
}

// -------------- Bubble Tea Wizard --------------
type wizardStep int

const (
	stepIntro wizardStep = iota
	stepConfigChoice
	stepAPIKey
	stepSection
	stepDBPath
	stepSummary
	stepDone
)

type wizardModel struct {
	step      wizardStep
	hasCfg    bool
	override  bool
	cancelled bool

	apiKeyInput textinput.Model
	apiKey      string

	sections     []config.Section
	sectionInput textinput.Model
	section      string

	dbInput textinput.Model
	dbPath  string

	errMsg string
}

func newWizardModel(hasCfg bool, sections []config.Section) *wizardModel {
	apiKey := textinput.New()
	apiKey.Placeholder = "leave empty to use GEMINI_API_KEY from the environment"
	apiKey.EchoMode = textinput.EchoPassword
	apiKey.EchoCharacter = '•'
	apiKey.Width = 60

	section := textinput.New()
	section.Placeholder = "1"
	section.CharLimit = 3

	db := textinput.New()
	db.Placeholder = config.FallbackDBPath()
	db.Width = 60

	return &wizardModel{
		step:         stepIntro,
		hasCfg:       hasCfg,
		apiKeyInput:  apiKey,
		sections:     sections,
		sectionInput: section,
		dbInput:      db,
	}
}

func (m *wizardModel) Init() tea.Cmd { return nil }

// typing reports whether the current step routes keys to a text input.
func (m *wizardModel) typing() bool {
	return m.step == stepAPIKey || m.step == stepSection || m.step == stepDBPath
}

func (m *wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	// Global cancels
	if keyMsg.Type == tea.KeyCtrlC || (!m.typing() && keyMsg.Type == tea.KeyRunes && strings.ToLower(string(keyMsg.Runes)) == "q") {
		m.cancelled = true
		return m, tea.Quit
	}

	switch m.step {
	case stepIntro:
		if keyMsg.Type == tea.KeyEnter {
			if m.hasCfg {
				m.step = stepConfigChoice
			} else {
				m.override = true
				m.enter(stepAPIKey)
			}
		}
	case stepConfigChoice:
		// o = override, k = keep
		if keyMsg.Type == tea.KeyRunes {
			switch strings.ToLower(string(keyMsg.Runes)) {
			case "o":
				m.override = true
				m.enter(stepAPIKey)
			case "k":
				m.override = false
				m.step = stepSummary
			}
		}
	case stepAPIKey:
		if keyMsg.Type == tea.KeyEnter {
			m.apiKey = strings.TrimSpace(m.apiKeyInput.Value())
			m.enter(stepSection)
			return m, nil
		}
		var cmd tea.Cmd
		m.apiKeyInput, cmd = m.apiKeyInput.Update(msg)
		return m, cmd
	case stepSection:
		if keyMsg.Type == tea.KeyEnter {
			v := strings.TrimSpace(m.sectionInput.Value())
			n := 1
			if v != "" {
				var err error
				if n, err = parsePositiveInt(v); err != nil || n > len(m.sections) {
					m.errMsg = fmt.Sprintf("Please enter a number between 1 and %d.", len(m.sections))
					return m, nil
				}
			}
			m.section = m.sections[n-1].Name
			m.errMsg = ""
			m.enter(stepDBPath)
			return m, nil
		}
		var cmd tea.Cmd
		m.sectionInput, cmd = m.sectionInput.Update(msg)
		return m, cmd
	case stepDBPath:
		if keyMsg.Type == tea.KeyEnter {
			m.dbPath = strings.TrimSpace(m.dbInput.Value())
			m.enter(stepSummary)
			return m, nil
		}
		var cmd tea.Cmd
		m.dbInput, cmd = m.dbInput.Update(msg)
		return m, cmd
	case stepSummary:
		if keyMsg.Type == tea.KeyEnter {
			m.step = stepDone
			return m, tea.Quit
		}
	}
	return m, nil
}

// enter moves to step and focuses its input.
func (m *wizardModel) enter(step wizardStep) {
	m.apiKeyInput.Blur()
	m.sectionInput.Blur()
	m.dbInput.Blur()
	switch step {
	case stepAPIKey:
		m.apiKeyInput.Focus()
	case stepSection:
		m.sectionInput.Focus()
	case stepDBPath:
		m.dbInput.Focus()
	}
	m.step = step
}

func (m *wizardModel) View() string {
	b := &strings.Builder{}
	switch m.step {
	case stepIntro:
		fmt.Fprintln(b, "Welcome to ainews setup!")
		fmt.Fprintln(b, "This wizard will set up your AI key, news section and database.")
		fmt.Fprintln(b, "\nPress Enter to begin · q to quit")
	case stepConfigChoice:
		fmt.Fprintln(b, "Found an existing config.")
		fmt.Fprintln(b, "Override it (will create a .bak) or keep it?")
		fmt.Fprintln(b, "[o] Override    [k] Keep existing")
	case stepAPIKey:
		fmt.Fprintln(b, "Step 1 – AI API key")
		fmt.Fprintln(b, "Articles are classified through an OpenAI-compatible endpoint (Gemini by default).")
		fmt.Fprint(b, "The key is stored in the config file, readable only by you.\n\n")
		fmt.Fprintln(b, m.apiKeyInput.View())
		fmt.Fprintln(b, "\nPress Enter to continue")
	case stepSection:
		fmt.Fprintln(b, "Step 2 – Default section")
		for i, s := range m.sections {
			fmt.Fprintf(b, "  %d) %s  %s\n", i+1, s.Name, s.URL)
		}
		fmt.Fprintln(b, "\nSection number [1]:")
		fmt.Fprintln(b, m.sectionInput.View())
		if m.errMsg != "" {
			fmt.Fprintf(b, "\n%s\n", m.errMsg)
		}
		fmt.Fprintln(b, "\nPress Enter to continue")
	case stepDBPath:
		fmt.Fprintln(b, "Step 3 – Database location")
		fmt.Fprintln(b, "Where should articles be stored? Leave empty for the default.")
		fmt.Fprintln(b, m.dbInput.View())
		fmt.Fprintln(b, "\nPress Enter to continue")
	case stepSummary:
		fmt.Fprintln(b, "Summary")
		if m.override {
			key := "from environment"
			if m.apiKey != "" {
				key = "provided"
			}
			db := m.dbPath
			if db == "" {
				db = config.FallbackDBPath()
			}
			fmt.Fprintf(b, "AI API key: %s\n", key)
			fmt.Fprintf(b, "Default section: %s\n", m.section)
			fmt.Fprintf(b, "Database: %s\n", db)
			fmt.Fprintln(b, "\nThe configuration file will be written now.")
		} else {
			fmt.Fprintln(b, "Keeping existing config.")
		}
		fmt.Fprintln(b, "\nPress Enter to finish · q to cancel")
	case stepDone:
		fmt.Fprintln(b, "Finishing…")
	}
	return b.String()
}

// writeConfig renders uc over the defaults into path, keeping a backup of
// any existing file. The file may hold an API key, so it is private.
func writeConfig(path string, uc userConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if fileExists(path) {
		if err := config.BackupFile(path); err != nil {
			return err
		}
	}

	ac := config.Default()
	ac.AI.APIKey = uc.APIKey
	if uc.Section != "" {
		ac.Source.Default = uc.Section
	}
	ac.DatabasePath = uc.DatabasePath
	return os.WriteFile(path, []byte(config.Render(ac)), 0o600)
}

func parsePositiveInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty")
	}
	var n int
	_, err := fmt.Sscanf(s, "%d", &n)
	if err != nil || n <= 0 || fmt.Sprint(n) != s {
		return 0, errors.New("invalid int")
	}
	return n, nil
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}
	if _, err := os.Stat(p); err == nil {
		return true
	}
	return false
}

func maybeConfigureMCP() {
	exe, _ := os.Executable()
	// Try Claude CLI first
	if _, err := exec.LookPath("claude"); err == nil {
		if askYesNo("\nDetected Claude CLI. Add ainews MCP via 'claude mcp add'? [y/N]: ") {
			if err := runClaudeCLIAdd(exe); err != nil {
				fmt.Printf("Failed to add MCP via Claude CLI: %v\n", err)
			}
		}
	}
	// Codex
	codexPath := filepath.Join(userHome(), ".codex", "config.toml")
	if !fileExists(codexPath) {
		return
	}
	b, err := os.ReadFile(codexPath)
	if err != nil || strings.Contains(string(b), "[mcp_servers.ainews]") {
		return
	}
	if askYesNo("\nDetected ~/.codex/config.toml. Add ainews MCP there? [y/N]: ") {
		_ = config.BackupFile(codexPath)
		if err := appendTomlMCP(codexPath, exe); err != nil {
			fmt.Printf("Failed to update %s: %v\n", codexPath, err)
			return
		}
		fmt.Println("Added MCP server to ~/.codex/config.toml")
	}
}

func userHome() string { h, _ := os.UserHomeDir(); return h }

func askYesNo(prompt string) bool {
	fmt.Print(prompt)
	rdr := bufio.NewReader(os.Stdin)
	s, _ := rdr.ReadString('\n')
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

func mcpTomlSnippet(exe string) string {
	return fmt.Sprintf("\n[mcp_servers.ainews]\ncommand = %q\nargs = [\"server\"]\nenv = {}\n", exe)
}

func appendTomlMCP(path, exe string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.WriteString(mcpTomlSnippet(exe))
	return err
}

func runClaudeCLIAdd(exe string) error {
	// claude mcp add <name> <command> [args...]
	cmd := exec.Command("claude", "mcp", "add", "ainews", exe, "server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
