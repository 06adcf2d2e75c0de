package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"mapquiz/config"
	"mapquiz/logger"
	"mapquiz/quiz"
	"mapquiz/region"
	"mapquiz/scorestore"
	"mapquiz/ui/footer"
	"mapquiz/ui/header"
	mapview "mapquiz/ui/map"
)

type screen int

const (
	menuScreen screen = iota
	quizScreen
	studyScreen
)

const (
	menuHelp  = "enter: quiz | s: study | +/-: zoom | p: snapshot | q: quit"
	quizHelp  = "click a district | +/-: zoom | drag: pan | esc: end"
	studyHelp = "tab: next division | c: clear | +/-: zoom | arrows: pan | esc: menu"
)

// answeredMsg is sent after the map hands a selection to the quiz.
type answeredMsg struct{}

// model holds the application's state
type model struct {
	width  int // Terminal width
	height int // Terminal height

	cfg    config.Config
	scores *scorestore.Store
	last   *scorestore.LastScore

	headerModel header.Model
	mapModel    mapview.Model
	footerModel footer.Model

	game       *quiz.Quiz
	screen     screen
	confirmEnd bool

	groups   []string
	groupIdx int // -1 when no division is highlighted

	msgSeq int

	err error // Store any errors
}

// initialModel loads the region asset and wires the quiz to the map.
func initialModel(cfg config.Config, scores *scorestore.Store) model {
	log := logger.L()
	asset, skipped, err := region.Load(cfg.AssetPath)
	if err != nil {
		log.Error("asset_load_failed", "path", cfg.AssetPath, "error", err)
		return model{err: err}
	}
	for _, s := range skipped {
		log.Warn("region_skipped", "index", s.Index, "name", s.Name, "reason", s.Reason)
	}
	log.Info("asset_loaded", "path", cfg.AssetPath, "regions", len(asset.Regions), "skipped", len(skipped))

	mapMod, err := mapview.New(asset, mapview.Options{
		Labels:      cfg.Labels,
		SnapshotDir: cfg.SnapshotDir,
		FontPath:    cfg.FontPath,
	})
	if err != nil {
		return model{err: err}
	}

	game := quiz.New(asset.IDs(), nil)
	mapMod.OnRegionSelected(func(id string) tea.Cmd {
		if _, ok := game.Submit(id); !ok {
			return nil
		}
		return func() tea.Msg { return answeredMsg{} }
	})

	m := model{
		cfg:         cfg,
		scores:      scores,
		headerModel: header.New("mapquiz"),
		mapModel:    mapMod,
		footerModel: footer.New(),
		game:        game,
		groups:      asset.Groups(),
		groupIdx:    -1,
	}
	m.loadLastScore()
	m.showMenu()
	return m
}

func (m *model) loadLastScore() {
	m.last = nil
	if m.scores == nil {
		return
	}
	ls, err := m.scores.Last(context.Background())
	if err != nil {
		if !errors.Is(err, scorestore.ErrNoScore) {
			logger.L().Warn("score_load_failed", "error", err)
		}
		return
	}
	m.last = &ls
}

func (m model) Init() tea.Cmd {
	return nil // No initial commands
}

func (m *model) showMenu() {
	m.screen = menuScreen
	m.confirmEnd = false
	m.mapModel.SetOptions(mapview.Options{Labels: m.cfg.Labels, SnapshotDir: m.cfg.SnapshotDir, FontPath: m.cfg.FontPath})
	m.mapModel.SetCorrect("")
	m.mapModel.SetWrong("")
	m.mapModel.SetAnswered(nil)
	m.mapModel.HighlightGroup("")

	status := ""
	if m.last != nil {
		status = fmt.Sprintf("Last score: %d/%d", m.last.Score, m.last.TotalQuestions)
	}
	m.headerModel.Set("Find the district", status, header.Neutral)
	m.footerModel.SetMode("Menu", menuHelp)
}

func (m *model) startQuiz() {
	m.game.Start()
	m.screen = quizScreen
	m.mapModel.HighlightGroup("")
	m.footerModel.SetMode("Quiz", quizHelp)
	m.syncQuiz()
	logger.L().Info("quiz_started", "regions", m.game.TotalRegions())
}

func (m *model) startStudy() tea.Cmd {
	m.screen = studyScreen
	m.groupIdx = -1
	m.mapModel.SetOptions(mapview.Options{Labels: true, SnapshotDir: m.cfg.SnapshotDir, FontPath: m.cfg.FontPath})
	m.headerModel.Set("Study", "all divisions", header.Neutral)
	m.footerModel.SetMode("Study", studyHelp)
	return m.mapModel.HighlightGroup("")
}

// cycleGroup steps the highlighted division; stepping past the last one
// clears the highlight.
func (m *model) cycleGroup(step int) tea.Cmd {
	if len(m.groups) == 0 {
		return nil
	}
	n := len(m.groups) + 1
	m.groupIdx = ((m.groupIdx+1+step)%n+n)%n - 1
	group := ""
	label := "all divisions"
	if m.groupIdx >= 0 {
		group = m.groups[m.groupIdx]
		label = group
	}
	m.headerModel.Set("Study", label, header.Neutral)
	return m.mapModel.HighlightGroup(group)
}

// syncQuiz pushes the quiz state into the header and the map.
func (m *model) syncQuiz() {
	s := m.game.Snapshot()
	progress := m.game.Progress()
	status := fmt.Sprintf("Score %d/%d | %d of %d", s.Score, s.TotalAnswered, progress.Current, progress.Total)
	answered := m.game.AnsweredSet()

	switch s.Phase {
	case quiz.Active:
		target, _ := m.mapModel.Region(s.Current)
		m.headerModel.Set(fmt.Sprintf("Find: %s (%s)", target.Name, target.DisplayName()), status, header.Neutral)
		m.mapModel.SetOptions(mapview.Options{Interactive: true, SnapshotDir: m.cfg.SnapshotDir, FontPath: m.cfg.FontPath})
		m.mapModel.SetCorrect("")
		m.mapModel.SetWrong("")
		m.mapModel.SetAnswered(answered)
		m.footerModel.SetMode("Quiz", quizHelp)

	case quiz.AwaitingNext:
		last := s.Last
		delete(answered, last.Correct)
		m.mapModel.SetOptions(mapview.Options{Tooltip: true, SnapshotDir: m.cfg.SnapshotDir, FontPath: m.cfg.FontPath})
		m.mapModel.SetCorrect(last.Correct)
		wrong := ""
		if !last.IsCorrect {
			wrong = last.Selected
		}
		m.mapModel.SetWrong(wrong)
		m.mapModel.SetAnswered(answered)

		if last.IsCorrect {
			m.headerModel.Set("Correct! "+last.Correct, status, header.Success)
		} else {
			m.headerModel.Set(fmt.Sprintf("Wrong: you picked %s, it was %s", last.Selected, last.Correct), status, header.Failure)
		}
		help := "enter: next question | esc: end"
		if m.game.GameOver() {
			help = fmt.Sprintf("Game over! %d/%d %s | enter: menu", s.Score, s.TotalRegions, m.game.Verdict())
		}
		m.footerModel.SetMode("Result", help)
	}
}

// finishQuiz stores the score and returns to the menu.
func (m *model) finishQuiz() {
	ls := scorestore.LastScore{Score: m.game.Score(), TotalQuestions: m.game.TotalAnswered()}
	logger.L().Info("quiz_finished", "score", ls.Score, "answered", ls.TotalQuestions, "verdict", m.game.Verdict().String())
	if m.scores != nil {
		if err := m.scores.Save(context.Background(), ls); err != nil {
			logger.L().Error("score_save_failed", "error", err)
		}
	}
	m.game.End()
	m.loadLastScore()
	m.mapModel.ResetZoom()
	m.showMenu()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// --- Global Error Handling ---
	if m.err != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit // Quit on any key if there's an error
		}
		return m, nil
	}

	var (
		headerCmd tea.Cmd
		mapCmd    tea.Cmd
		footerCmd tea.Cmd
		cmds      []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// --- Layout ---
		headerHeight := 1
		footerHeight := 1
		mapHeight := m.height - headerHeight - footerHeight

		m.headerModel, headerCmd = m.headerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: headerHeight})
		m.mapModel.SetOrigin(0, headerHeight)
		m.mapModel, mapCmd = m.mapModel.Update(tea.WindowSizeMsg{Width: m.width, Height: mapHeight})
		m.footerModel, footerCmd = m.footerModel.Update(tea.WindowSizeMsg{Width: m.width, Height: footerHeight})

		cmds = append(cmds, headerCmd, mapCmd, footerCmd)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.confirmEnd {
			switch msg.String() {
			case "y", "enter":
				m.finishQuiz()
			case "n", "esc":
				m.confirmEnd = false
			}
			return m, nil
		}
		cmd, handled := m.handleKey(msg)
		if handled {
			return m, cmd
		}
		// Pass all other keys to the map model
		m.mapModel, mapCmd = m.mapModel.Update(msg)
		cmds = append(cmds, mapCmd)

	case answeredMsg:
		m.syncQuiz()

	case mapview.SnapshotMsg:
		m.msgSeq++
		if msg.Err != nil {
			m.footerModel.SetMessage("snapshot failed: " + msg.Err.Error())
		} else {
			m.footerModel.SetMessage("saved " + msg.Path)
		}
		cmds = append(cmds, clearMessageCmd(m.msgSeq))

	case clearMessageMsg:
		if msg.seq == m.msgSeq {
			m.footerModel.SetMessage("")
		}

	default:
		// Pass any other messages to all children
		m.headerModel, headerCmd = m.headerModel.Update(msg)
		m.mapModel, mapCmd = m.mapModel.Update(msg)
		m.footerModel, footerCmd = m.footerModel.Update(msg)
		cmds = append(cmds, headerCmd, mapCmd, footerCmd)
	}

	// Sync footer zoom level after map update
	m.footerModel.SetZoom(m.mapModel.Zoom())
	return m, tea.Batch(cmds...)
}

// handleKey runs screen-level shortcuts. Keys it does not claim go to the
// map.
func (m *model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	key := msg.String()
	switch m.screen {
	case menuScreen:
		switch key {
		case "q", "esc":
			return tea.Quit, true
		case "enter", "1":
			m.startQuiz()
			return nil, true
		case "s", "2":
			return m.startStudy(), true
		}

	case quizScreen:
		switch key {
		case "esc", "q":
			if m.game.TotalAnswered() == 0 {
				m.game.End()
				m.showMenu()
				return nil, true
			}
			m.confirmEnd = true
			return nil, true
		case "enter", " ":
			if m.game.Phase() != quiz.AwaitingNext {
				return nil, true
			}
			if m.game.GameOver() {
				m.finishQuiz()
				return nil, true
			}
			m.game.Advance()
			m.syncQuiz()
			return nil, true
		}

	case studyScreen:
		switch key {
		case "esc", "q":
			m.showMenu()
			return nil, true
		case "tab":
			return m.cycleGroup(1), true
		case "shift+tab":
			return m.cycleGroup(-1), true
		case "c":
			m.groupIdx = -1
			m.headerModel.Set("Study", "all divisions", header.Neutral)
			return m.mapModel.HighlightGroup(""), true
		}
	}
	return nil, false
}

func (m model) View() string {
	// --- Error View ---
	if m.err != nil {
		errorStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Border(lipgloss.DoubleBorder(), true).
			BorderForeground(lipgloss.Color("9")).
			Padding(1).
			Align(lipgloss.Center, lipgloss.Center)
		return errorStyle.Render(
			"Error loading map:\n\n" + m.err.Error() +
				"\n\nPress any key to quit.",
		)
	}

	footerView := m.footerModel.View()
	if m.confirmEnd {
		footerView = lipgloss.NewStyle().
			Width(m.width).
			Padding(0, 1).
			Background(lipgloss.Color("#dc2626")).
			Foreground(lipgloss.Color("255")).
			Render(fmt.Sprintf("End the quiz? You've answered %d of %d. Score so far: %d/%d | y: end  n: continue",
				m.game.TotalAnswered(), m.game.TotalRegions(), m.game.Score(), m.game.TotalAnswered()))
	}

	// Stack them vertically
	return lipgloss.JoinVertical(lipgloss.Left,
		m.headerModel.View(),
		m.mapModel.View(),
		footerView,
	)
}

func main() {
	cfg := config.Load()

	// stdout belongs to the renderer, so logs go to a file
	f, err := tea.LogToFile(cfg.LogFile, "mapquiz")
	if err != nil {
		fmt.Fprintf(os.Stderr, "open log file: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()
	log := logger.Setup(f)

	var scores *scorestore.Store
	if cfg.ScoreDB != "" {
		scores, err = scorestore.Open(context.Background(), cfg.ScoreDB)
		if err != nil {
			log.Warn("score_store_unavailable", "path", cfg.ScoreDB, "error", err)
			scores = nil
		} else {
			defer scores.Close()
		}
	}

	p := tea.NewProgram(initialModel(cfg, scores), tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		log.Error("program_failed", "error", err)
		fmt.Fprintf(os.Stderr, "Alas, there's been an error: %v\n", err)
		os.Exit(1)
	}
}
