package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/nav"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/session"
	"github.com/five82/reel/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Client    *movieverse.Client
	Session   *session.Store
	Browse    *state.Browse
	Deck      *state.SwipeDeck
	Logger    zerolog.Logger
	Prefs     prefs.Prefs
	PrefsPath string
	LogFile   string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Dependencies
	ctx       context.Context
	client    *movieverse.Client
	session   *session.Store
	browse    *state.Browse
	deck      *state.SwipeDeck
	log       zerolog.Logger
	prefs     prefs.Prefs
	prefsPath string
	logFile   string

	// UI state
	keys     keyMap
	theme    Theme
	width    int
	height   int
	ready    bool
	animate  bool
	spinning bool
	spinner  spinner.Model
	showHelp bool
	modal    Modal
	flash    string
	flashBad bool

	// Navigation. mount changes on every arrival at a view.
	router   *nav.Router
	restorer nav.Restorer
	mount    int
	origin   nav.Payload
	initCmd  tea.Cmd

	// Views
	login    form
	register form
	forgot   forgotState
	home     homeState
	search   searchState
	mood     moodState
	results  resultsState
	tinder   tinderState
	watch    watchlistState
	detail   detailState
	profile  profileState
	logs     logState
}

// New creates the root model. The session should already be probed so the
// first view can be chosen.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	start := nav.RouteLogin
	if opts.Session != nil && opts.Session.LoggedIn() {
		start = nav.RouteHome
	}

	m := Model{
		ctx:       ctx,
		client:    opts.Client,
		session:   opts.Session,
		browse:    opts.Browse,
		deck:      opts.Deck,
		log:       opts.Logger,
		prefs:     opts.Prefs,
		prefsPath: prefsPath,
		logFile:   opts.LogFile,
		keys:      DefaultKeyMap(),
		theme:     GetTheme(opts.Prefs.Theme),
		animate:   true,
		spinner:   spinner.New(spinner.WithSpinner(spinner.Dot)),
		router:    nav.NewRouter(start),
		search:    newSearchState(),
		mood:      newMoodState(),
		home:      newHomeState(),
		logs:      newLogState(),
	}
	m.initCmd = m.enter()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.initCmd
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			m.spinning = false
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case sessionExpiredMsg:
		m.log.Info().Str("route", m.router.Current().Route.String()).Msg("session expired, redirecting to login")
		m.modal = nil
		m.router.Redirect(nav.RouteLogin)
		m.setFlash("Your session has expired. Please log in again.", true)
		cmd := m.enter()
		return m, cmd

	case logoutMsg:
		m.router.Redirect(nav.RouteLogin)
		m.setFlash("Signed out.", false)
		cmd := m.enter()
		return m, cmd
	}

	return m.handlePageMsg(msg)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// enter arms the active entry: it takes the payload once, primes the
// restorer and starts whatever fetch the view needs.
func (m *Model) enter() tea.Cmd {
	m.mount++
	cur := m.router.Current()
	if cur.Route.Protected() && (m.session == nil || !m.session.LoggedIn()) {
		m.router.Redirect(nav.RouteLogin)
		cur = m.router.Current()
	}

	payload, _ := m.router.Take()
	m.origin = payload
	m.restorer.Arm(payload)

	var cmd tea.Cmd
	switch cur.Route {
	case nav.RouteLogin:
		cmd = m.enterLogin()
	case nav.RouteRegister:
		cmd = m.enterRegister()
	case nav.RouteForgotPassword:
		cmd = m.enterForgot()
	case nav.RouteHome:
		cmd = m.enterHome()
	case nav.RouteSearch:
		cmd = m.enterSearch(cur.Params.Query)
	case nav.RouteMood:
		cmd = m.enterMood()
	case nav.RouteMoodResults:
		cmd = m.enterMoodResults(cur.Params.Mood)
	case nav.RouteTinder:
		cmd = m.enterTinder(payload)
	case nav.RouteWatchlist:
		cmd = m.enterWatchlist()
	case nav.RouteDetail:
		cmd = m.enterDetail(cur.Params.MovieID)
	case nav.RouteProfile:
		cmd = m.enterProfile()
	case nav.RouteLogs:
		cmd = m.enterLogs()
	}
	m.log.Debug().
		Str("route", cur.Route.String()).
		Int("depth", m.router.Depth()).
		Bool("restore", m.restorer.Pending()).
		Msg("view entered")
	return tea.Batch(cmd, m.spin())
}

// navigate pushes route unless it is already active.
func (m *Model) navigate(route nav.Route, params nav.Params, payload nav.Payload) tea.Cmd {
	if cur := m.router.Current(); cur.Route == route && cur.Params == params && payload == nil {
		return nil
	}
	m.router.Navigate(route, params, payload)
	return m.enter()
}

// goBack follows the active payload's origin, or pops history.
func (m *Model) goBack() tea.Cmd {
	if !m.router.GoBack() {
		return nil
	}
	return m.enter()
}

// applyRestore scrolls l to the incoming offset once it has rows.
func (m *Model) applyRestore(l *movieList) {
	if off, ok := m.restorer.Ready(l.Len()); ok {
		l.Select(off)
	}
}

func (m *Model) setFlash(msg string, bad bool) {
	m.flash = msg
	m.flashBad = bad
}

// spin starts the spinner when something is loading.
func (m *Model) spin() tea.Cmd {
	if !m.animate || m.spinning || !m.busy() {
		return nil
	}
	m.spinning = true
	return m.spinner.Tick
}

// busy reports whether the active view is waiting on the backend.
func (m Model) busy() bool {
	switch m.router.Current().Route {
	case nav.RouteLogin:
		return m.login.busy
	case nav.RouteRegister:
		return m.register.busy
	case nav.RouteForgotPassword:
		return m.forgot.form.busy
	case nav.RouteHome:
		return m.home.loading
	case nav.RouteSearch:
		return m.search.loading
	case nav.RouteMoodResults:
		return m.results.loading
	case nav.RouteTinder:
		return m.tinder.loading || m.tinder.swiping
	case nav.RouteWatchlist:
		return m.watch.loading
	case nav.RouteDetail:
		return m.detail.loading
	case nav.RouteProfile:
		return m.profile.loading
	}
	return false
}

// typing reports whether keystrokes belong to a text input.
func (m Model) typing() bool {
	switch m.router.Current().Route {
	case nav.RouteLogin, nav.RouteRegister, nav.RouteForgotPassword, nav.RouteMood:
		return true
	case nav.RouteSearch:
		return m.search.typing
	case nav.RouteHome:
		return m.home.typing
	}
	return false
}

func (m *Model) resize() {
	h := m.listHeight()
	m.home.list.SetHeight(h)
	m.search.list.SetHeight(h - 2)
	m.mood.list.SetHeight(h - 3)
	m.results.list.SetHeight(h - 1)
	m.watch.list.SetHeight(h)
	m.resizeLogs()
}

// listHeight is the rows available inside the content box.
func (m Model) listHeight() int {
	return max(m.height-7, 1)
}

func (m Model) contentWidth() int {
	return max(m.width-4, 10)
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m, tea.Quit
	}

	if m.modal != nil {
		modal, cmd, done := m.modal.Update(msg, m.keys)
		m.modal = modal
		if done {
			m.modal = nil
		}
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if m.typing() {
		return m.handlePageKey(msg)
	}

	m.flash = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.Logs):
		cmd := m.navigate(nav.RouteLogs, nav.Params{}, nil)
		return m, cmd
	}

	if m.session != nil && m.session.LoggedIn() {
		switch {
		case key.Matches(msg, m.keys.Home):
			cmd := m.navigate(nav.RouteHome, nav.Params{}, nil)
			return m, cmd
		case key.Matches(msg, m.keys.Search) && m.router.Current().Route != nav.RouteSearch:
			cmd := m.navigate(nav.RouteSearch, nav.Params{}, nil)
			return m, cmd
		case key.Matches(msg, m.keys.Mood):
			cmd := m.navigate(nav.RouteMood, nav.Params{}, nil)
			return m, cmd
		case key.Matches(msg, m.keys.Tinder) && m.router.Current().Route != nav.RouteTinder:
			cmd := m.navigate(nav.RouteTinder, nav.Params{}, nil)
			return m, cmd
		case key.Matches(msg, m.keys.Watchlist):
			cmd := m.navigate(nav.RouteWatchlist, nav.Params{}, nil)
			return m, cmd
		case key.Matches(msg, m.keys.Profile):
			cmd := m.navigate(nav.RouteProfile, nav.Params{}, nil)
			return m, cmd
		}
	}

	return m.handlePageKey(msg)
}

// handlePageKey routes keys to the active view.
func (m Model) handlePageKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.router.Current().Route {
	case nav.RouteLogin:
		cmd = m.loginKey(msg)
	case nav.RouteRegister:
		cmd = m.registerKey(msg)
	case nav.RouteForgotPassword:
		cmd = m.forgotKey(msg)
	case nav.RouteHome:
		cmd = m.homeKey(msg)
	case nav.RouteSearch:
		cmd = m.searchKey(msg)
	case nav.RouteMood:
		cmd = m.moodKey(msg)
	case nav.RouteMoodResults:
		cmd = m.resultsKey(msg)
	case nav.RouteTinder:
		cmd = m.tinderKey(msg)
	case nav.RouteWatchlist:
		cmd = m.watchlistKey(msg)
	case nav.RouteDetail:
		cmd = m.detailKey(msg)
	case nav.RouteProfile:
		cmd = m.profileKey(msg)
	case nav.RouteLogs:
		cmd = m.logsKey(msg)
	}
	return m, tea.Batch(cmd, m.spin())
}

// handlePageMsg routes backend results to their views.
func (m Model) handlePageMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case loginMsg:
		cmd = m.onLogin(msg)
	case registerMsg:
		cmd = m.onRegister(msg)
	case availabilityMsg:
		m.onAvailability(msg)
	case resetStepMsg:
		cmd = m.onResetStep(msg)
	case browseMsg:
		m.onBrowse(msg)
	case deckMsg:
		cmd = m.onDeck(msg)
	case swipeMsg:
		cmd = m.onSwipe(msg)
	case searchMsg:
		m.onSearch(msg)
	case moodMsg:
		m.onMood(msg)
	case watchlistMsg:
		m.onWatchlist(msg)
	case removeMsg:
		cmd = m.onRemove(msg)
	case detailMsg:
		m.onDetail(msg)
	case ratingMsg:
		m.onRating(msg)
	case rateMsg:
		m.onRate(msg)
	case addMsg:
		m.onAdd(msg)
	case emailMsg:
		m.onEmail(msg)
	case logsMsg:
		m.onLogs(msg)
	case logTickMsg:
		cmd = m.onLogTick()
	default:
		return m, nil
	}
	return m, tea.Batch(cmd, m.spin())
}

// viewError turns a fetch failure into view state. Auth failures are
// handled by the session expiry redirect and never shown raw.
func viewError(err error) error {
	if err == nil || movieverse.IsAuthError(err) {
		return nil
	}
	return err
}

func (m *Model) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs failed")
	}
}

// username is the signed-in user, or "".
func (m Model) username() string {
	if m.session == nil {
		return ""
	}
	return m.session.Username()
}

// Run starts the Bubble Tea program. Session expiry anywhere in the client
// is delivered to the program as a redirect.
func Run(opts Options) error {
	model := New(opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	if opts.Session != nil {
		opts.Session.OnExpire(func() {
			p.Send(sessionExpiredMsg{})
		})
	}
	_, err := p.Run()
	return err
}
