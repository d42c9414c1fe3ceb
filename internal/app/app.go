package app

import (
	"context"
	"fmt"

	"github.com/five82/reel/internal/config"
	"github.com/five82/reel/internal/logging"
	"github.com/five82/reel/internal/movieverse"
	"github.com/five82/reel/internal/prefs"
	"github.com/five82/reel/internal/session"
	"github.com/five82/reel/internal/state"
	"github.com/five82/reel/internal/ui"
)

// Options configure the reel application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/reel/prefs.toml
	APIURL     string // overrides the configured backend when set
}

// Run boots the reel TUI until the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
	}

	logger, closer, err := logging.Open(logging.Config{File: cfg.LogFile, Level: cfg.LogLevel})
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	defer func() { _ = closer.Close() }()
	log := logging.With(logger, "app")

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		log.Warn().Err(err).Msg("prefs unreadable, using defaults")
	}

	client, err := movieverse.NewClient(movieverse.Options{
		BaseURL:           cfg.APIURL,
		Timeout:           cfg.RequestTimeout,
		RequestsPerSecond: cfg.RequestsPerSecond,
		Logger:            logger,
	})
	if err != nil {
		return fmt.Errorf("init movieverse client: %w", err)
	}

	sess := session.New(client, logging.With(logger, "session"))
	browse := state.NewBrowse(state.BrowseFrom(client, sess.Username))
	deck := state.NewSwipeDeck(state.DeckFrom(client))
	wire(client, sess, browse, deck)

	log.Info().Str("api", client.BaseURL()).Msg("starting")

	// Restore the session before the UI picks its first view.
	if sess.Probe(ctx) {
		StartPrefetch(ctx, logging.With(logger, "prefetch"), browse.Ensure, deck.Ensure)
	}

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Session:   sess,
		Browse:    browse,
		Deck:      deck,
		Logger:    logging.With(logger, "ui"),
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		LogFile:   cfg.LogFile,
	})
}

// wire connects session expiry and sign-out to the caches. Any 401 or 403
// on a protected call expires the session; every sign-out empties both
// caches so the next user starts from nothing.
func wire(client *movieverse.Client, sess *session.Store, browse *state.Browse, deck *state.SwipeDeck) {
	client.OnUnauthorized(sess.Expire)
	sess.OnSignOut(func(session.Reason) {
		browse.Clear()
		deck.Clear()
	})
}
