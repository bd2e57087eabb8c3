package main

import (
	"fmt"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"

	"github.com/nurtra/nurtra/audio"
	"github.com/nurtra/nurtra/auth"
	"github.com/nurtra/nurtra/paywall"
	"github.com/nurtra/nurtra/presence"
	"github.com/nurtra/nurtra/quotegen"
	"github.com/nurtra/nurtra/restrict"
	"github.com/nurtra/nurtra/session"
	"github.com/nurtra/nurtra/speech"
	"github.com/nurtra/nurtra/store/bolt"
	"github.com/nurtra/nurtra/timer"
)

// app bundles the wired services the subcommands share. Everything is
// constructed here and injected; nothing reaches for a global.
type app struct {
	store    *bolt.Store
	identity auth.Identity
	authSess *auth.Session
	cache    *speech.Cache
	synth    *speech.Client
	player   *audio.Player
	loop     *speech.Loop
	gate     *restrict.Gate
	timer    *timer.Controller
	session  *session.Controller
	quotegen *quotegen.Service
}

// newApp wires the application. withAudio controls whether the audio
// device opens; commands that never play (timer status, cache stats)
// skip it.
func newApp(withAudio bool) (*app, error) {
	scope := gap.NewScope(gap.User, "nurtra")

	dbPath := viper.GetString("storage.path")
	if dbPath == "" {
		p, err := scope.DataPath("nurtra.db")
		if err != nil {
			return nil, fmt.Errorf("resolve data path: %w", err)
		}
		dbPath = p
	}
	db, err := bolt.Open(dbPath)
	if err != nil {
		return nil, err
	}

	cacheDir := viper.GetString("speech.cache.dir")
	if cacheDir == "" {
		p, err := scope.CachePath("speech")
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("resolve cache path: %w", err)
		}
		cacheDir = p
	}
	cache, err := speech.NewCache(cacheDir)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	identity := auth.Static{UserID: viper.GetString("user.id")}

	synth := speech.NewClient(speech.ClientConfig{
		APIKey:            viper.GetString("speech.api_key"),
		VoiceID:           viper.GetString("speech.voice_id"),
		ModelID:           viper.GetString("speech.model"),
		RequestsPerMinute: viper.GetInt("speech.requests_per_minute"),
	})

	a := &app{
		store:    db,
		identity: identity,
		authSess: auth.NewSession(identity, db.Profiles()),
		cache:    cache,
		synth:    synth,
	}

	var sink speech.Sink
	if withAudio {
		player, err := audio.NewPlayer(audio.DefaultPlayerConfig())
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("open audio device: %w", err)
		}
		a.player = player
		sink = player
	} else {
		sink = discardSink{}
	}

	a.loop = speech.NewLoop(cache, synth, sink)
	a.gate = restrict.NewGate(restrict.NoopPlatform{}, db.Restriction())
	a.timer = timer.NewController(timer.Config{
		Identity: identity,
		Timers:   db.Timers(),
		Periods:  db.Periods(),
		Signal:   presence.LogSignal{},
	})

	presenter := paywall.NewPresenter(
		paywall.Local{Subscribed: viper.GetBool("user.subscribed")},
		terminalPrompt{},
	)

	a.session = session.NewController(session.Config{
		Identity: identity,
		Quotes:   db.Quotes(),
		Profiles: db.Profiles(),
		Timer:    a.timer,
		Loop:     a.loop,
		Gate:     a.gate,
		Paywall:  presenter,
	})

	a.quotegen = quotegen.NewService(quotegen.ServiceConfig{
		Generator: quotegen.NewClient(quotegen.ClientConfig{
			APIKey: viper.GetString("quotes.api_key"),
			Model:  viper.GetString("quotes.model"),
		}),
		Quotes:   db.Quotes(),
		Profiles: db.Profiles(),
		Cache:    cache,
		Synth:    synth,
	})

	return a, nil
}

// Close releases the audio device and storage.
func (a *app) Close() {
	if a.player != nil {
		_ = a.player.Close()
	}
	if a.store != nil {
		_ = a.store.Close()
	}
}

// userID returns the configured user or an error for commands that need
// one.
func (a *app) userID() (string, error) {
	id, ok := a.identity.CurrentUserID()
	if !ok {
		return "", auth.ErrNotAuthenticated
	}
	return id, nil
}

// discardSink drops clips immediately, completing at once. Used when the
// audio device is not opened.
type discardSink struct{}

func (discardSink) Play(_ []byte, done func()) error {
	if done != nil {
		go done()
	}
	return nil
}

func (discardSink) Halt() {}
