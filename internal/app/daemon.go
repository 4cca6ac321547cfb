package app

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"github.com/bezmoradi/hotmouse/internal/anki"
	"github.com/bezmoradi/hotmouse/internal/audio"
	"github.com/bezmoradi/hotmouse/internal/compat"
	"github.com/bezmoradi/hotmouse/internal/config"
	"github.com/bezmoradi/hotmouse/internal/hotkeys"
	"github.com/bezmoradi/hotmouse/internal/metrics"
	"github.com/bezmoradi/hotmouse/internal/notify"
	"github.com/bezmoradi/hotmouse/internal/terminal"
	"github.com/bezmoradi/hotmouse/internal/version"
)

// Options control how the daemon runs.
type Options struct {
	// StdinMessages relays web-layer messages read from stdin.
	StdinMessages bool
	// NoDesktop keeps notifications in the terminal.
	NoDesktop bool
}

type Daemon struct {
	opts            Options
	store           *config.Store
	config          *config.Config
	reviewer        *anki.Reviewer
	recorder        *audio.Recorder
	hotkeyManager   *hotkeys.Manager
	hookSource      *hotkeys.HookSource
	metricsManager  *metrics.MetricsManager
	terminalControl *terminal.Control
	statsFormatter  *metrics.StatsFormatter
	notifier        notify.Notifier
	cancel          context.CancelFunc
}

func NewDaemon(store *config.Store, opts Options) *Daemon {
	return &Daemon{
		opts:  opts,
		store: store,
	}
}

// UpgradeConfig brings the config file up to date: a missing file is created
// with the defaults, an old layout is migrated, and the current version is
// recorded. It returns what the migration changed.
func UpgradeConfig(store *config.Store) (compat.Report, error) {
	raw, err := store.ReadRaw()
	if err != nil {
		return compat.Report{}, err
	}

	if raw == nil {
		cfg := config.DefaultConfig()
		cfg.Version = version.Current()
		log.Infof("[CONFIG] Writing default config to %s", store.Path())
		return compat.Report{}, store.Save(cfg)
	}

	if err := compat.CheckDocument(raw); err != nil {
		return compat.Report{}, fmt.Errorf("%s: %w", store.Path(), err)
	}

	updated := raw
	var report compat.Report
	if compat.NeedsMigration(raw) {
		log.Infof("[COMPAT] Migrating config %s", store.Path())
		if updated, report, err = compat.Migrate(raw); err != nil {
			return compat.Report{}, fmt.Errorf("failed to migrate config: %w", err)
		}
	}

	if updated, err = compat.StampVersion(updated, version.Current()); err != nil {
		return compat.Report{}, err
	}
	if !bytes.Equal(updated, raw) {
		if err := store.WriteRaw(updated); err != nil {
			return compat.Report{}, err
		}
	}
	return report, nil
}

// EditConfig upgrades the config file, then loads it, applies edit and saves
// the result if edit reports a change. Old layouts are migrated first so the
// edit never overwrites shortcuts that Load cannot see.
func EditConfig(store *config.Store, edit func(cfg *config.Config) (bool, error)) (compat.Report, error) {
	report, err := UpgradeConfig(store)
	if err != nil {
		return report, fmt.Errorf("failed to upgrade config: %w", err)
	}

	cfg, err := store.Load()
	if err != nil {
		return report, err
	}
	changed, err := edit(cfg)
	if err != nil || !changed {
		return report, err
	}
	return report, store.Save(cfg)
}

func hotkeyOptions(cfg *config.Config) hotkeys.Options {
	return hotkeys.Options{
		ThresholdWheel: cfg.ThresholdWheel(),
		Tooltip:        cfg.Tooltip,
		Debug:          cfg.ZDebug,
	}
}

func (d *Daemon) Initialize() error {
	d.terminalControl = terminal.NewControl()
	d.statsFormatter = metrics.NewStatsFormatter()

	console := notify.NewConsole(d.terminalControl)
	if d.opts.NoDesktop {
		d.notifier = console
	} else {
		d.notifier = notify.Multi{notify.NewDesktop(), console}
	}

	report, err := UpgradeConfig(d.store)
	if err != nil {
		return fmt.Errorf("failed to upgrade config: %w", err)
	}
	if !report.Empty() {
		fmt.Println(report.Render())
		d.notifier.Summary(compat.SummaryTitle, report.Summary())
	}

	// Load configuration
	d.config, err = d.store.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var voice anki.Voice
	if d.config.Bridge.Voice == config.VoiceLocal {
		// Initialize PortAudio
		if err := audio.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize PortAudio: %w", err)
		}
		d.recorder = audio.NewRecorder()
		voice = d.recorder
	}
	d.reviewer = anki.NewReviewer(anki.RobotKeyboard(), d.config.Bridge, voice)

	// Initialize metrics manager
	d.metricsManager, err = metrics.NewMetricsManager(d.store.MetricsDir())
	if err != nil {
		return fmt.Errorf("failed to initialize metrics manager: %w", err)
	}

	d.hotkeyManager = hotkeys.NewManager(d.reviewer, d.notifier, hotkeyOptions(d.config), d.config.DefaultEnabled)
	d.hotkeyManager.Refresh(d.config.Shortcuts)
	d.hotkeyManager.SetRecorder(d)
	d.hotkeyManager.OnStateChange(func(enabled bool) {
		if enabled {
			audio.PlayBeep(audio.BeepEnabled)
		} else {
			audio.PlayBeep(audio.BeepDisabled)
		}
	})

	d.hookSource = hotkeys.NewHookSource()
	d.hookSource.Register(d.hotkeyManager.Bind(d.reviewer.Side))

	return nil
}

func (d *Daemon) Run() error {
	if err := d.hookSource.Start(); err != nil {
		return fmt.Errorf("failed to start mouse hook: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	go func() {
		if err := d.store.Watch(ctx, func() { d.hookSource.Post(d.reload) }); err != nil {
			log.Warnf("[CONFIG] Config reload disabled: %v", err)
		}
	}()

	if d.opts.StdinMessages {
		go func() {
			if err := hotkeys.RelayMessages(ctx, os.Stdin, d.hookSource); err != nil && ctx.Err() == nil {
				log.Warnf("[RELAY] Stopped reading web messages: %v", err)
			}
		}()
	}

	// Setup graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	state := "enabled"
	if !d.hotkeyManager.Enabled() {
		state = "disabled"
	}
	fmt.Printf("🖱️  Hotmouse %s started (%s)\n", version.VERSION, state)
	fmt.Printf("📋 %d shortcuts loaded from %s\n", len(d.config.Shortcuts), d.store.Path())
	fmt.Println("🛑 Press Ctrl+C to exit")
	fmt.Println()

	// Start listening in a goroutine
	go d.hookSource.Listen()

	// Wait for shutdown signal
	<-c
	fmt.Println("\n🛑 Shutting down...")
	d.Cleanup()
	return nil
}

func (d *Daemon) Cleanup() {
	if d.cancel != nil {
		d.cancel()
	}

	if d.hookSource != nil {
		d.hookSource.Stop()
	}

	// Stop recording if still running
	if d.recorder != nil {
		d.recorder.Stop()
		audio.Terminate()
	}
}

// reload applies a changed config file. It runs on the event loop.
func (d *Daemon) reload() {
	cfg, err := d.store.Load()
	if err != nil {
		log.Warnf("[CONFIG] Keeping previous config: %v", err)
		return
	}

	d.config = cfg
	d.reviewer.SetBridge(cfg.Bridge)
	d.hotkeyManager.SetOptions(hotkeyOptions(cfg))
	d.hotkeyManager.Refresh(cfg.Shortcuts)
	log.Infof("[CONFIG] Reloaded %d shortcuts", len(cfg.Shortcuts))
}

// RecordTrigger implements hotkeys.TriggerRecorder
func (d *Daemon) RecordTrigger(hk, action string) error {
	if err := d.metricsManager.RecordTrigger(hk, action); err != nil {
		return err
	}

	today, err := d.metricsManager.GetTodayMetrics()
	if err != nil {
		log.Debugf("[METRICS] Failed to get today's metrics: %v", err)
		today = nil
	}
	d.terminalControl.UpdateInPlace(d.statsFormatter.FormatTriggerLines(hk, action, today))
	return nil
}
