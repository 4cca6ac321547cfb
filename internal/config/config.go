package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"os/user"
	"path/filepath"
	"slices"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/hotkey"
	"github.com/bezmoradi/hotmouse/internal/version"
)

const (
	configFileName = "config.json"
	configDirName  = "hotmouse"
	metricsSubDir  = "metrics"

	envConfigPath = "HOTMOUSE_CONFIG"
	envLogLevel   = "HOTMOUSE_LOG_LEVEL"
)

// Voice backends for the record/replay voice actions.
const (
	VoiceHost  = "host"
	VoiceLocal = "local"
)

// Bridge configures how actions reach the reviewer.
type Bridge struct {
	// WindowTitle must appear in the active window title for events to count
	// as happening during a review.
	WindowTitle string `json:"window_title"`
	// AnswerButtons is the number of answer buttons the reviewer shows.
	AnswerButtons int `json:"answer_buttons"`
	// Voice selects who records and replays voice: "host" or "local".
	Voice string `json:"voice"`
}

// Config represents the hotmouse configuration
type Config struct {
	Shortcuts        map[string]string `json:"shortcuts"`
	ThresholdWheelMs int               `json:"threshold_wheel_ms"`
	Tooltip          bool              `json:"tooltip"`
	ZDebug           bool              `json:"z_debug"`
	DefaultEnabled   bool              `json:"default_enabled"`
	Version          version.Version   `json:"version"`
	Bridge           Bridge            `json:"bridge"`
}

// DefaultShortcuts returns the shortcut table used when none is configured.
func DefaultShortcuts() map[string]string {
	return map[string]string{
		"q_click_right":            "show_ans",
		"q_wheel_down":             "show_ans",
		"a_click_right":            "good",
		"a_press_left_click_right": "again",
		"a_wheel_down":             "good",
		"a_wheel_up":               "undo",
		"q_click_xbutton1":         "on_off",
		"a_click_xbutton1":         "on_off",
	}
}

// DefaultConfig returns the configuration of a fresh install.
func DefaultConfig() *Config {
	return &Config{
		Shortcuts:        DefaultShortcuts(),
		ThresholdWheelMs: 350,
		Tooltip:          true,
		ZDebug:           false,
		DefaultEnabled:   true,
		Version:          version.Unset,
		Bridge: Bridge{
			WindowTitle:   "Anki",
			AnswerButtons: 4,
			Voice:         VoiceHost,
		},
	}
}

// ThresholdWheel returns the scroll debounce window.
func (c *Config) ThresholdWheel() time.Duration {
	return time.Duration(c.ThresholdWheelMs) * time.Millisecond
}

// document is the on-disk layout. Shortcut values are decoded one by one so
// a single bad entry does not reject the whole file.
type document struct {
	*Config
	Shortcuts map[string]json.RawMessage `json:"shortcuts"`
}

// Parse decodes a config document. Missing settings keep their defaults; a
// missing shortcuts object means the default shortcut table. Shortcuts whose
// action is not a string are skipped.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	defaults := cfg.Shortcuts
	cfg.Shortcuts = nil

	doc := document{Config: cfg}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if !gjson.GetBytes(data, "shortcuts").Exists() {
		cfg.Shortcuts = defaults
		return cfg, nil
	}

	cfg.Shortcuts = make(map[string]string, len(doc.Shortcuts))
	for hk, raw := range doc.Shortcuts {
		var action string
		if err := json.Unmarshal(raw, &action); err != nil {
			log.Warnf("[CONFIG] Skipping shortcut %q: action %s is not a string", hk, raw)
			continue
		}
		cfg.Shortcuts[hk] = action
	}
	return cfg, nil
}

// Bind sets the action of a hotkey. The hotkey is stored with its chord
// sorted, replacing any other spelling of the same chord. It returns the
// stored hotkey.
func (c *Config) Bind(hk, action string) (string, error) {
	h, err := hotkey.Parse(hk)
	if err != nil {
		return "", err
	}
	a, err := actions.Parse(action)
	if err != nil {
		return "", err
	}

	key := h.Normalize().String()
	if c.Shortcuts == nil {
		c.Shortcuts = map[string]string{}
	}
	for existing := range c.Shortcuts {
		if hotkey.SortString(existing) == key {
			delete(c.Shortcuts, existing)
		}
	}
	c.Shortcuts[key] = a.String()
	return key, nil
}

// Unbind removes every spelling of a hotkey. It reports whether anything
// was removed.
func (c *Config) Unbind(hk string) bool {
	key := hotkey.SortString(hk)
	removed := false
	for existing := range c.Shortcuts {
		if existing == hk || hotkey.SortString(existing) == key {
			delete(c.Shortcuts, existing)
			removed = true
		}
	}
	return removed
}

// normalized returns a copy of the config whose valid hotkeys have sorted
// chords, as the config editor saves them. When several spellings of one
// chord are present the sorted spelling wins, then the first in order.
func (c *Config) normalized() *Config {
	out := *c
	out.Shortcuts = make(map[string]string, len(c.Shortcuts))
	for _, hk := range slices.Sorted(maps.Keys(c.Shortcuts)) {
		key := hotkey.SortString(hk)
		if _, dup := out.Shortcuts[key]; dup && hk != key {
			log.Warnf("[CONFIG] Shortcut %q duplicates %q, keeping the sorted one", hk, key)
			continue
		}
		out.Shortcuts[key] = c.Shortcuts[hk]
	}
	return &out
}

// getConfigDir returns the user's config directory for hotmouse
func getConfigDir() (string, error) {
	usr, err := user.Current()
	if err != nil {
		return "", err
	}

	return filepath.Join(usr.HomeDir, ".config", configDirName), nil
}

// resolvePath picks the config file using the fallback priority system:
// environment, then .env file, then the user config directory.
func resolvePath() (string, error) {
	if path := os.Getenv(envConfigPath); path != "" {
		return path, nil
	}

	if err := godotenv.Load(); err == nil {
		if path := os.Getenv(envConfigPath); path != "" {
			return path, nil
		}
	}

	configDir, err := getConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, configFileName), nil
}

// LogLevel returns the log level requested by the environment or .env file,
// or "".
func LogLevel() string {
	if level := os.Getenv(envLogLevel); level != "" {
		return level
	}
	if err := godotenv.Load(); err == nil {
		return os.Getenv(envLogLevel)
	}
	return ""
}
