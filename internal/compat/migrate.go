// Package compat upgrades config files written by older hotmouse versions.
//
// Version 1 stored every shortcut as its own top-level key and allowed
// hotkeys that ended in a press. Migrate moves the shortcuts under the
// "shortcuts" object, rewrites press endings to clicks, and drops entries that
// no longer validate.
package compat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/bezmoradi/hotmouse/internal/actions"
	"github.com/bezmoradi/hotmouse/internal/hotkey"
	"github.com/bezmoradi/hotmouse/internal/version"
)

const (
	shortcutsKey     = "shortcuts"
	versionKey       = "version"
	obsoleteAngleKey = "threshold_angle"
	segmentSeparator = "_"
	legacyTerminal   = "press"
	replacedTerminal = "click"
)

// ErrNotObject is returned when the config document is not a JSON object.
var ErrNotObject = errors.New("config is not a JSON object")

// reservedKeys are the top-level settings that are not shortcuts.
var reservedKeys = map[string]bool{
	shortcutsKey:         true,
	"threshold_wheel_ms": true,
	obsoleteAngleKey:     true,
	"tooltip":            true,
	"z_debug":            true,
	"default_enabled":    true,
	versionKey:           true,
	"bridge":             true,
}

// firstNestedVersion is the first version that stored shortcuts under
// "shortcuts".
var firstNestedVersion = version.Version{Major: 2, Minor: 0}

// Shortcuts maps hotkey strings to action names, as found in the document.
// Values that were not JSON strings are kept as their raw JSON text, which
// never names an action.
type Shortcuts map[string]string

func parseObject(raw []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(raw) {
		return gjson.Result{}, fmt.Errorf("%w: invalid JSON", ErrNotObject)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return gjson.Result{}, ErrNotObject
	}
	return doc, nil
}

// CheckDocument returns ErrNotObject unless raw is a JSON object.
func CheckDocument(raw []byte) error {
	_, err := parseObject(raw)
	return err
}

func actionValue(v gjson.Result) string {
	if v.Type == gjson.String {
		return v.String()
	}
	return v.Raw
}

// ExtractShortcuts collects every top-level key that is not a known setting,
// merged with the nested "shortcuts" object, and returns the document with
// those top-level keys removed. Nested entries win over flat ones.
func ExtractShortcuts(raw []byte) ([]byte, Shortcuts, error) {
	doc, err := parseObject(raw)
	if err != nil {
		return nil, nil, err
	}

	shortcuts := Shortcuts{}
	var flat []string
	doc.ForEach(func(k, v gjson.Result) bool {
		key := k.String()
		if reservedKeys[key] {
			return true
		}
		shortcuts[key] = actionValue(v)
		flat = append(flat, key)
		return true
	})

	if nested := doc.Get(shortcutsKey); nested.IsObject() {
		nested.ForEach(func(k, v gjson.Result) bool {
			shortcuts[k.String()] = actionValue(v)
			return true
		})
	}

	out := raw
	for _, key := range flat {
		out, err = sjson.DeleteBytes(out, gjson.Escape(key))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to remove %q: %w", key, err)
		}
	}
	return out, shortcuts, nil
}

// NormalizeEmptyActions replaces the legacy empty action with "<none>".
func NormalizeEmptyActions(s Shortcuts) {
	for hk, action := range s {
		if action == "" {
			s[hk] = actions.NoneName
		}
	}
}

// RewritePressTerminals turns hotkeys ending in press_<button> into
// click_<button>. If the click form is already bound, the press form is
// removed instead. It returns the renames (old to new) and the removed
// entries (hotkey to action).
func RewritePressTerminals(s Shortcuts) (modified, removed map[string]string) {
	modified = map[string]string{}
	removed = map[string]string{}

	renames := map[string]string{}
	for hk := range s {
		segments := strings.Split(hk, segmentSeparator)
		if len(segments) < 3 || segments[len(segments)-2] != legacyTerminal {
			continue
		}
		segments[len(segments)-2] = replacedTerminal
		renames[hk] = strings.Join(segments, segmentSeparator)
	}

	olds := make([]string, 0, len(renames))
	for old := range renames {
		olds = append(olds, old)
	}
	sort.Strings(olds)

	for _, old := range olds {
		replacement := renames[old]
		action := s[old]
		delete(s, old)
		if _, exists := s[replacement]; exists {
			removed[old] = action
			continue
		}
		s[replacement] = action
		modified[old] = replacement
	}
	return modified, removed
}

// ValidHotkey reports whether hk is a well formed hotkey: a side prefix, then
// alternating mode and value segments with press, click or wheel modes, known
// buttons, wheel directions up or down, and a click or wheel at the end.
func ValidHotkey(hk string) bool {
	_, err := hotkey.Parse(hk)
	return err == nil
}

// RemoveInvalid drops entries whose hotkey or action does not validate and
// returns them.
func RemoveInvalid(s Shortcuts) map[string]string {
	removed := map[string]string{}
	for hk, action := range s {
		if ValidHotkey(hk) && actions.IsRegistered(action) {
			continue
		}
		removed[hk] = action
		delete(s, hk)
	}
	return removed
}

// NeedsMigration reports whether raw predates the nested shortcut layout: it
// has flat shortcut keys or obsolete settings, or its recorded version is
// older than 2.0. Fresh installs never need migration.
func NeedsMigration(raw []byte) bool {
	doc, err := parseObject(raw)
	if err != nil {
		return false
	}

	legacy := false
	doc.ForEach(func(k, _ gjson.Result) bool {
		key := k.String()
		if key == obsoleteAngleKey || !reservedKeys[key] {
			legacy = true
			return false
		}
		return true
	})
	if legacy {
		return true
	}

	v, ok := storedVersion(doc)
	return ok && !v.IsUnset() && v.Less(firstNestedVersion)
}

func storedVersion(doc gjson.Result) (version.Version, bool) {
	v := doc.Get(versionKey)
	if !v.IsObject() {
		return version.Version{}, false
	}
	return version.Version{
		Major: int(v.Get("major").Int()),
		Minor: int(v.Get("minor").Int()),
	}, true
}

// Migrate rewrites raw into the current layout and reports what changed.
// Running it on its own output changes nothing.
func Migrate(raw []byte) ([]byte, Report, error) {
	out, shortcuts, err := ExtractShortcuts(raw)
	if err != nil {
		return nil, Report{}, err
	}

	NormalizeEmptyActions(shortcuts)
	modified, removed := RewritePressTerminals(shortcuts)
	for hk, action := range RemoveInvalid(shortcuts) {
		removed[hk] = action
	}

	encoded, err := encodeShortcuts(shortcuts)
	if err != nil {
		return nil, Report{}, err
	}
	if out, err = sjson.SetRawBytes(out, shortcutsKey, encoded); err != nil {
		return nil, Report{}, fmt.Errorf("failed to write shortcuts: %w", err)
	}
	if gjson.GetBytes(out, obsoleteAngleKey).Exists() {
		if out, err = sjson.DeleteBytes(out, obsoleteAngleKey); err != nil {
			return nil, Report{}, fmt.Errorf("failed to remove %s: %w", obsoleteAngleKey, err)
		}
		log.Debugf("[COMPAT] Dropped obsolete %s", obsoleteAngleKey)
	}

	report := Report{Modified: modified, Removed: removed}
	for old, replacement := range modified {
		log.Infof("[COMPAT] Renamed %s -> %s", old, replacement)
	}
	for hk, action := range removed {
		log.Infof("[COMPAT] Removed %s: %s", hk, action)
	}
	return pretty(out), report, nil
}

// StampVersion records v as the config's schema version.
func StampVersion(raw []byte, v version.Version) ([]byte, error) {
	out, err := sjson.SetBytes(raw, versionKey, v)
	if err != nil {
		return nil, fmt.Errorf("failed to write version: %w", err)
	}
	return pretty(out), nil
}

// encodeShortcuts marshals without HTML escaping so "<none>" stays readable.
func encodeShortcuts(s Shortcuts) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]string(s)); err != nil {
		return nil, fmt.Errorf("failed to encode shortcuts: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func pretty(doc []byte) []byte {
	return []byte(gjson.GetBytes(doc, "@pretty").Raw)
}
