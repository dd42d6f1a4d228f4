// Package config loads and validates the agent's flat JSON configuration:
// five built-in feature slots plus four indexed families (applicationN,
// commandN, serveN, hotkeyN for N in [1,49]).
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

const maxIndex = 49

// ConfigErrorKind distinguishes the config-invalid sub-cases: missing file,
// malformed JSON, and a present-but-invalid value.
type ConfigErrorKind int

const (
	ErrMissing ConfigErrorKind = iota
	ErrMalformed
	ErrInvalidValue
)

// ConfigError is returned for every kind-1 (Config-invalid) failure.
type ConfigError struct {
	Kind ConfigErrorKind
	Msg  string
}

func (e *ConfigError) Error() string { return e.Msg }

// raw is the untyped document read from disk, matching the original's
// accessor-with-default reading style (rc_json.c): every lookup supplies
// its own default instead of relying on zero values silently.
type raw map[string]interface{}

func (r raw) getString(key, def string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

func (r raw) getInt(key string, def int) int {
	if v, ok := r[key]; ok {
		if f, ok := v.(float64); ok {
			return int(f)
		}
	}
	return def
}

func (r raw) getBool(key string, def bool) bool {
	if v, ok := r[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Builtin holds the gate and on/off knobs shared by the five built-in
// feature slots.
type Builtin struct {
	Checked   bool
	Topic     string
	OnAction  string
	OffAction string
	OnDelay   int
	OffDelay  int
}

// ScreenConfig extends Builtin with the brightness-specific knobs.
type ScreenConfig struct {
	Builtin
	Mode            string // "native" (default) | "twinkle_tray"
	ExternalExe     string
	ExternalTarget  string // "all" | "monitor_id" | "monitor_num"
	ExternalValue   string
	ExternalOverlay bool
	ExternalPanel   bool
}

// AppSlot is one applicationN entry.
type AppSlot struct {
	Topic       string
	OnValue     string
	OffValue    string
	OffPreset   string
	DisplayName string
}

// CommandSlot is one commandN entry.
type CommandSlot struct {
	Topic       string
	LegacyValue string
	OnValue     string
	OffValue    string
	OffPreset   string
	Window      string // "show" | "hide"
	DisplayName string
}

// ServeSlot is one serveN entry.
type ServeSlot struct {
	Topic       string
	ServiceName string
	OffPreset   string
	OffValue    string
	DisplayName string
}

// HotkeySlot is one hotkeyN entry.
type HotkeySlot struct {
	Topic       string
	OnType      string
	OnValue     string
	OffType     string
	OffValue    string
	CharDelayMs int
	DisplayName string
}

// Config is the fully parsed, read-only-after-load configuration tree.
type Config struct {
	Broker     string
	Port       int
	ClientID   string
	AuthMode   string // "private_key" | "username_password"
	Username   string
	Password   string
	TLS        bool
	Test       bool
	Language   string
	Notify     bool
	KeepAlive  int
	BackoffMin int
	BackoffMax int

	Computer Builtin
	Screen   ScreenConfig
	Volume   Builtin
	Sleep    Builtin
	Media    Builtin

	Applications []AppSlot
	Commands     []CommandSlot
	Serves       []ServeSlot
	Hotkeys      []HotkeySlot
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &ConfigError{Kind: ErrMissing, Msg: fmt.Sprintf("config file not found: %s", path)}
		}
		return nil, &ConfigError{Kind: ErrMalformed, Msg: fmt.Sprintf("config file unreadable: %v", err)}
	}
	return Parse(data)
}

// Parse validates and decodes data (a UTF-8 JSON object) into a Config.
func Parse(data []byte) (*Config, error) {
	var doc raw
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Kind: ErrMalformed, Msg: fmt.Sprintf("config is not a valid JSON object: %v", err)}
	}

	cfg := &Config{
		Broker:     doc.getString("broker", ""),
		Port:       doc.getInt("port", 0),
		ClientID:   doc.getString("client_id", "RC-main"),
		AuthMode:   doc.getString("auth_mode", "username_password"),
		Username:   doc.getString("mqtt_username", ""),
		Password:   doc.getString("mqtt_password", ""),
		TLS:        doc.getBool("mqtt_tls", false),
		Test:       doc.getBool("test", false),
		Language:   doc.getString("language", "en"),
		Notify:     doc.getBool("notify", true),
		KeepAlive:  doc.getInt("keep_alive", 60),
		BackoffMin: doc.getInt("backoff_min", 2),
		BackoffMax: doc.getInt("backoff_max", 30),

		Computer: builtinFrom(doc, "Computer"),
		Volume:   builtinFrom(doc, "volume"),
		Sleep:    builtinFrom(doc, "sleep"),
		Media:    builtinFrom(doc, "media"),
	}
	cfg.Screen = screenFrom(doc)

	for n := 1; n <= maxIndex; n++ {
		if slot, ok := appSlot(doc, n); ok {
			cfg.Applications = append(cfg.Applications, slot)
		}
		if slot, ok := commandSlot(doc, n); ok {
			cfg.Commands = append(cfg.Commands, slot)
		}
		if slot, ok := serveSlot(doc, n); ok {
			cfg.Serves = append(cfg.Serves, slot)
		}
		if slot, ok := hotkeySlot(doc, n); ok {
			cfg.Hotkeys = append(cfg.Hotkeys, slot)
		}
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// unsetDelay marks a delay key absent from the document, distinct from a
// delay explicitly configured as zero; callers apply their own ?? default.
const unsetDelay = -1

func builtinFrom(doc raw, prefix string) Builtin {
	return Builtin{
		Checked:   doc.getBool(prefix+"_checked", false),
		Topic:     doc.getString(prefix, ""),
		OnAction:  doc.getString(prefix+"_on_action", ""),
		OffAction: doc.getString(prefix+"_off_action", ""),
		OnDelay:   doc.getInt(prefix+"_on_delay", unsetDelay),
		OffDelay:  doc.getInt(prefix+"_off_delay", unsetDelay),
	}
}

func screenFrom(doc raw) ScreenConfig {
	return ScreenConfig{
		Builtin:         builtinFrom(doc, "screen"),
		Mode:            doc.getString("brightness_mode", "native"),
		ExternalExe:     doc.getString("brightness_external_exe", ""),
		ExternalTarget:  doc.getString("brightness_external_target", "all"),
		ExternalValue:   doc.getString("brightness_external_value", ""),
		ExternalOverlay: doc.getBool("brightness_external_overlay", true),
		ExternalPanel:   doc.getBool("brightness_external_panel", false),
	}
}

func appSlot(doc raw, n int) (AppSlot, bool) {
	prefix := fmt.Sprintf("application%d", n)
	if !doc.getBool(prefix+"_checked", false) {
		return AppSlot{}, false
	}
	topic := doc.getString(prefix, "")
	if topic == "" {
		return AppSlot{}, false
	}
	return AppSlot{
		Topic:       topic,
		OnValue:     doc.getString(prefix+"_on_value", ""),
		OffValue:    doc.getString(prefix+"_off_value", ""),
		OffPreset:   doc.getString(prefix+"_off_preset", "kill"),
		DisplayName: doc.getString(prefix+"_display_name", ""),
	}, true
}

func commandSlot(doc raw, n int) (CommandSlot, bool) {
	prefix := fmt.Sprintf("command%d", n)
	if !doc.getBool(prefix+"_checked", false) {
		return CommandSlot{}, false
	}
	topic := doc.getString(prefix, "")
	if topic == "" {
		return CommandSlot{}, false
	}
	return CommandSlot{
		Topic:       topic,
		LegacyValue: doc.getString(prefix+"_value", ""),
		OnValue:     doc.getString(prefix+"_on_value", ""),
		OffValue:    doc.getString(prefix+"_off_value", ""),
		OffPreset:   doc.getString(prefix+"_off_preset", "kill"),
		Window:      doc.getString(prefix+"_window", "show"),
		DisplayName: doc.getString(prefix+"_display_name", ""),
	}, true
}

func serveSlot(doc raw, n int) (ServeSlot, bool) {
	prefix := fmt.Sprintf("serve%d", n)
	if !doc.getBool(prefix+"_checked", false) {
		return ServeSlot{}, false
	}
	topic := doc.getString(prefix, "")
	if topic == "" {
		return ServeSlot{}, false
	}
	return ServeSlot{
		Topic:       topic,
		ServiceName: doc.getString(prefix+"_service_name", ""),
		OffPreset:   doc.getString(prefix+"_off_preset", "stop"),
		OffValue:    doc.getString(prefix+"_off_value", ""),
		DisplayName: doc.getString(prefix+"_display_name", ""),
	}, true
}

func hotkeySlot(doc raw, n int) (HotkeySlot, bool) {
	prefix := fmt.Sprintf("hotkey%d", n)
	if !doc.getBool(prefix+"_checked", false) {
		return HotkeySlot{}, false
	}
	topic := doc.getString(prefix, "")
	if topic == "" {
		return HotkeySlot{}, false
	}
	return HotkeySlot{
		Topic:       topic,
		OnType:      doc.getString(prefix+"_on_type", "keyboard"),
		OnValue:     doc.getString(prefix+"_on_value", ""),
		OffType:     doc.getString(prefix+"_off_type", "none"),
		OffValue:    doc.getString(prefix+"_off_value", ""),
		CharDelayMs: doc.getInt(prefix+"_char_delay_ms", 0),
		DisplayName: doc.getString(prefix+"_display_name", ""),
	}, true
}

func validate(cfg *Config) error {
	if cfg.Broker == "" || cfg.Port == 0 {
		return &ConfigError{Kind: ErrInvalidValue, Msg: "broker and port are required"}
	}
	if cfg.AuthMode == "private_key" && cfg.ClientID == "" {
		return &ConfigError{Kind: ErrInvalidValue, Msg: "client_id is required in private_key auth mode"}
	}
	if !cfg.Test && enabledTopicCount(cfg) == 0 {
		return &ConfigError{Kind: ErrInvalidValue, Msg: "no enabled topics and test mode is off"}
	}
	return nil
}

func enabledTopicCount(cfg *Config) int {
	n := len(cfg.Applications) + len(cfg.Commands) + len(cfg.Serves) + len(cfg.Hotkeys)
	for _, b := range []Builtin{cfg.Computer, cfg.Screen.Builtin, cfg.Volume, cfg.Sleep, cfg.Media} {
		if b.Checked && b.Topic != "" {
			n++
		}
	}
	return n
}
