package config

import "testing"

func TestParseMinimalValid(t *testing.T) {
	doc := `{
		"broker": "mqtt.example.com",
		"port": 8883,
		"test": true
	}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Broker != "mqtt.example.com" || cfg.Port != 8883 {
		t.Fatalf("got %+v", cfg)
	}
	if cfg.ClientID != "RC-main" {
		t.Fatalf("expected default client id, got %q", cfg.ClientID)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("not json"))
	var cerr *ConfigError
	if err == nil {
		t.Fatal("expected error")
	}
	if !errorsAs(err, &cerr) || cerr.Kind != ErrMalformed {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}

func TestParseZeroEnabledTopicsNonTest(t *testing.T) {
	doc := `{"broker":"b","port":1}`
	_, err := Parse([]byte(doc))
	var cerr *ConfigError
	if err == nil || !errorsAs(err, &cerr) || cerr.Kind != ErrInvalidValue {
		t.Fatalf("expected ErrInvalidValue for zero enabled topics, got %v", err)
	}
}

func TestParseZeroEnabledTopicsTestModeAllowed(t *testing.T) {
	doc := `{"broker":"b","port":1,"test":true}`
	if _, err := Parse([]byte(doc)); err != nil {
		t.Fatalf("test mode should bypass zero-topic check: %v", err)
	}
}

func TestParsePrivateKeyRequiresClientID(t *testing.T) {
	doc := `{"broker":"b","port":1,"auth_mode":"private_key","client_id":"","test":true}`
	_, err := Parse([]byte(doc))
	var cerr *ConfigError
	if err == nil || !errorsAs(err, &cerr) || cerr.Kind != ErrInvalidValue {
		t.Fatalf("expected ErrInvalidValue, got %v", err)
	}
}

func TestApplicationSlotRequiresCheckedAndTopic(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"application1":"appA",
		"application1_checked": false,
		"application2_checked": true,
		"application3": "appC",
		"application3_checked": true,
		"application3_on_value": "C:\\x\\y.exe",
		"application3_off_preset": "kill"
	}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Applications) != 1 {
		t.Fatalf("expected exactly one enabled application slot, got %+v", cfg.Applications)
	}
	got := cfg.Applications[0]
	if got.Topic != "appC" || got.OnValue != `C:\x\y.exe` || got.OffPreset != "kill" {
		t.Fatalf("got %+v", got)
	}
}

func TestHotkeySlotDefaults(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"hotkey1": "hk1",
		"hotkey1_checked": true,
		"hotkey1_on_value": "ctrl+alt+t"
	}`
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.Hotkeys) != 1 {
		t.Fatalf("got %+v", cfg.Hotkeys)
	}
	h := cfg.Hotkeys[0]
	if h.OnType != "keyboard" || h.OffType != "none" {
		t.Fatalf("expected default types, got %+v", h)
	}
}

// errorsAs is a tiny local shim so this file does not need to decide
// between errors.As and a type switch at every call site.
func errorsAs(err error, target **ConfigError) bool {
	if ce, ok := err.(*ConfigError); ok {
		*target = ce
		return true
	}
	return false
}
