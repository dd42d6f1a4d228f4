// Package router is the configuration-driven dispatcher: it parses the
// config tree into topic-indexed binding tables, owns the process table,
// parses the payload grammar, and decides which action executor to invoke.
package router

import "rc-agent/internal/actions"

// OffPreset is the shared tagged-variant for the off-message strategy,
// constrained per family at construction time.
type OffPreset int

const (
	OffNone OffPreset = iota
	OffKill
	OffCustom
	OffInterrupt
	OffStop
)

func parseOffPreset(s string, allowed []OffPreset, fallback OffPreset) OffPreset {
	var candidate OffPreset
	switch s {
	case "none":
		candidate = OffNone
	case "kill":
		candidate = OffKill
	case "custom":
		candidate = OffCustom
	case "interrupt":
		candidate = OffInterrupt
	case "stop":
		candidate = OffStop
	default:
		return fallback
	}
	for _, a := range allowed {
		if a == candidate {
			return candidate
		}
	}
	return fallback
}

// appBinding is an immutable application-family record.
type appBinding struct {
	topic     string
	onPath    string
	offPath   string
	offPreset OffPreset
}

// commandBinding is an immutable command-family record.
type commandBinding struct {
	topic       string
	legacyValue string
	onValue     string
	offValue    string
	offPreset   OffPreset
	hideWindow  bool
}

// serveBinding is an immutable service-family record.
type serveBinding struct {
	topic       string
	serviceName string
	offPreset   OffPreset
	offValue    string
}

// hotkeyBinding is an immutable hotkey-family record.
type hotkeyBinding struct {
	topic       string
	onType      string
	onValue     string
	offType     string
	offValue    string
	charDelayMs int
}

// builtinBindings holds the five fixed built-in topics.
type builtinBindings struct {
	computer *computerBinding
	screen   *screenBinding
	volume   *volumeBinding
	sleep    *sleepBinding
	media    *mediaBinding
}

type computerBinding struct {
	topic     string
	onAction  actions.ComputerKind
	offAction actions.ComputerKind
	onDelay   int
	offDelay  int
}

type screenBinding struct {
	topic        string
	mode         string
	externalCfg  actions.BrightnessExternalConfig
}

type volumeBinding struct {
	topic string
}

type sleepBinding struct {
	topic     string
	onAction  actions.SleepKind
	offAction actions.SleepKind
	onDelay   int
	offDelay  int
}

type mediaBinding struct {
	topic string
}
