package router

import (
	"rc-agent/internal/actions"
	"rc-agent/internal/config"
)

// build constructs every binding table from cfg. Order of construction
// does not matter; the dispatch order applied in dispatch.go is what
// callers actually observe.
func build(cfg *config.Config) (apps []appBinding, cmds []commandBinding, serves []serveBinding, hotkeys []hotkeyBinding, builtins builtinBindings) {
	for _, a := range cfg.Applications {
		apps = append(apps, appBinding{
			topic:     a.Topic,
			onPath:    a.OnValue,
			offPath:   a.OffValue,
			offPreset: parseOffPreset(a.OffPreset, []OffPreset{OffKill, OffNone, OffCustom}, OffKill),
		})
	}

	for _, c := range cfg.Commands {
		cmds = append(cmds, commandBinding{
			topic:       c.Topic,
			legacyValue: c.LegacyValue,
			onValue:     c.OnValue,
			offValue:    c.OffValue,
			offPreset:   parseOffPreset(c.OffPreset, []OffPreset{OffInterrupt, OffKill, OffNone, OffCustom}, OffKill),
			hideWindow:  c.Window != "show",
		})
	}

	for _, s := range cfg.Serves {
		serves = append(serves, serveBinding{
			topic:       s.Topic,
			serviceName: s.ServiceName,
			offPreset:   parseOffPreset(s.OffPreset, []OffPreset{OffStop, OffNone, OffCustom}, OffStop),
			offValue:    s.OffValue,
		})
	}

	for _, h := range cfg.Hotkeys {
		hotkeys = append(hotkeys, hotkeyBinding{
			topic:       h.Topic,
			onType:      h.OnType,
			onValue:     h.OnValue,
			offType:     h.OffType,
			offValue:    h.OffValue,
			charDelayMs: h.CharDelayMs,
		})
	}

	if cfg.Computer.Checked && cfg.Computer.Topic != "" {
		builtins.computer = &computerBinding{
			topic:     cfg.Computer.Topic,
			onAction:  computerKindOrDefault(cfg.Computer.OnAction, actions.ComputerLock),
			offAction: computerKindOrDefault(cfg.Computer.OffAction, actions.ComputerNone),
			onDelay:   delayOrDefault(cfg.Computer.OnDelay, 0),
			offDelay:  delayOrDefault(cfg.Computer.OffDelay, 60),
		}
	}

	if cfg.Screen.Checked && cfg.Screen.Topic != "" {
		builtins.screen = &screenBinding{
			topic: cfg.Screen.Topic,
			mode:  cfg.Screen.Mode,
			externalCfg: actions.BrightnessExternalConfig{
				ExePath:     cfg.Screen.ExternalExe,
				Target:      brightnessTargetOf(cfg.Screen.ExternalTarget),
				TargetValue: cfg.Screen.ExternalValue,
				Overlay:     cfg.Screen.ExternalOverlay,
				Panel:       cfg.Screen.ExternalPanel,
			},
		}
	}

	if cfg.Volume.Checked && cfg.Volume.Topic != "" {
		builtins.volume = &volumeBinding{topic: cfg.Volume.Topic}
	}

	if cfg.Sleep.Checked && cfg.Sleep.Topic != "" {
		builtins.sleep = &sleepBinding{
			topic:     cfg.Sleep.Topic,
			onAction:  sleepKindOrDefault(cfg.Sleep.OnAction, actions.SleepSuspend),
			offAction: sleepKindOrDefault(cfg.Sleep.OffAction, actions.SleepNone),
			onDelay:   delayOrDefault(cfg.Sleep.OnDelay, 0),
			offDelay:  delayOrDefault(cfg.Sleep.OffDelay, 0),
		}
	}

	if cfg.Media.Checked && cfg.Media.Topic != "" {
		builtins.media = &mediaBinding{topic: cfg.Media.Topic}
	}

	return apps, cmds, serves, hotkeys, builtins
}

func computerKindOrDefault(s string, def actions.ComputerKind) actions.ComputerKind {
	switch actions.ComputerKind(s) {
	case actions.ComputerNone, actions.ComputerLock, actions.ComputerShutdown, actions.ComputerRestart, actions.ComputerLogoff:
		return actions.ComputerKind(s)
	default:
		return def
	}
}

func sleepKindOrDefault(s string, def actions.SleepKind) actions.SleepKind {
	switch actions.SleepKind(s) {
	case actions.SleepNone, actions.SleepSuspend, actions.SleepHibernate, actions.SleepDisplayOff, actions.SleepDisplayOn, actions.SleepLockAction:
		return actions.SleepKind(s)
	default:
		return def
	}
}

func brightnessTargetOf(s string) actions.BrightnessExternalTarget {
	switch s {
	case "monitor_id":
		return actions.BrightnessMonitorID
	case "monitor_num":
		return actions.BrightnessMonitorNum
	default:
		return actions.BrightnessAll
	}
}

func delayOrDefault(v, def int) int {
	if v < 0 {
		return def
	}
	return v
}
