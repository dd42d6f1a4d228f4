package router

import (
	"context"
	"time"

	"rc-agent/internal/actions"
	"rc-agent/internal/payload"
)

// Dispatch parses raw against the payload grammar and routes (topic,
// payload) to at most one binding, scanning families in the fixed order
// Applications -> Commands -> Services -> Built-ins -> Hotkeys and
// returning after the first match.
func (r *Router) Dispatch(topic, raw string) {
	p, err := payload.Parse(raw)
	if err != nil {
		r.log.WithField("topic", topic).WithField("payload", raw).Warn("rejected payload")
		return
	}

	for i := range r.apps {
		if r.apps[i].topic == topic {
			r.dispatchApp(&r.apps[i], p)
			return
		}
	}
	for i := range r.commands {
		if r.commands[i].topic == topic {
			r.dispatchCommand(&r.commands[i], p)
			return
		}
	}
	for i := range r.serves {
		if r.serves[i].topic == topic {
			r.dispatchServe(&r.serves[i], p)
			return
		}
	}
	if r.builtins.computer != nil && r.builtins.computer.topic == topic {
		r.dispatchComputer(r.builtins.computer, p)
		return
	}
	if r.builtins.screen != nil && r.builtins.screen.topic == topic {
		r.dispatchScreen(r.builtins.screen, p)
		return
	}
	if r.builtins.volume != nil && r.builtins.volume.topic == topic {
		r.dispatchVolume(r.builtins.volume, p)
		return
	}
	if r.builtins.sleep != nil && r.builtins.sleep.topic == topic {
		r.dispatchSleep(r.builtins.sleep, p)
		return
	}
	if r.builtins.media != nil && r.builtins.media.topic == topic {
		r.dispatchMedia(r.builtins.media, p)
		return
	}
	for i := range r.hotkeys {
		if r.hotkeys[i].topic == topic {
			r.dispatchHotkey(&r.hotkeys[i], p)
			return
		}
	}

	r.log.WithField("topic", topic).Warn("unknown topic")
}

func (r *Router) dispatchApp(b *appBinding, p payload.Payload) {
	switch p.Base {
	case payload.On:
		r.runner.RunProgram(b.onPath)
	case payload.Off:
		if b.offPath != "" {
			r.runner.RunProgram(b.offPath)
			return
		}
		switch b.offPreset {
		case OffKill:
			r.runner.KillByPath(b.onPath)
		case OffNone, OffCustom:
			// no-op
		}
	default:
		r.log.WithField("topic", b.topic).Warn("application: unsupported payload base")
	}
}

func (r *Router) dispatchCommand(b *commandBinding, p payload.Payload) {
	switch p.Base {
	case payload.On:
		value := b.onValue
		if value == "" {
			value = b.legacyValue
		}
		r.spawnTrackedCommand(b, value, p)
	case payload.Off:
		if b.offValue != "" {
			r.spawnTrackedCommand(b, b.offValue, p)
			return
		}
		r.commandOff(b)
	default:
		r.log.WithField("topic", b.topic).Warn("command: unsupported payload base")
	}
}

func (r *Router) spawnTrackedCommand(b *commandBinding, cmdText string, p payload.Payload) {
	prepared := prepareCommandText(cmdText, p.HasValue, p.Value)
	pid, ok := r.runner.RunShellCommand(prepared, b.hideWindow, false)
	if !ok {
		r.log.WithField("topic", b.topic).Warn("command: spawn failed")
		return
	}
	r.procs.Append(b.topic, pid)
}

func (r *Router) commandOff(b *commandBinding) {
	switch b.offPreset {
	case OffNone:
		return
	case OffCustom:
		r.log.WithField("topic", b.topic).Warn("command: off_preset custom without off_value")
	case OffInterrupt:
		r.commandInterruptOff(b)
	case OffKill:
		r.commandKillOff(b)
	}
}

func (r *Router) commandInterruptOff(b *commandBinding) {
	r.procs.CleanupDead(b.topic)
	pid, ok := r.procs.Latest(b.topic)
	if !ok {
		return
	}
	if r.runner.SendBreak(pid) || r.runner.SendBreakDetached(pid) {
		r.procs.RemoveLatest(b.topic)
		return
	}
	ctx := context.Background()
	if !r.runner.TerminatePid(pid) {
		r.runner.TaskkillPid(ctx, pid, actions.TaskkillOpts{})
	}
	r.procs.CleanupDead(b.topic)
}

func (r *Router) commandKillOff(b *commandBinding) {
	ctx := context.Background()
	for _, pid := range r.procs.All(b.topic) {
		if !r.runner.TerminatePid(pid) {
			r.runner.TaskkillPid(ctx, pid, actions.TaskkillOpts{Force: true})
		}
	}
	r.procs.Clear(b.topic)
}

func (r *Router) dispatchServe(b *serveBinding, p payload.Payload) {
	switch p.Base {
	case payload.On:
		r.runner.ServiceStart(b.serviceName)
	case payload.Off:
		switch b.offPreset {
		case OffStop:
			r.runner.ServiceStop(b.serviceName)
		case OffCustom:
			if b.offValue != "" {
				r.runner.RunShellCommand(prepareCommandText(b.offValue, p.HasValue, p.Value), false, false)
			}
		case OffNone:
			// no-op
		}
	default:
		r.log.WithField("topic", b.topic).Warn("service: unsupported payload base")
	}
}

func (r *Router) dispatchComputer(b *computerBinding, p payload.Payload) {
	switch p.Base {
	case payload.On:
		r.runner.ComputerAction(b.onAction, b.onDelay)
	case payload.Off:
		r.runner.ComputerAction(b.offAction, b.offDelay)
	default:
		r.log.WithField("topic", b.topic).Warn("computer: unsupported payload base")
	}
}

func (r *Router) dispatchScreen(b *screenBinding, p payload.Payload) {
	var percent int
	switch p.Base {
	case payload.Off:
		percent = 0
	case payload.On:
		if !p.HasValue {
			percent = 100
		} else {
			if !payload.InRangePercent(p.Value) {
				r.log.WithField("topic", b.topic).WithField("value", p.Value).Warn("screen: value out of range")
				return
			}
			percent = p.Value
		}
	default:
		r.log.WithField("topic", b.topic).Warn("screen: unsupported payload base")
		return
	}

	if b.mode == "twinkle_tray" {
		ctx, cancel := context.WithTimeout(context.Background(), actions.CaptureTimeout)
		defer cancel()
		if r.runner.SetBrightnessExternal(ctx, percent, b.externalCfg) {
			return
		}
	}
	r.runner.SetBrightnessNative(percent)
}

func (r *Router) dispatchVolume(b *volumeBinding, p payload.Payload) {
	var percent int
	switch p.Base {
	case payload.Off, payload.Pause:
		percent = 0
	case payload.On:
		if !p.HasValue {
			percent = 100
		} else {
			if !payload.InRangePercent(p.Value) {
				r.log.WithField("topic", b.topic).WithField("value", p.Value).Warn("volume: value out of range")
				return
			}
			percent = p.Value
		}
	default:
		r.log.WithField("topic", b.topic).Warn("volume: unsupported payload base")
		return
	}
	r.runner.SetVolume(percent)
}

func (r *Router) dispatchSleep(b *sleepBinding, p payload.Payload) {
	var kind actions.SleepKind
	var delay int
	switch p.Base {
	case payload.On:
		kind, delay = b.onAction, b.onDelay
	case payload.Off:
		kind, delay = b.offAction, b.offDelay
	default:
		r.log.WithField("topic", b.topic).Warn("sleep: unsupported payload base")
		return
	}

	if delay <= 0 {
		r.runner.SleepAction(kind)
		return
	}
	r.spawn(time.Duration(delay)*time.Second, func() {
		r.runner.SleepAction(kind)
	})
}

func (r *Router) dispatchMedia(b *mediaBinding, p payload.Payload) {
	switch p.Base {
	case payload.Off:
		r.runner.MediaCommand(false, 0, true)
	case payload.On:
		r.runner.MediaCommand(p.HasValue, p.Value, false)
	case payload.Pause:
		r.runner.MediaPause()
	}
}

func (r *Router) dispatchHotkey(b *hotkeyBinding, p payload.Payload) {
	switch p.Base {
	case payload.On:
		r.runner.Hotkey(actions.HotkeyKind(b.onType), b.onValue, b.charDelayMs)
	case payload.Off:
		r.runner.Hotkey(actions.HotkeyKind(b.offType), b.offValue, b.charDelayMs)
	default:
		r.log.WithField("topic", b.topic).Warn("hotkey: unsupported payload base")
	}
}

func prepareCommandText(cmd string, hasValue bool, value int) string {
	return actions.PrepareShellCommand(cmd, hasValue, value)
}
