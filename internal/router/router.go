package router

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"rc-agent/internal/actions"
	"rc-agent/internal/config"
	"rc-agent/internal/proctable"
)

// ActionRunner is the set of action executors the router dispatches into.
// It is an interface (rather than a concrete *actions.Executors) so tests
// can substitute a recording fake instead of touching real OS state.
type ActionRunner interface {
	ComputerAction(kind actions.ComputerKind, delaySeconds int)
	SleepAction(kind actions.SleepKind)
	MediaCommand(hasValue bool, value int, isOff bool)
	MediaPause()
	SetVolume(percent int) bool
	SetBrightnessNative(percent int) bool
	SetBrightnessExternal(ctx context.Context, percent int, cfg actions.BrightnessExternalConfig) bool
	RunProgram(path string, args ...string) bool
	RunShellCommand(cmdText string, hide, keep bool) (uint32, bool)
	TerminatePid(pid uint32) bool
	TaskkillPid(ctx context.Context, pid uint32, opts actions.TaskkillOpts) bool
	KillByPath(path string) bool
	SendBreak(pid uint32) bool
	SendBreakDetached(pid uint32) bool
	ServiceStart(name string) bool
	ServiceStop(name string) bool
	Hotkey(kind actions.HotkeyKind, value string, charDelayMs int)
}

// DelayedTaskSpawner schedules fn to run after d, fire-and-forget, with no
// deduplication and no cancellation. Production wiring spawns a goroutine;
// tests substitute a synchronous or recording stub.
type DelayedTaskSpawner func(d time.Duration, fn func())

// Router owns the config-derived binding tables and the process table, and
// maps (topic, payload) to executor calls.
type Router struct {
	apps     []appBinding
	commands []commandBinding
	serves   []serveBinding
	hotkeys  []hotkeyBinding
	builtins builtinBindings

	procs *proctable.Table

	runner ActionRunner
	log    *logrus.Entry
	spawn  DelayedTaskSpawner
}

// New builds a Router from cfg. probe is the process-liveness predicate
// (actions.LivenessProbe in production); spawn schedules delayed sleep
// tasks (DefaultSpawner in production: one goroutine per call that sleeps
// for the delay and then runs the task).
func New(cfg *config.Config, runner ActionRunner, log *logrus.Entry, probe proctable.LivenessProbe, spawn DelayedTaskSpawner) *Router {
	apps, cmds, serves, hotkeys, builtins := build(cfg)
	return &Router{
		apps:     apps,
		commands: cmds,
		serves:   serves,
		hotkeys:  hotkeys,
		builtins: builtins,
		procs:    proctable.New(probe),
		runner:   runner,
		log:      log,
		spawn:    spawn,
	}
}

// Topics returns every enabled topic string across all families, in
// declaration order (Applications, Commands, Services, Built-ins,
// Hotkeys) — the same order Dispatch checks bindings in. Duplicates are
// preserved; callers that need a deduplicated subscription set do that
// themselves.
func (r *Router) Topics() []string {
	var topics []string
	for _, a := range r.apps {
		topics = append(topics, a.topic)
	}
	for _, c := range r.commands {
		topics = append(topics, c.topic)
	}
	for _, s := range r.serves {
		topics = append(topics, s.topic)
	}
	if r.builtins.computer != nil {
		topics = append(topics, r.builtins.computer.topic)
	}
	if r.builtins.screen != nil {
		topics = append(topics, r.builtins.screen.topic)
	}
	if r.builtins.volume != nil {
		topics = append(topics, r.builtins.volume.topic)
	}
	if r.builtins.sleep != nil {
		topics = append(topics, r.builtins.sleep.topic)
	}
	if r.builtins.media != nil {
		topics = append(topics, r.builtins.media.topic)
	}
	for _, h := range r.hotkeys {
		topics = append(topics, h.topic)
	}
	return topics
}
