package router

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"rc-agent/internal/actions"
	"rc-agent/internal/config"
)

// fakeRunner records every call instead of touching the OS, per Design
// Notes §9's "tests replace them with recording fakes".
type fakeRunner struct {
	runProgramCalls   []string
	killByPathCalls   []string
	shellCommands     []string
	nextPid           uint32
	terminateResults  map[uint32]bool
	sendBreakResults  map[uint32]bool
	taskkillCalls     []uint32
	serviceStartCalls []string
	serviceStopCalls  []string
	volumeCalls       []int
	brightnessCalls   []int
	computerCalls     []actions.ComputerKind
	sleepCalls        []actions.SleepKind
	mediaCalls        []struct {
		hasValue bool
		value    int
		isOff    bool
	}
	hotkeyCalls []struct {
		value string
	}
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		terminateResults: map[uint32]bool{},
		sendBreakResults: map[uint32]bool{},
	}
}

func (f *fakeRunner) ComputerAction(kind actions.ComputerKind, delaySeconds int) {
	f.computerCalls = append(f.computerCalls, kind)
}
func (f *fakeRunner) SleepAction(kind actions.SleepKind) { f.sleepCalls = append(f.sleepCalls, kind) }
func (f *fakeRunner) MediaCommand(hasValue bool, value int, isOff bool) {
	f.mediaCalls = append(f.mediaCalls, struct {
		hasValue bool
		value    int
		isOff    bool
	}{hasValue, value, isOff})
}
func (f *fakeRunner) MediaPause() {}
func (f *fakeRunner) SetVolume(percent int) bool {
	f.volumeCalls = append(f.volumeCalls, percent)
	return true
}
func (f *fakeRunner) SetBrightnessNative(percent int) bool {
	f.brightnessCalls = append(f.brightnessCalls, percent)
	return true
}
func (f *fakeRunner) SetBrightnessExternal(ctx context.Context, percent int, cfg actions.BrightnessExternalConfig) bool {
	return false
}
func (f *fakeRunner) RunProgram(path string, args ...string) bool {
	f.runProgramCalls = append(f.runProgramCalls, path)
	return true
}
func (f *fakeRunner) RunShellCommand(cmdText string, hide, keep bool) (uint32, bool) {
	f.shellCommands = append(f.shellCommands, cmdText)
	f.nextPid++
	return f.nextPid, true
}
func (f *fakeRunner) TerminatePid(pid uint32) bool {
	if ok, set := f.terminateResults[pid]; set {
		return ok
	}
	return true
}
func (f *fakeRunner) TaskkillPid(ctx context.Context, pid uint32, opts actions.TaskkillOpts) bool {
	f.taskkillCalls = append(f.taskkillCalls, pid)
	return true
}
func (f *fakeRunner) KillByPath(path string) bool {
	f.killByPathCalls = append(f.killByPathCalls, path)
	return true
}
func (f *fakeRunner) SendBreak(pid uint32) bool {
	if ok, set := f.sendBreakResults[pid]; set {
		return ok
	}
	return false
}
func (f *fakeRunner) SendBreakDetached(pid uint32) bool { return false }
func (f *fakeRunner) ServiceStart(name string) bool {
	f.serviceStartCalls = append(f.serviceStartCalls, name)
	return true
}
func (f *fakeRunner) ServiceStop(name string) bool {
	f.serviceStopCalls = append(f.serviceStopCalls, name)
	return true
}
func (f *fakeRunner) Hotkey(kind actions.HotkeyKind, value string, charDelayMs int) {
	f.hotkeyCalls = append(f.hotkeyCalls, struct{ value string }{value})
}

func alwaysAlive(uint32) bool { return true }

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(l)
}

func newTestRouter(t *testing.T, doc string, runner ActionRunner) *Router {
	t.Helper()
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	spawn := func(d time.Duration, fn func()) { fn() } // synchronous for deterministic tests
	return New(cfg, runner, testLogger(), alwaysAlive, spawn)
}

// Scenario 2: application launch/kill.
func TestApplicationLaunchAndKill(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"application1":"appA","application1_checked":true,
		"application1_on_value":"C:\\x\\y.exe",
		"application1_off_preset":"kill"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("appA", "on")
	if len(f.runProgramCalls) != 1 || f.runProgramCalls[0] != `C:\x\y.exe` {
		t.Fatalf("got %v", f.runProgramCalls)
	}

	r.Dispatch("appA", "off")
	if len(f.killByPathCalls) != 1 || f.killByPathCalls[0] != `C:\x\y.exe` {
		t.Fatalf("got %v", f.killByPathCalls)
	}
}

// P1: when a topic is configured in two families, only the higher-priority
// family's binding fires.
func TestPriorityOrderApplicationsBeforeBuiltins(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"application1":"shared","application1_checked":true,
		"application1_on_value":"C:\\app.exe",
		"Computer_checked":true,
		"Computer":"shared"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("shared", "on")
	if len(f.runProgramCalls) != 1 {
		t.Fatalf("expected application binding to win, got runProgramCalls=%v computerCalls=%v", f.runProgramCalls, f.computerCalls)
	}
	if len(f.computerCalls) != 0 {
		t.Fatalf("expected Computer binding not to fire, got %v", f.computerCalls)
	}
}

// P2: after a kill-style off on a command topic, the process table is empty.
func TestCommandKillOffClearsTable(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"command1":"cmdA","command1_checked":true,
		"command1_on_value":"python srv.py",
		"command1_off_preset":"kill"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("cmdA", "on")
	r.Dispatch("cmdA", "on")
	if len(f.shellCommands) != 2 {
		t.Fatalf("expected two spawns, got %v", f.shellCommands)
	}

	r.Dispatch("cmdA", "off")
	if got := r.procs.All("cmdA"); len(got) != 0 {
		t.Fatalf("expected empty process table after kill off, got %v", got)
	}
}

// Scenario 3 / P3: interrupt-style off sends a break to the latest pid and,
// on success, removes only that pid.
func TestCommandInterruptOff(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"command1":"cmdA","command1_checked":true,
		"command1_on_value":"python srv.py",
		"command1_off_preset":"interrupt"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("cmdA", "on")
	r.Dispatch("cmdA", "on")
	pids := r.procs.All("cmdA")
	if len(pids) != 2 {
		t.Fatalf("expected two tracked pids, got %v", pids)
	}
	latest := pids[len(pids)-1]
	f.sendBreakResults[latest] = true

	r.Dispatch("cmdA", "off")
	remaining := r.procs.All("cmdA")
	if len(remaining) != 1 || remaining[0] == latest {
		t.Fatalf("expected only the earlier pid to remain, got %v (latest was %v)", remaining, latest)
	}
}

// P4: a successful on-spawn is recorded before the next message dispatches.
func TestCommandOnRegistersPidBeforeNextDispatch(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"command1":"cmdA","command1_checked":true,
		"command1_on_value":"python srv.py"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("cmdA", "on")
	if got := r.procs.All("cmdA"); len(got) != 1 {
		t.Fatalf("expected pid recorded immediately, got %v", got)
	}
}

// P6: a rejected payload causes no executor call and no pid recorded.
func TestRejectedPayloadNoSideEffects(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"command1":"cmdA","command1_checked":true,
		"command1_on_value":"python srv.py"
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("cmdA", "notavalidpayload")
	if len(f.shellCommands) != 0 {
		t.Fatalf("expected no spawn for rejected payload, got %v", f.shellCommands)
	}
	if got := r.procs.All("cmdA"); len(got) != 0 {
		t.Fatalf("expected no pid recorded, got %v", got)
	}
}

// Scenario 1 / P9: out-of-range brightness values are rejected, not clamped.
func TestScreenOutOfRangeRejected(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"screen":"scr","screen_checked":true
	}`
	f := newFakeRunner()
	r := newTestRouter(t, doc, f)

	r.Dispatch("scr", "on#42")
	if len(f.brightnessCalls) != 1 || f.brightnessCalls[0] != 42 {
		t.Fatalf("got %v", f.brightnessCalls)
	}

	r.Dispatch("scr", "on#120")
	if len(f.brightnessCalls) != 1 {
		t.Fatalf("expected no additional executor call for out-of-range value, got %v", f.brightnessCalls)
	}
}

// P10: zero delay dispatches synchronously, without going through the
// delayed-task spawner; TestSleepDelayedSpawnsAfterDelay covers a
// non-zero delay.
func TestSleepDelayContract(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"sleep":"slp","sleep_checked":true,
		"sleep_on_action":"sleep","sleep_on_delay":0
	}`
	f := newFakeRunner()
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}
	spawned := false
	spawn := func(d time.Duration, fn func()) { spawned = true }
	r := New(cfg, f, testLogger(), alwaysAlive, spawn)
	r.Dispatch("slp", "on")
	if spawned {
		t.Fatal("expected zero delay not to schedule a delayed task")
	}
	if len(f.sleepCalls) != 1 {
		t.Fatalf("expected synchronous call for zero delay, got %v", f.sleepCalls)
	}
}

func TestSleepDelayedSpawnsAfterDelay(t *testing.T) {
	doc := `{
		"broker":"b","port":1,"test":true,
		"sleep":"slp","sleep_checked":true,
		"sleep_on_action":"sleep","sleep_on_delay":3
	}`
	f := newFakeRunner()
	cfg, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("config parse failed: %v", err)
	}

	var capturedDelay time.Duration
	spawn := func(d time.Duration, fn func()) {
		capturedDelay = d
		fn()
	}
	r := New(cfg, f, testLogger(), alwaysAlive, spawn)
	r.Dispatch("slp", "on")

	if capturedDelay != 3*time.Second {
		t.Fatalf("expected 3s delay, got %v", capturedDelay)
	}
	if len(f.sleepCalls) != 1 {
		t.Fatalf("expected sleep action to eventually fire, got %v", f.sleepCalls)
	}
}
