//go:build windows

package actions

import (
	"os/exec"
	"strconv"
	"unsafe"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/windows"
)

// ComputerKind enumerates the Computer built-in's action kinds.
type ComputerKind string

const (
	ComputerNone     ComputerKind = "none"
	ComputerLock     ComputerKind = "lock"
	ComputerShutdown ComputerKind = "shutdown"
	ComputerRestart  ComputerKind = "restart"
	ComputerLogoff   ComputerKind = "logoff"
)

// Executors bundles every action executor behind a common logger, so call
// sites never reach for a package-level logging singleton.
type Executors struct {
	Log *logrus.Entry
}

// ComputerAction performs the Computer built-in's power transition. It
// never returns an error to the caller: failures are logged and consumed,
// matching every other executor in this package.
func (e *Executors) ComputerAction(kind ComputerKind, delaySeconds int) {
	switch kind {
	case ComputerNone:
		return
	case ComputerLock:
		if err := windows.LockWorkStation(); err != nil {
			e.Log.WithError(err).Warn("computer: lock failed")
		}
	case ComputerShutdown:
		e.runTool(exec.Command("shutdown.exe", "/s", "/f", "/t", strconv.Itoa(delaySeconds)))
	case ComputerRestart:
		e.runTool(exec.Command("shutdown.exe", "/r", "/f", "/t", strconv.Itoa(delaySeconds)))
	case ComputerLogoff:
		e.runTool(exec.Command("shutdown.exe", "/l"))
	default:
		e.Log.WithField("kind", kind).Warn("computer: unknown kind")
	}
}

func (e *Executors) runTool(cmd *exec.Cmd) {
	hideWindow(cmd)
	if err := cmd.Run(); err != nil {
		e.Log.WithError(err).WithField("cmd", cmd.String()).Warn("computer: tool invocation failed")
	}
}

// SleepKind enumerates the Sleep built-in's action kinds.
type SleepKind string

const (
	SleepNone       SleepKind = "none"
	SleepSuspend    SleepKind = "sleep"
	SleepHibernate  SleepKind = "hibernate"
	SleepDisplayOff SleepKind = "display_off"
	SleepDisplayOn  SleepKind = "display_on"
	SleepLockAction SleepKind = "lock"
)

const (
	wmSyscommand   = 0x0112
	scMonitorpower = 0xF170
	hwndBroadcast  = 0xFFFF
	monitorOff     = int32(2)
	monitorOn      = int32(-1)
)

// SleepAction performs the Sleep built-in's action.
func (e *Executors) SleepAction(kind SleepKind) {
	switch kind {
	case SleepNone:
		return
	case SleepSuspend:
		e.setSuspendState(false)
	case SleepHibernate:
		e.setSuspendState(true)
	case SleepDisplayOff:
		sendMonitorPower(monitorOff)
	case SleepDisplayOn:
		sendMonitorPower(monitorOn)
	case SleepLockAction:
		if err := windows.LockWorkStation(); err != nil {
			e.Log.WithError(err).Warn("sleep: lock failed")
		}
	default:
		e.Log.WithField("kind", kind).Warn("sleep: unknown kind")
	}
}

func (e *Executors) setSuspendState(hibernate bool) {
	arg := "0"
	if hibernate {
		arg = "1"
	}
	cmd := exec.Command("rundll32.exe", "powrprof.dll,SetSuspendState", arg, "0", "0")
	e.runTool(cmd)
}

var (
	user32              = windows.NewLazySystemDLL("user32.dll")
	procSendMessageTimeoutW = user32.NewProc("SendMessageTimeoutW")
)

// sendMonitorPower broadcasts WM_SYSCOMMAND/SC_MONITORPOWER to turn
// displays on or off, grounded in rc_actions.c's display on/off handling.
func sendMonitorPower(state int32) {
	const smtoAbortIfHung = 0x0002
	var result uintptr
	_, _, _ = procSendMessageTimeoutW.Call(
		hwndBroadcast,
		wmSyscommand,
		scMonitorpower,
		uintptr(uint32(state)),
		smtoAbortIfHung,
		2000,
		uintptr(unsafe.Pointer(&result)),
	)
}
