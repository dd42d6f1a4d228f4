//go:build windows

package actions

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	createNoWindow        = 0x08000000
	createNewConsole      = 0x00000010
	createNewProcessGroup = 0x00000200
)

// hideWindow configures cmd so it runs without a visible console window.
// Used for tool invocations (shutdown, sc.exe, taskkill) that never need a
// window of their own.
func hideWindow(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
	cmd.SysProcAttr.CreationFlags |= createNoWindow
}

// configureShellSpawn applies the window/console semantics shell-command
// children need: hide suppresses the console window, otherwise one is
// allocated; the child always gets a new process group so
// a later send_break can target it without affecting this process.
func configureShellSpawn(cmd *exec.Cmd, hide bool) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.CreationFlags |= createNewProcessGroup
	if hide {
		cmd.SysProcAttr.HideWindow = true
		cmd.SysProcAttr.CreationFlags |= createNoWindow
	} else {
		cmd.SysProcAttr.CreationFlags |= createNewConsole
	}
}

// RunProgram launches an application at path. Scripts are dispatched to the
// appropriate interpreter; anything else is shell-opened, falling back to a
// direct spawn if the shell association fails.
func (e *Executors) RunProgram(path string, args ...string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	var cmd *exec.Cmd
	switch ext {
	case ".ps1":
		psArgs := append([]string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-File", path}, args...)
		cmd = exec.Command("powershell.exe", psArgs...)
	case ".bat", ".cmd":
		cmd = exec.Command("cmd.exe", append([]string{"/c", path}, args...)...)
	default:
		if err := shellOpen(path); err == nil {
			return true
		}
		cmd = exec.Command(path, args...)
	}
	hideWindow(cmd)
	if err := cmd.Start(); err != nil {
		e.Log.WithError(err).WithField("path", path).Warn("run_program: spawn failed")
		return false
	}
	go cmd.Wait()
	return true
}

var (
	shell32             = windows.NewLazySystemDLL("shell32.dll")
	procShellExecuteW   = shell32.NewProc("ShellExecuteW")
)

func shellOpen(path string) error {
	verb, _ := windows.UTF16PtrFromString("open")
	p, _ := windows.UTF16PtrFromString(path)
	ret, _, _ := procShellExecuteW.Call(0, uintptr(unsafe.Pointer(verb)), uintptr(unsafe.Pointer(p)), 0, 0, 1)
	// ShellExecuteW returns a value > 32 on success.
	if ret <= 32 {
		return fmt.Errorf("ShellExecuteW failed: %d", ret)
	}
	return nil
}

// RunShellCommand launches cmdText through the shell scripting engine in a
// new process group (required for later interrupt delivery) and returns its
// pid. hide suppresses the console window; keep keeps the engine open after
// the command finishes (passes -NoExit), useful for debugging.
func (e *Executors) RunShellCommand(cmdText string, hide, keep bool) (uint32, bool) {
	args := []string{"-NoProfile", "-ExecutionPolicy", "Bypass", "-NonInteractive"}
	if keep {
		args = append(args, "-NoExit")
	}
	args = append(args, "-Command", cmdText)

	cmd := exec.Command("powershell.exe", args...)
	configureShellSpawn(cmd, hide)

	if err := cmd.Start(); err != nil {
		e.Log.WithError(err).WithField("cmd", cmdText).Warn("run_shell_command: spawn failed")
		return 0, false
	}
	pid := uint32(cmd.Process.Pid)
	go cmd.Wait()
	return pid, true
}

// TerminatePid forcefully and immediately terminates pid.
func (e *Executors) TerminatePid(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_TERMINATE, false, pid)
	if err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("terminate_pid: open failed")
		return false
	}
	defer windows.CloseHandle(h)
	if err := windows.TerminateProcess(h, 1); err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("terminate_pid: terminate failed")
		return false
	}
	return true
}

// TaskkillOpts controls the optional flags passed to taskkill.exe.
type TaskkillOpts struct {
	Force bool
	Tree  bool
}

// TaskkillPid invokes the OS task-kill tool against pid, capturing its
// output for diagnostics.
func (e *Executors) TaskkillPid(ctx context.Context, pid uint32, opts TaskkillOpts) bool {
	args := []string{"/PID", strconv.FormatUint(uint64(pid), 10)}
	if opts.Force {
		args = append(args, "/F")
	}
	if opts.Tree {
		args = append(args, "/T")
	}
	cmd := exec.Command("taskkill.exe", args...)
	hideWindow(cmd)
	out, err := runCapture(ctx, cmd)
	if err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("taskkill_pid: spawn failed")
		return false
	}
	if out.TimedOut || out.ExitCode != 0 {
		e.Log.WithFields(map[string]interface{}{
			"pid": pid, "exit": out.ExitCode, "timed_out": out.TimedOut, "stderr": string(out.Stderr),
		}).Warn("taskkill_pid: non-zero exit")
		return false
	}
	return true
}

// KillByPath best-effort terminates every running process whose executable
// base name matches the base name of path (case-insensitively; the directory
// is not compared), used by the application family's default "kill"
// off-preset when no explicit off command is configured.
func (e *Executors) KillByPath(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	pids, err := processesByBaseName(base)
	if err != nil {
		e.Log.WithError(err).WithField("path", path).Warn("kill_by_path: enumeration failed")
		return false
	}
	ok := false
	for _, pid := range pids {
		if e.TerminatePid(pid) {
			ok = true
		}
	}
	return ok
}

// SendBreak attaches to pid's console, disables this process's own break
// handler, sends a CTRL_BREAK_EVENT, detaches, and restores the handler.
// Intended for interactive interruption of consoled children spawned with a
// new process group.
func (e *Executors) SendBreak(pid uint32) bool {
	_ = windows.FreeConsole()
	if err := windows.AttachConsole(pid); err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("send_break: attach failed")
		return false
	}
	defer windows.FreeConsole()

	_ = windows.SetConsoleCtrlHandler(nil, true)
	defer windows.SetConsoleCtrlHandler(nil, false)

	if err := windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, pid); err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("send_break: generate event failed")
		return false
	}
	return true
}

// SendBreakDetached sends a CTRL_BREAK_EVENT without first attaching to the
// target's console; it may fail when the caller does not already share one.
func (e *Executors) SendBreakDetached(pid uint32) bool {
	if err := windows.GenerateConsoleCtrlEvent(windows.CTRL_BREAK_EVENT, pid); err != nil {
		e.Log.WithError(err).WithField("pid", pid).Warn("send_break_detached: failed")
		return false
	}
	return true
}
