//go:build windows

package actions

import "golang.org/x/sys/windows"

// LivenessProbe is the production proctable.LivenessProbe: it opens pid
// with the minimal query rights and checks GetExitCodeProcess for
// STILL_ACTIVE. Permission-denied or unknown pids are reported as not
// alive, never surfaced as errors.
func LivenessProbe(pid uint32) bool {
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return false
	}
	defer windows.CloseHandle(h)

	var exitCode uint32
	if err := windows.GetExitCodeProcess(h, &exitCode); err != nil {
		return false
	}
	const stillActive = 259
	return exitCode == stillActive
}
