//go:build windows

package actions

import (
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

// processesByBaseName enumerates running processes via a Toolhelp32
// snapshot and returns the pids whose executable base name matches base
// case-insensitively, grounded in the single-instance-guard enumeration
// idiom (CreateToolhelp32Snapshot / Process32FirstW / Process32NextW).
func processesByBaseName(base string) ([]uint32, error) {
	snap, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return nil, err
	}
	defer windows.CloseHandle(snap)

	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	var pids []uint32
	if err := windows.Process32First(snap, &entry); err != nil {
		return nil, err
	}
	for {
		name := windows.UTF16ToString(entry.ExeFile[:])
		if strings.EqualFold(name, base) {
			pids = append(pids, entry.ProcessID)
		}
		if err := windows.Process32Next(snap, &entry); err != nil {
			break
		}
	}
	return pids, nil
}
