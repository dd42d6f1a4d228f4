//go:build windows

package notify

import (
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	shell32  = windows.NewLazySystemDLL("shell32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	procRegisterClassExW  = user32.NewProc("RegisterClassExW")
	procCreateWindowExW   = user32.NewProc("CreateWindowExW")
	procDefWindowProcW    = user32.NewProc("DefWindowProcW")
	procDestroyWindow     = user32.NewProc("DestroyWindow")
	procShellNotifyIconW  = shell32.NewProc("Shell_NotifyIconW")
	procGetModuleHandleW  = kernel32.NewProc("GetModuleHandleW")
)

const (
	nimAdd    = 0x00000000
	nimModify = 0x00000001
	nimDelete = 0x00000002

	nifMessage = 0x00000001
	nifTip     = 0x00000004
	nifInfo    = 0x00000010

	niifInfo = 0x00000001

	wsOverlappedWindow = 0x00CF0000
	cwUseDefault       = 0x80000000
	wmDestroy          = 0x0002
)

// hwndMessage is HWND_MESSAGE: a message-only window parent, so the tray
// window never actually appears on screen.
const hwndMessage = ^uintptr(2)

// notifyIconDataW mirrors NOTIFYICONDATAW. Field order and widths follow
// the Win32 definition exactly; Go's default struct alignment matches
// the C layout here since every field is naturally aligned already.
type notifyIconDataW struct {
	cbSize           uint32
	hWnd             uintptr
	uID              uint32
	uFlags           uint32
	uCallbackMessage uint32
	hIcon            uintptr
	szTip            [128]uint16
	dwState          uint32
	dwStateMask      uint32
	szInfo           [256]uint16
	uVersionOrTimout uint32
	szInfoTitle      [64]uint16
	dwInfoFlags      uint32
	guidItem         windows.GUID
	hBalloonIcon     uintptr
}

type wndClassExW struct {
	cbSize        uint32
	style         uint32
	lpfnWndProc   uintptr
	cbClsExtra    int32
	cbWndExtra    int32
	hInstance     uintptr
	hIcon         uintptr
	hCursor       uintptr
	hbrBackground uintptr
	lpszMenuName  *uint16
	lpszClassName *uint16
	hIconSm       uintptr
}

// TrayNotifier shows best-effort Windows balloon notifications through a
// hidden message-only window and a notify icon, matching tray.c's
// NIM_ADD/NIM_MODIFY/NIM_DELETE lifecycle without the menu and
// click-handling surface the tray UI owns (out of this core's scope).
type TrayNotifier struct {
	mu    sync.Mutex
	hwnd  uintptr
	nid   notifyIconDataW
	ready bool
}

var wndProcCallback = syscall.NewCallback(func(hwnd, msg, wparam, lparam uintptr) uintptr {
	if msg == wmDestroy {
		return 0
	}
	ret, _, _ := procDefWindowProcW.Call(hwnd, msg, wparam, lparam)
	return ret
})

// NewTrayNotifier registers a hidden window and adds a notify icon. It
// returns a NoOp-equivalent notifier (ready=false) if any step fails,
// since notifications are best-effort by contract.
func NewTrayNotifier() *TrayNotifier {
	t := &TrayNotifier{}
	hInstance, _, _ := procGetModuleHandleW.Call(0)

	className, _ := windows.UTF16PtrFromString("RCAgentTrayNotifier")
	wc := wndClassExW{
		lpfnWndProc:   wndProcCallback,
		hInstance:     hInstance,
		lpszClassName: className,
	}
	wc.cbSize = uint32(unsafe.Sizeof(wc))
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	windowName, _ := windows.UTF16PtrFromString("RC Agent")
	hwnd, _, _ := procCreateWindowExW.Call(
		0,
		uintptr(unsafe.Pointer(className)),
		uintptr(unsafe.Pointer(windowName)),
		0,
		0, 0, 0, 0,
		hwndMessage,
		0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		return t
	}
	t.hwnd = hwnd

	t.nid = notifyIconDataW{
		cbSize:           uint32(unsafe.Sizeof(t.nid)),
		hWnd:             hwnd,
		uID:              1,
		uFlags:           nifMessage | nifTip,
		uCallbackMessage: 0x8000,
	}
	copy(t.nid.szTip[:], windows.StringToUTF16("RC Agent"))

	ret, _, _ := procShellNotifyIconW.Call(nimAdd, uintptr(unsafe.Pointer(&t.nid)))
	t.ready = ret != 0
	return t
}

func (t *TrayNotifier) Notify(title, body string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	t.nid.uFlags = nifInfo
	clearUTF16(t.nid.szInfoTitle[:])
	clearUTF16(t.nid.szInfo[:])
	copy(t.nid.szInfoTitle[:len(t.nid.szInfoTitle)-1], windows.StringToUTF16(title))
	copy(t.nid.szInfo[:len(t.nid.szInfo)-1], windows.StringToUTF16(body))
	t.nid.dwInfoFlags = niifInfo
	procShellNotifyIconW.Call(nimModify, uintptr(unsafe.Pointer(&t.nid)))
}

func (t *TrayNotifier) SetStatus(text string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}
	t.nid.uFlags = nifTip
	clearUTF16(t.nid.szTip[:])
	copy(t.nid.szTip[:len(t.nid.szTip)-1], windows.StringToUTF16(text))
	procShellNotifyIconW.Call(nimModify, uintptr(unsafe.Pointer(&t.nid)))
}

// Close removes the notify icon and destroys the hidden window.
func (t *TrayNotifier) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready {
		procShellNotifyIconW.Call(nimDelete, uintptr(unsafe.Pointer(&t.nid)))
		t.ready = false
	}
	if t.hwnd != 0 {
		procDestroyWindow.Call(t.hwnd)
		t.hwnd = 0
	}
}

func clearUTF16(buf []uint16) {
	for i := range buf {
		buf[i] = 0
	}
}
