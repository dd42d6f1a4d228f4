//go:build windows

package actions

import (
	"fmt"
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
)

// Core Audio interface and class identifiers (mmdeviceapi.h / endpointvolume.h).
var (
	clsidMMDeviceEnumerator = ole.NewGUID("{BCDE0395-E52F-467C-8E3D-C4579291692E}")
	iidIMMDeviceEnumerator  = ole.NewGUID("{A95664D2-9614-4F35-A746-DE8DB63617E6}")
	iidIAudioEndpointVolume = ole.NewGUID("{5CDF2C82-841E-4546-9722-0CF74078229A}")
)

const (
	eRender  = 0 // EDataFlow: render (output) devices
	eConsole = 0 // ERole: console
)

// vtable method layouts, offset in pointer-sized slots past IUnknown's
// QueryInterface/AddRef/Release (slots 0-2).
type mmDeviceEnumeratorVtbl struct {
	_                       [3]uintptr
	enumAudioEndpoints      uintptr
	getDefaultAudioEndpoint uintptr
}

type mmDeviceVtbl struct {
	_        [3]uintptr
	activate uintptr
}

type audioEndpointVolumeVtbl struct {
	_                          [6]uintptr
	setMasterVolumeLevel       uintptr
	setMasterVolumeLevelScalar uintptr
}

type comObject struct {
	vtbl uintptr
}

func vtblOf(unk *ole.IUnknown) uintptr {
	return (*(*comObject)(unsafe.Pointer(unk))).vtbl
}

// SetVolume sets the default render endpoint's master volume, via COM
// activation of IMMDeviceEnumerator/IAudioEndpointVolume — the one executor
// in the agent with no flat syscall surface, which is why go-ole is kept as
// a direct dependency instead of an unused transitive one.
func (e *Executors) SetVolume(percent int) bool {
	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err == nil {
		defer ole.CoUninitialize()
	}

	enumUnknown, err := ole.CreateInstance(clsidMMDeviceEnumerator, iidIMMDeviceEnumerator)
	if err != nil {
		e.Log.WithError(err).Warn("set_volume: create device enumerator failed")
		return false
	}
	defer enumUnknown.Release()

	device, err := getDefaultAudioEndpoint(enumUnknown)
	if err != nil {
		e.Log.WithError(err).Warn("set_volume: get default endpoint failed")
		return false
	}
	defer device.Release()

	endpointVolume, err := activate(device, iidIAudioEndpointVolume)
	if err != nil {
		e.Log.WithError(err).Warn("set_volume: activate endpoint volume failed")
		return false
	}
	defer endpointVolume.Release()

	scalar := float32(percent) / 100.0
	if err := setMasterVolumeLevelScalar(endpointVolume, scalar); err != nil {
		e.Log.WithError(err).Warn("set_volume: SetMasterVolumeLevelScalar failed")
		return false
	}
	return true
}

func getDefaultAudioEndpoint(enumerator *ole.IUnknown) (*ole.IUnknown, error) {
	vtbl := (*mmDeviceEnumeratorVtbl)(unsafe.Pointer(vtblOf(enumerator)))
	var device *ole.IUnknown
	hr, _, _ := syscall.Syscall6(
		vtbl.getDefaultAudioEndpoint, 4,
		uintptr(unsafe.Pointer(enumerator)),
		uintptr(eRender),
		uintptr(eConsole),
		uintptr(unsafe.Pointer(&device)),
		0, 0,
	)
	if hr != 0 {
		return nil, fmt.Errorf("GetDefaultAudioEndpoint failed: hresult 0x%x", uint32(hr))
	}
	return device, nil
}

func activate(device *ole.IUnknown, iid *ole.GUID) (*ole.IUnknown, error) {
	vtbl := (*mmDeviceVtbl)(unsafe.Pointer(vtblOf(device)))
	var iface *ole.IUnknown
	hr, _, _ := syscall.Syscall6(
		vtbl.activate, 5,
		uintptr(unsafe.Pointer(device)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(0x1), // CLSCTX_INPROC_SERVER
		0,
		uintptr(unsafe.Pointer(&iface)),
		0,
	)
	if hr != 0 {
		return nil, fmt.Errorf("Activate failed: hresult 0x%x", uint32(hr))
	}
	return iface, nil
}

func setMasterVolumeLevelScalar(endpointVolume *ole.IUnknown, scalar float32) error {
	vtbl := (*audioEndpointVolumeVtbl)(unsafe.Pointer(vtblOf(endpointVolume)))
	hr, _, _ := syscall.Syscall(
		vtbl.setMasterVolumeLevelScalar, 3,
		uintptr(unsafe.Pointer(endpointVolume)),
		uintptr(*(*uint32)(unsafe.Pointer(&scalar))),
		0,
	)
	if hr != 0 {
		return fmt.Errorf("SetMasterVolumeLevelScalar failed: hresult 0x%x", uint32(hr))
	}
	return nil
}
