//go:build windows

package actions

import "os/exec"

// ServiceStart invokes the service-control tool to start name.
func (e *Executors) ServiceStart(name string) bool {
	return e.serviceControl("start", name)
}

// ServiceStop invokes the service-control tool to stop name.
func (e *Executors) ServiceStop(name string) bool {
	return e.serviceControl("stop", name)
}

func (e *Executors) serviceControl(verb, name string) bool {
	cmd := exec.Command("sc.exe", verb, name)
	hideWindow(cmd)
	if err := cmd.Run(); err != nil {
		e.Log.WithError(err).WithField("service", name).WithField("verb", verb).Warn("service control failed")
		return false
	}
	return true
}
