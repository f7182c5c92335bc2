package platform

import "fmt"

// EnableAutostart registers the executable to launch at login.
func EnableAutostart(appName, execPath string) error {
	if appName == "" {
		return fmt.Errorf("enable autostart: app name is empty")
	}
	if execPath == "" {
		return fmt.Errorf("enable autostart: exec path is empty")
	}
	return enableAutostart(appName, execPath)
}

// DisableAutostart removes the login entry.
func DisableAutostart(appName string) error {
	if appName == "" {
		return fmt.Errorf("disable autostart: app name is empty")
	}
	return disableAutostart(appName)
}

// AutostartEnabled reports whether a login entry currently exists.
func AutostartEnabled(appName string) bool {
	if appName == "" {
		return false
	}
	return autostartEnabled(appName)
}
