package platform

import (
	"fmt"
	"runtime"
)

// Provider bundles the platform backends for the current OS. Individual
// fields may be nil when the backend does not support that capability; the
// dispatcher checks per-action preconditions before use.
type Provider struct {
	Reader          Reader
	Inputter        Inputter
	WindowManager   WindowManager
	Screenshotter   Screenshotter
	ActionPerformer ActionPerformer
	ValueSetter     ValueSetter
	Launcher        Launcher
}

// ErrUnsupported is returned on platforms without a registered backend.
var ErrUnsupported = fmt.Errorf("deskpilot is not supported on %s/%s; supported: darwin/amd64, darwin/arm64", runtime.GOOS, runtime.GOARCH)

// NewProviderFunc is set by platform-specific packages via init().
// See internal/platform/darwin/init.go for the macOS registration.
var NewProviderFunc func() (*Provider, error)

// RequestPermissionsFunc is set by platform-specific packages via init().
// It triggers OS permission prompts (accessibility, screen recording) at
// startup.
var RequestPermissionsFunc func()

// NewProvider returns a Provider for the current OS.
func NewProvider() (*Provider, error) {
	if NewProviderFunc == nil {
		return nil, ErrUnsupported
	}
	return NewProviderFunc()
}
