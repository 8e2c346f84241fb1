//go:build darwin && cgo

package darwin

import "deskpilot/internal/platform"

func init() {
	platform.NewProviderFunc = func() (*platform.Provider, error) {
		reader := NewReader()
		return &platform.Provider{
			Reader:          reader,
			Inputter:        NewInputter(),
			WindowManager:   NewWindowManager(reader),
			Screenshotter:   NewScreenshotter(reader),
			ActionPerformer: NewActionPerformer(reader),
			ValueSetter:     NewValueSetter(reader),
			Launcher:        NewLauncher(),
		}, nil
	}
	platform.RequestPermissionsFunc = RequestAccessibilityPermission
}
