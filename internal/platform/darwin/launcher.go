//go:build darwin

package darwin

import (
	"fmt"
	"os/exec"
	"strings"
)

// DarwinLauncher implements platform.Launcher for macOS using the system
// `open` utility, which resolves app names through LaunchServices.
type DarwinLauncher struct{}

// NewLauncher creates a new macOS launcher.
func NewLauncher() *DarwinLauncher {
	return &DarwinLauncher{}
}

// OpenApplication starts (or foregrounds) the named application.
func (l *DarwinLauncher) OpenApplication(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("application name is required")
	}
	if out, err := exec.Command("open", "-a", name).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to open application %q: %s", name, strings.TrimSpace(string(out)))
	}
	return nil
}

// OpenURL opens the URL in the default browser.
func (l *DarwinLauncher) OpenURL(url string) error {
	if url == "" {
		return fmt.Errorf("url is required")
	}
	if out, err := exec.Command("open", url).CombinedOutput(); err != nil {
		return fmt.Errorf("failed to open URL: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
