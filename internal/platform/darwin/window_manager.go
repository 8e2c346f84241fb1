//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

// Raises the application's window whose title contains `title` (the first
// window when NULL), restoring it from the minimized state first.
static int ax_raise_window(pid_t pid, const char *title) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    int rc = -1;
    CFTypeRef windows = NULL;
    AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windows);
    if (windows && CFGetTypeID(windows) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)windows);
        for (CFIndex i = 0; i < n; i++) {
            AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)windows, i);
            if (title && title[0]) {
                CFTypeRef t = NULL;
                AXUIElementCopyAttributeValue(win, kAXTitleAttribute, &t);
                int match = 0;
                if (t && CFGetTypeID(t) == CFStringGetTypeID()) {
                    char buf[1024];
                    if (CFStringGetCString((CFStringRef)t, buf, sizeof(buf), kCFStringEncodingUTF8)) {
                        match = strcasestr(buf, title) != NULL;
                    }
                }
                if (t) CFRelease(t);
                if (!match) continue;
            }
            AXUIElementSetAttributeValue(win, kAXMinimizedAttribute, kCFBooleanFalse);
            if (AXUIElementPerformAction(win, kAXRaiseAction) == kAXErrorSuccess) {
                rc = 0;
            }
            break;
        }
    }
    if (windows) CFRelease(windows);
    CFRelease(app);
    return rc;
}

static int ns_activate_app(pid_t pid) {
    NSRunningApplication *app = [NSRunningApplication runningApplicationWithProcessIdentifier:pid];
    if (!app) return -1;
    return [app activateWithOptions:NSApplicationActivateIgnoringOtherApps] ? 0 : -1;
}

static int ns_frontmost_app(char **name, pid_t *pid) {
    NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    if (!app) return -1;
    *name = strdup(app.localizedName ? app.localizedName.UTF8String : "");
    *pid = app.processIdentifier;
    return 0;
}
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"

	"deskpilot/internal/platform"
)

// DarwinWindowManager implements platform.WindowManager for macOS.
type DarwinWindowManager struct {
	reader *DarwinReader
}

// NewWindowManager creates a new macOS window manager.
func NewWindowManager(reader *DarwinReader) *DarwinWindowManager {
	return &DarwinWindowManager{reader: reader}
}

// ActivateWindow activates the owning application and raises the matching
// window, restoring it from the Dock if minimized.
func (wm *DarwinWindowManager) ActivateWindow(opts platform.ActivateOptions) error {
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	pid, title := wm.resolveTarget(opts)
	if pid == 0 {
		return fmt.Errorf("no window found for %+v", opts)
	}

	if C.ns_activate_app(C.pid_t(pid)) != 0 {
		return fmt.Errorf("failed to activate application with PID %d", pid)
	}

	var cTitle *C.char
	if title != "" {
		cTitle = C.CString(title)
		defer C.free(unsafe.Pointer(cTitle))
	}
	if C.ax_raise_window(C.pid_t(pid), cTitle) != 0 {
		return fmt.Errorf("failed to raise window for PID %d", pid)
	}
	return nil
}

// FrontmostApp returns the name and PID of the foreground application.
func (wm *DarwinWindowManager) FrontmostApp() (string, int, error) {
	var cName *C.char
	var cPid C.pid_t
	if C.ns_frontmost_app(&cName, &cPid) != 0 {
		return "", 0, fmt.Errorf("failed to determine frontmost application")
	}
	defer C.free(unsafe.Pointer(cName))
	return C.GoString(cName), int(cPid), nil
}

func (wm *DarwinWindowManager) resolveTarget(opts platform.ActivateOptions) (pid int, title string) {
	if opts.PID != 0 {
		return opts.PID, opts.Window
	}
	windows, err := wm.reader.ListWindows(platform.ListOptions{App: opts.App})
	if err != nil {
		return 0, ""
	}
	if opts.WindowID != 0 {
		for _, w := range windows {
			if w.ID == opts.WindowID {
				return w.PID, w.Title
			}
		}
		return 0, ""
	}
	if opts.Window != "" {
		for _, w := range windows {
			if strings.Contains(strings.ToLower(w.Title), strings.ToLower(opts.Window)) {
				return w.PID, opts.Window
			}
		}
		return 0, ""
	}
	if len(windows) > 0 {
		return windows[0].PID, ""
	}
	return 0, ""
}
