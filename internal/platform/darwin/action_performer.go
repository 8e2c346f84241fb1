//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

// Walks the window tree in the same depth-first order as the reader so that
// the sequential element IDs line up, then performs `action` on element `id`.
static int ax_element_action(AXUIElementRef el, int *cursor, int targetID, CFStringRef action) {
    (*cursor)++;
    if (*cursor == targetID) {
        return AXUIElementPerformAction(el, action) == kAXErrorSuccess ? 0 : -1;
    }
    CFTypeRef children = NULL;
    AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &children);
    int rc = -2; // not found yet
    if (children && CFGetTypeID(children) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)children);
        for (CFIndex i = 0; i < n && rc == -2; i++) {
            AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)children, i);
            rc = ax_element_action(child, cursor, targetID, action);
        }
    }
    if (children) CFRelease(children);
    return rc;
}

static int ax_perform_action(pid_t pid, const char *windowTitle, int targetID, const char *action) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    CFStringRef axAction = CFStringCreateWithCString(NULL, action, kCFStringEncodingUTF8);
    int rc = -2;
    int cursor = 0;

    CFTypeRef windows = NULL;
    AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windows);
    if (windows && CFGetTypeID(windows) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)windows);
        for (CFIndex i = 0; i < n && rc == -2; i++) {
            AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)windows, i);
            if (windowTitle && windowTitle[0]) {
                CFTypeRef t = NULL;
                AXUIElementCopyAttributeValue(win, kAXTitleAttribute, &t);
                int match = 0;
                if (t && CFGetTypeID(t) == CFStringGetTypeID()) {
                    char buf[1024];
                    if (CFStringGetCString((CFStringRef)t, buf, sizeof(buf), kCFStringEncodingUTF8)) {
                        match = strcasestr(buf, windowTitle) != NULL;
                    }
                }
                if (t) CFRelease(t);
                if (!match) continue;
            }
            rc = ax_element_action(win, &cursor, targetID, axAction);
        }
    }
    if (windows) CFRelease(windows);
    CFRelease(axAction);
    CFRelease(app);
    return rc == 0 ? 0 : -1;
}
*/
import "C"

import (
	"fmt"
	"strings"
	"unsafe"

	"deskpilot/internal/platform"
)

// DarwinActionPerformer implements platform.ActionPerformer for macOS.
type DarwinActionPerformer struct {
	reader *DarwinReader
}

// NewActionPerformer creates a new macOS action performer.
func NewActionPerformer(reader *DarwinReader) *DarwinActionPerformer {
	return &DarwinActionPerformer{reader: reader}
}

func (p *DarwinActionPerformer) PerformAction(opts platform.ActionOptions) error {
	if opts.ID <= 0 {
		return fmt.Errorf("element ID is required")
	}
	if opts.Action == "" {
		return fmt.Errorf("action name is required")
	}
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	pid, windowTitle := p.reader.resolvePID(platform.ReadOptions{
		App:      opts.App,
		Window:   opts.Window,
		WindowID: opts.WindowID,
		PID:      opts.PID,
	})
	if pid == 0 {
		return fmt.Errorf("no matching application for scope %+v", opts)
	}

	cAction := C.CString(axActionName(opts.Action))
	defer C.free(unsafe.Pointer(cAction))
	cTitle := (*C.char)(nil)
	if windowTitle != "" {
		cTitle = C.CString(windowTitle)
		defer C.free(unsafe.Pointer(cTitle))
	}

	if C.ax_perform_action(C.pid_t(pid), cTitle, C.int(opts.ID), cAction) != 0 {
		return fmt.Errorf("failed to perform action %q on element %d", opts.Action, opts.ID)
	}
	return nil
}

func axActionName(short string) string {
	switch strings.ToLower(short) {
	case "press":
		return "AXPress"
	case "confirm":
		return "AXConfirm"
	case "cancel":
		return "AXCancel"
	case "showmenu":
		return "AXShowMenu"
	case "raise":
		return "AXRaise"
	default:
		return short
	}
}
