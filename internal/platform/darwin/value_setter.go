//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework CoreFoundation -framework Foundation
#include <ApplicationServices/ApplicationServices.h>
#include <stdlib.h>
#include <string.h>

static int ax_element_set_value(AXUIElementRef el, int *cursor, int targetID, CFStringRef value) {
    (*cursor)++;
    if (*cursor == targetID) {
        return AXUIElementSetAttributeValue(el, kAXValueAttribute, value) == kAXErrorSuccess ? 0 : -1;
    }
    CFTypeRef children = NULL;
    AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &children);
    int rc = -2;
    if (children && CFGetTypeID(children) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)children);
        for (CFIndex i = 0; i < n && rc == -2; i++) {
            AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)children, i);
            rc = ax_element_set_value(child, cursor, targetID, value);
        }
    }
    if (children) CFRelease(children);
    return rc;
}

static int ax_set_value(pid_t pid, const char *windowTitle, int targetID, const char *value) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    CFStringRef cfValue = CFStringCreateWithCString(NULL, value, kCFStringEncodingUTF8);
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
            rc = ax_element_set_value(win, &cursor, targetID, cfValue);
        }
    }
    if (windows) CFRelease(windows);
    CFRelease(cfValue);
    CFRelease(app);
    return rc == 0 ? 0 : -1;
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"deskpilot/internal/platform"
)

// DarwinValueSetter implements platform.ValueSetter for macOS. Writing
// AXValue directly is the reliable way to fill fields that drop synthetic
// keystrokes.
type DarwinValueSetter struct {
	reader *DarwinReader
}

// NewValueSetter creates a new macOS value setter.
func NewValueSetter(reader *DarwinReader) *DarwinValueSetter {
	return &DarwinValueSetter{reader: reader}
}

func (s *DarwinValueSetter) SetValue(opts platform.SetValueOptions) error {
	if opts.ID <= 0 {
		return fmt.Errorf("element ID is required")
	}
	if err := CheckAccessibilityPermission(); err != nil {
		return err
	}

	pid, windowTitle := s.reader.resolvePID(platform.ReadOptions{
		App:      opts.App,
		Window:   opts.Window,
		WindowID: opts.WindowID,
		PID:      opts.PID,
	})
	if pid == 0 {
		return fmt.Errorf("no matching application for scope %+v", opts)
	}

	cTitle := (*C.char)(nil)
	if windowTitle != "" {
		cTitle = C.CString(windowTitle)
		defer C.free(unsafe.Pointer(cTitle))
	}
	cValue := C.CString(opts.Value)
	defer C.free(unsafe.Pointer(cValue))

	if C.ax_set_value(C.pid_t(pid), cTitle, C.int(opts.ID), cValue) != 0 {
		return fmt.Errorf("failed to set value on element %d", opts.ID)
	}
	return nil
}
