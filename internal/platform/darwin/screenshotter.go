//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ImageIO
#include <CoreGraphics/CoreGraphics.h>
#include <ImageIO/ImageIO.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    unsigned char *data;
    int length;
} CaptureResult;

static int encode_png(CGImageRef image, CaptureResult *out) {
    if (!image) return -1;
    CFMutableDataRef data = CFDataCreateMutable(NULL, 0);
    CGImageDestinationRef dest = CGImageDestinationCreateWithData(data, CFSTR("public.png"), 1, NULL);
    if (!dest) {
        CFRelease(data);
        return -1;
    }
    CGImageDestinationAddImage(dest, image, NULL);
    int ok = CGImageDestinationFinalize(dest);
    CFRelease(dest);
    if (!ok) {
        CFRelease(data);
        return -1;
    }
    out->length = (int)CFDataGetLength(data);
    out->data = malloc(out->length);
    memcpy(out->data, CFDataGetBytePtr(data), out->length);
    CFRelease(data);
    return 0;
}

static int capture_window_png(int windowID, CaptureResult *out) {
    CGImageRef image = CGWindowListCreateImage(CGRectNull,
        kCGWindowListOptionIncludingWindow, (CGWindowID)windowID,
        kCGWindowImageBoundsIgnoreFraming);
    int rc = encode_png(image, out);
    if (image) CGImageRelease(image);
    return rc;
}

static int capture_screen_png(CaptureResult *out) {
    CGImageRef image = CGDisplayCreateImage(CGMainDisplayID());
    int rc = encode_png(image, out);
    if (image) CGImageRelease(image);
    return rc;
}

static int check_screen_recording() {
    return CGPreflightScreenCaptureAccess() ? 1 : 0;
}

static void free_capture(CaptureResult *r) {
    free(r->data);
    r->data = NULL;
    r->length = 0;
}
*/
import "C"
import (
	"fmt"
	"strings"
	"unsafe"

	"deskpilot/internal/platform"
)

// CheckScreenRecordingPermission checks if the process has macOS screen
// recording permission.
func CheckScreenRecordingPermission() error {
	if C.check_screen_recording() == 0 {
		return fmt.Errorf(
			"screen recording permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Screen Recording\n" +
				"Add your terminal app, then restart it and try again.")
	}
	return nil
}

// DarwinScreenshotter implements platform.Screenshotter for macOS.
// Captures are PNG at native scale, as the vision pipeline requires.
type DarwinScreenshotter struct {
	reader *DarwinReader
}

// NewScreenshotter creates a new macOS screenshotter.
func NewScreenshotter(reader *DarwinReader) *DarwinScreenshotter {
	return &DarwinScreenshotter{reader: reader}
}

// CaptureWindow captures the window matching the options.
func (s *DarwinScreenshotter) CaptureWindow(opts platform.ScreenshotOptions) ([]byte, error) {
	if err := CheckScreenRecordingPermission(); err != nil {
		return nil, err
	}

	windowID := opts.WindowID
	if windowID == 0 {
		var err error
		windowID, err = s.resolveWindowID(opts)
		if err != nil {
			return nil, err
		}
	}

	var result C.CaptureResult
	if C.capture_window_png(C.int(windowID), &result) != 0 {
		return nil, fmt.Errorf("window capture failed for window ID %d", windowID)
	}
	defer C.free_capture(&result)
	return C.GoBytes(unsafe.Pointer(result.data), C.int(result.length)), nil
}

// CaptureScreen captures the primary display.
func (s *DarwinScreenshotter) CaptureScreen() ([]byte, error) {
	if err := CheckScreenRecordingPermission(); err != nil {
		return nil, err
	}
	var result C.CaptureResult
	if C.capture_screen_png(&result) != 0 {
		return nil, fmt.Errorf("screen capture failed")
	}
	defer C.free_capture(&result)
	return C.GoBytes(unsafe.Pointer(result.data), C.int(result.length)), nil
}

func (s *DarwinScreenshotter) resolveWindowID(opts platform.ScreenshotOptions) (int, error) {
	windows, err := s.reader.ListWindows(platform.ListOptions{App: opts.App, PID: opts.PID})
	if err != nil {
		return 0, fmt.Errorf("failed to list windows: %w", err)
	}
	if opts.Window != "" {
		for _, w := range windows {
			if strings.Contains(strings.ToLower(w.Title), strings.ToLower(opts.Window)) {
				return w.ID, nil
			}
		}
		return 0, fmt.Errorf("no window found matching title %q", opts.Window)
	}
	if len(windows) == 0 {
		return 0, fmt.Errorf("no windows found matching the capture scope")
	}
	return windows[0].ID, nil
}
