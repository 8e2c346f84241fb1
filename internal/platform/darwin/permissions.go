//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework ApplicationServices -framework Foundation
#include <ApplicationServices/ApplicationServices.h>

static int is_trusted() {
    return AXIsProcessTrusted();
}

// Triggers the system accessibility-permission prompt if not yet granted.
static void prompt_trusted() {
    CFStringRef keys[] = { kAXTrustedCheckOptionPrompt };
    CFTypeRef values[] = { kCFBooleanTrue };
    CFDictionaryRef opts = CFDictionaryCreate(NULL, (const void **)keys,
        (const void **)values, 1,
        &kCFTypeDictionaryKeyCallBacks, &kCFTypeDictionaryValueCallBacks);
    AXIsProcessTrustedWithOptions(opts);
    CFRelease(opts);
}
*/
import "C"
import "fmt"

// CheckAccessibilityPermission checks if the process has macOS accessibility
// permission. Returns an error with instructions if not granted.
func CheckAccessibilityPermission() error {
	if C.is_trusted() == 0 {
		return fmt.Errorf(
			"accessibility permission required\n\n" +
				"Grant permission at: System Settings > Privacy & Security > Accessibility\n" +
				"Add your terminal app, then restart it and try again.")
	}
	return nil
}

// RequestAccessibilityPermission pops the system permission prompt if the
// process is not yet trusted.
func RequestAccessibilityPermission() {
	if C.is_trusted() == 0 {
		C.prompt_trusted()
	}
}
