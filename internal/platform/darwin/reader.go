//go:build darwin

package darwin

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices -framework Foundation -framework AppKit
#include <CoreGraphics/CoreGraphics.h>
#include <ApplicationServices/ApplicationServices.h>
#include <AppKit/AppKit.h>
#include <stdlib.h>
#include <string.h>

typedef struct {
    int windowID;
    pid_t pid;
    int layer;
    int x, y, width, height;
    int onscreen;
    char *appName;
    char *title;
} WindowInfo;

static char *cf_copy_cstring(CFStringRef s) {
    if (!s) return strdup("");
    CFIndex len = CFStringGetMaximumSizeForEncoding(CFStringGetLength(s), kCFStringEncodingUTF8) + 1;
    char *buf = malloc(len);
    if (!CFStringGetCString(s, buf, len, kCFStringEncodingUTF8)) buf[0] = '\0';
    return buf;
}

// Enumerates all windows, including minimized ones (kCGWindowListOptionAll),
// recording whether each is currently on screen.
static int list_windows(WindowInfo **out, int *count) {
    CFArrayRef list = CGWindowListCopyWindowInfo(
        kCGWindowListOptionAll | kCGWindowListExcludeDesktopElements, kCGNullWindowID);
    if (!list) return -1;

    CFIndex n = CFArrayGetCount(list);
    WindowInfo *infos = calloc(n, sizeof(WindowInfo));
    int w = 0;
    for (CFIndex i = 0; i < n; i++) {
        CFDictionaryRef d = CFArrayGetValueAtIndex(list, i);

        CFNumberRef num = CFDictionaryGetValue(d, kCGWindowNumber);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &infos[w].windowID);
        num = CFDictionaryGetValue(d, kCGWindowOwnerPID);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &infos[w].pid);
        num = CFDictionaryGetValue(d, kCGWindowLayer);
        if (num) CFNumberGetValue(num, kCFNumberIntType, &infos[w].layer);

        CFDictionaryRef boundsDict = CFDictionaryGetValue(d, kCGWindowBounds);
        if (boundsDict) {
            CGRect r;
            CGRectMakeWithDictionaryRepresentation(boundsDict, &r);
            infos[w].x = (int)r.origin.x;
            infos[w].y = (int)r.origin.y;
            infos[w].width = (int)r.size.width;
            infos[w].height = (int)r.size.height;
        }

        CFBooleanRef on = CFDictionaryGetValue(d, kCGWindowIsOnscreen);
        infos[w].onscreen = (on && CFBooleanGetValue(on)) ? 1 : 0;
        infos[w].appName = cf_copy_cstring(CFDictionaryGetValue(d, kCGWindowOwnerName));
        infos[w].title = cf_copy_cstring(CFDictionaryGetValue(d, kCGWindowName));
        w++;
    }
    CFRelease(list);
    *out = infos;
    *count = w;
    return 0;
}

static void free_windows(WindowInfo *infos, int count) {
    for (int i = 0; i < count; i++) {
        free(infos[i].appName);
        free(infos[i].title);
    }
    free(infos);
}

static pid_t frontmost_pid() {
    NSRunningApplication *app = [[NSWorkspace sharedWorkspace] frontmostApplication];
    return app ? app.processIdentifier : 0;
}

typedef struct {
    int id;
    int parentID;
    char *role;
    char *subrole;
    char *identifier;
    char *title;
    char *value;
    char *description;
    int x, y, width, height;
    int focused;
    int enabled;
    char **actions;
    int actionCount;
} ElementInfo;

static char *ax_copy_string_attr(AXUIElementRef el, CFStringRef attr) {
    CFTypeRef v = NULL;
    AXUIElementCopyAttributeValue(el, attr, &v);
    if (!v) return strdup("");
    char *s;
    if (CFGetTypeID(v) == CFStringGetTypeID()) {
        s = cf_copy_cstring((CFStringRef)v);
    } else if (CFGetTypeID(v) == CFNumberGetTypeID()) {
        double d = 0;
        CFNumberGetValue((CFNumberRef)v, kCFNumberDoubleType, &d);
        char buf[64];
        snprintf(buf, sizeof(buf), "%g", d);
        s = strdup(buf);
    } else {
        s = strdup("");
    }
    CFRelease(v);
    return s;
}

static int ax_bool_attr(AXUIElementRef el, CFStringRef attr, int dflt) {
    CFTypeRef v = NULL;
    AXUIElementCopyAttributeValue(el, attr, &v);
    if (!v) return dflt;
    int b = dflt;
    if (CFGetTypeID(v) == CFBooleanGetTypeID()) b = CFBooleanGetValue(v) ? 1 : 0;
    CFRelease(v);
    return b;
}

static void ax_frame(AXUIElementRef el, int *x, int *y, int *w, int *h) {
    CFTypeRef posVal = NULL, sizeVal = NULL;
    CGPoint p = CGPointZero;
    CGSize s = CGSizeZero;
    if (AXUIElementCopyAttributeValue(el, kAXPositionAttribute, &posVal) == kAXErrorSuccess && posVal) {
        AXValueGetValue((AXValueRef)posVal, kAXValueTypeCGPoint, &p);
        CFRelease(posVal);
    }
    if (AXUIElementCopyAttributeValue(el, kAXSizeAttribute, &sizeVal) == kAXErrorSuccess && sizeVal) {
        AXValueGetValue((AXValueRef)sizeVal, kAXValueTypeCGSize, &s);
        CFRelease(sizeVal);
    }
    *x = (int)p.x; *y = (int)p.y; *w = (int)s.width; *h = (int)s.height;
}

static void ax_walk(AXUIElementRef el, int parent, int depth, int maxDepth,
                    ElementInfo **buf, int *count, int *cap) {
    if (maxDepth > 0 && depth > maxDepth) return;
    if (*count == *cap) {
        *cap *= 2;
        *buf = realloc(*buf, (*cap) * sizeof(ElementInfo));
    }
    int idx = (*count)++;
    ElementInfo *e = &(*buf)[idx];
    memset(e, 0, sizeof(*e));
    e->id = idx + 1;
    e->parentID = parent;
    e->role = ax_copy_string_attr(el, kAXRoleAttribute);
    e->subrole = ax_copy_string_attr(el, kAXSubroleAttribute);
    e->identifier = ax_copy_string_attr(el, kAXIdentifierAttribute);
    e->title = ax_copy_string_attr(el, kAXTitleAttribute);
    e->value = ax_copy_string_attr(el, kAXValueAttribute);
    e->description = ax_copy_string_attr(el, kAXDescriptionAttribute);
    ax_frame(el, &e->x, &e->y, &e->width, &e->height);
    e->focused = ax_bool_attr(el, kAXFocusedAttribute, 0);
    e->enabled = ax_bool_attr(el, kAXEnabledAttribute, 1);

    CFArrayRef actionNames = NULL;
    if (AXUIElementCopyActionNames(el, &actionNames) == kAXErrorSuccess && actionNames) {
        CFIndex n = CFArrayGetCount(actionNames);
        e->actions = calloc(n, sizeof(char *));
        for (CFIndex i = 0; i < n; i++) {
            e->actions[i] = cf_copy_cstring(CFArrayGetValueAtIndex(actionNames, i));
        }
        e->actionCount = (int)n;
        CFRelease(actionNames);
    }

    CFTypeRef children = NULL;
    AXUIElementCopyAttributeValue(el, kAXChildrenAttribute, &children);
    if (children && CFGetTypeID(children) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)children);
        int myID = e->id;
        for (CFIndex i = 0; i < n; i++) {
            AXUIElementRef child = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)children, i);
            ax_walk(child, myID, depth + 1, maxDepth, buf, count, cap);
        }
    }
    if (children) CFRelease(children);
}

// Reads the element tree for an application, optionally scoped to the window
// whose title contains windowTitle (UTF-8, may be NULL).
static int ax_read_elements(pid_t pid, const char *windowTitle, int maxDepth,
                            ElementInfo **out, int *count) {
    AXUIElementRef app = AXUIElementCreateApplication(pid);
    if (!app) return -1;

    int cap = 256;
    ElementInfo *buf = malloc(cap * sizeof(ElementInfo));
    *count = 0;

    CFTypeRef windows = NULL;
    AXUIElementCopyAttributeValue(app, kAXWindowsAttribute, &windows);
    if (windows && CFGetTypeID(windows) == CFArrayGetTypeID()) {
        CFIndex n = CFArrayGetCount((CFArrayRef)windows);
        for (CFIndex i = 0; i < n; i++) {
            AXUIElementRef win = (AXUIElementRef)CFArrayGetValueAtIndex((CFArrayRef)windows, i);
            if (windowTitle && windowTitle[0]) {
                char *t = ax_copy_string_attr(win, kAXTitleAttribute);
                int match = strcasestr(t, windowTitle) != NULL;
                free(t);
                if (!match) continue;
            }
            ax_walk(win, -1, 1, maxDepth, &buf, count, &cap);
        }
    }
    if (windows) CFRelease(windows);
    CFRelease(app);

    *out = buf;
    return 0;
}

static void ax_free_elements(ElementInfo *els, int count) {
    for (int i = 0; i < count; i++) {
        free(els[i].role);
        free(els[i].subrole);
        free(els[i].identifier);
        free(els[i].title);
        free(els[i].value);
        free(els[i].description);
        for (int j = 0; j < els[i].actionCount; j++) free(els[i].actions[j]);
        free(els[i].actions);
    }
    free(els);
}
*/
import "C"
import (
	"fmt"
	"sort"
	"strings"
	"unsafe"

	"deskpilot/internal/model"
	"deskpilot/internal/platform"
)

// DarwinReader implements platform.Reader for macOS.
type DarwinReader struct{}

// NewReader creates a new macOS reader.
func NewReader() *DarwinReader {
	return &DarwinReader{}
}

// ListWindows enumerates windows via CGWindowListCopyWindowInfo, including
// minimized ones. Layer-0 windows only; the rest are overlays and menus.
func (r *DarwinReader) ListWindows(opts platform.ListOptions) ([]model.Window, error) {
	var cWindows *C.WindowInfo
	var cCount C.int

	if C.list_windows(&cWindows, &cCount) != 0 {
		return nil, fmt.Errorf("failed to enumerate windows")
	}
	defer C.free_windows(cWindows, cCount)

	count := int(cCount)
	frontPid := int(C.frontmost_pid())
	frontFocusAssigned := false

	windows := []model.Window{}
	if count == 0 {
		return windows, nil
	}
	cSlice := unsafe.Slice(cWindows, count)

	for i := 0; i < count; i++ {
		cw := cSlice[i]
		if int(cw.layer) != 0 {
			continue
		}
		pid := int(cw.pid)
		appName := C.GoString(cw.appName)
		if opts.PID != 0 && pid != opts.PID {
			continue
		}
		if opts.App != "" && !strings.EqualFold(appName, opts.App) {
			continue
		}

		onscreen := cw.onscreen != 0
		focused := false
		if onscreen && pid == frontPid && !frontFocusAssigned {
			focused = true
			frontFocusAssigned = true
		}

		windows = append(windows, model.Window{
			App:   appName,
			PID:   pid,
			Title: C.GoString(cw.title),
			ID:    int(cw.windowID),
			Bounds: model.Bounds{
				Left:   int(cw.x),
				Top:    int(cw.y),
				Width:  int(cw.width),
				Height: int(cw.height),
			},
			Focused:   focused,
			Visible:   onscreen,
			Minimized: !onscreen,
		})
	}

	// Focused first, then by app name, so "first match" prefers the window
	// the user is looking at.
	sort.SliceStable(windows, func(i, j int) bool {
		if windows[i].Focused != windows[j].Focused {
			return windows[i].Focused
		}
		return strings.ToLower(windows[i].App) < strings.ToLower(windows[j].App)
	})

	return windows, nil
}

// ReadElements reads the accessibility tree for the scoped application.
func (r *DarwinReader) ReadElements(opts platform.ReadOptions) ([]model.Element, error) {
	if err := CheckAccessibilityPermission(); err != nil {
		return nil, err
	}

	pid, windowTitle := r.resolvePID(opts)
	if pid == 0 {
		return nil, fmt.Errorf("no matching application for scope %+v", opts)
	}

	var cElements *C.ElementInfo
	var cCount C.int
	cTitle := (*C.char)(nil)
	if windowTitle != "" {
		cTitle = C.CString(windowTitle)
		defer C.free(unsafe.Pointer(cTitle))
	}

	if C.ax_read_elements(C.pid_t(pid), cTitle, C.int(opts.Depth), &cElements, &cCount) != 0 {
		return nil, fmt.Errorf("failed to read accessibility tree for PID %d", pid)
	}
	defer C.ax_free_elements(cElements, cCount)

	return buildElementTree(cElements, cCount, opts.VisibleOnly), nil
}

// resolvePID picks the application PID the read scope refers to.
func (r *DarwinReader) resolvePID(opts platform.ReadOptions) (pid int, windowTitle string) {
	if opts.PID != 0 {
		return opts.PID, opts.Window
	}
	listOpts := platform.ListOptions{}
	if opts.App != "" {
		listOpts.App = opts.App
	}
	windows, err := r.ListWindows(listOpts)
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

// buildElementTree converts the flat C array into a nested element tree,
// normalizing roles into canonical control-type codes.
func buildElementTree(cElements *C.ElementInfo, cCount C.int, visibleOnly bool) []model.Element {
	count := int(cCount)
	if count == 0 {
		return []model.Element{}
	}
	cSlice := unsafe.Slice(cElements, count)

	nodes := make([]model.Element, count)
	parents := make([]int, count)
	index := make(map[int]int, count)

	for i := 0; i < count; i++ {
		ce := cSlice[i]
		rawRole := C.GoString(ce.role)
		var enabled *bool
		if ce.enabled == 0 {
			f := false
			enabled = &f
		}
		var actions []string
		if ce.actionCount > 0 {
			cActions := unsafe.Slice(ce.actions, int(ce.actionCount))
			for j := range cActions {
				name := strings.ToLower(strings.TrimPrefix(C.GoString(cActions[j]), "AX"))
				actions = append(actions, name)
			}
		}
		nodes[i] = model.Element{
			ID:           int(ce.id),
			ControlType:  model.NormalizeControlType(rawRole),
			Name:         C.GoString(ce.title),
			Value:        C.GoString(ce.value),
			AutomationID: C.GoString(ce.identifier),
			ClassName:    className(rawRole, C.GoString(ce.subrole)),
			FrameworkID:  "AppKit",
			Bounds: model.Bounds{
				Left:   int(ce.x),
				Top:    int(ce.y),
				Width:  int(ce.width),
				Height: int(ce.height),
			},
			Focused: ce.focused != 0,
			Enabled: enabled,
			Actions: actions,
		}
		if nodes[i].Name == "" {
			nodes[i].Name = C.GoString(ce.description)
		}
		parents[i] = int(ce.parentID)
		index[nodes[i].ID] = i
	}

	// Attach children depth-first from the back so sibling order survives.
	var roots []int
	childIdx := make(map[int][]int, count)
	for i := 0; i < count; i++ {
		if parents[i] < 0 {
			roots = append(roots, i)
		} else if p, ok := index[parents[i]]; ok {
			childIdx[p] = append(childIdx[p], i)
		}
	}
	var build func(i int) model.Element
	build = func(i int) model.Element {
		el := nodes[i]
		for _, c := range childIdx[i] {
			child := build(c)
			if visibleOnly && child.Bounds.Width == 0 && child.Bounds.Height == 0 && len(child.Children) == 0 {
				continue
			}
			el.Children = append(el.Children, child)
		}
		return el
	}
	out := make([]model.Element, 0, len(roots))
	for _, ri := range roots {
		out = append(out, build(ri))
	}
	return out
}

// className reports the backend class identity of an element; AppKit has no
// Win32 class names, so the raw role plus subrole stands in.
func className(role, subrole string) string {
	if subrole != "" {
		return role + "/" + subrole
	}
	return role
}
