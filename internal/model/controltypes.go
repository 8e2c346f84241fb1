package model

import "strings"

// controlTypeMap normalizes backend role names to canonical control-type
// codes so that plan queries written against one backend's vocabulary still
// match on another. Keys are lower-cased raw names from the accessibility
// backends (macOS AX roles, UIA control types).
var controlTypeMap = map[string]string{
	// macOS AX roles
	"axbutton":      "btn",
	"axstatictext":  "txt",
	"axlink":        "lnk",
	"aximage":       "img",
	"axtextfield":   "input",
	"axtextarea":    "input",
	"axcheckbox":    "chk",
	"axswitch":      "toggle",
	"axradiobutton": "radio",
	"axmenu":        "menu",
	"axmenubar":     "menu",
	"axmenuitem":    "menuitem",
	"axtabgroup":    "tab",
	"axlist":        "list",
	"axtable":       "list",
	"axrow":         "row",
	"axcell":        "cell",
	"axgroup":       "group",
	"axsplitgroup":  "group",
	"axscrollarea":  "scroll",
	"axtoolbar":     "toolbar",
	"axwebarea":     "web",
	"axwindow":      "window",

	// UIA control-type names, as plans written for Windows targets use them
	"button":    "btn",
	"text":      "txt",
	"hyperlink": "lnk",
	"image":     "img",
	"edit":      "input",
	"document":  "input",
	"checkbox":  "chk",
	"radiobutton": "radio",
	"menuitem":  "menuitem",
	"tabitem":   "tab",
	"dataitem":  "cell",
	"pane":      "group",
	"window":    "window",
}

// NormalizeControlType maps a raw backend role or control-type name to its
// canonical code. Unknown names map to "other"; already-canonical codes pass
// through unchanged.
func NormalizeControlType(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if code, ok := controlTypeMap[key]; ok {
		return code
	}
	for _, code := range controlTypeMap {
		if key == code {
			return code
		}
	}
	return "other"
}
