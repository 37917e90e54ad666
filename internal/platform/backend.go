package platform

import "github.com/1broseidon/tagtile/internal/layout"

// WindowID is a platform-neutral window identifier.
type WindowID = layout.WindowID

// Rect describes a rectangular region in screen coordinates.
type Rect = layout.Rect

// Window.Desktop values that do not name a desktop.
const (
	DesktopSticky  = -1 // shown on every desktop
	DesktopUnknown = -2 // no desktop assigned
)

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int
	Name   string
	Bounds Rect
	Usable Rect
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID          WindowID
	Class       string
	Title       string
	Bounds      Rect
	BorderWidth int
	Desktop     int  // desktop index, DesktopSticky or DesktopUnknown
	Transient   bool // WM_TRANSIENT_FOR is set
	Fixed       bool // min size equals max size
	Hidden      bool
	Normal      bool // _NET_WM_WINDOW_TYPE is normal or unset
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	ActiveDisplay() (Display, error)
	CurrentDesktop() (int, error)
	ActiveWindow() (WindowID, error)
	// ListClients returns managed windows in the window manager's stable
	// client order.
	ListClients() ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect, honorHints bool) error
}
