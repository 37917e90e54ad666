package x11

import (
	"fmt"
	"strings"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// ClientInfo is everything the tiler needs to know about a managed window.
type ClientInfo struct {
	ID          xproto.Window
	Class       string
	Title       string
	Bounds      layout.Rect
	BorderWidth int
	Desktop     int // DesktopSticky or DesktopUnknown when not a desktop index
	Transient   bool
	Hints       SizeHints
	Hidden      bool // minimized, shaded or fullscreen
	Normal      bool
}

// ListClients returns the EWMH client list, in _NET_CLIENT_LIST order, with
// the metadata of each window. Windows that vanish mid-query are skipped.
func (c *Connection) ListClients() ([]ClientInfo, error) {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil, fmt.Errorf("failed to get client list: %w", err)
	}

	out := make([]ClientInfo, 0, len(clients))
	for _, win := range clients {
		info, ok := c.clientInfo(win)
		if !ok {
			continue
		}
		out = append(out, info)
	}
	return out, nil
}

func (c *Connection) clientInfo(win xproto.Window) (ClientInfo, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return ClientInfo{}, false
	}
	bounds, ok := c.windowGeometry(win)
	if !ok {
		return ClientInfo{}, false
	}

	info := ClientInfo{
		ID:          win,
		Class:       c.windowClass(win),
		Title:       c.windowTitle(win),
		Bounds:      bounds,
		BorderWidth: int(geom.BorderWidth),
		Normal:      c.IsNormalWindow(win),
		Hidden:      c.isHidden(win),
		Desktop:     DesktopUnknown,
	}

	// Windows the WM has not assigned to a desktop yet are left alone
	// rather than guessed onto one.
	if desktop, err := c.GetWindowDesktop(uint32(win)); err == nil {
		info.Desktop = desktop
	}
	if parent, err := icccm.WmTransientForGet(c.XUtil, win); err == nil && parent != 0 {
		info.Transient = true
	}
	if nh, err := icccm.WmNormalHintsGet(c.XUtil, win); err == nil {
		info.Hints = SizeHintsFromNormal(nh)
	}
	return info, true
}

// MoveResizeWindow places a window at r. r is the client area: the X border
// is drawn outside it. With honorHints the size is first fitted to the
// window's WM_NORMAL_HINTS. A window that no longer exists is an error.
func (c *Connection) MoveResizeWindow(windowID xproto.Window, r layout.Rect, honorHints bool) error {
	if _, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply(); err != nil {
		return fmt.Errorf("window 0x%x: %w", uint32(windowID), err)
	}

	// Maximized windows ignore geometry requests under most WMs.
	c.unmaximizeWindow(windowID)

	width, height := max(r.Width, 1), max(r.Height, 1)
	if honorHints {
		if nh, err := icccm.WmNormalHintsGet(c.XUtil, windowID); err == nil {
			width, height = SizeHintsFromNormal(nh).Apply(width, height)
		}
	}

	// Use EWMH MoveResize for better WM compatibility
	if err := ewmh.MoveresizeWindow(c.XUtil, windowID, r.X, r.Y, width, height); err == nil {
		return nil
	}
	// Fallback to direct window manipulation
	mask, values := configureRequest(r.X, r.Y, width, height)
	if err := xproto.ConfigureWindowChecked(c.XUtil.Conn(), windowID, mask, values).Check(); err != nil {
		return fmt.Errorf("failed to configure window 0x%x: %w", uint32(windowID), err)
	}
	return nil
}

// configureRequest builds the ConfigureWindow value mask and list for a
// move and resize. X carries coordinates as signed 16-bit values inside
// 32-bit words.
func configureRequest(x, y, width, height int) (uint16, []uint32) {
	mask := uint16(xproto.ConfigWindowX | xproto.ConfigWindowY | xproto.ConfigWindowWidth | xproto.ConfigWindowHeight)
	return mask, []uint32{uint32(int32(x)), uint32(int32(y)), uint32(width), uint32(height)}
}

// unmaximizeWindow removes maximized state from a window
func (c *Connection) unmaximizeWindow(windowID xproto.Window) {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return
	}
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_MAXIMIZED_HORZ", "_NET_WM_STATE_MAXIMIZED_VERT":
			ewmh.WmStateReq(c.XUtil, windowID, ewmh.StateRemove, state)
		}
	}
}

// IsNormalWindow checks if a window is a normal application window
func (c *Connection) IsNormalWindow(windowID xproto.Window) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		// If we can't determine type, assume it's normal
		return true
	}
	return isNormalType(types)
}

func isNormalType(types []string) bool {
	for _, t := range types {
		switch t {
		case "_NET_WM_WINDOW_TYPE_NORMAL":
			return true
		case "_NET_WM_WINDOW_TYPE_DESKTOP",
			"_NET_WM_WINDOW_TYPE_DOCK",
			"_NET_WM_WINDOW_TYPE_SPLASH",
			"_NET_WM_WINDOW_TYPE_DIALOG",
			"_NET_WM_WINDOW_TYPE_UTILITY",
			"_NET_WM_WINDOW_TYPE_TOOLBAR",
			"_NET_WM_WINDOW_TYPE_MENU",
			"_NET_WM_WINDOW_TYPE_NOTIFICATION":
			return false
		}
	}
	// If no specific type is set, assume it's normal
	return len(types) == 0
}

func (c *Connection) isHidden(windowID xproto.Window) bool {
	states, err := ewmh.WmStateGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	return hasHiddenState(states)
}

func hasHiddenState(states []string) bool {
	for _, state := range states {
		switch state {
		case "_NET_WM_STATE_HIDDEN", "_NET_WM_STATE_FULLSCREEN", "_NET_WM_STATE_SHADED":
			return true
		}
	}
	return false
}

func hasType(c *Connection, windowID xproto.Window, want string) bool {
	types, err := ewmh.WmWindowTypeGet(c.XUtil, windowID)
	if err != nil {
		return false
	}
	for _, t := range types {
		if t == want {
			return true
		}
	}
	return false
}

// windowGeometry returns the client area of a window in root coordinates.
func (c *Connection) windowGeometry(windowID xproto.Window) (layout.Rect, bool) {
	geom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(windowID)).Reply()
	if err != nil {
		return layout.Rect{}, false
	}
	translate, err := xproto.TranslateCoordinates(c.XUtil.Conn(), windowID, c.Root, 0, 0).Reply()
	if err != nil {
		return layout.Rect{}, false
	}
	return layout.Rect{
		X:      int(translate.DstX),
		Y:      int(translate.DstY),
		Width:  int(geom.Width),
		Height: int(geom.Height),
	}, true
}

func (c *Connection) windowClass(windowID xproto.Window) string {
	wmClass, err := icccm.WmClassGet(c.XUtil, windowID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(wmClass.Class)
}

func (c *Connection) windowTitle(windowID xproto.Window) string {
	if title, err := ewmh.WmNameGet(c.XUtil, windowID); err == nil {
		if title = strings.TrimSpace(title); title != "" {
			return title
		}
	}
	if title, err := icccm.WmNameGet(c.XUtil, windowID); err == nil {
		return strings.TrimSpace(title)
	}
	return ""
}

func (c *Connection) GetActiveWindow() (xproto.Window, error) {
	return ewmh.ActiveWindowGet(c.XUtil)
}
