package x11

import (
	"fmt"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
)

// Monitor represents a physical display. Usable is Bounds minus the space
// reserved by docks and panels.
type Monitor struct {
	ID     int
	Name   string
	Bounds layout.Rect
	Usable layout.Rect
}

// GetMonitors retrieves all active monitors using XRandR, with their usable
// areas resolved.
func (c *Connection) GetMonitors() ([]Monitor, error) {
	if err := randr.Init(c.XUtil.Conn()); err != nil {
		return nil, fmt.Errorf("randr init failed: %w", err)
	}

	resources, err := randr.GetScreenResources(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var monitors []Monitor
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(c.XUtil.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}

		// Skip disabled CRTCs
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		outputName := fmt.Sprintf("Monitor%d", i)
		outputInfo, err := randr.GetOutputInfo(c.XUtil.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply()
		if err == nil {
			outputName = string(outputInfo.Name)
		}

		bounds := layout.Rect{
			X:      int(crtcInfo.X),
			Y:      int(crtcInfo.Y),
			Width:  int(crtcInfo.Width),
			Height: int(crtcInfo.Height),
		}
		monitors = append(monitors, Monitor{ID: i, Name: outputName, Bounds: bounds, Usable: bounds})
	}

	if len(monitors) == 0 {
		return nil, nil
	}
	c.resolveUsable(monitors)
	return monitors, nil
}

// GetActiveMonitor returns the monitor containing the focused window,
// falling back to the one under the pointer and then the first monitor.
func (c *Connection) GetActiveMonitor() (*Monitor, error) {
	monitors, err := c.GetMonitors()
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, fmt.Errorf("no monitors found")
	}

	if activeWin, err := ewmh.ActiveWindowGet(c.XUtil); err == nil && activeWin != 0 {
		if geom, ok := c.windowGeometry(activeWin); ok {
			x, y := geom.Center()
			if mon := monitorAt(monitors, x, y); mon != nil {
				return mon, nil
			}
		}
	}

	if pointer, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply(); err == nil {
		if mon := monitorAt(monitors, int(pointer.RootX), int(pointer.RootY)); mon != nil {
			return mon, nil
		}
	}

	return &monitors[0], nil
}

func monitorAt(monitors []Monitor, x, y int) *Monitor {
	for i := range monitors {
		if monitors[i].Bounds.ContainsPoint(x, y) {
			return &monitors[i]
		}
	}
	return nil
}

// resolveUsable subtracts dock struts from every monitor. When no dock
// advertises struts, _NET_WORKAREA for the current desktop is intersected
// with each monitor instead.
func (c *Connection) resolveUsable(monitors []Monitor) {
	rootGeom, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(c.Root)).Reply()
	if err != nil {
		return
	}
	root := layout.Rect{Width: int(rootGeom.Width), Height: int(rootGeom.Height)}

	struts := c.dockStruts(root)
	if len(struts) > 0 {
		for i := range monitors {
			monitors[i].Usable = applyStruts(monitors[i].Bounds, root, struts)
		}
		return
	}

	workArea, err := ewmh.WorkareaGet(c.XUtil)
	if err != nil || len(workArea) == 0 {
		return
	}
	desktopIndex := 0
	if current, err := ewmh.CurrentDesktopGet(c.XUtil); err == nil && int(current) < len(workArea) {
		desktopIndex = int(current)
	}
	wa := workArea[desktopIndex]
	waRect := layout.Rect{X: wa.X, Y: wa.Y, Width: int(wa.Width), Height: int(wa.Height)}
	for i := range monitors {
		if usable := monitors[i].Bounds.Intersect(waRect); !usable.Empty() {
			monitors[i].Usable = usable
		}
	}
}

// dockStruts collects the partial struts of every dock window. Docks that
// only set _NET_WM_STRUT are treated as spanning the whole root edge.
func (c *Connection) dockStruts(root layout.Rect) []ewmh.WmStrutPartial {
	clients, err := ewmh.ClientListGet(c.XUtil)
	if err != nil {
		return nil
	}

	var out []ewmh.WmStrutPartial
	for _, windowID := range clients {
		if !hasType(c, windowID, "_NET_WM_WINDOW_TYPE_DOCK") {
			continue
		}
		if sp, err := ewmh.WmStrutPartialGet(c.XUtil, windowID); err == nil {
			out = append(out, *sp)
			continue
		}
		if s, err := ewmh.WmStrutGet(c.XUtil, windowID); err == nil {
			out = append(out, ewmh.WmStrutPartial{
				Left:       s.Left,
				Right:      s.Right,
				Top:        s.Top,
				Bottom:     s.Bottom,
				LeftEndY:   uint(root.Height - 1),
				RightEndY:  uint(root.Height - 1),
				TopEndX:    uint(root.Width - 1),
				BottomEndX: uint(root.Width - 1),
			})
		}
	}
	return out
}

// applyStruts shrinks mon by the largest strut reaching it on each edge.
// Struts are expressed relative to the root window edges.
func applyStruts(mon, root layout.Rect, struts []ewmh.WmStrutPartial) layout.Rect {
	var top, bottom, left, right int
	for _, sp := range struts {
		if sp.Top > 0 {
			r := layout.Rect{X: int(sp.TopStartX), Y: 0, Width: int(sp.TopEndX) - int(sp.TopStartX) + 1, Height: int(sp.Top)}
			top = max(top, mon.Intersect(r).Height)
		}
		if sp.Bottom > 0 {
			r := layout.Rect{X: int(sp.BottomStartX), Y: root.Height - int(sp.Bottom), Width: int(sp.BottomEndX) - int(sp.BottomStartX) + 1, Height: int(sp.Bottom)}
			bottom = max(bottom, mon.Intersect(r).Height)
		}
		if sp.Left > 0 {
			r := layout.Rect{X: 0, Y: int(sp.LeftStartY), Width: int(sp.Left), Height: int(sp.LeftEndY) - int(sp.LeftStartY) + 1}
			left = max(left, mon.Intersect(r).Width)
		}
		if sp.Right > 0 {
			r := layout.Rect{X: root.Width - int(sp.Right), Y: int(sp.RightStartY), Width: int(sp.Right), Height: int(sp.RightEndY) - int(sp.RightStartY) + 1}
			right = max(right, mon.Intersect(r).Width)
		}
	}
	return mon.Inset(top, bottom, left, right)
}
