package x11

import (
	"github.com/BurntSushi/xgbutil/icccm"
)

// SizeHints is the subset of WM_NORMAL_HINTS that constrains a tiled
// window's size. Zero values mean "unset".
type SizeHints struct {
	BaseWidth, BaseHeight int
	MinWidth, MinHeight   int
	MaxWidth, MaxHeight   int
	WidthInc, HeightInc   int
	MinAspect, MaxAspect  float64
}

// SizeHintsFromNormal converts ICCCM hints, filling base from min (and
// min from base) when only one of them is set.
func SizeHintsFromNormal(nh *icccm.NormalHints) SizeHints {
	var h SizeHints
	if nh == nil {
		return h
	}

	switch {
	case nh.Flags&icccm.SizeHintPBaseSize != 0:
		h.BaseWidth, h.BaseHeight = int(nh.BaseWidth), int(nh.BaseHeight)
	case nh.Flags&icccm.SizeHintPMinSize != 0:
		h.BaseWidth, h.BaseHeight = int(nh.MinWidth), int(nh.MinHeight)
	}

	if nh.Flags&icccm.SizeHintPResizeInc != 0 {
		h.WidthInc, h.HeightInc = int(nh.WidthInc), int(nh.HeightInc)
	}

	if nh.Flags&icccm.SizeHintPMaxSize != 0 {
		h.MaxWidth, h.MaxHeight = int(nh.MaxWidth), int(nh.MaxHeight)
	}

	switch {
	case nh.Flags&icccm.SizeHintPMinSize != 0:
		h.MinWidth, h.MinHeight = int(nh.MinWidth), int(nh.MinHeight)
	case nh.Flags&icccm.SizeHintPBaseSize != 0:
		h.MinWidth, h.MinHeight = int(nh.BaseWidth), int(nh.BaseHeight)
	}

	if nh.Flags&icccm.SizeHintPAspect != 0 {
		if nh.MinAspectNum > 0 {
			h.MinAspect = float64(nh.MinAspectDen) / float64(nh.MinAspectNum)
		}
		if nh.MaxAspectDen > 0 {
			h.MaxAspect = float64(nh.MaxAspectNum) / float64(nh.MaxAspectDen)
		}
	}
	return h
}

// Fixed reports whether the hints pin the window to a single size.
func (h SizeHints) Fixed() bool {
	return h.MaxWidth > 0 && h.MaxHeight > 0 &&
		h.MaxWidth == h.MinWidth && h.MaxHeight == h.MinHeight
}

// Apply fits width x height to the hints: aspect ratio first, then resize
// increments, then min and max. The result is at least 1x1.
func (h SizeHints) Apply(width, height int) (int, int) {
	w, hh := width, height

	// ICCCM 4.1.2.3: base is subtracted before the aspect check unless it
	// only stands in for min.
	baseIsMin := h.BaseWidth == h.MinWidth && h.BaseHeight == h.MinHeight
	if !baseIsMin {
		w -= h.BaseWidth
		hh -= h.BaseHeight
	}

	if h.MinAspect > 0 && h.MaxAspect > 0 && w > 0 && hh > 0 {
		if h.MaxAspect < float64(w)/float64(hh) {
			w = int(float64(hh)*h.MaxAspect + 0.5)
		} else if h.MinAspect < float64(hh)/float64(w) {
			hh = int(float64(w)*h.MinAspect + 0.5)
		}
	}

	if baseIsMin {
		w -= h.BaseWidth
		hh -= h.BaseHeight
	}

	if h.WidthInc > 0 && w > 0 {
		w -= w % h.WidthInc
	}
	if h.HeightInc > 0 && hh > 0 {
		hh -= hh % h.HeightInc
	}

	w = max(w+h.BaseWidth, h.MinWidth)
	hh = max(hh+h.BaseHeight, h.MinHeight)
	if h.MaxWidth > 0 {
		w = min(w, h.MaxWidth)
	}
	if h.MaxHeight > 0 {
		hh = min(hh, h.MaxHeight)
	}
	return max(w, 1), max(hh, 1)
}
