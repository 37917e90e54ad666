package x11

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/layout"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/stretchr/testify/assert"
)

func TestApplyStruts_OnlyAffectsMonitorsTheStrutReaches(t *testing.T) {
	root := layout.Rect{Width: 3840, Height: 1080}
	left := layout.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	right := layout.Rect{X: 1920, Y: 0, Width: 1920, Height: 1080}

	// A 30px top panel spanning only the left monitor.
	struts := []ewmh.WmStrutPartial{{Top: 30, TopStartX: 0, TopEndX: 1919}}

	assert.Equal(t, layout.Rect{X: 0, Y: 30, Width: 1920, Height: 1050}, applyStruts(left, root, struts))
	assert.Equal(t, right, applyStruts(right, root, struts))
}

func TestApplyStruts_TakesLargestPerEdge(t *testing.T) {
	root := layout.Rect{Width: 1920, Height: 1080}
	struts := []ewmh.WmStrutPartial{
		{Bottom: 24, BottomStartX: 0, BottomEndX: 1919},
		{Bottom: 40, BottomStartX: 0, BottomEndX: 1919},
		{Left: 64, LeftStartY: 0, LeftEndY: 1079},
	}
	got := applyStruts(root, root, struts)
	assert.Equal(t, layout.Rect{X: 64, Y: 0, Width: 1856, Height: 1040}, got)
}

func TestMonitorAt(t *testing.T) {
	monitors := []Monitor{
		{ID: 0, Bounds: layout.Rect{Width: 1920, Height: 1080}},
		{ID: 1, Bounds: layout.Rect{X: 1920, Width: 1280, Height: 1024}},
	}
	assert.Equal(t, 1, monitorAt(monitors, 2000, 10).ID)
	assert.Equal(t, 0, monitorAt(monitors, 0, 0).ID)
	assert.Nil(t, monitorAt(monitors, 5000, 10))
}
