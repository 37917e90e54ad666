package x11

import (
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/stretchr/testify/assert"
)

func TestIsNormalType(t *testing.T) {
	assert.True(t, isNormalType(nil))
	assert.True(t, isNormalType([]string{"_NET_WM_WINDOW_TYPE_NORMAL"}))
	assert.True(t, isNormalType([]string{"_KDE_NET_WM_WINDOW_TYPE_OVERRIDE", "_NET_WM_WINDOW_TYPE_NORMAL"}))
	assert.False(t, isNormalType([]string{"_NET_WM_WINDOW_TYPE_DOCK"}))
	assert.False(t, isNormalType([]string{"_NET_WM_WINDOW_TYPE_DIALOG"}))
	assert.False(t, isNormalType([]string{"_KDE_NET_WM_WINDOW_TYPE_OVERRIDE"}))
}

func TestHasHiddenState(t *testing.T) {
	assert.False(t, hasHiddenState(nil))
	assert.False(t, hasHiddenState([]string{"_NET_WM_STATE_MAXIMIZED_VERT"}))
	assert.True(t, hasHiddenState([]string{"_NET_WM_STATE_FULLSCREEN"}))
	assert.True(t, hasHiddenState([]string{"_NET_WM_STATE_ABOVE", "_NET_WM_STATE_HIDDEN"}))
}

func TestConfigureRequest(t *testing.T) {
	mask, values := configureRequest(-10, 20, 640, 480)
	assert.Equal(t, uint16(xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight), mask)
	assert.Equal(t, []uint32{0xFFFFFFF6, 20, 640, 480}, values)
}
