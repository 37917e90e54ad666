//go:build linux

package platform

import (
	"testing"

	"github.com/1broseidon/tagtile/internal/x11"
	"github.com/stretchr/testify/assert"
)

func TestDesktopFromX11(t *testing.T) {
	assert.Equal(t, 3, desktopFromX11(3))
	assert.Equal(t, DesktopSticky, desktopFromX11(x11.DesktopSticky))
	assert.Equal(t, DesktopUnknown, desktopFromX11(x11.DesktopUnknown))
}

func TestNilBackendReportsMissingConnection(t *testing.T) {
	var b *LinuxBackend
	_, err := b.ListClients()
	assert.Error(t, err)
	assert.Nil(t, b.Connection())
}
