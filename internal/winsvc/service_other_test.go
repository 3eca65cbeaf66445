//go:build !windows

package winsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnsupported(t *testing.T) {
	assert.False(t, IsWindowsService())
	assert.ErrorIs(t, RunService("advisor", func(context.Context) error { return nil }), ErrNotSupported)
	assert.ErrorIs(t, Install(Spec{Name: "advisor"}), ErrNotSupported)
	assert.ErrorIs(t, Uninstall("advisor"), ErrNotSupported)
	SetupEventLog("advisor")
}
