//go:build !windows

package winsvc

import "context"

// IsWindowsService always returns false off Windows.
func IsWindowsService() bool { return false }

// SetupEventLog is a no-op off Windows.
func SetupEventLog(string) {}

// RunService returns ErrNotSupported.
func RunService(string, func(ctx context.Context) error) error { return ErrNotSupported }

// Install returns ErrNotSupported.
func Install(Spec) error { return ErrNotSupported }

// Uninstall returns ErrNotSupported.
func Uninstall(string) error { return ErrNotSupported }
