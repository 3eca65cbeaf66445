// Package winsvc runs the advisor API as a Windows service.
package winsvc

import (
	"errors"
	"time"
)

// ErrNotSupported is returned by service management calls off Windows.
var ErrNotSupported = errors.New("windows services are not supported on this platform")

// Spec describes the service to install.
type Spec struct {
	Name        string
	DisplayName string
	Description string
	// Args are passed to the executable when the SCM starts it.
	Args []string
}

// stopTimeout bounds how long a stop request waits for the run function.
const stopTimeout = 30 * time.Second
