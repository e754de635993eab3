package drawing

import "errors"

var (
	// ErrNameRequired is returned by Save when the canvas name is blank.
	ErrNameRequired = errors.New("canvas name is required")
	// ErrSessionClosed is returned once the surface has emitted its save or cancel.
	ErrSessionClosed = errors.New("canvas editing session is closed")
)
