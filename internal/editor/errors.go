package editor

import "errors"

// ErrBusy is returned for input received while an earlier input is still
// being applied.
var ErrBusy = errors.New("editor busy")
