package wlkit

import "errors"

// ErrMissingGlobal is returned when the compositor does not advertise
// a global the environment cannot work without.
var ErrMissingGlobal = errors.New("required global not advertised by the compositor")
