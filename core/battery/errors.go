package battery

import "errors"

// ErrConfig reports a malformed curve source or a chemistry/SOH mismatch.
// Construction fails fast and no partial state is created.
var ErrConfig = errors.New("battery: invalid configuration")

// ErrInvalidArgument reports a caller contract violation at the transition
// boundary, such as a non-positive step duration. The call fails and the
// state is left unchanged.
var ErrInvalidArgument = errors.New("battery: invalid argument")
