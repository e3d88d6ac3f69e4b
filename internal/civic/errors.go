package civic

import "errors"

// ErrInvalidKind is returned by journals for an unknown entry kind.
var ErrInvalidKind = errors.New("civic: invalid entry kind")
