package fluid

import "errors"

// ErrInvalidParameter indicates a non-positive or non-finite body or pool parameter.
var ErrInvalidParameter = errors.New("fluid: invalid parameter")
