package fetch

import "errors"

// Error variables for the distinct response failure shapes.
var (
	ErrDecode         = errors.New("json decode failed")
	ErrServer         = errors.New("server error")
	ErrMissingData    = errors.New("missing data")
	ErrMissingContent = errors.New("missing content_md")
)
