package repo

import "errors"

var ErrMalformedStore = errors.New("malformed store file")
