package hdl

import "errors"

var ErrInternal = errors.New("internal error")
