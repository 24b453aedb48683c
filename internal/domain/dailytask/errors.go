package dailytask

import "errors"

var ErrLogNotFound = errors.New("daily task log not found")
