package escalation

import "errors"

// ErrDirectoryLookupFailed is non-fatal: alerts fall back to the raw employee id.
var ErrDirectoryLookupFailed = errors.New("employee directory lookup failed")
