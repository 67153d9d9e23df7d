package database

import "errors"

// ErrNotReady wraps the last ping failure once connection attempts are
// exhausted at startup.
var ErrNotReady = errors.New("database not ready")
