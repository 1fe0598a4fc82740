package bucket

import "errors"

// ErrDoubleInit is returned by Init when the bucket's worker already runs.
var ErrDoubleInit = errors.New("bucket: already running")

// ErrNotRunning is returned by operations that need a live worker when the
// bucket has not been initialized, or its worker has already exited.
var ErrNotRunning = errors.New("bucket: worker not running")
