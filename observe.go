package loom

import "time"

// ResolveHook observes the outcome of one top-level resolve call.
type ResolveHook func(key string, duration time.Duration, err error)

// DisposeHook observes the disposal of one cached instance during Close.
type DisposeHook func(key string, err error)
