package sim

import "errors"

// ErrConfiguration marks a run that cannot start because its configuration is
// malformed: unknown realignment policy, bad window sizes, missing artifacts.
var ErrConfiguration = errors.New("configuration error")

// ErrPrecondition marks a violated call contract, such as a window of the wrong
// length handed to a predictor or a degenerate slope over a one-sample window.
var ErrPrecondition = errors.New("precondition violation")
