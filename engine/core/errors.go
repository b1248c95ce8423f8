package core

import (
	"errors"
)

var (
	ErrUnknownStrategy      = errors.New("unknown shading strategy")
	ErrUnknownFilter        = errors.New("unknown filter type")
	ErrUnknownLineAlgorithm = errors.New("unknown line algorithm")
	ErrUnknownTopology      = errors.New("unknown primitive topology")
	ErrUnknownResolution    = errors.New("unknown framebuffer resolution")
	ErrUnknownPriorityOrder = errors.New("unknown task priority order")
	ErrInvalidConfig        = errors.New("invalid configuration")
	ErrInvalidWorkerCount   = errors.New("worker count must be at least 1")
	ErrJobSystemClosed      = errors.New("job system is shut down")
	ErrTaskAlreadyQueued    = errors.New("task was already submitted")
	ErrTaskPanicked         = errors.New("task panicked")
	ErrUnsupportedFormat    = errors.New("unsupported file format")
	ErrAssetNotFound        = errors.New("asset not found")
	ErrFrameInFlight        = errors.New("previous frame has not finished")
	ErrUnknown              = errors.New("unknown")
)
