package model

import "errors"

var (
	// ErrInvalidSettings is returned when the configuration cannot start the monitor
	ErrInvalidSettings = errors.New("invalid settings")

	// ErrInventoryUnavailable marks a storage listing failure; it aborts the current cycle
	ErrInventoryUnavailable = errors.New("storage inventory unavailable")

	// ErrFunctionConfigUnavailable marks a failed memory lookup (not found or unauthorized)
	ErrFunctionConfigUnavailable = errors.New("function configuration unavailable")

	// ErrUnknownDatafeed is returned when a report is requested for a feed that is not configured
	ErrUnknownDatafeed = errors.New("unknown datafeed")
)
