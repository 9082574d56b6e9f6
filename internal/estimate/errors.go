package estimate

import "errors"

// Sentinel faults raised by the engine. Row-level problems are never Go
// errors; they travel as RowError values inside a BatchResult.
var (
	// ErrRateOutOfRange reports a RateConfiguration field outside its
	// published limits. The configuration layer rejects such values
	// before they reach the engine, so seeing this from [CalculateRoom]
	// or [Run] means that guard was bypassed.
	ErrRateOutOfRange = errors.New("rate configuration out of range")

	// ErrBatchTooLarge reports an input batch above MaxBatchRooms.
	ErrBatchTooLarge = errors.New("batch exceeds room limit")
)
