package estimate

// run.go composes the full pipeline for one batch of raw records:
// validate each row, calculate the survivors, aggregate the results.

import "fmt"

// MaxBatchRooms bounds one estimation batch. A residential or light
// commercial loss never exceeds this; anything larger is split into
// multiple projects upstream.
const MaxBatchRooms = 100

// Run estimates a whole batch. The rate snapshot is range-checked once up
// front; a violation wraps [ErrRateOutOfRange] and nothing is computed.
// Oversized batches wrap [ErrBatchTooLarge]. Row-level problems are never
// errors: invalid rows are skipped and reported in BatchResult.Errors while
// the rest of the batch proceeds, so a batch where every row fails returns
// a zero-room result and a full error list, not a failure.
func Run(records []RawRoomRecord, cfg RateConfiguration, lib *MaterialLibrary) (BatchResult, error) {
	if err := cfg.Validate(); err != nil {
		return BatchResult{}, err
	}
	if len(records) > MaxBatchRooms {
		return BatchResult{}, fmt.Errorf("%w: %d rooms, limit is %d", ErrBatchTooLarge, len(records), MaxBatchRooms)
	}

	result := BatchResult{
		Rooms:  []RoomResult{},
		Errors: []RowError{},
	}

	for i, rec := range records {
		if rec.Row == 0 {
			rec.Row = i + 1
		}
		in, errs := ValidateRecord(rec)
		if len(errs) > 0 {
			result.Errors = append(result.Errors, errs...)
			result.Skipped++
			continue
		}
		result.Rooms = append(result.Rooms, calculateRoom(in, cfg, lib))
	}

	result.Summary = Aggregate(result.Rooms)
	return result, nil
}
