// Package estimate implements the CDMv23 cost-estimation engine for
// water-damage restoration projects.
//
// This package is the heart of the service, containing all domain logic
// independent of any transport or storage layer. It can be used by web
// handlers, CLI tools, or tests without modification.
//
// # Pipeline
//
// The engine is a deterministic pipeline of pure functions:
//
//  1. [ValidateRecord] checks one raw assessment row against domain
//     constraints, producing a [ValidatedRoomInput] or field-level
//     [RowError]s. Invalid rows are skipped, never fatal to a batch.
//  2. [MaterialLibrary.Resolve] maps material names onto family
//     specifications (thickness, cost per square foot, drying target).
//  3. [CalculateRoom] turns a validated input plus a [RateConfiguration]
//     snapshot into a full [RoomResult]: equipment sizing, labor, equipment
//     and material costs, drying timeline, and electrical load.
//  4. [Aggregate] combines room results into a [ProjectSummary], including
//     the concurrent-supervision labor optimization pass.
//
// [Run] composes all four stages for a batch of raw records and returns the
// partial-success [BatchResult]: every invocation yields whatever valid room
// results exist alongside the complete per-row error list.
//
// # Purity
//
// Nothing in this package performs I/O, blocks, or mutates its inputs.
// [RateConfiguration] and [MaterialLibrary] are treated as read-only
// snapshots for the duration of one calculation, so independent requests may
// run in parallel without coordination. Results are derived values that are
// recomputed per request and never cached as authoritative state.
package estimate
