package estimate

// aggregate.go rolls per-room results up into a project summary: straight
// totals, fleet and electrical sums, and the labor optimization pass that
// shares supervision across rooms drying on the same timeline.

import (
	"sort"
	"strings"
)

// Aggregate combines room results into a ProjectSummary. It is a pure
// function of the set of rooms: the input is copied and sorted before any
// floating-point sum, so every permutation of the same rooms produces a
// bit-identical summary. An empty input yields a zeroed summary with
// RoomCount 0.
func Aggregate(rooms []RoomResult) ProjectSummary {
	summary := ProjectSummary{
		RoomCount: len(rooms),
		LaborOptimization: LaborOptimization{
			Details: []OptimizationDetail{},
		},
	}
	if len(rooms) == 0 {
		return summary
	}

	ordered := sortedCopy(rooms)

	for _, room := range ordered {
		summary.TotalCost += room.Costs.Total
		summary.TotalAffectedSqFt += room.RoomSqFt
		summary.TotalEquipmentUnits += room.Equipment.TotalUnits
		summary.TotalAmperage += room.Electrical.TotalAmperage
		summary.Fleet.add(room.Equipment)

		summary.Electrical.Circuits20A += room.Electrical.Circuits20A
		summary.Electrical.Circuits15A += room.Electrical.Circuits15A
		if room.Electrical.TotalAmperage > summary.Electrical.PeakRoomAmperage {
			summary.Electrical.PeakRoomAmperage = room.Electrical.TotalAmperage
		}
		summary.Electrical.TotalProjectKWh += room.Electrical.DailyKWh * float64(room.Timeline.EstimatedDays)

		if room.Timeline.EstimatedDays > summary.LongestTimelineDays {
			summary.LongestTimelineDays = room.Timeline.EstimatedDays
		}
	}

	summary.AverageCostPerSqFt = summary.TotalCost / summary.TotalAffectedSqFt
	summary.LaborOptimization = optimizeLabor(ordered)
	summary.OptimizedTotalCost = summary.TotalCost - summary.LaborOptimization.Savings
	return summary
}

// sortedCopy orders rooms by claim, room id, and room name so aggregation
// is independent of input order. Cost breaks the tie for pathological
// duplicate identifiers.
func sortedCopy(rooms []RoomResult) []RoomResult {
	ordered := make([]RoomResult, len(rooms))
	copy(ordered, rooms)
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.ClaimID != b.ClaimID {
			return a.ClaimID < b.ClaimID
		}
		if a.RoomID != b.RoomID {
			return a.RoomID < b.RoomID
		}
		if a.RoomName != b.RoomName {
			return a.RoomName < b.RoomName
		}
		return a.Costs.Total < b.Costs.Total
	})
	return ordered
}

// optimizeLabor finds rooms drying on identical timelines and shares one
// supervisor and one project management fee across each such group.
// Supervision and management reflect concurrent days on site, so a crew
// watching three five-day rooms bills those roles once, not three times.
//
// Within a group every room carries the same supervisor cost (it depends
// only on the timeline) and the same flat management fee, so the shared
// cost is one room's share and the savings are the other rooms' shares.
// Savings split into the supervision component and the setup/breakdown
// administration component covered by the management fee.
func optimizeLabor(ordered []RoomResult) LaborOptimization {
	opt := LaborOptimization{Details: []OptimizationDetail{}}

	buckets := make(map[int][]RoomResult)
	for _, room := range ordered {
		days := room.Timeline.EstimatedDays
		buckets[days] = append(buckets[days], room)
	}

	timelines := make([]int, 0, len(buckets))
	for days := range buckets {
		timelines = append(timelines, days)
	}
	sort.Ints(timelines)

	for _, days := range timelines {
		bucket := buckets[days]
		if len(bucket) < 2 {
			continue
		}

		var (
			supervisorSum, managementSum       float64
			sharedSupervisor, sharedManagement float64
			names                              = make([]string, 0, len(bucket))
		)
		for _, room := range bucket {
			supervisorSum += room.Costs.Labor.SupervisorCost
			managementSum += room.Costs.Labor.ProjectManagement
			if room.Costs.Labor.SupervisorCost > sharedSupervisor {
				sharedSupervisor = room.Costs.Labor.SupervisorCost
			}
			if room.Costs.Labor.ProjectManagement > sharedManagement {
				sharedManagement = room.Costs.Labor.ProjectManagement
			}
			names = append(names, room.RoomName)
		}
		sort.Strings(names)

		original := supervisorSum + managementSum
		shared := sharedSupervisor + sharedManagement
		savings := original - shared

		opt.SupervisionSavings += supervisorSum - sharedSupervisor
		opt.SetupBreakdownSavings += managementSum - sharedManagement
		opt.Details = append(opt.Details, OptimizationDetail{
			TimelineDays:  days,
			RoomCount:     len(bucket),
			OriginalCost:  original,
			OptimizedCost: shared,
			Savings:       savings,
			RoomNames:     strings.Join(names, ", "),
		})
	}

	opt.Savings = opt.SupervisionSavings + opt.SetupBreakdownSavings
	return opt
}
