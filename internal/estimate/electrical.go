package estimate

// electrical.go sizes the power demand of a room's equipment plan: total
// amperage, branch-circuit counts, and daily energy consumption. Crews use
// the circuit counts to decide whether a panel can carry the fleet or a
// generator has to.

import "sort"

// Nameplate amperage draw per unit at line voltage. The generator is a
// source, not a load, so it draws nothing.
const (
	largeDehuAmps     = 8.3
	standardDehuAmps  = 5.4
	airMoverAmps      = 1.9
	heaterAmps        = 12.5
	airScrubberAmps   = 2.1
	injectionUnitAmps = 1.6
)

// Branch circuits are loaded to 80% of nameplate per NEC continuous-load
// derating: 16 A usable on a 20 A circuit, 12 A on a 15 A circuit.
const (
	lineVoltage        = 120.0
	circuitDerate      = 0.80
	circuit20ACapacity = 20.0 * circuitDerate
	circuit15ACapacity = 15.0 * circuitDerate
)

// Daily runtime per kind. Drying equipment runs around the clock; heaters
// cycle on a half-day duty.
const (
	dryingRuntimeHours = 24.0
	heaterRuntimeHours = 12.0
)

// ampsFor returns the per-unit draw for a kind.
func ampsFor(k EquipmentKind) float64 {
	switch k {
	case KindLargeDehumidifier:
		return largeDehuAmps
	case KindStandardDehumidifier:
		return standardDehuAmps
	case KindAirMover:
		return airMoverAmps
	case KindHeater:
		return heaterAmps
	case KindAirScrubber:
		return airScrubberAmps
	case KindInjectionSystem:
		return injectionUnitAmps
	default:
		return 0
	}
}

// runtimeHoursFor returns how many hours per day a kind runs.
func runtimeHoursFor(k EquipmentKind) float64 {
	if k == KindHeater {
		return heaterRuntimeHours
	}
	return dryingRuntimeHours
}

// electricalLoad sums the plan's amperage and energy use and packs the
// individual unit draws onto branch circuits.
func electricalLoad(plan EquipmentPlan, generatorNeeded bool) ElectricalLoad {
	var (
		draws    []float64
		total    float64
		dailyKWh float64
	)

	for _, k := range equipmentKinds {
		n := plan.count(k)
		amps := ampsFor(k)
		if n == 0 || amps == 0 {
			continue
		}
		total += float64(n) * amps
		dailyKWh += float64(n) * amps * lineVoltage * runtimeHoursFor(k) / 1000
		for i := 0; i < n; i++ {
			draws = append(draws, amps)
		}
	}

	c20, c15 := packCircuits(draws)
	return ElectricalLoad{
		TotalAmperage:   total,
		Circuits20A:     c20,
		Circuits15A:     c15,
		DailyKWh:        dailyKWh,
		GeneratorNeeded: generatorNeeded,
	}
}

// packCircuits assigns per-unit draws to 20 A branch circuits using
// first-fit decreasing, then counts each packed circuit that fits inside a
// derated 15 A capacity as a 15 A circuit instead. Every single unit draws
// less than one derated 20 A circuit, so packing always succeeds.
func packCircuits(draws []float64) (circuits20A, circuits15A int) {
	if len(draws) == 0 {
		return 0, 0
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(draws)))

	var loads []float64
	for _, d := range draws {
		placed := false
		for i := range loads {
			if loads[i]+d <= circuit20ACapacity {
				loads[i] += d
				placed = true
				break
			}
		}
		if !placed {
			loads = append(loads, d)
		}
	}

	for _, load := range loads {
		if load <= circuit15ACapacity {
			circuits15A++
		} else {
			circuits20A++
		}
	}
	return circuits20A, circuits15A
}
