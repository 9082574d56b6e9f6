package estimate

// calculate.go is the per-room estimation pipeline: equipment sizing,
// drying timeline, labor, equipment rental, materials, and the commercial
// rollup. Every stage is a pure function of the validated input, the rate
// snapshot, and the material library.

import "math"

// Equipment sizing policy. Coverage constants are square feet served by one
// unit; the breakpoint decides when a room needs an LGR-class dehumidifier
// instead of a standard one.
const (
	largeDehuBreakpointSqFt = 1500.0
	airMoverCoverageSqFt    = 400.0
	airScrubberCoverageSqFt = 500.0
)

// contaminatedCategoryMin is the first water category treated as
// contaminated. Category 1 is clean supply water; grey (2) and black (3)
// water require heat, air scrubbing, antimicrobial treatment, and
// specialist labor.
const contaminatedCategoryMin = 2

// Drying timeline policy. The base drying duration is stretched by a
// water-class multiplier; monitoring is a fixed daily visit.
const (
	baseDryingDays       = 3.0
	dailyMonitoringHours = 2.0
)

// Labor policy, hours per unit of work.
const (
	setupHoursPerUnit      = 0.5
	breakdownHoursPerUnit  = 0.5
	monitorHoursPerUnitDay = 0.25
	specialistHoursPerDay  = 1.5
)

// Materials policy. Walls are opened to the standard four-foot flood cut;
// baseboard is replaced along the full perimeter whenever the floor is
// affected.
const (
	floodCutHeightFt      = 4.0
	baseboardCostPerLinFt = 2.50
	disposalFee           = 150.0
	antimicrobialPerSqFt  = 0.35
)

// Wall moisture reporting weights. Water wicks upward from the floor, so
// the bottom reading dominates the blended figure. The weights sum to 1 and
// feed reporting only, never cost.
const (
	wallWeightBottom = 0.5
	wallWeightMiddle = 0.3
	wallWeightTop    = 0.2
)

// commercialMarkupRate is the fixed 15% markup applied to every commercial
// subtotal.
const commercialMarkupRate = 0.15

// classMultiplier stretches the base drying duration by water class.
// Monotonic non-decreasing: a worse class never dries faster.
func classMultiplier(class int) float64 {
	switch class {
	case 1:
		return 1.0
	case 2:
		return 1.25
	case 3:
		return 1.5
	default:
		return 2.0
	}
}

// contaminated reports whether a water category calls for the contaminated-
// water protocol.
func contaminated(category int) bool {
	return category >= contaminatedCategoryMin
}

// CalculateRoom computes the complete estimate for one validated room. The
// only possible error is a rate configuration outside its published limits,
// which wraps [ErrRateOutOfRange]; a validated input never fails.
func CalculateRoom(in ValidatedRoomInput, cfg RateConfiguration, lib *MaterialLibrary) (RoomResult, error) {
	if err := cfg.Validate(); err != nil {
		return RoomResult{}, err
	}
	return calculateRoom(in, cfg, lib), nil
}

// calculateRoom runs the pipeline with a configuration already known to be
// in range.
func calculateRoom(in ValidatedRoomInput, cfg RateConfiguration, lib *MaterialLibrary) RoomResult {
	floor := lib.ResolveFor(in.FloorMaterial, cfg)
	wall := lib.ResolveFor(in.WallMaterial, cfg)
	ceiling := lib.ResolveFor(in.CeilingMaterial, cfg)

	plan := sizeEquipment(in, floor)
	timeline := buildTimeline(in.WaterClass)
	labor := laborCost(plan, timeline, in.WaterCategory, cfg)
	rental := rentalCost(plan, timeline, cfg)
	materials, details := materialsCost(in, floor, wall, ceiling)

	subtotal := labor.Total + rental.Total + materials.Total
	markup := subtotal * commercialMarkupRate
	// One multiplication, not subtotal+markup, so the 15% markup identity
	// total == subtotal*1.15 holds exactly in floating point.
	total := subtotal * (1 + commercialMarkupRate)

	return RoomResult{
		ClaimID:       in.ClaimID,
		RoomID:        in.RoomID,
		RoomName:      in.RoomName,
		RoomSqFt:      in.RoomSqFt,
		WaterCategory: in.WaterCategory,
		WaterClass:    in.WaterClass,
		Equipment:     plan,
		Costs: CostBreakdown{
			Labor:     labor,
			Equipment: rental,
			Materials: materials,
			Subtotal:  subtotal,
			Markup:    markup,
			Total:     total,
			// The validator guarantees RoomSqFt >= minRoomSqFt.
			CostPerSqFt: total / in.RoomSqFt,
		},
		Timeline:   timeline,
		Electrical: electricalLoad(plan, in.NeedsGenerator),
		Materials:  details,
		Environment: Environment{
			TemperatureF:     in.TemperatureF,
			RelativeHumidity: in.RelativeHumidity,
			GrainsPerPound:   grainsPerPound(in.TemperatureF, in.RelativeHumidity),
		},
	}
}

// sizeEquipment picks the drying fleet for one room. Every room gets
// exactly one dehumidifier, LGR class at or above the square-footage
// breakpoint. Contaminated water adds heat and air scrubbing; a damaged
// hardwood floor adds an injection drying system.
func sizeEquipment(in ValidatedRoomInput, floor MaterialSpecification) EquipmentPlan {
	var p EquipmentPlan

	if in.RoomSqFt >= largeDehuBreakpointSqFt {
		p.LargeDehumidifiers = 1
	} else {
		p.StandardDehumidifiers = 1
	}
	p.AirMovers = int(math.Ceil(in.RoomSqFt / airMoverCoverageSqFt))

	if contaminated(in.WaterCategory) {
		p.Heaters = 1
		p.AirScrubbers = int(math.Ceil(in.RoomSqFt / airScrubberCoverageSqFt))
	}
	if in.FloorDamaged && floor.Family == FamilyHardwood {
		p.InjectionSystems = 1
	}
	if in.NeedsGenerator {
		p.Generators = 1
	}

	p.TotalUnits = p.LargeDehumidifiers + p.StandardDehumidifiers + p.AirMovers +
		p.Heaters + p.AirScrubbers + p.InjectionSystems
	return p
}

// buildTimeline converts the water class into a drying schedule.
func buildTimeline(class int) Timeline {
	return Timeline{
		EstimatedDays:        int(math.Ceil(baseDryingDays * classMultiplier(class))),
		DailyMonitoringHours: dailyMonitoringHours,
	}
}

// laborCost prices the four labor lines. Technician time scales with the
// fleet (setup, breakdown, and a per-unit monitoring share each day);
// supervision mirrors the daily monitoring visit; specialists appear only
// on contaminated losses; project management is a flat per-room fee that
// the aggregator may later share across concurrent rooms.
func laborCost(plan EquipmentPlan, tl Timeline, category int, cfg RateConfiguration) LaborCost {
	days := float64(tl.EstimatedDays)

	lc := LaborCost{
		TechnicianHours: float64(plan.TotalUnits) *
			(setupHoursPerUnit + breakdownHoursPerUnit + monitorHoursPerUnitDay*days),
		SupervisorHours:   tl.DailyMonitoringHours * days,
		ProjectManagement: cfg.ProjectManagementFee,
	}
	lc.TechnicianCost = lc.TechnicianHours * cfg.TechnicianHourly
	lc.SupervisorCost = lc.SupervisorHours * cfg.SupervisorHourly

	if contaminated(category) {
		lc.SpecialistHours = specialistHoursPerDay * days
		lc.SpecialistCost = lc.SpecialistHours * cfg.SpecialistHourly
	}

	lc.Total = lc.TechnicianCost + lc.SupervisorCost + lc.SpecialistCost + lc.ProjectManagement
	return lc
}

// rentalCost prices the equipment plan for the full drying duration. The
// generator counts here even though it sits outside TotalUnits.
func rentalCost(plan EquipmentPlan, tl Timeline, cfg RateConfiguration) EquipmentCost {
	var daily float64
	for _, k := range equipmentKinds {
		daily += float64(plan.count(k)) * cfg.dailyRate(k)
	}
	return EquipmentCost{
		DailyCost: daily,
		Total:     daily * float64(tl.EstimatedDays),
	}
}

// materialsCost prices surface treatments and the fixed fees, and builds
// the per-surface detail for reporting. A damaged floor treats the full
// room footprint and replaces perimeter baseboard; a damaged wall is opened
// to the flood-cut height around the perimeter; a damaged ceiling treats
// the footprint overhead. Antimicrobial application covers every affected
// square foot, contaminated losses only.
func materialsCost(in ValidatedRoomInput, floor, wall, ceiling MaterialSpecification) (MaterialsCost, []SurfaceDetail) {
	var (
		mc       MaterialsCost
		details  = make([]SurfaceDetail, 0, 3)
		affected float64
	)
	perimeterFt := 2 * (in.LengthFt + in.WidthFt)

	if in.FloorDamaged {
		area := in.RoomSqFt
		mc.FloorCost = area * floor.CostPerSqFt
		mc.BaseboardCost = perimeterFt * baseboardCostPerLinFt
		affected += area
		details = append(details, SurfaceDetail{
			Surface:           "floor",
			Material:          floor.Name,
			Family:            floor.Family,
			AffectedSqFt:      area,
			CostPerSqFt:       floor.CostPerSqFt,
			Cost:              mc.FloorCost,
			MoisturePct:       in.FloorMoisture * 100,
			TargetMoisturePct: floor.TargetMoisturePct,
		})
	}

	if in.WallDamaged {
		area := perimeterFt * floodCutHeightFt
		mc.WallCost = area * wall.CostPerSqFt
		affected += area
		details = append(details, SurfaceDetail{
			Surface:           "wall",
			Material:          wall.Name,
			Family:            wall.Family,
			AffectedSqFt:      area,
			CostPerSqFt:       wall.CostPerSqFt,
			Cost:              mc.WallCost,
			MoisturePct:       wallMoistureAverage(in) * 100,
			TargetMoisturePct: wall.TargetMoisturePct,
		})
	}

	if in.CeilingDamaged {
		area := in.RoomSqFt
		mc.CeilingCost = area * ceiling.CostPerSqFt
		affected += area
		details = append(details, SurfaceDetail{
			Surface:           "ceiling",
			Material:          ceiling.Name,
			Family:            ceiling.Family,
			AffectedSqFt:      area,
			CostPerSqFt:       ceiling.CostPerSqFt,
			Cost:              mc.CeilingCost,
			MoisturePct:       in.CeilingMoisture * 100,
			TargetMoisturePct: ceiling.TargetMoisturePct,
		})
	}

	mc.DisposalFee = disposalFee
	if contaminated(in.WaterCategory) {
		mc.AntimicrobialCost = affected * antimicrobialPerSqFt
	}

	mc.Total = mc.FloorCost + mc.WallCost + mc.CeilingCost + mc.BaseboardCost +
		mc.DisposalFee + mc.AntimicrobialCost
	return mc, details
}

// wallMoistureAverage blends the three wall readings into the single
// reported figure, weighted toward the bottom of the wall.
func wallMoistureAverage(in ValidatedRoomInput) float64 {
	return wallWeightBottom*in.WallMoistureBottom +
		wallWeightMiddle*in.WallMoistureMiddle +
		wallWeightTop*in.WallMoistureTop
}
