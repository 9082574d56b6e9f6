package estimate

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// costTolerance is the relative tolerance for derived dollar figures whose
// decimal factors are not exactly representable in binary floating point.
const costTolerance = 1e-9

func almostEqual(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= costTolerance {
		return true
	}
	return diff <= costTolerance*math.Max(math.Abs(a), math.Abs(b))
}

func mustLibrary(t *testing.T) *MaterialLibrary {
	t.Helper()
	lib, err := DefaultLibrary()
	if err != nil {
		t.Fatalf("DefaultLibrary() error = %v", err)
	}
	return lib
}

// validInput is a 400 sqft grey-water room with a damaged carpet floor:
// the reference case used across the calculator tests.
func validInput() ValidatedRoomInput {
	return ValidatedRoomInput{
		Row:              2,
		ClaimID:          "CLM-1001",
		RoomID:           "R1",
		RoomName:         "Master Bedroom",
		RoomSqFt:         400,
		LengthFt:         20,
		WidthFt:          20,
		CeilingHeightFt:  8,
		WaterCategory:    2,
		WaterClass:       2,
		TemperatureF:     75,
		RelativeHumidity: 50,
		FloorDamaged:     true,
		FloorMaterial:    "carpet",
		FloorMoisture:    0.30,
		WallMaterial:     "drywall",
		CeilingMaterial:  "drywall",
	}
}

func mustCalculate(t *testing.T, in ValidatedRoomInput) RoomResult {
	t.Helper()
	res, err := CalculateRoom(in, DefaultRates(), mustLibrary(t))
	if err != nil {
		t.Fatalf("CalculateRoom() error = %v", err)
	}
	return res
}

// ----------------------------------------------------------------------------
// Equipment sizing
// ----------------------------------------------------------------------------

func TestCalculateRoom_GreyWaterRoom(t *testing.T) {
	res := mustCalculate(t, validInput())

	eq := res.Equipment
	if eq.StandardDehumidifiers != 1 || eq.LargeDehumidifiers != 0 {
		t.Errorf("dehumidifiers = %d standard / %d large, want 1/0 below breakpoint",
			eq.StandardDehumidifiers, eq.LargeDehumidifiers)
	}
	if eq.AirMovers != 1 {
		t.Errorf("AirMovers = %d, want ceil(400/400) = 1", eq.AirMovers)
	}
	if eq.Heaters != 1 {
		t.Errorf("Heaters = %d, want 1 for grey water", eq.Heaters)
	}
	if eq.AirScrubbers != 1 {
		t.Errorf("AirScrubbers = %d, want ceil(400/500) = 1", eq.AirScrubbers)
	}
	if eq.InjectionSystems != 0 {
		t.Errorf("InjectionSystems = %d, want 0 for carpet", eq.InjectionSystems)
	}
	if eq.Generators != 0 {
		t.Errorf("Generators = %d, want 0", eq.Generators)
	}
	if eq.TotalUnits != 4 {
		t.Errorf("TotalUnits = %d, want 4", eq.TotalUnits)
	}

	if res.Timeline.EstimatedDays != 4 {
		t.Errorf("EstimatedDays = %d, want ceil(3 x 1.25) = 4", res.Timeline.EstimatedDays)
	}
	if res.Timeline.DailyMonitoringHours != dailyMonitoringHours {
		t.Errorf("DailyMonitoringHours = %v, want %v", res.Timeline.DailyMonitoringHours, dailyMonitoringHours)
	}
}

func TestCalculateRoom_CleanWaterSkipsContaminationGear(t *testing.T) {
	in := validInput()
	in.WaterCategory = 1

	res := mustCalculate(t, in)
	if res.Equipment.Heaters != 0 {
		t.Errorf("Heaters = %d, want 0 for clean water", res.Equipment.Heaters)
	}
	if res.Equipment.AirScrubbers != 0 {
		t.Errorf("AirScrubbers = %d, want 0 for clean water", res.Equipment.AirScrubbers)
	}
	if res.Costs.Labor.SpecialistHours != 0 || res.Costs.Labor.SpecialistCost != 0 {
		t.Errorf("specialist = %v h / $%v, want zero for clean water",
			res.Costs.Labor.SpecialistHours, res.Costs.Labor.SpecialistCost)
	}
	if res.Costs.Materials.AntimicrobialCost != 0 {
		t.Errorf("AntimicrobialCost = %v, want 0 for clean water", res.Costs.Materials.AntimicrobialCost)
	}
}

func TestCalculateRoom_DehumidifierBreakpoint(t *testing.T) {
	tests := []struct {
		name      string
		sqft      float64
		wantLarge bool
		wantAM    int
	}{
		{"just below breakpoint", 1499, false, 4},  // ceil(1499/400) = 4
		{"at breakpoint", 1500, true, 4},           // ceil(1500/400) = 4
		{"small room", 120, false, 1},              // ceil(120/400) = 1
		{"largest validatable room", 5000, true, 13}, // ceil(5000/400) = 13
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.RoomSqFt = tt.sqft
			in.LengthFt = 50
			in.WidthFt = 50

			res := mustCalculate(t, in)
			gotLarge := res.Equipment.LargeDehumidifiers == 1 && res.Equipment.StandardDehumidifiers == 0
			if gotLarge != tt.wantLarge {
				t.Errorf("large dehumidifier = %v, want %v at %v sqft", gotLarge, tt.wantLarge, tt.sqft)
			}
			if res.Equipment.LargeDehumidifiers+res.Equipment.StandardDehumidifiers != 1 {
				t.Error("every room gets exactly one dehumidifier")
			}
			if res.Equipment.AirMovers != tt.wantAM {
				t.Errorf("AirMovers = %d, want %d", res.Equipment.AirMovers, tt.wantAM)
			}
		})
	}
}

func TestCalculateRoom_InjectionSystemForHardwood(t *testing.T) {
	tests := []struct {
		name     string
		material string
		damaged  bool
		want     int
	}{
		{"damaged oak", "oak", true, 1},
		{"damaged hardwood alias", "solid wood", true, 1},
		{"undamaged oak", "oak", false, 0},
		{"damaged carpet", "carpet", true, 0},
		{"damaged engineered is not solid hardwood", "engineered hardwood", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			in.FloorMaterial = tt.material
			in.FloorDamaged = tt.damaged
			if !tt.damaged {
				in.FloorMoisture = 0
			}

			res := mustCalculate(t, in)
			if res.Equipment.InjectionSystems != tt.want {
				t.Errorf("InjectionSystems = %d, want %d", res.Equipment.InjectionSystems, tt.want)
			}
		})
	}
}

// ----------------------------------------------------------------------------
// Timeline
// ----------------------------------------------------------------------------

func TestCalculateRoom_TimelineByWaterClass(t *testing.T) {
	wantDays := map[int]int{1: 3, 2: 4, 3: 5, 4: 6}

	prev := 0
	for class := 1; class <= 4; class++ {
		in := validInput()
		in.WaterClass = class

		res := mustCalculate(t, in)
		if res.Timeline.EstimatedDays != wantDays[class] {
			t.Errorf("class %d: EstimatedDays = %d, want %d", class, res.Timeline.EstimatedDays, wantDays[class])
		}
		if res.Timeline.EstimatedDays < prev {
			t.Errorf("class %d dries faster than class %d", class, class-1)
		}
		prev = res.Timeline.EstimatedDays
	}
}

// ----------------------------------------------------------------------------
// Costs
// ----------------------------------------------------------------------------

func TestCalculateRoom_LaborBreakdown(t *testing.T) {
	res := mustCalculate(t, validInput())
	labor := res.Costs.Labor

	// 4 units x (0.5 setup + 0.5 breakdown + 0.25 x 4 days) = 8 h.
	if labor.TechnicianHours != 8 {
		t.Errorf("TechnicianHours = %v, want 8", labor.TechnicianHours)
	}
	if !almostEqual(labor.TechnicianCost, 440) {
		t.Errorf("TechnicianCost = %v, want 440", labor.TechnicianCost)
	}

	// 2 monitoring hours x 4 days.
	if labor.SupervisorHours != 8 {
		t.Errorf("SupervisorHours = %v, want 8", labor.SupervisorHours)
	}
	if !almostEqual(labor.SupervisorCost, 600) {
		t.Errorf("SupervisorCost = %v, want 600", labor.SupervisorCost)
	}

	// 1.5 specialist hours x 4 days, grey water.
	if labor.SpecialistHours != 6 {
		t.Errorf("SpecialistHours = %v, want 6", labor.SpecialistHours)
	}
	if !almostEqual(labor.SpecialistCost, 660) {
		t.Errorf("SpecialistCost = %v, want 660", labor.SpecialistCost)
	}

	if labor.ProjectManagement != 350 {
		t.Errorf("ProjectManagement = %v, want 350", labor.ProjectManagement)
	}
	if !almostEqual(labor.Total, 2050) {
		t.Errorf("labor Total = %v, want 2050", labor.Total)
	}
}

func TestCalculateRoom_EquipmentRental(t *testing.T) {
	in := validInput()
	in.NeedsGenerator = true

	res := mustCalculate(t, in)

	// standard dehu 70 + air mover 24 + heater 45 + scrubber 85 + generator 150.
	if !almostEqual(res.Costs.Equipment.DailyCost, 374) {
		t.Errorf("DailyCost = %v, want 374", res.Costs.Equipment.DailyCost)
	}
	if !almostEqual(res.Costs.Equipment.Total, 374*4) {
		t.Errorf("equipment Total = %v, want %v", res.Costs.Equipment.Total, 374*4)
	}
	if res.Equipment.Generators != 1 {
		t.Errorf("Generators = %d, want 1", res.Equipment.Generators)
	}
	// The generator powers the fleet; it is not a drying unit.
	if res.Equipment.TotalUnits != 4 {
		t.Errorf("TotalUnits = %d, want 4 with generator excluded", res.Equipment.TotalUnits)
	}
	if !res.Electrical.GeneratorNeeded {
		t.Error("GeneratorNeeded = false, want pass-through true")
	}
}

func TestCalculateRoom_MaterialsBreakdown(t *testing.T) {
	in := validInput()
	in.WallDamaged = true
	in.WallMoistureBottom = 0.40
	in.WallMoistureMiddle = 0.25
	in.WallMoistureTop = 0.10

	res := mustCalculate(t, in)
	mat := res.Costs.Materials

	if !almostEqual(mat.FloorCost, 1300) { // 400 sqft x 3.25 carpet
		t.Errorf("FloorCost = %v, want 1300", mat.FloorCost)
	}
	if !almostEqual(mat.WallCost, 720) { // perimeter 80 x 4 ft cut x 2.25 drywall
		t.Errorf("WallCost = %v, want 720", mat.WallCost)
	}
	if mat.CeilingCost != 0 {
		t.Errorf("CeilingCost = %v, want 0 for undamaged ceiling", mat.CeilingCost)
	}
	if !almostEqual(mat.BaseboardCost, 200) { // perimeter 80 x 2.50
		t.Errorf("BaseboardCost = %v, want 200", mat.BaseboardCost)
	}
	if mat.DisposalFee != disposalFee {
		t.Errorf("DisposalFee = %v, want %v", mat.DisposalFee, disposalFee)
	}
	if !almostEqual(mat.AntimicrobialCost, 252) { // (400 + 320) affected x 0.35
		t.Errorf("AntimicrobialCost = %v, want 252", mat.AntimicrobialCost)
	}
	if !almostEqual(mat.Total, 1300+720+200+150+252) {
		t.Errorf("materials Total = %v, want %v", mat.Total, 1300+720+200+150+252)
	}

	if len(res.Materials) != 2 {
		t.Fatalf("surface details = %d, want 2 (floor, wall)", len(res.Materials))
	}
	wall := res.Materials[1]
	if wall.Surface != "wall" || wall.AffectedSqFt != 320 {
		t.Errorf("wall detail = %+v, want wall at 320 sqft", wall)
	}
	// 0.5 x 0.40 + 0.3 x 0.25 + 0.2 x 0.10 = 0.295, reported as percent.
	if !almostEqual(wall.MoisturePct, 29.5) {
		t.Errorf("wall MoisturePct = %v, want 29.5", wall.MoisturePct)
	}
}

func TestCalculateRoom_BaseboardOnlyWithFloorDamage(t *testing.T) {
	in := validInput()
	in.FloorDamaged = false
	in.FloorMoisture = 0
	in.WallDamaged = true
	in.WallMoistureBottom = 0.30
	in.WallMoistureMiddle = 0.20
	in.WallMoistureTop = 0.10

	res := mustCalculate(t, in)
	if res.Costs.Materials.BaseboardCost != 0 {
		t.Errorf("BaseboardCost = %v, want 0 without floor damage", res.Costs.Materials.BaseboardCost)
	}
	if res.Costs.Materials.FloorCost != 0 {
		t.Errorf("FloorCost = %v, want 0", res.Costs.Materials.FloorCost)
	}
}

func TestCalculateRoom_MarkupIdentity(t *testing.T) {
	inputs := []ValidatedRoomInput{validInput()}

	big := validInput()
	big.RoomSqFt = 3200
	big.LengthFt = 80
	big.WidthFt = 40
	big.WaterCategory = 3
	big.WaterClass = 4
	big.WallDamaged = true
	big.WallMoistureBottom = 0.55
	big.WallMoistureMiddle = 0.35
	big.WallMoistureTop = 0.15
	inputs = append(inputs, big)

	for _, in := range inputs {
		res := mustCalculate(t, in)
		costs := res.Costs

		if costs.Total != costs.Subtotal*1.15 {
			t.Errorf("Total = %v, want exactly Subtotal x 1.15 = %v", costs.Total, costs.Subtotal*1.15)
		}
		if costs.Markup != costs.Subtotal*0.15 {
			t.Errorf("Markup = %v, want exactly Subtotal x 0.15 = %v", costs.Markup, costs.Subtotal*0.15)
		}
		if !almostEqual(costs.Subtotal, costs.Labor.Total+costs.Equipment.Total+costs.Materials.Total) {
			t.Errorf("Subtotal = %v, want sum of sections", costs.Subtotal)
		}
		if !almostEqual(costs.CostPerSqFt*res.RoomSqFt, costs.Total) {
			t.Errorf("CostPerSqFt x RoomSqFt = %v, want %v", costs.CostPerSqFt*res.RoomSqFt, costs.Total)
		}
	}
}

func TestCalculateRoom_UnknownMaterialStillEstimates(t *testing.T) {
	in := validInput()
	in.FloorMaterial = "mystery composite"

	res := mustCalculate(t, in)
	if len(res.Materials) == 0 {
		t.Fatal("no surface details for damaged floor")
	}
	floor := res.Materials[0]
	if floor.Family != FamilyOther {
		t.Errorf("fallback family = %q, want %q", floor.Family, FamilyOther)
	}
	if floor.CostPerSqFt != fallbackSpec.CostPerSqFt {
		t.Errorf("fallback cost = %v, want %v", floor.CostPerSqFt, fallbackSpec.CostPerSqFt)
	}
	if !almostEqual(res.Costs.Materials.FloorCost, 400*fallbackSpec.CostPerSqFt) {
		t.Errorf("FloorCost = %v, want %v", res.Costs.Materials.FloorCost, 400*fallbackSpec.CostPerSqFt)
	}
}

// ----------------------------------------------------------------------------
// Determinism and faults
// ----------------------------------------------------------------------------

func TestCalculateRoom_Idempotent(t *testing.T) {
	lib := mustLibrary(t)
	cfg := DefaultRates()
	in := validInput()

	first, err := CalculateRoom(in, cfg, lib)
	if err != nil {
		t.Fatalf("CalculateRoom() error = %v", err)
	}
	second, err := CalculateRoom(in, cfg, lib)
	if err != nil {
		t.Fatalf("CalculateRoom() error = %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated calculation differs (-first +second):\n%s", diff)
	}
}

func TestCalculateRoom_RateOutOfRange(t *testing.T) {
	cfg := DefaultRates()
	cfg.TechnicianHourly = 0 // below published minimum

	_, err := CalculateRoom(validInput(), cfg, mustLibrary(t))
	if err == nil {
		t.Fatal("CalculateRoom() accepted out-of-range rates")
	}
	if !errors.Is(err, ErrRateOutOfRange) {
		t.Errorf("error = %v, want ErrRateOutOfRange", err)
	}
}

func TestCalculateRoom_OutputsAlwaysSane(t *testing.T) {
	lib := mustLibrary(t)
	cfg := DefaultRates()

	sizes := []float64{50, 400, 1500, 5000}
	materials := []string{"carpet", "oak", "tile", "not in the catalog", ""}

	for category := 1; category <= 3; category++ {
		for class := 1; class <= 4; class++ {
			for _, sqft := range sizes {
				for _, mat := range materials {
					in := validInput()
					in.WaterCategory = category
					in.WaterClass = class
					in.RoomSqFt = sqft
					in.FloorMaterial = mat
					in.NeedsGenerator = class == 4

					res, err := CalculateRoom(in, cfg, lib)
					if err != nil {
						t.Fatalf("CalculateRoom(cat=%d class=%d sqft=%v) error = %v", category, class, sqft, err)
					}

					eq := res.Equipment
					counts := []int{eq.LargeDehumidifiers, eq.StandardDehumidifiers, eq.AirMovers,
						eq.Heaters, eq.AirScrubbers, eq.InjectionSystems, eq.Generators, eq.TotalUnits}
					for _, n := range counts {
						if n < 0 {
							t.Fatalf("negative equipment count %d for cat=%d class=%d sqft=%v", n, category, class, sqft)
						}
					}
					wantUnits := eq.LargeDehumidifiers + eq.StandardDehumidifiers + eq.AirMovers +
						eq.Heaters + eq.AirScrubbers + eq.InjectionSystems
					if eq.TotalUnits != wantUnits {
						t.Fatalf("TotalUnits = %d, want %d", eq.TotalUnits, wantUnits)
					}

					dollars := []float64{res.Costs.Labor.Total, res.Costs.Equipment.Total,
						res.Costs.Materials.Total, res.Costs.Subtotal, res.Costs.Markup,
						res.Costs.Total, res.Costs.CostPerSqFt, res.Electrical.TotalAmperage,
						res.Electrical.DailyKWh, res.Environment.GrainsPerPound}
					for _, v := range dollars {
						if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
							t.Fatalf("non-finite or negative output %v for cat=%d class=%d sqft=%v", v, category, class, sqft)
						}
					}
				}
			}
		}
	}
}
