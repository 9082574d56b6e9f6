package estimate

import (
	"math"
	"testing"
)

func TestElectricalLoad_GreyWaterPlan(t *testing.T) {
	// Standard dehumidifier, one air mover, heater, scrubber.
	plan := EquipmentPlan{
		StandardDehumidifiers: 1,
		AirMovers:             1,
		Heaters:               1,
		AirScrubbers:          1,
		TotalUnits:            4,
	}

	load := electricalLoad(plan, false)

	if !almostEqual(load.TotalAmperage, 5.4+1.9+12.5+2.1) {
		t.Errorf("TotalAmperage = %v, want 21.9", load.TotalAmperage)
	}

	// Dehumidifier, mover, and scrubber run 24 h; the heater runs 12 h.
	wantKWh := (5.4*24 + 1.9*24 + 12.5*12 + 2.1*24) * 120 / 1000
	if !almostEqual(load.DailyKWh, wantKWh) {
		t.Errorf("DailyKWh = %v, want %v", load.DailyKWh, wantKWh)
	}

	// FFD packs heater+scrubber (14.6 A) on one 20 A circuit and
	// dehumidifier+mover (7.3 A) onto a circuit light enough for 15 A.
	if load.Circuits20A != 1 || load.Circuits15A != 1 {
		t.Errorf("circuits = %d x 20A / %d x 15A, want 1/1", load.Circuits20A, load.Circuits15A)
	}
	if load.GeneratorNeeded {
		t.Error("GeneratorNeeded = true, want false")
	}
}

func TestElectricalLoad_GeneratorDrawsNothing(t *testing.T) {
	base := EquipmentPlan{StandardDehumidifiers: 1, AirMovers: 2, TotalUnits: 3}
	withGen := base
	withGen.Generators = 1

	a := electricalLoad(base, false)
	b := electricalLoad(withGen, true)

	if a.TotalAmperage != b.TotalAmperage {
		t.Errorf("generator changed amperage: %v vs %v", a.TotalAmperage, b.TotalAmperage)
	}
	if a.DailyKWh != b.DailyKWh {
		t.Errorf("generator changed kWh: %v vs %v", a.DailyKWh, b.DailyKWh)
	}
	if !b.GeneratorNeeded {
		t.Error("GeneratorNeeded = false, want pass-through true")
	}
}

func TestPackCircuits(t *testing.T) {
	tests := []struct {
		name   string
		draws  []float64
		want20 int
		want15 int
	}{
		{
			name:   "no equipment",
			draws:  nil,
			want20: 0,
			want15: 0,
		},
		{
			name:   "two air movers share a light circuit",
			draws:  []float64{1.9, 1.9},
			want20: 0,
			want15: 1,
		},
		{
			name:   "heater alone exceeds a derated 15A circuit",
			draws:  []float64{12.5},
			want20: 1,
			want15: 0,
		},
		{
			name:   "eight movers fill one 20A circuit to 15.2A",
			draws:  []float64{1.9, 1.9, 1.9, 1.9, 1.9, 1.9, 1.9, 1.9},
			want20: 1,
			want15: 0,
		},
		{
			name:   "heater and large dehumidifier cannot share",
			draws:  []float64{12.5, 8.3},
			want20: 1,
			want15: 1, // 8.3 A alone fits inside 12 A
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got20, got15 := packCircuits(tt.draws)
			if got20 != tt.want20 || got15 != tt.want15 {
				t.Errorf("packCircuits() = %d x 20A, %d x 15A; want %d, %d",
					got20, got15, tt.want20, tt.want15)
			}
		})
	}
}

func TestPackCircuits_HonorsDerate(t *testing.T) {
	// Loads are never packed beyond 80% of nameplate: re-pack a busy fleet
	// and check every implied circuit load.
	plan := EquipmentPlan{
		LargeDehumidifiers: 1,
		AirMovers:          6,
		Heaters:            1,
		AirScrubbers:       3,
	}
	var draws []float64
	for _, k := range equipmentKinds {
		for i := 0; i < plan.count(k); i++ {
			if a := ampsFor(k); a > 0 {
				draws = append(draws, a)
			}
		}
	}

	got20, got15 := packCircuits(draws)
	if got20+got15 == 0 {
		t.Fatal("no circuits packed for a non-empty fleet")
	}

	var total float64
	for _, d := range draws {
		total += d
	}
	capacity := float64(got20)*circuit20ACapacity + float64(got15)*circuit15ACapacity
	if total > capacity {
		t.Errorf("packed %v A into %v A of derated capacity", total, capacity)
	}
	// Sanity: a perfect packing cannot use fewer circuits than the total
	// draw divided by the largest circuit.
	lower := int(math.Ceil(total / circuit20ACapacity))
	if got20+got15 < lower {
		t.Errorf("circuit count %d below theoretical minimum %d", got20+got15, lower)
	}
}
