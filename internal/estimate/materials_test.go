package estimate

import (
	"strings"
	"testing"
)

func TestDefaultLibrary_CatalogShape(t *testing.T) {
	lib := mustLibrary(t)

	if lib.Len() < minLibraryEntries {
		t.Errorf("library holds %d materials, want at least %d", lib.Len(), minLibraryEntries)
	}

	// Every family should be represented by at least one material.
	families := make(map[MaterialFamily]bool)
	for _, spec := range lib.Specs() {
		families[spec.Family] = true
		if spec.ThicknessIn <= 0 || spec.CostPerSqFt <= 0 || spec.TargetMoisturePct <= 0 {
			t.Errorf("material %q has non-positive values: %+v", spec.Name, spec)
		}
	}
	for family := range materialFamilies {
		if !families[family] {
			t.Errorf("family %q has no materials in the catalog", family)
		}
	}
}

func TestLibraryResolve_KnownMaterials(t *testing.T) {
	lib := mustLibrary(t)

	tests := []struct {
		name       string
		wantFamily MaterialFamily
		wantCost   float64
	}{
		{"drywall", FamilyDrywall, 2.25},
		{"oak", FamilyHardwood, 8.50},
		{"pine", FamilyHardwood, 6.25}, // named exception under the family baseline
		{"carpet", FamilyCarpet, 3.25},
		{"lvp", FamilyVinyl, 4.25},
		{"marble", FamilyStoneTile, 14.50},
		{"concrete slab", FamilyConcrete, 5.25},
		{"plywood", FamilyEngineeredWood, 2.95},
		{"laminate", FamilyEngineered, 4.95},
		{"batt insulation", FamilyInsulation, 1.45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := lib.Resolve(tt.name)
			if spec.Family != tt.wantFamily {
				t.Errorf("Resolve(%q).Family = %q, want %q", tt.name, spec.Family, tt.wantFamily)
			}
			if spec.CostPerSqFt != tt.wantCost {
				t.Errorf("Resolve(%q).CostPerSqFt = %v, want %v", tt.name, spec.CostPerSqFt, tt.wantCost)
			}
		})
	}
}

func TestLibraryResolve_Normalization(t *testing.T) {
	lib := mustLibrary(t)
	want := lib.Resolve("luxury vinyl")

	for _, name := range []string{"Luxury Vinyl", "  luxury   vinyl  ", "LUXURY VINYL", "luxury\tvinyl"} {
		got := lib.Resolve(name)
		if got != want {
			t.Errorf("Resolve(%q) = %+v, want same as %q", name, got, "luxury vinyl")
		}
	}
}

func TestLibraryResolve_UnknownFallsBack(t *testing.T) {
	lib := mustLibrary(t)

	for _, name := range []string{"", "   ", "unobtainium", "shag carpeting deluxe"} {
		spec := lib.Resolve(name)
		if spec != fallbackSpec {
			t.Errorf("Resolve(%q) = %+v, want fallback %+v", name, spec, fallbackSpec)
		}
	}
	if got := lib.Fallback(); got != fallbackSpec {
		t.Errorf("Fallback() = %+v, want %+v", got, fallbackSpec)
	}
}

func TestResolveFor_TargetMoistureOverrides(t *testing.T) {
	lib := mustLibrary(t)
	cfg := DefaultRates()
	cfg.TargetMoistureHardwood = 7.5
	cfg.TargetMoistureDrywall = 11

	tests := []struct {
		material string
		want     float64
	}{
		{"oak", 7.5},                 // hardwood family
		{"engineered hardwood", 7.5}, // engineered maps to the hardwood knob
		{"plywood", 7.5},             // engineered wood products too
		{"drywall", 11},
		{"carpet", cfg.TargetMoistureCarpet},
		{"tile", cfg.TargetMoistureMasonry},
		{"concrete", cfg.TargetMoistureConcrete},
	}
	for _, tt := range tests {
		if got := lib.ResolveFor(tt.material, cfg).TargetMoisturePct; got != tt.want {
			t.Errorf("ResolveFor(%q) target = %v, want %v", tt.material, got, tt.want)
		}
	}

	// Vinyl has no configuration knob and keeps the catalog value.
	if got := lib.ResolveFor("vinyl", cfg).TargetMoisturePct; got != lib.Resolve("vinyl").TargetMoisturePct {
		t.Errorf("vinyl target = %v, want catalog value", got)
	}
}

func TestNewLibrary_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "families: [",
			wantErr: "parse material library",
		},
		{
			name: "unknown family",
			yaml: `
families:
  space_age:
    thickness_in: 1
    cost_per_sqft: 1
    target_moisture_pct: 1
materials:
  - { name: foo, family: space_age }
`,
			wantErr: "unknown family",
		},
		{
			name: "material references undefined family",
			yaml: `
families:
  drywall:
    thickness_in: 0.5
    cost_per_sqft: 2.25
    target_moisture_pct: 12
materials:
  - { name: oak, family: hardwood }
`,
			wantErr: "undefined family",
		},
		{
			name: "duplicate material",
			yaml: `
families:
  drywall:
    thickness_in: 0.5
    cost_per_sqft: 2.25
    target_moisture_pct: 12
materials:
  - { name: drywall, family: drywall }
  - { name: Drywall, family: drywall }
`,
			wantErr: "duplicate material",
		},
		{
			name: "empty material name",
			yaml: `
families:
  drywall:
    thickness_in: 0.5
    cost_per_sqft: 2.25
    target_moisture_pct: 12
materials:
  - { name: "  ", family: drywall }
`,
			wantErr: "empty name",
		},
		{
			name: "non-positive baseline",
			yaml: `
families:
  drywall:
    thickness_in: 0
    cost_per_sqft: 2.25
    target_moisture_pct: 12
materials:
  - { name: drywall, family: drywall }
`,
			wantErr: "positive baseline",
		},
		{
			name: "too few materials",
			yaml: `
families:
  drywall:
    thickness_in: 0.5
    cost_per_sqft: 2.25
    target_moisture_pct: 12
materials:
  - { name: drywall, family: drywall }
`,
			wantErr: "need at least",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLibrary([]byte(tt.yaml))
			if err == nil {
				t.Fatal("NewLibrary() accepted an invalid catalog")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLibrarySpecs_ReturnsCopy(t *testing.T) {
	lib := mustLibrary(t)

	specs := lib.Specs()
	specs["drywall"] = MaterialSpecification{Name: "tampered"}

	if lib.Resolve("drywall").Name == "tampered" {
		t.Error("Specs() exposed internal state")
	}
}
