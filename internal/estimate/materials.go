package estimate

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// MaterialFamily groups materials that dry and price alike. Family
// baselines come from the material catalog; target moisture overrides in
// the rate configuration are keyed by family as well.
type MaterialFamily string

const (
	FamilyDrywall        MaterialFamily = "drywall"
	FamilyHardwood       MaterialFamily = "hardwood"
	FamilyPaneling       MaterialFamily = "paneling"
	FamilyVinyl          MaterialFamily = "vinyl"
	FamilyCarpet         MaterialFamily = "carpet"
	FamilyEngineered     MaterialFamily = "engineered"
	FamilyStoneTile      MaterialFamily = "stone_tile"
	FamilyConcrete       MaterialFamily = "concrete"
	FamilyInsulation     MaterialFamily = "insulation"
	FamilyEngineeredWood MaterialFamily = "engineered_wood"
	FamilyOther          MaterialFamily = "other"
)

var materialFamilies = map[MaterialFamily]bool{
	FamilyDrywall:        true,
	FamilyHardwood:       true,
	FamilyPaneling:       true,
	FamilyVinyl:          true,
	FamilyCarpet:         true,
	FamilyEngineered:     true,
	FamilyStoneTile:      true,
	FamilyConcrete:       true,
	FamilyInsulation:     true,
	FamilyEngineeredWood: true,
	FamilyOther:          true,
}

// MaterialSpecification describes how one material is priced and dried.
type MaterialSpecification struct {
	Name              string         `json:"name"`
	Family            MaterialFamily `json:"family"`
	ThicknessIn       float64        `json:"thickness_in"`
	CostPerSqFt       float64        `json:"cost_per_sqft"`
	TargetMoisturePct float64        `json:"target_moisture_pct"`
}

// minLibraryEntries is the smallest canonical catalog CDMv23 accepts.
const minLibraryEntries = 39

// fallbackSpec is returned for names the library does not know. Unmatched
// field data never fails a row; the estimate proceeds with the middle-of-
// the-road pricing of the other family.
var fallbackSpec = MaterialSpecification{
	Name:              "unclassified",
	Family:            FamilyOther,
	ThicknessIn:       0.5,
	CostPerSqFt:       3.50,
	TargetMoisturePct: 12.0,
}

//go:embed materials.yaml
var materialsYAML []byte

// materialsFile mirrors the YAML catalog layout.
type materialsFile struct {
	Families  map[string]familyBaseline `yaml:"families"`
	Materials []materialEntry           `yaml:"materials"`
}

type familyBaseline struct {
	ThicknessIn       float64 `yaml:"thickness_in"`
	CostPerSqFt       float64 `yaml:"cost_per_sqft"`
	TargetMoisturePct float64 `yaml:"target_moisture_pct"`
}

// materialEntry is one named material. Override fields are pointers so an
// absent value falls back to the family baseline rather than to zero.
type materialEntry struct {
	Name              string   `yaml:"name"`
	Family            string   `yaml:"family"`
	ThicknessIn       *float64 `yaml:"thickness_in"`
	CostPerSqFt       *float64 `yaml:"cost_per_sqft"`
	TargetMoisturePct *float64 `yaml:"target_moisture_pct"`
}

// MaterialLibrary resolves material names to specifications. It is
// immutable after construction and safe for concurrent readers.
type MaterialLibrary struct {
	specs map[string]MaterialSpecification
}

// DefaultLibrary parses the embedded CDMv23 catalog.
func DefaultLibrary() (*MaterialLibrary, error) {
	return NewLibrary(materialsYAML)
}

// NewLibrary parses and validates a YAML material catalog. Every material
// must name a defined family and end up with positive thickness, cost, and
// target moisture after overrides are applied.
func NewLibrary(data []byte) (*MaterialLibrary, error) {
	var file materialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse material library: %w", err)
	}

	baselines := make(map[MaterialFamily]familyBaseline, len(file.Families))
	for name, base := range file.Families {
		family := MaterialFamily(name)
		if !materialFamilies[family] {
			return nil, fmt.Errorf("material library: unknown family %q", name)
		}
		if base.ThicknessIn <= 0 || base.CostPerSqFt <= 0 || base.TargetMoisturePct <= 0 {
			return nil, fmt.Errorf("material library: family %q needs positive baseline values", name)
		}
		baselines[family] = base
	}

	specs := make(map[string]MaterialSpecification, len(file.Materials))
	for _, entry := range file.Materials {
		key := normalizeMaterialName(entry.Name)
		if key == "" {
			return nil, fmt.Errorf("material library: entry with empty name")
		}
		if _, exists := specs[key]; exists {
			return nil, fmt.Errorf("material library: duplicate material %q", key)
		}
		base, ok := baselines[MaterialFamily(entry.Family)]
		if !ok {
			return nil, fmt.Errorf("material library: material %q references undefined family %q", key, entry.Family)
		}

		spec := MaterialSpecification{
			Name:              key,
			Family:            MaterialFamily(entry.Family),
			ThicknessIn:       base.ThicknessIn,
			CostPerSqFt:       base.CostPerSqFt,
			TargetMoisturePct: base.TargetMoisturePct,
		}
		if entry.ThicknessIn != nil {
			spec.ThicknessIn = *entry.ThicknessIn
		}
		if entry.CostPerSqFt != nil {
			spec.CostPerSqFt = *entry.CostPerSqFt
		}
		if entry.TargetMoisturePct != nil {
			spec.TargetMoisturePct = *entry.TargetMoisturePct
		}
		if spec.ThicknessIn <= 0 || spec.CostPerSqFt <= 0 || spec.TargetMoisturePct <= 0 {
			return nil, fmt.Errorf("material library: material %q needs positive values", key)
		}
		specs[key] = spec
	}

	if len(specs) < minLibraryEntries {
		return nil, fmt.Errorf("material library: %d materials, need at least %d", len(specs), minLibraryEntries)
	}

	return &MaterialLibrary{specs: specs}, nil
}

// normalizeMaterialName lowercases, trims, and collapses interior runs of
// whitespace so "  Luxury   Vinyl " and "luxury vinyl" hit the same entry.
func normalizeMaterialName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Resolve maps a raw material name to its specification. Unknown or empty
// names resolve to the documented fallback rather than failing.
func (l *MaterialLibrary) Resolve(name string) MaterialSpecification {
	if spec, ok := l.specs[normalizeMaterialName(name)]; ok {
		return spec
	}
	return fallbackSpec
}

// ResolveFor resolves a name and applies the per-family target moisture
// override from the rate configuration, when one exists for the family.
func (l *MaterialLibrary) ResolveFor(name string, rc RateConfiguration) MaterialSpecification {
	spec := l.Resolve(name)
	if target, ok := rc.targetMoistureFor(spec.Family); ok {
		spec.TargetMoisturePct = target
	}
	return spec
}

// Names returns every canonical material name in sorted order.
func (l *MaterialLibrary) Names() []string {
	names := make([]string, 0, len(l.specs))
	for name := range l.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len reports how many canonical materials the library holds.
func (l *MaterialLibrary) Len() int { return len(l.specs) }

// Fallback returns the specification used for unrecognized names.
func (l *MaterialLibrary) Fallback() MaterialSpecification { return fallbackSpec }

// Specs returns a copy of every specification keyed by canonical name, so
// callers cannot mutate library state.
func (l *MaterialLibrary) Specs() map[string]MaterialSpecification {
	out := make(map[string]MaterialSpecification, len(l.specs))
	for name, spec := range l.specs {
		out[name] = spec
	}
	return out
}
