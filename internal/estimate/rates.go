package estimate

import (
	"fmt"
	"math"
	"strings"
)

// RateConfiguration carries every pricing knob the engine consumes: four
// labor rates, seven equipment daily rates, and five target moisture-content
// percentages keyed by material class. The engine treats it as a read-only
// snapshot for the duration of one run; the configuration layer owns
// mutation and is responsible for range-checking against [RateLimits]
// before handing a snapshot over.
type RateConfiguration struct {
	// Labor, dollars per hour except the flat per-room management fee.
	TechnicianHourly     float64 `json:"technician_hourly"`
	SupervisorHourly     float64 `json:"supervisor_hourly"`
	SpecialistHourly     float64 `json:"specialist_hourly"`
	ProjectManagementFee float64 `json:"project_management_fee"`

	// Equipment rental, dollars per unit per day.
	LargeDehumidifierDaily    float64 `json:"large_dehumidifier_daily"`
	StandardDehumidifierDaily float64 `json:"standard_dehumidifier_daily"`
	AirMoverDaily             float64 `json:"air_mover_daily"`
	HeaterDaily               float64 `json:"heater_daily"`
	AirScrubberDaily          float64 `json:"air_scrubber_daily"`
	InjectionSystemDaily      float64 `json:"injection_system_daily"`
	GeneratorDaily            float64 `json:"generator_daily"`

	// Drying goals, percent moisture content per material class. These
	// override the library targets for the classes they cover; vinyl,
	// insulation, and unclassified materials keep their library values.
	TargetMoistureDrywall  float64 `json:"target_moisture_drywall"`
	TargetMoistureHardwood float64 `json:"target_moisture_hardwood"`
	TargetMoistureCarpet   float64 `json:"target_moisture_carpet"`
	TargetMoistureConcrete float64 `json:"target_moisture_concrete"`
	TargetMoistureMasonry  float64 `json:"target_moisture_masonry"`
}

// DefaultRates returns the CDMv23 baseline pricing. Every value sits inside
// its published limits, so DefaultRates().Validate() is always nil.
func DefaultRates() RateConfiguration {
	return RateConfiguration{
		TechnicianHourly:     55,
		SupervisorHourly:     75,
		SpecialistHourly:     110,
		ProjectManagementFee: 350,

		LargeDehumidifierDaily:    95,
		StandardDehumidifierDaily: 70,
		AirMoverDaily:             24,
		HeaterDaily:               45,
		AirScrubberDaily:          85,
		InjectionSystemDaily:      60,
		GeneratorDaily:            150,

		TargetMoistureDrywall:  12,
		TargetMoistureHardwood: 10,
		TargetMoistureCarpet:   8,
		TargetMoistureConcrete: 16,
		TargetMoistureMasonry:  14,
	}
}

// RateLimit bounds one RateConfiguration field, inclusive on both ends.
type RateLimit struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// rateLimits is the published acceptance range for each field, keyed by the
// field's JSON name. Validate and the configuration API both read it.
var rateLimits = map[string]RateLimit{
	"technician_hourly":      {Min: 25, Max: 250},
	"supervisor_hourly":      {Min: 25, Max: 300},
	"specialist_hourly":      {Min: 25, Max: 400},
	"project_management_fee": {Min: 0, Max: 2000},

	"large_dehumidifier_daily":    {Min: 20, Max: 500},
	"standard_dehumidifier_daily": {Min: 15, Max: 400},
	"air_mover_daily":             {Min: 5, Max: 100},
	"heater_daily":                {Min: 10, Max: 200},
	"air_scrubber_daily":          {Min: 15, Max: 300},
	"injection_system_daily":      {Min: 10, Max: 250},
	"generator_daily":             {Min: 25, Max: 600},

	"target_moisture_drywall":  {Min: 1, Max: 30},
	"target_moisture_hardwood": {Min: 1, Max: 30},
	"target_moisture_carpet":   {Min: 1, Max: 30},
	"target_moisture_concrete": {Min: 1, Max: 30},
	"target_moisture_masonry":  {Min: 1, Max: 30},
}

// RateLimits returns a copy of the published per-field ranges.
func RateLimits() map[string]RateLimit {
	out := make(map[string]RateLimit, len(rateLimits))
	for k, v := range rateLimits {
		out[k] = v
	}
	return out
}

// rateField pairs a field's JSON name with its current value so Validate
// can walk the configuration in declaration order.
type rateField struct {
	name  string
	value float64
}

func (rc RateConfiguration) fields() []rateField {
	return []rateField{
		{"technician_hourly", rc.TechnicianHourly},
		{"supervisor_hourly", rc.SupervisorHourly},
		{"specialist_hourly", rc.SpecialistHourly},
		{"project_management_fee", rc.ProjectManagementFee},
		{"large_dehumidifier_daily", rc.LargeDehumidifierDaily},
		{"standard_dehumidifier_daily", rc.StandardDehumidifierDaily},
		{"air_mover_daily", rc.AirMoverDaily},
		{"heater_daily", rc.HeaterDaily},
		{"air_scrubber_daily", rc.AirScrubberDaily},
		{"injection_system_daily", rc.InjectionSystemDaily},
		{"generator_daily", rc.GeneratorDaily},
		{"target_moisture_drywall", rc.TargetMoistureDrywall},
		{"target_moisture_hardwood", rc.TargetMoistureHardwood},
		{"target_moisture_carpet", rc.TargetMoistureCarpet},
		{"target_moisture_concrete", rc.TargetMoistureConcrete},
		{"target_moisture_masonry", rc.TargetMoistureMasonry},
	}
}

// Validate checks every field against the published limits and reports all
// violations in a single error wrapping [ErrRateOutOfRange]. NaN never
// passes a range check.
func (rc RateConfiguration) Validate() error {
	var errs []string
	for _, f := range rc.fields() {
		lim, ok := rateLimits[f.name]
		if !ok {
			continue
		}
		if math.IsNaN(f.value) || f.value < lim.Min || f.value > lim.Max {
			errs = append(errs, fmt.Sprintf("%s (%.2f) must be between %.2f and %.2f",
				f.name, f.value, lim.Min, lim.Max))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", ErrRateOutOfRange, strings.Join(errs, "; "))
	}
	return nil
}

// dailyRate returns the per-day rental charge for one unit of kind.
func (rc RateConfiguration) dailyRate(k EquipmentKind) float64 {
	switch k {
	case KindLargeDehumidifier:
		return rc.LargeDehumidifierDaily
	case KindStandardDehumidifier:
		return rc.StandardDehumidifierDaily
	case KindAirMover:
		return rc.AirMoverDaily
	case KindHeater:
		return rc.HeaterDaily
	case KindAirScrubber:
		return rc.AirScrubberDaily
	case KindInjectionSystem:
		return rc.InjectionSystemDaily
	case KindGenerator:
		return rc.GeneratorDaily
	default:
		return 0
	}
}

// targetMoistureFor maps a material family to the configured drying goal,
// when the configuration carries one for that family.
func (rc RateConfiguration) targetMoistureFor(family MaterialFamily) (float64, bool) {
	switch family {
	case FamilyDrywall:
		return rc.TargetMoistureDrywall, true
	case FamilyHardwood, FamilyPaneling, FamilyEngineered, FamilyEngineeredWood:
		return rc.TargetMoistureHardwood, true
	case FamilyCarpet:
		return rc.TargetMoistureCarpet, true
	case FamilyConcrete:
		return rc.TargetMoistureConcrete, true
	case FamilyStoneTile:
		return rc.TargetMoistureMasonry, true
	default:
		return 0, false
	}
}
