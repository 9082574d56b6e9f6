package estimate

// EquipmentKind identifies one class of drying equipment. Rates, amperage
// draws, and runtime hours are keyed by kind through explicit switches so a
// missing mapping is a compile-time hole rather than a runtime lookup miss.
type EquipmentKind int

const (
	KindLargeDehumidifier EquipmentKind = iota
	KindStandardDehumidifier
	KindAirMover
	KindHeater
	KindAirScrubber
	KindInjectionSystem
	KindGenerator
)

// equipmentKinds lists every kind in rate-table order.
var equipmentKinds = []EquipmentKind{
	KindLargeDehumidifier,
	KindStandardDehumidifier,
	KindAirMover,
	KindHeater,
	KindAirScrubber,
	KindInjectionSystem,
	KindGenerator,
}

// String returns the canonical snake_case name for the kind.
func (k EquipmentKind) String() string {
	switch k {
	case KindLargeDehumidifier:
		return "large_dehumidifier"
	case KindStandardDehumidifier:
		return "standard_dehumidifier"
	case KindAirMover:
		return "air_mover"
	case KindHeater:
		return "heater"
	case KindAirScrubber:
		return "air_scrubber"
	case KindInjectionSystem:
		return "injection_system"
	case KindGenerator:
		return "generator"
	default:
		return "unknown"
	}
}

// RawRoomRecord is one unvalidated room assessment as it arrives from the
// ingestion layer: every field still a string, exactly as read from a CSV
// cell or a JSON payload. Row carries the source line number for error
// reporting.
type RawRoomRecord struct {
	Row                int    `json:"row,omitempty"`
	ClaimID            string `json:"claim_id"`
	RoomID             string `json:"room_id"`
	RoomName           string `json:"room_name"`
	RoomSqFt           string `json:"room_sf"`
	LengthFt           string `json:"length_ft"`
	WidthFt            string `json:"width_ft"`
	CeilingHeightFt    string `json:"ceiling_height_ft"`
	WaterCategory      string `json:"water_category"`
	WaterClass         string `json:"water_class"`
	TemperatureF       string `json:"temperature_f"`
	RelativeHumidity   string `json:"relative_humidity"`
	FloorDamaged       string `json:"floor_damaged"`
	FloorMaterial      string `json:"floor_material"`
	FloorMoisture      string `json:"floor_moisture"`
	WallDamaged        string `json:"wall_damaged"`
	WallMaterial       string `json:"wall_material"`
	WallMoistureBottom string `json:"wall_moisture_bottom"`
	WallMoistureMiddle string `json:"wall_moisture_middle"`
	WallMoistureTop    string `json:"wall_moisture_top"`
	CeilingDamaged     string `json:"ceiling_damaged"`
	CeilingMaterial    string `json:"ceiling_material"`
	CeilingMoisture    string `json:"ceiling_moisture"`
	NeedsGenerator     string `json:"needs_generator"`
}

// ValidatedRoomInput is a normalized room record that has passed every
// domain constraint. The calculator accepts it without further checks.
type ValidatedRoomInput struct {
	Row                int
	ClaimID            string
	RoomID             string
	RoomName           string
	RoomSqFt           float64
	LengthFt           float64
	WidthFt            float64
	CeilingHeightFt    float64
	WaterCategory      int
	WaterClass         int
	TemperatureF       float64
	RelativeHumidity   float64
	FloorDamaged       bool
	FloorMaterial      string
	FloorMoisture      float64
	WallDamaged        bool
	WallMaterial       string
	WallMoistureBottom float64
	WallMoistureMiddle float64
	WallMoistureTop    float64
	CeilingDamaged     bool
	CeilingMaterial    string
	CeilingMoisture    float64
	NeedsGenerator     bool
}

// EquipmentPlan holds per-kind unit counts for one room, or per-kind fleet
// sums when used inside a [ProjectSummary]. TotalUnits excludes generators:
// a generator powers the fleet, it is not part of the drying fleet itself.
type EquipmentPlan struct {
	LargeDehumidifiers    int `json:"large_dehumidifiers"`
	StandardDehumidifiers int `json:"standard_dehumidifiers"`
	AirMovers             int `json:"air_movers"`
	Heaters               int `json:"heaters"`
	AirScrubbers          int `json:"air_scrubbers"`
	InjectionSystems      int `json:"injection_systems"`
	Generators            int `json:"generators"`
	TotalUnits            int `json:"total_units"`
}

// count returns the unit count for a kind.
func (p EquipmentPlan) count(k EquipmentKind) int {
	switch k {
	case KindLargeDehumidifier:
		return p.LargeDehumidifiers
	case KindStandardDehumidifier:
		return p.StandardDehumidifiers
	case KindAirMover:
		return p.AirMovers
	case KindHeater:
		return p.Heaters
	case KindAirScrubber:
		return p.AirScrubbers
	case KindInjectionSystem:
		return p.InjectionSystems
	case KindGenerator:
		return p.Generators
	default:
		return 0
	}
}

// add accumulates another plan into this one, kind by kind.
func (p *EquipmentPlan) add(o EquipmentPlan) {
	p.LargeDehumidifiers += o.LargeDehumidifiers
	p.StandardDehumidifiers += o.StandardDehumidifiers
	p.AirMovers += o.AirMovers
	p.Heaters += o.Heaters
	p.AirScrubbers += o.AirScrubbers
	p.InjectionSystems += o.InjectionSystems
	p.Generators += o.Generators
	p.TotalUnits += o.TotalUnits
}

// LaborCost breaks labor down by role. Hours and dollar figures are kept
// side by side so reports can show both without re-deriving.
type LaborCost struct {
	TechnicianHours   float64 `json:"technician_hours"`
	TechnicianCost    float64 `json:"technician_cost"`
	SupervisorHours   float64 `json:"supervisor_hours"`
	SupervisorCost    float64 `json:"supervisor_cost"`
	SpecialistHours   float64 `json:"specialist_hours"`
	SpecialistCost    float64 `json:"specialist_cost"`
	ProjectManagement float64 `json:"project_management"`
	Total             float64 `json:"total"`
}

// EquipmentCost is the rental cost for the room's full equipment plan.
type EquipmentCost struct {
	DailyCost float64 `json:"daily_cost"`
	Total     float64 `json:"total"`
}

// MaterialsCost itemizes surface treatments plus the fixed fees.
type MaterialsCost struct {
	FloorCost         float64 `json:"floor_cost"`
	WallCost          float64 `json:"wall_cost"`
	CeilingCost       float64 `json:"ceiling_cost"`
	BaseboardCost     float64 `json:"baseboard_cost"`
	DisposalFee       float64 `json:"disposal_fee"`
	AntimicrobialCost float64 `json:"antimicrobial_cost"`
	Total             float64 `json:"total"`
}

// CostBreakdown rolls labor, equipment, and materials up to the room total.
// Markup is always exactly 15% of the subtotal for commercial work.
type CostBreakdown struct {
	Labor       LaborCost     `json:"labor"`
	Equipment   EquipmentCost `json:"equipment"`
	Materials   MaterialsCost `json:"materials"`
	Subtotal    float64       `json:"subtotal"`
	Markup      float64       `json:"markup"`
	Total       float64       `json:"total"`
	CostPerSqFt float64       `json:"cost_per_sqft"`
}

// Timeline is the drying schedule for one room.
type Timeline struct {
	EstimatedDays        int     `json:"estimated_days"`
	DailyMonitoringHours float64 `json:"daily_monitoring_hours"`
}

// ElectricalLoad summarizes the power demand of the room's equipment plan.
type ElectricalLoad struct {
	TotalAmperage   float64 `json:"total_amperage"`
	Circuits20A     int     `json:"circuits_20a"`
	Circuits15A     int     `json:"circuits_15a"`
	DailyKWh        float64 `json:"daily_kwh"`
	GeneratorNeeded bool    `json:"generator_needed"`
}

// SurfaceDetail reports the resolved material and treatment for one surface.
// MoisturePct is the assessed reading (walls: weighted bottom/middle/top
// average) and TargetMoisturePct the drying goal; both are report-only and
// never feed the cost figures.
type SurfaceDetail struct {
	Surface           string         `json:"surface"`
	Material          string         `json:"material"`
	Family            MaterialFamily `json:"family"`
	AffectedSqFt      float64        `json:"affected_sqft"`
	CostPerSqFt       float64        `json:"cost_per_sqft"`
	Cost              float64        `json:"cost"`
	MoisturePct       float64        `json:"moisture_pct"`
	TargetMoisturePct float64        `json:"target_moisture_pct"`
}

// Environment echoes the psychrometric readings for the room along with the
// derived grains-per-pound humidity ratio used by CDMv23 monitoring.
type Environment struct {
	TemperatureF     float64 `json:"temperature_f"`
	RelativeHumidity float64 `json:"relative_humidity"`
	GrainsPerPound   float64 `json:"gpp"`
}

// RoomResult is the complete per-room estimate. It is a derived value:
// immutable once computed and recomputed from inputs on every request.
type RoomResult struct {
	ClaimID       string          `json:"claim_id"`
	RoomID        string          `json:"room_id"`
	RoomName      string          `json:"room_name"`
	RoomSqFt      float64         `json:"room_sf"`
	WaterCategory int             `json:"water_category"`
	WaterClass    int             `json:"water_class"`
	Equipment     EquipmentPlan   `json:"equipment"`
	Costs         CostBreakdown   `json:"costs"`
	Timeline      Timeline        `json:"timeline"`
	Electrical    ElectricalLoad  `json:"electrical"`
	Materials     []SurfaceDetail `json:"materials"`
	Environment   Environment     `json:"environment"`
}

// ElectricalSummary totals circuit requirements across a project.
type ElectricalSummary struct {
	Circuits20A      int     `json:"circuits_20a"`
	Circuits15A      int     `json:"circuits_15a"`
	PeakRoomAmperage float64 `json:"peak_room_amperage"`
	TotalProjectKWh  float64 `json:"total_project_kwh"`
}

// OptimizationDetail describes one shared-supervision bucket: all rooms with
// the same drying timeline that can share a supervisor and one project
// management fee.
type OptimizationDetail struct {
	TimelineDays  int     `json:"timeline_days"`
	RoomCount     int     `json:"room_count"`
	OriginalCost  float64 `json:"original_cost"`
	OptimizedCost float64 `json:"optimized_cost"`
	Savings       float64 `json:"savings"`
	RoomNames     string  `json:"room_names"`
}

// LaborOptimization reports the concurrent-supervision pass. Savings is
// always the sum of the supervision and setup/breakdown components and is
// never negative.
type LaborOptimization struct {
	Savings               float64              `json:"savings"`
	SupervisionSavings    float64              `json:"supervision_savings"`
	SetupBreakdownSavings float64              `json:"setup_breakdown_savings"`
	Details               []OptimizationDetail `json:"details"`
}

// ProjectSummary aggregates room results into project totals. It is a pure
// function of the room list; input order never changes the output.
type ProjectSummary struct {
	RoomCount           int               `json:"room_count"`
	TotalCost           float64           `json:"total_cost"`
	OptimizedTotalCost  float64           `json:"optimized_total_cost"`
	TotalAffectedSqFt   float64           `json:"total_affected_sf"`
	TotalEquipmentUnits int               `json:"total_equipment_units"`
	TotalAmperage       float64           `json:"total_amperage"`
	LongestTimelineDays int               `json:"longest_timeline_days"`
	AverageCostPerSqFt  float64           `json:"average_cost_per_sf"`
	Fleet               EquipmentPlan     `json:"fleet_requirements"`
	Electrical          ElectricalSummary `json:"electrical_summary"`
	LaborOptimization   LaborOptimization `json:"labor_optimization"`
}

// BatchResult is the partial-success contract for one batch run: whatever
// valid rooms exist, the project summary over them, and the complete error
// list for everything that was skipped.
type BatchResult struct {
	EstimateID string         `json:"estimate_id,omitempty"`
	Rooms      []RoomResult   `json:"rooms"`
	Summary    ProjectSummary `json:"summary"`
	Errors     []RowError     `json:"errors"`
	Skipped    int            `json:"skipped"`
}
