// Package export renders estimate results as CSV sheets for adjusters and
// claim systems. Three sheets cover a batch: the per-room breakdown, the
// project summary, and the row-error report for skipped input rows.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/restoration-tools/drycost/internal/estimate"
)

// roomColumns is the per-room breakdown header, in sheet order.
var roomColumns = []string{
	"claim_id",
	"room_id",
	"room_name",
	"room_sf",
	"water_category",
	"water_class",
	"estimated_days",
	"large_dehumidifiers",
	"standard_dehumidifiers",
	"air_movers",
	"heaters",
	"air_scrubbers",
	"injection_systems",
	"generators",
	"total_units",
	"labor_cost",
	"equipment_cost",
	"materials_cost",
	"subtotal",
	"markup",
	"total",
	"cost_per_sqft",
	"total_amperage",
	"circuits_20a",
	"circuits_15a",
	"daily_kwh",
	"gpp",
}

// WriteRooms writes the per-room breakdown sheet.
func WriteRooms(w io.Writer, rooms []estimate.RoomResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(roomColumns); err != nil {
		return fmt.Errorf("write room sheet: %w", err)
	}
	for _, room := range rooms {
		record := []string{
			room.ClaimID,
			room.RoomID,
			room.RoomName,
			measure(room.RoomSqFt),
			strconv.Itoa(room.WaterCategory),
			strconv.Itoa(room.WaterClass),
			strconv.Itoa(room.Timeline.EstimatedDays),
			strconv.Itoa(room.Equipment.LargeDehumidifiers),
			strconv.Itoa(room.Equipment.StandardDehumidifiers),
			strconv.Itoa(room.Equipment.AirMovers),
			strconv.Itoa(room.Equipment.Heaters),
			strconv.Itoa(room.Equipment.AirScrubbers),
			strconv.Itoa(room.Equipment.InjectionSystems),
			strconv.Itoa(room.Equipment.Generators),
			strconv.Itoa(room.Equipment.TotalUnits),
			money(room.Costs.Labor.Total),
			money(room.Costs.Equipment.Total),
			money(room.Costs.Materials.Total),
			money(room.Costs.Subtotal),
			money(room.Costs.Markup),
			money(room.Costs.Total),
			money(room.Costs.CostPerSqFt),
			measure(room.Electrical.TotalAmperage),
			strconv.Itoa(room.Electrical.Circuits20A),
			strconv.Itoa(room.Electrical.Circuits15A),
			measure(room.Electrical.DailyKWh),
			measure(room.Environment.GrainsPerPound),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write room sheet: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write room sheet: %w", err)
	}
	return nil
}

// WriteSummary writes the project summary sheet: a metric/value block
// followed by one row per shared-supervision bucket.
func WriteSummary(w io.Writer, s estimate.ProjectSummary) error {
	cw := csv.NewWriter(w)

	metrics := [][]string{
		{"metric", "value"},
		{"room_count", strconv.Itoa(s.RoomCount)},
		{"total_cost", money(s.TotalCost)},
		{"optimized_total_cost", money(s.OptimizedTotalCost)},
		{"total_affected_sf", measure(s.TotalAffectedSqFt)},
		{"total_equipment_units", strconv.Itoa(s.TotalEquipmentUnits)},
		{"total_amperage", measure(s.TotalAmperage)},
		{"longest_timeline_days", strconv.Itoa(s.LongestTimelineDays)},
		{"average_cost_per_sf", money(s.AverageCostPerSqFt)},
		{"fleet_large_dehumidifiers", strconv.Itoa(s.Fleet.LargeDehumidifiers)},
		{"fleet_standard_dehumidifiers", strconv.Itoa(s.Fleet.StandardDehumidifiers)},
		{"fleet_air_movers", strconv.Itoa(s.Fleet.AirMovers)},
		{"fleet_heaters", strconv.Itoa(s.Fleet.Heaters)},
		{"fleet_air_scrubbers", strconv.Itoa(s.Fleet.AirScrubbers)},
		{"fleet_injection_systems", strconv.Itoa(s.Fleet.InjectionSystems)},
		{"fleet_generators", strconv.Itoa(s.Fleet.Generators)},
		{"circuits_20a", strconv.Itoa(s.Electrical.Circuits20A)},
		{"circuits_15a", strconv.Itoa(s.Electrical.Circuits15A)},
		{"peak_room_amperage", measure(s.Electrical.PeakRoomAmperage)},
		{"total_project_kwh", measure(s.Electrical.TotalProjectKWh)},
		{"labor_savings", money(s.LaborOptimization.Savings)},
		{"supervision_savings", money(s.LaborOptimization.SupervisionSavings)},
		{"setup_breakdown_savings", money(s.LaborOptimization.SetupBreakdownSavings)},
	}
	if err := cw.WriteAll(metrics); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}

	if len(s.LaborOptimization.Details) > 0 {
		rows := [][]string{
			{},
			{"timeline_days", "room_count", "original_cost", "optimized_cost", "savings", "room_names"},
		}
		for _, d := range s.LaborOptimization.Details {
			rows = append(rows, []string{
				strconv.Itoa(d.TimelineDays),
				strconv.Itoa(d.RoomCount),
				money(d.OriginalCost),
				money(d.OptimizedCost),
				money(d.Savings),
				d.RoomNames,
			})
		}
		if err := cw.WriteAll(rows); err != nil {
			return fmt.Errorf("write summary sheet: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	return nil
}

// WriteRowErrors writes the row-error sheet for skipped input rows. The
// underscore-prefixed columns keep the sheet from colliding with assessment
// column names when adjusters paste it back into their workbooks.
func WriteRowErrors(w io.Writer, errs []estimate.RowError) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"_row", "_field", "_error", "_value"}); err != nil {
		return fmt.Errorf("write error sheet: %w", err)
	}
	for _, re := range errs {
		record := []string{
			strconv.Itoa(re.Row),
			re.Field,
			re.Message,
			re.Value,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write error sheet: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write error sheet: %w", err)
	}
	return nil
}

// money formats a dollar figure with cents.
func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// measure formats a physical quantity: whole numbers stay whole, fractional
// readings keep two decimals.
func measure(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
