package estimate

// validate.go checks raw assessment records against CDMv23 domain
// constraints before they reach the calculator.
//
// Validation is per-row and exhaustive: every failed check produces a
// RowError naming the offending field, and a row with any error is skipped
// while the rest of the batch continues. Callers always receive both the
// validated inputs and the complete error list, so partial success is the
// default contract rather than the exception.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Accepted ranges for assessment fields. Rooms outside these bounds are
// either data-entry mistakes or jobs CDMv23 does not cover.
const (
	minWaterCategory = 1
	maxWaterCategory = 3
	minWaterClass    = 1
	maxWaterClass    = 4

	minRoomSqFt = 50.0
	maxRoomSqFt = 5000.0

	minDimensionFt     = 5.0
	maxDimensionFt     = 250.0
	minCeilingHeightFt = 6.0
	maxCeilingHeightFt = 20.0

	minTemperatureF     = 60.0
	maxTemperatureF     = 100.0
	minRelativeHumidity = 20.0
	maxRelativeHumidity = 90.0

	minMoistureFraction = 0.05
	maxMoistureFraction = 0.95
)

// defaultCeilingHeightFt is assumed when the assessment leaves the ceiling
// height blank, the standard residential ceiling.
const defaultCeilingHeightFt = 8.0

// RowError is a single field-level validation failure. Row is the source
// line the record came from, Field the column name, and Value the raw cell
// content that failed.
type RowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value,omitempty"`
}

func (e RowError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("row %d, %s: %s", e.Row, e.Field, e.Message)
	}
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// ValidateRecord checks one raw record against every domain constraint and
// returns either a fully normalized input or the complete list of failures.
// The zero-value input returned alongside errors must not be calculated.
func ValidateRecord(rec RawRoomRecord) (ValidatedRoomInput, []RowError) {
	c := &recordChecker{row: rec.Row}

	in := ValidatedRoomInput{Row: rec.Row}
	in.ClaimID = c.requiredText("claim_id", rec.ClaimID)
	in.RoomID = c.requiredText("room_id", rec.RoomID)
	in.RoomName = c.requiredText("room_name", rec.RoomName)

	in.RoomSqFt = c.floatBetween("room_sf", rec.RoomSqFt, minRoomSqFt, maxRoomSqFt)
	in.LengthFt = c.floatBetween("length_ft", rec.LengthFt, minDimensionFt, maxDimensionFt)
	in.WidthFt = c.floatBetween("width_ft", rec.WidthFt, minDimensionFt, maxDimensionFt)
	in.CeilingHeightFt = c.optionalFloatBetween("ceiling_height_ft", rec.CeilingHeightFt,
		minCeilingHeightFt, maxCeilingHeightFt, defaultCeilingHeightFt)

	in.WaterCategory = c.intBetween("water_category", rec.WaterCategory, minWaterCategory, maxWaterCategory)
	in.WaterClass = c.intBetween("water_class", rec.WaterClass, minWaterClass, maxWaterClass)

	in.TemperatureF = c.floatBetween("temperature_f", rec.TemperatureF, minTemperatureF, maxTemperatureF)
	in.RelativeHumidity = c.floatBetween("relative_humidity", rec.RelativeHumidity,
		minRelativeHumidity, maxRelativeHumidity)

	// Damage flags coerce leniently (blank means "no"); moisture readings
	// are mandatory for damaged surfaces and range-checked whenever present.
	in.FloorDamaged = c.boolValue("floor_damaged", rec.FloorDamaged)
	in.FloorMaterial = strings.TrimSpace(rec.FloorMaterial)
	in.FloorMoisture = c.moisture("floor_moisture", rec.FloorMoisture, in.FloorDamaged)

	in.WallDamaged = c.boolValue("wall_damaged", rec.WallDamaged)
	in.WallMaterial = strings.TrimSpace(rec.WallMaterial)
	in.WallMoistureBottom = c.moisture("wall_moisture_bottom", rec.WallMoistureBottom, in.WallDamaged)
	in.WallMoistureMiddle = c.moisture("wall_moisture_middle", rec.WallMoistureMiddle, in.WallDamaged)
	in.WallMoistureTop = c.moisture("wall_moisture_top", rec.WallMoistureTop, in.WallDamaged)

	in.CeilingDamaged = c.boolValue("ceiling_damaged", rec.CeilingDamaged)
	in.CeilingMaterial = strings.TrimSpace(rec.CeilingMaterial)
	in.CeilingMoisture = c.moisture("ceiling_moisture", rec.CeilingMoisture, in.CeilingDamaged)

	in.NeedsGenerator = c.boolValue("needs_generator", rec.NeedsGenerator)

	if len(c.errs) > 0 {
		return ValidatedRoomInput{}, c.errs
	}
	return in, nil
}

// recordChecker accumulates field failures for one record.
type recordChecker struct {
	row  int
	errs []RowError
}

func (c *recordChecker) fail(field, value, message string) {
	c.errs = append(c.errs, RowError{Row: c.row, Field: field, Message: message, Value: value})
}

// requiredText trims a mandatory identifier and flags it when empty.
func (c *recordChecker) requiredText(field, raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		c.fail(field, raw, "required field is empty")
	}
	return s
}

// intBetween parses a mandatory integer field and enforces its range.
func (c *recordChecker) intBetween(field, raw string, min, max int) int {
	s := cleanNumber(raw)
	if s == "" {
		c.fail(field, raw, "required field is empty")
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < min || v > max {
		c.fail(field, raw, fmt.Sprintf("must be a whole number between %d and %d", min, max))
		return 0
	}
	return v
}

// floatBetween parses a mandatory numeric field and enforces its range.
func (c *recordChecker) floatBetween(field, raw string, min, max float64) float64 {
	s := cleanNumber(raw)
	if s == "" {
		c.fail(field, raw, "required field is empty")
		return 0
	}
	v, ok := parseFloat(s)
	if !ok || v < min || v > max {
		c.fail(field, raw, fmt.Sprintf("must be a number between %g and %g", min, max))
		return 0
	}
	return v
}

// optionalFloatBetween is floatBetween with a documented default for blank
// cells.
func (c *recordChecker) optionalFloatBetween(field, raw string, min, max, fallback float64) float64 {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	return c.floatBetween(field, raw, min, max)
}

// boolValue coerces a yes/no style cell. A blank cell means "no"; anything
// outside the accepted token set is an error.
func (c *recordChecker) boolValue(field, raw string) bool {
	v, ok := parseBool(raw)
	if !ok {
		c.fail(field, raw, "must be yes/no, true/false, or 1/0")
	}
	return v
}

// moisture parses a moisture-content fraction. Damaged surfaces must carry
// a reading; undamaged surfaces may leave the cell blank, but a reading
// that is present is always range-checked.
func (c *recordChecker) moisture(field, raw string, required bool) float64 {
	if strings.TrimSpace(raw) == "" {
		if required {
			c.fail(field, raw, "required when the surface is damaged")
		}
		return 0
	}
	return c.floatBetween(field, raw, minMoistureFraction, maxMoistureFraction)
}

// cleanNumber strips the artifacts spreadsheets add to numeric cells:
// currency symbols, thousands separators, and stray whitespace.
func cleanNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	return strings.TrimSpace(s)
}

// parseFloat parses a cleaned numeric cell. NaN and infinities never pass;
// a non-finite reading would poison every downstream sum.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseBool coerces the boolean spellings assessments actually contain:
// true/t/yes/y/1 and false/f/no/n/0, case-insensitive. A blank cell reads
// as false.
func parseBool(s string) (value, ok bool) {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case "":
		return false, true
	case "true", "t", "yes", "y", "1":
		return true, true
	case "false", "f", "no", "n", "0":
		return false, true
	default:
		return false, false
	}
}
