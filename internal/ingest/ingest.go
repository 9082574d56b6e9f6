// Package ingest reads room assessment CSVs exported from field software
// and turns them into raw records for the estimation engine. It is lenient
// about formatting (BOM, Excel artifacts, preamble rows, column order) and
// strict about nothing: domain validation belongs to the engine, which
// reports per-row errors without failing the batch.
package ingest

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/restoration-tools/drycost/internal/estimate"
)

// maxHeaderSearchRows bounds the scan for the header row. Field exports
// often carry a few preamble rows (report title, claim metadata) before the
// real header.
const maxHeaderSearchRows = 20

// utf8BOM is the byte order mark Windows tools prepend to CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// requiredColumns must all appear in the header row. Every other column is
// optional and reads as an empty string when absent; the engine decides
// whether empty is acceptable for the rooms it describes.
var requiredColumns = []string{
	"claim_id",
	"room_id",
	"room_sf",
	"water_category",
	"water_class",
}

// ParseAssessments reads one assessment CSV and returns a raw record per
// non-empty data row, with Row set to the 1-based source line. It fails only
// for structural problems: unreadable CSV, no recognizable header, or more
// data rows than one batch allows. Cell-level issues pass through untouched
// for the engine's row validator to report.
func ParseAssessments(r io.Reader) ([]estimate.RawRoomRecord, error) {
	cr := csv.NewReader(skipBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	columns, err := findHeader(cr)
	if err != nil {
		return nil, err
	}

	var out []estimate.RawRoomRecord
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("parse assessment csv: %w", err)
		}
		if isEmptyRow(row) {
			continue
		}
		if len(out) == estimate.MaxBatchRooms {
			return nil, fmt.Errorf("%w: more than %d data rows", estimate.ErrBatchTooLarge, estimate.MaxBatchRooms)
		}
		// FieldPos reports the physical source line, so row numbers in
		// error reports survive blank lines and multi-line quoted cells.
		line, _ := cr.FieldPos(0)
		out = append(out, recordFromRow(row, columns, line))
	}
}

// skipBOM drops a leading UTF-8 byte order mark, when present.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	lead, err := br.Peek(len(utf8BOM))
	if err == nil && bytes.Equal(lead, utf8BOM) {
		br.Discard(len(utf8BOM))
	}
	return br
}

// findHeader reads rows until it hits one carrying every required column
// and returns that row's index map. Matching is by name, not position, so
// exports may order and pad columns however they like.
func findHeader(cr *csv.Reader) (map[string]int, error) {
	for scanned := 0; scanned < maxHeaderSearchRows; scanned++ {
		row, err := cr.Read()
		if err == io.EOF {
			if scanned == 0 {
				return nil, fmt.Errorf("parse assessment csv: empty input")
			}
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse assessment csv: %w", err)
		}
		idx := makeHeaderIndex(row)
		found := true
		for _, col := range requiredColumns {
			if _, ok := idx[col]; !ok {
				found = false
				break
			}
		}
		if found {
			return idx, nil
		}
	}
	return nil, fmt.Errorf("parse assessment csv: no header row with columns %s in first %d rows",
		strings.Join(requiredColumns, ", "), maxHeaderSearchRows)
}

// makeHeaderIndex maps cleaned, lowercased column names to positions.
func makeHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(cleanCell(h))
		if key == "" {
			continue
		}
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

// cleanCell strips the artifacts spreadsheet tools leave in exported cells:
// surrounding whitespace, the Excel ="..." text-forcing formula, surrounding
// quotes, and invalid UTF-8 bytes.
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	}
	s = strings.Trim(s, `"'`)
	s = strings.ToValidUTF8(s, "�")
	return strings.TrimSpace(s)
}

// isEmptyRow reports whether every cell is blank.
func isEmptyRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// recordFromRow maps one data row to a raw record. Columns the header does
// not carry, and cells short rows do not reach, read as empty strings.
func recordFromRow(row []string, columns map[string]int, line int) estimate.RawRoomRecord {
	get := func(col string) string {
		pos, ok := columns[col]
		if !ok || pos >= len(row) {
			return ""
		}
		return cleanCell(row[pos])
	}

	return estimate.RawRoomRecord{
		Row:                line,
		ClaimID:            get("claim_id"),
		RoomID:             get("room_id"),
		RoomName:           get("room_name"),
		RoomSqFt:           get("room_sf"),
		LengthFt:           get("length_ft"),
		WidthFt:            get("width_ft"),
		CeilingHeightFt:    get("ceiling_height_ft"),
		WaterCategory:      get("water_category"),
		WaterClass:         get("water_class"),
		TemperatureF:       get("temperature_f"),
		RelativeHumidity:   get("relative_humidity"),
		FloorDamaged:       get("floor_damaged"),
		FloorMaterial:      get("floor_material"),
		FloorMoisture:      get("floor_moisture"),
		WallDamaged:        get("wall_damaged"),
		WallMaterial:       get("wall_material"),
		WallMoistureBottom: get("wall_moisture_bottom"),
		WallMoistureMiddle: get("wall_moisture_middle"),
		WallMoistureTop:    get("wall_moisture_top"),
		CeilingDamaged:     get("ceiling_damaged"),
		CeilingMaterial:    get("ceiling_material"),
		CeilingMoisture:    get("ceiling_moisture"),
		NeedsGenerator:     get("needs_generator"),
	}
}
