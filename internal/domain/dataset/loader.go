package dataset

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Sentinel kinds for load failures.
var (
	ErrOpenDataset    = errors.New("open dataset failed")
	ErrMissingColumn  = errors.New("required column missing")
	ErrUnknownFormat  = errors.New("unknown dataset format")
	ErrEmptyDataset   = errors.New("dataset contains no rows")
	ErrMalformedInput = errors.New("malformed dataset input")
)

// defaultYear is assumed when an export carries no year or span column.
const defaultYear = 2024

// Column aliases across the CSV/JSON export variants in the wild.
// The first present alias wins.
var columnAliases = map[string][]string{
	"player": {"player", "batsman", "batter"},
	"team":   {"team"},
	"match":  {"match", "match_id", "matchid"},
	"year":   {"year", "season"},
	"span":   {"span⬇", "span"},
	"over":   {"over", "entry_over"},
	"runs":   {"runs"},
	"bf":     {"bf", "balls", "balls_faced"},
	"sr":     {"rr", "strike_rate", "sr", "final_strike_rate"},
	"dot":    {"dot%", "dot_pct", "dot"},
	"bnd":    {"bnd%", "bnd_pct", "boundary_pct", "bnd"},
	"out":    {"out", "dismissed", "wicket"},
	"rrr":    {"rrr", "required_run_rate"},
	"target": {"target"},
}

// Load reads a ball-by-ball export, dispatching on file extension.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadCSV reads a CSV export. Missing optional columns degrade their
// metrics to zero (recorded in Columns); a missing player or runs column
// is an error.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenDataset, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(records) < 2 {
		return nil, ErrEmptyDataset
	}

	header := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		header[normalizeColumn(name)] = i
	}

	cols, idx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	balls := make([]Ball, 0, len(records)-1)
	for _, rec := range records[1:] {
		get := func(col int) string {
			if col < 0 || col >= len(rec) {
				return ""
			}
			return rec[col]
		}
		balls = append(balls, buildBall(get, idx))
	}
	return New(balls, cols), nil
}

// LoadJSON reads a JSON export: an array of flat objects using the same
// column vocabulary as the CSV variant.
func LoadJSON(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrOpenDataset, err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}

	// Treat the union of keys as the header.
	header := make(map[string]int)
	keys := make([]string, 0)
	for _, row := range rows {
		for k := range row {
			nk := normalizeColumn(k)
			if _, seen := header[nk]; !seen {
				header[nk] = len(keys)
				keys = append(keys, k)
			}
		}
	}
	cols, idx, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	balls := make([]Ball, 0, len(rows))
	for _, row := range rows {
		get := func(col int) string {
			if col < 0 || col >= len(keys) {
				return ""
			}
			return stringify(row[keys[col]])
		}
		balls = append(balls, buildBall(get, idx))
	}
	return New(balls, cols), nil
}

// columnIndexes maps canonical column keys to a header index, -1 if absent.
type columnIndexes map[string]int

func resolveColumns(header map[string]int) (Columns, columnIndexes, error) {
	idx := make(columnIndexes, len(columnAliases))
	for key, aliases := range columnAliases {
		idx[key] = -1
		for _, a := range aliases {
			if i, ok := header[a]; ok {
				idx[key] = i
				break
			}
		}
	}
	if idx["player"] < 0 {
		return Columns{}, nil, fmt.Errorf("%w: player", ErrMissingColumn)
	}
	if idx["runs"] < 0 {
		return Columns{}, nil, fmt.Errorf("%w: runs", ErrMissingColumn)
	}
	cols := Columns{
		StrikeRate:      idx["sr"] >= 0,
		DotPct:          idx["dot"] >= 0,
		BoundaryPct:     idx["bnd"] >= 0,
		Dismissal:       idx["out"] >= 0,
		RequiredRunRate: idx["rrr"] >= 0,
		Target:          idx["target"] >= 0,
	}
	return cols, idx, nil
}

func buildBall(get func(int) string, idx columnIndexes) Ball {
	b := Ball{
		Match:           get(idx["match"]),
		Player:          strings.TrimSpace(get(idx["player"])),
		Team:            strings.TrimSpace(get(idx["team"])),
		Over:            int(coerceFloat(get(idx["over"]))),
		Runs:            coerceFloat(get(idx["runs"])),
		BallsFaced:      coerceFloat(get(idx["bf"])),
		StrikeRate:      coerceFloat(get(idx["sr"])),
		DotPct:          coerceFloat(get(idx["dot"])),
		BoundaryPct:     coerceFloat(get(idx["bnd"])),
		Dismissed:       coerceBool(get(idx["out"])),
		RequiredRunRate: coerceFloat(get(idx["rrr"])),
		Target:          coerceFloat(get(idx["target"])),
	}
	b.Year = coerceYear(get(idx["year"]), get(idx["span"]))
	return b
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// coerceFloat parses a numeric cell, yielding 0 on blanks or junk, the
// same tolerance the source exports require.
func coerceFloat(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	if s == "" || s == "-" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

func coerceBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "out":
		return true
	default:
		return false
	}
}

// coerceYear prefers an explicit year column, then the first year of a
// span value like "2022-2026", then the default.
func coerceYear(year, span string) int {
	if y := int(coerceFloat(year)); y > 0 {
		return y
	}
	if span != "" {
		first, _, _ := strings.Cut(strings.TrimSpace(span), "-")
		if y := int(coerceFloat(first)); y > 0 {
			return y
		}
	}
	return defaultYear
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprintf("%v", t)
	}
}
