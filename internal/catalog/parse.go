package catalog

import (
	"encoding/csv"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// Exercise CSV columns, after a header row.
const (
	colCategory = iota
	colName
	colBodyArea
	colTarget
	colSecondary1
	colSecondary2
	colEquipment
	exerciseColumns
)

// ParseExerciseCSV reads `category,name,body_area,target,secondary1,secondary2,equipment` rows.
// The first row is a header. Rows are returned unvalidated.
func ParseExerciseCSV(r io.Reader) ([]domain.Exercise, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read exercise csv header: %w", err)
	}

	var out []domain.Exercise
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read exercise csv line %d: %w", line, err)
		}
		if len(rec) < exerciseColumns {
			return nil, fmt.Errorf("exercise csv line %d: want %d columns, got %d", line, exerciseColumns, len(rec))
		}
		out = append(out, domain.Exercise{
			Name:             strings.TrimSpace(rec[colName]),
			Category:         domain.ExerciseCategory(strings.TrimSpace(rec[colCategory])),
			BodyArea:         strings.TrimSpace(rec[colBodyArea]),
			TargetMuscle:     strings.TrimSpace(rec[colTarget]),
			SecondaryMuscle1: strings.TrimSpace(rec[colSecondary1]),
			SecondaryMuscle2: strings.TrimSpace(rec[colSecondary2]),
			EquipmentNeeded:  parseYesNo(rec[colEquipment]),
		})
	}
	return out, nil
}

func parseYesNo(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}

type foodRow struct {
	Name           string      `json:"name"`
	SampleSize     float64     `json:"sample_size"`
	SampleUnits    string      `json:"sample_units"`
	SampleCalories float64     `json:"sample_calories"`
	SampleMacros   interface{} `json:"sample_macros"`
}

// ParseFoodJSON reads a JSON array of food rows.
func ParseFoodJSON(r io.Reader) ([]domain.Consumable, error) {
	var rows []foodRow
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode food json: %w", err)
	}

	out := make([]domain.Consumable, 0, len(rows))
	for _, f := range rows {
		units := f.SampleUnits
		if units == "" {
			units = domain.DefaultSampleUnits
		}
		out = append(out, domain.Consumable{
			Name:           strings.TrimSpace(f.Name),
			SampleSize:     f.SampleSize,
			SampleUnits:    units,
			SampleCalories: int(f.SampleCalories),
			SampleMacros:   f.SampleMacros,
		})
	}
	return out, nil
}
