package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/jmorgan/upkeep/internal/model"
)

// ReadCSV parses catalog rows from a CSV stream with a header row of:
// code,name,category,frequency,instructions,freeze,hurricane,wildfire,
// hard_water,sprinklers,service,diy. Subtypes are classified here, at
// import time.
func ReadCSV(r io.Reader) ([]model.TaskDefinition, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"code", "name", "category"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	flag := func(record []string, name string) bool {
		v := strings.ToLower(field(record, name))
		return v == "1" || v == "true" || v == "yes"
	}

	var tasks []model.TaskDefinition
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line, err)
		}

		code := field(record, "code")
		if code == "" {
			return nil, fmt.Errorf("row %d: empty code", line)
		}

		tasks = append(tasks, model.TaskDefinition{
			Code:               code,
			Name:               field(record, "name"),
			Category:           normalizeCategory(field(record, "category")),
			Subtype:            Classify(code),
			Frequency:          field(record, "frequency"),
			Instructions:       field(record, "instructions"),
			RequiresFreeze:     flag(record, "freeze"),
			RequiresHurricane:  flag(record, "hurricane"),
			RequiresWildfire:   flag(record, "wildfire"),
			RequiresHardWater:  flag(record, "hard_water"),
			RequiresSprinklers: flag(record, "sprinklers"),
			ServiceRecommended: flag(record, "service"),
			DIYAllowed:         flag(record, "diy"),
		})
	}
	return tasks, nil
}

func normalizeCategory(s string) model.Category {
	switch model.Category(strings.ToLower(s)) {
	case model.CategoryHVAC:
		return model.CategoryHVAC
	case model.CategoryPlumbing:
		return model.CategoryPlumbing
	case model.CategoryExterior:
		return model.CategoryExterior
	case model.CategorySeasonal:
		return model.CategorySeasonal
	case model.CategoryAppliance:
		return model.CategoryAppliance
	case model.CategorySafety:
		return model.CategorySafety
	default:
		return model.CategoryOther
	}
}
