package usecases

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/AltDigitalOfficial/GrazeTrack-sub000/internal/core/domain"
)

// ErrNoTagColumn is returned when an import file has no tag column.
var ErrNoTagColumn = errors.New("csv has no tag column")

// ParseAnimalsCSV reads an animal roster from CSV. The header row names
// the columns; only tag is required. Recognised columns: tag, species,
// breed, sex, birth_date (YYYY-MM-DD), weight_kg, herd_id, status,
// notes. Rows with an empty tag are skipped.
func ParseAnimalsCSV(r io.Reader) ([]domain.Animal, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	if _, ok := cols["tag"]; !ok {
		return nil, ErrNoTagColumn
	}

	var animals []domain.Animal
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		tag := getField(record, cols, "tag")
		if tag == "" {
			continue
		}

		a := domain.Animal{
			Tag:     tag,
			Species: getField(record, cols, "species"),
			Breed:   getField(record, cols, "breed"),
			Sex:     getField(record, cols, "sex"),
			Status:  getField(record, cols, "status"),
			Notes:   getField(record, cols, "notes"),
		}
		if herdID := getField(record, cols, "herd_id"); herdID != "" {
			a.HerdID = &herdID
		}
		if born := getField(record, cols, "birth_date"); born != "" {
			if t, err := time.Parse("2006-01-02", born); err == nil {
				a.BirthDate = &t
			}
		}
		if kg := getField(record, cols, "weight_kg"); kg != "" {
			if w, err := strconv.ParseFloat(kg, 64); err == nil {
				a.WeightKg = &w
			}
		}
		animals = append(animals, a)
	}
	return animals, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(strings.ToLower(col))] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
