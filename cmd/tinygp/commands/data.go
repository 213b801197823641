package commands

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
)

func parseRow(record []string) ([]float64, error) {
	row := make([]float64, len(record))
	for i, field := range record {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, err
		}
		row[i] = v
	}
	return row, nil
}

// readRows loads a numeric CSV file. A single header line is allowed
// and skipped when its first field does not parse as a number.
func readRows(path string) ([][]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening data file")
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading data file")
	}
	if len(records) == 0 {
		return nil, errors.Errorf("%s is empty", path)
	}
	if _, err := strconv.ParseFloat(records[0][0], 64); err != nil {
		records = records[1:]
	}

	rows := make([][]float64, 0, len(records))
	for i, record := range records {
		row, err := parseRow(record)
		if err != nil {
			return nil, errors.Wrapf(err, "%s line %d", path, i+1)
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("%s has no data rows", path)
	}
	return rows, nil
}

// loadTraining splits CSV rows into coordinates and targets: the last
// column is the observed value, everything before it a coordinate.
func loadTraining(path string) (x [][]float64, y []float64, err error) {
	rows, err := readRows(path)
	if err != nil {
		return nil, nil, err
	}
	x = make([][]float64, len(rows))
	y = make([]float64, len(rows))
	for i, row := range rows {
		if len(row) < 2 {
			return nil, nil, errors.Errorf("%s line %d: need at least one coordinate and a target", path, i+1)
		}
		x[i] = row[:len(row)-1]
		y[i] = row[len(row)-1]
	}
	return x, y, nil
}
