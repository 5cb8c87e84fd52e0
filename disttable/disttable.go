// Copyright (c) 2026 Andrey Kriulin
// Licensed under the MIT License.
// See the LICENSE file in the project root for full license text.

// Package disttable reads the CSV distance tables that feed the
// reconstruction and writes solved coordinates back out as CSV.
//
// A table row lists one point followed by its measurements:
//
//	point id, ref id 1, dist 1, ref id 2, dist 2, ...
//
// An empty cell ends the row's measurement list, so tables exported from
// spreadsheets with trailing padding parse cleanly. A row with only a
// point id declares the point without measuring it.

package disttable

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/2dChan/pointmap"
)

// ReadMeasurements parses a distance table. It returns the declared
// point identifiers in file order and the measurements.
func ReadMeasurements(r io.Reader) (ids []int, measurements []pointmap.Measurement, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("disttable: row %d: %w", row, err)
		}
		if len(record) == 0 || record[0] == "" {
			continue
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, nil, fmt.Errorf("disttable: row %d: point id %q: %w", row, record[0], err)
		}
		ids = append(ids, id)

		for i := 1; i+1 < len(record); i += 2 {
			if record[i] == "" {
				break
			}
			ref, err := strconv.Atoi(record[i])
			if err != nil {
				return nil, nil, fmt.Errorf("disttable: row %d: ref id %q: %w", row, record[i], err)
			}
			dist, err := strconv.ParseFloat(record[i+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("disttable: row %d: distance %q: %w", row, record[i+1], err)
			}
			measurements = append(measurements, pointmap.Measurement{P: id, Q: ref, Dist: dist})
		}
	}

	return ids, measurements, nil
}

// WritePointsCSV writes one "id,x,y" row per point, in the given order.
func WritePointsCSV(w io.Writer, points []pointmap.Point) error {
	cw := csv.NewWriter(w)
	for _, p := range points {
		record := []string{
			strconv.Itoa(p.ID),
			strconv.FormatFloat(p.Pos.X, 'g', -1, 64),
			strconv.FormatFloat(p.Pos.Y, 'g', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("disttable: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("disttable: %w", err)
	}
	return nil
}
