package instance

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// capacityLabel marks the capacity row of a CSV instance.
const capacityLabel = "capacity"

// ReadCSV parses a CSV cost table (see package doc).
//
// Complexity: O(I·J).
func ReadCSV(r io.Reader) (*Instance, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty CSV", ErrFormat)
		}

		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header needs at least one zone column", ErrFormat)
	}

	var (
		in      = &Instance{Zones: append([]string(nil), header[1:]...)}
		nJ      = len(header) - 1
		rec     []string
		line    int
		j       int
		haveCap bool
	)
	for line = 2; ; line++ {
		rec, err = cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFormat, err)
		}

		label := strings.TrimSpace(rec[0])
		if strings.EqualFold(label, capacityLabel) {
			if haveCap {
				return nil, fmt.Errorf("%w: line %d: duplicate capacity row", ErrFormat, line)
			}
			in.Capacity = make([]int, nJ)
			for j = 0; j < nJ; j++ {
				if in.Capacity[j], err = strconv.Atoi(strings.TrimSpace(rec[j+1])); err != nil {
					return nil, fmt.Errorf("%w: line %d: capacity %q: %w", ErrFormat, line, rec[j+1], err)
				}
			}
			haveCap = true

			continue
		}

		row := make([]float64, nJ)
		for j = 0; j < nJ; j++ {
			if row[j], err = strconv.ParseFloat(strings.TrimSpace(rec[j+1]), 64); err != nil {
				return nil, fmt.Errorf("%w: line %d: cost %q: %w", ErrFormat, line, rec[j+1], err)
			}
		}
		in.Resources = append(in.Resources, label)
		in.Cost = append(in.Cost, row)
	}
	if !haveCap {
		return nil, fmt.Errorf("%w: missing %q row", ErrFormat, capacityLabel)
	}

	return in, nil
}

// LoadCSV reads and parses a CSV file.
func LoadCSV(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	in, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	return in, nil
}
