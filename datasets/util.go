package datasets

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Noofbiz/tugraphs/errkind"
)

// readRows reads a comma separated TU text file into trimmed string fields.
// A missing optional file yields (nil, false, nil).
func readRows(path string, optional bool) ([][]string, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, errkind.IO(err, "open %s", path)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = false

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, false, errkind.Formatf("read %s: %v", path, err)
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
	return rows, true, nil
}

// readIntRows parses every field of a TU file as an integer.
func readIntRows(path string, optional bool) ([][]int, bool, error) {
	rows, ok, err := readRows(path, optional)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make([][]int, len(rows))
	for i, r := range rows {
		out[i] = make([]int, len(r))
		for j, field := range r {
			v, err := strconv.Atoi(field)
			if err != nil {
				// some archives store integral labels as floats
				f, ferr := strconv.ParseFloat(field, 64)
				if ferr != nil {
					return nil, true, errkind.Formatf("%s line %d: %v", path, i+1, err)
				}
				if f != math.Trunc(f) || math.IsInf(f, 0) {
					return nil, true, errkind.Formatf("%s line %d: %q is not an integer", path, i+1, field)
				}
				v = int(f)
			}
			out[i][j] = v
		}
	}
	return out, true, nil
}

// readFloatRows parses every field of a TU file as a float32.
func readFloatRows(path string, optional bool) ([][]float32, bool, error) {
	rows, ok, err := readRows(path, optional)
	if err != nil || !ok {
		return nil, ok, err
	}
	out := make([][]float32, len(rows))
	for i, r := range rows {
		out[i] = make([]float32, len(r))
		for j, field := range r {
			v, err := parseFloat32(field)
			if err != nil {
				return nil, true, errkind.Formatf("%s line %d: %v", path, i+1, err)
			}
			out[i][j] = v
		}
	}
	return out, true, nil
}

func parseFloat32(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errkind.Formatf("empty field")
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
