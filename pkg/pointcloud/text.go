package pointcloud

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/philipparndt/goellipsoid/pkg/geometry"
)

// ReadText reads one point per line. Coordinates are separated by
// whitespace, commas or semicolons; columns after the third are ignored.
// Blank lines and lines starting with '#' are skipped, as are header lines
// before the first point whose first field is not a number.
func ReadText(r io.Reader) ([]geometry.Vector3, error) {
	scanner := bufio.NewScanner(r)
	var points []geometry.Vector3

	for lineNo := 1; scanner.Scan(); lineNo++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})

		if len(points) == 0 && len(fields) > 0 && !isNumber(fields[0]) {
			continue // header
		}
		if len(fields) < 3 {
			return nil, fmt.Errorf("line %d: expected 3 coordinates, got %d", lineNo, len(fields))
		}

		var c [3]float64
		for i := range c {
			value, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid coordinate %q: %w", lineNo, fields[i], err)
			}
			c[i] = value
		}
		points = append(points, geometry.FromArray(c))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading points: %w", err)
	}

	return points, nil
}

func isNumber(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
