package pcio

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/pointfold/spatial/cloud"
	"github.com/pointfold/spatial/geom"
)

// LoadXYZ reads "x y z" positions, one per line. delim separates the
// coordinates; an empty delim splits on any whitespace. Blank lines are
// skipped, extra columns beyond z are ignored (so .csv exports work too).
func LoadXYZ(r io.Reader, delim string) (*cloud.PointCloud3D, error) {
	pc := cloud.New()

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		var words []string
		if delim == "" {
			words = strings.Fields(line)
		} else {
			words = strings.Split(line, delim)
		}
		if len(words) < 3 {
			return nil, errors.New("line has fewer than 3 coordinates").
				WithType(ErrTypeInvalidData).
				WithTag("line", lineNo)
		}

		var coords [3]float64
		for i := 0; i < 3; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(words[i]), 64)
			if err != nil {
				return nil, errors.New("parsing coordinate failed").
					WithType(ErrTypeInvalidData).
					WithTag("line", lineNo).
					Wrap(err)
			}
			coords[i] = v
		}
		pc.Push(geom.Point3D{X: coords[0], Y: coords[1], Z: coords[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, errors.New("reading xyz data failed").Wrap(err)
	}
	return pc, nil
}

// SaveXYZ writes one position per line. delimCoord separates coordinates,
// delimPos separates positions (usually "\n").
func SaveXYZ(w io.Writer, pc *cloud.PointCloud3D, delimCoord, delimPos string) error {
	bw := bufio.NewWriter(w)
	for _, p := range pc.Points {
		if _, err := bw.WriteString(
			strconv.FormatFloat(p.X, 'g', -1, 64) + delimCoord +
				strconv.FormatFloat(p.Y, 'g', -1, 64) + delimCoord +
				strconv.FormatFloat(p.Z, 'g', -1, 64) + delimPos,
		); err != nil {
			return errors.New("writing xyz data failed").Wrap(err)
		}
	}
	return bw.Flush()
}
