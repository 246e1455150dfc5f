// Package instanceio loads problem instances from and writes solutions to
// JSON files: the external parser named (but left out of scope) by spec.md
// §6 ("input is a JSON instance file, format owned by the external parser"),
// implemented here so cmd/glsstrip is runnable end to end.
package instanceio

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// Instance is the parsed, ready-to-optimize form of a JSON instance file.
type Instance struct {
	Name            string
	Items           []problem.Item
	ContainerHeight float64
}

type jsonInstance struct {
	Name            string     `json:"name"`
	ContainerHeight float64    `json:"container_height"`
	Items           []jsonItem `json:"items"`
}

type jsonItem struct {
	ID              int          `json:"id"`
	Demand          int          `json:"demand"`
	Polygon         [][2]float64 `json:"polygon"`
	AllowedRotation jsonRotation `json:"allowed_rotation"`
	MaxPoles        int          `json:"max_poles,omitempty"`
	PoleCoverage    float64      `json:"pole_coverage,omitempty"`
}

type jsonRotation struct {
	Continuous      bool      `json:"continuous"`
	DiscreteDegrees []float64 `json:"discrete_degrees,omitempty"`
}

const (
	defaultMaxPoles     = 8
	defaultPoleCoverage = 0.9
)

// Load reads and parses a JSON instance file at path.
func Load(path string) (Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Instance{}, fmt.Errorf("instanceio: read %s: %w", path, err)
	}

	var raw jsonInstance
	if err := json.Unmarshal(data, &raw); err != nil {
		return Instance{}, fmt.Errorf("instanceio: parse %s: %w", path, err)
	}
	if raw.ContainerHeight <= 0 {
		return Instance{}, fmt.Errorf("instanceio: %s: container_height must be positive", path)
	}
	if len(raw.Items) == 0 {
		return Instance{}, fmt.Errorf("instanceio: %s: no items", path)
	}

	items := make([]problem.Item, 0, len(raw.Items))
	for _, it := range raw.Items {
		item, err := toItem(it)
		if err != nil {
			return Instance{}, fmt.Errorf("instanceio: %s: %w", path, err)
		}
		items = append(items, item)
	}

	return Instance{Name: raw.Name, Items: items, ContainerHeight: raw.ContainerHeight}, nil
}

func toItem(it jsonItem) (problem.Item, error) {
	if len(it.Polygon) < 3 {
		return problem.Item{}, fmt.Errorf("item %d: polygon needs at least 3 points", it.ID)
	}
	if it.Demand <= 0 {
		return problem.Item{}, fmt.Errorf("item %d: demand must be positive", it.ID)
	}

	points := make([]geo.Point, len(it.Polygon))
	for i, p := range it.Polygon {
		points[i] = geo.Point{X: p[0], Y: p[1]}
	}

	maxPoles := it.MaxPoles
	if maxPoles <= 0 {
		maxPoles = defaultMaxPoles
	}
	coverage := it.PoleCoverage
	if coverage <= 0 {
		coverage = defaultPoleCoverage
	}

	return problem.NewItem(
		problem.ItemID(it.ID),
		geo.NewPolygon(points),
		toRotationRange(it.AllowedRotation),
		it.Demand,
		maxPoles,
		coverage,
	), nil
}

func toRotationRange(r jsonRotation) geo.RotationRange {
	if r.Continuous {
		return geo.RotationRange{Continuous: true}
	}
	discrete := r.DiscreteDegrees
	if len(discrete) == 0 {
		discrete = []float64{0}
	}
	radians := make([]float64, len(discrete))
	for i, d := range discrete {
		radians[i] = d * math.Pi / 180
	}
	return geo.RotationRange{Discrete: radians}
}
