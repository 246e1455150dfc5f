package instanceio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rbscholtus/glsstrip/internal/geo"
	"github.com/rbscholtus/glsstrip/internal/problem"
)

// jsonSolution is the on-disk form of a problem.Solution: placement keys are
// not persisted, since a loaded solution is always re-keyed with fresh PKs
// when restored into a Problem (spec.md §6: the CLI's optional "warm-start
// solution path" argument).
type jsonSolution struct {
	Width      float64         `json:"width"`
	Placements []jsonPlacement `json:"placements"`
}

type jsonPlacement struct {
	ItemID int     `json:"item_id"`
	Tx     float64 `json:"tx"`
	Ty     float64 `json:"ty"`
	Theta  float64 `json:"theta"`
}

// SaveSolution writes sol to path as JSON.
func SaveSolution(path string, sol problem.Solution) error {
	raw := jsonSolution{Width: sol.Width, Placements: make([]jsonPlacement, len(sol.Placements))}
	for i, p := range sol.Placements {
		raw.Placements[i] = jsonPlacement{
			ItemID: int(p.ItemID),
			Tx:     p.Transform.Tx,
			Ty:     p.Transform.Ty,
			Theta:  p.Transform.Theta,
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("instanceio: marshal solution: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("instanceio: write %s: %w", path, err)
	}
	return nil
}

// LoadSolution reads a warm-start solution from path, minting a fresh PK for
// each placement.
func LoadSolution(path string) (problem.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return problem.Solution{}, fmt.Errorf("instanceio: read %s: %w", path, err)
	}

	var raw jsonSolution
	if err := json.Unmarshal(data, &raw); err != nil {
		return problem.Solution{}, fmt.Errorf("instanceio: parse %s: %w", path, err)
	}

	placements := make([]problem.PlacementSnapshot, len(raw.Placements))
	for i, p := range raw.Placements {
		placements[i] = problem.PlacementSnapshot{
			PK:        problem.NewPK(),
			ItemID:    problem.ItemID(p.ItemID),
			Transform: geo.Transformation{Tx: p.Tx, Ty: p.Ty, Theta: p.Theta},
		}
	}

	return problem.Solution{Width: raw.Width, Placements: placements}, nil
}
