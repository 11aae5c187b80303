package sim

import "fmt"

// Technique names a suppression algorithm.
type Technique string

const (
	// TechniqueSingleStep decides once per incoming sample (DLBDC).
	TechniqueSingleStep Technique = "dlbdc"
	// TechniqueMultiStep decides once per forecast horizon (DLDS).
	TechniqueMultiStep Technique = "dlds"
)

// ValidTechniques is the set of recognized technique names.
var ValidTechniques = map[Technique]bool{TechniqueSingleStep: true, TechniqueMultiStep: true}

// Simulate dispatches to the engine implementing t.
func Simulate(t Technique, stream []float64, p Predictor, cfg RunConfig) (*Metrics, error) {
	switch t {
	case TechniqueSingleStep:
		return SimulateSingleStep(stream, p, cfg)
	case TechniqueMultiStep:
		return SimulateMultiStep(stream, p, cfg)
	default:
		return nil, fmt.Errorf("%w: unknown technique %q", ErrConfiguration, t)
	}
}
