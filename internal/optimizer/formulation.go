package optimizer

import "fmt"

// Formulation selects which LP variant a day model builds. The two variants
// share one code path; the tag only switches the terms that differ.
type Formulation int

const (
	// CapacityAware is the canonical variant: regulation capacity offers are
	// explicit decision variables, linked to deployed quantities through the
	// deployment rate, and paid in the objective alongside deployment.
	CapacityAware Formulation = iota
	// DeployedOnly is the reduced variant with no capacity variables; the
	// deployment rate is folded directly into the state-of-charge recursion.
	DeployedOnly
)

func (f Formulation) String() string {
	switch f {
	case CapacityAware:
		return "capacity_aware"
	case DeployedOnly:
		return "deployed_only"
	}
	return fmt.Sprintf("Formulation(%d)", int(f))
}

// ParseFormulation maps a config string to a Formulation tag.
func ParseFormulation(s string) (Formulation, error) {
	switch s {
	case "", "capacity_aware":
		return CapacityAware, nil
	case "deployed_only":
		return DeployedOnly, nil
	}
	return 0, fmt.Errorf("unknown formulation %q", s)
}
