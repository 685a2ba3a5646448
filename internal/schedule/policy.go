package schedule

import (
	"errors"
	"fmt"
)

// ErrUnknownPolicy is returned when parsing an unrecognized selection or
// placement name.
var ErrUnknownPolicy = errors.New("unknown policy")

// Selection decides which ready task is scheduled next. Policies are
// plain enumerated values injected into the Engine; the ready-set loop
// itself is shared across all of them.
type Selection int

const (
	// SelectLongestFirst picks the ready task with the greatest
	// duration, breaking ties by identifier order.
	SelectLongestFirst Selection = iota

	// SelectCriticalPathFirst picks the ready task with the smallest
	// slack, breaking ties by greatest duration, then identifier order.
	SelectCriticalPathFirst
)

// String returns the canonical name used in config files and flags.
func (s Selection) String() string {
	switch s {
	case SelectLongestFirst:
		return "longest"
	case SelectCriticalPathFirst:
		return "critical"
	default:
		return fmt.Sprintf("selection(%d)", int(s))
	}
}

// ParseSelection maps a config/flag value to a Selection.
func ParseSelection(name string) (Selection, error) {
	switch name {
	case "longest", "longest-first":
		return SelectLongestFirst, nil
	case "critical", "critical-path", "min-slack":
		return SelectCriticalPathFirst, nil
	default:
		return 0, fmt.Errorf("%w: selection %q", ErrUnknownPolicy, name)
	}
}

// Placement decides which resource a selected task lands on.
type Placement int

const (
	// PlaceEarliestFinish assigns the task to the resource yielding the
	// smallest finish time, breaking ties by lowest resource ID.
	PlaceEarliestFinish Placement = iota

	// PlaceLatestFinish prefers, among resources able to start the task
	// at its dependency-ready time, the one whose committed timeline
	// ends latest. This keeps idle gaps on lightly loaded resources
	// intact; it reduces fragmentation heuristically and claims no
	// optimality. When no resource is free at the ready time it falls
	// back to the earliest available one.
	PlaceLatestFinish
)

// String returns the canonical name used in config files and flags.
func (p Placement) String() string {
	switch p {
	case PlaceEarliestFinish:
		return "earliest"
	case PlaceLatestFinish:
		return "latest"
	default:
		return fmt.Sprintf("placement(%d)", int(p))
	}
}

// ParsePlacement maps a config/flag value to a Placement.
func ParsePlacement(name string) (Placement, error) {
	switch name {
	case "earliest", "earliest-finish", "eft":
		return PlaceEarliestFinish, nil
	case "latest", "latest-finish":
		return PlaceLatestFinish, nil
	default:
		return 0, fmt.Errorf("%w: placement %q", ErrUnknownPolicy, name)
	}
}

// Policy bundles the task selection heuristic with the resource
// placement rule.
type Policy struct {
	Selection Selection
	Placement Placement
}

// DefaultPolicy schedules longest tasks first onto the earliest
// finishing resource.
func DefaultPolicy() Policy {
	return Policy{Selection: SelectLongestFirst, Placement: PlaceEarliestFinish}
}

// String renders the policy as "selection/placement".
func (p Policy) String() string {
	return p.Selection.String() + "/" + p.Placement.String()
}
