package fleet

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// UnknownManufacturer labels facilities whose grouping attribute is empty.
const UnknownManufacturer = "unknown"

// GroupFunc maps a facility to the label of the group it belongs to.
type GroupFunc func(Facility) string

// Group is a labelled subset of facilities, in input order.
type Group struct {
	Label      string
	Facilities []Facility
}

// ManufacturerOf returns the first whitespace-separated word of the
// facility type, e.g. "Enercon" for "Enercon E-82 E2".
func ManufacturerOf(f Facility) string {
	fields := strings.Fields(f.Type)
	if len(fields) == 0 {
		return UnknownManufacturer
	}
	return fields[0]
}

// OperatorOf returns the facility operator, or "unknown" when it is empty.
func OperatorOf(f Facility) string {
	if op := strings.TrimSpace(f.Operator); op != "" {
		return op
	}
	return UnknownManufacturer
}

// ErrUnknownGrouping is returned for an unsupported grouping name.
var ErrUnknownGrouping = errors.New("unknown grouping")

// GroupFuncByName resolves "manufacturer", "operator" or "none". An empty
// name selects manufacturer grouping; "none" puts every facility in group "all".
func GroupFuncByName(name string) (GroupFunc, error) {
	switch strings.ToLower(name) {
	case "", "manufacturer":
		return ManufacturerOf, nil
	case "operator":
		return OperatorOf, nil
	case "none":
		return func(Facility) string { return "all" }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownGrouping, name)
	}
}

// GroupBy partitions facilities by label, keeping input order inside each group.
func GroupBy(facilities []Facility, fn GroupFunc) map[string][]Facility {
	groups := make(map[string][]Facility)
	for _, f := range facilities {
		label := fn(f)
		groups[label] = append(groups[label], f)
	}
	return groups
}

// RankGroups returns the groups ordered by member count descending.
// Equal counts are ordered by label so the ranking is deterministic.
func RankGroups(groups map[string][]Facility) []Group {
	ranked := make([]Group, 0, len(groups))
	for label, members := range groups {
		ranked = append(ranked, Group{Label: label, Facilities: members})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if len(ranked[i].Facilities) != len(ranked[j].Facilities) {
			return len(ranked[i].Facilities) > len(ranked[j].Facilities)
		}
		return ranked[i].Label < ranked[j].Label
	})
	return ranked
}
