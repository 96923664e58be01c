package taxonomy

import (
	"fmt"
	"strings"

	"github.com/cellular-semantics/braincellkg/errors"
)

// Tier is a labelset generality tier. Lower values are more general:
// neighborhood > class > subclass > supertype > cluster.
type Tier int

const (
	TierNeighborhood Tier = iota
	TierClass
	TierSubclass
	TierSupertype
	TierCluster
)

var tierNames = map[Tier]string{
	TierNeighborhood: "neighborhood",
	TierClass:        "class",
	TierSubclass:     "subclass",
	TierSupertype:    "supertype",
	TierCluster:      "cluster",
}

// String returns the labelset name of the tier.
func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "unknown"
}

// MoreGeneralThan reports whether t is a strictly more general tier than
// other.
func (t Tier) MoreGeneralThan(other Tier) bool {
	return t < other
}

// ParseTier returns the tier named by s.
func ParseTier(s string) (Tier, error) {
	for tier, name := range tierNames {
		if strings.EqualFold(s, name) {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", errors.ErrUnknownTier, s)
}

// TierFromLabels extracts the generality tier from a node's raw graph labels
// (which also carry the taxonomy name and the Cell_cluster marker).
func TierFromLabels(labels []string) (Tier, error) {
	for _, label := range labels {
		if tier, err := ParseTier(label); err == nil {
			return tier, nil
		}
	}
	return 0, fmt.Errorf("%w: no tier among %v", errors.ErrUnknownTier, labels)
}
