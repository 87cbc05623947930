package activity

import (
	"fmt"

	"github.com/turtacn/SimilACTrail/pkg/errors"
)

// Quadrant is the class of a compound pair on the similarity/activity map.
type Quadrant int

const (
	QuadrantActivityCliffs Quadrant = iota + 1
	QuadrantScaffoldHops
	QuadrantSmoothSAR
	QuadrantNonDescript
)

var quadrantLabels = map[Quadrant]string{
	QuadrantActivityCliffs: "Activity Cliffs",
	QuadrantScaffoldHops:   "Scaffold Hops",
	QuadrantSmoothSAR:      "Smooth SAR Zones",
	QuadrantNonDescript:    "Non-descript Zones",
}

// Quadrants returns every quadrant in display order.
func Quadrants() []Quadrant {
	return []Quadrant{QuadrantActivityCliffs, QuadrantScaffoldHops, QuadrantSmoothSAR, QuadrantNonDescript}
}

func (q Quadrant) String() string {
	if s, ok := quadrantLabels[q]; ok {
		return s
	}
	return fmt.Sprintf("Quadrant(%d)", int(q))
}

func (q Quadrant) IsValid() bool {
	_, ok := quadrantLabels[q]
	return ok
}

func (q Quadrant) MarshalText() ([]byte, error) {
	if !q.IsValid() {
		return nil, errors.Newf(errors.CodeInvalidParam, "invalid quadrant %d", int(q))
	}
	return []byte(q.String()), nil
}

func (q *Quadrant) UnmarshalText(b []byte) error {
	parsed, err := ParseQuadrant(string(b))
	if err != nil {
		return err
	}
	*q = parsed
	return nil
}

// ParseQuadrant maps a display label back to its Quadrant.
func ParseQuadrant(label string) (Quadrant, error) {
	for q, s := range quadrantLabels {
		if s == label {
			return q, nil
		}
	}
	return 0, errors.New(errors.CodeInvalidParam, "unknown quadrant label: "+label)
}

// Classify assigns a pair to a quadrant.  Values equal to a threshold count
// as meeting it.
func Classify(similarity, activityDifference, similarityThreshold, activityDifferenceThreshold float64) Quadrant {
	similar := similarity >= similarityThreshold
	divergent := activityDifference >= activityDifferenceThreshold
	switch {
	case similar && divergent:
		return QuadrantActivityCliffs
	case !similar && !divergent:
		return QuadrantScaffoldHops
	case similar && !divergent:
		return QuadrantSmoothSAR
	default:
		return QuadrantNonDescript
	}
}

//Personal.AI order the ending
