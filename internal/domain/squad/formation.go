package squad

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matchdayhq/squad-engine/internal/domain/player"
)

var ErrUnsupportedFormation = errors.New("unsupported formation")

const (
	startingLineupSize = 11
	benchSize          = 4
)

// Formation is the per-position starter count tuple, encoded as the usual
// "DEF-MID-FWD" string. Exactly one goalkeeper is always implied.
type Formation string

const (
	Formation442 Formation = "4-4-2"
	Formation433 Formation = "4-3-3"
	Formation343 Formation = "3-4-3"
	Formation352 Formation = "3-5-2"
	Formation451 Formation = "4-5-1"
	Formation541 Formation = "5-4-1"
	Formation532 Formation = "5-3-2"
)

const DefaultFormation = Formation442

// Shape is the fixed per-position starter count record for one formation.
type Shape struct {
	Goalkeepers int
	Defenders   int
	Midfielders int
	Forwards    int
}

func (s Shape) Need(pos player.Position) int {
	switch pos {
	case player.PositionGoalkeeper:
		return s.Goalkeepers
	case player.PositionDefender:
		return s.Defenders
	case player.PositionMidfielder:
		return s.Midfielders
	case player.PositionForward:
		return s.Forwards
	default:
		return 0
	}
}

func (s Shape) total() int {
	return s.Goalkeepers + s.Defenders + s.Midfielders + s.Forwards
}

var shapeByFormation = map[Formation]Shape{
	Formation442: {Goalkeepers: 1, Defenders: 4, Midfielders: 4, Forwards: 2},
	Formation433: {Goalkeepers: 1, Defenders: 4, Midfielders: 3, Forwards: 3},
	Formation343: {Goalkeepers: 1, Defenders: 3, Midfielders: 4, Forwards: 3},
	Formation352: {Goalkeepers: 1, Defenders: 3, Midfielders: 5, Forwards: 2},
	Formation451: {Goalkeepers: 1, Defenders: 4, Midfielders: 5, Forwards: 1},
	Formation541: {Goalkeepers: 1, Defenders: 5, Midfielders: 4, Forwards: 1},
	Formation532: {Goalkeepers: 1, Defenders: 5, Midfielders: 3, Forwards: 2},
}

func init() {
	for formation, shape := range shapeByFormation {
		if shape.Goalkeepers != 1 || shape.total() != startingLineupSize {
			panic(fmt.Sprintf("formation table corrupt: %s", formation))
		}
	}
}

// SupportedFormations lists the formation tuples in display order.
func SupportedFormations() []Formation {
	return []Formation{
		Formation442, Formation433, Formation343, Formation352,
		Formation451, Formation541, Formation532,
	}
}

// ParseFormation validates a wire-format formation string.
func ParseFormation(raw string) (Formation, error) {
	candidate := Formation(strings.TrimSpace(raw))
	if _, ok := shapeByFormation[candidate]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormation, raw)
	}
	return candidate, nil
}

// Shape returns the starter counts for the formation. Unknown formations
// map to the zero shape; callers are expected to parse first.
func (f Formation) Shape() Shape {
	return shapeByFormation[f]
}

// FormationForShape finds the supported formation matching the given
// starter counts, if any.
func FormationForShape(shape Shape) (Formation, bool) {
	for _, formation := range SupportedFormations() {
		if shapeByFormation[formation] == shape {
			return formation, true
		}
	}
	return "", false
}
