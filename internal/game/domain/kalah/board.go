// Package kalah implements the rules of Kalah(6, 3): the board layout,
// the sowing and capture mechanics, and terminal-score detection.
//
// All functions are pure. A game state is a small value; every
// transition returns a new value, so histories stay replayable and
// callers never share mutable boards.
package kalah

import (
	"fmt"
	"strings"

	apperrors "github.com/openkalah/server/internal/platform/errors"
)

// Board holds the seed count of all 14 pits.
//
//	       <--- North
//	------------------------
//	 12  11  10   9   8   7
//
//	 13                   6
//
//	  0   1   2   3   4   5
//	------------------------
//	        South --->
//
// Indices 0-5 are South's houses and 6 is South's store; indices 7-12
// are North's houses and 13 is North's store.
type Board [14]int

const (
	boardSize  = 14
	housesEach = 6
	seedsEach  = 3

	southStore = 6
	northStore = 13

	// TotalSeeds is invariant across a game: 12 houses x 3 seeds.
	TotalSeeds = 2 * housesEach * seedsEach
)

// Player identifies one side of the board.
type Player int

const (
	// PlayerUnspecified represents an invalid player value.
	PlayerUnspecified Player = iota
	// South owns houses 0-5 and store 6.
	South
	// North owns houses 7-12 and store 13.
	North
)

// GameState pairs the player to move next with the current board.
type GameState struct {
	Next  Player
	Board Board
}

// ErrInvalidPlayer indicates a player value outside South/North.
var ErrInvalidPlayer = apperrors.New(apperrors.CodeInternalInvariant, "player must be North or South")

// NewBoard returns a board in its starting state: three seeds in every
// house, both stores empty.
func NewBoard() Board {
	var b Board
	for h := 0; h < housesEach; h++ {
		b[h] = seedsEach
		b[northStore-housesEach+h] = seedsEach
	}
	return b
}

// NewGame returns a fresh game state with the given starting player.
func NewGame(northStarts bool) GameState {
	first := South
	if northStarts {
		first = North
	}
	return GameState{Next: first, Board: NewBoard()}
}

// Opponent returns the other player.
func (p Player) Opponent() Player {
	switch p {
	case South:
		return North
	case North:
		return South
	default:
		return PlayerUnspecified
	}
}

// Store returns the index of p's store.
func (p Player) Store() int {
	if p == North {
		return northStore
	}
	return southStore
}

// OwnsHouse reports whether house is one of p's six houses. Stores are
// never owned houses.
func (p Player) OwnsHouse(house int) bool {
	switch p {
	case South:
		return house >= 0 && house < southStore
	case North:
		return house > southStore && house < northStore
	default:
		return false
	}
}

// HouseRange returns the inclusive bounds of p's house indices.
func (p Player) HouseRange() (low, high int) {
	if p == North {
		return southStore + 1, northStore - 1
	}
	return 0, southStore - 1
}

// Label returns the single-letter label used in persisted state and
// player-facing messages.
func (p Player) Label() string {
	switch p {
	case South:
		return "S"
	case North:
		return "N"
	default:
		return ""
	}
}

// Name returns the side name used in player-facing messages.
func (p Player) Name() string {
	switch p {
	case South:
		return "South"
	case North:
		return "North"
	default:
		return "Unspecified"
	}
}

// PlayerFromLabel parses a persisted player label.
func PlayerFromLabel(value string) (Player, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "S", "SOUTH":
		return South, nil
	case "N", "NORTH":
		return North, nil
	default:
		return PlayerUnspecified, fmt.Errorf("unknown player label %q", value)
	}
}

// Mirror returns the house directly opposite h across the board, the
// target of captures. The mapping is a fixed involution of the twelve
// houses; stores have no mirror.
func Mirror(house int) int {
	return 2*housesEach - house
}

// Total returns the number of seeds on the board.
func (b Board) Total() int {
	sum := 0
	for _, seeds := range b {
		sum += seeds
	}
	return sum
}

// houseSum returns the seeds remaining in p's six houses.
func houseSum(b Board, p Player) int {
	low, high := p.HouseRange()
	sum := 0
	for h := low; h <= high; h++ {
		sum += b[h]
	}
	return sum
}
