package kalah

// FinalScores detects game end and computes terminal scores.
//
// The game ends the instant either side's six houses are all empty.
// Remaining seeds in the other side's houses are swept into their
// owner's store, so the returned board still totals TotalSeeds and the
// scores are simply the two store counts. over is false, with b and
// zero scores returned untouched, while both sides still hold seeds.
func FinalScores(b Board) (swept Board, south, north int, over bool) {
	if houseSum(b, South) != 0 && houseSum(b, North) != 0 {
		return b, 0, 0, false
	}

	for _, p := range []Player{South, North} {
		low, high := p.HouseRange()
		for h := low; h <= high; h++ {
			b[p.Store()] += b[h]
			b[h] = 0
		}
	}
	return b, b[southStore], b[northStore], true
}

// Winner classifies terminal scores: the player with the higher score,
// or PlayerUnspecified for a draw.
func Winner(south, north int) Player {
	switch {
	case north > south:
		return North
	case south > north:
		return South
	default:
		return PlayerUnspecified
	}
}
