package kalah

import "testing"

func TestFinalScoresOngoing(t *testing.T) {
	b := NewBoard()
	swept, south, north, over := FinalScores(b)
	if over {
		t.Fatal("fresh board must not be terminal")
	}
	if swept != b || south != 0 || north != 0 {
		t.Fatal("ongoing games must return the board untouched")
	}
}

func TestFinalScoresSweepWhenNorthEmpties(t *testing.T) {
	// North's houses are empty; South still holds seeds that must be
	// swept into South's store.
	var b Board
	b[0] = 2
	b[4] = 3
	b[6] = 10
	b[13] = TotalSeeds - 15

	swept, south, north, over := FinalScores(b)
	if !over {
		t.Fatal("expected terminal board")
	}
	if south != 15 {
		t.Fatalf("expected south score 10+2+3=15, got %d", south)
	}
	if north != TotalSeeds-15 {
		t.Fatalf("expected north score %d, got %d", TotalSeeds-15, north)
	}
	if south+north != TotalSeeds {
		t.Fatalf("final scores must total %d, got %d", TotalSeeds, south+north)
	}
	for h := 0; h <= 5; h++ {
		if swept[h] != 0 {
			t.Fatalf("expected south house %d swept, got %d", h, swept[h])
		}
	}
	if swept.Total() != TotalSeeds {
		t.Fatalf("sweep must conserve seeds, total %d", swept.Total())
	}
}

func TestFinalScoresSweepWhenSouthEmpties(t *testing.T) {
	var b Board
	b[6] = 20
	b[9] = 4
	b[13] = TotalSeeds - 24

	_, south, north, over := FinalScores(b)
	if !over {
		t.Fatal("expected terminal board")
	}
	if south != 20 {
		t.Fatalf("expected south score 20, got %d", south)
	}
	if north != TotalSeeds-20 {
		t.Fatalf("expected north score %d, got %d", TotalSeeds-20, north)
	}
}

func TestWinnerClassification(t *testing.T) {
	cases := []struct {
		south, north int
		want         Player
	}{
		{20, 16, South},
		{16, 20, North},
		{18, 18, PlayerUnspecified},
	}
	for _, tc := range cases {
		if got := Winner(tc.south, tc.north); got != tc.want {
			t.Fatalf("scores %d-%d: expected %s, got %s", tc.south, tc.north, tc.want.Name(), got.Name())
		}
	}
}
