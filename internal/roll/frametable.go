package roll

import "strconv"

// frameRank maps every frame token the scanner's export software can emit to
// its physical position rank. The vocabulary starts with the leader sentinel
// "X" and the explicit zero frame "00", then plain frames 0 through 40; each
// token is immediately followed by its "A" half-frame variant, and the
// trailer sentinel "E" closes the table. The table is fixed: a token outside
// it means the roll cannot be ordered.
var frameRank = buildFrameRank()

func buildFrameRank() map[string]int {
	tokens := make([]string, 0, 43)
	tokens = append(tokens, "X", "00")
	for i := 0; i <= 40; i++ {
		tokens = append(tokens, strconv.Itoa(i))
	}

	ranks := make(map[string]int, len(tokens)*2+1)
	rank := 0
	for _, token := range tokens {
		ranks[token] = rank
		rank++
		ranks[token+"A"] = rank
		rank++
	}
	ranks["E"] = rank
	return ranks
}

// FrameRank returns the total-order rank of a canonical half-frame token.
func FrameRank(token string) (int, bool) {
	rank, ok := frameRank[token]
	return rank, ok
}
