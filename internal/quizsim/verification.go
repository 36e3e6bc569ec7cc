package quizsim

import (
	"fmt"

	"github.com/ecosort/ecosort/internal/domain/model"
)

// verifyLeaderboard checks the board against the rules the API promises and
// against the scores the simulator itself produced.
func verifyLeaderboard(board []model.User, capacity int, expected map[string]int) error {
	if len(board) > capacity {
		return fmt.Errorf("%w: %d entries exceeds cap %d", ErrVerification, len(board), capacity)
	}

	onBoard := make(map[string]bool, len(board))
	for i, u := range board {
		if i > 0 && u.Score > board[i-1].Score {
			return fmt.Errorf("%w: entry %d has higher score than entry %d", ErrVerification, i, i-1)
		}
		if want := model.LevelForScore(u.Score); u.Level != want {
			return fmt.Errorf("%w: %s has level %d for score %d, want %d", ErrVerification, u.Username, u.Level, u.Score, want)
		}
		if score, ok := expected[u.ID]; ok && score != u.Score {
			return fmt.Errorf("%w: %s has score %d, simulated %d", ErrVerification, u.Username, u.Score, score)
		}
		onBoard[u.ID] = true
	}

	// A board below the cap holds every user; a full one holds everyone
	// scoring above its last entry.
	full := len(board) == capacity
	for id, score := range expected {
		if onBoard[id] {
			continue
		}
		if !full || score > board[len(board)-1].Score {
			return fmt.Errorf("%w: player %s with score %d missing", ErrVerification, id, score)
		}
	}
	return nil
}
