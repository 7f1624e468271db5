// Package daily derives the shared layout for the daily board.
//
// Every player asking for the same date gets the same shuffle: the seed is
// HMAC-SHA256(salt, YYYY-MM-DD), so layouts cannot be predicted without the salt.
package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"math/rand"
	"time"

	"github.com/robalobadob/pairs/internal/boards"
	"github.com/robalobadob/pairs/internal/game"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the shuffle seed for a date key.
func Seed(date, salt string) int64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// first 8 bytes are plenty for a shuffle seed
	return int64(binary.BigEndian.Uint64(sum[:8]))
}

// NewEngine builds the daily game for date on board b.
func NewEngine(date, salt string, b boards.Board) (*game.Engine, error) {
	return game.NewWithRand(b.Rows, b.Cols, rand.New(rand.NewSource(Seed(date, salt))))
}
