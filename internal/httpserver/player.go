// internal/httpserver/player.go
//
// Player labels attached to games and results.
// A label is only a display name: it proves nothing about who is playing.
// Game access is checked with the game token instead.

package httpserver

import (
	"errors"
	"strings"
)

// anonymousPlayer labels results of players who did not give a name.
const anonymousPlayer = "anonymous"

var errBadPlayer = errors.New("player: 3-24 chars of letters, numbers, underscore")

// normalizePlayer trims and validates a player label.
// An empty label becomes anonymousPlayer.
func normalizePlayer(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return anonymousPlayer, nil
	}
	if len(p) < 3 || len(p) > 24 {
		return "", errBadPlayer
	}
	for _, r := range p {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return "", errBadPlayer
		}
	}
	return p, nil
}
