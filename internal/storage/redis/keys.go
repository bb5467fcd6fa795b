package redis

import (
	"fmt"

	"github.com/mcoot/chessrelay/internal/model"
)

// Key prefix for all relay data
const keyPrefix = "chessrelay"

// playerKey returns the Redis key for a Player record
func playerKey(username model.Identity) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, username)
}
