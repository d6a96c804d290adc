package rate

import "errors"

var (
	// ErrRateLimited is returned once a subject exhausts its window.
	ErrRateLimited = errors.New("rate limited")
	// ErrRedisUnavailable wraps any Redis transport or command failure.
	ErrRedisUnavailable = errors.New("redis unavailable")
)
