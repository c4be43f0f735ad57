package site

import "errors"

// Error constants.
var (
	ErrRender = errors.New("leaderboard render failed")
)
