package loadgen

import "errors"

// Error constants.
var (
	ErrInvalidConfig = errors.New("invalid load config")
	ErrUnhealthy     = errors.New("service unhealthy")
	ErrVerify        = errors.New("leaderboard verification failed")
)
