package constants

import "time"

// Default timeouts and delays used throughout the application
const (
	// Step delays between scripted actions
	DefaultStepDelay = 500 * time.Millisecond
	KeySequenceDelay = 50 * time.Millisecond

	// Operation timeouts
	DefaultWaitTimeout   = 5 * time.Second
	PositionTimeout      = 5 * time.Second
	VerifyTimeout        = 5 * time.Second
	ReadyTimeout         = 20 * time.Second
	LoginBannerTimeout   = 10 * time.Second
	RegionClickTimeout   = 10 * time.Second
	DefaultRotinaTimeout = 300 * time.Second

	// Polling intervals
	StatePollInterval    = 100 * time.Millisecond
	SleepSliceInterval   = 50 * time.Millisecond
	PositionPollInterval = 100 * time.Millisecond

	// Session token acquisition
	TokenRetryCount    = 10
	TokenRetryInterval = 500 * time.Millisecond
)

// GetTimeout returns a timeout duration based on the operation type
func GetTimeout(operation string) time.Duration {
	switch operation {
	case "ready":
		return ReadyTimeout
	case "verify":
		return VerifyTimeout
	case "position":
		return PositionTimeout
	case "login":
		return LoginBannerTimeout
	case "region":
		return RegionClickTimeout
	case "rotina":
		return DefaultRotinaTimeout
	default:
		return DefaultWaitTimeout
	}
}
