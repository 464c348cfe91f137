package timeutil

import "time"

// DefaultBlockSize is the granularity aggregate totals are rounded to.
const DefaultBlockSize = 15 * time.Minute

// RoundToBlock rounds a worked duration to the nearest block using
// half-up rounding, so 37m rounds down to 30m while 37m30s rounds up
// to 45m with the default 15 minute block.
func RoundToBlock(worked, block time.Duration) time.Duration {
	if block <= 0 {
		return worked
	}

	worked += block / 2

	return worked - (worked % block)
}

// RoundTimeWorked rounds a duration to the default 15 minute block.
func RoundTimeWorked(worked time.Duration) time.Duration {
	return RoundToBlock(worked, DefaultBlockSize)
}
