package loadgen

import (
	"fmt"
)

// Verify checks a leaderboard fetched after submitting runs: entries are in
// ascending time_s, the count grew by at least the accepted submissions and
// every accepted player name is present.
func Verify(entries []Entry, before int, accepted []Result) error {
	for i := 1; i < len(entries); i++ {
		if entries[i].TimeS < entries[i-1].TimeS {
			return fmt.Errorf("%w: entry %d (%.3f) is faster than entry %d (%.3f)",
				ErrVerify, i, entries[i].TimeS, i-1, entries[i-1].TimeS)
		}
	}

	if got, want := len(entries), before+len(accepted); got < want {
		return fmt.Errorf("%w: %d records, expected at least %d", ErrVerify, got, want)
	}

	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		seen[e.Name] = struct{}{}
	}
	for _, r := range accepted {
		if _, ok := seen[r.Name]; !ok {
			return fmt.Errorf("%w: submitted run %q is missing", ErrVerify, r.Name)
		}
	}
	return nil
}
