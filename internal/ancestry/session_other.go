//go:build !linux

package ancestry

import "fmt"

// SessionID has no portable /proc equivalent outside Linux; callers
// treat the error as "unknown, not a session leader" per spec §4.I.
func SessionID(pid int32) (int32, error) {
	return 0, fmt.Errorf("ancestry: session id not supported on this platform")
}
