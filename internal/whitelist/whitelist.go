// Package whitelist implements component I: a static set of protected
// basenames plus the dynamic PID-1 / self / session-leader / iterm
// rules. Matching is exact basename, case-sensitive, per spec §4.I.
//
// The static set is grounded in original_source/process_killer.py's
// WHITELIST constant (macOS system processes, shells, window manager,
// indexing services), extended with Linux equivalents since this port's
// primary target is Linux, mirroring the teacher's own dual-OS split.
package whitelist

import "os"

// staticNames is the base protected set, never killed regardless of
// classification.
var staticNames = map[string]bool{
	// macOS system processes (original WHITELIST)
	"launchd":          true,
	"kernel_task":      true,
	"WindowServer":     true,
	"loginwindow":      true,
	"mds":              true,
	"mds_stores":       true,
	"mdworker":         true,
	"coreaudiod":       true,
	"systemstatsd":     true,
	"cfprefsd":         true,
	"UserEventAgent":   true,
	"bash":             true,
	"zsh":              true,
	"sh":               true,
	"fish":             true,
	"sshd":             true,
	"Terminal":         true,

	// Linux equivalents
	"systemd":        true,
	"dbus-daemon":    true,
	"NetworkManager": true,
	"Xorg":           true,
	"gnome-shell":    true,
	"init":           true,
	"kthreadd":       true,

	// this program itself
	"memwatchd": true,
}

// TerminalEmulatorName is the basename treated as "the terminal
// emulator" in iterm-only mode; extended into the whitelist at runtime
// per spec §4.I ("in iterm-only mode, the terminal emulator itself").
const TerminalEmulatorName = "iTerm2"

// Query is the dynamic, per-candidate identity check layered on top of
// the static basename set.
type Query struct {
	PID     int32
	Name    string
	SelfPID int32

	// WatchdogSessionID is *this* program's own session id (the session
	// it and its controlling terminal belong to), not the candidate's.
	// A candidate is whitelisted only when its PID equals this session
	// id, i.e. it is the leader of the watchdog's own session — not
	// merely a daemon that called setsid() on itself. Zero means the
	// watchdog's session id is unknown (e.g. unsupported platform), in
	// which case this rule never matches.
	WatchdogSessionID int32

	ItermOnlyMode bool
}

// Allowed reports whether q is protected from termination: a static
// basename, PID 1, this program itself, the leader of this program's
// own session (spec §4.I: "its session leader"), or — in iterm-only
// mode — the terminal emulator itself. The separate "not descended from
// the terminal session" exclusion used when building pressure-relief
// candidates (spec §4.F) is a candidate-list filter, not a whitelist
// membership question, and is applied by internal/watchdog when it
// builds the scorer's candidate list.
func Allowed(q Query) bool {
	if staticNames[q.Name] {
		return true
	}
	if q.PID == 1 {
		return true
	}
	if q.SelfPID != 0 && q.PID == q.SelfPID {
		return true
	}
	if q.WatchdogSessionID != 0 && q.PID == q.WatchdogSessionID {
		return true
	}
	if q.ItermOnlyMode && q.Name == TerminalEmulatorName {
		return true
	}
	return false
}

// SelfPID returns this process's own pid, used to populate Query.SelfPID.
func SelfPID() int32 {
	return int32(os.Getpid())
}
