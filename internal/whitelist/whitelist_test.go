package whitelist

import "testing"

func TestAllowedStaticName(t *testing.T) {
	if !Allowed(Query{Name: "systemd"}) {
		t.Fatalf("expected systemd to be whitelisted")
	}
	if Allowed(Query{Name: "hog.py"}) {
		t.Fatalf("expected arbitrary process name to not be whitelisted")
	}
}

func TestAllowedPID1(t *testing.T) {
	if !Allowed(Query{PID: 1, Name: "anything"}) {
		t.Fatalf("expected pid 1 to always be whitelisted")
	}
}

func TestAllowedSelf(t *testing.T) {
	if !Allowed(Query{PID: 42, SelfPID: 42, Name: "memwatchd-worker"}) {
		t.Fatalf("expected self pid to be whitelisted")
	}
}

func TestAllowedWatchdogSessionLeader(t *testing.T) {
	if !Allowed(Query{PID: 500, Name: "weird", WatchdogSessionID: 500}) {
		t.Fatalf("expected the leader of the watchdog's own session to be whitelisted")
	}
}

func TestAllowedArbitrarySessionLeaderNotWhitelisted(t *testing.T) {
	// A daemon that called setsid() on itself (sid == pid) but does not
	// belong to the watchdog's own session must NOT be protected: the
	// whitelist rule is scoped to the watchdog's controlling session,
	// not session-leader-ness in general.
	if Allowed(Query{PID: 777, Name: "weird", WatchdogSessionID: 500}) {
		t.Fatalf("expected an unrelated session leader to not be whitelisted")
	}
}

func TestAllowedUnknownWatchdogSessionIDNeverMatches(t *testing.T) {
	if Allowed(Query{PID: 0, Name: "weird", WatchdogSessionID: 0}) {
		t.Fatalf("expected a zero watchdog session id to never whitelist by session")
	}
}

func TestAllowedItermOnlyTerminalItself(t *testing.T) {
	if !Allowed(Query{Name: TerminalEmulatorName, ItermOnlyMode: true}) {
		t.Fatalf("expected terminal emulator to be whitelisted in iterm-only mode")
	}
	if Allowed(Query{Name: TerminalEmulatorName, ItermOnlyMode: false}) {
		t.Fatalf("terminal emulator name alone should not be special outside iterm-only mode unless statically listed")
	}
}
