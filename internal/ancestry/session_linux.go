//go:build linux

package ancestry

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// SessionID reads the session id (field 6 of /proc/<pid>/stat, the
// stable field gopsutil does not surface) the same way witr's
// internal/proc/process_linux.go parsed /proc/<pid>/stat: split on the
// closing paren of the comm field first, since the command name itself
// may contain spaces or parentheses.
func SessionID(pid int32) (int32, error) {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/stat", pid))
	if err != nil {
		return 0, err
	}
	line := string(data)
	close := strings.LastIndexByte(line, ')')
	if close < 0 {
		return 0, fmt.Errorf("ancestry: malformed stat line for pid %d", pid)
	}
	fields := strings.Fields(line[close+1:])
	// after "pid (comm) ", fields[0]=state, [1]=ppid, [2]=pgrp, [3]=session
	const sessionIdx = 3
	if len(fields) <= sessionIdx {
		return 0, fmt.Errorf("ancestry: too few stat fields for pid %d", pid)
	}
	sid, err := strconv.ParseInt(fields[sessionIdx], 10, 32)
	if err != nil {
		return 0, err
	}
	return int32(sid), nil
}
