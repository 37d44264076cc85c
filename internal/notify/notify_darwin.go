//go:build darwin

package notify

import (
	"context"
	"fmt"

	"github.com/Emasoft/process-killer/internal/executil"
)

// send shells out to osascript with an AppleScript "display
// notification" expression, grounded in
// original_source/process_killer.py's notify():
//   subprocess.run(["osascript", "-e", script], timeout=2)
func send(ctx context.Context, title, body string) error {
	if !executil.Available("osascript") {
		return nil
	}
	script := fmt.Sprintf("display notification %s with title %s", quote(body), quote(title))
	_, err := executil.Run(ctx, timeout, "osascript", "-e", script)
	return err
}

// quote produces an AppleScript string literal; the body embeds the
// fingerprint, which is built from a killed process's command line, so
// backslash and quote characters are escaped.
func quote(s string) string {
	out := make([]byte, 0, len(s)+2)
	out = append(out, '"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			out = append(out, '\\')
		}
		out = append(out, c)
	}
	out = append(out, '"')
	return string(out)
}
