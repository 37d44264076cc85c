//go:build linux

package notify

import (
	"context"

	"github.com/Emasoft/process-killer/internal/executil"
)

func send(ctx context.Context, title, body string) error {
	if !executil.Available("notify-send") {
		return nil
	}
	_, err := executil.Run(ctx, timeout, "notify-send", title, body)
	return err
}
