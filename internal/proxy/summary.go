package proxy

import (
	"context"
	"log/slog"

	"github.com/tidwall/gjson"
)

// logRequestSummary logs the shape of a request body at debug level without
// its content.
func logRequestSummary(ctx context.Context, endpoint string, body []byte) {
	if !slog.Default().Enabled(ctx, slog.LevelDebug) {
		return
	}
	fields := gjson.GetManyBytes(body, "model", "stream", "messages.#", "tools.#", "max_tokens")
	slog.DebugContext(ctx, "received request",
		"endpoint", endpoint,
		"model", fields[0].String(),
		"stream", fields[1].Bool(),
		"messages", fields[2].Int(),
		"tools", fields[3].Int(),
		"max_tokens", fields[4].Int(),
		"bytes", len(body),
	)
}
