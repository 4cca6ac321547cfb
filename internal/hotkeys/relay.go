package hotkeys

import (
	"bufio"
	"context"
	"io"
	"strings"

	log "github.com/sirupsen/logrus"
)

// MessageSink receives web-layer messages.
type MessageSink interface {
	HandleMessage(msg string)
}

// RelayMessages reads newline-delimited web-layer messages from r and hands
// each one to sink until r is exhausted or ctx is done.
func RelayMessages(ctx context.Context, r io.Reader, sink MessageSink) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		log.Debugf("[RELAY] %s", line)
		sink.HandleMessage(line)
	}
	return scanner.Err()
}
