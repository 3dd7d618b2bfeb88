package translate

import (
	"strings"

	"github.com/traylingo/traylingo/pkg/models"
)

// Collector is an Emitter that accumulates the full result, for callers
// that want a single response instead of a live event stream.
type Collector struct {
	text  strings.Builder
	usage models.UsagePayload
	done  bool
}

func (c *Collector) Chunk(sessionID, text string) {
	c.text.WriteString(text)
}

func (c *Collector) Usage(usage models.UsagePayload) {
	c.usage = usage
}

func (c *Collector) Done(sessionID string) {
	c.done = true
}

// Result returns the accumulated text and the usage summary.
func (c *Collector) Result() (string, models.UsagePayload) {
	return c.text.String(), c.usage
}

// Completed reports whether the done event was observed.
func (c *Collector) Completed() bool {
	return c.done
}
