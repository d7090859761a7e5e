package engine

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/solar-ticketing/internal/domain"
)

// Config tunes engine behavior that is a business decision rather than
// a hard rule. Whether Resolved is a distinct terminal state or a legacy
// synonym for Closed varies by client feed, so the terminal set is
// configuration instead of a hard-coded merge.
type Config struct {
	TerminalStatuses []string
}

// DefaultTerminalStatuses treats Resolved as equivalent to Closed.
func DefaultTerminalStatuses() []string {
	return []string{string(domain.TicketStatusClosed), string(domain.TicketStatusResolved)}
}

// Engine evaluates ticket lifecycle rules: durations, filters, stats
// and audit diffs. All methods are pure functions over the tickets
// passed in; the engine performs no I/O.
type Engine struct {
	terminal map[string]struct{}
	logger   *zap.Logger
	now      func() time.Time
}

// New constructs an engine. A nil logger disables drift logging.
func New(cfg Config, logger *zap.Logger) *Engine {
	statuses := cfg.TerminalStatuses
	if len(statuses) == 0 {
		statuses = DefaultTerminalStatuses()
	}
	terminal := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		terminal[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		terminal: terminal,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the wall clock. Used by tests and by callers
// that need reproducible "today" boundaries.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	clone := *e
	clone.now = now
	return &clone
}

// IsTerminal reports whether a status counts as closed for duration
// and resolution-rate purposes.
func (e *Engine) IsTerminal(status domain.TicketStatus) bool {
	_, ok := e.terminal[strings.ToLower(strings.TrimSpace(string(status)))]
	return ok
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
