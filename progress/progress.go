// Package progress abstracts the terminal progress widget behind an
// interface so the core pipeline never depends on a concrete renderer.
package progress

// Reporter receives progress notifications from long running passes
// (MFT decode, $J stream, artifact extraction).
type Reporter interface {
	Begin(total int)
	Advance(n int)
	End()
}

// Silent discards all progress notifications. Used by library callers and
// tests that have no terminal.
type Silent struct{}

func (Silent) Begin(total int) {}
func (Silent) Advance(n int)   {}
func (Silent) End()            {}

// Counter accumulates advances in memory; useful for tests asserting on
// S9-style "sparse skipped" style counters without a terminal.
type Counter struct {
	Total    int
	Advanced int
	Ended    bool
}

func (c *Counter) Begin(total int) { c.Total = total }
func (c *Counter) Advance(n int)   { c.Advanced += n }
func (c *Counter) End()            { c.Ended = true }
