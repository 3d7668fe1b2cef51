package scanner

import (
	"io"
	"sync"
)

// Progress receives cosmetic signals while a scan runs. Implementations must be
// safe for concurrent use: Attempted is called from every dispatch goroutine.
type Progress interface {
	// Start is called once with the number of ports about to be attempted.
	Start(total int)
	// Attempted is called once per finished connection attempt.
	Attempted(port uint16, open bool)
	// Finish is called once after the last attempt finished.
	Finish()
}

// NopProgress discards every signal.
type NopProgress struct{}

func (NopProgress) Start(int)              {}
func (NopProgress) Attempted(uint16, bool) {}
func (NopProgress) Finish()                {}

// DotProgress writes one "." per open port.
type DotProgress struct {
	mu  sync.Mutex
	out io.Writer
}

// NewDotProgress returns a DotProgress writing to out.
func NewDotProgress(out io.Writer) *DotProgress {
	return &DotProgress{out: out}
}

func (p *DotProgress) Start(int) {}

func (p *DotProgress) Attempted(_ uint16, open bool) {
	if !open {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, ".")
}

func (p *DotProgress) Finish() {}
