package scanner

import "container/heap"

// portHeap is a min-heap of port numbers.
type portHeap []uint16

func (h portHeap) Len() int           { return len(h) }
func (h portHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h portHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *portHeap) Push(x any) {
	*h = append(*h, x.(uint16))
}

func (h *portHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// OpenPortSet accumulates open ports in any order and drains them ascending.
// It is not safe for concurrent use; Collect is its only writer during a scan.
type OpenPortSet struct {
	ports portHeap
}

// Add records an open port.
func (s *OpenPortSet) Add(port uint16) {
	heap.Push(&s.ports, port)
}

// Len returns the number of recorded ports.
func (s *OpenPortSet) Len() int {
	return s.ports.Len()
}

// Drain removes every port and returns them in ascending order.
func (s *OpenPortSet) Drain() []uint16 {
	out := make([]uint16, 0, s.ports.Len())
	for s.ports.Len() > 0 {
		out = append(out, heap.Pop(&s.ports).(uint16))
	}
	return out
}

// Collect reads open ports from outcomes until the channel is closed.
// It does not assume any count: closed ports never report.
func Collect(outcomes <-chan uint16) *OpenPortSet {
	set := &OpenPortSet{}
	for port := range outcomes {
		set.Add(port)
	}
	return set
}
