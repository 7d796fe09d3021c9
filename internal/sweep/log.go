package sweep

import "github.com/Infomineo-da/SIA-Partners-Gas-Station-Abu-Dhabi/internal/geo"

// Record captures one leaf query: the rectangle that was searched, how many
// places came back, and whether the density trigger forced a further
// subdivision of that rectangle. Records are immutable once appended.
type Record struct {
	Rect       geo.Rectangle
	Results    int
	Subdivided bool
}

// AreaLog is the ordered trace of every leaf query issued during one sweep,
// in depth-first visitation order. It backs the coverage exporters. Not safe
// for concurrent use; each sweep owns its own log.
type AreaLog struct {
	records []Record
}

// NewAreaLog returns an empty log.
func NewAreaLog() *AreaLog {
	return &AreaLog{}
}

// Add appends one leaf record.
func (l *AreaLog) Add(rect geo.Rectangle, results int, subdivided bool) {
	l.records = append(l.records, Record{Rect: rect, Results: results, Subdivided: subdivided})
}

// Records returns the recorded entries in visitation order.
func (l *AreaLog) Records() []Record {
	return l.records
}

// Len returns the number of leaf queries recorded.
func (l *AreaLog) Len() int {
	return len(l.records)
}
