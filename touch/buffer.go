// Package touch provides the touch reports consumed by cursor trackers.
package touch

import (
	"sync"

	"github.com/aukilabs/medtouch/models"
)

// Source is the interface that describes a polled touch source.
type Source interface {
	// Returns the reports of every contact currently touching the surface.
	Poll() []models.Report
}

// Buffer is a Source fed with frames. It keeps the latest frame until a newer
// one is pushed, so polling twice without a push returns the same reports.
type Buffer struct {
	mutex   sync.Mutex
	seq     uint32
	reports []models.Report
}

// Push replaces the buffered frame. Reports sharing an id are merged: the last
// one wins and keeps the position of the first. Sequenced frames older than or
// equal to the latest sequenced frame are discarded and Push returns false.
func (b *Buffer) Push(f Frame) bool {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if f.Seq != 0 && b.seq != 0 && f.Seq <= b.seq {
		instrumentFrame(frameStale)
		return false
	}
	if f.Seq != 0 {
		b.seq = f.Seq
	}

	b.reports = dedupe(f.Cursors)
	instrumentFrame(frameAccepted)
	return true
}

// Poll returns a copy of the buffered reports.
func (b *Buffer) Poll() []models.Report {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if len(b.reports) == 0 {
		return nil
	}

	reports := make([]models.Report, len(b.reports))
	copy(reports, b.reports)
	return reports
}

// Clear drops the buffered frame and forgets the latest sequence number.
func (b *Buffer) Clear() {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.seq = 0
	b.reports = nil
}

func dedupe(reports []models.Report) []models.Report {
	res := make([]models.Report, 0, len(reports))
	indexes := make(map[string]int, len(reports))

	for _, r := range reports {
		if i, ok := indexes[r.ID]; ok {
			res[i] = r
			continue
		}
		indexes[r.ID] = len(res)
		res = append(res, r)
	}
	return res
}
