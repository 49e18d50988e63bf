package ui

import (
	"fmt"
	"sync"
	"time"

	"autoeda/domain/core"
)

// Report is a generated report held for preview and download
type Report struct {
	ID        core.ReportID
	RunID     core.RunID
	Name      string
	FileName  string
	HTML      []byte
	Rows      int
	Cols      int
	CreatedAt time.Time
}

// reportStore keeps the most recent reports in memory. When the cap is
// reached the oldest report is dropped, so download links eventually
// expire but a failed run never removes an existing report.
type reportStore struct {
	mu      sync.Mutex
	cap     int
	order   []core.ReportID
	reports map[core.ReportID]*Report
}

func newReportStore(cap int) *reportStore {
	return &reportStore{
		cap:     cap,
		reports: make(map[core.ReportID]*Report),
	}
}

func (s *reportStore) put(r *Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.reports[r.ID]; !ok && len(s.order) >= s.cap {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.reports, oldest)
	}
	if _, ok := s.reports[r.ID]; !ok {
		s.order = append(s.order, r.ID)
	}
	s.reports[r.ID] = r
}

func (s *reportStore) get(id core.ReportID) (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reports[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrReportNotFound, id)
	}
	return r, nil
}

// list returns the stored reports newest first
func (s *reportStore) list() []*Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*Report, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		out = append(out, s.reports[s.order[i]])
	}
	return out
}

func (s *reportStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.order)
}
