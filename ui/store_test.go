package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoeda/domain/core"
)

func storedReport(name string) *Report {
	return &Report{
		ID:        core.ReportID(core.NewID()),
		Name:      name,
		FileName:  name + "_eda.html",
		HTML:      []byte("<html></html>"),
		CreatedAt: time.Now(),
	}
}

func TestReportStoreGet(t *testing.T) {
	s := newReportStore(4)
	rep := storedReport("iris")
	s.put(rep)

	got, err := s.get(rep.ID)
	require.NoError(t, err)
	assert.Same(t, rep, got)
}

func TestReportStoreMissing(t *testing.T) {
	s := newReportStore(4)

	_, err := s.get(core.ReportID("nope"))
	assert.ErrorIs(t, err, core.ErrReportNotFound)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestReportStoreEvictsOldest(t *testing.T) {
	s := newReportStore(2)
	first := storedReport("first")
	second := storedReport("second")
	third := storedReport("third")
	s.put(first)
	s.put(second)
	s.put(third)

	_, err := s.get(first.ID)
	assert.ErrorIs(t, err, core.ErrReportNotFound)

	list := s.list()
	require.Len(t, list, 2)
	assert.Equal(t, "third", list[0].Name)
	assert.Equal(t, "second", list[1].Name)
}

func TestReportStoreOverwriteKeepsCap(t *testing.T) {
	s := newReportStore(1)
	rep := storedReport("only")
	s.put(rep)
	s.put(rep)

	assert.Equal(t, 1, s.len())
	got, err := s.get(rep.ID)
	require.NoError(t, err)
	assert.Same(t, rep, got)
}
