package masavcore

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func newTestParser() (*Parser, *Collector) {
	c := &Collector{}
	p := NewParser(c)
	log := logrus.New()
	log.SetOutput(io.Discard)
	p.Log = log
	return p, c
}

func sampleFile() []byte {
	return joinRecords(
		headerRecord("&BECD"),
		detailRecord("YLEM", "000123456", "10000", "1001"),
		detailRecord(string([]byte{139, 132, 143}), "000000000", "250050", "1002"),
		trailerRecord("260050", "2"),
		eofRecord(),
	)
}

func TestSplitRecords(t *testing.T) {
	lines := SplitRecords([]byte("AAA\r\n\r\nBB\r\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, Line{No: 1, Data: []byte("AAA")}, lines[0])
	assert.Equal(t, Line{No: 3, Data: []byte("BB")}, lines[1])

	assert.Empty(t, SplitRecords(nil))
	assert.Len(t, SplitRecords([]byte("no separator")), 1)
}

func TestParseEndToEnd(t *testing.T) {
	p, c := newTestParser()

	s, err := p.Parse("sample.txt", sampleFile())
	require.NoError(t, err)

	assert.Equal(t, []EventKind{
		EventBegin, EventHeader, EventDetail, EventDetail, EventTrailer, EventEndOfFile, EventSummary,
	}, c.Kinds())

	details := c.Filter(EventDetail)
	assert.Equal(t, 1, details[0].N)
	assert.Equal(t, 2, details[1].N)
	assert.Equal(t, "שלום", details[0].Detail.BeneficiaryName)
	assert.Equal(t, "כהן", details[1].Detail.BeneficiaryName)

	assert.Equal(t, "sample.txt", s.Source)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "2600.50", s.Total.StringFixed(2))
	assert.Equal(t, 0, s.Warnings)
	require.NotNil(t, s.Declared)
	assert.NoError(t, s.Reconcile())

	last := c.Events[len(c.Events)-1]
	assert.Equal(t, s.Count, last.Summary.Count)
}

func TestParseLengthWarning(t *testing.T) {
	p, c := newTestParser()
	data := joinRecords(
		headerRecord("&BECD"),
		[]byte("1"+string(make([]byte, 49))),
		detailRecord("YLEM", "000000000", "500", ""),
	)

	s, err := p.Parse("short.txt", data)
	require.NoError(t, err)

	warnings := c.Filter(EventWarning)
	require.Len(t, warnings, 1)
	assert.Equal(t, LengthWarning{Line: 2, Length: 50}, warnings[0].Warning)
	assert.Contains(t, warnings[0].Warning.String(), "Line 2")
	assert.Contains(t, warnings[0].Warning.String(), "50")

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, "5.00", s.Total.StringFixed(2))
	assert.Equal(t, 1, s.Warnings)
}

func TestParseTotalIgnoresTrailer(t *testing.T) {
	p, _ := newTestParser()
	data := joinRecords(
		detailRecord("YLEM", "000000000", "10000", ""),
		detailRecord("YLEM", "000000000", "2000", ""),
		trailerRecord("99999", "5"),
	)

	s, err := p.Parse("mismatch.txt", data)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, "120.00", s.Total.StringFixed(2))
	assert.Equal(t, "999.99", s.Declared.Total.StringFixed(2))

	err = s.Reconcile()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.ErrorIs(t, err, ErrCountMismatch)
	assert.ErrorIs(t, err, ErrTotalMismatch)
}

func TestReconcileWithoutTrailer(t *testing.T) {
	p, _ := newTestParser()
	s, err := p.Parse("no-trailer.txt", joinRecords(detailRecord("YLEM", "", "1", "")))
	require.NoError(t, err)
	assert.ErrorIs(t, s.Reconcile(), ErrNoTrailer)
}

func TestParseUnknownTagSkipped(t *testing.T) {
	p, c := newTestParser()
	unknown := buildRecord('X', nil)

	s, err := p.Parse("unknown.txt", joinRecords(unknown, detailRecord("YLEM", "", "100", "")))
	require.NoError(t, err)
	assert.Equal(t, []EventKind{EventBegin, EventDetail, EventSummary}, c.Kinds())
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 0, s.Warnings)
}

func TestParseFieldErrorAborts(t *testing.T) {
	p, c := newTestParser()
	bad := detailRecord("YLEM", "", "100", "")
	copy(bad[DetailAmount.Start:], "ABC")

	_, err := p.Parse("bad.txt", joinRecords(
		detailRecord("YLEM", "", "100", ""),
		bad,
		detailRecord("YLEM", "", "100", ""),
	))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotNumeric)

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, 2, fe.Line)
	assert.Equal(t, []EventKind{EventBegin, EventDetail}, c.Kinds())
}

func TestParseForcedCode(t *testing.T) {
	p, c := newTestParser()
	p.Code = CodeTypeB

	_, err := p.Parse("forced.txt", joinRecords(detailRecord("YLEM", "", "100", "")))
	require.NoError(t, err)
	assert.Equal(t, "YLEM", c.Filter(EventDetail)[0].Detail.BeneficiaryName)
}

func TestProcessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "MT_251124.txt")
	require.NoError(t, os.WriteFile(path, sampleFile(), 0o644))

	p, c := newTestParser()
	s, err := p.ProcessFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, path, c.Events[0].Source)
}

func TestProcessFileNotFound(t *testing.T) {
	p, c := newTestParser()
	_, err := p.ProcessFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, c.Events)
}
