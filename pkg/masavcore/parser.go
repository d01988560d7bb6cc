package masavcore

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// Line is one CR-LF separated chunk, numbered from 1.
type Line struct {
	No   int
	Data []byte
}

type LengthWarning struct {
	Line   int
	Length int
}

func (w LengthWarning) String() string {
	return fmt.Sprintf("Line %d: Invalid length %d (should be %d)", w.Line, w.Length, RecordLength)
}

// Sink receives report events in input order.
type Sink interface {
	Begin(source string)
	Header(h Header)
	Detail(n int, d Detail)
	Trailer(t Trailer)
	EndOfFile()
	Warning(w LengthWarning)
	Summary(s Summary)
}

type Accumulator struct {
	Count int
	Total decimal.Decimal
}

func (a *Accumulator) Add(d Detail) {
	a.Count++
	a.Total = a.Total.Add(d.Amount)
}

type Summary struct {
	Source   string
	Count    int
	Total    decimal.Decimal
	Warnings int
	Declared *Trailer // last trailer seen, informational only
}

// Reconcile compares the trailer's declared values with the accumulated
// detail records. It reports every mismatch at once.
func (s Summary) Reconcile() error {
	if s.Declared == nil {
		return ErrNoTrailer
	}
	var err error
	if s.Declared.RecordCount != s.Count {
		err = multierr.Append(err, fmt.Errorf("%w: declared %d, found %d", ErrCountMismatch, s.Declared.RecordCount, s.Count))
	}
	if !s.Declared.Total.Equal(s.Total) {
		err = multierr.Append(err, fmt.Errorf("%w: declared %s, found %s", ErrTotalMismatch, s.Declared.Total.StringFixed(2), s.Total.StringFixed(2)))
	}
	return err
}

func SplitRecords(data []byte) []Line {
	var lines []Line
	for i, chunk := range bytes.Split(data, []byte(LineSeparator)) {
		if len(chunk) == 0 {
			continue
		}
		lines = append(lines, Line{No: i + 1, Data: chunk})
	}
	return lines
}

type Parser struct {
	Code CodeType
	Sink Sink
	Log  logrus.FieldLogger
}

func NewParser(sink Sink) *Parser {
	return &Parser{
		Code: CodeAuto,
		Sink: sink,
		Log:  logrus.StandardLogger(),
	}
}

func (p *Parser) ProcessFile(path string) (Summary, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Summary{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Summary{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Summary{}, fmt.Errorf("read %s: %w", path, err)
	}
	p.Log.WithField("bytes", len(data)).Debugf("read %s", path)

	return p.Parse(path, data)
}

// Parse walks the records once. A malformed field aborts the run; length
// mismatches are reported and skipped.
func (p *Parser) Parse(source string, data []byte) (Summary, error) {
	var acc Accumulator
	var declared *Trailer
	warnings := 0

	p.Sink.Begin(source)

	for _, ln := range SplitRecords(data) {
		if len(ln.Data) != RecordLength {
			warnings++
			p.Sink.Warning(LengthWarning{Line: ln.No, Length: len(ln.Data)})
			continue
		}

		tag := ln.Data[0]
		log := p.Log.WithFields(logrus.Fields{"line": ln.No, "tag": string(tag)})

		switch tag {
		case TagHeader:
			h, err := ParseHeader(ln.Data, ln.No, p.Code)
			if err != nil {
				return Summary{}, err
			}
			log.Debug("header record")
			p.Sink.Header(h)

		case TagDetail:
			d, err := ParseDetail(ln.Data, ln.No, p.Code)
			if err != nil {
				return Summary{}, err
			}
			acc.Add(d)
			log.WithField("amount", d.Amount.StringFixed(2)).Debug("detail record")
			p.Sink.Detail(acc.Count, d)

		case TagTrailer:
			t, err := ParseTrailer(ln.Data, ln.No)
			if err != nil {
				return Summary{}, err
			}
			declared = &t
			log.Debug("trailer record")
			p.Sink.Trailer(t)

		case TagEOF:
			log.Debug("end of file record")
			p.Sink.EndOfFile()

		default:
			log.Debug("skipping unrecognized record type")
		}
	}

	s := Summary{
		Source:   source,
		Count:    acc.Count,
		Total:    acc.Total,
		Warnings: warnings,
		Declared: declared,
	}
	p.Sink.Summary(s)
	return s, nil
}
