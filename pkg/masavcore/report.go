package masavcore

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	CurrencySymbol = "₪"
	ruleWidth      = 100
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatAmount renders an amount with grouped thousands and two decimals.
func FormatAmount(d decimal.Decimal) string {
	return CurrencySymbol + moneyPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// TextReporter writes one block per record. Write errors are kept and
// returned by Err.
type TextReporter struct {
	w     io.Writer
	banks *BankDirectory
	err   error
}

func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// WithBanks adds bank names to detail blocks.
func (r *TextReporter) WithBanks(b *BankDirectory) *TextReporter {
	r.banks = b
	return r
}

func (r *TextReporter) Err() error {
	return r.err
}

func (r *TextReporter) printf(format string, a ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, a...)
}

func (r *TextReporter) rule() {
	r.printf("%s\n", strings.Repeat("=", ruleWidth))
}

func (r *TextReporter) Begin(source string) {
	r.rule()
	r.printf("MASAV File: %s\n", source)
	r.rule()
	r.printf("\n")
}

func (r *TextReporter) Header(h Header) {
	r.printf("HEADER (K)\n")
	r.printf("   Institution ID: %s\n", h.InstitutionID)
	r.printf("   Institution Name: %s\n", h.InstitutionName)
	r.printf("   Payment Date: %s\n", h.PaymentDateDisplay())
	r.printf("   Sequence: %s\n", h.Sequence)
	r.printf("\n")
}

func (r *TextReporter) Detail(n int, d Detail) {
	bank := d.Bank
	if r.banks != nil {
		if name, ok := r.banks.Lookup(d.Bank); ok {
			bank = fmt.Sprintf("%s (%s)", d.Bank, name)
		}
	}

	r.printf("DETAIL #%d\n", n)
	r.printf("   Name: %s\n", d.BeneficiaryName)
	if d.HasBeneficiaryID() {
		r.printf("   ID: %s\n", d.BeneficiaryID)
	}
	r.printf("   Bank: %s, Branch: %s, Account: %s\n", bank, d.Branch, d.Account)
	r.printf("   Amount: %s\n", FormatAmount(d.Amount))
	r.printf("   Reference: %s\n", d.Reference)
	r.printf("\n")
}

func (r *TextReporter) Trailer(t Trailer) {
	r.printf("TRAILER (5)\n")
	r.printf("   Total Records: %d\n", t.RecordCount)
	r.printf("   Total Amount: %s\n", FormatAmount(t.Total))
	r.printf("\n")
}

func (r *TextReporter) EndOfFile() {
	r.printf("END OF FILE\n")
	r.printf("\n")
}

func (r *TextReporter) Warning(w LengthWarning) {
	r.printf("WARNING %s\n", w)
}

func (r *TextReporter) Summary(s Summary) {
	r.rule()
	r.printf("Summary: %d transfers, Total: %s\n", s.Count, FormatAmount(s.Total))
	r.rule()
}

type EventKind string

const (
	EventBegin     EventKind = "begin"
	EventHeader    EventKind = "header"
	EventDetail    EventKind = "detail"
	EventTrailer   EventKind = "trailer"
	EventEndOfFile EventKind = "eof"
	EventWarning   EventKind = "warning"
	EventSummary   EventKind = "summary"
)

type Event struct {
	Kind    EventKind
	Source  string
	N       int
	Header  Header
	Detail  Detail
	Trailer Trailer
	Warning LengthWarning
	Summary Summary
}

// Collector records events instead of printing them.
type Collector struct {
	Events []Event
}

func (c *Collector) Begin(source string) {
	c.Events = append(c.Events, Event{Kind: EventBegin, Source: source})
}

func (c *Collector) Header(h Header) {
	c.Events = append(c.Events, Event{Kind: EventHeader, Header: h})
}

func (c *Collector) Detail(n int, d Detail) {
	c.Events = append(c.Events, Event{Kind: EventDetail, N: n, Detail: d})
}

func (c *Collector) Trailer(t Trailer) {
	c.Events = append(c.Events, Event{Kind: EventTrailer, Trailer: t})
}

func (c *Collector) EndOfFile() {
	c.Events = append(c.Events, Event{Kind: EventEndOfFile})
}

func (c *Collector) Warning(w LengthWarning) {
	c.Events = append(c.Events, Event{Kind: EventWarning, Warning: w})
}

func (c *Collector) Summary(s Summary) {
	c.Events = append(c.Events, Event{Kind: EventSummary, Summary: s})
}

func (c *Collector) Kinds() []EventKind {
	kinds := make([]EventKind, len(c.Events))
	for i, e := range c.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

func (c *Collector) Filter(kind EventKind) []Event {
	var out []Event
	for _, e := range c.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
