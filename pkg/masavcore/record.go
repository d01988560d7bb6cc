package masavcore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	RecordLength  = 128
	LineSeparator = "\r\n"
)

const (
	TagHeader  byte = 'K'
	TagDetail  byte = '1'
	TagTrailer byte = '5'
	TagEOF     byte = '9'
)

type FieldKind int

const (
	KindText FieldKind = iota
	KindDigits
	KindAmount
	KindHebrew
)

func (k FieldKind) String() string {
	switch k {
	case KindDigits:
		return "digits"
	case KindAmount:
		return "amount"
	case KindHebrew:
		return "hebrew"
	}
	return "text"
}

// Field is a half-open byte range [Start, End) of a 128-byte record.
type Field struct {
	Name  string
	Start int
	End   int
	Kind  FieldKind
}

func (f Field) Len() int {
	return f.End - f.Start
}

func (f Field) Bytes(line []byte) []byte {
	return line[f.Start:f.End]
}

var (
	HeaderInstitution = Field{"institution_id", 1, 9, KindText}
	HeaderPaymentDate = Field{"payment_date", 11, 17, KindText}
	HeaderSequence    = Field{"sequence", 18, 21, KindText}
	HeaderName        = Field{"institution_name", 39, 69, KindHebrew}

	DetailInstitution   = Field{"institution_id", 1, 9, KindText}
	DetailBank          = Field{"bank", 17, 19, KindText}
	DetailBranch        = Field{"branch", 19, 22, KindText}
	DetailAccount       = Field{"account", 26, 35, KindText}
	DetailBeneficiaryID = Field{"beneficiary_id", 36, 45, KindText}
	DetailName          = Field{"beneficiary_name", 45, 61, KindHebrew}
	DetailAmount        = Field{"amount", 61, 74, KindAmount}
	DetailReference     = Field{"reference", 74, 94, KindText}

	TrailerTotal = Field{"total_amount", 21, 36, KindAmount}
	TrailerCount = Field{"record_count", 51, 58, KindDigits}
)

var Layouts = map[byte][]Field{
	TagHeader: {HeaderInstitution, HeaderPaymentDate, HeaderSequence, HeaderName},
	TagDetail: {
		DetailInstitution, DetailBank, DetailBranch, DetailAccount,
		DetailBeneficiaryID, DetailName, DetailAmount, DetailReference,
	},
	TagTrailer: {TrailerTotal, TrailerCount},
	TagEOF:     {},
}

type Header struct {
	InstitutionID   string
	PaymentDate     string // DDMMYY as stored
	Sequence        string
	InstitutionName string
}

// PaymentDateDisplay renders DDMMYY as DD/MM/20YY.
func (h Header) PaymentDateDisplay() string {
	d := h.PaymentDate
	if len(d) != 6 {
		return d
	}
	return d[0:2] + "/" + d[2:4] + "/20" + d[4:6]
}

type Detail struct {
	InstitutionID   string
	Bank            string
	Branch          string
	Account         string
	BeneficiaryID   string // leading zeros stripped, empty when absent
	BeneficiaryName string
	AmountMinor     int64
	Amount          decimal.Decimal
	Reference       string
}

func (d Detail) HasBeneficiaryID() bool {
	return d.BeneficiaryID != ""
}

type Trailer struct {
	TotalMinor  int64
	Total       decimal.Decimal
	RecordCount int
}

type EndOfFile struct{}

// fieldReader keeps the first error so parse functions read straight through.
type fieldReader struct {
	line   []byte
	lineNo int
	code   CodeType
	err    error
}

func (r *fieldReader) fail(f Field, err error) {
	if r.err == nil {
		r.err = &FieldError{Line: r.lineNo, Tag: r.line[0], Field: f.Name, Start: f.Start, End: f.End, Err: err}
	}
}

func (r *fieldReader) text(f Field) string {
	b := f.Bytes(r.line)
	for _, c := range b {
		if c >= 0x80 {
			r.fail(f, fmt.Errorf("%w: 0x%02X", ErrNonASCII, c))
			return ""
		}
	}
	return string(b)
}

func (r *fieldReader) number(f Field) int64 {
	s := r.text(f)
	if r.err != nil {
		return 0
	}
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		r.fail(f, fmt.Errorf("%w: %q", ErrNotNumeric, s))
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		r.fail(f, fmt.Errorf("%w: %v", ErrNotNumeric, err))
		return 0
	}
	return n
}

func (r *fieldReader) hebrew(f Field) string {
	return DecodeHebrew(f.Bytes(r.line), r.code)
}

// MinorToMajor converts agorot to shekels.
func MinorToMajor(minor int64) decimal.Decimal {
	return decimal.New(minor, -2)
}

func ParseHeader(line []byte, lineNo int, ct CodeType) (Header, error) {
	r := &fieldReader{line: line, lineNo: lineNo, code: ct}
	h := Header{
		InstitutionID:   r.text(HeaderInstitution),
		PaymentDate:     r.text(HeaderPaymentDate),
		Sequence:        r.text(HeaderSequence),
		InstitutionName: r.hebrew(HeaderName),
	}
	if r.err != nil {
		return Header{}, r.err
	}
	return h, nil
}

func ParseDetail(line []byte, lineNo int, ct CodeType) (Detail, error) {
	r := &fieldReader{line: line, lineNo: lineNo, code: ct}
	d := Detail{
		InstitutionID:   r.text(DetailInstitution),
		Bank:            r.text(DetailBank),
		Branch:          r.text(DetailBranch),
		Account:         r.text(DetailAccount),
		BeneficiaryID:   beneficiaryID(r.text(DetailBeneficiaryID)),
		BeneficiaryName: r.hebrew(DetailName),
		AmountMinor:     r.number(DetailAmount),
		Reference:       strings.TrimSpace(r.text(DetailReference)),
	}
	if r.err != nil {
		return Detail{}, r.err
	}
	d.Amount = MinorToMajor(d.AmountMinor)
	return d, nil
}

func ParseTrailer(line []byte, lineNo int) (Trailer, error) {
	r := &fieldReader{line: line, lineNo: lineNo}
	t := Trailer{
		TotalMinor:  r.number(TrailerTotal),
		RecordCount: int(r.number(TrailerCount)),
	}
	if r.err != nil {
		return Trailer{}, r.err
	}
	t.Total = MinorToMajor(t.TotalMinor)
	return t, nil
}

// beneficiaryID returns "" for a blank or all-zero ID.
func beneficiaryID(raw string) string {
	return strings.TrimLeft(strings.TrimSpace(raw), "0")
}

// FieldValue renders one field for diagnostics. Hebrew fields are decoded,
// amounts are shown in major units.
func FieldValue(line []byte, lineNo int, f Field, ct CodeType) (string, error) {
	r := &fieldReader{line: line, lineNo: lineNo, code: ct}
	var v string
	switch f.Kind {
	case KindHebrew:
		v = r.hebrew(f)
	case KindAmount:
		v = MinorToMajor(r.number(f)).StringFixed(2)
	case KindDigits:
		v = strconv.FormatInt(r.number(f), 10)
	default:
		v = r.text(f)
	}
	return v, r.err
}
