package masavcore

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

type CodeType int

const (
	CodeAuto CodeType = iota
	CodeTypeA
	CodeTypeB
)

func (c CodeType) String() string {
	switch c {
	case CodeTypeA:
		return "code-a"
	case CodeTypeB:
		return "code-b"
	}
	return "auto"
}

func ParseCodeType(s string) (CodeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return CodeAuto, nil
	case "code-a", "a":
		return CodeTypeA, nil
	case "code-b", "b":
		return CodeTypeB, nil
	}
	return CodeAuto, fmt.Errorf("%w: %q", ErrUnknownCodeType, s)
}

// CodeTable maps single bytes to Hebrew letters. Bytes outside the table
// decode to the rune with the same value.
type CodeTable struct {
	name  string
	runes map[byte]rune
}

// Code A reuses '&' and the uppercase ASCII letters.
var CodeA = CodeTable{
	name: "code-a",
	runes: map[byte]rune{
		38: 'א',
		65: 'ב', 66: 'ג', 67: 'ד', 68: 'ה', 69: 'ו', 70: 'ז', 71: 'ח',
		72: 'ט', 73: 'י', 74: 'ך', 75: 'כ', 76: 'ל', 77: 'ם', 78: 'מ',
		79: 'ן', 80: 'נ', 81: 'ס', 82: 'ע', 83: 'ף', 84: 'פ', 85: 'ץ',
		86: 'צ', 87: 'ק', 88: 'ר', 89: 'ש', 90: 'ת',
	},
}

// Code B occupies 0x80-0x9A, alef to tav in alphabet order.
var CodeB = CodeTable{
	name: "code-b",
	runes: map[byte]rune{
		128: 'א', 129: 'ב', 130: 'ג', 131: 'ד', 132: 'ה', 133: 'ו', 134: 'ז',
		135: 'ח', 136: 'ט', 137: 'י', 138: 'ך', 139: 'כ', 140: 'ל', 141: 'ם',
		142: 'מ', 143: 'ן', 144: 'נ', 145: 'ס', 146: 'ע', 147: 'ף', 148: 'פ',
		149: 'ץ', 150: 'צ', 151: 'ק', 152: 'ר', 153: 'ש', 154: 'ת',
	},
}

const (
	codeBLow  = 128
	codeBHigh = 154
)

func (t CodeTable) Name() string {
	return t.name
}

func (t CodeTable) Lookup(b byte) (rune, bool) {
	r, ok := t.runes[b]
	return r, ok
}

func (t CodeTable) Len() int {
	return len(t.runes)
}

func (t CodeTable) runeFor(b byte) rune {
	if r, ok := t.runes[b]; ok {
		return r
	}
	return rune(b)
}

// Decode maps every byte without trimming.
func (t CodeTable) Decode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteRune(t.runeFor(c))
	}
	return sb.String()
}

// Encoding exposes the table as an x/text encoding. Only decoding is
// supported.
func (t CodeTable) Encoding() encoding.Encoding {
	return tableEncoding{t: t}
}

func TableFor(ct CodeType) CodeTable {
	if ct == CodeTypeB {
		return CodeB
	}
	return CodeA
}

// DetectCode picks Code B if any byte falls in 128..154, else Code A.
func DetectCode(b []byte) CodeType {
	for _, c := range b {
		if c >= codeBLow && c <= codeBHigh {
			return CodeTypeB
		}
	}
	return CodeTypeA
}

// DecodeHebrew never fails: unmapped bytes pass through unchanged.
func DecodeHebrew(b []byte, ct CodeType) string {
	if ct == CodeAuto {
		ct = DetectCode(b)
	}
	return strings.TrimSpace(TableFor(ct).Decode(b))
}

type tableEncoding struct {
	t CodeTable
}

func (e tableEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &tableDecoder{t: e.t}}
}

func (e tableEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: unsupportedEncoder{}}
}

func (e tableEncoding) String() string {
	return "MASAV Hebrew " + e.t.name
}

type tableDecoder struct {
	transform.NopResetter
	t CodeTable
}

func (d *tableDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := d.t.runeFor(src[nSrc])
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

type unsupportedEncoder struct {
	transform.NopResetter
}

func (unsupportedEncoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {
	if len(src) == 0 {
		return 0, 0, nil
	}
	return 0, 0, ErrEncodeUnsupported
}
