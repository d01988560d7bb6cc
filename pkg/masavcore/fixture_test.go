package masavcore

import (
	"bytes"
	"strings"
)

// buildRecord lays values into a space-filled 128-byte record.
func buildRecord(tag byte, values map[Field]string) []byte {
	rec := bytes.Repeat([]byte{' '}, RecordLength)
	rec[0] = tag
	for f, v := range values {
		if len(v) > f.Len() {
			panic("value too long for " + f.Name)
		}
		copy(rec[f.Start:f.End], v)
	}
	return rec
}

func headerRecord(name string) []byte {
	return buildRecord(TagHeader, map[Field]string{
		HeaderInstitution: "12345678",
		HeaderPaymentDate: "241125",
		HeaderSequence:    "001",
		HeaderName:        padLeft(name, HeaderName.Len()),
	})
}

func detailRecord(name, benefID, amount, ref string) []byte {
	return buildRecord(TagDetail, map[Field]string{
		DetailInstitution:   "12345678",
		DetailBank:          "12",
		DetailBranch:        "345",
		DetailAccount:       "000123456",
		DetailBeneficiaryID: benefID,
		DetailName:          padLeft(name, DetailName.Len()),
		DetailAmount:        padZero(amount, DetailAmount.Len()),
		DetailReference:     ref,
	})
}

func trailerRecord(total string, count string) []byte {
	return buildRecord(TagTrailer, map[Field]string{
		TrailerTotal: padZero(total, TrailerTotal.Len()),
		TrailerCount: padZero(count, TrailerCount.Len()),
	})
}

func eofRecord() []byte {
	return bytes.Repeat([]byte{TagEOF}, RecordLength)
}

func joinRecords(recs ...[]byte) []byte {
	var buf bytes.Buffer
	for _, r := range recs {
		buf.Write(r)
		buf.WriteString(LineSeparator)
	}
	return buf.Bytes()
}

func padLeft(s string, n int) string {
	return strings.Repeat(" ", n-len(s)) + s
}

func padZero(s string, n int) string {
	return strings.Repeat("0", n-len(s)) + s
}
