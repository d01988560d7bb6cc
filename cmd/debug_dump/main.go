package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/transform"

	"masavread/pkg/masavcore"
)

// Prints every record with the raw and decoded value of each layout field.
func main() {
	var fPath, code string
	var limit int

	cmd := &cobra.Command{
		Use:           "debug_dump -f filename",
		Short:         "Dump MASAV records field by field",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if fPath == "" {
				return cmd.Usage()
			}
			ct, err := masavcore.ParseCodeType(code)
			if err != nil {
				return err
			}
			data, err := os.ReadFile(fPath)
			if err != nil {
				return err
			}
			return dump(cmd.OutOrStdout(), fPath, data, ct, limit)
		},
	}
	cmd.Flags().StringVarP(&fPath, "file", "f", "", "MASAV file path")
	cmd.Flags().StringVar(&code, "code", "auto", "Hebrew code table: auto, code-a or code-b")
	cmd.Flags().IntVar(&limit, "limit", 0, "stop after this many records (0 = all)")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func dump(w io.Writer, name string, data []byte, ct masavcore.CodeType, limit int) error {
	lines := masavcore.SplitRecords(data)
	fmt.Fprintf(w, "--- Debugging %s (%d bytes, %d records) ---\n", name, len(data), len(lines))

	for i, ln := range lines {
		if limit > 0 && i >= limit {
			break
		}
		tag := ln.Data[0]
		fmt.Fprintf(w, "LINE %d: Tag=%q Len=%d\n", ln.No, tag, len(ln.Data))
		if len(ln.Data) != masavcore.RecordLength {
			fmt.Fprintf(w, "  RAW: [%s]\n", printable(ln.Data))
			continue
		}

		layout, ok := masavcore.Layouts[tag]
		if !ok {
			fmt.Fprintf(w, "  UNKNOWN: [%s]\n", printable(ln.Data))
			continue
		}
		for _, f := range layout {
			raw := f.Bytes(ln.Data)
			val, err := fieldText(ln, f, ct)
			if err != nil {
				val = "ERR " + err.Error()
			}
			fmt.Fprintf(w, "  OFFSET %3d-%3d %-16s %-6s HEX=% X VAL=[%s]\n", f.Start, f.End, f.Name, f.Kind, raw, val)
		}
	}
	return nil
}

// Hebrew fields go through the x/text decoder of the selected table so the
// dump shows untrimmed content.
func fieldText(ln masavcore.Line, f masavcore.Field, ct masavcore.CodeType) (string, error) {
	if f.Kind != masavcore.KindHebrew {
		return masavcore.FieldValue(ln.Data, ln.No, f, ct)
	}
	raw := f.Bytes(ln.Data)
	if ct == masavcore.CodeAuto {
		ct = masavcore.DetectCode(raw)
	}
	enc := masavcore.TableFor(ct).Encoding()
	out, err := io.ReadAll(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", out, ct), nil
}

func printable(b []byte) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return '.'
		}
		return r
	}, string(b))
}
