package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"masavread/pkg/config"
	"masavread/pkg/masavcore"
)

var masavExtensions = map[string]bool{".txt": true, ".dat": true, ".msv": true}

type tally struct {
	pass, warn, fail int
}

func main() {
	cfg := config.Load()
	var dirPath string

	cmd := &cobra.Command{
		Use:           "test_full -d directory",
		Short:         "Parse and reconcile every MASAV file in a directory",
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := config.NewLogger(cfg.LogLevel)
			ct, err := masavcore.ParseCodeType(cfg.Code)
			if err != nil {
				return err
			}

			files, err := findFiles(dirPath)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "=== MASAV Feature Test Suite ===")
			fmt.Fprintf(out, "Scanning directory: %s\n", dirPath)
			fmt.Fprintf(out, "Found %d candidate files.\n", len(files))
			fmt.Fprintln(out, "---------------------------------------------------")

			var t tally
			for _, path := range files {
				p := masavcore.NewParser(&masavcore.Collector{})
				p.Code = ct
				p.Log = log
				checkFile(out, p, path, &t)
			}

			fmt.Fprintln(out, "---------------------------------------------------")
			fmt.Fprintf(out, "Test Complete. Passed: %d, Warned: %d, Failed: %d\n", t.pass, t.warn, t.fail)
			if t.fail > 0 {
				return fmt.Errorf("%d file(s) failed", t.fail)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&dirPath, "dir", "d", ".", "directory containing MASAV files")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func findFiles(root string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && masavExtensions[strings.ToLower(filepath.Ext(path))] {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func checkFile(out io.Writer, p *masavcore.Parser, path string, t *tally) {
	fmt.Fprintf(out, "Testing %s ... ", filepath.Base(path))

	s, err := p.ProcessFile(path)
	if err != nil {
		var fe *masavcore.FieldError
		if errors.As(err, &fe) {
			fmt.Fprintf(out, "[FAIL] %v\n", fe)
		} else {
			fmt.Fprintf(out, "[FAIL] %v\n", err)
		}
		t.fail++
		return
	}

	var problems []string
	if s.Warnings > 0 {
		problems = append(problems, fmt.Sprintf("%d bad line(s)", s.Warnings))
	}
	for _, e := range multierr.Errors(s.Reconcile()) {
		problems = append(problems, e.Error())
	}
	if len(problems) > 0 {
		fmt.Fprintf(out, "[WARN] %s\n", strings.Join(problems, "; "))
		t.warn++
		return
	}

	fmt.Fprintf(out, "[PASS] Transfers: %d | Total: %s\n", s.Count, masavcore.FormatAmount(s.Total))
	t.pass++
}
