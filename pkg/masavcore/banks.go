package masavcore

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed banks.yaml
var banksYAML []byte

type BankRecord struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

type BankDirectory struct {
	records []BankRecord
	byCode  map[string]string
}

func ReadBankDirectory(data []byte) (*BankDirectory, error) {
	var doc struct {
		Banks []BankRecord `yaml:"banks"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("bank directory: %w", err)
	}

	dir := &BankDirectory{byCode: make(map[string]string)}
	for _, rec := range doc.Banks {
		code := normalizeBankCode(rec.Code)
		if code == "" {
			return nil, fmt.Errorf("bank directory: invalid code %q", rec.Code)
		}
		rec.Code = code
		dir.records = append(dir.records, rec)
		dir.byCode[code] = rec.Name
	}

	sort.Slice(dir.records, func(i, j int) bool {
		a, _ := strconv.Atoi(dir.records[i].Code)
		b, _ := strconv.Atoi(dir.records[j].Code)
		return a < b
	})
	return dir, nil
}

// DefaultBanks returns the embedded directory.
func DefaultBanks() *BankDirectory {
	dir, err := ReadBankDirectory(banksYAML)
	if err != nil {
		panic(err)
	}
	return dir
}

// Lookup accepts codes with or without leading zeros ("012" and "12").
func (d *BankDirectory) Lookup(code string) (string, bool) {
	name, ok := d.byCode[normalizeBankCode(code)]
	return name, ok
}

func (d *BankDirectory) Records() []BankRecord {
	return append([]BankRecord(nil), d.records...)
}

func normalizeBankCode(code string) string {
	n, err := strconv.Atoi(strings.TrimSpace(code))
	if err != nil || n < 0 {
		return ""
	}
	return strconv.Itoa(n)
}
