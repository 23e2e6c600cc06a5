package names

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"
)

//go:embed nicknames.csv
var embeddedNicknames string

var (
	defaultOnce  sync.Once
	defaultTable *NicknameTable
)

// NicknameTable is an in-memory two-way nickname lookup.
type NicknameTable struct {
	nicknames  map[string][]string
	canonicals map[string][]string
}

var _ VariationProvider = (*NicknameTable)(nil)

// DefaultNicknames returns the table built from the embedded English nickname list.
func DefaultNicknames() *NicknameTable {
	defaultOnce.Do(func() {
		table, err := LoadNicknames(strings.NewReader(embeddedNicknames))
		if err != nil {
			panic(fmt.Sprintf("names: embedded nickname list: %v", err))
		}
		defaultTable = table
	})
	return defaultTable
}

// LoadNicknames reads rows of "canonical,nickname,nickname,...".
func LoadNicknames(r io.Reader) (*NicknameTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	table := &NicknameTable{
		nicknames:  map[string][]string{},
		canonicals: map[string][]string{},
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read nickname row: %w", err)
		}
		if len(record) < 2 {
			continue
		}

		canonical := strings.ToLower(strings.TrimSpace(record[0]))
		if canonical == "" {
			continue
		}
		for _, raw := range record[1:] {
			nick := strings.ToLower(strings.TrimSpace(raw))
			if nick == "" || nick == canonical {
				continue
			}
			table.add(canonical, nick)
		}
	}

	return table, nil
}

func (t *NicknameTable) add(canonical, nick string) {
	if !slices.Contains(t.nicknames[canonical], nick) {
		t.nicknames[canonical] = append(t.nicknames[canonical], nick)
	}
	if !slices.Contains(t.canonicals[nick], canonical) {
		t.canonicals[nick] = append(t.canonicals[nick], canonical)
	}
}

// NicknamesOf returns informal forms of a canonical name, e.g. robert -> bob, rob.
func (t *NicknameTable) NicknamesOf(name string) []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.nicknames[strings.ToLower(name)])
}

// CanonicalsOf returns the formal names a nickname may stand for, e.g. bob -> robert.
func (t *NicknameTable) CanonicalsOf(name string) []string {
	if t == nil {
		return nil
	}
	return slices.Clone(t.canonicals[strings.ToLower(name)])
}
