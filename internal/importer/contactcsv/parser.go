package contactcsv

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/dealdesk/internal/contact"
	enc "github.com/MrJamesThe3rd/dealdesk/internal/encoding"
)

// Parser reads contact CSV exports and produces contact params.
// It auto-detects the source (our own export, Google or Outlook) by
// matching column headers, and accepts comma or semicolon separators.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Parse reads every contact row. Rows without a role column, or with an
// unrecognized role, get defaultRole.
func (p *Parser) Parse(r io.Reader, defaultRole contact.Role) ([]contact.CreateParams, error) {
	utf8r, charset, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	for _, sep := range separators(data) {
		rows, err := readRows(data, sep)
		if err != nil {
			continue
		}

		profile, cols, headerIdx := detectProfile(rows)
		if profile == nil {
			continue
		}

		slog.Debug("parsing contacts csv", "profile", profile.Name, "charset", charset, "separator", string(sep))

		return parseRows(profile, cols, rows[headerIdx+1:], defaultRole), nil
	}

	return nil, fmt.Errorf("no matching contacts format found: expected dealdesk, google, or outlook columns")
}

// separators orders the candidate separators by how often they occur in the first line.
func separators(data []byte) []rune {
	first, _, _ := bytes.Cut(data, []byte("\n"))
	if bytes.Count(first, []byte(";")) > bytes.Count(first, []byte(",")) {
		return []rune{';', ','}
	}

	return []rune{',', ';'}
}

func readRows(data []byte, sep rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	return reader.ReadAll()
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.TrimSpace(cell)
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows turns data rows into contact params. Rows with no name at all are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, defaultRole contact.Role) []contact.CreateParams {
	cell := func(row []string, name string) string {
		idx, ok := cols[name]
		if !ok || name == "" {
			return ""
		}

		return cellValue(row, idx)
	}

	var params []contact.CreateParams

	for _, row := range rows {
		first := cell(row, p.FirstNameCol)
		last := cell(row, p.LastNameCol)

		if first == "" {
			first, last = last, ""
		}

		if first == "" {
			continue
		}

		role := parseRole(cell(row, p.RoleCol), defaultRole)

		cp := contact.CreateParams{
			FirstName: first,
			LastName:  last,
			Email:     cell(row, p.EmailCol),
			Phone:     cell(row, p.PhoneCol),
			Address:   cell(row, p.AddressCol),
			Notes:     cell(row, p.NotesCol),
			Role:      role,
		}

		if role == contact.RoleBuyer {
			cp.BuyerType = parseBuyerType(cell(row, p.BuyerTypeCol))
			cp.ActivelyBuying = true
		}

		if role == contact.RoleSeller {
			cp.ActivelySelling = true
		}

		params = append(params, cp)
	}

	return params
}

func parseRole(s string, fallback contact.Role) contact.Role {
	r := contact.Role(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range contact.Roles {
		if r == known {
			return r
		}
	}

	return fallback
}

func parseBuyerType(s string) contact.BuyerType {
	bt := contact.BuyerType(strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", "-")))

	switch bt {
	case contact.BuyerFirstTime, contact.BuyerMoveUp, contact.BuyerInvestor, contact.BuyerDownsizer, contact.BuyerRelocating:
		return bt
	}

	return ""
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
