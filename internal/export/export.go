// Package export writes the expense collection to other file formats.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"expense-cli/internal/models"
	"expense-cli/internal/storage"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned for an unsupported export format.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the accepted format names.
var Formats = []string{"json", "yaml", "csv", "sqlite"}

// Encoder turns a list of expenses into file contents.
type Encoder interface {
	Encode(expenses []models.Expense) ([]byte, error)
}

// JSONEncoder produces the same layout as the data file.
type JSONEncoder struct{}

func (JSONEncoder) Encode(expenses []models.Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return json.MarshalIndent(expenses, "", "  ")
}

// YAMLEncoder writes a YAML sequence of expenses.
type YAMLEncoder struct{}

func (YAMLEncoder) Encode(expenses []models.Expense) ([]byte, error) {
	if expenses == nil {
		expenses = []models.Expense{}
	}
	return yaml.Marshal(expenses)
}

// CSVEncoder writes a header row followed by one row per expense.
// Amounts are fixed to two decimals.
type CSVEncoder struct{}

func (CSVEncoder) Encode(expenses []models.Expense) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "title", "description", "amount", "date"}); err != nil {
		return nil, err
	}
	for _, e := range expenses {
		rec := []string{
			strconv.FormatInt(e.ID, 10),
			e.Title,
			e.Description,
			decimal.NewFromFloat(e.Amount).StringFixed(2),
			e.Date,
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// EncoderFor returns the encoder for a file format.
func EncoderFor(format string) (Encoder, error) {
	switch strings.ToLower(format) {
	case "json":
		return JSONEncoder{}, nil
	case "yaml", "yml":
		return YAMLEncoder{}, nil
	case "csv":
		return CSVEncoder{}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// ToFile writes expenses to path in the given format. The sqlite format
// replaces the snapshot table of the database at path.
func ToFile(path, format string, expenses []models.Expense) error {
	if strings.EqualFold(format, "sqlite") {
		return toSQLite(path, expenses)
	}

	enc, err := EncoderFor(format)
	if err != nil {
		return err
	}
	b, err := enc.Encode(expenses)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return os.WriteFile(path, b, 0o644)
}

func toSQLite(path string, expenses []models.Expense) error {
	db, err := storage.NewDB(path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	return db.ReplaceExpenses(expenses)
}
