// Package tracker manages the expense collection and its JSON file.
//
// A Tracker is meant for one sequential process: it loads the file once on
// construction and rewrites it in full after every successful mutation. It
// does no locking; concurrent writers to the same file overwrite each other.
package tracker

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"expense-cli/internal/models"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultDataFile is used when New is given an empty path.
const DefaultDataFile = "expenses.json"

// Tracker holds expenses in insertion order, backed by a JSON file.
type Tracker struct {
	path     string
	expenses []models.Expense
	now      func() time.Time
	log      zerolog.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the clock used for creation dates and the current year.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger used for load and save diagnostics.
func WithLogger(l zerolog.Logger) Option {
	return func(t *Tracker) { t.log = l }
}

// New creates a Tracker for path and loads its contents.
func New(path string, opts ...Option) *Tracker {
	if path == "" {
		path = DefaultDataFile
	}
	t := &Tracker{
		path: path,
		now:  time.Now,
		log:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.Load()
	return t
}

// Path returns the backing file path.
func (t *Tracker) Path() string {
	return t.path
}

// Load replaces the in-memory collection with the file contents. A missing
// or malformed file yields an empty collection; no error is returned.
func (t *Tracker) Load() {
	t.expenses = nil

	data, err := os.ReadFile(t.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			t.log.Warn().Err(err).Str("path", t.path).Msg("cannot read data file, starting empty")
		}
		return
	}

	expenses, err := decode(data)
	if err != nil {
		t.log.Warn().Err(err).Str("path", t.path).Msg("malformed data file, starting empty")
		return
	}
	t.expenses = expenses
	t.log.Debug().Str("path", t.path).Int("count", len(expenses)).Msg("loaded expenses")
}

func decode(data []byte) ([]models.Expense, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	expenses := make([]models.Expense, 0, len(raw))
	for i, rec := range raw {
		e, err := models.FromMap(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

// Save writes the full collection to the backing file, overwriting it.
// The write is not atomic.
func (t *Tracker) Save() error {
	records := make([]map[string]any, 0, len(t.expenses))
	for _, e := range t.expenses {
		records = append(records, e.ToMap())
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := os.WriteFile(t.path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", t.path, err)
	}
	t.log.Debug().Str("path", t.path).Int("count", len(t.expenses)).Msg("saved expenses")
	return nil
}

// NextID returns one more than the highest id, or 1 when empty.
// Deleted ids are never handed out again unless they were the highest.
func (t *Tracker) NextID() int64 {
	var maxID int64
	for _, e := range t.expenses {
		maxID = max(maxID, e.ID)
	}
	return maxID + 1
}

// Add records a new expense dated today and saves the collection.
func (t *Tracker) Add(title, description string, amount float64) (models.Expense, error) {
	if !validAmount(amount) {
		return models.Expense{}, ErrInvalidAmount
	}

	e := models.New(t.NextID(), title, description, amount, t.now().Format(models.DateLayout))
	t.expenses = append(t.expenses, e)
	if err := t.Save(); err != nil {
		t.expenses = t.expenses[:len(t.expenses)-1]
		return models.Expense{}, err
	}
	return e, nil
}

// Delete removes the expense with the given id. It reports false, without
// saving, when no such expense exists.
func (t *Tracker) Delete(id int64) (bool, error) {
	i := t.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t.expenses = slices.Delete(t.expenses, i, i+1)
	if err := t.Save(); err != nil {
		return true, err
	}
	return true, nil
}

// UpdateFields lists the fields to change; nil leaves a field as is.
type UpdateFields struct {
	Title       *string
	Description *string
	Amount      *float64
}

// Update changes the supplied fields of an expense. Id and date never change.
// All fields are validated before any is applied, so a failed update
// leaves the expense untouched.
func (t *Tracker) Update(id int64, f UpdateFields) (bool, error) {
	i := t.indexOf(id)
	if i < 0 {
		return false, nil
	}
	if f.Amount != nil && !validAmount(*f.Amount) {
		return false, ErrInvalidAmount
	}

	e := &t.expenses[i]
	if f.Title != nil {
		e.Title = *f.Title
	}
	if f.Description != nil {
		e.Description = *f.Description
	}
	if f.Amount != nil {
		e.Amount = *f.Amount
	}
	if err := t.Save(); err != nil {
		return true, err
	}
	return true, nil
}

// List returns a copy of all expenses in insertion order.
func (t *Tracker) List() []models.Expense {
	return slices.Clone(t.expenses)
}

// Total sums expense amounts. A month of 0 sums everything; months 1-12
// restrict the sum to that month of the current year.
func (t *Tracker) Total(month int) (float64, error) {
	currentYear := t.now().Year()
	total := decimal.Zero

	for _, e := range t.expenses {
		date, err := e.ParsedDate()
		if err != nil {
			return 0, fmt.Errorf("%w %q for expense %d", ErrInvalidDate, e.Date, e.ID)
		}
		if month != 0 && (int(date.Month()) != month || date.Year() != currentYear) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(e.Amount))
	}

	f, _ := total.Float64()
	return f, nil
}

// validAmount reports whether amount is a finite number above zero.
func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}

func (t *Tracker) indexOf(id int64) int {
	return slices.IndexFunc(t.expenses, func(e models.Expense) bool { return e.ID == id })
}
