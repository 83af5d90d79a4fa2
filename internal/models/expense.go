package models

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// DateLayout is the day-month-year layout used for Expense.Date.
const DateLayout = "02-01-2006"

var (
	// ErrMissingField is returned by FromMap when a required key is absent.
	ErrMissingField = errors.New("missing field")
	// ErrFieldType is returned by FromMap when a value has an unexpected type.
	ErrFieldType = errors.New("unexpected field type")
)

// Expense represents a single recorded expense.
type Expense struct {
	ID          int64   `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Description string  `json:"description" yaml:"description"`
	Amount      float64 `json:"amount" yaml:"amount"`
	Date        string  `json:"date" yaml:"date"`
}

// New builds an Expense. An empty date is replaced with today's date.
func New(id int64, title, description string, amount float64, date string) Expense {
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	return Expense{
		ID:          id,
		Title:       title,
		Description: description,
		Amount:      amount,
		Date:        date,
	}
}

// ParsedDate returns Date as a time.Time.
func (e Expense) ParsedDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// ToMap returns the expense as a field-name keyed mapping.
func (e Expense) ToMap() map[string]any {
	return map[string]any{
		"id":          e.ID,
		"title":       e.Title,
		"description": e.Description,
		"amount":      e.Amount,
		"date":        e.Date,
	}
}

// FromMap builds an Expense from a mapping as produced by ToMap or by
// decoding a JSON object. All five fields are required.
func FromMap(data map[string]any) (Expense, error) {
	for _, key := range []string{"id", "title", "description", "amount", "date"} {
		if _, ok := data[key]; !ok {
			return Expense{}, fmt.Errorf("%w: %s", ErrMissingField, key)
		}
	}

	id, err := toInt(data["id"])
	if err != nil {
		return Expense{}, fmt.Errorf("id: %w", err)
	}
	amount, err := toFloat(data["amount"])
	if err != nil {
		return Expense{}, fmt.Errorf("amount: %w", err)
	}
	title, ok := data["title"].(string)
	if !ok {
		return Expense{}, fmt.Errorf("title: %w", ErrFieldType)
	}
	description, ok := data["description"].(string)
	if !ok {
		return Expense{}, fmt.Errorf("description: %w", ErrFieldType)
	}
	date, ok := data["date"].(string)
	if !ok {
		return Expense{}, fmt.Errorf("date: %w", ErrFieldType)
	}

	return New(id, title, description, amount, date), nil
}

func toInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, ErrFieldType
		}
		return int64(n), nil
	}
	return 0, ErrFieldType
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, ErrFieldType
}
