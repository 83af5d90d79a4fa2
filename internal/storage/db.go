package storage

import (
	"database/sql"
	"fmt"

	"expense-cli/internal/models"

	// Import sqlite driver
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection holding an expense snapshot.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// One connection keeps ":memory:" databases consistent across calls.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS expenses (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL,
		amount REAL NOT NULL,
		date TEXT NOT NULL
	)`)
	return err
}

// ReplaceExpenses swaps the stored snapshot for the given expenses in a
// single transaction.
func (db *DB) ReplaceExpenses(expenses []models.Expense) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM expenses"); err != nil {
		return err
	}

	stmt, err := tx.Prepare("INSERT INTO expenses (id, title, description, amount, date) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range expenses {
		if _, err := stmt.Exec(e.ID, e.Title, e.Description, e.Amount, e.Date); err != nil {
			return fmt.Errorf("insert expense %d: %w", e.ID, err)
		}
	}

	return tx.Commit()
}

// ListExpenses retrieves the stored snapshot ordered by id.
func (db *DB) ListExpenses() ([]models.Expense, error) {
	rows, err := db.conn.Query("SELECT id, title, description, amount, date FROM expenses ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Amount, &e.Date); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}

	return expenses, rows.Err()
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
