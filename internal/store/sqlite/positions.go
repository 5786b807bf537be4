package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// positionColumns is the ordered list of columns selected in position queries.
// Must match the scan order in scanPosition.
const positionColumns = `id, created_at, updated_at, user_id, book_id, shelf_id,
	rank, master_rank, year_completed`

// scanPosition scans a sql.Row (or sql.Rows via its Scan method) into a domain.BookPosition.
func scanPosition(scanner interface{ Scan(dest ...any) error }) (*domain.BookPosition, error) {
	var p domain.BookPosition

	var (
		createdAt     string
		updatedAt     string
		masterRank    sql.NullInt64
		yearCompleted sql.NullInt64
	)

	err := scanner.Scan(
		&p.ID,
		&createdAt,
		&updatedAt,
		&p.UserID,
		&p.BookID,
		&p.ShelfID,
		&p.Rank,
		&masterRank,
		&yearCompleted,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	p.MasterRank = intPtr(masterRank)
	p.YearCompleted = intPtr(yearCompleted)

	return &p, nil
}

// CreatePosition appends a book to the end of a shelf.
// The rank is assigned inside the transaction so appends stay dense.
// Returns store.ErrAlreadyExists when the book already has a position.
func (s *Store) CreatePosition(ctx context.Context, pos *domain.BookPosition) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var rank int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM book_positions WHERE shelf_id = ? AND user_id = ?`,
		pos.ShelfID, pos.UserID).Scan(&rank)
	if err != nil {
		return err
	}
	pos.Rank = rank

	_, err = tx.ExecContext(ctx, `
		INSERT INTO book_positions (
			id, created_at, updated_at, user_id, book_id, shelf_id,
			rank, master_rank, year_completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		pos.ID,
		formatTime(pos.CreatedAt),
		formatTime(pos.UpdatedAt),
		pos.UserID,
		pos.BookID,
		pos.ShelfID,
		pos.Rank,
		nullInt(pos.MasterRank),
		nullInt(pos.YearCompleted),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit()
}

// GetPositionByBook retrieves the position row for a book, scoped to its owner.
// Returns store.ErrNotFound when the book has no position.
func (s *Store) GetPositionByBook(ctx context.Context, userID, bookID string) (*domain.BookPosition, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM book_positions WHERE book_id = ? AND user_id = ?`,
		bookID, userID)

	p, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListShelfPositions returns a shelf's positions in rank order.
func (s *Store) ListShelfPositions(ctx context.Context, userID, shelfID string) ([]*domain.BookPosition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+positionColumns+` FROM book_positions
		 WHERE shelf_id = ? AND user_id = ? ORDER BY rank`,
		shelfID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []*domain.BookPosition
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		positions = append(positions, p)
	}
	return positions, rows.Err()
}

// ApplyMove relocates a position row and renumbers the affected shelves in one
// transaction. When move.Book is set, its derived fields are written in the
// same transaction so the position and the book never drift apart.
// Returns the updated position.
func (s *Store) ApplyMove(ctx context.Context, move store.Move) (*domain.BookPosition, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+positionColumns+` FROM book_positions WHERE id = ? AND user_id = ?`,
		move.PositionID, move.UserID)
	pos, err := scanPosition(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	fromShelfID := pos.ShelfID

	// Destination ordering, minus the moving row.
	destIDs, err := shelfPositionIDs(ctx, tx, move.UserID, move.ToShelfID, pos.ID)
	if err != nil {
		return nil, err
	}

	// Clamp the insertion point and splice the moving row in.
	idx := move.Index
	if idx < 0 {
		idx = 0
	}
	if idx > len(destIDs) {
		idx = len(destIDs)
	}
	destIDs = slices.Insert(destIDs, idx, pos.ID)

	now := time.Now()
	_, err = tx.ExecContext(ctx,
		`UPDATE book_positions SET shelf_id = ?, updated_at = ? WHERE id = ?`,
		move.ToShelfID, formatTime(now), pos.ID)
	if err != nil {
		return nil, err
	}

	if err := renumberPositions(ctx, tx, destIDs); err != nil {
		return nil, fmt.Errorf("renumber destination shelf: %w", err)
	}

	// Cross-shelf move leaves a gap in the source shelf; close it.
	if fromShelfID != move.ToShelfID {
		sourceIDs, err := shelfPositionIDs(ctx, tx, move.UserID, fromShelfID, pos.ID)
		if err != nil {
			return nil, err
		}
		if err := renumberPositions(ctx, tx, sourceIDs); err != nil {
			return nil, fmt.Errorf("renumber source shelf: %w", err)
		}
	}

	if move.Book != nil {
		res, err := tx.ExecContext(ctx, `
			UPDATE books SET
				updated_at = ?, status = ?, date_started = ?, date_completed = ?
			WHERE id = ? AND user_id = ?`,
			formatTime(move.Book.UpdatedAt),
			string(move.Book.Status),
			nullString(move.Book.DateStarted),
			nullString(move.Book.DateCompleted),
			move.Book.ID,
			move.UserID,
		)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		if affected == 0 {
			return nil, store.ErrNotFound
		}
	}

	pos.ShelfID = move.ToShelfID
	pos.Rank = idx
	pos.UpdatedAt = now

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return pos, nil
}

// shelfPositionIDs returns a shelf's position IDs in rank order, excluding one.
func shelfPositionIDs(ctx context.Context, tx *sql.Tx, userID, shelfID, excludeID string) ([]string, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM book_positions
		 WHERE shelf_id = ? AND user_id = ? AND id != ? ORDER BY rank`,
		shelfID, userID, excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// renumberPositions writes ranks 0..n-1 following the order of ids.
func renumberPositions(ctx context.Context, tx *sql.Tx, ids []string) error {
	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE book_positions SET rank = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return nil
}
