package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
	"github.com/corkboardapp/corkboard-server/internal/store"
)

// shelfColumns is the ordered list of columns selected in shelf queries.
// Must match the scan order in scanShelf.
const shelfColumns = `id, created_at, updated_at, user_id, name, description, color, icon,
	rank, is_default, is_archived`

// scanShelf scans a sql.Row (or sql.Rows via its Scan method) into a domain.Shelf.
func scanShelf(scanner interface{ Scan(dest ...any) error }) (*domain.Shelf, error) {
	var sh domain.Shelf

	var (
		createdAt   string
		updatedAt   string
		description sql.NullString
		color       sql.NullString
		icon        sql.NullString
		isDefault   int
		isArchived  int
	)

	err := scanner.Scan(
		&sh.ID,
		&createdAt,
		&updatedAt,
		&sh.OwnerID,
		&sh.Name,
		&description,
		&color,
		&icon,
		&sh.Rank,
		&isDefault,
		&isArchived,
	)
	if err != nil {
		return nil, err
	}

	// Parse timestamps.
	sh.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	sh.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	// Optional string fields.
	if description.Valid {
		sh.Description = description.String
	}
	if color.Valid {
		sh.Color = color.String
	}
	if icon.Valid {
		sh.Icon = icon.String
	}

	sh.IsDefault = isDefault != 0
	sh.IsArchived = isArchived != 0

	return &sh, nil
}

// CreateShelf inserts a new shelf at the end of the user's board.
// The rank is assigned inside the insert so concurrent creates stay dense.
func (s *Store) CreateShelf(ctx context.Context, shelf *domain.Shelf) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Append: next rank is one past the current maximum.
	var rank int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(rank) + 1, 0) FROM shelves WHERE user_id = ?`,
		shelf.OwnerID).Scan(&rank)
	if err != nil {
		return err
	}
	shelf.Rank = rank

	_, err = tx.ExecContext(ctx, `
		INSERT INTO shelves (
			id, created_at, updated_at, user_id, name, description, color, icon,
			rank, is_default, is_archived
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		shelf.ID,
		formatTime(shelf.CreatedAt),
		formatTime(shelf.UpdatedAt),
		shelf.OwnerID,
		shelf.Name,
		nullString(shelf.Description),
		nullString(shelf.Color),
		nullString(shelf.Icon),
		shelf.Rank,
		boolToInt(shelf.IsDefault),
		boolToInt(shelf.IsArchived),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrAlreadyExists
		}
		return err
	}

	return tx.Commit()
}

// GetShelf retrieves a shelf by ID, scoped to its owner.
// Returns store.ErrNotFound when missing or owned by another user.
func (s *Store) GetShelf(ctx context.Context, userID, id string) (*domain.Shelf, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+shelfColumns+` FROM shelves WHERE id = ? AND user_id = ?`, id, userID)

	sh, err := scanShelf(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// ListShelves returns a user's shelves in rank order.
// Archived shelves are excluded unless includeArchived is set.
func (s *Store) ListShelves(ctx context.Context, userID string, includeArchived bool) ([]*domain.Shelf, error) {
	query := `SELECT ` + shelfColumns + ` FROM shelves WHERE user_id = ?`
	if !includeArchived {
		query += ` AND is_archived = 0`
	}
	query += ` ORDER BY rank`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var shelves []*domain.Shelf
	for rows.Next() {
		sh, err := scanShelf(rows)
		if err != nil {
			return nil, err
		}
		shelves = append(shelves, sh)
	}
	return shelves, rows.Err()
}

// UpdateShelf writes the mutable shelf fields, scoped to the owner.
// Rank is managed by ReorderShelves and left untouched here.
func (s *Store) UpdateShelf(ctx context.Context, shelf *domain.Shelf) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE shelves SET
			updated_at = ?, name = ?, description = ?, color = ?, icon = ?, is_archived = ?
		WHERE id = ? AND user_id = ?`,
		formatTime(shelf.UpdatedAt),
		shelf.Name,
		nullString(shelf.Description),
		nullString(shelf.Color),
		nullString(shelf.Icon),
		boolToInt(shelf.IsArchived),
		shelf.ID,
		shelf.OwnerID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// DeleteShelf removes a shelf and, via cascade, its positions, then renumbers
// the remaining shelves so ranks stay dense.
func (s *Store) DeleteShelf(ctx context.Context, userID, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`DELETE FROM shelves WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}

	if err := renumberShelves(ctx, tx, userID); err != nil {
		return fmt.Errorf("renumber shelves: %w", err)
	}

	return tx.Commit()
}

// ReorderShelves rewrites shelf ranks to match the given ID order.
// Every shelf ID must belong to the user; any miss aborts the transaction.
func (s *Store) ReorderShelves(ctx context.Context, userID string, shelfIDs []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for i, shelfID := range shelfIDs {
		res, err := tx.ExecContext(ctx,
			`UPDATE shelves SET rank = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
			i, formatTime(time.Now()), shelfID, userID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return store.ErrNotFound
		}
	}

	return tx.Commit()
}

// renumberShelves rewrites a user's shelf ranks to 0..n-1 in current order.
func renumberShelves(ctx context.Context, tx *sql.Tx, userID string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM shelves WHERE user_id = ? ORDER BY rank`, userID)
	if err != nil {
		return err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, id := range ids {
		if _, err := tx.ExecContext(ctx,
			`UPDATE shelves SET rank = ? WHERE id = ?`, i, id); err != nil {
			return err
		}
	}
	return nil
}
