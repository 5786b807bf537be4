package sqlite

import (
	"context"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

// GetBoard loads a user's shelves with their positions in one call: shelves in
// rank order, positions in rank order within each shelf.
func (s *Store) GetBoard(ctx context.Context, userID string, includeArchived bool) (*domain.Board, error) {
	shelves, err := s.ListShelves(ctx, userID, includeArchived)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+positionColumns+` FROM book_positions
		 WHERE user_id = ? ORDER BY shelf_id, rank`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byShelf := make(map[string][]domain.BookPosition)
	for rows.Next() {
		p, err := scanPosition(rows)
		if err != nil {
			return nil, err
		}
		byShelf[p.ShelfID] = append(byShelf[p.ShelfID], *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	board := &domain.Board{Shelves: make([]domain.BoardShelf, 0, len(shelves))}
	for _, sh := range shelves {
		positions := byShelf[sh.ID]
		if positions == nil {
			positions = []domain.BookPosition{}
		}
		board.Shelves = append(board.Shelves, domain.BoardShelf{
			Shelf:     *sh,
			Positions: positions,
		})
	}
	return board, nil
}
