package service

import (
	"context"
	"log/slog"
	"strings"

	domainerrors "github.com/corkboardapp/corkboard-server/internal/errors"
	"github.com/corkboardapp/corkboard-server/internal/metadata/googlebooks"
)

// SearchService looks up book metadata in the Google Books catalog for
// adding books to the library.
type SearchService struct {
	catalog *googlebooks.Client
	logger  *slog.Logger
}

// NewSearchService creates a new catalog search service.
func NewSearchService(catalog *googlebooks.Client, logger *slog.Logger) *SearchService {
	return &SearchService{
		catalog: catalog,
		logger:  logger,
	}
}

// SearchParams narrows a catalog search. Query is a free-text search;
// Title/Author run a structured search; ISBN looks up a single volume.
type SearchParams struct {
	Query  string `json:"query"`
	Title  string `json:"title"`
	Author string `json:"author"`
	ISBN   string `json:"isbn"`
}

// Search queries the catalog. Exactly one lookup strategy runs, picked in
// order of specificity: ISBN, then title/author, then free text.
func (s *SearchService) Search(ctx context.Context, params SearchParams) ([]googlebooks.BookResult, error) {
	switch {
	case strings.TrimSpace(params.ISBN) != "":
		result, err := s.catalog.SearchByISBN(ctx, params.ISBN)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "catalog lookup failed")
		}
		if result == nil {
			return []googlebooks.BookResult{}, nil
		}
		return []googlebooks.BookResult{*result}, nil

	case strings.TrimSpace(params.Title) != "":
		results, err := s.catalog.SearchByTitleAndAuthor(ctx, params.Title, params.Author)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "catalog search failed")
		}
		return results, nil

	case strings.TrimSpace(params.Query) != "":
		results, err := s.catalog.Search(ctx, params.Query)
		if err != nil {
			return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "catalog search failed")
		}
		return results, nil

	default:
		return nil, domainerrors.Validation("one of query, title, or isbn is required")
	}
}
