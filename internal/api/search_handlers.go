package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/corkboardapp/corkboard-server/internal/metadata/googlebooks"
	"github.com/corkboardapp/corkboard-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search/books",
		Summary:     "Search book catalog",
		Description: "Searches the external book catalog by free-text query, title/author, or ISBN",
		Tags:        []string{"Search"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchCatalog)
}

// SearchCatalogInput contains catalog search parameters. Exactly one search
// strategy is picked: ISBN wins over title/author, which wins over the
// free-text query.
type SearchCatalogInput struct {
	Authorization string `header:"Authorization"`
	Query         string `query:"q" doc:"Free-text search query"`
	Title         string `query:"title" doc:"Title to search for"`
	Author        string `query:"author" doc:"Author to search for, combined with title"`
	ISBN          string `query:"isbn" doc:"ISBN-10 or ISBN-13, hyphens allowed"`
}

// CatalogBookResponse contains one catalog search result.
type CatalogBookResponse struct {
	GoogleBooksID     string `json:"google_books_id" doc:"Google Books volume ID"`
	Title             string `json:"title" doc:"Book title"`
	Subtitle          string `json:"subtitle,omitempty" doc:"Book subtitle"`
	Author            string `json:"author,omitempty" doc:"Author name"`
	Publisher         string `json:"publisher,omitempty" doc:"Publisher name"`
	PublishedDate     string `json:"published_date,omitempty" doc:"Publication date, possibly partial"`
	Description       string `json:"description,omitempty" doc:"Description in Markdown"`
	ISBN              string `json:"isbn,omitempty" doc:"ISBN, preferring ISBN-13"`
	PageCount         int    `json:"page_count,omitempty" doc:"Number of pages"`
	Language          string `json:"language,omitempty" doc:"ISO 639-1 language code"`
	CoverURL          string `json:"cover_url,omitempty" doc:"Cover image URL"`
	CoverThumbnailURL string `json:"cover_thumbnail_url,omitempty" doc:"Cover thumbnail URL"`
}

// SearchCatalogResponse contains catalog search results.
type SearchCatalogResponse struct {
	Results []CatalogBookResponse `json:"results" doc:"Matching catalog entries"`
}

// SearchCatalogOutput wraps the search response for Huma.
type SearchCatalogOutput struct {
	Body SearchCatalogResponse
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *SearchCatalogInput) (*SearchCatalogOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	results, err := s.services.Search.Search(ctx, service.SearchParams{
		Query:  input.Query,
		Title:  input.Title,
		Author: input.Author,
		ISBN:   input.ISBN,
	})
	if err != nil {
		return nil, err
	}

	resp := make([]CatalogBookResponse, len(results))
	for i, r := range results {
		resp[i] = mapCatalogBookResponse(r)
	}

	return &SearchCatalogOutput{Body: SearchCatalogResponse{Results: resp}}, nil
}

func mapCatalogBookResponse(r googlebooks.BookResult) CatalogBookResponse {
	return CatalogBookResponse{
		GoogleBooksID:     r.GoogleBooksID,
		Title:             r.Title,
		Subtitle:          r.Subtitle,
		Author:            r.Author,
		Publisher:         r.Publisher,
		PublishedDate:     r.PublishedDate,
		Description:       r.Description,
		ISBN:              r.ISBN,
		PageCount:         r.PageCount,
		Language:          r.Language,
		CoverURL:          r.CoverURL,
		CoverThumbnailURL: r.CoverThumbnailURL,
	}
}
