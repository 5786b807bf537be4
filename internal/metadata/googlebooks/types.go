// Package googlebooks provides a client for searching the Google Books API.
package googlebooks

// BookResult represents a book from a Google Books search, flattened and
// cleaned up for catalog use.
type BookResult struct {
	GoogleBooksID     string `json:"google_books_id"`
	Title             string `json:"title"`
	Subtitle          string `json:"subtitle,omitempty"`
	Author            string `json:"author,omitempty"`
	Publisher         string `json:"publisher,omitempty"`
	PublishedDate     string `json:"published_date,omitempty"`
	Description       string `json:"description,omitempty"` // Markdown
	ISBN              string `json:"isbn,omitempty"`
	PageCount         int    `json:"page_count,omitempty"`
	Language          string `json:"language,omitempty"`
	CoverURL          string `json:"cover_url,omitempty"`
	CoverThumbnailURL string `json:"cover_thumbnail_url,omitempty"`
}

// volumesResponse is the raw Google Books API response.
type volumesResponse struct {
	TotalItems int      `json:"totalItems"`
	Items      []volume `json:"items"`
}

// volume is a single item from a volumes query.
type volume struct {
	ID         string     `json:"id"`
	VolumeInfo volumeInfo `json:"volumeInfo"`
}

type volumeInfo struct {
	Title               string               `json:"title"`
	Subtitle            string               `json:"subtitle,omitempty"`
	Authors             []string             `json:"authors,omitempty"`
	Publisher           string               `json:"publisher,omitempty"`
	PublishedDate       string               `json:"publishedDate,omitempty"`
	Description         string               `json:"description,omitempty"`
	IndustryIdentifiers []industryIdentifier `json:"industryIdentifiers,omitempty"`
	PageCount           int                  `json:"pageCount,omitempty"`
	Language            string               `json:"language,omitempty"`
	ImageLinks          imageLinks           `json:"imageLinks,omitempty"`
}

type industryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// imageLinks holds cover URLs at increasing resolutions. Most volumes only
// populate smallThumbnail and thumbnail.
type imageLinks struct {
	SmallThumbnail string `json:"smallThumbnail,omitempty"`
	Thumbnail      string `json:"thumbnail,omitempty"`
	Small          string `json:"small,omitempty"`
	Medium         string `json:"medium,omitempty"`
	Large          string `json:"large,omitempty"`
	ExtraLarge     string `json:"extraLarge,omitempty"`
}
