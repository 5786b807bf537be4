package googlebooks

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

const defaultLimit = 10

// Search queries Google Books for volumes matching the query and returns
// cleaned-up results. Descriptions are converted from HTML to Markdown and
// cover URLs are upgraded to https.
func (c *Client) Search(ctx context.Context, query string) ([]BookResult, error) {
	if err := c.wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", defaultLimit))
	params.Set("printType", "books")
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	searchURL := c.baseURL + "?" + params.Encode()

	c.logger.Debug("searching Google Books",
		"query", query,
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search failed: status %d", resp.StatusCode)
	}

	var volumesResp volumesResponse
	if err := json.UnmarshalRead(resp.Body, &volumesResp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	c.logger.Debug("Google Books search results",
		"query", query,
		"count", volumesResp.TotalItems,
	)

	results := make([]BookResult, 0, len(volumesResp.Items))
	for i := range volumesResp.Items {
		v := &volumesResp.Items[i]
		if v.VolumeInfo.Title == "" {
			continue
		}
		results = append(results, c.convertVolume(v))
	}

	return results, nil
}

// SearchByISBN looks up a single volume by ISBN. Returns nil when no
// volume matches.
func (c *Client) SearchByISBN(ctx context.Context, isbn string) (*BookResult, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(isbn), "-", "")
	results, err := c.Search(ctx, "isbn:"+cleaned)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return &results[0], nil
}

// SearchByTitleAndAuthor searches using structured query terms for better
// matching than a plain keyword search.
func (c *Client) SearchByTitleAndAuthor(ctx context.Context, title, author string) ([]BookResult, error) {
	query := "intitle:" + strings.TrimSpace(title)
	if author != "" {
		query = query + " inauthor:" + strings.TrimSpace(author)
	}

	results, err := c.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		return results, nil
	}

	// Structured queries miss volumes with sparse metadata. Retry as a
	// plain keyword search before giving up.
	fallback := strings.TrimSpace(title + " " + author)
	return c.Search(ctx, fallback)
}

// convertVolume flattens a raw volume into a BookResult.
func (c *Client) convertVolume(v *volume) BookResult {
	info := &v.VolumeInfo

	result := BookResult{
		GoogleBooksID: v.ID,
		Title:         info.Title,
		Subtitle:      info.Subtitle,
		Author:        strings.Join(info.Authors, ", "),
		Publisher:     info.Publisher,
		PublishedDate: normalizeDate(info.PublishedDate),
		ISBN:          bestISBN(info.IndustryIdentifiers),
		PageCount:     info.PageCount,
		Language:      info.Language,
	}

	result.CoverURL = secureURL(bestCover(info.ImageLinks))
	result.CoverThumbnailURL = secureURL(firstNonEmpty(info.ImageLinks.Thumbnail, info.ImageLinks.SmallThumbnail))

	if info.Description != "" {
		markdown, err := htmltomarkdown.ConvertString(info.Description)
		if err != nil {
			c.logger.Warn("failed to convert description to markdown",
				"volume_id", v.ID,
				"error", err,
			)
			result.Description = info.Description
		} else {
			result.Description = strings.TrimSpace(markdown)
		}
	}

	return result
}

// bestISBN prefers ISBN-13 over ISBN-10 and ignores other identifier types.
func bestISBN(ids []industryIdentifier) string {
	var isbn10 string
	for _, id := range ids {
		switch id.Type {
		case "ISBN_13":
			return id.Identifier
		case "ISBN_10":
			isbn10 = id.Identifier
		}
	}
	return isbn10
}

// bestCover picks the largest available image link.
func bestCover(links imageLinks) string {
	return firstNonEmpty(
		links.ExtraLarge,
		links.Large,
		links.Medium,
		links.Small,
		links.Thumbnail,
		links.SmallThumbnail,
	)
}

// secureURL rewrites http Google Books image links to https.
func secureURL(rawURL string) string {
	return strings.Replace(rawURL, "http://", "https://", 1)
}

// normalizeDate accepts the partial dates Google Books returns (YYYY,
// YYYY-MM, YYYY-MM-DD) and keeps them as-is when well formed.
func normalizeDate(date string) string {
	date = strings.TrimSpace(date)
	switch len(date) {
	case 4, 7, 10:
		return date
	default:
		if len(date) > 10 {
			return date[:10]
		}
		return ""
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
