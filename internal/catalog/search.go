package catalog

import (
	"context"
	"net/url"
	"strconv"
)

// SearchResult is one page of catalog matches.
type SearchResult struct {
	NumFound int    `json:"numFound"`
	Books    []Book `json:"books"`
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

type searchDoc struct {
	Title            string      `json:"title"`
	AuthorName       []string    `json:"author_name"`
	FirstPublishYear publishYear `json:"first_publish_year"`
}

// SearchURL builds the search.json URL for a query window.
func (c *Client) SearchURL(query string, offset, limit int) string {
	params := url.Values{
		"q":      {query},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(limit)},
	}
	return c.baseURL + "/search.json?" + params.Encode()
}

// Search fetches limit matches for query starting at offset and maps each
// document to a Book. A response without docs yields an empty, non-nil slice.
func (c *Client) Search(ctx context.Context, query string, offset, limit int) (SearchResult, error) {
	var sr searchResponse
	if err := c.getJSON(ctx, c.SearchURL(query, offset, limit), &sr); err != nil {
		return SearchResult{}, err
	}

	books := make([]Book, 0, len(sr.Docs))
	for _, doc := range sr.Docs {
		books = append(books, newBook(doc.Title, doc.AuthorName, doc.FirstPublishYear))
	}
	return SearchResult{NumFound: sr.NumFound, Books: books}, nil
}
