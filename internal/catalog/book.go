package catalog

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Display sentinels for fields the catalog left out.
const (
	UnknownAuthor = "Unknown"
	UnknownDate   = "N/A"
)

// Book is the display projection of a catalog document. It is rebuilt from
// every response and never stored.
type Book struct {
	Title       string `json:"title"`
	Author      string `json:"author"`
	PublishDate string `json:"publishDate"`
}

// publishYear decodes first_publish_year, which the catalog sends as a
// number on search docs and occasionally as a string or null elsewhere.
type publishYear string

func (y *publishYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = publishYear(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*y = publishYear(n.String())
	return nil
}

// newBook applies the display rules: authors joined by ", ", "Unknown" when
// there are none, "N/A" when the year is missing.
func newBook(title string, authors []string, year publishYear) Book {
	author := strings.Join(authors, ", ")
	if author == "" {
		author = UnknownAuthor
	}
	date := string(year)
	if date == "" {
		date = UnknownDate
	}
	return Book{Title: title, Author: author, PublishDate: date}
}
