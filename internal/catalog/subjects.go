package catalog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultSubjectLimit is how many works a subject page asks for.
const DefaultSubjectLimit = 10

// DefaultTrending is the built-in list of curated subjects.
var DefaultTrending = []string{"JavaScript", "CSS", "HTML", "Harry Potter", "Crypto"}

// SubjectResult is the fixed work list for one subject.
type SubjectResult struct {
	Name      string `json:"name"`
	WorkCount int    `json:"workCount"`
	Works     []Book `json:"works"`
}

type subjectResponse struct {
	Name      string        `json:"name"`
	WorkCount int           `json:"work_count"`
	Works     []subjectWork `json:"works"`
}

type subjectWork struct {
	Title   string `json:"title"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
	FirstPublishYear publishYear `json:"first_publish_year"`
}

// SubjectKey maps a display name to the catalog's subject key:
// lower case, words joined by underscores. "Harry Potter" -> "harry_potter".
func SubjectKey(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}

// SubjectURL builds the subjects/{key}.json URL for name.
func (c *Client) SubjectURL(name string, limit int) string {
	if limit <= 0 {
		limit = DefaultSubjectLimit
	}
	return fmt.Sprintf("%s/subjects/%s.json?limit=%s",
		c.baseURL, url.PathEscape(SubjectKey(name)), strconv.Itoa(limit))
}

// Subject fetches the work list for name.
func (c *Client) Subject(ctx context.Context, name string, limit int) (SubjectResult, error) {
	if SubjectKey(name) == "" {
		return SubjectResult{}, fmt.Errorf("catalog: empty subject name")
	}

	var sr subjectResponse
	if err := c.getJSON(ctx, c.SubjectURL(name, limit), &sr); err != nil {
		return SubjectResult{}, err
	}

	works := make([]Book, 0, len(sr.Works))
	for _, w := range sr.Works {
		authors := make([]string, 0, len(w.Authors))
		for _, a := range w.Authors {
			if a.Name != "" {
				authors = append(authors, a.Name)
			}
		}
		works = append(works, newBook(w.Title, authors, w.FirstPublishYear))
	}

	display := sr.Name
	if display == "" {
		display = name
	}
	return SubjectResult{Name: display, WorkCount: sr.WorkCount, Works: works}, nil
}
