package wiki

import "fmt"

// Member types reported by the categorymembers list.
const (
	TypePage     = "page"
	TypeSubcat   = "subcat"
	TypeFile     = "file"
	MaxPageLimit = 500
)

// Member is one entry of a category listing.
type Member struct {
	PageID        int64  `json:"pageid"`
	NS            int    `json:"ns"`
	Title         string `json:"title"`
	Type          string `json:"type"`
	SortKeyPrefix string `json:"sortkeyprefix"`
}

// IsPage reports whether the member is an article rather than a
// sub-category or file.
func (m Member) IsPage() bool {
	return m.Type == TypePage
}

// categoryMembersResponse mirrors action=query&list=categorymembers.
type categoryMembersResponse struct {
	Continue map[string]string `json:"continue"`
	Query    struct {
		CategoryMembers []Member `json:"categorymembers"`
	} `json:"query"`
	Error *APIError `json:"error"`
}

// StatusError reports a non-2xx HTTP status from the API.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// APIError is the error object MediaWiki returns alongside a 200 status.
type APIError struct {
	Code string `json:"code"`
	Info string `json:"info"`
}

func (e *APIError) Error() string {
	if e.Info == "" {
		return fmt.Sprintf("api error %s", e.Code)
	}
	return fmt.Sprintf("api error %s: %s", e.Code, e.Info)
}
