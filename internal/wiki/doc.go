// Package wiki provides an HTTP client for the MediaWiki action API.
//
// # Overview
//
// Only the read-only categorymembers list is used: it enumerates the pages
// filed under a category such as "Category:Italian_male_tennis_players".
//
//	client, err := wiki.NewClient("https://en.wikipedia.org",
//		wiki.WithUserAgent("courtside/0.1"),
//		wiki.WithRateLimit(5),
//	)
//	if err != nil {
//		return err
//	}
//	members, err := client.CategoryMembers(ctx, wiki.CategoryQuery{
//		Title: "Category:Italian_male_tennis_players",
//	})
//
// # Continuation
//
// The API returns at most 500 members per response. CategoryMembers follows
// the "continue" block until the category is exhausted, so callers always
// see the complete member list. A runaway continuation chain is cut off after
// a fixed number of pages and reported as an error.
//
// # Error Handling
//
//   - Network errors: "execute request: ..."
//   - HTTP errors: *StatusError, "api /w/api.php returned status 503"
//   - API errors: *APIError, the "error" object the API sends with status 200
//   - Deserialization errors: "decode response: ..."
//
// # Thread Safety
//
// The Client is safe for concurrent use. Requests from all goroutines share
// one rate limiter.
package wiki
