package search

import (
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
)

const (
	// MinQueryLength is the shortest trimmed query that produces results.
	MinQueryLength = 2

	// MaxQueryLength caps the query in runes.
	MaxQueryLength = 100
)

// Match returns, in collection order, every entity whose title contains the
// trimmed query case-insensitively, compared rune by rune the same way Split
// highlights. Queries shorter than MinQueryLength yield an empty result,
// never the whole collection.
func Match(entities []Entity, query string) []Entity {
	return match(entities, query, MinQueryLength)
}

func match(entities []Entity, query string, minLen int) []Entity {
	needle, ok := normalizeQuery(query, minLen)
	if !ok {
		return nil
	}
	pat := []rune(needle)
	var out []Entity
	for _, e := range entities {
		if containsFold(e.Title, pat) {
			out = append(out, e)
		}
	}
	return out
}

// normalizeQuery trims and lower-cases query, reporting false when it is too
// short to search.
func normalizeQuery(query string, minLen int) (string, bool) {
	trimmed := strings.TrimSpace(query)
	if minLen < 1 {
		minLen = 1
	}
	if utf8.RuneCountInString(trimmed) < minLen {
		return "", false
	}
	return strings.ToLower(trimmed), true
}

// Matcher memoises Match over one immutable collection.
type Matcher struct {
	entities []Entity
	minLen   int
	cache    *lru.Cache[string, []Entity]
}

// NewMatcher binds a matcher to entities. cacheSize <= 0 disables memoisation.
func NewMatcher(entities []Entity, minLen, cacheSize int) *Matcher {
	if minLen < 1 {
		minLen = MinQueryLength
	}
	m := &Matcher{
		entities: cloneEntities(entities),
		minLen:   minLen,
	}
	if cacheSize > 0 {
		// lru.New only fails for a non-positive size.
		m.cache, _ = lru.New[string, []Entity](cacheSize)
	}
	return m
}

// Match returns the entities matching query. The returned slice is shared
// with the cache and must not be modified.
func (m *Matcher) Match(query string) []Entity {
	if m == nil {
		return nil
	}
	key, ok := normalizeQuery(query, m.minLen)
	if !ok {
		return nil
	}
	if m.cache != nil {
		if hit, found := m.cache.Get(key); found {
			return hit
		}
	}
	out := match(m.entities, key, m.minLen)
	if m.cache != nil {
		m.cache.Add(key, out)
	}
	return out
}

// Len reports the size of the bound collection.
func (m *Matcher) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entities)
}
