package roster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/five82/courtside/internal/search"
	"github.com/five82/courtside/internal/wiki"
)

// DefaultCategories are the two Italian tennis player categories.
var DefaultCategories = []string{
	"Category:Italian_male_tennis_players",
	"Category:Italian_female_tennis_players",
}

var errNoCategories = errors.New("roster: no categories configured")

// FetchError reports the category whose listing failed.
type FetchError struct {
	Category string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Category, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source loads the roster. It implements search.Source.
type Source struct {
	lister     wiki.CategoryLister
	categories []string
	pageLimit  int
	tag        language.Tag
	logger     *log.Logger
}

var _ search.Source = (*Source)(nil)

// Option configures a Source.
type Option func(*Source)

// WithPageLimit sets how many members are requested per API call.
func WithPageLimit(n int) Option {
	return func(s *Source) {
		if n > 0 {
			s.pageLimit = n
		}
	}
}

// WithLanguage sets the collation language for sort keys.
func WithLanguage(tag language.Tag) Option {
	return func(s *Source) { s.tag = tag }
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New returns a Source listing categories through lister. Blank category
// names are ignored.
func New(lister wiki.CategoryLister, categories []string, opts ...Option) *Source {
	s := &Source{
		lister:    lister,
		pageLimit: wiki.MaxPageLimit,
		tag:       language.Und,
		logger:    log.New(io.Discard),
	}
	for _, c := range categories {
		if c = strings.TrimSpace(c); c != "" {
			s.categories = append(s.categories, c)
		}
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Categories returns the categories the source lists.
func (s *Source) Categories() []string {
	return slices.Clone(s.categories)
}

// All lists every category and returns the merged, sorted roster.
func (s *Source) All(ctx context.Context) ([]search.Entity, error) {
	if s == nil || s.lister == nil {
		return nil, fmt.Errorf("roster: lister is nil")
	}
	if len(s.categories) == 0 {
		return nil, errNoCategories
	}

	started := time.Now()
	listings := make([][]wiki.Member, len(s.categories))
	g, gctx := errgroup.WithContext(ctx)
	for i, category := range s.categories {
		g.Go(func() error {
			members, err := s.lister.CategoryMembers(gctx, wiki.CategoryQuery{
				Title: category,
				Limit: s.pageLimit,
			})
			if err != nil {
				return &FetchError{Category: category, Err: err}
			}
			s.logger.Debug("category fetched", "category", category, "members", len(members))
			listings[i] = members
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entities := Merge(listings...)
	SortByKey(entities, s.tag)
	s.logger.Info("roster loaded", "players", len(entities), "categories", len(s.categories), "took", time.Since(started).Round(time.Millisecond))
	return entities, nil
}

// Merge concatenates listings in order, keeping only pages and the first
// occurrence of each page id.
func Merge(listings ...[]wiki.Member) []search.Entity {
	seen := make(map[int64]struct{})
	var out []search.Entity
	for _, members := range listings {
		for _, m := range members {
			if !m.IsPage() {
				continue
			}
			if _, dup := seen[m.PageID]; dup {
				continue
			}
			seen[m.PageID] = struct{}{}
			out = append(out, search.Entity{
				ID:      m.PageID,
				Title:   m.Title,
				SortKey: m.SortKeyPrefix,
				Kind:    search.KindPage,
			})
		}
	}
	return out
}

// SortByKey orders entities by sort key, falling back to the title when the
// key is empty. Equal keys keep their relative order.
func SortByKey(entities []search.Entity, tag language.Tag) {
	col := collate.New(tag)
	slices.SortStableFunc(entities, func(a, b search.Entity) int {
		return col.CompareString(sortKey(a), sortKey(b))
	})
}

func sortKey(e search.Entity) string {
	if k := strings.TrimSpace(e.SortKey); k != "" {
		return k
	}
	return e.Title
}
