package search

import "errors"

var errNoSource = errors.New("search: no source configured")
