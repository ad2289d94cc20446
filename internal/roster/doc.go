// Package roster builds the searchable player collection from wiki category
// listings.
//
// Each configured category is listed concurrently. The listings are merged in
// configuration order, sub-categories and files are dropped, duplicate page
// ids keep their first occurrence, and the result is ordered by sort key
// using locale-aware collation. Any failed category fails the whole load with
// a *FetchError naming it.
package roster
