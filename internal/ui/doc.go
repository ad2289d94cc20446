// Package ui provides the Bubble Tea terminal interface for courtside.
//
// # Layout
//
// One screen, top to bottom:
//
//   - header: roster size, searching spinner, cursor position (n/total)
//   - query input (bubbles/textinput, capped at the controller's maximum)
//   - result list with every query occurrence highlighted
//   - detail line for the row under the cursor or the committed selection
//   - footer with the short key help
//
// The help overlay and the load-failure retry prompt are modals drawn over
// the whole screen.
//
// # Search Loop
//
// All search state lives in a *search.Controller driven from Update.
// Keystrokes that change the input are reported as query changes;
// navigation keys go through search.Navigate and the controller applies the
// outcome. A commit writes the entity title back into the input and reports
// that write as a query change, which the controller swallows without
// starting a new search.
//
// Debounce and latency timers are wall-clock timers whose callbacks are
// marshalled onto the update loop (see loopClock). Tests inject a manual
// clock instead.
//
// # Key Bindings
//
// Printable keys always go to the query, so actions use control keys:
//
//   - ↑/↓, ctrl+p/ctrl+n: move the cursor (wraps around)
//   - enter: select the row under the cursor
//   - esc: clear query, results and selection
//   - ctrl+y: copy the article URL
//   - ctrl+s: toggle the sort-key column
//   - ctrl+t: cycle theme
//   - ctrl+r: reload the roster
//   - f1: help
//   - ctrl+c: quit
//
// Theme and sort-key visibility are saved to the preferences file when they
// change.
package ui
