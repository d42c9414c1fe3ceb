// Package nav carries per-transition context between views.
//
// A list view that opens a detail view attaches an origin payload naming
// itself and whatever it needs to be rebuilt: the selection offset, the
// search term, the mood, the deck cursor. The detail view reads it with
// Router.Take, which yields the payload once per arrival, and BackTarget
// turns it into the route and restore payload for the back action. When
// no origin is present the back action pops history.
//
// The destination arms a Restorer with the payload it receives and calls
// Ready on each render. The offset is applied on the first render that has
// content and never again for that arrival.
package nav
