package nav

// Target is where a back action goes and what it hands over.
type Target struct {
	Route   Route
	Params  Params
	Payload Payload
}

// BackTarget maps the payload a view was entered with to its back
// destination. ok is false when no origin is present; the caller then pops
// history instead.
func BackTarget(p Payload) (Target, bool) {
	switch v := p.(type) {
	case FromHome:
		return Target{Route: RouteHome, Payload: Restore{Offset: v.Offset}}, true
	case FromSearch:
		return Target{Route: RouteSearch, Params: Params{Query: v.Term}, Payload: Restore{Offset: v.Offset}}, true
	case FromWatchlist:
		return Target{Route: RouteWatchlist, Payload: Restore{Offset: v.Offset}}, true
	case FromTinder:
		return Target{Route: RouteTinder, Payload: RestoreDeck{Offset: v.Offset, Cursor: v.Cursor}}, true
	case FromMoodResults:
		return Target{
			Route:   RouteMoodResults,
			Params:  Params{Mood: v.Mood},
			Payload: RestoreMood{Offset: v.Offset, Entry: v.Entry},
		}, true
	case FromHomeToMood:
		return Target{Route: RouteHome, Payload: Restore{Offset: v.Offset}}, true
	case FromMoodPage:
		return Target{Route: RouteMood, Payload: Restore{Offset: v.Offset}}, true
	}
	return Target{}, false
}
