package nav

import (
	"reflect"
	"testing"
)

func TestBackTarget_PerOrigin(t *testing.T) {
	tests := []struct {
		name string
		in   Payload
		want Target
	}{
		{
			name: "home",
			in:   FromHome{Offset: 4},
			want: Target{Route: RouteHome, Payload: Restore{Offset: 4}},
		},
		{
			name: "search",
			in:   FromSearch{Offset: 2, Term: "heat"},
			want: Target{Route: RouteSearch, Params: Params{Query: "heat"}, Payload: Restore{Offset: 2}},
		},
		{
			name: "watchlist",
			in:   FromWatchlist{Offset: 9},
			want: Target{Route: RouteWatchlist, Payload: Restore{Offset: 9}},
		},
		{
			name: "tinder",
			in:   FromTinder{Offset: 0, Cursor: 3},
			want: Target{Route: RouteTinder, Payload: RestoreDeck{Cursor: 3}},
		},
		{
			name: "mood results",
			in:   FromMoodResults{Offset: 5, Mood: "cozy", Entry: FromHomeToMood{Offset: 7}},
			want: Target{
				Route:   RouteMoodResults,
				Params:  Params{Mood: "cozy"},
				Payload: RestoreMood{Offset: 5, Entry: FromHomeToMood{Offset: 7}},
			},
		},
		{
			name: "mood entered from home",
			in:   FromHomeToMood{Offset: 7},
			want: Target{Route: RouteHome, Payload: Restore{Offset: 7}},
		},
		{
			name: "mood entered from mood page",
			in:   FromMoodPage{Offset: 1},
			want: Target{Route: RouteMood, Payload: Restore{Offset: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := BackTarget(tt.in)
			if !ok {
				t.Fatal("BackTarget returned ok=false")
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("BackTarget = %#v, want %#v", got, tt.want)
			}
		})
	}

	for _, p := range []Payload{nil, Restore{Offset: 3}, RestoreDeck{}, RestoreMood{}} {
		if _, ok := BackTarget(p); ok {
			t.Fatalf("BackTarget(%#v) should fall back to history", p)
		}
	}
}

func TestRouter_TakeConsumesOncePerArrival(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteDetail, Params{MovieID: 5}, FromHome{Offset: 3})

	p, ok := r.Take()
	if !ok || p != (FromHome{Offset: 3}) {
		t.Fatalf("Take = %#v, %v", p, ok)
	}
	if _, ok := r.Take(); ok {
		t.Fatal("second Take should not yield the payload again")
	}
	if r.Peek() != (FromHome{Offset: 3}) {
		t.Fatal("Peek should still see the payload for back wiring")
	}
}

func TestRouter_BackReArmsRevealedEntry(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteMoodResults, Params{Mood: "sad"}, FromHomeToMood{Offset: 2})
	if _, ok := r.Take(); !ok {
		t.Fatal("expected payload on arrival")
	}
	r.Navigate(RouteDetail, Params{MovieID: 1}, nil)
	if !r.Back() {
		t.Fatal("Back returned false")
	}
	if r.Current().Route != RouteMoodResults {
		t.Fatalf("route = %v", r.Current().Route)
	}
	if p, ok := r.Take(); !ok || p != (FromHomeToMood{Offset: 2}) {
		t.Fatalf("re-entered Take = %#v, %v", p, ok)
	}
	r.Back()
	if r.Back() {
		t.Fatal("Back at root should return false")
	}
}

func TestRouter_GoBackFollowsOrigin(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteTinder, Params{}, nil)
	r.Navigate(RouteDetail, Params{MovieID: 8}, FromTinder{Offset: 0, Cursor: 2})

	if !r.GoBack() {
		t.Fatal("GoBack returned false")
	}
	cur := r.Current()
	if cur.Route != RouteTinder || r.Depth() != 2 {
		t.Fatalf("current = %#v depth = %d", cur, r.Depth())
	}
	p, ok := r.Take()
	if !ok || p != (RestoreDeck{Cursor: 2}) {
		t.Fatalf("Take = %#v, %v", p, ok)
	}
}

func TestRouter_GoBackReplacesWhenTargetNotBelow(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteMoodResults, Params{Mood: "happy"}, FromHomeToMood{Offset: 1})
	// Detail hops from mood results replace each other.
	r.Navigate(RouteDetail, Params{MovieID: 1}, FromMoodResults{Offset: 4, Mood: "happy", Entry: FromHomeToMood{Offset: 1}})
	r.Replace(RouteDetail, Params{MovieID: 2}, FromMoodResults{Offset: 4, Mood: "happy", Entry: FromHomeToMood{Offset: 1}})
	if r.Depth() != 3 {
		t.Fatalf("depth = %d, want 3", r.Depth())
	}

	r.GoBack()
	if r.Current().Route != RouteMoodResults || r.Current().Params.Mood != "happy" || r.Depth() != 2 {
		t.Fatalf("current = %#v depth = %d", r.Current(), r.Depth())
	}
	p, _ := r.Take()
	if EntryOf(p) != (FromHomeToMood{Offset: 1}) {
		t.Fatalf("EntryOf = %#v", EntryOf(p))
	}

	r.GoBack()
	if r.Current().Route != RouteHome || r.Depth() != 1 {
		t.Fatalf("current = %#v depth = %d", r.Current(), r.Depth())
	}

	// Landing somewhere the target is not directly below.
	r.Redirect(RouteLogin)
	r.Navigate(RouteDetail, Params{MovieID: 3}, FromWatchlist{Offset: 6})
	r.GoBack()
	if r.Current().Route != RouteWatchlist || r.Depth() != 2 {
		t.Fatalf("current = %#v depth = %d", r.Current(), r.Depth())
	}
}

func TestRouter_RestorePayloadAppliesOnce(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteDetail, Params{MovieID: 5}, FromHome{Offset: 5})
	r.GoBack()
	if p, ok := r.Take(); !ok || p != (Restore{Offset: 5}) {
		t.Fatalf("Take = %#v, %v", p, ok)
	}

	r.Navigate(RouteWatchlist, Params{}, nil)
	r.Back()
	if p, ok := r.Take(); ok {
		t.Fatalf("re-entered home Take = %#v, want nothing", p)
	}

	// Mood results keep how they were entered for their own back action.
	r.Navigate(RouteMoodResults, Params{Mood: "sad"}, FromHomeToMood{Offset: 1})
	r.Take()
	r.Navigate(RouteDetail, Params{MovieID: 2}, FromMoodResults{Offset: 4, Mood: "sad", Entry: FromHomeToMood{Offset: 1}})
	r.GoBack()
	if p, ok := r.Take(); !ok || p != (RestoreMood{Offset: 4, Entry: FromHomeToMood{Offset: 1}}) {
		t.Fatalf("Take = %#v, %v", p, ok)
	}
	if r.Peek() != (FromHomeToMood{Offset: 1}) {
		t.Fatalf("Peek after Take = %#v, want the entry origin", r.Peek())
	}
	r.Navigate(RouteDetail, Params{MovieID: 3}, nil)
	r.Back()
	p, ok := r.Take()
	if !ok || p != (FromHomeToMood{Offset: 1}) {
		t.Fatalf("Take after Back = %#v, %v", p, ok)
	}
	if _, scrolls := p.Scroll(); scrolls {
		t.Fatal("entry origin must not restore a scroll offset")
	}
}

func TestRouter_RedirectClearsHistory(t *testing.T) {
	r := NewRouter(RouteHome)
	r.Navigate(RouteWatchlist, Params{}, nil)
	r.Navigate(RouteDetail, Params{MovieID: 1}, FromWatchlist{})
	r.Redirect(RouteLogin)
	if r.Depth() != 1 || r.Current().Route != RouteLogin {
		t.Fatalf("after redirect: depth=%d route=%v", r.Depth(), r.Current().Route)
	}
	if r.Back() {
		t.Fatal("no history should remain")
	}
}

func TestRestorer_FiresOnceAfterContent(t *testing.T) {
	var r Restorer
	r.Arm(Restore{Offset: 12})
	if !r.Pending() {
		t.Fatal("Restorer should be pending after Arm")
	}
	if _, ok := r.Ready(0); ok {
		t.Fatal("Ready with no content must not restore")
	}
	off, ok := r.Ready(20)
	if !ok || off != 12 {
		t.Fatalf("Ready = %d, %v; want 12, true", off, ok)
	}
	// Re-render of the same arrival.
	for i := 0; i < 3; i++ {
		if _, ok := r.Ready(20); ok {
			t.Fatal("Ready restored a second time")
		}
	}

	r.Arm(Restore{Offset: 50})
	if off, ok := r.Ready(5); !ok || off != 4 {
		t.Fatalf("Ready clamped = %d, %v; want 4, true", off, ok)
	}

	r.Arm(FromHome{Offset: 3})
	if r.Pending() {
		t.Fatal("origin payloads carry no restore offset")
	}
	r.Arm(nil)
	if _, ok := r.Ready(10); ok {
		t.Fatal("nil payload should not restore")
	}
}

func TestRouteHelpers(t *testing.T) {
	if RouteMoodResults.String() != "mood-results" || Route(99).String() != "route(99)" {
		t.Fatal("unexpected route names")
	}
	if RouteLogin.Protected() || !RouteWatchlist.Protected() {
		t.Fatal("unexpected Protected results")
	}
}
