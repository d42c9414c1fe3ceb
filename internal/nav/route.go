package nav

import (
	"strconv"

	"github.com/five82/reel/internal/movieverse"
)

// Route identifies a view.
type Route int

const (
	RouteLogin Route = iota
	RouteRegister
	RouteForgotPassword
	RouteHome
	RouteSearch
	RouteMood
	RouteMoodResults
	RouteTinder
	RouteWatchlist
	RouteProfile
	RouteDetail
	RouteLogs
)

var routeNames = map[Route]string{
	RouteLogin:          "login",
	RouteRegister:       "register",
	RouteForgotPassword: "forgot-password",
	RouteHome:           "home",
	RouteSearch:         "search",
	RouteMood:           "mood",
	RouteMoodResults:    "mood-results",
	RouteTinder:         "tinder",
	RouteWatchlist:      "watchlist",
	RouteProfile:        "profile",
	RouteDetail:         "detail",
	RouteLogs:           "logs",
}

func (r Route) String() string {
	if name, ok := routeNames[r]; ok {
		return name
	}
	return "route(" + strconv.Itoa(int(r)) + ")"
}

// Protected reports whether the view requires a signed-in user.
func (r Route) Protected() bool {
	switch r {
	case RouteLogin, RouteRegister, RouteForgotPassword, RouteLogs:
		return false
	}
	return true
}

// Params are the route's own arguments, the equivalent of path and query.
type Params struct {
	MovieID movieverse.ID
	Query   string
	Mood    string
}
