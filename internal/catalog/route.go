package catalog

import (
	"strings"
	"time"
)

// Route is the optional drink-strength plan chosen for the session.
type Route string

const (
	RouteNone   Route = ""
	RouteLight  Route = "light"
	RouteMedium Route = "medium"
	RouteHeavy  Route = "heavy"
)

// Routes lists the selectable routes in UI order.
var Routes = []Route{RouteNone, RouteLight, RouteMedium, RouteHeavy}

// ParseRoute accepts a route name in any case. Unknown names are not valid.
func ParseRoute(s string) (Route, bool) {
	switch Route(strings.ToLower(strings.TrimSpace(s))) {
	case RouteNone:
		return RouteNone, true
	case RouteLight:
		return RouteLight, true
	case RouteMedium:
		return RouteMedium, true
	case RouteHeavy:
		return RouteHeavy, true
	}
	return RouteNone, false
}

func (r Route) Valid() bool {
	switch r {
	case RouteNone, RouteLight, RouteMedium, RouteHeavy:
		return true
	}
	return false
}

// IdealPerStop is the target time spent per stop on this route.
func (r Route) IdealPerStop() time.Duration {
	switch r {
	case RouteLight:
		return 18 * time.Minute
	case RouteHeavy:
		return 25*time.Minute + 12*time.Second
	default:
		return 21 * time.Minute
	}
}

func (r Route) Title() string {
	if r == RouteNone {
		return "None"
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

func (r Route) Hint() string {
	switch r {
	case RouteLight:
		return "Light: beer/wine pace. Easier to finish all 11."
	case RouteMedium:
		return "Medium: mixed drinks + beer/wine. Pace matters."
	case RouteHeavy:
		return "Heavy: cocktails. Mandatory water + food stops."
	}
	return "No route selected. (Optional)"
}

// Next cycles through Routes, wrapping back to RouteNone.
func (r Route) Next() Route {
	for i, route := range Routes {
		if route == r {
			return Routes[(i+1)%len(Routes)]
		}
	}
	return RouteNone
}
