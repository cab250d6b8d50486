package export

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/sadopc/passport/internal/catalog"
	"github.com/sadopc/passport/internal/session"
)

// ShareText is the one-line brag copied by the share action.
func ShareText(s session.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I just did Drink Around the World ✅ (%d/%d countries).", s.Completed, s.Total)
	if s.Route != catalog.RouteNone {
		fmt.Fprintf(&b, " Route: %s.", s.Route.Title())
	}
	fmt.Fprintf(&b, " Hydration breaks: %d.", s.Hydration)
	return b.String()
}

// CopyShareText puts ShareText on the system clipboard and returns it.
func CopyShareText(s session.Summary) (string, error) {
	text := ShareText(s)
	if err := clipboard.WriteAll(text); err != nil {
		return text, fmt.Errorf("copy to clipboard: %w", err)
	}
	return text, nil
}
