package partials

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/view"
)

// Flash renders the one-shot success and error messages.
func Flash(flashes view.FlashData) cmp.Node {
	if flashes.Empty() {
		return nil
	}
	return g.Div(g.ID("flash-messages"),
		cmp.Map(flashes.Success, func(msg string) cmp.Node {
			return g.Div(g.Class("alert alert-success"), g.Role("status"), cmp.Text(msg))
		}),
		cmp.Map(flashes.Error, func(msg string) cmp.Node {
			return g.Div(g.Class("alert alert-error"), g.Role("alert"), cmp.Text(msg))
		}),
	)
}
