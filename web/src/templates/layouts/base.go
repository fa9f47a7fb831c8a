package layouts

import (
	"context"
	"io"

	"github.com/a-h/templ"
	cmp "maragu.dev/gomponents"
	c "maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/view"
	"github.com/nfrund/student-portal/web/src/templates/partials"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base wraps page content in the site chrome. username is empty for
// anonymous visitors.
func Base(title, username string, flashes view.FlashData, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		page := c.HTML5(c.HTML5Props{
			Title:    CalculateTitle(title),
			Language: "en",
			Head: []cmp.Node{
				g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
				g.Link(g.Rel("stylesheet"), g.Href("/static/css/app.css")),
				g.Script(g.Src(htmxSrc), g.Defer()),
			},
			Body: []cmp.Node{
				navbar(username),
				g.Main(g.Class("container"),
					partials.Flash(flashes),
					view.AdaptTemplToGomponentCtx(ctx, content),
				),
			},
		})
		return page.Render(w)
	})
}

func navbar(username string) cmp.Node {
	return g.Nav(g.Class("navbar"),
		g.A(g.Class("brand"), g.Href("/"), cmp.Text("Student Portal")),
		g.Ul(
			cmp.If(username != "", cmp.Group{
				g.Li(g.A(g.Href("/students"), cmp.Text("Students"))),
				g.Li(g.A(g.Href("/add"), cmp.Text("Add student"))),
				g.Li(g.A(g.Href("/change-password"), cmp.Text("Change password"))),
				g.Li(g.Span(g.Class("muted"), cmp.Text(username))),
				g.Li(g.A(g.Href("/logout"), cmp.Text("Log out"))),
			}),
			cmp.If(username == "", cmp.Group{
				g.Li(g.A(g.Href("/login"), cmp.Text("Log in"))),
				g.Li(g.A(g.Href("/register"), cmp.Text("Register"))),
			}),
		),
	)
}
