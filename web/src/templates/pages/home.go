package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// HomeData is the view model for the landing page.
type HomeData struct {
	Title         string
	Instructor    string
	Authenticated bool
}

// HomeContent is the landing page body.
func HomeContent(data HomeData) cmp.Node {
	return g.Section(g.Class("card"),
		g.H1(cmp.Text(data.Title)),
		g.P(g.Class("muted"), cmp.Text("Instructor: "+data.Instructor)),
		g.P(cmp.Text("Keep track of students, their courses and their marks.")),
		g.Div(g.Class("actions"),
			cmp.If(data.Authenticated,
				g.A(g.Class("button"), g.Href("/students"), cmp.Text("View students")),
			),
			cmp.If(!data.Authenticated, cmp.Group{
				g.A(g.Class("button"), g.Href("/login"), cmp.Text("Log in")),
				g.A(g.Class("button secondary"), g.Href("/register"), cmp.Text("Create an account")),
			}),
		),
	)
}
