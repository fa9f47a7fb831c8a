package partials

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/domain"
)

// CSRFFieldName is the form field the CSRF middleware reads.
const CSRFFieldName = "csrf_token"

// CSRFField is the hidden token input every POST form carries.
func CSRFField(token string) cmp.Node {
	return g.Input(g.Type("hidden"), g.Name(CSRFFieldName), g.Value(token))
}

// FieldProps describes one labelled input.
type FieldProps struct {
	Label     string
	Name      string
	Type      string
	Value     string
	Attrs     []cmp.Node
	Errors    domain.FieldErrors
	HelpTexts []string
}

// Field renders a label, the input and the field's errors.
func Field(p FieldProps) cmp.Node {
	if p.Type == "" {
		p.Type = "text"
	}
	input := []cmp.Node{
		g.Type(p.Type), g.Name(p.Name), g.ID("id_" + p.Name),
		cmp.If(p.Type != "password", g.Value(p.Value)),
		cmp.If(p.Errors.Has(p.Name), g.Aria("invalid", "true")),
	}
	input = append(input, p.Attrs...)

	return g.Div(g.Class("field"),
		g.Label(g.For("id_"+p.Name), cmp.Text(p.Label)),
		g.Input(input...),
		ErrorList(p.Errors[p.Name]),
		cmp.Map(p.HelpTexts, func(help string) cmp.Node {
			return g.Small(g.Class("help"), cmp.Text(help))
		}),
	)
}

// ErrorList renders validation messages as a list.
func ErrorList(msgs []string) cmp.Node {
	if len(msgs) == 0 {
		return nil
	}
	return g.Ul(g.Class("errorlist"),
		cmp.Map(msgs, func(msg string) cmp.Node { return g.Li(cmp.Text(msg)) }),
	)
}

// NonFieldErrors renders the errors not attached to a field.
func NonFieldErrors(fe domain.FieldErrors) cmp.Node {
	return ErrorList(fe.NonField())
}
