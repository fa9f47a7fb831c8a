package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/view/dto/auth"
	"github.com/nfrund/student-portal/web/src/templates/partials"
)

// Login renders the sign in form.
func Login(data auth.LoginData) cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Log in")),
		g.Form(g.Method("post"), g.Action("/login"),
			partials.CSRFField(data.CSRF),
			cmp.If(data.Next != "", g.Input(g.Type("hidden"), g.Name("next"), g.Value(data.Next))),
			partials.NonFieldErrors(data.Errors),
			partials.Field(partials.FieldProps{
				Label: "Username", Name: "username", Value: data.Username, Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoFocus(), g.AutoComplete("username"), g.Required()},
			}),
			partials.Field(partials.FieldProps{
				Label: "Password", Name: "password", Type: "password", Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoComplete("current-password"), g.Required()},
			}),
			g.Button(g.Type("submit"), g.Class("button"), cmp.Text("Log in")),
		),
		g.P(
			g.A(g.Href("/password-reset"), cmp.Text("Forgot your password?")),
			cmp.Text(" · "),
			g.A(g.Href("/register"), cmp.Text("Create an account")),
		),
	)
}

// Register renders the sign up form.
func Register(data auth.RegisterData) cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Register")),
		g.Form(g.Method("post"), g.Action("/register"),
			partials.CSRFField(data.CSRF),
			partials.NonFieldErrors(data.Errors),
			partials.Field(partials.FieldProps{
				Label: "Username", Name: "username", Value: data.Username, Errors: data.Errors,
				Attrs:     []cmp.Node{g.AutoFocus(), g.AutoComplete("username"), g.MaxLength("150"), g.Required()},
				HelpTexts: []string{"Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only."},
			}),
			partials.Field(partials.FieldProps{
				Label: "Email", Name: "email", Type: "email", Value: data.Email, Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoComplete("email")},
			}),
			partials.Field(partials.FieldProps{
				Label: "Password", Name: "password1", Type: "password", Errors: data.Errors,
				Attrs:     []cmp.Node{g.AutoComplete("new-password"), g.Required()},
				HelpTexts: passwordHelp,
			}),
			partials.Field(partials.FieldProps{
				Label: "Password confirmation", Name: "password2", Type: "password", Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoComplete("new-password"), g.Required()},
			}),
			g.Button(g.Type("submit"), g.Class("button"), cmp.Text("Register")),
		),
		g.P(cmp.Text("Already have an account? "), g.A(g.Href("/login"), cmp.Text("Log in"))),
	)
}

// ChangePassword renders the form for a signed-in user to change password.
func ChangePassword(data auth.ChangePasswordData) cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Change password")),
		g.Form(g.Method("post"), g.Action("/change-password"),
			partials.CSRFField(data.CSRF),
			partials.NonFieldErrors(data.Errors),
			partials.Field(partials.FieldProps{
				Label: "Old password", Name: "old_password", Type: "password", Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoFocus(), g.AutoComplete("current-password"), g.Required()},
			}),
			newPasswordFields(data.Errors),
			g.Button(g.Type("submit"), g.Class("button"), cmp.Text("Change my password")),
		),
	)
}

// ChangePasswordSuccess confirms a completed password change.
func ChangePasswordSuccess() cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Password changed")),
		g.P(cmp.Text("Your password was changed.")),
		g.A(g.Class("button"), g.Href("/students"), cmp.Text("Back to students")),
	)
}
