package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/view/dto/auth"
	"github.com/nfrund/student-portal/web/src/templates/partials"
)

var passwordHelp = []string{
	"Your password can't be too similar to your other personal information.",
	"Your password must contain at least 8 characters.",
	"Your password can't be a commonly used password.",
	"Your password can't be entirely numeric.",
}

func newPasswordFields(fe domain.FieldErrors) cmp.Node {
	return cmp.Group{
		partials.Field(partials.FieldProps{
			Label: "New password", Name: "new_password1", Type: "password", Errors: fe,
			Attrs:     []cmp.Node{g.AutoComplete("new-password"), g.Required()},
			HelpTexts: passwordHelp,
		}),
		partials.Field(partials.FieldProps{
			Label: "New password confirmation", Name: "new_password2", Type: "password", Errors: fe,
			Attrs: []cmp.Node{g.AutoComplete("new-password"), g.Required()},
		}),
	}
}

// ResetRequest asks for the email address of the account to recover.
func ResetRequest(data auth.ResetRequestData) cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Reset password")),
		g.P(cmp.Text("Enter the email address you registered with and we will send you a link to choose a new password.")),
		g.Form(g.Method("post"), g.Action("/password-reset"),
			partials.CSRFField(data.CSRF),
			cmp.If(data.Error != "", g.P(g.Class("alert alert-error"), g.Role("alert"), cmp.Text(data.Error))),
			partials.Field(partials.FieldProps{
				Label: "Email", Name: "email", Type: "email", Value: data.Email,
				Attrs: []cmp.Node{g.AutoFocus(), g.AutoComplete("email"), g.Required()},
			}),
			g.Button(g.Type("submit"), g.Class("button"), cmp.Text("Send reset link")),
		),
	)
}

// ResetDone tells the user the link was sent and shows it once.
func ResetDone(data auth.ResetDoneData) cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Check your email")),
		g.P(cmp.Text("If the address matched an account, a reset link is on its way.")),
		cmp.If(data.Link != "", g.P(g.ID("reset-link"),
			cmp.Text("Your reset link: "),
			g.A(g.Href(data.Link), cmp.Text(data.Link)),
		)),
	)
}

// ResetConfirm renders the new password form, or the invalid link message.
func ResetConfirm(data auth.SetPasswordData) cmp.Node {
	if data.Invalid {
		return g.Section(g.Class("card narrow"),
			g.H1(cmp.Text("Invalid reset link")),
			g.P(cmp.Text("The password reset link was invalid, possibly because it has already been used or has expired. Please request a new password reset.")),
			g.A(g.Class("button"), g.Href("/password-reset"), cmp.Text("Request a new link")),
		)
	}
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Choose a new password")),
		g.Form(g.Method("post"),
			partials.CSRFField(data.CSRF),
			partials.NonFieldErrors(data.Errors),
			newPasswordFields(data.Errors),
			g.Button(g.Type("submit"), g.Class("button"), cmp.Text("Change my password")),
		),
	)
}

// ResetComplete is the terminal page of the reset flow.
func ResetComplete() cmp.Node {
	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text("Password reset complete")),
		g.P(cmp.Text("Your password has been set. You may go ahead and log in now.")),
		g.A(g.Class("button"), g.Href("/login"), cmp.Text("Log in")),
	)
}
