package pages

import (
	"net/url"
	"strconv"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/student-portal/internal/domain"
	"github.com/nfrund/student-portal/internal/students"
	dto "github.com/nfrund/student-portal/internal/view/dto/students"
	"github.com/nfrund/student-portal/web/src/templates/partials"
)

// StudentResultsID is the element htmx swaps when searching or paging.
const StudentResultsID = "student-results"

// StudentList is the full list page: search box plus the results.
func StudentList(page *students.Page) cmp.Node {
	return g.Section(g.Class("card"),
		g.Div(g.Class("toolbar"),
			g.H1(cmp.Text("Students")),
			g.A(g.Class("button"), g.Href("/add"), cmp.Text("Add student")),
		),
		g.Form(g.Method("get"), g.Action("/students"), g.Class("search"), g.Role("search"),
			g.Input(
				g.Type("search"), g.Name("search"), g.Value(page.Search),
				g.Placeholder("Search by name or course"), g.Aria("label", "Search students"),
				hx.Get("/students"),
				hx.Trigger("input changed delay:300ms, search"),
				hx.Target("#"+StudentResultsID),
				hx.Swap("outerHTML"),
				hx.PushURL("true"),
			),
			g.Button(g.Type("submit"), g.Class("button secondary"), cmp.Text("Search")),
		),
		StudentResults(page),
	)
}

// StudentResults is the table and pager. It is also returned on its own to
// htmx requests.
func StudentResults(page *students.Page) cmp.Node {
	return g.Div(g.ID(StudentResultsID),
		cmp.If(len(page.Students) == 0, g.P(g.Class("muted"), cmp.Text("No students found."))),
		cmp.If(len(page.Students) > 0, g.Table(g.Class("table"),
			g.THead(g.Tr(
				g.Th(cmp.Text("Name")),
				g.Th(cmp.Text("Course")),
				g.Th(cmp.Text("Marks")),
				g.Th(cmp.Text("Age")),
				g.Th(cmp.Text("Actions")),
			)),
			g.TBody(cmp.Map(page.Students, func(s domain.Student) cmp.Node {
				id := strconv.FormatUint(uint64(s.ID), 10)
				return g.Tr(
					g.Td(cmp.Text(s.Name)),
					g.Td(cmp.Text(s.Course)),
					g.Td(cmp.Text(strconv.Itoa(s.Marks))),
					g.Td(cmp.Text(strconv.Itoa(s.Age))),
					g.Td(g.Class("actions"),
						g.A(g.Href("/edit/"+id), cmp.Text("Edit")),
						g.A(g.Class("danger"), g.Href("/delete/"+id), cmp.Text("Delete")),
					),
				)
			})),
		)),
		pager(page),
	)
}

func pager(page *students.Page) cmp.Node {
	if page.NumPages <= 1 {
		return nil
	}
	link := func(number int, label string) cmp.Node {
		href := pageURL(page.Search, number)
		return g.A(g.Href(href),
			hx.Get(href), hx.Target("#"+StudentResultsID), hx.Swap("outerHTML"), hx.PushURL("true"),
			cmp.Text(label),
		)
	}
	return g.Nav(g.Class("pagination"), g.Aria("label", "Pagination"),
		cmp.If(page.HasPrevious(), cmp.Group{link(1, "« first"), link(page.PreviousNumber(), "previous")}),
		g.Span(g.Class("current"),
			cmp.Textf("Page %d of %d (%d-%d of %d)", page.Number, page.NumPages, page.StartIndex(), page.EndIndex(), page.Total),
		),
		cmp.If(page.HasNext(), cmp.Group{link(page.NextNumber(), "next"), link(page.NumPages, "last »")}),
	)
}

func pageURL(search string, number int) string {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	q.Set("page", strconv.Itoa(number))
	return "/students?" + q.Encode()
}

// StudentForm renders the add form, or the edit form when data.ID is set.
func StudentForm(data dto.FormData) cmp.Node {
	title, action, submit := "Add student", "/add", "Add"
	if data.IsEdit() {
		id := strconv.FormatUint(uint64(data.ID), 10)
		title, action, submit = "Edit student", "/edit/"+id, "Save"
	}

	return g.Section(g.Class("card narrow"),
		g.H1(cmp.Text(title)),
		g.Form(g.Method("post"), g.Action(action),
			partials.CSRFField(data.CSRF),
			partials.NonFieldErrors(data.Errors),
			partials.Field(partials.FieldProps{
				Label: "Name", Name: "name", Value: data.Form.Name, Errors: data.Errors,
				Attrs: []cmp.Node{g.AutoFocus(), g.MaxLength("100"), g.Required()},
			}),
			partials.Field(partials.FieldProps{
				Label: "Course", Name: "course", Value: data.Form.Course, Errors: data.Errors,
				Attrs: []cmp.Node{g.MaxLength("100"), g.Required()},
			}),
			partials.Field(partials.FieldProps{
				Label: "Marks", Name: "marks", Type: "number", Value: data.Form.Marks, Errors: data.Errors,
				Attrs: []cmp.Node{g.Min("0"), g.Max("100"), g.Required()},
			}),
			partials.Field(partials.FieldProps{
				Label: "Age", Name: "age", Type: "number", Value: data.Form.Age, Errors: data.Errors,
				Attrs: []cmp.Node{g.Required()},
			}),
			g.Div(g.Class("actions"),
				g.Button(g.Type("submit"), g.Class("button"), cmp.Text(submit)),
				g.A(g.Class("button secondary"), g.Href("/students"), cmp.Text("Cancel")),
			),
		),
	)
}
