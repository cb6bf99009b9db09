/*
Package element provides structured HTML element locators and the callback
factories built on top of them.

An Element describes how to find a single element on the page (by tag, id,
name, classes, arbitrary attributes or a raw XPath) and polls the browser
driver until it appears. Typed wrappers (Button, Input) fix the tag and add
interaction helpers. The factory methods return domain.Action and
domain.Condition values, so locators plug directly into graph nodes:

	user, _ := element.NewInput(element.WithID("username"))
	submit, _ := element.NewButton(element.WithAttr("type", "submit"))

	login, _ := domain.NewNode("login",
		domain.WithActions(
			user.SendKeys("nik"),
			submit.Click(),
		),
		domain.WithConditions(user.Visible()),
	)

The factories resolve the graph's opaque driver handle to a
ports.BrowserDriver at call time; any other driver value yields an error.
*/
package element
