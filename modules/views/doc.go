// Package views renders the server side pages of the site: the tour
// overview, a single tour with its reviews, the account forms and the list of
// tours booked by the signed in user.
//
// Pages are templ components built by the constructors in Views. DefaultViews
// provides plain HTML renderings; applications replace any of them:
//
//	pages := views.New(models, views.Views{
//		Overview: templates.Overview,
//	}, errorHandler)
//	r.Mount("/", pages.Handle())
//
// The Alerts middleware maps ?alert=booking to a confirmation message shown
// on every page.
package views
