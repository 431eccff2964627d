package views

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
)

// Page carries the data shared by every page.
type Page struct {
	Title string
	Alert string
	User  crud.Document
}

// OverviewPageParams contains data for rendering a list of tours.
type OverviewPageParams struct {
	Page
	Tours []crud.Document
}

// TourPageParams contains data for rendering a single tour with its reviews.
type TourPageParams struct {
	Page
	Tour crud.Document
}

// Views holds the component constructors of the pages.
type Views struct {
	Overview func(OverviewPageParams) templ.Component
	Tour     func(TourPageParams) templ.Component

	// Account pages
	Login   func(Page) templ.Component
	Signup  func(Page) templ.Component
	Account func(Page) templ.Component

	// Error views
	ErrorPage  func(handler.ErrorPageParams) templ.Component
	ErrorToast func(handler.ErrorToastParams) templ.Component
}

// WithDefaults fills every nil constructor from DefaultViews.
func (v Views) WithDefaults() Views {
	d := DefaultViews()
	if v.Overview == nil {
		v.Overview = d.Overview
	}
	if v.Tour == nil {
		v.Tour = d.Tour
	}
	if v.Login == nil {
		v.Login = d.Login
	}
	if v.Signup == nil {
		v.Signup = d.Signup
	}
	if v.Account == nil {
		v.Account = d.Account
	}
	if v.ErrorPage == nil {
		v.ErrorPage = d.ErrorPage
	}
	if v.ErrorToast == nil {
		v.ErrorToast = d.ErrorToast
	}
	return v
}
