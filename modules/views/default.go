package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dmitrymomot/natours/handler"
	"github.com/dmitrymomot/natours/pkg/crud"
)

// DefaultViews returns plain HTML renderings of every page. Applications with
// their own templ templates replace the constructors they need.
func DefaultViews() Views {
	return Views{
		Overview: func(p OverviewPageParams) templ.Component {
			return layout(p.Page, func(w io.Writer) {
				io.WriteString(w, `<div class="card-container">`)
				for _, t := range p.Tours {
					fmt.Fprintf(w, `<div class="card"><h3 class="heading-tertirary"><span>%s</span></h3>`, field(t, "name"))
					if s := field(t, "summary"); s != "" {
						fmt.Fprintf(w, `<p class="card__text">%s</p>`, s)
					}
					fmt.Fprintf(w, `<p><span class="card__footer-value">$%s</span></p>`, field(t, "price"))
					fmt.Fprintf(w, `<a class="btn btn--green btn--small" href="/tour/%s">Details</a></div>`, idOf(t))
				}
				io.WriteString(w, `</div>`)
			})
		},
		Tour: func(p TourPageParams) templ.Component {
			return layout(p.Page, func(w io.Writer) {
				t := p.Tour
				fmt.Fprintf(w, `<section class="section-header"><h1 class="heading-primary"><span>%s tour</span></h1>`, field(t, "name"))
				if d := field(t, "duration"); d != "" {
					fmt.Fprintf(w, `<span class="heading-box__text">%s days</span>`, d)
				}
				io.WriteString(w, `</section>`)
				if d := field(t, "description"); d != "" {
					fmt.Fprintf(w, `<section class="section-description"><p class="description__text">%s</p></section>`, d)
				}

				io.WriteString(w, `<section class="section-reviews">`)
				reviews, _ := crud.AsList(t["reviews"])
				for _, item := range reviews {
					r, ok := crud.AsDocument(item)
					if !ok {
						continue
					}
					fmt.Fprintf(w, `<div class="reviews__card"><p class="reviews__text">%s</p><span class="reviews__rating">%s</span></div>`,
						field(r, "review"), field(r, "rating"))
				}
				io.WriteString(w, `</section>`)
			})
		},
		Login: func(p Page) templ.Component {
			return layout(p, func(w io.Writer) {
				io.WriteString(w, `<div class="login-form"><h2 class="heading-secondary">Log into your account</h2>`+
					`<form class="form form--login"><input id="email" type="email" required>`+
					`<input id="password" type="password" required minlength="8">`+
					`<button class="btn btn--green">Login</button></form></div>`)
			})
		},
		Signup: func(p Page) templ.Component {
			return layout(p, func(w io.Writer) {
				io.WriteString(w, `<div class="login-form"><h2 class="heading-secondary">Create your account</h2>`+
					`<form class="form form--signup"><input id="name" type="text" required>`+
					`<input id="email" type="email" required>`+
					`<input id="password" type="password" required minlength="8">`+
					`<input id="passwordConfirm" type="password" required minlength="8">`+
					`<button class="btn btn--green">Sign up</button></form></div>`)
			})
		},
		Account: func(p Page) templ.Component {
			return layout(p, func(w io.Writer) {
				fmt.Fprintf(w, `<div class="user-view"><h2 class="heading-secondary">Your account settings</h2>`+
					`<p>%s</p><p>%s</p><a href="/my-bookings">My bookings</a></div>`,
					field(p.User, "name"), field(p.User, "email"))
			})
		},
		ErrorPage: func(p handler.ErrorPageParams) templ.Component {
			return layout(Page{Title: p.Title}, func(w io.Writer) {
				fmt.Fprintf(w, `<div class="error"><h2 class="heading-secondary heading-secondary--error">%s</h2>`+
					`<h2 class="error__emoji">%d</h2><div class="error__msg">%s</div></div>`,
					templ.EscapeString(p.Title), p.StatusCode, templ.EscapeString(p.Error))
			})
		},
		ErrorToast: func(p handler.ErrorToastParams) templ.Component {
			return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, err := fmt.Fprintf(w, `<div class="alert alert--%s">%s</div>`,
					templ.EscapeString(p.Type), templ.EscapeString(p.Message))
				return err
			})
		},
	}
}

// layout wraps body in the page shell. Write errors surface through
// errWriter so body builders can ignore them.
func layout(p Page, body func(w io.Writer)) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		ew := &errWriter{w: w}
		fmt.Fprintf(ew, `<!DOCTYPE html><html lang="en"><head><meta charset="UTF-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1.0">`+
			`<title>Natours | %s</title></head><body>`, templ.EscapeString(p.Title))

		io.WriteString(ew, `<header class="header"><nav class="nav nav--tours"><a class="nav__el" href="/">All tours</a></nav><nav class="nav nav--user">`)
		if p.User != nil {
			fmt.Fprintf(ew, `<a class="nav__el" href="/me"><span>%s</span></a>`, firstName(field(p.User, "name")))
		} else {
			io.WriteString(ew, `<a class="nav__el" href="/login">Log in</a><a class="nav__el nav__el--cta" href="/signup">Sign up</a>`)
		}
		io.WriteString(ew, `</nav></header>`)

		if p.Alert != "" {
			fmt.Fprintf(ew, `<div class="alert alert--success" data-alert="%[1]s">%[1]s</div>`, templ.EscapeString(p.Alert))
		}
		io.WriteString(ew, `<div id="toast-container"></div><main class="main">`)
		body(ew)
		io.WriteString(ew, `</main></body></html>`)
		return ew.err
	})
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// field returns the escaped string form of doc[key], or "" when absent.
func field(doc crud.Document, key string) string {
	v, ok := doc[key]
	if !ok || v == nil {
		return ""
	}
	return templ.EscapeString(fmt.Sprint(v))
}

func idOf(doc crud.Document) string {
	if id, ok := doc[crud.KeyID].(bson.ObjectID); ok {
		return id.Hex()
	}
	return field(doc, crud.KeyID)
}

func firstName(name string) string {
	first, _, _ := strings.Cut(name, " ")
	return first
}
