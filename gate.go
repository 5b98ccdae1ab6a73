package gate

import (
	"fmt"
	"html/template"
	"strings"
)

// LoginPath is where visitors without admin access are sent
const LoginPath = "/admin/login"

// Outcome is the terminal state of a single gate evaluation
type Outcome int

const (
	// OutcomeLoading the auth provider has not settled
	OutcomeLoading Outcome = iota
	// OutcomeRedirect nobody is signed in or the user is not an admin
	OutcomeRedirect
	// OutcomeAuthorized the user is an admin
	OutcomeAuthorized
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLoading:
		return "loading"
	case OutcomeRedirect:
		return "redirect"
	case OutcomeAuthorized:
		return "authorized"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Redirect is a navigation instruction. Replace means the gated location
// must not stay in history.
type Redirect struct {
	Path    string
	Replace bool
}

// Placeholder is what gets shown while the auth provider is loading
type Placeholder struct {
	Brand   Brand
	Text    string
	Spinner bool
}

// HTML renders the placeholder as a small status fragment
func (p Placeholder) HTML() string {
	return execPage("placeholder", p)
}

func (p Placeholder) String() string {
	return p.Text
}

// View is the result of rendering the gate. Exactly one payload is
// meaningful, selected by Outcome.
type View[T any] struct {
	Outcome     Outcome
	Placeholder Placeholder
	Redirect    Redirect
	Children    T
}

// IsLoading reports OutcomeLoading
func (v View[T]) IsLoading() bool { return v.Outcome == OutcomeLoading }

// IsRedirect reports OutcomeRedirect
func (v View[T]) IsRedirect() bool { return v.Outcome == OutcomeRedirect }

// IsAuthorized reports OutcomeAuthorized
func (v View[T]) IsAuthorized() bool { return v.Outcome == OutcomeAuthorized }

// Decide applies the gate policy in order: loading, then missing or non
// admin user, then authorized.
func Decide(auth AuthState) Outcome {
	if auth.Loading {
		return OutcomeLoading
	}

	if auth.User == nil {
		return OutcomeRedirect
	}

	switch auth.User.GateRole().Kind() {
	case RoleKindAdmin:
		return OutcomeAuthorized
	case RoleKindOther:
		return OutcomeRedirect
	default:
		return OutcomeRedirect
	}
}

// LoginRedirect is the redirect every denied evaluation produces
func LoginRedirect() Redirect {
	return Redirect{Path: LoginPath, Replace: true}
}

// Render evaluates auth and returns the matching view, using DefaultBrand
// for the loading placeholder.
func Render[T any](children T, auth AuthState) View[T] {
	return RenderWithBrand(DefaultBrand(), children, auth)
}

// RenderWithBrand is Render with an explicit brand
func RenderWithBrand[T any](brand Brand, children T, auth AuthState) View[T] {
	switch Decide(auth) {
	case OutcomeLoading:
		return View[T]{Outcome: OutcomeLoading, Placeholder: brand.Placeholder()}
	case OutcomeAuthorized:
		return View[T]{Outcome: OutcomeAuthorized, Children: children}
	default:
		return View[T]{Outcome: OutcomeRedirect, Redirect: LoginRedirect()}
	}
}

// AdminGate bundles the decision policy with its presentation and
// transport settings.
type AdminGate struct {
	config  Config
	brand   Brand
	logger  Logger
	metrics Metrics
}

// New creates an AdminGate. A nil config falls back to DefaultOptions.
func New(cfg Config) *AdminGate {
	if cfg == nil {
		cfg = DefaultOptions()
	}
	return &AdminGate{
		config:  cfg,
		brand:   cfg.GetBrand(),
		logger:  defLogger{},
		metrics: noopMetrics{},
	}
}

// WithLogger sets the logger used by the transport adapters
func (g *AdminGate) WithLogger(l Logger) *AdminGate {
	if l != nil {
		g.logger = l
	}
	return g
}

// WithMetrics sets the recorder for middleware decisions
func (g *AdminGate) WithMetrics(m Metrics) *AdminGate {
	if m != nil {
		g.metrics = m
	}
	return g
}

// Config returns the gate configuration
func (g *AdminGate) Config() Config {
	return g.config
}

// Brand returns the brand used for the loading placeholder
func (g *AdminGate) Brand() Brand {
	return g.brand
}

// Decide is the package level Decide
func (g *AdminGate) Decide(auth AuthState) Outcome {
	return Decide(auth)
}

// Placeholder returns the loading placeholder for this gate
func (g *AdminGate) Placeholder() Placeholder {
	return g.brand.Placeholder()
}

// Guard renders children through g
func Guard[T any](g *AdminGate, children T, auth AuthState) View[T] {
	return RenderWithBrand(g.brand, children, auth)
}

var pages = template.Must(template.New("placeholder").Parse(
	`<div class="admin-gate-loading" role="status" aria-live="polite">` +
		`{{if .Spinner}}<span class="admin-gate-spinner" aria-hidden="true"></span>{{end}}` +
		`<p>{{.Text}}</p></div>`,
))

func init() {
	template.Must(pages.New("loading").Parse(
		`<!DOCTYPE html><html><head><meta charset="utf-8">` +
			`<meta http-equiv="refresh" content="{{.Refresh}}"><title>{{.Title}}</title></head>` +
			`<body>{{template "placeholder" .Placeholder}}</body></html>`,
	))
}

func execPage(name string, data any) string {
	var b strings.Builder
	if err := pages.ExecuteTemplate(&b, name, data); err != nil {
		// data is always one of our own structs
		panic(err)
	}
	return b.String()
}
