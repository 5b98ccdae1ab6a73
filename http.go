package gate

import (
	stderrors "errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/goliatone/go-router"
)

// Middleware guards the routes it wraps. The resolver is consulted on every
// request; the decision itself is Decide.
func (g *AdminGate) Middleware(resolver StateResolver) router.MiddlewareFunc {
	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(ctx router.Context) error {
			if resolver == nil {
				return ErrResolverRequired
			}

			state, err := resolver.Resolve(ctx)
			if err != nil {
				args := []any{"path", ctx.OriginalURL(), "error", err}
				var richErr *errors.Error
				if stderrors.As(err, &richErr) && len(richErr.Metadata) > 0 {
					args = append(args, "details", print.MaybePrettyJSON(richErr.Metadata))
				}
				g.logger.Error("admin gate could not resolve auth state", args...)
				state = AnonymousState()
			}

			// gate responses depend on who is asking
			ctx.SetHeader("Cache-Control", "no-store")

			outcome := Decide(state)
			g.metrics.DecisionMade(outcome)

			switch outcome {
			case OutcomeLoading:
				return g.renderLoading(ctx)
			case OutcomeAuthorized:
				ctx.Locals(UserLocalsKey, state.User)
				ctx.SetContext(WithState(WithUser(ctx.Context(), state.User), state))
				return next(ctx)
			default:
				return g.redirectToLogin(ctx)
			}
		}
	}
}

// Handler adapts the gate into a handler with the protected handler as
// children, for routers where middleware chains are inconvenient.
func (g *AdminGate) Handler(resolver StateResolver, children router.HandlerFunc) router.HandlerFunc {
	return g.Middleware(resolver)(children)
}

func (g *AdminGate) redirectToLogin(ctx router.Context) error {
	// A server redirect never leaves the gated URL in history, which is
	// the replace navigation the gate requires.
	statusCode := http.StatusSeeOther
	if m := ctx.Method(); m == http.MethodGet || m == http.MethodHead {
		statusCode = http.StatusFound
	}

	g.logger.Debug("admin gate redirecting", "from", ctx.OriginalURL(), "to", LoginPath, "status", statusCode)

	return ctx.Redirect(LoginRedirect().Path, statusCode)
}

func (g *AdminGate) renderLoading(ctx router.Context) error {
	placeholder := g.Placeholder()
	seconds := refreshSeconds(g.config.GetRefreshInterval())

	ctx.SetHeader("Refresh", strconv.Itoa(seconds))

	if view := g.config.GetLoadingView(); view != "" {
		return ctx.Status(http.StatusOK).Render(view, MergeTemplateData(ctx, g.brand, router.ViewContext{
			"title":           placeholder.Brand.Title(),
			"brand":           placeholder.Brand,
			"loading_text":    placeholder.Text,
			"placeholder":     placeholder.HTML(),
			"refresh_seconds": seconds,
		}))
	}

	ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
	return ctx.Status(http.StatusOK).SendString(LoadingPage(placeholder, seconds))
}

// LoadingPage is the standalone document served while auth is loading
func LoadingPage(p Placeholder, refresh int) string {
	return execPage("loading", struct {
		Refresh     int
		Title       string
		Placeholder Placeholder
	}{refresh, p.Brand.Title(), p})
}

func refreshSeconds(d time.Duration) int {
	d = orDefault(d, DefaultRefreshInterval)
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return s
}
