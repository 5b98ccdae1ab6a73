// Package gate protects an admin area behind a three way decision.
//
// Decision policy:
//   - Decide looks at an AuthState snapshot and returns OutcomeLoading while
//     the auth provider has not settled, OutcomeRedirect when nobody is signed
//     in or the user role is not exactly "admin", and OutcomeAuthorized
//     otherwise. Render pairs the outcome with its payload: a loading
//     Placeholder, a replace Redirect to LoginPath, or the children unchanged.
//     Neither function logs or mutates its inputs.
//
// Auth state:
//   - AuthState is owned by the caller. Resolver builds it per request from a
//     session token and a UserFinder, running lookups in the background so a
//     slow store shows up as loading instead of blocking the request.
//   - StateStore holds the latest snapshot for a subject and notifies
//     subscribers. Watch re-renders whenever the store changes.
//
// HTTP:
//   - AdminGate.Middleware is a go-router middleware. Loading responses ask
//     the browser to refresh, redirects use 302/303 so the gated URL never
//     lands in history, and authorized requests reach the next handler with
//     the user in router locals and the standard context.
package gate
