package gate

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-router"
)

// Logger takes a message followed by alternating key/value pairs
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// Config holds gate options
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
	GetJWKSetURLs() []string
	GetLoadingView() string
	GetRefreshInterval() time.Duration
	GetWaitBudget() time.Duration
	GetLookupTimeout() time.Duration
	GetCacheTTL() time.Duration
	GetBrand() Brand
}

// StateResolver produces the AuthState for a request. It is the only way
// the HTTP middleware learns about authentication.
type StateResolver interface {
	Resolve(ctx router.Context) (AuthState, error)
}

// StateResolverFunc adapts a function into a StateResolver
type StateResolverFunc func(ctx router.Context) (AuthState, error)

// Resolve satisfies StateResolver
func (f StateResolverFunc) Resolve(ctx router.Context) (AuthState, error) {
	return f(ctx)
}

// UserFinder loads the user a session refers to
type UserFinder interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
}

// Metrics records what the gate decides and how user lookups go
type Metrics interface {
	DecisionMade(outcome Outcome)
	LookupFinished(result LookupResult, took time.Duration)
}

// LookupResult labels a finished user lookup
type LookupResult string

const (
	LookupFound    LookupResult = "found"
	LookupNotFound LookupResult = "not_found"
	LookupError    LookupResult = "error"
)

type noopMetrics struct{}

func (noopMetrics) DecisionMade(Outcome)                       {}
func (noopMetrics) LookupFinished(LookupResult, time.Duration) {}

type defLogger struct {
	out io.Writer
}

func (d defLogger) Error(msg string, args ...any) { d.print("ERR", msg, args...) }
func (d defLogger) Warn(msg string, args ...any)  { d.print("WRN", msg, args...) }
func (d defLogger) Info(msg string, args ...any)  { d.print("INF", msg, args...) }
func (d defLogger) Debug(msg string, args ...any) { d.print("DBG", msg, args...) }

func (d defLogger) print(level, msg string, args ...any) {
	out := d.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "[%s] GATE %s\n", level, logLine(msg, args...))
}

// logLine renders msg followed by key=value pairs. A trailing key without
// a value is printed as key=MISSING.
func logLine(msg string, args ...any) string {
	var b strings.Builder
	b.WriteString(msg)
	for i := 0; i < len(args); i += 2 {
		b.WriteByte(' ')
		if i+1 >= len(args) {
			fmt.Fprintf(&b, "%v=MISSING", args[i])
			break
		}
		val := fmt.Sprintf("%v", args[i+1])
		if strings.ContainsAny(val, " \t\n\"=") {
			val = strconv.Quote(val)
		}
		fmt.Fprintf(&b, "%v=%s", args[i], val)
	}
	return b.String()
}

// DefaultLogger returns the logger gate components use unless told otherwise
func DefaultLogger() Logger {
	return defLogger{}
}
