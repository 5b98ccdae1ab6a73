package gate_test

import (
	"context"
	"sync"

	gate "github.com/goliatone/go-auth-gate"
	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/mock"
)

// MockUserFinder implements gate.UserFinder
type MockUserFinder struct {
	mock.Mock
}

func (m *MockUserFinder) GetByIdentifier(ctx context.Context, identifier string) (*gate.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*gate.User)
	return user, args.Error(1)
}

// MockResolver implements gate.StateResolver
type MockResolver struct {
	mock.Mock
}

func (m *MockResolver) Resolve(ctx router.Context) (gate.AuthState, error) {
	args := m.Called(ctx)
	return args.Get(0).(gate.AuthState), args.Error(1)
}

// routerCtx lets FakeContext embed the interface without a field named Context
type routerCtx = router.Context

// FakeContext records what the gate does to a request. Methods the gate
// never calls are left to the embedded nil interface.
type FakeContext struct {
	routerCtx

	method  string
	url     string
	headers map[string]string
	cookies map[string]string
	std     context.Context

	ResponseHeaders map[string]string
	LocalsM         map[any]any
	StatusCode      int
	BodyText        string
	RenderedView    string
	RenderedData    any
	RedirectPath    string
	RedirectStatus  int
}

func NewFakeContext(method, url string) *FakeContext {
	return &FakeContext{
		method:          method,
		url:             url,
		headers:         map[string]string{},
		cookies:         map[string]string{},
		std:             context.Background(),
		ResponseHeaders: map[string]string{},
		LocalsM:         map[any]any{},
	}
}

func (f *FakeContext) WithHeader(key, val string) *FakeContext {
	f.headers[key] = val
	return f
}

func (f *FakeContext) WithCookie(key, val string) *FakeContext {
	f.cookies[key] = val
	return f
}

func (f *FakeContext) Method() string      { return f.method }
func (f *FakeContext) OriginalURL() string { return f.url }
func (f *FakeContext) Path() string        { return f.url }

func (f *FakeContext) Header(key string) string { return f.headers[key] }

func (f *FakeContext) Cookies(key string, defaultValue ...string) string {
	if v, ok := f.cookies[key]; ok {
		return v
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *FakeContext) Query(key string, defaultValue string) string {
	return defaultValue
}

func (f *FakeContext) Param(key string, defaultValue ...string) string {
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (f *FakeContext) SetHeader(key, val string) router.Context {
	f.ResponseHeaders[key] = val
	return f
}

func (f *FakeContext) Status(code int) router.Context {
	f.StatusCode = code
	return f
}

func (f *FakeContext) SendString(s string) error {
	f.BodyText = s
	return nil
}

func (f *FakeContext) Render(name string, bind any, layout ...string) error {
	f.RenderedView = name
	f.RenderedData = bind
	return nil
}

func (f *FakeContext) Redirect(path string, status ...int) error {
	f.RedirectPath = path
	if len(status) > 0 {
		f.RedirectStatus = status[0]
	}
	return nil
}

func (f *FakeContext) Locals(key any, value ...any) any {
	if len(value) > 0 {
		f.LocalsM[key] = value[0]
		return value[0]
	}
	return f.LocalsM[key]
}

func (f *FakeContext) Context() context.Context { return f.std }

func (f *FakeContext) SetContext(ctx context.Context) { f.std = ctx }

type logCall struct {
	level   string
	message string
	args    []any
}

// captureLogger collects log lines for assertions
type captureLogger struct {
	mu    sync.Mutex
	lines []string
	calls []logCall
}

func (l *captureLogger) record(level, message string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+":"+message)
	l.calls = append(l.calls, logCall{level: level, message: message, args: args})
}

func (l *captureLogger) Debug(message string, args ...any) { l.record("debug", message, args...) }
func (l *captureLogger) Info(message string, args ...any)  { l.record("info", message, args...) }
func (l *captureLogger) Warn(message string, args ...any)  { l.record("warn", message, args...) }
func (l *captureLogger) Error(message string, args ...any) { l.record("error", message, args...) }

// find returns the first call logged with message
func (l *captureLogger) find(message string) (logCall, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.calls {
		if c.message == message {
			return c, true
		}
	}
	return logCall{}, false
}
