package browser

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/cdp"
	"github.com/go-rod/rod/lib/proto"
	"github.com/stretchr/testify/require"
)

// fakeCDP answers just enough of the devtools protocol for locators to be
// resolved and read. Like the real client it refuses calls on a done ctx.
type fakeCDP struct {
	names  string
	text   string
	events chan *cdp.Event

	mu    sync.Mutex
	calls []string
}

func newFakeCDP(names, text string) *fakeCDP {
	return &fakeCDP{
		names:  names,
		text:   text,
		events: make(chan *cdp.Event),
	}
}

func (c *fakeCDP) Event() <-chan *cdp.Event {
	return c.events
}

func (c *fakeCDP) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeCDP) Calls() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (c *fakeCDP) Call(ctx context.Context, sessionID, method string, params interface{}) ([]byte, error) {
	err := ctx.Err()
	if err != nil {
		c.record(method + " (ctx done)")
		return nil, err
	}
	c.record(method)

	switch method {
	case "Target.attachToTarget":
		return []byte(`{"sessionId":"session-1"}`), nil
	case "Runtime.evaluate":
		return []byte(`{"result":{"type":"object","objectId":"window"}}`), nil
	case "Runtime.callFunctionOn":
		var req proto.RuntimeCallFunctionOn
		switch p := params.(type) {
		case proto.RuntimeCallFunctionOn:
			req = p
		case *proto.RuntimeCallFunctionOn:
			req = *p
		}
		return c.callFunctionOn(req), nil
	}
	return []byte(`{}`), nil
}

func (c *fakeCDP) callFunctionOn(req proto.RuntimeCallFunctionOn) []byte {
	switch {
	case req.FunctionDeclaration == "() => window":
		return []byte(`{"result":{"type":"object","objectId":"window"}}`)
	case req.ObjectID == "element-1":
		return []byte(`{"result":{"type":"string","value":` + c.text + `}}`)
	case strings.Contains(req.FunctionDeclaration, "candidates[idx].el"):
		return []byte(`{"result":{"type":"object","subtype":"node","objectId":"element-1"}}`)
	case strings.Contains(req.FunctionDeclaration, "c.name"):
		return []byte(`{"result":{"type":"object","value":` + c.names + `}}`)
	}
	// helper functions injected by rod
	return []byte(`{"result":{"type":"function","objectId":"helper-1"}}`)
}

func newTestSession(t *testing.T, client *fakeCDP, cfg Config) *Session {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	b := rod.New().Context(ctx).Client(client).NoDefaultDevice()
	require.NoError(t, b.Connect())
	page, err := b.PageFromTarget("target-1")
	require.NoError(t, err)

	return &Session{cfg: cfg, page: page}
}

func TestSessionElementOutlivesLookupTimeout(t *testing.T) {
	client := newFakeCDP(`["Edit", "New"]`, `"  New  vendor "`)
	s := newTestSession(t, client, DefaultConfig())

	text, err := s.Text(context.Background(), Role("menuitem", "New"))
	require.NoError(t, err)
	require.Equal(t, "New vendor", text)

	for _, call := range client.Calls() {
		require.NotContains(t, call, "ctx done")
	}
}

func TestSessionNotFoundSuggestsNames(t *testing.T) {
	client := newFakeCDP(`["Edit", "New"]`, `""`)
	cfg := DefaultConfig()
	cfg.ActionTimeoutMs = 300
	s := newTestSession(t, client, cfg)

	_, err := s.Text(context.Background(), Role("menuitem", "Nwe").Exact())
	require.ErrorIs(t, err, ErrNotFound)
	require.Contains(t, err.Error(), `"New"`)
}

func TestSessionHonorsCallerCancellation(t *testing.T) {
	client := newFakeCDP(`["New"]`, `"New"`)
	s := newTestSession(t, client, DefaultConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Text(ctx, Role("menuitem", "New"))
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, client.Calls(), "Runtime.evaluate (ctx done)")
}
