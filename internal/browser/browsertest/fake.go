// Package browsertest provides an in-memory browser.API that records every
// action, for testing workflows without a browser.
package browsertest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"bcflow/internal/browser"
)

// Action is a single recorded call, ex. {Op: "fill", Target: `placeholder="Password"`, Value: "hunter2"}.
type Action struct {
	Op     string
	Target string
	Value  string
}

func (a Action) String() string {
	if a.Value == "" {
		return fmt.Sprintf("%s %s", a.Op, a.Target)
	}
	return fmt.Sprintf("%s %s %q", a.Op, a.Target, a.Value)
}

// Fake is a browser.API. Frames share the action log of their parent.
type Fake struct {
	state *state
	frame string
}

type state struct {
	mu          sync.Mutex
	actions     []Action
	texts       map[string]string
	html        string
	failOn      map[string]error
	screenshots []string
	closed      int
	dir         string
}

func NewFake() *Fake {
	return &Fake{state: &state{
		texts:  map[string]string{},
		failOn: map[string]error{},
		dir:    "screenshots",
	}}
}

var _ browser.API = (*Fake)(nil)

// SetText makes Text return text for the locator.
func (f *Fake) SetText(l browser.Locator, text string) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.texts[l.String()] = text
}

// SetHTML makes HTML return html.
func (f *Fake) SetHTML(html string) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.html = html
}

// FailOn makes any action on the target (a locator string, url or frame selector) return err.
func (f *Fake) FailOn(target string, err error) {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.failOn[target] = err
}

func (f *Fake) record(op, target, value string) error {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	if f.frame != "" && op != "navigate" && op != "screenshot" {
		target = f.frame + " >> " + target
	}
	f.state.actions = append(f.state.actions, Action{Op: op, Target: target, Value: value})
	for key, err := range f.state.failOn {
		if strings.HasSuffix(target, key) {
			return err
		}
	}
	return nil
}

// Actions returns every recorded action in order.
func (f *Fake) Actions() []Action {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return append([]Action(nil), f.state.actions...)
}

// Ops renders the recorded actions as strings.
func (f *Fake) Ops() []string {
	var out []string
	for _, a := range f.Actions() {
		out = append(out, a.String())
	}
	return out
}

// Screenshots returns the paths of the screenshots taken.
func (f *Fake) Screenshots() []string {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return append([]string(nil), f.state.screenshots...)
}

// Closed returns how many times the top level fake was closed.
func (f *Fake) Closed() int {
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.closed
}

func (f *Fake) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.record("navigate", url, "")
}

func (f *Fake) Frame(ctx context.Context, css string) (browser.API, error) {
	err := f.record("frame", css, "")
	if err != nil {
		return nil, err
	}
	return &Fake{state: f.state, frame: css}, nil
}

func (f *Fake) Click(ctx context.Context, l browser.Locator) error {
	return f.record("click", l.String(), "")
}

func (f *Fake) Fill(ctx context.Context, l browser.Locator, value string) error {
	return f.record("fill", l.String(), value)
}

func (f *Fake) Press(ctx context.Context, l browser.Locator, key string) error {
	return f.record("press", l.String(), key)
}

func (f *Fake) Select(ctx context.Context, l browser.Locator, value string) error {
	return f.record("select", l.String(), value)
}

func (f *Fake) Text(ctx context.Context, l browser.Locator) (string, error) {
	err := f.record("text", l.String(), "")
	if err != nil {
		return "", err
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	text, ok := f.state.texts[l.String()]
	if !ok {
		return "", fmt.Errorf("%w: %s", browser.ErrNotFound, l)
	}
	return text, nil
}

func (f *Fake) HTML(ctx context.Context) (string, error) {
	err := f.record("html", "", "")
	if err != nil {
		return "", err
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	return f.state.html, nil
}

func (f *Fake) Settle(ctx context.Context) error {
	return ctx.Err()
}

func (f *Fake) Screenshot(ctx context.Context, step string) (string, error) {
	err := f.record("screenshot", step, "")
	if err != nil {
		return "", err
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	path := filepath.Join(f.state.dir, step+".png")
	f.state.screenshots = append(f.state.screenshots, path)
	return path, nil
}

func (f *Fake) Close() error {
	if f.frame != "" {
		return nil
	}
	f.state.mu.Lock()
	defer f.state.mu.Unlock()
	f.state.closed++
	return nil
}
