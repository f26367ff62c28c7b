package browser

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bcflow/internal/components/chrono"
	"bcflow/internal/components/telemetry"
	"bcflow/lib/htmlutil"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/rod/lib/utils"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("bcflow/internal/browser")

const (
	report_launch     = "session.launch"
	report_screenshot = "session.screenshot"
	report_close      = "session.close"
)

const pollInterval = 250 * time.Millisecond

var keys = map[string]input.Key{
	"Enter":     input.Enter,
	"Tab":       input.Tab,
	"Escape":    input.Escape,
	"Backspace": input.Backspace,
	"ArrowDown": input.ArrowDown,
	"ArrowUp":   input.ArrowUp,
}

// Session is the go-rod implementation of API. A Session returned by Frame
// shares the browser of its parent and only its parent may be closed.
type Session struct {
	cfg      Config
	clock    chrono.API
	tel      telemetry.API
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *rod.Page
	top      *Session
}

var _ API = (*Session)(nil)

// Launch starts (or connects to) a browser and opens a blank page.
func Launch(ctx context.Context, cfg Config, clock chrono.API, tel telemetry.API) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Launch")
	defer span.End()

	tel = telemetry.NewScopedAPI("browser", tel)

	var l *launcher.Launcher
	controlURL := cfg.DebuggerURL
	if controlURL == "" {
		l = launcher.New().Headless(cfg.Headless)
		if cfg.Bin != "" {
			l = l.Bin(cfg.Bin)
		}
		u, err := l.Context(ctx).Launch()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to launch chromium")
			tel.ReportBroken(report_launch, err)
			return nil, fmt.Errorf("launch chromium: %w", err)
		}
		controlURL = u
	}

	b := rod.New().ControlURL(controlURL)
	if cfg.SlowMotionMs > 0 {
		b = b.SlowMotion(time.Duration(cfg.SlowMotionMs) * time.Millisecond)
	}
	err := b.Connect()
	if err != nil {
		if l != nil {
			l.Kill()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to connect to chromium")
		return nil, fmt.Errorf("connect to chromium: %w", err)
	}

	page, err := b.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		if l != nil {
			l.Kill()
		}
		return nil, fmt.Errorf("open page: %w", err)
	}

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.GetViewportWidth(),
		Height:            cfg.GetViewportHeight(),
		DeviceScaleFactor: 1,
	})
	if err != nil {
		tel.ReportWarning(report_launch, "failed to set viewport", err)
	}

	tel.ReportDebug("browser ready", "headless", cfg.Headless, "control_url", controlURL)
	return &Session{
		cfg:      cfg,
		clock:    clock,
		tel:      tel,
		browser:  b,
		launcher: l,
		page:     page,
	}, nil
}

func (s *Session) root() *Session {
	if s.top != nil {
		return s.top
	}
	return s
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	ctx, span := tracer.Start(ctx, "Navigate")
	defer span.End()
	span.SetAttributes(attribute.String("url", url))

	ctx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout())
	defer cancel()

	page := s.page.Context(ctx)
	err := page.Navigate(url)
	if err != nil {
		span.SetStatus(codes.Error, "navigate")
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	err = page.WaitLoad()
	if err != nil {
		span.SetStatus(codes.Error, "wait load")
		return fmt.Errorf("wait for %s to load: %w", url, err)
	}
	return nil
}

func (s *Session) Frame(ctx context.Context, css string) (API, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.NavigationTimeout())
	defer cancel()

	el, err := s.page.Context(ctx).Element(css)
	if err != nil {
		return nil, fmt.Errorf("%w: frame %s: %v", ErrNotFound, css, err)
	}
	frame, err := el.Frame()
	if err != nil {
		return nil, fmt.Errorf("enter frame %s: %w", css, err)
	}
	return &Session{
		cfg:     s.cfg,
		clock:   s.clock,
		tel:     s.tel,
		browser: s.browser,
		page:    frame.Context(context.Background()),
		top:     s.root(),
	}, nil
}

// evaluator is either a *rod.Page or a *rod.Element.
type evaluator interface {
	Eval(js string, args ...interface{}) (*proto.RuntimeRemoteObject, error)
	ElementByJS(opts *rod.EvalOptions) (*rod.Element, error)
}

func (s *Session) names(target evaluator, l Locator) ([]string, error) {
	res, err := target.Eval(namesJS, string(l.kind), l.role, l.css)
	if err != nil {
		return nil, err
	}
	arr := res.Value.Arr()
	names := make([]string, len(arr))
	for i, v := range arr {
		names[i] = v.Str()
	}
	return names, nil
}

// tryResolve makes one attempt at finding an element, a nil element with a
// nil error means it is not there (yet).
func (s *Session) tryResolve(ctx context.Context, l Locator) (*rod.Element, []string, error) {
	var target evaluator = s.page.Context(ctx).Sleeper(rod.NotFoundSleeper)
	if l.parent != nil {
		parent, _, err := s.tryResolve(ctx, *l.parent)
		if err != nil || parent == nil {
			return nil, nil, err
		}
		target = parent
	}

	names, err := s.names(target, l)
	if err != nil {
		return nil, nil, err
	}
	idx := pick(names, l)
	if idx < 0 {
		return nil, names, nil
	}
	el, err := target.ElementByJS(rod.Eval(elementJS, string(l.kind), l.role, l.css, idx))
	if err != nil {
		// the page re-rendered between the two evaluations
		return nil, names, nil
	}
	return el, names, nil
}

// resolve polls until the locator matches or the action timeout passes. The
// timeout bounds the polling only, the element is bound to the caller's ctx.
func (s *Session) resolve(ctx context.Context, l Locator) (*rod.Element, error) {
	callerCtx := ctx
	ctx, cancel := context.WithTimeout(ctx, s.cfg.ActionTimeout())
	defer cancel()

	var lastNames []string
	var lastErr error
	for {
		el, names, err := s.tryResolve(ctx, l)
		if el != nil {
			return el.Context(callerCtx), nil
		}
		if names != nil {
			lastNames = names
		}
		if err != nil {
			lastErr = err
		}

		select {
		case <-ctx.Done():
			if err := callerCtx.Err(); err != nil {
				return nil, fmt.Errorf("resolve %s: %w", l, err)
			}
			msg := fmt.Sprintf("%s: %s", ErrNotFound.Error(), l)
			if suggestions := closest(lastNames, l.name); len(suggestions) > 0 {
				msg += fmt.Sprintf(" (closest: %q)", suggestions)
			}
			if lastErr != nil && !errors.Is(lastErr, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%s: %w", msg, errors.Join(ErrNotFound, lastErr))
			}
			return nil, fmt.Errorf("%s: %w", msg, ErrNotFound)
		case <-time.After(pollInterval):
		}
	}
}

func (s *Session) Click(ctx context.Context, l Locator) error {
	ctx, span := tracer.Start(ctx, "Click")
	defer span.End()
	span.SetAttributes(attribute.String("locator", l.String()))

	el, err := s.resolve(ctx, l)
	if err != nil {
		span.SetStatus(codes.Error, "resolve")
		return err
	}
	err = el.Click(proto.InputMouseButtonLeft, 1)
	if err != nil {
		return fmt.Errorf("click %s: %w", l, err)
	}
	return nil
}

func (s *Session) Fill(ctx context.Context, l Locator, value string) error {
	ctx, span := tracer.Start(ctx, "Fill")
	defer span.End()
	span.SetAttributes(attribute.String("locator", l.String()))

	el, err := s.resolve(ctx, l)
	if err != nil {
		span.SetStatus(codes.Error, "resolve")
		return err
	}
	err = el.SelectAllText()
	if err != nil {
		return fmt.Errorf("clear %s: %w", l, err)
	}
	err = el.Input(value)
	if err != nil {
		return fmt.Errorf("fill %s: %w", l, err)
	}
	return nil
}

func (s *Session) Press(ctx context.Context, l Locator, key string) error {
	k, ok := keys[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	el, err := s.resolve(ctx, l)
	if err != nil {
		return err
	}
	err = el.Type(k)
	if err != nil {
		return fmt.Errorf("press %s on %s: %w", key, l, err)
	}
	return nil
}

func (s *Session) Select(ctx context.Context, l Locator, value string) error {
	ctx, span := tracer.Start(ctx, "Select")
	defer span.End()
	span.SetAttributes(attribute.String("locator", l.String()), attribute.String("value", value))

	el, err := s.resolve(ctx, l)
	if err != nil {
		span.SetStatus(codes.Error, "resolve")
		return err
	}
	err = el.Select([]string{fmt.Sprintf(`option[value="%s"]`, value)}, true, rod.SelectorTypeCSSSector)
	if err == nil {
		return nil
	}
	err = el.Select([]string{value}, true, rod.SelectorTypeText)
	if err != nil {
		return fmt.Errorf("select %q in %s: %w", value, l, err)
	}
	return nil
}

func (s *Session) Text(ctx context.Context, l Locator) (string, error) {
	el, err := s.resolve(ctx, l)
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", fmt.Errorf("read text of %s: %w", l, err)
	}
	return htmlutil.Clean(text), nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	return s.page.Context(ctx).HTML()
}

func (s *Session) Settle(ctx context.Context) error {
	delay := s.cfg.SettleDelay()
	if delay == 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Session) Screenshot(ctx context.Context, step string) (string, error) {
	ctx, span := tracer.Start(ctx, "Screenshot")
	defer span.End()

	top := s.root()
	data, err := top.page.Context(ctx).Screenshot(false, nil)
	if err != nil {
		span.SetStatus(codes.Error, "capture")
		s.tel.ReportBroken(report_screenshot, err, step)
		return "", fmt.Errorf("capture screenshot: %w", err)
	}

	path := ScreenshotPath(s.cfg.GetScreenshotDir(), step, s.clock.Now())
	err = utils.OutputFile(path, data)
	if err != nil {
		s.tel.ReportBroken(report_screenshot, err, path)
		return "", fmt.Errorf("write screenshot: %w", err)
	}
	s.tel.ReportDebug("screenshot taken", path)
	return path, nil
}

// Close closes the browser, closing a frame session is a no-op.
func (s *Session) Close() error {
	if s.top != nil {
		return nil
	}
	var errs []error
	if s.browser != nil {
		err := s.browser.Close()
		if err != nil {
			s.tel.ReportWarning(report_close, err)
			errs = append(errs, err)
		}
		s.browser = nil
	}
	if s.launcher != nil {
		s.launcher.Kill()
		s.launcher.Cleanup()
		s.launcher = nil
	}
	return errors.Join(errs...)
}
