// Package workflows runs the Business Central automations: each one signs in,
// performs a fixed sequence of steps on a page and hands the record number it
// produced to the next one.
package workflows

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bcflow/internal/assert"
	"bcflow/internal/bc"
	"bcflow/internal/browser"
	"bcflow/internal/components/telemetry"
	"bcflow/internal/handoff"
	"bcflow/internal/notify"
	"bcflow/internal/runlog"
	"bcflow/internal/runlog/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("bcflow/internal/workflows")
	meter  = otel.Meter("bcflow/internal/workflows")
)

const (
	report_run        = "runner.run"
	report_close      = "runner.close"
	report_screenshot = "runner.screenshot"
	report_history    = "runner.history"
	report_notify     = "runner.notify"
	report_extract    = "extract"
)

// ErrorScreenshot is the name of the screenshot taken when a step fails.
const ErrorScreenshot = "Error"

var ErrMissingInputs = errors.New("missing inputs")

// StepError is returned by Runner.Run when a workflow fails.
type StepError struct {
	Workflow   string
	Step       string
	Screenshot string
	Err        error
}

func (e *StepError) Error() string {
	if e.Screenshot != "" {
		return fmt.Sprintf("%s: %s: %v (screenshot: %s)", e.Workflow, e.Step, e.Err, e.Screenshot)
	}
	return fmt.Sprintf("%s: %s: %v", e.Workflow, e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Env is what a workflow may consult while planning.
type Env struct {
	BC         bc.Config
	Creds      bc.Credentials
	Store      handoff.Store
	InputsPath string
	Tel        telemetry.API
}

// State is shared by the steps of a single run. Frame is nil until a page
// has been opened.
type State struct {
	Page       browser.API
	Frame      browser.API
	Identifier string
	Screenshot string
}

type Step struct {
	Name string
	Run  func(ctx context.Context, s *State) error
	// Settle waits for the page to re-render after the step.
	Settle bool
}

type Plan struct {
	Steps []Step
	// Screenshot is taken after the last step, none is taken when empty.
	Screenshot string
	// Identifier is known up front for workflows that act on an existing record.
	Identifier string
	// Email is used to sign in when no email is configured.
	Email string
}

type Workflow interface {
	Name() string
	// Plan checks preconditions before any browser is launched and returns the
	// steps to run once signed in.
	Plan(ctx context.Context, env Env) (Plan, error)
}

type Result struct {
	RunID      string
	Workflow   string
	Identifier string
	Screenshot string
}

// BrowserFactory opens a fresh page, the runner closes it.
type BrowserFactory func(ctx context.Context) (browser.API, error)

// History records runs, implemented by runlog.Store.
type History interface {
	Begin(ctx context.Context, workflow string) (runlog.Run, error)
	Finish(ctx context.Context, run runlog.Run, outcome runlog.Outcome) (runlog.Run, error)
}

type Runner struct {
	browser  BrowserFactory
	env      Env
	history  History
	notifier notify.Notifier
	tel      telemetry.API
	runs     metric.Int64Counter
}

type runnerConfig struct {
	history  History
	notifier notify.Notifier
	tel      telemetry.API
}

type RunnerOption func(cfg *runnerConfig)

func WithHistory(history History) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.history = history
	}
}

func WithNotifier(notifier notify.Notifier) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.notifier = notifier
	}
}

func WithTelemetryAPI(tel telemetry.API) RunnerOption {
	return func(cfg *runnerConfig) {
		cfg.tel = tel
	}
}

func NewRunner(factory BrowserFactory, env Env, options ...RunnerOption) (Runner, error) {
	assert.NotNil(factory, "browser factory")
	assert.NotNil(env.Store, "handoff store")
	assert.NotEmptyStr(env.BC.LoginURL, "sign in url")
	assert.NotEmptyStr(env.BC.BaseURL, "business central url")

	cfg := runnerConfig{}
	for _, opt := range options {
		opt(&cfg)
	}

	runs, err := meter.Int64Counter(
		"bcflow_workflow_runs_total",
		metric.WithDescription("The total amount of workflow runs by workflow and status."),
	)
	if err != nil {
		return Runner{}, err
	}

	r := Runner{
		browser:  factory,
		env:      env,
		history:  cfg.history,
		notifier: notify.Nop{},
		tel:      telemetry.SlogAPI{},
		runs:     runs,
	}
	if cfg.notifier != nil {
		r.notifier = cfg.notifier
	}
	if cfg.tel != nil {
		r.tel = cfg.tel
	}
	r.tel = telemetry.NewScopedAPI("workflows", r.tel)
	r.env.Tel = r.tel
	return r, nil
}

// Run executes a workflow from sign in to its last step. Failures are
// returned as a *StepError, the page is closed in every case.
func (r Runner) Run(ctx context.Context, wf Workflow) (Result, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()
	span.SetAttributes(attribute.String("workflow", wf.Name()))

	result := Result{Workflow: wf.Name()}

	var run runlog.Run
	if r.history != nil {
		var err error
		run, err = r.history.Begin(ctx, wf.Name())
		if err != nil {
			span.SetStatus(codes.Error, "failed to record run")
			r.tel.ReportBroken(report_history, err, wf.Name())
			return result, err
		}
		result.RunID = run.ID
	}

	state, err := r.execute(ctx, wf)
	if state != nil {
		result.Identifier = state.Identifier
		result.Screenshot = state.Screenshot
	}

	status := db.STATUS_SUCCEEDED
	if err != nil {
		status = db.STATUS_FAILED
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.tel.ReportBroken(report_run, err)

		var stepErr *StepError
		if errors.As(err, &stepErr) && stepErr.Screenshot != "" {
			result.Screenshot = stepErr.Screenshot
		}
	} else {
		r.tel.ReportDebug("workflow finished", wf.Name(), result.Identifier)
	}
	r.runs.Add(ctx, 1, metric.WithAttributes(
		attribute.String("workflow", wf.Name()),
		attribute.String("status", string(status)),
	))

	// the run must be recorded even when ctx was cancelled mid-run
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if r.history != nil {
		_, herr := r.history.Finish(finishCtx, run, runlog.Outcome{
			Identifier: result.Identifier,
			Screenshot: result.Screenshot,
			Err:        err,
		})
		if herr != nil {
			r.tel.ReportBroken(report_history, herr, wf.Name())
		}
	}
	if err != nil {
		failure := notify.Failure{
			RunID:      result.RunID,
			Workflow:   wf.Name(),
			Err:        err,
			Screenshot: result.Screenshot,
		}
		var stepErr *StepError
		if errors.As(err, &stepErr) {
			failure.Step = stepErr.Step
			failure.Err = stepErr.Err
		}
		nerr := r.notifier.ReportFailure(finishCtx, failure)
		if nerr != nil {
			r.tel.ReportBroken(report_notify, nerr, wf.Name())
		}
	}

	return result, err
}

func (r Runner) execute(ctx context.Context, wf Workflow) (*State, error) {
	plan, err := wf.Plan(ctx, r.env)
	if err != nil {
		return nil, &StepError{Workflow: wf.Name(), Step: "prepare", Err: err}
	}

	page, err := r.browser(ctx)
	if err != nil {
		return nil, &StepError{Workflow: wf.Name(), Step: "launch", Err: err}
	}
	defer func() {
		err := page.Close()
		if err != nil {
			r.tel.ReportBroken(report_close, err)
		}
	}()

	state := &State{Page: page, Identifier: plan.Identifier}

	creds := r.env.Creds
	if creds.Email == "" {
		creds.Email = plan.Email
	}

	step := "login"
	err = bc.Login(ctx, page, r.env.BC, creds)
	if err == nil {
		for _, s := range plan.Steps {
			step = s.Name
			err = r.runStep(ctx, s, state)
			if err != nil {
				break
			}
		}
	}
	if err == nil && plan.Screenshot != "" {
		step = "screenshot"
		state.Screenshot, err = page.Screenshot(ctx, plan.Screenshot)
	}
	if err != nil {
		return state, &StepError{
			Workflow:   wf.Name(),
			Step:       step,
			Screenshot: r.errorScreenshot(ctx, page),
			Err:        err,
		}
	}
	return state, nil
}

func (r Runner) runStep(ctx context.Context, s Step, state *State) error {
	ctx, span := tracer.Start(ctx, s.Name)
	defer span.End()

	err := s.Run(ctx, state)
	if err == nil && s.Settle {
		err = state.Page.Settle(ctx)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

func (r Runner) errorScreenshot(ctx context.Context, page browser.API) string {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	path, err := page.Screenshot(ctx, ErrorScreenshot)
	if err != nil {
		r.tel.ReportBroken(report_screenshot, err)
		return ""
	}
	return path
}
