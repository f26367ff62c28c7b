package workflows

import (
	"context"
	"errors"
	"fmt"

	"bcflow/internal/bc"
	"bcflow/internal/browser"
	"bcflow/internal/handoff"
)

func openPage(env Env, page string) Step {
	return Step{
		Name: "open " + page,
		Run: func(ctx context.Context, s *State) error {
			frame, err := bc.OpenPage(ctx, s.Page, env.BC, page)
			if err != nil {
				return err
			}
			s.Frame = frame
			return nil
		},
		Settle: true,
	}
}

func click(name string, l browser.Locator) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context, s *State) error {
			return s.Frame.Click(ctx, l)
		},
	}
}

// fill clicks into the field before filling it, some fields only become
// editable once focused.
func fill(name string, l browser.Locator, value string) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context, s *State) error {
			err := s.Frame.Click(ctx, l)
			if err != nil {
				return err
			}
			return s.Frame.Fill(ctx, l, value)
		},
	}
}

// enter fills a field and commits it with Enter.
func enter(name string, l browser.Locator, value string) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context, s *State) error {
			err := s.Frame.Click(ctx, l)
			if err != nil {
				return err
			}
			err = s.Frame.Fill(ctx, l, value)
			if err != nil {
				return err
			}
			return s.Frame.Press(ctx, l, "Enter")
		},
	}
}

func choose(name string, l browser.Locator, value string) Step {
	return Step{
		Name: name,
		Run: func(ctx context.Context, s *State) error {
			return s.Frame.Select(ctx, l, value)
		},
	}
}

func screenshot(name string) Step {
	return Step{
		Name: "screenshot " + name,
		Run: func(ctx context.Context, s *State) error {
			path, err := s.Page.Screenshot(ctx, name)
			if err != nil {
				return err
			}
			s.Screenshot = path
			return nil
		},
	}
}

func settled(s Step) Step {
	s.Settle = true
	return s
}

// heading reads the title of the open card, through the live element first
// and the rendered document second.
func heading(ctx context.Context, frame browser.API) (string, error) {
	text, err := frame.Text(ctx, bc.Heading)
	if err == nil {
		return text, nil
	}
	if !errors.Is(err, browser.ErrNotFound) {
		return "", err
	}
	html, herr := frame.HTML(ctx)
	if herr != nil {
		return "", herr
	}
	return bc.ParseHeading(html)
}

// extractStep reads the record number off the card heading and hands it off
// under key. A missing heading fails the step, a heading without a number is
// reported and the workflow goes on without an identifier.
func extractStep(env Env, key string, extractor func(string) (string, bool)) Step {
	return Step{
		Name: "extract " + key,
		Run: func(ctx context.Context, s *State) error {
			text, err := heading(ctx, s.Frame)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}

			id, ok := extractor(text)
			if !ok {
				env.Tel.ReportWarning(report_extract, "no record number in heading", key, text)
				return nil
			}
			err = env.Store.Append(ctx, handoff.NewRecord(key, id))
			if err != nil {
				return fmt.Errorf("hand off %s: %w", key, err)
			}
			s.Identifier = id
			env.Tel.ReportDebug("record number handed off", key, id)
			return nil
		},
	}
}
