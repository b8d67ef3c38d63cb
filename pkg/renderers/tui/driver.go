package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// PromptKind selects the terminal widget used for a field.
type PromptKind string

const (
	PromptInput       PromptKind = "input"
	PromptPassword    PromptKind = "password"
	PromptConfirm     PromptKind = "confirm"
	PromptSelect      PromptKind = "select"
	PromptMultiSelect PromptKind = "multiselect"
	PromptEditor      PromptKind = "editor"
)

// Prompt is one question asked for one field.
type Prompt struct {
	Kind    PromptKind
	Path    string
	Message string
	Help    string
	// Default prefills input and editor prompts.
	Default string
	// Confirmed is the default answer of a confirm prompt.
	Confirmed bool
	// Options and Selected (indices into Options) back select prompts.
	Options  []string
	Selected []int
}

// Answer holds the reply to a Prompt. Text is set for input, password and
// editor prompts, Confirmed for confirm prompts and Indices for select
// prompts. A select prompt answers with a single index.
type Answer struct {
	Text      string
	Confirmed bool
	Indices   []int
}

// PromptDriver abstracts the terminal so prompting can be tested without a
// TTY.
type PromptDriver interface {
	Ask(ctx context.Context, prompt Prompt) (Answer, error)
	Info(ctx context.Context, msg string) error
}

type surveyDriver struct {
	out io.Writer
}

// NewSurveyDriver returns the survey-backed driver. Info messages go to out,
// os.Stdout when nil.
func NewSurveyDriver(out io.Writer) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out}
}

func (d *surveyDriver) Ask(ctx context.Context, p Prompt) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	var answer Answer
	var err error
	switch p.Kind {
	case PromptConfirm:
		err = survey.AskOne(&survey.Confirm{Message: p.Message, Help: p.Help, Default: p.Confirmed}, &answer.Confirmed)
	case PromptPassword:
		err = survey.AskOne(&survey.Password{Message: p.Message, Help: p.Help}, &answer.Text)
	case PromptEditor:
		err = survey.AskOne(&survey.Multiline{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	case PromptSelect:
		prompt := &survey.Select{Message: p.Message, Help: p.Help, Options: p.Options}
		if picked := pick(p.Options, p.Selected); len(picked) > 0 {
			prompt.Default = picked[0]
		}
		var choice string
		if err = survey.AskOne(prompt, &choice); err == nil {
			answer.Indices = indicesOf(p.Options, []string{choice})
		}
	case PromptMultiSelect:
		prompt := &survey.MultiSelect{Message: p.Message, Help: p.Help, Options: p.Options}
		if picked := pick(p.Options, p.Selected); len(picked) > 0 {
			prompt.Default = picked
		}
		var choices []string
		if err = survey.AskOne(prompt, &choices); err == nil {
			answer.Indices = indicesOf(p.Options, choices)
		}
	default:
		err = survey.AskOne(&survey.Input{Message: p.Message, Help: p.Help, Default: p.Default}, &answer.Text)
	}

	if errors.Is(err, terminal.InterruptErr) {
		return Answer{}, ErrAborted
	}
	if err != nil {
		return Answer{}, fmt.Errorf("tui: ask %s: %w", p.Path, err)
	}
	return answer, nil
}

func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func indexOf(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return -1
}

func indicesOf(options, values []string) []int {
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		seen[v] = struct{}{}
	}
	var out []int
	for i, option := range options {
		if _, ok := seen[option]; ok {
			out = append(out, i)
		}
	}
	return out
}

func pick(options []string, indices []int) []string {
	var out []string
	for _, idx := range indices {
		if idx >= 0 && idx < len(options) {
			out = append(out, options[idx])
		}
	}
	return out
}
