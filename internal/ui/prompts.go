package ui

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// ErrAborted is returned when the user leaves a prompt with esc or ctrl+c.
var ErrAborted = errors.New("prompt aborted")

// ConfirmOption customizes a Confirm field.
type ConfirmOption func(*huh.Confirm) *huh.Confirm

// WithLabels renames the yes and no buttons.
func WithLabels(affirmative, negative string) ConfirmOption {
	return func(c *huh.Confirm) *huh.Confirm {
		return c.Affirmative(affirmative).Negative(negative)
	}
}

func WithDescription(desc string) ConfirmOption {
	return func(c *huh.Confirm) *huh.Confirm {
		return c.Description(desc)
	}
}

// Confirm asks a yes/no question.
func Confirm(title string, opts ...ConfirmOption) (bool, error) {
	var answer bool
	field := huh.NewConfirm().Title(title).Value(&answer)
	for _, opt := range opts {
		field = opt(field)
	}
	if err := run(field); err != nil {
		return false, err
	}
	return answer, nil
}

// InputOption customizes an Input field.
type InputOption func(*huh.Input) *huh.Input

func WithInputDescription(desc string) InputOption {
	return func(in *huh.Input) *huh.Input {
		return in.Description(desc)
	}
}

func WithPlaceholder(placeholder string) InputOption {
	return func(in *huh.Input) *huh.Input {
		return in.Placeholder(placeholder)
	}
}

// WithValidate rejects input for which fn returns an error.
func WithValidate(fn func(string) error) InputOption {
	return func(in *huh.Input) *huh.Input {
		return in.Validate(fn)
	}
}

// Input reads one line of text. The field starts out holding initial, which is
// returned as is when the user just presses enter.
func Input(title, initial string, opts ...InputOption) (string, error) {
	answer := initial
	field := huh.NewInput().Title(title).Value(&answer)
	for _, opt := range opts {
		field = opt(field)
	}
	if err := run(field); err != nil {
		return "", err
	}
	return answer, nil
}

// SelectOption is one choice of a Select prompt.
type SelectOption[T comparable] struct {
	Label string
	Value T
}

func Select[T comparable](title string, options []SelectOption[T]) (T, error) {
	var answer T
	choices := make([]huh.Option[T], 0, len(options))
	for _, o := range options {
		choices = append(choices, huh.NewOption(o.Label, o.Value))
	}
	err := run(huh.NewSelect[T]().Title(title).Options(choices...).Value(&answer))
	return answer, err
}

func run(field huh.Field) error {
	err := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithKeyMap(KeyMap()).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrAborted
	}
	return err
}
