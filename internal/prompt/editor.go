package prompt

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-recordlayout/pkg/metadata"
	"github.com/goliatone/go-recordlayout/pkg/render"
)

// Opener opens files assigned to file fields.
type Opener func(path string) (io.ReadCloser, error)

// EditorOption customises an Editor.
type EditorOption func(*Editor)

// WithOpener replaces os.Open for file fields.
func WithOpener(open Opener) EditorOption {
	return func(e *Editor) {
		if open != nil {
			e.open = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) EditorOption {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editor prompts for the editable fields of an instance.
type Editor struct {
	driver Driver
	open   Opener
	logger *slog.Logger
}

// NewEditor returns an Editor asking through driver.
func NewEditor(driver Driver, opts ...EditorOption) *Editor {
	e := &Editor{
		driver: driver,
		open:   func(path string) (io.ReadCloser, error) { return os.Open(path) },
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Edit prompts for every editable field of instance in layout order and
// writes changed answers through the instance's view model. It returns the
// changed paths once pending file encodings have completed.
func (e *Editor) Edit(ctx context.Context, instance *render.Instance) ([]string, error) {
	if len(instance.Template.EditableFields) == 0 {
		return nil, e.driver.Info(ctx, fmt.Sprintf("%s %s has no editable fields", instance.Object, instance.Model.ID()))
	}
	if err := e.driver.Info(ctx, fmt.Sprintf("Editing %s %s", instance.Object, instance.Model.ID())); err != nil {
		return nil, err
	}

	var changed []string
	for _, path := range instance.Template.EditableFields {
		field := instance.Template.Descriptors[path]
		value, ok, err := e.ask(ctx, path, field, instance.Model.Get(path))
		if err != nil {
			return changed, fmt.Errorf("prompt: %s: %w", path, err)
		}
		if !ok {
			continue
		}
		if err := assign(instance, path, value); err != nil {
			return changed, err
		}
		changed = append(changed, path)
	}

	if err := instance.Proxy.Wait(); err != nil {
		return changed, err
	}
	e.logger.Debug("record edited", "object", instance.Object, "record", instance.Model.ID(), "changed", changed)
	return changed, nil
}

// ask returns the new value of a field and whether it differs from current.
func (e *Editor) ask(ctx context.Context, path string, field metadata.FieldDescriptor, current any) (any, bool, error) {
	message := field.Label
	if message == "" {
		message = path
	}

	switch field.Type {
	case metadata.FieldTypeBoolean:
		was, _ := current.(bool)
		answer, err := e.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: was})
		if err != nil {
			return nil, false, err
		}
		return answer, answer != was, nil

	case metadata.FieldTypePicklist:
		options := make([]string, len(field.PicklistValues))
		defaultIndex := -1
		for i, option := range field.PicklistValues {
			options[i] = option.Label
			if option.Value == display(current) {
				defaultIndex = i
			}
		}
		idx, err := e.driver.Select(ctx, SelectConfig{Message: message, Options: options, DefaultIndex: defaultIndex})
		if err != nil {
			return nil, false, err
		}
		if idx < 0 || idx >= len(field.PicklistValues) {
			return nil, false, nil
		}
		value := field.PicklistValues[idx].Value
		return value, value != display(current), nil

	case metadata.FieldTypeBase64:
		answer, err := e.driver.Input(ctx, InputConfig{
			Message: message,
			Help:    "Path of the file to attach. Leave empty to keep the current file.",
		})
		if err != nil {
			return nil, false, err
		}
		if strings.TrimSpace(answer) == "" {
			return nil, false, nil
		}
		file, err := e.open(strings.TrimSpace(answer))
		if err != nil {
			return nil, false, err
		}
		return file, true, nil
	}

	was := display(current)
	cfg := InputConfig{Message: message, Default: was}
	var convert func(string) (any, error)
	switch field.Type {
	case metadata.FieldTypeInt:
		convert = func(s string) (any, error) { return strconv.Atoi(strings.TrimSpace(s)) }
	case metadata.FieldTypeDouble, metadata.FieldTypeCurrency, metadata.FieldTypePercent:
		convert = func(s string) (any, error) { return strconv.ParseFloat(strings.TrimSpace(s), 64) }
	}
	cfg.Validator = func(s string) error {
		if field.Length > 0 && utf8.RuneCountInString(s) > field.Length {
			return fmt.Errorf("at most %d characters", field.Length)
		}
		if convert != nil && strings.TrimSpace(s) != "" {
			if _, err := convert(s); err != nil {
				return fmt.Errorf("not a number")
			}
		}
		return nil
	}

	answer, err := e.driver.Input(ctx, cfg)
	if err != nil {
		return nil, false, err
	}
	if err := cfg.Validator(answer); err != nil {
		return nil, false, err
	}
	if answer == was {
		return nil, false, nil
	}
	if convert == nil || strings.TrimSpace(answer) == "" {
		return answer, true, nil
	}
	value, err := convert(answer)
	return value, err == nil, err
}

func assign(instance *render.Instance, path string, value any) error {
	if _, ok := instance.Proxy.Get(path); !ok {
		// Defining the attribute lets the view model pick the field up.
		instance.Model.Set(path, nil)
	}
	if err := instance.Proxy.Set(path, value); err != nil {
		return fmt.Errorf("prompt: set %s: %w", path, err)
	}
	return nil
}

func display(value any) string {
	if value == nil {
		return ""
	}
	return fmt.Sprint(value)
}
