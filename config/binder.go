package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
)

const tagName = "config"

const (
	StageDecode   = "decode"
	StageValidate = "validate"
)

// Binder decodes merged source data into a struct and validates it.
//
// Fields are mapped with `config` tags and checked with `validate` tags.
// Decoding is weakly typed so that the all-string values coming from env and
// CLI sources convert to ints, bools and durations ("5s"). Sources are
// merged case-insensitively before binding, which is what lets
// EXTRESOLVE_RESOLVER_INDEXMODE reach a field tagged `config:"indexMode"`.
type Binder struct {
	validator *validator.Validate
}

// BindError reports which stage rejected the data.
type BindError struct {
	// Stage is StageDecode or StageValidate.
	Stage string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("config %s error: %v", e.Stage, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func NewBinder() *Binder {
	return &Binder{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Bind decodes source into target, which must be a pointer to a struct, and
// validates the result. target may be partially populated when validation
// fails.
func (b *Binder) Bind(source map[string]any, target any) error {
	if err := b.decode(source, target); err != nil {
		return &BindError{Stage: StageDecode, Err: err}
	}
	if err := b.validator.Struct(target); err != nil {
		return &BindError{Stage: StageValidate, Err: err}
	}
	return nil
}

func (b *Binder) decode(source map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		TagName: tagName,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(source)
}
