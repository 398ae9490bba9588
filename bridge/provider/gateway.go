// Package provider is the boundary to the hosted language models. Every other
// package talks to a Gateway and never to a vendor SDK directly.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/theimaginaryfoundation/signal-bridge/bridge/fileutils"
)

// ErrGeneration matches every error returned by Decode.
var ErrGeneration = errors.New("generation failed")

// Request is one structured generation call.
type Request struct {
	// Name identifies the output schema. It is sent to the model as the schema
	// name and is used as the metrics label.
	Name            string
	Instructions    string
	Input           string
	Schema          map[string]any
	Temperature     float64
	MaxOutputTokens int
}

// Gateway issues a structured generation request and returns the raw model text.
type Gateway interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GenerationError wraps a failed or undecodable gateway call.
type GenerationError struct {
	Name string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generate %s: %v", e.Name, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// Decode runs req through gw and unmarshals the model output into v.
// Cancellation, transport errors and malformed output all come back as *GenerationError.
func Decode(ctx context.Context, gw Gateway, req Request, v any) error {
	if gw == nil {
		return &GenerationError{Name: req.Name, Err: errors.New("gateway is nil")}
	}
	if ctx == nil {
		return &GenerationError{Name: req.Name, Err: errors.New("ctx is nil")}
	}
	if err := ctx.Err(); err != nil {
		return &GenerationError{Name: req.Name, Err: err}
	}
	out, err := gw.Generate(ctx, req)
	if err != nil {
		return &GenerationError{Name: req.Name, Err: err}
	}
	if err := fileutils.DecodeModelJSON(out, v); err != nil {
		return &GenerationError{Name: req.Name, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
