// Package generation produces creatives through an external generative provider and applies
// the house rules around it: model costs, the balance, and the placeholder fallback.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/superleo/marketingops/backend/internal/media"
)

// Kind is the generation tab a request belongs to.
type Kind string

const (
	KindVideo    Kind = "video"
	KindImage    Kind = "image"
	KindPlayable Kind = "playable"
)

// Kinds lists the generation kinds in display order.
var Kinds = []Kind{KindVideo, KindImage, KindPlayable}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindVideo, KindImage, KindPlayable:
		return true
	}
	return false
}

// MediaType is the library type of artifacts of kind k.
func (k Kind) MediaType() media.MediaType {
	switch k {
	case KindVideo:
		return media.TypeVideo
	case KindImage:
		return media.TypeImage
	default:
		return media.TypePlayableAd
	}
}

// ReferenceImage is an uploaded image guiding a generation.
type ReferenceImage struct {
	Data     []byte
	MIMEType string
}

type ImageRequest struct {
	Prompt           string
	Model            string
	AspectRatio      string
	Reference        *ReferenceImage
	RemoveBackground bool
}

type VideoRequest struct {
	Prompt    string
	Model     string
	Reference *ReferenceImage
}

type PlayableRequest struct {
	Prompt string
	Model  string
}

// FunctionCall is a tool invocation requested by the chat model. Args are untyped as
// received from the provider.
type FunctionCall struct {
	Name string
	Args map[string]any
}

// ChatReply is one model turn.
type ChatReply struct {
	Text          string
	FunctionCalls []FunctionCall
}

// ChatSession is a conversation with the assistant model.
type ChatSession interface {
	SendMessage(ctx context.Context, text string) (*ChatReply, error)
}

// Gateway is the provider facade. Every operation returns a URL or inline data URL, or
// fails with an *Error.
type Gateway interface {
	GenerateImage(ctx context.Context, req ImageRequest) (string, error)
	GenerateVideo(ctx context.Context, req VideoRequest) (string, error)
	GeneratePlayable(ctx context.Context, req PlayableRequest) (string, error)
	OpenChat(ctx context.Context) (ChatSession, error)
}

// Error is a provider failure.
type Error struct {
	Op    string
	Model string
	Err   error
}

func (e *Error) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("generation %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("generation %s with %s: %v", e.Op, e.Model, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func gatewayError(op, model string, err error) error {
	var gerr *Error
	if errors.As(err, &gerr) {
		return err
	}
	return &Error{Op: op, Model: model, Err: err}
}

// ErrInsufficientFunds is returned when a generation costs more than the balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrNoContent is the cause when the provider answered without an artifact.
var ErrNoContent = errors.New("provider returned no content")
