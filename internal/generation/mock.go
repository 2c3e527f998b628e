package generation

import (
	"context"
	"errors"
	"time"

	"github.com/superleo/marketingops/backend/internal/playable"
)

// ErrNoProvider is the cause reported by the mock gateway for operations it cannot simulate.
var ErrNoProvider = errors.New("no generation provider configured")

// MockGateway simulates the provider: it waits a fixed delay and returns a stock artifact.
// It serves every mock- model and stands in for the whole provider when no API key is set.
type MockGateway struct {
	ImageDelay time.Duration
	VideoDelay time.Duration
}

var _ Gateway = (*MockGateway)(nil)

// NewMockGateway returns a mock with the stock delays of 2s for images and 3s for videos.
func NewMockGateway() *MockGateway {
	return &MockGateway{ImageDelay: 2 * time.Second, VideoDelay: 3 * time.Second}
}

func (m *MockGateway) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	if err := sleep(ctx, m.ImageDelay); err != nil {
		return "", gatewayError("image", req.Model, err)
	}
	return randomOf(MockImages), nil
}

func (m *MockGateway) GenerateVideo(ctx context.Context, req VideoRequest) (string, error) {
	if err := sleep(ctx, m.VideoDelay); err != nil {
		return "", gatewayError("video", req.Model, err)
	}
	return randomOf(MockVideos), nil
}

func (m *MockGateway) GeneratePlayable(ctx context.Context, req PlayableRequest) (string, error) {
	if err := sleep(ctx, m.ImageDelay); err != nil {
		return "", gatewayError("playable", req.Model, err)
	}
	return playable.DataURL(mockPlayableHTML(req.Prompt)), nil
}

// OpenChat always fails; the assistant needs a real model.
func (m *MockGateway) OpenChat(context.Context) (ChatSession, error) {
	return nil, gatewayError("chat", "", ErrNoProvider)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
