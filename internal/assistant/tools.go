package assistant

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/superleo/marketingops/backend/internal/generation"
)

// ToolCall is a decoded function call from the chat model: GenerateMedia or CreateCampaign.
type ToolCall interface {
	toolName() string
}

// GenerateMedia asks for a video or image.
type GenerateMedia struct {
	Prompt    string
	MediaKind generation.Kind
}

// CreateCampaign asks for a campaign draft. It is simulated and never stored.
type CreateCampaign struct {
	Name     string
	Budget   float64
	Platform string
}

func (GenerateMedia) toolName() string  { return generation.ToolGenerateMedia }
func (CreateCampaign) toolName() string { return generation.ToolCreateCampaign }

// ParseToolCall decodes fc. Unknown tools and malformed arguments are errors.
func ParseToolCall(fc generation.FunctionCall) (ToolCall, error) {
	switch fc.Name {
	case generation.ToolGenerateMedia:
		prompt, ok := fc.Args["prompt"].(string)
		if !ok || strings.TrimSpace(prompt) == "" {
			return nil, fmt.Errorf("%s: missing prompt", fc.Name)
		}
		mediaType, _ := fc.Args["mediaType"].(string)
		call := GenerateMedia{Prompt: prompt}
		switch strings.ToUpper(mediaType) {
		case "VIDEO":
			call.MediaKind = generation.KindVideo
		case "IMAGE":
			call.MediaKind = generation.KindImage
		default:
			return nil, fmt.Errorf("%s: unsupported mediaType %q", fc.Name, mediaType)
		}
		return call, nil
	case generation.ToolCreateCampaign:
		name, ok := fc.Args["name"].(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%s: missing name", fc.Name)
		}
		budget, err := number(fc.Args["budget"])
		if err != nil {
			return nil, fmt.Errorf("%s: budget: %w", fc.Name, err)
		}
		platform, _ := fc.Args["platform"].(string)
		return CreateCampaign{Name: name, Budget: budget, Platform: strings.ToLower(platform)}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", fc.Name)
}

// number accepts the JSON number shapes a provider may send.
func number(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		return strconv.ParseFloat(n, 64)
	case nil:
		return 0, fmt.Errorf("missing")
	}
	return 0, fmt.Errorf("unexpected type %T", v)
}
