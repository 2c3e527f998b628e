package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/playable"
)

const (
	defaultChatModel     = "gemini-2.5-flash"
	defaultPlayableModel = "gemini-2.5-flash"
	defaultPollInterval  = 5 * time.Second

	removeBackgroundSuffix = ", isolated on transparent background, no background, clean cut"
	referenceStyleSuffix   = " (based on provided reference style)"

	systemInstruction = "You are the SuperLeo assistant. You speak Russian. You can help users generate media (videos/images) " +
		"and create ad campaigns using the available tools. Be concise, friendly, and helpful."

	playablePromptTemplate = `Create a single HTML file for a playable ad (mini-game) based on this description: "%s".
It should be a simple interactive canvas or DOM game.
Include internal CSS and JS. Make it colorful and fun.
Do not use markdown backticks. Just return the raw HTML code.`
)

// Tool names the chat model may call.
const (
	ToolGenerateMedia  = "generate_media"
	ToolCreateCampaign = "create_campaign"
)

// GeminiConfig configures the Gemini gateway.
type GeminiConfig struct {
	APIKey       string
	ChatModel    string
	PollInterval time.Duration // video operation polling
	Guard        GuardConfig
	Mock         *MockGateway // serves mock- models; defaults to NewMockGateway()
}

// GeminiGateway talks to Google's generative models through the genai SDK.
type GeminiGateway struct {
	client *genai.Client
	cfg    GeminiConfig
	guard  *guard
	mock   *MockGateway
	log    zerolog.Logger
}

var _ Gateway = (*GeminiGateway)(nil)

// NewGeminiGateway creates a gateway using cfg.APIKey.
func NewGeminiGateway(ctx context.Context, cfg GeminiConfig) (*GeminiGateway, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	if cfg.ChatModel == "" {
		cfg.ChatModel = defaultChatModel
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	mock := cfg.Mock
	if mock == nil {
		mock = NewMockGateway()
	}
	return &GeminiGateway{
		client: client,
		cfg:    cfg,
		guard:  newGuard(cfg.Guard),
		mock:   mock,
		log:    logging.Component("gemini"),
	}, nil
}

// GenerateImage uses Imagen for imagen models and generateContent for the Gemini image models.
func (g *GeminiGateway) GenerateImage(ctx context.Context, req ImageRequest) (string, error) {
	if IsMockModel(req.Model) {
		return g.mock.GenerateImage(ctx, req)
	}
	prompt := req.Prompt
	if req.RemoveBackground {
		prompt += removeBackgroundSuffix
	}
	if strings.Contains(req.Model, "imagen") {
		return g.imagen(ctx, req, prompt)
	}
	return g.geminiImage(ctx, req, prompt)
}

func (g *GeminiGateway) imagen(ctx context.Context, req ImageRequest, prompt string) (string, error) {
	if req.Reference != nil {
		prompt += referenceStyleSuffix
	}
	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "1:1"
	}
	resp, err := guarded(ctx, g.guard, func() (*genai.GenerateImagesResponse, error) {
		return g.client.Models.GenerateImages(ctx, req.Model, prompt, &genai.GenerateImagesConfig{
			NumberOfImages: 1,
			OutputMIMEType: "image/jpeg",
			AspectRatio:    aspect,
		})
	})
	if err != nil {
		return "", gatewayError("image", req.Model, err)
	}
	if resp == nil || len(resp.GeneratedImages) == 0 || resp.GeneratedImages[0].Image == nil {
		return "", gatewayError("image", req.Model, ErrNoContent)
	}
	return playable.EncodeDataURL("image/jpeg", resp.GeneratedImages[0].Image.ImageBytes), nil
}

// geminiImage returns the first inline image of the reply. Models that answer with text only
// get the first stock image.
func (g *GeminiGateway) geminiImage(ctx context.Context, req ImageRequest, prompt string) (string, error) {
	parts := []*genai.Part{{Text: prompt}}
	if req.Reference != nil {
		parts = append(parts, &genai.Part{InlineData: &genai.Blob{Data: req.Reference.Data, MIMEType: req.Reference.MIMEType}})
	}
	resp, err := guarded(ctx, g.guard, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, req.Model, []*genai.Content{{Parts: parts}}, nil)
	})
	if err != nil {
		return "", gatewayError("image", req.Model, err)
	}
	if resp != nil {
		for _, cand := range resp.Candidates {
			if cand.Content == nil {
				continue
			}
			for _, p := range cand.Content.Parts {
				if p.InlineData != nil && strings.HasPrefix(p.InlineData.MIMEType, "image/") {
					return playable.EncodeDataURL(p.InlineData.MIMEType, p.InlineData.Data), nil
				}
			}
		}
	}
	g.log.Debug().Str("model", req.Model).Msg("no inline image in reply, using stock image")
	return MockImages[0], nil
}

// GenerateVideo starts a Veo operation and polls it until done.
func (g *GeminiGateway) GenerateVideo(ctx context.Context, req VideoRequest) (string, error) {
	if IsMockModel(req.Model) {
		return g.mock.GenerateVideo(ctx, req)
	}
	var image *genai.Image
	if req.Reference != nil {
		image = &genai.Image{ImageBytes: req.Reference.Data, MIMEType: req.Reference.MIMEType}
	}
	op, err := guarded(ctx, g.guard, func() (*genai.GenerateVideosOperation, error) {
		return g.client.Models.GenerateVideos(ctx, req.Model, req.Prompt, image, &genai.GenerateVideosConfig{
			NumberOfVideos: 1,
			Resolution:     "720p",
			AspectRatio:    "16:9",
		})
	})
	if err != nil {
		return "", gatewayError("video", req.Model, err)
	}
	started := time.Now()
	for !op.Done {
		if err := sleep(ctx, g.cfg.PollInterval); err != nil {
			return "", gatewayError("video", req.Model, err)
		}
		op, err = g.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", gatewayError("video", req.Model, fmt.Errorf("poll operation: %w", err))
		}
		g.log.Debug().Str("model", req.Model).Dur("elapsed", time.Since(started)).Bool("done", op.Done).Msg("polled video operation")
	}
	if op.Error != nil {
		return "", gatewayError("video", req.Model, fmt.Errorf("operation failed: %v", op.Error))
	}
	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return "", gatewayError("video", req.Model, ErrNoContent)
	}
	uri := op.Response.GeneratedVideos[0].Video.URI
	if uri == "" {
		return "", gatewayError("video", req.Model, ErrNoContent)
	}
	sep := "&"
	if !strings.Contains(uri, "?") {
		sep = "?"
	}
	return uri + sep + "key=" + g.cfg.APIKey, nil
}

// GeneratePlayable asks a text model for a single-file HTML game. mock- models use the
// default playable model.
func (g *GeminiGateway) GeneratePlayable(ctx context.Context, req PlayableRequest) (string, error) {
	model := req.Model
	if model == "" || IsMockModel(model) {
		model = defaultPlayableModel
	}
	prompt := fmt.Sprintf(playablePromptTemplate, req.Prompt)
	resp, err := guarded(ctx, g.guard, func() (*genai.GenerateContentResponse, error) {
		return g.client.Models.GenerateContent(ctx, model, []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}}, nil)
	})
	if err != nil {
		return "", gatewayError("playable", model, err)
	}
	text := ""
	if resp != nil {
		text = resp.Text()
	}
	doc, err := playable.Normalize(text)
	if err != nil {
		return playable.DataURL(emptyPlayableHTML), nil
	}
	return playable.DataURL(doc.HTML), nil
}

// OpenChat starts a chat with the SuperLeo system instruction and both tools declared.
func (g *GeminiGateway) OpenChat(ctx context.Context) (ChatSession, error) {
	chat, err := g.client.Chats.Create(ctx, g.cfg.ChatModel, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Tools:             []*genai.Tool{{FunctionDeclarations: toolDeclarations()}},
	}, nil)
	if err != nil {
		return nil, gatewayError("chat", g.cfg.ChatModel, err)
	}
	return &geminiChat{chat: chat, guard: g.guard, model: g.cfg.ChatModel}, nil
}

type geminiChat struct {
	chat  *genai.Chat
	guard *guard
	model string
}

func (c *geminiChat) SendMessage(ctx context.Context, text string) (*ChatReply, error) {
	resp, err := guarded(ctx, c.guard, func() (*genai.GenerateContentResponse, error) {
		return c.chat.SendMessage(ctx, genai.Part{Text: text})
	})
	if err != nil {
		return nil, gatewayError("chat", c.model, err)
	}
	reply := &ChatReply{}
	if resp == nil {
		return reply, nil
	}
	reply.Text = resp.Text()
	for _, fc := range resp.FunctionCalls() {
		if fc == nil {
			continue
		}
		reply.FunctionCalls = append(reply.FunctionCalls, FunctionCall{Name: fc.Name, Args: fc.Args})
	}
	return reply, nil
}

func toolDeclarations() []*genai.FunctionDeclaration {
	return []*genai.FunctionDeclaration{
		{
			Name:        ToolGenerateMedia,
			Description: "Generates a video or image based on a prompt.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"prompt":    {Type: genai.TypeString, Description: "The description of the content to generate"},
					"mediaType": {Type: genai.TypeString, Description: `Type of media: "VIDEO" or "IMAGE"`},
				},
				Required: []string{"prompt", "mediaType"},
			},
		},
		{
			Name:        ToolCreateCampaign,
			Description: "Creates a new advertising campaign draft.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"name":     {Type: genai.TypeString, Description: "Name of the campaign"},
					"budget":   {Type: genai.TypeNumber, Description: "Budget amount"},
					"platform": {Type: genai.TypeString, Description: "Platform: google, facebook, or tiktok"},
				},
				Required: []string{"name", "budget"},
			},
		},
	}
}
