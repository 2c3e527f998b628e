// Package assistant runs the chat view: a conversation with the provider's chat model that
// can generate media into the library and sketch campaigns through tool calls.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/superleo/marketingops/backend/internal/generation"
	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/validation"
)

const (
	Greeting = "Hi! I'm the SuperLeo bot. I can generate a video or an image for you, or launch an ad campaign. Just ask!"

	savedReply           = "Done! I saved the result to your library."
	generationErrorReply = "Something went wrong while generating."
	connectionErrorReply = "Sorry, a connection error occurred."

	defaultMaxSessions = 256
)

var ErrSessionNotFound = errors.New("chat session not found")

type session struct {
	mu       sync.Mutex // serializes sends
	chat     generation.ChatSession
	messages []Message
}

// Service owns the open chat sessions. The least recently used session is dropped once
// the limit is reached.
type Service struct {
	gen      *generation.Service
	library  media.LibraryStore
	sessions *lru.Cache[string, *session]
	now      func() time.Time
}

func NewService(gen *generation.Service, library media.LibraryStore, maxSessions int) (*Service, error) {
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	cache, err := lru.New[string, *session](maxSessions)
	if err != nil {
		return nil, fmt.Errorf("assistant: session cache: %w", err)
	}
	return &Service{gen: gen, library: library, sessions: cache, now: time.Now}, nil
}

// Open starts a conversation and returns its id with the greeting.
func (s *Service) Open(ctx context.Context) (string, []Message, error) {
	chat, err := s.gen.Gateway().OpenChat(ctx)
	if err != nil {
		return "", nil, fmt.Errorf("open chat: %w", err)
	}
	id := uuid.NewString()
	sess := &session{chat: chat}
	sess.messages = append(sess.messages, Message{ID: "init", Role: RoleModel, Text: Greeting, Timestamp: s.now()})
	s.sessions.Add(id, sess)
	logging.Ctx(ctx).Info().Str("session", id).Msg("chat session opened")
	return id, cloneMessages(sess.messages), nil
}

// Messages returns the conversation so far.
func (s *Service) Messages(id string) ([]Message, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return cloneMessages(sess.messages), nil
}

// Close forgets a session.
func (s *Service) Close(id string) bool {
	return s.sessions.Remove(id)
}

// Send posts text to the model and returns the messages appended to the conversation by
// this turn, user message first. Provider failures become a model message, not an error.
func (s *Service) Send(ctx context.Context, id, text string) ([]Message, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "text", Message: "is required"}
	}
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	start := len(sess.messages)
	sess.messages = append(sess.messages, s.message(RoleUser, text, nil))

	reply, err := sess.chat.SendMessage(ctx, text)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("session", id).Msg("chat send failed")
		sess.messages = append(sess.messages, s.message(RoleModel, connectionErrorReply, nil))
		return cloneMessages(sess.messages[start:]), nil
	}

	responseText := reply.Text
	var attachment *Attachment
	for _, fc := range reply.FunctionCalls {
		call, err := ParseToolCall(fc)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("session", id).Msg("ignoring tool call")
			continue
		}
		switch c := call.(type) {
		case GenerateMedia:
			sess.messages = append(sess.messages, s.message(RoleModel, workingText(c), nil))
			responseText, attachment = s.generateMedia(ctx, c)
		case CreateCampaign:
			responseText = fmt.Sprintf("Campaign %q with budget %s created! (Simulated)", c.Name, strconv.FormatFloat(c.Budget, 'f', -1, 64))
			attachment = &Attachment{
				Type: AttachmentCampaign,
				Data: CampaignAttachment{Name: c.Name, Budget: c.Budget, Status: "active"},
			}
		}
	}
	sess.messages = append(sess.messages, s.message(RoleModel, responseText, attachment))
	return cloneMessages(sess.messages[start:]), nil
}

func workingText(c GenerateMedia) string {
	what := "an image"
	if c.MediaKind == generation.KindVideo {
		what = "a video"
	}
	return fmt.Sprintf("Generating %s for: %q... This may take a while.", what, c.Prompt)
}

// generateMedia renders without charging and saves the artifact to the library.
func (s *Service) generateMedia(ctx context.Context, c GenerateMedia) (string, *Attachment) {
	res, err := s.gen.Render(ctx, generation.Request{Kind: c.MediaKind, Prompt: c.Prompt})
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("kind", string(c.MediaKind)).Msg("chat generation failed")
		return generationErrorReply, nil
	}
	item := &media.MediaItem{
		ID:        uuid.NewString(),
		Type:      c.MediaKind.MediaType(),
		URL:       res.URL,
		Thumbnail: res.URL,
		Title:     c.Prompt,
		CreatedAt: s.now(),
		Tags:      []string{media.TagChatGenerated},
		Metadata:  &media.Metadata{Prompt: c.Prompt, Model: res.Model},
	}
	if c.MediaKind == generation.KindVideo {
		item.CPIMetrics = media.RandomCPI(nil)
	}
	if s.library != nil {
		s.library.Add(item)
	}
	kind := AttachmentImage
	if c.MediaKind == generation.KindVideo {
		kind = AttachmentVideo
	}
	return savedReply, &Attachment{Type: kind, URL: res.URL}
}

func (s *Service) message(role Role, text string, att *Attachment) Message {
	return Message{ID: uuid.NewString(), Role: role, Text: text, Timestamp: s.now(), Attachment: att}
}

func cloneMessages(in []Message) []Message {
	return append([]Message(nil), in...)
}
