package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/superleo/marketingops/backend/internal/games"
	"github.com/superleo/marketingops/backend/internal/logging"
	"github.com/superleo/marketingops/backend/internal/media"
	"github.com/superleo/marketingops/backend/internal/metrics"
	"github.com/superleo/marketingops/backend/internal/playable"
	"github.com/superleo/marketingops/backend/internal/validation"
)

// videoThumbnail stands in for a frame grab of generated videos.
const videoThumbnail = "https://picsum.photos/320/180"

const libraryTitleLength = 30

// Request is one generation from the generation view or the assistant.
type Request struct {
	Kind             Kind       `json:"kind"`
	Prompt           string     `json:"prompt"`
	Model            string     `json:"model,omitempty"`
	Game             games.Name `json:"appName,omitempty" validate:"omitempty,game"`
	AspectRatio      string     `json:"aspectRatio,omitempty" validate:"omitempty,oneof=1:1 16:9 9:16 4:3 3:4"`
	ReferenceImage   string     `json:"referenceImage,omitempty"` // base64 data URL or http(s) URL
	RemoveBackground bool       `json:"removeBackground,omitempty"`
}

// Result is a finished generation. A Fallback result carries a placeholder URL, the provider
// error and no cost.
type Result struct {
	Kind     Kind       `json:"kind"`
	Model    string     `json:"model"`
	Game     games.Name `json:"appName,omitempty"`
	Prompt   string     `json:"prompt"`
	URL      string     `json:"url"`
	Cost     float64    `json:"cost"`
	Fallback bool       `json:"fallback"`
	Error    string     `json:"error,omitempty"`
	Balance  float64    `json:"balance"`
}

// ReferenceFetcher downloads reference images given by URL.
type ReferenceFetcher interface {
	FetchImage(ctx context.Context, url string) (mimeType string, data []byte, err error)
}

// Service applies pricing and the placeholder policy on top of a Gateway.
type Service struct {
	gateway Gateway
	catalog *Catalog
	wallet  *Wallet
	library media.LibraryStore
	fetcher ReferenceFetcher
	now     func() time.Time
}

func NewService(gw Gateway, catalog *Catalog, wallet *Wallet, library media.LibraryStore) *Service {
	if catalog == nil {
		catalog = DefaultCatalog()
	}
	if wallet == nil {
		wallet = NewWallet(DefaultBalance, nil)
	}
	return &Service{gateway: gw, catalog: catalog, wallet: wallet, library: library, now: time.Now}
}

func (s *Service) Catalog() *Catalog { return s.catalog }

func (s *Service) Balance() float64 { return s.wallet.Balance() }

// SetReferenceFetcher enables http(s) reference images. Without one only data URLs are accepted.
func (s *Service) SetReferenceFetcher(f ReferenceFetcher) { s.fetcher = f }

// Gateway exposes the provider, used by the assistant to open chat sessions.
func (s *Service) Gateway() Gateway { return s.gateway }

type prepared struct {
	req   Request
	model Model
	ref   *ReferenceImage
}

func (s *Service) prepare(ctx context.Context, req Request) (*prepared, error) {
	if !req.Kind.Valid() {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "kind", Message: "must be one of: video image playable"}
	}
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	m, ok := s.catalog.Lookup(req.Kind, req.Model)
	if !ok {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "model", Message: fmt.Sprintf("unknown %s model %q", req.Kind, req.Model)}
	}
	ref, err := s.reference(ctx, req.ReferenceImage)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Prompt) == "" && (ref == nil || req.Kind == KindPlayable) {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "prompt", Message: "is required"}
	}
	req.Model = m.ID
	return &prepared{req: req, model: m, ref: ref}, nil
}

func (s *Service) reference(ctx context.Context, raw string) (*ReferenceImage, error) {
	if raw == "" {
		return nil, nil
	}
	if s.fetcher != nil && (strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://")) {
		mime, data, err := s.fetcher.FetchImage(ctx, raw)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("fetch reference: %w", ctxErr)
			}
			return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "referenceImage", Message: err.Error()}
		}
		return &ReferenceImage{Data: data, MIMEType: mime}, nil
	}
	mime, data, err := playable.DecodeDataURL(raw)
	if err != nil || !strings.HasPrefix(mime, "image/") {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "referenceImage", Message: "must be a base64 image data URL"}
	}
	return &ReferenceImage{Data: data, MIMEType: mime}, nil
}

// Generate charges the model cost and runs the request. The cost is reserved before the
// provider is called and refunded if the result falls back to a placeholder.
func (s *Service) Generate(ctx context.Context, req Request) (*Result, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.wallet.Reserve(p.model.Cost); err != nil {
		metrics.RecordGeneration(string(p.req.Kind), "rejected", 0)
		return nil, err
	}
	res, err := s.render(ctx, p)
	if err != nil {
		s.wallet.Refund(p.model.Cost)
		return nil, err
	}
	if res.Fallback {
		s.wallet.Refund(p.model.Cost)
	} else {
		res.Cost = p.model.Cost
	}
	res.Balance = s.wallet.Balance()
	return res, nil
}

// Render runs the request without touching the balance. The assistant generates this way.
func (s *Service) Render(ctx context.Context, req Request) (*Result, error) {
	p, err := s.prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	res, err := s.render(ctx, p)
	if err != nil {
		return nil, err
	}
	res.Balance = s.wallet.Balance()
	return res, nil
}

// render dispatches to the gateway. Provider errors degrade to a placeholder; only a
// cancelled ctx is returned as an error.
func (s *Service) render(ctx context.Context, p *prepared) (*Result, error) {
	prompt := p.req.Prompt
	if p.req.Game != "" {
		prompt = fmt.Sprintf("[Context: Game Style %s] %s", p.req.Game, prompt)
	}
	res := &Result{Kind: p.req.Kind, Model: p.req.Model, Game: p.req.Game, Prompt: p.req.Prompt}

	start := time.Now()
	var url string
	var err error
	switch p.req.Kind {
	case KindImage:
		url, err = s.gateway.GenerateImage(ctx, ImageRequest{
			Prompt:           prompt,
			Model:            p.req.Model,
			AspectRatio:      p.req.AspectRatio,
			Reference:        p.ref,
			RemoveBackground: p.req.RemoveBackground,
		})
	case KindVideo:
		url, err = s.gateway.GenerateVideo(ctx, VideoRequest{Prompt: prompt, Model: p.req.Model, Reference: p.ref})
	case KindPlayable:
		url, err = s.gateway.GeneratePlayable(ctx, PlayableRequest{Prompt: prompt, Model: p.req.Model})
	}
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("generate %s: %w", p.req.Kind, ctxErr)
		}
		logging.Ctx(ctx).Warn().Err(err).
			Str("kind", string(p.req.Kind)).
			Str("model", p.req.Model).
			Msg("generation failed, using placeholder")
		metrics.RecordGeneration(string(p.req.Kind), "fallback", elapsed)
		res.URL = Placeholder(p.req.Kind)
		res.Fallback = true
		res.Error = err.Error()
		return res, nil
	}
	metrics.RecordGeneration(string(p.req.Kind), "success", elapsed)
	logging.Ctx(ctx).Info().
		Str("kind", string(p.req.Kind)).
		Str("model", p.req.Model).
		Dur("elapsed", elapsed).
		Msg("generation succeeded")
	res.URL = url
	return res, nil
}

// SaveToLibrary stores res as a new library item and returns it.
func (s *Service) SaveToLibrary(res *Result) (*media.MediaItem, error) {
	if res == nil || res.URL == "" {
		return nil, &validation.Error{Code: validation.CodeInvalidField, Field: "url", Message: "is required"}
	}
	if s.library == nil {
		return nil, errors.New("generation: no library configured")
	}
	item := NewLibraryItem(res, s.now())
	if err := validation.Struct(item); err != nil {
		return nil, err
	}
	s.library.Add(item)
	return item, nil
}

// NewLibraryItem builds the library item for a generation view result.
func NewLibraryItem(res *Result, now time.Time) *media.MediaItem {
	title := res.Prompt
	if runes := []rune(title); len(runes) > libraryTitleLength {
		title = string(runes[:libraryTitleLength])
	}
	if strings.TrimSpace(title) == "" {
		title = fmt.Sprintf("Generated for %s", res.Game)
	}
	tags := []string{media.TagGenerated, string(res.Kind), res.Model}
	if res.Game != "" {
		tags = append(tags, string(res.Game))
	}
	item := &media.MediaItem{
		ID:        uuid.NewString(),
		Type:      res.Kind.MediaType(),
		URL:       res.URL,
		Thumbnail: res.URL,
		Title:     title,
		CreatedAt: now,
		Tags:      tags,
		Game:      res.Game,
		Metadata:  &media.Metadata{Prompt: res.Prompt, Model: res.Model},
	}
	if res.Kind == KindVideo {
		item.Thumbnail = videoThumbnail
		item.CPIMetrics = media.RandomCPI(nil)
	}
	return item
}
