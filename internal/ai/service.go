package ai

import (
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/j0lvera/tgrelay/internal/bot"
	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
)

// Service implements the bot.Responder interface
type Service struct {
	completer   Completer
	system      *template.Template
	model       string
	maxTokens   int
	temperature float64
	fallback    string
	log         zerolog.Logger
}

var _ bot.Responder = (*Service)(nil)

func NewService(completer Completer, cfg *config.Config, log zerolog.Logger) (*Service, error) {
	system, err := template.New("system").Parse(cfg.Messages.Prompts.System)
	if err != nil {
		return nil, fmt.Errorf("failed to parse system prompt: %w", err)
	}

	return &Service{
		completer:   completer,
		system:      system,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		fallback:    cfg.Messages.Errors.Fallback,
		log:         log,
	}, nil
}

// SystemPrompt renders the system prompt for userName.
func (s *Service) SystemPrompt(userName string) (string, error) {
	var b strings.Builder
	if err := s.system.Execute(&b, struct{ Name string }{Name: userName}); err != nil {
		return "", fmt.Errorf("failed to render system prompt: %w", err)
	}
	return b.String(), nil
}

// Complete makes a single completion call for userText and reports its
// outcome. userName is used as given; the bot has already resolved it.
func (s *Service) Complete(ctx context.Context, userText, userName string) Result {
	system, err := s.SystemPrompt(userName)
	if err != nil {
		return Result{Err: err}
	}

	text, err := s.completer.Complete(ctx, Request{
		SystemPrompt: system,
		UserText:     userText,
		Model:        s.model,
		MaxTokens:    s.maxTokens,
		Temperature:  s.temperature,
	})
	if err != nil {
		return Result{Err: err}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{Err: ErrEmptyResponse}
	}

	return Result{Text: text}
}

// Respond implements the bot.Responder interface. It never fails: any error
// is logged and the fallback text is returned instead.
func (s *Service) Respond(ctx context.Context, userText, userName string) string {
	res := s.Complete(ctx, userText, userName)
	if !res.OK() {
		s.log.Error().Err(res.Err).Str("model", s.model).Msg("ai completion failed")
		return s.fallback
	}

	return res.Text
}
