package ai

import (
	"fmt"

	"github.com/j0lvera/tgrelay/internal/bot"
	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

// Params for creating an AI service
type Params struct {
	fx.In

	Config *config.Config
	Logger zerolog.Logger
}

// ModuleResult is what New provides to the fx graph
type ModuleResult struct {
	fx.Out

	Responder bot.Responder
}

// NewCompleter picks the Completer implementation named by driver.
func NewCompleter(cfg *config.Config) (Completer, error) {
	switch cfg.Driver {
	case config.DriverLangchain:
		return NewLangchainCompleter(cfg.APIKey, cfg.BaseURL, cfg.Model)
	case config.DriverGoOpenAI:
		return NewOpenAICompleter(cfg.APIKey, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// New creates a new AI service based on configuration
func New(p Params) (ModuleResult, error) {
	completer, err := NewCompleter(p.Config)
	if err != nil {
		return ModuleResult{}, err
	}

	service, err := NewService(completer, p.Config, p.Logger)
	if err != nil {
		return ModuleResult{}, err
	}

	p.Logger.Info().
		Str("driver", p.Config.Driver).
		Str("model", p.Config.Model).
		Msg("ai service ready")

	return ModuleResult{
		Responder: service,
	}, nil
}

// Module provides the AI service
func Module() fx.Option {
	return fx.Module(
		"ai",
		fx.Provide(
			New,
		),
	)
}
