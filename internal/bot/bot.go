package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const getMeTimeout = 5 * time.Second

type Params struct {
	fx.In

	Config    *config.Config
	Responder Responder
	Logger    zerolog.Logger
}

// Registrar is the part of *tbot.Bot used to bind command handlers.
type Registrar interface {
	RegisterHandlerMatchFunc(matchFunc tbot.MatchFunc, f tbot.HandlerFunc, m ...tbot.Middleware) string
}

// Register binds /start, /help and /about, with or without an @username
// suffix. Everything else reaches the default handler.
func Register(r Registrar, username string, commands *Commands, sink *ErrorSink) {
	for _, c := range []struct {
		name    string
		handler Handler
	}{
		{name: "start", handler: commands.HandleStart},
		{name: "help", handler: commands.HandleHelp},
		{name: "about", handler: commands.HandleAbout},
	} {
		r.RegisterHandlerMatchFunc(matchCommand(c.name, username), sink.Wrap(c.handler))
	}
}

// matchCommand matches messages starting with /name. A command addressed to
// another bot (/name@OtherBot) does not match once username is known.
func matchCommand(name, username string) tbot.MatchFunc {
	return func(update *models.Update) bool {
		if update.Message == nil {
			return false
		}

		cmd, target, ok := command(update.Message)
		if !ok || cmd != name {
			return false
		}

		return target == "" || username == "" || strings.EqualFold(target, username)
	}
}

func New(lc fx.Lifecycle, p Params) (*tbot.Bot, error) {
	log := p.Logger

	commands, err := NewCommands(p.Config.Messages.Commands)
	if err != nil {
		return nil, err
	}
	sink := NewErrorSink(p.Config.Messages.Errors.Apology, log)
	relay := NewRelay(p.Responder, log)

	opts := []tbot.Option{
		tbot.WithDefaultHandler(sink.Wrap(relay.Handle)),
		tbot.WithErrorsHandler(sink.DispatchError),
		tbot.WithSkipGetMe(),
	}

	tg, err := tbot.New(p.Config.Token, opts...)
	if err != nil {
		return nil, err
	}

	// getMe doubles as the token check and tells us our own @username
	meCtx, meCancel := context.WithTimeout(context.Background(), getMeTimeout)
	defer meCancel()

	me, err := tg.GetMe(meCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to identify bot: %w", err)
	}
	log.Debug().Str("username", me.Username).Msg("telegram bot identified")

	Register(tg, me.Username, commands, sink)

	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(
		fx.Hook{
			OnStart: func(context.Context) error {
				log.Info().Str("model", p.Config.Model).Msg("starting telegram bot...")
				go tg.Start(ctx)
				return nil
			},
			OnStop: func(context.Context) error {
				log.Info().Msg("stopping telegram bot...")
				cancel()
				return nil
			},
		},
	)

	return tg, nil
}

func Module() fx.Option {
	return fx.Module(
		"bot",
		fx.Provide(
			New,
		),
		fx.Invoke(
			func(bot *tbot.Bot) {},
		),
	)
}
