package main

import (
	"github.com/ipfans/fxlogger"
	"github.com/j0lvera/tgrelay/internal/ai"
	"github.com/j0lvera/tgrelay/internal/bot"
	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/j0lvera/tgrelay/internal/log"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func app() fx.Option {
	return fx.Options(
		fx.WithLogger(func(logger zerolog.Logger) fxevent.Logger {
			return fxlogger.WithZerolog(logger)()
		}),
		config.Module(),
		log.Module(),
		ai.Module(),
		bot.Module(),
	)
}

func main() {
	fx.New(app()).Run()
}
