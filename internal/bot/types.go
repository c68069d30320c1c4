package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_responder.go -package=mocks github.com/j0lvera/tgrelay/internal/bot Responder
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_sender.go -package=mocks github.com/j0lvera/tgrelay/internal/bot Sender

// Responder turns a user's message into the text the bot replies with.
// Implementations never fail; errors are folded into a fallback text.
type Responder interface {
	Respond(ctx context.Context, userText, userName string) string
}

// Sender is the part of the Telegram client the handlers use.
// *tbot.Bot satisfies it.
type Sender interface {
	SendMessage(ctx context.Context, params *tbot.SendMessageParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *tbot.SendChatActionParams) (bool, error)
}

// Handler handles one update. A returned error goes to the ErrorSink.
type Handler func(ctx context.Context, s Sender, update *models.Update) error

var _ Sender = (*tbot.Bot)(nil)
