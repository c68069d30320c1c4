package bot

import (
	"context"
	"fmt"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// ErrorSink is the fallback for every error the handlers or the dispatcher surface.
type ErrorSink struct {
	apology string
	log     zerolog.Logger
}

func NewErrorSink(apology string, log zerolog.Logger) *ErrorSink {
	return &ErrorSink{
		apology: apology,
		log:     log,
	}
}

// Handle logs err and, when the update carries a message, apologises in that chat.
func (e *ErrorSink) Handle(ctx context.Context, s Sender, update *models.Update, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error().Interface("panic", r).Msg("error sink failed")
		}
	}()

	msg := effectiveMessage(update)
	if msg == nil || s == nil {
		e.log.Error().Err(err).Msg("update handling failed")
		return
	}

	chatID := msg.Chat.ID
	e.log.Error().Err(err).Int64("chat_id", chatID).Msg("update handling failed")

	if _, sendErr := s.SendMessage(ctx, &tbot.SendMessageParams{
		ChatID: chatID,
		Text:   e.apology,
	}); sendErr != nil {
		e.log.Error().Err(sendErr).Int64("chat_id", chatID).Msg("unable to send apology")
	}
}

// DispatchError handles errors from the polling loop. There is no chat to
// answer, so it only logs.
func (e *ErrorSink) DispatchError(err error) {
	e.Handle(context.Background(), nil, nil, err)
}

// Wrap adapts h to the dispatcher. Errors returned by h, and panics inside it,
// are passed to Handle.
func (e *ErrorSink) Wrap(h Handler) tbot.HandlerFunc {
	return func(ctx context.Context, tg *tbot.Bot, update *models.Update) {
		e.run(ctx, tg, update, h)
	}
}

func (e *ErrorSink) run(ctx context.Context, s Sender, update *models.Update, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			e.Handle(ctx, s, update, fmt.Errorf("handler panic: %v", r))
		}
	}()

	if err := h(ctx, s, update); err != nil {
		e.Handle(ctx, s, update, err)
	}
}

func effectiveMessage(update *models.Update) *models.Message {
	switch {
	case update == nil:
		return nil
	case update.Message != nil:
		return update.Message
	case update.EditedMessage != nil:
		return update.EditedMessage
	default:
		return nil
	}
}
