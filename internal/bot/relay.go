package bot

import (
	"context"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog"
)

// Relay forwards free text messages to the Responder and sends back its reply.
type Relay struct {
	responder Responder
	log       zerolog.Logger
}

func NewRelay(responder Responder, log zerolog.Logger) *Relay {
	return &Relay{
		responder: responder,
		log:       log,
	}
}

// Handle sends exactly one reply for every non-command text message.
func (r *Relay) Handle(ctx context.Context, s Sender, update *models.Update) error {
	// Guard against updates without a text message
	if update.Message == nil || update.Message.Text == "" {
		return nil
	}

	// Unregistered commands are ignored, not relayed
	if isCommand(update.Message) {
		return nil
	}

	chatID := update.Message.Chat.ID
	name := senderName(update.Message)

	r.log.Info().Int64("chat_id", chatID).Str("user", name).Msg("message received")

	// Send a "typing" action to show the bot is processing
	if _, err := s.SendChatAction(ctx, &tbot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	}); err != nil {
		r.log.Warn().Err(err).Int64("chat_id", chatID).Msg("unable to send typing action")
	}

	response := r.responder.Respond(ctx, update.Message.Text, name)

	if err := reply(ctx, s, chatID, response, ""); err != nil {
		return err
	}

	r.log.Debug().Int64("chat_id", chatID).Int("length", len(response)).Msg("reply sent")

	return nil
}
