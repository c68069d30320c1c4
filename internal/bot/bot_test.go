package bot

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/j0lvera/tgrelay/internal/config"
	"github.com/rs/zerolog"
)

type fakeRegistrar struct {
	matchers []tbot.MatchFunc
}

func (f *fakeRegistrar) RegisterHandlerMatchFunc(match tbot.MatchFunc, h tbot.HandlerFunc, _ ...tbot.Middleware) string {
	if match == nil || h == nil {
		panic("nil matcher or handler")
	}
	f.matchers = append(f.matchers, match)
	return ""
}

var _ Registrar = (*tbot.Bot)(nil)

func TestRegister(t *testing.T) {
	r := &fakeRegistrar{}
	Register(r, "TgRelayBot", newTestCommands(t), NewErrorSink("sorry", zerolog.Nop()))

	names := []string{"start", "help", "about"}
	if len(r.matchers) != len(names) {
		t.Fatalf("registered %d handlers, want %d", len(r.matchers), len(names))
	}

	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: "start"},
		{text: "/start@TgRelayBot", want: "start"},
		{text: "/start@tgrelaybot", want: "start"},
		{text: "/help@TgRelayBot", want: "help"},
		{text: "/about please", want: "about"},
		{text: "/start@OtherBot", want: ""},
		{text: "/starter", want: ""},
		{text: "/weather", want: ""},
		{text: "start", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			update := textUpdate(1, "Maria", tt.text)

			var got []string
			for i, match := range r.matchers {
				if match(update) {
					got = append(got, names[i])
				}
			}

			switch {
			case tt.want == "" && len(got) != 0:
				t.Errorf("%q matched %v, want none", tt.text, got)
			case tt.want != "" && (len(got) != 1 || got[0] != tt.want):
				t.Errorf("%q matched %v, want [%s]", tt.text, got, tt.want)
			}
		})
	}
}

func TestRegister_CommandLaterInText(t *testing.T) {
	r := &fakeRegistrar{}
	Register(r, "TgRelayBot", newTestCommands(t), NewErrorSink("sorry", zerolog.Nop()))

	update := &models.Update{Message: &models.Message{
		Text: "try /help",
		Entities: []models.MessageEntity{
			{Type: models.MessageEntityTypeBotCommand, Offset: 4, Length: 5},
		},
	}}
	for _, match := range r.matchers {
		if match(update) {
			t.Error("a command after the first word should not match")
		}
	}
	if match := r.matchers[0]; match(&models.Update{ID: 1}) {
		t.Error("an update without a message should not match")
	}
}

func TestRegister_UnknownUsernameAcceptsAnySuffix(t *testing.T) {
	r := &fakeRegistrar{}
	Register(r, "", newTestCommands(t), NewErrorSink("sorry", zerolog.Nop()))

	if !r.matchers[0](textUpdate(1, "Maria", "/start@TgRelayBot")) {
		t.Error("/start@TgRelayBot should match when the username is unknown")
	}
}

// fakeTelegram records the Bot API methods it is called with.
type fakeTelegram struct {
	mu      sync.Mutex
	methods []string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.methods = append(f.methods, r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:])
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":42,"type":"group"}}}`))
}

func TestRegister_GroupCommandIsAnswered(t *testing.T) {
	api := &fakeTelegram{}
	server := httptest.NewServer(api)
	defer server.Close()

	tg, err := tbot.New("123:test",
		tbot.WithSkipGetMe(),
		tbot.WithServerURL(server.URL),
		tbot.WithNotAsyncHandlers(),
	)
	if err != nil {
		t.Fatalf("tbot.New() error = %v", err)
	}

	Register(tg, "TgRelayBot", newTestCommands(t), NewErrorSink("sorry", zerolog.Nop()))

	tg.ProcessUpdate(context.Background(), textUpdate(42, "Maria", "/start@TgRelayBot"))

	api.mu.Lock()
	defer api.mu.Unlock()
	if len(api.methods) != 1 || api.methods[0] != "sendMessage" {
		t.Errorf("API calls = %v, want [sendMessage]", api.methods)
	}
}

func TestNew_InvalidConfigDoesNotStart(t *testing.T) {
	cfg := &config.Config{Token: "123:test", Messages: config.DefaultMessages}
	cfg.Messages.Commands.Start = "{{.Name"

	if _, err := New(nil, Params{Config: cfg, Logger: zerolog.Nop()}); err == nil {
		t.Error("New() expected error for a broken start template")
	}
}
