package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/fx"
)

const (
	DriverLangchain = "langchaingo"
	DriverGoOpenAI  = "go-openai"
)

// Config holds all configuration from environment variables.
type Config struct {
	// envconfig accepts a set-but-empty value for required keys, so the two
	// credentials are checked in Validate instead of with a required tag.
	Token  string `envconfig:"TELEGRAM_BOT_TOKEN"`
	APIKey string `envconfig:"OPENAI_API_KEY"`

	BaseURL     string  `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	Model       string  `envconfig:"AI_MODEL" default:"gpt-3.5-turbo"`
	MaxTokens   int     `envconfig:"AI_MAX_TOKENS" default:"500"`
	Temperature float64 `envconfig:"AI_TEMPERATURE" default:"0.7"`
	Driver      string  `envconfig:"AI_DRIVER" default:"langchaingo"`

	Debug   bool   `envconfig:"DEBUG" default:"false"`
	LogFile string `envconfig:"LOG_FILE" default:""`

	// Path to the TOML file overriding the bot's texts
	MessagesFile string `envconfig:"MESSAGES_FILE" default:"messages.toml"`

	// Texts loaded from MessagesFile, defaults otherwise
	Messages Messages
}

// Messages holds every fixed text the bot sends or uses as a prompt.
type Messages struct {
	Prompts  Prompts  `toml:"prompts"`
	Commands Commands `toml:"commands"`
	Errors   Errors   `toml:"errors"`
}

// Prompts holds the completion prompts. System is a text/template over {{.Name}}.
type Prompts struct {
	System string `toml:"system"`
}

// Commands holds the command replies. Start is a text/template over {{.Name}},
// Help is sent with legacy Markdown.
type Commands struct {
	Start string `toml:"start"`
	Help  string `toml:"help"`
	About string `toml:"about"`
}

// Errors holds the two user-facing failure texts.
type Errors struct {
	Fallback string `toml:"fallback"`
	Apology  string `toml:"apology"`
}

// DefaultMessages are used for every key the messages file leaves empty.
var DefaultMessages = Messages{
	Prompts: Prompts{
		System: `Ești un asistent AI prietenos într-un chat Telegram.
Utilizatorul se numește {{.Name}}.
Răspunde într-un mod conversațional, prietenos și util.
Fii concis dar informativ.
Limba: română (dacă utilizatorul scrie în română) sau engleză.
`,
	},
	Commands: Commands{
		Start: `👋 Bun venit, {{.Name}}!

Eu sunt asistentul tău AI. Pot să:
• 💬 Vorbesc cu tine despre orice
• 🧠 Îți răspund la întrebări
• 📝 Te ajut cu sfaturi și idei

Trimite-mi un mesaj și îți voi răspunde!

Comenzi disponibile:
/start - Acest mesaj
/help - Ajutor și informații
/about - Despre acest bot`,
		Help: `🤖 *Cum să folosești acest bot:*

1. Scrie-mi orice mesaj și voi răspunde folosind AI
2. Poți să mă întrebi orice:
   - Întrebări generale
   - Sfaturi și recomandări
   - Explicații și definiții
   - Conversații libere

🔧 *Comenzi:*
/start - Mesaj de bun venit
/help - Acest mesaj de ajutor
/about - Informații despre bot

💡 *Sfaturi:*
• Folosește româna sau engleza
• Fii specific în întrebări pentru răspunsuri mai bune
• Botul nu reține contextul între mesaje`,
		About: `🤖 AI Telegram Bot

Versiune: 1.0

💻 Tehnologii:
• Go + go-telegram/bot
• OpenAI Chat Completions API

🔐 Confidențialitate:
• Conversațiile sunt procesate de OpenAI
• Nu stochez mesaje
• Fiecare mesaj este tratat independent`,
	},
	Errors: Errors{
		Fallback: "⚠️ Scuze, am întâmpinat o eroare. Încearcă din nou.",
		Apology:  "❌ A apărut o eroare. Te rog încearcă din nou.",
	},
}

// MissingError reports a required variable that is unset or empty.
type MissingError struct {
	Key string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("config: %s is required", e.Key)
}

// LoadEnv loads the configuration from environment variables.
func (c Config) LoadEnv() (Config, error) {
	cfg := c

	if err := envconfig.Process("", &cfg); err != nil {
		return c, err
	}

	return cfg, nil
}

// LoadFile loads the bot's texts from the messages file.
func (c *Config) LoadFile() error {
	c.Messages = DefaultMessages

	configPath := c.MessagesFile
	if configPath == "" {
		return nil
	}
	if !filepath.IsAbs(configPath) {
		// Try current directory first
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			// Try executable directory
			execPath, err := os.Executable()
			if err == nil {
				configPath = filepath.Join(filepath.Dir(execPath), c.MessagesFile)
			}
		}
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	var file Messages
	if _, err := toml.DecodeFile(configPath, &file); err != nil {
		return fmt.Errorf("config: decode %s: %w", configPath, err)
	}

	c.Messages = file.withDefaults()

	return nil
}

func (m Messages) withDefaults() Messages {
	pick := func(v, def string) string {
		if strings.TrimSpace(v) == "" {
			return def
		}
		return v
	}

	d := DefaultMessages
	m.Prompts.System = pick(m.Prompts.System, d.Prompts.System)
	m.Commands.Start = pick(m.Commands.Start, d.Commands.Start)
	m.Commands.Help = pick(m.Commands.Help, d.Commands.Help)
	m.Commands.About = pick(m.Commands.About, d.Commands.About)
	m.Errors.Fallback = pick(m.Errors.Fallback, d.Errors.Fallback)
	m.Errors.Apology = pick(m.Errors.Apology, d.Errors.Apology)
	return m
}

// Validate checks the credentials and the completion parameters.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Token) == "" {
		return &MissingError{Key: "TELEGRAM_BOT_TOKEN"}
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return &MissingError{Key: "OPENAI_API_KEY"}
	}
	if c.MaxTokens <= 0 {
		return fmt.Errorf("config: AI_MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("config: AI_TEMPERATURE must be within [0, 2], got %g", c.Temperature)
	}
	switch c.Driver {
	case DriverLangchain, DriverGoOpenAI:
	default:
		return fmt.Errorf("config: unknown AI_DRIVER %q", c.Driver)
	}

	for name, text := range map[string]string{
		"prompts.system": c.Messages.Prompts.System,
		"commands.start": c.Messages.Commands.Start,
	} {
		if _, err := template.New(name).Parse(text); err != nil {
			return fmt.Errorf("config: messages %s: %w", name, err)
		}
	}

	return nil
}

// Load reads envFile into the environment, then builds and validates the
// configuration. Variables already set win over the file; a missing file is fine.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	var cfg Config
	loadedCfg, err := cfg.LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := loadedCfg.LoadFile(); err != nil {
		return nil, err
	}

	if err := loadedCfg.Validate(); err != nil {
		return nil, err
	}

	return &loadedCfg, nil
}

func NewConfig() (*Config, error) {
	return Load(".env")
}

func Module() fx.Option {
	return fx.Module(
		"config",
		fx.Provide(
			NewConfig,
		),
	)
}
