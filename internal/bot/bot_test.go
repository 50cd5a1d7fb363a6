package bot

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

// stubModule is a minimal Module implementation for tests.
type stubModule struct {
	name      string
	commands  []*discordgo.ApplicationCommand
	handlers  map[string]InteractionHandler
	events    []EventHandler
	initErr   error
	initSeen  bool
	shutdowns int
}

func (m *stubModule) Name() string                                 { return m.name }
func (m *stubModule) Commands() []*discordgo.ApplicationCommand    { return m.commands }
func (m *stubModule) CommandHandlers() map[string]InteractionHandler {
	return m.handlers
}
func (m *stubModule) EventHandlers() []EventHandler { return m.events }
func (m *stubModule) Init(_ ModuleDependencies) error {
	m.initSeen = true
	return m.initErr
}
func (m *stubModule) Shutdown() error {
	m.shutdowns++
	return nil
}

func TestNewBot(t *testing.T) {
	cfg := &Config{DiscordToken: "test-token"}

	b := NewBot(cfg)

	if b == nil {
		t.Fatal("expected bot to be created, got nil")
	}
	if b.config != cfg {
		t.Error("expected config to be stored")
	}
}

func TestBot_InitModules_CallsInit(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod := &stubModule{name: "tracking"}
	b.modules = []Module{mod}

	if err := b.initModules(0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !mod.initSeen {
		t.Error("expected Init to be called")
	}
}

func TestBot_InitModules_ReturnsInitError(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	expectedErr := errors.New("init failed")
	mod := &stubModule{name: "failing", initErr: expectedErr}
	b.modules = []Module{mod}

	err := b.initModules(0)
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
}

func TestBot_BuildHandlerMap(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod := &stubModule{
		name: "test",
		handlers: map[string]InteractionHandler{
			"play": handler,
		},
	}
	b.modules = []Module{mod}

	b.buildHandlerMap()

	if _, ok := b.handlers["play"]; !ok {
		t.Error("expected play handler to be registered")
	}
}

func TestBot_BuildHandlerMap_MultipleModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	handler := func(s *discordgo.Session, i *discordgo.InteractionCreate, r Responder) error {
		return nil
	}

	mod1 := &stubModule{
		name:     "mod1",
		handlers: map[string]InteractionHandler{"cmd1": handler},
	}
	mod2 := &stubModule{
		name:     "mod2",
		handlers: map[string]InteractionHandler{"cmd2": handler},
	}
	b.modules = []Module{mod1, mod2}

	b.buildHandlerMap()

	if len(b.handlers) != 2 {
		t.Errorf("expected 2 handlers, got %d", len(b.handlers))
	}
}

func TestBot_CollectCommands(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	cmd := &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Play command",
	}

	mod := &stubModule{
		name:     "test",
		commands: []*discordgo.ApplicationCommand{cmd},
	}
	b.modules = []Module{mod}

	commands := b.collectCommands()

	if len(commands) != 1 {
		t.Fatalf("expected 1 command, got %d", len(commands))
	}
	if commands[0].Name != "play" {
		t.Errorf("expected command name play, got %s", commands[0].Name)
	}
}

func TestBot_Stop_ShutsDownModules(t *testing.T) {
	b := NewBot(&Config{DiscordToken: "test-token"})

	mod := &stubModule{name: "test"}
	b.modules = []Module{mod}

	if err := b.Stop(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if mod.shutdowns != 1 {
		t.Errorf("expected 1 shutdown call, got %d", mod.shutdowns)
	}
}
