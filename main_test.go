package main

import (
	"testing"

	"github.com/dskvich/image-telegram-bot/pkg/domain"
	"github.com/dskvich/image-telegram-bot/pkg/i18n"
)

func TestParseUserID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{in: "123456789", want: 123456789},
		{in: "0", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseUserID(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseUserID(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseUserID(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBotCommandsAreLocalized(t *testing.T) {
	texts, err := i18n.Load()
	if err != nil {
		t.Fatalf("i18n.Load() error = %v", err)
	}

	commands := botCommands(texts)
	if len(commands) != len(domain.Locales) {
		t.Fatalf("got commands for %d locales, want %d", len(commands), len(domain.Locales))
	}

	for _, l := range domain.Locales {
		if len(commands[l]) != 4 {
			t.Errorf("%s: got %d commands, want 4", l, len(commands[l]))
		}
		for _, c := range commands[l] {
			if c.Description == "" {
				t.Errorf("%s: /%s has no description", l, c.Command)
			}
		}
	}

	if commands[domain.LocaleRU][0].Description == commands[domain.LocaleEN][0].Description {
		t.Errorf("/start description is not translated")
	}
}

func TestCommandTree(t *testing.T) {
	root := newRootCmd()

	for _, args := range [][]string{{"serve"}, {"migrate", "up"}, {"grant-admin", "42"}} {
		cmd, _, err := root.Find(args)
		if err != nil {
			t.Errorf("Find(%v) error = %v", args, err)
			continue
		}
		if cmd.Name() != args[0] {
			t.Errorf("Find(%v) = %q, want %q", args, cmd.Name(), args[0])
		}
	}

	migrate, _, _ := root.Find([]string{"migrate"})
	if err := migrate.Args(migrate, []string{"sideways"}); err == nil {
		t.Errorf("migrate accepted an unknown direction")
	}
}
