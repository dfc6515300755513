package cli

import (
	"bytes"
	"context"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/bastiangx/wordchain/pkg/dictionary"
	"github.com/bastiangx/wordchain/pkg/session"
)

func newHandler(t *testing.T, input string, limit int) (*InputHandler, *bytes.Buffer) {
	t.Helper()
	sess, err := session.New(context.Background(), session.Options{
		Provider: dictionary.StaticProvider{
			dictionary.Vietnamese: {"bánh mì", "mì quảng", "mì xào", "mì tôm", "quảng nam", "xào lăn"},
			dictionary.English:    {"cat", "tiger", "rabbit"},
		},
		Rand: rand.New(rand.NewPCG(3, 3)),
	})
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	return NewInputHandler(sess, strings.NewReader(input), &out, limit, false), &out
}

func TestInputHandlerCommands(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"help", "help\n", []string{"next <word>"}},
		{"next lists dead first", "next bánh mì\n", []string{"1. mì tôm (dead)", "2. mì quảng", "3. mì xào"}},
		{"prev", "prev quảng nam\n", []string{"1. mì quảng"}},
		{"check ok", "check bánh mì, mì xào\n", []string{`"mì xào" can follow "bánh mì"`}},
		{"check broken", "check bánh mì, quảng nam\n", []string{"cannot follow"}},
		{"check usage", "check bánh mì\n", []string{"usage: check"}},
		{"chain valid", "chain bánh mì, mì xào, xào lăn\n", []string{"valid chain of 3 words"}},
		{"chain broken", "chain bánh mì, xào lăn\n", []string{`broken between "bánh mì" and "xào lăn"`}},
		{"find", "find mì\n", []string{"1. mì quảng", "2. mì tôm", "3. mì xào"}},
		{"invalid input", "next 1234\n", []string{`ignoring "1234"`}},
		{"missing word", "next\n", []string{"missing word"}},
		{"unknown", "fly\n", []string{`unknown command "fly"`}},
		{"add", "add xe hơi, bánh mì, xyz\n", []string{"added: xe hơi", "already known: bánh mì", "rejected: xyz"}},
		{"remove", "remove bánh mì, phở bò\n", []string{"removed: bánh mì", "not found: phở bò"}},
		{"word check", "word xyz\n", []string{"invalid word"}},
		{"lang switch", "lang en\nnext cat\n", []string{"language: english, 3 words", "1. tiger"}},
		{"lang unknown", "lang klingon\n", []string{"unknown language"}},
		{"more without next", "more\n", []string{"nothing to page"}},
		{"more with a word starts over", "more bánh mì\n", []string{"1. mì tôm (dead)"}},
		{"history empty", "history\n", []string{"no words used yet"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, out := newHandler(t, tt.input, 20)
			if err := h.Start(context.Background()); err != nil {
				t.Fatalf("Start: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Errorf("output missing %q:\n%s", want, out.String())
				}
			}
		})
	}
}

func TestInputHandlerPaging(t *testing.T) {
	h, out := newHandler(t, "next bánh mì\nmore\nmore\n", 2)
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	got := out.String()
	for _, want := range []string{"1. mì tôm (dead)", "2. mì quảng", "more available", "3. mì xào", `no more words after "bánh mì"`} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestInputHandlerQuitStopsReading(t *testing.T) {
	h, out := newHandler(t, "quit\nnext bánh mì\n", 20)
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if strings.Contains(out.String(), "mì quảng") {
		t.Errorf("input after quit was handled:\n%s", out.String())
	}
}

func TestInputHandlerHistoryAfterNext(t *testing.T) {
	h, out := newHandler(t, "next bánh mì\nhistory\n", 20)
	if err := h.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !strings.Contains(out.String(), "mì quảng") || strings.Contains(out.String(), "no words used yet") {
		t.Errorf("history not recorded:\n%s", out.String())
	}
}
