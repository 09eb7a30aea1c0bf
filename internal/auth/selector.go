package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// DialogSelector asks for the key in a native password dialog.
type DialogSelector struct {
	Keyring *Keyring
}

// Select opens the dialog and stores the entered key. Cancelling is not an error.
func (s DialogSelector) Select(ctx context.Context) error {
	key, err := zenity.Entry("Paste your Gemini API key",
		zenity.Title("Connect Access Key"),
		zenity.HideText(),
		zenity.Context(ctx),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			log.Info().Msg("Key selection canceled")
			return nil
		}
		return fmt.Errorf("key dialog failed: %w", err)
	}
	if key = strings.TrimSpace(key); key != "" {
		s.Keyring.Set(key)
	}
	return nil
}

// PromptSelector reads the key from a terminal. In must be the same reader
// used by any earlier prompt on that terminal.
type PromptSelector struct {
	Keyring *Keyring
	In      *bufio.Reader
	Out     io.Writer
}

// Select prompts once and stores whatever was entered. An empty line leaves
// the keyring untouched.
func (s PromptSelector) Select(ctx context.Context) error {
	fmt.Fprint(s.Out, "Gemini API key: ")

	input, err := s.In.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if key := strings.TrimSpace(input); key != "" {
		s.Keyring.Set(key)
	}
	return nil
}

// StaticSelector stores a key supplied out of band, e.g. in an HTTP request body.
type StaticSelector struct {
	Keyring *Keyring
	Key     string
}

func (s StaticSelector) Select(ctx context.Context) error {
	if s.Key != "" {
		s.Keyring.Set(s.Key)
	}
	return nil
}

// NoopSelector is used where no interactive flow exists; the key must arrive
// through another channel.
type NoopSelector struct{}

func (NoopSelector) Select(ctx context.Context) error {
	log.Info().Msg("No interactive key selection available; waiting for a key to be connected")
	return nil
}
