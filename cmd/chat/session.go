package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/empath/internal/api"
	"github.com/JaimeStill/empath/internal/auth"
	"github.com/JaimeStill/empath/internal/chat"
	"github.com/JaimeStill/empath/internal/classifier"
	"github.com/JaimeStill/empath/internal/config"
	"github.com/JaimeStill/empath/internal/infrastructure"
)

// session is a running pipeline plus the identity that drives it.
type session struct {
	cfg      *config.Config
	infra    *infrastructure.Infrastructure
	domain   *api.Domain
	identity auth.Identity
}

func openSession(ctx context.Context, opts *options) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	if opts.embedded {
		cfg.Classifier.Mode = classifier.ModeEmbedded
	}
	if opts.baseURL != "" {
		cfg.Backend.BaseURL = opts.baseURL
	}
	cfg.LogLevel = "warn"
	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	runtime := api.NewRuntime(cfg, infra)
	s := &session{
		cfg:    cfg,
		infra:  infra,
		domain: api.NewDomain(cfg, runtime),
	}

	if err := s.start(ctx, opts.token); err != nil {
		if serr := s.close(); serr != nil {
			err = errors.Join(err, serr)
		}
		return nil, err
	}
	return s, nil
}

// start brings up infrastructure and the domain, then signs in with token.
// The caller shuts the lifecycle down when start fails.
func (s *session) start(ctx context.Context, token string) error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.domain.Start(s.infra.Lifecycle); err != nil {
		return err
	}

	verifier, err := auth.NewVerifier(ctx, &s.cfg.Auth)
	if err != nil {
		return fmt.Errorf("auth init failed: %w", err)
	}

	identity, err := auth.Resolve(ctx, verifier, auth.StaticToken(token))
	if err != nil {
		return fmt.Errorf("sign-in failed: %w", err)
	}
	s.identity = identity
	return nil
}

// close drains background dispatch work before returning.
func (s *session) close() error {
	return s.infra.Lifecycle.Shutdown(s.cfg.ShutdownTimeoutDuration())
}

func runChat(cmd *cobra.Command, opts *options) error {
	ctx := cmd.Context()

	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.close()

	conv, err := s.domain.Chat.Start(ctx, s.identity)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, m := range conv.Messages() {
		fmt.Fprintf(out, "bot> %s\n", m.Content)
	}

	return converse(ctx, s, conv, cmd.InOrStdin(), out)
}

func converse(ctx context.Context, s *session, conv *chat.Conversation, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "you> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		}

		turn, err := s.domain.Chat.Submit(ctx, s.identity, conv.ID(), line)
		if err != nil && !errors.Is(err, chat.ErrRejected) {
			return err
		}
		printTurn(out, turn)

		if turn.Failure != nil && turn.Failure.Reauthenticate {
			return errors.New("session expired, sign in again")
		}
	}
}

func printTurn(out io.Writer, turn *chat.Turn) {
	if turn.Failure != nil && turn.BotMessage == nil {
		fmt.Fprintf(out, "  ! %s\n", turn.Failure.Message)
		return
	}

	if turn.BotMessage != nil {
		fmt.Fprintf(out, "bot> %s\n", turn.BotMessage.Content)
	}

	if turn.Emotion != nil {
		fmt.Fprintf(out, "  [%s %.0f%%", turn.Emotion.Emotion, turn.Emotion.Confidence*100)
		if turn.RecommendationsTriggered {
			fmt.Fprint(out, ", recommendations on the way")
		}
		fmt.Fprintln(out, "]")
	}

	if turn.Failure != nil {
		fmt.Fprintf(out, "  ! %s (%s)\n", turn.Failure.Message, turn.Failure.Kind)
	}
}
