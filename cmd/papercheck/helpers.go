package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/fentz26/papercheck/internal/api"
	"golang.org/x/term"
)

// friendly rewraps API errors with actionable CLI messages.
func friendly(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.Kind {
	case api.KindAuth:
		return fmt.Errorf("not logged in or session expired - run 'papercheck login' (%s)", apiErr.Message)
	case api.KindForbidden:
		return fmt.Errorf("your role does not allow this operation: %s", apiErr.Message)
	case api.KindValidation:
		return fmt.Errorf("invalid input: %s", apiErr.Message)
	case api.KindNotFound:
		return fmt.Errorf("not found: %s", apiErr.Message)
	default:
		return fmt.Errorf("request failed: %s", apiErr.Message)
	}
}

// cmdContext returns the context used for one-shot API calls.
func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// promptLine reads one line from stdin with a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// truncate shortens s to max runes with an ellipsis.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// truncateID shortens an opaque id for table display.
func truncateID(id string) string {
	if len(id) <= 12 {
		return id
	}
	return id[:12]
}
