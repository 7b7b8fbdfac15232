package history

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/dvloznov/points-sync/internal/domain"
	"github.com/dvloznov/points-sync/internal/logger"
	"github.com/dvloznov/points-sync/internal/webagent"
)

// Credentials for the point history site.
type Credentials struct {
	ID       string
	Password string
}

// Source reads one day of cash history from the point site.
type Source struct {
	agent webagent.Agent
	creds Credentials
}

// NewSource creates a Source that drives agent with creds.
func NewSource(agent webagent.Agent, creds Credentials) *Source {
	return &Source{agent: agent, creds: creds}
}

// Fetch signs in, extracts the target date's records and signs out.
// Any failure aborts immediately; the browser session is torn down by the
// caller, so no logout is attempted on error.
func (s *Source) Fetch(ctx context.Context, target civil.Date) ([]domain.TransactionRecord, error) {
	log := logger.FromContext(ctx)

	if err := s.agent.Navigate(ctx, HistoryURL); err != nil {
		return nil, fmt.Errorf("Fetch: open history: %w", err)
	}

	if err := s.signIn(ctx); err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}
	log.Info().Msg("Signed in to point history")

	table, err := s.agent.Find(ctx, selTable)
	if err != nil {
		// The login form coming back means the credentials were refused.
		if forms, ferr := s.agent.FindAll(ctx, selLoginUser); ferr == nil && len(forms) > 0 {
			return nil, fmt.Errorf("Fetch: %w: login form shown again", domain.ErrAuthentication)
		}
		return nil, fmt.Errorf("Fetch: history table: %w", err)
	}

	rows, err := table.FindAll(ctx, selRow)
	if err != nil {
		return nil, fmt.Errorf("Fetch: history rows: %w", err)
	}

	records, err := Extract(ctx, rows, target)
	if err != nil {
		return nil, fmt.Errorf("Fetch: %w", err)
	}

	if err := s.agent.Navigate(ctx, LogoutURL); err != nil {
		return nil, fmt.Errorf("Fetch: logout: %w", err)
	}
	log.Info().Int("records", len(records)).Msg("Signed out of point history")

	return records, nil
}

func (s *Source) signIn(ctx context.Context) error {
	steps := []struct {
		sel   webagent.Selector
		text  string
		click bool
	}{
		{sel: selLoginUser, text: s.creds.ID},
		{sel: selLoginPass, text: s.creds.Password},
		{sel: selLoginSubmit, click: true},
	}

	for _, step := range steps {
		el, err := s.agent.Find(ctx, step.sel)
		if err != nil {
			return authError(err)
		}
		if step.click {
			err = el.Click(ctx)
		} else {
			err = el.Type(ctx, step.text)
		}
		if err != nil {
			return authError(err)
		}
	}
	return nil
}

// authError marks a sign-in step failure as an authentication failure while
// keeping the underlying cause inspectable.
func authError(err error) error {
	if errors.Is(err, domain.ErrAuthentication) {
		return err
	}
	return fmt.Errorf("sign in: %w: %w", domain.ErrAuthentication, err)
}
