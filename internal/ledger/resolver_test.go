package ledger

import (
	"errors"
	"testing"

	"github.com/dvloznov/points-sync/internal/domain"
)

func options(labels ...string) []domain.AccountOption {
	out := make([]domain.AccountOption, len(labels))
	for i, l := range labels {
		out[i] = domain.AccountOption{Label: l}
	}
	return out
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		options []domain.AccountOption
		query   string
		want    string
	}{
		{"first match wins over longer match", options("A(100円)", "AB(50円)"), "A", "A(100円)"},
		{"order decides ties", options("AB(50円)", "A(100円)"), "A", "AB(50円)"},
		{"balance suffix ignored", options("財布(0円)", "楽天キャッシュ(12,345円)"), DefaultAccount, "楽天キャッシュ(12,345円)"},
		{"exact label", options("A"), "A", "A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.options, tt.query)
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if got.Label != tt.want {
				t.Errorf("Resolve() = %q, want %q", got.Label, tt.want)
			}
		})
	}
}

func TestResolve_NotFound(t *testing.T) {
	tests := []struct {
		name    string
		options []domain.AccountOption
	}{
		{"no prefix match", options("B(100円)")},
		{"name only inside label", options("BA(100円)")},
		{"no options", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.options, "A")
			if !errors.Is(err, domain.ErrAccountNotFound) {
				t.Fatalf("Expected ErrAccountNotFound, got %v", err)
			}
			var notFound *domain.AccountNotFoundError
			if !errors.As(err, &notFound) || notFound.Name != "A" {
				t.Errorf("Expected AccountNotFoundError for %q, got %v", "A", err)
			}
		})
	}
}
