package ledger

import (
	"strings"

	"github.com/dvloznov/points-sync/internal/domain"
)

// Resolve returns the first option, in presentation order, whose label starts
// with name. Labels carry a live balance suffix, so only the prefix is stable.
// Several options sharing the prefix resolve to the first one.
func Resolve(options []domain.AccountOption, name string) (domain.AccountOption, error) {
	for _, opt := range options {
		if strings.HasPrefix(opt.Label, name) {
			return opt, nil
		}
	}
	return domain.AccountOption{}, &domain.AccountNotFoundError{Name: name}
}
