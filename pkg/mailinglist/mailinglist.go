// Package mailinglist defines the contract for mailing-list providers that
// own subscriber state on behalf of the application.
package mailinglist

import (
	"context"
	"errors"
)

// ErrAlreadySubscribed indicates the address is already a member of the list.
// Providers wrap it so callers can treat re-confirmation as success.
var ErrAlreadySubscribed = errors.New("mailinglist: address already subscribed")

// Provider adds members to named mailing lists.
type Provider interface {
	// AddMember subscribes address to the list identified by listAddress
	// (e.g. "general@mg.example.com").
	AddMember(ctx context.Context, listAddress, address string) error
}

// Address builds the provider-side list address for a list name.
func Address(list, domain string) string {
	return list + "@" + domain
}
