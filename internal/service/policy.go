package service

import "lottery_service/internal/domain"

// Identity is a verified caller as supplied by the authentication layer.
type Identity struct {
	UserID  string
	IsAdmin bool
}

// IdentityOf returns the identity of an authenticated user record.
func IdentityOf(u *domain.User) Identity {
	return Identity{UserID: u.ID, IsAdmin: u.IsAdmin}
}

// RequireAdmin guards lottery creation, closing and per-lottery ballot listings.
func RequireAdmin(id Identity) error {
	if !id.IsAdmin {
		return ErrAdminRequired
	}
	return nil
}

// RequireParticipant guards ballot submission: administrators run lotteries
// and may not take part in them.
func RequireParticipant(id Identity) error {
	if id.IsAdmin {
		return ErrAdminForbidden
	}
	return nil
}
