package auth

// CheckAccountStatus is the eligibility gate run before any token is
// issued or consumed on behalf of an account. Checks short-circuit in a
// fixed order: banned, unverified, archived.
//
// allowUnverified exists solely for the password-reset flow: an account
// that never finished verification must still be able to recover its
// credentials. Banned and archived accounts are blocked on every path,
// reset included.
func CheckAccountStatus(user *User, allowUnverified bool) error {
	if user.IsBanned {
		return NewBannedError(user.BanReason)
	}

	if !allowUnverified && !user.Verified {
		return ErrUserUnverified
	}

	if user.ArchivedAt != nil {
		return ErrUserArchived
	}

	return nil
}
