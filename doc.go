// Package auth implements the identity microservice core: account
// registration and verification, credential checks, ban/unban
// administration, and three classes of bearer tokens.
//
// Token kinds:
//   - Verification tokens prove control of an email-bound account during
//     initial verification and password resets. Short lived.
//   - Access tokens authorize API calls and embed the account email.
//   - Refresh tokens mint new access tokens without re-authentication.
//     Each kind signs with its own secret and pins its own audience,
//     subject, and issuer, so a token of one kind never validates as
//     another even when secret material overlaps.
//
// Account gating:
//   - Every token-issuing or token-consuming operation runs
//     CheckAccountStatus first. Banned and archived accounts are always
//     blocked; unverified accounts are blocked everywhere except the
//     password-reset flow, which must stay open so an account that never
//     completed verification can still recover its credentials.
//
// Audit sinks:
//   - ActivitySink is a best-effort audit emitter fed by every flow
//     handler. Sink errors are logged and swallowed so auditing can never
//     fail an authentication request. The bun-backed sink persists rows
//     to the auth_logs table.
package auth
