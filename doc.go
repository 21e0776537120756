// Package credentials provides the credential-issuance and token-validation
// core for a user-facing service: account registration, password
// authentication, and the mint/validate/refresh lifecycle of paired JWTs.
//
// Token lifecycle:
//   - TokenService mints HMAC-signed tokens carrying a type discriminator
//     (access or refresh) with independently configured expirations. Tokens
//     are self-contained; nothing is persisted server-side and no revocation
//     list exists, so a refresh token remains usable until it expires. That
//     statelessness is a deliberate trade-off, not an oversight.
//   - Auther ties credential checks to issuance: Login verifies a password
//     and mints a pair, Validate re-fetches the account behind an access
//     token and re-checks its active flag, Refresh exchanges a refresh token
//     for a fresh pair after the same re-check.
//
// Accounts:
//   - Users are persisted via Bun behind the Users repository. Email is the
//     unique lookup key; the store's uniqueness constraint is the authority
//     of record when two registrations race.
//   - RegisterUserHandler runs the duplicate-check, hash, and insert steps
//     inside one transaction so a failed registration never leaves a partial
//     account behind.
package credentials
