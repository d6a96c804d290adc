// Package jwt issues and verifies HMAC-signed bearer tokens against a shared,
// immutable [SigningContext].
//
// # Verification gates
//
// [Verifier.Verify] runs four gates in order and stops at the first failure:
//
//  1. structural: three strict base64url segments and a JSON header
//     ([ErrMalformedToken])
//  2. signature: header alg must match the context, MAC compared in
//     constant time ([ErrInvalidSignature])
//  3. required claims: sub, exp and any configured names
//     ([ErrMissingRequiredClaim])
//  4. semantic: exp, iss, aud ([ErrTokenExpired], [ErrIssuerMismatch],
//     [ErrAudienceMismatch])
//
// The claims segment is decoded only after the MAC matches, so a modified
// claims payload always surfaces as [ErrInvalidSignature].
//
// # What this package must NOT do
//
//   - Log, print, or perform I/O.
//   - Keep per-token state. Tokens expire only through their exp claim.
package jwt
