// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

// Package identity provides the account and credential-lifecycle core for
// Acorn: registration, password authentication, session principal
// resolution, and the two time-bounded secondary-credential flows
// (email-verification codes and password-reset tokens).
//
// # Domain Types
//
// Domain types (User, EmailVerification, PasswordReset) should be created
// using their respective constructors:
//   - NewUser - creates a User with a fresh id and a finished password hash
//   - NewEmailVerification - creates a verification code with a one-hour expiry
//   - NewPasswordReset - creates a reset token with a one-hour expiry
//
// Direct struct initialization bypasses validation and may create invalid
// state. Repository implementations receive pre-validated types from these
// constructors.
//
// # Services
//
// Service orchestrates the credential operations against the repositories
// and the PasswordHasher; SessionResolver maps users to durable session
// references and back. Both are created with constructors that validate
// their dependencies. The surrounding web layer is a consumer of these
// types, never the other way around.
package identity
