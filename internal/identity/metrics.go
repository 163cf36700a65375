// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Acorn Contributors

package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
)

// InstrumentedService wraps a Service and counts operation outcomes.
// It is the variant handed to the surrounding web layer when metrics are on.
type InstrumentedService struct {
	svc *Service
	ops *prometheus.CounterVec
}

// NewInstrumentedService creates an InstrumentedService and registers its
// metrics with reg.
func NewInstrumentedService(svc *Service, reg prometheus.Registerer) *InstrumentedService {
	ops := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "acorn_identity_operations_total",
			Help: "Total number of identity operations by operation and status",
		},
		[]string{"op", "status"},
	)
	reg.MustRegister(ops)
	return &InstrumentedService{svc: svc, ops: ops}
}

// count records an operation outcome and passes the error through.
func (s *InstrumentedService) count(op string, err error) error {
	status := "ok"
	if err != nil {
		status = "error"
	}
	s.ops.WithLabelValues(op, status).Inc()
	return err
}

// Register delegates to Service.Register.
func (s *InstrumentedService) Register(ctx context.Context, email, password string) (*User, error) {
	user, err := s.svc.Register(ctx, email, password)
	return user, s.count("register", err)
}

// Login delegates to Service.Login.
func (s *InstrumentedService) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.svc.Login(ctx, email, password)
	return user, s.count("login", err)
}

// ResolveIdentifier delegates to Service.ResolveIdentifier.
func (s *InstrumentedService) ResolveIdentifier(ctx context.Context, identifier string) (*User, error) {
	user, err := s.svc.ResolveIdentifier(ctx, identifier)
	return user, s.count("resolve_identifier", err)
}

// CreateEmailVerification delegates to Service.CreateEmailVerification.
func (s *InstrumentedService) CreateEmailVerification(ctx context.Context, userID uuid.UUID) (ulid.ULID, error) {
	id, err := s.svc.CreateEmailVerification(ctx, userID)
	return id, s.count("create_email_verification", err)
}

// VerifyEmail delegates to Service.VerifyEmail.
func (s *InstrumentedService) VerifyEmail(ctx context.Context, userID uuid.UUID, code string) (*EmailVerification, error) {
	v, err := s.svc.VerifyEmail(ctx, userID, code)
	return v, s.count("verify_email", err)
}

// CreatePasswordReset delegates to Service.CreatePasswordReset.
func (s *InstrumentedService) CreatePasswordReset(ctx context.Context, userID uuid.UUID) (ulid.ULID, error) {
	id, err := s.svc.CreatePasswordReset(ctx, userID)
	return id, s.count("create_password_reset", err)
}

// FindPasswordReset delegates to Service.FindPasswordReset.
func (s *InstrumentedService) FindPasswordReset(ctx context.Context, token string) (*PasswordReset, error) {
	reset, err := s.svc.FindPasswordReset(ctx, token)
	return reset, s.count("find_password_reset", err)
}
