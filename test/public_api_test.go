package test

import (
	"context"
	"net/http"
	"testing"

	goCoherence "github.com/MrEthical07/goCoherence"
	"github.com/MrEthical07/goCoherence/middleware"
)

// This test intentionally guards public API compile-compat for consumers.
func TestPublicAPISurfaceCompile(t *testing.T) {
	_ = goCoherence.New

	var _ *goCoherence.Engine
	var _ goCoherence.Config
	var _ goCoherence.Identity
	var _ goCoherence.LoginResult
	var _ goCoherence.LogoutResult
	var _ goCoherence.CredentialVerifier
	var _ goCoherence.AuditSink
	var _ goCoherence.MetricsSnapshot

	var _ error = goCoherence.ErrUnauthorized
	var _ error = goCoherence.ErrInvalidCredentials
	var _ error = goCoherence.ErrNoActiveSession
	var _ error = goCoherence.ErrRecordNotFound
	var _ error = goCoherence.ErrInvalidationFailed
	var _ error = goCoherence.ErrJournalWriteFailed

	var _ func(*goCoherence.Engine) func(http.Handler) http.Handler = middleware.Guard

	var _ func(*goCoherence.Engine, context.Context, string, string) (*goCoherence.LoginResult, error) = (*goCoherence.Engine).Login
	var _ func(*goCoherence.Engine, context.Context, string) (*goCoherence.LogoutResult, error) = (*goCoherence.Engine).Logout
	var _ func(*goCoherence.Engine, context.Context, string) (*goCoherence.Session, error) = (*goCoherence.Engine).Authorize
	var _ func(*goCoherence.Engine, context.Context, string, string) (*goCoherence.Record, error) = (*goCoherence.Engine).ReadRecord
	var _ func(*goCoherence.Engine) goCoherence.MetricsSnapshot = (*goCoherence.Engine).MetricsSnapshot
}
