package rego

import (
	"context"
	"errors"
	"testing"

	"accessd/internal/domain"
)

func TestDefaultPolicy(t *testing.T) {
	authz, err := NewAuthorizer(context.Background())
	if err != nil {
		t.Fatalf("new authorizer: %v", err)
	}
	ctx := context.Background()

	admin := domain.Session{Subject: "admin", Role: domain.RoleAdmin}
	guard := domain.Session{Subject: "guard", Role: domain.RoleGuard}
	anon := domain.AnonymousSession()

	cases := []struct {
		name    string
		session domain.Session
		action  string
		wantErr error
	}{
		{"anonymous submits", anon, domain.ActionApplicationSubmit, nil},
		{"anonymous self lookup", anon, domain.ActionApplicationSelf, nil},
		{"anonymous reads open directory", anon, domain.ActionDirectoryReadOpen, nil},
		{"anonymous cannot list", anon, domain.ActionApplicationList, domain.ErrUnauthorized},
		{"anonymous cannot scan", anon, domain.ActionLedgerScan, domain.ErrUnauthorized},
		{"guard scans", guard, domain.ActionLedgerScan, nil},
		{"guard submits", guard, domain.ActionApplicationSubmit, nil},
		{"guard cannot decide", guard, domain.ActionApplicationDecide, domain.ErrForbidden},
		{"guard cannot read dashboard", guard, domain.ActionDashboardRead, domain.ErrForbidden},
		{"guard cannot write directory", guard, domain.ActionDirectoryWrite, domain.ErrForbidden},
		{"admin decides", admin, domain.ActionApplicationDecide, nil},
		{"admin scans", admin, domain.ActionLedgerScan, nil},
		{"admin writes directory", admin, domain.ActionDirectoryWrite, nil},
		{"admin reads dashboard", admin, domain.ActionDashboardRead, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := authz.Require(ctx, tc.session, tc.action)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected allow, got %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestEmptyRoleTreatedAsAnonymous(t *testing.T) {
	authz, err := NewAuthorizer(context.Background())
	if err != nil {
		t.Fatalf("new authorizer: %v", err)
	}

	err = authz.Require(context.Background(), domain.Session{}, domain.ActionApplicationList)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCustomPolicyOverride(t *testing.T) {
	policy := `package accessd.authz

import rego.v1

default allow := false

allow if input.role == "guard"
`
	authz, err := NewAuthorizerWithPolicy(context.Background(), policy)
	if err != nil {
		t.Fatalf("new authorizer: %v", err)
	}

	guard := domain.Session{Subject: "guard", Role: domain.RoleGuard}
	if err := authz.Require(context.Background(), guard, domain.ActionDirectoryWrite); err != nil {
		t.Fatalf("expected custom policy to allow guard, got %v", err)
	}
	admin := domain.Session{Subject: "admin", Role: domain.RoleAdmin}
	if err := authz.Require(context.Background(), admin, domain.ActionDirectoryWrite); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected custom policy to deny admin, got %v", err)
	}
}
