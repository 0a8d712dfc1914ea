// Package rego implements the role policy with an embedded OPA module.
// Keeping the role->action mapping in rego rather than Go keeps the
// shared-resource rules in one reviewable block and lets deployments
// override the policy without touching handler code.
package rego

import (
	"context"
	"errors"
	"fmt"

	"accessd/internal/domain"

	"github.com/open-policy-agent/opa/rego"
)

const policyQuery = "data.accessd.authz.allow"

// defaultPolicy encodes the shared-resource rules: administrators own
// directory writes and application decisions, guards own ledger appends,
// and the applicant-facing operations need no session at all.
const defaultPolicy = `package accessd.authz

import rego.v1

default allow := false

open_actions := {
	"application:submit",
	"application:self",
	"directory:read_open",
}

guard_actions := {"ledger:scan"}

allow if input.role == "admin"

allow if input.action in open_actions

allow if {
	input.role == "guard"
	input.action in guard_actions
}
`

type Authorizer struct {
	query rego.PreparedEvalQuery
}

func NewAuthorizer(ctx context.Context) (*Authorizer, error) {
	return NewAuthorizerWithPolicy(ctx, defaultPolicy)
}

func NewAuthorizerWithPolicy(ctx context.Context, policy string) (*Authorizer, error) {
	prepared, err := rego.New(
		rego.Query(policyQuery),
		rego.Module("authz.rego", policy),
		rego.StrictBuiltinErrors(true),
	).PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("prepare authz policy: %w", err)
	}
	return &Authorizer{query: prepared}, nil
}

func (a *Authorizer) Require(ctx context.Context, session domain.Session, action string) error {
	if a == nil {
		return errors.New("authorizer is nil")
	}
	role := session.Role
	if role == "" {
		role = domain.RoleAnonymous
	}
	input := map[string]any{
		"role":    string(role),
		"subject": session.Subject,
		"action":  action,
	}
	results, err := a.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return errors.New("empty authz policy result")
	}
	allowed, ok := results[0].Expressions[0].Value.(bool)
	if !ok {
		return errors.New("authz policy did not return a boolean")
	}
	if allowed {
		return nil
	}
	if role == domain.RoleAnonymous {
		return domain.ErrUnauthorized
	}
	return fmt.Errorf("%w: role %s may not %s", domain.ErrForbidden, role, action)
}
