// Package policy decides which URLs the document fetcher may retrieve.
package policy

import (
	"context"
	"fmt"
	"net/url"

	"github.com/open-policy-agent/opa/rego"
)

// Decision values returned by Evaluate.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine evaluates the fetch policy for candidate URLs.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a policy engine from rego policy content. The policy must
// define data.fetch_policy.decision.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.fetch_policy.decision"),
		rego.Module("fetch_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the policy decision for a URL. Unparseable URLs are
// blocked. An undefined policy result defaults to allow; fetch failures are
// tolerated downstream, so the policy only needs to name what to refuse.
func (e *Engine) Evaluate(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return DecisionBlock, nil
	}

	input := map[string]interface{}{
		"url":    rawURL,
		"scheme": u.Scheme,
		"host":   u.Hostname(),
	}

	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionAllow, nil
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionAllow, nil
}

// DefaultPolicy blocks non-HTTP schemes and hosts that would let a search
// result point the fetcher at internal infrastructure.
const DefaultPolicy = `
package fetch_policy

import rego.v1

default decision := "allow"

decision := "block" if {
	input.scheme != "http"
	input.scheme != "https"
}

decision := "block" if {
	input.host == "localhost"
}

decision := "block" if {
	net.cidr_contains("127.0.0.0/8", input.host)
}

decision := "block" if {
	net.cidr_contains("10.0.0.0/8", input.host)
}

decision := "block" if {
	net.cidr_contains("172.16.0.0/12", input.host)
}

decision := "block" if {
	net.cidr_contains("192.168.0.0/16", input.host)
}

decision := "block" if {
	net.cidr_contains("169.254.0.0/16", input.host)
}
`
