// Package policy gates operation submissions through an OPA/Rego policy.
package policy

import (
	"context"
	"fmt"

	"github.com/open-policy-agent/opa/rego"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.submission_policy.decision"),
		rego.Module("submission_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate checks the submission policy. Input carries the operation kind
// and its parameters. Returns the decision ("allow" or "block") and an
// optional reason.
func (e *Engine) Evaluate(ctx context.Context, input interface{}) (string, string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return "allow", "default", nil
	}

	val := results[0].Expressions[0].Value
	switch v := val.(type) {
	case string:
		return v, "", nil
	case map[string]interface{}:
		decision, _ := v["decision"].(string)
		reason, _ := v["reason"].(string)
		if decision == "" {
			decision = "allow"
		}
		return decision, reason, nil
	}
	return "allow", "unexpected return type", nil
}

// DefaultPolicy is the default submission policy: everything is allowed
// except requests that would burn agent context for no benefit.
const DefaultPolicy = `
package submission_policy

default decision = "allow"

# Oversize summary bounds defeat the point of summarizing.
decision = {"decision": "block", "reason": "max_length exceeds 2000 words"} {
	input.operation == "summarize"
	input.params.max_length > 2000
}

# A document compared against itself is always identical.
decision = {"decision": "block", "reason": "cannot compare a document against itself"} {
	input.operation == "compare"
	input.params.comparison_document_id == input.params.document_id
}
`
