package awsx

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// AccountResolver resolves the caller's account id via STS and caches it.
// The first successful lookup is reused for the resolver's lifetime;
// concurrent callers before that share a single remote call.
type AccountResolver struct {
	sts STSAPI

	mu      sync.Mutex
	account string
}

// NewAccountResolver creates a resolver backed by the given STS client.
func NewAccountResolver(client STSAPI) *AccountResolver {
	return &AccountResolver{sts: client}
}

// Resolve returns the caller's account id, fetching it on first use.
// Errors are not cached; a failed lookup is retried on the next call.
func (r *AccountResolver) Resolve(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.account != "" {
		return r.account, nil
	}

	out, err := r.sts.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("get caller identity: %w", err)
	}
	if out.Account == nil || *out.Account == "" {
		return "", fmt.Errorf("get caller identity: empty account id")
	}
	r.account = *out.Account
	return r.account, nil
}
