package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/prr/pkg/network"
	"github.com/aretw0/prr/pkg/ports"
)

// Mask values written in place of personal client data. MaskedTaxID keeps the
// snapshot restorable since tax identifiers must stay numeric.
const (
	MaskedName  = "***"
	MaskedTaxID = "0"
)

type piiMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks the personal data of clients whose key
// matches any of the patterns. Masking happens on Save and is lossy: use it for stores that
// publish networks, not for the working copy.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, name string, snap *network.Snapshot) error {
	// Shallow clone with a fresh client slice so the caller's snapshot is untouched.
	cloned := *snap
	cloned.Clients = make([]network.ClientRecord, len(snap.Clients))
	copy(cloned.Clients, snap.Clients)

	for i := range cloned.Clients {
		if m.matches(cloned.Clients[i].Key) {
			cloned.Clients[i].Name = MaskedName
			cloned.Clients[i].TaxID = MaskedTaxID
		}
	}

	return m.next.Save(ctx, name, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, name string) (*network.Snapshot, error) {
	return m.next.Load(ctx, name)
}

func (m *piiMiddleware) Delete(ctx context.Context, name string) error {
	return m.next.Delete(ctx, name)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) matches(key string) bool {
	for _, p := range m.patterns {
		if p.MatchString(key) {
			return true
		}
	}
	return false
}
