// Package lookup memoizes agent-identity and wrap-up-code resolution for the
// lifetime of one run. Names do not change mid-run, so entries are never
// evicted. The cache is shared across concurrently processed chunks, so each
// key is fetched at most once: a second resolver for the same key waits for
// the first instead of hitting the platform again.
package lookup

import (
	"context"
	"strings"
	"sync"

	"recording-extract-go/internal/genesys"
)

const (
	UnknownAgent  = "Unknown Agent"
	UnknownWrapup = "Unknown Wrapup"
)

// UserAPI is the identity point lookup the cache populates from.
type UserAPI interface {
	GetUser(ctx context.Context, userID string) (*genesys.User, error)
}

// WrapupAPI is the disposition-code point lookup.
type WrapupAPI interface {
	GetWrapupCode(ctx context.Context, codeID string) (*genesys.WrapupCode, error)
}

// Agent is one resolved identity including its manager chain head.
type Agent struct {
	Name        string
	ManagerID   string
	ManagerName string
}

type agentEntry struct {
	ready     chan struct{}
	name      string
	managerID string
}

type wrapupEntry struct {
	ready chan struct{}
	name  string
}

// Cache holds both lookup tables. Zero value is not usable; use New.
type Cache struct {
	users   UserAPI
	wrapups WrapupAPI

	mu      sync.Mutex
	agents  map[string]*agentEntry
	wrapMap map[string]*wrapupEntry
}

func New(users UserAPI, wrapups WrapupAPI) *Cache {
	return &Cache{
		users:   users,
		wrapups: wrapups,
		agents:  make(map[string]*agentEntry),
		wrapMap: make(map[string]*wrapupEntry),
	}
}

// Agent resolves a user ID to a name and manager name. Unresolvable users
// come back as the Unknown sentinel instead of an error; a record with an
// unknown agent is still worth reporting. The manager name is joined from a
// second flat lookup after the user's own entry is published, so a manager
// cycle in the org data never leaves two resolvers waiting on each other.
func (c *Cache) Agent(ctx context.Context, userID string) Agent {
	if userID == "" {
		return Agent{Name: UnknownAgent}
	}
	name, managerID := c.userRecord(ctx, userID)
	if name == "" {
		return Agent{Name: UnknownAgent}
	}
	agent := Agent{Name: name, ManagerID: managerID}
	if managerID != "" && managerID != userID {
		if managerName, _ := c.userRecord(ctx, managerID); managerName != "" {
			agent.ManagerName = managerName
		}
	}
	return agent
}

// userRecord single-flights the point lookup for one user. The fetch only
// ever calls the platform; it never waits on another in-flight entry.
func (c *Cache) userRecord(ctx context.Context, userID string) (name, managerID string) {
	c.mu.Lock()
	if e, ok := c.agents[userID]; ok {
		c.mu.Unlock()
		<-e.ready
		return e.name, e.managerID
	}
	e := &agentEntry{ready: make(chan struct{})}
	c.agents[userID] = e
	c.mu.Unlock()

	if user, err := c.users.GetUser(ctx, userID); err == nil && user != nil {
		e.name = user.Name
		if user.Manager != nil {
			e.managerID = user.Manager.ID
		}
	}
	close(e.ready)
	return e.name, e.managerID
}

// WrapupName resolves a disposition code to its display name. Empty codes
// resolve to the empty string; unresolvable codes fall back to the sentinel.
func (c *Cache) WrapupName(ctx context.Context, code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}

	c.mu.Lock()
	if e, ok := c.wrapMap[code]; ok {
		c.mu.Unlock()
		<-e.ready
		return e.name
	}
	e := &wrapupEntry{ready: make(chan struct{})}
	c.wrapMap[code] = e
	c.mu.Unlock()

	e.name = c.fetchWrapup(ctx, code)
	close(e.ready)
	return e.name
}

func (c *Cache) fetchWrapup(ctx context.Context, code string) string {
	wrapup, err := c.wrapups.GetWrapupCode(ctx, code)
	if err != nil || wrapup == nil {
		return UnknownWrapup
	}
	if wrapup.Name == "" {
		return code
	}
	return wrapup.Name
}
