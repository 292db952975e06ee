// Package roster resolves a file-based list of agent display names to user
// IDs. An agents.json next to the binary overrides any --users flag: the
// operators curating the roster think in names, not platform IDs.
package roster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/logger"
)

const listPageSize = 200

// UsersAPI is the paged user listing slice of the platform client.
type UsersAPI interface {
	ListUsers(ctx context.Context, pageSize, pageNumber int) (*genesys.UsersPage, error)
}

// LoadNames reads a JSON array of display names. A missing file is not an
// error; the caller falls back to explicit user IDs.
func LoadNames(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read roster: %w", err)
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse roster %s: %w", path, err)
	}
	for _, n := range names {
		if strings.TrimSpace(n) == "" {
			return nil, fmt.Errorf("parse roster %s: blank name entry", path)
		}
	}
	return names, nil
}

// AgentIDs resolves roster names to user IDs via the paged active-user
// listing. Duplicate names resolve to all their IDs; unmatched names are
// logged and skipped.
func AgentIDs(ctx context.Context, api UsersAPI, path string) ([]string, error) {
	names, err := LoadNames(path)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, nil
	}
	log := logger.New().WithField("component", "roster")

	nameToIDs := make(map[string][]string)
	pageNumber := 1
	for {
		page, err := api.ListUsers(ctx, listPageSize, pageNumber)
		if err != nil {
			return nil, fmt.Errorf("list users page %d: %w", pageNumber, err)
		}
		for _, u := range page.Entities {
			key := strings.ToLower(strings.TrimSpace(u.Name))
			if key == "" || u.ID == "" {
				continue
			}
			nameToIDs[key] = append(nameToIDs[key], u.ID)
		}
		if len(page.Entities) == 0 || pageNumber >= page.PageCount {
			break
		}
		pageNumber++
	}

	var resolved []string
	for _, name := range names {
		ids := nameToIDs[strings.ToLower(strings.TrimSpace(name))]
		switch {
		case len(ids) == 0:
			log.WithField("name", name).Warn("no match for roster name")
		case len(ids) > 1:
			log.WithField("name", name).WithField("ids", ids).Warn("multiple matches for roster name")
			resolved = append(resolved, ids...)
		default:
			resolved = append(resolved, ids[0])
		}
	}
	return resolved, nil
}
