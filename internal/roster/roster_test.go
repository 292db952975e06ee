package roster

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"recording-extract-go/internal/genesys"
)

type fakeUsers struct {
	pages [][]genesys.User
}

func (f *fakeUsers) ListUsers(_ context.Context, _, pageNumber int) (*genesys.UsersPage, error) {
	if pageNumber > len(f.pages) {
		return &genesys.UsersPage{PageCount: len(f.pages)}, nil
	}
	return &genesys.UsersPage{
		Entities:   f.pages[pageNumber-1],
		PageCount:  len(f.pages),
		PageNumber: pageNumber,
	}, nil
}

func writeRoster(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "agents.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write roster: %v", err)
	}
	return path
}

func TestAgentIDsResolvesAcrossPages(t *testing.T) {
	api := &fakeUsers{pages: [][]genesys.User{
		{{ID: "u1", Name: "Jade Gordon"}},
		{{ID: "u2", Name: "Samantha Koti"}},
	}}
	path := writeRoster(t, `["Samantha Koti", "jade gordon"]`)

	ids, err := AgentIDs(context.Background(), api, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "u2" || ids[1] != "u1" {
		t.Fatalf("got %v", ids)
	}
}

func TestAgentIDsDuplicateNamesKeepAll(t *testing.T) {
	api := &fakeUsers{pages: [][]genesys.User{
		{{ID: "u1", Name: "Jade Gordon"}, {ID: "u2", Name: "Jade Gordon"}},
	}}
	path := writeRoster(t, `["Jade Gordon", "Nobody Here"]`)

	ids, err := AgentIDs(context.Background(), api, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("duplicates must resolve to all IDs, got %v", ids)
	}
}

func TestAgentIDsMissingFileIsNotAnError(t *testing.T) {
	ids, err := AgentIDs(context.Background(), &fakeUsers{}, filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("missing roster must not error: %v", err)
	}
	if ids != nil {
		t.Fatalf("expected nil ids, got %v", ids)
	}
}

func TestLoadNamesRejectsBlankEntries(t *testing.T) {
	path := writeRoster(t, `["ok", " "]`)
	if _, err := LoadNames(path); err == nil {
		t.Fatalf("expected an error for blank entries")
	}
}
