package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/five82/pocketspice/internal/spice"
)

// execute runs the CLI against the fixture backend under a scratch HOME.
func execute(t *testing.T, home string, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	for _, key := range []string{"POCKETSPICE_API_URL", "POCKETSPICE_USE_MOCK", "POCKETSPICE_LOG_LEVEL", "POCKETSPICE_TIMEOUT", "POCKETSPICE_SESSION_FILE"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{"--mock"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestRecipesListJSON(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "recipes", "list", "--page-size", "2", "--json")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	var page spice.RecipePage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if page.Count != 3 || len(page.Results) != 2 || !page.HasNext() {
		t.Fatalf("page = %+v, want 2 of 3 with a next link", page)
	}
}

func TestRecipesListText(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "recipes", "list")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	for _, want := range []string{"All recipes", "TITLE", "Classic Margherita Pizza", "Fresh Garden Salad"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRecipesShowAndNotFound(t *testing.T) {
	home := t.TempDir()
	out, err := execute(t, home, "", "recipes", "show", "2")
	if err != nil {
		t.Fatalf("recipes show: %v", err)
	}
	if !strings.Contains(out, "Creamy Mushroom Risotto") || !strings.Contains(out, "Steps:") {
		t.Fatalf("unexpected output:\n%s", out)
	}

	if _, err := execute(t, home, "", "recipes", "show", "99"); err == nil {
		t.Fatalf("show 99 returned nil error")
	}
	if _, err := execute(t, home, "", "recipes", "show", "abc"); err == nil || !strings.Contains(err.Error(), "invalid recipe id") {
		t.Fatalf("show abc error = %v, want invalid id", err)
	}
}

func TestMatchJoinsArguments(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "match", "rice", "mushrooms", "--json")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	var res spice.MatchResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if res.Recipe.ID != 2 {
		t.Fatalf("matched recipe %d, want 2", res.Recipe.ID)
	}
}

func TestLoginPersistsSession(t *testing.T) {
	home := t.TempDir()

	out, err := execute(t, home, "hunter2\n", "login", "-u", "chef", "--password-stdin")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Signed in as chef") {
		t.Fatalf("login output = %q", out)
	}

	out, err = execute(t, home, "", "whoami", "--json")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var res whoamiResult
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if !res.Authenticated || res.User == nil {
		t.Fatalf("whoami = %+v, want an authenticated user", res)
	}

	if _, err := execute(t, home, "", "logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	out, err = execute(t, home, "", "whoami")
	if err != nil {
		t.Fatalf("whoami after logout: %v", err)
	}
	if !strings.Contains(out, "Not signed in") {
		t.Fatalf("whoami after logout = %q", out)
	}
}

func TestLoginFailureShowsFriendlyMessage(t *testing.T) {
	_, err := execute(t, t.TempDir(), "", "login", "-u", "chef")
	if err == nil {
		t.Fatalf("login without password returned nil error")
	}
	if strings.Contains(err.Error(), "HTTP error") {
		t.Fatalf("error leaks the raw status: %v", err)
	}
}

func TestCreateRequiresSession(t *testing.T) {
	home := t.TempDir()
	path := filepath.Join(home, "recipe.json")
	if err := os.WriteFile(path, []byte(`{"title":"Toast","preparation_duration":5}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if _, err := execute(t, home, "", "recipes", "create", "-f", path); err == nil {
		t.Fatalf("create without login returned nil error")
	}

	if _, err := execute(t, home, "pw\n", "login", "-u", "chef", "--password-stdin"); err != nil {
		t.Fatalf("login: %v", err)
	}
	out, err := execute(t, home, "", "recipes", "create", "-f", path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.Contains(out, `Created "Toast"`) {
		t.Fatalf("create output = %q", out)
	}
}

func TestReadPassword(t *testing.T) {
	got, err := readPassword(strings.NewReader("s3cret\r\nignored"), "flag", true)
	if err != nil || got != "s3cret" {
		t.Fatalf("readPassword stdin = %q, %v", got, err)
	}
	got, err = readPassword(strings.NewReader("unused"), "flag", false)
	if err != nil || got != "flag" {
		t.Fatalf("readPassword flag = %q, %v", got, err)
	}
}

func TestLogsWithoutFile(t *testing.T) {
	home := t.TempDir()
	out, err := execute(t, home, "", "logs", "-n", "5")
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	if !strings.Contains(out, "No log entries") {
		t.Fatalf("logs output = %q", out)
	}
}

func TestRecipesListPastLastPage(t *testing.T) {
	out, err := execute(t, t.TempDir(), "", "recipes", "list", "--page", "922337203685477582", "--json")
	if err != nil {
		t.Fatalf("recipes list: %v", err)
	}
	var page spice.RecipePage
	if err := json.Unmarshal([]byte(out), &page); err != nil {
		t.Fatalf("decode output: %v\n%s", err, out)
	}
	if len(page.Results) != 0 || page.HasNext() || !page.HasPrevious() {
		t.Fatalf("page = %+v, want an empty page with only a previous link", page)
	}
}
