package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const fixture = `{
  "description": "ping pong",
  "hooks": [{"message": "ping", "reply": "pong", "createdAt": 1}],
  "interactions": [{"turn_id": "t1", "input": "ping"}],
  "expected_results": [{"turn_id": "t1", "output": %q}]
}`

func writeFixture(t *testing.T, expected string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	if err := os.WriteFile(path, []byte(fmt.Sprintf(fixture, expected)), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunFixture_Match(t *testing.T) {
	var buf bytes.Buffer
	ok, err := runFixture(&buf, writeFixture(t, "pong"))
	if err != nil {
		t.Fatalf("runFixture: %v", err)
	}
	if !ok {
		t.Fatalf("expected match, output:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "1 locked") || !strings.Contains(buf.String(), "0 mismatches") {
		t.Fatalf("unexpected summary:\n%s", buf.String())
	}
}

func TestRunFixture_Mismatch(t *testing.T) {
	var buf bytes.Buffer
	ok, err := runFixture(&buf, writeFixture(t, "pang"))
	if err != nil {
		t.Fatalf("runFixture: %v", err)
	}
	if ok {
		t.Fatal("expected mismatch")
	}
	if !strings.Contains(buf.String(), "DIFF") {
		t.Fatalf("expected DIFF row:\n%s", buf.String())
	}
}

func TestRunFixture_MissingFile(t *testing.T) {
	if _, err := runFixture(&bytes.Buffer{}, filepath.Join(t.TempDir(), "none.json")); err == nil {
		t.Fatal("expected load error")
	}
}
