package logger

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestErrorKeepsContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-42")
	ctx = log.WithAdmin(ctx, "Ayash")

	log.Error(ctx, "boom", errors.New("boom"))

	if !bytes.Contains(buf.Bytes(), []byte(`"request_id":"req-42"`)) {
		t.Fatalf("expected request_id in entry: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"admin":"Ayash"`)) {
		t.Fatalf("expected admin field in entry: %s", buf.String())
	}
}

func TestWithFieldsDoesNotMutateParentContext(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "test", Level: zerolog.DebugLevel, Output: buf})

	parent := context.Background()
	_ = log.WithFields(parent, map[string]any{"entity": "donation"})

	log.Info(parent, "plain")
	if bytes.Contains(buf.Bytes(), []byte(`"entity"`)) {
		t.Fatalf("parent context should be untouched: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel("debug"); lvl != zerolog.DebugLevel {
		t.Fatalf("got %v", lvl)
	}
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("empty should default to info, got %v", lvl)
	}
	if lvl := ParseLevel("nonsense"); lvl != zerolog.InfoLevel {
		t.Fatalf("invalid should fall back to info, got %v", lvl)
	}
}
