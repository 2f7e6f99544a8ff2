package audit

import (
	"context"
	"errors"
	"testing"
)

func TestNormalizeEventTrimsClonesAndDefaults(t *testing.T) {
	meta := map[string]any{"k": "v"}
	evt := Event{
		Verb:       " settings.resolved ",
		ActorID:    " actor ",
		UserID:     " user ",
		TenantID:   " tenant ",
		ObjectType: " settings.path ",
		ObjectID:   " screen.height ",
		Channel:    " settings ",
		Metadata:   meta,
	}

	got := NormalizeEvent(evt)

	if got.Verb != "settings.resolved" || got.ObjectType != "settings.path" || got.ObjectID != "screen.height" {
		t.Fatalf("unexpected normalized fields: %+v", got)
	}
	if got.ActorID != "actor" || got.UserID != "user" || got.TenantID != "tenant" || got.Channel != "settings" {
		t.Fatalf("unexpected trimming: %+v", got)
	}
	if got.OccurredAt.IsZero() {
		t.Fatalf("expected OccurredAt to be set")
	}
	got.Metadata["k"] = "changed"
	if meta["k"] != "v" {
		t.Fatalf("expected original metadata untouched: %+v", meta)
	}
}

func TestHooksNotifyShortCircuitsMissingRequired(t *testing.T) {
	capture := &CaptureHook{}
	hooks := Hooks{capture}

	if err := hooks.Notify(context.Background(), Event{Verb: "settings.resolved"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(capture.Events) != 0 {
		t.Fatalf("expected no events for incomplete payload, got %d", len(capture.Events))
	}
}

func TestHooksNotifyFansOutAndJoinsErrors(t *testing.T) {
	okHook := &CaptureHook{}
	failErr := errors.New("sink down")
	failing := &CaptureHook{Err: failErr}

	hooks := Hooks{okHook, nil, failing}
	event := Event{Verb: "settings.resolved", ObjectType: "settings.path", ObjectID: "screen"}

	err := hooks.Notify(context.Background(), event)
	if !errors.Is(err, failErr) {
		t.Fatalf("expected joined error, got %v", err)
	}
	if len(okHook.Events) != 1 || len(failing.Events) != 1 {
		t.Fatalf("expected both hooks notified: %d, %d", len(okHook.Events), len(failing.Events))
	}
}

func TestHookFuncAdapter(t *testing.T) {
	var seen []Event
	hook := HookFunc(func(_ context.Context, event Event) error {
		seen = append(seen, event)
		return nil
	})
	hooks := Hooks{hook}

	if !hooks.Enabled() {
		t.Fatalf("expected hooks to report enabled")
	}
	if err := hooks.Notify(nil, Event{Verb: "settings.resolved", ObjectType: "settings.path", ObjectID: "a"}); err != nil {
		t.Fatalf("notify: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("expected adapter to receive event")
	}
}

func TestBuildResolveEvent(t *testing.T) {
	event := BuildResolveEvent(ResolveEventInput{
		UserID:   "u-1",
		TenantID: "t-1",
		Path:     "screen.height",
		Layers: []LayerResult{
			{Layer: "user", Found: true},
			{Layer: "tenant", Found: false},
		},
		Merged: true,
	})

	if event.Verb != "settings.resolved" || event.ObjectType != "settings.path" {
		t.Fatalf("unexpected event identity: %+v", event)
	}
	if event.ObjectID != "screen.height" {
		t.Fatalf("expected path as object id, got %q", event.ObjectID)
	}
	layers, ok := event.Metadata["layers"].([]string)
	if !ok || len(layers) != 2 {
		t.Fatalf("expected consulted layers metadata, got %v", event.Metadata["layers"])
	}
	hits, ok := event.Metadata["layer_hits"].([]string)
	if !ok || len(hits) != 1 || hits[0] != "user" {
		t.Fatalf("expected hit layers metadata, got %v", event.Metadata["layer_hits"])
	}
	if event.Metadata["merged"] != true {
		t.Fatalf("expected merged flag, got %v", event.Metadata["merged"])
	}
}

func TestBuildResolveEventRootPath(t *testing.T) {
	event := BuildResolveEvent(ResolveEventInput{})
	if event.ObjectID != "<root>" {
		t.Fatalf("expected root marker, got %q", event.ObjectID)
	}
}
