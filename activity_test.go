package opts

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-siteopts/pkg/activity"
)

func TestActivityEventsOverRun(t *testing.T) {
	capture := &activity.CaptureHook{}
	cfg, err := Resolve(map[string]any{"SITE_NAME": "wu"}, exportRegistry(t),
		WithActivityHooks(activity.Hooks{capture, nil}),
		WithContext(context.Background()),
	)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if err := ValidateStatic(cfg); err != nil {
		t.Fatalf("ValidateStatic returned error: %v", err)
	}
	if err := ValidateRuntime(context.Background(), cfg, testProbe(t)); err != nil {
		t.Fatalf("ValidateRuntime returned error: %v", err)
	}
	if err := WriteExport(&bytes.Buffer{}, cfg); err != nil {
		t.Fatalf("WriteExport returned error: %v", err)
	}

	verbs := capture.Verbs()
	if run := capture.Run(cfg.RunID()); len(run) != len(capture.Events) {
		t.Fatalf("expected every event tagged with run %q, got %d of %d", cfg.RunID(), len(run), len(capture.Events))
	}
	want := []string{
		activity.VerbConfigResolved,
		activity.VerbOptionOverride,
		activity.VerbConfigValidated,
		activity.VerbConfigValidated,
		activity.VerbConfigExported,
	}
	if len(verbs) != len(want) {
		t.Fatalf("unexpected verbs %v", verbs)
	}
	for i := range want {
		if verbs[i] != want[i] {
			t.Fatalf("unexpected verbs %v", verbs)
		}
	}
	if capture.Events[1].Option != "SITE_NAME" || capture.Events[1].Metadata["value"] != "wu" {
		t.Fatalf("unexpected override event %+v", capture.Events[1].Metadata)
	}
	if capture.Events[2].Phase != "static" || capture.Events[3].Phase != "runtime" {
		t.Fatalf("unexpected validation phases %q %q", capture.Events[2].Phase, capture.Events[3].Phase)
	}
	if capture.Events[4].Metadata["lines"] != 13 {
		t.Fatalf("unexpected exported line count %v", capture.Events[4].Metadata["lines"])
	}
	if len(cfg.ActivityHooks()) != 1 {
		t.Fatalf("nil hooks should be dropped")
	}
}

func TestActivityFailedValidationEmitsNothing(t *testing.T) {
	capture := &activity.CaptureHook{}
	registry := mustRegistry(t, Descriptor{Name: "A", Type: TypeInteger, Default: 300, StaticCheck: Between(0, 255)})
	cfg, err := Resolve(nil, registry, WithActivityHooks(activity.Hooks{capture}))
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	before := len(capture.Events)
	if err := ValidateStatic(cfg); err == nil {
		t.Fatalf("expected validation failure")
	}
	if len(capture.Events) != before {
		t.Fatalf("failed validation must not emit, got %d new events", len(capture.Events)-before)
	}
}

func TestActivityHookErrorsDoNotFailRun(t *testing.T) {
	boom := errors.New("sink down")
	capture := &activity.CaptureHook{Err: boom}
	var reported []error
	_, err := Resolve(nil, mustRegistry(t, Descriptor{Name: "A", Type: TypeString, Default: "a"}),
		WithActivityHooks(activity.Hooks{capture}),
		WithHookErrorHandler(func(err error) { reported = append(reported, err) }),
	)
	if err != nil {
		t.Fatalf("hook failures must not fail resolution, got %v", err)
	}
	if len(reported) != 1 || !errors.Is(reported[0], boom) {
		t.Fatalf("expected the hook error to be reported, got %v", reported)
	}
}
