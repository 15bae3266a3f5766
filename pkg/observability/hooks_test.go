package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Transform hooks
	tr := NoopTransformHooks{}
	tr.OnBegin("move", 2)
	tr.OnUpdate("move", time.Millisecond, 12, 1)
	tr.OnCommit("move", 2, time.Second)
	tr.OnCancel("rotate")

	// History hooks
	h := NoopHistoryHooks{}
	h.OnCommit(3)
	h.OnDiscard()
	h.OnUndo()
	h.OnRedo()

	// Script hooks
	s := NoopScriptHooks{}
	s.OnStepStart(ctx, "drag", 0, "begin")
	s.OnStepComplete(ctx, "drag", 0, "begin", time.Millisecond, nil)

	// HTTP hooks
	hh := NoopHTTPHooks{}
	hh.OnRequest(ctx, "GET", "/document", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Transform() should return NoopTransformHooks by default")
	}
	if _, ok := History().(NoopHistoryHooks); !ok {
		t.Error("History() should return NoopHistoryHooks by default")
	}
	if _, ok := Script().(NoopScriptHooks); !ok {
		t.Error("Script() should return NoopScriptHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customTransform := &testTransformHooks{}
	SetTransformHooks(customTransform)
	if Transform() != customTransform {
		t.Error("SetTransformHooks should set custom hooks")
	}

	customHistory := &testHistoryHooks{}
	SetHistoryHooks(customHistory)
	if History() != customHistory {
		t.Error("SetHistoryHooks should set custom hooks")
	}

	customScript := &testScriptHooks{}
	SetScriptHooks(customScript)
	if Script() != customScript {
		t.Error("SetScriptHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Transform().(NoopTransformHooks); !ok {
		t.Error("Reset() should restore NoopTransformHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("Reset() should restore NoopHTTPHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testTransformHooks{}
	SetTransformHooks(custom)

	// Setting nil should be ignored
	SetTransformHooks(nil)

	if Transform() != custom {
		t.Error("SetTransformHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testTransformHooks struct{ NoopTransformHooks }
type testHistoryHooks struct{ NoopHistoryHooks }
type testScriptHooks struct{ NoopScriptHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
