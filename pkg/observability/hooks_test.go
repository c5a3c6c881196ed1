package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	q := NoopQueryHooks{}
	q.OnExecuteStart("browse")
	q.OnExecuteComplete("browse", 42, time.Second)
	q.OnTraversal(10, false, time.Millisecond)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "result")
	c.OnCacheMiss(ctx, "result")
	c.OnCacheSet(ctx, "result", 1024)

	s := NoopStoreHooks{}
	s.OnViewSaved(ctx, "memory")
	s.OnViewDeleted(ctx, "file")
	s.OnStoreError(ctx, "mongo", "save", nil)
}

type testQueryHooks struct{ NoopQueryHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testStoreHooks struct{ NoopStoreHooks }

func TestRegistryDefaultsToNoop(t *testing.T) {
	Reset()

	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Errorf("Query() = %T, want NoopQueryHooks", Query())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Errorf("Store() = %T, want NoopStoreHooks", Store())
	}
}

func TestRegistryRoundTrip(t *testing.T) {
	t.Cleanup(Reset)

	q, c, s := &testQueryHooks{}, &testCacheHooks{}, &testStoreHooks{}
	SetQueryHooks(q)
	SetCacheHooks(c)
	SetStoreHooks(s)

	if Query() != q {
		t.Errorf("Query() = %v, want the registered hooks", Query())
	}
	if Cache() != c {
		t.Errorf("Cache() = %v, want the registered hooks", Cache())
	}
	if Store() != s {
		t.Errorf("Store() = %v, want the registered hooks", Store())
	}

	Reset()
	if _, ok := Query().(NoopQueryHooks); !ok {
		t.Errorf("after Reset, Query() = %T, want NoopQueryHooks", Query())
	}
}

func TestSetNilHooksKeepsCurrent(t *testing.T) {
	t.Cleanup(Reset)
	Reset()

	q := &testQueryHooks{}
	SetQueryHooks(q)
	SetQueryHooks(nil)

	if Query() != q {
		t.Error("SetQueryHooks(nil) replaced the registered hooks")
	}
}
