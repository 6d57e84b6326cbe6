package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Generation hooks
	g := NoopGenerationHooks{}
	g.OnTileGenerated(17, 2, time.Millisecond)
	g.OnRequestDropped(17, "17/2/3")
	g.OnGenerationFailed(17, "17/2/3", errors.New("boom"))

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnRenderStart(ctx, 17, "text")
	p.OnRenderComplete(ctx, 17, "text", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "view")
	c.OnCacheMiss(ctx, "tile")
	c.OnCacheSet(ctx, "view", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/v1/catalog")
	h.OnResponse(ctx, "GET", "/v1/catalog", 200, time.Second)
	h.OnError(ctx, "GET", "/v1/catalog", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Generation() should return NoopGenerationHooks by default")
	}
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customGeneration := &testGenerationHooks{}
	SetGenerationHooks(customGeneration)
	if Generation() != customGeneration {
		t.Error("SetGenerationHooks should set custom hooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Generation().(NoopGenerationHooks); !ok {
		t.Error("Reset() should restore NoopGenerationHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testGenerationHooks{}
	SetGenerationHooks(custom)
	SetGenerationHooks(nil)

	if Generation() != custom {
		t.Error("SetGenerationHooks(nil) should be ignored")
	}

	Reset()
}

type testGenerationHooks struct{ NoopGenerationHooks }
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
