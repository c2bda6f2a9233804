package pipeline

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/bstlayout/pkg/cache"
	"github.com/matzehuels/bstlayout/pkg/errors"
	"github.com/matzehuels/bstlayout/pkg/graph"
	"github.com/matzehuels/bstlayout/pkg/observability"
	"github.com/matzehuels/bstlayout/pkg/tokenize"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"json", false},
		{"dot", false},
		{"svg", true},
		{"JSON", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want %s", tt.format, errors.GetCode(err), errors.ErrCodeInvalidFormat)
		}
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var opts Options
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.Format != FormatJSON {
		t.Errorf("Format = %q, want %q", opts.Format, FormatJSON)
	}
	if opts.Malformed != tokenize.MalformedReject {
		t.Errorf("Malformed = %q, want %q", opts.Malformed, tokenize.MalformedReject)
	}
	if opts.Overflow != tokenize.OverflowReject {
		t.Errorf("Overflow = %q, want %q", opts.Overflow, tokenize.OverflowReject)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}

	bad := []Options{
		{Format: "svg"},
		{Malformed: "ignore"},
		{Overflow: "wrap"},
		{MaxTokens: -1},
	}
	for _, o := range bad {
		if err := o.ValidateAndSetDefaults(); err == nil {
			t.Errorf("ValidateAndSetDefaults(%+v) should fail", o)
		}
	}
}

func TestBuildTreeJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"Empty", "", `{"nodes":[],"edges":[]}`},
		{"NoDigits", "hello, world!", `{"nodes":[],"edges":[]}`},
		{"Single", "5", `{"nodes":[{"id":1,"value":5,"x":0,"y":0,"parent":0}],"edges":[]}`},
		{
			"RightChain", "1,2,3",
			`{"nodes":[{"id":1,"value":1,"x":0,"y":0,"parent":0},` +
				`{"id":2,"value":2,"x":1,"y":1,"parent":1},` +
				`{"id":3,"value":3,"x":2,"y":2,"parent":2}],` +
				`"edges":[{"from":1,"to":2},{"from":2,"to":3}]}`,
		},
		{
			"DuplicatesGoLeft", "5 5 5",
			`{"nodes":[{"id":3,"value":5,"x":0,"y":2,"parent":2},` +
				`{"id":2,"value":5,"x":1,"y":1,"parent":1},` +
				`{"id":1,"value":5,"x":2,"y":0,"parent":0}],` +
				`"edges":[{"from":1,"to":2},{"from":2,"to":3}]}`,
		},
		{
			"Separators", "x=8;y=-3",
			`{"nodes":[{"id":2,"value":-3,"x":0,"y":1,"parent":1},` +
				`{"id":1,"value":8,"x":1,"y":0,"parent":0}],` +
				`"edges":[{"from":1,"to":2}]}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildTreeJSON(tt.input)
			if err != nil {
				t.Fatalf("BuildTreeJSON: %v", err)
			}
			if got != tt.want {
				t.Errorf("BuildTreeJSON(%q) =\n  %s\nwant\n  %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildTreeJSONErrors(t *testing.T) {
	tests := []struct {
		input string
		code  errors.Code
	}{
		{"1, 2-3, 4", errors.ErrCodeMalformedToken},
		{"--5", errors.ErrCodeMalformedToken},
		{"99999999999999999999", errors.ErrCodeIntegerOverflow},
	}

	for _, tt := range tests {
		_, err := BuildTreeJSON(tt.input)
		if err == nil {
			t.Errorf("BuildTreeJSON(%q) should fail", tt.input)
			continue
		}
		if !errors.Is(err, tt.code) {
			t.Errorf("BuildTreeJSON(%q) code = %s, want %s", tt.input, errors.GetCode(err), tt.code)
		}
	}
}

func TestBuildPolicies(t *testing.T) {
	result, err := Build("1 -- 2 99999999999999999999", Options{
		Malformed: tokenize.MalformedSkip,
		Overflow:  tokenize.OverflowSaturate,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.Stats.TokenCount != 3 {
		t.Errorf("TokenCount = %d, want 3", result.Stats.TokenCount)
	}
	if result.Stats.Height != 3 {
		t.Errorf("Height = %d, want 3", result.Stats.Height)
	}
}

func TestBuildProperties(t *testing.T) {
	inputs := []string{
		"8 3 10 1 6 14 4 7 13",
		"50 30 70 20 40 60 80 30 30 70",
		"1 2 3 4 5 6 7 8 9 10",
		"10 9 8 7 6 5 4 3 2 1",
		"0 -1 1 -2 2 -3 3",
	}

	for _, input := range inputs {
		result, err := Build(input, Options{})
		if err != nil {
			t.Fatalf("Build(%q): %v", input, err)
		}
		g := *result.Graph
		n := len(strings.Fields(input))

		if g.NodeCount() != n {
			t.Errorf("%q: NodeCount = %d, want %d", input, g.NodeCount(), n)
		}
		if g.EdgeCount() != n-1 {
			t.Errorf("%q: EdgeCount = %d, want %d", input, g.EdgeCount(), n-1)
		}
		if err := g.Validate(); err != nil {
			t.Errorf("%q: Validate: %v", input, err)
		}

		// The artifact decodes back to the same graph.
		decoded, err := graph.Unmarshal(result.Artifact)
		if err != nil {
			t.Fatalf("%q: Unmarshal: %v", input, err)
		}
		if err := decoded.Validate(); err != nil {
			t.Errorf("%q: decoded Validate: %v", input, err)
		}
	}
}

func TestBuildDeterministic(t *testing.T) {
	const input = "42 17 99 17 3 64 -8 100"
	first, err := BuildTreeJSON(input)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		got, err := BuildTreeJSON(input)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Fatalf("run %d differs:\n  %s\nwant\n  %s", i, got, first)
		}
	}
}

func TestBuildIndent(t *testing.T) {
	result, err := Build("2 1", Options{Indent: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	got := string(result.Artifact)
	if !strings.HasPrefix(got, "{\n  \"nodes\": [") {
		t.Errorf("indented artifact should start with a pretty-printed object, got:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("indented artifact should end with a newline")
	}
}

func TestBuildDOT(t *testing.T) {
	result, err := Build("2 1 3", Options{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if result.ContentType() != "text/vnd.graphviz" {
		t.Errorf("ContentType = %q", result.ContentType())
	}
	dot := string(result.Artifact)
	for _, want := range []string{"digraph BST {", "n1 -> n2", "n1 -> n3"} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}
}

func TestBuildCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := BuildContext(ctx, "1 2 3", Options{}); err == nil {
		t.Error("BuildContext with canceled context should fail")
	}
}

// =============================================================================
// Runner
// =============================================================================

type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (c *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memoryCache) Close() error { return nil }

var _ cache.Cache = (*memoryCache)(nil)

func TestRunnerExecuteCaches(t *testing.T) {
	mc := newMemoryCache()
	r := NewRunner(mc, nil, nil)
	ctx := context.Background()

	first, err := r.Execute(ctx, "3 1 2", Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if first.CacheHit {
		t.Error("first Execute should miss")
	}
	if mc.sets != 1 {
		t.Errorf("cache sets = %d, want 1", mc.sets)
	}

	second, err := r.Execute(ctx, "3 1 2", Options{})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !second.CacheHit {
		t.Error("second Execute should hit")
	}
	if string(second.Artifact) != string(first.Artifact) {
		t.Errorf("cached artifact differs:\n  %s\nwant\n  %s", second.Artifact, first.Artifact)
	}

	// Explicit defaults share the key with implicit ones.
	third, err := r.Execute(ctx, "3 1 2", Options{Format: FormatJSON, Malformed: tokenize.MalformedReject})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !third.CacheHit {
		t.Error("explicit defaults should hit the same entry")
	}

	// A different format is a different artifact.
	dot, err := r.Execute(ctx, "3 1 2", Options{Format: FormatDOT})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if dot.CacheHit {
		t.Error("different format should miss")
	}
}

func TestRunnerDoesNotCacheErrors(t *testing.T) {
	mc := newMemoryCache()
	r := NewRunner(mc, nil, nil)

	if _, err := r.Execute(context.Background(), "1 + 2", Options{}); err == nil {
		t.Fatal("Execute should fail on a malformed token")
	}
	if mc.sets != 0 {
		t.Errorf("cache sets = %d, want 0", mc.sets)
	}
}

func TestRunnerConcurrent(t *testing.T) {
	r := NewRunner(newMemoryCache(), nil, nil)
	want, err := BuildTreeJSON("5 2 8 1 9")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Execute(context.Background(), "5 2 8 1 9", Options{})
			if err != nil {
				t.Errorf("Execute: %v", err)
				return
			}
			if string(res.Artifact) != want {
				t.Errorf("artifact = %s, want %s", res.Artifact, want)
			}
		}()
	}
	wg.Wait()
}

// =============================================================================
// Hooks
// =============================================================================

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	stages []observability.Stage
	items  map[observability.Stage]int
}

func (h *recordingHooks) OnStageComplete(_ context.Context, s observability.Stage, items int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stages = append(h.stages, s)
	h.items[s] = items
}

type recordingCacheHooks struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (h *recordingCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *recordingCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *recordingCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }

func TestPipelineHooks(t *testing.T) {
	defer observability.Reset()
	h := &recordingHooks{items: make(map[observability.Stage]int)}
	observability.SetPipelineHooks(h)

	result, err := Build("4 2 6", Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []observability.Stage{
		observability.StageTokenize,
		observability.StageBuild,
		observability.StageLayout,
		observability.StageSerialize,
	}
	if len(h.stages) != len(want) {
		t.Fatalf("stages = %v, want %v", h.stages, want)
	}
	for i := range want {
		if h.stages[i] != want[i] {
			t.Errorf("stage %d = %s, want %s", i, h.stages[i], want[i])
		}
	}
	if h.items[observability.StageTokenize] != 3 {
		t.Errorf("tokenize items = %d, want 3", h.items[observability.StageTokenize])
	}
	if h.items[observability.StageSerialize] != len(result.Artifact) {
		t.Errorf("serialize items = %d, want %d", h.items[observability.StageSerialize], len(result.Artifact))
	}
}

func TestCacheHooks(t *testing.T) {
	defer observability.Reset()
	h := &recordingCacheHooks{}
	observability.SetCacheHooks(h)

	r := NewRunner(newMemoryCache(), nil, nil)
	for i := 0; i < 3; i++ {
		if _, err := r.Execute(context.Background(), "7", Options{}); err != nil {
			t.Fatal(err)
		}
	}
	if h.misses != 1 || h.sets != 1 || h.hits != 2 {
		t.Errorf("misses/sets/hits = %d/%d/%d, want 1/1/2", h.misses, h.sets, h.hits)
	}
}
