package classifier

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/llm"
	"github.com/fleveque/stock-chat/internal/model"
)

// fakeClient implements llm.Client without any network I/O.
// Go interfaces are implicit — no registration needed, the method set is enough.
type fakeClient struct {
	name   string
	result *model.Classification
	err    error
	calls  int
}

func (f *fakeClient) Classify(_ context.Context, _ string) (*model.Classification, error) {
	f.calls++
	return f.result, f.err
}
func (f *fakeClient) ProviderName() string { return f.name }
func (f *fakeClient) ModelName() string    { return "fake-model" }

func TestClassify_FirstProviderWins(t *testing.T) {
	primary := &fakeClient{name: "primary", result: &model.Classification{Kind: model.KindTicker, Value: "aapl"}}
	fallback := &fakeClient{name: "fallback", result: &model.Classification{Kind: model.KindCompany, Value: "apple inc"}}

	c := New([]llm.Client{primary, fallback}, nil, zap.NewNop())

	got, err := c.Classify(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Kind != model.KindTicker || got.Value != "aapl" {
		t.Errorf("expected primary result, got %+v", got)
	}
	if fallback.calls != 0 {
		t.Errorf("fallback should not be called when primary succeeds, got %d calls", fallback.calls)
	}
}

func TestClassify_FallsThroughOnError(t *testing.T) {
	primary := &fakeClient{name: "primary", err: llm.ErrBadClassification}
	fallback := &fakeClient{name: "fallback", result: &model.Classification{Kind: model.KindCompany, Value: "apple inc"}}

	c := New([]llm.Client{primary, fallback}, nil, zap.NewNop())

	got, err := c.Classify(context.Background(), "Apple")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if got.Kind != model.KindCompany {
		t.Errorf("expected fallback result, got %+v", got)
	}
	if primary.calls != 1 || fallback.calls != 1 {
		t.Errorf("expected both providers tried once, got %d and %d", primary.calls, fallback.calls)
	}
}

func TestClassify_AllProvidersFail(t *testing.T) {
	primary := &fakeClient{name: "primary", err: errors.New("boom")}
	fallback := &fakeClient{name: "fallback", err: llm.ErrBadClassification}

	c := New([]llm.Client{primary, fallback}, nil, zap.NewNop())

	_, err := c.Classify(context.Background(), "Apple")
	if err == nil {
		t.Fatal("expected error when all providers fail")
	}
	// The last provider's error is preserved in the chain.
	if !errors.Is(err, llm.ErrBadClassification) {
		t.Errorf("expected wrapped ErrBadClassification, got %v", err)
	}
}

func TestClassify_NoProviders(t *testing.T) {
	c := New(nil, nil, zap.NewNop())

	_, err := c.Classify(context.Background(), "Apple")
	if err == nil {
		t.Fatal("expected error with no providers configured")
	}
}
