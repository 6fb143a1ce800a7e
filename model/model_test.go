package model

import (
	"context"
	"testing"
)

func TestMockModel_CannedResponse(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("why is ctr down?", "Creative fatigue on the hero video.")

	text, err := GenerateText(context.Background(), m, Request{
		Messages: []Message{{Role: "user", Text: "why is ctr down?"}},
	})
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if text != "Creative fatigue on the hero video." {
		t.Errorf("unexpected completion: %q", text)
	}
}

func TestMockModel_Streaming(t *testing.T) {
	m := NewMockModel("test-model")
	m.AddResponse("hi", "ok")

	respCh, errCh := m.Generate(context.Background(), Request{
		Messages: []Message{{Role: "user", Text: "hi"}},
		Stream:   true,
	})

	var partials, finals int
	var final string
	for resp := range respCh {
		if resp.Partial {
			partials++
			continue
		}
		finals++
		final = resp.Text
	}
	if err := <-errCh; err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if partials != 2 || finals != 1 {
		t.Errorf("expected 2 partial chunks and 1 final, got %d/%d", partials, finals)
	}
	if final != "ok" {
		t.Errorf("final text = %q, want ok", final)
	}
}

func TestMockModel_NoMessages(t *testing.T) {
	m := NewMockModel("test-model")
	if _, err := GenerateText(context.Background(), m, Request{}); err == nil {
		t.Fatal("expected error for empty request")
	}
}
