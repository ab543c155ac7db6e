package parse

import (
	"context"
	"reflect"
	"testing"

	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/body"
	"github.com/ketjandr/nasa-spaceapps-project/internal/domain/intent"
)

func TestFallback_Parse(t *testing.T) {
	f := NewFallback()

	it, err := f.Parse(context.Background(), "Show me the largest craters on Mars", body.None)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if it.TargetBody() != body.Mars {
		t.Errorf("TargetBody = %v, want Mars", it.TargetBody())
	}
	if it.Category() != "Crater" {
		t.Errorf("Category = %q, want Crater", it.Category())
	}
	if it.Size() != intent.SizeLarge {
		t.Errorf("Size = %v, want large", it.Size())
	}
	if it.Confidence() != 0.6 {
		t.Errorf("Confidence = %v, want 0.6", it.Confidence())
	}
	if it.Source() != intent.SourceFallback {
		t.Errorf("Source = %v, want fallback", it.Source())
	}

	want := []string{"largest", "craters", "mars"}
	if !reflect.DeepEqual(it.Keywords(), want) {
		t.Errorf("Keywords = %v, want %v", it.Keywords(), want)
	}
}

func TestFallback_NoEventDetection(t *testing.T) {
	f := NewFallback()

	it, err := f.Parse(context.Background(), "dust storms on mars", body.None)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if it.SearchType() != intent.Feature {
		t.Errorf("SearchType = %v, fallback must not detect events", it.SearchType())
	}
	if it.EventCategory() != "" {
		t.Errorf("EventCategory = %q, want empty", it.EventCategory())
	}
}

func TestFallback_KeywordCap(t *testing.T) {
	f := NewFallback()

	it, err := f.Parse(context.Background(), "alpha bravo charlie delta echo foxtrot golf", body.None)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(it.Keywords()) != 5 {
		t.Errorf("Keywords = %v, want 5 terms", it.Keywords())
	}
}

func TestFallback_BodyOverride(t *testing.T) {
	f := NewFallback()

	it, err := f.Parse(context.Background(), "big craters", body.Moon)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if it.TargetBody() != body.Moon {
		t.Errorf("TargetBody = %v, want Moon from override", it.TargetBody())
	}
}
