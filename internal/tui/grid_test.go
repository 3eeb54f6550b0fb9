package tui

import (
	"strings"
	"testing"
	"time"

	"pawgrammers/internal/dashboard/optimistic"
	"pawgrammers/internal/dashboard/prefs"
	"pawgrammers/internal/petstore"
)

func TestDescribe(t *testing.T) {
	one, four := 1, 4
	tests := []struct {
		pet  petstore.Pet
		want string
	}{
		{petstore.Pet{Breed: "Boxer", Age: &four}, "Boxer, 4 yrs"},
		{petstore.Pet{Breed: "Boxer", Age: &one}, "Boxer, 1 yr"},
		{petstore.Pet{Breed: "Boxer"}, "Boxer"},
		{petstore.Pet{Age: &four}, "4 yrs"},
	}
	for _, tc := range tests {
		if got := describe(tc.pet); got != tc.want {
			t.Errorf("describe(%+v) = %q, want %q", tc.pet, got, tc.want)
		}
	}
}

func TestExplosionFrameCoversWindow(t *testing.T) {
	if got := explosionFrame(0); got != explosionFrames[0] {
		t.Errorf("first frame = %q", got)
	}
	if got := explosionFrame(optimistic.ClearDelay + time.Second); got != explosionFrames[len(explosionFrames)-1] {
		t.Errorf("past the window should hold the last frame, got %q", got)
	}
	if got := explosionFrame(-time.Second); got != explosionFrames[0] {
		t.Errorf("negative elapsed = %q", got)
	}
}

func TestColumns(t *testing.T) {
	if got := columns(0); got != 1 {
		t.Errorf("columns(0) = %d", got)
	}
	if got := columns(20); got != 1 {
		t.Errorf("columns(20) = %d", got)
	}
	if got := columns(100); got != 3 {
		t.Errorf("columns(100) = %d", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Firulais", 20); got != "Firulais" {
		t.Errorf("got %q", got)
	}
	if got := truncate("Firulais", 5); got != "Firu…" {
		t.Errorf("got %q", got)
	}
	if got := truncate("Firulais", 0); got != "" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateHeadKeepsURLTail(t *testing.T) {
	url := "https://img.example/mimi.png"
	if got := truncateHead(url, 40); got != url {
		t.Errorf("got %q", got)
	}
	if got := truncateHead(url, 10); got != "…/mimi.png" {
		t.Errorf("got %q", got)
	}
	if got := truncateHead(url, 1); got != "…" {
		t.Errorf("got %q", got)
	}
}

func TestRenderCardShowsPictureFileName(t *testing.T) {
	st := newStyles(prefs.Light)
	p := petstore.Pet{ID: "B", Name: "Mimi", Breed: "Siamese", PictureURL: "https://cdn.example.org/pets/2024/photos/mimi.png"}

	card := renderCard(st, p, cardState{})
	if !strings.Contains(card, "mimi.png") {
		t.Errorf("card lost the picture file name:\n%s", card)
	}
	if strings.Contains(card, "https://cdn") {
		t.Errorf("long URL should be cut at the head:\n%s", card)
	}
}
