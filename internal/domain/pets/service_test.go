package pets

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	byID  map[string]Pet
	order []string
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Pet{}}
}

func (r *testRepo) Create(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	r.order = append(r.order, p.ID)
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Pet) error {
	if _, ok := r.byID[p.ID]; !ok {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := r.byID[id]; !ok {
		return 0, nil
	}
	delete(r.byID, id)
	return 1, nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Pet, error) {
	p, ok := r.byID[id]
	if !ok {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Pet, error) {
	out := make([]Pet, 0, len(r.order))
	for _, id := range r.order {
		if p, ok := r.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	n := 0
	svc.newID = func() string {
		n++
		return "pet-" + string(rune('0'+n))
	}
	return svc, repo
}

func intPtr(v int) *int { return &v }

// -------------------------
// Tests
// -------------------------

func TestService_Create_TrimsAndAssignsID(t *testing.T) {
	svc, _ := newTestService()

	p, err := svc.Create(context.Background(), Fields{
		Name:       "  Rex ",
		Breed:      " labrador ",
		Age:        intPtr(3),
		PictureURL: " https://example.com/rex.jpg ",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if p.ID != "pet-1" {
		t.Fatalf("expected id pet-1, got %q", p.ID)
	}
	if p.Name != "Rex" || p.Breed != "labrador" {
		t.Fatalf("expected trimmed fields, got %#v", p)
	}
	if p.Age == nil || *p.Age != 3 {
		t.Fatalf("expected age 3, got %v", p.Age)
	}
	if p.PictureURL != "https://example.com/rex.jpg" {
		t.Fatalf("unexpected url %q", p.PictureURL)
	}
}

func TestService_Create_Validation(t *testing.T) {
	svc, _ := newTestService()

	cases := []Fields{
		{Name: "", Breed: "x"},
		{Name: "x", Breed: " "},
		{Name: "x", Breed: "y", Age: intPtr(-1)},
		{Name: "x", Breed: "y", PictureURL: "not-a-url"},
		{Name: "x", Breed: "y", PictureURL: "ftp://example.com/a.png"},
	}
	for _, in := range cases {
		if _, err := svc.Create(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %#v, got %v", in, err)
		}
	}
}

func TestService_Apply_OnlyPresentFields(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, err := svc.Create(ctx, Fields{Name: "Mimi", Breed: "siamese", Age: intPtr(2)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Mimi II"
	updated, err := svc.Apply(ctx, p.ID, Patch{Name: &name})
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if updated.Name != "Mimi II" || updated.Breed != "siamese" || updated.Age == nil || *updated.Age != 2 {
		t.Fatalf("unexpected patch result %#v", updated)
	}

	cleared, err := svc.Apply(ctx, p.ID, Patch{ClearAge: true})
	if err != nil {
		t.Fatalf("Apply clear: %v", err)
	}
	if cleared.Age != nil {
		t.Fatalf("expected age cleared, got %v", *cleared.Age)
	}
}

func TestService_Replace_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Replace(context.Background(), "missing", Fields{Name: "a", Breed: "b"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestService_Delete_ReportsCount(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	p, _ := svc.Create(ctx, Fields{Name: "Fido", Breed: "beagle"})

	n, err := svc.Delete(ctx, p.ID)
	if err != nil || n != 1 {
		t.Fatalf("expected 1 deleted, got %d err=%v", n, err)
	}
	n, err = svc.Delete(ctx, p.ID)
	if err != nil || n != 0 {
		t.Fatalf("expected 0 deleted on second call, got %d err=%v", n, err)
	}
}
