package pets

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, in Fields) (Pet, error) {
	f, err := normalizeFields(in)
	if err != nil {
		return Pet{}, err
	}

	now := s.now()
	p := Pet{
		ID:         s.newID(),
		Name:       f.Name,
		Breed:      f.Breed,
		Age:        f.Age,
		PictureURL: f.PictureURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Pet{}, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}

// Replace reemplaza todos los campos editables (PUT).
func (s *Service) Replace(ctx context.Context, id string, in Fields) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	f, err := normalizeFields(in)
	if err != nil {
		return Pet{}, err
	}

	current.Name = f.Name
	current.Breed = f.Breed
	current.Age = f.Age
	current.PictureURL = f.PictureURL
	current.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, current); err != nil {
		return Pet{}, err
	}
	return current, nil
}

// Apply actualiza sólo los campos presentes en el patch (PATCH).
func (s *Service) Apply(ctx context.Context, id string, in Patch) (Pet, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return Pet{}, err
	}

	f := Fields{
		Name:       current.Name,
		Breed:      current.Breed,
		Age:        current.Age,
		PictureURL: current.PictureURL,
	}
	if in.Name != nil {
		f.Name = *in.Name
	}
	if in.Breed != nil {
		f.Breed = *in.Breed
	}
	if in.ClearAge {
		f.Age = nil
	} else if in.Age != nil {
		f.Age = in.Age
	}
	if in.PictureURL != nil {
		f.PictureURL = *in.PictureURL
	}

	return s.Replace(ctx, current.ID, f)
}

// Delete borra la mascota; devuelve 0 si no existía (no es error).
func (s *Service) Delete(ctx context.Context, id string) (int64, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, nil
	}
	return s.repo.Delete(ctx, id)
}

func normalizeFields(in Fields) (Fields, error) {
	out := Fields{
		Name:       strings.TrimSpace(in.Name),
		Breed:      strings.TrimSpace(in.Breed),
		PictureURL: strings.TrimSpace(in.PictureURL),
	}

	if out.Name == "" {
		return Fields{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if out.Breed == "" {
		return Fields{}, fmt.Errorf("%w: breed is required", ErrInvalidInput)
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return Fields{}, fmt.Errorf("%w: age must be >= 0", ErrInvalidInput)
		}
		age := *in.Age
		out.Age = &age
	}
	if out.PictureURL != "" {
		u, err := url.ParseRequestURI(out.PictureURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return Fields{}, fmt.Errorf("%w: url must be an absolute http(s) url", ErrInvalidInput)
		}
	}
	return out, nil
}
