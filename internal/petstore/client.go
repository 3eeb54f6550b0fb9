// Package petstore es el cliente de la colección remota de mascotas.
//
// Cada operación se intenta una sola vez (sin retries). Cualquier error sale
// como *Failure con un mensaje listo para mostrar.
package petstore

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"pawgrammers/internal/platform/httpclient"
	"pawgrammers/internal/platform/logger"
)

// Client habla con /pets de la API.
type Client struct {
	http *httpclient.Client
	log  logger.Logger
}

type Options struct {
	BaseURL string
	Token   string // opcional; se manda como Bearer
	Timeout time.Duration
	Log     logger.Logger

	// Transport opcional (tests).
	Transport http.RoundTripper
}

func New(opts Options) (*Client, error) {
	hc := httpclient.NewWithTransport(opts.Timeout, opts.Transport)
	if err := hc.SetBaseURL(opts.BaseURL); err != nil {
		return nil, err
	}
	if opts.Token != "" {
		hc.Headers = map[string]string{"Authorization": "Bearer " + opts.Token}
	}

	log := opts.Log
	if log == nil {
		log = logger.NewNop()
	}

	return &Client{
		http: hc,
		log:  log.With(map[string]any{"component": "petstore"}),
	}, nil
}

// BaseURL devuelve la base configurada (para mostrar en la UI).
func (c *Client) BaseURL() string { return c.http.BaseURL }

// List trae todas las mascotas en el orden que las devuelve la API.
func (c *Client) List(ctx context.Context) ([]Pet, error) {
	var raw []wirePet
	if err := c.do(ctx, "List", http.MethodGet, "/pets", nil, &raw); err != nil {
		return nil, err
	}

	out := make([]Pet, 0, len(raw))
	for _, w := range raw {
		out = append(out, w.toPet())
	}
	return out, nil
}

func (c *Client) Get(ctx context.Context, id string) (Pet, error) {
	var raw wirePet
	if err := c.do(ctx, "Get", http.MethodGet, petPath(id), nil, &raw); err != nil {
		return Pet{}, err
	}
	return raw.toPet(), nil
}

// Create devuelve la mascota con el id asignado por el server.
func (c *Client) Create(ctx context.Context, f Fields) (Pet, error) {
	var raw wirePet
	if err := c.do(ctx, "Create", http.MethodPost, "/pets", toWire(f), &raw); err != nil {
		return Pet{}, err
	}
	return raw.toPet(), nil
}

// Update reemplaza los campos (PUT).
func (c *Client) Update(ctx context.Context, id string, f Fields) (Pet, error) {
	var raw wirePet
	if err := c.do(ctx, "Update", http.MethodPut, petPath(id), toWire(f), &raw); err != nil {
		return Pet{}, err
	}
	p := raw.toPet()
	if p.ID == "" {
		// Algunos servers responden sin body útil; el id ya lo conocemos.
		p.ID = id
	}
	return p, nil
}

// Delete devuelve el deletedCount tal como vino (nil si el server no lo mandó).
// Decidir si eso confirma el borrado queda del lado del llamador.
func (c *Client) Delete(ctx context.Context, id string) (DeleteResult, error) {
	var raw wireDelete
	if err := c.do(ctx, "Delete", http.MethodDelete, petPath(id), nil, &raw); err != nil {
		return DeleteResult{}, err
	}
	return DeleteResult{DeletedCount: raw.DeletedCount}, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	err := c.http.DoJSON(ctx, method, path, nil, in, out)
	if err == nil {
		return nil
	}

	f := classify(op, err)
	c.log.Warn("api error", map[string]any{
		"op":      op,
		"kind":    f.Kind.String(),
		"status":  f.Status,
		"message": f.Message,
		"err":     err,
	})
	return f
}

func petPath(id string) string {
	return "/pets/" + url.PathEscape(id)
}
