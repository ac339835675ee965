// Package remote habla con el backend REST original (/api/medicines, /api/users/profile).
// El wire format es camelCase y los días van en minúscula ("mon").
package remote

import (
	"context"
	"net/http"
	"strings"
	"time"

	"meditrack/internal/domain/apperr"
	"meditrack/internal/platform/httpclient"
)

const userHeader = "X-User-ID"

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration

	// Owners: usuarios que recorre el job de recordatorios (el backend no los lista).
	Owners []string
}

type client struct {
	http *httpclient.Client
}

func newClient(cfg Config) (*client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	hc, err := httpclient.NewWithBaseURL(cfg.BaseURL, timeout)
	if err != nil {
		return nil, err
	}
	hc.SetBearer(cfg.Token)
	return &client{http: hc}, nil
}

func (c *client) do(ctx context.Context, method, path, userID string, in, out any) error {
	headers := map[string]string{}
	if strings.TrimSpace(userID) != "" {
		headers[userHeader] = userID
	}
	return c.http.DoJSON(ctx, method, path, headers, in, out)
}

// notFound traduce 404 del backend al error de dominio.
func notFound(err error, kind, id string) error {
	if httpclient.IsStatus(err, http.StatusNotFound) {
		return apperr.NotFound(kind, id)
	}
	return err
}
