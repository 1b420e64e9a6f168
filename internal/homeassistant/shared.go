package homeassistant

import (
	"context"

	"shoplist/internal/models"
	"shoplist/internal/sharedfile"
)

// SharedCatalog is the shared custom-product catalog kept by Home Assistant:
// read from a web path and written through a shell_command service that
// receives the document in its "products" field.
type SharedCatalog struct {
	client  *Client
	path    string
	service string
}

var _ sharedfile.Source = (*SharedCatalog)(nil)

// NewSharedCatalog creates a shared catalog served at path and written by
// shell_command.<service>
func NewSharedCatalog(client *Client, path, service string) *SharedCatalog {
	return &SharedCatalog{client: client, path: path, service: service}
}

func (s *SharedCatalog) Read(ctx context.Context) (models.Catalog, error) {
	data, err := s.client.FetchFile(ctx, s.path)
	if err != nil {
		return nil, err
	}
	return sharedfile.Decode(data)
}

func (s *SharedCatalog) Write(ctx context.Context, c models.Catalog) error {
	data, err := sharedfile.Encode(c)
	if err != nil {
		return err
	}
	return s.client.CallService(ctx, "shell_command", s.service, map[string]any{
		"products": string(data),
	})
}
