package config

import "context"

// Loader is the interface for a format-specific project loader. It reads
// project configuration from the given paths and translates it into the
// format-agnostic model.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Project, error)
}
