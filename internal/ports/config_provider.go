package ports

import (
	"context"

	"github.com/policeoffice/policeoffice/internal/domain"
)

// ConfigProvider resolves the reporter configuration.
// Callers load it once and treat the result as immutable.
type ConfigProvider interface {
	Load(ctx context.Context) (domain.Config, error)
}

// StaticConfig is a ConfigProvider returning a fixed configuration.
type StaticConfig domain.Config

// Load returns the wrapped configuration.
func (c StaticConfig) Load(context.Context) (domain.Config, error) {
	return domain.Config(c), nil
}
