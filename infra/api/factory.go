package api

import (
	"strings"

	coreapi "github.com/planvik/rosterd/core/api"
)

// New creates the store and generator implementations selected by cfg.Mode
// ("client" or "mock").
func New(cfg Config) (coreapi.Store, coreapi.Generator, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if strings.ToLower(cfg.Mode) == "mock" {
		m := NewMockStore()
		return m, m, nil
	}
	c := NewClient(cfg)
	return c, c, nil
}
