package resources

import (
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
)

type Plugin struct {
	service *Service
}

func New() *Plugin {
	return &Plugin{service: NewService(MockResources())}
}

func (p *Plugin) ID() string { return "resources" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterProcedures(r *trpc.Router, _ *config.Config) {
	h := NewHandler(p.service)

	trpc.Query(r, "resources.list", h.List)
	trpc.Query(r, "resources.byId", h.ByID)
}
