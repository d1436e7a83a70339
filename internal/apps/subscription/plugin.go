package subscription

import (
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/models"
	"github.com/ahmetcoskunkizilkaya/journey/internal/services"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
)

type Plugin struct {
	service *services.SubscriptionService
}

func New(service *services.SubscriptionService) *Plugin {
	return &Plugin{service: service}
}

func (p *Plugin) ID() string { return "subscription" }

func (p *Plugin) Models() []interface{} {
	return []interface{}{&models.Subscription{}}
}

func (p *Plugin) RegisterProcedures(r *trpc.Router, cfg *config.Config) {
	h := NewHandler(p.service, cfg.JWTSecret != "")

	trpc.Query(r, "subscription.get", h.Get)
	trpc.Mutation(r, "subscription.update", h.Update)
	trpc.Mutation(r, "subscription.cancel", h.Cancel)
}
