package example

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/dto"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
	"github.com/gofiber/fiber/v2"
)

// Plugin serves example.hi, a round-trip check for the value transformer.
type Plugin struct {
	now func() time.Time
}

func New() *Plugin {
	return &Plugin{now: time.Now}
}

func (p *Plugin) ID() string { return "example" }

func (p *Plugin) Models() []interface{} { return nil }

func (p *Plugin) RegisterProcedures(r *trpc.Router, _ *config.Config) {
	trpc.Mutation(r, "example.hi", p.hi)
}

func (p *Plugin) hi(_ *fiber.Ctx, in dto.HiInput) (dto.HiOutput, error) {
	return dto.HiOutput{Hello: in.Name, Date: p.now().UTC()}, nil
}
