package apps

import (
	"github.com/ahmetcoskunkizilkaya/journey/internal/config"
	"github.com/ahmetcoskunkizilkaya/journey/internal/trpc"
)

// Plugin defines the interface every procedure namespace must implement.
type Plugin interface {
	// ID returns the namespace prefix of the plugin's procedures.
	ID() string

	// Models returns the list of GORM model pointers for AutoMigrate.
	// Only migrated when a database driver is configured.
	Models() []interface{}

	// RegisterProcedures adds the plugin's queries and mutations to the router.
	RegisterProcedures(r *trpc.Router, cfg *config.Config)
}
