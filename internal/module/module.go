// Package module implements declarative module registration. A module
// bundles a domain service with its routes; the registry mounts the
// enabled modules in configuration order at startup. Modules never see
// the version prefix they are mounted under.
package module

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// Mountable is a resolved route set ready to attach to the API surface.
type Mountable interface {
	// Prefix is the path prefix the routes live under, e.g. "/users".
	Prefix() string
	// Register attaches the routes to a router already scoped to
	// Prefix.
	Register(router fiber.Router)
}

// Descriptor declares one independently toggleable module. Build
// resolves the route set at mount time; a failing or nil Build means
// the module is skipped, never that startup aborts.
type Descriptor struct {
	Name    string
	Enabled bool
	Build   func() (Mountable, error)
}

// Registry holds the ordered descriptor list. Order is significant:
// earlier modules win path-prefix precedence, and within a module
// fixed-string routes must be registered before dynamic ones.
type Registry struct {
	descriptors []Descriptor
}

func NewRegistry(descriptors ...Descriptor) *Registry {
	return &Registry{descriptors: descriptors}
}

// MountAll attaches every enabled, resolvable module under router and
// returns the mounted module names. Two enabled modules declaring the
// same prefix is a configuration error that aborts assembly: serving
// an ambiguous route table is worse than not starting.
func (r *Registry) MountAll(router fiber.Router) ([]string, error) {
	prefixes := make(map[string]string)
	mounted := make([]string, 0, len(r.descriptors))

	for _, d := range r.descriptors {
		if !d.Enabled {
			log.Printf("Module %s disabled, skipping", d.Name)
			continue
		}

		if d.Build == nil {
			log.Printf("Warning: module %s has no route set, skipping", d.Name)
			continue
		}
		m, err := d.Build()
		if err != nil {
			log.Printf("Warning: module %s failed to load, skipping: %v", d.Name, err)
			continue
		}
		if m == nil {
			log.Printf("Warning: module %s resolved to nothing, skipping", d.Name)
			continue
		}

		prefix := m.Prefix()
		if owner, taken := prefixes[prefix]; taken {
			return nil, fmt.Errorf("module %s collides with module %s on prefix %q", d.Name, owner, prefix)
		}
		prefixes[prefix] = d.Name

		m.Register(router.Group(prefix))
		mounted = append(mounted, d.Name)
		log.Printf("Module %s mounted at %s", d.Name, prefix)
	}

	return mounted, nil
}

// Func adapts a prefix and a registration function into a Mountable.
type Func struct {
	PathPrefix string
	Routes     func(fiber.Router)
}

func (f Func) Prefix() string {
	return f.PathPrefix
}

func (f Func) Register(router fiber.Router) {
	f.Routes(router)
}
