package polytype

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
)

// Config holds global configuration for the polymorphic component subsystem,
// mirroring warehouse's package-level Config (config.go) which threads a single
// table.TableEvents value through every archetype. polytype has no table to hook
// into, so it carries the slab-allocator tunables spec.md §4.1 calls out as
// implementation constants plus the structured-logging sink (logging.go).
var Config config = config{
	SlabPageCapacity: defaultPageCapacity,
	MinListCapacity:  defaultMinListCapacity,
}

type config struct {
	// SlabPageCapacity is the number of slots per slab page (spec.md §4.1, "original
	// choice: 1024").
	SlabPageCapacity int32

	// MinListCapacity is the minimum capacity a reference list is allocated with on
	// its first growth (spec.md §3, "Minimum capacity on first allocation is 4").
	MinListCapacity int

	// Logger receives structured debug events for cell transitions, slab page growth,
	// and hierarchy cascades. Defaults to nil (treated as a no-op sink); see logging.go.
	Logger *zap.Logger
}

// SetLogger installs the structured event sink used for debug-level tracing.
func (c *config) SetLogger(l *zap.Logger) {
	c.Logger = l
}

// fileConfig is the on-disk shape loaded by LoadConfigFile.
type fileConfig struct {
	SlabPageCapacity int32 `toml:"slab_page_capacity"`
	MinListCapacity  int   `toml:"min_list_capacity"`
}

// LoadConfigFile loads slab-allocator tunables from a TOML file, letting a host
// process tune page size and initial list capacity without recompiling. This is an
// ambient configuration concern, not a spec feature: it does not persist any
// component state (spec.md §6.3 "None. The core is pure in-memory").
func LoadConfigFile(path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("polytype: failed to load config file %q: %w", path, err)
	}
	if fc.SlabPageCapacity > 0 {
		Config.SlabPageCapacity = fc.SlabPageCapacity
	}
	if fc.MinListCapacity > 0 {
		Config.MinListCapacity = fc.MinListCapacity
	}
	return nil
}
