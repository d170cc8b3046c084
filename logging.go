package polytype

import "go.uber.org/zap"

// logger returns the configured sink, defaulting to a no-op logger so a host that
// never calls SetLogger pays nothing beyond a single Enabled() check per event site.
func logger() *zap.Logger {
	if Config.Logger == nil {
		return zap.NewNop()
	}
	return Config.Logger
}

func logCellTransition(id ComponentID, e Entity, from, to cellState) {
	l := logger()
	if !l.Core().Enabled(zap.DebugLevel) {
		return
	}
	l.Debug("cell state transition",
		zap.Uint32("component", uint32(id)),
		zap.Uint64("entity", uint64(e)),
		zap.String("from", from.String()),
		zap.String("to", to.String()),
	)
}

func logPageGrowth(elemSize int32, pageIndex int) {
	l := logger()
	if !l.Core().Enabled(zap.DebugLevel) {
		return
	}
	l.Debug("slab page allocated",
		zap.Int32("elem_size", elemSize),
		zap.Int("page_index", pageIndex),
	)
}

func logHierarchyCascade(kind string, id ComponentID, e Entity, parents int) {
	l := logger()
	if !l.Core().Enabled(zap.DebugLevel) {
		return
	}
	l.Debug("hierarchy cascade",
		zap.String("kind", kind),
		zap.Uint32("component", uint32(id)),
		zap.Uint64("entity", uint64(e)),
		zap.Int("parents", parents),
	)
}
