package memcache_fx

import (
	"go.uber.org/fx"
	mem "rolevend/pkg/memcache"
)

var Module = fx.Provide(provideKeyLocks)

func provideKeyLocks() *mem.KeyLocks {
	return mem.NewKeyLocks()
}
