package executor

import (
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/bmake/internal/core/domain"
)

// fingerprint identifies what a target would run: its name, its commands as expanded
// now, the extra environment and the fingerprints of its dependencies.
func (s *runState) fingerprint(target domain.Target, depPrints []string) string {
	hasher := xxhash.New()

	_, _ = hasher.WriteString(target.Name.String())
	_, _ = hasher.Write([]byte{0})

	for _, raw := range target.Commands {
		_, _ = hasher.WriteString(s.e.expander.Expand(raw, s.script))
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, kv := range slices.Sorted(slices.Values(s.opts.Env)) {
		_, _ = hasher.WriteString(kv)
		_, _ = hasher.Write([]byte{0})
	}
	_, _ = hasher.Write([]byte{0})

	for _, dep := range depPrints {
		_, _ = hasher.WriteString(dep)
		_, _ = hasher.Write([]byte{0})
	}

	return fmt.Sprintf("%016x", hasher.Sum64())
}
