package placement

import (
	"math/rand"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/types"
)

// Picker selects replica sets for new blocks from the active node set.
// Selection is uniform random with no rack or affinity awareness; the first
// selected node is the block's primary, the rest are followers.
type Picker struct {
	rng *rand.Rand
}

// New returns a picker seeded from src. Tests pass a fixed seed.
func New(src rand.Source) *Picker {
	return &Picker{rng: rand.New(src)}
}

// Pick returns r distinct nodes drawn uniformly from active. Fails with
// ErrInsufficientReplicas when fewer than r nodes are active.
func (p *Picker) Pick(active []*types.StorageNodeInfo, r int) ([]*types.StorageNodeInfo, error) {
	if len(active) < r {
		return nil, errdefs.ErrInsufficientReplicas
	}

	idx := p.rng.Perm(len(active))[:r]
	chosen := make([]*types.StorageNodeInfo, r)
	for i, j := range idx {
		chosen[i] = active[j]
	}
	return chosen, nil
}
