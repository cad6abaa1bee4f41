package option

import (
	"github.com/calldera/callop/contracts/option/types"
	"github.com/calldera/callop/core/store"
	"github.com/calldera/callop/core/store/prefixed"
	"github.com/calldera/callop/serde"
	sjson "github.com/calldera/callop/serde/json"
	"golang.org/x/xerrors"
)

// configKey is the fixed key of the option record inside the contract
// namespace.
var configKey = []byte("config")

// Repository reads and writes the single option record of the contract
// inside its own namespace of the snapshot.
type Repository struct {
	snap store.Snapshot
	ctx  serde.Context
}

// NewRepository creates a repository scoped to the contract namespace of
// the given snapshot.
func NewRepository(snap store.Snapshot) Repository {
	return Repository{
		snap: prefixed.NewSnapshot(ContractUID, snap),
		ctx:  sjson.NewContext(),
	}
}

// Load returns the option record, or ErrNotFound if the option does not
// exist.
func (r Repository) Load() (types.State, error) {
	data, err := r.snap.Get(configKey)
	if err != nil {
		return types.State{}, xerrors.Errorf("failed to read record: %v", err)
	}

	if data == nil {
		return types.State{}, ErrNotFound
	}

	state, err := types.StateFactory{}.StateOf(r.ctx, data)
	if err != nil {
		return types.State{}, xerrors.Errorf("failed to decode record: %v", err)
	}

	return state, nil
}

// Save writes the option record.
func (r Repository) Save(state types.State) error {
	data, err := state.Serialize(r.ctx)
	if err != nil {
		return xerrors.Errorf("failed to encode record: %v", err)
	}

	err = r.snap.Set(configKey, data)
	if err != nil {
		return xerrors.Errorf("failed to write record: %v", err)
	}

	return nil
}

// Remove deletes the option record, settling the option.
func (r Repository) Remove() error {
	err := r.snap.Delete(configKey)
	if err != nil {
		return xerrors.Errorf("failed to delete record: %v", err)
	}

	return nil
}
