package app

import (
	"encoding/json"
	"io/ioutil"

	"github.com/iov-one/pairswap"
	"github.com/iov-one/pairswap/errors"
)

// Genesis file format, designed to be overlayed with tendermint genesis
type Genesis struct {
	ChainID  string           `json:"chain_id"`
	AppState pairswap.Options `json:"app_state"`
}

// LoadGenesis tries to load a given file into a Genesis struct
func LoadGenesis(filePath string) (*Genesis, error) {
	raw, err := ioutil.ReadFile(filePath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInvalidInput, err.Error())
	}
	var gen Genesis
	if err := json.Unmarshal(raw, &gen); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "genesis file %q: %s", filePath, err)
	}
	return &gen, nil
}

// ChainInitializers lets you initialize many extensions with one function
func ChainInitializers(inits ...pairswap.Initializer) pairswap.Initializer {
	return chainInitializer{inits}
}

type chainInitializer struct {
	inits []pairswap.Initializer
}

// FromGenesis will pass opts to all Initializers in the list,
// aborting at the first error.
func (c chainInitializer) FromGenesis(opts pairswap.Options, kv pairswap.KVStore) error {
	for _, i := range c.inits {
		if err := i.FromGenesis(opts, kv); err != nil {
			return errors.WithType(err, i)
		}
	}
	return nil
}
