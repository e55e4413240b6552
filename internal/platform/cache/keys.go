package cache

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Key builds a deterministic cache key from entity name, operation name and
// the effective parameter set: "jobs:search:9a1f...". Parameters are
// serialized with encoding/json (stable field order for structs) and hashed,
// so logically identical requests always map to the same key. Hash collisions
// are an accepted theoretical risk.
func Key(entity, op string, params any) string {
	b, err := json.Marshal(params)
	if err != nil {
		// Unserializable parameters fall back to the raw Go value string;
		// still deterministic for comparable types.
		b = []byte(fmt.Sprintf("%v", params))
	}
	return fmt.Sprintf("%s:%s:%016x", entity, op, xxhash.Sum64(b))
}

// EntityPrefix is the invalidation prefix covering every operation cached
// under an entity namespace.
func EntityPrefix(entity string) string { return entity + ":" }

// OpPrefix narrows invalidation to a single operation namespace.
func OpPrefix(entity, op string) string { return entity + ":" + op + ":" }
