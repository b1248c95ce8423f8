package core

import (
	"fmt"
	"sync"
)

var (
	ownersMu sync.Mutex
	owners   []interface{}
)

// IdentifierAquireNewID hands out the lowest free id and associates it with owner.
func IdentifierAquireNewID(owner interface{}) uint32 {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	if len(owners) == 0 {
		owners = make([]interface{}, 100)
	}
	for i := range owners {
		// Existing free spot. Take it.
		if owners[i] == nil {
			owners[i] = owner
			return uint32(i)
		}
	}

	// If here, no existing free slots. Need a new id, so push one.
	owners = append(owners, owner)
	return uint32(len(owners) - 1)
}

// IdentifierReleaseID frees id so it may be handed out again.
func IdentifierReleaseID(id uint32) error {
	ownersMu.Lock()
	defer ownersMu.Unlock()

	if len(owners) == 0 {
		return fmt.Errorf("identifier_release_id called before initialization. identifier_aquire_new_id should have been called first. Nothing was done")
	}
	if int(id) >= len(owners) {
		return fmt.Errorf("identifier_release_id: id '%d' out of range (max=%d). Nothing was done", id, len(owners))
	}

	// Just zero out the entry, making it available for use.
	owners[id] = nil
	return nil
}
