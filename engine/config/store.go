package config

import (
	"sync/atomic"

	"github.com/spaghettifunk/softraster/engine/core"
)

// Snapshot pairs a configuration with its validated form.
type Snapshot struct {
	Config   *Config
	Resolved *Resolved
}

/**
 * @brief Holds the active configuration. Readers never block; writers replace
 * the whole snapshot.
 */
type Store struct {
	current atomic.Pointer[Snapshot]
}

// NewStore validates c and makes it the active configuration.
func NewStore(c *Config) (*Store, error) {
	r, err := c.Validate()
	if err != nil {
		return nil, err
	}
	s := &Store{}
	s.current.Store(&Snapshot{Config: c, Resolved: r})
	return s, nil
}

func (s *Store) Current() *Snapshot {
	return s.current.Load()
}

// Apply validates c and swaps it in. On error the previous configuration
// stays active. A successful swap fires EVENT_CODE_CONFIG_CHANGED.
func (s *Store) Apply(c *Config) error {
	r, err := c.Validate()
	if err != nil {
		core.LogWarn("rejected configuration, keeping the previous one: %s", err)
		return err
	}
	snap := &Snapshot{Config: c, Resolved: r}
	s.current.Store(snap)
	core.SetLogLevel(r.LogLevel)

	core.EventFire(core.EVENT_CODE_CONFIG_CHANGED, s, core.EventContext{Payload: snap})
	return nil
}
