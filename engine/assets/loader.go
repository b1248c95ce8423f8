package assets

import "github.com/spaghettifunk/softraster/engine/renderer/metadata"

type Loader interface {
	// Load reads the file at path. name is the key the resource is cached under.
	Load(name, path string) (*metadata.Resource, error)
}
