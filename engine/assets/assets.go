package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/softraster/engine/assets/loaders"
	"github.com/spaghettifunk/softraster/engine/core"
	"github.com/spaghettifunk/softraster/engine/renderer/metadata"
)

type AssetInfo struct {
	Path       string
	Type       metadata.ResourceType
	LastLoaded time.Time
	// Resource is nil until the asset is first requested.
	Resource *metadata.Resource
}

/**
 * @brief Indexes the files under an asset root and caches decoded resources
 * by name. When watching, files that change on disk are reloaded and replace
 * the cached resource; callers holding the previous one keep a consistent copy.
 */
type AssetManager struct {
	root    string
	assets  map[string]*AssetInfo
	loaders map[metadata.ResourceType]Loader

	mutex sync.RWMutex

	done     chan struct{}
	stopped  chan struct{}
	fsnotify *fsnotify.Watcher
	isClosed bool
}

func NewAssetManager(root string, watch bool) (*AssetManager, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	am := &AssetManager{
		root:    abs,
		assets:  make(map[string]*AssetInfo),
		loaders: make(map[metadata.ResourceType]Loader),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	am.registerLoader(metadata.ResourceTypeTexture, &loaders.TextureLoader{})
	am.registerLoader(metadata.ResourceTypeBitmapFont, &loaders.BitmapFontLoader{})

	if _, err := os.Stat(abs); errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("asset root %s does not exist, starting with an empty index", abs)
		close(am.stopped)
		return am, nil
	}

	if watch {
		if am.fsnotify, err = fsnotify.NewWatcher(); err != nil {
			return nil, err
		}
		go am.start()
	} else {
		close(am.stopped)
	}
	if err := am.watchRecursive(abs); err != nil {
		am.Close()
		return nil, err
	}
	return am, nil
}

// Register loaders for each asset type
func (am *AssetManager) registerLoader(assetType metadata.ResourceType, loader Loader) {
	am.loaders[assetType] = loader
}

// LoadTexture returns the texture stored under name, relative to the asset root.
func (am *AssetManager) LoadTexture(name string) (*metadata.Texture, error) {
	res, err := am.LoadAsset(name, metadata.ResourceTypeTexture)
	if err != nil {
		return nil, err
	}
	return res.Data.(*metadata.Texture), nil
}

// LoadBitmapFont returns the bitmap font stored under name, relative to the asset root.
func (am *AssetManager) LoadBitmapFont(name string) (*bmfont.BitmapFont, error) {
	res, err := am.LoadAsset(name, metadata.ResourceTypeBitmapFont)
	if err != nil {
		return nil, err
	}
	return res.Data.(*bmfont.BitmapFont), nil
}

// LoadAsset returns the cached resource for name, decoding it on first use.
func (am *AssetManager) LoadAsset(name string, resourceType metadata.ResourceType) (*metadata.Resource, error) {
	name = filepath.ToSlash(filepath.Clean(name))
	if t := metadata.ResourceTypeFromPath(name); t != resourceType {
		return nil, fmt.Errorf("%w: %s is not a %s", core.ErrUnsupportedFormat, name, resourceType)
	}

	am.mutex.RLock()
	asset, exists := am.assets[name]
	var cached *metadata.Resource
	if exists {
		cached = asset.Resource
	}
	am.mutex.RUnlock()
	if cached != nil {
		return cached, nil
	}

	path := filepath.Join(am.root, filepath.FromSlash(name))
	if !exists {
		// Files created after the last walk are picked up lazily.
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s", core.ErrAssetNotFound, name)
		}
	}

	res, err := am.loaders[resourceType].Load(name, path)
	if err != nil {
		return nil, err
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	asset, exists = am.assets[name]
	if exists && asset.Resource != nil {
		// Lost a race with another loader, keep the first one.
		return asset.Resource, nil
	}
	am.adopt(nil, res)
	am.assets[name] = &AssetInfo{Path: path, Type: resourceType, LastLoaded: time.Now(), Resource: res}
	core.LogDebug("loaded %s '%s' (%d bytes)", resourceType, name, res.DataSize)
	return res, nil
}

// Assets lists the indexed asset names.
func (am *AssetManager) Assets() []string {
	am.mutex.RLock()
	defer am.mutex.RUnlock()
	names := make([]string, 0, len(am.assets))
	for n := range am.assets {
		names = append(names, n)
	}
	return names
}

// adopt gives a freshly decoded texture its identity. Reloads keep the id of
// the previous texture and bump its generation.
func (am *AssetManager) adopt(prev, res *metadata.Resource) {
	tex, ok := res.Data.(*metadata.Texture)
	if !ok {
		return
	}
	if prev != nil {
		if old, ok := prev.Data.(*metadata.Texture); ok {
			tex.ID = old.ID
			tex.Generation = old.Generation + 1
			return
		}
	}
	tex.ID = core.IdentifierAquireNewID(tex)
}

func (am *AssetManager) start() {
	defer close(am.stopped)
	for {
		select {
		case e, ok := <-am.fsnotify.Events:
			if !ok {
				return
			}
			s, err := os.Stat(e.Name)
			if err == nil && s.IsDir() {
				if e.Has(fsnotify.Create) {
					if err := am.watchRecursive(e.Name); err != nil {
						core.LogWarn("failed to watch %s: %s", e.Name, err)
					}
				}
				continue
			}
			// Handle create or modify events
			if e.Has(fsnotify.Create) || e.Has(fsnotify.Write) {
				am.handleFileEvent(e.Name)
			}
			if e.Has(fsnotify.Remove) || e.Has(fsnotify.Rename) {
				am.removeAsset(e.Name)
			}

		case err, ok := <-am.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("asset watcher error: %s", err)

		case <-am.done:
			return
		}
	}
}

// watchRecursive indexes every file under path and, when watching, adds
// every directory to the watch list.
func (am *AssetManager) watchRecursive(path string) error {
	return filepath.WalkDir(path, func(walkPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if am.fsnotify != nil {
				return am.fsnotify.Add(walkPath)
			}
			return nil
		}
		am.handleFileEvent(walkPath)
		return nil
	})
}

func (am *AssetManager) nameOf(path string) (string, bool) {
	rel, err := filepath.Rel(am.root, path)
	if err != nil {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Handle the creation or modification of a file. Resources already in use are
// decoded again.
func (am *AssetManager) handleFileEvent(path string) {
	assetType := metadata.ResourceTypeFromPath(path)
	if assetType == metadata.ResourceTypeNone {
		return
	}
	name, ok := am.nameOf(path)
	if !ok {
		return
	}

	am.mutex.RLock()
	asset, exists := am.assets[name]
	loaded := exists && asset.Resource != nil
	am.mutex.RUnlock()

	if !loaded {
		am.mutex.Lock()
		if _, exists := am.assets[name]; !exists {
			am.assets[name] = &AssetInfo{Path: path, Type: assetType}
		}
		am.mutex.Unlock()
		return
	}

	res, err := am.loaders[assetType].Load(name, path)
	if err != nil {
		// Writers often emit several events; a half written file fails here
		// and the next event picks up the complete one.
		core.LogDebug("failed to reload '%s': %s", name, err)
		return
	}

	am.mutex.Lock()
	defer am.mutex.Unlock()
	if asset, exists = am.assets[name]; !exists {
		return
	}
	am.adopt(asset.Resource, res)
	asset.Resource = res
	asset.LastLoaded = time.Now()
	core.LogInfo("reloaded %s '%s'", assetType, name)
}

// Remove the asset from the index if it was deleted
func (am *AssetManager) removeAsset(path string) {
	name, ok := am.nameOf(path)
	if !ok {
		return
	}
	am.mutex.Lock()
	defer am.mutex.Unlock()
	delete(am.assets, name)
}

// Close stops watching and drops the cache.
func (am *AssetManager) Close() error {
	am.mutex.Lock()
	if am.isClosed {
		am.mutex.Unlock()
		return nil
	}
	am.isClosed = true
	am.mutex.Unlock()

	var err error
	if am.fsnotify != nil {
		close(am.done)
		err = am.fsnotify.Close()
	}
	<-am.stopped

	am.mutex.Lock()
	defer am.mutex.Unlock()
	for _, a := range am.assets {
		if a.Resource == nil {
			continue
		}
		if tex, ok := a.Resource.Data.(*metadata.Texture); ok {
			core.IdentifierReleaseID(tex.ID)
		}
	}
	am.assets = make(map[string]*AssetInfo)
	return err
}
