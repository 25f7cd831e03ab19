package asset

import (
	"io"
	"runtime"
	"sync"

	"github.com/db47h/ofs"
	"github.com/pkg/errors"
)

type loader func(r io.Reader, name string) (interface{}, error)

var loaders = [typeLast]loader{
	TypeFont:    loadFont,
	TypeTexture: loadImage,
	TypeFile:    loadFile,
}

// A Manager manages asynchronous (pre)loading and caching of textures, fonts
// and raw files. It is safe for concurrent use.
type Manager struct {
	fs      ofs.FileSystem
	cfg     *config
	m       sync.Mutex
	cond    *sync.Cond
	assets  map[Asset]interface{}
	pending map[Asset]struct{}
}

// NewManager returns a new asset Manager.
func NewManager(fs ofs.FileSystem, options ...Option) *Manager {
	cfg := new(config)
	for _, o := range options {
		o.set(cfg)
	}

	m := &Manager{
		fs:      fs,
		cfg:     cfg,
		assets:  make(map[Asset]interface{}),
		pending: make(map[Asset]struct{}),
	}
	m.cond = sync.NewCond(&m.m)
	return m
}

type loadState int

const (
	stateMissing loadState = iota
	statePending
	stateLoaded
)

func (m *Manager) lookup(a Asset) (data interface{}, state loadState) {
	if data, ok := m.assets[a]; ok {
		return data, stateLoaded
	}
	if _, ok := m.pending[a]; ok {
		return nil, statePending
	}
	return nil, stateMissing
}

// load loads an asset from the file system.
func (m *Manager) load(a Asset) (interface{}, error) {
	name := m.cfg.assetPath(a)
	f, err := m.fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return loaders[a.Type](f, name)
}

// get returns an asset from cache or synchronously loads it if not in the
// cache. If this asset is being loaded from another goroutine, get will wait
// for the asset to be loaded and return the cached version.
//
// m.m must be held by the caller.
func (m *Manager) get(a Asset) (data interface{}, err error) {
	for {
		data, s := m.lookup(a)
		switch s {
		case stateMissing:
			m.pending[a] = struct{}{}
			m.m.Unlock()
			data, err := m.load(a)
			m.m.Lock()
			delete(m.pending, a)
			m.cond.Broadcast()
			if err != nil {
				return nil, errors.Wrapf(err, "load %s", a)
			}
			m.assets[a] = data
			return data, nil
		case stateLoaded:
			return data, nil
		}
		m.cond.Wait()
	}
}

// Discard removes the given asset from the cache and releases any resources
// attached to it.
func (m *Manager) Discard(a Asset) (err error) {
	defer func() {
		if err != nil {
			err = errors.Wrapf(err, "discard %s", a)
		}
	}()
	m.m.Lock()
	for {
		if data, ok := m.assets[a]; ok {
			delete(m.assets, a)
			m.m.Unlock()
			if cl, ok := data.(closer); ok {
				return cl.Close()
			}
			return nil
		}
		if _, ok := m.pending[a]; !ok {
			m.m.Unlock()
			return ErrMissingAsset
		}
		m.cond.Wait()
	}
}

// Close discards all assets. It must not be called while a Preload is in
// progress.
func (m *Manager) Close() error {
	m.m.Lock()
	defer m.m.Unlock()
	var errs errorList
	for k, data := range m.assets {
		delete(m.assets, k)
		if cl, ok := data.(closer); ok {
			if err := cl.Close(); err != nil {
				errs = append(errs, errors.Wrapf(err, "close %s", k))
			}
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}

// Preload bulk preloads assets. If the flush argument is true, cached assets
// not present in the asset list will be removed from the cache. It returns a
// channel to read preload results from as well as the number of items that will
// actually be preloaded. This item count is informational only and callers
// should rely on the rc channel being closed to ensure that the operation is
// complete.
//
// While preload starts immediately, it will stall after a few assets have been
// preloaded until the rc channel is read from (or Wait is called).
//
// Calling Preload concurrently may result in unexpected side effects, like
// flushing assets that should not be. An alternative is to build the assets
// slice concurrently and have a single goroutine call Preload and Wait.
func (m *Manager) Preload(assets []Asset, flush bool) (rc <-chan Result, n int) {
	m.m.Lock()
	if flush {
		keep := make(map[Asset]struct{}, len(assets))
		for _, a := range assets {
			keep[a] = struct{}{}
		}
		for k, data := range m.assets {
			if _, ok := keep[k]; !ok {
				delete(m.assets, k)
				if cl, ok := data.(closer); ok {
					cl.Close()
				}
			}
		}
	}

	// mark assets as pending and ignore loaded/pending/duplicate assets
	todo := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.Type < 0 || a.Type >= typeLast {
			m.m.Unlock()
			panic(errors.Errorf("invalid asset type %d", a.Type))
		}
		if _, state := m.lookup(a); state != stateMissing {
			continue
		}
		m.pending[a] = struct{}{}
		todo = append(todo, a)
	}
	m.m.Unlock()

	c := make(chan Result)
	go m.preload(todo, c)
	return c, len(todo)
}

func (m *Manager) preload(assets []Asset, rc chan Result) {
	// we use a buffered channel as a semaphore to spawn a limited number of
	// workers. This is to prevent excessive simultaneous disk access on
	// mechanical hard drives.
	//
	// goroutines will release the semaphore as soon as they have finished
	// loading the asset but will remain alive until they have sent their result
	// over rc.
	sem := make(chan struct{}, 2*runtime.NumCPU())
	wg := new(sync.WaitGroup)
	for i := range assets {
		sem <- struct{}{}
		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			data, err := m.load(a)
			m.m.Lock()
			if err != nil {
				err = errors.Wrapf(err, "preload %s", a)
			} else {
				m.assets[a] = data
			}
			delete(m.pending, a)
			m.cond.Broadcast()
			m.m.Unlock()
			<-sem
			rc <- Result{Asset: a, Err: err}
		}(assets[i])
	}
	wg.Wait()
	close(rc)
}

// Wait waits for completion of a previous Preload and returns any load errors.
func Wait(rc <-chan Result) error {
	var errs errorList
	for r := range rc {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if errs != nil {
		return errs
	}
	return nil
}
