// Package asset provides an asset manager that loads and caches fonts, images
// and raw files from an ofs.FileSystem, optionally preloading them in the
// background.
//
// GPU resources are never created by background loaders: textures are
// created from their decoded image on the first call to Manager.Texture, on
// the caller's goroutine.
package asset

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

// ErrMissingAsset is returned by Discard for assets that are neither loaded
// nor being loaded.
var ErrMissingAsset = errors.New("asset not found")

// Type designates the type of an asset.
type Type int

const (
	TypeFont Type = iota
	TypeTexture
	TypeFile
	typeLast
)

// Asset uniquely describes an asset.
type Asset struct {
	Type
	Name string
}

func (a Asset) String() string {
	switch a.Type {
	case TypeFont:
		return "font asset " + a.Name
	case TypeTexture:
		return "texture asset " + a.Name
	case TypeFile:
		return "file asset " + a.Name
	}
	return "unknown asset " + a.Name
}

func Font(name string) Asset    { return Asset{TypeFont, name} }
func Texture(name string) Asset { return Asset{TypeTexture, name} }
func File(name string) Asset    { return Asset{TypeFile, name} }

// Result wraps the result from preloading an asset.
type Result struct {
	Asset
	Err error
}

type config struct {
	texturePath string
	fontPath    string
	filePath    string
}

func (cfg *config) assetPath(a Asset) string {
	switch a.Type {
	case TypeFont:
		return path.Join(cfg.fontPath, a.Name)
	case TypeTexture:
		return path.Join(cfg.texturePath, a.Name)
	case TypeFile:
		return path.Join(cfg.filePath, a.Name)
	}
	return a.Name
}

// Option is implemented by option functions passed as arguments to NewManager.
type Option interface {
	set(*config)
}

type cfn func(*config)

func (f cfn) set(cfg *config) {
	f(cfg)
}

// FontPath returns an Option that sets the default font path.
func FontPath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.fontPath = name
	})
}

// TexturePath returns an Option that sets the default texture path.
func TexturePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.texturePath = name
	})
}

// FilePath returns an Option that sets the default path for raw files.
func FilePath(name string) Option {
	return cfn(func(cfg *config) {
		cfg.filePath = name
	})
}

type closer interface {
	Close() error
}

type errorList []error

func (e errorList) Error() string {
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}
