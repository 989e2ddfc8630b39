// Package index walks pack directories and records the files they contain.
//
// Two modes are supported. ListPack records membership only, leaving hashing
// to the classifier so files present in a single pack are never read.
// HashPack also digests every file, which is what the two-pack compare mode
// does up front.
package index

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/packmerge/pkg/errors"
	"github.com/arthur-debert/packmerge/pkg/hashing"
	"github.com/arthur-debert/packmerge/pkg/logging"
	"github.com/arthur-debert/packmerge/pkg/types"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Options controls how packs are indexed.
type Options struct {
	// Exclude holds doublestar patterns matched against slash-separated
	// relative paths. Matching files, and directories with everything below
	// them, are left out of the index.
	Exclude []string

	// Eager hashes every file while walking.
	Eager bool

	// Hasher is required when Eager is set.
	Hasher hashing.Hasher
}

// Validate checks the exclude patterns.
func (o Options) Validate() error {
	for _, pattern := range o.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return errors.Newf(errors.ErrInvalidInput, "invalid exclude pattern %q", pattern)
		}
	}
	if o.Eager && o.Hasher == nil {
		return errors.New(errors.ErrInternal, "eager indexing requires a hasher")
	}
	return nil
}

// PackIndex is the immutable result of indexing one pack.
type PackIndex struct {
	Pack types.Pack

	// Paths holds every indexed file, sorted.
	Paths []types.RelativePath

	// Digests is nil unless the pack was hashed while indexing.
	Digests map[types.RelativePath]types.Digest
}

// Len returns the number of files in the pack
func (ix *PackIndex) Len() int {
	return len(ix.Paths)
}

// Hashed reports whether digests were computed while indexing.
func (ix *PackIndex) Hashed() bool {
	return ix.Digests != nil
}

// Digest returns the digest recorded for p, if any.
func (ix *PackIndex) Digest(p types.RelativePath) (types.Digest, bool) {
	d, ok := ix.Digests[p]
	return d, ok
}

// ListPack enumerates the regular files of pack without hashing them.
func ListPack(ctx context.Context, fs afero.Fs, pack types.Pack, opts Options) (*PackIndex, error) {
	opts.Eager = false
	return indexPack(ctx, fs, pack, opts)
}

// HashPack enumerates the regular files of pack and digests each one.
func HashPack(ctx context.Context, fs afero.Fs, pack types.Pack, hasher hashing.Hasher, opts Options) (*PackIndex, error) {
	opts.Eager = true
	opts.Hasher = hasher
	return indexPack(ctx, fs, pack, opts)
}

// IndexPacks indexes every pack concurrently, one goroutine per pack.
// Results are returned in pack order. The first failure aborts the others and
// no partial results are returned.
func IndexPacks(ctx context.Context, fs afero.Fs, packs []types.Pack, opts Options) ([]*PackIndex, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	results := make([]*PackIndex, len(packs))
	g, gctx := errgroup.WithContext(ctx)
	for i, pack := range packs {
		g.Go(func() error {
			ix, err := indexPack(gctx, fs, pack, opts)
			if err != nil {
				return err
			}
			results[i] = ix
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func indexPack(ctx context.Context, fs afero.Fs, pack types.Pack, opts Options) (*PackIndex, error) {
	logger := logging.GetLogger("index").With().
		Int("pack", pack.Index).
		Str("root", pack.Root).
		Logger()
	done := logging.LogOperationStart(logger, "index pack")
	defer done()

	if err := opts.Validate(); err != nil {
		return nil, err
	}

	ix := &PackIndex{Pack: pack}
	if opts.Eager {
		ix.Digests = make(map[types.RelativePath]types.Digest)
	}

	root, err := walkRoot(fs, pack.Root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIndex, "failed to resolve pack root %s", pack.Root).
			WithDetail("pack", pack.Index)
	}
	if root != pack.Root {
		logger.Debug().Str("target", root).Msg("Pack root is a symlink, walking its target")
	}

	err = afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath := types.NewRelativePath(rel)

		if excluded(opts.Exclude, relPath) {
			logger.Trace().Str("path", relPath.String()).Msg("Excluded")
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			return nil
		}

		regular, err := isRegularFile(fs, path, info)
		if err != nil {
			return err
		}
		if !regular {
			logger.Debug().
				Str("path", relPath.String()).
				Str("mode", info.Mode().String()).
				Msg("Skipping non-regular file")
			return nil
		}

		ix.Paths = append(ix.Paths, relPath)

		if opts.Eager {
			d, err := opts.Hasher.HashFile(fs, path)
			if err != nil {
				return err
			}
			ix.Digests[relPath] = d
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIndex, "failed to index %s", pack.Root).
			WithDetail("pack", pack.Index)
	}

	sort.Slice(ix.Paths, func(i, j int) bool { return ix.Paths[i] < ix.Paths[j] })

	logger.Debug().Int("files", len(ix.Paths)).Bool("hashed", opts.Eager).Msg("Pack indexed")
	return ix, nil
}

// maxLinkHops bounds symlink chains when resolving a pack root
const maxLinkHops = 40

// walkRoot returns the directory to walk for a pack. afero.Walk does not
// follow a symlinked root, so the link chain is resolved here. Filesystems
// without symlink support return root unchanged.
func walkRoot(fs afero.Fs, root string) (string, error) {
	lstater, ok := fs.(afero.Lstater)
	if !ok {
		return root, nil
	}
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return root, nil
	}

	current := root
	for hops := 0; hops < maxLinkHops; hops++ {
		info, _, err := lstater.LstatIfPossible(current)
		if err != nil {
			return "", err
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return current, nil
		}

		target, err := reader.ReadlinkIfPossible(current)
		if err != nil {
			return "", err
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}
	return "", fmt.Errorf("too many levels of symbolic links: %s", root)
}

// isRegularFile reports whether the walked entry should be treated as a file.
// Symlinks count when they resolve to a regular file, whose content is copied.
func isRegularFile(fs afero.Fs, path string, info os.FileInfo) (bool, error) {
	if info.Mode().IsRegular() {
		return true, nil
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return false, nil
	}

	target, err := fs.Stat(path)
	if err != nil {
		return false, err
	}
	return target.Mode().IsRegular(), nil
}

func excluded(patterns []string, rel types.RelativePath) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, string(rel)); ok {
			return true
		}
	}
	return false
}
