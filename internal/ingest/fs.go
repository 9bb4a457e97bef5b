package ingest

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"

	"unity-asset-reader/internal/serialized"
)

// Paths reads files and directories from fs and loads them as one batch.
// Named files are always attempted; files found by walking a directory are
// kept only when they look like a container, a split piece or a resource
// file, the rest are listed in Result.Skipped.
func Paths(ctx context.Context, fs billy.Filesystem, paths []string, opts Options) (*Result, error) {
	var srcs []Source
	var failures []Failure
	var skipped []string

	readOne := func(name string) ([]byte, bool) {
		data, err := util.ReadFile(fs, name)
		if err != nil {
			failures = append(failures, Failure{Name: name, Reason: ReasonRead, Err: err})
			return nil, false
		}
		return data, true
	}

	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			break
		}
		fi, err := fs.Stat(p)
		if err != nil {
			failures = append(failures, Failure{Name: p, Reason: ReasonRead, Err: err})
			continue
		}
		if !fi.IsDir() {
			if data, ok := readOne(p); ok {
				srcs = append(srcs, Source{Name: filepath.ToSlash(p), Data: data})
			}
			continue
		}

		var found []string
		err = util.Walk(fs, p, func(name string, info os.FileInfo, err error) error {
			if err != nil {
				failures = append(failures, Failure{Name: name, Reason: ReasonRead, Err: err})
				return nil
			}
			if info.Mode().IsRegular() {
				found = append(found, name)
			}
			return nil
		})
		if err != nil {
			failures = append(failures, Failure{Name: p, Reason: ReasonRead, Err: err})
			continue
		}
		sort.Strings(found)
		for _, name := range found {
			data, ok := readOne(name)
			if !ok {
				continue
			}
			_, _, split := serialized.SplitName(name)
			if !split && !serialized.IsResource(name) && !serialized.Sniff(data) {
				skipped = append(skipped, filepath.ToSlash(name))
				continue
			}
			srcs = append(srcs, Source{Name: filepath.ToSlash(name), Data: data})
		}
	}

	res, err := Buffers(ctx, srcs, opts)
	res.Failures = append(failures, res.Failures...)
	res.Skipped = append(skipped, res.Skipped...)
	return res, err
}
