// Package ingest loads a batch of containers: it reads inputs, merges split
// pieces, parses and decodes containers in parallel and then builds the
// cross-file graph once every container is in.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/schema"
	"unity-asset-reader/internal/serialized"
	"unity-asset-reader/internal/unityver"
)

// Reason codes carried by Failure.
const (
	ReasonRead     = "read"
	ReasonFormat   = "format"
	ReasonCanceled = "canceled"
	ReasonEmpty    = "empty"
)

// ErrNoInput aborts a batch in which no container could be loaded.
var ErrNoInput = errors.New("ingest: no readable input")

// Source is one in-memory input. Name is its identity in the batch.
type Source struct {
	Name string
	Data []byte
}

// Options tune a load.
type Options struct {
	Workers int
	// VersionHint is used for containers that carry no engine version.
	VersionHint unityver.Version
	// Registry overrides the built-in class layouts.
	Registry *schema.Registry
	// Progress prints a rate line every two seconds while loading.
	Progress bool
}

// Failure is an input that did not become a container.
type Failure struct {
	Name   string
	Reason string
	Err    error
}

func (f Failure) Error() string {
	return fmt.Sprintf("ingest: %s: %s: %v", f.Name, f.Reason, f.Err)
}

func (f Failure) Unwrap() error { return f.Err }

// Result is the outcome of a load. Batch holds every container that loaded
// completely; inputs that did not are listed in Failures.
type Result struct {
	Batch    *graph.Batch
	Loaded   []string
	Skipped  []string
	Failures []Failure
}

type input struct {
	name string
	data []byte
}

type loaded struct {
	unit    *graph.Unit
	failure *Failure
}

// Buffers loads in-memory sources. Resource files (.resS, .resource) are
// kept as raw blobs for stream lookups; "<name>.splitN" pieces are joined
// into one container called <name>. Cancellation is checked between
// containers: finished containers stay in the batch and the context error
// is returned alongside the result.
func Buffers(ctx context.Context, srcs []Source, opts Options) (*Result, error) {
	res := &Result{}
	resources := make(map[string][]byte)
	pieces := make(map[string][]serialized.Piece)
	var inputs []input
	names := make(map[string]bool)

	for _, s := range srcs {
		switch {
		case len(s.Data) == 0:
			res.Failures = append(res.Failures, Failure{Name: s.Name, Reason: ReasonEmpty, Err: errors.New("no bytes")})
		case serialized.IsResource(s.Name):
			resources[s.Name] = s.Data
		default:
			if base, idx, ok := serialized.SplitName(s.Name); ok {
				pieces[base] = append(pieces[base], serialized.Piece{Index: idx, Data: s.Data})
				continue
			}
			if names[s.Name] {
				res.Skipped = append(res.Skipped, s.Name)
				continue
			}
			names[s.Name] = true
			inputs = append(inputs, input{s.Name, s.Data})
		}
	}

	bases := make([]string, 0, len(pieces))
	for base := range pieces {
		bases = append(bases, base)
	}
	sort.Strings(bases)
	for _, base := range bases {
		if names[base] {
			// The whole file is present; its pieces are redundant.
			res.Skipped = append(res.Skipped, base+".split*")
			continue
		}
		names[base] = true
		inputs = append(inputs, input{base, serialized.Join(pieces[base])})
	}

	out := load(ctx, inputs, opts)

	var units []*graph.Unit
	for i, l := range out {
		if l.failure != nil {
			res.Failures = append(res.Failures, *l.failure)
			continue
		}
		units = append(units, l.unit)
		res.Loaded = append(res.Loaded, inputs[i].name)
	}
	if len(units) == 0 {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		return res, ErrNoInput
	}

	b, err := graph.Build(units, resources)
	if err != nil {
		return res, err
	}
	res.Batch = b
	return res, ctx.Err()
}

// load parses and decodes inputs on a worker pool. Slots keep input order.
func load(ctx context.Context, inputs []input, opts Options) []loaded {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	// Spare workers go to decoding objects inside each container.
	inner := max(1, workers/max(1, len(inputs)))

	dec := object.NewDecoder(opts.Registry)
	total := len(inputs)
	out := make([]loaded, total)
	var processed atomic.Int64

	start := time.Now()
	done := make(chan struct{})
	if opts.Progress {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Printf("  [%d/%d] %.1f containers/sec\n", p, total, rate)
					}
				}
			}
		}()
	}

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i] = loadOne(ctx, dec, inputs[i], opts.VersionHint, inner)
				processed.Add(1)
			}
		}()
	}

	for i := range inputs {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	close(done)
	return out
}

func loadOne(ctx context.Context, dec *object.Decoder, in input, hint unityver.Version, workers int) loaded {
	canceled := func(err error) loaded {
		return loaded{failure: &Failure{Name: in.name, Reason: ReasonCanceled, Err: err}}
	}
	if err := ctx.Err(); err != nil {
		return canceled(err)
	}

	c, err := serialized.Parse(in.name, in.data)
	if err != nil {
		return loaded{failure: &Failure{Name: in.name, Reason: ReasonFormat, Err: err}}
	}
	c.Path = in.name
	c.SetEngineHint(hint)

	objs, err := dec.DecodeAll(ctx, c, workers)
	if err != nil {
		return canceled(err)
	}
	return loaded{unit: &graph.Unit{Container: c, Objects: objs}}
}
