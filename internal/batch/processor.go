// Package batch renders WebP thumbnails for the textures and meshes of a
// loaded batch with a worker pool.
package batch

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"unity-asset-reader/internal/classid"
	"unity-asset-reader/internal/graph"
	"unity-asset-reader/internal/mesh"
	"unity-asset-reader/internal/object"
	"unity-asset-reader/internal/preview"
	"unity-asset-reader/internal/texture"
)

// Config holds all shared resources for a thumbnail run.
type Config struct {
	Batch       *graph.Batch
	Textures    *texture.Cache
	OutputDir   string
	ThumbSize   int
	Supersample int
	Workers     int
}

// Job is one object to render.
type Job struct {
	Key   graph.Key
	Class classid.ID
	Name  string
}

// Result holds the outcome of rendering one object.
type Result struct {
	Job
	Image   string // path relative to OutputDir
	Success bool
	Error   string
}

// Jobs lists every typed Texture2D and Mesh in arena order.
func Jobs(b *graph.Batch) []Job {
	var jobs []Job
	for _, o := range b.OfClass(classid.Texture2D, classid.Mesh) {
		jobs = append(jobs, Job{Key: b.Key(o), Class: o.ClassID, Name: o.Name()})
	}
	return jobs
}

// Run renders all jobs using a worker pool. Results are in job order.
func Run(cfg Config, jobs []Job) []Result {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	total := len(jobs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
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
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f thumbnails/sec\n", p, total, rate)
				}
			}
		}
	}()

	jobChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobChan {
				results[idx] = processJob(cfg, jobs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range jobs {
		jobChan <- i
	}
	close(jobChan)

	wg.Wait()
	close(done)

	return results
}

func processJob(cfg Config, job Job) Result {
	res := Result{Job: job}
	o, ok := cfg.Batch.Lookup(job.Key.Container, job.Key.PathID)
	if !ok {
		res.Error = fmt.Sprintf("no object %s", job.Key)
		return res
	}

	var (
		img *image.NRGBA
		err error
	)
	switch v := o.Variant.(type) {
	case *object.Texture2D:
		img, err = cfg.Textures.Load(job.Key)
	case *object.Mesh:
		img, err = renderMesh(cfg, o, v)
	default:
		err = fmt.Errorf("%s has no preview", o.ClassName())
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}

	res.Image = filepath.Join(safeName(job.Key.Container), fmt.Sprintf("%d.webp", job.Key.PathID))
	if err := preview.SaveThumbnail(filepath.Join(cfg.OutputDir, res.Image), img, cfg.ThumbSize); err != nil {
		res.Error = fmt.Sprintf("WebP encode: %v", err)
		return res
	}
	res.Success = true
	return res
}

func renderMesh(cfg Config, o *object.Object, m *object.Mesh) (*image.NRGBA, error) {
	var data []byte
	if len(m.VertexData) == 0 && !m.Stream.IsZero() {
		streamed, err := cfg.Batch.StreamData(m.Stream)
		if err != nil {
			return nil, err
		}
		data = streamed
	}
	g, err := mesh.Extract(m, o.Version, o.Container.Order, data)
	if err != nil {
		return nil, err
	}
	if len(g.Indices) == 0 {
		return nil, fmt.Errorf("mesh: %s: no triangles", m.Label)
	}
	return preview.RenderMesh(g, preview.MeshOptions{Size: cfg.ThumbSize, Supersample: cfg.Supersample}), nil
}

// safeName turns a container identity into a single path element.
func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, s)
}
