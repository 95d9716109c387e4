package renderer

import (
	"context"
	"fmt"
	"image/color"
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// RowTask is one scanline to render
type RowTask struct {
	Y    int
	Seed int64 // Seed for this row's dither source
}

// RowResult carries a rendered scanline back to the collector
type RowResult struct {
	Y      int
	Pixels []color.RGBA
	Stats  RenderStats
	Error  error
}

// WorkerPool manages parallel scanline rendering. The scene and texture
// are shared read-only; each row gets its own dither source.
type WorkerPool struct {
	taskQueue   chan RowTask
	resultQueue chan RowResult
	workers     []*Worker
	numWorkers  int
	wg          sync.WaitGroup
}

// Worker renders rows taken from the task queue
type Worker struct {
	ID          int
	raytracer   *Raytracer
	taskQueue   chan RowTask
	resultQueue chan RowResult
}

// NewWorkerPool creates a worker pool with room for numRows tasks
func NewWorkerPool(rt *Raytracer, numRows, numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}

	wp := &WorkerPool{
		taskQueue:   make(chan RowTask, numRows),   // Buffer for every row
		resultQueue: make(chan RowResult, numRows), // Workers never block on results
		numWorkers:  numWorkers,
	}

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:          i,
			raytracer:   rt,
			taskQueue:   wp.taskQueue,
			resultQueue: wp.resultQueue,
		})
	}

	return wp
}

// Start begins all workers
func (wp *WorkerPool) Start(ctx context.Context) {
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		go worker.run(ctx, &wp.wg)
	}
}

// SubmitTask submits a row task to the worker pool
func (wp *WorkerPool) SubmitTask(task RowTask) {
	wp.taskQueue <- task
}

// Close stops accepting tasks; Results is closed once every worker exits
func (wp *WorkerPool) Close() {
	close(wp.taskQueue)
	go func() {
		wp.wg.Wait()
		close(wp.resultQueue)
	}()
}

// Results returns the channel of completed rows, in completion order
func (wp *WorkerPool) Results() <-chan RowResult {
	return wp.resultQueue
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// run is the main worker loop
func (w *Worker) run(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()

	for task := range w.taskQueue {
		if err := ctx.Err(); err != nil {
			w.resultQueue <- RowResult{Y: task.Y, Error: err}
			continue
		}

		pixels := make([]color.RGBA, w.raytracer.config.Width)
		random := rand.New(rand.NewSource(task.Seed))
		stats := w.raytracer.RenderRow(task.Y, random, pixels)

		w.resultQueue <- RowResult{
			Y:      task.Y,
			Pixels: pixels,
			Stats:  stats,
		}
	}
}

// RenderParallel renders scanlines on a worker pool. Row y is dithered
// from Seed+y, so the image does not depend on scheduling. Rows reach
// the sink in completion order, each written once by the calling
// goroutine. Cancelling ctx stops workers between rows.
func (rt *Raytracer) RenderParallel(ctx context.Context, sink Sink) (RenderStats, error) {
	startTime := time.Now()
	stats := RenderStats{SamplesPerPixel: rt.camera.Samples()}

	// cancelled on the first failure so workers skip the remaining rows
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	pool := NewWorkerPool(rt, rt.config.Height, rt.config.Workers)
	pool.Start(ctx)
	for y := 0; y < rt.config.Height; y++ {
		pool.SubmitTask(RowTask{Y: y, Seed: rt.config.Seed + int64(y)})
	}
	pool.Close()

	rt.logger.Printf("Rendering %d rows on %d workers...\n", rt.config.Height, pool.GetNumWorkers())

	var firstErr error
	for result := range pool.Results() {
		if firstErr != nil {
			continue // drain so workers can exit
		}
		if result.Error != nil {
			firstErr = result.Error
			cancel()
			continue
		}
		if err := rt.writeRow(sink, result.Y, result.Pixels, result.Stats, &stats); err != nil {
			firstErr = err
			cancel()
		}
	}

	stats.Elapsed = time.Since(startTime)
	if firstErr != nil {
		return stats, firstErr
	}
	if stats.RowsCompleted != rt.config.Height {
		return stats, fmt.Errorf("rendered %d of %d rows", stats.RowsCompleted, rt.config.Height)
	}

	rt.logger.Printf("Rendered %dx%d at %d samples per pixel in %v\n",
		rt.config.Width, rt.config.Height, stats.SamplesPerPixel, stats.Elapsed)
	return stats, nil
}
