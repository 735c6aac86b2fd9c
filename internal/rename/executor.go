// Package rename executes a prepared batch of renames on a bounded worker
// pool and streams progress events back to the caller.
package rename

import (
	"os"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/backmassage/batchren/internal/scan"
)

// Summary is the terminal accounting of a batch. Files that vanished between
// preview and execution are skipped and appear in neither count.
type Summary struct {
	Renamed int
	Failed  int
}

// Event reports batch progress. Done is the cumulative number of records
// attempted so far. Summary is nil on progress ticks and set exactly once,
// on the final event before the channel closes.
type Event struct {
	Done    int
	Summary *Summary
}

// Executor renames files concurrently. Workers caps the pool size; zero or
// negative means one worker per available CPU. ErrorLog, when set, is called
// for each failed rename and must be safe for concurrent use.
type Executor struct {
	Workers  int
	ErrorLog func(path string, err error)
}

// Run starts renaming files and returns the event channel. The channel is
// buffered to hold every event of the batch, so the executor never blocks on
// a slow reader. Once started a batch cannot be cancelled; it always runs to
// completion and closes the channel after the final summary event.
func (e *Executor) Run(files []scan.Record) <-chan Event {
	events := make(chan Event, len(files)+1)
	workers := e.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(files) {
		workers = len(files)
	}

	go func() {
		var done, renamed, failed atomic.Int64
		jobs := make(chan scan.Record)
		var wg sync.WaitGroup
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for r := range jobs {
					ok, err := renameOne(r)
					switch {
					case err != nil:
						failed.Add(1)
						if e.ErrorLog != nil {
							e.ErrorLog(r.Path, err)
						}
					case ok:
						renamed.Add(1)
					}
					events <- Event{Done: int(done.Add(1))}
				}
			}()
		}
		for _, r := range files {
			jobs <- r
		}
		close(jobs)
		wg.Wait()
		events <- Event{
			Done:    int(done.Load()),
			Summary: &Summary{Renamed: int(renamed.Load()), Failed: int(failed.Load())},
		}
		close(events)
	}()
	return events
}

// renameOne attempts a single rename. A file that no longer exists is
// skipped without error: the batch was previewed against an older listing
// and the file is simply gone.
func renameOne(r scan.Record) (bool, error) {
	if _, err := os.Lstat(r.Path); err != nil {
		return false, nil
	}
	if err := os.Rename(r.Path, r.Target()); err != nil {
		return false, err
	}
	return true, nil
}
