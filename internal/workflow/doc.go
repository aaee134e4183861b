// Package workflow owns the job lifecycle between the producer side (HTTP
// requests creating projects and jobs) and the pipeline executor.
//
// The Manager validates and records new jobs, pushes their identifiers onto the
// queue, and runs a single worker goroutine that dequeues one identifier at a
// time, marks the job running, drives the executor with a progress reporter,
// and records the terminal outcome (done with a media record, or error with
// the failure detail). Jobs therefore execute strictly one after another in
// enqueue order.
//
// On Start the manager recovers from an unclean shutdown: jobs still marked
// running are failed, and queued jobs missing from the queue are re-enqueued.
package workflow
