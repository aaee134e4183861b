// Package queue holds the FIFO of job identifiers the worker loop drains.
//
// The queue only carries identifiers; job state lives in the record store.
// There is no priority and no duplicate suppression: enqueueing the same ID
// twice yields two dequeues. Two backends implement Queue: an in-process
// MemoryQueue (the default) and a RedisQueue backed by a Redis list, which
// keeps pending identifiers across daemon restarts.
package queue
