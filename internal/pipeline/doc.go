// Package pipeline runs one job end to end: fingerprint the audio, obtain the
// transcript and beat list (from the artifact cache when possible), render the
// kinetic text overlay, and composite it onto the base video.
//
// Every run gets its own workspace under paths.work_dir, so engine outputs
// from different jobs never share a directory. Progress is reported through a
// Reporter supplied by the caller at fixed milestones.
package pipeline
