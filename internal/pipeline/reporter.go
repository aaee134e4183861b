package pipeline

import "context"

// Progress milestones, in execution order.
const (
	ProgressFingerprint = 5
	ProgressTranscript  = 15
	ProgressBeats       = 35
	ProgressRender      = 55
	ProgressComposite   = 80
	ProgressDone        = 100
)

// Progress messages published at each milestone.
const (
	MessageFingerprint      = "fingerprinting audio"
	MessageTranscribing     = "transcribing audio"
	MessageCachedTranscript = "using cached transcript"
	MessageDetectingBeats   = "detecting beats"
	MessageCachedBeats      = "using cached beats"
	MessageRendering        = "rendering overlay"
	MessageCompositing      = "compositing video"
	MessageDone             = "done"
)

// Reporter receives progress updates for a running job.
type Reporter interface {
	ReportProgress(ctx context.Context, jobID int64, percent int, message string)
}

type nopReporter struct{}

func (nopReporter) ReportProgress(context.Context, int64, int, string) {}
