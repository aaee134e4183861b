package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"kinetic/internal/artifactcache"
	"kinetic/internal/config"
	"kinetic/internal/fileutil"
	"kinetic/internal/logging"
	"kinetic/internal/metrics"
	"kinetic/internal/services"
	"kinetic/internal/services/aubio"
	"kinetic/internal/services/ffmpeg"
	"kinetic/internal/services/manim"
	"kinetic/internal/services/whisper"
	"kinetic/internal/stage"
)

// Request identifies the job to run and its inputs.
type Request struct {
	JobID     int64
	Token     string
	AudioPath string
	VideoPath string
}

// Result describes a successful run.
type Result struct {
	OutputPath       string
	OverlayPath      string
	Fingerprint      string
	TranscriptCached bool
	BeatsCached      bool
}

// Executor runs the fixed stage sequence for one job at a time.
type Executor struct {
	workDir        string
	outputDir      string
	keepWorkspaces bool
	cache          *artifactcache.Store
	engines        Engines
	logger         *slog.Logger
	now            func() time.Time
}

// NewExecutor constructs an executor.
func NewExecutor(cfg *config.Config, cache *artifactcache.Store, engines Engines, logger *slog.Logger) *Executor {
	return &Executor{
		workDir:        cfg.Paths.WorkDir,
		outputDir:      cfg.Paths.OutputDir,
		keepWorkspaces: cfg.Pipeline.KeepWorkspaces,
		cache:          cache,
		engines:        engines,
		logger:         logging.NewComponentLogger(logger, "pipeline"),
		now:            time.Now,
	}
}

// Engines returns the adapters the executor drives.
func (e *Executor) Engines() Engines {
	return e.engines
}

// Run executes every stage in order. The first failure aborts the run and is
// returned wrapped with its stage and operation.
func (e *Executor) Run(ctx context.Context, req Request, reporter Reporter) (Result, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}
	ctx = services.WithJobID(ctx, req.JobID)
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()
	uid := e.now().Format("20060102_150405") + "_" + req.Token

	var result Result

	reporter.ReportProgress(ctx, req.JobID, ProgressFingerprint, MessageFingerprint)
	err := e.timed(ctx, stage.Fingerprint, func(context.Context) error {
		fp, err := fileutil.HashFile(req.AudioPath)
		if err != nil {
			return services.Wrap(services.ErrValidation, stage.Fingerprint, "hash audio", "audio file unreadable", err)
		}
		result.Fingerprint = fp
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	logger.Info("audio fingerprinted",
		logging.String(logging.FieldEventType, "audio_fingerprinted"),
		logging.String("fingerprint", result.Fingerprint))

	ws, err := newWorkspace(e.workDir, req.JobID, req.Token)
	if err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, stage.Fingerprint, "create workspace", e.workDir, err)
	}
	defer e.cleanup(logger, ws)

	var transcript, beats []byte
	err = e.timed(ctx, stage.Transcript, func(ctx context.Context) error {
		data, cached, err := e.cached(ctx, reporter, req.JobID, artifactcache.ClassTranscript, result.Fingerprint,
			ProgressTranscript, MessageCachedTranscript, MessageTranscribing,
			func(ctx context.Context) ([]byte, error) {
				t, err := e.engines.Transcriber.Transcribe(ctx, req.AudioPath, ws.dir("transcript"))
				if err != nil {
					return nil, err
				}
				return whisper.Encode(t.Segments)
			})
		transcript, result.TranscriptCached = data, cached
		return err
	})
	if err != nil {
		return Result{}, err
	}

	err = e.timed(ctx, stage.Beats, func(ctx context.Context) error {
		data, cached, err := e.cached(ctx, reporter, req.JobID, artifactcache.ClassBeats, result.Fingerprint,
			ProgressBeats, MessageCachedBeats, MessageDetectingBeats,
			func(ctx context.Context) ([]byte, error) {
				b, err := e.engines.BeatDetector.DetectBeats(ctx, req.AudioPath, ws.dir("beats"))
				if err != nil {
					return nil, err
				}
				return aubio.Encode(b.Times)
			})
		beats, result.BeatsCached = data, cached
		return err
	})
	if err != nil {
		return Result{}, err
	}

	reporter.ReportProgress(ctx, req.JobID, ProgressRender, MessageRendering)
	var overlay string
	err = e.timed(ctx, stage.Render, func(ctx context.Context) error {
		renderDir := ws.dir("render")
		segmentsPath := filepath.Join(renderDir, "segments.json")
		beatsPath := filepath.Join(renderDir, aubio.BeatsFile)
		if err := fileutil.WriteFileAtomic(segmentsPath, transcript, 0o644); err != nil {
			return services.Wrap(services.ErrConfiguration, stage.Render, "publish segments", segmentsPath, err)
		}
		if err := fileutil.WriteFileAtomic(beatsPath, beats, 0o644); err != nil {
			return services.Wrap(services.ErrConfiguration, stage.Render, "publish beats", beatsPath, err)
		}
		rendered, err := e.engines.Renderer.Render(ctx, manim.RenderRequest{
			WorkDir:      renderDir,
			SegmentsPath: segmentsPath,
			BeatsPath:    beatsPath,
		})
		if err != nil {
			return err
		}
		if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
			return services.Wrap(services.ErrConfiguration, stage.Render, "ensure output dir", e.outputDir, err)
		}
		overlay = filepath.Join(e.outputDir, "manim_"+uid+filepath.Ext(rendered))
		if err := fileutil.CopyFileVerified(rendered, overlay); err != nil {
			return services.Wrap(services.ErrExternalTool, stage.Render, "copy overlay", overlay, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	result.OverlayPath = overlay

	reporter.ReportProgress(ctx, req.JobID, ProgressComposite, MessageCompositing)
	err = e.timed(ctx, stage.Composite, func(ctx context.Context) error {
		output, err := e.engines.Compositor.Composite(ctx, ffmpeg.CompositeRequest{
			BaseVideo: req.VideoPath,
			Overlay:   overlay,
			Audio:     req.AudioPath,
			Output:    filepath.Join(e.outputDir, "final_"+uid+".mp4"),
			WorkDir:   ws.dir("composite"),
		})
		result.OutputPath = output
		return err
	})
	if err != nil {
		return Result{}, err
	}

	reporter.ReportProgress(ctx, req.JobID, ProgressDone, MessageDone)
	logger.Info("pipeline completed",
		logging.String(logging.FieldEventType, "pipeline_complete"),
		logging.String("output_path", result.OutputPath),
		logging.Bool("transcript_cached", result.TranscriptCached),
		logging.Bool("beats_cached", result.BeatsCached),
		logging.Duration("duration", time.Since(started)))
	return result, nil
}

// cached serves class artifacts from the cache, computing them on a miss.
func (e *Executor) cached(
	ctx context.Context,
	reporter Reporter,
	jobID int64,
	class, fingerprint string,
	percent int,
	hitMessage, missMessage string,
	compute artifactcache.ComputeFunc,
) ([]byte, bool, error) {
	stageName, _ := services.StageFromContext(ctx)
	data, cached, err := e.cache.GetOrCompute(ctx, class, fingerprint, func(ctx context.Context) ([]byte, error) {
		reporter.ReportProgress(ctx, jobID, percent, missMessage)
		return compute(ctx)
	})
	if err != nil {
		return nil, false, stageError(stageName, "compute "+class, err)
	}
	if cached {
		reporter.ReportProgress(ctx, jobID, percent, hitMessage)
	}
	return data, cached, nil
}

func (e *Executor) timed(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx = services.WithStage(ctx, name)
	start := time.Now()
	err := fn(ctx)
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.StageFailures.WithLabelValues(name).Inc()
		logging.WithContext(ctx, e.logger).Warn("stage failed",
			logging.String(logging.FieldEventType, "stage_failed"),
			logging.String(logging.FieldErrorHint, hintFor(err)),
			logging.Error(err))
		return stageError(name, "run", err)
	}
	return nil
}

func (e *Executor) cleanup(logger *slog.Logger, ws workspace) {
	if e.keepWorkspaces {
		logger.Debug("workspace retained", logging.String("workspace", ws.root))
		return
	}
	if err := ws.remove(); err != nil {
		logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup_failed",
			logging.String("workspace", ws.root),
			logging.String(logging.FieldErrorHint, "remove the directory manually"),
			logging.Error(err))
	}
}

// stageError leaves already-classified errors untouched and tags anything
// else as transient.
func stageError(stageName, operation string, err error) error {
	if err == nil {
		return nil
	}
	if services.Classified(err) {
		return err
	}
	return services.Wrap(services.ErrTransient, stageName, operation, "", err)
}

func hintFor(err error) string {
	switch services.Kind(err) {
	case services.ErrValidation:
		return "check the job's input files"
	case services.ErrExternalTool:
		return "inspect the engine stderr in the error detail"
	case services.ErrConfiguration:
		return "check kinetic config paths and engine settings"
	}
	if errors.Is(err, context.Canceled) {
		return "daemon shutting down"
	}
	return "retry the job"
}
