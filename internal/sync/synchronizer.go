package sync

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/index-settings-sync/internal/logger"
	"github.com/stacklok/index-settings-sync/internal/otel"
	"github.com/stacklok/index-settings-sync/internal/settings"
	"github.com/stacklok/index-settings-sync/internal/sources"
	"github.com/stacklok/index-settings-sync/internal/status"
	"github.com/stacklok/index-settings-sync/internal/telemetry"
)

// TracerName is the instrumentation name of synchronization spans
const TracerName = "github.com/stacklok/index-settings-sync/sync"

// Synchronizer moves settings between the local artifacts and the remote index
//
//go:generate mockgen -destination=mocks/mock_synchronizer.go -package=mocks -source=synchronizer.go Synchronizer
type Synchronizer interface {
	// Analyse classifies the drift of an index. It never mutates anything.
	Analyse(ctx context.Context, index string) (*settings.Status, error)

	// Download writes the remote settings to the local artifact and records
	// their fingerprint
	Download(ctx context.Context, index string) error

	// Upload replaces the remote settings with the local ones merged over
	// the remote defaults and records their fingerprint
	Upload(ctx context.Context, index string) error
}

type synchronizer struct {
	encrypter *settings.Encrypter
	compiler  *settings.Compiler
	local     sources.LocalSettingsRepository
	remote    sources.RemoteSettingsRepository
	userData  status.UserDataRepository

	tracer  trace.Tracer
	metrics *telemetry.SyncMetrics
	now     func() time.Time
}

// Option configures a Synchronizer
type Option func(*synchronizer)

// WithTracer traces every operation on tracer
func WithTracer(tracer trace.Tracer) Option {
	return func(s *synchronizer) {
		s.tracer = tracer
	}
}

// WithMetrics records every operation on metrics
func WithMetrics(metrics *telemetry.SyncMetrics) Option {
	return func(s *synchronizer) {
		s.metrics = metrics
	}
}

// WithClock overrides the clock stamping sync records
func WithClock(now func() time.Time) Option {
	return func(s *synchronizer) {
		s.now = now
	}
}

// NewSynchronizer creates a Synchronizer over the three repositories
func NewSynchronizer(
	local sources.LocalSettingsRepository,
	remote sources.RemoteSettingsRepository,
	userData status.UserDataRepository,
	opts ...Option,
) Synchronizer {
	s := &synchronizer{
		encrypter: settings.NewEncrypter(),
		compiler:  settings.NewCompiler(),
		local:     local,
		remote:    remote,
		userData:  userData,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *synchronizer) Analyse(ctx context.Context, index string) (st *settings.Status, err error) {
	ctx, done := s.observe(ctx, index, telemetry.OperationAnalyse)
	defer func() { done(err) }()

	remote, err := s.remote.Find(ctx, index)
	if err != nil {
		return nil, err
	}
	local, err := s.local.Find(ctx, index)
	if err != nil {
		return nil, err
	}
	record, err := s.userData.Find(ctx, index)
	if err != nil {
		return nil, err
	}

	st, err = settings.Classify(s.encrypter, settings.Input{
		Index:       index,
		Local:       local,
		Remote:      remote,
		Stored:      record.SettingsHash,
		LocalExists: s.local.Exists(index),
	})
	if err != nil {
		return nil, err
	}

	trace.SpanFromContext(ctx).SetAttributes(otel.AttrSyncState.String(string(st.State)))
	s.metrics.RecordDrift(ctx, index, string(st.State))
	logger.FromContext(ctx).V(1).Info("Analysed index settings",
		"state", st.State, "changedKeys", len(st.ChangedKeys))
	return st, nil
}

func (s *synchronizer) Download(ctx context.Context, index string) (err error) {
	ctx, done := s.observe(ctx, index, telemetry.OperationDownload)
	defer func() { done(err) }()

	remote, err := s.remote.Find(ctx, index)
	if err != nil {
		return err
	}
	path, err := s.local.Path(index)
	if err != nil {
		return err
	}
	if err := s.compiler.Compile(remote, path); err != nil {
		return err
	}

	hash, err := s.record(ctx, index, remote, status.DirectionDownload)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Downloaded index settings",
		"path", path, "hash", hash.Short())
	return nil
}

func (s *synchronizer) Upload(ctx context.Context, index string) (err error) {
	ctx, done := s.observe(ctx, index, telemetry.OperationUpload)
	defer func() { done(err) }()

	local, err := s.local.Find(ctx, index)
	if err != nil {
		return err
	}
	if err := s.remote.Save(ctx, index, local); err != nil {
		return err
	}

	hash, err := s.record(ctx, index, local, status.DirectionUpload)
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("Uploaded index settings",
		"keys", local.Len(), "hash", hash.Short())
	return nil
}

// record stores the fingerprint of the settings now present on both sides
func (s *synchronizer) record(
	ctx context.Context, index string, transferred settings.Settings, direction status.Direction,
) (settings.Fingerprint, error) {
	hash, err := s.encrypter.Encrypt(transferred)
	if err != nil {
		return "", err
	}

	now := s.now().UTC()
	if err := s.userData.Save(ctx, index, status.UserData{
		SettingsHash:  hash,
		LastSyncTime:  &now,
		LastDirection: direction,
	}); err != nil {
		return "", err
	}
	return hash, nil
}

// observe opens a span and returns the callback closing it and recording
// the operation metrics
func (s *synchronizer) observe(ctx context.Context, index, operation string) (context.Context, func(error)) {
	start := s.now()
	ctx, span := otel.StartSpan(ctx, s.tracer, "sync."+operation,
		trace.WithAttributes(
			otel.AttrIndexName.String(index),
			otel.AttrOperation.String(operation),
		),
	)
	ctx = logger.WithLogger(ctx, logger.FromContext(ctx).WithValues("index", index, "operation", operation))

	return ctx, func(err error) {
		if err != nil {
			otel.RecordError(span, err)
			logger.FromContext(ctx).Error(err, "Index settings operation failed")
		}
		span.SetAttributes(attribute.Bool("success", err == nil))
		span.End()
		s.metrics.RecordOperation(ctx, index, operation, s.now().Sub(start), err)
	}
}
