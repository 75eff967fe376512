package sheetsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kioku-app/kioku/internal/config"
	"github.com/kioku-app/kioku/internal/domain"
	"github.com/kioku-app/kioku/internal/events"
	"github.com/kioku-app/kioku/internal/platform/logger"
	"github.com/kioku-app/kioku/internal/platform/sqlitekv"
)

// Status is the derived local-vs-remote divergence state.
type Status string

// Sync statuses. offline: not connected or never synced; pending:
// local changes not yet on the remote; synced: content hash matches
// the last successful checkpoint.
const (
	StatusOffline Status = "offline"
	StatusPending Status = "pending"
	StatusSynced  Status = "synced"
)

// Key-value entries holding the sync checkpoint.
const (
	KeyLastSyncedHash = "last_synced_hash"
	KeyLastSyncTime   = "last_sync_time"
)

// VocabularyAccess is the slice of the store the reconciler needs: a
// snapshot for hashing/saving and wholesale replacement on load.
type VocabularyAccess interface {
	Words() []*domain.Word
	Replace(ctx context.Context, words []*domain.Word) error
}

// SaveResult reports the outcome of a successful SyncToRemote.
type SaveResult struct {
	// Saved is how many words were written (or exported).
	Saved int
	// CSVFallback is true when the remote write was not authorized and
	// a CSV file was produced instead. The sync status stays pending
	// in that case: only a local file was updated, not the remote.
	CSVFallback bool
}

// LoadResult reports the outcome of a successful LoadFromRemote.
type LoadResult struct {
	// Loaded is how many words replaced the local collection. Zero
	// means the remote was empty and the local collection was left
	// untouched.
	Loaded int
}

// Reconciler classifies local-vs-remote divergence with a cheap
// content hash instead of querying the remote on every change, and
// drives the guarded remote read/write protocol.
//
// It observes store mutations as an events.EventHandler; register it
// with the emitter the store publishes to.
type Reconciler struct {
	cfg    config.SheetsConfig
	client RemoteSheetClient
	vocab  VocabularyAccess
	kv     sqlitekv.KV
	logger *slog.Logger

	mu             sync.Mutex
	syncing        bool
	status         Status
	lastSyncedHash string
	lastSync       time.Time
	hasGrant       bool
}

// Verify interface compliance at compile time
var _ events.EventHandler = (*Reconciler)(nil)

// NewReconciler creates a Reconciler for the given connection settings.
// The settings are an immutable value object: reconfiguration means
// constructing a new Reconciler.
func NewReconciler(
	cfg config.SheetsConfig,
	client RemoteSheetClient,
	vocab VocabularyAccess,
	kv sqlitekv.KV,
	log *slog.Logger,
) *Reconciler {
	if client == nil {
		panic("client cannot be nil")
	}
	if vocab == nil {
		panic("vocab cannot be nil")
	}
	if kv == nil {
		panic("kv cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &Reconciler{
		cfg:    cfg,
		client: client,
		vocab:  vocab,
		kv:     kv,
		logger: log.With(slog.String("component", "sync_reconciler")),
		status: StatusOffline,
	}
}

// Restore loads the persisted sync checkpoint and derives the initial
// status.
func (r *Reconciler) Restore(ctx context.Context) error {
	hash, _, err := r.kv.Get(ctx, KeyLastSyncedHash)
	if err != nil {
		return NewLoadError("failed to read sync checkpoint", err)
	}

	var lastSync time.Time
	raw, ok, err := r.kv.Get(ctx, KeyLastSyncTime)
	if err != nil {
		return NewLoadError("failed to read sync checkpoint", err)
	}
	if ok {
		lastSync, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			return NewLoadError("malformed sync timestamp", err)
		}
	}

	r.mu.Lock()
	r.lastSyncedHash = hash
	r.lastSync = lastSync
	r.mu.Unlock()

	r.Reevaluate(ctx)
	return nil
}

// Connected reports whether remote sync is configured.
func (r *Reconciler) Connected() bool {
	return r.cfg.Connected()
}

// Status returns the current sync status.
func (r *Reconciler) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// LastSync returns the time of the last successful checkpoint.
func (r *Reconciler) LastSync() (time.Time, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSync, !r.lastSync.IsZero()
}

// HasWriteGrant reports whether an OAuth write grant is cached.
func (r *Reconciler) HasWriteGrant() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasGrant
}

// HandleEvent implements events.EventHandler: every vocabulary
// mutation triggers a status re-evaluation.
func (r *Reconciler) HandleEvent(ctx context.Context, _ *events.VocabularyChangedEvent) error {
	r.Reevaluate(ctx)
	return nil
}

// Reevaluate recomputes the sync status. Not connected or never synced
// means offline. An already-pending status stays pending without
// rehashing, the cheap path once dirty. Otherwise the collection hash
// is compared against the last checkpoint.
func (r *Reconciler) Reevaluate(ctx context.Context) Status {
	log := logger.FromContextOrDefault(ctx, r.logger)

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !r.cfg.Connected() || r.lastSync.IsZero():
		r.status = StatusOffline
	case r.status == StatusPending:
		// Already dirty; skip the recompute.
	default:
		if Fingerprint(r.vocab.Words()) == r.lastSyncedHash {
			r.status = StatusSynced
		} else {
			r.status = StatusPending
		}
	}

	log.Debug("sync status evaluated", "status", string(r.status))
	return r.status
}

// TestConnection verifies the configured spreadsheet is reachable.
func (r *Reconciler) TestConnection(ctx context.Context) (*ConnectionInfo, error) {
	if !r.cfg.Connected() {
		return nil, ErrNotConnected
	}
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	info, err := r.client.TestConnection(ctx)
	if err != nil {
		return nil, &SyncError{Operation: "test_connection", Message: "connection test failed", Err: err}
	}
	return info, nil
}

// RequestWriteAccess runs the OAuth consent flow and caches the grant.
func (r *Reconciler) RequestWriteAccess(ctx context.Context) error {
	if r.cfg.ClientID == "" {
		return &SyncError{
			Operation: "authenticate",
			Message:   "OAuth client id required for write access",
			Err:       ErrAuthRequired,
		}
	}
	if err := r.acquire(); err != nil {
		return err
	}
	defer r.release()

	if err := r.client.RequestWritePermission(ctx); err != nil {
		return &SyncError{Operation: "authenticate", Message: "OAuth request failed", Err: err}
	}

	r.mu.Lock()
	r.hasGrant = true
	r.mu.Unlock()
	return nil
}

// SyncToRemote writes the current vocabulary to the spreadsheet.
//
// Without a valid OAuth grant the client rejects the write and a CSV
// export is produced instead; the checkpoint is still recorded but the
// status stays pending, since the remote itself was not updated. An
// expired token clears the cached grant and surfaces ErrAuthExpired
// without touching the checkpoint. Any other failure leaves the status
// pending and is safe to retry.
func (r *Reconciler) SyncToRemote(ctx context.Context) (*SaveResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if !r.cfg.Connected() {
		return nil, ErrNotConnected
	}
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	words := r.vocab.Words()
	count, err := r.client.SaveVocabulary(ctx, words)

	switch {
	case err == nil:
		r.checkpoint(ctx, words, StatusSynced)
		log.Info("vocabulary synced to spreadsheet", "count", count)
		return &SaveResult{Saved: count}, nil

	case errors.Is(err, ErrAuthRequired):
		if csvErr := r.client.DownloadCSV(ctx, words); csvErr != nil {
			return nil, NewSaveError("csv fallback failed", csvErr)
		}
		r.checkpoint(ctx, words, StatusPending)
		log.Info("write not authorized, exported csv instead", "count", len(words))
		return &SaveResult{Saved: len(words), CSVFallback: true}, nil

	case errors.Is(err, ErrAuthExpired):
		r.mu.Lock()
		r.hasGrant = false
		r.mu.Unlock()
		log.Warn("oauth token expired during save")
		return nil, NewSaveError("authentication expired", err)

	default:
		r.mu.Lock()
		r.status = StatusPending
		r.mu.Unlock()
		return nil, NewSaveError("remote save failed", errors.Join(ErrRemoteTransient, err))
	}
}

// LoadFromRemote replaces the local collection with the spreadsheet
// contents. An empty remote is treated as "nothing to load", never as
// "clear everything": the local collection is left untouched.
func (r *Reconciler) LoadFromRemote(ctx context.Context) (*LoadResult, error) {
	log := logger.FromContextOrDefault(ctx, r.logger)

	if !r.cfg.Connected() {
		return nil, ErrNotConnected
	}
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	words, err := r.client.LoadVocabulary(ctx)
	if err != nil {
		var setupErr *SetupError
		if errors.As(err, &setupErr) {
			return nil, err
		}
		return nil, NewLoadError("remote load failed", errors.Join(ErrRemoteTransient, err))
	}

	if len(words) == 0 {
		log.Info("remote spreadsheet empty, keeping local vocabulary")
		return &LoadResult{Loaded: 0}, nil
	}

	if err := r.vocab.Replace(ctx, words); err != nil {
		return nil, NewLoadError("failed to replace local vocabulary", err)
	}

	r.checkpoint(ctx, words, StatusSynced)
	log.Info("vocabulary loaded from spreadsheet", "count", len(words))
	return &LoadResult{Loaded: len(words)}, nil
}

// ExportCSV writes the current vocabulary through the client's CSV
// path without touching the sync checkpoint.
func (r *Reconciler) ExportCSV(ctx context.Context) error {
	if err := r.client.DownloadCSV(ctx, r.vocab.Words()); err != nil {
		return NewSaveError("csv export failed", err)
	}
	return nil
}

// FormatLastSync renders the age of the last checkpoint for display.
func (r *Reconciler) FormatLastSync(now time.Time) string {
	r.mu.Lock()
	lastSync := r.lastSync
	r.mu.Unlock()

	if lastSync.IsZero() {
		return "never synced"
	}

	minutes := int(now.Sub(lastSync).Minutes())
	switch {
	case minutes < 1:
		return "just now"
	case minutes < 60:
		return fmt.Sprintf("%dm ago", minutes)
	case minutes < 24*60:
		return fmt.Sprintf("%dh ago", minutes/60)
	default:
		return fmt.Sprintf("%dd ago", minutes/(24*60))
	}
}

// acquire takes the single-flight guard: at most one remote operation
// may be outstanding at a time.
func (r *Reconciler) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.syncing {
		return ErrSyncInFlight
	}
	r.syncing = true
	return nil
}

func (r *Reconciler) release() {
	r.mu.Lock()
	r.syncing = false
	r.mu.Unlock()
}

// checkpoint records the hash/time of the given snapshot and persists
// them. Persistence failures are logged, not fatal: the in-memory
// checkpoint still governs this process.
func (r *Reconciler) checkpoint(ctx context.Context, words []*domain.Word, status Status) {
	hash := Fingerprint(words)
	now := time.Now().UTC()

	r.mu.Lock()
	r.lastSyncedHash = hash
	r.lastSync = now
	r.status = status
	r.mu.Unlock()

	if err := r.kv.Set(ctx, KeyLastSyncedHash, hash); err != nil {
		r.logger.Warn("failed to persist sync hash", "error", err)
	}
	if err := r.kv.Set(ctx, KeyLastSyncTime, now.Format(time.RFC3339)); err != nil {
		r.logger.Warn("failed to persist sync time", "error", err)
	}
}
