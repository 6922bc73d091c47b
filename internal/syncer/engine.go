// Package syncer mediates every read and write of the mood map between the
// local cache store and the remote mood API.
//
// The policy: local is updated first and is the ground truth for immediate
// feedback; the remote is attempted opportunistically, and a remote failure
// never blocks or rolls back the local result. Last write wins by call
// order; stored timestamps are informational only.
package syncer

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zhaolong57/mood-diary/internal/apperr"
	"github.com/zhaolong57/mood-diary/internal/cache"
	"github.com/zhaolong57/mood-diary/internal/logger"
	"github.com/zhaolong57/mood-diary/internal/model"
	"github.com/zhaolong57/mood-diary/internal/session"
)

// Entry is one day's record in the mood map, as persisted locally.
type Entry struct {
	Mood      string `json:"mood"`
	Note      string `json:"note"`
	Timestamp string `json:"timestamp"`
}

// Outcome reports how an operation fared against the remote. Degraded means
// the local result stands but the remote attempt failed or was abandoned.
type Outcome struct {
	Degraded bool
	Reason   string
}

func okOutcome() Outcome { return Outcome{} }

func softOutcome(err error) Outcome {
	return Outcome{Degraded: true, Reason: err.Error()}
}

// Engine owns the in-memory mood map. Callers read it only through Get and
// Snapshot; all mutation goes through Upsert and Remove.
type Engine struct {
	store   *cache.Store
	session *session.Manager
	client  *Client

	mu    sync.Mutex
	moods map[string]Entry
	order []string // date keys in insertion order, drives FullSync
}

func NewEngine(store *cache.Store, sess *session.Manager, client *Client) *Engine {
	return &Engine{
		store:   store,
		session: sess,
		client:  client,
		moods:   map[string]Entry{},
	}
}

// Restore re-establishes the persisted session, then loads the mood map,
// preferring the remote when the session allows it.
func (e *Engine) Restore(ctx context.Context) (session.Session, Outcome, error) {
	sess := e.session.Restore()
	_, outcome, err := e.LoadAll(ctx)
	return sess, outcome, err
}

// Login authenticates against the remote, establishes the session, and
// replaces the mood map with the account's records. A remote error blocks
// the session change.
func (e *Engine) Login(ctx context.Context, username, password string) (Outcome, error) {
	if e.client == nil {
		return okOutcome(), apperr.ErrNotConfigured
	}
	user, token, err := e.client.Login(ctx, username, password)
	if err != nil {
		return okOutcome(), err
	}
	if err := e.session.Establish(user, token); err != nil {
		return okOutcome(), err
	}
	logger.Info("login.ok", "uid", user.ID, "username", user.Username)
	_, outcome, err := e.LoadAll(ctx)
	return outcome, err
}

// Register creates an account, establishes the session, and pushes any
// pre-login local records into it.
func (e *Engine) Register(ctx context.Context, username, email, password string) (Outcome, error) {
	if e.client == nil {
		return okOutcome(), apperr.ErrNotConfigured
	}
	user, token, err := e.client.Register(ctx, username, email, password)
	if err != nil {
		return okOutcome(), err
	}
	if err := e.session.Establish(user, token); err != nil {
		return okOutcome(), err
	}
	logger.Info("register.ok", "uid", user.ID, "username", user.Username)
	return e.FullSync(ctx), nil
}

// Logout clears the session and the in-memory map. The persisted moodData
// blob stays, so an anonymous restart still sees the local records.
func (e *Engine) Logout() error {
	e.mu.Lock()
	e.moods = map[string]Entry{}
	e.order = nil
	e.mu.Unlock()
	return e.session.Clear()
}

// LoadAll refreshes the mood map. With the remote enabled it takes a full
// snapshot of the account's records (replace, not merge) and persists it
// locally; any remote failure falls back to the local cache and reports a
// degraded outcome. Without the remote it reads the local cache directly.
func (e *Engine) LoadAll(ctx context.Context) (map[string]Entry, Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session.RemoteEnabled() {
		sess := e.session.Current()
		records, err := e.client.ListMoods(ctx, sess.User.ID, sess.Token)
		if err == nil {
			e.moods = map[string]Entry{}
			e.order = nil
			for _, r := range records {
				e.moods[r.Date] = Entry{
					Mood:      r.Mood,
					Note:      r.Note,
					Timestamp: r.UpdatedAt.UTC().Format(time.RFC3339),
				}
				e.order = append(e.order, r.Date)
			}
			if err := e.persistLocked(); err != nil {
				return e.snapshotLocked(), okOutcome(), err
			}
			return e.snapshotLocked(), okOutcome(), nil
		}
		logger.Warn("loadAll remote failed, using local cache", "err", err)
		if lerr := e.loadLocalLocked(); lerr != nil {
			return e.snapshotLocked(), softOutcome(err), lerr
		}
		return e.snapshotLocked(), softOutcome(err), nil
	}

	if err := e.loadLocalLocked(); err != nil {
		return e.snapshotLocked(), okOutcome(), err
	}
	return e.snapshotLocked(), okOutcome(), nil
}

// Upsert writes the entry locally (memory, then cache), then attempts the
// remote write. Remote failure is soft.
func (e *Engine) Upsert(ctx context.Context, date, mood, note string) (Outcome, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return okOutcome(), apperr.Validation("date must be YYYY-MM-DD")
	}
	if !model.ValidMood(mood) {
		return okOutcome(), apperr.Validation("unknown mood %q", mood)
	}

	e.mu.Lock()
	if _, exists := e.moods[date]; !exists {
		e.order = append(e.order, date)
	}
	e.moods[date] = Entry{
		Mood:      mood,
		Note:      note,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	err := e.persistLocked()
	e.mu.Unlock()
	if err != nil {
		return okOutcome(), err
	}

	if !e.session.RemoteEnabled() {
		return okOutcome(), nil
	}
	sess := e.session.Current()
	if err := e.client.UpsertMood(ctx, sess.User.ID, sess.Token, date, mood, note); err != nil {
		logger.Warn("upsert remote failed, saved locally", "date", date, "err", err)
		return softOutcome(err), nil
	}
	return okOutcome(), nil
}

// Remove deletes the entry locally, then attempts the remote delete.
// Remote failure is soft.
func (e *Engine) Remove(ctx context.Context, date string) (Outcome, error) {
	e.mu.Lock()
	if _, exists := e.moods[date]; exists {
		delete(e.moods, date)
		for i, d := range e.order {
			if d == date {
				e.order = append(e.order[:i], e.order[i+1:]...)
				break
			}
		}
	}
	err := e.persistLocked()
	e.mu.Unlock()
	if err != nil {
		return okOutcome(), err
	}

	if !e.session.RemoteEnabled() {
		return okOutcome(), nil
	}
	sess := e.session.Current()
	if err := e.client.DeleteMood(ctx, sess.User.ID, sess.Token, date); err != nil {
		logger.Warn("remove remote failed, deleted locally", "date", date, "err", err)
		return softOutcome(err), nil
	}
	return okOutcome(), nil
}

// FullSync pushes every entry in the map to the remote, one upsert per date
// in insertion order. Best effort: a failure on one date does not stop the
// rest.
func (e *Engine) FullSync(ctx context.Context) Outcome {
	if !e.session.RemoteEnabled() {
		return softOutcome(apperr.ErrNotConfigured)
	}
	sess := e.session.Current()

	e.mu.Lock()
	dates := append([]string(nil), e.order...)
	entries := make(map[string]Entry, len(e.moods))
	for d, entry := range e.moods {
		entries[d] = entry
	}
	e.mu.Unlock()

	var failed int
	var lastErr error
	for _, d := range dates {
		entry := entries[d]
		if err := e.client.UpsertMood(ctx, sess.User.ID, sess.Token, d, entry.Mood, entry.Note); err != nil {
			logger.Warn("fullSync entry failed", "date", d, "err", err)
			failed++
			lastErr = err
		}
	}
	if failed > 0 {
		return softOutcome(fmt.Errorf("%d of %d records not synced: %w", failed, len(dates), lastErr))
	}
	return okOutcome()
}

// Get returns the entry for date, if present.
func (e *Engine) Get(date string) (Entry, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	entry, ok := e.moods[date]
	return entry, ok
}

// Snapshot returns a copy of the mood map.
func (e *Engine) Snapshot() map[string]Entry {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Engine) snapshotLocked() map[string]Entry {
	out := make(map[string]Entry, len(e.moods))
	for d, entry := range e.moods {
		out[d] = entry
	}
	return out
}

func (e *Engine) persistLocked() error {
	data, err := json.Marshal(e.moods)
	if err != nil {
		return fmt.Errorf("encode mood map: %w", err)
	}
	return e.store.Put(cache.KeyMoodMap, string(data))
}

// loadLocalLocked replaces the map from the persisted blob. A JSON object
// carries no insertion order across restarts, so the order is rebuilt
// ascending by date.
func (e *Engine) loadLocalLocked() error {
	e.moods = map[string]Entry{}
	e.order = nil

	raw, ok, err := e.store.Get(cache.KeyMoodMap)
	if err != nil {
		return err
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), &e.moods); err != nil {
		return fmt.Errorf("decode mood map: %w", err)
	}
	for d := range e.moods {
		e.order = append(e.order, d)
	}
	sort.Strings(e.order)
	return nil
}
