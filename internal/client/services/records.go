// Package services holds the client's mutation pipeline and account
// operations. Every write goes through here: services validate, enforce
// role and lifecycle rules, call the gateway, and trigger a snapshot
// refresh on success. No service ever patches the local snapshot
// directly.
package services

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/kaizenlib/internal/client/gateway"
	"github.com/dmitrijs2005/kaizenlib/internal/client/models"
	"github.com/dmitrijs2005/kaizenlib/internal/client/snapshot"
	"github.com/dmitrijs2005/kaizenlib/internal/client/storage"
	"github.com/dmitrijs2005/kaizenlib/internal/common"
	"github.com/dmitrijs2005/kaizenlib/internal/logging"
)

// History action labels.
const (
	actionCreate  = "create"
	actionUpdate  = "update"
	actionHide    = "hide"
	actionRestore = "restore"
	actionDelete  = "delete"
)

var (
	// ErrSaveInProgress rejects a save issued while another one is still
	// in flight, so a double-clicked submit cannot write twice.
	ErrSaveInProgress = errors.New("a save is already in progress")

	// ErrStatusTransition means the requested status change is not
	// allowed by the lifecycle state machine.
	ErrStatusTransition = errors.New("status transition not allowed")

	// WarnAttachmentDropped is the degraded-save warning returned when
	// the schema-mismatch fallback succeeded: the record was saved but
	// its attachment metadata was silently dropped.
	WarnAttachmentDropped = "the record was saved, but the attachment details were dropped: the remote schema does not have the attachment columns yet"
)

// RecordService is the mutation pipeline for improvement records.
type RecordService struct {
	gw     gateway.Gateway
	store  storage.Store
	sync   *snapshot.Synchronizer
	logger logging.Logger

	saving atomic.Bool
	now    func() time.Time
}

func NewRecordService(gw gateway.Gateway, store storage.Store, sync *snapshot.Synchronizer, logger logging.Logger) *RecordService {
	return &RecordService{
		gw:     gw,
		store:  store,
		sync:   sync,
		logger: logger.With("component", "records"),
		now:    time.Now,
	}
}

// Save runs the whole save pipeline for a draft: finalize and validate,
// upload a pending attachment, write the record (insert for new, update
// for existing), fall back once on an attachment-column schema mismatch,
// and refresh the snapshot on success.
//
// The returned warning is non-empty only on a degraded save (fallback
// succeeded). On any error no snapshot refresh happens.
func (s *RecordService) Save(ctx context.Context, actor models.User, draft *models.Draft) (string, error) {
	if actor.Role == models.RoleViewer {
		return "", fmt.Errorf("%w: viewers cannot submit records", common.ErrorUnauthorized)
	}

	if !s.saving.CompareAndSwap(false, true) {
		return "", ErrSaveInProgress
	}
	defer s.saving.Store(false)

	rec, err := draft.Finalize()
	if err != nil {
		return "", err
	}

	isNew := rec.IsNew()
	var prev *models.Record
	if !isNew {
		prev = s.sync.Current().RecordByID(rec.ID)
		if prev == nil {
			return "", fmt.Errorf("record %s: %w", rec.ID, common.ErrorNotFound)
		}
		if actor.Role != models.RoleAdmin && prev.AuthorID != actor.ID {
			return "", fmt.Errorf("%w: only the author or an admin may edit this record", common.ErrorUnauthorized)
		}
	}

	// Attachment first: a failed upload must leave the records table
	// untouched.
	if draft.Upload != nil {
		url, err := s.uploadAttachment(ctx, draft.Upload)
		if err != nil {
			return "", err
		}
		rec.AttachmentName = draft.Upload.Name
		rec.AttachmentURL = url
	}

	now := s.now()
	payload := gateway.RecordPayload{
		Title:          rec.Title,
		Sector:         rec.Sector,
		Unit:           rec.Unit,
		Date:           rec.Date,
		Kind:           rec.Kind,
		SourceUnit:     rec.SourceUnit,
		BeforeDesc:     rec.BeforeDesc,
		BeforeImages:   rec.BeforeImages,
		AfterDesc:      rec.AfterDesc,
		AfterImages:    rec.AfterImages,
		Benefits:       rec.Benefits,
		Impact:         rec.Impact,
		Cost:           rec.Cost,
		AttachmentName: rec.AttachmentName,
		AttachmentURL:  rec.AttachmentURL,
		UpdatedAt:      now,
	}

	entry := models.AuditEntry{Timestamp: now, ActorID: actor.ID, ActorName: actor.FullName}
	if isNew {
		// Author is set exactly once, here.
		payload.AuthorID = actor.ID
		payload.Status = models.StatusActive
		entry.Action = actionCreate
		payload.History = models.AppendHistory(nil, entry)
	} else {
		// Author and accumulated history are immutable on edit; the view
		// counter is not part of the payload at all, so an edit can never
		// reset it.
		payload.AuthorID = prev.AuthorID
		payload.Status = prev.Status
		entry.Action = actionUpdate
		payload.History = models.AppendHistory(prev.History, entry)
	}

	write := func(p gateway.RecordPayload) error {
		if isNew {
			return s.gw.InsertRecord(ctx, p)
		}
		return s.gw.UpdateRecord(ctx, rec.ID, p)
	}

	warning := ""
	if err := write(payload); err != nil {
		if !isAttachmentMismatch(err) {
			return "", err
		}

		// Backward-compatibility fallback: exactly one retry with the
		// attachment columns stripped.
		fallback := payload
		fallback.OmitAttachment = true
		if err := write(fallback); err != nil {
			return "", err
		}
		s.logger.Warn(ctx, "record saved without attachment columns", "record_id", rec.ID)
		warning = WarnAttachmentDropped
	}

	s.sync.Refresh(ctx)
	return warning, nil
}

func (s *RecordService) uploadAttachment(ctx context.Context, up *models.AttachmentUpload) (string, error) {
	key := storage.MakeStorageKey(up.Name)

	url, err := s.store.Upload(ctx, key, up.Data)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrBucketMissing):
			return "", fmt.Errorf("the attachment bucket is not configured on the storage backend: %w", err)
		case errors.Is(err, storage.ErrPermissionDenied):
			return "", fmt.Errorf("the storage backend denied the upload, check the bucket policies: %w", err)
		}
		return "", err
	}
	return url, nil
}

// isAttachmentMismatch reports whether a write failed only because the
// remote schema lacks the attachment columns.
func isAttachmentMismatch(err error) bool {
	if gateway.KindOf(err) != gateway.KindSchemaMismatch {
		return false
	}
	switch gateway.MissingColumn(err) {
	case "attachment_name", "attachment_url":
		return true
	}
	return false
}

// IncrementViews bumps a record's view counter. No refresh is triggered
// here; the change feed propagates the new count.
func (s *RecordService) IncrementViews(ctx context.Context, id string) error {
	if err := s.gw.IncrementViews(ctx, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

// UpdateStatus moves a record through its lifecycle: ACTIVE⇄HIDDEN freely,
// anything→DELETED terminally. Admin only.
func (s *RecordService) UpdateStatus(ctx context.Context, actor models.User, id string, status models.Status) error {
	if actor.Role != models.RoleAdmin {
		return fmt.Errorf("%w: only admins may change record status", common.ErrorUnauthorized)
	}

	current := s.sync.Current().RecordByID(id)
	if current == nil {
		return fmt.Errorf("record %s: %w", id, common.ErrorNotFound)
	}
	if !current.Status.CanTransitionTo(status) {
		return fmt.Errorf("%w: %s -> %s", ErrStatusTransition, current.Status, status)
	}

	if err := s.gw.UpdateRecordStatus(ctx, id, status); err != nil {
		return err
	}

	actionFor := map[models.Status]string{
		models.StatusHidden:  actionHide,
		models.StatusActive:  actionRestore,
		models.StatusDeleted: actionDelete,
	}
	s.logger.Info(ctx, "record status changed",
		"record_id", id, "action", actionFor[status], "actor", actor.Username)

	s.sync.Refresh(ctx)
	return nil
}
