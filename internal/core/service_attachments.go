package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"stockcore/internal/blob"
	"stockcore/pkg/domain"
)

// ErrBlobStoreNotConfigured is returned by attachment operations when
// the service was built without a blob backend.
var ErrBlobStoreNotConfigured = errors.New("blob store not configured")

// attachmentKey builds the blob key for an attachment, dated by upload
// time: attachments/<kind>/<id>/<yyyy>/<mm>/<dd>/<filename>.
func attachmentKey(target AttachmentTarget, now time.Time, filename string) string {
	return fmt.Sprintf("attachments/%s/%s/%04d/%02d/%02d/%s",
		target.Kind, target.ID, now.Year(), int(now.Month()), now.Day(), filename)
}

func resolveAttachmentTarget(view TransactionView, target AttachmentTarget) (domain.Owned, bool) {
	switch target.Kind {
	case AttachWarehouse:
		if w, ok := view.FindWarehouse(target.ID); ok {
			return w, true
		}
	case AttachMaterial:
		if m, ok := view.FindMaterial(target.ID); ok {
			return m, true
		}
	case AttachProduct:
		if p, ok := view.FindProduct(target.ID); ok {
			return p, true
		}
	case AttachResource:
		if r, ok := view.FindResource(target.ID); ok {
			return r, true
		}
	}
	return nil, false
}

// AttachFile stores the content in blob storage under a dated key and
// records the attachment row in one transaction. When the row write
// fails the stored blob is deleted again.
func (s *Service) AttachFile(ctx context.Context, userID string, in AttachmentInput, content io.Reader) (FileAttachment, Result, error) {
	ctx, done := s.begin(ctx, "create_attachment")
	attached, res, err := s.attachFile(ctx, userID, in, content)
	done(attached.ID, err)
	return attached, res, err
}

func (s *Service) attachFile(ctx context.Context, userID string, in AttachmentInput, content io.Reader) (FileAttachment, Result, error) {
	if s.blobs == nil {
		return FileAttachment{}, Result{}, ErrBlobStoreNotConfigured
	}
	if !domain.ValidAttachmentKind(in.Target.Kind) {
		return FileAttachment{}, Result{}, domain.NewValidationError("target", "unknown attachment kind")
	}
	if in.Filename == "" || strings.Contains(in.Filename, "/") {
		return FileAttachment{}, Result{}, domain.NewValidationError("filename", "filename must be a plain name")
	}

	err := s.store.View(ctx, func(view TransactionView) error {
		target, ok := resolveAttachmentTarget(view, in.Target)
		if !ok {
			return domain.NotFoundError{Entity: EntityType(in.Target.Kind), ID: in.Target.ID}
		}
		if !domain.BelongsToUser(view, target, userID) {
			return domain.ForbiddenError{Entity: EntityType(in.Target.Kind), ID: in.Target.ID}
		}
		return nil
	})
	if err != nil {
		return FileAttachment{}, Result{}, err
	}

	key := attachmentKey(in.Target, s.nowFn(), in.Filename)
	info, err := s.blobs.Put(ctx, key, content, blob.PutOptions{ContentType: in.ContentType})
	if err != nil {
		return FileAttachment{}, Result{}, fmt.Errorf("store blob: %w", err)
	}

	var attached FileAttachment
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		var err error
		attached, err = tx.CreateFileAttachment(FileAttachment{
			Target:      in.Target,
			Filename:    in.Filename,
			Key:         key,
			Size:        info.Size,
			ContentType: in.ContentType,
		})
		return err
	})
	if err != nil {
		if _, delErr := s.blobs.Delete(ctx, key); delErr != nil {
			s.logger.Warn("orphaned blob after failed attachment write", "key", key, "error", delErr)
		}
		return FileAttachment{}, res, err
	}
	return attached, res, nil
}

// GetAttachment returns the attachment row. Unlike the scoped lookups,
// the row is resolved before the ownership check so an existing but
// foreign attachment surfaces as forbidden, not as missing.
func (s *Service) GetAttachment(ctx context.Context, userID, id string) (FileAttachment, error) {
	var attachment FileAttachment
	err := s.store.View(ctx, func(view TransactionView) error {
		a, ok := view.FindFileAttachment(id)
		if !ok {
			return domain.NotFoundError{Entity: EntityFileAttachment, ID: id}
		}
		if !domain.BelongsToUser(view, a, userID) {
			return domain.ForbiddenError{Entity: EntityFileAttachment, ID: id}
		}
		attachment = a
		return nil
	})
	return attachment, err
}

// OpenAttachment returns the attachment row and a reader over its
// content. The caller closes the reader.
func (s *Service) OpenAttachment(ctx context.Context, userID, id string) (FileAttachment, io.ReadCloser, error) {
	if s.blobs == nil {
		return FileAttachment{}, nil, ErrBlobStoreNotConfigured
	}
	attachment, err := s.GetAttachment(ctx, userID, id)
	if err != nil {
		return FileAttachment{}, nil, err
	}
	_, rc, err := s.blobs.Get(ctx, attachment.Key)
	if err != nil {
		return FileAttachment{}, nil, fmt.Errorf("read blob: %w", err)
	}
	return attachment, rc, nil
}

// AttachmentURL returns a presigned GET URL for the attachment content.
func (s *Service) AttachmentURL(ctx context.Context, userID, id string, expiry time.Duration) (string, error) {
	if s.blobs == nil {
		return "", ErrBlobStoreNotConfigured
	}
	attachment, err := s.GetAttachment(ctx, userID, id)
	if err != nil {
		return "", err
	}
	return s.blobs.PresignURL(ctx, attachment.Key, blob.SignedURLOptions{Method: "GET", Expiry: expiry})
}

// ListAttachments returns the attachments of a target the user owns.
func (s *Service) ListAttachments(ctx context.Context, userID string, target AttachmentTarget) ([]FileAttachment, error) {
	var out []FileAttachment
	err := s.store.View(ctx, func(view TransactionView) error {
		owner, ok := resolveAttachmentTarget(view, target)
		if !ok {
			return domain.NotFoundError{Entity: EntityType(target.Kind), ID: target.ID}
		}
		if !domain.BelongsToUser(view, owner, userID) {
			return domain.ForbiddenError{Entity: EntityType(target.Kind), ID: target.ID}
		}
		for _, attachment := range view.ListFileAttachments() {
			if attachment.Target == target {
				out = append(out, attachment)
			}
		}
		return nil
	})
	return out, err
}

// DeleteAttachment removes the attachment row and its blob. The blob is
// deleted after the row commit; a failure there leaves an orphaned blob
// and is logged rather than surfaced.
func (s *Service) DeleteAttachment(ctx context.Context, userID, id string) (Result, error) {
	ctx, done := s.begin(ctx, "delete_attachment")
	res, err := s.deleteAttachment(ctx, userID, id)
	done(id, err)
	return res, err
}

func (s *Service) deleteAttachment(ctx context.Context, userID, id string) (Result, error) {
	attachment, err := s.GetAttachment(ctx, userID, id)
	if err != nil {
		return Result{}, err
	}
	res, err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		return tx.DeleteFileAttachment(id)
	})
	if err != nil {
		return res, err
	}
	if s.blobs != nil {
		if _, delErr := s.blobs.Delete(ctx, attachment.Key); delErr != nil {
			s.logger.Warn("orphaned blob after attachment delete", "key", attachment.Key, "error", delErr)
		}
	}
	return res, nil
}
