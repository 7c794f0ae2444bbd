package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/pipeline"
	"declutteredWeb/internal/session"
)

// croppedImageRoute is where our own proxy serves crops from; drafts
// point there until a durable copy lands in the bucket.
const croppedImageRoute = "/api/pipeline/cropped-image/"

type PipelineAPI interface {
	Process(ctx context.Context, filename string, file io.Reader, platforms []string) (pipeline.ProcessResponse, error)
	Status(ctx context.Context, jobID string) (models.JobSnapshot, error)
	CreateListings(ctx context.Context, items []models.ListingDraft, platforms []string) (pipeline.CreateListingsResponse, error)
	CroppedImage(ctx context.Context, filename string) ([]byte, string, error)
}

type UploadStore interface {
	ValidateImage(filename string, size int64) error
	StoreOriginal(ctx context.Context, userID, filename string, data []byte) (string, error)
	StoreCrop(ctx context.Context, userID, filename string, data []byte) (string, error)
}

type ListingCreator interface {
	CreateListings(ctx context.Context, token, userID string, reqs []models.CreateListingRequest) ([]models.Listing, error)
}

type JobWatcher interface {
	Track(jobID string)
	Snapshot(ctx context.Context, jobID string) (models.JobSnapshot, error)
}

// DeclutterService drives the five screen flow from photo to posted
// listings. All flow state lives in the caller's session; the service
// mutates it and the caller persists it.
type DeclutterService struct {
	Pipeline PipelineAPI
	Uploads  UploadStore
	Listings ListingCreator
	Tracker  JobWatcher
	ErrorLog *log.Logger
}

// StartJob validates and submits a photo, resets the wizard onto the
// new job, and spawns the server side watcher.
func (s *DeclutterService) StartJob(ctx context.Context, sess *session.Session, filename string, data []byte, platforms []string) (pipeline.ProcessResponse, error) {
	if err := s.Uploads.ValidateImage(filename, int64(len(data))); err != nil {
		return pipeline.ProcessResponse{}, err
	}

	// The durable copy is best effort; detection proceeds without it.
	if _, err := s.Uploads.StoreOriginal(ctx, sess.Account.ID, filename, data); err != nil {
		s.errorf("store original %s: %v", filename, err)
	}

	resp, err := s.Pipeline.Process(ctx, filename, bytes.NewReader(data), platforms)
	if err != nil {
		return pipeline.ProcessResponse{}, err
	}

	sess.ActiveJobID = resp.JobID
	sess.Wizard = models.NewWizardState()
	sess.Wizard.JobID = resp.JobID
	sess.Wizard.Platforms = platforms
	s.Tracker.Track(resp.JobID)
	return resp, nil
}

// JobStatus prefers the watcher's cached snapshot and falls back to a
// live poll when the cache has nothing yet.
func (s *DeclutterService) JobStatus(ctx context.Context, sess *session.Session) (models.JobSnapshot, error) {
	jobID := sess.ActiveJobID
	if jobID == "" {
		jobID = sess.Wizard.JobID
	}
	if jobID == "" {
		return models.JobSnapshot{}, models.ErrNoActiveJob
	}

	if snap, err := s.Tracker.Snapshot(ctx, jobID); err == nil {
		return snap, nil
	}
	return s.Pipeline.Status(ctx, jobID)
}

// CompleteCapture moves capture -> objects once the job has finished
// and actually found something.
func (s *DeclutterService) CompleteCapture(ctx context.Context, sess *session.Session) error {
	snap, err := s.JobStatus(ctx, sess)
	if err != nil {
		return err
	}
	if snap.Status == models.JobError {
		return fmt.Errorf("%w: %s", models.ErrJobFailed, snap.Message)
	}
	if !snap.Status.Terminal() {
		return models.ErrJobNotReady
	}
	if snap.Results == nil || len(snap.Results.ProcessedObjects) == 0 {
		return models.ErrNoObjectsDetected
	}
	if sess.Wizard.Step == models.StepCapture {
		sess.Wizard.Step = sess.Wizard.Step.Next()
	}
	return nil
}

// SelectObjects records which detected objects the user kept and moves
// on to item confirmation.
func (s *DeclutterService) SelectObjects(ctx context.Context, sess *session.Session, ids []string) error {
	if len(ids) == 0 {
		return models.ErrNoSelection
	}
	snap, err := s.JobStatus(ctx, sess)
	if err != nil {
		return err
	}
	if snap.Results == nil || len(snap.Results.ProcessedObjects) == 0 {
		return models.ErrNoObjectsDetected
	}
	for _, id := range ids {
		if _, ok := findObject(snap.Results.ProcessedObjects, id); !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownObject, id)
		}
	}

	sess.Wizard.SelectedIDs = ids
	if sess.Wizard.Step == models.StepCapture || sess.Wizard.Step == models.StepObjects {
		sess.Wizard.Step = models.StepItems
	}
	return nil
}

// ConfirmItems turns the confirmed objects into editable listing
// drafts. A nil ids slice confirms everything selected so far.
func (s *DeclutterService) ConfirmItems(ctx context.Context, sess *session.Session, ids []string) error {
	if len(ids) == 0 {
		ids = sess.Wizard.SelectedIDs
	}
	if len(ids) == 0 {
		return models.ErrNoSelection
	}
	snap, err := s.JobStatus(ctx, sess)
	if err != nil {
		return err
	}
	if snap.Results == nil {
		return models.ErrNoObjectsDetected
	}

	drafts := make([]models.ListingDraft, 0, len(ids))
	for _, id := range ids {
		obj, ok := findObject(snap.Results.ProcessedObjects, id)
		if !ok {
			return fmt.Errorf("%w: %s", models.ErrUnknownObject, id)
		}
		title := obj.ObjectName
		if obj.RecognitionResult != nil && obj.RecognitionResult.ProductName != "" {
			title = obj.RecognitionResult.ProductName
		}
		drafts = append(drafts, models.ListingDraft{
			CroppedID:   obj.CroppedID,
			CroppedPath: obj.CroppedPath,
			Title:       title,
			Description: defaultDescription(title),
			Price:       obj.EstimatedValue,
			ImageURL:    croppedImageRoute + path.Base(obj.CroppedPath),
		})
	}

	sess.Wizard.SelectedIDs = ids
	sess.Wizard.Drafts = drafts
	sess.Wizard.Step = models.StepPosts
	return nil
}

// EditDraft replaces one prepared post, matched by cropped id.
func (s *DeclutterService) EditDraft(sess *session.Session, draft models.ListingDraft) error {
	for i, d := range sess.Wizard.Drafts {
		if d.CroppedID == draft.CroppedID {
			if draft.Title != "" {
				d.Title = draft.Title
			}
			if draft.Description != "" {
				d.Description = draft.Description
			}
			if draft.Price > 0 {
				d.Price = draft.Price
			}
			sess.Wizard.Drafts[i] = d
			return nil
		}
	}
	return fmt.Errorf("%w: %s", models.ErrUnknownObject, draft.CroppedID)
}

type QueueResult struct {
	Posted   []models.CreatedListing `json:"posted"`
	Listings []models.Listing        `json:"listings"`
}

// QueuePosts is the final step: the marketplace service posts the
// items, our listings table gets the rows, and each crop is copied
// into durable storage so listing images outlive the job.
func (s *DeclutterService) QueuePosts(ctx context.Context, sess *session.Session, token string, platforms []string) (QueueResult, error) {
	if len(sess.Wizard.Drafts) == 0 {
		return QueueResult{}, models.ErrNoSelection
	}
	if len(platforms) == 0 {
		platforms = sess.Wizard.Platforms
	}
	if len(platforms) == 0 {
		platforms = []string{"facebook"}
	}

	drafts := sess.Wizard.Drafts
	for i, d := range drafts {
		url, err := s.archiveCrop(ctx, sess.Account.ID, d)
		if err != nil {
			s.errorf("archive crop %s: %v", d.CroppedID, err)
			continue
		}
		drafts[i].ImageURL = url
	}

	posted, err := s.Pipeline.CreateListings(ctx, drafts, platforms)
	if err != nil {
		return QueueResult{}, err
	}

	reqs := make([]models.CreateListingRequest, 0, len(drafts))
	for _, d := range drafts {
		reqs = append(reqs, models.CreateListingRequest{
			Title:       d.Title,
			Description: d.Description,
			Price:       d.Price,
			Platform:    strings.Join(platforms, ","),
			ImageURL:    d.ImageURL,
			CroppedID:   d.CroppedID,
		})
	}
	rows, err := s.Listings.CreateListings(ctx, token, sess.Account.ID, reqs)
	if err != nil {
		return QueueResult{Posted: posted.Listings}, err
	}

	sess.Wizard.Platforms = platforms
	sess.Wizard.Step = models.StepQueue
	return QueueResult{Posted: posted.Listings, Listings: rows}, nil
}

// Back moves one step toward capture; selections survive because the
// wizard state stays in the session.
func (s *DeclutterService) Back(sess *session.Session) {
	sess.Wizard.Step = sess.Wizard.Step.Prev()
}

// Reset abandons the current job and starts the flow over.
func (s *DeclutterService) Reset(sess *session.Session) {
	sess.Wizard = models.NewWizardState()
	sess.ActiveJobID = ""
}

func (s *DeclutterService) archiveCrop(ctx context.Context, userID string, draft models.ListingDraft) (string, error) {
	filename := path.Base(draft.CroppedPath)
	if filename == "." || filename == "/" || filename == "" {
		return "", fmt.Errorf("draft %s has no crop file", draft.CroppedID)
	}
	data, _, err := s.Pipeline.CroppedImage(ctx, filename)
	if err != nil {
		return "", err
	}
	return s.Uploads.StoreCrop(ctx, userID, filename, data)
}

func (s *DeclutterService) errorf(format string, args ...any) {
	if s.ErrorLog != nil {
		s.ErrorLog.Printf(format, args...)
	}
}

func findObject(objects []models.DetectedObject, croppedID string) (models.DetectedObject, bool) {
	for _, obj := range objects {
		if obj.CroppedID == croppedID {
			return obj, true
		}
	}
	return models.DetectedObject{}, false
}

func defaultDescription(title string) string {
	return fmt.Sprintf("%s in good used condition. Pickup or local delivery.", title)
}
