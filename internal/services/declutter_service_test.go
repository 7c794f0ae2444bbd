package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"declutteredWeb/internal/models"
	"declutteredWeb/internal/pipeline"
	"declutteredWeb/internal/session"
)

type fakePipelineAPI struct {
	processResp   pipeline.ProcessResponse
	processErr    error
	processCalls  int
	lastFilename  string
	lastPlatforms []string
	lastFileSize  int

	snap      models.JobSnapshot
	statusErr error

	createResp    pipeline.CreateListingsResponse
	createErr     error
	lastItems     []models.ListingDraft
	lastCreateFor []string

	crops   map[string][]byte
	cropErr error
}

func (f *fakePipelineAPI) Process(ctx context.Context, filename string, file io.Reader, platforms []string) (pipeline.ProcessResponse, error) {
	f.processCalls++
	f.lastFilename = filename
	f.lastPlatforms = platforms
	data, _ := io.ReadAll(file)
	f.lastFileSize = len(data)
	return f.processResp, f.processErr
}

func (f *fakePipelineAPI) Status(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	if f.statusErr != nil {
		return models.JobSnapshot{}, f.statusErr
	}
	return f.snap, nil
}

func (f *fakePipelineAPI) CreateListings(ctx context.Context, items []models.ListingDraft, platforms []string) (pipeline.CreateListingsResponse, error) {
	f.lastItems = items
	f.lastCreateFor = platforms
	return f.createResp, f.createErr
}

func (f *fakePipelineAPI) CroppedImage(ctx context.Context, filename string) ([]byte, string, error) {
	if f.cropErr != nil {
		return nil, "", f.cropErr
	}
	data, ok := f.crops[filename]
	if !ok {
		return nil, "", models.ErrNoRecord
	}
	return data, "image/jpeg", nil
}

type fakeUploadStore struct {
	validateErr error
	originals   map[string][]byte
	crops       map[string][]byte
	cropErr     error
}

func (f *fakeUploadStore) ValidateImage(filename string, size int64) error {
	return f.validateErr
}

func (f *fakeUploadStore) StoreOriginal(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if f.originals == nil {
		f.originals = map[string][]byte{}
	}
	f.originals[filename] = data
	return "https://cdn.test/used_upload/" + userID + "/" + filename, nil
}

func (f *fakeUploadStore) StoreCrop(ctx context.Context, userID, filename string, data []byte) (string, error) {
	if f.cropErr != nil {
		return "", f.cropErr
	}
	if f.crops == nil {
		f.crops = map[string][]byte{}
	}
	f.crops[filename] = data
	return "https://cdn.test/cropped/" + userID + "/" + filename, nil
}

type fakeListingCreator struct {
	rows     []models.Listing
	err      error
	lastReqs []models.CreateListingRequest
}

func (f *fakeListingCreator) CreateListings(ctx context.Context, token, userID string, reqs []models.CreateListingRequest) ([]models.Listing, error) {
	f.lastReqs = reqs
	return f.rows, f.err
}

type fakeJobWatcher struct {
	tracked []string
	snap    models.JobSnapshot
	snapErr error
}

func (f *fakeJobWatcher) Track(jobID string) {
	f.tracked = append(f.tracked, jobID)
}

func (f *fakeJobWatcher) Snapshot(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	if f.snapErr != nil {
		return models.JobSnapshot{}, f.snapErr
	}
	return f.snap, nil
}

func newTestSession() *session.Session {
	return &session.Session{
		ID:      "sess-1",
		Account: models.Account{ID: "user-1", Email: "seller@example.com"},
		Wizard:  models.NewWizardState(),
	}
}

func completedResults() *models.PipelineResults {
	return &models.PipelineResults{
		ImagePath:       "/tmp/uploads/room.jpg",
		DetectedObjects: 2,
		ProcessedObjects: []models.DetectedObject{
			{
				ObjectName:        "chair",
				CroppedID:         "crop-1",
				CroppedPath:       "/tmp/cropped/crop_1.jpg",
				RecognitionResult: &models.RecognitionResult{ProductName: "Herman Miller Aeron", Brand: "Herman Miller", Confidence: 0.91},
				PricingData:       &models.PricingData{FacebookPrices: []float64{400, 500}, EbayPrices: []float64{350}},
				EstimatedValue:    450,
			},
			{
				ObjectName:     "lamp",
				CroppedID:      "crop-2",
				CroppedPath:    "/tmp/cropped/crop_2.jpg",
				EstimatedValue: 0,
			},
		},
		TotalEstimatedValue: 450,
	}
}

func TestDeclutterFlow(t *testing.T) {
	pipe := &fakePipelineAPI{
		processResp: pipeline.ProcessResponse{OK: true, JobID: "job-42", Status: "queued"},
		crops: map[string][]byte{
			"crop_1.jpg": []byte("jpegdata1"),
			"crop_2.jpg": []byte("jpegdata2"),
		},
		createResp: pipeline.CreateListingsResponse{
			OK: true,
			Listings: []models.CreatedListing{
				{Platform: "facebook", Success: true, ListingID: "fb-1"},
				{Platform: "facebook", Success: true, ListingID: "fb-2"},
			},
		},
	}
	uploads := &fakeUploadStore{}
	creator := &fakeListingCreator{rows: []models.Listing{{ID: 1}, {ID: 2}}}
	tracker := &fakeJobWatcher{snapErr: models.ErrJobNotFound}
	svc := &DeclutterService{Pipeline: pipe, Uploads: uploads, Listings: creator, Tracker: tracker}

	sess := newTestSession()
	ctx := context.Background()

	resp, err := svc.StartJob(ctx, sess, "room.jpg", []byte("rawphotobytes"), []string{"facebook", "ebay"})
	if err != nil {
		t.Fatalf("StartJob: %v", err)
	}
	if resp.JobID != "job-42" {
		t.Fatalf("expected job-42, got %s", resp.JobID)
	}
	if sess.ActiveJobID != "job-42" || sess.Wizard.JobID != "job-42" {
		t.Fatalf("job id not recorded in session: %q / %q", sess.ActiveJobID, sess.Wizard.JobID)
	}
	if sess.Wizard.Step != models.StepCapture {
		t.Fatalf("expected capture step after start, got %s", sess.Wizard.Step)
	}
	if len(tracker.tracked) != 1 || tracker.tracked[0] != "job-42" {
		t.Fatalf("watcher not started: %v", tracker.tracked)
	}
	if pipe.lastFileSize != len("rawphotobytes") {
		t.Fatalf("photo bytes not forwarded, got %d", pipe.lastFileSize)
	}
	if _, ok := uploads.originals["room.jpg"]; !ok {
		t.Fatalf("original photo was not archived")
	}

	// Job still running: the flow must not advance.
	pipe.snap = models.JobSnapshot{JobID: "job-42", Status: models.JobProcessing, Progress: 40}
	if err := svc.CompleteCapture(ctx, sess); !errors.Is(err, models.ErrJobNotReady) {
		t.Fatalf("expected ErrJobNotReady, got %v", err)
	}
	if sess.Wizard.Step != models.StepCapture {
		t.Fatalf("step advanced on unfinished job")
	}

	pipe.snap = models.JobSnapshot{JobID: "job-42", Status: models.JobCompleted, Progress: 100, Results: completedResults()}
	if err := svc.CompleteCapture(ctx, sess); err != nil {
		t.Fatalf("CompleteCapture: %v", err)
	}
	if sess.Wizard.Step != models.StepObjects {
		t.Fatalf("expected objects step, got %s", sess.Wizard.Step)
	}

	if err := svc.SelectObjects(ctx, sess, []string{"crop-1", "crop-2"}); err != nil {
		t.Fatalf("SelectObjects: %v", err)
	}
	if sess.Wizard.Step != models.StepItems {
		t.Fatalf("expected items step, got %s", sess.Wizard.Step)
	}

	if err := svc.ConfirmItems(ctx, sess, nil); err != nil {
		t.Fatalf("ConfirmItems: %v", err)
	}
	if sess.Wizard.Step != models.StepPosts {
		t.Fatalf("expected posts step, got %s", sess.Wizard.Step)
	}
	if len(sess.Wizard.Drafts) != 2 {
		t.Fatalf("expected 2 drafts, got %d", len(sess.Wizard.Drafts))
	}
	first := sess.Wizard.Drafts[0]
	if first.Title != "Herman Miller Aeron" {
		t.Fatalf("recognized product name should win, got %q", first.Title)
	}
	if first.Price != 450 {
		t.Fatalf("expected draft price 450, got %v", first.Price)
	}
	if first.ImageURL != "/api/pipeline/cropped-image/crop_1.jpg" {
		t.Fatalf("unexpected draft image url %q", first.ImageURL)
	}
	second := sess.Wizard.Drafts[1]
	if second.Title != "lamp" {
		t.Fatalf("unrecognized object should keep detector name, got %q", second.Title)
	}
	if second.Description == "" {
		t.Fatalf("draft description missing")
	}

	edited := models.ListingDraft{CroppedID: "crop-1", Title: "Aeron office chair", Price: 425}
	if err := svc.EditDraft(sess, edited); err != nil {
		t.Fatalf("EditDraft: %v", err)
	}
	if sess.Wizard.Drafts[0].Title != "Aeron office chair" || sess.Wizard.Drafts[0].Price != 425 {
		t.Fatalf("edit not applied: %+v", sess.Wizard.Drafts[0])
	}
	if sess.Wizard.Drafts[0].Description == "" {
		t.Fatalf("edit wiped the untouched description")
	}

	result, err := svc.QueuePosts(ctx, sess, "token-1", nil)
	if err != nil {
		t.Fatalf("QueuePosts: %v", err)
	}
	if sess.Wizard.Step != models.StepQueue {
		t.Fatalf("expected queue step, got %s", sess.Wizard.Step)
	}
	if len(result.Posted) != 2 || len(result.Listings) != 2 {
		t.Fatalf("unexpected queue result: %+v", result)
	}
	if len(pipe.lastCreateFor) != 2 || pipe.lastCreateFor[0] != "facebook" {
		t.Fatalf("platforms should fall back to the wizard's, got %v", pipe.lastCreateFor)
	}
	if pipe.lastItems[0].Title != "Aeron office chair" {
		t.Fatalf("edited draft did not reach the marketplace call: %q", pipe.lastItems[0].Title)
	}
	if len(creator.lastReqs) != 2 {
		t.Fatalf("expected 2 listing rows, got %d", len(creator.lastReqs))
	}
	if creator.lastReqs[0].Platform != "facebook,ebay" {
		t.Fatalf("unexpected platform column %q", creator.lastReqs[0].Platform)
	}
	if !strings.HasPrefix(creator.lastReqs[0].ImageURL, "https://cdn.test/cropped/user-1/") {
		t.Fatalf("crop was not archived before posting: %q", creator.lastReqs[0].ImageURL)
	}
	if _, ok := uploads.crops["crop_1.jpg"]; !ok {
		t.Fatalf("crop bytes missing from storage")
	}

	svc.Reset(sess)
	if sess.ActiveJobID != "" || sess.Wizard.Step != models.StepCapture || len(sess.Wizard.Drafts) != 0 {
		t.Fatalf("reset left stale state: %+v", sess.Wizard)
	}
}

func TestStartJobRejectsBadUpload(t *testing.T) {
	pipe := &fakePipelineAPI{}
	uploads := &fakeUploadStore{validateErr: models.ErrInvalidFileType}
	svc := &DeclutterService{Pipeline: pipe, Uploads: uploads, Tracker: &fakeJobWatcher{}}

	sess := newTestSession()
	_, err := svc.StartJob(context.Background(), sess, "notes.txt", []byte("hello"), nil)
	if !errors.Is(err, models.ErrInvalidFileType) {
		t.Fatalf("expected ErrInvalidFileType, got %v", err)
	}
	if pipe.processCalls != 0 {
		t.Fatalf("invalid file must not reach the detection service")
	}
	if sess.ActiveJobID != "" {
		t.Fatalf("session must stay clean on rejected upload")
	}
}

func TestCompleteCaptureEmptyDetection(t *testing.T) {
	pipe := &fakePipelineAPI{snap: models.JobSnapshot{
		JobID:   "job-7",
		Status:  models.JobCompleted,
		Results: &models.PipelineResults{ProcessedObjects: nil},
	}}
	svc := &DeclutterService{Pipeline: pipe, Uploads: &fakeUploadStore{}, Tracker: &fakeJobWatcher{snapErr: models.ErrJobNotFound}}

	sess := newTestSession()
	sess.ActiveJobID = "job-7"
	if err := svc.CompleteCapture(context.Background(), sess); !errors.Is(err, models.ErrNoObjectsDetected) {
		t.Fatalf("expected ErrNoObjectsDetected, got %v", err)
	}
}

func TestCompleteCaptureFailedJob(t *testing.T) {
	pipe := &fakePipelineAPI{snap: models.JobSnapshot{
		JobID:   "job-8",
		Status:  models.JobError,
		Message: "detector crashed",
	}}
	svc := &DeclutterService{Pipeline: pipe, Uploads: &fakeUploadStore{}, Tracker: &fakeJobWatcher{snapErr: models.ErrJobNotFound}}

	sess := newTestSession()
	sess.ActiveJobID = "job-8"
	err := svc.CompleteCapture(context.Background(), sess)
	if !errors.Is(err, models.ErrJobFailed) {
		t.Fatalf("expected ErrJobFailed, got %v", err)
	}
	if !strings.Contains(err.Error(), "detector crashed") {
		t.Fatalf("failure reason lost: %v", err)
	}
}

func TestJobStatusWithoutJob(t *testing.T) {
	svc := &DeclutterService{Pipeline: &fakePipelineAPI{}, Tracker: &fakeJobWatcher{}}
	sess := newTestSession()
	if _, err := svc.JobStatus(context.Background(), sess); !errors.Is(err, models.ErrNoActiveJob) {
		t.Fatalf("expected ErrNoActiveJob, got %v", err)
	}
}

func TestJobStatusPrefersWatcherSnapshot(t *testing.T) {
	pipe := &fakePipelineAPI{snap: models.JobSnapshot{JobID: "job-9", Status: models.JobProcessing, Progress: 10}}
	tracker := &fakeJobWatcher{snap: models.JobSnapshot{JobID: "job-9", Status: models.JobCompleted, Progress: 100}}
	svc := &DeclutterService{Pipeline: pipe, Tracker: tracker}

	sess := newTestSession()
	sess.Wizard.JobID = "job-9"
	snap, err := svc.JobStatus(context.Background(), sess)
	if err != nil {
		t.Fatalf("JobStatus: %v", err)
	}
	if snap.Status != models.JobCompleted {
		t.Fatalf("cached snapshot should win, got %s", snap.Status)
	}

	// Cache miss falls back to a live poll.
	tracker.snapErr = models.ErrJobNotFound
	snap, err = svc.JobStatus(context.Background(), sess)
	if err != nil {
		t.Fatalf("JobStatus fallback: %v", err)
	}
	if snap.Status != models.JobProcessing {
		t.Fatalf("expected live status, got %s", snap.Status)
	}
}

func TestSelectObjectsUnknownID(t *testing.T) {
	pipe := &fakePipelineAPI{snap: models.JobSnapshot{
		JobID:   "job-10",
		Status:  models.JobCompleted,
		Results: completedResults(),
	}}
	svc := &DeclutterService{Pipeline: pipe, Tracker: &fakeJobWatcher{snapErr: models.ErrJobNotFound}}

	sess := newTestSession()
	sess.ActiveJobID = "job-10"
	err := svc.SelectObjects(context.Background(), sess, []string{"crop-1", "crop-99"})
	if !errors.Is(err, models.ErrUnknownObject) {
		t.Fatalf("expected ErrUnknownObject, got %v", err)
	}
	if len(sess.Wizard.SelectedIDs) != 0 {
		t.Fatalf("selection must not be saved on bad input")
	}

	if err := svc.SelectObjects(context.Background(), sess, nil); !errors.Is(err, models.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}

func TestQueuePostsKeepsProxyURLWhenArchiveFails(t *testing.T) {
	pipe := &fakePipelineAPI{
		cropErr:    errors.New("connection refused"),
		createResp: pipeline.CreateListingsResponse{OK: true, Listings: []models.CreatedListing{{Platform: "facebook", Success: true}}},
	}
	creator := &fakeListingCreator{rows: []models.Listing{{ID: 5}}}
	svc := &DeclutterService{Pipeline: pipe, Uploads: &fakeUploadStore{}, Listings: creator, Tracker: &fakeJobWatcher{}}

	sess := newTestSession()
	sess.Wizard.Step = models.StepPosts
	sess.Wizard.Drafts = []models.ListingDraft{{
		CroppedID:   "crop-1",
		CroppedPath: "/tmp/cropped/crop_1.jpg",
		Title:       "chair",
		Description: "a chair",
		Price:       40,
		ImageURL:    "/api/pipeline/cropped-image/crop_1.jpg",
	}}

	result, err := svc.QueuePosts(context.Background(), sess, "token-1", []string{"facebook"})
	if err != nil {
		t.Fatalf("QueuePosts: %v", err)
	}
	if len(result.Listings) != 1 {
		t.Fatalf("expected 1 listing row, got %d", len(result.Listings))
	}
	if creator.lastReqs[0].ImageURL != "/api/pipeline/cropped-image/crop_1.jpg" {
		t.Fatalf("proxy url should survive a failed archive, got %q", creator.lastReqs[0].ImageURL)
	}
}

func TestQueuePostsWithoutDrafts(t *testing.T) {
	svc := &DeclutterService{Pipeline: &fakePipelineAPI{}, Tracker: &fakeJobWatcher{}}
	sess := newTestSession()
	if _, err := svc.QueuePosts(context.Background(), sess, "token-1", nil); !errors.Is(err, models.ErrNoSelection) {
		t.Fatalf("expected ErrNoSelection, got %v", err)
	}
}
