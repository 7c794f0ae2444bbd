package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"declutteredWeb/internal/models"
)

// Error codes the processing service reports in failing payloads.
const (
	CodeNoFile               = "NO_FILE"
	CodeNoFilename           = "NO_FILENAME"
	CodeInvalidFileType      = "INVALID_FILE_TYPE"
	CodePipelineNotAvailable = "PIPELINE_NOT_AVAILABLE"
	CodePipelineInitFailed   = "PIPELINE_INIT_FAILED"
	CodeProcessingFailed     = "PROCESSING_FAILED"
	CodeInternalError        = "INTERNAL_ERROR"
	CodeJobNotFound          = "JOB_NOT_FOUND"
)

// APIError is a failing response body: {ok: false, error_code, message}.
type APIError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pipeline: %s (%s)", e.Message, e.Code)
}

type ClientOpts struct {
	BaseURL string
	Timeout time.Duration
}

// Client calls the object detection and pricing service. Processing is
// asynchronous: Process returns a job id, Status is polled for progress.
type Client struct {
	httpClient *resty.Client
}

func NewClient(opts ClientOpts) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c := &Client{}
	c.httpClient = resty.New().
		SetBaseURL(opts.BaseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return c
}

func (c *Client) req(ctx context.Context, result any) *resty.Request {
	request := c.httpClient.
		NewRequest().
		SetContext(ctx)
	if result != nil {
		request.SetResult(result)
	}
	return request
}

// handleError decodes failing responses into APIError. Unknown job ids
// come back as the ErrJobNotFound sentinel so callers can errors.Is it.
func handleError(res *resty.Response, err error) (*resty.Response, error) {
	if err != nil {
		return res, err
	}
	if res.IsError() {
		var apiErr APIError
		if decodeErr := json.Unmarshal(res.Body(), &apiErr); decodeErr == nil && apiErr.Code != "" {
			if apiErr.Code == CodeJobNotFound {
				return res, models.ErrJobNotFound
			}
			return res, &apiErr
		}
		return res, fmt.Errorf("request failed: %s %s (status: %d)", res.Request.Method, res.Request.URL, res.StatusCode())
	}
	return res, nil
}

type ProcessResponse struct {
	OK        bool     `json:"ok"`
	JobID     string   `json:"job_id"`
	Status    string   `json:"status"`
	Message   string   `json:"message"`
	Platforms []string `json:"platforms"`
}

// Process submits one photo for detection. The file streams through as
// multipart field "image"; platforms repeat as form values.
func (c *Client) Process(ctx context.Context, filename string, file io.Reader, platforms []string) (ProcessResponse, error) {
	result := &ProcessResponse{}

	req := c.req(ctx, result).
		SetFileReader("image", filename, file)
	if len(platforms) > 0 {
		req.SetFormDataFromValues(url.Values{"platforms": platforms})
	}

	_, err := handleError(req.Post("/api/pipeline/process"))
	if err != nil {
		return ProcessResponse{}, err
	}
	return *result, nil
}

type statusResponse struct {
	OK             bool                    `json:"ok"`
	JobID          string                  `json:"job_id"`
	Status         models.JobStatus        `json:"status"`
	Progress       int                     `json:"progress"`
	Message        string                  `json:"message"`
	Timestamp      string                  `json:"timestamp"`
	Results        *models.PipelineResults `json:"results"`
	PartialResults *models.PipelineResults `json:"partial_results"`
}

// Status fetches one progress snapshot. While recognition has finished
// but pricing has not, the service sends partial_results; those fold
// into the same Results field so callers see a single shape.
func (c *Client) Status(ctx context.Context, jobID string) (models.JobSnapshot, error) {
	result := &statusResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/api/pipeline/status/" + url.PathEscape(jobID)))
	if err != nil {
		return models.JobSnapshot{}, err
	}

	return models.JobSnapshot{
		JobID:     result.JobID,
		Status:    result.Status,
		Progress:  result.Progress,
		Message:   result.Message,
		Timestamp: result.Timestamp,
		Results:   models.MergeResults(result.PartialResults, result.Results),
	}, nil
}

type JobSummary struct {
	JobID     string           `json:"job_id"`
	Status    models.JobStatus `json:"status"`
	Progress  int              `json:"progress"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp"`
}

type jobsResponse struct {
	OK        bool         `json:"ok"`
	Jobs      []JobSummary `json:"jobs"`
	TotalJobs int          `json:"total_jobs"`
}

func (c *Client) Jobs(ctx context.Context) ([]JobSummary, error) {
	result := &jobsResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/api/pipeline/jobs"))
	if err != nil {
		return nil, err
	}
	return result.Jobs, nil
}

type clearJobsResponse struct {
	OK          bool     `json:"ok"`
	Message     string   `json:"message"`
	ClearedJobs []string `json:"cleared_jobs"`
}

// ClearJobs drops finished jobs on the service and reports how many.
func (c *Client) ClearJobs(ctx context.Context) (int, error) {
	result := &clearJobsResponse{}

	_, err := handleError(c.req(ctx, result).
		Post("/api/pipeline/clear-jobs"))
	if err != nil {
		return 0, err
	}
	return len(result.ClearedJobs), nil
}

type createListingsRequest struct {
	Items     []models.ListingDraft `json:"items"`
	Platforms []string              `json:"platforms"`
}

type CreateListingsResponse struct {
	OK       bool                    `json:"ok"`
	Message  string                  `json:"message"`
	Listings []models.CreatedListing `json:"listings"`
}

// CreateListings asks the service to post the selected items on the
// given marketplaces.
func (c *Client) CreateListings(ctx context.Context, items []models.ListingDraft, platforms []string) (CreateListingsResponse, error) {
	result := &CreateListingsResponse{}

	_, err := handleError(c.req(ctx, result).
		SetBody(createListingsRequest{Items: items, Platforms: platforms}).
		Post("/api/pipeline/create-listings"))
	if err != nil {
		return CreateListingsResponse{}, err
	}
	return *result, nil
}

type CroppedImage struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
	Created  string `json:"created"`
	URL      string `json:"url"`
}

type croppedImagesResponse struct {
	OK     bool           `json:"ok"`
	Images []CroppedImage `json:"images"`
	Total  int            `json:"total"`
}

func (c *Client) CroppedImages(ctx context.Context) ([]CroppedImage, error) {
	result := &croppedImagesResponse{}

	_, err := handleError(c.req(ctx, result).
		Get("/api/pipeline/cropped-images"))
	if err != nil {
		return nil, err
	}
	return result.Images, nil
}

// CroppedImage fetches one crop's bytes plus its content type, for
// proxying or for copying into durable storage.
func (c *Client) CroppedImage(ctx context.Context, filename string) ([]byte, string, error) {
	res, err := handleError(c.req(ctx, nil).
		SetHeader("Accept", "image/*").
		Get("/api/pipeline/cropped-image/" + url.PathEscape(filename)))
	if err != nil {
		if res != nil && res.StatusCode() == 404 {
			return nil, "", models.ErrNoRecord
		}
		return nil, "", err
	}
	return res.Body(), res.Header().Get("Content-Type"), nil
}

type HealthStatus struct {
	Status              string `json:"status"`
	Service             string `json:"service"`
	PipelineAvailable   bool   `json:"pipeline_available"`
	PipelineInitialized bool   `json:"pipeline_initialized"`
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	result := &HealthStatus{}

	_, err := handleError(c.req(ctx, result).
		Get("/health"))
	if err != nil {
		return HealthStatus{}, err
	}
	return *result, nil
}
