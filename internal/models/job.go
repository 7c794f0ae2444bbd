package models

type JobStatus string

const (
	JobQueued              JobStatus = "queued"
	JobProcessing          JobStatus = "processing"
	JobRecognitionComplete JobStatus = "recognition_complete"
	JobCompleted           JobStatus = "completed"
	JobError               JobStatus = "error"
)

// Terminal reports whether no further status updates will follow.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobError
}

type JobSnapshot struct {
	JobID     string           `json:"job_id"`
	Status    JobStatus        `json:"status"`
	Progress  int              `json:"progress"`
	Message   string           `json:"message"`
	Timestamp string           `json:"timestamp,omitempty"`
	Results   *PipelineResults `json:"results,omitempty"`
}

type PipelineResults struct {
	ImagePath           string           `json:"image_path"`
	Timestamp           string           `json:"timestamp"`
	DetectedObjects     int              `json:"detected_objects"`
	ProcessedObjects    []DetectedObject `json:"processed_objects"`
	ListingsCreated     []CreatedListing `json:"listings_created,omitempty"`
	TotalEstimatedValue float64          `json:"total_estimated_value"`
}

type DetectedObject struct {
	ObjectName        string             `json:"object_name"`
	CroppedID         string             `json:"cropped_id"`
	CroppedPath       string             `json:"cropped_path"`
	RecognitionResult *RecognitionResult `json:"recognition_result,omitempty"`
	PricingData       *PricingData       `json:"pricing_data,omitempty"`
	EstimatedValue    float64            `json:"estimated_value"`
}

type RecognitionResult struct {
	ProductName string  `json:"product_name"`
	Brand       string  `json:"brand,omitempty"`
	Model       string  `json:"model,omitempty"`
	Confidence  float64 `json:"confidence,omitempty"`
}

type PricingData struct {
	FacebookPrices []float64 `json:"facebook_prices"`
	EbayPrices     []float64 `json:"ebay_prices"`
}

// Estimate is the larger of the two marketplace averages.
func (p PricingData) Estimate() float64 {
	fb := avg(p.FacebookPrices)
	eb := avg(p.EbayPrices)
	if fb > eb {
		return fb
	}
	return eb
}

func avg(prices []float64) float64 {
	if len(prices) == 0 {
		return 0
	}
	var sum float64
	for _, p := range prices {
		sum += p
	}
	return sum / float64(len(prices))
}

type CreatedListing struct {
	Platform  string `json:"platform"`
	Success   bool   `json:"success"`
	ListingID string `json:"listing_id,omitempty"`
	URL       string `json:"url,omitempty"`
	Error     string `json:"error,omitempty"`
}

// MergeResults folds a newer results snapshot into an older one. Pricing
// arrives after recognition, so newer fields win while recognition data
// already known is never dropped. Objects are matched by cropped id.
// Merging a snapshot into itself returns an equal snapshot.
func MergeResults(prev, next *PipelineResults) *PipelineResults {
	if next == nil {
		return prev
	}
	if prev == nil {
		out := *next
		out.TotalEstimatedValue = totalEstimate(out.ProcessedObjects)
		return &out
	}

	merged := *next
	if merged.ImagePath == "" {
		merged.ImagePath = prev.ImagePath
	}
	if merged.Timestamp == "" {
		merged.Timestamp = prev.Timestamp
	}
	if merged.DetectedObjects < prev.DetectedObjects {
		merged.DetectedObjects = prev.DetectedObjects
	}
	if len(merged.ListingsCreated) == 0 {
		merged.ListingsCreated = prev.ListingsCreated
	}

	prevByID := make(map[string]DetectedObject, len(prev.ProcessedObjects))
	for _, obj := range prev.ProcessedObjects {
		if obj.CroppedID != "" {
			prevByID[obj.CroppedID] = obj
		}
	}

	objects := make([]DetectedObject, 0, len(next.ProcessedObjects))
	seen := make(map[string]bool, len(next.ProcessedObjects))
	for _, obj := range next.ProcessedObjects {
		if old, ok := prevByID[obj.CroppedID]; ok {
			seen[obj.CroppedID] = true
			if obj.RecognitionResult == nil {
				obj.RecognitionResult = old.RecognitionResult
			}
			if obj.PricingData == nil {
				obj.PricingData = old.PricingData
			}
			if obj.EstimatedValue == 0 {
				obj.EstimatedValue = old.EstimatedValue
			}
			if obj.CroppedPath == "" {
				obj.CroppedPath = old.CroppedPath
			}
			if obj.ObjectName == "" {
				obj.ObjectName = old.ObjectName
			}
		}
		objects = append(objects, obj)
	}
	for _, obj := range prev.ProcessedObjects {
		if obj.CroppedID == "" || seen[obj.CroppedID] {
			continue
		}
		objects = append(objects, obj)
	}

	merged.ProcessedObjects = objects
	merged.TotalEstimatedValue = totalEstimate(objects)
	return &merged
}

func totalEstimate(objects []DetectedObject) float64 {
	var total float64
	for _, obj := range objects {
		total += obj.EstimatedValue
	}
	return total
}
