package models

type WizardStep string

const (
	StepCapture WizardStep = "capture"
	StepObjects WizardStep = "objects"
	StepItems   WizardStep = "items"
	StepPosts   WizardStep = "posts"
	StepQueue   WizardStep = "queue"
)

func (s WizardStep) Valid() bool {
	switch s {
	case StepCapture, StepObjects, StepItems, StepPosts, StepQueue:
		return true
	}
	return false
}

// Next moves one step forward. The last step stays put.
func (s WizardStep) Next() WizardStep {
	switch s {
	case StepCapture:
		return StepObjects
	case StepObjects:
		return StepItems
	case StepItems:
		return StepPosts
	case StepPosts:
		return StepQueue
	default:
		return s
	}
}

// Prev moves one step back. The first step stays put.
func (s WizardStep) Prev() WizardStep {
	switch s {
	case StepQueue:
		return StepPosts
	case StepPosts:
		return StepItems
	case StepItems:
		return StepObjects
	case StepObjects:
		return StepCapture
	default:
		return s
	}
}

type ListingDraft struct {
	CroppedID   string  `json:"cropped_id"`
	CroppedPath string  `json:"cropped_path,omitempty"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url,omitempty"`
}

// WizardState is carried in the session between the five declutter screens.
type WizardState struct {
	Step        WizardStep     `json:"step"`
	JobID       string         `json:"job_id,omitempty"`
	SelectedIDs []string       `json:"selected_ids,omitempty"`
	Platforms   []string       `json:"platforms,omitempty"`
	Drafts      []ListingDraft `json:"drafts,omitempty"`
}

func NewWizardState() WizardState {
	return WizardState{Step: StepCapture}
}

func (w WizardState) Selected(croppedID string) bool {
	for _, id := range w.SelectedIDs {
		if id == croppedID {
			return true
		}
	}
	return false
}
