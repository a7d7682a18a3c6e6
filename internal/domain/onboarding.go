package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OnboardingStatus struct {
	MerchantID  uuid.UUID `json:"merchantId"`
	Status      string    `json:"status"`
	SubmittedAt *Time     `json:"submittedAt"`
}

type OnboardingProgress struct {
	CompletedSteps int `json:"completedSteps"`
	TotalSteps     int `json:"totalSteps"`
}

// Percent is the completed share rounded to two places; no steps is 0.
func (p OnboardingProgress) Percent() decimal.Decimal {
	if p.TotalSteps <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.CompletedSteps)).
		Mul(decimal.NewFromInt(100)).
		DivRound(decimal.NewFromInt(int64(p.TotalSteps)), 2)
}

type OnboardingStep struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	IsCompleted bool      `json:"isCompleted"`
}

type OnboardingView struct {
	Status   *OnboardingStatus
	Progress OnboardingProgress
	Steps    []OnboardingStep
}

// Ready reports whether every step is done and the application can be submitted.
func (v OnboardingView) Ready() bool {
	if len(v.Steps) == 0 {
		return false
	}
	for _, s := range v.Steps {
		if !s.IsCompleted {
			return false
		}
	}
	return true
}

// Files in the merchant's blob storage.

type StoredFile struct {
	FileName      string `json:"fileName"`
	BlobURL       string `json:"blobUrl"`
	ContainerName string `json:"containerName"`
	FileSizeBytes int64  `json:"fileSizeBytes"`
	ContentType   string `json:"contentType"`
	UploadedAt    Time   `json:"uploadedAt"`
	ThumbnailURL  string `json:"thumbnailUrl"`
}

type FilesView struct {
	Files PagedResult[StoredFile]
}
