package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"merchantportal/internal/apiclient"
	"merchantportal/internal/domain"
	"merchantportal/internal/errx"
)

const maxStepNotes = 1000

type OnboardingService struct {
	API *apiclient.Client
}

func NewOnboardingService(api *apiclient.Client) *OnboardingService {
	return &OnboardingService{API: api}
}

func onboardingPath(merchantID uuid.UUID) string {
	return "api/v1/merchants/" + merchantID.String() + "/merchantonboarding"
}

func (s *OnboardingService) Status(ctx context.Context, merchantID uuid.UUID) (domain.OnboardingStatus, error) {
	return apiclient.Get[domain.OnboardingStatus](ctx, s.API, onboardingPath(merchantID))
}

func (s *OnboardingService) Progress(ctx context.Context, merchantID uuid.UUID) (domain.OnboardingProgress, error) {
	return apiclient.Get[domain.OnboardingProgress](ctx, s.API, onboardingPath(merchantID)+"/progress")
}

func (s *OnboardingService) Steps(ctx context.Context, merchantID uuid.UUID) ([]domain.OnboardingStep, error) {
	steps, err := apiclient.Get[[]domain.OnboardingStep](ctx, s.API, onboardingPath(merchantID)+"/steps")
	if err != nil || steps == nil {
		return []domain.OnboardingStep{}, err
	}
	return steps, nil
}

// Page loads status, progress and steps together. A merchant that has not started
// onboarding has no status yet; that is not an error.
func (s *OnboardingService) Page(ctx context.Context, merchantID uuid.UUID) (domain.OnboardingView, error) {
	view := domain.OnboardingView{Steps: []domain.OnboardingStep{}}
	var statusErr, progressErr, stepsErr error
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		st, err := s.Status(gctx, merchantID)
		switch {
		case err == nil:
			view.Status = &st
		case !apiclient.IsNotFound(err):
			statusErr = err
		}
		return nil
	})
	g.Go(func() error {
		view.Progress, progressErr = s.Progress(gctx, merchantID)
		return nil
	})
	g.Go(func() error {
		view.Steps, stepsErr = s.Steps(gctx, merchantID)
		return nil
	})
	_ = g.Wait()
	for _, err := range []error{statusErr, stepsErr, progressErr} {
		if err != nil {
			return view, err
		}
	}
	return view, nil
}

func (s *OnboardingService) CompleteStep(ctx context.Context, merchantID, stepID uuid.UUID, notes string) error {
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > maxStepNotes {
		return errx.Validation("Notes may be at most 1000 characters")
	}
	return s.API.Exec(ctx, "POST", onboardingPath(merchantID)+"/steps/"+stepID.String()+"/complete",
		map[string]string{"notes": notes})
}

// Submit sends the application for review; the backend rejects incomplete ones.
func (s *OnboardingService) Submit(ctx context.Context, merchantID uuid.UUID) error {
	return s.API.Exec(ctx, "POST", onboardingPath(merchantID)+"/submit", struct{}{})
}
