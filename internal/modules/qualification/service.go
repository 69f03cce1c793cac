package qualification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"leadboard/internal/domain"
	"leadboard/internal/pkg/ids"
	"leadboard/internal/repository"
	"leadboard/internal/telemetry"

	"gorm.io/gorm"
)

type Service struct {
	questions QuestionRepository
	leads     LeadRepository
	activity  ActivityRecorder
	metrics   *telemetry.Collector
	now       func() time.Time
}

func NewService(questions QuestionRepository, leads LeadRepository, activity ActivityRecorder, metrics *telemetry.Collector) *Service {
	return &Service{
		questions: questions,
		leads:     leads,
		activity:  activity,
		metrics:   metrics,
		now:       time.Now,
	}
}

func (s *Service) Questions(ctx context.Context) ([]domain.QualificationQuestion, error) {
	qs, err := s.questions.ListQuestions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return qs, nil
}

func (s *Service) CreateQuestion(ctx context.Context, userID int64, req CreateQuestionRequest) (*domain.QualificationQuestion, error) {
	now := s.now().UTC()
	q := &domain.QualificationQuestion{
		QuestionID:  ids.New("qq"),
		Question:    strings.TrimSpace(req.Question),
		Description: req.Description,
		Options:     buildOptions(req.Options),
		IsRequired:  req.IsRequired,
		Order:       req.Order,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.questions.CreateQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "question_created",
		ResourceType: "qualification_question",
		ResourceID:   q.QuestionID,
	})
	return q, nil
}

// UpdateQuestion applies the supplied fields. Options without an id get one.
func (s *Service) UpdateQuestion(ctx context.Context, userID int64, id string, req UpdateQuestionRequest) (*domain.QualificationQuestion, error) {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Question != nil {
		q.Question = strings.TrimSpace(*req.Question)
	}
	if req.Description != nil {
		q.Description = *req.Description
	}
	if req.Options != nil {
		q.Options = buildOptions(*req.Options)
	}
	if req.IsRequired != nil {
		q.IsRequired = *req.IsRequired
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	q.UpdatedAt = s.now().UTC()

	if err := s.questions.SaveQuestion(ctx, q); err != nil {
		return nil, fmt.Errorf("save question: %w", err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "question_updated",
		ResourceType: "qualification_question",
		ResourceID:   id,
	})
	return q, nil
}

// DeleteQuestion deactivates a question; answers already stored on leads keep it.
func (s *Service) DeleteQuestion(ctx context.Context, userID int64, id string) error {
	q, err := s.getQuestion(ctx, id)
	if err != nil {
		return err
	}
	q.IsActive = false
	q.UpdatedAt = s.now().UTC()
	if err := s.questions.SaveQuestion(ctx, q); err != nil {
		return fmt.Errorf("deactivate question: %w", err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "question_deleted",
		ResourceType: "qualification_question",
		ResourceID:   id,
	})
	return nil
}

func (s *Service) getQuestion(ctx context.Context, id string) (*domain.QualificationQuestion, error) {
	q, err := s.questions.GetQuestion(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return q, nil
}

// Settings returns the stored threshold, or a zero threshold when unset.
func (s *Service) Settings(ctx context.Context) (*domain.QualificationSettings, error) {
	st, err := s.questions.GetSettings(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &domain.QualificationSettings{SettingsID: domain.QualificationSettingsID}, nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return st, nil
}

func (s *Service) UpdateSettings(ctx context.Context, userID int64, threshold int) (*domain.QualificationSettings, error) {
	st := &domain.QualificationSettings{
		SettingsID:     domain.QualificationSettingsID,
		ThresholdScore: threshold,
		UpdatedAt:      s.now().UTC(),
		UpdatedBy:      strconv.FormatInt(userID, 10),
	}
	if err := s.questions.SaveSettings(ctx, st); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}
	s.activity.Record(ctx, &domain.ActivityLog{
		UserID:       userID,
		Action:       "qualification_threshold_updated",
		ResourceType: "qualification_settings",
		Details:      map[string]any{"threshold_score": threshold},
	})
	return st, nil
}

// Qualify scores answers, overwrites the lead's qualification and logs the diff.
// Concurrent calls on one lead are last-writer-wins.
func (s *Service) Qualify(ctx context.Context, leadID string, userID int64, answers []Answer) (*QualifyResult, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}

	catalog, err := s.questions.ListQuestions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	total, outcomes := Score(answers, catalog)
	status := Classify(total, settings.ThresholdScore)
	qualified := status == domain.StatusQualified

	now := s.now().UTC()
	by := strconv.FormatInt(userID, 10)
	stored := make([]domain.QualificationAnswer, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Skipped {
			continue
		}
		stored = append(stored, domain.QualificationAnswer{
			QuestionID: o.QuestionID,
			OptionID:   o.OptionID,
			Score:      o.Score,
			AnsweredAt: now,
			AnsweredBy: by,
		})
	}

	upd := repository.QualificationUpdate{
		Answers:     stored,
		Score:       total,
		IsQualified: qualified,
		UpdatedAt:   now,
	}
	if qualified {
		upd.QualifiedAt = &now
		upd.QualifiedBy = by
	}
	if err := s.leads.ApplyQualification(ctx, leadID, upd); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("store qualification: %w", err)
	}
	s.metrics.Qualification(string(status))

	var oldScore any = 0
	if lead.QualificationScore != nil {
		oldScore = *lead.QualificationScore
	}
	var oldQualified any
	if lead.IsQualified != nil {
		oldQualified = *lead.IsQualified
	}
	action := "qualification_updated"
	if qualified {
		action = "qualified"
	}
	s.activity.RecordLead(ctx, &domain.LeadActivity{
		LeadID: leadID,
		UserID: userID,
		Action: action,
		FieldChanges: map[string]domain.FieldChange{
			"qualification_score": {Old: oldScore, New: total},
			"is_qualified":        {Old: oldQualified, New: qualified},
		},
		Notes: fmt.Sprintf("Score: %d/%d - %s", total, settings.ThresholdScore, status),
	})

	return &QualifyResult{
		LeadID:      leadID,
		TotalScore:  total,
		Threshold:   settings.ThresholdScore,
		IsQualified: qualified,
		Status:      status,
		Answers:     stored,
		Outcomes:    outcomes,
	}, nil
}

func (s *Service) LeadQualification(ctx context.Context, leadID string) (*LeadQualification, error) {
	lead, err := s.leads.GetByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	catalog, err := s.questions.ListQuestions(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return nil, err
	}

	out := &LeadQualification{
		LeadID:               leadID,
		QualificationAnswers: lead.QualificationAnswers,
		IsQualified:          lead.IsQualified,
		Threshold:            settings.ThresholdScore,
		Questions:            catalog,
	}
	if out.QualificationAnswers == nil {
		out.QualificationAnswers = []domain.QualificationAnswer{}
	}
	if lead.QualificationScore != nil {
		out.QualificationScore = *lead.QualificationScore
	}
	return out, nil
}

func buildOptions(in []OptionInput) []domain.AnswerOption {
	out := make([]domain.AnswerOption, 0, len(in))
	for _, o := range in {
		id := strings.TrimSpace(o.OptionID)
		if id == "" {
			id = ids.New("opt")
		}
		out = append(out, domain.AnswerOption{OptionID: id, Text: strings.TrimSpace(o.Text), Score: o.Score})
	}
	return out
}
