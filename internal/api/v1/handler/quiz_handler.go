package handler

import (
	"context"

	"learntrack/internal/api/v1/dto"
	"learntrack/internal/api/v1/operation"
	"learntrack/internal/model"
	"learntrack/internal/service"

	"github.com/rs/zerolog"
)

type QuizHandler struct {
	quizService service.QuizService
	logger      zerolog.Logger
}

func NewQuizHandler(quizService service.QuizService, logger zerolog.Logger) *QuizHandler {
	return &QuizHandler{
		quizService: quizService,
		logger:      logger,
	}
}

func (h *QuizHandler) CreateQuiz(ctx context.Context, input *operation.CreateQuizInput) (*operation.CreateQuizOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q, err := h.quizService.CreateQuiz(ctx, userID, input.ModuleID, fromQuizDTO(&input.Body))
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to create quiz")
	}
	return &operation.CreateQuizOutput{Body: toQuizDTO(q)}, nil
}

func (h *QuizHandler) GetQuiz(ctx context.Context, input *operation.GetQuizInput) (*operation.GetQuizOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q, err := h.quizService.GetQuiz(ctx, userID, input.QuizID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get quiz")
	}
	return &operation.GetQuizOutput{Body: toQuizDTO(q)}, nil
}

func (h *QuizHandler) UpdateQuiz(ctx context.Context, input *operation.UpdateQuizInput) (*operation.UpdateQuizOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	q, err := h.quizService.UpdateQuiz(ctx, userID, input.QuizID, fromQuizDTO(&input.Body))
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to update quiz")
	}
	return &operation.UpdateQuizOutput{Body: toQuizDTO(q)}, nil
}

func (h *QuizHandler) DeleteQuiz(ctx context.Context, input *operation.DeleteQuizInput) (*operation.DeleteQuizOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.quizService.DeleteQuiz(ctx, userID, input.QuizID); err != nil {
		return nil, toHumaError(h.logger, err, "Failed to delete quiz")
	}
	return &operation.DeleteQuizOutput{}, nil
}

func (h *QuizHandler) SubmitAttempt(ctx context.Context, input *operation.SubmitAttemptInput) (*operation.SubmitAttemptOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	sub := service.Submission{
		Answers:   make([]model.Answer, 0, len(input.Body.Answers)),
		StartedAt: input.Body.StartedAt,
	}
	for _, a := range input.Body.Answers {
		sub.Answers = append(sub.Answers, model.Answer{QuestionID: a.QuestionID, Response: a.Response})
	}

	graded, err := h.quizService.SubmitAttempt(ctx, userID, input.QuizID, sub)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to submit attempt")
	}

	out := dto.GradedAttemptResponseDTO{Attempt: toAttemptDTO(graded.Attempt)}
	if p := graded.Progress; p != nil {
		if p.Module != nil {
			mp := toModuleProgressDTO(p.Module)
			out.ModuleProgress = &mp
		}
		if p.Course != nil {
			lp := toLearningDTO(p.Course)
			out.CourseProgress = &lp
		}
	}
	return &operation.SubmitAttemptOutput{Body: out}, nil
}

func (h *QuizHandler) ListAttempts(ctx context.Context, input *operation.ListAttemptsInput) (*operation.ListAttemptsOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	attempts, err := h.quizService.ListAttempts(ctx, userID, input.QuizID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to list attempts")
	}
	return &operation.ListAttemptsOutput{Body: toAttemptDTOs(attempts)}, nil
}

func (h *QuizHandler) GetAttempt(ctx context.Context, input *operation.GetAttemptInput) (*operation.GetAttemptOutput, error) {
	userID, err := getUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	a, err := h.quizService.GetAttempt(ctx, userID, input.AttemptID)
	if err != nil {
		return nil, toHumaError(h.logger, err, "Failed to get attempt")
	}
	return &operation.GetAttemptOutput{Body: toAttemptDTO(a)}, nil
}
