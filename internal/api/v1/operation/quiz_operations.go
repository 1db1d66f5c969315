package operation

import "learntrack/internal/api/v1/dto"

// Quiz Operations

type CreateQuizInput struct {
	ModuleID string                `path:"moduleId" doc:"Module ID"`
	Body     dto.QuizDefinitionDTO `json:"body"`
}

type CreateQuizOutput struct {
	Body dto.QuizResponseDTO `json:"body"`
}

type GetQuizInput struct {
	QuizID string `path:"quizId" doc:"Quiz ID"`
}

type GetQuizOutput struct {
	Body dto.QuizResponseDTO `json:"body"`
}

type UpdateQuizInput struct {
	QuizID string                `path:"quizId" doc:"Quiz ID"`
	Body   dto.QuizDefinitionDTO `json:"body"`
}

type UpdateQuizOutput struct {
	Body dto.QuizResponseDTO `json:"body"`
}

type DeleteQuizInput struct {
	QuizID string `path:"quizId" doc:"Quiz ID"`
}

type DeleteQuizOutput struct {
	// 204 No Content
}

// Attempt Operations

type SubmitAttemptInput struct {
	QuizID string               `path:"quizId" doc:"Quiz ID"`
	Body   dto.AttemptSubmitDTO `json:"body"`
}

type SubmitAttemptOutput struct {
	Body dto.GradedAttemptResponseDTO `json:"body"`
}

type ListAttemptsInput struct {
	QuizID string `path:"quizId" doc:"Quiz ID"`
}

type ListAttemptsOutput struct {
	Body []dto.AttemptResponseDTO `json:"body"`
}

type GetAttemptInput struct {
	AttemptID string `path:"attemptId" doc:"Attempt ID"`
}

type GetAttemptOutput struct {
	Body dto.AttemptResponseDTO `json:"body"`
}
