package handler

import (
	"learntrack/internal/api/v1/dto"
	"learntrack/internal/content"
	"learntrack/internal/model"
)

func toCourseDTO(c *model.Course) dto.CourseResponseDTO {
	return dto.CourseResponseDTO{
		ID:             c.ID,
		InstructorID:   c.InstructorID,
		Title:          c.Title,
		Description:    c.Description,
		Category:       c.Category,
		Level:          c.Level,
		Tags:           nonNil(c.Tags),
		Syllabus:       nonNil(c.Syllabus),
		EstimatedHours: c.EstimatedHours,
		Published:      c.Published,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func toCourseDTOs(cs []model.Course) []dto.CourseResponseDTO {
	out := make([]dto.CourseResponseDTO, 0, len(cs))
	for i := range cs {
		out = append(out, toCourseDTO(&cs[i]))
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func toContentDTO(c model.ModuleContent) dto.ModuleContentDTO {
	return dto.ModuleContentDTO{
		URL:             c.URL,
		Body:            c.Body,
		StorageKey:      c.StorageKey,
		DurationMinutes: c.DurationMinutes,
		Instructions:    c.Instructions,
		DueInDays:       c.DueInDays,
	}
}

// fromContentDTO ignores storage_key; it is only set by the upload flow.
func fromContentDTO(c *dto.ModuleContentDTO) model.ModuleContent {
	if c == nil {
		return model.ModuleContent{}
	}
	return model.ModuleContent{
		URL:             c.URL,
		Body:            c.Body,
		DurationMinutes: c.DurationMinutes,
		Instructions:    c.Instructions,
		DueInDays:       c.DueInDays,
	}
}

func toModuleDTO(m *model.Module) dto.ModuleResponseDTO {
	return dto.ModuleResponseDTO{
		ID:               m.ID,
		CourseID:         m.CourseID,
		Title:            m.Title,
		Description:      m.Description,
		Type:             m.Type,
		Content:          toContentDTO(m.Content),
		QuizID:           m.QuizID,
		EstimatedMinutes: content.EstimatedMinutes(m.Type, m.Content),
		Order:            m.Order,
		Required:         m.Required,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func toModuleDTOs(ms []model.Module) []dto.ModuleResponseDTO {
	out := make([]dto.ModuleResponseDTO, 0, len(ms))
	for i := range ms {
		out = append(out, toModuleDTO(&ms[i]))
	}
	return out
}

func fromQuizDTO(in *dto.QuizDefinitionDTO) *model.Quiz {
	q := &model.Quiz{
		Title:            in.Title,
		PassingScore:     model.DefaultPassingScore,
		TimeLimitMinutes: in.TimeLimitMinutes,
		MaxAttempts:      in.MaxAttempts,
		Shuffle:          in.Shuffle,
		Questions:        make([]model.Question, 0, len(in.Questions)),
	}
	if in.PassingScore != nil {
		q.PassingScore = *in.PassingScore
	}
	for _, qs := range in.Questions {
		q.Questions = append(q.Questions, model.Question{
			ID:             qs.ID,
			Prompt:         qs.Prompt,
			Type:           qs.Type,
			Options:        qs.Options,
			CorrectAnswers: qs.CorrectAnswers,
			Points:         qs.Points,
			Explanation:    qs.Explanation,
		})
	}
	return q
}

func toQuizDTO(q *model.Quiz) dto.QuizResponseDTO {
	out := dto.QuizResponseDTO{
		ID:               q.ID,
		CourseID:         q.CourseID,
		ModuleID:         q.ModuleID,
		Title:            q.Title,
		Questions:        make([]dto.QuestionDTO, 0, len(q.Questions)),
		MaxScore:         q.MaxScore(),
		PassingScore:     q.PassingScore,
		TimeLimitMinutes: q.TimeLimitMinutes,
		MaxAttempts:      q.MaxAttempts,
		Shuffle:          q.Shuffle,
		CreatedAt:        q.CreatedAt,
		UpdatedAt:        q.UpdatedAt,
	}
	for _, qs := range q.Questions {
		out.Questions = append(out.Questions, dto.QuestionDTO{
			ID:             qs.ID,
			Prompt:         qs.Prompt,
			Type:           qs.Type,
			Options:        qs.Options,
			CorrectAnswers: qs.CorrectAnswers,
			Points:         qs.Points,
			Explanation:    qs.Explanation,
		})
	}
	return out
}

func toAttemptDTO(a *model.QuizAttempt) dto.AttemptResponseDTO {
	out := dto.AttemptResponseDTO{
		ID:            a.ID,
		QuizID:        a.QuizID,
		CourseID:      a.CourseID,
		ModuleID:      a.ModuleID,
		AttemptNumber: a.AttemptNumber,
		Answers:       make([]dto.AnswerDTO, 0, len(a.Answers)),
		Results:       make([]dto.QuestionResultDTO, 0, len(a.Results)),
		Score:         a.Score,
		MaxScore:      a.MaxScore,
		Percentage:    a.Percentage,
		Passed:        a.Passed,
		StartedAt:     a.StartedAt,
		SubmittedAt:   a.SubmittedAt,
	}
	for _, ans := range a.Answers {
		out.Answers = append(out.Answers, dto.AnswerDTO{QuestionID: ans.QuestionID, Response: nonNil(ans.Response)})
	}
	for _, r := range a.Results {
		out.Results = append(out.Results, dto.QuestionResultDTO{
			QuestionID:    r.QuestionID,
			Correct:       r.Correct,
			PointsAwarded: r.PointsAwarded,
			MaxPoints:     r.MaxPoints,
		})
	}
	return out
}

func toAttemptDTOs(as []model.QuizAttempt) []dto.AttemptResponseDTO {
	out := make([]dto.AttemptResponseDTO, 0, len(as))
	for i := range as {
		out = append(out, toAttemptDTO(&as[i]))
	}
	return out
}

func toLearningDTO(p *model.LearningProgress) dto.LearningProgressDTO {
	return dto.LearningProgressDTO{
		ID:                   p.ID,
		CourseID:             p.CourseID,
		Status:               p.Status,
		CompletionPercentage: p.CompletionPercentage,
		CompletedModules:     nonNil(p.CompletedModules),
		CurrentModuleID:      p.CurrentModuleID,
		TimeSpentMinutes:     p.TimeSpentMinutes,
		StartedAt:            p.StartedAt,
		LastAccessedAt:       p.LastAccessedAt,
		CompletedAt:          p.CompletedAt,
	}
}

func toModuleProgressDTO(p *model.ModuleProgress) dto.ModuleProgressDTO {
	return dto.ModuleProgressDTO{
		ModuleID:             p.ModuleID,
		CourseID:             p.CourseID,
		Status:               p.Status,
		CompletionPercentage: p.CompletionPercentage,
		TimeSpentMinutes:     p.TimeSpentMinutes,
		BestQuizScore:        p.BestQuizScore,
		QuizAttempts:         p.QuizAttempts,
		LastAccessedAt:       p.LastAccessedAt,
		CompletedAt:          p.CompletedAt,
	}
}
