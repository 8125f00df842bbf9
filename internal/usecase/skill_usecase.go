package usecase

import (
	"context"

	"skillmatch/internal/domain/skill"
	"skillmatch/internal/repository"
)

type SkillUsecase interface {
	// ListSkills groups the vocabulary by category. The compiled list is
	// served when the table has not been seeded yet.
	ListSkills(ctx context.Context) ([]skill.Category, error)
}

type Skills struct {
	repo repository.SkillRepository
}

func NewSkillUsecase(repo repository.SkillRepository) *Skills {
	return &Skills{repo: repo}
}

func (u *Skills) ListSkills(ctx context.Context) ([]skill.Category, error) {
	items, err := u.repo.List(ctx)
	if err != nil {
		return nil, classify("list skills", err)
	}
	if len(items) == 0 {
		return skill.Categories(), nil
	}

	out := make([]skill.Category, 0)
	idx := make(map[string]int)
	for _, it := range items {
		i, ok := idx[it.Category]
		if !ok {
			i = len(out)
			idx[it.Category] = i
			out = append(out, skill.Category{Name: it.Category})
		}
		out[i].Skills = append(out[i].Skills, it.Name)
	}
	return out, nil
}
