package services

import (
	"context"
	"slices"

	"github.com/danielcfuentes/album-studio/pkg/models"
)

type LocalContactServiceConfig struct {
	Store LocalStore
}

type LocalContactService struct {
	store LocalStore
}

func NewLocalContactService(config LocalContactServiceConfig) LocalContactService {
	return LocalContactService{
		store: config.Store,
	}
}

func (s LocalContactService) Submit(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error) {
	var err error

	if submission, err = newContactSubmission(submission); err != nil {
		return submission, err
	}

	err = s.store.change(func(doc *localDocument) error {
		doc.Contacts = append([]models.ContactSubmission{submission}, doc.Contacts...)
		return nil
	})

	if err != nil {
		return models.ContactSubmission{}, err
	}

	return submission, nil
}

/*
List returns submissions newest first.
*/
func (s LocalContactService) List(ctx context.Context) ([]models.ContactSubmission, error) {
	var result []models.ContactSubmission

	s.store.view(func(doc *localDocument) {
		result = slices.Clone(doc.Contacts)
	})

	if result == nil {
		result = []models.ContactSubmission{}
	}

	return result, nil
}

func (s LocalContactService) Delete(ctx context.Context, id string) error {
	return s.store.change(func(doc *localDocument) error {
		index := slices.IndexFunc(doc.Contacts, func(c models.ContactSubmission) bool { return c.ID == id })

		if index < 0 {
			return models.ErrContactNotFound
		}

		doc.Contacts = slices.Delete(doc.Contacts, index, index+1)
		return nil
	})
}
