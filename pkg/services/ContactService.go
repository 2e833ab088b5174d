package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/danielcfuentes/album-studio/pkg/models"
	"github.com/google/uuid"
	"github.com/rfberaldo/sqlz"
)

type ContactServicer interface {
	Submit(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error)
	List(ctx context.Context) ([]models.ContactSubmission, error)
	Delete(ctx context.Context, id string) error
}

type ContactServiceConfig struct {
	DB *sqlz.DB
}

type ContactService struct {
	db *sqlz.DB
}

func NewContactService(config ContactServiceConfig) ContactService {
	return ContactService{
		db: config.DB,
	}
}

func (s ContactService) Submit(ctx context.Context, submission models.ContactSubmission) (models.ContactSubmission, error) {
	var (
		err error
	)

	if submission, err = newContactSubmission(submission); err != nil {
		return submission, err
	}

	sql := `
INSERT INTO contact_submissions (
   id
   , name
   , email
   , message
   , created_at
) VALUES (?, ?, ?, ?, ?)
`

	params := []any{
		submission.ID,
		submission.Name,
		submission.Email,
		submission.Message,
		submission.CreatedAt,
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if _, err = s.db.Exec(ctx, sql, params...); err != nil {
		return models.ContactSubmission{}, fmt.Errorf("error inserting contact submission from '%s': %w", submission.Email, err)
	}

	return submission, nil
}

/*
List returns submissions newest first.
*/
func (s ContactService) List(ctx context.Context) ([]models.ContactSubmission, error) {
	var (
		err error
	)

	result := []models.ContactSubmission{}

	sql := `
SELECT
   c.id
   , c.name
   , c.email
   , c.message
   , c.created_at
FROM contact_submissions AS c
ORDER BY c.created_at DESC, c.rowid DESC
`

	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	if err = s.db.Query(ctx, &result, sql); err != nil {
		return result, fmt.Errorf("error querying for contact submissions: %w", err)
	}

	return result, nil
}

func (s ContactService) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second*5)
	defer cancel()

	result, err := s.db.Exec(ctx, "DELETE FROM contact_submissions WHERE id=?", id)

	if err != nil {
		return fmt.Errorf("error deleting contact submission %s: %w", id, err)
	}

	affected, err := result.RowsAffected()

	if err != nil {
		return fmt.Errorf("error deleting contact submission %s: %w", id, err)
	}

	if affected == 0 {
		return models.ErrContactNotFound
	}

	return nil
}

func newContactSubmission(submission models.ContactSubmission) (models.ContactSubmission, error) {
	submission.Name = strings.TrimSpace(submission.Name)
	submission.Email = strings.TrimSpace(submission.Email)
	submission.Message = strings.TrimSpace(submission.Message)

	if err := submission.Validate(); err != nil {
		return models.ContactSubmission{}, err
	}

	submission.ID = uuid.NewString()
	submission.CreatedAt = time.Now().UTC().Truncate(time.Second)
	return submission, nil
}
