package people

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"

	"github.com/circdesk/circdesk/pkg/auth"
	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

// Service handles the person directory. Members and staff share one table;
// the role tag decides which payload columns are populated.
type Service struct {
	db *bun.DB
}

// NewService creates a new people service.
func NewService(db *bun.DB) *Service {
	return &Service{db: db}
}

// CreatePersonOptions contains options for enrolling a person.
type CreatePersonOptions struct {
	Name        string
	Password    string
	ContactInfo string
	Role        string
	Salary      *float64
}

// CreatePerson enrolls a member or staff person. Members get an ACTIVE
// account with the default loan cap; staff carry a salary instead.
func (s *Service) CreatePerson(ctx context.Context, opts CreatePersonOptions) (*models.Person, error) {
	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	person := &models.Person{
		Name:         opts.Name,
		PasswordHash: hashedPassword,
		ContactInfo:  opts.ContactInfo,
		RoleName:     opts.Role,
	}

	if opts.Role == models.RoleMember {
		status := models.AccountActive
		limit := models.DefaultMaxBookLimit
		person.AccountStatus = &status
		person.MaxBookLimit = &limit
	} else {
		salary := 0.0
		if opts.Salary != nil {
			salary = *opts.Salary
		}
		person.Salary = &salary
	}

	if _, err := s.db.NewInsert().Model(person).Exec(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return s.RetrievePerson(ctx, person.ID)
}

// RetrievePerson gets a single person by id.
func (s *Service) RetrievePerson(ctx context.Context, id int) (*models.Person, error) {
	person := &models.Person{}
	err := s.db.NewSelect().
		Model(person).
		Relation("Role").
		Relation("Role.Permissions").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Person")
		}
		return nil, errors.WithStack(err)
	}
	return person, nil
}

// ListPeopleOptions contains options for listing persons.
type ListPeopleOptions struct {
	Role *string
}

// ListPeople returns directory entries ordered by id, optionally filtered by
// role tag.
func (s *Service) ListPeople(ctx context.Context, opts ListPeopleOptions) ([]*models.Person, error) {
	people := []*models.Person{}

	query := s.db.NewSelect().
		Model(&people).
		Order("p.id ASC")

	if opts.Role != nil {
		query = query.Where("p.role = ?", *opts.Role)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return people, nil
}

// UpdatePersonOptions contains options for updating a person.
type UpdatePersonOptions struct {
	Columns []string
}

// UpdatePerson updates the given columns of a person.
func (s *Service) UpdatePerson(ctx context.Context, person *models.Person, opts UpdatePersonOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}
	opts.Columns = append(opts.Columns, "updated_at")
	_, err := s.db.NewUpdate().
		Model(person).
		Column(opts.Columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// ListLoansForPerson returns a person's loan history newest first. This is the
// directory's dashboard view over the ledger; the ledger itself lives in the
// loans package.
func (s *Service) ListLoansForPerson(ctx context.Context, personID int) ([]*models.Loan, error) {
	if _, err := s.RetrievePerson(ctx, personID); err != nil {
		return nil, err
	}

	loans := []*models.Loan{}
	err := s.db.NewSelect().
		Model(&loans).
		Relation("BookItem").
		Relation("BookItem.BookTitle").
		Where("l.borrower_id = ?", personID).
		Order("l.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return loans, nil
}

// DeletePerson removes a person from the directory. A person can never remove
// their own record.
func (s *Service) DeletePerson(ctx context.Context, id, requesterID int) error {
	if id == requesterID {
		return errcodes.InvalidOperation("Cannot delete your own record")
	}

	exists, err := s.db.NewSelect().
		Model((*models.Person)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Person")
	}

	_, err = s.db.NewDelete().
		Model((*models.Person)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return errors.WithStack(err)
}
