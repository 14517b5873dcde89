package auth

import (
	"context"
	"database/sql"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
	"golang.org/x/crypto/bcrypt"

	"github.com/circdesk/circdesk/pkg/errcodes"
	"github.com/circdesk/circdesk/pkg/models"
)

const (
	// BcryptCost is the cost factor for bcrypt hashing.
	BcryptCost = 12
	// TokenExpiry is how long JWT tokens are valid.
	TokenExpiry = 7 * 24 * time.Hour // 7 days
)

// CredentialVerifier compares a presented credential against the stored hash.
// The directory only ever sees hashes; swapping the scheme (e.g. for a legacy
// plaintext import) means swapping this implementation, not the contract.
type CredentialVerifier interface {
	Verify(password, hash string) bool
}

// BcryptVerifier is the default CredentialVerifier.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// JWTClaims represents the claims in a JWT token.
type JWTClaims struct {
	PersonID int    `json:"person_id"`
	Name     string `json:"name"`
	jwt.RegisteredClaims
}

// Service handles authentication operations.
type Service struct {
	db        *bun.DB
	jwtSecret []byte
	verifier  CredentialVerifier
}

// NewService creates a new auth service with bcrypt credential verification.
func NewService(db *bun.DB, jwtSecret string) *Service {
	return NewServiceWithVerifier(db, jwtSecret, BcryptVerifier{})
}

// NewServiceWithVerifier creates a new auth service with a custom credential
// verifier.
func NewServiceWithVerifier(db *bun.DB, jwtSecret string, verifier CredentialVerifier) *Service {
	return &Service{
		db:        db,
		jwtSecret: []byte(jwtSecret),
		verifier:  verifier,
	}
}

// CountPersons returns the total number of persons in the directory.
func (s *Service) CountPersons(ctx context.Context) (int, error) {
	count, err := s.db.NewSelect().Model((*models.Person)(nil)).Count(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return count, nil
}

// Authenticate validates an id/password pair and returns the person if valid.
func (s *Service) Authenticate(ctx context.Context, personID int, password string) (*models.Person, error) {
	person := &models.Person{}
	err := s.db.NewSelect().
		Model(person).
		Relation("Role").
		Relation("Role.Permissions").
		Where("p.id = ?", personID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.Unauthorized("Invalid id or password")
		}
		return nil, errors.WithStack(err)
	}

	if !s.verifier.Verify(password, person.PasswordHash) {
		return nil, errcodes.Unauthorized("Invalid id or password")
	}

	return person, nil
}

// GenerateToken creates a new JWT token for the person.
func (s *Service) GenerateToken(person *models.Person) (string, error) {
	now := time.Now()
	claims := JWTClaims{
		PersonID: person.ID,
		Name:     person.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", errors.WithStack(err)
	}

	return signedToken, nil
}

// ValidateToken validates a JWT token and returns the claims.
func (s *Service) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetPersonByID retrieves a person by ID with their role and permissions.
func (s *Service) GetPersonByID(ctx context.Context, id int) (*models.Person, error) {
	person := &models.Person{}
	err := s.db.NewSelect().
		Model(person).
		Relation("Role").
		Relation("Role.Permissions").
		Where("p.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return person, nil
}

// CreateFirstAdmin creates the first admin during setup. It fails once any
// person exists so the endpoint can't be replayed.
func (s *Service) CreateFirstAdmin(ctx context.Context, name, password, contactInfo string) (*models.Person, error) {
	count, err := s.CountPersons(ctx)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, errcodes.Forbidden("Setup has already been completed")
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	salary := 0.0
	person := &models.Person{
		Name:         name,
		PasswordHash: hashedPassword,
		ContactInfo:  contactInfo,
		RoleName:     models.RoleAdmin,
		Salary:       &salary,
	}

	_, err = s.db.NewInsert().Model(person).Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return s.GetPersonByID(ctx, person.ID)
}

// HashPassword hashes a password using bcrypt.
func HashPassword(password string) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(hashedPassword), nil
}
