package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/blogkeeper/internal/common"
	"github.com/dmitrijs2005/blogkeeper/internal/cryptox"
	"github.com/dmitrijs2005/blogkeeper/internal/dbx"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/models"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/users"
)

const (
	msgUserNotFound  = "User not found"
	msgEmailTaken    = "Email already registered"
	msgUsernameTaken = "Username already taken"
	msgUserHasPosts  = "User has blog posts"
)

// RegisterInput carries a new account; Password is plaintext.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName *string
}

// UserService manages accounts and issues access tokens on login.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      cryptox.Hasher
	tokens      *auth.TokenService
	now         func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher cryptox.Hasher, tokens *auth.TokenService) *UserService {
	return &UserService{db: db, repomanager: m, hasher: hasher, tokens: tokens, now: now}
}

// Register checks email before username, hashes the password and stores the
// user. The unique constraints catch registrations racing past the checks.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := checkAccount(&in.Username, &in.Email); err != nil {
		return nil, err
	}

	_, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.checkUnique(ctx, s.repomanager.Users(conn), &in.Email, &in.Username, "")
	})
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}

	ts := s.now()
	user := &models.User{
		ID:             newID(),
		Username:       in.Username,
		Email:          in.Email,
		HashedPassword: hash,
		FullName:       in.FullName,
		IsActive:       true,
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	_, err = write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		return struct{}{}, s.repomanager.Users(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return user, nil
}

// Login returns an access token for valid credentials. Unknown usernames
// and wrong passwords fail with the same error after the same bcrypt work.
func (s *UserService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.FindByUsername(ctx, username)
	found, err := exists(err)
	if err != nil {
		return "", err
	}
	if !found {
		s.hasher.Burn(password)
		return "", common.InvalidLogin()
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return "", common.InvalidLogin()
	}

	token, err := s.tokens.IssueAccessToken(user.Username)
	if err != nil {
		return "", common.Classify(err)
	}
	return token, nil
}

// FindByUsername resolves a token subject to its user.
func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(conn).GetByUsername(ctx, username)
	})
	return user, classify(err, msgUserNotFound)
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	user, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(conn).GetByID(ctx, id)
	})
	return user, classify(err, msgUserNotFound)
}

func (s *UserService) List(ctx context.Context, page models.Page) ([]*models.User, error) {
	list, err := read(ctx, s.db, func(ctx context.Context, conn dbx.DBTX) ([]*models.User, error) {
		return s.repomanager.Users(conn).List(ctx, page)
	})
	return list, classify(err, msgUserNotFound)
}

// Update applies patch; a password in the patch is hashed first.
func (s *UserService) Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error) {
	if err := checkAccount(patch.Username, patch.Email); err != nil {
		return nil, err
	}
	if patch.Password != nil {
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, classify(err, msgUserNotFound)
		}
		patch.HashedPassword = &hash
		patch.Password = nil
	}

	user, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}

		var email, username *string
		if patch.Email != nil && *patch.Email != user.Email {
			email = patch.Email
		}
		if patch.Username != nil && *patch.Username != user.Username {
			username = patch.Username
		}
		if err := s.checkUnique(ctx, repo, email, username, id); err != nil {
			return nil, err
		}

		patch.Apply(user)
		user.UpdatedAt = models.Touch(user.UpdatedAt, s.now())
		if err := repo.Update(ctx, user); err != nil {
			return nil, err
		}
		return user, nil
	})
	if err != nil {
		return nil, classify(err, msgUserNotFound)
	}
	return user, nil
}

// Delete refuses to remove a user who still authors blog posts.
func (s *UserService) Delete(ctx context.Context, id string) error {
	_, err := write(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (struct{}, error) {
		repo := s.repomanager.Users(tx)
		if _, err := repo.GetForUpdate(ctx, id); err != nil {
			return struct{}{}, err
		}
		n, err := repo.CountPostsByAuthor(ctx, id)
		if err != nil {
			return struct{}{}, err
		}
		if n > 0 {
			return struct{}{}, common.Conflict(msgUserHasPosts)
		}
		return struct{}{}, repo.Delete(ctx, id)
	})
	return classify(err, msgUserNotFound)
}

// checkUnique reports Conflict when email or username (when non-nil) belong
// to a user other than selfID. Email is checked first.
func (s *UserService) checkUnique(ctx context.Context, repo users.Repository, email, username *string, selfID string) error {
	if email != nil {
		other, err := repo.GetByEmail(ctx, *email)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && other.ID != selfID {
			return common.Conflict(msgEmailTaken)
		}
	}
	if username != nil {
		other, err := repo.GetByUsername(ctx, *username)
		found, err := exists(err)
		if err != nil {
			return err
		}
		if found && other.ID != selfID {
			return common.Conflict(msgUsernameTaken)
		}
	}
	return nil
}
