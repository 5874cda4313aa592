package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Status mutations run as raw statements so boolean and string columns can
// be cleared; the ORM update path skips zero values.
var (
	banUserSQL = `UPDATE "users" AS "usr"
SET
	"is_banned" = TRUE,
	"ban_reason" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

	unbanUserSQL = `UPDATE "users" AS "usr"
SET
	"is_banned" = FALSE,
	"ban_reason" = ''
WHERE
	"usr"."id" = ?
RETURNING *;`

	archiveUserSQL = `UPDATE "users" AS "usr"
SET
	"archived_at" = ?
WHERE
	"usr"."id" = ?
RETURNING *;`

	restoreUserSQL = `UPDATE "users" AS "usr"
SET
	"archived_at" = NULL
WHERE
	"usr"."id" = ?
RETURNING *;`

)

type Users interface {
	repository.Repository[*User]

	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	CreateAccount(ctx context.Context, email, passwordHash string) (*User, error)
	SaveAccount(ctx context.Context, user *User) (*User, error)

	Ban(ctx context.Context, id uuid.UUID, reason string) (*User, error)
	Unban(ctx context.Context, id uuid.UUID) (*User, error)
	Archive(ctx context.Context, id uuid.UUID) (*User, error)
	Restore(ctx context.Context, id uuid.UUID) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var (
	_ Users                        = (*users)(nil)
	_ repository.Repository[*User] = (*users)(nil)
	_ AccountStore                 = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	repo := repository.NewRepository[*User](db, repository.ModelHandlers[*User]{
		NewRecord: func() *User { return &User{} },
		GetID: func(u *User) uuid.UUID {
			if u == nil {
				return uuid.Nil
			}
			return u.ID
		},
		SetID: func(u *User, id uuid.UUID) {
			if u != nil {
				u.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &users{
		Repository: repo,
		db:         db,
	}
}

func (a *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return a.FindByEmailTx(ctx, a.db, email)
}

func (a *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", NormalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": NormalizeEmail(email),
				})
		}
		return nil, err
	}

	return record, nil
}

func (a *users) FindByID(ctx context.Context, id string) (*User, error) {
	return a.Repository.GetByID(ctx, id)
}

func (a *users) CreateAccount(ctx context.Context, email, passwordHash string) (*User, error) {
	record := &User{
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
	}

	prepareUserDefaults(record)

	return a.Repository.CreateTx(ctx, a.db, record)
}

func (a *users) SaveAccount(ctx context.Context, user *User) (*User, error) {
	return a.Repository.UpdateTx(ctx, a.db, user, repository.UpdateByID(user.ID.String()))
}

func (a *users) Ban(ctx context.Context, id uuid.UUID, reason string) (*User, error) {
	return a.rawMutation(ctx, banUserSQL, reason, id.String())
}

func (a *users) Unban(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.rawMutation(ctx, unbanUserSQL, id.String())
}

func (a *users) Archive(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.rawMutation(ctx, archiveUserSQL, time.Now(), id.String())
}

func (a *users) Restore(ctx context.Context, id uuid.UUID) (*User, error) {
	return a.rawMutation(ctx, restoreUserSQL, id.String())
}

func (a *users) rawMutation(ctx context.Context, sql string, args ...any) (*User, error) {
	res, err := a.Repository.RawTx(ctx, a.db, sql, args...)
	if err != nil {
		return nil, err
	}

	if len(res) == 0 {
		return nil, repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"args": args,
			})
	}

	return res[0], nil
}

func prepareUserDefaults(record *User) {
	if record == nil {
		return
	}

	record.Email = NormalizeEmail(record.Email)

	// Account ids are derived from the normalized email, so re-registering
	// a purged address maps back to a stable identifier.
	if record.ID == uuid.Nil {
		if id, err := hashid.NewUUID(record.Email); err == nil {
			record.ID = id
		} else {
			record.ID = uuid.New()
		}
	}
}
