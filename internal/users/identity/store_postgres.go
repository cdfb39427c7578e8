// Copyright (c) 2026 HallyuLatino. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hallyulatino/api/internal/platform/apperr"
	"github.com/hallyulatino/api/internal/platform/database/schema"
	"github.com/hallyulatino/api/internal/platform/dberr"
	"github.com/hallyulatino/api/pkg/pagination"
)

// accountTable names the users.account table and its columns.
var accountTable = schema.UserAccount

// Queries are assembled once from the schema definition.
var (
	insertAccountQuery = fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		accountTable.Table, accountTable.Select(), placeholders(1, len(accountTable.Columns())))

	selectAccountQuery = fmt.Sprintf(`SELECT %s FROM %s`, accountTable.Select(), accountTable.Table)

	updateAccountQuery = fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1`,
		accountTable.Table, assignments(accountTable.MutableColumns(), 2), accountTable.ID)
)

func placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(parts, ", ")
}

func assignments(columns []string, from int) string {
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("%s = $%d", column, from+i)
	}
	return strings.Join(parts, ", ")
}

// # User Repository

// DBTX is the query surface the repository needs.
//
// A *pgxpool.Pool and a pgx.Tx both satisfy it.
type DBTX interface {
	Exec(context context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(context context.Context, sql string, arguments ...any) (pgx.Rows, error)
	QueryRow(context context.Context, sql string, arguments ...any) pgx.Row
}

// PostgresUserRepository implements [UserRepository] on the users.account table.
//
// # Error Mapping
//
// pgx.ErrNoRows becomes a nil account. A unique violation on the email index
// becomes apperr.CodeEmailAlreadyExists and one on the provider identity index
// becomes apperr.CodeConflict. Everything else is wrapped and surfaces as a 500.
type PostgresUserRepository struct {
	pool DBTX
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool DBTX) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Initializes timestamps if not provided. The unique index on email
decides concurrent registrations; the loser receives EmailAlreadyExists.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - *User: the persisted entity
  - error: apperr.CodeEmailAlreadyExists or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, user *User) (*User, error) {
	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = now
	}

	_, err := repository.pool.Exec(context, insertAccountQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.Country,
		user.PreferredLanguage,
		user.IsActive,
		user.IsVerified,
		user.Role,
		user.AvatarURL,
		user.OAuthProvider,
		user.OAuthID,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return nil, writeError(err, "postgres_user_repo_create_failed")
	}

	return user, nil
}

/*
FindByID retrieves a user record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity, nil when absent
  - error: execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectAccountQuery + ` WHERE ` + accountTable.ID + ` = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return user, nil
}

/*
FindByEmail retrieves a user record by its normalized email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity, nil when absent
  - error: execution errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectAccountQuery + ` WHERE ` + accountTable.Email + ` = $1`

	user, err := scanUser(repository.pool.QueryRow(context, query, email))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return user, nil
}

// FindByExternalIdentity retrieves the account linked to a provider identity.
func (repository *PostgresUserRepository) FindByExternalIdentity(context context.Context, provider, providerID string) (*User, error) {
	query := fmt.Sprintf(`%s WHERE %s = $1 AND %s = $2`, selectAccountQuery, accountTable.OAuthProvider, accountTable.OAuthID)

	user, err := scanUser(repository.pool.QueryRow(context, query, provider, providerID))
	if err != nil {
		return nil, fmt.Errorf("postgres_user_repo_find_by_external_identity_failed: %w", err)
	}

	return user, nil
}

// ExistsByEmail reports whether any account uses the given normalized email.
func (repository *PostgresUserRepository) ExistsByEmail(context context.Context, email string) (bool, error) {
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s = $1)`, accountTable.Table, accountTable.Email)

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("postgres_user_repo_exists_by_email_failed: %w", err)
	}

	return exists, nil
}

/*
Update persists every mutable field of the account.

Description: Synchronizes the in-memory aggregate with the database. The
updatedat column takes the aggregate's own timestamp, which every mutator bumps.

Returns:
  - *User: the persisted entity
  - error: apperr.CodeEmailAlreadyExists or update failures
*/
func (repository *PostgresUserRepository) Update(context context.Context, user *User) (*User, error) {
	if user.UpdatedAt.IsZero() {
		user.UpdatedAt = time.Now().UTC()
	}

	tag, err := repository.pool.Exec(context, updateAccountQuery,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Nickname,
		user.Country,
		user.PreferredLanguage,
		user.IsActive,
		user.IsVerified,
		user.Role,
		user.AvatarURL,
		user.OAuthProvider,
		user.OAuthID,
		user.UpdatedAt,
	)

	if err != nil {
		return nil, writeError(err, "postgres_user_repo_update_failed")
	}

	if tag.RowsAffected() == 0 {
		return nil, apperr.UserNotFound()
	}

	return user, nil
}

// Delete physically removes the account row.
func (repository *PostgresUserRepository) Delete(context context.Context, id string) (bool, error) {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, accountTable.Table, accountTable.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return false, fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

/*
List returns one page of accounts ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*User: the requested page
  - int: total number of accounts
  - error: query failures
*/
func (repository *PostgresUserRepository) List(context context.Context, params pagination.Params) ([]*User, int, error) {
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, accountTable.Table)
	pageQuery := fmt.Sprintf(`%s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		selectAccountQuery, accountTable.CreatedAt, accountTable.ID)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	rows, err := repository.pool.Query(context, pageQuery, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0, params.Limit)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_list_scan_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}

	return users, total, nil
}

// writeError classifies an INSERT or UPDATE failure.
//
// The email index maps to EmailAlreadyExists. Any other unique index is a
// generic conflict. Everything else is wrapped under event.
func writeError(err error, event string) error {
	if !dberr.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", event, err)
	}

	if constraint := dberr.ConstraintName(err); constraint == "" || constraint == accountTable.EmailKey {
		return apperr.EmailAlreadyExists().WithCause(err)
	}

	return dberr.Wrap(err)
}

// scanUser hydrates a User from a row. A missing row yields (nil, nil).
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Nickname,
		&user.Country,
		&user.PreferredLanguage,
		&user.IsActive,
		&user.IsVerified,
		&user.Role,
		&user.AvatarURL,
		&user.OAuthProvider,
		&user.OAuthID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}
