package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syncup/syncup/models"
	"github.com/syncup/syncup/store"
	"github.com/syncup/syncup/testutils"
)

func TestCommentRepository_ListByPost(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	now := time.Now()

	mock.ExpectQuery("SELECT \\* FROM `comments` WHERE post_id = \\? ORDER BY created_at DESC, id DESC").
		WithArgs(4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "post_id", "user_id", "content", "created_at"}).
			AddRow(9, 4, 2, "second", now).
			AddRow(8, 4, 3, "first", now.Add(-time.Minute)))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` IN \\(\\?,\\?\\)").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Ben").AddRow(3, "Cleo"))

	comments, err := store.NewCommentRepository(db).ListByPost(context.Background(), 4)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "Ben", comments[0].User.Name)
	assert.Equal(t, "Cleo", comments[1].User.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentRepository_CreateAndDelete(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := store.NewCommentRepository(db)

	mock.ExpectExec("INSERT INTO `comments`").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"})
	err := repo.Create(context.Background(), &models.Comment{PostID: 4, UserID: 2, Content: "late"})
	assert.ErrorIs(t, err, store.ErrForeignKey)

	mock.ExpectExec("DELETE FROM `comments` WHERE `comments`.`id` = \\?").
		WithArgs(9).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repo.Delete(context.Background(), 9), store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := store.NewUserRepository(db)

	mock.ExpectExec("INSERT INTO `users`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@campus.edu' for key 'idx_users_email'"})
	err := repo.Create(context.Background(), &models.User{Name: "Ana", Email: "ana@campus.edu", PasswordHash: "h"})
	assert.ErrorIs(t, err, store.ErrDuplicate)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE email = \\? ORDER BY `users`.`id` LIMIT \\?").
		WithArgs("ana@campus.edu", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email"}).AddRow(1, "Ana", "ana@campus.edu"))
	user, err := repo.FindByEmail(context.Background(), "  ANA@campus.edu ")
	require.NoError(t, err)
	assert.EqualValues(t, 1, user.ID)

	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	_, err = repo.FindByID(context.Background(), 42)
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubRepository_CreateEnrollsOwner(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `clubs`").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO `memberships`").
		WithArgs(1, 3, models.RoleOwner, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	club := models.Club{Name: "Chess", CreatedBy: 1}
	require.NoError(t, store.NewClubRepository(db).Create(context.Background(), &club))
	assert.EqualValues(t, 3, club.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubRepository_AddMemberTwice(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO `memberships`").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})
	err := store.NewClubRepository(db).AddMember(context.Background(), &models.Membership{UserID: 1, ClubID: 3, Role: models.RoleMember})
	assert.ErrorIs(t, err, store.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClubRepository_ListSearchAndCounts(t *testing.T) {
	db, mock, cleanup := testutils.SetupTestDB(t)
	defer cleanup()
	repo := store.NewClubRepository(db)

	mock.ExpectQuery("SELECT \\* FROM `clubs` WHERE name LIKE \\? OR description LIKE \\? ORDER BY created_at DESC, id DESC").
		WithArgs("%chess%", "%chess%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_by"}).AddRow(3, "Chess", 1))
	mock.ExpectQuery("SELECT \\* FROM `users` WHERE `users`.`id` = \\?").
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "Ana"))

	clubs, err := repo.List(context.Background(), " chess ")
	require.NoError(t, err)
	require.Len(t, clubs, 1)
	assert.Equal(t, "Ana", clubs[0].Creator.Name)

	mock.ExpectQuery("SELECT club_id, COUNT\\(\\*\\) AS n FROM `memberships` WHERE club_id IN \\(\\?\\) GROUP BY `club_id`").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"club_id", "n"}).AddRow(3, 5))
	members, err := repo.CountMembers(context.Background(), []uint{3})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{3: 5}, members)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsDuplicateAndForeignKey(t *testing.T) {
	assert.True(t, store.IsDuplicate(&mysql.MySQLError{Number: 1062}))
	assert.False(t, store.IsDuplicate(&mysql.MySQLError{Number: 1452}))
	assert.True(t, store.IsForeignKeyViolation(&mysql.MySQLError{Number: 1452}))
	assert.True(t, store.IsDuplicate(store.ErrDuplicate))
	assert.False(t, store.IsForeignKeyViolation(store.ErrNotFound))

	// postgres reports constraint failures by SQLSTATE
	assert.True(t, store.IsDuplicate(&pgconn.PgError{Code: "23505"}))
	assert.True(t, store.IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, store.IsDuplicate(&pgconn.PgError{Code: "23503"}))
}
