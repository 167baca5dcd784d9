package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"starterapi/internal/model"
)

// newTestDB opens a GORM handle over a sqlmock connection. The postgres
// dialector issues no queries at open time, so no expectations are needed
// here.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return db, mock
}

func userColumns() []string {
	return []string{"id", "created_at", "updated_at", "deleted_at", "email", "password", "name", "avatar_path"}
}

func userRow(id uint, email, name string) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(userColumns()).
		AddRow(id, now, now, nil, email, "p", name, "")
}

func TestBaseRepository_Create(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

	created, err := repo.Create(ctx, &model.User{Email: "a@x.com", Password: "p", Name: "A"})

	assert.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, uint(1), created.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_FindOne(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "email" = \$1 AND "users"."deleted_at" IS NULL`).
			WithArgs("a@x.com", 1).
			WillReturnRows(userRow(1, "a@x.com", "A"))

		opt, err := repo.FindOne(ctx, Filter{"email": "a@x.com"})

		assert.NoError(t, err)
		require.True(t, opt.IsPresent())
		assert.Equal(t, "a@x.com", opt.MustGet().Email)
	})

	t.Run("absent is not an error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		opt, err := repo.FindOne(ctx, Filter{"email": "missing@x.com"})

		assert.NoError(t, err)
		assert.True(t, opt.IsAbsent())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_FindOneOrFail(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(userRow(7, "a@x.com", "A"))

		user, err := repo.FindOneOrFail(ctx, Filter{"id": 7})

		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, uint(7), user.ID)
	})

	t.Run("absent raises EntityNotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		user, err := repo.FindOneOrFail(ctx, Filter{"id": 404})

		assert.Nil(t, user)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.EqualError(t, err, "user not found")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_FindOrCreate(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("existing match wins", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(userRow(3, "a@x.com", "A"))

		user, err := repo.FindOrCreate(ctx, Filter{"email": "a@x.com"}, &model.User{Email: "a@x.com", Name: "other"})

		assert.NoError(t, err)
		assert.Equal(t, uint(3), user.ID)
		assert.Equal(t, "A", user.Name)
	})

	t.Run("absent match creates", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))
		mock.ExpectQuery(`INSERT INTO "users"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(4))

		user, err := repo.FindOrCreate(ctx, Filter{"email": "b@x.com"}, &model.User{Email: "b@x.com", Name: "B"})

		assert.NoError(t, err)
		assert.Equal(t, uint(4), user.ID)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_Find(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("default excludes soft-deleted", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" WHERE "users"."deleted_at" IS NULL`).
			WillReturnRows(userRow(1, "a@x.com", "A"))

		users, err := repo.Find(ctx)

		assert.NoError(t, err)
		assert.Len(t, users, 1)
	})

	t.Run("no match yields empty slice", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		users, err := repo.Find(ctx, Where(Filter{"name": "nobody"}))

		assert.NoError(t, err)
		assert.NotNil(t, users)
		assert.Empty(t, users)
	})

	t.Run("with deleted, order and paging", func(t *testing.T) {
		mock.ExpectQuery(`SELECT \* FROM "users" ORDER BY created_at DESC LIMIT \$1 OFFSET \$2`).
			WithArgs(10, 5).
			WillReturnRows(userRow(2, "b@x.com", "B"))

		users, err := repo.Find(ctx, WithDeleted(), OrderBy("created_at DESC"), WithLimit(10), WithOffset(5))

		assert.NoError(t, err)
		assert.Len(t, users, 1)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_Update(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("patch then re-read", func(t *testing.T) {
		// The ORM refreshes updated_at alongside the patched columns.
		mock.ExpectExec(`UPDATE "users" SET "name"=\$1,"updated_at"=\$2 WHERE "id" = \$3 AND "users"."deleted_at" IS NULL`).
			WithArgs("B", sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(userRow(1, "a@x.com", "B"))

		opt, err := repo.Update(ctx, Filter{"id": 1}, Patch{"name": "B"})

		assert.NoError(t, err)
		require.True(t, opt.IsPresent())
		assert.Equal(t, "B", opt.MustGet().Name)
	})

	t.Run("empty re-read is absent, not an error", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "users" SET "name"=\$1,"updated_at"=\$2`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT \* FROM "users"`).
			WillReturnRows(sqlmock.NewRows(userColumns()))

		opt, err := repo.Update(ctx, Filter{"id": 404}, Patch{"name": "B"})

		assert.NoError(t, err)
		assert.True(t, opt.IsAbsent())
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_UpdateOrFail(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE "users" SET "name"=\$1,"updated_at"=\$2`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT \* FROM "users"`).
		WillReturnRows(sqlmock.NewRows(userColumns()))

	user, err := repo.UpdateOrFail(ctx, Filter{"id": 1}, Patch{"name": "B"})

	assert.Nil(t, user)
	assert.True(t, IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_SoftDelete(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	// Soft delete is an UPDATE stamping deleted_at on live rows only.
	mock.ExpectExec(`UPDATE "users" SET "deleted_at"=\$1 WHERE "id" = \$2 AND "users"."deleted_at" IS NULL`).
		WithArgs(sqlmock.AnyArg(), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.SoftDelete(ctx, Filter{"id": 1})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_DeleteOrFail(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("affected row succeeds", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.DeleteOrFail(ctx, Filter{"id": 1}))
	})

	t.Run("already deleted raises EntityNotFound", func(t *testing.T) {
		// The default filter excludes the already soft-deleted row, so the
		// second delete affects nothing.
		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteOrFail(ctx, Filter{"id": 1})
		assert.True(t, IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBaseRepository_Restore(t *testing.T) {
	db, mock := newTestDB(t)
	repo := NewBaseRepository[model.User](db)
	ctx := context.Background()

	t.Run("clears deleted_at on soft-deleted rows", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=\$1,"updated_at"=\$2 WHERE "id" = \$3 AND deleted_at IS NOT NULL`).
			WithArgs(nil, sqlmock.AnyArg(), 1).
			WillReturnResult(sqlmock.NewResult(0, 1))

		affected, err := repo.Restore(ctx, Filter{"id": 1})

		assert.NoError(t, err)
		assert.Equal(t, int64(1), affected)
	})

	t.Run("never-deleted record raises EntityNotFound on RestoreOrFail", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "users" SET "deleted_at"=`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RestoreOrFail(ctx, Filter{"id": 1})
		assert.True(t, IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
