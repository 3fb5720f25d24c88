package audit

import (
	"bytes"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	return NewStore(gormDB), mock
}

func TestStoreSave(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "audit_logs" \("id","user_id","action","resource_type","resource_id","message","facility","severity","client_ip","hostname","sdata","created_at"\)`).
		WithArgs(
			sqlmock.AnyArg(), // id
			"alice",
			"create",
			"project",
			"p-1",
			"alice created project p-1",
			FacilityLocal0,
			int(SeverityInfo),
			"10.0.0.1",
			sqlmock.AnyArg(), // hostname
			sqlmock.AnyArg(), // sdata
			sqlmock.AnyArg(), // created_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.Save(ResourceEvent{
		UserID:       "alice",
		ClientIP:     "10.0.0.1",
		ResourceType: "project",
		ResourceID:   "p-1",
		Operation:    OperationCreate,
		Success:      true,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreSaveValidationEvent(t *testing.T) {
	store, mock := setupTestStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "audit_logs"`).
		WithArgs(
			sqlmock.AnyArg(),
			"alice",
			"validate",
			"test_session",
			"s-1",
			sqlmock.AnyArg(),
			FacilityLocal0,
			int(SeverityNotice),
			"",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := store.Save(ValidationEvent{UserID: "alice", TestSessionID: "s-1", Success: true})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreNilDB(t *testing.T) {
	var store *Store
	assert.NoError(t, store.Save(AuthenticateEvent{Success: true}))
	assert.NoError(t, (&Store{}).Save(AuthenticateEvent{Success: true}))
}

func TestLogPersistsToStore(t *testing.T) {
	store, mock := setupTestStore(t)
	SetStore(store)
	t.Cleanup(func() { SetStore(nil) })

	var buf bytes.Buffer
	DefaultLogger.SetWriter(&buf)
	SetEnabled(true)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "audit_logs"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	Log(GroundTruthImportEvent{UserID: "vructl", VideoID: "v-1", Source: "gt.yml", Objects: 3, Success: true})

	assert.Contains(t, buf.String(), "loaded 3 ground truth objects")
	assert.NoError(t, mock.ExpectationsWereMet())
}
