package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opennacc/digitize-cli/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), model.RunParams{PagesDir: "/pages"})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, params, status, result, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get run")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_UpdateRunStatus_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET status`).
		WithArgs("failed", pgxmock.AnyArg(), "missing").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := s.UpdateRunStatus(context.Background(), "missing", model.RunStatusFailed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteDocument(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE run_documents SET status`).
		WithArgs("partial", pgxmock.AnyArg(), pgxmock.AnyArg(), "doc-row-id").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.CompleteDocument(context.Background(), "doc-row-id", model.DocumentOutcome{
		Status: model.DocStatusPartial, Batches: 3, Warnings: 2,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetCachedBatch_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT payload FROM batch_cache`).
		WithArgs("DOC-0001", 0, "FULL").
		WillReturnError(pgx.ErrNoRows)

	payload, err := s.GetCachedBatch(context.Background(), "DOC-0001", 0, "FULL")
	require.NoError(t, err)
	assert.Nil(t, payload)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SetCachedBatch_Upsert(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`ON CONFLICT \(doc_id, batch, kind\)`).
		WithArgs(pgxmock.AnyArg(), "DOC-0001", 1, "ASSETS_ONLY", []byte(`{}`), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.SetCachedBatch(context.Background(), "DOC-0001", 1, "ASSETS_ONLY", []byte(`{}`), time.Hour)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_SaveRecordSet(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	stmtCols := []string{"nacc_id", "submitter_id", "statement_type_id", "valuation_submitter", "valuation_spouse", "valuation_child"}

	mock.ExpectExec(`DELETE FROM nacc.asset`).
		WithArgs(101, 7).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"nacc", "asset"},
		[]string{"nacc_id", "submitter_id", "index", "asset_type_id", "asset_name", "valuation", "acquiring_year"}).
		WillReturnResult(2)
	// Statements go through BulkUpsert: Begin -> CREATE TEMP TABLE -> CopyFrom -> INSERT ON CONFLICT -> Commit.
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TEMP TABLE`).WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectCopyFrom(pgx.Identifier{"_tmp_upsert_nacc_statement"}, stmtCols).WillReturnResult(1)
	mock.ExpectExec(`INSERT INTO "nacc"."statement"`).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	v := 3_500_000.0
	doc := &model.DocumentRecordSet{
		NaccID:      101,
		SubmitterID: 7,
		Assets: []model.Asset{
			{Index: 1, TypeID: model.AssetLandChanot, Name: "ที่ดิน", Valuation: &v},
			{Index: 2, TypeID: model.AssetVehicleCar, Name: "รถยนต์"},
		},
		Statements: []model.Statement{
			{Type: model.StatementIncome, ValuationSubmitter: &v},
		},
	}

	require.NoError(t, s.SaveRecordSet(context.Background(), doc))
	assert.NoError(t, mock.ExpectationsWereMet())
}
