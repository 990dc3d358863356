package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/opennacc/digitize-cli/internal/db"
	"github.com/opennacc/digitize-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the most frequently used store operations.
var preparedStatements = map[string]string{
	"insert_run":        `INSERT INTO runs (id, params, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
	"update_run_status": `UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
	"update_run_result": `UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
	"get_run":           `SELECT id, params, status, result, created_at, updated_at FROM runs WHERE id = $1`,
	"insert_document":   `INSERT INTO run_documents (id, run_id, doc_id, nacc_id, status, started_at) VALUES ($1, $2, $3, $4, $5, $6)`,
	"complete_document": `UPDATE run_documents SET status = $1, outcome = $2, finished_at = $3 WHERE id = $4`,
	"get_cached_batch":  `SELECT payload FROM batch_cache WHERE doc_id = $1 AND batch = $2 AND kind = $3 AND expires_at > now()`,
	"set_cached_batch": `INSERT INTO batch_cache (id, doc_id, batch, kind, payload, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7)
	 ON CONFLICT (doc_id, batch, kind) DO UPDATE SET payload = $5, cached_at = $6, expires_at = $7`,
	"delete_expired_batches": `DELETE FROM batch_cache WHERE expires_at <= now()`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// Pool returns the underlying database pool for subsystems that need direct
// query access.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS runs (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	params     JSONB NOT NULL,
	status     TEXT NOT NULL DEFAULT 'queued',
	result     JSONB,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_documents (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	run_id      TEXT NOT NULL REFERENCES runs(id),
	doc_id      TEXT NOT NULL,
	nacc_id     INTEGER NOT NULL,
	status      TEXT NOT NULL DEFAULT 'pending',
	outcome     JSONB,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS batch_cache (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	doc_id     TEXT NOT NULL,
	batch      INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	cached_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	expires_at TIMESTAMPTZ NOT NULL,
	UNIQUE(doc_id, batch, kind)
);

CREATE INDEX IF NOT EXISTS idx_runs_status ON runs(status);
CREATE INDEX IF NOT EXISTS idx_run_documents_run_id ON run_documents(run_id);
CREATE INDEX IF NOT EXISTS idx_batch_cache_doc ON batch_cache(doc_id, batch, kind);
CREATE INDEX IF NOT EXISTS idx_batch_cache_expires_at ON batch_cache(expires_at);

CREATE SCHEMA IF NOT EXISTS nacc;

CREATE TABLE IF NOT EXISTS nacc.asset (
	nacc_id        INTEGER NOT NULL,
	submitter_id   INTEGER NOT NULL,
	"index"        INTEGER NOT NULL,
	asset_type_id  INTEGER NOT NULL,
	asset_name     TEXT,
	valuation      DOUBLE PRECISION,
	acquiring_year INTEGER,
	PRIMARY KEY (nacc_id, submitter_id, "index")
);

CREATE TABLE IF NOT EXISTS nacc.statement (
	nacc_id             INTEGER NOT NULL,
	submitter_id        INTEGER NOT NULL,
	statement_type_id   INTEGER NOT NULL,
	valuation_submitter DOUBLE PRECISION,
	valuation_spouse    DOUBLE PRECISION,
	valuation_child     DOUBLE PRECISION,
	PRIMARY KEY (nacc_id, submitter_id, statement_type_id)
);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, params model.RunParams) (*model.Run, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	paramsJSON, err := json.Marshal(params)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal params")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO runs (id, params, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`,
		id, paramsJSON, string(model.RunStatusQueued), now, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.Run{
		ID:        id,
		Params:    params,
		Status:    model.RunStatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func (s *PostgresStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run status %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) UpdateRunResult(ctx context.Context, runID string, result *model.RunResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal result")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE runs SET result = $1, status = $2, updated_at = $3 WHERE id = $4`,
		resultJSON, string(model.RunStatusComplete), time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: update run result %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("run not found: %s", runID)
	}
	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, runID string) (*model.Run, error) {
	var r model.Run
	var paramsJSON []byte
	var resultNull *[]byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, params, status, result, created_at, updated_at FROM runs WHERE id = $1`,
		runID,
	).Scan(&r.ID, &paramsJSON, &r.Status, &resultNull, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get run %s", runID)
	}

	if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal params")
	}
	if resultNull != nil {
		r.Result = &model.RunResult{}
		if err := json.Unmarshal(*resultNull, r.Result); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal result")
		}
	}
	return &r, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error) {
	query := `SELECT id, params, status, result, created_at, updated_at FROM runs WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		query += fmt.Sprintf(` AND status = $%d`, argIdx)
		args = append(args, string(filter.Status))
		argIdx++
	}
	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.Run
	for rows.Next() {
		var r model.Run
		var paramsJSON []byte
		var resultNull *[]byte

		if err := rows.Scan(&r.ID, &paramsJSON, &r.Status, &resultNull, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		if err := json.Unmarshal(paramsJSON, &r.Params); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal params")
		}
		if resultNull != nil {
			r.Result = &model.RunResult{}
			if err := json.Unmarshal(*resultNull, r.Result); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal result")
			}
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: list runs iterate")
}

func (s *PostgresStore) CreateDocument(ctx context.Context, runID, docID string, naccID int) (*model.DocumentRecord, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO run_documents (id, run_id, doc_id, nacc_id, status, started_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		id, runID, docID, naccID, string(model.DocStatusPending), now,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: insert document for run %s", runID)
	}

	return &model.DocumentRecord{
		ID:        id,
		RunID:     runID,
		DocID:     docID,
		NaccID:    naccID,
		Status:    model.DocStatusPending,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) CompleteDocument(ctx context.Context, documentID string, outcome model.DocumentOutcome) error {
	outcomeJSON, err := json.Marshal(outcome)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal outcome")
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE run_documents SET status = $1, outcome = $2, finished_at = $3 WHERE id = $4`,
		string(outcome.Status), outcomeJSON, time.Now().UTC(), documentID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: complete document %s", documentID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("document not found: %s", documentID)
	}
	return nil
}

func (s *PostgresStore) ListDocuments(ctx context.Context, runID string) ([]model.DocumentRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, run_id, doc_id, nacc_id, status, outcome, started_at, finished_at
		 FROM run_documents WHERE run_id = $1 ORDER BY started_at ASC`,
		runID,
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list documents for run %s", runID)
	}
	defer rows.Close()

	var docs []model.DocumentRecord
	for rows.Next() {
		var d model.DocumentRecord
		var outcomeNull *[]byte

		if err := rows.Scan(&d.ID, &d.RunID, &d.DocID, &d.NaccID, &d.Status, &outcomeNull, &d.StartedAt, &d.FinishedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan document")
		}
		if outcomeNull != nil {
			d.Outcome = &model.DocumentOutcome{}
			if err := json.Unmarshal(*outcomeNull, d.Outcome); err != nil {
				return nil, eris.Wrap(err, "postgres: unmarshal outcome")
			}
		}
		docs = append(docs, d)
	}
	return docs, eris.Wrap(rows.Err(), "postgres: list documents iterate")
}

func (s *PostgresStore) GetCachedBatch(ctx context.Context, docID string, batch int, kind string) ([]byte, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM batch_cache
		 WHERE doc_id = $1 AND batch = $2 AND kind = $3 AND expires_at > now()`,
		docID, batch, kind,
	).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrap(err, "postgres: get cached batch")
	}
	return payload, nil
}

func (s *PostgresStore) SetCachedBatch(ctx context.Context, docID string, batch int, kind string, payload []byte, ttl time.Duration) error {
	id := uuid.New().String()
	now := time.Now().UTC()
	expiresAt := now.Add(ttl)

	_, err := s.pool.Exec(ctx,
		`INSERT INTO batch_cache (id, doc_id, batch, kind, payload, cached_at, expires_at) VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (doc_id, batch, kind) DO UPDATE SET payload = $5, cached_at = $6, expires_at = $7`,
		id, docID, batch, kind, payload, now, expiresAt,
	)
	return eris.Wrap(err, "postgres: set cached batch")
}

func (s *PostgresStore) DeleteExpiredBatches(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM batch_cache WHERE expires_at <= now()`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "postgres: delete expired batches")
	}
	return int(tag.RowsAffected()), nil
}

// SaveRecordSet bulk-loads the headline tables of a merged record set into
// the nacc schema. Assets are replaced via delete+COPY since a re-run may
// shrink the set; statements upsert in place on their type key.
func (s *PostgresStore) SaveRecordSet(ctx context.Context, doc *model.DocumentRecordSet) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM nacc.asset WHERE nacc_id = $1 AND submitter_id = $2`,
		doc.NaccID, doc.SubmitterID,
	); err != nil {
		return eris.Wrap(err, "postgres: clear assets")
	}
	assetRows := make([][]any, 0, len(doc.Assets))
	for _, a := range doc.Assets {
		assetRows = append(assetRows, []any{
			doc.NaccID, doc.SubmitterID, a.Index, int(a.TypeID), a.Name, a.Valuation, a.AcquiringYear,
		})
	}
	if _, err := db.CopyFromSchema(ctx, s.pool, "nacc", "asset",
		[]string{"nacc_id", "submitter_id", "index", "asset_type_id", "asset_name", "valuation", "acquiring_year"},
		assetRows,
	); err != nil {
		return err
	}

	// Statements are keyed by type, so a re-run upserts in place instead of
	// needing a delete.
	stmtRows := make([][]any, 0, len(doc.Statements))
	for _, st := range doc.Statements {
		stmtRows = append(stmtRows, []any{
			doc.NaccID, doc.SubmitterID, int(st.Type), st.ValuationSubmitter, st.ValuationSpouse, st.ValuationChild,
		})
	}
	_, err := db.BulkUpsert(ctx, s.pool, db.UpsertConfig{
		Table:        "nacc.statement",
		Columns:      []string{"nacc_id", "submitter_id", "statement_type_id", "valuation_submitter", "valuation_spouse", "valuation_child"},
		ConflictKeys: []string{"nacc_id", "submitter_id", "statement_type_id"},
	}, stmtRows)
	return err
}
