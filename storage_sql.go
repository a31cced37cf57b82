package poststore

import (
	"context"
	"database/sql"
	"errors"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-module/carbon/v2"
	"github.com/gouniverse/sb"
	"go.uber.org/zap"
)

var _ StorageInterface = (*SQLStorage)(nil)

// SQLStorageOptions define the options for creating a new SQL backed slot storage
type SQLStorageOptions struct {
	TableName          string
	DB                 *sql.DB
	DbDriverName       string
	AutomigrateEnabled bool
	DebugEnabled       bool
	Logger             *zap.Logger
}

// SQLStorage keeps every slot as one row of a two column key/value table.
type SQLStorage struct {
	tableName    string
	db           *sql.DB
	dbDriverName string
	debugEnabled bool
	logger       *zap.Logger
}

// NewSQLStorage creates a new SQL slot storage
func NewSQLStorage(opts SQLStorageOptions) (*SQLStorage, error) {
	if opts.TableName == "" {
		return nil, errors.New("sql storage: TableName is required")
	}

	if opts.DB == nil {
		return nil, errors.New("sql storage: DB is required")
	}

	if opts.DbDriverName == "" {
		opts.DbDriverName = sb.DatabaseDriverName(opts.DB)
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	st := &SQLStorage{
		tableName:    opts.TableName,
		db:           opts.DB,
		dbDriverName: opts.DbDriverName,
		debugEnabled: opts.DebugEnabled,
		logger:       opts.Logger,
	}

	if opts.AutomigrateEnabled {
		if err := st.AutoMigrate(); err != nil {
			return nil, err
		}
	}

	return st, nil
}

// AutoMigrate creates the slot table if it does not exist yet
func (st *SQLStorage) AutoMigrate() error {
	sqlStr := st.sqlCreateTable()

	if st.debugEnabled {
		st.logger.Debug("sql storage migrate", zap.String("sql", sqlStr))
	}

	if _, err := st.db.Exec(sqlStr); err != nil {
		st.logger.Error("sql storage migrate failed", zap.Error(err))
		return err
	}

	return nil
}

func (st *SQLStorage) Get(ctx context.Context, key string) (string, bool, error) {
	sqlStr, params, errSql := goqu.Dialect(st.dbDriverName).
		From(st.tableName).
		Select(COLUMN_SLOT_VALUE).
		Where(goqu.C(COLUMN_SLOT_KEY).Eq(key)).
		Limit(1).
		Prepared(true).
		ToSQL()

	if errSql != nil {
		return "", false, errSql
	}

	if st.debugEnabled {
		st.logger.Debug("sql storage get", zap.String("sql", sqlStr))
	}

	var value string
	err := st.db.QueryRowContext(ctx, sqlStr, params...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	return value, true, nil
}

// Set replaces the slot row inside a single transaction.
func (st *SQLStorage) Set(ctx context.Context, key string, value string) error {
	deleteSql, deleteParams, errSql := goqu.Dialect(st.dbDriverName).
		Delete(st.tableName).
		Where(goqu.C(COLUMN_SLOT_KEY).Eq(key)).
		Prepared(true).
		ToSQL()

	if errSql != nil {
		return errSql
	}

	insertSql, insertParams, errSql := goqu.Dialect(st.dbDriverName).
		Insert(st.tableName).
		Prepared(true).
		Rows(map[string]string{
			COLUMN_SLOT_KEY:   key,
			COLUMN_SLOT_VALUE: value,
			COLUMN_UPDATED_AT: carbon.Now(carbon.UTC).ToDateTimeString(),
		}).
		ToSQL()

	if errSql != nil {
		return errSql
	}

	if st.debugEnabled {
		st.logger.Debug("sql storage set",
			zap.String("delete_sql", deleteSql),
			zap.String("insert_sql", insertSql))
	}

	tx, err := st.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, deleteSql, deleteParams...); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.ExecContext(ctx, insertSql, insertParams...); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}
