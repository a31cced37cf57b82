package poststore

import (
	"github.com/gouniverse/sb"
)

// sqlCreateTable returns a SQL string for creating the slot table
func (st *SQLStorage) sqlCreateTable() string {
	sql := sb.NewBuilder(st.dbDriverName).
		Table(st.tableName).
		Column(sb.Column{
			Name:       COLUMN_SLOT_KEY,
			Type:       sb.COLUMN_TYPE_STRING,
			Length:     255,
			PrimaryKey: true,
		}).
		Column(sb.Column{
			Name: COLUMN_SLOT_VALUE,
			Type: sb.COLUMN_TYPE_TEXT,
		}).
		Column(sb.Column{
			Name: COLUMN_UPDATED_AT,
			Type: sb.COLUMN_TYPE_DATETIME,
		}).
		CreateIfNotExists()

	return sql
}
