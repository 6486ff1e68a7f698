package client

import (
	"database/sql"

	"github.com/quillsql/quill/query/builder"
)

// scanRecords maps a result set into column-keyed records. Byte
// slices are converted to strings; everything else is passed through
// as the driver produced it.
func scanRecords(rows *sql.Rows) ([]builder.Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	records := []builder.Record{}
	for rows.Next() {
		values := make([]interface{}, len(columns))
		dest := make([]interface{}, len(columns))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		record := make(builder.Record, len(columns))
		for i, col := range columns {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			record[col] = v
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
