package export

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/velsec/sharescout/internal/aggregate"
)

// The shares table is the durable on-disk schema contract: column names track
// the SHARE_INFO_1 fields so downstream tooling can join on them.
const createSharesTable = `CREATE TABLE IF NOT EXISTS shares(
	fqdn VARCHAR(255),
	ip VARCHAR(255),
	shi1_netname VARCHAR(255),
	shi1_remark VARCHAR(255),
	shi1_type INTEGER
);`

// WriteSQLite appends one row per share to the shares table in the database
// at path, creating the file and table as needed.
func WriteSQLite(path string, rs *aggregate.ResultSet) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer db.Close()

	if _, err := db.Exec(createSharesTable); err != nil {
		return fmt.Errorf("creating shares table: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare("INSERT INTO shares VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, host := range rs.Hosts() {
		for _, rec := range rs.Shares(host) {
			if _, err := stmt.Exec(rec.HostFQDN, rec.HostIP, rec.Name, rec.Comment, rec.TypeRaw); err != nil {
				tx.Rollback()
				return fmt.Errorf("inserting share %s on %s: %w", rec.Name, rec.HostFQDN, err)
			}
		}
	}
	return tx.Commit()
}
