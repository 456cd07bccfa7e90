package export

import (
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/velsec/sharescout/internal/aggregate"
	"github.com/velsec/sharescout/internal/probe"
)

// sampleResults builds a set with 2 hosts and 3 shares total.
func sampleResults() *aggregate.ResultSet {
	rs := aggregate.New()
	rs.Add(probe.ShareRecord{
		HostFQDN: "ws01.corp.local", HostIP: "10.0.0.5",
		Name: "Backups", Comment: "nightly dumps", Hidden: false,
		UNCPath: `\\10.0.0.5\Backups\`,
		TypeRaw: 0, TypeFlags: []string{"STYPE_DISKTREE", "STYPE_SPECIAL", "STYPE_TEMPORARY"},
	})
	rs.Add(probe.ShareRecord{
		HostFQDN: "ws01.corp.local", HostIP: "10.0.0.5",
		Name: "ADMIN$", Comment: "Remote Admin", Hidden: true,
		UNCPath: `\\10.0.0.5\ADMIN$\`,
		TypeRaw: 0x80000000, TypeFlags: []string{"STYPE_DISKTREE", "STYPE_TEMPORARY"},
	})
	rs.Add(probe.ShareRecord{
		HostFQDN: "srv02.corp.local", HostIP: "10.0.0.6",
		Name: "it-tools$", Comment: "", Hidden: true,
		UNCPath: `\\10.0.0.6\it-tools$\`,
		TypeRaw: 0, TypeFlags: []string{"STYPE_DISKTREE", "STYPE_SPECIAL", "STYPE_TEMPORARY"},
	})
	return rs
}

func TestWriteJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "results.json")
	if err := WriteJSON(path, sampleResults()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading export: %v", err)
	}

	var decoded map[string][]jsonEntry
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}

	if len(decoded) != 2 {
		t.Fatalf("got %d hosts, want 2", len(decoded))
	}
	ws01 := decoded["ws01.corp.local"]
	if len(ws01) != 2 {
		t.Fatalf("ws01 has %d shares, want 2", len(ws01))
	}
	first := ws01[0]
	if first.Computer.FQDN != "ws01.corp.local" || first.Computer.IP != "10.0.0.5" {
		t.Errorf("computer block mismatch: %+v", first.Computer)
	}
	if first.Share.Name != "Backups" || first.Share.Hidden {
		t.Errorf("share block mismatch: %+v", first.Share)
	}
	if first.Share.UNCPath != `\\10.0.0.5\Backups\` {
		t.Errorf("uncpath mismatch: %q", first.Share.UNCPath)
	}
	admin := ws01[1]
	if admin.Share.Type.Value != 0x80000000 {
		t.Errorf("stype_value = %#x, want 0x80000000", admin.Share.Type.Value)
	}
	if !reflect.DeepEqual(admin.Share.Type.Flags, []string{"STYPE_DISKTREE", "STYPE_TEMPORARY"}) {
		t.Errorf("stype_flags mismatch: %v", admin.Share.Type.Flags)
	}
}

func TestWriteSQLiteRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db", "results.db")
	if err := WriteSQLite(path, sampleResults()); err != nil {
		t.Fatalf("WriteSQLite: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("opening export: %v", err)
	}
	defer db.Close()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM shares").Scan(&count); err != nil {
		t.Fatalf("counting rows: %v", err)
	}
	if count != 3 {
		t.Fatalf("got %d rows, want 3", count)
	}

	var fqdn, ip, name, remark string
	var stype int64
	err = db.QueryRow(
		"SELECT fqdn, ip, shi1_netname, shi1_remark, shi1_type FROM shares WHERE shi1_netname = 'ADMIN$'",
	).Scan(&fqdn, &ip, &name, &remark, &stype)
	if err != nil {
		t.Fatalf("selecting ADMIN$ row: %v", err)
	}
	if fqdn != "ws01.corp.local" || ip != "10.0.0.5" || remark != "Remote Admin" {
		t.Errorf("row fields mismatch: %s %s %s", fqdn, ip, remark)
	}
	if uint32(stype) != 0x80000000 {
		t.Errorf("shi1_type = %#x, want 0x80000000", uint32(stype))
	}
}

func TestWriteSQLiteIdempotent(t *testing.T) {
	rs := sampleResults()
	dir := t.TempDir()

	rows := func(path string) []string {
		t.Helper()
		if err := WriteSQLite(path, rs); err != nil {
			t.Fatalf("WriteSQLite: %v", err)
		}
		db, err := sql.Open("sqlite3", path)
		if err != nil {
			t.Fatal(err)
		}
		defer db.Close()
		res, err := db.Query("SELECT fqdn || '|' || shi1_netname || '|' || shi1_type FROM shares ORDER BY 1")
		if err != nil {
			t.Fatal(err)
		}
		defer res.Close()
		var out []string
		for res.Next() {
			var s string
			if err := res.Scan(&s); err != nil {
				t.Fatal(err)
			}
			out = append(out, s)
		}
		return out
	}

	first := rows(filepath.Join(dir, "a.db"))
	second := rows(filepath.Join(dir, "b.db"))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("exports differ:\n%v\n%v", first, second)
	}
}

func TestWriteSQLiteAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	rs := sampleResults()
	if err := WriteSQLite(path, rs); err != nil {
		t.Fatal(err)
	}
	if err := WriteSQLite(path, rs); err != nil {
		t.Fatal(err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM shares").Scan(&count); err != nil {
		t.Fatal(err)
	}
	if count != 6 {
		t.Errorf("existing table should be appended to, got %d rows, want 6", count)
	}
}

func TestWriteXLSXRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sheets", "results.xlsx")
	if err := WriteXLSX(path, sampleResults()); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("opening workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading rows: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want header + 3 data rows", len(rows))
	}
	wantHeader := []string{"Computer FQDN", "Computer IP", "Share name", "Share comment", "Is hidden"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "ws01.corp.local" || rows[1][2] != "Backups" {
		t.Errorf("first data row = %v", rows[1])
	}
	if rows[2][4] != "TRUE" {
		t.Errorf("hidden cell = %q, want TRUE", rows[2][4])
	}
}
