package config

import "time"

// Options holds all configuration for a sharescout run.
type Options struct {
	// Connection
	DCIP     string // address of the domain controller / KDC
	UseLDAPS bool

	// Authentication
	Domain   string
	Username string
	Password string
	Hashes   string // [LMHASH:]NTHASH
	AESKey   string // hex, 128 or 256 bit
	Kerberos bool
	NoPass   bool

	// Behavior
	Quiet              bool
	Debug              bool
	NoColors           bool
	IgnoreHiddenShares bool
	Threads            int
	DialTimeout        time.Duration

	// Output files
	ExportJSON   string
	ExportXLSX   string
	ExportSQLite string
}
