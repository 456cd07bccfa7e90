package runner

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/velsec/sharescout/internal/aggregate"
	"github.com/velsec/sharescout/internal/config"
	"github.com/velsec/sharescout/internal/credentials"
	"github.com/velsec/sharescout/internal/directory"
	"github.com/velsec/sharescout/internal/export"
	"github.com/velsec/sharescout/internal/probe"
)

// Run executes the full enumeration pipeline: bind the directory, list
// computer accounts, probe each one for shares, then export. Setup failures
// (credential parsing, directory bind) are fatal; per-host probe failures are
// logged at debug level and skipped.
func Run(ctx context.Context, opts *config.Options) error {
	creds, err := credentials.Parse(credentials.Input{
		Domain:   opts.Domain,
		Username: opts.Username,
		Password: opts.Password,
		Hashes:   opts.Hashes,
		AESKey:   opts.AESKey,
		Kerberos: opts.Kerberos,
		NoPass:   opts.NoPass,
	})
	if err != nil {
		return err
	}

	// 1. Bind to the directory and pull every computer account.
	client, err := directory.Connect(opts.DCIP, opts.UseLDAPS)
	if err != nil {
		return err
	}
	defer client.Close()
	if err := client.Bind(creds); err != nil {
		return err
	}

	if !opts.Quiet {
		fmt.Println("[>] Extracting all computers ...")
	}
	baseDN, err := client.DefaultNamingContext()
	if err != nil {
		return err
	}
	computers, err := client.Computers(baseDN)
	if err != nil {
		return err
	}
	if !opts.Quiet {
		fmt.Printf("[+] Found %d computers in the domain.\n\n", len(computers))
		fmt.Println("[>] Enumerating shares ...")
	}

	var hosts []string
	for _, c := range computers {
		if c.DNSHostName == "" {
			log.Debugf("skipping %s: no dNSHostName", c.DN)
			continue
		}
		hosts = append(hosts, c.DNSHostName)
	}

	// 2. Probe hosts concurrently; this loop is the single writer into the
	// result set, so workers never contend on it.
	results := aggregate.New()
	pr := newPrinter(opts)
	prober := probe.NewSMBProber(creds, opts.DCIP, opts.DialTimeout)
	for rec := range probe.RunPool(ctx, prober, hosts, opts.Threads) {
		results.Add(rec)
		pr.shareFound(rec)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	// 3. Export. Failures here propagate; the scan itself already finished.
	return runExports(opts, results)
}

func runExports(opts *config.Options, results *aggregate.ResultSet) error {
	targets := []struct {
		path  string
		write func(string, *aggregate.ResultSet) error
	}{
		{opts.ExportJSON, export.WriteJSON},
		{opts.ExportXLSX, export.WriteXLSX},
		{opts.ExportSQLite, export.WriteSQLite},
	}
	for _, t := range targets {
		if t.path == "" {
			continue
		}
		fmt.Printf("[>] Exporting results to %s ... ", t.path)
		if err := t.write(t.path, results); err != nil {
			fmt.Println()
			return err
		}
		fmt.Println("done.")
	}
	return nil
}
