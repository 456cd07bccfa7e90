package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jfjallid/golog"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/velsec/sharescout/internal/config"
	"github.com/velsec/sharescout/internal/runner"
	"github.com/velsec/sharescout/pkg/version"
)

var opts config.Options

type flagGroup struct {
	title string
	flags []string
}

var helpGroups = []flagGroup{
	{"CONNECTION", []string{"dc-ip", "use-ldaps"}},
	{"AUTHENTICATION", []string{"domain", "user", "password", "hashes", "aes-key", "kerberos", "no-pass"}},
	{"BEHAVIOR", []string{"quiet", "debug", "no-colors", "ignore-hidden-shares", "threads", "timeout"}},
	{"OUTPUT", []string{"export-json", "export-xlsx", "export-sqlite"}},
}

var rootCmd = &cobra.Command{
	Use:     "sharescout --dc-ip <ip> -d <domain> -u <user> [flags]",
	Short:   "Enumerate uncommon SMB shares across an Active Directory domain",
	Version: version.Version,
	Long: `sharescout pulls every computer account out of a domain over LDAP,
lists each host's SMB shares concurrently, and flags the ones that are
not part of the default Windows share set. Results can be exported to
JSON, XLSX, and SQLite in any combination.`,
	Example: `  sharescout --dc-ip 10.0.0.1 -d corp.local -u jdoe -p 'Winter2024!'
  sharescout --dc-ip 10.0.0.1 -d corp.local -u jdoe -H 31d6cfe0d16ae931b73c59d7e0c089c0
  sharescout --dc-ip 10.0.0.1 -d corp.local -u jdoe -k --no-pass
  sharescout --dc-ip 10.0.0.1 -d corp.local -u jdoe -p 'Winter2024!' --use-ldaps -t 50
  sharescout --dc-ip 10.0.0.1 -d corp.local -u jdoe -p 'Winter2024!' --export-json out/shares.json --export-sqlite out/shares.db`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if opts.DCIP == "" {
			_ = cmd.Help()
			fmt.Fprintln(os.Stderr)
			return fmt.Errorf("--dc-ip is required")
		}
		if opts.Threads < 1 {
			return fmt.Errorf("--threads must be at least 1")
		}

		// Prompt for the password when no secret was supplied in any form.
		if opts.Password == "" && opts.Hashes == "" && opts.AESKey == "" &&
			!opts.NoPass && !opts.Kerberos && !cmd.Flags().Changed("password") {
			fmt.Fprint(os.Stderr, "Password: ")
			passBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
			fmt.Fprintln(os.Stderr)
			if err != nil {
				return fmt.Errorf("reading password: %w", err)
			}
			opts.Password = string(passBytes)
		}

		configureLogging()
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		return runner.Run(ctx, &opts)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	f := rootCmd.Flags()

	// Connection
	f.StringVar(&opts.DCIP, "dc-ip", "", "IP address of the domain controller / KDC")
	f.BoolVar(&opts.UseLDAPS, "use-ldaps", false, "Use LDAPS instead of LDAP")

	// Authentication
	f.StringVarP(&opts.Domain, "domain", "d", "", "FQDN domain to authenticate to")
	f.StringVarP(&opts.Username, "user", "u", "", "User to authenticate with")
	f.StringVarP(&opts.Password, "password", "p", "", "Password to authenticate with")
	f.StringVarP(&opts.Hashes, "hashes", "H", "", "NT/LM hashes, format is [LMhash:]NThash")
	f.StringVar(&opts.AESKey, "aes-key", "", "AES key for Kerberos authentication (128 or 256 bits, hex)")
	f.BoolVarP(&opts.Kerberos, "kerberos", "k", false, "Use Kerberos authentication (reads ticket cache from KRB5CCNAME when no secret is given)")
	f.BoolVar(&opts.NoPass, "no-pass", false, "Don't ask for password (useful for -k)")

	// Behavior
	f.BoolVarP(&opts.Quiet, "quiet", "q", false, "Show no information at all")
	f.BoolVar(&opts.Debug, "debug", false, "Debug mode")
	f.BoolVar(&opts.NoColors, "no-colors", false, "Disable colored output")
	f.BoolVarP(&opts.IgnoreHiddenShares, "ignore-hidden-shares", "I", false, "Ignore hidden shares (shares ending with $)")
	f.IntVarP(&opts.Threads, "threads", "t", 20, "Number of threads")
	f.DurationVar(&opts.DialTimeout, "timeout", 5*time.Second, "SMB dial timeout per host")

	// Output files
	f.StringVar(&opts.ExportJSON, "export-json", "", "Output JSON file to store the results in")
	f.StringVar(&opts.ExportXLSX, "export-xlsx", "", "Output XLSX file to store the results in")
	f.StringVar(&opts.ExportSQLite, "export-sqlite", "", "Output SQLITE3 file to store the results in")

	// Custom help: categorized flags.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		w := os.Stderr
		fmt.Fprint(w, helpBanner(cmd.Version))
		fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", cmd.Long, cmd.UseLine())
		fmt.Fprintf(w, "\nExamples:\n%s\n", cmd.Example)
		fmt.Fprintf(w, "\nFlags:\n")
		for _, g := range helpGroups {
			fmt.Fprintf(w, "\n%s:\n", g.title)
			for _, name := range g.flags {
				if f := cmd.Flags().Lookup(name); f != nil {
					fmt.Fprintln(w, formatFlag(f))
				}
			}
		}
		fmt.Fprintln(w)
	})
}

// configureLogging wires logrus and the go-smb internal loggers to the
// requested verbosity.
func configureLogging() {
	if opts.Debug {
		log.SetLevel(log.DebugLevel)
		for _, pkg := range []string{"smb", "spnego", "gss", "krb5ssp"} {
			golog.Set("github.com/jfjallid/go-smb/"+pkg, pkg,
				golog.LevelDebug, golog.LstdFlags|golog.Lshortfile,
				golog.DefaultOutput, golog.DefaultErrOutput)
		}
		return
	}
	if opts.Quiet {
		log.SetLevel(log.ErrorLevel)
	}
	for _, pkg := range []string{"smb", "spnego", "gss", "krb5ssp"} {
		golog.Set("github.com/jfjallid/go-smb/"+pkg, pkg,
			golog.LevelError, golog.LstdFlags|golog.Lshortfile,
			golog.DefaultOutput, golog.DefaultErrOutput)
	}
}

// Execute runs the root command.
func Execute() {
	if len(os.Args) < 2 {
		_ = rootCmd.Help()
		os.Exit(1)
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func formatFlag(f *pflag.Flag) string {
	var left string
	if f.Shorthand != "" {
		left = fmt.Sprintf("-%s, --%s", f.Shorthand, f.Name)
	} else {
		left = fmt.Sprintf("    --%s", f.Name)
	}

	typ := f.Value.Type()
	if typ != "bool" {
		left += " " + typ
	}

	// Pad to fixed column width for aligned descriptions.
	const col = 36
	for len(left) < col {
		left += " "
	}

	right := f.Usage
	// Show default for non-zero values.
	def := f.DefValue
	if def != "" && def != "false" && def != "0" && def != "0s" {
		right += fmt.Sprintf(" (default %s)", def)
	}

	return "   " + left + right
}

func helpBanner(ver string) string {
	if ver != "dev" && ver != "" && ver[0] != 'v' {
		ver = "v" + ver
	}
	return fmt.Sprintf(`
        __
   ___ / /  ___ ________ ___ _______  __ __/ /_
  (_-</ _ \/ _ '/ __/ -_|_-</ __/ _ \/ // / __/
 /___/_//_/\_,_/_/  \__/___/\__/\___/\_,_/\__/   %s

`, ver)
}
