package runner

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/velsec/sharescout/internal/config"
	"github.com/velsec/sharescout/internal/probe"
)

// printer renders per-share discovery lines. Common administrative shares are
// only shown at debug level so the operator's attention stays on the uncommon
// ones; hidden shares can be suppressed entirely.
type printer struct {
	w            io.Writer
	quiet        bool
	debug        bool
	ignoreHidden bool

	hiddenName func(a ...interface{}) string
	name       func(a ...interface{}) string
	host       func(a ...interface{}) string
	comment    func(a ...interface{}) string
}

func newPrinter(opts *config.Options) *printer {
	if opts.NoColors {
		color.NoColor = true
	}
	return &printer{
		w:            os.Stdout,
		quiet:        opts.Quiet,
		debug:        opts.Debug,
		ignoreHidden: opts.IgnoreHiddenShares,
		hiddenName:   color.New(color.FgHiBlue).SprintFunc(),
		name:         color.New(color.FgHiYellow).SprintFunc(),
		host:         color.New(color.FgHiCyan).SprintFunc(),
		comment:      color.New(color.FgHiMagenta).SprintFunc(),
	}
}

func (p *printer) shareFound(rec probe.ShareRecord) {
	if p.quiet {
		return
	}
	common := probe.IsCommonShare(rec.Name)
	if common && !p.debug {
		return
	}
	if rec.Hidden && p.ignoreHidden {
		return
	}

	verb := "Found"
	if common {
		verb = "Skipping common share"
	}
	name := p.name(rec.Name)
	if rec.Hidden {
		name = p.hiddenName(rec.Name)
	}

	if rec.Comment != "" {
		fmt.Fprintf(p.w, "[>] %s '%s' on '%s' (comment: '%s')\n", verb, name, p.host(rec.HostFQDN), p.comment(rec.Comment))
	} else {
		fmt.Fprintf(p.w, "[>] %s '%s' on '%s'\n", verb, name, p.host(rec.HostFQDN))
	}
}
