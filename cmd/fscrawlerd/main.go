// Package main is the crawler daemon's entry point. Flag parsing and
// bootstrap order mirror the teacher's cmd/revad/main.go: a handful of
// flag.Bool/String globals, a chain of small handleXxxFlag functions that
// each exit the process on their own terms, then one run() that wires the
// dependency graph and blocks until a signal arrives.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wiarlawd/fs-crawler/pkg/acl"
	"github.com/wiarlawd/fs-crawler/pkg/config"
	"github.com/wiarlawd/fs-crawler/pkg/document"
	"github.com/wiarlawd/fs-crawler/pkg/fs"
	"github.com/wiarlawd/fs-crawler/pkg/fs/nfs"
	"github.com/wiarlawd/fs-crawler/pkg/fs/posix"
	"github.com/wiarlawd/fs-crawler/pkg/fs/winlocal"
	"github.com/wiarlawd/fs-crawler/pkg/lister"
	"github.com/wiarlawd/fs-crawler/pkg/log"
	"github.com/wiarlawd/fs-crawler/pkg/match"
	"github.com/wiarlawd/fs-crawler/pkg/mimetype"
	"github.com/wiarlawd/fs-crawler/pkg/schedule"
	"github.com/wiarlawd/fs-crawler/pkg/sink/logsink"
	"github.com/wiarlawd/fs-crawler/pkg/traversal"
)

var (
	versionFlag = flag.Bool("version", false, "show version and exit")
	testFlag    = flag.Bool("t", false, "test configuration and exit")
	configFlag  = flag.String("c", "/etc/fscrawlerd/fscrawlerd.toml", "set configuration file")
	dryRunFlag  = flag.Bool("dry-run", false, "log documents instead of sending them to a real sink")
	// Compile time variable initialized with -ldflags.
	version string
)

func main() {
	flag.Parse()

	handleVersionFlag()

	config.SetFile(*configFlag)
	if err := config.Read(); err != nil {
		fmt.Fprintf(os.Stderr, "error reading config: %s\n", err.Error())
		os.Exit(1)
	}

	opts, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error decoding crawler config: %s\n", err.Error())
		os.Exit(1)
	}

	handleTestFlag()

	run(opts)
}

func handleVersionFlag() {
	if *versionFlag {
		fmt.Fprintf(os.Stderr, "fscrawlerd %s\n", version)
		os.Exit(1)
	}
}

func handleTestFlag() {
	if *testFlag {
		os.Exit(0)
	}
}

// run wires the full dependency graph — registry, matcher, acl builder,
// document factory, one traversal.Traverser per configured root, the
// lister pool — and blocks until SIGINT/SIGTERM requests a graceful stop.
func run(opts config.Options) {
	logger := log.New("fscrawlerd")

	matcher, err := match.New(opts.Include, opts.Exclude)
	if err != nil {
		logger.Error().Err(err).Msg("invalid include/exclude patterns")
		os.Exit(1)
	}

	registry := buildRegistry()
	builder := buildAclBuilder(opts)
	factory := document.NewFactory(document.Options{
		PushAcls:               opts.PushAcls,
		MarkAllDocumentsPublic: opts.MarkAllDocumentsPublic,
		SupportsInheritedAcls:  opts.SupportsInheritedAcls,
	}, builder, mimeDetector)

	acceptor := logsink.New()
	if !*dryRunFlag {
		logger.Warn().Msg("no production sink wired; falling back to log-and-drop (pass -dry-run to silence this)")
	}

	creds := fs.Credentials{Domain: opts.Credentials.Domain, User: opts.Credentials.User, Password: opts.Credentials.Password}

	traversers := make([]lister.Traverser, 0, len(opts.StartPaths))
	for _, root := range opts.StartPaths {
		t := &traversal.Traverser{
			RootPath:    root,
			Credentials: creds,
			Registry:    registry,
			Matcher:     matcher,
			Factory:     factory,
			Sink:        acceptor,
			Opts: traversal.Options{
				ErrorDelay:                traversal.DefaultErrorDelay,
				IfModifiedSinceCushion:    time.Duration(opts.IfModifiedSinceCushionMinutes) * time.Minute,
				FullTraversalIntervalDays: opts.FullTraversalIntervalDays,
				PushAcls:                  opts.PushAcls,
				MarkAllDocumentsPublic:    opts.MarkAllDocumentsPublic,
				SupportsInheritedAcls:     opts.SupportsInheritedAcls,
			},
		}
		traversers = append(traversers, t)
	}

	sched := schedule.Fixed{}
	l := lister.New(traversers, opts.ThreadPoolSize, sched, acceptor)

	ctx, cancel := context.WithCancel(context.Background())
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	<-stop
	logger.Info().Msg("shutdown requested")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), lister.DefaultShutdownTimeout)
	defer shutdownCancel()
	l.Shutdown(shutdownCtx)
	cancel()
	<-done
}

// buildRegistry registers winlocal, nfs and posix, in that order. posix's
// IsPath requires a leading "/", so it never claims an nfs:// URL; smb is
// not registered, since no concrete smb.Client ships with the daemon.
func buildRegistry() *fs.Registry {
	registry := fs.NewRegistry()
	registry.Register(winlocal.Type{})
	registry.Register(nfs.New(nil))
	registry.Register(posix.Type{})
	return registry
}

func buildAclBuilder(opts config.Options) *acl.Builder {
	level, ok := acl.ParseSecurityLevel(opts.AceSecurityLevel)
	if !ok {
		level = acl.SecurityFileOrShare
	}
	userFormat, ok := acl.ParseFormat(opts.UserAclFormat)
	if !ok {
		userFormat = acl.FormatUser
	}
	groupFormat, ok := acl.ParseFormat(opts.GroupAclFormat)
	if !ok {
		groupFormat = acl.FormatGroup
	}
	return acl.NewBuilder(acl.Options{
		SecurityLevel:         level,
		UserFormat:            userFormat,
		GroupFormat:           groupFormat,
		SupportsInheritedAcls: opts.SupportsInheritedAcls,
	})
}

// mimeDetector adapts pkg/mimetype to document.MimeDetector. Nodes that
// expose DetectMime (posix, nfs and winlocal) sniff their own content;
// every other node gets pkg/mimetype's extension-based type, which falls
// back to application/octet-stream.
func mimeDetector(ctx context.Context, file fs.File) (string, error) {
	isDir, err := file.IsDirectory()
	if err != nil {
		return "", err
	}
	if isDir {
		return mimetype.Detect(file.Name(), true, nil), nil
	}
	if pf, ok := file.(interface{ DetectMime(bool) (string, error) }); ok {
		return pf.DetectMime(false)
	}
	return mimetype.Detect(file.Name(), false, nil), nil
}
