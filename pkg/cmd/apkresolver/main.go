package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/revanced-tools/apk-resolver/pkg/changelog"
	"github.com/revanced-tools/apk-resolver/pkg/config"
	"github.com/revanced-tools/apk-resolver/pkg/downloader"
	"github.com/revanced-tools/apk-resolver/pkg/githubapi"
	"github.com/revanced-tools/apk-resolver/pkg/httputil"
	"github.com/revanced-tools/apk-resolver/pkg/icon"
	"github.com/revanced-tools/apk-resolver/pkg/logme"
	"github.com/revanced-tools/apk-resolver/pkg/prettyprint"
	"github.com/revanced-tools/apk-resolver/pkg/uptodown"
)

const usage = `usage: apkresolver [-config file] <command> [args]

commands:
  download                  download every configured app
  asset <repoURL> <pattern> print the first release asset matching pattern
  icon <package>...         print the icon url of each package
  versions <app>            list the versions uptodown offers for app
  list                      list downloaded files
`

func main() {
	var (
		configFlag  = flag.String("config", "", "Path to configuration file (yaml or json)")
		verboseFlag = flag.Bool("verbose", false, "Print debug output and every icon lookup attempt")
		jsonFlag    = flag.Bool("json", false, "Print download and version results as JSON")
	)
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *verboseFlag {
		logme.SetDebug(true)
	}

	logme.Debugln("config file: ", *configFlag)

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		logme.Errorln(fmt.Errorf("couldn't read configuration: %w", err))
		os.Exit(1)
	}

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(1)
	}

	cli := newApp(cfg, os.Stdout)
	cli.verbose = *verboseFlag
	cli.json = *jsonFlag
	if cfg.ShowProgress {
		cli.fetcher = downloader.NewFetcher(cli.session, cfg.OutputDir, downloader.WithProgress(os.Stderr))
	}

	if err := cli.run(context.Background(), flag.Args()); err != nil {
		logme.Errorln(err)
		if httputil.IsConfiguration(err) {
			flag.Usage()
		}
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		config.ApplyEnv(&cfg, os.LookupEnv)
		return cfg, nil
	}
	return config.Load(path)
}

// FormattedOutput is the JSON report of a download run.
type FormattedOutput struct {
	Artifacts []downloader.Artifact `json:"artifacts"`
	Failures  map[string]string     `json:"failures,omitempty"`
	Changelog []changelog.Entry     `json:"changelog,omitempty"`
}

type app struct {
	cfg       config.Config
	out       io.Writer
	verbose   bool
	json      bool
	session   *httputil.Session
	changelog *changelog.Store
	github    *githubapi.Client
	uptodown  *uptodown.Client
	icons     *icon.Resolver
	fetcher   *downloader.Fetcher
}

func newApp(cfg config.Config, out io.Writer) *app {
	session := httputil.NewSession(
		httputil.WithToken(cfg.PersonalAccessToken),
		httputil.WithTimeout(cfg.Timeout()),
	)
	store := changelog.NewStore()
	return &app{
		cfg:       cfg,
		out:       out,
		session:   session,
		changelog: store,
		github:    githubapi.NewClient(session, githubapi.WithChangelog(store)),
		uptodown:  uptodown.NewClient(session, cfg.UpToDown),
		icons:     icon.NewDefaultResolver(session, cfg.APKMirrorAuth),
		fetcher:   downloader.NewFetcher(session, cfg.OutputDir),
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	switch args[0] {
	case "download":
		return a.download(ctx)
	case "asset":
		if len(args) != 3 {
			return &httputil.ConfigurationError{Reason: "asset needs a repository url and a pattern"}
		}
		return a.asset(ctx, args[1], args[2])
	case "icon":
		if len(args) < 2 {
			return &httputil.ConfigurationError{Reason: "icon needs at least one package name"}
		}
		return a.icon(ctx, args[1:])
	case "versions":
		if len(args) != 2 {
			return &httputil.ConfigurationError{Reason: "versions needs an app name"}
		}
		return a.versions(ctx, args[1])
	case "list":
		return a.list()
	default:
		return &httputil.ConfigurationError{Reason: fmt.Sprintf("unknown command %q", args[0])}
	}
}

func (a *app) download(ctx context.Context) error {
	if len(a.cfg.Apps) == 0 {
		return &httputil.ConfigurationError{Reason: "no apps configured"}
	}

	deps := downloader.Deps{
		GitHub:   a.github,
		UpToDown: a.uptodown,
		Fetcher:  a.fetcher,
		Skip: downloader.SkipPolicy{
			DryRun:   a.cfg.DryRun,
			Patterns: a.cfg.SkipApps,
		},
	}

	report := FormattedOutput{Failures: map[string]string{}}
	for _, entry := range a.cfg.Apps {
		d, err := downloader.New(entry.Source, deps)
		if err != nil {
			return err
		}
		artifact, err := downloader.Fetch(ctx, d, downloader.Request{
			App:     entry.Name,
			Version: entry.Version,
			Owner:   entry.Owner,
			Repo:    entry.Repo,
		})
		if err != nil {
			report.Failures[entry.Name] = err.Error()
			if errors.Is(err, httputil.ErrAssetNotFound) {
				logme.DebugFln("%s has no matching asset on %s", entry.Name, entry.Source)
			}
			if !a.json {
				fmt.Fprintf(a.out, "%s %s: %v\n", color.RedString("failed:"), entry.Name, err)
			}
			continue
		}
		report.Artifacts = append(report.Artifacts, artifact)
		if a.json {
			continue
		}
		if artifact.Skipped {
			fmt.Fprintf(a.out, "%s %s\n", color.YellowString("skipped:"), entry.Name)
			continue
		}
		fmt.Fprintf(a.out, "%s %s -> %s (%d bytes)\n", color.GreenString("ok:"), entry.Name, artifact.Path, artifact.Size)
	}
	report.Changelog = a.changelog.Entries()

	if a.json {
		if err := prettyprint.Fprint(a.out, report); err != nil {
			return err
		}
	} else {
		for _, e := range report.Changelog {
			fmt.Fprintf(a.out, "\n%s %s\n", color.BlueString(e.Source), e.Tag)
			if e.Body != "" {
				fmt.Fprintln(a.out, e.Body)
			}
		}
	}

	if len(report.Failures) > 0 {
		return fmt.Errorf("%d of %d apps failed to download", len(report.Failures), len(a.cfg.Apps))
	}
	return nil
}

func (a *app) asset(ctx context.Context, repoURL, pattern string) error {
	match, err := a.github.AssetByFilter(ctx, repoURL, pattern)
	if err != nil {
		return err
	}
	if match == "" {
		return httputil.NotFound("no asset of %s matches %q", repoURL, pattern)
	}
	fmt.Fprintln(a.out, match)
	return nil
}

func (a *app) icon(ctx context.Context, packages []string) error {
	for _, pkg := range packages {
		url, attempts := a.icons.Trace(ctx, pkg)
		fmt.Fprintf(a.out, "%s %s\n", pkg, url)
		if !a.verbose {
			continue
		}
		for _, at := range attempts {
			if at.Err != nil {
				fmt.Fprintf(a.out, "  %s %s: %v\n", color.YellowString("miss"), at.Strategy, at.Err)
				continue
			}
			fmt.Fprintf(a.out, "  %s %s\n", color.GreenString("hit"), at.Strategy)
		}
	}
	return nil
}

func (a *app) versions(ctx context.Context, name string) error {
	entries, err := a.uptodown.ListVersions(ctx, name)
	if err != nil {
		return err
	}
	uptodown.SortEntries(entries)
	if a.json {
		return prettyprint.Fprint(a.out, entries)
	}
	for _, e := range entries {
		fmt.Fprintf(a.out, "%s\t%s\n", e.Version, e.DownloadURL)
	}
	return nil
}

func (a *app) list() error {
	files, err := a.fetcher.Artifacts("**/*")
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintln(a.out, f)
	}
	return nil
}
