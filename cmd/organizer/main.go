package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/category"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/config"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/conflict"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/dates"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/engine"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/logger"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/report"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/scan"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/internal/validate"
	"github.com/faisalirshadkhan8/File-Organizer-Pro/pkg/types"
)

var (
	appVersion = "1.0.0"

	cfgFile string
	verbose bool
	logFile string
	logJSON bool

	dest         string
	mode         string
	dryRun       bool
	strategy     string
	dateSource   string
	dateFormat   string
	customFormat string
	noSubdirs    bool
	force        bool
	backupDir    string
	verifyCopies bool
	afterDate    string
	beforeDate   string
	exportPath   string

	analyzeMode   string
	analyzeDest   string
	analyzeExport string

	previewMode  string
	previewLimit int

	showCategories bool
	showStats      bool
	showFormats    bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "organizer",
	Short: "Organize files into category or date folders",
	Long: `File Organizer Pro sorts a directory by file type or by date, with
configurable conflict resolution, dry-run previews, and safety checks
before any bulk move.`,
}

var organizeCmd = &cobra.Command{
	Use:   "organize SOURCE",
	Short: "Organize the files in SOURCE",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrganize,
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze SOURCE",
	Short: "Analyze SOURCE without changing anything",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var previewCmd = &cobra.Command{
	Use:   "preview SOURCE",
	Short: "Show where each file would go",
	Args:  cobra.ExactArgs(1),
	RunE:  runPreview,
}

var infoCmd = &cobra.Command{
	Use:   "info [DIRECTORY]",
	Short: "Show categories, date formats, and directory statistics",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runInfo,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(appVersion)
	},
}

func init() {
	rootCmd.AddCommand(organizeCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "log file path")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "output JSON logs")

	organizeCmd.Flags().StringVarP(&dest, "destination", "d", "", "destination directory (default: organize in place)")
	organizeCmd.Flags().StringVarP(&mode, "mode", "m", "", "organization mode: type, date")
	organizeCmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "simulate without moving files")
	organizeCmd.Flags().StringVar(&strategy, "conflict-strategy", "", "conflict strategy: skip, rename, overwrite, backup, size_compare, date_compare, hash_compare")
	organizeCmd.Flags().StringVar(&dateSource, "date-source", "", "date source: auto, exif, filename, creation, modification, access")
	organizeCmd.Flags().StringVar(&dateFormat, "date-format", "", "date folder format, e.g. YYYY-MM-DD")
	organizeCmd.Flags().StringVar(&customFormat, "custom-date-format", "", "custom Go time layout for date folders")
	organizeCmd.Flags().BoolVar(&noSubdirs, "no-subdirs", false, "do not create category subfolders")
	organizeCmd.Flags().BoolVar(&force, "force", false, "skip the safety check")
	organizeCmd.Flags().StringVar(&backupDir, "backup-dir", "", "backup directory for the backup strategy")
	organizeCmd.Flags().BoolVar(&verifyCopies, "verify-copies", false, "verify copies with a hash comparison")
	organizeCmd.Flags().StringVar(&afterDate, "after", "", "only organize files dated on or after YYYY-MM-DD (date mode)")
	organizeCmd.Flags().StringVar(&beforeDate, "before", "", "only organize files dated on or before YYYY-MM-DD (date mode)")
	organizeCmd.Flags().StringVar(&exportPath, "export", "", "write the run summary to a JSON file")

	analyzeCmd.Flags().StringVar(&analyzeMode, "mode", "both", "analysis mode: type, date, both")
	analyzeCmd.Flags().StringVarP(&analyzeDest, "destination", "d", "", "also check for conflicts against this destination")
	analyzeCmd.Flags().StringVar(&analyzeExport, "export", "", "write the analysis to a JSON file")

	previewCmd.Flags().StringVar(&previewMode, "mode", "", "organization mode: type, date")
	previewCmd.Flags().IntVar(&previewLimit, "limit", 10, "files to list per folder")

	infoCmd.Flags().BoolVar(&showCategories, "show-categories", false, "list category extension tables")
	infoCmd.Flags().BoolVar(&showStats, "show-stats", false, "show category statistics for DIRECTORY")
	infoCmd.Flags().BoolVar(&showFormats, "show-formats", false, "list date folder formats")
}

func runOrganize(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg.Source = args[0]
	if dest != "" {
		cfg.Destination = dest
	}
	if mode != "" {
		cfg.Mode = types.OrganizeMode(mode)
	}
	if strategy != "" {
		cfg.ConflictStrategy = types.ConflictStrategy(strategy)
	}
	if dateSource != "" {
		cfg.DateSource = types.DateSource(dateSource)
	}
	if dateFormat != "" {
		cfg.DateFormat = types.DateFormat(dateFormat)
	}
	if customFormat != "" {
		cfg.CustomDateFormat = customFormat
		cfg.DateFormat = types.FormatCustom
	}
	if noSubdirs {
		cfg.CreateSubdirs = false
	}
	if dryRun {
		cfg.DryRun = true
	}
	if force {
		cfg.Force = true
	}
	if backupDir != "" {
		cfg.BackupDir = backupDir
	}
	if verifyCopies {
		cfg.VerifyCopies = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	dateRange, err := parseDateRange(afterDate, beforeDate)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if !cfg.DryRun && !cfg.Force {
		rep := a.validator.ScanDirectorySafety(cfg.Source)
		if !validate.Safe(rep) {
			for i, w := range rep.Warnings {
				if i == 10 {
					fmt.Printf("  ... and %d more warnings\n", len(rep.Warnings)-10)
					break
				}
				fmt.Println("  " + w)
			}
			return fmt.Errorf("safety check failed for %s; re-run with --force to organize anyway", cfg.Source)
		}
	}

	var progress engine.ProgressFunc
	if !cfg.LogJSON {
		last := -1
		progress = func(fraction float64, path, group string) {
			pct := int(fraction * 100)
			if pct != last {
				fmt.Printf("\rProcessing... %3d%%", pct)
				last = pct
			}
		}
	}

	ctx := cmd.Context()
	var result *types.OrganizationResult
	switch cfg.Mode {
	case types.OrganizeByDate:
		result = a.engine.OrganizeByDate(ctx, cfg.Source, cfg.Destination, engine.DateOptions{
			DryRun:       cfg.DryRun,
			Source:       cfg.DateSource,
			Format:       cfg.DateFormat,
			CustomFormat: cfg.CustomDateFormat,
			Range:        dateRange,
			OnProgress:   progress,
		})
	default:
		result = a.engine.OrganizeByType(ctx, cfg.Source, cfg.Destination, engine.TypeOptions{
			DryRun:        cfg.DryRun,
			CreateSubdirs: cfg.CreateSubdirs,
			OnProgress:    progress,
		})
	}
	if progress != nil {
		fmt.Println()
	}

	printResult(result)

	if stats := a.resolver.Stats(); stats.BackupDir != "" {
		fmt.Printf("Backups stored in %s\n", stats.BackupDir)
	}

	if exportPath != "" {
		if err := report.WriteResult(exportPath, result); err != nil {
			return fmt.Errorf("failed to export results: %w", err)
		}
		fmt.Printf("Results exported to %s\n", exportPath)
	}

	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	switch analyzeMode {
	case "type", "date", "both":
	default:
		return fmt.Errorf("unknown analyze mode: %s", analyzeMode)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Source = args[0]
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	analysis := &report.Analysis{
		Directory:   cfg.Source,
		Mode:        analyzeMode,
		GeneratedAt: time.Now(),
	}

	if analyzeMode == "type" || analyzeMode == "both" {
		p, err := a.engine.Preview(cfg.Source, types.OrganizeByType, "", "")
		if err != nil {
			return err
		}
		analysis.TypePreview = p
		printTypeAnalysis(p)
	}

	var paths []string
	if analyzeMode == "date" || analyzeMode == "both" || analyzeDest != "" {
		entries, err := a.scanner.Scan(cfg.Source)
		if err != nil {
			return err
		}
		paths = make([]string, len(entries))
		for i, entry := range entries {
			paths[i] = entry.Path
		}
	}

	if analyzeMode == "date" || analyzeMode == "both" {
		p, err := a.engine.Preview(cfg.Source, types.OrganizeByDate, cfg.DateFormat, cfg.CustomDateFormat)
		if err != nil {
			return err
		}
		analysis.DatePreview = p
		analysis.Dates = a.dates.AnalyzeDistribution(paths)
		printDateAnalysis(analysis.Dates)
	}

	if analyzeDest != "" {
		analysis.Conflicts = a.resolver.Analyze(paths, analyzeDest)
		printConflictAnalysis(analysis.Conflicts)
	}

	if analyzeExport != "" {
		if err := report.WriteAnalysis(analyzeExport, analysis); err != nil {
			return fmt.Errorf("failed to export analysis: %w", err)
		}
		fmt.Printf("\nAnalysis exported to %s\n", analyzeExport)
	}

	return nil
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Source = args[0]
	if err := cfg.Validate(); err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	previewAs := cfg.Mode
	if previewMode != "" {
		previewAs = types.OrganizeMode(previewMode)
	}

	p, err := a.engine.Preview(cfg.Source, previewAs, cfg.DateFormat, cfg.CustomDateFormat)
	if err != nil {
		return err
	}

	printPreview(p, previewLimit)
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	all := !showCategories && !showStats && !showFormats

	if showCategories || all {
		printCategories(a.classifier.Categories())
	}
	if showFormats || all {
		printFormats()
	}
	if showStats {
		if len(args) == 0 {
			return fmt.Errorf("--show-stats requires a directory argument")
		}
		src, err := a.validator.SourceDirectory(args[0])
		if err != nil {
			return err
		}
		entries, err := a.scanner.Scan(src)
		if err != nil {
			return err
		}
		paths := make([]string, len(entries))
		for i, entry := range entries {
			paths[i] = entry.Path
		}
		stats := a.classifier.Stats(a.classifier.ClassifyAll(paths))
		printStats(src, stats, len(paths))
	}

	return nil
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if cfgFile != "" {
		cfg, err = config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	} else {
		cfg = config.DefaultConfig()
	}

	if verbose {
		cfg.LogLevel = "debug"
	}
	if logFile != "" {
		cfg.LogFile = logFile
	}
	if logJSON {
		cfg.LogJSON = true
	}

	return cfg, nil
}

type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	closeLog func() error

	validator  *validate.Validator
	classifier *category.Classifier
	dates      *dates.Organizer
	resolver   *conflict.Resolver
	scanner    *scan.Scanner
	engine     *engine.Engine
}

func newApp(cfg *config.Config) (*app, error) {
	lg, closeLog, err := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		File:    cfg.LogFile,
		Console: true,
		JSON:    cfg.LogJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up logging: %w", err)
	}

	v := validate.New(lg)
	classifier := category.New(v, cfg.Categories, lg)

	org := dates.NewOrganizer(lg)
	org.UnknownFolder = cfg.UnknownDateFolder

	resolver := conflict.New(cfg.ConflictStrategy, cfg.BackupDir, cfg.HashWorkers, lg)
	scanner := scan.New(nil, lg)

	eng := engine.New(engine.Components{
		Validator:  v,
		Classifier: classifier,
		Dates:      org,
		Resolver:   resolver,
		Scanner:    scanner,
	}, engine.Options{VerifyCopies: cfg.VerifyCopies}, lg)

	return &app{
		cfg:        cfg,
		log:        lg,
		closeLog:   closeLog,
		validator:  v,
		classifier: classifier,
		dates:      org,
		resolver:   resolver,
		scanner:    scanner,
		engine:     eng,
	}, nil
}

func (a *app) Close() {
	a.closeLog()
}

func parseDateRange(after, before string) (*types.DateRange, error) {
	if after == "" && before == "" {
		return nil, nil
	}

	r := &types.DateRange{}
	if after != "" {
		t, err := time.Parse("2006-01-02", after)
		if err != nil {
			return nil, fmt.Errorf("invalid --after date: %w", err)
		}
		r.Start = &t
	}
	if before != "" {
		t, err := time.Parse("2006-01-02", before)
		if err != nil {
			return nil, fmt.Errorf("invalid --before date: %w", err)
		}
		r.End = &t
	}
	return r, nil
}

func printResult(r *types.OrganizationResult) {
	s := r.Summary()

	fmt.Println()
	if s.DryRun {
		fmt.Println("Dry run - no files were changed.")
	}
	fmt.Printf("Total files:        %d\n", s.TotalFiles)
	fmt.Printf("Processed:          %d\n", s.ProcessedFiles)
	fmt.Printf("Skipped:            %d\n", s.SkippedFiles)
	fmt.Printf("Errors:             %d\n", s.ErrorFiles)
	fmt.Printf("Folders created:    %d\n", s.FoldersCreated)
	fmt.Printf("Conflicts resolved: %d\n", s.ConflictsResolved)
	fmt.Printf("Data moved:         %.2f MB\n", s.TotalSizeMB)
	fmt.Printf("Success rate:       %.1f%%\n", s.SuccessRate)
	fmt.Printf("Elapsed:            %.2fs\n", s.OperationTime)

	if len(s.Groups) > 0 {
		names := make([]string, 0, len(s.Groups))
		for name := range s.Groups {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Println("\nGroups:")
		for _, name := range names {
			g := s.Groups[name]
			fmt.Printf("  %-16s %d files (%.2f MB)\n", name, g.Count, float64(g.Size)/(1024*1024))
		}
	}

	if len(s.Errors) > 0 {
		fmt.Println("\nErrors:")
		for i, e := range s.Errors {
			if i == 5 {
				fmt.Printf("  ... and %d more\n", len(s.Errors)-5)
				break
			}
			fmt.Printf("  %s: %s\n", e.Path, e.Message)
		}
	}
}

func printTypeAnalysis(p *types.Preview) {
	names := make([]string, 0, len(p.Groups))
	for name := range p.Groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := p.Groups[names[i]], p.Groups[names[j]]
		if a.FileCount != b.FileCount {
			return a.FileCount > b.FileCount
		}
		return names[i] < names[j]
	})

	fmt.Printf("\nCategories (%d files, %d folders):\n", p.TotalFiles, p.EstimatedFolders)
	for _, name := range names {
		st := p.Groups[name]
		fmt.Printf("  %-16s %5d files  %5.1f%%  %10.2f MB\n", name, st.FileCount, st.Percentage, st.TotalSizeMB)
	}
}

func printDateAnalysis(d *types.DateAnalysis) {
	fmt.Printf("\nDate distribution (%d files):\n", d.TotalFiles)
	fmt.Printf("  with dates:    %d\n", d.FilesWithDates)
	fmt.Printf("  without dates: %d\n", d.FilesWithoutDates)
	if d.Earliest != nil && d.Latest != nil {
		fmt.Printf("  range:         %s to %s\n",
			d.Earliest.Format("2006-01-02"), d.Latest.Format("2006-01-02"))
	}

	if len(d.Sources) > 0 {
		sources := make([]string, 0, len(d.Sources))
		for src := range d.Sources {
			sources = append(sources, src)
		}
		sort.Strings(sources)

		fmt.Println("  sources:")
		for _, src := range sources {
			fmt.Printf("    %-14s %d\n", src, d.Sources[src])
		}
	}

	if len(d.ByYear) > 0 {
		years := make([]int, 0, len(d.ByYear))
		for year := range d.ByYear {
			years = append(years, year)
		}
		sort.Ints(years)

		fmt.Println("  by year:")
		for _, year := range years {
			fmt.Printf("    %d: %d\n", year, d.ByYear[year])
		}
	}

	if len(d.Problematic) > 0 {
		fmt.Println("  problematic:")
		for i, p := range d.Problematic {
			if i == 5 {
				fmt.Printf("    ... and %d more\n", len(d.Problematic)-5)
				break
			}
			fmt.Println("    " + p)
		}
	}
}

func printConflictAnalysis(c *types.ConflictAnalysis) {
	fmt.Printf("\nConflict check (%d files):\n", c.TotalFiles)
	fmt.Printf("  conflicts:  %d\n", c.Conflicts)
	if c.Conflicts == 0 {
		return
	}
	fmt.Printf("  identical:  %d\n", c.IdenticalFiles)
	fmt.Printf("  overwrites: %d\n", c.PotentialOverwrites)

	for i, d := range c.Details {
		if i == 5 {
			fmt.Printf("  ... and %d more\n", len(c.Details)-5)
			break
		}
		fmt.Printf("  %s -> %s (%s)\n", d.Source, d.Destination, d.Recommendation)
	}
}

func printPreview(p *types.Preview, limit int) {
	fmt.Printf("Preview (%s mode): %d files into %d folders\n", p.Mode, p.TotalFiles, p.EstimatedFolders)

	folders := make([]string, 0, len(p.Mappings))
	for folder := range p.Mappings {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	for _, folder := range folders {
		files := p.Mappings[folder]
		fmt.Printf("\n%s (%d files):\n", folder, len(files))
		for i, f := range files {
			if limit > 0 && i == limit {
				fmt.Printf("  ... and %d more\n", len(files)-limit)
				break
			}
			fmt.Println("  " + filepath.Base(f))
		}
	}
}

func printCategories(categories map[string][]string) {
	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Categories (%d):\n", len(names))
	for _, name := range names {
		exts := categories[name]
		shown := exts
		more := ""
		if len(exts) > 5 {
			shown = exts[:5]
			more = fmt.Sprintf(", +%d more", len(exts)-5)
		}
		fmt.Printf("  %-14s %2d extensions (%s%s)\n", name, len(exts), strings.Join(shown, ", "), more)
	}
}

func printFormats() {
	sample := time.Date(2024, time.March, 15, 14, 30, 0, 0, time.Local)
	formats := []types.DateFormat{
		types.FormatYear,
		types.FormatYearMonth,
		types.FormatYearMonthDay,
		types.FormatYearQuarter,
		types.FormatYearWeek,
		types.FormatMonthYear,
		types.FormatMonthNameYear,
		types.FormatYearMonthName,
		types.FormatYearFullMonthName,
	}

	fmt.Println("\nDate folder formats:")
	for _, f := range formats {
		fmt.Printf("  %-10s e.g. %s\n", f, dates.FolderName(sample, f, ""))
	}
	fmt.Println("  custom     any Go time layout via custom_date_format")
}

func printStats(dir string, stats map[string]types.CategoryStats, total int) {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := stats[names[i]], stats[names[j]]
		if a.FileCount != b.FileCount {
			return a.FileCount > b.FileCount
		}
		return names[i] < names[j]
	})

	fmt.Printf("\nStatistics for %s (%d files):\n", dir, total)
	for _, name := range names {
		st := stats[name]
		fmt.Printf("  %-16s %5d files  %5.1f%%  %10.2f MB", name, st.FileCount, st.Percentage, st.TotalSizeMB)
		if st.InaccessibleFiles > 0 {
			fmt.Printf("  (%d inaccessible)", st.InaccessibleFiles)
		}
		fmt.Println()
	}
}
