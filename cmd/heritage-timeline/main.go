package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/wcatz/heritage-timeline/internal/catalog"
	"github.com/wcatz/heritage-timeline/internal/config"
	"github.com/wcatz/heritage-timeline/internal/generator"
	"github.com/wcatz/heritage-timeline/internal/layout"
	"github.com/wcatz/heritage-timeline/internal/logging"
	"github.com/wcatz/heritage-timeline/internal/server"
	"github.com/wcatz/heritage-timeline/web"
)

// catalogEnv overrides the catalog path when --catalog is not given.
const catalogEnv = "TIMELINE_CATALOG"

var (
	cfgFile      string
	profile      string
	outputDir    string
	formats      []string
	catalogPath  string
	categories   []string
	hover        string
	profileTitle string
	paletteName  string
	profileFile  string
	logLevel     string
	logFormat    string
	dryRun       bool
	verbose      bool
	servePort    int
	showWidth    int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "heritage-timeline",
		Short:        "config-driven timeline of Indian heritage",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file (built-in defaults when empty)")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "catalog file (or set "+catalogEnv+" env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (trace, debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format override (console, json)")

	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "generate timeline JSON and SVG files for each profile",
		RunE:  runGenerate,
	}
	genCmd.Flags().StringVar(&profile, "profile", "", "generate only the named profile")
	genCmd.Flags().StringVar(&outputDir, "output-dir", "", "override output directory")
	genCmd.Flags().StringSliceVar(&formats, "format", nil, "override output formats (json, svg)")
	genCmd.Flags().BoolVar(&dryRun, "dry-run", false, "generate to memory only")
	genCmd.Flags().BoolVar(&verbose, "verbose", false, "print placement details")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "render a timeline in the terminal",
		RunE:  runShow,
	}
	showCmd.Flags().StringSliceVar(&categories, "category", nil, "categories to show (default selection when empty)")
	showCmd.Flags().StringVar(&profile, "profile", "", "show the named profile's categories")
	showCmd.Flags().StringVar(&hover, "hover", "", "placement key to highlight")
	showCmd.Flags().IntVar(&showWidth, "width", 100, "output width in columns")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "start the web UI server",
		RunE:  runServe,
	}
	serveCmd.Flags().IntVar(&servePort, "port", 0, "HTTP server port (config server.port when 0)")

	catCmd := &cobra.Command{
		Use:   "categories",
		Short: "list categories with their colors and event counts",
		RunE:  runCategories,
	}

	profileCmd := &cobra.Command{
		Use:   "profile",
		Short: "edit profiles in the config file",
	}
	profileSaveCmd := &cobra.Command{
		Use:   "save NAME",
		Short: "add or replace a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileSave,
	}
	profileSaveCmd.Flags().StringSliceVar(&categories, "category", nil, "categories in the profile (required)")
	profileSaveCmd.Flags().StringVar(&profileTitle, "title", "", "profile title")
	profileSaveCmd.Flags().StringVar(&profileFile, "filename", "", "output file base name")
	profileSaveCmd.MarkFlagRequired("category")
	profileDeleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "remove a profile",
		Args:  cobra.ExactArgs(1),
		RunE:  runProfileDelete,
	}
	profileCmd.AddCommand(profileSaveCmd, profileDeleteCmd)

	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "edit category color palettes in the config file",
	}
	paletteSetCmd := &cobra.Command{
		Use:   "set CATEGORY HEX",
		Short: "set a category color in a palette",
		Args:  cobra.ExactArgs(2),
		RunE:  runPaletteSet,
	}
	paletteSetCmd.Flags().StringVar(&paletteName, "palette", "", "palette to edit (active palette when empty)")
	paletteUseCmd := &cobra.Command{
		Use:   "use NAME",
		Short: "make a palette the active one",
		Args:  cobra.ExactArgs(1),
		RunE:  runPaletteUse,
	}
	paletteCmd.AddCommand(paletteSetCmd, paletteUseCmd)

	rootCmd.AddCommand(genCmd, showCmd, serveCmd, catCmd, profileCmd, paletteCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func overrides() map[string]string {
	cliArgs := make(map[string]string)
	path := catalogPath
	if path == "" {
		path = os.Getenv(catalogEnv)
	}
	if path != "" {
		cliArgs["catalog_path"] = path
	}
	return cliArgs
}

func loadConfig() (*config.Config, error) {
	return config.LoadOrDefault(cfgFile, overrides())
}

func newLogger(cfg *config.Config) (zerolog.Logger, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	return logging.New(os.Stderr, level, format)
}

// setup loads config, logger and catalog and returns a document builder.
func setup() (*config.Config, zerolog.Logger, *generator.Builder, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, zerolog.Nop(), nil, err
	}
	catFile := cfg.CatalogFile(cfgFile)
	cat, err := catalog.Open(catFile)
	if err != nil {
		return nil, log, nil, err
	}
	if catFile == "" {
		catFile = "embedded"
	}
	log.Debug().Str("catalog", catFile).Int("events", cat.Len()).Msg("catalog loaded")
	return cfg, log, generator.NewBuilder(cfg, cat, layout.NewEngine(cfg.LayoutOptions())), nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, log, builder, err := setup()
	if err != nil {
		return err
	}
	return generateTimelines(cfg, log, builder)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg, _, builder, err := setup()
	if err != nil {
		return err
	}

	var sel catalog.Selection
	switch {
	case len(categories) > 0:
		sel, err = catalog.NewSelection(categories...)
	case profile != "":
		sel, err = cfg.GetSelection(profile)
	default:
		sel = cfg.GetDefaultSelection()
	}
	if err != nil {
		return err
	}

	doc := builder.BuildSelection(sel, layout.State{Hovered: hover})
	fmt.Println(generator.NewTerminalRenderer(showWidth).Render(doc))
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(web.EmbeddedFS, cfgFile, overrides(), log)
	if err != nil {
		return err
	}
	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}
	addr := fmt.Sprintf(":%d", port)
	return srv.ListenAndServe(addr)
}

func runCategories(cmd *cobra.Command, args []string) error {
	cfg, _, builder, err := setup()
	if err != nil {
		return err
	}
	sel := cfg.GetDefaultSelection()
	for _, c := range builder.CategoryInfos(sel) {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color)).Render("■")
		mark := " "
		if c.Selected {
			mark = "*"
		}
		fmt.Printf("%s %s %-14s %-10s %3d events  %s\n", mark, swatch, c.Key, c.Icon, c.Count, c.Color)
	}
	return nil
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required to save a profile")
	}
	def := config.ProfileDef{Title: profileTitle, Categories: categories, Filename: profileFile}
	if err := config.NewYAMLEditor(cfgFile).SaveProfile(args[0], def); err != nil {
		return err
	}
	fmt.Printf("saved profile '%s' to %s\n", args[0], cfgFile)
	return nil
}

func runProfileDelete(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required to delete a profile")
	}
	if err := config.NewYAMLEditor(cfgFile).DeleteProfile(args[0]); err != nil {
		return err
	}
	fmt.Printf("deleted profile '%s' from %s\n", args[0], cfgFile)
	return nil
}

func runPaletteSet(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required to edit a palette")
	}
	name := paletteName
	if name == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		name = cfg.ActivePalette
	}
	if name == "" {
		return fmt.Errorf("no active palette, pass --palette")
	}
	if err := config.NewYAMLEditor(cfgFile).SetPaletteColor(name, args[0], args[1]); err != nil {
		return err
	}
	swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(args[1])).Render("■")
	fmt.Printf("%s %s set to %s in palette '%s'\n", swatch, args[0], args[1], name)
	return nil
}

func runPaletteUse(cmd *cobra.Command, args []string) error {
	if cfgFile == "" {
		return fmt.Errorf("--config is required to switch palettes")
	}
	if err := config.NewYAMLEditor(cfgFile).SetActivePalette(args[0]); err != nil {
		return err
	}
	fmt.Printf("palette '%s' is now active in %s\n", args[0], cfgFile)
	return nil
}

func generateTimelines(cfg *config.Config, log zerolog.Logger, builder *generator.Builder) error {
	gen := cfg.Generator

	// determine output directory
	outDir := outputDir
	if outDir == "" {
		outDir = gen.OutputDir
	}
	if outDir == "" {
		outDir = "."
	}
	if !filepath.IsAbs(outDir) && cfgFile != "" {
		configDir := filepath.Dir(cfgFile)
		absConfig, err := filepath.Abs(configDir)
		if err != nil {
			return err
		}
		outDir = filepath.Join(absConfig, outDir)
	}
	if !dryRun {
		if err := os.MkdirAll(outDir, 0755); err != nil {
			return err
		}
	}

	outFormats := gen.Formats
	if len(formats) > 0 {
		outFormats = formats
	}
	for _, f := range outFormats {
		if f != "json" && f != "svg" {
			return fmt.Errorf("unknown output format '%s'", f)
		}
	}

	profiles, err := cfg.GetProfiles(profile)
	if err != nil {
		return err
	}
	order, err := cfg.GetProfileOrder(profile)
	if err != nil {
		return err
	}
	// ensure order only includes profiles that exist
	var filteredOrder []string
	orderSet := make(map[string]bool)
	for _, name := range order {
		if _, ok := profiles[name]; ok && !orderSet[name] {
			filteredOrder = append(filteredOrder, name)
			orderSet[name] = true
		}
	}
	// add any profiles not in the order list
	var remaining []string
	for name := range profiles {
		if !orderSet[name] {
			remaining = append(remaining, name)
		}
	}
	sort.Strings(remaining)
	filteredOrder = append(filteredOrder, remaining...)

	svgRenderer := generator.NewSVGRenderer(cfg.SVG)

	totalSize := 0
	totalEvents := 0
	fmt.Println("heritage timeline generator:")

	for _, name := range filteredOrder {
		doc, err := builder.Build(name, profiles[name])
		if err != nil {
			return fmt.Errorf("building timeline '%s': %w", name, err)
		}
		if doc.Layout.DefaultRange {
			log.Warn().Str("profile", name).Msg("no events selected, using default range")
		}

		base := profiles[name].Filename
		if base == "" {
			base = name
		}
		for _, f := range outFormats {
			fpath := filepath.Join(outDir, base+"."+f)
			var size int
			switch f {
			case "json":
				size, err = generator.WriteDocument(os.Stdout, doc, fpath, dryRun)
			case "svg":
				size, err = generator.WriteSVG(os.Stdout, doc, svgRenderer.Render(doc), fpath, dryRun)
			}
			if err != nil {
				return err
			}
			totalSize += size
		}
		totalEvents += doc.EventCount()

		if verbose {
			for _, p := range doc.Layout.Placements {
				fmt.Printf("    [lane %d %s] %s %s (%s)\n", p.Lane, p.Side, p.Key, p.Event.Title, p.Event.Date)
			}
		}
		log.Debug().Str("profile", name).Int("events", doc.EventCount()).Int("max_lane", doc.Layout.MaxLane()).Msg("timeline built")
	}

	fmt.Printf("\n  total: %d timelines, %d events, %s bytes\n", len(filteredOrder), totalEvents, generator.FormatSize(totalSize))
	return nil
}
