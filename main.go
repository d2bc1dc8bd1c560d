package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/keyrig/keyrig/internal/gpg"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", "", "configuration file path")
		homedir     = flag.String("homedir", "", "gpg home directory")
		outdir      = flag.StringP("outdir", "o", "", "output directory for exports")
		outfile     = flag.String("outfile", "", "template for the exported file name")
		gpgBin      = flag.String("gpg-bin", "gpg", "gpg executable")
		armor       = flag.BoolP("armor", "a", false, "enable armored output")
		defaultKey  = flag.StringP("default-key", "d", "", "default key for signing")
		style       = flag.StringP("style", "s", "", "style of the table (plain, colored)")
		color       = flag.String("color", "", "accent color")
		detailLevel = flag.String("detail-level", "", "detail level (minimum, standard, full)")
		listSecret  = flag.Bool("secret", false, "start on the secret keyring")
		selectFlag  = flag.String("select", "", "select mode: print the chosen value and exit "+
			"(key, key_id, key_fingerprint, key_user_id, row1, row2)")
		showVersion = flag.BoolP("version", "V", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("keyrig " + version)
		return
	}

	cfg, cfgPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "keyrig:", err)
		os.Exit(1)
	}

	// Command-line flags win over the config file.
	if *homedir != "" {
		cfg.Gpg.Homedir = *homedir
	}
	if *outdir != "" {
		cfg.Gpg.Outdir = *outdir
	}
	if *outfile != "" {
		cfg.Gpg.Outfile = *outfile
	}
	if *armor {
		cfg.Gpg.Armor = true
	}
	if *defaultKey != "" {
		cfg.Gpg.DefaultKey = *defaultKey
	}
	if *style != "" {
		cfg.General.Style = *style
	}
	if *color != "" {
		cfg.General.Color = *color
	}
	if *detailLevel != "" {
		cfg.General.DetailLevel = *detailLevel
	}
	if err := validateConfig(cfg); err != nil {
		fmt.Fprintln(os.Stderr, "keyrig:", err)
		os.Exit(1)
	}

	engine, err := gpg.New(gpg.Options{
		Bin:     *gpgBin,
		Homedir: cfg.Gpg.Homedir,
		Outdir:  cfg.Gpg.Outdir,
		Outfile: cfg.Gpg.Outfile,
		Armor:   cfg.Gpg.Armor,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "keyrig:", err)
		os.Exit(1)
	}

	m := newModel(cfg, cfgPath, engine)
	if *listSecret {
		m.repo.setActive(gpg.Secret)
	}
	if *selectFlag != "" {
		target, err := parseCopyTarget(*selectFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "keyrig:", err)
			os.Exit(1)
		}
		m.selectActive = true
		m.selectTarget = target
		m.mode = modeNormal
	}

	if watcher, err := newConfigWatcher(cfgPath); err == nil {
		m.watcher = watcher
		defer watcher.Close()
	}

	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "keyrig:", err)
		os.Exit(1)
	}

	if out, ok := final.(model); ok && out.selectActive {
		if out.selectOutput == "" {
			os.Exit(1)
		}
		fmt.Println(out.selectOutput)
	}
}
