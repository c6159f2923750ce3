package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"nightshift/pkg/engine/input"
	"nightshift/pkg/engine/terminal"
	"nightshift/pkg/game/config"
	"nightshift/pkg/game/devtools"
	"nightshift/pkg/game/gameplay"
	"nightshift/pkg/game/logging"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/renderer"
	ebitenrenderer "nightshift/pkg/game/renderer/ebiten"
	"nightshift/pkg/game/renderer/tui"
	"nightshift/pkg/game/session"
)

// tuiFrame is how often the terminal frontend steps and redraws.
const tuiFrame = time.Second / 30

func initGettext(cfg config.Config) {
	if cfg.LocaleDir == "" {
		return
	}
	gotext.Configure(cfg.LocaleDir, cfg.LocaleLang, "default")
}

func main() {
	configFile := flag.String("config", "", "path to a config file (default: nightshift.yaml if present)")
	startNight := flag.Int("night", 0, "start this night straight away, locked or not (for developer testing)")
	seed := flag.Int64("seed", 0, "random seed (0 picks one)")
	difficulty := flag.Float64("difficulty", 0, "difficulty multiplier")
	frontend := flag.String("frontend", "", "tui or ebiten")
	simulate := flag.String("simulate", "", fmt.Sprintf("play headless nights with a policy %v", devtools.PolicyNames()))
	runs := flag.Int("runs", 20, "nights to simulate with -simulate")
	logPath := flag.String("log", "", "write logs to this file")
	debug := flag.Bool("debug", false, "verbose logging")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	if *difficulty != 0 {
		cfg.Difficulty = *difficulty
	}
	if *frontend != "" {
		cfg.Frontend = *frontend
	}
	if *debug {
		cfg.Debug = true
	}
	cfg.Normalize()

	initGettext(cfg)

	// The terminal frontend owns stdout, so its logs go to a file.
	logFile := *logPath
	if logFile == "" && *simulate == "" && cfg.Frontend == config.FrontendTUI {
		logFile = filepath.Join(filepath.Dir(cfg.SavePath), "nightshift.log")
	}
	logger, err := logging.New(cfg.Debug, logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *simulate != "" {
		os.Exit(runSimulation(cfg, *simulate, *startNight, *runs, logger))
	}

	store, closeStore := gameplay.OpenStore(cfg, logger)
	defer closeStore()

	s := gameplay.BuildGame(context.Background(), cfg, logger, store)
	if *startNight > 0 {
		s.StartNight(nights.Clamp(*startNight))
	}

	logger.Info("starting",
		zap.String("run", s.RunID()),
		zap.Int64("seed", s.Seed()),
		zap.String("frontend", cfg.Frontend),
		zap.String("save", cfg.SavePath),
	)

	bindings := input.DefaultBindings()
	if err := bindings.Apply(cfg.Keys); err != nil {
		logger.Warn("ignoring key bindings", zap.Error(err))
	}

	switch cfg.Frontend {
	case config.FrontendEbiten:
		err = ebitenrenderer.New(s, bindings, logger).Run()
	default:
		err = runTUI(s, bindings, logger)
	}
	if err != nil {
		logger.Error("frontend stopped", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runTUI plays in the terminal: keys arrive on their own goroutine while a
// ticker steps the session and redraws.
func runTUI(s *session.Session, bindings input.Bindings, logger *zap.Logger) error {
	if !terminal.IsTerminal() {
		return errors.New("the terminal frontend needs an interactive terminal (try -frontend ebiten)")
	}
	keys, err := input.NewKeyReader()
	if err != nil {
		return err
	}
	defer keys.Close()

	var r renderer.Renderer = tui.New()
	r.Init()
	r.Clear()
	defer terminal.End(os.Stdout)

	ticker := time.NewTicker(tuiFrame)
	defer ticker.Stop()

	last := time.Now()
	r.RenderFrame(s.View())
	for {
		select {
		case raw, ok := <-keys.Keys():
			if !ok {
				logger.Info("stdin closed")
				return nil
			}
			if gameplay.ProcessIntent(s, bindings.Map(raw)) == gameplay.Quit {
				logger.Info("quit", zap.Float64("elapsed", s.Elapsed()))
				return nil
			}
		case now := <-ticker.C:
			s.Update(now.Sub(last).Seconds())
			last = now
			for _, c := range s.DrainCues() {
				r.ShowMessage(renderer.CueText(c))
			}
			r.RenderFrame(s.View())
		}
	}
}

// runSimulation plays runs headless nights and prints how they went.
func runSimulation(cfg config.Config, policyName string, night, runs int, logger *zap.Logger) int {
	policy, err := devtools.PolicyByName(policyName)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	simCfg := devtools.SimConfig{
		Settings: gameplay.SettingsFrom(cfg),
		Night:    nights.Clamp(max(1, night)),
	}
	results := devtools.Soak(simCfg, policy, runs, logger)

	for _, r := range results {
		fmt.Printf("seed %-6d %-9s %d:%02d  power %5.1f  score %5d  %s\n",
			r.Seed, r.Phase, r.Minutes/60, r.Minutes%60, r.Power, r.Score, r.Killer)
	}

	sum := devtools.Summarize(results)
	fmt.Printf("\n%s night %d: %d runs, %d survived, %d caught, %d unfinished\n",
		policyName, simCfg.Night, sum.Runs, sum.Won, sum.Jumpscares, sum.Unfinished)

	killers := make([]string, 0, len(sum.Killers))
	for k := range sum.Killers {
		killers = append(killers, k)
	}
	sort.Strings(killers)
	for _, k := range killers {
		fmt.Printf("  %-18s %d\n", k, sum.Killers[k])
	}
	return 0
}
