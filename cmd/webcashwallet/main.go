// Package main provides webcashwallet, the CLI front end for the
// wallet core: load or create the YAML config, stand up the logger
// from its level, open the durable store, then dispatch to a
// subcommand instead of a single long-running daemon loop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/webcash-project/walletcore/internal/config"
	"github.com/webcash-project/walletcore/internal/hdkey"
	"github.com/webcash-project/walletcore/internal/replace"
	"github.com/webcash-project/walletcore/internal/wallet"
	"github.com/webcash-project/walletcore/internal/webcash"
	"github.com/webcash-project/walletcore/pkg/logging"
)

var (
	version = "0.1.0-dev"
)

// globalFlags registers the flags every subcommand accepts
// (data directory, server and log level overrides) on fs, so each
// subcommand can add its own flags to the same set before parsing.
func globalFlags(fs *flag.FlagSet) (dataDir, server, logLevel *string) {
	dataDir = fs.String("data-dir", "~/.webcashwallet", "Data directory")
	server = fs.String("server", "", "Mint server base URL, overrides config")
	logLevel = fs.String("log-level", "", "Log level (debug, info, warn, error), overrides config")
	return
}

// loadConfig resolves the config file and logger for a subcommand
// invocation from its already-parsed global flags.
func loadConfig(dataDir, server, logLevel string) *config.Config {
	cfg, err := config.Load(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "webcashwallet: load config: %v\n", err)
		os.Exit(1)
	}
	if server != "" {
		cfg.Server = server
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	log := logging.New(&logging.Config{Level: cfg.LogLevel, TimeFormat: time.TimeOnly, Prefix: "webcashwallet"})
	logging.SetDefault(log)
	return cfg
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	subcommand := os.Args[1]
	args := os.Args[2:]

	switch subcommand {
	case "open":
		runOpen(args)
	case "balance":
		runBalance(args)
	case "accept-terms":
		runAcceptTerms(args)
	case "replace":
		runReplace(args)
	case "show-backup-phrase":
		runShowBackupPhrase(args)
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: webcashwallet <open|balance|accept-terms|replace|show-backup-phrase> [flags]")
}

func openWallet(cfg *config.Config) *wallet.Wallet {
	w, err := wallet.Open(cfg.WalletBasePath(), cfg.Server)
	if err != nil {
		logging.Fatal("failed to open wallet", "error", err)
	}
	return w
}

func runOpen(args []string) {
	fs := flag.NewFlagSet("open", flag.ExitOnError)
	dataDir, server, logLevel := globalFlags(fs)
	fs.Parse(args)
	cfg := loadConfig(*dataDir, *server, *logLevel)

	w := openWallet(cfg)
	defer w.Close()
	logging.Infof("webcashwallet %s: wallet ready at %s", version, cfg.WalletBasePath())
}

func runBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	dataDir, server, logLevel := globalFlags(fs)
	fs.Parse(args)
	cfg := loadConfig(*dataDir, *server, *logLevel)

	w := openWallet(cfg)
	defer w.Close()

	balances, err := w.Balances(context.Background())
	if err != nil {
		logging.Fatal("failed to read balances", "error", err)
	}
	if len(balances) == 0 {
		fmt.Println("no tracked outputs")
		return
	}
	for _, b := range balances {
		state := "unspent"
		if b.Spent {
			state = "spent"
		}
		fmt.Printf("%-10s %-8s total=%d count=%d\n", b.Category, state, b.Total, b.Count)
	}
}

func runAcceptTerms(args []string) {
	fs := flag.NewFlagSet("accept-terms", flag.ExitOnError)
	dataDir, server, logLevel := globalFlags(fs)
	bodyFile := fs.String("body-file", "", "Path to the terms text to accept")
	fs.Parse(args)
	cfg := loadConfig(*dataDir, *server, *logLevel)

	var body []byte
	var err error
	if *bodyFile != "" {
		body, err = os.ReadFile(*bodyFile)
	} else {
		body, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		logging.Fatal("failed to read terms body", "error", err)
	}

	w := openWallet(cfg)
	defer w.Close()

	if err := w.AcceptTerms(context.Background(), time.Now().Unix(), string(body)); err != nil {
		logging.Fatal("failed to accept terms", "error", err)
	}
	logging.Info("terms accepted")
}

// replaceRequestFile is the on-disk shape accepted by `replace
// --request-file`: the outputs this wallet is offering to spend and
// the category of the single freshly-reserved change output, which
// receives the inputs' full total. Kept deliberately narrow; a richer CLI is out of scope for
// this core. ChangeMine and ChangeSweep are pointers so an omitted
// field can be told apart from an explicit false; omitting both falls
// back to the configured default sweep category.
type replaceRequestFile struct {
	Inputs []struct {
		OutputID int64          `json:"output_id"`
		Secret   string         `json:"secret"`
		Amount   webcash.Amount `json:"amount"`
	} `json:"inputs"`
	ChangeMine  *bool `json:"change_mine"`
	ChangeSweep *bool `json:"change_sweep"`
}

// resolveChangeCategory returns the (mine, sweep) pair for the change
// output. If both fields are present in the request they win outright;
// otherwise it falls back to the config's default sweep category.
func resolveChangeCategory(cfg *config.Config, mine, sweep *bool) (bool, bool, error) {
	if mine != nil && sweep != nil {
		return *mine, *sweep, nil
	}
	cat, err := hdkey.CategoryByName(cfg.DefaultSweepCategory)
	if err != nil {
		return false, false, fmt.Errorf("default_sweep_category: %w", err)
	}
	m, s := cat.MineSweep()
	return m, s, nil
}

func runReplace(args []string) {
	fs := flag.NewFlagSet("replace", flag.ExitOnError)
	dataDir, server, logLevel := globalFlags(fs)
	requestFile := fs.String("request-file", "", "Path to a JSON replace request")
	fs.Parse(args)
	cfg := loadConfig(*dataDir, *server, *logLevel)

	if *requestFile == "" {
		logging.Fatal("replace requires --request-file")
	}
	data, err := os.ReadFile(*requestFile)
	if err != nil {
		logging.Fatal("failed to read request file", "error", err)
	}
	var req replaceRequestFile
	if err := json.Unmarshal(data, &req); err != nil {
		logging.Fatal("failed to parse request file", "error", err)
	}

	w := openWallet(cfg)
	defer w.Close()
	ctx := context.Background()

	var total webcash.Amount
	inputs := make([]replace.Input, len(req.Inputs))
	for i, in := range req.Inputs {
		inputs[i] = replace.Input{OutputID: in.OutputID, Secret: in.Secret, Amount: in.Amount}
		sum, err := total.Add(in.Amount)
		if err != nil {
			logging.Fatal("failed to sum requested inputs", "error", err)
		}
		total = sum
	}

	changeMine, changeSweep, err := resolveChangeCategory(cfg, req.ChangeMine, req.ChangeSweep)
	if err != nil {
		logging.Fatal("failed to resolve change category", "error", err)
	}

	timestamp := time.Now().Unix()
	reserved, err := w.ReserveSecret(ctx, timestamp, changeMine, changeSweep)
	if err != nil {
		logging.Fatal("failed to reserve a change secret", "error", err)
	}
	change := webcash.SecretWebcash{Amount: total, Secret: reserved.Secret}
	if _, err := w.AddSecretToWallet(ctx, timestamp, change, changeMine, changeSweep); err != nil {
		logging.Fatal("failed to log reserved change secret", "error", err)
	}
	outputs := []replace.ReservedOutput{{SecretID: reserved.ID, Secret: reserved.Secret, Amount: total}}

	result, err := w.Replace(ctx, inputs, outputs)
	if err != nil {
		logging.Fatal("replace failed", "error", err)
	}

	fmt.Printf("state=%s\n", result.State)
	if result.Message != "" {
		fmt.Printf("message=%s\n", result.Message)
	}
	for _, c := range result.Committed {
		fmt.Printf("committed output_id=%d amount=%d\n", c.OutputID, c.Amount)
	}
}

func runShowBackupPhrase(args []string) {
	fs := flag.NewFlagSet("show-backup-phrase", flag.ExitOnError)
	dataDir, server, logLevel := globalFlags(fs)
	fs.Parse(args)
	cfg := loadConfig(*dataDir, *server, *logLevel)

	w := openWallet(cfg)
	defer w.Close()

	phrase, err := w.MnemonicHint()
	if err != nil {
		logging.Fatal("failed to render backup phrase", "error", err)
	}
	fmt.Println(phrase)
}
