package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gagliardetto/solana-go"
	"github.com/krazyTry/strata-go/bonding"
	"github.com/krazyTry/strata-go/config"
	"github.com/krazyTry/strata-go/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type request struct {
	from   solana.PublicKey
	to     solana.PublicKey
	amount uint64
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}
}

// execute runs the command. main owns the only os.Exit, after these defers.
func execute() error {
	configPath := flag.String("config", "", "path to config file")
	snapshotPath := flag.String("snapshot", "", "path to snapshot json, overrides snapshot_path")
	from := flag.String("from", "", "mint to spend")
	to := flag.String("to", "", "mint to receive")
	amount := flag.Uint64("amount", 0, "raw amount of -from to spend")
	batch := flag.String("batch", "", "file of from,to,amount lines")
	ignoreFrozen := flag.Bool("ignore-frozen", false, "quote through frozen bondings")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg.DebugLogging)
	defer logger.Sync(log)

	if *snapshotPath != "" {
		cfg.SnapshotPath = *snapshotPath
	}

	requests, err := readRequests(*batch, *from, *to, *amount)
	if err != nil {
		return err
	}
	return run(ctx, cfg, log, requests, *ignoreFrozen, os.Stdout)
}

// readRequests loads the batch file when batchPath is set, otherwise the
// single request named by the flags.
func readRequests(batchPath, from, to string, amount uint64) ([]request, error) {
	if batchPath == "" {
		r, err := parseRequest(from, to, strconv.FormatUint(amount, 10))
		if err != nil {
			return nil, fmt.Errorf("parse request: %w", err)
		}
		return []request{r}, nil
	}
	f, err := os.Open(batchPath)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer f.Close()
	requests, err := parseBatch(f)
	if err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", batchPath, err)
	}
	return requests, nil
}

func run(ctx context.Context, cfg *config.Config, log *zap.Logger, requests []request, ignoreFrozen bool, out io.Writer) error {
	wrapped, err := cfg.WrappedNativeMintKey()
	if err != nil {
		return err
	}
	client, err := bonding.NewBonding(wrapped, cfg.SlippageBps, log)
	if err != nil {
		return err
	}
	if cfg.SnapshotPath == "" {
		return fmt.Errorf("no snapshot path")
	}
	snap, err := client.LoadSnapshot(cfg.SnapshotPath)
	if err != nil {
		return err
	}

	results, err := quoteAll(ctx, client, snap, requests, ignoreFrozen, cfg.Workers)
	if err != nil {
		return err
	}
	for i, r := range requests {
		fmt.Fprintf(out, "%s -> %s %s\n", r.from, r.to, results[i])
	}
	return nil
}

// quoteAll quotes requests on at most workers goroutines. The snapshot is
// only read, so every worker shares it.
func quoteAll(ctx context.Context, client *bonding.Bonding, snap *bonding.Snapshot, requests []request, ignoreFrozen bool, workers int) ([]*bonding.QuoteResult, error) {
	results := make([]*bonding.QuoteResult, len(requests))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, r := range requests {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			q, err := client.SwapQuote(snap, r.from, r.to, r.amount, ignoreFrozen)
			if err != nil {
				return fmt.Errorf("line %d %s -> %s: %w", i+1, r.from, r.to, err)
			}
			results[i] = q
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func parseBatch(r io.Reader) ([]request, error) {
	var requests []request
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.Split(text, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: want from,to,amount", line)
		}
		req, err := parseRequest(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), strings.TrimSpace(parts[2]))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		requests = append(requests, req)
	}
	return requests, scanner.Err()
}

func parseRequest(from, to, amount string) (request, error) {
	fromMint, err := solana.PublicKeyFromBase58(from)
	if err != nil {
		return request{}, fmt.Errorf("from mint: %w", err)
	}
	toMint, err := solana.PublicKeyFromBase58(to)
	if err != nil {
		return request{}, fmt.Errorf("to mint: %w", err)
	}
	raw, err := strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return request{}, fmt.Errorf("amount: %w", err)
	}
	if raw == 0 {
		return request{}, fmt.Errorf("amount must be positive")
	}
	return request{from: fromMint, to: toMint, amount: raw}, nil
}
