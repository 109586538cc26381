// Command orderctl drives the order API from a terminal. It keeps the last
// fetched order list in a local snapshot file so `orderctl cached` works offline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"orderdesk/internal/client"
	"orderdesk/internal/config"
	"orderdesk/internal/domain"
	"orderdesk/internal/dto"
	"orderdesk/internal/infrastructure/logger"
	"orderdesk/internal/order/cache"
	"orderdesk/internal/order/repository"
)

const usage = `usage: orderctl [flags] <command> [args]

commands:
  list [-status S] [-search T]   list canonical orders
  get <orderNumber>              show one order
  create <file|->                create an order from a JSON file or stdin
  status <orderNumber> <status>  change an order's status
  update <orderNumber> <file|->  replace an order from a JSON file or stdin
  delete <orderNumber>           delete every record of an order
  delete-line <orderNumber> <id> remove one line from an order
  report                         show dashboard totals
  cached                         print the local snapshot without calling the API
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "orderctl:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	fs := flag.NewFlagSet("orderctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	addr := fs.String("addr", envOr("ORDERDESK_ADDR", "http://localhost:8080"), "order API base URL")
	cachePath := fs.String("cache", envOr("ORDERDESK_CACHE", ".orderdesk-cache.json"), "local order snapshot file")
	timeout := fs.Duration("timeout", 15*time.Second, "overall request timeout")
	logLevel := fs.String("log-level", "warn", "log level")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	zapLogger, err := logger.New(config.LogConfig{Level: *logLevel, Format: config.LogFormatConsole})
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer zapLogger.Sync()

	orders := cache.New(repository.NewFileRepository(*cachePath), zapLogger)
	if err := orders.Restore(ctx); err != nil {
		zapLogger.Warn("ignoring unreadable order snapshot", zap.String("path", *cachePath), zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	api := client.New(*addr, orders, zapLogger)
	cmd, rest := fs.Arg(0), fs.Args()[1:]

	switch cmd {
	case "list":
		lf := flag.NewFlagSet("list", flag.ContinueOnError)
		lf.SetOutput(io.Discard)
		status := lf.String("status", "", "only orders with this status")
		search := lf.String("search", "", "substring of order number or customer")
		if err := lf.Parse(rest); err != nil {
			return errUsage
		}
		list, err := api.ListOrders(ctx, dto.ListFilter{Status: domain.OrderStatus(*status), Search: *search})
		if err != nil {
			return err
		}
		return printJSON(stdout, list)

	case "get":
		if len(rest) != 1 {
			return errUsage
		}
		o, err := api.GetOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(stdout, o)

	case "create":
		if len(rest) != 1 {
			return errUsage
		}
		body, err := readOrder(rest[0], stdin)
		if err != nil {
			return err
		}
		created, err := api.CreateOrder(ctx, body)
		if err != nil {
			return err
		}
		return printJSON(stdout, created)

	case "status":
		if len(rest) != 2 {
			return errUsage
		}
		updated, err := api.UpdateStatus(ctx, rest[0], domain.OrderStatus(rest[1]))
		if err != nil {
			return err
		}
		return printJSON(stdout, updated)

	case "update":
		if len(rest) != 2 {
			return errUsage
		}
		body, err := readOrder(rest[1], stdin)
		if err != nil {
			return err
		}
		updated, err := api.UpdateOrder(ctx, rest[0], body)
		if err != nil {
			return err
		}
		return printJSON(stdout, updated)

	case "delete":
		if len(rest) != 1 {
			return errUsage
		}
		deleted, err := api.DeleteOrder(ctx, rest[0])
		if err != nil {
			return err
		}
		return printJSON(stdout, dto.DeleteResponse{Message: "Order deleted successfully", Deleted: deleted})

	case "delete-line":
		if len(rest) != 2 {
			return errUsage
		}
		updated, err := api.DeleteLine(ctx, rest[0], rest[1])
		if err != nil {
			return err
		}
		return printJSON(stdout, updated)

	case "report":
		summary, err := api.Report(ctx)
		if err != nil {
			return err
		}
		return printJSON(stdout, summary)

	case "cached":
		return printJSON(stdout, orders.Orders())
	}
	return errUsage
}

func readOrder(path string, stdin io.Reader) (domain.Order, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.Order{}, fmt.Errorf("opening order file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var o domain.Order
	if err := json.NewDecoder(r).Decode(&o); err != nil {
		return domain.Order{}, fmt.Errorf("decoding order: %w", err)
	}
	return o, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
