// Command relay runs a small three-context routing tree in one process
// and exercises the core traffic patterns: direct send, request/response
// across contexts, sibling traffic climbing through the parent, and a
// broadcast reaching every descendant.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/tailored-agentic-units/relay/address"
	"github.com/tailored-agentic-units/relay/channel"
	"github.com/tailored-agentic-units/relay/messaging"
	"github.com/tailored-agentic-units/relay/observability"
	"github.com/tailored-agentic-units/relay/router"
)

func main() {
	var (
		jsonLogs = flag.Bool("json", false, "Emit JSON logs")
		verbose  = flag.Bool("verbose", false, "Enable debug logging (includes routing events)")
		timeout  = flag.Duration("timeout", 5*time.Second, "Request timeout")
	)
	flag.Parse()

	// Optional .env for log settings; absence is fine.
	_ = godotenv.Load()

	level := slog.LevelInfo
	if *verbose || os.Getenv("RELAY_DEBUG") != "" {
		level = slog.LevelDebug
	}

	var handler slog.Handler
	if *jsonLogs {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)

	observability.RegisterObserver("demo", observability.NewSlogObserver(logger))

	cfg := router.DefaultConfig()
	cfg.RequestTimeout = *timeout
	cfg.Logger = logger
	cfg.Observer = "demo"

	// Tree: root with children "alpha" and "beta".
	rootToAlpha, alphaUp := channel.Pipe(16)
	rootToBeta, betaUp := channel.Pipe(16)
	defer rootToAlpha.Close()
	defer rootToBeta.Close()

	root := router.New(router.StaticEnvironment{Addr: address.New()}, cfg)
	defer root.Close()
	root.AddChild("alpha", rootToAlpha)
	root.AddChild("beta", rootToBeta)

	alpha := router.New(router.StaticEnvironment{
		Addr:         address.New("alpha"),
		UpstreamLink: alphaUp,
	}, cfg)
	defer alpha.Close()

	beta := router.New(router.StaticEnvironment{
		Addr:         address.New("beta"),
		UpstreamLink: betaUp,
	}, cfg)
	defer beta.Close()

	// Root answers requests; children log what reaches them.
	root.SetMessageReceived(func(msg *messaging.Message) {
		if !msg.IsRequest() {
			logger.Info("root received", "name", msg.Name, "from", msg.Source.String())
			return
		}
		response := messaging.NewResponse(msg, fmt.Sprintf("done: %v", msg.Data)).Build()
		if _, err := root.Send(context.Background(), response); err != nil {
			logger.Error("root failed to respond", "error", err.Error())
		}
	})
	alpha.SetMessageReceived(func(msg *messaging.Message) {
		logger.Info("alpha received", "name", msg.Name, "from", msg.Source.String())
	})
	beta.SetMessageReceived(func(msg *messaging.Message) {
		logger.Info("beta received", "name", msg.Name, "from", msg.Source.String())
	})

	ctx := context.Background()

	// Request from a leaf to the root.
	request := messaging.NewRequest("compute", address.New(), "task-42").Build()
	resp, err := alpha.Request(ctx, request)
	if err != nil {
		logger.Error("request failed", "error", err.Error())
		os.Exit(1)
	}
	fmt.Printf("alpha -> root request answered: %v\n", resp.Data)

	// Sibling traffic: beta -> alpha climbs through the root.
	note := messaging.NewMessage("greeting", address.New("alpha"), "hi from beta").Build()
	if _, err := beta.Send(ctx, note); err != nil {
		logger.Error("sibling send failed", "error", err.Error())
		os.Exit(1)
	}

	// Broadcast from the root reaches every child.
	announce := messaging.NewMessage("announce", address.New(), "maintenance at noon").
		Broadcast().
		Build()
	if _, err := root.Send(ctx, announce); err != nil {
		logger.Error("broadcast failed", "error", err.Error())
		os.Exit(1)
	}

	// Let the fire-and-forget deliveries drain before reporting.
	time.Sleep(200 * time.Millisecond)

	for name, r := range map[string]*router.Router{"root": root, "alpha": alpha, "beta": beta} {
		m := r.Metrics()
		fmt.Printf("%s: sent=%d recv=%d forwarded=%d children=%d\n",
			name, m.MessagesSent, m.MessagesRecv, m.MessagesForwarded, m.Children)
	}
}
