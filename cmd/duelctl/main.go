package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"codeduel/internal/cli/client"
	"codeduel/internal/cli/config"
	"codeduel/internal/cli/repl"
	"codeduel/internal/cli/state"
)

const defaultConfigPath = "configs/duelctl.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	serverURL := flag.String("server", "", "Override websocket URL")
	apiBase := flag.String("api", "", "Override read API base URL")
	username := flag.String("name", "", "Override saved username")
	identityPath := flag.String("identity", "", "Override identity state path")
	pretty := flag.Bool("pretty", false, "Pretty print JSON responses")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *serverURL != "" {
		cfg.ServerURL = *serverURL
	}
	if *apiBase != "" {
		cfg.APIBase = *apiBase
	}
	if *identityPath != "" {
		cfg.IdentityPath = *identityPath
	}
	if *pretty {
		trueValue := true
		cfg.PrettyJSON = &trueValue
	}

	identity, err := state.Load(cfg.IdentityPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load identity failed: %v\n", err)
		return
	}
	if *username != "" {
		identity.Username = *username
	}

	ctx := context.Background()
	conn, err := client.Dial(ctx, cfg.ServerURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect failed: %v\n", err)
		return
	}

	api := client.NewAPI(cfg.APIBase, cfg.Timeout)
	session, err := repl.New(conn, api, identity, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init repl failed: %v\n", err)
		_ = conn.Close()
		return
	}
	if err := session.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	}
}
