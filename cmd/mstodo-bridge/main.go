// Command mstodo-bridge surfaces Microsoft To Do task lists as devices
// with channels for task counts, due dates and task titles. It serves a
// small web page to authorize Microsoft accounts and polls the Graph API
// for task data.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/mstodo-bridge/internal/authweb"
	"github.com/custodia-labs/mstodo-bridge/internal/bridge"
	"github.com/custodia-labs/mstodo-bridge/internal/config"
	"github.com/custodia-labs/mstodo-bridge/internal/framework"
	"github.com/custodia-labs/mstodo-bridge/internal/logger"
	"github.com/custodia-labs/mstodo-bridge/internal/msauth"
	"github.com/custodia-labs/mstodo-bridge/internal/options"
	"github.com/custodia-labs/mstodo-bridge/internal/poller"
	"github.com/custodia-labs/mstodo-bridge/internal/tasklist"
)

var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "mstodo-bridge",
	Short:   "Bridge Microsoft To Do task lists into channel state",
	Version: version,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return serve(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mstodo-bridge.toml", "path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose debug output")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func serve(ctx context.Context) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if len(cfg.Accounts) == 0 {
		return errors.New("no accounts configured")
	}

	coordinator := msauth.NewCoordinator()
	sink := framework.NewMemoryOptionSink()
	optionProvider := options.NewProvider(sink)

	accounts := make(map[string]*bridge.Account, len(cfg.Accounts))
	pollers := make(map[string]*poller.Poller, len(cfg.Accounts))
	for _, a := range cfg.Accounts {
		thing := framework.NewMemoryThing("account:" + a.Name)
		thing.Link(bridge.ChannelAccessToken, bridge.ChannelTaskLists)
		account := bridge.NewAccount(thing, bridge.Config{
			ClientID:     a.ClientID,
			ClientSecret: a.ClientSecret,
			Tenant:       a.Tenant,
			Cloud:        msauth.Cloud(a.Cloud),
			Scopes:       a.Scopes,
		})
		coordinator.Register(account)
		accounts[a.Name] = account
		pollers[a.Name] = poller.New(account, cfg.PollInterval.Std(), optionProvider)
	}

	for _, t := range cfg.TaskLists {
		account := accounts[t.Account]
		thing := framework.NewMemoryThing("tasklist:" + t.TaskListID)
		thing.Link(tasklist.AllChannels...)
		handler := tasklist.NewHandler(thing, tasklist.Config{
			TaskListID: t.TaskListID,
			Delimiter:  t.Delimiter,
		}, account.Graph(), optionProvider)
		pollers[t.Account].AddHandler(handler)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + cfg.ListenAddr
	}
	web := authweb.NewServer(coordinator, baseURL, cfg.Metrics)
	httpServer := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           web.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg sync.WaitGroup
	for _, p := range pollers {
		wg.Add(1)
		go func(p *poller.Poller) {
			defer wg.Done()
			p.Run(ctx)
		}(p)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on %s, authorize accounts at %s%s", cfg.ListenAddr, baseURL, authweb.ConnectPath)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnf("http shutdown: %v", err)
	}
	wg.Wait()
	return nil
}
