package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"kama/internal/cart"
	"kama/internal/client"
	"kama/internal/config"
)

// app общие зависимости команд
type app struct {
	cfg     config.Config
	api     *client.Client
	apiURL  string
	cartDir string
	redis   string

	store *cart.Store
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{cfg: config.Load()}
	root := &cobra.Command{
		Use:           "kamactl",
		Short:         "Kama storefront client: catalog, cart, checkout and admin",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.api = client.New(a.apiURL, nil)
		},
	}
	root.PersistentFlags().StringVar(&a.apiURL, "api", a.cfg.APIURL, "server base URL (KAMA_API)")
	root.PersistentFlags().StringVar(&a.cartDir, "cart-dir", a.cfg.CartDir, "directory for the local cart (KAMA_CART_DIR)")
	root.PersistentFlags().StringVar(&a.redis, "redis", a.cfg.RedisURL, "keep the cart in Redis instead of a file (REDIS_URL)")

	root.AddCommand(
		newCatalogCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newAdminCmd(a),
	)
	return root
}

// cart открывает корзину в выбранном хранилище
func (a *app) cart() (*cart.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	var storage cart.Storage
	if a.redis != "" {
		rs, err := cart.NewRedisStorageFromURL(a.redis, "kama:")
		if err != nil {
			return nil, err
		}
		storage = rs
	} else {
		fs, err := cart.NewFileStorage(a.cartDir)
		if err != nil {
			return nil, err
		}
		storage = fs
	}
	a.store = cart.New(storage)
	return a.store, nil
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
