// 程序入口：读取配置、初始化依赖并执行一次查询；输出格式只在此处决定
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"galaxy-lookup/internal/config"
	"galaxy-lookup/internal/geom"
	"galaxy-lookup/internal/logger"
	"galaxy-lookup/internal/metrics"
	"galaxy-lookup/internal/refdata"
	"galaxy-lookup/internal/resolve"
	"galaxy-lookup/internal/utils"

	"github.com/spf13/cobra"
)

type flags struct {
	fuzzy       bool
	refresh     bool
	metricsAddr string
	k           int
	radius      float64
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		var rep reportedError
		if !errors.As(err, &rep) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var f flags
	var a *app
	var srv *http.Server

	cmd := &cobra.Command{
		Use:   "galaxy-lookup",
		Short: "Resolve systems and commanders to galactic coordinates",
		Long: `galaxy-lookup resolves system names, commander names or x,y,z coordinates
against the EDSM lookup service and reports distances, bearings and the
nearest landmark, DSSA carrier or diversion stations.

Any <text> argument may be given as "x,y,z" to skip the remote lookup.
Put "--" before arguments that start with a minus sign.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger.SetupWith(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
			a, err = buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if f.metricsAddr != "" {
				srv = serveMetrics(f.metricsAddr)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if srv != nil {
				ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(ctx)
			}
			if a != nil {
				a.Close()
			}
		},
	}
	cmd.PersistentFlags().BoolVar(&f.fuzzy, "fuzzy", false, "fall back to prefix search when no exact system or commander matches")
	cmd.PersistentFlags().BoolVar(&f.refresh, "refresh", false, "ignore cached lookups and refetch")
	cmd.PersistentFlags().StringVar(&f.metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")

	opts := func() resolve.Options { return resolve.Options{Fuzzy: f.fuzzy, CacheOverride: f.refresh} }

	cmd.AddCommand(&cobra.Command{
		Use:   "system <name>",
		Short: "Look up a system by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sys, err := a.systems.GetInfo(cmd.Context(), args[0], f.refresh)
			if err != nil {
				return report(cmd, err)
			}
			if sys == nil {
				return report(cmd, errUnknown("system", args[0]))
			}
			printSystem(cmd.OutOrStdout(), sys)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "commander <name>",
		Short: "Look up a commander's last reported position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := a.commanders.Location(cmd.Context(), args[0], f.refresh)
			if err != nil {
				return report(cmd, err)
			}
			if loc == nil {
				return report(cmd, errUnknown("commander", args[0]))
			}
			printLocation(cmd.OutOrStdout(), args[0], loc)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "locate <text>",
		Short: "Resolve free text as a system, then a commander, then by fuzzy search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.resolver.ResolvePoint(cmd.Context(), resolve.ParseTarget(args[0]), opts())
			if err != nil {
				return report(cmd, err)
			}
			printResolution(cmd.OutOrStdout(), res)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Distance and bearing between two locations",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			leg, err := a.resolver.Distance(cmd.Context(), resolve.ParseTarget(args[0]), resolve.ParseTarget(args[1]), opts())
			if err != nil {
				return report(cmd, err)
			}
			printLeg(cmd.OutOrStdout(), leg)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "landmark <text>",
		Short: "Nearest landmark to a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, lm, err := a.resolver.Landmark(cmd.Context(), resolve.ParseTarget(args[0]), opts())
			if err != nil {
				return report(cmd, err)
			}
			printNearest(cmd.OutOrStdout(), "landmark", p, lm)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "dssa <text>",
		Short: "Nearest DSSA carrier to a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, c, err := a.resolver.DSSA(cmd.Context(), resolve.ParseTarget(args[0]), opts())
			if err != nil {
				return report(cmd, err)
			}
			printNearest(cmd.OutOrStdout(), "carrier", p, c)
			return nil
		},
	})

	diversions := &cobra.Command{
		Use:   "diversions <text>",
		Short: "Closest diversion stations to a location",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ds, err := a.resolver.Diversions(cmd.Context(), resolve.ParseTarget(args[0]), f.k, opts())
			if err != nil {
				return report(cmd, err)
			}
			printDiversions(cmd.OutOrStdout(), p, ds)
			return nil
		},
	}
	diversions.Flags().IntVarP(&f.k, "count", "k", 5, "number of stations to list")
	cmd.AddCommand(diversions)

	nearby := &cobra.Command{
		Use:   "nearby <x> <y> <z>",
		Short: "Closest known system to a coordinate (sphere search)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			var v [3]float64
			for i, s := range args {
				n, err := strconv.ParseFloat(s, 64)
				if err != nil {
					return err
				}
				v[i] = n
			}
			c := geom.Coordinate{X: v[0], Y: v[1], Z: v[2]}
			n, err := a.systems.NearbyByCoordinates(cmd.Context(), c, f.radius, 1)
			if err != nil {
				return report(cmd, err)
			}
			if n == nil {
				return report(cmd, errNothingNearby(c, f.radius))
			}
			printNearby(cmd.OutOrStdout(), n)
			return nil
		},
	}
	nearby.Flags().Float64Var(&f.radius, "radius", 100, "search radius in light years")
	cmd.AddCommand(nearby)

	cmd.AddCommand(&cobra.Command{
		Use:   "seed-refdata [dir]",
		Short: "Replace the postgres reference datasets with the bundled ones or those in dir",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := refdata.Embedded()
			if len(args) == 1 {
				src = refdata.Dir(args[0])
			}
			db, err := utils.OpenPostgres(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer db.Close()
			n, err := refdata.Seed(cmd.Context(), db, src)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d landmarks, %d carriers, %d diversion stations\n", n.Landmarks, n.Carriers, n.Diversions)
			return nil
		},
	})

	return cmd
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	l := logger.Component("cli")
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("metrics_listen_error", "addr", addr, "err", err)
		}
	}()
	l.Info("metrics_listen", "addr", addr)
	return srv
}
