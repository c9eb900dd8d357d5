package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"fb-dialect/internal/dialect"
)

var (
	dsn     string
	cfgFile string

	// DB and Dialect are set by RootCmd.PersistentPreRunE.
	DB         *sql.DB
	Dialect    *dialect.Dialect
	DriverName string
)

var RootCmd = &cobra.Command{
	Use:   "fb-dialect",
	Short: "Firebird catalog reflection and DDL rendering",
	Long: `
  _____ ____       ____  ___    _    _     _____ ____ _____
 |  ___| __ )     |  _ \|_ _|  / \  | |   | ____/ ___|_   _|
 | |_  |  _ \ ____| | | || |  / _ \ | |   |  _|| |     | |
 |  _| | |_) |____| |_| || | / ___ \| |___| |__| |___  | |
 |_|   |____/     |____/|___/_/   \_\_____|_____\____| |_|

Reflects a Firebird database and renders it back through the dialect.
`,
	SilenceUsage:      true,
	PersistentPreRunE: connect,
}

// Execute runs the root command and closes the connection it opened.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := RootCmd.ExecuteContext(ctx)
	err = multierr.Append(err, closeDB())
	stop()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./fb-dialect.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Database Source Name (DSN), e.g. user:pass@localhost/var/db/app.fdb")
	RootCmd.PersistentFlags().Bool("implicit-returning", true, "Fetch generated keys with RETURNING where supported")
	RootCmd.PersistentFlags().String("server-version", "", "Server version to negotiate with instead of probing, e.g. \"Firebird 1.5\"")

	viper.BindPFlag("database.dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("dialect.implicit_returning", RootCmd.PersistentFlags().Lookup("implicit-returning"))
	viper.BindPFlag("dialect.server_version", RootCmd.PersistentFlags().Lookup("server-version"))

	viper.SetDefault("database.driver", defaultDriver)
	viper.SetDefault("database.ping_retries", 3)
	viper.SetDefault("dialect.implicit_returning", true)
}

// initConfig reads in the config file, a .env file and ENV variables if set.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Executable directory first, then the current one.
		if ex, err := os.Executable(); err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}
		viper.AddConfigPath(".")
		viper.SetConfigName("fb-dialect")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("FB_DIALECT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// connect opens the database, waits for it to answer and negotiates the
// dialect of the connection.
func connect(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveDBConfig()
	if err != nil {
		return err
	}
	DriverName = cfg.Driver

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	DB = db

	ctx := cmd.Context()
	if err := ping(ctx, db, viper.GetUint64("database.ping_retries")); err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}

	version := cfg.ServerVersion
	if v := viper.GetString("dialect.server_version"); v != "" {
		version = v
	}
	info, err := serverInfo(ctx, db, version)
	if err != nil {
		return err
	}

	Dialect = dialect.Connect(info,
		dialect.WithLogger(dialect.StdLogger()),
		dialect.WithImplicitReturning(viper.GetBool("dialect.implicit_returning")),
	)
	log.Printf("Connected to %s via %s (%s generation, identifiers up to %d characters)",
		info, cfg.Driver, Dialect.Generation(), Dialect.MaxIdentifierLength())
	return nil
}

// ping retries with exponential backoff while the server is starting up.
func ping(ctx context.Context, db *sql.DB, retries uint64) error {
	b := retry.WithMaxRetries(retries, retry.NewExponential(500*time.Millisecond))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		if err := db.PingContext(ctx); err != nil {
			log.Printf("Ping failed: %v", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}

// serverInfo parses an explicit version or asks the server. Servers older
// than Firebird 2.1 cannot be asked and need an explicit version.
func serverInfo(ctx context.Context, q dialect.RowQuerier, version string) (dialect.ServerInfo, error) {
	if version != "" {
		info, err := dialect.ParseServerVersion(version)
		if err != nil {
			return dialect.ServerInfo{}, fmt.Errorf("invalid server version: %w", err)
		}
		return info, nil
	}
	info, err := dialect.ProbeServerInfo(ctx, q)
	if err != nil {
		return dialect.ServerInfo{}, fmt.Errorf("%w (set dialect.server_version for servers before Firebird 2.1)", err)
	}
	return info, nil
}

func closeDB() error {
	if DB == nil {
		return nil
	}
	err := DB.Close()
	DB = nil
	return err
}
