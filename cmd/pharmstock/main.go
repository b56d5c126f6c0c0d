package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/anovak/pharmstock/internal/api"
	"github.com/anovak/pharmstock/internal/db"
	"github.com/anovak/pharmstock/internal/model"
	"github.com/anovak/pharmstock/internal/store"
)

const (
	defaultDBPath = "pharmstock.sqlite3"
	defaultAddr   = ":8080"
	defaultAdmin  = "Admin"
)

// splitHandler sends INFO and WARN records to one handler and ERROR to
// another, so errors land on stderr where process supervisors expect them.
type splitHandler struct {
	out slog.Handler
	err slog.Handler
}

func (h *splitHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *splitHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return h.err.Handle(ctx, r)
	}
	return h.out.Handle(ctx, r)
}

func (h *splitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &splitHandler{out: h.out.WithAttrs(attrs), err: h.err.WithAttrs(attrs)}
}

func (h *splitHandler) WithGroup(name string) slog.Handler {
	return &splitHandler{out: h.out.WithGroup(name), err: h.err.WithGroup(name)}
}

// initLogging installs the default slog logger. When logPath is set, every
// record is duplicated into that file. The returned func closes the file.
func initLogging(logPath string) (func(), error) {
	outW := io.Writer(os.Stdout)
	errW := io.Writer(os.Stderr)
	closer := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		closer = func() { f.Close() }
		outW = io.MultiWriter(os.Stdout, f)
		errW = io.MultiWriter(os.Stderr, f)
	}

	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	slog.SetDefault(slog.New(&splitHandler{
		out: slog.NewTextHandler(outW, opts),
		err: slog.NewTextHandler(errW, opts),
	}))
	return closer, nil
}

type config struct {
	dbPath    string
	addr      string
	adminUser string
	logPath   string
}

func parseFlags(args []string) (config, error) {
	var cfg config

	fs := flag.NewFlagSet("pharmstock", flag.ContinueOnError)
	for _, name := range []string{"db", "d"} {
		fs.StringVar(&cfg.dbPath, name, defaultDBPath, "")
	}
	for _, name := range []string{"addr", "a"} {
		fs.StringVar(&cfg.addr, name, defaultAddr, "")
	}
	for _, name := range []string{"user", "u"} {
		fs.StringVar(&cfg.adminUser, name, defaultAdmin, "")
	}
	for _, name := range []string{"log", "l"} {
		fs.StringVar(&cfg.logPath, name, "", "")
	}

	fs.Usage = func() {
		fmt.Fprintf(os.Stdout, `Usage: pharmstock [flags]

Flags:
  -d, -db <path>          SQLite database path (default: %s)
  -a, -addr <host:port>   listen address (default: %s)
  -u, -user <name>        admin username on first run (default: %s)
  -l, -log <path>         also append logs to this file
  -h, -help               show this help and exit
`, defaultDBPath, defaultAddr, defaultAdmin)
	}

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return cfg, fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}
	return cfg, nil
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg config) error {
	closeLog, err := initLogging(cfg.logPath)
	if err != nil {
		return err
	}
	defer closeLog()

	// First run: create the database file and the bootstrap admin.
	if _, err := os.Stat(cfg.dbPath); os.IsNotExist(err) {
		if err := bootstrap(cfg.dbPath, cfg.adminUser); err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
	}

	database, err := db.Open(cfg.dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	slog.Info("database ready", "path", cfg.dbPath)

	jwtSecret, err := store.GetJWTSecret(context.Background(), database)
	if err != nil {
		return fmt.Errorf("loading JWT secret: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.addr,
		Handler:           api.LoggingMiddleware(api.NewRouter(database, jwtSecret)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server started", "addr", cfg.addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}

// bootstrap creates a fresh database with the schema and an admin account,
// printing the generated password once. The file is removed again on failure
// so the next start retries from scratch.
func bootstrap(path, adminUser string) error {
	database, err := db.Open(path)
	if err != nil {
		return err
	}
	defer database.Close()

	fail := func(err error) error {
		os.Remove(path)
		return err
	}

	if err := db.EnsureSchema(database); err != nil {
		return fail(fmt.Errorf("ensuring schema: %w", err))
	}

	password := rand.Text()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fmt.Errorf("hashing password: %w", err))
	}

	ctx := context.Background()
	if _, err := store.CreateUser(ctx, database, adminUser, string(hash), model.RoleAdmin, nil, nil); err != nil {
		return fail(fmt.Errorf("creating admin user: %w", err))
	}

	fmt.Printf("Database created: %s\n\n", path)
	fmt.Println("Admin account:")
	fmt.Printf("  Username: %s\n", adminUser)
	fmt.Printf("  Password: %s\n\n", password)
	fmt.Println("The password is shown only once; change it after the first login.")
	fmt.Println()
	return nil
}
