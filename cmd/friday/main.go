package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"friday-cli/internal/app"
	"friday-cli/internal/audio"
	"friday-cli/internal/auth"
	"friday-cli/internal/exec"
	"friday-cli/internal/tui"

	"github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const version = "1.0.0"

func buildDeps() (*tui.Deps, error) {
	// A missing .env is fine; the config layer falls back to defaults.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig(app.DefaultConfigPath())
	if err != nil {
		return nil, err
	}

	logger, err := app.NewLogger(cfg.LogFile)
	if err != nil {
		return nil, err
	}

	authClient := auth.NewClient(cfg.AuthBaseURL, cfg.AuthAnonKey)
	var validator *auth.Client
	if cfg.AuthBaseURL != "" {
		validator = authClient
	}

	watcher := auth.NewWatcher()
	userID := ""
	if creds, ok := loadSession(validator, auth.CredentialsPath(), logger); ok {
		watcher.SetSignedIn(creds)
		userID = creds.UserID
	}

	client := app.NewClient(cfg.APIBaseURL, userID, app.WithLogger(logger))

	player := audio.NewPlayer(cfg.PlayerCommand, client)
	recognizer := audio.DetectRecognizer(audio.CaptureConfig{
		CaptureCommand: cfg.CaptureCommand,
		SpeechBaseURL:  cfg.SpeechBaseURL,
		SpeechAPIKey:   cfg.SpeechAPIKey,
	})

	return &tui.Deps{
		Cfg:        cfg,
		Client:     client,
		Auth:       authClient,
		Watcher:    watcher,
		Executor:   exec.NewClient(cfg.ExecBaseURL),
		Recognizer: recognizer,
		Player:     player,
		Logger:     logger,
	}, nil
}

// loadSession restores the persisted sign-in. With an identity endpoint
// configured the stored token is checked against it, so a token revoked
// elsewhere does not present a signed-in UI whose every request then fails.
// The credentials file is left in place either way; 'friday logout' is the
// only thing that removes it.
func loadSession(validator *auth.Client, path string, logger *zap.Logger) (auth.Credentials, bool) {
	creds, err := auth.LoadCredentials(path)
	if err != nil {
		return auth.Credentials{}, false
	}
	if validator == nil || creds.AccessToken == "" {
		return creds, creds.UserID != ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	user, err := validator.User(ctx, creds.AccessToken)
	if err != nil {
		logger.Warn("stored session rejected", zap.Error(err))
		return auth.Credentials{}, false
	}
	return user, true
}

// runLogout revokes the stored token with the provider, best effort, then
// discards it locally. A nil authClient skips the revocation.
func runLogout(authClient *auth.Client, path string) error {
	if creds, err := auth.LoadCredentials(path); err == nil && authClient != nil && creds.AccessToken != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := authClient.SignOut(ctx, creds.AccessToken); err != nil {
			fmt.Fprintf(os.Stderr, "warning: server sign-out failed: %v\n", err)
		}
	}
	return auth.ClearCredentials(path)
}

func runLogin(signup bool) error {
	deps, err := buildDeps()
	if err != nil {
		return err
	}
	defer deps.Logger.Sync()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	email = strings.TrimSpace(email)
	password = strings.TrimSpace(password)
	if email == "" || password == "" {
		return fmt.Errorf("email and password are required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var creds auth.Credentials
	if signup {
		creds, err = deps.Auth.SignUp(ctx, email, password)
	} else {
		creds, err = deps.Auth.SignIn(ctx, email, password)
	}
	if err != nil {
		return err
	}
	if err := auth.SaveCredentials(creds, auth.CredentialsPath()); err != nil {
		return err
	}
	fmt.Printf("Signed in as %s\n", creds.Email)
	return nil
}

func main() {
	root := &cobra.Command{
		Use:     "friday",
		Short:   "Friday - AI mock interview client",
		Long:    "Friday is a terminal client for AI-driven mock interviews.\n\nRun without arguments to start the interactive TUI. Sign in first with 'friday login' or from the TUI itself.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			defer deps.Logger.Sync()

			p := tea.NewProgram(tui.New(deps), tea.WithAltScreen())
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	loginCmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(loginSignup)
		},
	}
	loginCmd.Flags().BoolVar(&loginSignup, "signup", false, "Create a new account instead of signing in")
	root.AddCommand(loginCmd)

	logoutCmd := &cobra.Command{
		Use:   "logout",
		Short: "Discard stored credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := app.LoadConfig(app.DefaultConfigPath())
			if err != nil {
				return err
			}
			var authClient *auth.Client
			if cfg.AuthBaseURL != "" {
				authClient = auth.NewClient(cfg.AuthBaseURL, cfg.AuthAnonKey)
			}
			if err := runLogout(authClient, auth.CredentialsPath()); err != nil {
				return err
			}
			fmt.Println("Signed out")
			return nil
		},
	}
	root.AddCommand(logoutCmd)

	reportCmd := &cobra.Command{
		Use:   "report [session-id]",
		Short: "Print the report for a completed session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := buildDeps()
			if err != nil {
				return err
			}
			defer deps.Logger.Sync()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			report, err := deps.Client.Report(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Print(app.FormatReport(report))
			return nil
		},
	}
	root.AddCommand(reportCmd)

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("friday v%s\n", version)
		},
	}
	root.AddCommand(versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var loginSignup bool
