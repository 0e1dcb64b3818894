package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// callbackAddr is where the browser is redirected after consent
const callbackAddr = "localhost:8085"

// OAuthConfig holds the configuration for OAuth 2.0 authentication
type OAuthConfig struct {
	CredentialsFile string    // Path to OAuth client credentials JSON
	TokenFile       string    // Path to store/load token
	Output          io.Writer // Where the consent URL is printed
}

// newOAuthDriveService creates a Drive service using OAuth 2.0 user authentication
func newOAuthDriveService(ctx context.Context, cfg OAuthConfig) (*GoogleDriveService, error) {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read OAuth credentials file: %w", err)
	}

	// only files created by this app are touched
	config, err := google.ConfigFromJSON(b, drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse OAuth credentials: %w", err)
	}

	token, err := getToken(ctx, config, cfg)
	if err != nil {
		return nil, fmt.Errorf("unable to get OAuth token: %w", err)
	}

	client := config.Client(ctx, token)
	srv, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &GoogleDriveService{service: srv}, nil
}

// getToken retrieves a cached token, refreshing it when needed, or runs the
// browser consent flow
func getToken(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	if token, err := loadToken(cfg.TokenFile); err == nil {
		refreshed, err := config.TokenSource(ctx, token).Token()
		if err == nil {
			if refreshed.AccessToken != token.AccessToken {
				if err := saveToken(cfg.TokenFile, refreshed); err != nil {
					fmt.Fprintf(cfg.Output, "Warning: couldn't save refreshed token: %v\n", err)
				}
			}
			return refreshed, nil
		}
	}

	return getTokenFromWeb(ctx, config, cfg)
}

// loadToken loads a token from a file
func loadToken(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	token := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(token)
	return token, err
}

// saveToken saves a token to a file readable only by the owner
func saveToken(file string, token *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(file), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	return json.NewEncoder(f).Encode(token)
}

// callbackHandler receives the authorization code for one consent flow
func callbackHandler(state string, codeChan chan<- string, errChan chan<- error) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("state") != state {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		code := q.Get("code")
		if code == "" {
			fmt.Fprintf(w, "Error: No authorization code received")
			select {
			case errChan <- errors.New("no code in callback"):
			default:
			}
			return
		}
		fmt.Fprintf(w, "<html><body><h1>Authorization successful!</h1><p>You can close this window and return to the terminal.</p></body></html>")
		select {
		case codeChan <- code:
		default:
		}
	})
	return mux
}

// getTokenFromWeb initiates the OAuth flow via browser
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, cfg OAuthConfig) (*oauth2.Token, error) {
	out := cfg.Output
	config.RedirectURL = "http://" + callbackAddr + "/callback"
	state := uuid.NewString()

	codeChan := make(chan string, 1)
	errChan := make(chan error, 1)

	listener, err := net.Listen("tcp", callbackAddr)
	if err != nil {
		return nil, fmt.Errorf("unable to listen for OAuth callback: %w", err)
	}
	server := &http.Server{Handler: callbackHandler(state, codeChan, errChan)}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case errChan <- err:
			default:
			}
		}
	}()
	defer server.Shutdown(context.Background())

	authURL := config.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Opening browser for Google authentication...")
	fmt.Fprintln(out, "If the browser doesn't open, please visit this URL:")
	fmt.Fprintln(out)
	fmt.Fprintln(out, authURL)
	fmt.Fprintln(out)

	openBrowser(authURL)

	var authCode string
	select {
	case authCode = <-codeChan:
	case err := <-errChan:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	token, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to exchange auth code: %w", err)
	}

	if err := saveToken(cfg.TokenFile, token); err != nil {
		fmt.Fprintf(out, "Warning: couldn't save token: %v\n", err)
	}

	fmt.Fprintln(out, "Authentication successful!")
	return token, nil
}

// openBrowser opens a URL in the default browser
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		if _, err := exec.LookPath("xdg-open"); err == nil {
			cmd = exec.Command("xdg-open", url)
		} else if _, err := exec.LookPath("wslview"); err == nil {
			// WSL
			cmd = exec.Command("wslview", url)
		}
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", url)
	}

	if cmd != nil {
		_ = cmd.Start()
	}
}

// NewClientWithOAuth creates a new Google Drive client using OAuth 2.0
func NewClientWithOAuth(ctx context.Context, cfg OAuthConfig, opts ...ClientOption) (*Client, error) {
	c := &Client{}

	for _, opt := range opts {
		opt(c)
	}

	// If no custom drive service was provided, create one with OAuth
	if c.driveService == nil {
		svc, err := newOAuthDriveService(ctx, cfg)
		if err != nil {
			return nil, err
		}
		c.driveService = svc
	}

	return c, nil
}
