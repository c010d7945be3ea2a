package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// State is an auth-state snapshot delivered to subscribers.
type State struct {
	SignedIn bool
	UserID   string
	Email    string
}

// Watcher is the subscribed event source the UI observes for auth changes.
// Pages register a listener on mount and must unsubscribe on teardown; the
// watcher never hands out mutable shared state.
type Watcher struct {
	mu        sync.Mutex
	state     State
	nextID    int
	listeners map[int]func(State)
}

func NewWatcher() *Watcher {
	return &Watcher{listeners: make(map[int]func(State))}
}

// State returns the current snapshot.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Subscribe registers fn for future auth-state changes and returns an
// unsubscribe function. Unsubscribing twice is harmless.
func (w *Watcher) Subscribe(fn func(State)) func() {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.listeners[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.listeners, id)
		w.mu.Unlock()
	}
}

// SetSignedIn publishes a signed-in state.
func (w *Watcher) SetSignedIn(creds Credentials) {
	w.publish(State{SignedIn: true, UserID: creds.UserID, Email: creds.Email})
}

// SetSignedOut publishes a signed-out state.
func (w *Watcher) SetSignedOut() {
	w.publish(State{})
}

func (w *Watcher) publish(state State) {
	w.mu.Lock()
	w.state = state
	fns := make([]func(State), 0, len(w.listeners))
	for _, fn := range w.listeners {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

// CredentialsPath is where the signed-in token is persisted between runs.
func CredentialsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "friday", "credentials.json")
}

// SaveCredentials persists credentials for the next run.
func SaveCredentials(creds Credentials, path string) error {
	if path == "" {
		path = CredentialsPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	data, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadCredentials reads persisted credentials. A missing file returns empty
// credentials and no error.
func LoadCredentials(path string) (Credentials, error) {
	if path == "" {
		path = CredentialsPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Credentials{}, nil
		}
		return Credentials{}, err
	}
	var creds Credentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// ClearCredentials removes the persisted token on sign-out.
func ClearCredentials(path string) error {
	if path == "" {
		path = CredentialsPath()
	}
	err := os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
