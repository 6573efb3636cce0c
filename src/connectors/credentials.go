package connectors

import (
	"context"
	"sync"

	logger "github.com/sirupsen/logrus"

	"signalrouter/src/model"
	"signalrouter/src/security"
)

// LegacyProviderName keys the stored credential row for the legacy broker.
const LegacyProviderName = "iq_option"

type credentialPersister interface {
	Upsert(ctx context.Context, credential *model.LegacyCredential) error
	FindByProvider(ctx context.Context, provider string) (*model.LegacyCredential, error)
}

// CredentialStore owns the in-process legacy broker login. Plaintext lives
// only here; the persisted copy is AES-GCM encrypted. Presence or absence
// of a credential pair is what gates the legacy provider path.
type CredentialStore struct {
	mu       sync.RWMutex
	email    string
	password string

	repo credentialPersister
}

// NewCredentialStore wires the store to its persistence. A nil repo keeps
// the store memory-only, which the tests use.
func NewCredentialStore(repo credentialPersister) *CredentialStore {
	return &CredentialStore{repo: repo}
}

// Load pulls the persisted credential pair into memory at startup. Missing
// rows are not an error; the legacy path just stays unconfigured.
func (s *CredentialStore) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}

	stored, err := s.repo.FindByProvider(ctx, LegacyProviderName)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	email, err := security.DecryptString(stored.EmailEncrypted)
	if err != nil {
		logger.WithError(err).Error("credentials - failed to decrypt stored email")
		return err
	}
	password, err := security.DecryptString(stored.PasswordEncrypted)
	if err != nil {
		logger.WithError(err).Error("credentials - failed to decrypt stored password")
		return err
	}

	s.mu.Lock()
	s.email = email
	s.password = password
	s.mu.Unlock()

	logger.Info("credentials - legacy login loaded from store")
	return nil
}

// Set replaces the credential pair in memory and persists the encrypted
// copy when a repository is attached.
func (s *CredentialStore) Set(ctx context.Context, email, password string) error {
	s.mu.Lock()
	s.email = email
	s.password = password
	s.mu.Unlock()

	if s.repo == nil {
		return nil
	}

	emailEncrypted, err := security.EncryptString(email)
	if err != nil {
		return err
	}
	passwordEncrypted, err := security.EncryptString(password)
	if err != nil {
		return err
	}

	return s.repo.Upsert(ctx, &model.LegacyCredential{
		Provider:          LegacyProviderName,
		EmailEncrypted:    emailEncrypted,
		PasswordEncrypted: passwordEncrypted,
	})
}

// Get returns the current pair; ok is false when none is configured.
func (s *CredentialStore) Get() (email, password string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.email == "" || s.password == "" {
		return "", "", false
	}
	return s.email, s.password, true
}

// Present reports whether a usable credential pair is configured.
func (s *CredentialStore) Present() bool {
	_, _, ok := s.Get()
	return ok
}
