package drafts

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"filippo.io/age"
)

// ageHeader starts every age-encrypted file.
var ageHeader = []byte("age-encryption.org/v1")

// Sealer encrypts and decrypts draft contents with age X25519 keys.
// A zero-key Sealer stores drafts in plain text.
type Sealer struct {
	mu         sync.RWMutex
	recipients []age.Recipient
	identities []age.Identity
}

// NewSealer creates a Sealer with no keys.
func NewSealer() *Sealer {
	return &Sealer{}
}

// AddRecipient adds a public key used for encryption.
func (s *Sealer) AddRecipient(publicKey string) error {
	recipient, err := age.ParseX25519Recipient(publicKey)
	if err != nil {
		return fmt.Errorf("failed to parse recipient: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.recipients = append(s.recipients, recipient)
	return nil
}

// AddIdentity adds a private key used for decryption.
func (s *Sealer) AddIdentity(privateKey string) error {
	identity, err := age.ParseX25519Identity(privateKey)
	if err != nil {
		return fmt.Errorf("failed to parse identity: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = append(s.identities, identity)
	return nil
}

// AddRecipientsFromFile reads one public key per line, skipping blank lines
// and # comments.
func (s *Sealer) AddRecipientsFromFile(path string) error {
	const fileSizeLimit = 16 << 20  // 16MiB
	const lineLengthLimit = 8 << 10 // 8KiB

	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open recipients file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	if stat, err := file.Stat(); err == nil && stat.Size() > fileSizeLimit {
		return fmt.Errorf("recipients file size exceeds limit: %d > %d", stat.Size(), fileSizeLimit)
	}

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if len(line) > lineLengthLimit {
			return fmt.Errorf("recipient line exceeds limit: %d > %d", len(line), lineLengthLimit)
		}

		if err := s.AddRecipient(line); err != nil {
			return err
		}
	}

	return scanner.Err()
}

// AddIdentitiesFromFile reads an age identity file.
func (s *Sealer) AddIdentitiesFromFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open identity file: %w", err)
	}
	defer func(file *os.File) {
		_ = file.Close()
	}(file)

	identities, err := age.ParseIdentities(file)
	if err != nil {
		return fmt.Errorf("failed to parse identities: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.identities = append(s.identities, identities...)
	return nil
}

// LoadKeys loads both key files. Either both are given or encryption stays off.
func (s *Sealer) LoadKeys(identitiesFile, recipientsFile string) error {
	if identitiesFile == "" {
		return fmt.Errorf("no identity file specified")
	}

	if recipientsFile == "" {
		return fmt.Errorf("no recipient file specified")
	}

	if err := s.AddIdentitiesFromFile(identitiesFile); err != nil {
		return fmt.Errorf("failed to load identity file %s: %w", identitiesFile, err)
	}

	if err := s.AddRecipientsFromFile(recipientsFile); err != nil {
		return fmt.Errorf("failed to load recipient file %s: %w", recipientsFile, err)
	}

	return nil
}

// CanSeal reports whether any recipients are configured.
func (s *Sealer) CanSeal() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.recipients) > 0
}

// CanOpen reports whether any identities are configured.
func (s *Sealer) CanOpen() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.identities) > 0
}

// Seal encrypts content to every configured recipient.
func (s *Sealer) Seal(content string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.recipients) == 0 {
		return nil, fmt.Errorf("no recipients configured for encryption")
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, s.recipients...)
	if err != nil {
		return nil, fmt.Errorf("failed to create encrypt writer: %w", err)
	}

	if _, err := io.WriteString(w, content); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("failed to write content: %w", err)
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close encrypt writer: %w", err)
	}

	return buf.Bytes(), nil
}

// Open decrypts sealed content.
func (s *Sealer) Open(sealed []byte) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.identities) == 0 {
		return "", fmt.Errorf("no identities configured for decryption")
	}

	r, err := age.Decrypt(bytes.NewReader(sealed), s.identities...)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt: %w", err)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", fmt.Errorf("failed to read decrypted content: %w", err)
	}

	return buf.String(), nil
}

// IsSealed reports whether content carries the age header.
func IsSealed(content []byte) bool {
	return bytes.HasPrefix(content, ageHeader)
}

// KeyPair describes a generated key pair and where it was written.
type KeyPair struct {
	PublicKey   string
	PrivateKey  string
	PublicPath  string
	PrivatePath string
}

// GenerateKeyPair creates a new X25519 identity and writes it to keysDir as
// lettercheck-key-<timestamp>.pub and .txt.
func GenerateKeyPair(keysDir string) (KeyPair, error) {
	if strings.TrimSpace(keysDir) == "" {
		return KeyPair{}, fmt.Errorf("keys directory must be specified")
	}

	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate identity: %w", err)
	}

	if err := os.MkdirAll(keysDir, 0700); err != nil {
		return KeyPair{}, fmt.Errorf("failed to create key directory: %w", err)
	}

	now := time.Now()
	base := filepath.Join(keysDir, "lettercheck-key-"+now.Format("2006-01-02-15-04-05"))
	kp := KeyPair{
		PublicKey:   identity.Recipient().String(),
		PrivateKey:  identity.String(),
		PublicPath:  base + ".pub",
		PrivatePath: base + ".txt",
	}

	if err := os.WriteFile(kp.PublicPath, []byte(kp.PublicKey+"\n"), 0644); err != nil {
		return KeyPair{}, fmt.Errorf("failed to save public key: %w", err)
	}

	private := fmt.Sprintf("# age identity file\n# generated: %s\n%s\n", now.Format("2006-01-02 15:04:05"), kp.PrivateKey)
	if err := os.WriteFile(kp.PrivatePath, []byte(private), 0600); err != nil {
		return KeyPair{}, fmt.Errorf("failed to save private key: %w", err)
	}

	return kp, nil
}
