package tokenstore

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

const (
	fileMode      = 0o600
	dirMode       = 0o700
	scryptN       = 1 << 15
	scryptR       = 8
	scryptP       = 1
	scryptKeyLen  = 32
	scryptSaltLen = 16
)

var ErrDecryptionFailed = errors.New("token file decryption failed")

var _ Store = (*FileStore)(nil)

// FileStore persists the token pair as a JSON document on disk, surviving
// process restarts the way the web client's origin storage survives reloads.
// Writes are atomic (temp file + rename). With a passphrase configured the
// document is encrypted at rest using a scrypt-derived secretbox key.
type FileStore struct {
	path       string
	passphrase string
	lock       sync.Mutex
}

type FileStoreOption func(*FileStore)

// WithPassphrase enables at-rest encryption of the token file.
func WithPassphrase(passphrase string) FileStoreOption {
	return func(fs *FileStore) {
		fs.passphrase = passphrase
	}
}

func NewFileStore(path string, options ...FileStoreOption) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("[NewFileStore] path is required")
	}
	fs := &FileStore{path: path}
	for _, opt := range options {
		opt(fs)
	}
	if err := os.MkdirAll(filepath.Dir(path), dirMode); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create parent directory")
	}
	return fs, nil
}

func (fs *FileStore) AccessToken() (string, error) {
	return fs.get(AccessTokenKey)
}

func (fs *FileStore) RefreshToken() (string, error) {
	return fs.get(RefreshTokenKey)
}

func (fs *FileStore) SetAccessToken(token string) error {
	return fs.set(AccessTokenKey, token)
}

func (fs *FileStore) SetRefreshToken(token string) error {
	return fs.set(RefreshTokenKey, token)
}

func (fs *FileStore) ClearAccessToken() error {
	return fs.clear(AccessTokenKey)
}

func (fs *FileStore) ClearRefreshToken() error {
	return fs.clear(RefreshTokenKey)
}

func (fs *FileStore) get(key string) (string, error) {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return "", err
	}
	token, ok := tokens[key]
	if !ok || token == "" {
		return "", ErrNotFound
	}
	return token, nil
}

func (fs *FileStore) set(key, token string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return err
	}
	tokens[key] = token
	return fs.save(tokens)
}

func (fs *FileStore) clear(key string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	tokens, err := fs.load()
	if err != nil {
		return err
	}
	if _, ok := tokens[key]; !ok {
		return nil
	}
	delete(tokens, key)
	return fs.save(tokens)
}

// encryptedEnvelope is the on-disk format when a passphrase is configured.
type encryptedEnvelope struct {
	Salt  []byte `json:"salt"`
	Nonce []byte `json:"nonce"`
	Data  []byte `json:"data"`
}

func (fs *FileStore) load() (map[string]string, error) {
	raw, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] read token file")
	}
	if len(raw) == 0 {
		return make(map[string]string), nil
	}

	if fs.passphrase != "" {
		raw, err = fs.decrypt(raw)
		if err != nil {
			return nil, err
		}
	}

	tokens := make(map[string]string)
	if err := json.Unmarshal(raw, &tokens); err != nil {
		return nil, errors.Wrap(err, "[FileStore.load] unmarshal token file")
	}
	return tokens, nil
}

func (fs *FileStore) save(tokens map[string]string) error {
	raw, err := json.Marshal(tokens)
	if err != nil {
		return errors.Wrap(err, "[FileStore.save] marshal tokens")
	}

	if fs.passphrase != "" {
		raw, err = fs.encrypt(raw)
		if err != nil {
			return err
		}
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, raw, fileMode); err != nil {
		return errors.Wrap(err, "[FileStore.save] write temp file")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore.save] rename temp file")
	}
	return nil
}

func (fs *FileStore) encrypt(plaintext []byte) ([]byte, error) {
	salt := make([]byte, scryptSaltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[FileStore.encrypt] rand salt")
	}
	key, err := deriveKey(fs.passphrase, salt)
	if err != nil {
		return nil, err
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, errors.Wrap(err, "[FileStore.encrypt] rand nonce")
	}

	sealed := secretbox.Seal(nil, plaintext, &nonce, key)
	return json.Marshal(encryptedEnvelope{
		Salt:  salt,
		Nonce: nonce[:],
		Data:  sealed,
	})
}

func (fs *FileStore) decrypt(raw []byte) ([]byte, error) {
	var envelope encryptedEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrap(err, "[FileStore.decrypt] unmarshal envelope")
	}
	if len(envelope.Nonce) != 24 {
		return nil, ErrDecryptionFailed
	}
	key, err := deriveKey(fs.passphrase, envelope.Salt)
	if err != nil {
		return nil, err
	}

	var nonce [24]byte
	copy(nonce[:], envelope.Nonce)
	plaintext, ok := secretbox.Open(nil, envelope.Data, &nonce, key)
	if !ok {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func deriveKey(passphrase string, salt []byte) (*[32]byte, error) {
	derived, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, scryptKeyLen)
	if err != nil {
		return nil, errors.Wrap(err, "derive token file key")
	}
	var key [32]byte
	copy(key[:], derived)
	return &key, nil
}
