package security

import (
	"bytes"
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/youmark/pkcs8"
	"golang.org/x/crypto/pkcs12" //nolint:staticcheck // Swish issues legacy 3DES bundles.

	"github.com/samandr77/microservices/swish/pkg/config"
)

// ErrCredentials means the merchant certificate, key or passphrase could not be used.
var ErrCredentials = errors.New("invalid credentials")

const redacted = "[REDACTED]"

// Credentials is the merchant certificate, private key and passphrase.
// The secret material is only reachable through TLSConfig and is wiped once the
// TLS configuration has been built.
type Credentials struct {
	cert       []byte
	key        []byte
	bundle     []byte
	passphrase []byte
	rootCAs    []byte

	once sync.Once
	cfg  *tls.Config
	err  error
}

type Option func(c *Credentials)

// WithRootCAs sets PEM encoded certificates used to verify the Swish server.
// The system pool is used when it is not set.
func WithRootCAs(pemCerts []byte) Option {
	return func(c *Credentials) {
		c.rootCAs = bytes.Clone(pemCerts)
	}
}

// NewCredentials accepts a PEM certificate chain and a PEM private key. The key may be
// encrypted either as "ENCRYPTED PRIVATE KEY" (PKCS#8) or as a legacy encrypted PEM block.
func NewCredentials(cert, key []byte, passphrase string, opts ...Option) *Credentials {
	c := &Credentials{
		cert:       bytes.Clone(cert),
		key:        bytes.Clone(key),
		passphrase: []byte(passphrase),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewPKCS12Credentials accepts a .p12 bundle as issued by the Swish certificate portal.
func NewPKCS12Credentials(bundle []byte, passphrase string, opts ...Option) *Credentials {
	c := &Credentials{
		bundle:     bytes.Clone(bundle),
		passphrase: []byte(passphrase),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// LoadCredentials reads the configured files. A PKCS#12 bundle wins over a certificate/key pair.
func LoadCredentials(cfg config.Swish) (*Credentials, error) {
	var opts []Option

	if cfg.CACertPath != "" {
		ca, err := os.ReadFile(cfg.CACertPath)
		if err != nil {
			return nil, fmt.Errorf("%w: read ca certificate: %w", ErrCredentials, err)
		}

		opts = append(opts, WithRootCAs(ca))
	}

	if cfg.PKCS12Path != "" {
		bundle, err := os.ReadFile(cfg.PKCS12Path)
		if err != nil {
			return nil, fmt.Errorf("%w: read pkcs12 bundle: %w", ErrCredentials, err)
		}

		defer clear(bundle)

		return NewPKCS12Credentials(bundle, cfg.Passphrase, opts...), nil
	}

	if cfg.CertPath == "" || cfg.KeyPath == "" {
		return nil, fmt.Errorf("%w: either a pkcs12 bundle or a certificate and a key are required", ErrCredentials)
	}

	cert, err := os.ReadFile(cfg.CertPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read certificate: %w", ErrCredentials, err)
	}

	key, err := os.ReadFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("%w: read private key: %w", ErrCredentials, err)
	}

	defer clear(key)

	return NewCredentials(cert, key, cfg.Passphrase, opts...), nil
}

// TLSConfig returns a client configuration presenting the merchant certificate.
// It is safe for concurrent use; every call returns a fresh clone.
func (c *Credentials) TLSConfig() (*tls.Config, error) {
	c.once.Do(func() {
		c.cfg, c.err = c.build()
		c.wipe()
	})

	if c.err != nil {
		return nil, c.err
	}

	return c.cfg.Clone(), nil
}

func (c *Credentials) build() (*tls.Config, error) {
	var (
		certificate tls.Certificate
		err         error
	)

	if c.bundle != nil {
		certificate, err = parsePKCS12(c.bundle, c.passphrase)
	} else {
		certificate, err = parsePEM(c.cert, c.key, c.passphrase)
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCredentials, err)
	}

	cfg := &tls.Config{
		Certificates: []tls.Certificate{certificate},
		MinVersion:   tls.VersionTLS12,
	}

	if c.rootCAs != nil {
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(c.rootCAs) {
			return nil, fmt.Errorf("%w: no ca certificates found", ErrCredentials)
		}

		cfg.RootCAs = pool
	}

	return cfg, nil
}

func (c *Credentials) wipe() {
	clear(c.cert)
	clear(c.key)
	clear(c.bundle)
	clear(c.passphrase)

	c.cert, c.key, c.bundle, c.passphrase = nil, nil, nil, nil
}

func (c *Credentials) String() string {
	return redacted
}

func (c *Credentials) GoString() string {
	return redacted
}

func (c *Credentials) LogValue() slog.Value {
	return slog.StringValue(redacted)
}

func (c *Credentials) MarshalJSON() ([]byte, error) {
	return nil, errors.New("credentials are not serializable")
}

func (c *Credentials) MarshalText() ([]byte, error) {
	return nil, errors.New("credentials are not serializable")
}

func parsePEM(certPEM, keyPEM, passphrase []byte) (tls.Certificate, error) {
	var (
		chain    [][]byte
		keyBlock *pem.Block
	)

	for rest := certPEM; ; {
		var block *pem.Block

		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		if block.Type == "CERTIFICATE" {
			chain = append(chain, block.Bytes)
		}
	}

	for rest := keyPEM; ; {
		var block *pem.Block

		block, rest = pem.Decode(rest)
		if block == nil {
			break
		}

		if block.Type == "PRIVATE KEY" || strings.HasSuffix(block.Type, " PRIVATE KEY") {
			keyBlock = block
			break
		}
	}

	if len(chain) == 0 {
		return tls.Certificate{}, errors.New("no certificate pem block found")
	}

	if keyBlock == nil {
		return tls.Certificate{}, errors.New("no private key pem block found")
	}

	key, err := decodePrivateKey(keyBlock, passphrase)
	if err != nil {
		return tls.Certificate{}, err
	}

	return assemble(chain, key)
}

func decodePrivateKey(block *pem.Block, passphrase []byte) (crypto.PrivateKey, error) {
	switch {
	case block.Type == "ENCRYPTED PRIVATE KEY":
		if len(passphrase) == 0 {
			return nil, errors.New("private key is encrypted but no passphrase is set")
		}

		key, err := pkcs8.ParsePKCS8PrivateKey(block.Bytes, passphrase)
		if err != nil {
			return nil, fmt.Errorf("decrypt pkcs8 private key: %w", err)
		}

		return key, nil

	case x509.IsEncryptedPEMBlock(block): //nolint:staticcheck
		if len(passphrase) == 0 {
			return nil, errors.New("private key is encrypted but no passphrase is set")
		}

		der, err := x509.DecryptPEMBlock(block, passphrase) //nolint:staticcheck
		if err != nil {
			return nil, fmt.Errorf("decrypt pem private key: %w", err)
		}

		defer clear(der)

		return parsePrivateKeyDER(der)

	default:
		return parsePrivateKeyDER(block.Bytes)
	}
}

func parsePrivateKeyDER(der []byte) (crypto.PrivateKey, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}

	if key, err := x509.ParsePKCS8PrivateKey(der); err == nil {
		return key, nil
	}

	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}

	return nil, errors.New("unsupported private key format")
}

func parsePKCS12(bundle, passphrase []byte) (tls.Certificate, error) {
	blocks, err := pkcs12.ToPEM(bundle, string(passphrase))
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("decode pkcs12 bundle: %w", err)
	}

	var (
		chain [][]byte
		key   crypto.PrivateKey
	)

	for _, block := range blocks {
		switch block.Type {
		case "CERTIFICATE":
			chain = append(chain, block.Bytes)
		case "PRIVATE KEY":
			key, err = parsePrivateKeyDER(block.Bytes)
			clear(block.Bytes)

			if err != nil {
				return tls.Certificate{}, err
			}
		}
	}

	if len(chain) == 0 || key == nil {
		return tls.Certificate{}, errors.New("pkcs12 bundle must contain a certificate and a private key")
	}

	return assemble(chain, key)
}

type publicKeyEqualer interface {
	Equal(x crypto.PublicKey) bool
}

// assemble puts the certificate matching the key first, as crypto/tls expects the leaf there.
func assemble(chain [][]byte, key crypto.PrivateKey) (tls.Certificate, error) {
	var pub crypto.PublicKey

	switch k := key.(type) {
	case *rsa.PrivateKey:
		pub = k.Public()
	case *ecdsa.PrivateKey:
		pub = k.Public()
	case ed25519.PrivateKey:
		pub = k.Public()
	default:
		return tls.Certificate{}, fmt.Errorf("unsupported private key type %T", key)
	}

	for i, der := range chain {
		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("parse certificate: %w", err)
		}

		eq, ok := cert.PublicKey.(publicKeyEqualer)
		if !ok || !eq.Equal(pub) {
			continue
		}

		ordered := make([][]byte, 0, len(chain))
		ordered = append(ordered, der)
		ordered = append(ordered, chain[:i]...)
		ordered = append(ordered, chain[i+1:]...)

		return tls.Certificate{
			Certificate: ordered,
			PrivateKey:  key,
			Leaf:        cert,
		}, nil
	}

	return tls.Certificate{}, errors.New("private key does not match any certificate")
}
