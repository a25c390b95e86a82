package wallet

import "errors"

var (
	// ErrInvalidMnemonic is returned when a recovery phrase fails the
	// BIP-39 word list or checksum validation
	ErrInvalidMnemonic = errors.New("invalid mnemonic")
	// ErrUninitialized is returned by operations that need a wallet or a
	// chain client the tool does not have yet
	ErrUninitialized = errors.New("wallet is not initialized")
	// ErrUnsupportedImport is returned for import methods a chain cannot
	// honour
	ErrUnsupportedImport = errors.New("import method not supported")
	// ErrUnknownKind ...
	ErrUnknownKind = errors.New("unknown wallet kind")
	// ErrNonHardenedPath is returned when an ed25519 path has a
	// non-hardened component
	ErrNonHardenedPath = errors.New("ed25519 derivation supports hardened indexes only")
	// ErrNullDerivationPath ...
	ErrNullDerivationPath = errors.New("derivation path must not be null")
	// ErrMalformedDerivationPath ...
	ErrMalformedDerivationPath = errors.New("path must contain at least one element")
	// ErrInvalidDerivationPath ...
	ErrInvalidDerivationPath = errors.New("invalid derivation path")
	// ErrLocked is returned by the credential manager while no session is
	// open
	ErrLocked = errors.New("wallet is locked")
	// ErrInvalidPassword ...
	ErrInvalidPassword = errors.New("invalid password")
	// ErrNoCredential is returned when the vault holds no wallet for a kind
	ErrNoCredential = errors.New("no wallet stored for this chain")
)
