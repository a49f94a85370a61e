// Хэширование паролей
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"

	"github.com/IvanChernomyrdin/go-taskboard/internal/server/config"
)

// ErrMalformedHash — дайджест не удалось разобрать.
var ErrMalformedHash = errors.New("invalid hash format")

// PasswordHasher хэширует и проверяет пароли.
//
// Verify возвращает false, nil при несовпадении и ошибку только для битого дайджеста.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, digest string) (bool, error)
}

// NewPasswordHasher выбирает реализацию по секции password конфига.
func NewPasswordHasher(cfg config.PasswordConfig) (PasswordHasher, error) {
	switch strings.ToLower(cfg.Hasher) {
	case "", "bcrypt":
		cost := cfg.Bcrypt.Cost
		if cost == 0 {
			cost = bcrypt.DefaultCost
		}
		return BcryptHasher{Cost: cost}, nil
	case "argon2id":
		return Argon2Hasher{Params: Argon2Params{
			Time:      cfg.Argon2.Time,
			MemoryKiB: cfg.Argon2.MemoryKiB,
			Threads:   cfg.Argon2.Threads,
			KeyLen:    cfg.Argon2.KeyLen,
			SaltLen:   cfg.Argon2.SaltLen,
		}}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", cfg.Hasher)
	}
}

// BcryptHasher — bcrypt с заданным cost.
//
// Пароли длиннее 72 байт bcrypt не принимает, такие сначала сворачиваются в sha256.
type BcryptHasher struct {
	Cost int
}

const bcryptMaxBytes = 72

func bcryptInput(plain string) []byte {
	if len(plain) <= bcryptMaxBytes {
		return []byte(plain)
	}
	sum := sha256.Sum256([]byte(plain))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

func (h BcryptHasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	b, err := bcrypt.GenerateFromPassword(bcryptInput(plain), h.Cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(b), nil
}

func (h BcryptHasher) Verify(plain, digest string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(digest), bcryptInput(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrMalformedHash, err)
	}
}

type Argon2Params struct {
	Time      uint32
	MemoryKiB uint32
	Threads   uint8
	KeyLen    uint32
	SaltLen   uint32
}

// Argon2Hasher — argon2id, дайджест в формате
// argon2id$v=19$m=65536,t=3,p=2$<salt_b64>$<hash_b64>
type Argon2Hasher struct {
	Params Argon2Params
}

func (h Argon2Hasher) Hash(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty password")
	}
	p := h.Params
	if p.KeyLen == 0 {
		p.KeyLen = 32
	}
	if p.SaltLen == 0 {
		p.SaltLen = 16
	}

	salt := make([]byte, p.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	hash := argon2.IDKey([]byte(plain), salt, p.Time, p.MemoryKiB, p.Threads, p.KeyLen)

	return fmt.Sprintf(
		"argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, p.MemoryKiB, p.Time, p.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (h Argon2Hasher) Verify(plain, digest string) (bool, error) {
	parts := strings.Split(digest, "$")
	if len(parts) != 5 || parts[0] != "argon2id" {
		return false, ErrMalformedHash
	}

	// parts[2] = m=...,t=...,p=...
	var memory, time uint32
	var threads uint8
	if _, err := fmt.Sscanf(parts[2], "m=%d,t=%d,p=%d", &memory, &time, &threads); err != nil {
		return false, ErrMalformedHash
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[3])
	if err != nil {
		return false, ErrMalformedHash
	}
	want, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(want) == 0 {
		return false, ErrMalformedHash
	}

	got := argon2.IDKey([]byte(plain), salt, time, memory, threads, uint32(len(want)))
	return subtle.ConstantTimeCompare(got, want) == 1, nil
}
